package content

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Collection names a content directory under src/content.
type Collection string

const (
	Blog     Collection = "blog"
	Authors  Collection = "authors"
	Projects Collection = "projects"
	Products Collection = "products"
	Tags     Collection = "tags"
	Pages    Collection = "pages"
)

// Collections lists every known collection.
var Collections = []Collection{Blog, Authors, Projects, Products, Tags, Pages}

// ParseCollection maps a name to a Collection.
func ParseCollection(name string) (Collection, error) {
	for _, c := range Collections {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown collection %q", name)
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Date is a front matter date. It accepts YAML timestamps as well as quoted
// date strings.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalYAML(n *yaml.Node) error {
	var t time.Time
	if err := n.Decode(&t); err == nil {
		d.Time = t
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, n.Value); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("line %d: invalid date %q", n.Line, n.Value)
}

// Image is an image reference. A bare string is read as its src.
type Image struct {
	Src     string `yaml:"src" validate:"required"`
	Alt     string `yaml:"alt,omitempty"`
	Caption string `yaml:"caption,omitempty"`
	Width   string `yaml:"width,omitempty"`
	Height  string `yaml:"height,omitempty"`
	Type    string `yaml:"type,omitempty" validate:"omitempty,oneof=image/jpeg image/png image/webp"`
	IsCover bool   `yaml:"isCover,omitempty"`
}

func (i *Image) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		i.Src = n.Value
		return nil
	}
	type plain Image
	return n.Decode((*plain)(i))
}

// SEO holds the optional search metadata block.
type SEO struct {
	Title       string   `yaml:"title" validate:"omitempty,min=5,max=120"`
	Description string   `yaml:"description" validate:"omitempty,min=15,max=160"`
	Keywords    []string `yaml:"keywords"`
	Image       *Image   `yaml:"image" validate:"omitempty"`
	PageType    string   `yaml:"pageType" validate:"omitempty,oneof=website article"`
}

// Data is the union of front matter fields blogkit reads across collections.
type Data struct {
	Title       string   `yaml:"title"`
	Name        string   `yaml:"name"`
	Position    string   `yaml:"position"`
	Description string   `yaml:"description"`
	Excerpt     string   `yaml:"excerpt"`
	PublishDate *Date    `yaml:"publishDate"`
	UpdatedDate *Date    `yaml:"updatedDate"`
	IsFeatured  bool     `yaml:"isFeatured"`
	IsExample   bool     `yaml:"isExample"`
	Tags        []string `yaml:"tags"`
	Author      string   `yaml:"author"`
	InLanguage  string   `yaml:"inLanguage"`
	Image       *Image   `yaml:"image"`
	SEO         *SEO     `yaml:"seo"`
}

// Entry is one content file.
type Entry struct {
	// ID is the path below the collection directory without extension.
	ID         string
	Collection Collection
	Path       string
	Data       Data
	Body       []byte
}

// Published returns the publish date, or the zero time when unset.
func (e Entry) Published() time.Time {
	if e.Data.PublishDate == nil {
		return time.Time{}
	}
	return e.Data.PublishDate.Time
}
