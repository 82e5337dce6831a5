package content

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

type blogSchema struct {
	Title       string `yaml:"title" validate:"required"`
	PublishDate *Date  `yaml:"publishDate" validate:"required"`
	UpdatedDate *Date  `yaml:"updatedDate"`
	Image       *Image `yaml:"image" validate:"omitempty"`
	SEO         *SEO   `yaml:"seo" validate:"omitempty"`
}

type authorSchema struct {
	Name        string `yaml:"name" validate:"required"`
	Position    string `yaml:"position" validate:"required"`
	Description string `yaml:"description" validate:"required"`
	SEO         *SEO   `yaml:"seo" validate:"omitempty"`
}

type titledSchema struct {
	Title string `yaml:"title" validate:"required"`
	Image *Image `yaml:"image" validate:"omitempty"`
	SEO   *SEO   `yaml:"seo" validate:"omitempty"`
}

type looseSchema struct {
	Image *Image `yaml:"image" validate:"omitempty"`
	SEO   *SEO   `yaml:"seo" validate:"omitempty"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

func schemaFor(e Entry) any {
	d := e.Data
	switch e.Collection {
	case Blog:
		return blogSchema{Title: d.Title, PublishDate: d.PublishDate, UpdatedDate: d.UpdatedDate, Image: d.Image, SEO: d.SEO}
	case Authors:
		return authorSchema{Name: d.Name, Position: d.Position, Description: d.Description, SEO: d.SEO}
	case Projects, Products, Pages:
		return titledSchema{Title: d.Title, Image: d.Image, SEO: d.SEO}
	default:
		return looseSchema{Image: d.Image, SEO: d.SEO}
	}
}

// Validate checks the entry against its collection schema: posts need a
// title and publish date, authors a name, position and description, and
// projects, products and pages a title.
func Validate(e Entry) error {
	err := validatorInstance().Struct(schemaFor(e))
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	_, field, _ := strings.Cut(fe.Namespace(), ".")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

// ValidateAll validates entries and returns one problem per invalid entry.
func ValidateAll(entries []Entry) []Problem {
	var problems []Problem
	for _, e := range entries {
		if err := Validate(e); err != nil {
			problems = append(problems, Problem{Path: e.Path, Err: err})
		}
	}
	return problems
}
