package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
)

//go:embed default_blog.config.yaml
var defaultSiteConfig []byte

// SiteConfig is the typed view of the fields blogkit reads from the blog's
// configuration file. Everything else is carried through untouched in the
// document node.
type SiteConfig struct {
	ConfigVersion   string     `yaml:"configVersion"`
	ShowExamples    *bool      `yaml:"showExamples"`
	DefaultAuthorID string     `yaml:"defaultAuthorId"`
	DefaultLang     string     `yaml:"defaultLang"`
	IsProTemplate   bool       `yaml:"isProTemplate"`
	Automation      Automation `yaml:"automation"`
	Repository      Repository `yaml:"repository"`
	Netlify         Netlify    `yaml:"netlify"`
	PWA             *PWA       `yaml:"pwa"`
}

type Automation struct {
	ForceUpdate bool `yaml:"forceUpdate"`
}

type Repository struct {
	URL            string `yaml:"url"`
	NetlifyEnabled *bool  `yaml:"netlifyEnabled"`
}

// Netlify holds deployment settings rendered into netlify.toml.
type Netlify struct {
	AutoUpdate   *bool             `yaml:"autoUpdate"`
	Plugins      []string          `yaml:"plugins"`
	BuildCommand string            `yaml:"buildCommand"`
	PublishDir   string            `yaml:"publishDir"`
	Environment  map[string]string `yaml:"environment"`
	Redirects    []Redirect        `yaml:"redirects"`
	Headers      []HeaderRule      `yaml:"headers"`
}

type Redirect struct {
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Status int    `yaml:"status"`
	Force  bool   `yaml:"force"`
}

type HeaderRule struct {
	For    string            `yaml:"for"`
	Values map[string]string `yaml:"values"`
}

type PWA struct {
	ThemeColor      string `yaml:"themeColor"`
	BackgroundColor string `yaml:"backgroundColor"`
}

// ExamplesEnabled reports whether example content is shown; absent means true.
func (c SiteConfig) ExamplesEnabled() bool {
	return c.ShowExamples == nil || *c.ShowExamples
}

// NetlifyAutoUpdate reports whether Netlify builds may self-update; absent means true.
func (c SiteConfig) NetlifyAutoUpdate() bool {
	return c.Netlify.AutoUpdate == nil || *c.Netlify.AutoUpdate
}

// SiteDocument is a loaded site configuration file.
type SiteDocument struct {
	Path   string
	Root   *yaml.Node
	Config SiteConfig
}

// ParseSite decodes data into a document. Empty input yields an empty mapping.
func ParseSite(data []byte, path string) (*SiteDocument, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid site configuration").
			WithContext("path", path).Build()
	}
	if root.Kind == 0 {
		root = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) != 1 || root.Content[0].Kind != yaml.MappingNode {
		return nil, ferrors.ConfigError("site configuration must be a mapping").WithContext("path", path).Build()
	}
	doc := &SiteDocument{Path: path, Root: &root}
	if err := doc.Refresh(); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadSite reads the site configuration at path.
func LoadSite(path string) (*SiteDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.NotFoundError("site configuration not found").WithContext("path", path).Fatal().Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read site configuration").
			WithContext("path", path).Build()
	}
	return ParseSite(data, path)
}

// DefaultSite returns the template's default configuration. A copy shipped
// in templateRoot wins over the built-in one.
func DefaultSite(templateRoot string) (*SiteDocument, error) {
	if templateRoot != "" {
		candidate := filepath.Join(templateRoot, DefaultSiteConfigPath)
		if _, err := os.Stat(candidate); err == nil {
			return LoadSite(candidate)
		}
	}
	return ParseSite(defaultSiteConfig, "<built-in>")
}

// Mapping returns the top-level mapping node.
func (d *SiteDocument) Mapping() *yaml.Node {
	return d.Root.Content[0]
}

// Refresh re-decodes the typed view from the node tree after edits.
func (d *SiteDocument) Refresh() error {
	var cfg SiteConfig
	if err := d.Root.Decode(&cfg); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "decode site configuration").
			WithContext("path", d.Path).Build()
	}
	d.Config = cfg
	return nil
}

// Bytes encodes the document, keeping key order and comments.
func (d *SiteDocument) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.Root); err != nil {
		return nil, fmt.Errorf("encode site configuration: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the document back to Path.
func (d *SiteDocument) Save() error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(d.Path), 0o755); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create config directory").WithContext("path", d.Path).Build()
	}
	if err := os.WriteFile(d.Path, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write site configuration").WithContext("path", d.Path).Build()
	}
	return nil
}
