package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Settings controls where blogkit looks for things in a blog project.
// Relative directories are resolved against ProjectRoot.
type Settings struct {
	ProjectRoot  string
	PublicDir    string
	ContentDir   string
	DistDir      string
	SiteConfig   string
	CacheFile    string
	TemplateName string
	TemplateRoot string
	TemplateRepo string
	WorkspaceDir string
	Widths       []int

	// Git transport tuning. GitDepth 0 fetches full history and GitRetries
	// below zero keeps the default retry count.
	GitDepth      int
	GitRetries    int
	GitRetryMode  string
	GitRetryDelay time.Duration

	dotenv map[string]string
}

// env variable -> settings field
var envBindings = []struct {
	key string
	set func(*Settings, string)
}{
	{"BLOGKIT_PUBLIC_DIR", func(s *Settings, v string) { s.PublicDir = v }},
	{"BLOGKIT_CONTENT_DIR", func(s *Settings, v string) { s.ContentDir = v }},
	{"BLOGKIT_DIST_DIR", func(s *Settings, v string) { s.DistDir = v }},
	{"BLOGKIT_SITE_CONFIG", func(s *Settings, v string) { s.SiteConfig = v }},
	{"BLOGKIT_TYPOGRAF_CACHE", func(s *Settings, v string) { s.CacheFile = v }},
	{"BLOGKIT_TEMPLATE_NAME", func(s *Settings, v string) { s.TemplateName = v }},
	{"BLOGKIT_TEMPLATE_ROOT", func(s *Settings, v string) { s.TemplateRoot = v }},
	{"BLOGKIT_TEMPLATE_REPO", func(s *Settings, v string) { s.TemplateRepo = v }},
	{"BLOGKIT_WORKSPACE_DIR", func(s *Settings, v string) { s.WorkspaceDir = v }},
	{"BLOGKIT_GIT_RETRY_MODE", func(s *Settings, v string) { s.GitRetryMode = v }},
}

// Load builds Settings for the project at root: built-in defaults, then
// .env/.env.local, then BLOGKIT_* process environment.
func Load(root string) (*Settings, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}
	s := &Settings{ProjectRoot: abs, GitDepth: DefaultGitDepth, GitRetries: -1, dotenv: readEnvFiles(abs)}

	for _, b := range envBindings {
		if v, ok := s.LookupEnv(b.key); ok && v != "" {
			b.set(s, v)
		}
	}
	if err := s.loadGitTuning(); err != nil {
		return nil, err
	}
	if v, ok := s.LookupEnv("BLOGKIT_WIDTHS"); ok && v != "" {
		widths, err := ParseWidths(v)
		if err != nil {
			return nil, err
		}
		s.Widths = widths
	}

	applyDefaults(s)
	return s, nil
}

func (s *Settings) loadGitTuning() error {
	for _, b := range []struct {
		key string
		dst *int
	}{
		{"BLOGKIT_GIT_DEPTH", &s.GitDepth},
		{"BLOGKIT_GIT_RETRIES", &s.GitRetries},
	} {
		v, ok := s.LookupEnv(b.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return fmt.Errorf("invalid %s %q", b.key, v)
		}
		*b.dst = n
	}
	if v, ok := s.LookupEnv("BLOGKIT_GIT_RETRY_DELAY"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid BLOGKIT_GIT_RETRY_DELAY %q", v)
		}
		s.GitRetryDelay = d
	}
	return nil
}

// ParseWidths parses a comma separated list of positive pixel widths.
func ParseWidths(v string) ([]int, error) {
	var out []int
	for part := range strings.SplitSeq(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid width %q", part)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no widths in %q", v)
	}
	return out, nil
}

// Resolve joins rel onto the project root unless it is already absolute.
func (s *Settings) Resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(s.ProjectRoot, rel)
}

func (s *Settings) PublicPath() string     { return s.Resolve(s.PublicDir) }
func (s *Settings) ContentPath() string    { return s.Resolve(s.ContentDir) }
func (s *Settings) DistPath() string       { return s.Resolve(s.DistDir) }
func (s *Settings) SiteConfigPath() string { return s.Resolve(s.SiteConfig) }
func (s *Settings) CachePath() string      { return s.Resolve(s.CacheFile) }
func (s *Settings) TemplatePath() string   { return s.Resolve(s.TemplateRoot) }
func (s *Settings) WorkspacePath() string  { return s.Resolve(s.WorkspaceDir) }

// ImagesPath is the root of the blog's image tree (public/img).
func (s *Settings) ImagesPath() string { return filepath.Join(s.PublicPath(), "img") }
