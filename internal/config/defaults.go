package config

// Default locations, relative to the project root.
const (
	DefaultPublicDir      = "public"
	DefaultContentDir     = "src/content"
	DefaultDistDir        = "dist"
	DefaultSiteConfigPath = "src/config/blog.config.yaml"
	DefaultCacheFile      = ".typograf-cache.json"
	DefaultTemplateName   = "core-maugli"
	DefaultTemplateRepo   = "https://github.com/dashapps/core-maugli-blog"
	DefaultWorkspaceDir   = ".blogkit"
	DefaultGitDepth       = 1
)

// DefaultWidths are the responsive image widths generated for every original.
var DefaultWidths = []int{400, 800, 1200}

// applyDefaults fills every empty field of s.
func applyDefaults(s *Settings) {
	if s.ProjectRoot == "" {
		s.ProjectRoot = "."
	}
	if s.PublicDir == "" {
		s.PublicDir = DefaultPublicDir
	}
	if s.ContentDir == "" {
		s.ContentDir = DefaultContentDir
	}
	if s.DistDir == "" {
		s.DistDir = DefaultDistDir
	}
	if s.SiteConfig == "" {
		s.SiteConfig = DefaultSiteConfigPath
	}
	if s.CacheFile == "" {
		s.CacheFile = DefaultCacheFile
	}
	if s.TemplateName == "" {
		s.TemplateName = DefaultTemplateName
	}
	if s.TemplateRepo == "" {
		s.TemplateRepo = DefaultTemplateRepo
	}
	if s.TemplateRoot == "" {
		s.TemplateRoot = "node_modules/" + s.TemplateName
	}
	if s.WorkspaceDir == "" {
		s.WorkspaceDir = DefaultWorkspaceDir
	}
	if len(s.Widths) == 0 {
		s.Widths = append([]int(nil), DefaultWidths...)
	}
}
