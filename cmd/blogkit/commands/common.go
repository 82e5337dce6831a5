package commands

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"git.home.luguber.info/inful/blogkit/internal/config"
	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/git"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
	"git.home.luguber.info/inful/blogkit/internal/metrics"
	"git.home.luguber.info/inful/blogkit/internal/retry"
	"git.home.luguber.info/inful/blogkit/internal/update"
	"git.home.luguber.info/inful/blogkit/internal/workspace"
)

// Global is shared state bound into every command's Run.
type Global struct {
	Logger   *slog.Logger
	Recorder metrics.Recorder
	Ctx      context.Context

	prom *metrics.PrometheusRecorder
}

// CLI definition & global flags.
type CLI struct {
	Root        string `short:"C" help:"Blog project root" default:"." type:"path"`
	Verbose     bool   `short:"v" help:"Enable verbose logging"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics in textfile format after the run" type:"path"`

	PublicDir    string `name:"public-dir" help:"Override the public directory"`
	ContentDir   string `name:"content-dir" help:"Override the content directory"`
	SiteConfig   string `name:"site-config" help:"Override the site configuration file"`
	TemplateRoot string `name:"template-root" help:"Override the installed template directory"`
	TemplateRepo string `name:"template-repo" help:"Override the template git repository"`
	Widths       string `help:"Comma separated responsive image widths"`

	Build             BuildCmd             `cmd:"" help:"Run the full asset pipeline, then the site build"`
	Dev               DevCmd               `cmd:"" aliases:"watch" help:"Prepare assets and regenerate them on change"`
	Resize            ResizeCmd            `cmd:"" help:"Generate responsive width variants next to original images"`
	ResizeBuild       ResizeBuildCmd       `cmd:"" name:"resize-build" help:"Mirror public into dist and add missing variants"`
	Optimize          OptimizeCmd          `cmd:"" help:"Re-encode originals and regenerate variants"`
	Flatten           FlattenCmd           `cmd:"" help:"Copy images from sub-folders into the image root"`
	Previews          PreviewsCmd          `cmd:"" help:"Generate preview images for referenced pictures"`
	PreviewsBuild     PreviewsBuildCmd     `cmd:"" name:"previews-build" help:"Generate previews for the build output"`
	CleanResized      CleanResizedCmd      `cmd:"" name:"clean-resized" help:"Remove committed width variants from the git index"`
	SetupImages       SetupImagesCmd       `cmd:"" name:"setup-images" help:"Create the user image directories"`
	Typograf          TypografCmd          `cmd:"" help:"Normalize typography in content files"`
	Content           ContentCmd           `cmd:"" help:"Inspect and validate content collections"`
	Featured          FeaturedCmd          `cmd:"" help:"Manage featured entries"`
	Upgrade           UpgradeCmd           `cmd:"" help:"Merge new default settings into the site configuration"`
	ForceUpdate       ForceUpdateCmd       `cmd:"" name:"force-update" help:"Toggle automation.forceUpdate in the site configuration"`
	CheckVersion      CheckVersionCmd      `cmd:"" name:"check-version" help:"Check for a newer template release"`
	AutoUpdate        AutoUpdateCmd        `cmd:"" name:"auto-update" help:"Install a newer template release when available"`
	Update            UpdateCmd            `cmd:"" help:"Sync template components into the project"`
	UpdateBlogs       UpdateBlogsCmd       `cmd:"" name:"update-blogs" help:"Update several blog projects to the template version"`
	CleanupDuplicates CleanupDuplicatesCmd `cmd:"" name:"cleanup-duplicates" help:"Remove duplicate files left by sync tools"`
	Backup            BackupCmd            `cmd:"" help:"Back up content, styles and configuration"`
	Verify            VerifyCmd            `cmd:"" help:"Verify protected assets and the license"`
	Netlify           NetlifyCmd           `cmd:"" help:"Manage netlify.toml"`
	Postinstall       PostinstallCmd       `cmd:"" help:"Upgrade configuration after a template install"`
	Init              InitCmd              `cmd:"" help:"Create a new blog from the template"`
	Version           VersionCmd           `cmd:"" help:"Show version and exit"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel honours BLOGKIT_LOG_LEVEL over the verbose flag.
func parseLogLevel(verbose bool) slog.Level {
	switch strings.ToLower(os.Getenv("BLOGKIT_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// NewGlobal builds the shared state for a parsed command line.
func NewGlobal(ctx context.Context, c *CLI) *Global {
	g := &Global{Logger: slog.Default(), Recorder: metrics.NoopRecorder{}, Ctx: ctx}
	if c.MetricsFile != "" {
		g.prom = metrics.NewPrometheusRecorder(nil)
		g.Recorder = g.prom
	}
	return g
}

// Flush writes collected metrics when --metrics-file is set.
func (g *Global) Flush(c *CLI) error {
	if g.prom == nil || c.MetricsFile == "" {
		return nil
	}
	if err := g.prom.WriteTextfile(c.MetricsFile); err != nil {
		return ferrors.FileSystemError("write metrics file").WithCause(err).WithContext("path", c.MetricsFile).Build()
	}
	slog.Debug("Wrote metrics", logfields.Path(c.MetricsFile))
	return nil
}

func (g *Global) context() context.Context {
	if g.Ctx == nil {
		return context.Background()
	}
	return g.Ctx
}

// Settings loads tool settings for the project and applies flag overrides.
func (c *CLI) Settings() (*config.Settings, error) {
	s, err := config.Load(c.Root)
	if err != nil {
		return nil, ferrors.ConfigError("load settings").WithCause(err).Build()
	}
	overrides := []struct {
		flag string
		dst  *string
	}{
		{c.PublicDir, &s.PublicDir},
		{c.ContentDir, &s.ContentDir},
		{c.SiteConfig, &s.SiteConfig},
		{c.TemplateRoot, &s.TemplateRoot},
		{c.TemplateRepo, &s.TemplateRepo},
	}
	for _, o := range overrides {
		if o.flag != "" {
			*o.dst = o.flag
		}
	}
	if c.Widths != "" {
		widths, err := config.ParseWidths(c.Widths)
		if err != nil {
			return nil, ferrors.ValidationError("invalid --widths").WithCause(err).Build()
		}
		s.Widths = widths
	}
	return s, nil
}

// loadSite reads the blog's site configuration, falling back to the
// template defaults when the blog has none.
func loadSite(s *config.Settings) (*config.SiteDocument, error) {
	doc, err := config.LoadSite(s.SiteConfigPath())
	if ferrors.HasCategory(err, ferrors.CategoryNotFound) {
		slog.Debug("No site configuration, using defaults", logfields.Path(s.SiteConfigPath()))
		return config.DefaultSite(s.TemplatePath())
	}
	return doc, err
}

// templateSource locates the template: the installed copy unless fromGit is
// set or it is missing, otherwise a checkout of version from the template
// repository. The returned cleanup removes any checkout.
func templateSource(ctx context.Context, s *config.Settings, g *Global, fromGit bool, version string) (*update.Template, func(), error) {
	noop := func() {}
	if !fromGit {
		if info, err := os.Stat(s.TemplatePath()); err == nil && info.IsDir() {
			tpl, err := update.LocalTemplate(s.TemplatePath(), s.TemplateName)
			return tpl, noop, err
		}
		slog.Info("Installed template not found, fetching from git", logfields.Path(s.TemplatePath()))
	}

	return fetchTemplate(ctx, g, s, workspace.NewManager(""), version)
}

// fetchTemplate checks version out into ws. The returned cleanup removes an
// ephemeral workspace and keeps a persistent one for the next run.
func fetchTemplate(ctx context.Context, g *Global, s *config.Settings, ws *workspace.Manager, version string) (*update.Template, func(), error) {
	noop := func() {}
	if err := ws.Create(); err != nil {
		return nil, noop, ferrors.FileSystemError("create workspace").WithCause(err).Build()
	}
	cleanup := func() {
		if ws.Persistent() {
			slog.Debug("Keeping template workspace", logfields.Path(ws.Path()))
			return
		}
		if err := ws.Cleanup(); err != nil {
			slog.Warn("Failed to cleanup workspace", logfields.Error(err))
		}
	}
	dir, err := ws.Subdir("checkouts")
	if err != nil {
		cleanup()
		return nil, noop, ferrors.FileSystemError("create workspace").WithCause(err).Build()
	}
	f := &update.Fetcher{
		Client: gitClient(g, s, dir),
		URL:    s.TemplateRepo,
		Name:   s.TemplateName,
	}
	tpl, err := f.Fetch(ctx, version)
	if err != nil {
		cleanup()
		return nil, noop, err
	}
	return tpl, cleanup, nil
}

// gitClient builds a client for dir using the BLOGKIT_GIT_* tuning.
func gitClient(g *Global, s *config.Settings, dir string) *git.Client {
	policy := retry.NewPolicy(retry.Mode(s.GitRetryMode), s.GitRetryDelay, 0, s.GitRetries)
	return git.NewClient(dir).
		WithRecorder(g.Recorder).
		WithRetryPolicy(policy).
		WithDepth(s.GitDepth)
}
