package commands

import (
	"context"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/blogkit/internal/config"
	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/project"
	"git.home.luguber.info/inful/blogkit/internal/update"
	"git.home.luguber.info/inful/blogkit/internal/versioning"
	"git.home.luguber.info/inful/blogkit/internal/workspace"
)

// newChecker wires a version checker for the project.
func newChecker(g *Global, s *config.Settings) *versioning.Checker {
	c := &versioning.Checker{
		Current: func() (string, error) {
			pkg, err := project.Load(filepath.Join(s.ProjectRoot, project.FileName))
			if err != nil {
				return "", err
			}
			return versioning.CurrentVersion(pkg, s.TemplateName), nil
		},
		Latest: func(ctx context.Context) (string, error) {
			return versioning.RemoteLatest(ctx, gitClient(g, s, ""), s.TemplateRepo, nil)
		},
		Update: func(ctx context.Context, version string) error {
			return applyUpdate(ctx, g, s, version)
		},
		Env: versioning.DetectEnvironment(s.Getenv),
	}
	if site, err := loadSite(s); err == nil {
		c.ForceUpdate = site.Config.Automation.ForceUpdate
	}
	return c
}

// applyUpdate installs template release version into the project.
func applyUpdate(ctx context.Context, g *Global, s *config.Settings, version string) error {
	ws := workspace.NewPersistentManager(s.WorkspacePath(), "template")
	tpl, cleanup, err := fetchTemplate(ctx, g, s, ws, version)
	if err != nil {
		return err
	}
	defer cleanup()
	if _, err := update.SyncComponents(s.ProjectRoot, tpl, time.Now()); err != nil {
		return err
	}
	defaults, err := config.DefaultSite(tpl.Root)
	if err != nil {
		return err
	}
	_, err = update.Postinstall(update.PostinstallOptions{
		ProjectRoot: s.ProjectRoot,
		PublicDir:   s.PublicPath(),
		SiteConfig:  s.SiteConfigPath(),
		Version:     tpl.Version,
		Defaults:    defaults,
	})
	if err != nil {
		return ferrors.UpdateError("post-update migration failed").WithCause(err).Build()
	}
	return nil
}

// CheckVersionCmd implements the 'check-version' command.
type CheckVersionCmd struct {
	SkipCheck bool `name:"skip-check" help:"Skip the check"`
}

func (c *CheckVersionCmd) Run(g *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	_, err = newChecker(g, s).Check(g.context(), c.SkipCheck)
	return err
}

// AutoUpdateCmd implements the 'auto-update' command.
type AutoUpdateCmd struct{}

func (a *AutoUpdateCmd) Run(g *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	_, err = newChecker(g, s).AutoUpdate(g.context())
	return err
}
