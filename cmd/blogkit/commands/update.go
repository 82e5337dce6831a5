package commands

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/blogkit/internal/config"
	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/update"
)

// UpdateCmd implements the 'update' command.
type UpdateCmd struct {
	FromGit bool   `name:"from-git" help:"Fetch the template from its git repository instead of the installed copy"`
	Version string `help:"Template release to fetch with --from-git (default: latest branch head)"`
	Backup  bool   `help:"Back up content and configuration first"`
}

func (u *UpdateCmd) Run(g *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	if u.Backup {
		if _, err := update.Backup(s.ProjectRoot, s.SiteConfig, time.Now()); err != nil {
			return err
		}
	}
	tpl, cleanup, err := templateSource(g.context(), s, g, u.FromGit, u.Version)
	if err != nil {
		return err
	}
	defer cleanup()
	report, err := update.SyncComponents(s.ProjectRoot, tpl, time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Updated %d files in %d paths from template %s\n", report.Files, report.Paths, displayVersion(tpl.Version))
	return nil
}

// UpdateBlogsCmd implements the 'update-blogs' command.
type UpdateBlogsCmd struct {
	Paths []string `arg:"" help:"Blog project directories" type:"path"`
}

func (u *UpdateBlogsCmd) Run(g *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	tpl, cleanup, err := templateSource(g.context(), s, g, false, "")
	if err != nil {
		return err
	}
	defer cleanup()
	report := update.UpdateProjects(u.Paths, tpl)
	fmt.Printf("Updated %d/%d projects\n", report.Updated, report.Total)
	if len(report.Failed) > 0 {
		return ferrors.UpdateError("some projects failed to update").
			WithContext("failed", len(report.Failed)).Build()
	}
	return nil
}

// CleanupDuplicatesCmd implements the 'cleanup-duplicates' command.
type CleanupDuplicatesCmd struct {
	Dirs []string `arg:"" optional:"" help:"Directories relative to the project root (default: components, utils, flags)"`
}

func (c *CleanupDuplicatesCmd) Run(_ *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	removed, err := update.CleanupDuplicates(s.ProjectRoot, c.Dirs)
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d duplicate files\n", len(removed))
	return nil
}

// BackupCmd implements the 'backup' command.
type BackupCmd struct{}

func (b *BackupCmd) Run(_ *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	dir, err := update.Backup(s.ProjectRoot, s.SiteConfig, time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Backup created at %s\n", dir)
	return nil
}

// PostinstallCmd implements the 'postinstall' command.
type PostinstallCmd struct{}

func (p *PostinstallCmd) Run(g *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	tpl, err := update.LocalTemplate(s.TemplatePath(), s.TemplateName)
	if err != nil {
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
	return err
}

// InitCmd implements the 'init' command.
type InitCmd struct {
	Target  string `arg:"" optional:"" default:"." help:"Directory for the new blog" type:"path"`
	FromGit bool   `name:"from-git" help:"Fetch the template from its git repository"`
	Version string `help:"Template release to fetch with --from-git"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	tpl, cleanup, err := templateSource(g.context(), s, g, i.FromGit, i.Version)
	if err != nil {
		return err
	}
	defer cleanup()
	n, err := update.Init(tpl, i.Target)
	if err != nil {
		return err
	}
	fmt.Printf("Created blog in %s (%d files); run your package manager's install next\n", i.Target, n)
	return nil
}
