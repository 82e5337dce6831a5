package commands

import (
	"git.home.luguber.info/inful/blogkit/internal/config"
	"git.home.luguber.info/inful/blogkit/internal/typograf"
)

// TypografCmd implements the 'typograf' command.
type TypografCmd struct {
	Dirs    []string `arg:"" optional:"" help:"Directories to process (default: content collections)" type:"path"`
	Locale  string   `help:"Fallback locale for files without lang (default: site defaultLang)"`
	NoCache bool     `name:"no-cache" help:"Process every file regardless of the mtime cache"`
}

func (t *TypografCmd) Run(g *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	return runTypograf(g, s, t.Dirs, t.Locale, t.NoCache)
}

func runTypograf(g *Global, s *config.Settings, dirs []string, locale string, noCache bool) error {
	if locale == "" {
		if site, err := loadSite(s); err == nil {
			locale = site.Config.DefaultLang
		}
	}
	if len(dirs) == 0 {
		dirs = typograf.DefaultDirs(s.ContentPath())
	}
	opts := typograf.Options{
		ProjectRoot: s.ProjectRoot,
		CacheFile:   s.CachePath(),
		Locale:      typograf.MatchLocale(locale, typograf.Russian),
		Recorder:    g.Recorder,
	}
	if noCache {
		opts.CacheFile = ""
	}
	_, err := typograf.Run(g.context(), dirs, opts)
	return err
}
