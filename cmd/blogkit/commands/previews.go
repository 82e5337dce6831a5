package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/blogkit/internal/config"
	"git.home.luguber.info/inful/blogkit/internal/previews"
)

// PreviewsCmd implements the 'previews' command.
type PreviewsCmd struct {
	Clean bool `help:"Remove existing previews before generating"`
}

func (p *PreviewsCmd) Run(g *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	return runPreviews(g, s, p.Clean)
}

// CleanPreviewsEnv set to 1 forces --clean.
const CleanPreviewsEnv = "CLEAN_PREVIEWS"

func runPreviews(g *Global, s *config.Settings, clean bool) error {
	clean = clean || s.Getenv(CleanPreviewsEnv) == "1"
	refs, err := previews.CollectRefs(s.ContentPath(), s.PublicPath())
	if err != nil {
		return err
	}
	stats, err := previews.Generate(g.context(), s.PublicPath(), refs, previews.Options{Recorder: g.Recorder, Clean: clean})
	if err != nil {
		return err
	}
	slog.Info("Previews finished", slog.Int("refs", len(refs)), slog.String("stats", stats.String()))
	return nil
}

// PreviewsBuildCmd implements the 'previews-build' command.
type PreviewsBuildCmd struct{}

func (p *PreviewsBuildCmd) Run(g *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	stats, err := previews.GenerateForBuild(g.context(), s.PublicPath(), s.DistPath(), previews.Options{Recorder: g.Recorder})
	if err != nil {
		return err
	}
	slog.Info("Build previews finished", slog.String("stats", stats.String()))
	return nil
}
