package commands

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogkit/internal/config"
	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/images"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
	"git.home.luguber.info/inful/blogkit/internal/watch"
)

// DevCmd implements the 'dev' command.
type DevCmd struct {
	UpdateInterval time.Duration `name:"update-interval" help:"Check for template updates at this interval (0 disables)" default:"0s"`
	SiteCmd        string        `name:"site-cmd" help:"Development server run alongside the watcher (empty to skip)" default:"astro dev"`
}

func (d *DevCmd) Run(g *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(g.context())
	defer cancel()

	opts := watch.Options{}
	if d.UpdateInterval > 0 {
		checker := newChecker(g, s)
		opts.UpdateInterval = d.UpdateInterval
		opts.UpdateCheck = func(ctx context.Context) error {
			_, err := checker.Check(ctx, false)
			return err
		}
	}
	w, err := watch.New(devStages(g, s), opts)
	if err != nil {
		return ferrors.InternalError("create watcher").WithCause(err).Build()
	}

	siteErr := make(chan error, 1)
	if strings.TrimSpace(d.SiteCmd) != "" {
		cmd, err := siteCommand(ctx, s, d.SiteCmd)
		if err != nil {
			return err
		}
		if err := cmd.Start(); err != nil {
			return ferrors.RuntimeError("start site command").WithCause(err).WithContext("command", d.SiteCmd).Build()
		}
		slog.Info("Started site command", slog.String("command", d.SiteCmd))
		go func() {
			siteErr <- cmd.Wait()
			cancel()
		}()
	}

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	select {
	case err := <-siteErr:
		if err != nil && g.context().Err() == nil {
			return ferrors.RuntimeError("site command exited").WithCause(err).WithContext("command", d.SiteCmd).Build()
		}
	default:
	}
	return nil
}

// devStages regenerates variants and previews for changed images, and
// previews for changed content.
func devStages(g *Global, s *config.Settings) []watch.Stage {
	previewDir := string(filepath.Separator) + "previews" + string(filepath.Separator)
	return []watch.Stage{
		{
			Name: "images",
			Dirs: []string{s.PublicPath()},
			Ignore: func(path string) bool {
				return images.IsVariant(path, s.Widths) || strings.Contains(path, previewDir)
			},
			Run: func(ctx context.Context) error {
				stats, err := images.ResizeTree(ctx, s.PublicPath(), imageOptions(s, g))
				if err != nil {
					return err
				}
				slog.Debug("Resized images", logfields.Path(s.PublicPath()), slog.String("stats", stats.String()))
				return runPreviews(g, s, false)
			},
		},
		{
			Name: "content",
			Dirs: []string{s.ContentPath()},
			Run: func(context.Context) error {
				return runPreviews(g, s, false)
			},
		},
	}
}
