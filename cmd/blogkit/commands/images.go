package commands

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/blogkit/internal/config"
	"git.home.luguber.info/inful/blogkit/internal/images"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

func imageOptions(s *config.Settings, g *Global) images.Options {
	return images.Options{Widths: s.Widths, Recorder: g.Recorder}
}

// ResizeCmd implements the 'resize' command.
type ResizeCmd struct {
	Dir string `arg:"" optional:"" help:"Image directory (default: the public directory)" type:"path"`
}

func (r *ResizeCmd) Run(g *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	dir := r.Dir
	if dir == "" {
		dir = s.PublicPath()
	}
	stats, err := images.ResizeTree(g.context(), dir, imageOptions(s, g))
	if err != nil {
		return err
	}
	slog.Info("Resize finished", logfields.Path(dir), slog.String("stats", stats.String()))
	return nil
}

// ResizeBuildCmd implements the 'resize-build' command.
type ResizeBuildCmd struct{}

func (r *ResizeBuildCmd) Run(g *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	stats, err := images.ResizeForBuild(g.context(), s.PublicPath(), s.DistPath(), imageOptions(s, g))
	if err != nil {
		return err
	}
	slog.Info("Build resize finished", slog.String("stats", stats.String()))
	return nil
}

// OptimizeCmd implements the 'optimize' command.
type OptimizeCmd struct {
	JPEGQuality int     `name:"jpeg-quality" help:"JPEG quality (1-100)" default:"85"`
	WebPQuality float32 `name:"webp-quality" help:"WebP quality (0-100)" default:"80"`
}

func (o *OptimizeCmd) Run(g *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	return runOptimize(g, s, o.quality())
}

func (o *OptimizeCmd) quality() images.Quality {
	q := images.DefaultQuality
	if o.JPEGQuality > 0 {
		q.JPEG = min(o.JPEGQuality, 100)
	}
	if o.WebPQuality > 0 {
		q.WebP = min(o.WebPQuality, 100)
	}
	return q
}

func runOptimize(g *Global, s *config.Settings, q images.Quality) error {
	opts := imageOptions(s, g)
	opts.Quality = q
	stats, err := images.Optimize(g.context(), s.PublicPath(), opts)
	if err != nil {
		return err
	}
	slog.Info("Optimize finished", logfields.Path(s.PublicPath()), slog.String("stats", stats.String()))
	return nil
}

// FlattenCmd implements the 'flatten' command.
type FlattenCmd struct{}

func (f *FlattenCmd) Run(g *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	return runFlatten(g, s)
}

func runFlatten(g *Global, s *config.Settings) error {
	stats, err := images.Flatten(g.context(), s.ImagesPath(), imageOptions(s, g))
	if err != nil {
		return err
	}
	slog.Info("Flatten finished", slog.String("stats", stats.String()))
	return nil
}

// CleanResizedCmd implements the 'clean-resized' command.
type CleanResizedCmd struct{}

func (c *CleanResizedCmd) Run(_ *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	removed, err := images.UntrackVariants(s.ProjectRoot, s.Widths)
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		fmt.Println("No resized images tracked by git")
		return nil
	}
	for _, p := range removed {
		fmt.Println(p)
	}
	fmt.Printf("Removed %d resized images from the git index; files remain on disk\n", len(removed))
	return nil
}

// SetupImagesCmd implements the 'setup-images' command.
type SetupImagesCmd struct{}

func (c *SetupImagesCmd) Run(_ *Global, root *CLI) error {
	s, err := root.Settings()
	if err != nil {
		return err
	}
	created, err := images.SetupDirectories(s.PublicPath())
	if err != nil {
		return err
	}
	slog.Info("Image directories ready", logfields.Count(len(created)))
	return nil
}
