package previews

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogkit/internal/config"
	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/images"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
	"git.home.luguber.info/inful/blogkit/internal/metrics"
)

const previewsDir = "previews"

// Size is a preview crop size in pixels.
type Size struct {
	Width  int
	Height int
}

var (
	BlogSize   = Size{Width: 400, Height: 210}
	RubricSize = Size{Width: 210, Height: 214}
)

// SizeFor picks the crop size for an image reference. Rubric and tag
// artwork shipped under /img/default/ gets the square-ish rubric size.
// The name match is case-sensitive and ignores the extension.
func SizeFor(ref string) Size {
	slashed := filepath.ToSlash(ref)
	name := strings.TrimSuffix(filepath.Base(slashed), filepath.Ext(slashed))
	if strings.Contains(slashed, "/img/default/") &&
		(strings.Contains(name, "rubric") || strings.Contains(name, "tag")) {
		return RubricSize
	}
	return BlogSize
}

// PreviewPath returns where the preview of src is written.
func PreviewPath(src string) string {
	return filepath.Join(filepath.Dir(src), previewsDir, filepath.Base(src))
}

// Options configures preview generation.
type Options struct {
	Quality  images.Quality
	Recorder metrics.Recorder
	// Clean removes every previews directory before generating.
	Clean bool
}

func (o Options) withDefaults() Options {
	if o.Quality == (images.Quality{}) {
		o.Quality = images.DefaultQuality
	}
	o.Recorder = metrics.OrNoop(o.Recorder)
	return o
}

// Generate writes previews for refs, resolved against publicDir. Existing
// previews are kept; missing sources are logged and skipped.
func Generate(ctx context.Context, publicDir string, refs []string, opts Options) (images.Stats, error) {
	opts = opts.withDefaults()
	start := time.Now()
	t := images.NewTracker("previews", opts.Recorder)

	if opts.Clean {
		if _, err := Clean(publicDir); err != nil {
			return t.Stats, err
		}
	}

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return t.Stats, err
		}
		src := filepath.Join(publicDir, filepath.FromSlash(strings.TrimPrefix(ref, "/")))
		if _, err := os.Stat(src); err != nil {
			slog.Warn("Preview source not found", logfields.Image(ref), logfields.Path(src))
			continue
		}
		render(src, PreviewPath(src), SizeFor(ref), opts, t)
	}

	opts.Recorder.ObserveStageDuration("previews", time.Since(start))
	return t.Stats, nil
}

// GenerateForBuild walks the default, examples and page-images folders of
// publicDir and writes previews into the mirrored folders under distDir.
func GenerateForBuild(ctx context.Context, publicDir, distDir string, opts Options) (images.Stats, error) {
	opts = opts.withDefaults()
	start := time.Now()
	t := images.NewTracker("previews-build", opts.Recorder)

	for _, sub := range []string{"default", "examples", "page-images"} {
		root := filepath.Join(publicDir, "img", sub)
		if _, err := os.Stat(root); err != nil {
			slog.Debug("Preview source directory missing", logfields.Path(root))
			continue
		}
		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == previewsDir {
					return filepath.SkipDir
				}
				return nil
			}
			if !isImage(p) || images.IsVariant(p, config.DefaultWidths) {
				return nil
			}
			rel, err := filepath.Rel(publicDir, p)
			if err != nil {
				return err
			}
			render(p, PreviewPath(filepath.Join(distDir, rel)), SizeFor("/"+filepath.ToSlash(rel)), opts, t)
			return nil
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return t.Stats, err
			}
			return t.Stats, ferrors.WrapError(err, ferrors.CategoryFileSystem, "walk preview sources").
				WithContext("path", root).Build()
		}
	}

	opts.Recorder.ObserveStageDuration("previews-build", time.Since(start))
	return t.Stats, nil
}

func render(src, dst string, size Size, opts Options, t *images.Tracker) {
	if _, err := os.Stat(dst); err == nil {
		t.Skipped(dst)
		return
	}
	img, err := images.Open(src)
	if err != nil {
		t.Failed(src, err)
		return
	}
	if err := images.Save(dst, images.Cover(img, size.Width, size.Height), opts.Quality); err != nil {
		t.Failed(dst, err)
		return
	}
	t.Created(dst, size.Width)
}

// Clean removes every previews directory under publicDir and returns the
// removed paths.
func Clean(publicDir string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(publicDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == publicDir {
				return err
			}
			return nil
		}
		if d.IsDir() && d.Name() == previewsDir {
			dirs = append(dirs, p)
			return filepath.SkipDir
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, ferrors.FileSystemError("scan public directory").WithCause(err).
			WithContext("path", publicDir).Build()
	}
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			return nil, ferrors.FileSystemError("remove previews directory").WithCause(err).
				WithContext("path", dir).Build()
		}
		slog.Info("Removed previews directory", logfields.Path(dir))
	}
	return dirs, nil
}
