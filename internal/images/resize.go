package images

import (
	"context"
	"image"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
)

// ResizeTree writes the missing width variants of every original under root
// next to the original. Existing variants are left untouched. A missing root
// is not an error.
func ResizeTree(ctx context.Context, root string, opts Options) (Stats, error) {
	opts = opts.withDefaults()
	t := NewTracker("resize", opts.Recorder)

	ok, err := rootExists(root)
	if err != nil || !ok {
		return t.Stats, wrapRootErr(err, root)
	}
	originals, err := collect(root, func(p string) bool { return IsOriginal(p, opts.Widths) })
	if err != nil {
		return t.Stats, wrapRootErr(err, root)
	}

	for _, src := range originals {
		if err := ctx.Err(); err != nil {
			return t.Stats, err
		}
		writeVariants(src, filepath.Dir(src), opts, t)
	}
	return t.Stats, nil
}

// ResizeForBuild mirrors public into dist: originals are copied when missing,
// their variants generated when missing, and non-image files copied when
// missing. Variant and excluded images in public are not mirrored.
func ResizeForBuild(ctx context.Context, public, dist string, opts Options) (Stats, error) {
	opts = opts.withDefaults()
	t := NewTracker("resize-build", opts.Recorder)

	ok, err := rootExists(public)
	if err != nil || !ok {
		return t.Stats, wrapRootErr(err, public)
	}
	files, err := collect(public, func(string) bool { return true })
	if err != nil {
		return t.Stats, wrapRootErr(err, public)
	}

	for _, src := range files {
		if err := ctx.Err(); err != nil {
			return t.Stats, err
		}
		rel, err := filepath.Rel(public, src)
		if err != nil {
			t.Failed(src, err)
			continue
		}
		dst := filepath.Join(dist, rel)

		switch {
		case IsOriginal(src, opts.Widths):
			copyIfMissing(src, dst, t)
			writeVariants(src, filepath.Dir(dst), opts, t)
		case IsResizable(src):
			// variant or system image
		default:
			copyIfMissing(src, dst, t)
		}
	}
	return t.Stats, nil
}

func copyIfMissing(src, dst string, t *Tracker) {
	if exists(dst) {
		return
	}
	if err := copyFile(src, dst); err != nil {
		t.Failed(dst, err)
		return
	}
	t.Copied(dst)
}

// writeVariants creates <destDir>/<base>-<w><ext> for each width that does
// not exist yet. The source is decoded at most once.
func writeVariants(src, destDir string, opts Options, t *Tracker) {
	var img image.Image
	for _, w := range opts.Widths {
		out := VariantPath(filepath.Join(destDir, filepath.Base(src)), w)
		if exists(out) {
			t.Skipped(out)
			continue
		}
		if img == nil {
			var err error
			if img, err = Open(src); err != nil {
				t.Failed(src, err)
				return
			}
		}
		if err := Save(out, ResizeWidth(img, w), opts.Quality); err != nil {
			_ = os.Remove(out)
			t.Failed(out, err)
			continue
		}
		t.Created(out, w)
	}
}

func wrapRootErr(err error, root string) error {
	if err == nil {
		return nil
	}
	return ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot read image directory").
		WithContext("path", root).Build()
}
