package images

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
)

const optimizedSuffix = "_optimized"

// Optimize re-encodes every original under root (names not ending in
// -<digits>) with the configured quality. The re-encoded file replaces the
// original only when it is smaller. Width variants are then regenerated,
// never wider than the original.
func Optimize(ctx context.Context, root string, opts Options) (Stats, error) {
	opts = opts.withDefaults()
	t := NewTracker("optimize", opts.Recorder)

	ok, err := rootExists(root)
	if err != nil || !ok {
		return t.Stats, wrapRootErr(err, root)
	}
	originals, err := collect(root, func(p string) bool {
		return IsResizable(p) && !HasNumericSuffix(p) && !strings.HasSuffix(baseName(p), optimizedSuffix)
	})
	if err != nil {
		return t.Stats, wrapRootErr(err, root)
	}

	for _, src := range originals {
		if err := ctx.Err(); err != nil {
			return t.Stats, err
		}
		optimizeOne(src, opts, t)
	}
	return t.Stats, nil
}

func optimizeOne(src string, opts Options, t *Tracker) {
	img, err := Open(src)
	if err != nil {
		t.Failed(src, err)
		return
	}
	format, _ := FormatFromPath(src)

	var buf bytes.Buffer
	if err := Encode(&buf, img, format, opts.Quality); err != nil {
		t.Failed(src, err)
		return
	}
	info, err := os.Stat(src)
	if err != nil {
		t.Failed(src, err)
		return
	}

	tmp := filepath.Join(filepath.Dir(src), baseName(src)+optimizedSuffix+filepath.Ext(src))
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		t.Failed(tmp, err)
		return
	}
	if saved := info.Size() - int64(buf.Len()); saved > 0 {
		if err := os.Rename(tmp, src); err != nil {
			_ = os.Remove(tmp)
			t.Failed(src, err)
			return
		}
		t.Replaced(src, saved)
	} else {
		_ = os.Remove(tmp)
		t.Skipped(src)
	}

	for _, w := range opts.Widths {
		out := VariantPath(src, w)
		if err := Save(out, Fit(img, w), opts.Quality); err != nil {
			t.Failed(out, err)
			continue
		}
		t.Created(out, w)
	}
}
