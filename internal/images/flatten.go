package images

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

var flattenExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true, ".svg": true}

// Flatten copies every image found in sub-folders of imgRoot into imgRoot
// itself. On a name clash the copy is named <folder>_<name>; if that exists
// too the file is skipped.
func Flatten(ctx context.Context, imgRoot string, opts Options) (Stats, error) {
	opts = opts.withDefaults()
	t := NewTracker("flatten", opts.Recorder)

	ok, err := rootExists(imgRoot)
	if err != nil || !ok {
		return t.Stats, wrapRootErr(err, imgRoot)
	}
	files, err := collect(imgRoot, func(p string) bool {
		return filepath.Dir(p) != filepath.Clean(imgRoot) && flattenExt[strings.ToLower(filepath.Ext(p))]
	})
	if err != nil {
		return t.Stats, wrapRootErr(err, imgRoot)
	}

	for _, src := range files {
		if err := ctx.Err(); err != nil {
			return t.Stats, err
		}
		name := filepath.Base(src)
		target := filepath.Join(imgRoot, name)
		if exists(target) {
			target = filepath.Join(imgRoot, filepath.Base(filepath.Dir(src))+"_"+name)
		}
		if exists(target) {
			t.Skipped(target)
			continue
		}
		if err := copyFile(src, target); err != nil {
			t.Failed(target, err)
			continue
		}
		t.Copied(target)
	}
	slog.Info("Flatten finished", logfields.Path(imgRoot), logfields.Count(t.Stats.Copied))
	return t.Stats, nil
}
