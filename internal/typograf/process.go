package typograf

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
	"git.home.luguber.info/inful/blogkit/internal/metrics"
)

const stage = "typograf"

// DefaultCollections are processed when no directories are given.
var DefaultCollections = []string{"blog", "pages", "projects", "products", "tags"}

// DefaultDirs returns the default collection directories under contentDir.
func DefaultDirs(contentDir string) []string {
	dirs := make([]string, len(DefaultCollections))
	for i, c := range DefaultCollections {
		dirs[i] = filepath.Join(contentDir, c)
	}
	return dirs
}

// Options configures a run.
type Options struct {
	// ProjectRoot anchors cache keys; they are stored relative to it.
	ProjectRoot string
	// CacheFile is the JSON mtime cache. Empty disables caching.
	CacheFile string
	Locale    Locale
	Recorder  metrics.Recorder
}

// Stats summarizes a run.
type Stats struct {
	Rewritten int
	Unchanged int
	Cached    int
	Failed    int
}

func (s Stats) String() string {
	return fmt.Sprintf("rewritten=%d unchanged=%d cached=%d failed=%d", s.Rewritten, s.Unchanged, s.Cached, s.Failed)
}

// Run processes every .md and .mdx file under dirs. Files whose mtime
// matches the cache are skipped; per-file failures are logged and counted.
func Run(ctx context.Context, dirs []string, opts Options) (Stats, error) {
	rec := metrics.OrNoop(opts.Recorder)
	start := time.Now()
	var stats Stats

	cache := &Cache{entries: map[string]float64{}}
	if opts.CacheFile != "" {
		c, err := LoadCache(opts.CacheFile)
		if err != nil {
			return stats, ferrors.FileSystemError("load typograf cache").WithCause(err).
				WithContext("path", opts.CacheFile).Build()
		}
		cache = c
	}

	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			slog.Warn("Typograf directory not found", logfields.Path(dir))
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				slog.Warn("Skipping unreadable path", logfields.Path(path), logfields.Error(err))
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if !d.Type().IsRegular() || !isContentFile(path) {
				return nil
			}
			processFile(path, cacheKey(opts.ProjectRoot, path), opts.Locale, cache, &stats, rec)
			return nil
		})
		if err != nil {
			return stats, err
		}
	}

	if opts.CacheFile != "" {
		if err := cache.Save(); err != nil {
			return stats, ferrors.FileSystemError("save typograf cache").WithCause(err).
				WithContext("path", opts.CacheFile).Build()
		}
	}
	rec.ObserveStageDuration(stage, time.Since(start))
	slog.Info("Typograf finished", logfields.Stage(stage), slog.String("stats", stats.String()))
	return stats, nil
}

func processFile(path, key string, locale Locale, cache *Cache, stats *Stats, rec metrics.Recorder) {
	info, err := os.Stat(path)
	if err != nil {
		stats.Failed++
		rec.IncFile(stage, metrics.FileFailed)
		slog.Error("Typograf failed", logfields.Path(path), logfields.Error(err))
		return
	}
	mtime := info.ModTime().UnixMilli()
	if cache.Fresh(key, mtime) {
		stats.Cached++
		rec.IncFile(stage, metrics.FileSkipped)
		return
	}

	content, err := os.ReadFile(path)
	if err == nil {
		var out []byte
		var changed bool
		out, changed, err = Rewrite(content, locale)
		if err == nil && changed {
			err = os.WriteFile(path, out, info.Mode().Perm())
			if err == nil {
				stats.Rewritten++
				rec.IncFile(stage, metrics.FileReplaced)
				slog.Info("Typografed", logfields.Path(path))
			}
		} else if err == nil {
			stats.Unchanged++
			rec.IncFile(stage, metrics.FileSkipped)
		}
	}
	if err != nil {
		stats.Failed++
		rec.IncFile(stage, metrics.FileFailed)
		slog.Error("Typograf failed", logfields.Path(path), logfields.Error(err))
		return
	}
	// the pre-rewrite mtime is stored, so a rewritten file is checked once
	// more on the next run
	cache.Put(key, mtime)
}

func isContentFile(path string) bool {
	return strings.HasSuffix(path, ".md") || strings.HasSuffix(path, ".mdx")
}

func cacheKey(root, path string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}
