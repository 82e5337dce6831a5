package typograf

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeContent(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))
}

func TestRun(t *testing.T) {
	root := t.TempDir()
	content := filepath.Join(root, "src", "content")
	post := filepath.Join(content, "blog", "a.md")
	page := filepath.Join(content, "pages", "b.mdx")
	writeContent(t, post, "---\ntitle: A\n---\nText \"q\".\n")
	writeContent(t, page, "---\ntitle: B\n---\nNothing.\n")
	writeContent(t, filepath.Join(content, "blog", "notes.txt"), "\"untouched\"")

	opts := Options{
		ProjectRoot: root,
		CacheFile:   filepath.Join(root, ".typograf-cache.json"),
		Locale:      English,
	}
	dirs := DefaultDirs(content)

	stats, err := Run(context.Background(), dirs, opts)
	require.NoError(t, err)
	assert.Equal(t, Stats{Rewritten: 1, Unchanged: 1}, stats)

	data, err := os.ReadFile(post)
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: A\n---\nText “q”.\n", string(data))

	cache, err := LoadCache(opts.CacheFile)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())
	info, err := os.Stat(page)
	require.NoError(t, err)
	assert.True(t, cache.Fresh("src/content/pages/b.mdx", info.ModTime().UnixMilli()))

	// the rewritten file is checked once more, the untouched one is cached
	stats, err = Run(context.Background(), dirs, opts)
	require.NoError(t, err)
	assert.Equal(t, Stats{Unchanged: 1, Cached: 1}, stats)

	stats, err = Run(context.Background(), dirs, opts)
	require.NoError(t, err)
	assert.Equal(t, Stats{Cached: 2}, stats)
}

func TestRunCanceled(t *testing.T) {
	root := t.TempDir()
	writeContent(t, filepath.Join(root, "blog", "a.md"), "---\ntitle: A\n---\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, []string{filepath.Join(root, "blog")}, Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadCacheCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	c, err := LoadCache(path)
	require.NoError(t, err)
	assert.Zero(t, c.Len())
}

func TestCacheSaveOnlyWhenDirty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c, err := LoadCache(path)
	require.NoError(t, err)
	require.NoError(t, c.Save())
	assert.NoFileExists(t, path)

	c.Put("a.md", 1700000000123)
	require.NoError(t, c.Save())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a.md": 1700000000123}`, string(data))

	reloaded, err := LoadCache(path)
	require.NoError(t, err)
	assert.True(t, reloaded.Fresh("a.md", 1700000000123))
	assert.False(t, reloaded.Fresh("a.md", 1700000000124))
}
