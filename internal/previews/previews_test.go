package previews

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogkit/internal/images"
)

func writeImage(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, imaging.Save(imaging.New(w, h, color.NRGBA{R: 30, G: 120, B: 200, A: 255}), path))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSizeFor(t *testing.T) {
	tests := []struct {
		ref  string
		want Size
	}{
		{"/img/blog/post.jpg", BlogSize},
		{"/img/default/rubric-travel.png", RubricSize},
		{"/img/default/tag_news.webp", RubricSize},
		{"/img/default/Tag_news.webp", BlogSize},
		{"/img/default/RUBRIC-travel.png", BlogSize},
		{"/img/default/Tag-rubric.png", RubricSize},
		{"/img/default/cover.tagged", BlogSize},
		{"/img/default/cover.jpg", BlogSize},
		{"/img/blog/rubric.jpg", BlogSize},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, SizeFor(tt.ref))
		})
	}
}

func TestFileRefs(t *testing.T) {
	content := `---
title: Hello
image: /img/blog/cover.jpg
gallery:
  - src: /img/blog/one.png
    alt: one
  - caption: none
seo:
  image: /img/blog/seo.webp
---
Text ![inline](/img/blog/inline.jpg) and more.

<img src="/img/blog/html.png" alt="">
`
	refs := FileRefs([]byte(content))
	assert.Equal(t, []string{
		"/img/blog/cover.jpg",
		"/img/blog/one.png",
		"/img/blog/seo.webp",
		"/img/blog/inline.jpg",
		"/img/blog/html.png",
	}, refs)
}

func TestKeepRef(t *testing.T) {
	assert.True(t, keepRef("/img/blog/a.jpg"))
	assert.False(t, keepRef("https://cdn.example.com/a.jpg"))
	assert.False(t, keepRef("a.jpg"))
	assert.False(t, keepRef("/img/authors/me.jpg"))
}

func TestCollectRefs(t *testing.T) {
	root := t.TempDir()
	content := filepath.Join(root, "src", "content")
	public := filepath.Join(root, "public")

	writeFile(t, filepath.Join(content, "blog", "post.md"), "---\nimage: /img/blog/post.jpg\nauthorImage: /img/authors/me.jpg\n---\n![x](https://example.com/x.png)\n")
	writeFile(t, filepath.Join(content, "pages", "about.mdx"), "---\ntitle: About\n---\n![a](/img/blog/post.jpg)\n")
	writeFile(t, filepath.Join(content, "notes.txt"), "image: /img/ignored.jpg")

	writeImage(t, filepath.Join(public, "img", "examples", "one.jpg"), 20, 20)
	writeImage(t, filepath.Join(public, "img", "examples", "nested", "two.png"), 20, 20)
	writeImage(t, filepath.Join(public, "img", "examples", "authors", "me.jpg"), 20, 20)
	writeImage(t, filepath.Join(public, "img", "examples", "previews", "one.jpg"), 20, 20)
	writeImage(t, filepath.Join(public, "img", "default", "cover.jpg"), 20, 20)
	writeImage(t, filepath.Join(public, "img", "default", "default-autor.jpg"), 20, 20)
	writeImage(t, filepath.Join(public, "img", "default", "rubric-a.jpg"), 20, 20)
	writeImage(t, filepath.Join(public, "img", "default", "sub", "deep.jpg"), 20, 20)

	refs, err := CollectRefs(content, public)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/img/blog/post.jpg",
		"/img/default/cover.jpg",
		"/img/examples/nested/two.png",
		"/img/examples/one.jpg",
	}, refs)
}

func TestGenerate(t *testing.T) {
	public := t.TempDir()
	writeImage(t, filepath.Join(public, "img", "blog", "post.jpg"), 1000, 700)
	writeImage(t, filepath.Join(public, "img", "default", "rubric-a.png"), 500, 500)

	refs := []string{"/img/blog/post.jpg", "/img/default/rubric-a.png", "/img/blog/missing.jpg"}
	stats, err := Generate(context.Background(), public, refs, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Created)

	blog, err := images.Open(filepath.Join(public, "img", "blog", "previews", "post.jpg"))
	require.NoError(t, err)
	assert.Equal(t, 400, blog.Bounds().Dx())
	assert.Equal(t, 210, blog.Bounds().Dy())

	rubric, err := images.Open(filepath.Join(public, "img", "default", "previews", "rubric-a.png"))
	require.NoError(t, err)
	assert.Equal(t, 210, rubric.Bounds().Dx())
	assert.Equal(t, 214, rubric.Bounds().Dy())

	stats, err = Generate(context.Background(), public, refs, Options{})
	require.NoError(t, err)
	assert.Equal(t, images.Stats{Skipped: 2}, stats)
}

func TestGenerateClean(t *testing.T) {
	public := t.TempDir()
	writeImage(t, filepath.Join(public, "img", "blog", "post.jpg"), 800, 600)
	stale := filepath.Join(public, "img", "other", "previews", "stale.jpg")
	writeFile(t, stale, "old")

	stats, err := Generate(context.Background(), public, []string{"/img/blog/post.jpg"}, Options{Clean: true})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Created)
	assert.NoDirExists(t, filepath.Dir(stale))
}

func TestClean(t *testing.T) {
	public := t.TempDir()
	writeFile(t, filepath.Join(public, "img", "a", "previews", "x.jpg"), "x")
	writeFile(t, filepath.Join(public, "img", "b", "previews", "y.jpg"), "y")
	writeFile(t, filepath.Join(public, "img", "b", "keep.jpg"), "k")

	removed, err := Clean(public)
	require.NoError(t, err)
	assert.Len(t, removed, 2)
	assert.FileExists(t, filepath.Join(public, "img", "b", "keep.jpg"))

	removed, err = Clean(filepath.Join(public, "missing"))
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestGenerateForBuild(t *testing.T) {
	root := t.TempDir()
	public := filepath.Join(root, "public")
	dist := filepath.Join(root, "dist")
	writeImage(t, filepath.Join(public, "img", "default", "cover.jpg"), 900, 600)
	writeImage(t, filepath.Join(public, "img", "default", "cover-400.jpg"), 400, 266)
	writeImage(t, filepath.Join(public, "img", "examples", "deep", "pic.png"), 900, 600)
	writeImage(t, filepath.Join(public, "img", "examples", "previews", "old.png"), 50, 50)
	writeImage(t, filepath.Join(public, "img", "blog", "ignored.jpg"), 900, 600)

	stats, err := GenerateForBuild(context.Background(), public, dist, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Created)
	assert.FileExists(t, filepath.Join(dist, "img", "default", "previews", "cover.jpg"))
	assert.FileExists(t, filepath.Join(dist, "img", "examples", "deep", "previews", "pic.png"))
	assert.NoFileExists(t, filepath.Join(dist, "img", "default", "previews", "cover-400.jpg"))
	assert.NoDirExists(t, filepath.Join(dist, "img", "blog"))
}
