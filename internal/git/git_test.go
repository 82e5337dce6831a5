package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/retry"
)

var sig = &object.Signature{Name: "tester", Email: "t@example.com", When: time.Unix(1700000000, 0)}

func commitFile(t *testing.T, repo *git.Repository, root, name, content string) plumbing.Hash {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
	h, err := wt.Commit("add "+name, &git.CommitOptions{Author: sig})
	require.NoError(t, err)
	return h
}

// templateRepo creates a repository with tags v1.0.0 (lightweight) and v1.1.0 (annotated).
func templateRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)

	h1 := commitFile(t, repo, root, "package.json", `{"version":"1.0.0"}`)
	_, err = repo.CreateTag("v1.0.0", h1, nil)
	require.NoError(t, err)

	h2 := commitFile(t, repo, root, "package.json", `{"version":"1.1.0"}`)
	_, err = repo.CreateTag("v1.1.0", h2, &git.CreateTagOptions{Tagger: sig, Message: "release"})
	require.NoError(t, err)
	return root
}

func fastClient(dir string) *Client {
	return NewClient(dir).WithDepth(0).WithRetryPolicy(retry.NewPolicy(retry.ModeFixed, time.Millisecond, time.Millisecond, 0))
}

func TestListTags(t *testing.T) {
	src := templateRepo(t)

	tags, err := fastClient(t.TempDir()).ListTags(context.Background(), src)
	require.NoError(t, err)
	sort.Strings(tags)
	assert.Equal(t, []string{"v1.0.0", "v1.1.0"}, tags)
}

func TestListTagsMissingRemote(t *testing.T) {
	_, err := fastClient(t.TempDir()).ListTags(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	_, ok := ferrors.AsClassified(err)
	assert.True(t, ok)
}

func TestTagNames(t *testing.T) {
	refs := []*plumbing.Reference{
		plumbing.NewHashReference("refs/heads/main", plumbing.ZeroHash),
		plumbing.NewHashReference("refs/tags/v2.0.0", plumbing.ZeroHash),
		plumbing.NewHashReference("refs/tags/v2.0.0^{}", plumbing.ZeroHash),
		plumbing.NewSymbolicReference("HEAD", "refs/heads/main"),
	}
	assert.Equal(t, []string{"v2.0.0"}, tagNames(refs))
}

func TestCloneTemplateAtTag(t *testing.T) {
	src := templateRepo(t)
	ws := t.TempDir()
	client := fastClient(ws)

	dest, err := client.CloneTemplate(context.Background(), src, "v1.0.0", "template")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ws, "template"), dest)

	data, err := os.ReadFile(filepath.Join(dest, "package.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1.0.0"}`, string(data))

	assert.True(t, checkedOutAt(dest, "v1.0.0"))
	assert.False(t, checkedOutAt(dest, "v1.1.0"))

	// a second call reuses the checkout
	marker := filepath.Join(dest, "marker")
	require.NoError(t, os.WriteFile(marker, nil, 0o600))
	_, err = client.CloneTemplate(context.Background(), src, "v1.0.0", "template")
	require.NoError(t, err)
	assert.FileExists(t, marker)
}

func TestUntrack(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	commitFile(t, repo, root, "public/img/blog/a.webp", "orig")
	commitFile(t, repo, root, "public/img/blog/a-400.webp", "variant")

	removed, err := Untrack(root, func(p string) bool { return filepath.Base(p) == "a-400.webp" })
	require.NoError(t, err)
	assert.Equal(t, []string{"public/img/blog/a-400.webp"}, removed)
	assert.FileExists(t, filepath.Join(root, "public", "img", "blog", "a-400.webp"))

	idx, err := repo.Storer.Index()
	require.NoError(t, err)
	_, err = idx.Entry("public/img/blog/a-400.webp")
	require.Error(t, err)
	_, err = idx.Entry("public/img/blog/a.webp")
	require.NoError(t, err)

	none, err := Untrack(root, func(string) bool { return false })
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUntrackOutsideRepo(t *testing.T) {
	_, err := Untrack(t.TempDir(), func(string) bool { return true })
	require.Error(t, err)
}

func TestClassifyGitError(t *testing.T) {
	assert.NoError(t, ClassifyGitError(nil, "clone", "u"))

	already := ferrors.GitError("x").Build()
	assert.Same(t, already, ClassifyGitError(already, "clone", "u"))

	tests := []struct {
		msg      string
		category ferrors.ErrorCategory
		retry    bool
	}{
		{"repository not found", ferrors.CategoryNotFound, false},
		{"i/o timeout", ferrors.CategoryNetwork, true},
		{"authentication required", ferrors.CategoryConfig, false},
		{"something odd", ferrors.CategoryGit, true},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			err := ClassifyGitError(errors.New(tt.msg), "ls-remote", "https://example.com/r.git")
			c, ok := ferrors.AsClassified(err)
			require.True(t, ok)
			assert.Equal(t, tt.category, c.Category())
			assert.Equal(t, tt.retry, c.CanRetry())
		})
	}
}
