package git

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

// CloneTemplate checks out repoURL at tag (default branch when empty) into
// <workspace>/<name> and returns the path. An existing checkout
// already at that tag is reused.
func (c *Client) CloneTemplate(ctx context.Context, repoURL, tag, name string) (string, error) {
	dest := filepath.Join(c.workspaceDir, name)

	if tag != "" && checkedOutAt(dest, tag) {
		slog.Debug("Reusing template checkout", logfields.Path(dest), logfields.Version(tag))
		return dest, nil
	}

	opts := &git.CloneOptions{URL: repoURL, Depth: c.depth, SingleBranch: true}
	if tag != "" {
		opts.ReferenceName = plumbing.NewTagReferenceName(tag)
	}

	err := c.policy.Do(ctx, func(ctx context.Context) error {
		if err := os.RemoveAll(dest); err != nil {
			return fmt.Errorf("remove stale checkout: %w", err)
		}
		_, err := git.PlainCloneContext(ctx, dest, false, opts)
		return ClassifyGitError(err, "clone", repoURL)
	}, func(attempt int, err error) {
		c.recorder.IncRetry("clone")
		slog.Warn("Retrying template clone", slog.Int("attempt", attempt), logfields.Error(err))
	})
	if err != nil {
		return "", err
	}
	slog.Info("Template checked out", logfields.Path(dest), logfields.Version(tag))
	return dest, nil
}

func checkedOutAt(path, tag string) bool {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return false
	}
	head, err := repo.Head()
	if err != nil {
		return false
	}
	ref, err := repo.Tag(tag)
	if err != nil {
		return false
	}
	target := ref.Hash()
	if obj, terr := repo.TagObject(target); terr == nil {
		target = obj.Target
	}
	return head.Hash() == target
}
