package git

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"

	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

// ListTags returns the tag names advertised by the remote at repoURL, without
// cloning. Annotated tags are reported once.
func (c *Client) ListTags(ctx context.Context, repoURL string) ([]string, error) {
	remote := git.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: "origin",
		URLs: []string{repoURL},
	})

	var refs []*plumbing.Reference
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		var lerr error
		refs, lerr = remote.ListContext(ctx, &git.ListOptions{})
		return ClassifyGitError(lerr, "ls-remote", repoURL)
	}, func(attempt int, err error) {
		c.recorder.IncRetry("ls-remote")
		slog.Warn("Retrying tag listing", slog.Int("attempt", attempt), logfields.Error(err))
	})
	if err != nil {
		return nil, err
	}
	return tagNames(refs), nil
}

func tagNames(refs []*plumbing.Reference) []string {
	seen := map[string]bool{}
	var out []string
	for _, ref := range refs {
		if ref.Type() == plumbing.SymbolicReference || !ref.Name().IsTag() {
			continue
		}
		name := strings.TrimSuffix(ref.Name().Short(), "^{}")
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
