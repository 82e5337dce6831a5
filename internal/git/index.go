package git

import (
	"fmt"
	"log/slog"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

// Untrack removes index entries whose slash-separated path satisfies match.
// Working tree files are left alone. It returns the removed paths.
func Untrack(repoRoot string, match func(path string) bool) ([]string, error) {
	repo, err := git.PlainOpenWithOptions(repoRoot, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, ClassifyGitError(err, "open", repoRoot)
	}
	idx, err := repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	var removed []string
	for _, e := range idx.Entries {
		if match(e.Name) {
			removed = append(removed, e.Name)
		}
	}
	if len(removed) == 0 {
		return nil, nil
	}
	for _, name := range removed {
		if _, err := idx.Remove(name); err != nil {
			return nil, fmt.Errorf("remove %s from index: %w", name, err)
		}
		slog.Debug("Untracked", logfields.Path(name))
	}
	if err := repo.Storer.SetIndex(idx); err != nil {
		return nil, fmt.Errorf("write index: %w", err)
	}
	return removed, nil
}
