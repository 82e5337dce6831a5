package versioning

import (
	"context"
	"log/slog"
	"path/filepath"

	"golang.org/x/mod/semver"
)

// TagLister lists the tags of a remote repository.
type TagLister interface {
	ListTags(ctx context.Context, url string) ([]string, error)
}

// LatestTag returns the highest release tag among tags, optionally limited
// to tags matching one of the glob patterns. Tags may carry a leading v.
// Prereleases are ignored. The result has no leading v.
func LatestTag(tags []string, patterns []string) (string, bool) {
	best := ""
	for _, tag := range tags {
		if !matchesPatterns(tag, patterns) {
			continue
		}
		v := tag
		if v == "" || v[0] != 'v' {
			v = "v" + v
		}
		if !semver.IsValid(v) || semver.Prerelease(v) != "" {
			continue
		}
		if best == "" || semver.Compare(v, best) > 0 {
			best = v
		}
	}
	if best == "" {
		return "", false
	}
	return best[1:], true
}

func matchesPatterns(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, name)
		if err != nil {
			slog.Warn("Invalid tag pattern", "pattern", pattern, "error", err)
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// RemoteLatest resolves the latest release published as a tag of url.
func RemoteLatest(ctx context.Context, lister TagLister, url string, patterns []string) (string, error) {
	tags, err := lister.ListTags(ctx, url)
	if err != nil {
		return "", err
	}
	latest, ok := LatestTag(tags, patterns)
	if !ok {
		return "", nil
	}
	return latest, nil
}
