package update

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

// BackupPrefix starts the name of every backup directory.
const BackupPrefix = "backup-"

// BackupName returns the directory name of a backup taken at t.
func BackupName(t time.Time) string {
	stamp := t.UTC().Format("2006-01-02T15:04:05.000Z")
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return BackupPrefix + stamp
}

// Backup copies user content, global.css and the site configuration into a
// timestamped directory under root and returns its path. Missing items are
// skipped.
func Backup(root, siteConfig string, now time.Time) (string, error) {
	dir := filepath.Join(root, BackupName(now))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "create backup directory").
			WithContext("path", dir).Build()
	}
	items := []struct{ src, dest string }{
		{"src/content", "content"},
		{"src/styles/global.css", "global.css"},
		{siteConfig, filepath.Base(siteConfig)},
	}
	for _, item := range items {
		src := item.src
		if !filepath.IsAbs(src) {
			src = filepath.Join(root, filepath.FromSlash(src))
		}
		if !exists(src) {
			slog.Debug("Nothing to back up", logfields.Path(item.src))
			continue
		}
		if _, err := copyTree(src, filepath.Join(dir, item.dest), nil); err != nil {
			return dir, ferrors.WrapError(err, ferrors.CategoryFileSystem, "back up project files").
				WithContext("path", item.src).Build()
		}
	}
	slog.Info("Backup created", logfields.Path(dir))
	return dir, nil
}
