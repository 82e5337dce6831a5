package update

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

// DuplicateDirs are scanned by CleanupDuplicates when no directories are given.
var DuplicateDirs = []string{"src/components", "src/utils", "public/flags"}

var duplicatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\(\d+\)$`),
	regexp.MustCompile(`\s\d+$`),
	regexp.MustCompile(`(?i)- copy$`),
	regexp.MustCompile(`(?i)_copy$`),
}

// IsDuplicate reports whether name looks like a copy made by a file manager
// or sync tool, e.g. "Header 2.astro" or "logo (1).svg".
func IsDuplicate(name string) bool {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	for _, re := range duplicatePatterns {
		if re.MatchString(stem) {
			return true
		}
	}
	return false
}

// CleanupDuplicates removes duplicate files below dirs (relative to root)
// and returns the removed paths. Missing directories are skipped.
func CleanupDuplicates(root string, dirs []string) ([]string, error) {
	if len(dirs) == 0 {
		dirs = DuplicateDirs
	}
	var removed []string
	for _, dir := range dirs {
		base := filepath.Join(root, filepath.FromSlash(dir))
		if !isDir(base) {
			continue
		}
		err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !IsDuplicate(d.Name()) {
				return nil
			}
			if err := os.Remove(path); err != nil {
				slog.Warn("Could not remove duplicate", logfields.Path(path), logfields.Error(err))
				return nil
			}
			slog.Info("Removed duplicate", logfields.Path(path))
			removed = append(removed, path)
			return nil
		})
		if err != nil {
			return removed, ferrors.WrapError(err, ferrors.CategoryFileSystem, "scan for duplicates").
				WithContext("path", base).Build()
		}
	}
	slog.Info("Duplicate cleanup finished", logfields.Count(len(removed)))
	return removed, nil
}
