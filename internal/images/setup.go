package images

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/blogkit/internal/git"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

// UserImageDirs are created under public/img for user uploads.
var UserImageDirs = []string{"uploads", "blog", "authors", "products", "projects", "previews", "default"}

// SetupDirectories makes sure public/img and its user folders exist and
// returns the directories it created.
func SetupDirectories(public string) ([]string, error) {
	var created []string
	for _, name := range UserImageDirs {
		dir := filepath.Join(public, "img", name)
		if exists(dir) {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return created, wrapRootErr(err, dir)
		}
		slog.Info("Created directory", logfields.Path(dir))
		created = append(created, dir)
	}
	return created, nil
}

// UntrackVariants removes committed *-<width>.webp files from the git index of
// the repository containing repoRoot. Files stay on disk.
func UntrackVariants(repoRoot string, widths []int) ([]string, error) {
	if len(widths) == 0 {
		widths = Options{}.withDefaults().Widths
	}
	suffixes := make([]string, 0, len(widths))
	for _, w := range widths {
		suffixes = append(suffixes, "-"+strconv.Itoa(w)+".webp")
	}
	return git.Untrack(repoRoot, func(p string) bool {
		for _, s := range suffixes {
			if strings.HasSuffix(p, s) {
				return true
			}
		}
		return false
	})
}
