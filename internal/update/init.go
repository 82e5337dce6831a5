package update

import (
	"log/slog"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

// optional package files, copied first
var initPackageFiles = []string{"package.json", "package-lock.json"}

// InitItems are copied from the template into a new blog.
var InitItems = []string{"astro.config.mjs", "tsconfig.json", "public", "src", "scripts"}

// Init copies a fresh blog from the template into target and returns the
// number of files written. Package files are optional; every other item is
// required.
func Init(tpl *Template, target string) (int, error) {
	if err := os.MkdirAll(target, 0o755); err != nil {
		return 0, ferrors.WrapError(err, ferrors.CategoryFileSystem, "create target directory").
			WithContext("path", target).Build()
	}
	if exists(filepath.Join(target, "package.json")) {
		return 0, ferrors.NewError(ferrors.CategoryAlreadyExists, "target already contains a project").
			WithContext("path", target).Build()
	}
	total := 0
	copyItem := func(item string) error {
		n, err := copyTree(filepath.Join(tpl.Root, item), filepath.Join(target, item), nil)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "copy template item").
				WithContext("path", item).Build()
		}
		total += n
		slog.Info("Copied", logfields.Path(item))
		return nil
	}
	for _, f := range initPackageFiles {
		if !exists(filepath.Join(tpl.Root, f)) {
			continue
		}
		if err := copyItem(f); err != nil {
			return total, err
		}
	}
	for _, item := range InitItems {
		if err := copyItem(item); err != nil {
			return total, err
		}
	}
	return total, nil
}
