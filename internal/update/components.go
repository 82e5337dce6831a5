package update

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
	"git.home.luguber.info/inful/blogkit/internal/project"
)

// ForceUpdatePaths are replaced wholesale from the template on every sync.
var ForceUpdatePaths = []string{
	"src/components",
	"src/layouts",
	"src/pages",
	"src/utils",
	"src/scripts",
	"src/icons",
	"src/i18n",
	"scripts",
	"public/flags",
	"public/img/default",
}

// user files inside force-updated directories
var preservedPatterns = []string{"scripts/custom-*"}

const (
	stylesDir   = "src/styles"
	globalCSS   = "global.css"
	astroConfig = "astro.config.mjs"

	// PreviewStep is the build step that renders preview images.
	PreviewStep = "blogkit previews"
	siteBuild   = "astro build"
)

// SyncReport summarizes a component sync.
type SyncReport struct {
	Paths          int
	Files          int
	Styles         int
	PackageUpdated bool
	ConfigBackup   string
	ConfigReplaced bool
}

func preserved(rel string) bool {
	for _, p := range preservedPatterns {
		if ok, _ := path.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// SyncComponents replaces ForceUpdatePaths in the project with the
// template's copies and refreshes styles without touching global.css. It
// also pins the template dependency and swaps in the template's
// astro.config.mjs when that one carries PWA setup. Per-path copy failures
// are logged and skipped.
func SyncComponents(projectRoot string, tpl *Template, now time.Time) (SyncReport, error) {
	var report SyncReport
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return report, ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve project root").Build()
	}
	if filepath.Clean(root) == filepath.Clean(tpl.Root) {
		return report, ferrors.ValidationError("template root is the project root, refusing to sync").
			WithContext("path", root).Build()
	}

	for _, p := range ForceUpdatePaths {
		n, err := replacePath(root, tpl.Root, p)
		if err != nil {
			slog.Warn("Could not update path", logfields.Path(p), logfields.Error(err))
			continue
		}
		if n >= 0 {
			report.Paths++
			report.Files += n
		}
	}

	report.Styles, err = syncStyles(root, tpl.Root)
	if err != nil {
		slog.Warn("Could not update styles", logfields.Error(err))
	}

	report.PackageUpdated, err = updatePackage(root, tpl)
	if err != nil {
		slog.Warn("Could not update package.json", logfields.Error(err))
	}

	report.ConfigBackup, report.ConfigReplaced, err = syncAstroConfig(root, tpl.Root, now)
	if err != nil {
		slog.Warn("Could not update site framework config", logfields.Error(err))
	}

	slog.Info("Components updated",
		logfields.Count(report.Files),
		slog.Int("paths", report.Paths),
		slog.Int("styles", report.Styles))
	return report, nil
}

// replacePath returns -1 when the template has nothing at rel.
func replacePath(root, tplRoot, rel string) (int, error) {
	src := filepath.Join(tplRoot, filepath.FromSlash(rel))
	dst := filepath.Join(root, filepath.FromSlash(rel))
	if !exists(src) {
		slog.Debug("Template has no such path", logfields.Path(rel))
		return -1, nil
	}
	keep := func(name string) bool { return preserved(rel + "/" + name) }
	if isDir(src) {
		if err := removeExcept(dst, keep); err != nil {
			return 0, err
		}
	}
	return copyTree(src, dst, func(r string) bool { return preserved(rel + "/" + r) })
}

func syncStyles(root, tplRoot string) (int, error) {
	src := filepath.Join(tplRoot, stylesDir)
	dst := filepath.Join(root, stylesDir)
	if !isDir(src) {
		return 0, nil
	}
	if !exists(filepath.Join(dst, globalCSS)) {
		slog.Info("Copying default styles")
		return copyTree(src, dst, nil)
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if e.Name() == globalCSS {
			continue
		}
		c, err := copyTree(filepath.Join(src, e.Name()), filepath.Join(dst, e.Name()), nil)
		if err != nil {
			return n, err
		}
		n += c
	}
	slog.Info("Preserved user styles", logfields.Path(filepath.Join(stylesDir, globalCSS)))
	return n, nil
}

func updatePackage(root string, tpl *Template) (bool, error) {
	pkg, err := project.Load(filepath.Join(root, project.FileName))
	if ferrors.HasCategory(err, ferrors.CategoryNotFound) {
		slog.Info("No package.json in project, skipping dependency pin")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	changed := false
	if tpl.Version != "" {
		pinned, err := pkg.PinDependency(tpl.Name, tpl.Version)
		if err != nil {
			return false, err
		}
		changed = pinned
	}
	if build := pkg.Script("build"); strings.Contains(build, siteBuild) && !strings.Contains(build, PreviewStep) {
		build = strings.Replace(build, siteBuild, PreviewStep+" && "+siteBuild, 1)
		if _, err := pkg.SetScripts([]string{"build"}, map[string]string{"build": build}); err != nil {
			return false, err
		}
		slog.Info("Added preview generation to build script")
		changed = true
	}
	if !changed {
		return false, nil
	}
	if err := pkg.Save(); err != nil {
		return false, err
	}
	slog.Info("Updated package.json", logfields.Version(tpl.Version))
	return true, nil
}

func hasPWA(config []byte) bool {
	s := string(config)
	return strings.Contains(s, "VitePWA") || strings.Contains(s, "@vite-pwa")
}

func syncAstroConfig(root, tplRoot string, now time.Time) (string, bool, error) {
	src := filepath.Join(tplRoot, astroConfig)
	data, err := os.ReadFile(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	if !hasPWA(data) {
		return "", false, nil
	}
	dst := filepath.Join(root, astroConfig)
	backup := ""
	if exists(dst) {
		backup = fmt.Sprintf("%s.backup.%d", dst, now.UnixMilli())
		if err := copyFile(dst, backup); err != nil {
			return "", false, err
		}
		slog.Info("Backed up site framework config", logfields.Path(backup))
	}
	if err := copyFile(src, dst); err != nil {
		return backup, false, err
	}
	slog.Info("Replaced site framework config with PWA setup", logfields.Path(dst))
	return backup, true, nil
}
