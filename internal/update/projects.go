package update

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
	"git.home.luguber.info/inful/blogkit/internal/project"
)

// ScriptNames is the order canonical scripts are written in.
var ScriptNames = []string{
	"dev",
	"start",
	"build",
	"build:fast",
	"build:no-check",
	"build:ci",
	"typograf",
	"optimize",
	"astro",
	"featured:add",
	"featured:remove",
	"featured:list",
	"upgrade",
	"update-components",
	"backup-update",
	"update-all-blogs",
	"check-version",
	"auto-update",
	"generate-netlify",
	"generate-previews",
	"postinstall",
}

// CanonicalScripts maps every package.json script of a blog to the
// blogkit command behind it.
var CanonicalScripts = map[string]string{
	"dev":               "blogkit dev",
	"start":             "astro dev",
	"build":             "blogkit build",
	"build:fast":        "blogkit resize && blogkit typograf && blogkit verify && " + PreviewStep + " && " + siteBuild,
	"build:no-check":    "blogkit build --skip-check",
	"build:ci":          "SKIP_VERSION_CHECK=true blogkit build",
	"typograf":          "blogkit typograf",
	"optimize":          "blogkit optimize",
	"astro":             "astro",
	"featured:add":      "blogkit featured add",
	"featured:remove":   "blogkit featured remove",
	"featured:list":     "blogkit featured list",
	"upgrade":           "blogkit upgrade",
	"update-components": "blogkit update",
	"backup-update":     "blogkit backup && blogkit update",
	"update-all-blogs":  "blogkit update-blogs",
	"check-version":     "blogkit check-version",
	"auto-update":       "blogkit auto-update",
	"generate-netlify":  "blogkit netlify generate",
	"generate-previews": PreviewStep,
	"postinstall":       "blogkit postinstall",
}

// RetiredScripts ran node helpers that blogkit replaces. They are removed
// while they still invoke node.
var RetiredScripts = []string{"prestart", "optimize:squoosh"}

// RequiredFiles are copied from the template into every updated project.
var RequiredFiles = []string{".gitignore"}

// RootFiles are copied into the project root when the template has them.
var RootFiles = []string{"astro-image-resize.mjs"}

// duplicate copies left behind by file sync tools
const scriptDuplicates = "* 2.*"

// ProjectsReport summarizes UpdateProjects.
type ProjectsReport struct {
	Updated int
	Total   int
	Failed  []string
}

// UpdateProjects brings every blog in paths to the template version.
// Projects that are not derived from the template are skipped.
func UpdateProjects(paths []string, tpl *Template) ProjectsReport {
	report := ProjectsReport{Total: len(paths)}
	for _, p := range paths {
		ok, err := UpdateProject(p, tpl)
		if err != nil {
			slog.Error("Project update failed", logfields.Project(p), logfields.Error(err))
			report.Failed = append(report.Failed, p)
			continue
		}
		if ok {
			report.Updated++
		}
	}
	slog.Info("Projects updated", slog.Int("updated", report.Updated), slog.Int("total", report.Total))
	return report
}

// UpdateProject updates a single blog and reports whether it was changed.
func UpdateProject(projectPath string, tpl *Template) (bool, error) {
	root, err := filepath.Abs(projectPath)
	if err != nil {
		return false, ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve project path").Build()
	}
	if !isDir(root) {
		return false, ferrors.NotFoundError("project path does not exist").WithContext("path", root).Build()
	}
	pkg, err := project.Load(filepath.Join(root, project.FileName))
	if err != nil {
		return false, err
	}
	if pkg.Name() != tpl.Name {
		slog.Warn("Skipping project not based on the template",
			logfields.Project(root), slog.String("name", pkg.Name()))
		return false, nil
	}

	old := pkg.Version()
	if tpl.Version != "" {
		if err := pkg.SetVersion(tpl.Version); err != nil {
			return false, err
		}
	}
	scriptsChanged, err := pkg.SetScripts(ScriptNames, CanonicalScripts)
	if err != nil {
		return false, err
	}
	var retired []string
	for _, name := range RetiredScripts {
		if strings.HasPrefix(pkg.Script(name), "node ") {
			retired = append(retired, name)
		}
	}
	removed, err := pkg.RemoveScripts(retired)
	if err != nil {
		return false, err
	}
	scriptsChanged = scriptsChanged || removed
	if err := pkg.Save(); err != nil {
		return false, err
	}

	copied := 0
	for _, rel := range append(append([]string(nil), RequiredFiles...), RootFiles...) {
		src := filepath.Join(tpl.Root, filepath.FromSlash(rel))
		if !exists(src) {
			continue
		}
		if err := copyFile(src, filepath.Join(root, filepath.FromSlash(rel))); err != nil {
			return false, ferrors.WrapError(err, ferrors.CategoryFileSystem, "copy template file").
				WithContext("path", rel).Build()
		}
		copied++
	}
	removeScriptDuplicates(root)

	slog.Info("Project updated",
		logfields.Project(root),
		slog.String("from", old),
		slog.String("to", tpl.Version),
		slog.Bool("scripts_updated", scriptsChanged),
		logfields.Count(copied))
	return true, nil
}

func removeScriptDuplicates(root string) {
	dups, _ := filepath.Glob(filepath.Join(root, "scripts", scriptDuplicates))
	for _, dup := range dups {
		if err := os.Remove(dup); err != nil {
			slog.Warn("Could not remove duplicate script", logfields.Path(dup), logfields.Error(err))
			continue
		}
		slog.Info("Removed duplicate script", logfields.Path(dup))
	}
}
