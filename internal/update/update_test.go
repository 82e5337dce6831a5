package update

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogkit/internal/config"
	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/project"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func newTemplate(t *testing.T) *Template {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"name": "core-maugli", "version": "2.0.0"}`)
	writeFile(t, filepath.Join(root, "src/components/Header.astro"), "header v2")
	writeFile(t, filepath.Join(root, "src/components/cards/Card.astro"), "card v2")
	writeFile(t, filepath.Join(root, "scripts/helper.js"), "helper v2")
	writeFile(t, filepath.Join(root, "public/img/default/blog.webp"), "img")
	writeFile(t, filepath.Join(root, "src/styles/global.css"), "template global")
	writeFile(t, filepath.Join(root, "src/styles/extra.css"), "extra v2")
	writeFile(t, filepath.Join(root, "astro.config.mjs"), "import { VitePWA } from 'vite-plugin-pwa'")
	writeFile(t, filepath.Join(root, "tsconfig.json"), "{}")
	writeFile(t, filepath.Join(root, ".gitignore"), "node_modules\n")
	tpl, err := LocalTemplate(root, "core-maugli")
	require.NoError(t, err)
	return tpl
}

func TestLocalTemplate(t *testing.T) {
	tpl := newTemplate(t)
	assert.Equal(t, "core-maugli", tpl.Name)
	assert.Equal(t, "2.0.0", tpl.Version)

	_, err := LocalTemplate(filepath.Join(t.TempDir(), "missing"), "core-maugli")
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))

	bare, err := LocalTemplate(t.TempDir(), "core-maugli")
	require.NoError(t, err)
	assert.Empty(t, bare.Version)
}

func TestTagFor(t *testing.T) {
	tags := []string{"v1.0.0", "1.1.0", "v2.0.0"}
	assert.Equal(t, "v2.0.0", tagFor(tags, "2.0.0"))
	assert.Equal(t, "1.1.0", tagFor(tags, "^1.1.0"))
	assert.Empty(t, tagFor(tags, "3.0.0"))
}

func TestSyncComponents(t *testing.T) {
	tpl := newTemplate(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src/components/Old.astro"), "stale")
	writeFile(t, filepath.Join(root, "src/components/Header.astro"), "header v1")
	writeFile(t, filepath.Join(root, "scripts/custom-deploy.sh"), "mine")
	writeFile(t, filepath.Join(root, "scripts/helper.js"), "helper v1")
	writeFile(t, filepath.Join(root, "src/styles/global.css"), "user global")
	writeFile(t, filepath.Join(root, "astro.config.mjs"), "user config")
	writeFile(t, filepath.Join(root, "package.json"), `{
  "name": "my-blog",
  "scripts": {
    "build": "blogkit typograf && astro build"
  },
  "dependencies": {
    "core-maugli": "^1.0.0"
  }
}
`)
	now := time.UnixMilli(1700000000000)

	report, err := SyncComponents(root, tpl, now)
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(root, "src/components/Old.astro"))
	assert.Equal(t, "header v2", readFile(t, filepath.Join(root, "src/components/Header.astro")))
	assert.FileExists(t, filepath.Join(root, "src/components/cards/Card.astro"))
	assert.Equal(t, "mine", readFile(t, filepath.Join(root, "scripts/custom-deploy.sh")))
	assert.Equal(t, "helper v2", readFile(t, filepath.Join(root, "scripts/helper.js")))
	assert.FileExists(t, filepath.Join(root, "public/img/default/blog.webp"))

	assert.Equal(t, "user global", readFile(t, filepath.Join(root, "src/styles/global.css")))
	assert.Equal(t, "extra v2", readFile(t, filepath.Join(root, "src/styles/extra.css")))
	assert.Equal(t, 1, report.Styles)

	pkg, err := project.Load(filepath.Join(root, "package.json"))
	require.NoError(t, err)
	dep, _ := pkg.Dependency("core-maugli")
	assert.Equal(t, "^2.0.0", dep)
	assert.Equal(t, "blogkit typograf && blogkit previews && astro build", pkg.Script("build"))
	assert.True(t, report.PackageUpdated)

	assert.True(t, report.ConfigReplaced)
	assert.Equal(t, filepath.Join(root, "astro.config.mjs.backup.1700000000000"), report.ConfigBackup)
	assert.Equal(t, "user config", readFile(t, report.ConfigBackup))
	assert.Contains(t, readFile(t, filepath.Join(root, "astro.config.mjs")), "VitePWA")

	// a second sync leaves the build script alone
	report, err = SyncComponents(root, tpl, now)
	require.NoError(t, err)
	assert.False(t, report.PackageUpdated)
}

func TestSyncComponentsCopiesAllStylesWithoutGlobal(t *testing.T) {
	tpl := newTemplate(t)
	root := t.TempDir()
	_, err := SyncComponents(root, tpl, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "template global", readFile(t, filepath.Join(root, "src/styles/global.css")))
	assert.NoFileExists(t, filepath.Join(root, "package.json"))
}

func TestSyncComponentsRefusesTemplateRoot(t *testing.T) {
	tpl := newTemplate(t)
	_, err := SyncComponents(tpl.Root, tpl, time.Now())
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestUpdateProjects(t *testing.T) {
	tpl := newTemplate(t)
	blog := t.TempDir()
	writeFile(t, filepath.Join(blog, "package.json"), `{
    "name": "core-maugli",
    "version": "1.0.0",
    "scripts": {
        "custom": "echo hi",
        "prestart": "node resize-all.cjs && node scripts/generate-previews.js",
        "optimize:squoosh": "squoosh-cli public",
        "build": "astro build"
    }
}
`)
	writeFile(t, filepath.Join(blog, "scripts/featured 2.js"), "dup")
	writeFile(t, filepath.Join(blog, "scripts/featured.js"), "keep")

	other := t.TempDir()
	writeFile(t, filepath.Join(other, "package.json"), `{"name": "something-else", "version": "0.1.0"}`)
	missing := filepath.Join(t.TempDir(), "gone")

	report := UpdateProjects([]string{blog, other, missing}, tpl)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, []string{missing}, report.Failed)

	pkg, err := project.Load(filepath.Join(blog, "package.json"))
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", pkg.Version())
	assert.Equal(t, "blogkit build", pkg.Script("build"))
	assert.Equal(t, "echo hi", pkg.Script("custom"))
	assert.Equal(t, CanonicalScripts["postinstall"], pkg.Script("postinstall"))
	assert.False(t, pkg.Scripts().Has("prestart"), "node hook replaced by blogkit is dropped")
	assert.Equal(t, "squoosh-cli public", pkg.Script("optimize:squoosh"), "customized script is kept")

	assert.FileExists(t, filepath.Join(blog, ".gitignore"))
	assert.NoFileExists(t, filepath.Join(blog, "scripts/featured 2.js"))
	assert.FileExists(t, filepath.Join(blog, "scripts/featured.js"))

	untouched := readFile(t, filepath.Join(other, "package.json"))
	assert.Contains(t, untouched, "0.1.0")
}

func TestCanonicalScriptsCoverNames(t *testing.T) {
	assert.Len(t, ScriptNames, len(CanonicalScripts))
	for _, name := range ScriptNames {
		assert.Contains(t, CanonicalScripts, name)
	}
}

func TestIsDuplicate(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Header 2.astro", true},
		{"logo (1).svg", true},
		{"utils - Copy.ts", true},
		{"flag_copy.svg", true},
		{"Header.astro", false},
		{"h2.astro", false},
		{"copy.ts", false},
		{"v2.ts", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicate(tt.name))
		})
	}
}

func TestCleanupDuplicates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src/components/Header.astro"), "")
	writeFile(t, filepath.Join(root, "src/components/nested/Header 2.astro"), "")
	writeFile(t, filepath.Join(root, "public/flags/en (1).svg"), "")
	writeFile(t, filepath.Join(root, "src/content/blog/post 2.md"), "")

	removed, err := CleanupDuplicates(root, nil)
	require.NoError(t, err)
	assert.Len(t, removed, 2)
	assert.FileExists(t, filepath.Join(root, "src/components/Header.astro"))
	assert.FileExists(t, filepath.Join(root, "src/content/blog/post 2.md"))
	assert.NoFileExists(t, filepath.Join(root, "public/flags/en (1).svg"))
}

func TestBackup(t *testing.T) {
	now := time.Date(2025, 3, 4, 5, 6, 7, 890_000_000, time.UTC)
	assert.Equal(t, "backup-2025-03-04T05-06-07-890Z", BackupName(now))

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src/content/blog/post.md"), "post")
	writeFile(t, filepath.Join(root, config.DefaultSiteConfigPath), "configVersion: \"1.0\"\n")

	dir, err := Backup(root, config.DefaultSiteConfigPath, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, BackupName(now)), dir)
	assert.Equal(t, "post", readFile(t, filepath.Join(dir, "content/blog/post.md")))
	assert.FileExists(t, filepath.Join(dir, "blog.config.yaml"))
	assert.NoFileExists(t, filepath.Join(dir, "global.css"))
}

func TestPostinstall(t *testing.T) {
	root := t.TempDir()
	sitePath := filepath.Join(root, config.DefaultSiteConfigPath)
	writeFile(t, sitePath, "configVersion: \"1.0\"\ndefaultLang: ru\n")
	defaults, err := config.ParseSite([]byte("configVersion: \"1.1\"\ndefaultLang: en\nshowExamples: true\n"), "defaults")
	require.NoError(t, err)

	opts := PostinstallOptions{
		ProjectRoot: root,
		PublicDir:   filepath.Join(root, "public"),
		SiteConfig:  sitePath,
		Version:     "2.0.0",
		Defaults:    defaults,
	}
	res, err := Postinstall(opts)
	require.NoError(t, err)
	assert.True(t, res.Upgraded)
	assert.Empty(t, res.Previous)
	assert.Equal(t, []string{"showExamples"}, res.Upgrade.Added)
	assert.Equal(t, "2.0.0", readFile(t, filepath.Join(root, VersionFile)))
	assert.DirExists(t, filepath.Join(root, "public/img/uploads"))
	assert.Contains(t, readFile(t, sitePath), "defaultLang: ru")

	res, err = Postinstall(opts)
	require.NoError(t, err)
	assert.False(t, res.Upgraded)
	assert.Equal(t, "2.0.0", res.Previous)
	assert.Empty(t, res.Created)
}

func TestPostinstallWithoutSiteConfig(t *testing.T) {
	root := t.TempDir()
	defaults, err := config.ParseSite([]byte("configVersion: \"1.1\"\n"), "defaults")
	require.NoError(t, err)
	res, err := Postinstall(PostinstallOptions{
		ProjectRoot: root,
		PublicDir:   filepath.Join(root, "public"),
		SiteConfig:  filepath.Join(root, "missing.yaml"),
		Version:     "2.0.0",
		Defaults:    defaults,
	})
	require.NoError(t, err)
	assert.False(t, res.Upgraded)
	assert.NoFileExists(t, filepath.Join(root, VersionFile))
}

func TestInit(t *testing.T) {
	tpl := newTemplate(t)
	writeFile(t, filepath.Join(tpl.Root, "src/content/blog/hello.md"), "hi")
	target := filepath.Join(t.TempDir(), "new-blog")

	n, err := Init(tpl, target)
	require.NoError(t, err)
	assert.Positive(t, n)
	for _, p := range []string{"package.json", "astro.config.mjs", "tsconfig.json", "src/content/blog/hello.md", "scripts/helper.js", "public/img/default/blog.webp"} {
		assert.FileExists(t, filepath.Join(target, p))
	}
	assert.NoFileExists(t, filepath.Join(target, "package-lock.json"))

	_, err = Init(tpl, target)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryAlreadyExists))
}

func TestInitRequiresTemplateItems(t *testing.T) {
	tpl := &Template{Root: t.TempDir(), Name: "core-maugli"}
	_, err := Init(tpl, t.TempDir())
	require.Error(t, err)
	assert.ErrorContains(t, err, "copy template item")
}
