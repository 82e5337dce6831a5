package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
)

const manifest = `{
    "name": "my-blog",
    "version": "1.0.0",
    "scripts": {
        "dev": "astro dev",
        "build": "astro build && echo <done>"
    },
    "dependencies": {
        "astro": "^4.0.0",
        "core-maugli": "^1.2.0"
    }
}
`

func TestRoundTripKeepsOrderAndIndent(t *testing.T) {
	p, err := Parse([]byte(manifest), "package.json")
	require.NoError(t, err)
	out, err := p.Bytes()
	require.NoError(t, err)
	assert.Equal(t, manifest, string(out))
}

func TestAccessors(t *testing.T) {
	p, err := Parse([]byte(manifest), "package.json")
	require.NoError(t, err)
	assert.Equal(t, "my-blog", p.Name())
	assert.Equal(t, "1.0.0", p.Version())
	assert.Equal(t, "astro dev", p.Script("dev"))

	v, ok := p.Dependency("core-maugli")
	assert.True(t, ok)
	assert.Equal(t, "^1.2.0", v)
	_, ok = p.Dependency("missing")
	assert.False(t, ok)
}

func TestPinDependency(t *testing.T) {
	p, err := Parse([]byte(manifest), "package.json")
	require.NoError(t, err)

	changed, err := p.PinDependency("core-maugli", "1.3.0")
	require.NoError(t, err)
	assert.True(t, changed)
	v, _ := p.Dependency("core-maugli")
	assert.Equal(t, "^1.3.0", v)

	changed, err = p.PinDependency("core-maugli", "^1.3.0")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = p.PinDependency("not-listed", "1.0.0")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestSetScripts(t *testing.T) {
	p, err := Parse([]byte(manifest), "package.json")
	require.NoError(t, err)

	changed, err := p.SetScripts([]string{"dev", "typograf"}, map[string]string{
		"dev":      "blogkit dev && astro dev",
		"typograf": "blogkit typograf",
	})
	require.NoError(t, err)
	assert.True(t, changed)

	out, err := p.Bytes()
	require.NoError(t, err)
	assert.Contains(t, string(out), `"dev": "blogkit dev && astro dev",`)
	assert.Contains(t, string(out), `"build": "astro build && echo <done>",`)
	assert.Contains(t, string(out), `"typograf": "blogkit typograf"`)
	assert.Equal(t, []string{"dev", "build", "typograf"}, p.Scripts().Keys())

	changed, err = p.SetScripts([]string{"dev"}, map[string]string{"dev": "blogkit dev && astro dev"})
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestLoadAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"x","version":"0.1.0"}`), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, p.SetVersion("0.2.0"))
	require.NoError(t, p.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"x\",\n  \"version\": \"0.2.0\"\n}\n", string(data))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))

	_, err = Parse([]byte(`[1,2]`), "package.json")
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestObjectDelete(t *testing.T) {
	o := NewObject()
	require.NoError(t, o.Set("a", 1))
	require.NoError(t, o.Set("b", 2))
	o.Delete("a")
	o.Delete("missing")
	assert.Equal(t, []string{"b"}, o.Keys())
	assert.False(t, o.Has("a"))
}

func TestRemoveScripts(t *testing.T) {
	pkg, err := Parse([]byte(`{"name":"blog","scripts":{"dev":"astro dev","prestart":"node a.js","build":"astro build"}}`), FileName)
	require.NoError(t, err)

	removed, err := pkg.RemoveScripts([]string{"prestart", "missing"})
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"dev", "build"}, pkg.Scripts().Keys())

	removed, err = pkg.RemoveScripts([]string{"prestart"})
	require.NoError(t, err)
	assert.False(t, removed)
}
