package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogkit/internal/config"
	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
)

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestAssets(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "public"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "public/label.svg"), []byte("<svg/>"), 0o644))

	assert.NoError(t, Assets(root, map[string]string{"public/label.svg": digest("<svg/>")}))

	err := Assets(root, map[string]string{
		"public/label.svg": digest("other"),
		"public/gone.svg":  digest("x"),
	})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryVerification))
	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.True(t, classified.IsFatal())
	assert.ErrorContains(t, err, "files=public/gone.svg,public/label.svg")
}

func TestFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))
	got, err := FileHash(path)
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", got)
}

func TestLicense(t *testing.T) {
	env := func(v string) func(string) string {
		return func(k string) string {
			if k == LicenseEnv {
				return v
			}
			return ""
		}
	}
	assert.NoError(t, License(config.SiteConfig{}, env("")))
	assert.NoError(t, License(config.SiteConfig{IsProTemplate: true}, env("true")))
	err := License(config.SiteConfig{IsProTemplate: true}, env("yes"))
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryVerification))
}

func TestRunFailsWithoutAssets(t *testing.T) {
	err := Run(t.TempDir(), config.SiteConfig{}, func(string) string { return "" })
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryVerification))
}
