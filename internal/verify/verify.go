// Package verify guards protected template assets and the pro license.
package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/blogkit/internal/config"
	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

// LicenseEnv must be "true" to build a pro template.
const LicenseEnv = "BLOGKIT_LICENSE_CONFIRMED"

// ProtectedAssets maps project-relative paths to their sha256 digest.
var ProtectedAssets = map[string]string{
	"src/components/MaugliFloatingLabel.astro": "ca96de8e3632806e83ab7db3973c569b0e039f98e2d8830175a559a0b239108e",
	"public/footerlabel.svg":                   "641b87e957ed5525b45f0bb94671e55f256302a64bbcd2f738a118bffa1f6bfe",
}

// FileHash returns the hex sha256 of the file at path.
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Assets checks every asset against its digest. Missing or modified files
// produce a single fatal verification error listing them all.
func Assets(root string, assets map[string]string) error {
	var bad []string
	for _, rel := range slices.Sorted(maps.Keys(assets)) {
		path := filepath.Join(root, filepath.FromSlash(rel))
		got, err := FileHash(path)
		switch {
		case err != nil:
			slog.Error("Protected asset unreadable", logfields.Path(rel), logfields.Error(err))
			bad = append(bad, rel)
		case got != assets[rel]:
			slog.Error("Protected asset modified", logfields.Path(rel), slog.String("sha256", got))
			bad = append(bad, rel)
		}
	}
	if len(bad) > 0 {
		return ferrors.VerificationError("asset hash mismatch, build aborted").
			WithContext("files", strings.Join(bad, ",")).
			WithHint("restore the original files from the template").Build()
	}
	return nil
}

// License fails when site is a pro template and the license is not confirmed
// in the environment.
func License(site config.SiteConfig, getenv func(string) string) error {
	if !site.IsProTemplate {
		return nil
	}
	if getenv(LicenseEnv) != "true" {
		return ferrors.VerificationError("pro template requires a confirmed license").
			WithHint("set " + LicenseEnv + "=true once the license is purchased").Build()
	}
	return nil
}

// Run verifies the protected assets and the license.
func Run(root string, site config.SiteConfig, getenv func(string) string) error {
	if err := Assets(root, ProtectedAssets); err != nil {
		return err
	}
	if err := License(site, getenv); err != nil {
		return err
	}
	slog.Info("Asset hashes and license verified")
	return nil
}
