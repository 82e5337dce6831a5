package update

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/blogkit/internal/config"
	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/images"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
	"git.home.luguber.info/inful/blogkit/internal/siteconfig"
)

// VersionFile records the template version the project was last upgraded to.
const VersionFile = ".template-version"

// PostinstallOptions configures Postinstall.
type PostinstallOptions struct {
	ProjectRoot string
	PublicDir   string
	SiteConfig  string
	Version     string
	Defaults    *config.SiteDocument
}

// PostinstallResult describes what Postinstall did.
type PostinstallResult struct {
	Previous string
	Upgraded bool
	Upgrade  siteconfig.UpgradeResult
	Created  []string
}

// Postinstall upgrades the site configuration when the template version
// differs from the recorded one, then makes sure the image directories exist.
func Postinstall(opts PostinstallOptions) (PostinstallResult, error) {
	var res PostinstallResult
	versionPath := filepath.Join(opts.ProjectRoot, VersionFile)
	data, err := os.ReadFile(versionPath)
	switch {
	case err == nil:
		res.Previous = strings.TrimSpace(string(data))
	case !errors.Is(err, fs.ErrNotExist):
		return res, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read template version file").
			WithContext("path", versionPath).Build()
	}

	if res.Previous != opts.Version {
		slog.Info("Template version changed", slog.String("from", res.Previous), logfields.Version(opts.Version))
		res.Upgrade, err = siteconfig.Upgrade(opts.SiteConfig, opts.Defaults)
		switch {
		case err == nil:
			res.Upgraded = true
			if err := os.WriteFile(versionPath, []byte(opts.Version), 0o644); err != nil {
				return res, ferrors.WrapError(err, ferrors.CategoryFileSystem, "write template version file").
					WithContext("path", versionPath).Build()
			}
		case ferrors.HasCategory(err, ferrors.CategoryNotFound):
			slog.Warn("No site configuration to upgrade", logfields.Path(opts.SiteConfig))
		default:
			return res, err
		}
	} else {
		slog.Info("Template version unchanged, skipping upgrade", logfields.Version(opts.Version))
	}

	res.Created, err = images.SetupDirectories(opts.PublicDir)
	if err != nil {
		return res, err
	}
	return res, nil
}
