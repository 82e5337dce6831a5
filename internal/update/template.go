package update

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/git"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
	"git.home.luguber.info/inful/blogkit/internal/project"
	"git.home.luguber.info/inful/blogkit/internal/versioning"
)

// Template is an installed copy of the blog template.
type Template struct {
	Root    string
	Name    string
	Version string
}

// LocalTemplate describes the template checked out at root. The version is
// read from its package.json.
func LocalTemplate(root, name string) (*Template, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, ferrors.NotFoundError("template directory not found").WithContext("path", root).Build()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve template root").Build()
	}
	tpl := &Template{Root: abs, Name: name}
	pkg, err := project.Load(filepath.Join(abs, project.FileName))
	switch {
	case err == nil:
		tpl.Version = versioning.Normalize(pkg.Version())
		if pkg.Name() != "" {
			tpl.Name = pkg.Name()
		}
	case ferrors.HasCategory(err, ferrors.CategoryNotFound):
		slog.Warn("Template has no package.json", logfields.Path(abs))
	default:
		return nil, err
	}
	return tpl, nil
}

// Fetcher checks out template releases from a git remote. Client decides
// the workspace the checkout lands in.
type Fetcher struct {
	Client *git.Client
	URL    string
	Name   string
}

// Fetch clones the release tagged version, or the default branch when
// version is empty.
func (f *Fetcher) Fetch(ctx context.Context, version string) (*Template, error) {
	tag := ""
	if version != "" {
		tags, err := f.Client.ListTags(ctx, f.URL)
		if err != nil {
			return nil, err
		}
		tag = tagFor(tags, version)
		if tag == "" {
			return nil, ferrors.NotFoundError("template release not found").
				WithContext("version", version).WithContext("url", f.URL).Build()
		}
	}
	root, err := f.Client.CloneTemplate(ctx, f.URL, tag, f.Name)
	if err != nil {
		return nil, err
	}
	tpl, err := LocalTemplate(root, f.Name)
	if err != nil {
		return nil, err
	}
	if tpl.Version == "" {
		tpl.Version = versioning.Normalize(version)
	}
	return tpl, nil
}

func tagFor(tags []string, version string) string {
	want := versioning.Normalize(version)
	for _, tag := range tags {
		if versioning.Normalize(tag) == want {
			return tag
		}
	}
	return ""
}
