// Package netlify renders and installs the blog's netlify.toml.
package netlify

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"git.home.luguber.info/inful/blogkit/internal/config"
	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

const (
	// FileName is the deployment config file in the project root.
	FileName = "netlify.toml"
	// CustomizedMarker in a netlify.toml stops Copy from replacing it.
	CustomizedMarker = "# CUSTOMIZED"

	DefaultBuildCommand = "npm run build"
	DefaultPublishDir   = "dist"
	DefaultStatus       = 301

	header = "# Netlify configuration generated from the blog configuration\n\n"
)

// File is the subset of netlify.toml blogkit writes.
type File struct {
	Build     Build      `toml:"build"`
	Plugins   []Plugin   `toml:"plugins,omitempty"`
	Redirects []Redirect `toml:"redirects,omitempty"`
	Headers   []Header   `toml:"headers,omitempty"`
}

type Build struct {
	Command     string            `toml:"command"`
	Publish     string            `toml:"publish"`
	Environment map[string]string `toml:"environment,omitempty"`
}

type Plugin struct {
	Package string `toml:"package"`
}

type Redirect struct {
	From   string `toml:"from"`
	To     string `toml:"to"`
	Status int    `toml:"status"`
	Force  bool   `toml:"force,omitempty"`
}

type Header struct {
	For    string            `toml:"for"`
	Values map[string]string `toml:"values,omitempty"`
}

// FromSite maps the site configuration's netlify block onto a File.
func FromSite(site config.SiteConfig) File {
	n := site.Netlify
	f := File{Build: Build{Command: n.BuildCommand, Publish: n.PublishDir}}
	if f.Build.Command == "" {
		f.Build.Command = DefaultBuildCommand
	}
	if f.Build.Publish == "" {
		f.Build.Publish = DefaultPublishDir
	}

	env := map[string]string{}
	if !site.NetlifyAutoUpdate() {
		env["DISABLE_AUTO_UPDATE"] = "true"
	}
	for k, v := range n.Environment {
		env[k] = v
	}
	if len(env) > 0 {
		f.Build.Environment = env
	}

	for _, p := range n.Plugins {
		f.Plugins = append(f.Plugins, Plugin{Package: p})
	}
	for _, r := range n.Redirects {
		status := r.Status
		if status == 0 {
			status = DefaultStatus
		}
		f.Redirects = append(f.Redirects, Redirect{From: r.From, To: r.To, Status: status, Force: r.Force})
	}
	for _, h := range n.Headers {
		f.Headers = append(f.Headers, Header{For: h.For, Values: h.Values})
	}
	return f
}

// Render encodes f as TOML.
func Render(f File) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(header)
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("encode %s: %w", FileName, err)
	}
	return buf.Bytes(), nil
}

// Parse decodes a netlify.toml.
func Parse(data []byte) (File, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return File{}, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid "+FileName).Build()
	}
	return f, nil
}

// Generate writes netlify.toml for site into root. An existing file is
// kept as netlify.toml.backup first; the backup path is returned.
func Generate(root string, site config.SiteConfig) (string, error) {
	data, err := Render(FromSite(site))
	if err != nil {
		return "", ferrors.InternalError("render netlify config").WithCause(err).Build()
	}
	target := filepath.Join(root, FileName)
	backup := ""
	if existing, err := os.ReadFile(target); err == nil {
		backup = target + ".backup"
		if err := os.WriteFile(backup, existing, 0o644); err != nil {
			return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "back up "+FileName).Build()
		}
		slog.Info("Backed up existing netlify config", logfields.Path(backup))
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return backup, ferrors.WrapError(err, ferrors.CategoryFileSystem, "write "+FileName).Build()
	}
	slog.Info("Generated netlify config",
		logfields.Path(target),
		slog.Bool("auto_update", site.NetlifyAutoUpdate()))
	return backup, nil
}

// CopyResult is what Copy did with the target file.
type CopyResult string

const (
	Created         CopyResult = "created"
	Replaced        CopyResult = "replaced"
	KeptCustomized  CopyResult = "kept-customized"
	KeptExisting    CopyResult = "kept-existing"
	TemplateMissing CopyResult = "template-missing"
)

// Copy installs the template's netlify.toml into root. Files marked with
// CustomizedMarker are never touched; with onlyNew no existing file is.
// A replaced file is kept as netlify.toml.backup.
func Copy(templateRoot, root string, onlyNew bool) (CopyResult, error) {
	src := filepath.Join(templateRoot, FileName)
	data, err := os.ReadFile(src)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Template has no netlify config", logfields.Path(src))
		return TemplateMissing, nil
	}
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "read template "+FileName).Build()
	}
	if _, err := Parse(data); err != nil {
		return "", err
	}

	target := filepath.Join(root, FileName)
	existing, err := os.ReadFile(target)
	switch {
	case err == nil && strings.Contains(string(existing), CustomizedMarker):
		slog.Info("Keeping customized netlify config", logfields.Path(target))
		return KeptCustomized, nil
	case err == nil && onlyNew:
		slog.Info("Netlify config exists, leaving unchanged", logfields.Path(target))
		return KeptExisting, nil
	case err == nil:
		if err := os.WriteFile(target+".backup", existing, 0o644); err != nil {
			return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "back up "+FileName).Build()
		}
	case !errors.Is(err, fs.ErrNotExist):
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "read "+FileName).Build()
	}

	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "write "+FileName).Build()
	}
	if existing != nil {
		slog.Info("Replaced netlify config", logfields.Path(target))
		return Replaced, nil
	}
	slog.Info("Created netlify config", logfields.Path(target))
	return Created, nil
}
