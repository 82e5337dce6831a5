// Package project reads and edits a blog project's package.json, keeping
// member order and indentation so diffs stay minimal.
package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"strings"

	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
)

// FileName is the manifest file name.
const FileName = "package.json"

// Package is a loaded package.json.
type Package struct {
	Path   string
	root   *Object
	indent string
}

// Load reads the manifest at path.
func Load(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ferrors.NotFoundError("package.json not found").WithContext("path", path).Build()
	}
	if err != nil {
		return nil, ferrors.FileSystemError("read package.json").WithCause(err).WithContext("path", path).Build()
	}
	return Parse(data, path)
}

// Parse decodes manifest data.
func Parse(data []byte, path string) (*Package, error) {
	root := NewObject()
	if err := root.UnmarshalJSON(data); err != nil {
		return nil, ferrors.ConfigError("invalid package.json").WithCause(err).WithContext("path", path).Build()
	}
	return &Package{Path: path, root: root, indent: detectIndent(data)}, nil
}

// detectIndent returns the indentation of the first member line, two spaces
// when the file has none.
func detectIndent(data []byte) string {
	for line := range bytes.SplitSeq(data, []byte("\n")) {
		trimmed := bytes.TrimLeft(line, " \t")
		if len(trimmed) > 0 && trimmed[0] == '"' && len(trimmed) < len(line) {
			return string(line[:len(line)-len(trimmed)])
		}
	}
	return "  "
}

// Name returns the package name.
func (p *Package) Name() string { return p.root.String("name") }

// Version returns the package version.
func (p *Package) Version() string { return p.root.String("version") }

// SetVersion sets the package version.
func (p *Package) SetVersion(v string) error { return p.root.Set("version", v) }

var dependencySections = []string{"dependencies", "devDependencies"}

// Dependency returns the version range of dependency name from
// dependencies or devDependencies.
func (p *Package) Dependency(name string) (string, bool) {
	for _, section := range dependencySections {
		if deps, ok := p.root.Object(section); ok && deps.Has(name) {
			return deps.String(name), true
		}
	}
	return "", false
}

// PinDependency sets name to ^version in every dependency section that
// already lists it and reports whether anything changed.
func (p *Package) PinDependency(name, version string) (bool, error) {
	want := "^" + strings.TrimLeft(version, "^~")
	changed := false
	for _, section := range dependencySections {
		deps, ok := p.root.Object(section)
		if !ok || !deps.Has(name) || deps.String(name) == want {
			continue
		}
		if err := deps.Set(name, want); err != nil {
			return changed, err
		}
		if err := p.root.Set(section, deps); err != nil {
			return changed, err
		}
		changed = true
	}
	return changed, nil
}

// Scripts returns the scripts object, empty when absent.
func (p *Package) Scripts() *Object {
	if s, ok := p.root.Object("scripts"); ok {
		return s
	}
	return NewObject()
}

// Script returns the command of script name.
func (p *Package) Script(name string) string { return p.Scripts().String(name) }

// SetScripts writes every entry of scripts, in the given order, into the
// scripts object and reports whether any command changed.
func (p *Package) SetScripts(names []string, scripts map[string]string) (bool, error) {
	obj := p.Scripts()
	changed := false
	for _, name := range names {
		cmd := scripts[name]
		if obj.Has(name) && obj.String(name) == cmd {
			continue
		}
		if err := obj.Set(name, cmd); err != nil {
			return changed, err
		}
		changed = true
	}
	if !changed {
		return false, nil
	}
	return true, p.root.Set("scripts", obj)
}

// RemoveScripts deletes the named scripts and reports whether any existed.
func (p *Package) RemoveScripts(names []string) (bool, error) {
	obj := p.Scripts()
	removed := false
	for _, name := range names {
		if obj.Has(name) {
			obj.Delete(name)
			removed = true
		}
	}
	if !removed {
		return false, nil
	}
	return true, p.root.Set("scripts", obj)
}

// Bytes encodes the manifest with its original indentation and a trailing
// newline.
func (p *Package) Bytes() ([]byte, error) {
	compact, err := p.root.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", p.indent); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Save writes the manifest back to Path.
func (p *Package) Save() error {
	data, err := p.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(p.Path, data, 0o644); err != nil {
		return ferrors.FileSystemError("write package.json").WithCause(err).WithContext("path", p.Path).Build()
	}
	return nil
}
