package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

// Manager owns a scratch directory used to check out the blog template.
// Ephemeral workspaces are removed by Cleanup. Persistent ones are reused
// between runs, so template updates applied by the version checker can
// reuse an existing checkout of the release.
type Manager struct {
	baseDir    string
	subdir     string
	path       string
	persistent bool
}

// NewManager returns a manager for a unique directory under baseDir (the
// system temp dir when empty).
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// NewPersistentManager returns a manager for the fixed directory baseDir/subdir.
func NewPersistentManager(baseDir, subdir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if subdir == "" {
		subdir = "template"
	}
	return &Manager{baseDir: baseDir, subdir: subdir, persistent: true}
}

// Create makes the workspace directory.
func (m *Manager) Create() error {
	if m.persistent {
		m.path = filepath.Join(m.baseDir, m.subdir)
		if err := os.MkdirAll(m.path, 0o750); err != nil {
			return fmt.Errorf("create persistent workspace: %w", err)
		}
		slog.Debug("Using persistent workspace", logfields.Path(m.path))
		return nil
	}

	if err := os.MkdirAll(m.baseDir, 0o750); err != nil {
		return fmt.Errorf("create workspace base: %w", err)
	}
	dir, err := os.MkdirTemp(m.baseDir, "blogkit-")
	if err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	m.path = dir
	slog.Debug("Created workspace", logfields.Path(dir))
	return nil
}

// Path returns the workspace directory, empty before Create.
func (m *Manager) Path() string {
	return m.path
}

// Persistent reports whether Cleanup keeps the directory.
func (m *Manager) Persistent() bool {
	return m.persistent
}

// Cleanup removes an ephemeral workspace. Persistent workspaces are kept.
func (m *Manager) Cleanup() error {
	if m.path == "" || m.persistent {
		return nil
	}
	if err := os.RemoveAll(m.path); err != nil {
		return fmt.Errorf("cleanup workspace: %w", err)
	}
	slog.Debug("Removed workspace", logfields.Path(m.path))
	m.path = ""
	return nil
}

// Subdir creates and returns a directory inside the workspace.
func (m *Manager) Subdir(name string) (string, error) {
	if m.path == "" {
		return "", fmt.Errorf("workspace not created")
	}
	dir := filepath.Join(m.path, name)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create workspace subdir: %w", err)
	}
	return dir, nil
}
