// Package featured manages the isFeatured flag of posts, projects and
// products, keeping at most MaxFeatured entries featured per collection.
package featured

import (
	"log/slog"
	"os"
	"slices"

	"git.home.luguber.info/inful/blogkit/internal/content"
	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/frontmatter"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

// MaxFeatured is the number of entries that may be featured at once.
const MaxFeatured = 3

const field = "isFeatured"

// Collections can carry the featured flag.
var Collections = []content.Collection{content.Blog, content.Products, content.Projects}

// Manager edits one collection.
type Manager struct {
	contentDir string
	collection content.Collection
}

// New returns a Manager for collection c under contentDir.
func New(contentDir string, c content.Collection) (*Manager, error) {
	if !slices.Contains(Collections, c) {
		return nil, ferrors.ValidationError("collection does not support featured entries").
			WithContext("collection", string(c)).Build()
	}
	return &Manager{contentDir: contentDir, collection: c}, nil
}

func (m *Manager) load() ([]content.Entry, error) {
	entries, problems, err := content.Load(m.contentDir, m.collection)
	if err != nil {
		return nil, err
	}
	for _, p := range problems {
		slog.Debug("Skipping unreadable entry", logfields.Path(p.Path), logfields.Error(p.Err))
	}
	return entries, nil
}

// List returns the featured entries, newest first.
func (m *Manager) List() ([]content.Entry, error) {
	entries, err := m.load()
	if err != nil {
		return nil, err
	}
	var out []content.Entry
	for _, e := range entries {
		if e.Data.IsFeatured {
			out = append(out, e)
		}
	}
	content.SortByDateDesc(out)
	return out, nil
}

// Add features id. When MaxFeatured entries are already featured the oldest
// one is unfeatured first and its id returned. Adding an entry that is
// already featured changes nothing.
func (m *Manager) Add(id string) (evicted string, err error) {
	entries, err := m.load()
	if err != nil {
		return "", err
	}
	target, ok := find(entries, id)
	if !ok {
		return "", m.notFound(id)
	}
	if target.Data.IsFeatured {
		slog.Info("Already featured", logfields.Collection(string(m.collection)), slog.String("id", id))
		return "", nil
	}

	var current []content.Entry
	for _, e := range entries {
		if e.Data.IsFeatured {
			current = append(current, e)
		}
	}
	if len(current) >= MaxFeatured {
		content.SortByDateDesc(current)
		oldest := current[len(current)-1]
		if err := setFlag(oldest.Path, false); err != nil {
			return "", err
		}
		evicted = oldest.ID
		slog.Info("Removed oldest featured entry", logfields.Collection(string(m.collection)), slog.String("id", evicted))
	}

	if err := setFlag(target.Path, true); err != nil {
		return evicted, err
	}
	slog.Info("Featured", logfields.Collection(string(m.collection)), slog.String("id", id))
	return evicted, nil
}

// Remove clears the featured flag of id.
func (m *Manager) Remove(id string) error {
	entries, err := m.load()
	if err != nil {
		return err
	}
	target, ok := find(entries, id)
	if !ok {
		return m.notFound(id)
	}
	if err := setFlag(target.Path, false); err != nil {
		return err
	}
	slog.Info("Unfeatured", logfields.Collection(string(m.collection)), slog.String("id", id))
	return nil
}

func (m *Manager) notFound(id string) error {
	return ferrors.NotFoundError("entry not found").
		WithContext("collection", string(m.collection)).
		WithContext("id", id).Build()
}

func find(entries []content.Entry, id string) (content.Entry, bool) {
	i := slices.IndexFunc(entries, func(e content.Entry) bool { return e.ID == id })
	if i < 0 {
		return content.Entry{}, false
	}
	return entries[i], true
}

// setFlag rewrites the isFeatured line of the file at path, leaving the
// rest of the file byte for byte.
func setFlag(path string, featured bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return ferrors.FileSystemError("stat entry").WithCause(err).WithContext("path", path).Build()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return ferrors.FileSystemError("read entry").WithCause(err).WithContext("path", path).Build()
	}
	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return ferrors.ContentError("parse front matter").WithCause(err).WithContext("path", path).Build()
	}
	value := "false"
	if featured {
		value = "true"
	}
	doc.SetField(field, value)
	if err := os.WriteFile(path, doc.Bytes(), info.Mode().Perm()); err != nil {
		return ferrors.FileSystemError("write entry").WithCause(err).WithContext("path", path).Build()
	}
	return nil
}
