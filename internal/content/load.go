package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/frontmatter"
)

// Problem reports a content file that could not be loaded or validated.
type Problem struct {
	Path string
	Err  error
}

func (p Problem) Error() string { return p.Path + ": " + p.Err.Error() }

func (p Problem) Unwrap() error { return p.Err }

// Load reads every .md and .mdx file of collection c under contentDir,
// sorted by id. Files that fail to parse are returned as problems; a missing
// collection directory yields no entries.
func Load(contentDir string, c Collection) ([]Entry, []Problem, error) {
	dir := filepath.Join(contentDir, string(c))
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}

	var entries []Entry
	var problems []Problem
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		ext := filepath.Ext(path)
		if d.IsDir() || (ext != ".md" && ext != ".mdx") {
			return nil
		}
		e, err := LoadFile(path, c)
		if err != nil {
			problems = append(problems, Problem{Path: path, Err: err})
			return nil
		}
		rel, _ := filepath.Rel(dir, path)
		e.ID = filepath.ToSlash(strings.TrimSuffix(rel, ext))
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, nil, ferrors.FileSystemError("read collection").WithCause(err).
			WithContext("collection", string(c)).WithContext("path", dir).Build()
	}
	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.ID, b.ID) })
	return entries, problems, nil
}

// LoadFile parses one content file. The id is the file name without
// extension.
func LoadFile(path string, c Collection) (Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, err
	}
	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return Entry{}, err
	}
	if !doc.Had {
		return Entry{}, errors.New("missing front matter")
	}
	e := Entry{
		ID:         strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Collection: c,
		Path:       path,
		Body:       doc.Body,
	}
	if err := doc.Decode(&e.Data); err != nil {
		return Entry{}, fmt.Errorf("front matter: %w", err)
	}
	return e, nil
}
