package previews

import (
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/blogkit/internal/frontmatter"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
	"git.home.luguber.info/inful/blogkit/internal/markdown"
)

// CollectRefs returns the image references (paths relative to the public
// dir, with a leading slash) that need previews: those referenced from
// content files plus the example and default images. The result is sorted
// and free of duplicates.
func CollectRefs(contentDir, publicDir string) ([]string, error) {
	seen := map[string]struct{}{}
	add := func(ref string) {
		if _, ok := seen[ref]; !ok {
			seen[ref] = struct{}{}
		}
	}

	if err := contentRefs(contentDir, func(ref string) {
		if keepRef(ref) {
			add(ref)
		}
	}); err != nil {
		return nil, err
	}

	for _, ref := range exampleRefs(publicDir) {
		add(ref)
	}
	for _, ref := range defaultRefs(publicDir) {
		add(ref)
	}

	out := make([]string, 0, len(seen))
	for ref := range seen {
		out = append(out, ref)
	}
	slices.Sort(out)
	return out, nil
}

// keepRef drops remote images, bare file names and author portraits.
func keepRef(ref string) bool {
	return !strings.HasPrefix(ref, "http") &&
		strings.Contains(ref, "/") &&
		!strings.Contains(ref, "authors/")
}

func contentRefs(contentDir string, add func(string)) error {
	if _, err := os.Stat(contentDir); err != nil {
		slog.Warn("Content directory not found", logfields.Path(contentDir))
		return nil
	}
	return filepath.WalkDir(contentDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("Skipping unreadable path", logfields.Path(p), logfields.Error(err))
			if d != nil && d.IsDir() && p != contentDir {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(p))
		if d.IsDir() || (ext != ".md" && ext != ".mdx") {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			slog.Warn("Cannot read content file", logfields.Path(p), logfields.Error(err))
			return nil
		}
		for _, ref := range FileRefs(data) {
			add(ref)
		}
		return nil
	})
}

// FileRefs extracts image references from a Markdown document: front matter
// values under "image" or "src" keys at any depth, Markdown images and HTML
// img tags in the body.
func FileRefs(content []byte) []string {
	doc, err := frontmatter.Parse(content)
	if err != nil {
		return markdown.ImageRefs(content)
	}
	var refs []string
	if doc.Had {
		if node, err := doc.Node(); err == nil {
			refs = nodeRefs(node, refs)
		}
	}
	return append(refs, markdown.ImageRefs(doc.Body)...)
}

func nodeRefs(n *yaml.Node, refs []string) []string {
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if val.Kind == yaml.ScalarNode {
				if (key.Value == "image" || key.Value == "src") && val.Value != "" {
					refs = append(refs, val.Value)
				}
				continue
			}
			refs = nodeRefs(val, refs)
		}
	case yaml.SequenceNode:
		for _, c := range n.Content {
			refs = nodeRefs(c, refs)
		}
	}
	return refs
}

// exampleRefs lists img/examples recursively, skipping author portraits and
// existing previews.
func exampleRefs(publicDir string) []string {
	root := filepath.Join(publicDir, "img", "examples")
	var refs []string
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != root && (d.Name() == "authors" || d.Name() == previewsDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if isImage(p) {
			rel, _ := filepath.Rel(publicDir, p)
			refs = append(refs, "/"+filepath.ToSlash(rel))
		}
		return nil
	})
	return refs
}

// defaultRefs lists img/default without descending, skipping author and
// rubric images.
func defaultRefs(publicDir string) []string {
	entries, err := os.ReadDir(filepath.Join(publicDir, "img", "default"))
	if err != nil {
		return nil
	}
	var refs []string
	for _, e := range entries {
		name := strings.ToLower(e.Name())
		if e.IsDir() || !isImage(name) {
			continue
		}
		if strings.Contains(name, "autor") || strings.Contains(name, "author") || strings.Contains(name, "rubric") {
			continue
		}
		refs = append(refs, path.Join("/img/default", e.Name()))
	}
	return refs
}

func isImage(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	}
	return false
}
