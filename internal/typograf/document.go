package typograf

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/blogkit/internal/frontmatter"
	"git.home.luguber.info/inful/blogkit/internal/markdown"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"02.01.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
}

// verbatim reports whether a front matter string must be kept as-is: URLs,
// absolute paths and dates.
func verbatim(s string) bool {
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "/") {
		return true
	}
	v := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

// Rewrite applies typography to a Markdown document with front matter. The
// locale comes from the front matter "lang" field when it names a supported
// language, otherwise fallback is used. Documents without front matter are
// returned unchanged with changed=false.
func Rewrite(content []byte, fallback Locale) (out []byte, changed bool, err error) {
	doc, err := frontmatter.Parse(content)
	if err != nil {
		return nil, false, err
	}
	if !doc.Had {
		return content, false, nil
	}

	node, err := doc.Node()
	if err != nil {
		return nil, false, err
	}
	tp := New(MatchLocale(scalarField(node, "lang"), fallback))

	if tp.node(node) {
		if err := doc.SetNode(node); err != nil {
			return nil, false, err
		}
	}

	body, err := tp.Body(doc.Body)
	if err != nil {
		return nil, false, fmt.Errorf("typograf body: %w", err)
	}
	doc.Body = body

	out = doc.Bytes()
	return out, string(out) != string(content), nil
}

func scalarField(m *yaml.Node, key string) string {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key && m.Content[i+1].Kind == yaml.ScalarNode {
			return m.Content[i+1].Value
		}
	}
	return ""
}

// node rewrites string scalars under n in place and reports whether any
// value changed. Mapping keys are never touched.
func (t *Typograf) node(n *yaml.Node) bool {
	changed := false
	switch n.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, c := range n.Content {
			changed = t.node(c) || changed
		}
	case yaml.MappingNode:
		for i := 1; i < len(n.Content); i += 2 {
			changed = t.node(n.Content[i]) || changed
		}
	case yaml.ScalarNode:
		if n.ShortTag() != "!!str" || verbatim(n.Value) {
			return false
		}
		if v := t.Execute(n.Value); v != n.Value {
			n.Value = v
			changed = true
		}
	}
	return changed
}

// Body applies typography to the prose of a Markdown body. Code, HTML, tags,
// MDX expressions, escapes, autolinks and link destinations are preserved
// byte for byte.
func (t *Typograf) Body(body []byte) ([]byte, error) {
	var edits []markdown.Edit
	for _, block := range markdown.TextBlocks(body) {
		first, last := block.Segments[0].Start, block.Segments[len(block.Segments)-1].Stop
		spans := protectedSpans(body, max(first-1, 0), last)

		var saved []string
		parts := make([]string, len(block.Segments))
		for i, seg := range block.Segments {
			parts[i], saved = maskSegment(body, seg, spans, saved)
		}
		result, ok := unmask(t.executeParts(parts), saved)
		if !ok {
			continue
		}
		for i, seg := range block.Segments {
			if result[i] != string(body[seg.Start:seg.Stop]) {
				edits = append(edits, markdown.Edit{Start: seg.Start, End: seg.Stop, Replacement: []byte(result[i])})
			}
		}
	}
	return markdown.ApplyEdits(body, edits)
}

// executeParts runs the rules over parts joined by separator so quotes pair
// across inline markup.
func (t *Typograf) executeParts(parts []string) []string {
	joined := strings.Join(parts, string(separator))
	result := strings.Split(t.Execute(joined), string(separator))
	if len(result) == len(parts) {
		return result
	}
	// a rule swallowed a separator; fall back to per-segment rules
	result = make([]string, len(parts))
	for i, p := range parts {
		result[i] = t.Execute(p)
	}
	return result
}
