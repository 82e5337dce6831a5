// Package markdown analyses Markdown and MDX bodies (front matter already
// removed) with goldmark: image references for preview generation, prose
// segments for typography, and plain text for reading time.
package markdown

import (
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Parse parses a Markdown body into a goldmark AST.
func Parse(body []byte) gmast.Node {
	return goldmark.New().Parser().Parse(text.NewReader(body))
}

// ImageRefs returns image destinations in document order: Markdown image
// nodes and the src of inline or block HTML <img> tags. Duplicates are kept.
func ImageRefs(body []byte) []string {
	root := Parse(body)

	var refs []string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Image:
			refs = append(refs, string(node.Destination))
		case *gmast.HTMLBlock:
			raw := linesValue(node.Lines(), body)
			if node.HasClosure() {
				raw = append(raw, node.ClosureLine.Value(body)...)
			}
			refs = append(refs, imgSources(raw)...)
		case *gmast.RawHTML:
			refs = append(refs, imgSources(linesValue(node.Segments, body))...)
		}
		return gmast.WalkContinue, nil
	})
	return refs
}

func linesValue(lines *text.Segments, source []byte) []byte {
	var out []byte
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		out = append(out, seg.Value(source)...)
	}
	return out
}
