package markdown

import (
	"bytes"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
)

// Segment is a byte range [Start, Stop) of the body holding prose.
type Segment struct {
	Start int
	Stop  int
}

// TextBlock groups the prose segments of one leaf block (paragraph, heading,
// list item text, table cell). Anything between two segments, such as markup,
// code spans, inline HTML or link destinations, is not prose.
type TextBlock struct {
	Segments []Segment
}

// TextBlocks returns the prose of body grouped by leaf block. Code blocks,
// HTML blocks, code spans, raw HTML and autolinks contribute nothing, and
// neither do MDX import/export statements.
func TextBlocks(body []byte) []TextBlock {
	root := Parse(body)

	var blocks []TextBlock
	var owner gmast.Node

	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		switch node := n.(type) {
		case *gmast.CodeSpan, *gmast.RawHTML, *gmast.AutoLink,
			*gmast.CodeBlock, *gmast.FencedCodeBlock, *gmast.HTMLBlock:
			return gmast.WalkSkipChildren, nil
		case *gmast.Paragraph:
			if entering && isModuleStatement(node, body) {
				return gmast.WalkSkipChildren, nil
			}
		case *gmast.Text:
			if !entering {
				return gmast.WalkContinue, nil
			}
			block := enclosingBlock(node)
			if block != owner || len(blocks) == 0 {
				blocks = append(blocks, TextBlock{})
				owner = block
			}
			if node.Segment.Len() > 0 {
				last := &blocks[len(blocks)-1]
				last.Segments = append(last.Segments, Segment{Start: node.Segment.Start, Stop: node.Segment.Stop})
			}
		}
		return gmast.WalkContinue, nil
	})

	out := blocks[:0]
	for _, b := range blocks {
		if len(b.Segments) > 0 {
			out = append(out, b)
		}
	}
	return out
}

func enclosingBlock(n gmast.Node) gmast.Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Type() == gmast.TypeBlock {
			return p
		}
	}
	return nil
}

func isModuleStatement(p *gmast.Paragraph, body []byte) bool {
	lines := p.Lines()
	if lines.Len() == 0 {
		return false
	}
	seg := lines.At(0)
	first := seg.Value(body)
	return bytes.HasPrefix(first, []byte("import ")) || bytes.HasPrefix(first, []byte("export "))
}

// PlainText returns the readable words of body: prose, code and code spans,
// without image alt text, HTML or Markdown syntax.
func PlainText(body []byte) string {
	root := Parse(body)

	var b strings.Builder
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Image, *gmast.HTMLBlock, *gmast.RawHTML:
			return gmast.WalkSkipChildren, nil
		case *gmast.CodeBlock, *gmast.FencedCodeBlock:
			b.Write(linesValue(node.Lines(), body))
			b.WriteByte(' ')
			return gmast.WalkSkipChildren, nil
		case *gmast.Text:
			b.Write(node.Segment.Value(body))
			b.WriteByte(' ')
		}
		return gmast.WalkContinue, nil
	})
	return b.String()
}
