package frontmatter

import (
	"bytes"
	"errors"
)

// Style captures the newline shape of a document so rewrites keep it.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// Document is a Markdown/MDX file split at its YAML front matter.
type Document struct {
	// Front is the raw YAML between the delimiters, without them.
	Front []byte
	Body  []byte
	// Had reports whether the input started with a front matter block.
	Had   bool
	Style Style
}

// ErrMissingClosingDelimiter indicates the document opened a front matter
// block that never closes.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// Parse splits content into front matter and body. Content without a leading
// `---` line yields Had=false and the whole input as Body.
func Parse(content []byte) (Document, error) {
	style := detectStyle(content)
	nl := style.Newline
	doc := Document{Style: style}

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		doc.Body = content
		return doc, nil
	}
	rest := content[len(open):]

	if bytes.HasPrefix(rest, open) {
		doc.Had, doc.Front, doc.Body = true, []byte{}, rest[len(open):]
		return doc, nil
	}

	closing := []byte(nl + "---")
	idx := bytes.Index(rest, closing)
	for idx >= 0 {
		after := rest[idx+len(closing):]
		// the closing delimiter must be a whole line
		if len(after) == 0 || bytes.HasPrefix(after, []byte(nl)) {
			doc.Had = true
			doc.Front = rest[:idx+len(nl)]
			doc.Body = bytes.TrimPrefix(after, []byte(nl))
			return doc, nil
		}
		next := bytes.Index(after, closing)
		if next < 0 {
			break
		}
		idx += len(closing) + next
	}
	return Document{}, ErrMissingClosingDelimiter
}

// Bytes reassembles the document. Without front matter the body is returned as-is.
func (d Document) Bytes() []byte {
	if !d.Had {
		return d.Body
	}
	nl := d.Style.Newline
	if nl == "" {
		nl = "\n"
	}
	front := d.Front
	if len(front) > 0 && !bytes.HasSuffix(front, []byte("\n")) {
		front = append(append([]byte{}, front...), nl...)
	}

	out := make([]byte, 0, len(front)+len(d.Body)+2*(3+len(nl)))
	out = append(out, "---"+nl...)
	out = append(out, front...)
	out = append(out, "---"+nl...)
	out = append(out, d.Body...)
	return out
}

func detectStyle(content []byte) Style {
	newline := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		newline = "\r\n"
	}
	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
