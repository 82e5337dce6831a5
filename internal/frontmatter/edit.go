package frontmatter

import (
	"bytes"
	"regexp"
)

// SetField sets a top-level scalar `key: value` line in the front matter without
// re-encoding the rest: an existing line is replaced, otherwise the line goes
// right after `title:`, otherwise at the end of the block. A document without
// front matter gets one.
func (d *Document) SetField(key, value string) {
	nl := d.Style.Newline
	if nl == "" {
		nl = "\n"
	}
	line := []byte(key + ": " + value)
	d.Had = true

	lines := bytes.Split(bytes.TrimSuffix(d.Front, []byte(nl)), []byte(nl))
	if len(d.Front) == 0 {
		lines = nil
	}

	keyRe := regexp.MustCompile(`^` + regexp.QuoteMeta(key) + `:`)
	for i, l := range lines {
		if keyRe.Match(l) {
			lines[i] = line
			d.Front = joinLines(lines, nl)
			return
		}
	}

	for i, l := range lines {
		if bytes.HasPrefix(l, []byte("title:")) {
			lines = append(lines[:i+1], append([][]byte{line}, lines[i+1:]...)...)
			d.Front = joinLines(lines, nl)
			return
		}
	}

	d.Front = joinLines(append(lines, line), nl)
}

func joinLines(lines [][]byte, nl string) []byte {
	out := bytes.Join(lines, []byte(nl))
	return append(out, nl...)
}
