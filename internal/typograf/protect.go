package typograf

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"git.home.luguber.info/inful/blogkit/internal/markdown"
)

// mask stands in for a protected span while the rules run.
const mask = '\ue001'

var tagRe = regexp.MustCompile(`<[A-Za-z/][^>]*>`)

// protectedSpans returns the sorted, non-overlapping byte ranges of
// body[start:stop] the rules must not touch: tag-like spans, balanced MDX
// {…} expressions and backslash escapes.
func protectedSpans(body []byte, start, stop int) []markdown.Segment {
	var spans []markdown.Segment
	for _, loc := range tagRe.FindAllIndex(body[start:stop], -1) {
		spans = append(spans, markdown.Segment{Start: start + loc[0], Stop: start + loc[1]})
	}
	depth, open := 0, 0
	for i := start; i < stop; i++ {
		switch body[i] {
		case '\\':
			if i+1 < stop && isASCIIPunct(body[i+1]) {
				spans = append(spans, markdown.Segment{Start: i, Stop: i + 2})
				i++
			}
		case '{':
			if depth == 0 {
				open = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					spans = append(spans, markdown.Segment{Start: open, Stop: i + 1})
				}
			}
		}
	}
	return mergeSpans(spans)
}

func isASCIIPunct(c byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c) >= 0
}

func mergeSpans(spans []markdown.Segment) []markdown.Segment {
	slices.SortFunc(spans, func(a, b markdown.Segment) int { return cmp.Compare(a.Start, b.Start) })
	var out []markdown.Segment
	for _, s := range spans {
		if n := len(out); n > 0 && s.Start <= out[n-1].Stop {
			out[n-1].Stop = max(out[n-1].Stop, s.Stop)
			continue
		}
		out = append(out, s)
	}
	return out
}

// maskSegment returns the text of seg with every part covered by spans
// replaced by one mask rune. The covered text is appended to saved in order.
func maskSegment(body []byte, seg markdown.Segment, spans []markdown.Segment, saved []string) (string, []string) {
	var b strings.Builder
	pos := seg.Start
	for _, sp := range spans {
		s, e := max(sp.Start, seg.Start), min(sp.Stop, seg.Stop)
		if s >= e {
			continue
		}
		b.Write(body[pos:s])
		b.WriteRune(mask)
		saved = append(saved, string(body[s:e]))
		pos = e
	}
	b.Write(body[pos:seg.Stop])
	return b.String(), saved
}

// unmask restores saved spans in order. It fails when the rules dropped or
// duplicated a mask.
func unmask(parts, saved []string) ([]string, bool) {
	out := make([]string, len(parts))
	next := 0
	for i, p := range parts {
		if !strings.ContainsRune(p, mask) {
			out[i] = p
			continue
		}
		var b strings.Builder
		for _, r := range p {
			if r != mask {
				b.WriteRune(r)
				continue
			}
			if next >= len(saved) {
				return nil, false
			}
			b.WriteString(saved[next])
			next++
		}
		out[i] = b.String()
	}
	return out, next == len(saved)
}
