package typograf

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	nbsp      = "\u00a0"
	thinSpace = "\u2009"
	emDash    = "\u2014"
	// separator joins independent text segments so quotes can pair across
	// inline markup. It is a private-use rune that never appears in prose.
	separator = '\ue000'
)

var (
	urlRe        = regexp.MustCompile(`https?://[^\s\x{E000}]+`)
	copyRe       = regexp.MustCompile(`(?i)\(c\)`)
	regRe        = regexp.MustCompile(`(?i)\(r\)`)
	tmRe         = regexp.MustCompile(`(?i)\(tm\)`)
	ellipsisRe   = regexp.MustCompile(`\.{3}`)
	spacesRe     = regexp.MustCompile(`([^ \n]) {2,}([^ \n])`)
	dashRe       = regexp.MustCompile(`[ \x{00A0}]+-{1,2} +`)
	shortWordRe  = regexp.MustCompile(`(^|[ \x{00A0}\x{E000}\x{E001}\n(\x{00AB}\x{201E}"])(\p{L}{1,2}) `)
	numberUnitRe = regexp.MustCompile(`(\d) (\p{L}{1,3})(\P{L}|$)`)
)

// Typograf applies the rules of one locale.
type Typograf struct {
	locale Locale
}

// New returns a Typograf for locale.
func New(locale Locale) *Typograf {
	return &Typograf{locale: locale}
}

// Locale returns the rule set in use.
func (t *Typograf) Locale() Locale { return t.locale }

// Execute returns s with the typography rules applied. URLs inside s are
// copied verbatim.
func (t *Typograf) Execute(s string) string {
	s = norm.NFC.String(s)

	var b strings.Builder
	last := 0
	for _, loc := range urlRe.FindAllStringIndex(s, -1) {
		b.WriteString(t.apply(s[last:loc[0]]))
		b.WriteString(s[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(t.apply(s[last:]))
	return b.String()
}

func (t *Typograf) apply(s string) string {
	if s == "" {
		return s
	}
	s = copyRe.ReplaceAllString(s, "\u00a9")
	s = regRe.ReplaceAllString(s, "\u00ae")
	s = tmRe.ReplaceAllString(s, "\u2122")
	s = ellipsisRe.ReplaceAllString(s, "\u2026")
	s = untilStable(s, func(v string) string {
		return spacesRe.ReplaceAllString(v, "$1 $2")
	})

	if t.locale == English {
		s = dashRe.ReplaceAllString(s, thinSpace+emDash+thinSpace)
	} else {
		s = dashRe.ReplaceAllString(s, nbsp+emDash+" ")
	}

	s = t.quotes(s)

	if t.locale == Russian {
		s = untilStable(s, func(v string) string {
			return shortWordRe.ReplaceAllString(v, "$1$2"+nbsp)
		})
	}
	return untilStable(s, func(v string) string {
		return numberUnitRe.ReplaceAllString(v, "$1"+nbsp+"$2$3")
	})
}

// untilStable reapplies f while it changes its input; matches consumed by
// one pass can expose new ones.
func untilStable(s string, f func(string) string) string {
	for range 4 {
		next := f(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func (t *Typograf) marks() (outerOpen, outerClose, innerOpen, innerClose rune) {
	if t.locale == English {
		return '\u201c', '\u201d', '\u2018', '\u2019'
	}
	return '\u00ab', '\u00bb', '\u201e', '\u201c'
}

// quotes replaces straight double quotes with locale quotes. A quote is
// opening when it follows the start, a space or an opening bracket and is
// followed by a non-space; otherwise it closes. Nesting alternates between
// the outer and inner pair.
func (t *Typograf) quotes(s string) string {
	if !strings.ContainsRune(s, '"') {
		return s
	}
	oo, oc, io, ic := t.marks()
	rs := []rune(s)
	depth := 0

	for i, r := range rs {
		switch r {
		case oo:
			depth++
			continue
		case oc:
			if depth > 0 {
				depth--
			}
			continue
		case '"':
		default:
			continue
		}

		prev, next := neighbour(rs, i, -1), neighbour(rs, i, 1)
		opening := (prev == 0 || unicode.IsSpace(prev) || strings.ContainsRune("([{\u00ab\u201e-\u2014", prev)) &&
			next != 0 && !unicode.IsSpace(next)

		if opening {
			if depth%2 == 0 {
				rs[i] = oo
			} else {
				rs[i] = io
			}
			depth++
			continue
		}
		if depth > 0 {
			depth--
		}
		if depth%2 == 0 {
			rs[i] = oc
		} else {
			rs[i] = ic
		}
	}
	return string(rs)
}

// neighbour returns the nearest rune to rs[i] in direction dir that is not a
// segment separator or a mask, or 0 at the edge.
func neighbour(rs []rune, i, dir int) rune {
	for j := i + dir; j >= 0 && j < len(rs); j += dir {
		if rs[j] != separator && rs[j] != mask {
			return rs[j]
		}
	}
	return 0
}
