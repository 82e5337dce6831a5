package content

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FilterExamples drops entries flagged isExample unless showExamples is set.
func FilterExamples(entries []Entry, showExamples bool) []Entry {
	if showExamples {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.Data.IsExample {
			out = append(out, e)
		}
	}
	return out
}

func byDateDesc(a, b Entry) int {
	return b.Published().Compare(a.Published())
}

// SortByDateDesc orders entries newest first. Ties keep their order.
func SortByDateDesc(entries []Entry) {
	slices.SortStableFunc(entries, byDateDesc)
}

// SortFeaturedFirst orders featured entries before the rest, each group
// newest first.
func SortFeaturedFirst(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if a.Data.IsFeatured != b.Data.IsFeatured {
			if a.Data.IsFeatured {
				return -1
			}
			return 1
		}
		return byDateDesc(a, b)
	})
}

// Tag is a tag name with its URL slug.
type Tag struct {
	Name string
	ID   string
}

// AllTags returns the tags used by entries in first-seen order, unique by
// slug.
func AllTags(entries []Entry) []Tag {
	seen := map[string]bool{}
	var tags []Tag
	for _, e := range entries {
		for _, name := range e.Data.Tags {
			if name == "" {
				continue
			}
			id := Slugify(name)
			if seen[id] {
				continue
			}
			seen[id] = true
			tags = append(tags, Tag{Name: name, ID: id})
		}
	}
	return tags
}

// ByTag returns the entries carrying a tag whose slug is tagID.
func ByTag(entries []Entry, tagID string) []Entry {
	var out []Entry
	for _, e := range entries {
		if slices.ContainsFunc(e.Data.Tags, func(t string) bool { return Slugify(t) == tagID }) {
			out = append(out, e)
		}
	}
	return out
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify lowercases s, drops diacritics and joins the remaining letter and
// digit runs with hyphens. Non-Latin letters are kept.
func Slugify(s string) string {
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
