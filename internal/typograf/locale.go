package typograf

import (
	"golang.org/x/text/language"
)

// Locale selects the rule set.
type Locale int

const (
	Russian Locale = iota
	English
)

func (l Locale) String() string {
	if l == English {
		return "en-US"
	}
	return "ru"
}

var (
	supported = []language.Tag{language.Russian, language.AmericanEnglish}
	matcher   = language.NewMatcher(supported)
)

// MatchLocale maps a BCP 47 tag such as "en", "en-GB" or "ru-RU" to a
// supported locale. Unknown or unparseable tags yield fallback.
func MatchLocale(tag string, fallback Locale) Locale {
	if tag == "" {
		return fallback
	}
	t, err := language.Parse(tag)
	if err != nil {
		return fallback
	}
	_, idx, conf := matcher.Match(t)
	if conf == language.No {
		return fallback
	}
	return Locale(idx)
}
