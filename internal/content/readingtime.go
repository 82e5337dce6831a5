package content

import (
	"strings"

	"git.home.luguber.info/inful/blogkit/internal/markdown"
)

// WordsPerMinute is the assumed reading speed.
const WordsPerMinute = 220

// ReadingTime estimates the minutes needed to read a Markdown body, at least
// one.
func ReadingTime(body []byte) int {
	words := len(strings.Fields(markdown.PlainText(body)))
	return max(1, (words+WordsPerMinute-1)/WordsPerMinute)
}
