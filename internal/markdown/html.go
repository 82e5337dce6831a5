package markdown

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// imgSources returns the src attribute of every <img> tag in an HTML fragment.
func imgSources(fragment []byte) []string {
	var out []string
	z := html.NewTokenizer(bytes.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return out
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "img" {
				continue
			}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "src" {
					if src := strings.TrimSpace(string(val)); src != "" {
						out = append(out, src)
					}
				}
			}
		}
	}
}
