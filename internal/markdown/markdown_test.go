package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageRefs(t *testing.T) {
	body := []byte(`# Post

![cover](/img/blog/cover.webp)

Inline <img src="/img/blog/inline.png" alt="x"> image.

<figure>
  <img src='/img/examples/fig.jpg' />
</figure>

` + "```md\n![not an image](/img/code.webp)\n```\n")

	assert.Equal(t, []string{
		"/img/blog/cover.webp",
		"/img/blog/inline.png",
		"/img/examples/fig.jpg",
	}, ImageRefs(body))
}

func TestImageRefs_ReferenceStyle(t *testing.T) {
	body := []byte("![alt][pic]\n\n[pic]: /img/blog/ref.webp\n")
	assert.Equal(t, []string{"/img/blog/ref.webp"}, ImageRefs(body))
}

func TestImgSourcesIgnoresOtherTags(t *testing.T) {
	assert.Equal(t, []string{"/a.png"}, imgSources([]byte(`<video src="/v.mp4"></video><IMG SRC="/a.png">`)))
	assert.Empty(t, imgSources([]byte(`<img alt="no src">`)))
}

func segmentsText(body []byte, b TextBlock) []string {
	var out []string
	for _, s := range b.Segments {
		out = append(out, string(body[s.Start:s.Stop]))
	}
	return out
}

func TestTextBlocks(t *testing.T) {
	body := []byte(`import Card from "../Card.astro"

# Hello "world"

Use ` + "`code \"here\"`" + ` and [a link](https://example.com/x "t") now.

` + "```\nfenced \"code\"\n```\n" + `
<div class="x">html "block"</div>

- item one
`)
	blocks := TextBlocks(body)
	require.Len(t, blocks, 3)

	assert.Equal(t, []string{`Hello "world"`}, segmentsText(body, blocks[0]))

	para := strings.Join(segmentsText(body, blocks[1]), "|")
	assert.Equal(t, "Use | and |a link| now.", para)

	assert.Equal(t, []string{"item one"}, segmentsText(body, blocks[2]))
}

func TestPlainText(t *testing.T) {
	body := []byte("## Title\n\nSome **bold** text with `code` and ![alt words](/x.png).\n\n<p>html</p>\n")
	words := strings.Fields(PlainText(body))
	assert.Equal(t, []string{"Title", "Some", "bold", "text", "with", "code", "and", "."}, words)
}
