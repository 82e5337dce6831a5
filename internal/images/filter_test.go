package images

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilters(t *testing.T) {
	widths := []int{400, 800, 1200}
	tests := []struct {
		path     string
		original bool
		variant  bool
		excluded bool
	}{
		{"img/blog/post.webp", true, false, false},
		{"img/blog/POST.JPG", true, false, false},
		{"img/blog/post-400.webp", false, true, false},
		{"img/blog/post-800-800.webp", false, true, false},
		{"img/blog/post-1200x.png", false, true, false},
		{"icon-192.png", false, false, true},
		{"img/site-logo.png", false, false, true},
		{"img/favicon.png", false, false, true},
		{"img/anim.gif", false, false, false},
		{"img/doc.svg", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.original, IsOriginal(tt.path, widths))
			assert.Equal(t, tt.variant, IsVariant(tt.path, widths))
			assert.Equal(t, tt.excluded, IsExcluded(tt.path))
		})
	}
}

func TestHasNumericSuffix(t *testing.T) {
	assert.True(t, HasNumericSuffix("a/b-400.webp"))
	assert.True(t, HasNumericSuffix("b-2.png"))
	assert.False(t, HasNumericSuffix("b-2x.png"))
	assert.False(t, HasNumericSuffix("b400.png"))
}

func TestVariantPath(t *testing.T) {
	assert.Equal(t, filepath.Join("public", "img", "a-800.webp"), VariantPath(filepath.Join("public", "img", "a.webp"), 800))
}

func TestFormatFromPath(t *testing.T) {
	f, ok := FormatFromPath("x.JPEG")
	assert.True(t, ok)
	assert.Equal(t, FormatJPEG, f)
	assert.Equal(t, "webp", FormatWebP.String())
	_, ok = FormatFromPath("x.svg")
	assert.False(t, ok)
}
