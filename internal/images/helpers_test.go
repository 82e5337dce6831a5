package images

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

// writeImage creates a w x h gradient image at path, encoded by extension.
func writeImage(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.NRGBA{R: uint8(x % 255), G: 10, B: 200, A: 255})
	}
	require.NoError(t, imaging.Save(img, path))
}

func bounds(t *testing.T, path string) image.Rectangle {
	t.Helper()
	img, err := Open(path)
	require.NoError(t, err)
	return img.Bounds()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
