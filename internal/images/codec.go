package images

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/decoder"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
)

// Format is a raster format blogkit can read and write.
type Format int

const (
	FormatJPEG Format = iota + 1
	FormatPNG
	FormatGIF
	FormatWebP
)

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	case FormatGIF:
		return "gif"
	case FormatWebP:
		return "webp"
	default:
		return "unknown"
	}
}

// Quality holds encoder settings per format.
type Quality struct {
	JPEG int
	WebP float32
	PNG  png.CompressionLevel
}

// DefaultQuality matches the settings used for optimized originals.
var DefaultQuality = Quality{JPEG: 85, WebP: 80, PNG: png.BestCompression}

// FormatFromPath maps a file extension to a Format.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return FormatJPEG, true
	case ".png":
		return FormatPNG, true
	case ".gif":
		return FormatGIF, true
	case ".webp":
		return FormatWebP, true
	default:
		return 0, false
	}
}

// Open decodes the image at path, honouring EXIF orientation for JPEGs.
// Unsupported and undecodable files yield image errors.
func Open(path string) (image.Image, error) {
	f, ok := FormatFromPath(path)
	if !ok {
		return nil, ferrors.ImageError("unsupported image format").WithContext("path", path).Build()
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var img image.Image
	if f == FormatWebP {
		img, err = webp.Decode(file, &decoder.Options{})
	} else {
		img, err = imaging.Decode(file, imaging.AutoOrientation(true))
	}
	if err != nil {
		return nil, ferrors.ImageError("decode "+f.String()).WithCause(err).WithContext("path", path).Build()
	}
	return img, nil
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format, q Quality) error {
	switch f {
	case FormatWebP:
		opts, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, q.WebP)
		if err != nil {
			return fmt.Errorf("webp options: %w", err)
		}
		return webp.Encode(w, img, opts)
	case FormatJPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(q.JPEG))
	case FormatPNG:
		return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(q.PNG))
	case FormatGIF:
		return imaging.Encode(w, img, imaging.GIF)
	default:
		return fmt.Errorf("unsupported output format %v", f)
	}
}

// Save encodes img in the format implied by path and writes it atomically.
func Save(path string, img image.Image, q Quality) error {
	f, ok := FormatFromPath(path)
	if !ok {
		return fmt.Errorf("unsupported image format: %s", filepath.Ext(path))
	}
	var buf bytes.Buffer
	if err := Encode(&buf, img, f, q); err != nil {
		return err
	}
	return writeFileAtomic(path, buf.Bytes())
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".blogkit-*"+filepath.Ext(path))
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ResizeWidth scales img to width keeping the aspect ratio.
func ResizeWidth(img image.Image, width int) image.Image {
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}

// Fit scales img down to at most width, never enlarging it.
func Fit(img image.Image, width int) image.Image {
	if img.Bounds().Dx() <= width {
		return img
	}
	return ResizeWidth(img, width)
}

// Cover scales and center-crops img to exactly width x height.
func Cover(img image.Image, width, height int) image.Image {
	return imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)
}
