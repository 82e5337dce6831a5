package images

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ExcludePatterns mark system images (PWA icons, favicons, logos) that never get variants.
var ExcludePatterns = []string{"icon-192", "icon-512", "favicon", "logo", "manifest"}

var resizableExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

var numericSuffix = regexp.MustCompile(`-\d+$`)

// IsResizable reports whether path has an extension the resizer handles.
func IsResizable(path string) bool {
	return resizableExt[strings.ToLower(filepath.Ext(path))]
}

// baseName returns the file name without directory and extension.
func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// IsVariant reports whether the base name contains -<w> for any of widths.
func IsVariant(path string, widths []int) bool {
	base := baseName(path)
	for _, w := range widths {
		if strings.Contains(base, "-"+strconv.Itoa(w)) {
			return true
		}
	}
	return false
}

// IsExcluded reports whether the base name matches a system image pattern.
func IsExcluded(path string) bool {
	base := baseName(path)
	for _, p := range ExcludePatterns {
		if strings.Contains(base, p) {
			return true
		}
	}
	return false
}

// IsOriginal reports whether path is an image that gets responsive variants.
func IsOriginal(path string, widths []int) bool {
	return IsResizable(path) && !IsVariant(path, widths) && !IsExcluded(path)
}

// HasNumericSuffix reports whether the base name ends in -<digits>.
func HasNumericSuffix(path string) bool {
	return numericSuffix.MatchString(baseName(path))
}

// VariantPath returns <dir>/<base>-<width><ext> for an original.
func VariantPath(original string, width int) string {
	ext := filepath.Ext(original)
	return filepath.Join(filepath.Dir(original), baseName(original)+"-"+strconv.Itoa(width)+ext)
}
