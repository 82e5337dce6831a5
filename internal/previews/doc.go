// Package previews generates fixed-size cover crops of the images that
// content pages reference, written into a previews directory next to each
// source image.
package previews
