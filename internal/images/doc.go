// Package images produces the responsive variants and optimized originals
// of a blog's raster images.
//
// Originals live under public/. For every original image, variants named
// <base>-<width><ext> are written next to it (or mirrored into dist/ for
// builds). Files whose name already carries a width suffix are variants and
// are never processed again.
package images
