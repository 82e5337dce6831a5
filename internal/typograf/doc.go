// Package typograf normalizes the typography of content files: quotes,
// dashes, ellipses, symbols and non-breaking spaces, for Russian and
// English text. Front matter strings and Markdown prose are rewritten in
// place; code, HTML and link targets are left untouched.
package typograf
