// Package workspace manages scratch directories for template checkouts.
package workspace
