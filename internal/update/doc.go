// Package update moves template files into a blog project: component sync,
// bulk project updates, duplicate cleanup, backups, postinstall bookkeeping
// and project initialisation.
package update
