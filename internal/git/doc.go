// Package git wraps go-git for the template operations blogkit needs:
// listing release tags of the template remote, checking the template out
// into a workspace, and dropping generated files from a blog's index.
package git
