// Package versioning decides whether a blog runs an outdated template and,
// depending on the environment and site settings, updates it, prints a hint
// or fails the build.
package versioning
