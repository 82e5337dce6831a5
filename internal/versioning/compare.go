package versioning

import (
	"strconv"
	"strings"

	"git.home.luguber.info/inful/blogkit/internal/project"
)

// Normalize strips range operators (^, ~) and a leading v from a version.
func Normalize(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimLeft(v, "^~")
	return strings.TrimPrefix(v, "v")
}

// IsNewer reports whether latest is greater than current, comparing dotted
// numeric parts left to right. Missing or non-numeric parts count as 0.
// Empty inputs are never newer.
func IsNewer(current, latest string) bool {
	current, latest = Normalize(current), Normalize(latest)
	if current == "" || latest == "" {
		return false
	}
	cp, lp := strings.Split(current, "."), strings.Split(latest, ".")
	for i := range max(len(cp), len(lp)) {
		c, l := part(cp, i), part(lp, i)
		if l > c {
			return true
		}
		if l < c {
			return false
		}
	}
	return false
}

func part(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	// prerelease suffixes such as 1-beta compare by their numeric prefix
	s := parts[i]
	if j := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }); j >= 0 {
		s = s[:j]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// CurrentVersion returns the template version a blog runs: the dependency
// on the template package when declared, otherwise the package version.
func CurrentVersion(pkg *project.Package, template string) string {
	if v, ok := pkg.Dependency(template); ok && v != "" {
		return Normalize(v)
	}
	return Normalize(pkg.Version())
}
