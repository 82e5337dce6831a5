package versioning

import (
	"os"

	"github.com/mattn/go-isatty"
)

// Environment is what the checker knows about where it runs.
type Environment struct {
	// Getenv looks up a variable; nil means os.Getenv.
	Getenv func(string) string
	// Interactive is true when stdin is a terminal.
	Interactive bool
}

// DetectEnvironment inspects the process with getenv as variable source.
func DetectEnvironment(getenv func(string) string) Environment {
	fd := os.Stdin.Fd()
	return Environment{
		Getenv:      getenv,
		Interactive: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

func (e Environment) get(key string) string {
	if e.Getenv == nil {
		return os.Getenv(key)
	}
	return e.Getenv(key)
}

// IsCI reports whether the process runs in a CI or hosted build:
// CI, NETLIFY or GITHUB_ACTIONS set to true, VERCEL set to 1, BUILD_ID or
// VERCEL_ENV present, or a non-interactive stdin.
func (e Environment) IsCI() bool {
	return e.get("CI") == "true" ||
		e.get("NETLIFY") == "true" ||
		e.get("VERCEL") == "1" ||
		e.get("GITHUB_ACTIONS") == "true" ||
		e.get("BUILD_ID") != "" ||
		e.get("VERCEL_ENV") != "" ||
		!e.Interactive
}

// SkipRequested reports whether SKIP_VERSION_CHECK or DISABLE_AUTO_UPDATE
// is set to true.
func (e Environment) SkipRequested() bool {
	return e.get("SKIP_VERSION_CHECK") == "true" || e.get("DISABLE_AUTO_UPDATE") == "true"
}
