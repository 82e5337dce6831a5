package version

import "fmt"

// Version contains the tool version. Set via ldflags:
// go build -ldflags "-X git.home.luguber.info/inful/blogkit/internal/version.Version=v1.4.0".
var Version = "dev"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by `blogkit version`.
func String() string {
	return fmt.Sprintf("blogkit %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
