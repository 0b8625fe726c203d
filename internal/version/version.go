// Package version holds build metadata injected at link time:
//
//	go build -ldflags "-X git.home.luguber.info/inful/forumsite/internal/version.Version=v1.0.0"
package version

import "fmt"

// Version is the release version.
var Version = "dev"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the version line printed by --version.
func String() string {
	return fmt.Sprintf("forumsite %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
