// Package version provides version information for fsdash
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the semantic version (set by goreleaser at build time)
	Version = "dev"

	// Commit is the git commit hash (set by goreleaser at build time)
	Commit = "unknown"

	// Date is the build date (set by goreleaser at build time)
	Date = "unknown"
)

// Info holds version information
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	Platform  string
}

// Get returns version information
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: Date,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// UserAgent is sent with every backend request
func (i *Info) UserAgent() string {
	return "fsdash/" + i.Version
}

// Full returns detailed version information
func (i *Info) Full() string {
	commit := i.Commit
	if commit != "unknown" && len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf(`fsdash version %s
Git commit: %s
Built: %s
Go version: %s
Platform: %s`,
		i.Version, commit, i.BuildDate, i.GoVersion, i.Platform)
}
