// Package version reports build information for colorpal.
//
// Release builds inject Version, Commit and Date with ldflags:
//
//	-ldflags "-X github.com/jmylchreest/colorpal/internal/version.Version=x.y.z
//	          -X github.com/jmylchreest/colorpal/internal/version.Commit=$(git rev-parse HEAD)
//	          -X github.com/jmylchreest/colorpal/internal/version.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Without them, the VCS stamps recorded by the Go toolchain are used.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const unknown = "unknown"

var (
	// Version is the semantic version of the application.
	Version = "dev"

	// Commit is the git commit hash of the build.
	Commit = unknown

	// Date is the build date in RFC3339 format.
	Date = unknown
)

// Info is the build information served by /version and printed by the CLI.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetInfo returns the build information.
func GetInfo() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		applyBuildSettings(&info, bi.Settings)
	}
	return info
}

// applyBuildSettings fills fields that ldflags left unset from VCS stamps.
func applyBuildSettings(info *Info, settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == unknown {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == unknown {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
}

// String returns a human-readable version string.
func String() string {
	return GetInfo().String()
}

func (i Info) String() string {
	if i.Commit == unknown {
		return fmt.Sprintf("colorpal version %s (%s, %s)", i.Version, i.GoVersion, i.Platform)
	}
	commit := shortCommit(i.Commit)
	if i.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("colorpal version %s (commit: %s, built: %s, %s, %s)",
		i.Version, commit, i.Date, i.GoVersion, i.Platform)
}

// Short returns the bare version.
func Short() string {
	return Version
}

func shortCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
