// Package version provides centralized version information for the codeatlas
// application. The variables are set at build time via ldflags:
//
//	-ldflags "-X codeatlas/internal/version.version=v1.0.0 -X codeatlas/internal/version.commit=abc123 -X codeatlas/internal/version.buildTime=2025-01-01T00:00:00Z"
package version

import (
	"fmt"
	"io"
)

//nolint:gochecknoglobals // Set via ldflags during build.
var (
	version   string
	commit    string
	buildTime string
)

// ApplicationName is the name displayed in version output.
const ApplicationName = "CodeAtlas"

// Default values used when build-time information is not available.
const (
	DefaultVersion   = "dev"
	DefaultCommit    = "unknown"
	DefaultBuildTime = "unknown"
)

// Info holds the resolved version information.
type Info struct {
	Version   string
	Commit    string
	BuildTime string
}

// GetVersion returns the build-time version information with defaults applied.
func GetVersion() Info {
	info := Info{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
	}
	if info.Version == "" {
		info.Version = DefaultVersion
	}
	if info.Commit == "" {
		info.Commit = DefaultCommit
	}
	if info.BuildTime == "" {
		info.BuildTime = DefaultBuildTime
	}
	return info
}

// Write renders the version information. With short set only the version
// number is printed, for use in scripts.
func (i Info) Write(w io.Writer, short bool) error {
	if short {
		_, err := fmt.Fprintln(w, i.Version)
		return err
	}
	_, err := fmt.Fprintf(w, "%s\nVersion: %s\nCommit: %s\nBuilt: %s\n",
		ApplicationName, i.Version, i.Commit, i.BuildTime)
	return err
}
