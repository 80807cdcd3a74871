// Package buildinfo carries the version stamped in by the linker.
//
//	go build -ldflags "-X sericon/internal/buildinfo.Version=v0.3.0 -X sericon/internal/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

import (
	"runtime/debug"
	"strings"
)

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns a compact build identifier for the window title and the
// boot log line.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if c := commit(); c != "" {
		return c
	}
	return "dev"
}

// String returns version, commit and date, skipping unknown parts.
func String() string {
	parts := []string{Version}
	if Version == "" {
		parts[0] = "dev"
	}
	if c := commit(); c != "" {
		parts = append(parts, c)
	}
	if Date != "" && Date != "unknown" {
		parts = append(parts, Date)
	}
	return strings.Join(parts, " ")
}

// commit falls back to the VCS revision recorded by the go tool.
func commit() string {
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return ""
}
