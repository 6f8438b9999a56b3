// Package buildinfo reports what binary is running.
//
// Version, Commit and Date are stamped by the release build:
//
//	go build -ldflags "-X github.com/matzehuels/fiducial/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/fiducial/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/fiducial/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Unstamped builds fall back to the module version and VCS data recorded by
// the Go toolchain, when available.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/matzehuels/fiducial/pkg/cache"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build description served on /version.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	// ArtifactVersion changes whenever cached marker output is invalidated.
	ArtifactVersion int `json:"artifact_version"`
}

// Get returns the build description, filling unstamped fields from
// debug.ReadBuildInfo.
func Get() Info {
	info := Info{
		Version:         Version,
		Commit:          Commit,
		Date:            Date,
		GoVersion:       runtime.Version(),
		ArtifactVersion: cache.ArtifactVersion,
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "none" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "unknown" {
				info.Date = s.Value
			}
		}
	}
	return info
}

// Short returns the version with an abbreviated commit, e.g. "v1.0.0 (1a2b3c4)".
func (i Info) Short() string {
	c := i.Commit
	if len(c) > 7 {
		c = c[:7]
	}
	return fmt.Sprintf("%s (%s)", i.Version, c)
}

// String returns the multi-line description.
func (i Info) String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s\ngo: %s", i.Version, i.Commit, i.Date, i.GoVersion)
}

// Template returns the version template for cobra.
func Template() string {
	i := Get()
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", i.Version, i.Commit, i.Date)
}
