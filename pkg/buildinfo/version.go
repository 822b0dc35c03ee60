// Package buildinfo reports which deckfit build produced a binary, a fit
// script or an API response.
//
// Release builds stamp the variables through ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/deckfit/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/deckfit/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/deckfit/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Builds without ldflags, such as go install, fall back to the module
// version and VCS stamps the toolchain embeds in the binary.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

// Set via ldflags; the defaults mark an unstamped build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info describes one build. It is served by the HTTP health endpoint.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version,omitempty"`
	// Modified is set when the VCS stamp reports uncommitted changes.
	Modified bool `json:"modified,omitempty"`
}

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

var current = sync.OnceValue(func() Info {
	return resolve(Info{Version: Version, Commit: Commit, Date: Date}, readBuildInfo)
})

// Get returns the build information of the running binary.
func Get() Info {
	return current()
}

// resolve fills the fields ldflags left at their defaults from the
// toolchain's embedded build info.
func resolve(info Info, read func() (*debug.BuildInfo, bool)) Info {
	bi, ok := read()
	if !ok || bi == nil {
		return info
	}
	info.GoVersion = bi.GoVersion
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
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// Short is the one-word build tag stamped into generated fit scripts:
// the version, plus the abbreviated commit for development builds.
func (i Info) Short() string {
	tag := i.Version
	if i.Version == "dev" && i.Commit != "none" && i.Commit != "" {
		tag += "+" + shortCommit(i.Commit)
	}
	if i.Modified {
		tag += "-dirty"
	}
	return tag
}

func (i Info) String() string {
	s := fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", i.Version, i.Commit, i.Date)
	if i.GoVersion != "" {
		s += "\ngo: " + i.GoVersion
	}
	return s
}

// Template returns the version template for cobra's --version flag.
func Template() string {
	return "{{.Name}} " + Get().String() + "\n"
}

func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}
