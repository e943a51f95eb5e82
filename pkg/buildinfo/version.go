// Package buildinfo reports the afgraph version.
//
// Version, Commit and Date are set with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/afgraph/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/afgraph/pkg/buildinfo.Commit=$(git rev-parse HEAD)" ./cmd/afgraph
//
// A plain go build or go install fills Commit and Date from the VCS stamp
// embedded by the toolchain.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"
	// Commit is the git commit SHA.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)

// Info is the build description served by the web viewer.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

var vcsOnce sync.Once

var readBuildInfo = debug.ReadBuildInfo

// Get returns the build description, falling back to the VCS stamp for
// values not set at link time.
func Get() Info {
	vcsOnce.Do(fillFromVCS)
	info := Info{Version: Version, Commit: Commit, Date: Date}
	if bi, ok := readBuildInfo(); ok {
		info.Go = bi.GoVersion
	}
	return info
}

func fillFromVCS() {
	bi, ok := readBuildInfo()
	if !ok {
		return
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "none" {
				Commit = s.Value
			}
		case "vcs.time":
			if Date == "unknown" {
				Date = s.Value
			}
		}
	}
	if Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		Version = bi.Main.Version
	}
}

// String returns the formatted build information.
func String() string {
	i := Get()
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", i.Version, i.Commit, i.Date)
}

// Template returns the version template for cobra.
func Template() string {
	i := Get()
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", i.Version, i.Commit, i.Date)
}
