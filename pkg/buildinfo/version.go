// Package buildinfo reports which procflow build is running.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/procflow/pkg/buildinfo.Version=v0.4.0 \
//	    -X github.com/matzehuels/procflow/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/procflow/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Builds from `go install` carry no ldflags. For those the module version and
// the VCS stamp recorded by the toolchain are used instead.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func init() { fromModule(debug.ReadBuildInfo()) }

// fromModule fills the variables ldflags left at their defaults.
func fromModule(bi *debug.BuildInfo, ok bool) {
	if !ok {
		return
	}
	if Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && Commit == "none":
			Commit = s.Value
		case s.Key == "vcs.time" && Date == "unknown":
			Date = s.Value
		}
	}
}

// String is the multi-line form printed by `procflow version`.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Short is Version, plus the abbreviated commit when one is known. The API
// reports it on /healthz.
func Short() string {
	if Commit == "none" || len(Commit) < 7 {
		return Version
	}
	return Version + "+" + Commit[:7]
}

// Template is the cobra --version template.
func Template() string {
	return "{{.Name}} " + Short() + "\n"
}
