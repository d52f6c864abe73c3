// Package version identifies the locsim build and the bridge protocol it
// speaks.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Version and Commit identify the build. Release builds set them with
//
//	go build -ldflags="-X github.com/muurk/locsim/internal/version.Version=v0.2.0 \
//	                   -X github.com/muurk/locsim/internal/version.Commit=abc1234"
//
// Anything left unset is filled from the module build info.
var (
	Version = ""
	Commit  = ""
)

// Protocol is the revision of the bridge wire format. It is sent to map
// surfaces in the hello frame and advertised in the mDNS TXT record.
const Protocol = 1

func init() {
	info, _ := debug.ReadBuildInfo()
	Version, Commit = resolve(Version, Commit, info)
}

// resolve fills an empty version or commit from build info. A module
// installed with "go install ...@v0.2.0" reports that version; a build from a
// checkout reports dev plus the commit date.
func resolve(version, commit string, info *debug.BuildInfo) (string, string) {
	settings := map[string]string{}
	if info != nil {
		for _, s := range info.Settings {
			settings[s.Key] = s.Value
		}
	}

	if commit == "" {
		commit = settings["vcs.revision"]
		if len(commit) > 7 {
			commit = commit[:7]
		}
		if commit != "" && settings["vcs.modified"] == "true" {
			commit += "-dirty"
		}
	}
	if commit == "" {
		commit = "unknown"
	}

	if version == "" && info != nil && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
	if version == "" {
		version = "dev"
		if t, err := time.Parse(time.RFC3339, settings["vcs.time"]); err == nil {
			version += "-" + t.UTC().Format("20060102")
		}
	}

	return version, commit
}

// Full returns the version with its commit, as printed by "locsim version".
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
