package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func buildInfo(mainVersion string, settings ...string) *debug.BuildInfo {
	info := &debug.BuildInfo{Main: debug.Module{Path: "github.com/muurk/locsim", Version: mainVersion}}
	for i := 0; i+1 < len(settings); i += 2 {
		info.Settings = append(info.Settings, debug.BuildSetting{Key: settings[i], Value: settings[i+1]})
	}
	return info
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		version     string
		commit      string
		info        *debug.BuildInfo
		wantVersion string
		wantCommit  string
	}{
		{
			name:        "ldflags win",
			version:     "v0.3.0",
			commit:      "feedbee",
			info:        buildInfo("v0.1.0", "vcs.revision", "0123456789abcdef"),
			wantVersion: "v0.3.0",
			wantCommit:  "feedbee",
		},
		{
			name:        "installed module",
			info:        buildInfo("v0.2.0"),
			wantVersion: "v0.2.0",
			wantCommit:  "unknown",
		},
		{
			name: "checkout build",
			info: buildInfo("(devel)",
				"vcs.revision", "0123456789abcdef",
				"vcs.time", "2026-03-14T09:30:00Z",
				"vcs.modified", "true"),
			wantVersion: "dev-20260314",
			wantCommit:  "0123456-dirty",
		},
		{
			name:        "short revision",
			info:        buildInfo("(devel)", "vcs.revision", "abc"),
			wantVersion: "dev",
			wantCommit:  "abc",
		},
		{
			name:        "no build info",
			wantVersion: "dev",
			wantCommit:  "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, c := resolve(tt.version, tt.commit, tt.info)
			if v != tt.wantVersion {
				t.Errorf("version = %q, want %q", v, tt.wantVersion)
			}
			if c != tt.wantCommit {
				t.Errorf("commit = %q, want %q", c, tt.wantCommit)
			}
		})
	}
}

func TestFull(t *testing.T) {
	got := Full()
	if !strings.HasPrefix(got, Version+" (commit: ") || !strings.HasSuffix(got, Commit+")") {
		t.Errorf("Full() = %q, want version and commit", got)
	}
}
