package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stamped(version string, settings ...debug.BuildSetting) func() (*debug.BuildInfo, bool) {
	return func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			GoVersion: "go1.24.0",
			Main:      debug.Module{Path: "github.com/matzehuels/deckfit", Version: version},
			Settings:  settings,
		}, true
	}
}

func TestResolve(t *testing.T) {
	unstamped := Info{Version: "dev", Commit: "none", Date: "unknown"}
	release := Info{Version: "v1.2.0", Commit: "0123456789abcdef", Date: "2026-01-02T03:04:05Z"}
	vcs := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "fedcba9876543210"},
		{Key: "vcs.time", Value: "2026-03-04T05:06:07Z"},
		{Key: "vcs.modified", Value: "true"},
	}

	tests := []struct {
		name string
		info Info
		read func() (*debug.BuildInfo, bool)
		want Info
	}{
		{
			name: "no embedded info",
			info: unstamped,
			read: func() (*debug.BuildInfo, bool) { return nil, false },
			want: unstamped,
		},
		{
			name: "go install from a tag",
			info: unstamped,
			read: stamped("v1.3.0"),
			want: Info{Version: "v1.3.0", Commit: "none", Date: "unknown", GoVersion: "go1.24.0"},
		},
		{
			name: "local checkout",
			info: unstamped,
			read: stamped("(devel)", vcs...),
			want: Info{Version: "dev", Commit: "fedcba9876543210", Date: "2026-03-04T05:06:07Z", GoVersion: "go1.24.0", Modified: true},
		},
		{
			name: "ldflags win",
			info: release,
			read: stamped("v9.9.9", vcs[:2]...),
			want: Info{Version: "v1.2.0", Commit: "0123456789abcdef", Date: "2026-01-02T03:04:05Z", GoVersion: "go1.24.0"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolve(tt.info, tt.read); got != tt.want {
				t.Errorf("resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestShort(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "v1.2.0", Commit: "0123456789abcdef"}, "v1.2.0"},
		{Info{Version: "dev", Commit: "none"}, "dev"},
		{Info{Version: "dev", Commit: "0123456789abcdef"}, "dev+0123456"},
		{Info{Version: "dev", Commit: "abc", Modified: true}, "dev+abc-dirty"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.info.Short(); got != tt.want {
				t.Errorf("Short() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	tmpl := Template()
	info := Get()
	for _, want := range []string{"{{.Name}} version: " + info.Version, "commit: " + info.Commit, "built: " + info.Date} {
		if !strings.Contains(tmpl, want) {
			t.Errorf("Template() = %q, missing %q", tmpl, want)
		}
	}
}
