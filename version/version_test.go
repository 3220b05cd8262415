package version

import (
	"strings"
	"testing"
)

func TestInfoString(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "1.0.0"}, "1.0.0"},
		{Info{Version: "1.0.0", GitCommit: "abc1234"}, "1.0.0-abc1234"},
		{Info{Version: "dev", GitCommit: "abc1234", Dirty: true}, "dev-abc1234-dirty"},
	}
	for _, tt := range tests {
		if got := tt.info.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.info, got, tt.want)
		}
	}
}

func TestGetUsesLinkerValues(t *testing.T) {
	orig := [3]string{Version, GitCommit, BuildTime}
	defer func() { Version, GitCommit, BuildTime = orig[0], orig[1], orig[2] }()

	Version, GitCommit, BuildTime = "2.1.0", "0123456789abcdef", "2026-01-02T03:04:05Z"
	info := Get()
	if info.Version != "2.1.0" || info.GitCommit != "0123456" || info.BuildTime != BuildTime {
		t.Errorf("Get() = %+v", info)
	}
	if !strings.HasPrefix(Full(), "2.1.0-0123456") || !strings.Contains(Full(), "built 2026-01-02") {
		t.Errorf("Full() = %q", Full())
	}
}
