package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.NotEmpty(t, info.Version)
}

func TestFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-01T12:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	got := fromBuildInfo(Info{CommitHash: "dev", BuildTime: "unknown", Version: "dev"}, bi)
	assert.Equal(t, Info{
		CommitHash: "0123456789abcdef",
		BuildTime:  "2026-01-01T12:00:00Z",
		Version:    "v0.3.0",
		Modified:   true,
	}, got)
	assert.Equal(t, "cuebit v0.3.0 (commit 0123456+dirty, built 2026-01-01T12:00:00Z)", got.String())
}

func TestFromBuildInfoKeepsLinkerValues(t *testing.T) {
	bi := &debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffff"}},
	}

	got := fromBuildInfo(Info{CommitHash: "abc1234", BuildTime: "now", Version: "dev"}, bi)
	assert.Equal(t, "abc1234", got.CommitHash)
	assert.Equal(t, "dev", got.Version)
	assert.Equal(t, "cuebit dev (commit abc1234, built now)", got.String())
}

func TestShort(t *testing.T) {
	assert.Equal(t, "0123456", Info{CommitHash: "0123456789"}.Short())
	assert.Equal(t, "dev", Info{CommitHash: "dev"}.Short())
}
