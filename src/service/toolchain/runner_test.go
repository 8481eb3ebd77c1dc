package toolchain

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xcdistill/src/config"
)

var tierCfg = config.ToolchainConfig{
	ScopedTimeout:  3 * time.Minute,
	ModuleTimeout:  10 * time.Minute,
	FullRunTimeout: 30 * time.Minute,
}

func TestSanitizerScopeTimeoutTiers(t *testing.T) {
	tests := []struct {
		name     string
		scope    SanitizerScope
		expected time.Duration
	}{
		{"test class gets the short timeout",
			SanitizerScope{Scheme: "App", Target: "AppTests", TestClass: "CacheTests"},
			3 * time.Minute},
		{"target gets the module timeout",
			SanitizerScope{Scheme: "App", Target: "AppTests"},
			10 * time.Minute},
		{"full scheme gets the long timeout",
			SanitizerScope{Scheme: "App"},
			30 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.scope.Timeout(tierCfg))
		})
	}
}

func TestSanitizerScopeDescribe(t *testing.T) {
	assert.Equal(t, "test class CacheTests",
		SanitizerScope{Target: "AppTests", TestClass: "CacheTests"}.describe())
	assert.Equal(t, "test target AppTests", SanitizerScope{Target: "AppTests"}.describe())
	assert.Equal(t, "full scheme", SanitizerScope{Scheme: "App"}.describe())
}

func TestToolErrorMessages(t *testing.T) {
	assert.Contains(t, (&ToolError{Tool: "xcodebuild", Kind: KindMissingTool}).Error(),
		"xcodebuild not found")
	assert.Contains(t, (&ToolError{Tool: "xcrun", Kind: KindTimeout, Timeout: time.Minute}).Error(),
		"timed out after 1m0s")
	assert.Contains(t, (&ToolError{Tool: "xcodebuild", Kind: KindFailed, Stderr: "bad scheme"}).Error(),
		"failed: bad scheme")
}

func TestRunMissingTool(t *testing.T) {
	r := NewRunner(config.ToolchainConfig{ListTimeout: time.Second})

	_, err := r.run(context.Background(), time.Second, false, "xcdistill-no-such-tool-x9")
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, KindMissingTool, toolErr.Kind)
}

func TestTruncateStderr(t *testing.T) {
	assert.Equal(t, "short", truncateStderr("short"))
	assert.Len(t, truncateStderr(strings.Repeat("e", 1000)), 300)
}
