package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xcdistill.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingExplicitFileErrors(t *testing.T) {
	cfg, err := NewLoader().Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadNoPathUsesDefaults(t *testing.T) {
	// No explicit path and no file in the search locations
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	t.Setenv("HOME", t.TempDir())

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Report.MaxIssues, cfg.Report.MaxIssues)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
report:
  max_issues: 50
lint:
  max_files: 5
`)

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Report.MaxIssues)
	assert.Equal(t, 5, cfg.Lint.MaxFiles)
	// Untouched sections keep their defaults
	assert.Equal(t, DefaultConfig().Report.WarningLimit, cfg.Report.WarningLimit)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("XCD_TEST_DEVICE", "iPhone 16")

	path := writeConfig(t, `
toolchain:
  device: ${XCD_TEST_DEVICE}
  workspace: ${XCD_TEST_UNSET:-Fallback.xcworkspace}
`)

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "iPhone 16", cfg.Toolchain.Device)
	assert.Equal(t, "Fallback.xcworkspace", cfg.Toolchain.Workspace)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "report: [not a map")

	_, err := NewLoader().Load(path)
	assert.ErrorContains(t, err, "parsing config file")
}
