package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultMaxValueLen, cfg.MaxValueLen)
	assert.Equal(t, "auto", cfg.Color)
	assert.Empty(t, cfg.HistoryPath)
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".varlens.yaml")
	content := "maxValueLen: 40\ncolor: never\nhistoryPath: /tmp/runs.db\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.MaxValueLen)
	assert.Equal(t, "never", cfg.Color)
	assert.Equal(t, "/tmp/runs.db", cfg.HistoryPath)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".varlens.yaml")
	require.NoError(t, os.WriteFile(path, []byte("color: always\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxValueLen, cfg.MaxValueLen)
	assert.Equal(t, "always", cfg.Color)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".varlens.yaml")
	require.NoError(t, os.WriteFile(path, []byte("maxValueLen: [not a number\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestResolveHistoryPathHonorsOverride(t *testing.T) {
	cfg := Default()
	cfg.HistoryPath = "/tmp/custom.db"
	path, err := cfg.ResolveHistoryPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", path)
}
