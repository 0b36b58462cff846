package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v := New()
	// Point at an empty file so a user config cannot leak in.
	empty := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	v.Set(KeyConfigFile, empty)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(xdg.DataHome, "agenthub"), cfg.DataDir)
	assert.Equal(t, "kiro", cfg.DefaultTool)
	assert.Equal(t, 60*time.Second, cfg.Git.CloneTimeout)
	assert.Equal(t, 5, cfg.Git.MaxConcurrent)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.Sync.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Sync.Interval)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("AGENTHUB_DATA_DIR", dataDir)
	t.Setenv("AGENTHUB_GIT_CLONE_TIMEOUT", "5s")
	t.Setenv("AGENTHUB_GIT_MAX_CONCURRENT", "2")
	t.Setenv("AGENTHUB_LOG_LEVEL", "debug")
	t.Setenv("AGENTHUB_SYNC_ENABLED", "true")

	v := New()
	v.Set(KeyConfigFile, writeConfig(t, ""))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, 5*time.Second, cfg.Git.CloneTimeout)
	assert.Equal(t, 2, cfg.Git.MaxConcurrent)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Sync.Enabled)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
default_tool: kiro
owner: platform-team
git:
  clone_timeout: 2m
log:
  format: json
sync:
  interval: 6h
`)
	v := New()
	v.Set(KeyConfigFile, path)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "platform-team", cfg.Owner)
	assert.Equal(t, 2*time.Minute, cfg.Git.CloneTimeout)
	assert.Equal(t, 5, cfg.Git.MaxConcurrent)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 6*time.Hour, cfg.Sync.Interval)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	t.Setenv("AGENTHUB_OWNER", "from-env")
	v := New()
	v.Set(KeyConfigFile, writeConfig(t, "owner: from-file\n"))
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Owner)
}

func TestLoad_MissingNamedFile(t *testing.T) {
	v := New()
	v.Set(KeyConfigFile, filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load(v)
	assert.ErrorContains(t, err, "reading config file")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"zero concurrency", "git:\n  max_concurrent: 0\n", "git.max_concurrent must be at least 1"},
		{"negative timeout", "git:\n  clone_timeout: -1s\n", "git.clone_timeout must be positive"},
		{"bad format", "log:\n  format: xml\n", "invalid log format"},
		{"zero interval", "sync:\n  interval: 0s\n", "sync.interval must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Set(KeyConfigFile, writeConfig(t, tt.yaml))
			_, err := Load(v)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
