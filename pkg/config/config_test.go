package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lavigneer/sillycat/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(body), 0o644))
}

func TestNewWithDefaultsMissingFile(t *testing.T) {
	cfg, err := config.NewWithDefaults(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.False(t, cfg.Error.UseWarnings)
	assert.Equal(t, time.Second, cfg.RefreshInterval)
}

func TestNewWithDefaultsEmptyPath(t *testing.T) {
	cfg, err := config.NewWithDefaults("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestNewWithDefaultsReadsFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
error:
  usewarnings: true
refresh_interval: 250ms
assets_dir: /opt/sillycat/assets
`)
	cfg, err := config.NewWithDefaults(dir)
	require.NoError(t, err)
	assert.True(t, cfg.Error.UseWarnings)
	assert.Equal(t, 250*time.Millisecond, cfg.RefreshInterval)
	assert.Equal(t, "/opt/sillycat/assets", cfg.ResolveAssetsDir())
}

func TestNewWithDefaultsKeepsUnsetFields(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "error:\n  usewarnings: true\n")
	cfg, err := config.NewWithDefaults(dir)
	require.NoError(t, err)
	assert.True(t, cfg.Error.UseWarnings)
	assert.Equal(t, config.DefaultRefreshInterval, cfg.RefreshInterval)
}

func TestNewWithDefaultsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "error: [unterminated\n")
	_, err := config.NewWithDefaults(dir)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestResolveAssetsDirDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, config.DefaultAssetsDirName, filepath.Base(cfg.ResolveAssetsDir()))
}

func TestApplySettings(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		start       bool
		wantChanged bool
		want        bool
	}{
		{name: "nested section", raw: `{"SillyCat":{"error":{"usewarnings":true}}}`, wantChanged: true, want: true},
		{name: "flat key in section", raw: `{"SillyCat":{"error.usewarnings":true}}`, wantChanged: true, want: true},
		{name: "bare section", raw: `{"error":{"usewarnings":true}}`, wantChanged: true, want: true},
		{name: "turn off", raw: `{"SillyCat":{"error":{"usewarnings":false}}}`, start: true, wantChanged: true, want: false},
		{name: "unchanged", raw: `{"SillyCat":{"error":{"usewarnings":true}}}`, start: true, want: true},
		{name: "other section", raw: `{"editor":{"fontSize":12}}`, start: true, want: true},
		{name: "section without key", raw: `{"SillyCat":{}}`, start: true, wantChanged: true, want: false},
		{name: "error without key", raw: `{"SillyCat":{"error":{}}}`, start: true, wantChanged: true, want: false},
		{name: "null section", raw: `{"SillyCat":null}`, start: true, wantChanged: true, want: false},
		{name: "null", raw: `null`, want: false},
		{name: "empty", raw: ``, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Error.UseWarnings = tt.start
			changed, err := cfg.ApplySettings(json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.want, cfg.Error.UseWarnings)
		})
	}
}

func TestApplySettingsRemovedKeyRestoresFileValue(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "error:\n  usewarnings: true\n")
	cfg, err := config.NewWithDefaults(dir)
	require.NoError(t, err)

	changed, err := cfg.ApplySettings(json.RawMessage(`{"SillyCat":{"error":{"usewarnings":false}}}`))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, cfg.Error.UseWarnings)

	changed, err = cfg.ApplySettings(json.RawMessage(`{"SillyCat":{}}`))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, cfg.Error.UseWarnings)
}

func TestApplySettingsSequence(t *testing.T) {
	cfg := config.Default()
	changed, err := cfg.ApplySettings(json.RawMessage(`{"SillyCat":{"error":{"usewarnings":true}}}`))
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = cfg.ApplySettings(json.RawMessage(`{"SillyCat":{}}`))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, cfg.Error.UseWarnings)
}

func TestApplySettingsInvalid(t *testing.T) {
	cfg := config.Default()
	_, err := cfg.ApplySettings(json.RawMessage(`[1,2]`))
	require.ErrorIs(t, err, config.ErrInvalidSettings)
}

func TestFindWorkspaceRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	writeConfig(t, root, "")

	got, err := config.FindWorkspaceRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestFindWorkspaceRootGitFallback(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "pkg")
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := config.FindWorkspaceRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestFindWorkspaceRootMissingDir(t *testing.T) {
	_, err := config.FindWorkspaceRoot(filepath.Join(t.TempDir(), "does-not-exist"))
	require.ErrorIs(t, err, config.ErrRootNotFound)
}
