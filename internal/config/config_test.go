package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.True(t, cfg.PreferEmbedded)
	assert.NotEmpty(t, cfg.SnapshotPath)
	assert.False(t, cfg.RemoteConfigured())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	cfg := &Config{
		SnapshotPath:   "/tmp/dashboard.sqlite",
		PreferEmbedded: false,
		Server: ServerConfig{
			URL:        "https://sql.example.com",
			Token:      "secret",
			DatabaseID: "quadro-db",
		},
	}
	require.NoError(t, cfg.Save(path))
	require.True(t, Exists(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.SnapshotPath, loaded.SnapshotPath)
	assert.False(t, loaded.PreferEmbedded)
	assert.Equal(t, "https://sql.example.com", loaded.Server.URL)
	assert.True(t, loaded.RemoteConfigured())
}

func TestRemoteConfiguredNeedsBothURLAndToken(t *testing.T) {
	cfg := &Config{Server: ServerConfig{URL: "https://sql.example.com"}}
	assert.False(t, cfg.RemoteConfigured())

	cfg.Server.Token = "secret"
	assert.True(t, cfg.RemoteConfigured())
}

func TestLoadExpandsHome(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("snapshot_path: ~/quadro/dashboard.sqlite\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, "quadro", "dashboard.sqlite"), cfg.SnapshotPath)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("snapshot_path: [unterminated"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}
