package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikbrunner/pbb/internal/config"
	"github.com/nikbrunner/pbb/internal/storage"
)

func TestLoadConfig_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pbb", "config.json")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, config.DefaultAPIBaseURL, cfg.SiteURL)
	assert.Equal(t, storage.KindJSON, cfg.Storage)
	assert.Equal(t, filepath.Dir(path), cfg.DataDir)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, config.DefaultCheckConcurrency, cfg.CheckConcurrency)

	data, err := os.ReadFile(path)
	require.NoError(t, err, "config file should be created")

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "10s", raw["request_timeout"])
	assert.Equal(t, "json", raw["storage"])
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
  "api_base_url": "https://books.example.org",
  "storage": "sqlite",
  "data_dir": "/tmp/pbb-data",
  "request_timeout": "3s",
  "check_concurrency": 8
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://books.example.org", cfg.APIBaseURL)
	assert.Equal(t, "https://localhost:8443", cfg.SiteURL)
	assert.Equal(t, storage.KindSQLite, cfg.Storage)
	assert.Equal(t, "/tmp/pbb-data", cfg.DataDir)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 8, cfg.CheckConcurrency)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"storage":"json"}`), 0644))

	t.Setenv("PBB_STORAGE", "memory")
	t.Setenv("PBB_API_BASE_URL", "http://127.0.0.1:9000")
	t.Setenv("PBB_LOG_LEVEL", "debug")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, storage.KindMemory, cfg.Storage)
	assert.Equal(t, "http://127.0.0.1:9000", cfg.APIBaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_InvalidStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"storage":"postgres"}`), 0644))

	_, err := config.LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid storage")
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))

	_, err := config.LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_ClampsConcurrency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"check_concurrency":0}`), 0644))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.CheckConcurrency)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	want := config.DefaultConfig()
	want.APIBaseURL = "https://api.example.org"
	want.SiteURL = "https://www.example.org"
	want.Storage = storage.KindSQLite
	want.DataDir = t.TempDir()
	want.RequestTimeout = 30 * time.Second

	require.NoError(t, config.SaveConfig(path, &want))

	got, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestConfig_LogPath(t *testing.T) {
	cfg := config.Config{DataDir: "/home/reader/.config/pbb"}
	assert.Equal(t, "/home/reader/.config/pbb/pbb.log", cfg.LogPath())
}
