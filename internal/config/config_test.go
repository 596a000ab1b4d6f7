package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvAPIURLFallback, "")
}

func TestLoad_CreatesDefaultFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 120, cfg.API.TimeoutSec)
	assert.Equal(t, 3, cfg.TUI.StatusClearSec)

	_, err = os.Stat(path)
	require.NoError(t, err, "default config should be written")
}

func TestLoad_FileValuesWin(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig()
	cfg.API.BaseURL = "http://qa.internal:9000"
	cfg.Log.Path = ""
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://qa.internal:9000", loaded.API.BaseURL)
	assert.Equal(t, "", loaded.Log.Path)
}

func TestLoad_EnvOverridesBaseURL(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, Save(path, DefaultConfig()))

	t.Setenv(EnvAPIURLFallback, "http://fallback:1")
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://fallback:1", loaded.API.BaseURL)

	t.Setenv(EnvAPIURL, "http://primary:2")
	loaded, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://primary:2", loaded.API.BaseURL)
}

func TestLoad_MissingKeysUseDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api":{"base_url":"https://docs.example.com"}}`), 0644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://docs.example.com", loaded.API.BaseURL)
	assert.Equal(t, 120, loaded.API.TimeoutSec)
	assert.Equal(t, 26, loaded.TUI.SidebarWidth)
}

func TestLoad_RejectsInvalidURL(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api":{"base_url":"ftp://nope"}}`), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http or https")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty url", mutate: func(c *Config) { c.API.BaseURL = "" }, wantErr: true},
		{name: "no host", mutate: func(c *Config) { c.API.BaseURL = "http://" }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.API.TimeoutSec = -1 }, wantErr: true},
		{name: "sidebar too narrow", mutate: func(c *Config) { c.TUI.SidebarWidth = 4 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/.docqa/docqa.log")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".docqa", "docqa.log"), got)

	got, err = ExpandPath("/tmp/x")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x", got)
}
