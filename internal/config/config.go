package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

const (
	// EnvAPIURL overrides the backend base URL.
	EnvAPIURL = "DOCQA_API_URL"
	// EnvAPIURLFallback is the variable name the web frontend used.
	EnvAPIURLFallback = "VITE_API_URL"
	// EnvConfigFile points at an alternative config file.
	EnvConfigFile = "DOCQA_CONFIG"

	// DefaultBaseURL is used when nothing overrides the backend address.
	DefaultBaseURL = "http://127.0.0.1:8000"
)

// APIConfig holds backend connection settings
type APIConfig struct {
	BaseURL    string `json:"base_url" mapstructure:"base_url"`
	TimeoutSec int    `json:"timeout_sec" mapstructure:"timeout_sec"`
}

// LogConfig holds diagnostic log settings
type LogConfig struct {
	Level string `json:"level" mapstructure:"level"`
	Path  string `json:"path" mapstructure:"path"` // empty disables logging
}

// TUIConfig holds TUI-specific settings
type TUIConfig struct {
	SidebarWidth   int `json:"sidebar_width" mapstructure:"sidebar_width"`
	StatusClearSec int `json:"status_clear_sec" mapstructure:"status_clear_sec"`
}

// Config represents the application configuration
type Config struct {
	API APIConfig `json:"api" mapstructure:"api"`
	Log LogConfig `json:"log" mapstructure:"log"`
	TUI TUIConfig `json:"tui" mapstructure:"tui"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:    DefaultBaseURL,
			TimeoutSec: 120,
		},
		Log: LogConfig{
			Level: "info",
			Path:  "~/.docqa/docqa.log",
		},
		TUI: TUIConfig{
			SidebarWidth:   26,
			StatusClearSec: 3,
		},
	}
}

// Validate checks the configuration after loading.
func (c *Config) Validate() error {
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.TUI.Validate(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// Validate checks the backend connection settings.
func (c *APIConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(httpURL)),
		validation.Field(&c.TimeoutSec, validation.Min(0)),
	)
}

// Validate checks the TUI settings.
func (c *TUIConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SidebarWidth, validation.Min(12), validation.Max(60)),
		validation.Field(&c.StatusClearSec, validation.Min(0)),
	)
}

func httpURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil {
		return errors.New("must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must use http or https")
	}
	if u.Host == "" {
		return errors.New("must include a host")
	}
	return nil
}

// ConfigDir returns the configuration directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".docqa"), nil
}

// ConfigPath returns the configuration file path
func ConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigFile); p != "" {
		return ExpandPath(p)
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file is created with defaults. DOCQA_API_URL (then
// VITE_API_URL) overrides the base URL from the file.
func Load(path string) (*Config, error) {
	var err error
	if path == "" {
		path, err = ConfigPath()
		if err != nil {
			return nil, err
		}
	} else if path, err = ExpandPath(path); err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Save(path, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	setDefaults(v, DefaultConfig())
	if err := v.BindEnv("api.base_url", EnvAPIURL, EnvAPIURLFallback); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout_sec", d.API.TimeoutSec)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("tui.sidebar_width", d.TUI.SidebarWidth)
	v.SetDefault("tui.status_clear_sec", d.TUI.StatusClearSec)
}

// Save writes cfg as indented JSON to path
func Save(path string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetLogPath returns the expanded log file path
func (c *Config) GetLogPath() (string, error) {
	return ExpandPath(c.Log.Path)
}
