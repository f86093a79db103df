package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the application configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Colors ColorsConfig `toml:"colors"`
}

// ServerConfig points the client at the time-clock API.
type ServerConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ColorsConfig holds the UI color configuration.
type ColorsConfig struct {
	Active   string `toml:"active"`
	Inactive string `toml:"inactive"`
	Accent   string `toml:"accent"`
	Error    string `toml:"error"`
	Status   string `toml:"status"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:        "http://localhost:8000/api",
			TimeoutSeconds: 30,
		},
		Colors: ColorsConfig{
			Active:   "34",
			Inactive: "241",
			Accent:   "99",
			Error:    "196",
			Status:   "241",
		},
	}
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, "clockspot", "config.toml"), nil
}

// Load loads the configuration from the given path; an empty path selects
// the default location. A missing file is created with defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		defaultCfg := DefaultConfig()
		if err := defaultCfg.Save(path); err != nil {
			// If we can't save, just return defaults
			return defaultCfg, nil
		}
		return defaultCfg, nil
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.fillDefaults()
	return &cfg, nil
}

// Save writes the configuration to the given path.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// fillDefaults fills in any missing config values with defaults.
func (c *Config) fillDefaults() {
	defaults := DefaultConfig()

	if c.Server.BaseURL == "" {
		c.Server.BaseURL = defaults.Server.BaseURL
	}
	if c.Server.TimeoutSeconds == 0 {
		c.Server.TimeoutSeconds = defaults.Server.TimeoutSeconds
	}
	if c.Colors.Active == "" {
		c.Colors.Active = defaults.Colors.Active
	}
	if c.Colors.Inactive == "" {
		c.Colors.Inactive = defaults.Colors.Inactive
	}
	if c.Colors.Accent == "" {
		c.Colors.Accent = defaults.Colors.Accent
	}
	if c.Colors.Error == "" {
		c.Colors.Error = defaults.Colors.Error
	}
	if c.Colors.Status == "" {
		c.Colors.Status = defaults.Colors.Status
	}
}
