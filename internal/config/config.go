package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Runtime kinds.
const (
	RuntimeCLI = "cli"
	RuntimeSDK = "sdk"
)

// Config holds the application configuration
type Config struct {
	ListenAddr     string `yaml:"listen_addr"`
	Runtime        string `yaml:"runtime"`
	DockerHost     string `yaml:"docker_host"`
	BuildDir       string `yaml:"build_dir"`
	NgrokAuthtoken string `yaml:"ngrok_authtoken"`
	LogLevel       string `yaml:"log_level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ListenAddr: ":8080",
		Runtime:    RuntimeCLI,
		BuildDir:   ".",
		LogLevel:   "info",
	}
}

// configPath returns the path to the config file
func configPath() string {
	if p, ok := os.LookupEnv("LIGHTHOUSE_CONFIG"); ok {
		return p
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "lighthouse-expose", "config.yaml")
}

// Load reads the configuration from the config file, then applies
// environment overrides. A missing file yields the defaults.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	path := configPath()
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.ListenAddr = GetString("LIGHTHOUSE_ADDR", cfg.ListenAddr)
	cfg.Runtime = GetString("LIGHTHOUSE_RUNTIME", cfg.Runtime)
	cfg.DockerHost = GetString("DOCKER_HOST", cfg.DockerHost)
	cfg.BuildDir = GetString("LIGHTHOUSE_BUILD_DIR", cfg.BuildDir)
	cfg.NgrokAuthtoken = GetString("NGROK_AUTHTOKEN", cfg.NgrokAuthtoken)
	cfg.LogLevel = GetString("LIGHTHOUSE_LOG_LEVEL", cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot run with.
func (c *Config) Validate() error {
	if c.Runtime != RuntimeCLI && c.Runtime != RuntimeSDK {
		return fmt.Errorf("runtime must be %q or %q, got %q", RuntimeCLI, RuntimeSDK, c.Runtime)
	}
	if c.BuildDir == "" {
		c.BuildDir = "."
	}
	return nil
}

// GetString retrieves an environment variable or returns a fallback when unset.
func GetString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// ConfigPath returns the path where the config file should be located
func ConfigPath() string {
	return configPath()
}
