// Package config manages givc configuration.
// Settings live in an optional TOML file under the user config directory;
// a missing file yields defaults so the tool works without any setup.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

const (
	AppName      = "givc"
	ConfigFile   = "config.toml"
	DatabaseFile = "givc.db"
)

// Config represents the givc configuration
type Config struct {
	// APIURL overrides the GitHub REST endpoint (GitHub Enterprise).
	APIURL string `toml:"api_url"`
	// GraphQLURL overrides the GitHub GraphQL endpoint.
	GraphQLURL string `toml:"graphql_url"`
	// DefaultRepo is used when no -R flag is given and the working
	// directory is not a checkout of a GitHub repository.
	DefaultRepo string `toml:"default_repo"`
	// CacheDir overrides the XDG cache location for issue copies.
	CacheDir string `toml:"cache_dir"`

	path string // path to the config file
}

// DefaultPath returns the config file location, honoring XDG_CONFIG_HOME.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, ConfigFile)
}

// Load loads the configuration from the default location.
// A missing file is not an error; defaults apply.
func Load() (*Config, error) {
	return loadFrom(DefaultPath())
}

func loadFrom(path string) (*Config, error) {
	cfg := &Config{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save saves the configuration to disk, creating the directory if needed
func (c *Config) Save() error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return os.WriteFile(c.path, data, 0644)
}

// Path returns the path of the config file this configuration was
// loaded from (or would be saved to).
func (c *Config) Path() string {
	return c.path
}

// CacheRoot returns the base directory for cached issues
func (c *Config) CacheRoot() string {
	if c.CacheDir != "" {
		return c.CacheDir
	}
	return filepath.Join(xdg.CacheHome, AppName)
}

// DatabasePath returns the path to the sync journal database
func (c *Config) DatabasePath() string {
	return filepath.Join(c.CacheRoot(), DatabaseFile)
}
