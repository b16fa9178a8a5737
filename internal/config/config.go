// Package config handles finbrief configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the finbrief configuration, stored in
// $XDG_CONFIG_HOME/finbrief/config.yml. Zero values fall back to the
// package defaults at the point of use.
type Config struct {
	APIKey          string `yaml:"api_key,omitempty"`
	BaseURL         string `yaml:"base_url,omitempty"`
	EmbeddingModel  string `yaml:"embedding_model,omitempty"`
	CompletionModel string `yaml:"completion_model,omitempty"`
	ChunkSize       int    `yaml:"chunk_size,omitempty"`
	ChunkOverlap    int    `yaml:"chunk_overlap,omitempty"`
	TopK            int    `yaml:"top_k,omitempty"`
	BatchSize       int    `yaml:"batch_size,omitempty"`
	CacheDir        string `yaml:"cache_dir,omitempty"`
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "finbrief"

	// ConfigFile is the config file name.
	ConfigFile = "config.yml"

	// CacheDBFile is the SQLite cache file name.
	CacheDBFile = "cache.db"
)

// configCache caches the loaded config for the process lifetime.
var configCache *Config

// Path returns the path to the config file. Respects XDG_CONFIG_HOME,
// defaults to ~/.config/finbrief/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load reads the configuration file. Returns an empty config (not an
// error) if the file doesn't exist.
func Load() (*Config, error) {
	if configCache != nil {
		return configCache, nil
	}

	path := Path()
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	configCache = &cfg
	return &cfg, nil
}

// Save writes the configuration file, creating its directory if needed.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ResolveAPIKey returns the API key to use, in priority order: the flag
// value, the FINBRIEF_API_KEY or OPENAI_API_KEY environment variables,
// then the config file. Empty means no credential is available.
func (c *Config) ResolveAPIKey(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if key := os.Getenv("FINBRIEF_API_KEY"); key != "" {
		return key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return c.APIKey
}

// ResolveCacheDir returns the cache directory: the configured value, or
// $XDG_CACHE_HOME/finbrief, or ~/.cache/finbrief.
func (c *Config) ResolveCacheDir() string {
	if c.CacheDir != "" {
		return c.CacheDir
	}

	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		cacheHome = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheHome, ConfigDir)
}

// CacheDBPath returns the path to the SQLite cache database.
func (c *Config) CacheDBPath() string {
	dir := c.ResolveCacheDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, CacheDBFile)
}
