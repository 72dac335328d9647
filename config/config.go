// Package config loads gamedex configuration from YAML files and the
// environment.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ScanConfig controls filesystem scanning.
type ScanConfig struct {
	Workers    int      `yaml:"workers"`     // 0 means one per CPU
	Extensions []string `yaml:"extensions"`  // launchable extensions, default [".exe"]
	GroupDepth int      `yaml:"group_depth"` // grouping depth under the scan root
}

// ResolveConfig controls metadata resolution.
type ResolveConfig struct {
	Concurrency int    `yaml:"concurrency"` // max in-flight source queries
	CacheTTL    string `yaml:"cache_ttl"`   // duration string, e.g. "1h"
	GameType    string `yaml:"game_type"`   // source pre-filter, default "all"
}

// ProviderConfig holds one provider's credentials and registration knobs.
type ProviderConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Priority int    `yaml:"priority"` // 0 keeps the provider's default
	ClientID string `yaml:"client_id,omitempty"`
	Secret   string `yaml:"client_secret,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
}

// LoggingConfig mirrors logging.Config for YAML loading.
type LoggingConfig struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// Config holds application configuration.
type Config struct {
	Scan    ScanConfig     `yaml:"scan"`
	Resolve ResolveConfig  `yaml:"resolve"`
	IGDB    ProviderConfig `yaml:"igdb"`
	DLsite  ProviderConfig `yaml:"dlsite"`
	GamesDB ProviderConfig `yaml:"thegamesdb"`
	Logging LoggingConfig  `yaml:"logging"`
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Extensions: []string{".exe"},
			GroupDepth: 1,
		},
		Resolve: ResolveConfig{
			Concurrency: 5,
			CacheTTL:    "1h",
			GameType:    "all",
		},
		DLsite: ProviderConfig{Enabled: true},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
		},
	}
}

// configPaths returns the list of paths to search for a config file.
func configPaths() []string {
	paths := []string{
		".gamedex.yaml",
		".gamedex.yml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "gamedex", "config.yaml"),
			filepath.Join(home, ".config", "gamedex", "config.yml"),
			filepath.Join(home, ".gamedex.yaml"),
		)
	}

	return paths
}

// Load loads configuration from file or returns defaults.
// Priority: env GAMEDEX_CONFIG > search paths > defaults.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if envPath := os.Getenv("GAMEDEX_CONFIG"); envPath != "" {
		if err := cfg.loadFromFile(envPath); err != nil {
			return nil, err
		}
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	for _, path := range configPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := cfg.loadFromFile(path); err != nil {
				return nil, err
			}
			break
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnvOverrides() {
	if id := os.Getenv("GAMEDEX_IGDB_CLIENT_ID"); id != "" {
		c.IGDB.ClientID = id
		c.IGDB.Enabled = true
	}
	if secret := os.Getenv("GAMEDEX_IGDB_CLIENT_SECRET"); secret != "" {
		c.IGDB.Secret = secret
	}
	if key := os.Getenv("GAMEDEX_THEGAMESDB_API_KEY"); key != "" {
		c.GamesDB.APIKey = key
		c.GamesDB.Enabled = true
	}
}

// GetCacheTTL returns the cache TTL, applying the default when the
// configured value is empty or unparseable.
func (c *Config) GetCacheTTL() time.Duration {
	if d, err := time.ParseDuration(c.Resolve.CacheTTL); err == nil && d > 0 {
		return d
	}
	return time.Hour
}

// GetConcurrency returns the resolver concurrency bound, applying the default.
func (c *Config) GetConcurrency() int {
	if c.Resolve.Concurrency > 0 {
		return c.Resolve.Concurrency
	}
	return 5
}
