package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Cache    CacheConfig    `toml:"cache"`
	Auth     AuthConfig     `toml:"auth"`
	Search   SearchConfig   `toml:"search"`
	Client   ClientConfig   `toml:"client"`
	Playlist PlaylistConfig `toml:"playlist"`
}

// CacheConfig locates the cache root. Everything ytlist persists lives under
// this one directory: searches.json, credentials/, in_progress/, ytlist.db.
type CacheConfig struct {
	Dir string `toml:"dir"`
}

// AuthConfig contains OAuth client settings.
type AuthConfig struct {
	ClientSecrets string `toml:"client_secrets"`
	CallbackPort  int    `toml:"callback_port"`
}

// SearchConfig controls video search behavior.
type SearchConfig struct {
	MaxResults int `toml:"max_results"`
}

// ClientConfig controls rate limiting, retries, and the local quota budget.
type ClientConfig struct {
	RateLimitMS int `toml:"rate_limit_ms"`
	MaxRetries  int `toml:"max_retries"`
	RetryBaseMS int `toml:"retry_base_ms"`
	RetryMaxMS  int `toml:"retry_max_ms"`
	QuotaLimit  int `toml:"quota_limit"`
}

// PlaylistConfig contains defaults for created playlists.
type PlaylistConfig struct {
	Privacy string `toml:"privacy"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// FindConfig resolves the config file to load: the explicit flag value when
// set, otherwise the XDG config home. Returns false when no file exists and
// defaults should be used.
func FindConfig(flagPath string) (string, bool) {
	if flagPath != "" {
		return flagPath, true
	}
	if path, err := xdg.SearchConfigFile(filepath.Join("ytlist", "config.toml")); err == nil {
		return path, true
	}
	return "", false
}

// DefaultConfigPath returns the XDG location where setup writes a new config
// file, creating parent directories as needed.
func DefaultConfigPath() (string, error) {
	return xdg.ConfigFile(filepath.Join("ytlist", "config.toml"))
}

// CacheDir returns the expanded cache root directory.
func (c *Config) CacheDir() string {
	return ExpandPath(c.Cache.Dir)
}

// SearchCachePath returns the resolution cache file location.
func (c *Config) SearchCachePath() string {
	return filepath.Join(c.CacheDir(), "searches.json")
}

// CheckpointDir returns the directory holding interrupted-run checkpoints.
func (c *Config) CheckpointDir() string {
	return filepath.Join(c.CacheDir(), "in_progress")
}

// TokenPath returns the OAuth token cache location.
func (c *Config) TokenPath() string {
	return filepath.Join(c.CacheDir(), "credentials", "token.json")
}

// DatabasePath returns the run-history database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.CacheDir(), "ytlist.db")
}

// ClientSecretsPath returns the expanded OAuth client secrets location.
func (c *Config) ClientSecretsPath() string {
	return ExpandPath(c.Auth.ClientSecrets)
}

// RateLimit returns the minimum gap between outbound API calls.
func (c *Config) RateLimit() time.Duration {
	return time.Duration(c.Client.RateLimitMS) * time.Millisecond
}

// RetryBase returns the initial retry backoff delay.
func (c *Config) RetryBase() time.Duration {
	return time.Duration(c.Client.RetryBaseMS) * time.Millisecond
}

// RetryMax returns the backoff delay ceiling.
func (c *Config) RetryMax() time.Duration {
	return time.Duration(c.Client.RetryMaxMS) * time.Millisecond
}
