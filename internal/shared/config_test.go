package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Cache.Dir != "~/.ytlist" {
			t.Errorf("expected cache dir ~/.ytlist, got %s", config.Cache.Dir)
		}

		if config.Search.MaxResults != 3 {
			t.Errorf("expected max_results 3, got %d", config.Search.MaxResults)
		}

		if config.Client.RateLimitMS != 500 {
			t.Errorf("expected rate_limit_ms 500, got %d", config.Client.RateLimitMS)
		}

		if config.Client.QuotaLimit != 10000 {
			t.Errorf("expected quota_limit 10000, got %d", config.Client.QuotaLimit)
		}

		if config.Playlist.Privacy != "private" {
			t.Errorf("expected privacy private, got %s", config.Playlist.Privacy)
		}

		if config.RateLimit() != 500*time.Millisecond {
			t.Errorf("expected 500ms rate limit, got %v", config.RateLimit())
		}
	})

	t.Run("DerivedPaths", func(t *testing.T) {
		config := DefaultConfig()
		config.Cache.Dir = "/tmp/ytlist-test"

		if got := config.SearchCachePath(); got != "/tmp/ytlist-test/searches.json" {
			t.Errorf("unexpected search cache path: %s", got)
		}
		if got := config.CheckpointDir(); got != "/tmp/ytlist-test/in_progress" {
			t.Errorf("unexpected checkpoint dir: %s", got)
		}
		if got := config.TokenPath(); got != "/tmp/ytlist-test/credentials/token.json" {
			t.Errorf("unexpected token path: %s", got)
		}
		if got := config.DatabasePath(); got != "/tmp/ytlist-test/ytlist.db" {
			t.Errorf("unexpected database path: %s", got)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "nested", "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Cache.Dir != defaultConfig.Cache.Dir {
			t.Errorf("created config cache dir doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[cache]
dir = "/custom/cache"

[auth]
client_secrets = "/custom/secrets.json"
callback_port = 9999

[search]
max_results = 5

[client]
rate_limit_ms = 100
max_retries = 2
retry_base_ms = 50
retry_max_ms = 400
quota_limit = 0

[playlist]
privacy = "unlisted"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Cache.Dir != "/custom/cache" {
			t.Errorf("expected cache dir /custom/cache, got %s", config.Cache.Dir)
		}

		if config.Auth.CallbackPort != 9999 {
			t.Errorf("expected callback port 9999, got %d", config.Auth.CallbackPort)
		}

		if config.Client.QuotaLimit != 0 {
			t.Errorf("expected quota_limit 0, got %d", config.Client.QuotaLimit)
		}

		if config.Playlist.Privacy != "unlisted" {
			t.Errorf("expected privacy unlisted, got %s", config.Playlist.Privacy)
		}
	})

	t.Run("FindConfig PrefersFlag", func(t *testing.T) {
		path, found := FindConfig("/explicit/config.toml")
		if !found || path != "/explicit/config.toml" {
			t.Errorf("expected explicit path to win, got %q found=%v", path, found)
		}
	})
}
