package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"ENVIRONMENT", "PORT", "STORE_URI", "MONGODB_URI", "STORE_TIMEOUT_SECONDS",
		"REDIS_ADDR", "BASE_URL", "SHORT_CODE_LENGTH", "CLICK_WORKERS", "LOG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "5000", cfg.ServerPort)
	assert.Equal(t, DefaultStoreURI, cfg.StoreURI)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 8, cfg.ShortCodeLength)
	assert.Equal(t, "", cfg.RedisAddr)
	assert.Equal(t, 4, cfg.ClickWorkers)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("PORT", "8080")
	t.Setenv("MONGODB_URI", "mongodb://db:27017/links")
	t.Setenv("BASE_URL", "https://sho.rt/")
	t.Setenv("SHORT_CODE_LENGTH", "10")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "mongodb://db:27017/links", cfg.StoreURI)
	assert.Equal(t, "https://sho.rt", cfg.BaseURL)
	assert.Equal(t, 10, cfg.ShortCodeLength)
}

func TestLoadConfig_StoreURIWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGODB_URI", "mongodb://db:27017/links")
	t.Setenv("STORE_URI", "postgres://u:p@localhost:5432/links")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@localhost:5432/links", cfg.StoreURI)
	scheme, err := cfg.StoreScheme()
	require.NoError(t, err)
	assert.Equal(t, "postgres", scheme)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			ServerPort:          "5000",
			StoreURI:            "memory://",
			StoreTimeout:        time.Second,
			StoreConnectRetries: 1,
			StoreConnectBackoff: time.Second,
			ShortCodeLength:     8,
			ClickWorkers:        1,
			ClickQueueSize:      1,
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"bad port", func(c *Config) { c.ServerPort = "http" }, false},
		{"port out of range", func(c *Config) { c.ServerPort = "70000" }, false},
		{"short code too short", func(c *Config) { c.ShortCodeLength = 3 }, false},
		{"short code too long", func(c *Config) { c.ShortCodeLength = 23 }, false},
		{"no scheme", func(c *Config) { c.StoreURI = "localhost:27017" }, false},
		{"unknown scheme", func(c *Config) { c.StoreURI = "cassandra://x" }, false},
		{"sqlite", func(c *Config) { c.StoreURI = "sqlite://data/urls.db" }, true},
		{"no workers", func(c *Config) { c.ClickWorkers = 0 }, false},
		{"zero timeout", func(c *Config) { c.StoreTimeout = 0 }, false},
		{"relative base url", func(c *Config) { c.BaseURL = "sho.rt" }, false},
		{"absolute base url", func(c *Config) { c.BaseURL = "https://sho.rt" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
