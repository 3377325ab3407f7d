package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultStoreURI points at a local MongoDB database named url_shortener
const DefaultStoreURI = "mongodb://localhost:27017/url_shortener"

// supportedSchemes lists the store URI schemes internal/store knows how to open
var supportedSchemes = map[string]bool{
	"mongodb":     true,
	"mongodb+srv": true,
	"postgres":    true,
	"postgresql":  true,
	"sqlite":      true,
	"memory":      true,
}

// Config holds all application configuration, read from the environment
type Config struct {
	// Server Configuration
	Environment string
	ServerPort  string

	// Store configuration
	StoreURI            string
	StoreTimeout        time.Duration // Bound on every single store call
	StoreConnectRetries int
	StoreConnectBackoff time.Duration

	// Redis configuration (empty address disables the cache)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Application settings
	BaseURL         string // Fixed base for short links; derived from the request when empty
	ShortCodeLength int
	ClickWorkers    int
	ClickQueueSize  int

	// Logging
	LogLevel      string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "production"),
		ServerPort:  getEnv("PORT", "5000"),

		StoreURI:            getEnv("STORE_URI", getEnv("MONGODB_URI", DefaultStoreURI)),
		StoreTimeout:        time.Duration(getEnvAsInt("STORE_TIMEOUT_SECONDS", 5)) * time.Second,
		StoreConnectRetries: getEnvAsInt("STORE_CONNECT_ATTEMPTS", 5),
		StoreConnectBackoff: time.Duration(getEnvAsInt("STORE_CONNECT_BACKOFF_SECONDS", 2)) * time.Second,

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		CacheTTL:      time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 3600)) * time.Second,

		BaseURL:         strings.TrimSuffix(getEnv("BASE_URL", ""), "/"),
		ShortCodeLength: getEnvAsInt("SHORT_CODE_LENGTH", 8),
		ClickWorkers:    getEnvAsInt("CLICK_WORKERS", 4),
		ClickQueueSize:  getEnvAsInt("CLICK_QUEUE_SIZE", 1024),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       getEnvAllowEmpty("LOG_FILE", "logs/url_shortener.log"),
		LogMaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 10),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all configuration is present and valid
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.ServerPort)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.ServerPort)
	}

	if c.ShortCodeLength < 4 || c.ShortCodeLength > 22 {
		return fmt.Errorf("SHORT_CODE_LENGTH must be between 4 and 22, got %d", c.ShortCodeLength)
	}

	scheme, err := c.StoreScheme()
	if err != nil {
		return err
	}
	if !supportedSchemes[scheme] {
		return fmt.Errorf("unsupported store scheme %q", scheme)
	}

	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT_SECONDS must be positive")
	}
	if c.StoreConnectRetries < 1 {
		return fmt.Errorf("STORE_CONNECT_ATTEMPTS must be at least 1, got %d", c.StoreConnectRetries)
	}
	if c.StoreConnectBackoff <= 0 {
		return fmt.Errorf("STORE_CONNECT_BACKOFF_SECONDS must be positive")
	}
	if c.ClickWorkers < 1 {
		return fmt.Errorf("CLICK_WORKERS must be at least 1, got %d", c.ClickWorkers)
	}
	if c.ClickQueueSize < 1 {
		return fmt.Errorf("CLICK_QUEUE_SIZE must be at least 1, got %d", c.ClickQueueSize)
	}

	if c.BaseURL != "" {
		if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("BASE_URL must be an absolute URL, got %q", c.BaseURL)
		}
	}

	return nil
}

// StoreScheme returns the lower-cased scheme of the store URI
func (c *Config) StoreScheme() (string, error) {
	idx := strings.Index(c.StoreURI, "://")
	if idx <= 0 {
		return "", fmt.Errorf("store URI %q has no scheme", c.StoreURI)
	}
	return strings.ToLower(c.StoreURI[:idx]), nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Helper functions for reading environment variables

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAllowEmpty is getEnv, except an explicitly empty variable wins over the default
func getEnvAllowEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer or returns default
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
