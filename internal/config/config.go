package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	// Backend selects the store implementation: postgres or memory.
	Backend string

	Database  DatabaseConfig
	Server    ServerConfig
	CORS      CORSConfig
	Logging   LoggingConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig

	// SeedDemo loads the demo catalog on startup.
	SeedDemo bool
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL      string // Full PostgreSQL URL
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// RedisConfig enables event publishing when URL is set.
type RedisConfig struct {
	URL string
}

// RateLimitConfig sets the token bucket applied to every request. A zero
// RequestsPerSecond disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load reads configuration from the process environment. Variables not set
// there are taken from config/local.env, then .env.
func Load() (*Config, error) {
	_ = godotenv.Load("config/local.env")
	_ = godotenv.Load(".env")

	cfg := &Config{
		Backend:  strings.ToLower(getEnvOrDefault("STORE_BACKEND", BackendPostgres)),
		SeedDemo: getEnvBool("SEED_DEMO"),
	}
	cfg.Redis.URL = os.Getenv("REDIS_URL")

	if err := cfg.loadDatabase(); err != nil {
		return nil, fmt.Errorf("load database config: %w", err)
	}
	if err := cfg.loadServer(); err != nil {
		return nil, fmt.Errorf("load server config: %w", err)
	}
	if err := cfg.loadRateLimit(); err != nil {
		return nil, fmt.Errorf("load rate limit config: %w", err)
	}
	if err := cfg.loadLogging(); err != nil {
		return nil, fmt.Errorf("load logging config: %w", err)
	}
	cfg.loadCORS()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadDatabase() error {
	c.Database.URL = os.Getenv("DATABASE_URL")
	if c.Database.URL != "" {
		return nil
	}

	c.Database.Host = getEnvOrDefault("DB_HOST", "localhost")
	c.Database.User = os.Getenv("DB_USER")
	c.Database.Password = os.Getenv("DB_PASSWORD")
	c.Database.Name = os.Getenv("DB_NAME")
	c.Database.SSLMode = getEnvOrDefault("DB_SSLMODE", "disable")

	port, err := strconv.Atoi(getEnvOrDefault("DB_PORT", "5432"))
	if err != nil {
		return fmt.Errorf("invalid DB_PORT: %w", err)
	}
	c.Database.Port = port

	if c.Database.User != "" && c.Database.Name != "" {
		c.Database.URL = fmt.Sprintf(
			"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
			c.Database.User,
			c.Database.Password,
			c.Database.Host,
			c.Database.Port,
			c.Database.Name,
			c.Database.SSLMode,
		)
	}
	return nil
}

func (c *Config) loadServer() error {
	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8000"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}
	c.Server.Port = port
	c.Server.Host = getEnvOrDefault("HOST", "0.0.0.0")

	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"HTTP_READ_TIMEOUT", "15s", &c.Server.ReadTimeout},
		{"HTTP_WRITE_TIMEOUT", "15s", &c.Server.WriteTimeout},
		{"HTTP_SHUTDOWN_TIMEOUT", "10s", &c.Server.ShutdownTimeout},
	}
	for _, d := range durations {
		value, err := time.ParseDuration(getEnvOrDefault(d.key, d.fallback))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = value
	}
	return nil
}

func (c *Config) loadRateLimit() error {
	rps, err := strconv.ParseFloat(getEnvOrDefault("RATE_LIMIT_RPS", "0"), 64)
	if err != nil {
		return fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	burst, err := strconv.Atoi(getEnvOrDefault("RATE_LIMIT_BURST", "20"))
	if err != nil {
		return fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}
	c.RateLimit = RateLimitConfig{RequestsPerSecond: rps, Burst: burst}
	return nil
}

func (c *Config) loadCORS() {
	c.CORS.AllowedOrigins = parseList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"))
}

func (c *Config) loadLogging() error {
	c.Logging.Level = getEnvOrDefault("LOG_LEVEL", "info")
	c.Logging.Format = getEnvOrDefault("LOG_FORMAT", "json")
	c.Logging.File = os.Getenv("LOG_FILE")

	size, err := strconv.Atoi(getEnvOrDefault("LOG_MAX_SIZE_MB", "100"))
	if err != nil {
		return fmt.Errorf("invalid LOG_MAX_SIZE_MB: %w", err)
	}
	backups, err := strconv.Atoi(getEnvOrDefault("LOG_MAX_BACKUPS", "3"))
	if err != nil {
		return fmt.Errorf("invalid LOG_MAX_BACKUPS: %w", err)
	}
	c.Logging.MaxSizeMB = size
	c.Logging.MaxBackups = backups
	return nil
}

// Validate checks that all required configuration is present and valid
func (c *Config) Validate() error {
	var errors []string

	switch c.Backend {
	case BackendPostgres:
		if c.Database.URL == "" {
			errors = append(errors, "DATABASE_URL is required (or DB_HOST, DB_USER, DB_NAME)")
		}
	case BackendMemory:
	default:
		errors = append(errors, "STORE_BACKEND must be one of: postgres, memory")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, "PORT must be between 1 and 65535")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		errors = append(errors, "LOG_LEVEL must be one of: debug, info, warn, error")
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		errors = append(errors, "LOG_FORMAT must be one of: json, text")
	}

	if c.RateLimit.RequestsPerSecond < 0 {
		errors = append(errors, "RATE_LIMIT_RPS must not be negative")
	}
	if c.RateLimit.RequestsPerSecond > 0 && c.RateLimit.Burst < 1 {
		errors = append(errors, "RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}
	return nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && value
}

func parseList(raw string) []string {
	var items []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
