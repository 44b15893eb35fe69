package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/curatorhq/curator/pkg/storage"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Storage storage.Config `yaml:"storage"`
	Auth    AuthConfig     `yaml:"auth"`
	Cache   CacheConfig    `yaml:"cache"`
	Logging LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// AuthConfig holds authentication tunables.
type AuthConfig struct {
	SessionTTL    time.Duration `yaml:"session_ttl"`
	HashCost      int           `yaml:"hash_cost"`
	SweepSchedule string        `yaml:"sweep_schedule"`
}

// CacheConfig selects the principal cache backend: "none", "lru", or
// "redis".
type CacheConfig struct {
	Backend  string        `yaml:"backend"`
	TTL      time.Duration `yaml:"ttl"`
	LRUSize  int           `yaml:"lru_size"`
	RedisURL string        `yaml:"redis_url"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load builds configuration from defaults, an optional YAML file named by
// CURATOR_CONFIG_FILE, and finally environment variables. Later sources
// win.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CURATOR_CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Storage: storage.DefaultConfig(),
		Auth: AuthConfig{
			SessionTTL:    24 * time.Hour,
			HashCost:      12,
			SweepSchedule: "*/5 * * * *",
		},
		Cache: CacheConfig{
			Backend: "lru",
			TTL:     30 * time.Second,
			LRUSize: 1024,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnv("CURATOR_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnv("CURATOR_PORT", cfg.Server.Port)
	cfg.Server.ReadTimeout = getEnvDuration("CURATOR_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getEnvDuration("CURATOR_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.IdleTimeout = getEnvDuration("CURATOR_IDLE_TIMEOUT", cfg.Server.IdleTimeout)
	cfg.Server.ShutdownTimeout = getEnvDuration("CURATOR_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)

	cfg.Storage.Driver = getEnv("CURATOR_DB_DRIVER", cfg.Storage.Driver)
	cfg.Storage.DSN = getEnv("CURATOR_DB_DSN", cfg.Storage.DSN)
	cfg.Storage.MaxConns = getEnvInt("CURATOR_DB_MAX_CONNS", cfg.Storage.MaxConns)

	cfg.Auth.SessionTTL = getEnvDuration("CURATOR_SESSION_TTL", cfg.Auth.SessionTTL)
	cfg.Auth.HashCost = getEnvInt("CURATOR_HASH_COST", cfg.Auth.HashCost)
	cfg.Auth.SweepSchedule = getEnv("CURATOR_SWEEP_SCHEDULE", cfg.Auth.SweepSchedule)

	cfg.Cache.Backend = getEnv("CURATOR_CACHE_BACKEND", cfg.Cache.Backend)
	cfg.Cache.TTL = getEnvDuration("CURATOR_CACHE_TTL", cfg.Cache.TTL)
	cfg.Cache.LRUSize = getEnvInt("CURATOR_CACHE_LRU_SIZE", cfg.Cache.LRUSize)
	cfg.Cache.RedisURL = getEnv("CURATOR_CACHE_REDIS_URL", cfg.Cache.RedisURL)

	cfg.Logging.Level = getEnv("CURATOR_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("CURATOR_LOG_FORMAT", cfg.Logging.Format)
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Storage.Driver != storage.DriverPostgres && c.Storage.Driver != storage.DriverSQLite {
		return fmt.Errorf("unsupported database driver: %q", c.Storage.Driver)
	}
	if c.Storage.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}
	switch c.Cache.Backend {
	case "none", "lru":
	case "redis":
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("redis cache backend requires CURATOR_CACHE_REDIS_URL")
		}
	default:
		return fmt.Errorf("unsupported cache backend: %q", c.Cache.Backend)
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}
	return nil
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
