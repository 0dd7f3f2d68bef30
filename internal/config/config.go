// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/stwalsh4118/dayreel/internal/schedule"
	"github.com/stwalsh4118/dayreel/internal/store"
)

const (
	defaultServerPort                = 3001
	defaultServerHost                = "0.0.0.0"
	defaultReadTimeout               = 30 * time.Second
	defaultWriteTimeout              = 30 * time.Second
	defaultShutdownTimeout           = 10 * time.Second
	defaultStorageBackend            = store.BackendSQLite
	defaultDatabasePath              = "./data/dayreel.db"
	defaultDatabaseConnectionTimeout = 5 * time.Second
	defaultDatabaseEnableWAL         = true
	defaultMigrationsPath            = "./migrations"
	defaultFilePath                  = "./data/videos.json"
	defaultRedisAddress              = "localhost:6379"
	defaultRedisKeyPrefix            = "dayreel"
	defaultRedisDialTimeout          = 5 * time.Second
	defaultScheduleUTCOffsetHours    = 9
	defaultScheduleCutoverHour       = 11
	defaultRateLimitEnabled          = true
	defaultRateLimitRPS              = 2.0
	defaultRateLimitBurst            = 10
	defaultLogLevel                  = "info"
	defaultLogPretty                 = false
	envPrefix                        = "DAYREEL"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	File      FileConfig
	Redis     RedisConfig
	Schedule  ScheduleConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Backend string
}

// DatabaseConfig holds SQL database configuration.
// Path is used by the sqlite backend and URL by the postgres backend.
type DatabaseConfig struct {
	Path              string
	URL               string
	ConnectionTimeout time.Duration
	EnableWAL         bool
	MigrationsPath    string
}

// FileConfig holds flat JSON file storage configuration
type FileConfig struct {
	Path string
}

// RedisConfig holds redis connection configuration
type RedisConfig struct {
	Address     string
	Username    string
	Password    string
	DB          int
	KeyPrefix   string
	DialTimeout time.Duration
}

// ScheduleConfig holds the fixed zone and cutover hour used to pick the active video
type ScheduleConfig struct {
	UTCOffsetHours int
	CutoverHour    int
}

// Policy returns the schedule policy described by the configuration
func (s ScheduleConfig) Policy() schedule.Policy {
	return schedule.NewPolicy(s.UTCOffsetHours, s.CutoverHour)
}

// RateLimitConfig holds per-client limits for schedule mutations
type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	// .env files are optional in production and CI where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	setDefaults(v)

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/dayreel")

	// Environment variable settings, e.g. DAYREEL_STORAGE_BACKEND
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options.
// Every key needs a default so that AutomaticEnv can bind it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.readtimeout", defaultReadTimeout)
	v.SetDefault("server.writetimeout", defaultWriteTimeout)
	v.SetDefault("server.shutdowntimeout", defaultShutdownTimeout)

	v.SetDefault("storage.backend", defaultStorageBackend)

	// Database defaults
	v.SetDefault("database.path", defaultDatabasePath)
	v.SetDefault("database.url", "")
	v.SetDefault("database.connectiontimeout", defaultDatabaseConnectionTimeout)
	v.SetDefault("database.enablewal", defaultDatabaseEnableWAL)
	v.SetDefault("database.migrationspath", defaultMigrationsPath)

	v.SetDefault("file.path", defaultFilePath)

	// Redis defaults
	v.SetDefault("redis.address", defaultRedisAddress)
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.keyprefix", defaultRedisKeyPrefix)
	v.SetDefault("redis.dialtimeout", defaultRedisDialTimeout)

	// Schedule defaults
	v.SetDefault("schedule.utcoffsethours", defaultScheduleUTCOffsetHours)
	v.SetDefault("schedule.cutoverhour", defaultScheduleCutoverHour)

	// Rate limit defaults
	v.SetDefault("ratelimit.enabled", defaultRateLimitEnabled)
	v.SetDefault("ratelimit.rps", defaultRateLimitRPS)
	v.SetDefault("ratelimit.burst", defaultRateLimitBurst)

	// Logging defaults
	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}

	// Validate timeout durations
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("invalid read timeout: %v (must be > 0)", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("invalid write timeout: %v (must be > 0)", c.Server.WriteTimeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout: %v (must be > 0)", c.Server.ShutdownTimeout)
	}

	if err := c.validateStorage(); err != nil {
		return err
	}

	// Zones in use range from UTC-12 to UTC+14
	if c.Schedule.UTCOffsetHours < -12 || c.Schedule.UTCOffsetHours > 14 {
		return fmt.Errorf("invalid schedule utc offset: %d (must be between -12 and 14)", c.Schedule.UTCOffsetHours)
	}
	// 24 keeps an entry active for its whole day
	if c.Schedule.CutoverHour < 1 || c.Schedule.CutoverHour > 24 {
		return fmt.Errorf("invalid schedule cutover hour: %d (must be between 1 and 24)", c.Schedule.CutoverHour)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			return fmt.Errorf("invalid rate limit rps: %v (must be > 0)", c.RateLimit.RPS)
		}
		if c.RateLimit.Burst < 1 {
			return fmt.Errorf("invalid rate limit burst: %d (must be >= 1)", c.RateLimit.Burst)
		}
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}

	return nil
}

// validateStorage checks the settings required by the selected backend
func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case store.BackendSQLite:
		if c.Database.Path == "" {
			return errors.New("database path is required for sqlite backend")
		}
	case store.BackendPostgres:
		if c.Database.URL == "" {
			return errors.New("database url is required for postgres backend")
		}
	case store.BackendFile:
		if c.File.Path == "" {
			return errors.New("file path is required for file backend")
		}
		return nil
	case store.BackendRedis:
		if c.Redis.Address == "" {
			return errors.New("redis address is required for redis backend")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("invalid redis db: %d (must be >= 0)", c.Redis.DB)
		}
		return nil
	default:
		return fmt.Errorf("invalid storage backend: %s (must be one of: %s)", c.Storage.Backend, strings.Join(store.Backends(), ", "))
	}

	// SQL backends
	if c.Database.ConnectionTimeout <= 0 {
		return fmt.Errorf("invalid database connection timeout: %v (must be > 0)", c.Database.ConnectionTimeout)
	}
	if c.Database.MigrationsPath == "" {
		return errors.New("database migrations path is required for sql backends")
	}
	return nil
}

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
