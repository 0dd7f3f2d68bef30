package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stwalsh4118/dayreel/internal/store"
)

// validConfig returns a configuration that passes validation
func validConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            defaultServerPort,
			Host:            defaultServerHost,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Storage: StorageConfig{Backend: store.BackendSQLite},
		Database: DatabaseConfig{
			Path:              defaultDatabasePath,
			ConnectionTimeout: defaultDatabaseConnectionTimeout,
			EnableWAL:         true,
			MigrationsPath:    defaultMigrationsPath,
		},
		File:      FileConfig{Path: defaultFilePath},
		Redis:     RedisConfig{Address: defaultRedisAddress, KeyPrefix: defaultRedisKeyPrefix},
		Schedule:  ScheduleConfig{UTCOffsetHours: 9, CutoverHour: 11},
		RateLimit: RateLimitConfig{Enabled: true, RPS: 2, Burst: 10},
		Logging:   LoggingConfig{Level: "info"},
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Test server defaults
	if cfg.Server.Port != defaultServerPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, defaultServerPort)
	}
	if cfg.Server.Host != defaultServerHost {
		t.Errorf("Server.Host = %s, want %s", cfg.Server.Host, defaultServerHost)
	}
	if cfg.Server.ReadTimeout != defaultReadTimeout {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, defaultReadTimeout)
	}

	// Test storage defaults
	if cfg.Storage.Backend != store.BackendSQLite {
		t.Errorf("Storage.Backend = %s, want %s", cfg.Storage.Backend, store.BackendSQLite)
	}
	if cfg.Database.Path != defaultDatabasePath {
		t.Errorf("Database.Path = %s, want %s", cfg.Database.Path, defaultDatabasePath)
	}
	if cfg.Database.EnableWAL != defaultDatabaseEnableWAL {
		t.Errorf("Database.EnableWAL = %v, want %v", cfg.Database.EnableWAL, defaultDatabaseEnableWAL)
	}
	if cfg.File.Path != defaultFilePath {
		t.Errorf("File.Path = %s, want %s", cfg.File.Path, defaultFilePath)
	}
	if cfg.Redis.KeyPrefix != defaultRedisKeyPrefix {
		t.Errorf("Redis.KeyPrefix = %s, want %s", cfg.Redis.KeyPrefix, defaultRedisKeyPrefix)
	}

	// Test schedule defaults
	if cfg.Schedule.UTCOffsetHours != 9 {
		t.Errorf("Schedule.UTCOffsetHours = %d, want 9", cfg.Schedule.UTCOffsetHours)
	}
	if cfg.Schedule.CutoverHour != 11 {
		t.Errorf("Schedule.CutoverHour = %d, want 11", cfg.Schedule.CutoverHour)
	}
	policy := cfg.Schedule.Policy()
	if policy.Offset != 9*time.Hour || policy.CutoverHour != 11 {
		t.Errorf("Schedule.Policy() = %+v, want UTC+9 cutover 11", policy)
	}

	// Test rate limit defaults
	if !cfg.RateLimit.Enabled {
		t.Error("RateLimit.Enabled = false, want true")
	}
	if cfg.RateLimit.RPS != defaultRateLimitRPS {
		t.Errorf("RateLimit.RPS = %v, want %v", cfg.RateLimit.RPS, defaultRateLimitRPS)
	}

	// Test logging defaults
	if cfg.Logging.Level != defaultLogLevel {
		t.Errorf("Logging.Level = %s, want %s", cfg.Logging.Level, defaultLogLevel)
	}
	if cfg.Logging.Pretty != defaultLogPretty {
		t.Errorf("Logging.Pretty = %v, want %v", cfg.Logging.Pretty, defaultLogPretty)
	}
}

func TestConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("DAYREEL_SERVER_PORT", "9090")
	t.Setenv("DAYREEL_STORAGE_BACKEND", "FILE")
	t.Setenv("DAYREEL_FILE_PATH", "/tmp/dayreel/videos.json")
	t.Setenv("DAYREEL_SCHEDULE_CUTOVERHOUR", "6")
	t.Setenv("DAYREEL_SCHEDULE_UTCOFFSETHOURS", "-5")
	t.Setenv("DAYREEL_RATELIMIT_RPS", "0.5")
	t.Setenv("DAYREEL_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Storage.Backend != store.BackendFile {
		t.Errorf("Storage.Backend = %s, want %s", cfg.Storage.Backend, store.BackendFile)
	}
	if cfg.File.Path != "/tmp/dayreel/videos.json" {
		t.Errorf("File.Path = %s, want /tmp/dayreel/videos.json", cfg.File.Path)
	}
	if cfg.Schedule.CutoverHour != 6 {
		t.Errorf("Schedule.CutoverHour = %d, want 6", cfg.Schedule.CutoverHour)
	}
	if cfg.Schedule.UTCOffsetHours != -5 {
		t.Errorf("Schedule.UTCOffsetHours = %d, want -5", cfg.Schedule.UTCOffsetHours)
	}
	if cfg.RateLimit.RPS != 0.5 {
		t.Errorf("RateLimit.RPS = %v, want 0.5", cfg.RateLimit.RPS)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
	}
}

func TestConfigInvalidEnvironment(t *testing.T) {
	t.Setenv("DAYREEL_STORAGE_BACKEND", "mongodb")

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for unknown backend")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }, "invalid read timeout"},
		{"zero write timeout", func(c *Config) { c.Server.WriteTimeout = 0 }, "invalid write timeout"},
		{"zero shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }, "invalid shutdown timeout"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "mongodb" }, "invalid storage backend"},
		{"sqlite without path", func(c *Config) { c.Database.Path = "" }, "database path is required"},
		{"postgres without url", func(c *Config) { c.Storage.Backend = store.BackendPostgres }, "database url is required"},
		{"postgres with url", func(c *Config) {
			c.Storage.Backend = store.BackendPostgres
			c.Database.URL = "postgres://localhost/dayreel"
		}, ""},
		{"sql without migrations", func(c *Config) { c.Database.MigrationsPath = "" }, "migrations path is required"},
		{"sql zero connection timeout", func(c *Config) { c.Database.ConnectionTimeout = 0 }, "invalid database connection timeout"},
		{"file without path", func(c *Config) {
			c.Storage.Backend = store.BackendFile
			c.File.Path = ""
		}, "file path is required"},
		{"file ignores database settings", func(c *Config) {
			c.Storage.Backend = store.BackendFile
			c.Database = DatabaseConfig{}
		}, ""},
		{"redis without address", func(c *Config) {
			c.Storage.Backend = store.BackendRedis
			c.Redis.Address = ""
		}, "redis address is required"},
		{"redis negative db", func(c *Config) {
			c.Storage.Backend = store.BackendRedis
			c.Redis.DB = -1
		}, "invalid redis db"},
		{"offset too far east", func(c *Config) { c.Schedule.UTCOffsetHours = 15 }, "invalid schedule utc offset"},
		{"offset too far west", func(c *Config) { c.Schedule.UTCOffsetHours = -13 }, "invalid schedule utc offset"},
		{"cutover zero", func(c *Config) { c.Schedule.CutoverHour = 0 }, "invalid schedule cutover hour"},
		{"cutover 25", func(c *Config) { c.Schedule.CutoverHour = 25 }, "invalid schedule cutover hour"},
		{"cutover end of day", func(c *Config) { c.Schedule.CutoverHour = 24 }, ""},
		{"zero rps", func(c *Config) { c.RateLimit.RPS = 0 }, "invalid rate limit rps"},
		{"zero burst", func(c *Config) { c.RateLimit.Burst = 0 }, "invalid rate limit burst"},
		{"disabled rate limit skips checks", func(c *Config) {
			c.RateLimit = RateLimitConfig{Enabled: false}
		}, ""},
		{"invalid log level", func(c *Config) { c.Logging.Level = "verbose" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
