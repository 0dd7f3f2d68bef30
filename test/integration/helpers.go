//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/dayreel/internal/config"
	"github.com/stwalsh4118/dayreel/internal/db"
	"github.com/stwalsh4118/dayreel/internal/server"
	"github.com/stwalsh4118/dayreel/internal/store"
	"github.com/stwalsh4118/dayreel/internal/store/filestore"
	"github.com/stwalsh4118/dayreel/internal/store/redisstore"
	"github.com/stwalsh4118/dayreel/internal/video"
)

// testClock is a settable time source shared by the server under test
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// migrationsDir returns the absolute path to the migrations directory relative to this file.
// This keeps tests working regardless of working directory.
func migrationsDir(t *testing.T) string {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get current file path")

	testDir := filepath.Dir(filename)             // test/integration
	rootDir := filepath.Dir(filepath.Dir(testDir)) // module root
	return filepath.Join(rootDir, "migrations")
}

// backendFactories opens each backend available in this environment
func backendFactories(t *testing.T) map[string]func(t *testing.T) store.Backend {
	factories := map[string]func(t *testing.T) store.Backend{
		store.BackendSQLite: func(t *testing.T) store.Backend {
			database, err := db.New(filepath.Join(t.TempDir(), "dayreel.db"))
			require.NoError(t, err, "Failed to create database")
			require.NoError(t, database.Migrate(migrationsDir(t)), "Failed to run migrations")
			return db.NewBackend(database)
		},
		store.BackendFile: func(t *testing.T) store.Backend {
			fs, err := filestore.Open(filepath.Join(t.TempDir(), "data", "videos.json"))
			require.NoError(t, err, "Failed to open file store")
			return fs
		},
	}

	if addr := os.Getenv("DAYREEL_TEST_REDIS_ADDRESS"); addr != "" {
		factories[store.BackendRedis] = func(t *testing.T) store.Backend {
			rs, err := redisstore.Open(context.Background(), redisstore.Options{
				Address:     addr,
				KeyPrefix:   "dayreel-it-" + uuid.New().String(),
				DialTimeout: 2 * time.Second,
			})
			require.NoError(t, err, "Failed to connect to redis")
			return rs
		}
	}

	if url := os.Getenv("DAYREEL_TEST_POSTGRES_URL"); url != "" {
		factories[store.BackendPostgres] = func(t *testing.T) store.Backend {
			database, err := db.NewPostgres(url, 5*time.Second)
			require.NoError(t, err, "Failed to connect to postgres")
			require.NoError(t, database.Migrate(migrationsDir(t)), "Failed to run migrations")
			require.NoError(t, database.Exec("DELETE FROM videos").Error)
			return db.NewBackend(database)
		}
	}

	return factories
}

// setupTestServer builds the full HTTP stack over backend with a controllable clock
func setupTestServer(t *testing.T, backendName string, backend store.Backend, clock *testClock) http.Handler {
	t.Helper()
	t.Cleanup(func() { _ = backend.Close() })

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:            3001,
			Host:            "127.0.0.1",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Storage:   config.StorageConfig{Backend: backendName},
		Schedule:  config.ScheduleConfig{UTCOffsetHours: 9, CutoverHour: 11},
		RateLimit: config.RateLimitConfig{Enabled: false},
		Logging:   config.LoggingConfig{Level: "info"},
	}

	return server.New(cfg, backend, video.WithClock(clock.Now)).Router()
}

// doJSON performs a request against handler and decodes the JSON response into out when non-nil
func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}, out interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
	}
	return w
}
