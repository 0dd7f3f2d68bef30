package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/dayreel/internal/db"
	"github.com/stwalsh4118/dayreel/internal/video"
)

// 2024-01-10 10:00 in UTC+9, one hour before the cutover
var testNow = time.Date(2024, time.January, 10, 1, 0, 0, 0, time.UTC)

// setupTestDB creates a migrated SQLite database in a temp directory
func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Close()
	})

	require.NoError(t, database.Migrate("../../migrations"))
	return database
}

// setupTestService creates a video service with a fixed clock over a test database
func setupTestService(t *testing.T) *video.VideoService {
	t.Helper()

	database := setupTestDB(t)
	return video.NewVideoService(
		db.NewEntryRepository(database),
		video.WithClock(func() time.Time { return testNow }),
	)
}

// setupSteppingService creates a video service whose clock returns each instant in turn,
// repeating the last one once they run out
func setupSteppingService(t *testing.T, instants ...time.Time) *video.VideoService {
	t.Helper()
	require.NotEmpty(t, instants)

	calls := 0
	clock := func() time.Time {
		i := calls
		if i >= len(instants) {
			i = len(instants) - 1
		}
		calls++
		return instants[i]
	}

	return video.NewVideoService(
		db.NewEntryRepository(setupTestDB(t)),
		video.WithClock(clock),
	)
}

// setupVideoTestRouter creates a test router with video routes
func setupVideoTestRouter(service *video.VideoService, mutate ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	apiGroup := router.Group("/api")
	SetupVideoRoutes(apiGroup, service, mutate...)
	return router
}

func doRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createVideo(t *testing.T, router http.Handler, url, date, title string) VideoResponse {
	t.Helper()

	w := doRequest(t, router, http.MethodPost, "/api/videos", CreateVideoRequest{URL: url, Date: date, Title: title})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp VideoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
