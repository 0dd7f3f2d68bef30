package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/dayreel/internal/models"
	"github.com/stwalsh4118/dayreel/internal/store"
)

// setupTestStore connects to the redis named by DAYREEL_TEST_REDIS_ADDRESS under a throwaway key prefix
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	addr := os.Getenv("DAYREEL_TEST_REDIS_ADDRESS")
	if addr == "" {
		t.Skip("DAYREEL_TEST_REDIS_ADDRESS not set")
	}

	s, err := Open(context.Background(), Options{
		Address:     addr,
		KeyPrefix:   "dayreel-test-" + uuid.New().String(),
		DialTimeout: 2 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.rdb.Del(context.Background(), s.key).Err()
		_ = s.Close()
	})
	return s
}

func newTestEntry(t *testing.T, date string) *models.Entry {
	t.Helper()

	d, err := models.ParseDate(date)
	require.NoError(t, err)
	return models.NewEntry("https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", d, "")
}

func TestNew_DefaultPrefix(t *testing.T) {
	s := New(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "")
	defer s.Close()

	assert.Equal(t, "dayreel:videos", s.Key())
}

func TestOpen_RequiresAddress(t *testing.T) {
	_, err := Open(context.Background(), Options{})
	assert.Error(t, err)
}

func TestEncodeDecode(t *testing.T) {
	entry := newTestEntry(t, "2024-03-01")

	value, err := encode(entry)
	require.NoError(t, err)
	assert.Contains(t, value, `"scheduled_date":"2024-03-01"`)

	decoded, err := decode(value)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, decoded.ID)
	assert.Equal(t, entry.ScheduledDate, decoded.ScheduledDate)
	assert.True(t, entry.CreatedAt.Equal(decoded.CreatedAt))

	_, err = decode("not json")
	assert.Error(t, err)
}

func TestStore_CRUD(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	entry := newTestEntry(t, "2024-01-10")
	require.NoError(t, s.Create(ctx, entry))
	assert.ErrorIs(t, s.Create(ctx, entry), store.ErrDuplicate)

	got, err := s.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.Title, got.Title)

	entry.Title = "Renamed"
	require.NoError(t, s.Update(ctx, entry))

	got, err = s.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	require.NoError(t, s.Delete(ctx, entry.ID))
	_, err = s.GetByID(ctx, entry.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, entry.ID), store.ErrNotFound)
	assert.ErrorIs(t, s.Update(ctx, entry), store.ErrNotFound)
}

func TestStore_ListOrder(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	older := newTestEntry(t, "2024-01-12")
	newer := newTestEntry(t, "2024-01-10")
	newer.CreatedAt = older.CreatedAt.Add(time.Minute)
	require.NoError(t, s.Create(ctx, newer))
	require.NoError(t, s.Create(ctx, older))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, older.ID, entries[0].ID)
	assert.Equal(t, newer.ID, entries[1].ID)
	require.NoError(t, s.Health(ctx))
}
