// Package redisstore keeps schedule entries in a redis hash.
// Each field is an entry id and each value the JSON storage record.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stwalsh4118/dayreel/internal/logger"
	"github.com/stwalsh4118/dayreel/internal/models"
	"github.com/stwalsh4118/dayreel/internal/store"
)

// DefaultKeyPrefix namespaces every key this store writes
const DefaultKeyPrefix = "dayreel"

// maxTxRetries bounds optimistic transaction retries when a watched key changes underneath an update
const maxTxRetries = 5

// Options configures the redis connection
type Options struct {
	Address   string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
	// DialTimeout also bounds the startup ping
	DialTimeout time.Duration
}

// Store is a store.Backend over a redis hash
type Store struct {
	rdb *redis.Client
	key string
}

var _ store.Backend = (*Store)(nil)

// Open connects to redis and verifies the connection
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Address == "" {
		return nil, errors.New("redis.address is required for redis backend")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        opts.Address,
		Username:    opts.Username,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	})

	pingCtx := ctx
	if opts.DialTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, opts.DialTimeout)
		defer cancel()
	}
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Address, err)
	}

	s := New(rdb, opts.KeyPrefix)
	logger.Log.Info().Str("address", opts.Address).Str("key", s.key).Msg("Connected to redis")
	return s, nil
}

// New wraps an existing client
func New(rdb *redis.Client, keyPrefix string) *Store {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &Store{rdb: rdb, key: keyPrefix + ":videos"}
}

// Key returns the hash key holding the entries
func (s *Store) Key() string {
	return s.key
}

// List returns every entry ordered by creation time, then id
func (s *Store) List(ctx context.Context) ([]*models.Entry, error) {
	values, err := s.rdb.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	entries := make([]*models.Entry, 0, len(values))
	for id, value := range values {
		entry, err := decode(value)
		if err != nil {
			return nil, fmt.Errorf("failed to list entries: field %s: %w", id, err)
		}
		entries = append(entries, entry)
	}

	// Hash iteration order is unspecified
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

// GetByID returns the entry with the given id
func (s *Store) GetByID(ctx context.Context, id string) (*models.Entry, error) {
	value, err := s.rdb.HGet(ctx, s.key, id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return decode(value)
}

// Create stores a new entry, refusing to overwrite an existing id
func (s *Store) Create(ctx context.Context, entry *models.Entry) error {
	value, err := encode(entry)
	if err != nil {
		return err
	}

	created, err := s.rdb.HSetNX(ctx, s.key, entry.ID, value).Result()
	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}
	if !created {
		return fmt.Errorf("failed to create entry: %w", store.ErrDuplicate)
	}
	return nil
}

// Update replaces an existing entry.
// The hash is watched so a concurrent delete surfaces as store.ErrNotFound instead of resurrecting the entry.
func (s *Store) Update(ctx context.Context, entry *models.Entry) error {
	txf := func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, s.key, entry.ID).Result()
		if errors.Is(err, redis.Nil) {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}

		existing, err := decode(current)
		if err != nil {
			return err
		}
		updated := entry.Clone()
		updated.CreatedAt = existing.CreatedAt

		value, err := encode(updated)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, s.key, entry.ID, value)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.rdb.Watch(ctx, txf, s.key)
		if errors.Is(err, redis.TxFailedErr) {
			logger.Log.Debug().Str("id", entry.ID).Int("attempt", i+1).Msg("Entry update conflicted, retrying")
			continue
		}
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		if err != nil {
			return fmt.Errorf("failed to update entry: %w", err)
		}
		return nil
	}
	return fmt.Errorf("failed to update entry %s: too many concurrent modifications", entry.ID)
}

// Delete removes the entry with the given id
func (s *Store) Delete(ctx context.Context, id string) error {
	removed, err := s.rdb.HDel(ctx, s.key, id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if removed == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Health pings the redis server
func (s *Store) Health(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the redis client
func (s *Store) Close() error {
	return s.rdb.Close()
}

func encode(entry *models.Entry) (string, error) {
	data, err := json.Marshal(models.ToRecord(entry))
	if err != nil {
		return "", fmt.Errorf("failed to encode entry %s: %w", entry.ID, err)
	}
	return string(data), nil
}

func decode(value string) (*models.Entry, error) {
	var record models.EntryRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return nil, fmt.Errorf("failed to decode entry: %w", err)
	}
	return models.FromRecord(record)
}
