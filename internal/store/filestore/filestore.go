// Package filestore keeps schedule entries in a single JSON file.
//
// The file holds an array of wire records ({id, url, videoId, date, title, createdAt}),
// so a data/videos.json written by earlier deployments can be served unchanged.
// Every mutation rewrites the whole file through a temp file and a rename.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/stwalsh4118/dayreel/internal/logger"
	"github.com/stwalsh4118/dayreel/internal/models"
	"github.com/stwalsh4118/dayreel/internal/store"
)

// DefaultPath is where the file backend keeps its data unless configured otherwise
const DefaultPath = "./data/videos.json"

// ErrClosed is returned by operations on a closed store
var ErrClosed = errors.New("file store closed")

// Store is a store.Backend over a JSON file
type Store struct {
	path string

	mu     sync.Mutex
	closed bool
}

var _ store.Backend = (*Store)(nil)

// Open prepares the file at path, creating its directory and an empty array if needed.
// An existing file is decoded once so that a corrupt file fails at startup rather than on first request.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("file.path is required for file backend")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{path: path}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.writeLocked(nil); err != nil {
			return nil, err
		}
		logger.Log.Info().Str("path", path).Msg("Created empty video file")
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat data file: %w", err)
	}

	entries, err := s.readLocked()
	if err != nil {
		return nil, err
	}

	logger.Log.Debug().Str("path", path).Int("entries", len(entries)).Msg("Opened file store")
	return s, nil
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// List returns every entry in file order
func (s *Store) List(ctx context.Context) ([]*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(ctx); err != nil {
		return nil, err
	}
	return s.readLocked()
}

// GetByID returns the entry with the given id
func (s *Store) GetByID(ctx context.Context, id string) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(ctx); err != nil {
		return nil, err
	}

	entries, err := s.readLocked()
	if err != nil {
		return nil, err
	}
	if i := indexOf(entries, id); i >= 0 {
		return entries[i], nil
	}
	return nil, store.ErrNotFound
}

// Create appends a new entry
func (s *Store) Create(ctx context.Context, entry *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(ctx); err != nil {
		return err
	}

	entries, err := s.readLocked()
	if err != nil {
		return err
	}
	if indexOf(entries, entry.ID) >= 0 {
		return fmt.Errorf("failed to create entry: %w", store.ErrDuplicate)
	}

	return s.writeLocked(append(entries, entry.Clone()))
}

// Update replaces the stored entry with the same id
func (s *Store) Update(ctx context.Context, entry *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(ctx); err != nil {
		return err
	}

	entries, err := s.readLocked()
	if err != nil {
		return err
	}
	i := indexOf(entries, entry.ID)
	if i < 0 {
		return store.ErrNotFound
	}

	updated := entry.Clone()
	updated.CreatedAt = entries[i].CreatedAt
	entries[i] = updated
	return s.writeLocked(entries)
}

// Delete removes the entry with the given id
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(ctx); err != nil {
		return err
	}

	entries, err := s.readLocked()
	if err != nil {
		return err
	}
	i := indexOf(entries, id)
	if i < 0 {
		return store.ErrNotFound
	}

	return s.writeLocked(append(entries[:i], entries[i+1:]...))
}

// Health verifies the data file is still readable
func (s *Store) Health(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(ctx); err != nil {
		return err
	}
	if _, err := os.Stat(s.path); err != nil {
		return fmt.Errorf("data file unavailable: %w", err)
	}
	return nil
}

// Close marks the store closed. The file itself needs no cleanup.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

func (s *Store) check(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	return ctx.Err()
}

func (s *Store) readLocked() ([]*models.Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var wires []models.EntryWire
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json.Unmarshal(data, &wires); err != nil {
			return nil, fmt.Errorf("failed to decode data file %s: %w", s.path, err)
		}
	}

	entries := make([]*models.Entry, 0, len(wires))
	for _, w := range wires {
		entry, err := models.FromWire(w)
		if err != nil {
			return nil, fmt.Errorf("failed to decode data file %s: %w", s.path, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Store) writeLocked(entries []*models.Entry) error {
	wires := make([]models.EntryWire, 0, len(entries))
	for _, e := range entries {
		wires = append(wires, models.ToWire(e))
	}

	data, err := json.MarshalIndent(wires, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode entries: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}

func indexOf(entries []*models.Entry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
