package db

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/dayreel/internal/models"
	"github.com/stwalsh4118/dayreel/internal/store"
)

// EntryRepository handles database operations for schedule entries
type EntryRepository struct {
	db *DB
}

var _ store.Repository = (*EntryRepository)(nil)

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Create inserts a new entry into the database
func (r *EntryRepository) Create(ctx context.Context, entry *models.Entry) error {
	record := models.ToRecord(entry)
	result := r.db.WithContext(ctx).Create(&record)
	if result.Error != nil {
		return fmt.Errorf("failed to create entry: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves an entry by its id
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*models.Entry, error) {
	var record models.EntryRecord
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&record)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return models.FromRecord(record)
}

// List retrieves all entries ordered by creation date (oldest first)
func (r *EntryRepository) List(ctx context.Context) ([]*models.Entry, error) {
	var records []models.EntryRecord
	result := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&records)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list entries: %w", MapGormError(result.Error))
	}

	entries := make([]*models.Entry, 0, len(records))
	for _, record := range records {
		entry, err := models.FromRecord(record)
		if err != nil {
			return nil, fmt.Errorf("failed to list entries: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Update writes the mutable fields of an existing entry.
// Note: Uses map-based updates so every field is written, including zero values
func (r *EntryRepository) Update(ctx context.Context, entry *models.Entry) error {
	record := models.ToRecord(entry)
	updates := map[string]interface{}{
		"url":            record.URL,
		"video_id":       record.VideoID,
		"scheduled_date": record.ScheduledDate,
		"title":          record.Title,
	}

	result := r.db.WithContext(ctx).Model(&models.EntryRecord{}).Where("id = ?", record.ID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update entry: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes an entry by its id
func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.EntryRecord{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete entry: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Backend exposes a database and its entry repository as a store.Backend
type Backend struct {
	*EntryRepository
	db *DB
}

var _ store.Backend = (*Backend)(nil)

// NewBackend creates a store backend over an open database
func NewBackend(db *DB) *Backend {
	return &Backend{
		EntryRepository: NewEntryRepository(db),
		db:              db,
	}
}

// Health checks database connectivity
func (b *Backend) Health(ctx context.Context) error {
	return b.db.Health(ctx)
}

// Close closes the database connection
func (b *Backend) Close() error {
	return b.db.Close()
}
