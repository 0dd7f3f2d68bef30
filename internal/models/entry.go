package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTitle is used when an entry is created without a title
const DefaultTitle = "Untitled"

// Entry is one scheduled video: the item eligible to play on ScheduledDate
type Entry struct {
	ID            string
	SourceURL     string
	MediaID       string
	ScheduledDate Date
	Title         string
	CreatedAt     time.Time
}

// NewEntry creates a new Entry with a generated UUID and creation timestamp.
// CreatedAt is truncated to milliseconds so it survives every storage and wire format unchanged.
func NewEntry(sourceURL, mediaID string, date Date, title string) *Entry {
	if title == "" {
		title = DefaultTitle
	}
	return &Entry{
		ID:            uuid.New().String(),
		SourceURL:     sourceURL,
		MediaID:       mediaID,
		ScheduledDate: date,
		Title:         title,
		CreatedAt:     time.Now().UTC().Truncate(time.Millisecond),
	}
}

// Clone returns a copy of e
func (e *Entry) Clone() *Entry {
	c := *e
	return &c
}

// Less orders entries by scheduled date, then creation time, then id
func (e *Entry) Less(other *Entry) bool {
	if c := e.ScheduledDate.Compare(other.ScheduledDate); c != 0 {
		return c < 0
	}
	if !e.CreatedAt.Equal(other.CreatedAt) {
		return e.CreatedAt.Before(other.CreatedAt)
	}
	return e.ID < other.ID
}
