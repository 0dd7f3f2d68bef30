package models

import (
	"fmt"
	"time"
)

// WireTimeLayout formats creation timestamps the way browsers emit ISO-8601 (millisecond precision)
const WireTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// EntryRecord is the storage shape of an Entry (SQL row, redis hash value)
type EntryRecord struct {
	ID            string    `json:"id" gorm:"type:text;primaryKey;column:id"`
	URL           string    `json:"url" gorm:"type:text;not null;column:url"`
	VideoID       string    `json:"video_id" gorm:"type:text;not null;column:video_id"`
	ScheduledDate string    `json:"scheduled_date" gorm:"type:text;not null;index;column:scheduled_date"`
	Title         string    `json:"title" gorm:"type:text;not null;column:title"`
	CreatedAt     time.Time `json:"created_at" gorm:"not null;index;column:created_at"`
}

// TableName binds EntryRecord to the videos table
func (EntryRecord) TableName() string {
	return "videos"
}

// EntryWire is the JSON shape of an Entry exchanged with API clients and flat files
type EntryWire struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	VideoID   string `json:"videoId"`
	Date      string `json:"date"`
	Title     string `json:"title"`
	CreatedAt string `json:"createdAt"`
}

// ToRecord maps an Entry to its storage shape
func ToRecord(e *Entry) EntryRecord {
	return EntryRecord{
		ID:            e.ID,
		URL:           e.SourceURL,
		VideoID:       e.MediaID,
		ScheduledDate: e.ScheduledDate.String(),
		Title:         e.Title,
		CreatedAt:     e.CreatedAt.UTC(),
	}
}

// FromRecord maps a storage row back to an Entry
func FromRecord(r EntryRecord) (*Entry, error) {
	date, err := ParseDate(r.ScheduledDate)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", r.ID, err)
	}
	return &Entry{
		ID:            r.ID,
		SourceURL:     r.URL,
		MediaID:       r.VideoID,
		ScheduledDate: date,
		Title:         r.Title,
		CreatedAt:     r.CreatedAt.UTC(),
	}, nil
}

// ToWire maps an Entry to its JSON wire shape
func ToWire(e *Entry) EntryWire {
	return EntryWire{
		ID:        e.ID,
		URL:       e.SourceURL,
		VideoID:   e.MediaID,
		Date:      e.ScheduledDate.String(),
		Title:     e.Title,
		CreatedAt: e.CreatedAt.UTC().Format(WireTimeLayout),
	}
}

// FromWire maps a wire record back to an Entry
func FromWire(w EntryWire) (*Entry, error) {
	date, err := ParseDate(w.Date)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", w.ID, err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, w.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("entry %s: invalid createdAt %q: %w", w.ID, w.CreatedAt, err)
	}
	return &Entry{
		ID:            w.ID,
		SourceURL:     w.URL,
		MediaID:       w.VideoID,
		ScheduledDate: date,
		Title:         w.Title,
		CreatedAt:     createdAt.UTC(),
	}, nil
}
