// Package schedule decides which scheduled video is "current" at a given moment
// and derives the upcoming and paginated views of a schedule snapshot.
//
// Every function in this package is pure: it takes a snapshot of entries and a
// reference instant and never touches storage, clocks or process time zones.
package schedule

import (
	"time"

	"github.com/stwalsh4118/dayreel/internal/models"
)

const (
	// DefaultUTCOffset is the fixed zone the schedule is read in (UTC+9)
	DefaultUTCOffset = 9 * time.Hour

	// DefaultCutoverHour is the hour of day after which today's entry is expired
	DefaultCutoverHour = 11
)

// Policy holds the fixed-zone day boundary rules used by the selector
type Policy struct {
	// Offset is the zone offset from UTC in which calendar days are read
	Offset time.Duration

	// CutoverHour is the hour of day (in the fixed zone) at which today's entry stops being eligible
	CutoverHour int
}

// DefaultPolicy reads days in UTC+9 and expires today's entry at 11:00
var DefaultPolicy = Policy{
	Offset:      DefaultUTCOffset,
	CutoverHour: DefaultCutoverHour,
}

// NewPolicy builds a Policy from a whole-hour UTC offset and a cutover hour
func NewPolicy(utcOffsetHours, cutoverHour int) Policy {
	return Policy{
		Offset:      time.Duration(utcOffsetHours) * time.Hour,
		CutoverHour: cutoverHour,
	}
}

// Today returns the calendar day and hour of day of now, read in the policy's fixed zone.
// The process's local zone is never consulted: the instant is shifted by the offset
// and read through its UTC fields.
func (p Policy) Today(now time.Time) (models.Date, int) {
	shifted := now.UTC().Add(p.Offset)
	return models.DateOf(shifted), shifted.Hour()
}

// NextCutover returns the first instant strictly after now at which the
// active entry can change, i.e. the next cutover hour in the fixed zone.
func (p Policy) NextCutover(now time.Time) time.Time {
	today, _ := p.Today(now)
	next := today.Midnight().Add(time.Duration(p.CutoverHour)*time.Hour - p.Offset)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// eligible reports whether an entry scheduled on date may be active on today at hour
func (p Policy) eligible(date, today models.Date, hour int) bool {
	switch c := date.Compare(today); {
	case c < 0:
		return false
	case c == 0:
		return hour < p.CutoverHour
	default:
		return true
	}
}
