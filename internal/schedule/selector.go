package schedule

import (
	"sort"
	"time"

	"github.com/stwalsh4118/dayreel/internal/models"
)

// SelectActive returns the entry that should be playing at now under DefaultPolicy
func SelectActive(entries []*models.Entry, now time.Time) *models.Entry {
	return DefaultPolicy.SelectActive(entries, now)
}

// ListUpcoming returns the entries scheduled after the active one under DefaultPolicy
func ListUpcoming(entries []*models.Entry, now time.Time) []*models.Entry {
	return DefaultPolicy.ListUpcoming(entries, now)
}

// SelectActive picks the single entry that is "current" at now.
//
// Rules:
//   - entries scheduled before today are never eligible
//   - an entry scheduled today is eligible only while the hour of day is before CutoverHour
//   - entries scheduled after today are always eligible
//   - the eligible entry with the smallest date wins; ties go to the earliest CreatedAt,
//     then to the smallest ID
//
// Returns nil when no entry is eligible. Nil entries in the slice are ignored.
func (p Policy) SelectActive(entries []*models.Entry, now time.Time) *models.Entry {
	today, hour := p.Today(now)

	var active *models.Entry
	for _, e := range entries {
		if e == nil || !p.eligible(e.ScheduledDate, today, hour) {
			continue
		}
		if active == nil || e.Less(active) {
			active = e
		}
	}
	return active
}

// ListUpcoming returns every entry scheduled strictly after the active entry's date,
// or, when nothing is active, every entry scheduled today or later.
// The result is ordered by date, then CreatedAt, then ID, the same order SelectActive uses.
func (p Policy) ListUpcoming(entries []*models.Entry, now time.Time) []*models.Entry {
	today, _ := p.Today(now)
	active := p.SelectActive(entries, now)

	upcoming := make([]*models.Entry, 0)
	for _, e := range entries {
		if e == nil {
			continue
		}
		if active != nil {
			if e.ScheduledDate.After(active.ScheduledDate) {
				upcoming = append(upcoming, e)
			}
			continue
		}
		if !e.ScheduledDate.Before(today) {
			upcoming = append(upcoming, e)
		}
	}

	SortByDate(upcoming)
	return upcoming
}

// SortByDate sorts entries in place by date, then CreatedAt, then ID
func SortByDate(entries []*models.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Less(entries[j])
	})
}
