package schedule

import (
	"sort"

	"github.com/stwalsh4118/dayreel/internal/models"
)

const (
	// DefaultPage is used when the requested page is absent or not positive
	DefaultPage = 1

	// DefaultPageSize is used when the requested page size is absent or not positive
	DefaultPageSize = 5
)

// Page is one slice of the schedule, newest entries first
type Page struct {
	Items      []*models.Entry
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

// Paginate orders entries by CreatedAt descending (ID descending on ties) and returns the requested page.
// Non-positive page or pageSize fall back to DefaultPage and DefaultPageSize.
// A page past the end yields empty Items, not an error. The input slice is not modified.
func Paginate(entries []*models.Entry, page, pageSize int) Page {
	if page <= 0 {
		page = DefaultPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	ordered := make([]*models.Entry, 0, len(entries))
	for _, e := range entries {
		if e != nil {
			ordered = append(ordered, e)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	total := len(ordered)
	result := Page{
		Items:      make([]*models.Entry, 0),
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: total / pageSize,
	}
	if total%pageSize != 0 {
		result.TotalPages++
	}

	if page > result.TotalPages {
		return result
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	result.Items = append(result.Items, ordered[start:end]...)
	return result
}
