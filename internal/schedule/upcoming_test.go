package schedule

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/dayreel/internal/models"
)

func ids(entries []*models.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestListUpcoming_Empty(t *testing.T) {
	got := ListUpcoming(nil, at(2024, 1, 10, 9, 0))

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListUpcoming_AfterActive(t *testing.T) {
	entries := []*models.Entry{
		createTestEntry("d13", "2024-01-13", 0),
		createTestEntry("d10", "2024-01-10", 0),
		createTestEntry("d11b", "2024-01-11", 2*time.Minute),
		createTestEntry("d11a", "2024-01-11", time.Minute),
		createTestEntry("d09", "2024-01-09", 0),
	}

	got := ListUpcoming(entries, at(2024, 1, 10, 9, 0))

	assert.Equal(t, []string{"d11a", "d11b", "d13"}, ids(got))
}

func TestListUpcoming_AfterCutover(t *testing.T) {
	entries := []*models.Entry{
		createTestEntry("d10", "2024-01-10", 0),
		createTestEntry("d11", "2024-01-11", 0),
		createTestEntry("d12", "2024-01-12", 0),
	}

	// d11 becomes active at 11:00, so only d12 remains upcoming
	got := ListUpcoming(entries, at(2024, 1, 10, 11, 0))

	assert.Equal(t, []string{"d12"}, ids(got))
}

func TestListUpcoming_ExcludesSameDateAsActive(t *testing.T) {
	entries := []*models.Entry{
		createTestEntry("first", "2024-01-10", 0),
		createTestEntry("second", "2024-01-10", time.Minute),
		createTestEntry("next", "2024-01-11", 0),
	}

	got := ListUpcoming(entries, at(2024, 1, 10, 9, 0))

	assert.Equal(t, []string{"next"}, ids(got))
}

func TestListUpcoming_NoActive(t *testing.T) {
	entries := []*models.Entry{
		createTestEntry("past", "2024-01-09", 0),
		createTestEntry("expired", "2024-01-10", 0),
	}

	// Nothing is active after the cutover; today's entries still count as "today or later"
	got := ListUpcoming(entries, at(2024, 1, 10, 12, 0))

	assert.Equal(t, []string{"expired"}, ids(got))
	assert.Nil(t, SelectActive(entries, at(2024, 1, 10, 12, 0)))
}

func TestListUpcoming_DoesNotModifyInput(t *testing.T) {
	entries := []*models.Entry{
		createTestEntry("c", "2024-01-13", 0),
		createTestEntry("b", "2024-01-12", 0),
		createTestEntry("a", "2024-01-11", 0),
	}

	_ = ListUpcoming(entries, at(2024, 1, 10, 9, 0))

	assert.Equal(t, []string{"c", "b", "a"}, ids(entries))
}

func TestListUpcoming_NeverContainsActiveAndIsSorted(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	for i := 0; i < 200; i++ {
		n := rng.Intn(8)
		entries := make([]*models.Entry, 0, n)
		for j := 0; j < n; j++ {
			date := fmt.Sprintf("2024-01-%02d", 8+rng.Intn(6))
			entries = append(entries, createTestEntry(fmt.Sprintf("%d-%d", i, j), date, time.Duration(rng.Intn(3))*time.Minute))
		}
		now := at(2024, 1, 10, rng.Intn(24), 0)

		active := SelectActive(entries, now)
		upcoming := ListUpcoming(entries, now)

		for k, e := range upcoming {
			if active != nil {
				assert.NotEqual(t, active.ID, e.ID)
				assert.True(t, e.ScheduledDate.After(active.ScheduledDate))
			}
			if k > 0 {
				require.False(t, e.Less(upcoming[k-1]), "upcoming not sorted at %d", k)
			}
		}
	}
}
