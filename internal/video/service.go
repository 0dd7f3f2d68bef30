// Package video implements the scheduling operations behind the HTTP API:
// validated CRUD over entries and the current, upcoming and paginated views.
package video

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stwalsh4118/dayreel/internal/logger"
	"github.com/stwalsh4118/dayreel/internal/models"
	"github.com/stwalsh4118/dayreel/internal/schedule"
	"github.com/stwalsh4118/dayreel/internal/store"
	"github.com/stwalsh4118/dayreel/internal/youtube"
)

// CreateInput holds the fields of a new video
type CreateInput struct {
	URL   string
	Date  string
	Title string
}

// UpdateInput holds a partial update. Nil or empty fields are left unchanged.
type UpdateInput struct {
	URL   *string
	Date  *string
	Title *string
}

// VideoService handles business logic for scheduled videos
type VideoService struct {
	repo   store.Repository
	policy schedule.Policy
	now    func() time.Time
}

// Option configures a VideoService
type Option func(*VideoService)

// WithPolicy overrides the default UTC+9 / 11:00 schedule policy
func WithPolicy(p schedule.Policy) Option {
	return func(s *VideoService) {
		s.policy = p
	}
}

// WithClock overrides the time source used by the schedule views
func WithClock(now func() time.Time) Option {
	return func(s *VideoService) {
		s.now = now
	}
}

// NewVideoService creates a new video service instance
func NewVideoService(repo store.Repository, opts ...Option) *VideoService {
	s := &VideoService{
		repo:   repo,
		policy: schedule.DefaultPolicy,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the schedule policy in effect
func (s *VideoService) Policy() schedule.Policy {
	return s.policy
}

// Now returns the current instant according to the service clock
func (s *VideoService) Now() time.Time {
	return s.now()
}

// Create validates input and stores a new video
func (s *VideoService) Create(ctx context.Context, in CreateInput) (*models.Entry, error) {
	sourceURL := strings.TrimSpace(in.URL)
	if sourceURL == "" {
		return nil, ErrMissingURL
	}
	rawDate := strings.TrimSpace(in.Date)
	if rawDate == "" {
		return nil, ErrMissingDate
	}

	mediaID, err := youtube.ExtractVideoID(sourceURL)
	if err != nil {
		logger.Log.Warn().
			Str("url", sourceURL).
			Msg("Video creation failed: invalid URL")
		return nil, err
	}

	date, err := parseDate(rawDate)
	if err != nil {
		logger.Log.Warn().
			Str("date", rawDate).
			Msg("Video creation failed: invalid date")
		return nil, err
	}

	entry := models.NewEntry(sourceURL, mediaID, date, strings.TrimSpace(in.Title))

	if err := s.repo.Create(ctx, entry); err != nil {
		logger.Log.Error().
			Err(err).
			Str("video_id", mediaID).
			Msg("Failed to store video")
		return nil, fmt.Errorf("failed to create video: %w", err)
	}

	logger.Log.Info().
		Str("id", entry.ID).
		Str("video_id", entry.MediaID).
		Str("date", entry.ScheduledDate.String()).
		Msg("Video created successfully")

	return entry, nil
}

// GetByID retrieves a video by its id
func (s *VideoService) GetByID(ctx context.Context, id string) (*models.Entry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrVideoNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("id", id).
			Msg("Failed to get video by ID")
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	return entry, nil
}

// List retrieves all videos
func (s *VideoService) List(ctx context.Context) ([]*models.Entry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list videos")
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	logger.Log.Debug().
		Int("count", len(entries)).
		Msg("Listed videos")

	return entries, nil
}

// Update applies a partial update to an existing video.
// Every supplied field is validated before anything is written.
func (s *VideoService) Update(ctx context.Context, id string, in UpdateInput) (*models.Entry, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := existing.Clone()

	if v := trimmed(in.URL); v != "" {
		mediaID, err := youtube.ExtractVideoID(v)
		if err != nil {
			logger.Log.Warn().
				Str("id", id).
				Str("url", v).
				Msg("Video update failed: invalid URL")
			return nil, err
		}
		updated.SourceURL = v
		updated.MediaID = mediaID
	}

	if v := trimmed(in.Date); v != "" {
		date, err := parseDate(v)
		if err != nil {
			logger.Log.Warn().
				Str("id", id).
				Str("date", v).
				Msg("Video update failed: invalid date")
			return nil, err
		}
		updated.ScheduledDate = date
	}

	if v := trimmed(in.Title); v != "" {
		updated.Title = v
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		if store.IsNotFound(err) {
			return nil, ErrVideoNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("id", id).
			Msg("Failed to update video in store")
		return nil, fmt.Errorf("failed to update video: %w", err)
	}

	logger.Log.Info().
		Str("id", id).
		Str("video_id", updated.MediaID).
		Str("date", updated.ScheduledDate.String()).
		Msg("Video updated successfully")

	return updated, nil
}

// Delete deletes a video by its id
func (s *VideoService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if store.IsNotFound(err) {
			return ErrVideoNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("id", id).
			Msg("Failed to delete video from store")
		return fmt.Errorf("failed to delete video: %w", err)
	}

	logger.Log.Info().
		Str("id", id).
		Msg("Video deleted successfully")

	return nil
}

// Current returns the video active right now, or nil when nothing is eligible
func (s *VideoService) Current(ctx context.Context) (*models.Entry, error) {
	return s.CurrentAt(ctx, s.now())
}

// CurrentAt returns the video active at now, or nil when nothing is eligible.
// Callers that also report the next changeover should derive it from the same now.
func (s *VideoService) CurrentAt(ctx context.Context, now time.Time) (*models.Entry, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	active := s.policy.SelectActive(entries, now)

	event := logger.Log.Debug().Time("now", now)
	if active != nil {
		event = event.Str("id", active.ID).Str("date", active.ScheduledDate.String())
	}
	event.Msg("Selected active video")

	return active, nil
}

// Upcoming returns the videos scheduled after the active one, soonest first
func (s *VideoService) Upcoming(ctx context.Context) ([]*models.Entry, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.policy.ListUpcoming(entries, s.now()), nil
}

// Paginated returns one page of videos, most recently created first
func (s *VideoService) Paginated(ctx context.Context, page, pageSize int) (schedule.Page, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return schedule.Page{}, err
	}
	return schedule.Paginate(entries, page, pageSize), nil
}

// NextChangeover returns the next instant at which the active video can change
func (s *VideoService) NextChangeover() time.Time {
	return s.policy.NextCutover(s.now())
}

// parseDate accepts YYYY-MM-DD, or a complete RFC3339 timestamp whose
// leading calendar day is kept as written.
func parseDate(raw string) (models.Date, error) {
	day := raw
	if len(raw) != len(models.DateLayout) {
		if _, err := time.Parse(time.RFC3339Nano, raw); err != nil {
			return models.Date{}, fmt.Errorf("%w: %s", ErrInvalidDate, raw)
		}
		day = raw[:len(models.DateLayout)]
	}

	t, err := time.Parse(models.DateLayout, day)
	if err != nil {
		return models.Date{}, fmt.Errorf("%w: %s", ErrInvalidDate, raw)
	}
	return models.DateOf(t), nil
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
