package video

import (
	"errors"

	"github.com/stwalsh4118/dayreel/internal/youtube"
)

// Video service errors
var (
	// ErrVideoNotFound indicates the requested video does not exist
	ErrVideoNotFound = errors.New("video not found")

	// ErrMissingURL indicates a create request without a source URL
	ErrMissingURL = errors.New("url is required")

	// ErrMissingDate indicates a create request without a scheduled date
	ErrMissingDate = errors.New("date is required")

	// ErrInvalidURL indicates the URL is not a recognized YouTube reference
	ErrInvalidURL = youtube.ErrInvalidURL

	// ErrInvalidDate indicates the date is not a YYYY-MM-DD calendar date
	ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")
)

// IsVideoNotFound checks if the error is a video not found error
func IsVideoNotFound(err error) bool {
	return errors.Is(err, ErrVideoNotFound)
}

// IsValidation checks if the error was caused by invalid client input
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingURL) ||
		errors.Is(err, ErrMissingDate) ||
		errors.Is(err, ErrInvalidURL) ||
		errors.Is(err, ErrInvalidDate)
}
