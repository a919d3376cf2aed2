package model

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers. Each maps to one stable message; upstream
// error text is wrapped, never shown to users.
var (
	// ErrInvalidInput covers malformed URLs, bad pagination parameters and
	// unknown sentiment filters. Caller-correctable.
	ErrInvalidInput = errors.New("invalid input")

	// ErrVideoNotFound means the video id does not exist on YouTube or the
	// video is private/deleted.
	ErrVideoNotFound = errors.New("video not found")

	// ErrCommentsDisabled means the video owner disabled comments.
	ErrCommentsDisabled = errors.New("comments are disabled for this video")

	// ErrQuotaExceeded means the YouTube API quota is exhausted.
	ErrQuotaExceeded = errors.New("youtube api quota exceeded")

	// ErrNotFound is returned both when a record does not exist and when it
	// is owned by another user, so existence cannot be probed.
	ErrNotFound = errors.New("not found")

	// ErrAnalysisFailed means classification or persistence failed and the
	// whole run was rolled back.
	ErrAnalysisFailed = errors.New("analysis failed")
)

// FetchError is an upstream transport or API failure that survived the
// bounded retry policy.
type FetchError struct {
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("failed to fetch from youtube api (status %d)", e.StatusCode)
	}
	return "failed to fetch from youtube api"
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError wraps an upstream failure with its status code, 0 when the
// failure happened before a response was received.
func NewFetchError(statusCode int, err error) *FetchError {
	return &FetchError{StatusCode: statusCode, Err: err}
}

// InvalidInput wraps ErrInvalidInput with a caller-facing reason.
func InvalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
