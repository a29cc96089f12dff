package errors

import (
	"errors"
	"fmt"
)

// Application-specific errors
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrFeedUnavailable = errors.New("feed unavailable")
	ErrNoEvents        = errors.New("no events found in feed payload")
	ErrBackupEmpty     = errors.New("no backup data available")
	ErrNotLoaded       = errors.New("schedule data not loaded")
)

// FeedError represents a failure fetching or decoding the upstream feed
type FeedError struct {
	URL    string
	Status int
	Err    error
}

func (e FeedError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("feed error fetching %s: HTTP %d: %v", e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("feed error fetching %s: %v", e.URL, e.Err)
}

func (e FeedError) Unwrap() error {
	return e.Err
}

// Is lets callers match any FeedError against ErrFeedUnavailable
func (e FeedError) Is(target error) bool {
	return target == ErrFeedUnavailable
}

// BackupError represents a backup store read or write failure
type BackupError struct {
	Operation string
	Err       error
}

func (e BackupError) Error() string {
	return fmt.Sprintf("backup error during %s: %v", e.Operation, e.Err)
}

func (e BackupError) Unwrap() error {
	return e.Err
}

// PipelineError represents a load-cycle failure after all local recovery
// (backup fallback included) has been exhausted
type PipelineError struct {
	Source string
	Stage  string
	Err    error
}

func (e PipelineError) Error() string {
	return fmt.Sprintf("pipeline error in %s at stage %s: %v", e.Source, e.Stage, e.Err)
}

func (e PipelineError) Unwrap() error {
	return e.Err
}
