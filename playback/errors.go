package playback

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady is returned by operations that need a loaded media.
	ErrNotReady = errors.New("playback is not ready")

	// ErrLoadTimeout is wrapped in a SourceResolutionError when the engine does not report a
	// duration within the load timeout.
	ErrLoadTimeout = errors.New("timed out waiting for media")

	ErrRetriesExhausted = errors.New("retries exhausted")
	ErrUnknownTrack     = errors.New("unknown subtitle track")
	ErrInvalidState     = errors.New("invalid state for operation")
)

// SourceResolutionError means no playable source or metadata could be obtained.
// It is fatal and retryable.
type SourceResolutionError struct {
	Err error
}

func (e *SourceResolutionError) Error() string {
	return fmt.Sprintf("source resolution: %s", e.Err)
}

func (e *SourceResolutionError) Unwrap() error {
	return e.Err
}

// EngineError is a stream or codec failure reported by the engine mid-playback.
// It is fatal and retryable; parsed subtitles and chapters survive the retry.
type EngineError struct {
	Message string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine: %s", e.Message)
}
