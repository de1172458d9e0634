// Package progress throttles playback positions into watch progress reports and delivers
// them to pluggable sinks.
package progress

import (
	"context"
	"errors"
	"time"
)

// Report is one progress emission.
type Report struct {
	MediaID     string    `json:"media_id"`
	Episode     int       `json:"episode"`
	Title       string    `json:"title,omitempty"`
	CurrentTime float64   `json:"current_time"`
	Duration    float64   `json:"duration"`
	At          time.Time `json:"at"`
}

// Fraction returns CurrentTime/Duration, or 0 when the duration is unknown.
func (r Report) Fraction() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return r.CurrentTime / r.Duration
}

// Sink receives progress reports.
type Sink interface {
	Report(ctx context.Context, report Report) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, report Report) error

func (f SinkFunc) Report(ctx context.Context, report Report) error {
	return f(ctx, report)
}

// Multi fans a report out to every sink. All sinks are attempted; their errors are joined.
type Multi []Sink

func (m Multi) Report(ctx context.Context, report Report) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Report(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
