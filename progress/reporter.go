package progress

import (
	"context"
	"time"

	"github.com/zantaku/Zantaku-sub000/log"
)

const (
	DefaultLowerBound = 0.05
	DefaultUpperBound = 0.95
	DefaultInterval   = 10 * time.Second
)

// Reporter decides which position updates become reports. It owns no storage.
type Reporter struct {
	mediaID  string
	episode  int
	title    string
	sink     Sink
	lower    float64
	upper    float64
	interval time.Duration
	now      func() time.Time

	last    time.Time
	emitted bool
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithBand sets the exclusive fraction band inside which reports are emitted.
func WithBand(lower, upper float64) Option {
	return func(r *Reporter) {
		r.lower, r.upper = lower, upper
	}
}

// WithInterval sets the minimum time between two emissions.
func WithInterval(interval time.Duration) Option {
	return func(r *Reporter) {
		r.interval = interval
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		r.now = now
	}
}

// WithTitle attaches a display title to every report.
func WithTitle(title string) Option {
	return func(r *Reporter) {
		r.title = title
	}
}

func NewReporter(mediaID string, episode int, sink Sink, opts ...Option) *Reporter {
	r := &Reporter{
		mediaID:  mediaID,
		episode:  episode,
		sink:     sink,
		lower:    DefaultLowerBound,
		upper:    DefaultUpperBound,
		interval: DefaultInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Observe emits a report when current/duration lies strictly inside the band and the
// interval has elapsed since the previous emission. It reports whether it emitted.
func (r *Reporter) Observe(current, duration float64) bool {
	if duration <= 0 {
		return false
	}

	fraction := current / duration
	if fraction <= r.lower || fraction >= r.upper {
		return false
	}

	now := r.now()
	if r.emitted && now.Sub(r.last) < r.interval {
		return false
	}

	r.send(current, duration, now)
	return true
}

// Flush emits the final position regardless of the interval, as long as playback got past
// the lower bound. Used when playback stops or the media ends.
func (r *Reporter) Flush(current, duration float64) bool {
	if duration <= 0 || current/duration <= r.lower {
		return false
	}

	r.send(current, duration, r.now())
	return true
}

func (r *Reporter) send(current, duration float64, now time.Time) {
	r.last = now
	r.emitted = true

	report := Report{
		MediaID:     r.mediaID,
		Episode:     r.episode,
		Title:       r.title,
		CurrentTime: current,
		Duration:    duration,
		At:          now,
	}
	if err := r.sink.Report(context.Background(), report); err != nil {
		log.WithFields(map[string]any{
			"media_id": r.mediaID,
			"episode":  r.episode,
		}).Warnf("progress report failed: %v", err)
	}
}
