// Package scrub converts pointer drags over a seek bar into an optimistic preview position
// plus throttled seek requests.
package scrub

import (
	"errors"
	"time"

	"github.com/samber/mo"
	"github.com/zantaku/Zantaku-sub000/util"
)

// DefaultThrottle is the minimum interval between two forwarded seeks of one drag.
const DefaultThrottle = 250 * time.Millisecond

var (
	// ErrDurationUnknown is returned by Begin while the media duration is not known yet.
	// Scrubbing stays disabled until then.
	ErrDurationUnknown = errors.New("scrub: duration unknown")
	ErrNoSession       = errors.New("scrub: no active session")
	ErrNoWidth         = errors.New("scrub: track width must be positive")
)

// Target receives previews and seeks.
type Target interface {
	Duration() float64
	Preview(seconds float64)
	Seek(seconds float64) error
}

// session lives from Begin to End.
type session struct {
	percent     float64
	lastForward time.Time
	forwarded   bool
}

// Controller is not safe for concurrent use; feed it from one event loop.
type Controller struct {
	target   Target
	width    float64
	throttle time.Duration
	now      func() time.Time
	session  *session
}

type Option func(*Controller)

// WithThrottle overrides DefaultThrottle. Non-positive values disable throttling.
func WithThrottle(d time.Duration) Option {
	return func(c *Controller) {
		c.throttle = d
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

func New(target Target, width float64, options ...Option) *Controller {
	c := &Controller{
		target:   target,
		width:    width,
		throttle: DefaultThrottle,
		now:      time.Now,
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// SetWidth changes the track width used to map x to a fraction.
func (c *Controller) SetWidth(width float64) error {
	if width <= 0 {
		return ErrNoWidth
	}
	c.width = width
	return nil
}

func (c *Controller) Width() float64 {
	return c.width
}

// Active reports whether a drag is in progress.
func (c *Controller) Active() bool {
	return c.session != nil
}

// Percent returns the fraction of the current drag.
func (c *Controller) Percent() mo.Option[float64] {
	if c.session == nil {
		return mo.None[float64]()
	}
	return mo.Some(c.session.percent)
}

// Begin opens a drag session at x and previews the position. No seek is forwarded yet.
func (c *Controller) Begin(x float64) error {
	if c.width <= 0 {
		return ErrNoWidth
	}

	if c.target.Duration() <= 0 {
		return ErrDurationUnknown
	}

	c.session = &session{}
	c.preview(x)
	return nil
}

// Move previews x and forwards a seek unless one was forwarded within the throttle window.
func (c *Controller) Move(x float64) error {
	if c.session == nil {
		return ErrNoSession
	}

	seconds := c.preview(x)

	now := c.now()
	if c.session.forwarded && now.Sub(c.session.lastForward) < c.throttle {
		return nil
	}

	c.session.forwarded = true
	c.session.lastForward = now
	return c.target.Seek(seconds)
}

// End forwards one final, unthrottled seek at x and closes the session.
func (c *Controller) End(x float64) error {
	if c.session == nil {
		return ErrNoSession
	}

	seconds := c.preview(x)
	c.session = nil

	return c.target.Seek(seconds)
}

// Cancel closes the session without a final seek.
func (c *Controller) Cancel() {
	c.session = nil
}

func (c *Controller) preview(x float64) float64 {
	x = util.Clamp(x, 0, c.width)
	c.session.percent = x / c.width

	seconds := x * c.target.Duration() / c.width
	c.target.Preview(seconds)

	return seconds
}
