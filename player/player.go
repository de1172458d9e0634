// Package player drives external playback engines and turns their notifications into one
// ordered event stream.
// The primary implementation targets mpv via its JSON-IPC interface.
package player

import (
	"fmt"

	"github.com/zantaku/Zantaku-sub000/chapter"
)

// MediaSource is an already-resolved playable URI plus the request headers it needs.
type MediaSource struct {
	URI     string            `json:"uri" yaml:"uri" jsonschema:"required"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// EventKind enumerates engine notifications.
type EventKind int

const (
	EventTimePos EventKind = iota
	EventDuration
	EventPause
	EventSeeking
	EventPlaybackRestart
	EventEOF
	EventError
	EventExit
)

func (k EventKind) String() string {
	switch k {
	case EventTimePos:
		return "time-pos"
	case EventDuration:
		return "duration"
	case EventPause:
		return "pause"
	case EventSeeking:
		return "seeking"
	case EventPlaybackRestart:
		return "playback-restart"
	case EventEOF:
		return "eof"
	case EventError:
		return "error"
	case EventExit:
		return "exit"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is a single engine notification.
// Value carries time-pos and duration, Flag carries pause and seeking, Message carries errors.
type Event struct {
	Kind    EventKind
	Value   float64
	Flag    bool
	Message string
}

// Engine is a playback backend. Events are delivered in engine order on one channel.
type Engine interface {
	// Load starts playback of src, spawning the engine if needed.
	Load(src MediaSource, title string) error

	// Seek requests an absolute position in seconds. A newer request supersedes older ones.
	Seek(seconds float64) error

	SetPaused(paused bool) error

	SetSpeed(speed float64) error

	// SetChapters publishes chapter markers for the engine's own timeline.
	SetChapters(chapters []chapter.Chapter) error

	Events() <-chan Event

	// Close terminates the engine and releases all associated resources.
	Close() error
}

// New returns the engine registered under name.
func New(name string) (Engine, error) {
	switch name {
	case "mpv", "":
		return NewMPV(), nil
	default:
		return nil, fmt.Errorf("unknown player engine: %s", name)
	}
}
