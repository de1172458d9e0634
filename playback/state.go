package playback

import (
	"fmt"

	"github.com/zantaku/Zantaku-sub000/chapter"
	"github.com/zantaku/Zantaku-sub000/subtitle"
)

// State is the playback lifecycle state.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Playing
	Paused
	Seeking
	Ended
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Seeking:
		return "seeking"
	case Ended:
		return "ended"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// seekable reports whether a seek may be issued from s.
func (s State) seekable() bool {
	switch s {
	case Ready, Playing, Paused, Seeking, Ended:
		return true
	default:
		return false
	}
}

// Position is the playback position in seconds. Duration is 0 while unknown.
type Position struct {
	CurrentTime float64
	Duration    float64
}

// Fraction returns CurrentTime/Duration, or 0 while the duration is unknown.
func (p Position) Fraction() float64 {
	if p.Duration <= 0 {
		return 0
	}
	return p.CurrentTime / p.Duration
}

// Snapshot is an immutable view of the machine, safe to read from any goroutine.
type Snapshot struct {
	Title     string
	State     State
	Position  Position
	Subtitle  string
	Chapters  []chapter.Chapter
	Chapter   int
	Tracks    []subtitle.Track
	Track     int
	Speed     float64
	Repeat    bool
	Scrubbing bool
	Err       error
}

// CurrentChapter returns the highlighted chapter, if any.
func (s *Snapshot) CurrentChapter() (chapter.Chapter, bool) {
	if s.Chapter < 0 || s.Chapter >= len(s.Chapters) {
		return chapter.Chapter{}, false
	}
	return s.Chapters[s.Chapter], true
}
