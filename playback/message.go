package playback

import "github.com/zantaku/Zantaku-sub000/chapter"

// Message is a typed notification from the machine to its host.
type Message interface {
	message()
}

type StateChanged struct {
	From, To State
}

type PositionChanged struct {
	Position Position
}

// SubtitleChanged carries the active subtitle text, empty when none is active.
type SubtitleChanged struct {
	Text string
}

// ChapterChanged is sent when playback crosses a chapter boundary. Index is -1 outside any chapter.
type ChapterChanged struct {
	Index   int
	Chapter chapter.Chapter
}

// TrackChanged reports the selected subtitle track and whether its cues are usable.
// Selected is set only on the change a SelectSubtitle call makes; the automatic pick at
// start and later load results leave it false.
type TrackChanged struct {
	Index     int
	Available bool
	Selected  bool
}

type SpeedChanged struct {
	Speed float64
}

// ErrorOccurred reports a fatal error; the machine is in the Error state.
type ErrorOccurred struct {
	Err error
}

// ExitRequested asks the host to leave the player.
type ExitRequested struct {
	Reason string
	Err    error
}

func (StateChanged) message()    {}
func (PositionChanged) message() {}
func (SubtitleChanged) message() {}
func (ChapterChanged) message()  {}
func (TrackChanged) message()    {}
func (SpeedChanged) message()    {}
func (ErrorOccurred) message()   {}
func (ExitRequested) message()   {}

// Host receives machine notifications on the session goroutine.
// Notify must not block and must not call Session.Call.
type Host interface {
	Notify(msg Message)
}

// HostFunc adapts a function to Host.
type HostFunc func(msg Message)

func (f HostFunc) Notify(msg Message) {
	f(msg)
}

type nopHost struct{}

func (nopHost) Notify(Message) {}
