// Package chapter resolves the current, next and previous chapter of a media item and
// turns chapter navigation into seeks.
package chapter

import (
	"errors"
	"math"
)

// Kind marks chapters with special playback treatment.
type Kind string

const (
	KindNone    Kind = ""
	KindOpening Kind = "opening"
	KindEnding  Kind = "ending"
)

// Skippable reports whether the chapter may be skipped automatically.
func (k Kind) Skippable() bool {
	return k == KindOpening || k == KindEnding
}

// Chapter is a named segment of the media. Times are seconds.
// An End not after Start means the end is unknown.
type Chapter struct {
	ID    string  `json:"id" yaml:"id"`
	Title string  `json:"title" yaml:"title"`
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end,omitempty" yaml:"end,omitempty"`
	Kind  Kind    `json:"kind,omitempty" yaml:"kind,omitempty"`
}

var (
	ErrUnknownChapter = errors.New("unknown chapter")
	ErrNoChapter      = errors.New("no chapter in that direction")
)

// Seeker moves the playback position.
type Seeker interface {
	Seek(seconds float64) error
}

// SeekerFunc adapts a function to Seeker.
type SeekerFunc func(seconds float64) error

func (f SeekerFunc) Seek(seconds float64) error {
	return f(seconds)
}

// FillEnds returns a copy of chapters where every unknown end is derived from the next
// chapter's start, or from duration for the last one. Ordering is not validated.
func FillEnds(chapters []Chapter, duration float64) []Chapter {
	filled := make([]Chapter, len(chapters))
	copy(filled, chapters)

	for i := range filled {
		if filled[i].End > filled[i].Start {
			continue
		}

		switch {
		case i+1 < len(filled):
			filled[i].End = filled[i+1].Start
		case duration > 0:
			filled[i].End = duration
		}
	}

	return filled
}

// end returns the effective end of chapter i, treating an unknown end of the last chapter
// as open.
func end(chapters []Chapter, i int) float64 {
	c := chapters[i]
	if c.End > c.Start {
		return c.End
	}
	if i+1 < len(chapters) {
		return chapters[i+1].Start
	}
	return math.Inf(1)
}
