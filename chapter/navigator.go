package chapter

import (
	"sort"

	"github.com/samber/mo"
)

// prevRestartThreshold is how far into a chapter Prev restarts it instead of going back.
const prevRestartThreshold = 3.0

// Navigator answers chapter queries over a chapter list assumed to be sorted by start.
type Navigator struct {
	chapters []Chapter
}

// NewNavigator copies chapters.
func NewNavigator(chapters []Chapter) *Navigator {
	owned := make([]Chapter, len(chapters))
	copy(owned, chapters)
	return &Navigator{chapters: owned}
}

func (n *Navigator) Len() int {
	return len(n.chapters)
}

// Chapters returns a copy of the chapter list.
func (n *Navigator) Chapters() []Chapter {
	out := make([]Chapter, len(n.chapters))
	copy(out, n.chapters)
	return out
}

// IndexAt returns the index of the chapter covering t or -1.
// A chapter covers [Start, End); the last chapter also covers its End.
func (n *Navigator) IndexAt(t float64) int {
	i := sort.Search(len(n.chapters), func(i int) bool {
		return n.chapters[i].Start > t
	}) - 1

	if i < 0 {
		return -1
	}

	e := end(n.chapters, i)
	if t < e || (i == len(n.chapters)-1 && t == e) {
		return i
	}

	return -1
}

// Current returns the chapter covering t.
func (n *Navigator) Current(t float64) mo.Option[Chapter] {
	if i := n.IndexAt(t); i >= 0 {
		return mo.Some(n.chapters[i])
	}
	return mo.None[Chapter]()
}

// IndexOf returns the position of the chapter with the given id or -1.
func (n *Navigator) IndexOf(id string) int {
	for i, c := range n.chapters {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Jump seeks to the start of the chapter with the given id.
func (n *Navigator) Jump(seeker Seeker, id string) (Chapter, error) {
	i := n.IndexOf(id)
	if i < 0 {
		return Chapter{}, ErrUnknownChapter
	}

	return n.seek(seeker, i)
}

// Next seeks to the first chapter starting after t.
func (n *Navigator) Next(seeker Seeker, t float64) (Chapter, error) {
	i := sort.Search(len(n.chapters), func(i int) bool {
		return n.chapters[i].Start > t
	})

	if i >= len(n.chapters) {
		return Chapter{}, ErrNoChapter
	}

	return n.seek(seeker, i)
}

// Prev restarts the current chapter, or goes to the previous one when t is within the
// first seconds of the current chapter.
func (n *Navigator) Prev(seeker Seeker, t float64) (Chapter, error) {
	i := sort.Search(len(n.chapters), func(i int) bool {
		return n.chapters[i].Start > t
	}) - 1

	if i < 0 {
		return Chapter{}, ErrNoChapter
	}

	if t-n.chapters[i].Start < prevRestartThreshold && i > 0 {
		i--
	}

	return n.seek(seeker, i)
}

func (n *Navigator) seek(seeker Seeker, i int) (Chapter, error) {
	c := n.chapters[i]
	if err := seeker.Seek(c.Start); err != nil {
		return Chapter{}, err
	}
	return c, nil
}
