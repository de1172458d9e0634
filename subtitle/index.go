package subtitle

import (
	"sort"

	"github.com/samber/mo"
)

// Index answers "which cue is active at time t" over an immutable, start-sorted cue list.
// A nil *Index behaves as an empty one.
type Index struct {
	cues []Cue
}

// NewIndex copies cues, sorting the copy if needed.
func NewIndex(cues []Cue) *Index {
	owned := make([]Cue, len(cues))
	copy(owned, cues)
	sortCues(owned)

	return &Index{cues: owned}
}

// Query returns the cue with the greatest Start <= t, provided t <= End of that cue.
// Runs in O(log n).
func (x *Index) Query(t float64) mo.Option[Cue] {
	if x == nil || len(x.cues) == 0 {
		return mo.None[Cue]()
	}

	// first cue starting after t; its predecessor is the candidate
	i := sort.Search(len(x.cues), func(i int) bool {
		return x.cues[i].Start > t
	}) - 1

	if i < 0 || t > x.cues[i].End {
		return mo.None[Cue]()
	}

	return mo.Some(x.cues[i])
}

// Text is Query reduced to the displayed string, empty when nothing is active.
func (x *Index) Text(t float64) string {
	return x.Query(t).OrEmpty().Text
}

func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.cues)
}

// Cues returns a copy of the indexed cues.
func (x *Index) Cues() []Cue {
	if x == nil {
		return nil
	}

	out := make([]Cue, len(x.cues))
	copy(out, x.cues)
	return out
}
