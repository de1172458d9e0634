package playback

import (
	"context"
	"fmt"

	"github.com/zantaku/Zantaku-sub000/log"
	"github.com/zantaku/Zantaku-sub000/subtitle"
)

// SelectSubtitle switches the active track; -1 disables subtitles.
// Cues of a previously loaded track are reused, otherwise the track is fetched in the
// background and playback continues without subtitles until it arrives.
func (m *Machine) SelectSubtitle(i int) error {
	if i < -1 || i >= len(m.cfg.Tracks) {
		return fmt.Errorf("%w: %d", ErrUnknownTrack, i)
	}

	if i == m.trackIndex {
		return nil
	}

	m.selectTrack(i, true)
	return nil
}

func (m *Machine) selectTrack(i int, selected bool) {
	m.trackIndex = i
	m.trackGen++
	m.index = nil
	m.refreshSubtitle()

	switch {
	case i < 0:
		m.emit(TrackChanged{Index: i, Selected: selected})
	case m.indexes[i] != nil:
		m.useIndex(i, m.indexes[i], selected)
	case m.unavailable[i]:
		m.emit(TrackChanged{Index: i, Available: false, Selected: selected})
	case m.loader == nil:
		m.unavailable[i] = true
		m.emit(TrackChanged{Index: i, Available: false, Selected: selected})
	default:
		m.emit(TrackChanged{Index: i, Available: false, Selected: selected})
		m.fetchTrack(i)
	}
}

// fetchTrack loads track i off the loop. The result is tagged with the selection generation
// so a track deselected in the meantime cannot overwrite the current index.
func (m *Machine) fetchTrack(i int) {
	gen := m.trackGen
	track := m.cfg.Tracks[i]
	loader := m.loader

	m.rt.Go(func(ctx context.Context) func() {
		cues, err := loader.Load(ctx, track)
		return func() {
			m.trackLoaded(gen, i, cues, err)
		}
	})
}

func (m *Machine) trackLoaded(gen, i int, cues []subtitle.Cue, err error) {
	if gen != m.trackGen || i != m.trackIndex {
		log.Debugf("discarding stale subtitle result for track %d", i)
		return
	}

	if err != nil {
		log.Warnf("subtitles unavailable: %s", err)
		m.unavailable[i] = true
		m.emit(TrackChanged{Index: i, Available: false})
		return
	}

	index := subtitle.NewIndex(cues)
	m.indexes[i] = index
	m.useIndex(i, index, false)
}

func (m *Machine) useIndex(i int, index *subtitle.Index, selected bool) {
	m.index = index
	m.emit(TrackChanged{Index: i, Available: true, Selected: selected})
	m.refreshSubtitle()
}
