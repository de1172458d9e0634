package playback

import "github.com/zantaku/Zantaku-sub000/scrub"

// ScrubBegin starts a drag at x. While the duration is unknown scrubbing is disabled and
// scrub.ErrDurationUnknown is returned.
func (m *Machine) ScrubBegin(x float64) error {
	if !m.state.seekable() {
		return scrub.ErrDurationUnknown
	}

	err := m.scrub.Begin(x)
	m.publish()
	return err
}

func (m *Machine) ScrubMove(x float64) error {
	return m.scrub.Move(x)
}

// ScrubEnd forwards the final seek at x.
func (m *Machine) ScrubEnd(x float64) error {
	err := m.scrub.End(x)
	m.publish()
	return err
}

func (m *Machine) ScrubCancel() {
	m.scrub.Cancel()
	m.publish()
}

// SetScrubWidth sets the width of the seek bar in the host's units.
func (m *Machine) SetScrubWidth(width float64) error {
	return m.scrub.SetWidth(width)
}

// scrubTarget routes the controller to the machine.
type scrubTarget struct {
	m *Machine
}

func (t scrubTarget) Duration() float64 {
	return t.m.pos.Duration
}

// Preview shows the dragged position without touching the engine.
func (t scrubTarget) Preview(seconds float64) {
	t.m.setPosition(seconds)
}

func (t scrubTarget) Seek(seconds float64) error {
	return t.m.Seek(seconds)
}
