package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/zantaku/Zantaku-sub000/color"
	"github.com/zantaku/Zantaku-sub000/internal/ui"
	"github.com/zantaku/Zantaku-sub000/playback"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

// Rows above the seek bar inside the padding: the title line and a blank line.
const barOffset = 2

type playerBubble struct {
	state    state
	keymap   *playerKeymap
	ctl      Controller
	messages <-chan playback.Message

	progressC progress.Model
	helpC     help.Model
	notifier  *ui.Model

	snapshot *playback.Snapshot
	cursor   int
	dragging bool

	width, height int
	exitErr       error
}

func newBubble(options *Options) *playerBubble {
	keymap := newPlayerKeymap()
	bubble := &playerBubble{
		state:     playerState,
		keymap:    keymap,
		ctl:       options.Controller,
		messages:  options.Messages,
		progressC: progress.New(progress.WithSolidFill(string(color.Mauve)), progress.WithoutPercentage()),
		helpC:     help.New(),
		notifier:  &ui.Model{},
	}
	bubble.refresh()
	return bubble
}

func (b *playerBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// refresh reads the latest snapshot; the session publishes a new one on every change.
func (b *playerBubble) refresh() {
	if snap := b.ctl.Snapshot(); snap != nil {
		b.snapshot = snap
	}
	if b.snapshot == nil {
		b.snapshot = &playback.Snapshot{Chapter: -1, Track: -1}
	}
}

func (b *playerBubble) resize(width, height int) {
	x, _ := paddingStyle.GetFrameSize()

	b.width = width
	b.height = height
	b.progressC.Width = max(width-x, 1)
	b.helpC.Width = max(width-x, 1)

	barWidth := float64(b.progressC.Width)
	b.post(func(m *playback.Machine) {
		_ = m.SetScrubWidth(barWidth)
	})
}

// barX converts a terminal column to an offset on the seek bar.
func (b *playerBubble) barX(column int) float64 {
	return float64(column - paddingStyle.GetPaddingLeft())
}

// onBar reports whether a terminal cell lies on the seek bar.
func (b *playerBubble) onBar(column, row int) bool {
	if row != paddingStyle.GetPaddingTop()+barOffset {
		return false
	}
	x := b.barX(column)
	return x >= 0 && x <= float64(b.progressC.Width)
}

// post forwards fn to the session; false means the session has ended.
func (b *playerBubble) post(fn func(m *playback.Machine)) bool {
	return b.ctl.Post(fn)
}
