// Package tui is the terminal front-end of a playback session: it shows the position,
// subtitles and chapters, and turns keys and mouse drags on the seek bar into commands.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zantaku/Zantaku-sub000/playback"
)

// Controller is the part of playback.Session the view drives.
type Controller interface {
	Snapshot() *playback.Snapshot
	Post(fn func(m *playback.Machine)) bool
}

// Options configures the terminal user interface.
type Options struct {
	Controller Controller
	// Messages receives host notifications; it may be nil.
	Messages <-chan playback.Message
}

// Run blocks until the user quits or the session asks to exit. The returned error is the
// reason of an ExitRequested, if any.
func Run(options *Options) error {
	bubble := newBubble(options)

	model, err := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if err != nil {
		return err
	}
	return model.(*playerBubble).exitErr
}
