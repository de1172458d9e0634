package tui

import (
	"fmt"
	"time"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zantaku/Zantaku-sub000/internal/ui"
	"github.com/zantaku/Zantaku-sub000/log"
	"github.com/zantaku/Zantaku-sub000/playback"
	"github.com/zantaku/Zantaku-sub000/util"
)

const (
	refreshInterval = 100 * time.Millisecond
	seekStep        = 5.0
	skipStep        = 85.0
	speedStep       = 0.25
)

type tickMsg time.Time

type hostMsg struct {
	msg playback.Message
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (b *playerBubble) waitForMessage() tea.Cmd {
	if b.messages == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-b.messages
		if !ok {
			return nil
		}
		return hostMsg{msg: msg}
	}
}

func (b *playerBubble) Init() tea.Cmd {
	return tea.Batch(tick(), b.waitForMessage())
}

func (b *playerBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = uiCmd
	}

	switch msg := msg.(type) {
	case tickMsg:
		b.refresh()
		return b, tea.Batch(cmd, tick())
	case hostMsg:
		return b, tea.Batch(cmd, b.handleMessage(msg.msg), b.waitForMessage())
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, cmd
	case tea.MouseMsg:
		return b, tea.Batch(cmd, b.handleMouse(msg))
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
		return b, tea.Batch(cmd, b.handleKey(msg))
	}

	return b, cmd
}

func (b *playerBubble) handleMessage(msg playback.Message) tea.Cmd {
	switch msg := msg.(type) {
	case playback.ExitRequested:
		b.exitErr = msg.Err
		return tea.Quit
	case playback.ErrorOccurred:
		b.refresh()
		b.setState(errorState)
	case playback.StateChanged:
		if b.state == errorState && msg.To != playback.Error {
			b.setState(playerState)
		}
	case playback.ChapterChanged:
		if msg.Index >= 0 && msg.Chapter.Kind.Skippable() {
			return ui.Notify(fmt.Sprintf("%s (press n to skip)", msg.Chapter.Title))
		}
	case playback.SpeedChanged:
		return ui.Notify(fmt.Sprintf("Speed %.2gx", msg.Speed))
	case playback.TrackChanged:
		if msg.Index >= 0 && !msg.Available {
			return ui.Notify("Subtitle track unavailable")
		}
	}
	return nil
}

func (b *playerBubble) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if b.state != playerState {
		return nil
	}

	x := b.barX(msg.X)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !b.onBar(msg.X, msg.Y) {
			return nil
		}
		b.dragging = true
		b.command(func(m *playback.Machine) error { return m.ScrubBegin(x) })
	case tea.MouseActionMotion:
		if b.dragging {
			b.command(func(m *playback.Machine) error { return m.ScrubMove(x) })
		}
	case tea.MouseActionRelease:
		if b.dragging {
			b.dragging = false
			b.command(func(m *playback.Machine) error { return m.ScrubEnd(x) })
		}
	}
	return nil
}

func (b *playerBubble) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch b.state {
	case chaptersState:
		return b.handleListKey(msg, len(b.snapshot.Chapters), func(i int) {
			id := b.snapshot.Chapters[i].ID
			b.command(func(m *playback.Machine) error { return m.JumpChapter(id) })
		})
	case tracksState:
		// the last row turns subtitles off
		return b.handleListKey(msg, len(b.snapshot.Tracks)+1, func(i int) {
			if i == len(b.snapshot.Tracks) {
				i = -1
			}
			b.command(func(m *playback.Machine) error { return m.SelectSubtitle(i) })
		})
	case errorState:
		switch {
		case bubblesKey.Matches(msg, b.keymap.retry):
			b.command(func(m *playback.Machine) error { return m.Retry() })
		case bubblesKey.Matches(msg, b.keymap.quit):
			return tea.Quit
		}
		return nil
	}

	switch {
	case bubblesKey.Matches(msg, b.keymap.quit):
		return tea.Quit
	case bubblesKey.Matches(msg, b.keymap.playPause):
		b.command(func(m *playback.Machine) error { return m.TogglePause() })
	case bubblesKey.Matches(msg, b.keymap.forward):
		b.seekBy(seekStep)
	case bubblesKey.Matches(msg, b.keymap.backward):
		b.seekBy(-seekStep)
	case bubblesKey.Matches(msg, b.keymap.skip):
		b.seekBy(skipStep)
	case bubblesKey.Matches(msg, b.keymap.nextChapter):
		b.command(func(m *playback.Machine) error { return m.NextChapter() })
	case bubblesKey.Matches(msg, b.keymap.prevChapter):
		b.command(func(m *playback.Machine) error { return m.PrevChapter() })
	case bubblesKey.Matches(msg, b.keymap.speedUp):
		b.changeSpeed(speedStep)
	case bubblesKey.Matches(msg, b.keymap.speedDown):
		b.changeSpeed(-speedStep)
	case bubblesKey.Matches(msg, b.keymap.repeat):
		repeat := !b.snapshot.Repeat
		b.post(func(m *playback.Machine) { m.SetRepeat(repeat) })
		if repeat {
			return ui.Notify("Repeat on")
		}
		return ui.Notify("Repeat off")
	case bubblesKey.Matches(msg, b.keymap.chapters):
		if len(b.snapshot.Chapters) == 0 {
			return ui.Notify("No chapters")
		}
		b.cursor = max(b.snapshot.Chapter, 0)
		b.setState(chaptersState)
	case bubblesKey.Matches(msg, b.keymap.tracks):
		b.cursor = b.snapshot.Track
		if b.cursor < 0 {
			b.cursor = len(b.snapshot.Tracks)
		}
		b.setState(tracksState)
	case bubblesKey.Matches(msg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	}
	return nil
}

func (b *playerBubble) handleListKey(msg tea.KeyMsg, n int, choose func(i int)) tea.Cmd {
	switch {
	case bubblesKey.Matches(msg, b.keymap.up):
		b.cursor = util.Clamp(b.cursor-1, 0, max(n-1, 0))
	case bubblesKey.Matches(msg, b.keymap.down):
		b.cursor = util.Clamp(b.cursor+1, 0, max(n-1, 0))
	case bubblesKey.Matches(msg, b.keymap.confirm):
		if b.cursor >= 0 && b.cursor < n {
			choose(b.cursor)
		}
		b.setState(playerState)
	case bubblesKey.Matches(msg, b.keymap.back), bubblesKey.Matches(msg, b.keymap.quit):
		b.setState(playerState)
	}
	return nil
}

func (b *playerBubble) seekBy(delta float64) {
	b.command(func(m *playback.Machine) error {
		return m.Seek(m.Snapshot().Position.CurrentTime + delta)
	})
}

func (b *playerBubble) changeSpeed(delta float64) {
	b.command(func(m *playback.Machine) error {
		return m.SetSpeed(m.Snapshot().Speed + delta)
	})
}

// command runs fn on the session and logs a rejected command.
func (b *playerBubble) command(fn func(m *playback.Machine) error) {
	b.post(func(m *playback.Machine) {
		if err := fn(m); err != nil {
			log.Debugf("tui: command rejected: %s", err)
		}
	})
}
