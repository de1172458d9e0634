package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/zantaku/Zantaku-sub000/chapter"
	"github.com/zantaku/Zantaku-sub000/internal/ui"
	"github.com/zantaku/Zantaku-sub000/playback"
	"github.com/zantaku/Zantaku-sub000/subtitle"
)

type fakeController struct {
	snapshot *playback.Snapshot
	posts    int
	closed   bool
}

func (c *fakeController) Snapshot() *playback.Snapshot {
	return c.snapshot
}

func (c *fakeController) Post(func(m *playback.Machine)) bool {
	if c.closed {
		return false
	}
	c.posts++
	return true
}

func newTestBubble() (*playerBubble, *fakeController) {
	ctl := &fakeController{snapshot: &playback.Snapshot{
		Title:    "Frieren - 03",
		State:    playback.Playing,
		Position: playback.Position{CurrentTime: 95, Duration: 1440},
		Subtitle: "Hello there",
		Chapters: []chapter.Chapter{
			{ID: "op", Title: "Opening", Start: 0, End: 90, Kind: chapter.KindOpening},
			{ID: "a", Title: "Part A", Start: 90},
		},
		Chapter: 1,
		Tracks:  []subtitle.Track{{ID: "0", Language: "en", Label: "English"}},
		Track:   0,
		Speed:   1,
	}}
	b := newBubble(&Options{Controller: ctl})
	b.resize(80, 24)
	ctl.posts = 0
	return b, ctl
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestKeys(t *testing.T) {
	Convey("Given a player view", t, func() {
		b, ctl := newTestBubble()

		Convey("Playback keys are posted to the session", func() {
			for _, k := range []string{"space", "l", "h", ".", "n", "p", "]", "["} {
				b.handleKey(keyMsg(k))
			}
			So(ctl.posts, ShouldEqual, 8)
		})

		Convey("q quits", func() {
			So(isQuit(b.handleKey(keyMsg("q"))), ShouldBeTrue)
		})

		Convey("The chapter list jumps to the chosen chapter", func() {
			b.handleKey(keyMsg("c"))
			So(b.state, ShouldEqual, chaptersState)
			So(b.cursor, ShouldEqual, 1)

			b.handleKey(keyMsg("k"))
			So(b.cursor, ShouldEqual, 0)
			b.handleKey(keyMsg("k"))
			So(b.cursor, ShouldEqual, 0)

			b.handleKey(keyMsg("enter"))
			So(ctl.posts, ShouldEqual, 1)
			So(b.state, ShouldEqual, playerState)
		})

		Convey("The track list offers an off row", func() {
			b.handleKey(keyMsg("s"))
			So(b.state, ShouldEqual, tracksState)
			So(b.cursor, ShouldEqual, 0)

			b.handleKey(keyMsg("down"))
			b.handleKey(keyMsg("down"))
			So(b.cursor, ShouldEqual, 1)
			So(b.View(), ShouldContainSubstring, "> ")

			b.handleKey(keyMsg("esc"))
			So(b.state, ShouldEqual, playerState)
			So(ctl.posts, ShouldEqual, 0)
		})

		Convey("Repeat toggles with a notification", func() {
			cmd := b.handleKey(keyMsg("r"))
			So(ctl.posts, ShouldEqual, 1)
			So(cmd(), ShouldResemble, ui.NotificationMsg{Text: "Repeat on"})
		})

		Convey("The error view offers a retry", func() {
			b.setState(errorState)
			b.handleKey(keyMsg("r"))
			So(ctl.posts, ShouldEqual, 1)
			So(isQuit(b.handleKey(keyMsg("q"))), ShouldBeTrue)
		})
	})
}

func TestMouse(t *testing.T) {
	Convey("Given a player view", t, func() {
		b, ctl := newTestBubble()
		row := paddingStyle.GetPaddingTop() + barOffset
		left := paddingStyle.GetPaddingLeft()

		press := tea.MouseMsg{X: left + 10, Y: row, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
		motion := tea.MouseMsg{X: left + 20, Y: row + 3, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion}
		release := tea.MouseMsg{X: left + 30, Y: row + 3, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease}

		Convey("A drag on the seek bar scrubs", func() {
			b.handleMouse(press)
			So(b.dragging, ShouldBeTrue)
			b.handleMouse(motion)
			b.handleMouse(release)
			So(b.dragging, ShouldBeFalse)
			So(ctl.posts, ShouldEqual, 3)
		})

		Convey("Presses off the bar are ignored", func() {
			press.Y = row + 1
			b.handleMouse(press)
			b.handleMouse(motion)
			b.handleMouse(release)
			So(b.dragging, ShouldBeFalse)
			So(ctl.posts, ShouldEqual, 0)
		})

		Convey("onBar checks both axes", func() {
			So(b.onBar(left, row), ShouldBeTrue)
			So(b.onBar(left+b.progressC.Width, row), ShouldBeTrue)
			So(b.onBar(left-1, row), ShouldBeFalse)
			So(b.onBar(left+b.progressC.Width+1, row), ShouldBeFalse)
		})
	})
}

func TestMessages(t *testing.T) {
	Convey("Given a player view", t, func() {
		b, ctl := newTestBubble()

		Convey("ExitRequested quits with its error", func() {
			boom := errors.New("retries exhausted")
			So(isQuit(b.handleMessage(playback.ExitRequested{Reason: "error", Err: boom})), ShouldBeTrue)
			So(b.exitErr, ShouldEqual, boom)
		})

		Convey("ErrorOccurred switches to the error view until recovery", func() {
			ctl.snapshot = &playback.Snapshot{State: playback.Error, Err: errors.New("engine crashed"), Chapter: -1, Track: -1}
			b.handleMessage(playback.ErrorOccurred{Err: ctl.snapshot.Err})
			So(b.state, ShouldEqual, errorState)
			So(b.View(), ShouldContainSubstring, "engine crashed")

			b.handleMessage(playback.StateChanged{From: playback.Error, To: playback.Loading})
			So(b.state, ShouldEqual, playerState)
		})

		Convey("Entering an opening is announced", func() {
			cmd := b.handleMessage(playback.ChapterChanged{Index: 0, Chapter: ctl.snapshot.Chapters[0]})
			So(cmd(), ShouldResemble, ui.NotificationMsg{Text: "Opening (press n to skip)"})

			So(b.handleMessage(playback.ChapterChanged{Index: 1, Chapter: ctl.snapshot.Chapters[1]}), ShouldBeNil)
		})

		Convey("Host messages arrive through the channel", func() {
			messages := make(chan playback.Message, 1)
			b.messages = messages
			messages <- playback.SpeedChanged{Speed: 1.5}

			msg := b.waitForMessage()()
			So(msg, ShouldResemble, hostMsg{msg: playback.SpeedChanged{Speed: 1.5}})

			close(messages)
			So(b.waitForMessage()(), ShouldBeNil)
		})
	})
}

func TestView(t *testing.T) {
	Convey("The player view shows title, clock, chapter and subtitle", t, func() {
		b, _ := newTestBubble()
		view := b.View()

		So(view, ShouldContainSubstring, "Frieren - 03")
		So(view, ShouldContainSubstring, "1:35 / 24:00")
		So(view, ShouldContainSubstring, "Part A")
		So(view, ShouldContainSubstring, "Hello there")
	})

	Convey("The clock shows an unknown duration", t, func() {
		b, ctl := newTestBubble()
		ctl.snapshot = &playback.Snapshot{State: playback.Loading, Chapter: -1, Track: -1}
		b.refresh()
		So(b.clock(), ShouldStartWith, "0:00 / --:--")
	})

	Convey("A nil snapshot falls back to an empty one", t, func() {
		b := newBubble(&Options{Controller: &fakeController{}})
		So(b.snapshot, ShouldNotBeNil)
		So(b.snapshot.Chapter, ShouldEqual, -1)
	})
}
