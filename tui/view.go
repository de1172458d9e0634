package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"github.com/zantaku/Zantaku-sub000/icon"
	"github.com/zantaku/Zantaku-sub000/playback"
	"github.com/zantaku/Zantaku-sub000/style"
	"github.com/zantaku/Zantaku-sub000/subtitle"
	"github.com/zantaku/Zantaku-sub000/util"
)

func (b *playerBubble) View() string {
	var output string

	switch b.state {
	case playerState:
		output = b.viewPlayer()
	case chaptersState:
		output = b.viewChapters()
	case tracksState:
		output = b.viewTracks()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *playerBubble) viewPlayer() string {
	snap := b.snapshot
	width := b.progressC.Width

	lines := []string{
		b.header(),
		"",
		b.progressC.ViewAs(util.Clamp(snap.Position.Fraction(), 0, 1)),
		b.clock(),
		"",
	}

	if snap.Subtitle != "" {
		wrapped := wordwrap.String(snap.Subtitle, width)
		for _, line := range strings.Split(wrapped, "\n") {
			lines = append(lines, style.Subtitle(width)(line))
		}
	}

	return b.renderLines(true, lines)
}

func (b *playerBubble) header() string {
	snap := b.snapshot

	var status string
	switch snap.State {
	case playback.Playing:
		status = icon.Get(icon.Play)
	case playback.Paused:
		status = icon.Get(icon.Pause)
	case playback.Loading, playback.Seeking, playback.Idle:
		status = icon.Get(icon.Loading)
	case playback.Ended:
		status = icon.Get(icon.Ended)
	case playback.Error:
		status = icon.Get(icon.Fail)
	default:
		status = icon.Get(icon.Success)
	}

	title := snap.Title
	if title == "" {
		title = "Now Playing"
	}

	parts := []string{style.Title(title), status}
	if snap.Speed != 0 && snap.Speed != 1 {
		parts = append(parts, style.Faint(fmt.Sprintf("%.2gx", snap.Speed)))
	}
	if snap.Repeat {
		parts = append(parts, style.Faint("repeat"))
	}

	return strings.Join(parts, " ")
}

func (b *playerBubble) clock() string {
	snap := b.snapshot

	duration := "--:--"
	if snap.Position.Duration > 0 {
		duration = util.Clock(snap.Position.Duration)
	}
	clock := util.Clock(snap.Position.CurrentTime) + " / " + duration

	if title := chapterTitle(snap); title != "" {
		clock += "  " + icon.Get(icon.Chapter) + " " + style.Chapter(true)(title)
	}
	if snap.Scrubbing {
		clock += "  " + style.Faint("seeking")
	}
	return clock
}

func (b *playerBubble) viewChapters() string {
	snap := b.snapshot

	lines := []string{style.Title("Chapters"), ""}
	for i, c := range snap.Chapters {
		title := c.Title
		if title == "" {
			title = fmt.Sprintf("Chapter %d", i+1)
		}
		row := fmt.Sprintf("%s  %s", util.Clock(c.Start), title)
		lines = append(lines, b.cursorRow(i, style.Chapter(i == snap.Chapter)(row)))
	}

	return b.renderLines(true, lines)
}

func (b *playerBubble) viewTracks() string {
	snap := b.snapshot

	lines := []string{style.Title("Subtitles"), ""}
	for i, track := range snap.Tracks {
		lines = append(lines, b.cursorRow(i, style.Chapter(i == snap.Track)(trackRow(track))))
	}
	lines = append(lines, b.cursorRow(len(snap.Tracks), style.Chapter(snap.Track < 0)("Off")))

	return b.renderLines(true, lines)
}

func trackRow(track subtitle.Track) string {
	name := track.Name()
	if track.Language != "" && track.Language != name {
		name += " (" + track.Language + ")"
	}
	return name
}

func (b *playerBubble) cursorRow(i int, row string) string {
	if i == b.cursor {
		return "> " + row
	}
	return "  " + row
}

func (b *playerBubble) viewError() string {
	reason := "unknown error"
	if b.snapshot.Err != nil {
		reason = b.snapshot.Err.Error()
	}

	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " Playback failed:",
			"",
			wrap.String(reason, max(b.progressC.Width, 1)),
		},
	)
}

func (b *playerBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h+3 {
			l += strings.Repeat("\n", b.height-h-3)
		}
		l += "\n" + b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}

// chapterTitle names the current chapter, empty outside any chapter.
func chapterTitle(snap *playback.Snapshot) string {
	c, ok := snap.CurrentChapter()
	if !ok {
		return ""
	}
	if c.Title != "" {
		return c.Title
	}
	return fmt.Sprintf("Chapter %d", snap.Chapter+1)
}
