package playback

import (
	"github.com/zantaku/Zantaku-sub000/chapter"
	"github.com/zantaku/Zantaku-sub000/log"
)

// SetChapters replaces the chapter list, e.g. when skip times arrive after start.
func (m *Machine) SetChapters(chapters []chapter.Chapter) {
	m.setChapters(chapters)

	if m.pos.Duration > 0 && len(m.chapters) > 0 {
		if err := m.engine.SetChapters(m.chapters); err != nil {
			log.Warnf("push chapters: %s", err)
		}
	}

	m.chapterIndex = -1
	m.checkChapter()
	m.publish()
}

func (m *Machine) setChapters(chapters []chapter.Chapter) {
	m.chapters = chapter.FillEnds(chapters, m.pos.Duration)
	m.nav = chapter.NewNavigator(m.chapters)
}

// JumpChapter seeks to the start of the chapter with the given id.
func (m *Machine) JumpChapter(id string) error {
	if !m.state.seekable() {
		return ErrNotReady
	}

	_, err := m.nav.Jump(m, id)
	return err
}

func (m *Machine) NextChapter() error {
	if !m.state.seekable() {
		return ErrNotReady
	}

	_, err := m.nav.Next(m, m.pos.CurrentTime)
	return err
}

func (m *Machine) PrevChapter() error {
	if !m.state.seekable() {
		return ErrNotReady
	}

	_, err := m.nav.Prev(m, m.pos.CurrentTime)
	return err
}

// checkChapter notifies chapter crossings and auto-skips openings and endings entered
// during normal playback. A chapter reached by a seek counts as watched on purpose.
func (m *Machine) checkChapter() {
	i := m.nav.IndexAt(m.pos.CurrentTime)
	seeked := m.seekedInto
	m.seekedInto = false

	if i == m.chapterIndex {
		return
	}

	m.chapterIndex = i

	var current chapter.Chapter
	if i >= 0 {
		current = m.chapters[i]
	}
	m.emit(ChapterChanged{Index: i, Chapter: current})

	if i < 0 || !current.Kind.Skippable() || m.skipped[current.ID] {
		return
	}

	m.skipped[current.ID] = true
	if seeked || !m.cfg.AutoSkip || m.state != Playing {
		return
	}

	log.Infof("skipping %s: %.1fs -> %.1fs", current.Title, m.pos.CurrentTime, current.End)
	if err := m.Seek(current.End); err != nil {
		log.Warnf("auto-skip: %s", err)
	}
}
