package settings

import (
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zantaku/Zantaku-sub000/subtitle"
)

type memBackend struct {
	mu     sync.Mutex
	stored Settings
	writes []Settings
	err    error
}

func (b *memBackend) Load() (Settings, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stored, b.err
}

func (b *memBackend) Save(s Settings) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.stored = s
	b.writes = append(b.writes, s)
	return nil
}

func (b *memBackend) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.writes)
}

type manualTimer struct {
	delays []time.Duration
	fn     func()
	active bool
}

func (m *manualTimer) schedule(d time.Duration, fn func()) func() bool {
	m.delays = append(m.delays, d)
	m.fn = fn
	m.active = true
	return func() bool {
		was := m.active
		m.active = false
		return was
	}
}

func (m *manualTimer) fire() {
	if m.active {
		m.active = false
		m.fn()
	}
}

func TestStore(t *testing.T) {
	Convey("Given a store with a manual timer", t, func() {
		backend := &memBackend{stored: Default()}
		timer := &manualTimer{}
		store := NewStore(backend, 0)
		store.schedule = timer.schedule

		Convey("The debounce defaults to 400ms", func() {
			So(store.debounce, ShouldEqual, 400*time.Millisecond)
		})

		Convey("A timer that fires after a flush does not cut the next window short", func() {
			store.Update(func(s *Settings) { s.PlaybackSpeed = 1.5 })
			stale := timer.fn

			So(store.Flush(), ShouldBeNil)
			So(backend.count(), ShouldEqual, 1)

			store.Update(func(s *Settings) { s.PlaybackSpeed = 2 })
			So(timer.active, ShouldBeTrue)

			stale()
			So(backend.count(), ShouldEqual, 1)
			So(timer.active, ShouldBeTrue)

			timer.fire()
			So(backend.count(), ShouldEqual, 2)
			So(backend.stored.PlaybackSpeed, ShouldEqual, 2)
		})

		Convey("A burst of saves is written once with the latest value", func() {
			for _, speed := range []float64{1.25, 1.5, 2} {
				s := store.Get()
				s.PlaybackSpeed = speed
				store.Save(s)
			}

			So(backend.count(), ShouldEqual, 0)
			So(timer.delays, ShouldResemble, []time.Duration{400 * time.Millisecond})
			So(store.Get().PlaybackSpeed, ShouldEqual, 2)

			timer.fire()
			So(backend.writes, ShouldHaveLength, 1)
			So(backend.writes[0].PlaybackSpeed, ShouldEqual, 2)

			Convey("A later change schedules a new window", func() {
				store.Update(func(s *Settings) { s.SubtitlesEnabled = false })
				So(timer.delays, ShouldHaveLength, 2)
				timer.fire()
				So(backend.writes, ShouldHaveLength, 2)
				So(backend.writes[1].SubtitlesEnabled, ShouldBeFalse)
			})
		})

		Convey("Saving unchanged settings does not write", func() {
			store.Save(store.Get())
			So(timer.delays, ShouldBeEmpty)
			So(store.Flush(), ShouldBeNil)
			So(backend.count(), ShouldEqual, 0)
		})

		Convey("Update normalizes out-of-range values", func() {
			got := store.Update(func(s *Settings) {
				s.PlaybackSpeed = 10
				s.SubtitleOpacity = -1
				s.SelectedSubtitleIndex = -5
			})
			So(got.PlaybackSpeed, ShouldEqual, 4)
			So(got.SubtitleOpacity, ShouldEqual, 0)
			So(got.SelectedSubtitleIndex, ShouldEqual, -1)
		})

		Convey("Close flushes pending changes and ignores later saves", func() {
			store.Update(func(s *Settings) { s.SubtitleSize = 70 })
			So(store.Close(), ShouldBeNil)
			So(timer.active, ShouldBeFalse)
			So(backend.writes, ShouldHaveLength, 1)
			So(backend.writes[0].SubtitleSize, ShouldEqual, 70)

			store.Update(func(s *Settings) { s.SubtitleSize = 80 })
			So(store.Flush(), ShouldBeNil)
			So(backend.count(), ShouldEqual, 1)
		})

		Convey("Load replaces the in-memory settings", func() {
			backend.stored.PlaybackSpeed = 1.75
			got, err := store.Load()
			So(err, ShouldBeNil)
			So(got.PlaybackSpeed, ShouldEqual, 1.75)
			So(store.Get().PlaybackSpeed, ShouldEqual, 1.75)
		})

		Convey("A failing backend keeps defaults and pending changes", func() {
			backend.err = errors.New("read-only")
			_, err := store.Load()
			So(err, ShouldNotBeNil)
			So(store.Get(), ShouldResemble, Default())

			store.Update(func(s *Settings) { s.SubtitlePosition = 90 })
			So(store.Flush(), ShouldNotBeNil)

			backend.err = nil
			So(store.Flush(), ShouldBeNil)
			So(backend.writes[0].SubtitlePosition, ShouldEqual, 90)
		})
	})

	Convey("Given a store with the real timer", t, func() {
		backend := &memBackend{stored: Default()}
		store := NewStore(backend, 20*time.Millisecond)
		store.Update(func(s *Settings) { s.PlaybackSpeed = 1.5 })

		deadline := time.Now().Add(2 * time.Second)
		for backend.count() == 0 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		So(backend.count(), ShouldEqual, 1)
		So(store.Close(), ShouldBeNil)
	})
}

func TestSettings(t *testing.T) {
	Convey("SubtitleTrack", t, func() {
		tracks := []subtitle.Track{{Language: "ja"}, {Language: "en"}, {Language: "de"}}
		s := Default()

		Convey("Without a saved choice the language preference decides", func() {
			So(s.SubtitleTrack(tracks, "en"), ShouldEqual, 1)
		})

		Convey("A saved index in range wins", func() {
			s.SelectedSubtitleIndex = 2
			So(s.SubtitleTrack(tracks, "en"), ShouldEqual, 2)

			s.SelectedSubtitleIndex = 7
			So(s.SubtitleTrack(tracks, "en"), ShouldEqual, 1)
		})

		Convey("Disabled subtitles select nothing", func() {
			s.SubtitlesEnabled = false
			So(s.SubtitleTrack(tracks, "en"), ShouldEqual, -1)
		})

		Convey("No tracks select nothing", func() {
			So(s.SubtitleTrack(nil, "en"), ShouldEqual, -1)
		})
	})

	Convey("Normalize fills a zero speed", t, func() {
		So(Settings{}.Normalize().PlaybackSpeed, ShouldEqual, 1)
	})
}
