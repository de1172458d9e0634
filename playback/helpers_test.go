package playback

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/zantaku/Zantaku-sub000/chapter"
	"github.com/zantaku/Zantaku-sub000/player"
	"github.com/zantaku/Zantaku-sub000/subtitle"
)

type fakeEngine struct {
	mu       sync.Mutex
	loads    int
	loadErr  error
	seekErr  error
	seeks    []float64
	paused   []bool
	speeds   []float64
	chapters [][]chapter.Chapter
	closed   bool
	events   chan player.Event
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{events: make(chan player.Event, 16)}
}

func (f *fakeEngine) Load(player.MediaSource, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	return f.loadErr
}

func (f *fakeEngine) Seek(seconds float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seekErr != nil {
		return f.seekErr
	}
	f.seeks = append(f.seeks, seconds)
	return nil
}

func (f *fakeEngine) SetPaused(paused bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paused = append(f.paused, paused)
	return nil
}

func (f *fakeEngine) SetSpeed(speed float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.speeds = append(f.speeds, speed)
	return nil
}

func (f *fakeEngine) SetChapters(chapters []chapter.Chapter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chapters = append(f.chapters, chapters)
	return nil
}

func (f *fakeEngine) Events() <-chan player.Event {
	return f.events
}

func (f *fakeEngine) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeEngine) seekCalls() []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]float64(nil), f.seeks...)
}

type fakeLoader struct {
	cues  map[string][]subtitle.Cue
	calls map[string]int
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		cues:  make(map[string][]subtitle.Cue),
		calls: make(map[string]int),
	}
}

func (l *fakeLoader) Load(_ context.Context, track subtitle.Track) ([]subtitle.Cue, error) {
	l.calls[track.URL]++
	cues, ok := l.cues[track.URL]
	if !ok {
		return nil, &subtitle.FetchError{Track: track, Err: errors.New("404")}
	}
	return cues, nil
}

type fakeProgress struct {
	observed [][2]float64
	flushed  [][2]float64
}

func (p *fakeProgress) Observe(current, duration float64) bool {
	p.observed = append(p.observed, [2]float64{current, duration})
	return true
}

func (p *fakeProgress) Flush(current, duration float64) bool {
	p.flushed = append(p.flushed, [2]float64{current, duration})
	return true
}

type testTimer struct {
	fn      func()
	stopped bool
}

// testRuntime runs background work synchronously but defers applying its result until
// flush, so tests control the interleaving.
type testRuntime struct {
	now     time.Time
	pending []func()
	timers  []*testTimer
}

func (r *testRuntime) Go(work func(ctx context.Context) func()) {
	r.pending = append(r.pending, work(context.Background()))
}

func (r *testRuntime) After(_ time.Duration, fn func()) func() {
	t := &testTimer{fn: fn}
	r.timers = append(r.timers, t)
	return func() { t.stopped = true }
}

func (r *testRuntime) Now() time.Time {
	return r.now
}

func (r *testRuntime) flush() {
	pending := r.pending
	r.pending = nil
	for _, apply := range pending {
		if apply != nil {
			apply()
		}
	}
}

func (r *testRuntime) fireTimers() {
	timers := r.timers
	r.timers = nil
	for _, t := range timers {
		if !t.stopped {
			t.stopped = true
			t.fn()
		}
	}
}

type recorder struct {
	messages []Message
}

func (r *recorder) Notify(msg Message) {
	r.messages = append(r.messages, msg)
}

func (r *recorder) subtitles() []string {
	var out []string
	for _, msg := range r.messages {
		if s, ok := msg.(SubtitleChanged); ok {
			out = append(out, s.Text)
		}
	}
	return out
}

func (r *recorder) states() []State {
	var out []State
	for _, msg := range r.messages {
		if s, ok := msg.(StateChanged); ok {
			out = append(out, s.To)
		}
	}
	return out
}

func (r *recorder) tracks() []TrackChanged {
	var out []TrackChanged
	for _, msg := range r.messages {
		if t, ok := msg.(TrackChanged); ok {
			out = append(out, t)
		}
	}
	return out
}

func (r *recorder) has(match func(Message) bool) bool {
	for _, msg := range r.messages {
		if match(msg) {
			return true
		}
	}
	return false
}

type harness struct {
	m        *Machine
	engine   *fakeEngine
	loader   *fakeLoader
	progress *fakeProgress
	host     *recorder
	rt       *testRuntime
}

func newHarness(cfg Config) *harness {
	h := &harness{
		engine:   newFakeEngine(),
		loader:   newFakeLoader(),
		progress: &fakeProgress{},
		host:     &recorder{},
		rt:       &testRuntime{now: time.Unix(1_700_000_000, 0)},
	}

	h.m = NewMachine(cfg, Deps{
		Engine:   h.engine,
		Loader:   h.loader,
		Progress: h.progress,
		Host:     h.host,
	}, h.rt)

	return h
}

func (h *harness) event(kind player.EventKind, value float64) {
	h.m.HandleEvent(player.Event{Kind: kind, Value: value})
}

func (h *harness) flag(kind player.EventKind, flag bool) {
	h.m.HandleEvent(player.Event{Kind: kind, Flag: flag})
}

// play starts the machine and drives it to Playing with the given duration.
func (h *harness) play(duration float64) {
	if err := h.m.Start(); err != nil {
		panic(err)
	}
	h.rt.flush()
	h.event(player.EventDuration, duration)
	h.flag(player.EventPause, false)
}
