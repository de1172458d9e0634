// Package playback owns the play/pause/seek/error lifecycle of one media session and drives
// subtitle lookup, chapter tracking, scrubbing and progress reporting from engine events.
package playback

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/samber/mo"
	"github.com/zantaku/Zantaku-sub000/chapter"
	"github.com/zantaku/Zantaku-sub000/log"
	"github.com/zantaku/Zantaku-sub000/player"
	"github.com/zantaku/Zantaku-sub000/scrub"
	"github.com/zantaku/Zantaku-sub000/subtitle"
	"github.com/zantaku/Zantaku-sub000/util"
)

const (
	// endTolerance is how close to the duration a position counts as the end of media.
	endTolerance = 0.25

	// seekTolerance is how close to the seek target a position completes the seek.
	seekTolerance = 0.5

	DefaultLoadTimeout = 30 * time.Second

	minSpeed = 0.25
	maxSpeed = 4.0
)

// Config describes one session. Tracks and Chapters come from the media resolver.
type Config struct {
	Source   player.MediaSource
	Title    string
	Tracks   []subtitle.Track
	Chapters []chapter.Chapter

	// SubtitleIndex selects the initial track, -1 for none.
	SubtitleIndex int

	Speed         float64
	Repeat        bool
	AutoSkip      bool
	ResumeAt      float64
	LoadTimeout   time.Duration
	MaxRetries    int
	ScrubThrottle time.Duration
	ScrubWidth    float64
}

// SubtitleLoader fetches and parses a track. It runs off the session goroutine.
type SubtitleLoader interface {
	Load(ctx context.Context, track subtitle.Track) ([]subtitle.Cue, error)
}

// ProgressObserver taps position updates.
type ProgressObserver interface {
	Observe(current, duration float64) bool
	Flush(current, duration float64) bool
}

// Runtime schedules work for the machine. Go runs work elsewhere and applies the returned
// function on the machine's goroutine; After does the same for fn after d.
type Runtime interface {
	Go(work func(ctx context.Context) func())
	After(d time.Duration, fn func()) (cancel func())
	Now() time.Time
}

// Deps are the collaborators of a Machine. Only Engine is required.
type Deps struct {
	Engine   player.Engine
	Loader   SubtitleLoader
	Progress ProgressObserver
	Host     Host
}

// Machine is the playback state machine. It is not safe for concurrent use; Session
// serializes every input through one goroutine. Snapshot may be called from anywhere.
type Machine struct {
	cfg      Config
	engine   player.Engine
	loader   SubtitleLoader
	progress ProgressObserver
	host     Host
	rt       Runtime

	state        State
	intent       State
	enginePaused mo.Option[bool]
	pos          Position
	seekTarget   float64
	err          error
	retries      int
	loadAttempt  int
	cancelLoad   func()
	speed        float64
	repeat       bool
	resumed      bool

	trackIndex  int
	trackGen    int
	index       *subtitle.Index
	indexes     map[int]*subtitle.Index
	unavailable map[int]bool
	subText     string

	chapters     []chapter.Chapter
	nav          *chapter.Navigator
	chapterIndex int
	skipped      map[string]bool
	seekedInto   bool

	scrub    *scrub.Controller
	snapshot atomic.Pointer[Snapshot]
}

func NewMachine(cfg Config, deps Deps, rt Runtime) *Machine {
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = DefaultLoadTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Speed <= 0 {
		cfg.Speed = 1
	}
	if cfg.ScrubThrottle == 0 {
		cfg.ScrubThrottle = scrub.DefaultThrottle
	}
	if deps.Host == nil {
		deps.Host = nopHost{}
	}

	m := &Machine{
		cfg:          cfg,
		engine:       deps.Engine,
		loader:       deps.Loader,
		progress:     deps.Progress,
		host:         deps.Host,
		rt:           rt,
		state:        Idle,
		intent:       Playing,
		speed:        util.Clamp(cfg.Speed, minSpeed, maxSpeed),
		repeat:       cfg.Repeat,
		trackIndex:   -1,
		indexes:      make(map[int]*subtitle.Index),
		unavailable:  make(map[int]bool),
		chapterIndex: -1,
		skipped:      make(map[string]bool),
	}

	m.setChapters(cfg.Chapters)
	m.scrub = scrub.New(scrubTarget{m}, cfg.ScrubWidth,
		scrub.WithThrottle(cfg.ScrubThrottle),
		scrub.WithClock(rt.Now),
	)
	m.publish()

	return m
}

// Snapshot returns the last published state.
func (m *Machine) Snapshot() *Snapshot {
	return m.snapshot.Load()
}

func (m *Machine) State() State {
	return m.state
}

// Start moves Idle to Loading, asks the engine to load the source and starts fetching the
// initial subtitle track without waiting for it.
func (m *Machine) Start() error {
	if m.state != Idle {
		return fmt.Errorf("%w: start from %s", ErrInvalidState, m.state)
	}

	if i := m.cfg.SubtitleIndex; i >= 0 && i < len(m.cfg.Tracks) {
		m.selectTrack(i, false)
	}

	m.load()
	return nil
}

// Retry reloads the same source after a fatal error. Past max retries the host is asked to exit.
func (m *Machine) Retry() error {
	if m.state != Error {
		return fmt.Errorf("%w: retry from %s", ErrInvalidState, m.state)
	}

	if m.retries >= m.cfg.MaxRetries {
		m.emit(ExitRequested{Reason: "retries exhausted", Err: m.err})
		return ErrRetriesExhausted
	}

	m.retries++
	log.Infof("retrying playback, attempt %d of %d", m.retries, m.cfg.MaxRetries)
	m.load()
	return nil
}

func (m *Machine) load() {
	m.err = nil
	m.enginePaused = mo.None[bool]()
	m.pos = Position{}
	m.transition(Loading)

	m.loadAttempt++
	attempt := m.loadAttempt

	if err := m.engine.Load(m.cfg.Source, m.cfg.Title); err != nil {
		m.fail(&SourceResolutionError{Err: err})
		return
	}

	m.cancelLoad = m.rt.After(m.cfg.LoadTimeout, func() {
		m.loadTimedOut(attempt)
	})
}

func (m *Machine) loadTimedOut(attempt int) {
	if attempt != m.loadAttempt || m.state != Loading {
		return
	}

	log.Warnf("media did not become ready within %s", m.cfg.LoadTimeout)
	m.fail(&SourceResolutionError{Err: ErrLoadTimeout})
}

func (m *Machine) stopLoadTimer() {
	if m.cancelLoad != nil {
		m.cancelLoad()
		m.cancelLoad = nil
	}
}

func (m *Machine) fail(err error) {
	m.stopLoadTimer()
	m.scrub.Cancel()
	m.err = err

	log.Errorf("playback failed: %s", err)
	m.transition(Error)
	m.emit(ErrorOccurred{Err: err})
}

// HandleEvent applies one engine notification.
func (m *Machine) HandleEvent(ev player.Event) {
	switch ev.Kind {
	case player.EventDuration:
		m.onDuration(ev.Value)
	case player.EventTimePos:
		m.onPosition(ev.Value)
	case player.EventPause:
		m.onPause(ev.Flag)
	case player.EventSeeking:
		if ev.Flag {
			m.onEngineSeek()
		} else if m.state == Seeking {
			m.finishSeek()
		}
	case player.EventPlaybackRestart:
		if m.state == Seeking {
			m.finishSeek()
		}
	case player.EventEOF:
		if m.state != Ended && m.state.seekable() {
			m.reachEnd()
		}
	case player.EventError:
		if m.state != Error {
			m.fail(&EngineError{Message: ev.Message})
		}
	case player.EventExit:
		m.emit(ExitRequested{Reason: "player exited"})
	}
}

func (m *Machine) onDuration(duration float64) {
	if duration <= 0 {
		return
	}

	m.pos.Duration = duration
	if m.state == Loading {
		m.becomeReady()
		return
	}

	m.setChapters(m.chapters)
	m.emit(PositionChanged{Position: m.pos})
}

func (m *Machine) becomeReady() {
	m.stopLoadTimer()
	m.retries = 0
	m.transition(Ready)

	m.setChapters(m.chapters)
	if len(m.chapters) > 0 {
		if err := m.engine.SetChapters(m.chapters); err != nil {
			log.Warnf("push chapters: %s", err)
		}
	}

	if m.speed != 1 {
		if err := m.engine.SetSpeed(m.speed); err != nil {
			log.Warnf("apply speed: %s", err)
		}
	}

	if paused, ok := m.enginePaused.Get(); ok {
		m.transition(intentOf(paused))
	}

	if !m.resumed && m.cfg.ResumeAt > 0 && m.cfg.ResumeAt < m.pos.Duration-endTolerance {
		m.resumed = true
		log.Infof("resuming at %.1fs", m.cfg.ResumeAt)
		if err := m.Seek(m.cfg.ResumeAt); err != nil {
			log.Warnf("resume: %s", err)
		}
	}
}

func intentOf(paused bool) State {
	if paused {
		return Paused
	}
	return Playing
}

func (m *Machine) onPause(paused bool) {
	m.enginePaused = mo.Some(paused)

	switch m.state {
	case Ready, Playing, Paused:
		m.transition(intentOf(paused))
	case Seeking:
		m.intent = intentOf(paused)
	}
}

// onEngineSeek handles seeks the engine started on its own, e.g. from its own key bindings.
func (m *Machine) onEngineSeek() {
	switch m.state {
	case Ready, Playing, Paused:
		m.intent = m.state
		m.seekTarget = math.NaN()
		m.seekedInto = true
		m.transition(Seeking)
	}
}

func (m *Machine) finishSeek() {
	m.transition(m.intent)
}

func (m *Machine) onPosition(t float64) {
	switch m.state {
	case Idle, Loading, Error:
		return
	}

	// the drag owns the displayed position
	if m.scrub.Active() {
		return
	}

	if m.state == Seeking {
		if math.IsNaN(m.seekTarget) || math.Abs(t-m.seekTarget) > seekTolerance {
			return
		}
		m.finishSeek()
	}

	m.setPosition(t)

	if m.progress != nil && m.pos.Duration > 0 {
		m.progress.Observe(m.pos.CurrentTime, m.pos.Duration)
	}

	m.checkChapter()

	if (m.state == Playing || m.state == Ready) && m.pos.Duration > 0 && t >= m.pos.Duration-endTolerance {
		m.reachEnd()
	}
}

// setPosition publishes a new position and refreshes the active subtitle.
func (m *Machine) setPosition(t float64) {
	m.pos.CurrentTime = t
	m.emit(PositionChanged{Position: m.pos})
	m.refreshSubtitle()
}

func (m *Machine) refreshSubtitle() {
	text := m.index.Text(m.pos.CurrentTime)
	if text == m.subText {
		return
	}

	m.subText = text
	m.emit(SubtitleChanged{Text: text})
}

func (m *Machine) reachEnd() {
	if m.repeat {
		log.Infof("repeat: restarting from the beginning")
		if err := m.Seek(0); err != nil {
			log.Warnf("repeat: %s", err)
			return
		}
		m.intent = Playing
		if err := m.engine.SetPaused(false); err != nil {
			log.Warnf("repeat: %s", err)
		}
		return
	}

	if m.progress != nil {
		m.progress.Flush(m.pos.CurrentTime, m.pos.Duration)
	}

	m.transition(Ended)
}

// Seek moves to t, clamped to [0, duration]. The position is updated optimistically and
// the machine stays in Seeking until the engine confirms. A new seek supersedes the last.
func (m *Machine) Seek(t float64) error {
	if !m.state.seekable() {
		return ErrNotReady
	}

	t = util.Clamp(t, 0, m.pos.Duration)

	switch m.state {
	case Seeking:
	case Ended:
		m.intent = Paused
	default:
		m.intent = m.state
	}

	m.seekTarget = t
	m.seekedInto = true
	m.transition(Seeking)
	m.setPosition(t)

	if err := m.engine.Seek(t); err != nil {
		m.transition(m.intent)
		return fmt.Errorf("seek: %w", err)
	}

	return nil
}

// Play resumes playback. From Ended it restarts at the beginning.
func (m *Machine) Play() error {
	return m.setPaused(false)
}

func (m *Machine) Pause() error {
	return m.setPaused(true)
}

func (m *Machine) TogglePause() error {
	switch m.state {
	case Playing:
		return m.Pause()
	case Seeking:
		return m.setPaused(m.intent == Playing)
	default:
		return m.Play()
	}
}

func (m *Machine) setPaused(paused bool) error {
	switch m.state {
	case Ready, Playing, Paused:
	case Seeking:
		m.intent = intentOf(paused)
	case Ended:
		if paused {
			return nil
		}
		if err := m.Seek(0); err != nil {
			return err
		}
		m.intent = Playing
	default:
		return ErrNotReady
	}

	if err := m.engine.SetPaused(paused); err != nil {
		return fmt.Errorf("set paused: %w", err)
	}

	if m.state != Seeking {
		m.transition(intentOf(paused))
	}

	return nil
}

// SetSpeed changes the playback rate, clamped to [0.25, 4].
func (m *Machine) SetSpeed(speed float64) error {
	speed = util.Clamp(speed, minSpeed, maxSpeed)
	if speed == m.speed {
		return nil
	}

	if m.state.seekable() {
		if err := m.engine.SetSpeed(speed); err != nil {
			return fmt.Errorf("set speed: %w", err)
		}
	}

	m.speed = speed
	m.emit(SpeedChanged{Speed: speed})
	return nil
}

func (m *Machine) SetRepeat(repeat bool) {
	m.repeat = repeat
	m.publish()
}

// Stop flushes progress and leaves the machine idle.
func (m *Machine) Stop() {
	m.stopLoadTimer()
	m.scrub.Cancel()

	if m.progress != nil && m.pos.Duration > 0 {
		m.progress.Flush(m.pos.CurrentTime, m.pos.Duration)
	}

	m.transition(Idle)
}

func (m *Machine) transition(to State) {
	if m.state == to {
		return
	}

	from := m.state
	m.state = to

	log.WithFields(map[string]any{"from": from.String(), "to": to.String()}).Debugf("playback state changed")
	m.emit(StateChanged{From: from, To: to})
}

// emit publishes a fresh snapshot before notifying the host, so Notify observes it.
func (m *Machine) emit(msg Message) {
	m.publish()
	m.host.Notify(msg)
}

func (m *Machine) publish() {
	m.snapshot.Store(&Snapshot{
		Title:     m.cfg.Title,
		State:     m.state,
		Position:  m.pos,
		Subtitle:  m.subText,
		Chapters:  m.chapters,
		Chapter:   m.chapterIndex,
		Tracks:    m.cfg.Tracks,
		Track:     m.trackIndex,
		Speed:     m.speed,
		Repeat:    m.repeat,
		Scrubbing: m.scrub != nil && m.scrub.Active(),
		Err:       m.err,
	})
}
