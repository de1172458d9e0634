package playback

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/zantaku/Zantaku-sub000/log"
)

const inboxSize = 256

var ErrSessionClosed = errors.New("session closed")

// Session runs a Machine on a single goroutine. Engine events, host commands, scrub input,
// subtitle results and timers all pass through one FIFO inbox, so the loop is the only
// writer of machine state.
type Session struct {
	machine *Machine
	inbox   chan func()
	done    chan struct{}
	ctx     context.Context

	once sync.Once
}

// NewSession builds the machine. Nothing runs until Run.
func NewSession(cfg Config, deps Deps) *Session {
	s := &Session{
		inbox: make(chan func(), inboxSize),
		done:  make(chan struct{}),
		ctx:   context.Background(),
	}
	s.machine = NewMachine(cfg, deps, sessionRuntime{s})

	return s
}

// Run starts the machine and processes the inbox until ctx is cancelled.
// The machine is stopped and the engine closed before Run returns.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.ctx = ctx
	defer s.once.Do(func() { close(s.done) })

	engine := s.machine.engine
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-engine.Events():
				s.post(func() { s.machine.HandleEvent(ev) })
			}
		}
	}()

	if err := s.machine.Start(); err != nil {
		return err
	}

	for {
		select {
		case fn := <-s.inbox:
			fn()
		case <-ctx.Done():
			s.machine.Stop()
			if err := engine.Close(); err != nil {
				log.Warnf("close engine: %s", err)
			}
			return ctx.Err()
		}
	}
}

// Snapshot is safe from any goroutine.
func (s *Session) Snapshot() *Snapshot {
	return s.machine.Snapshot()
}

// Post enqueues fn to run on the session goroutine. It returns false once the session ended.
func (s *Session) Post(fn func(m *Machine)) bool {
	return s.post(func() { fn(s.machine) })
}

// Call runs fn on the session goroutine and waits for its result.
// It must not be called from the session goroutine itself, including Host.Notify.
func (s *Session) Call(fn func(m *Machine) error) error {
	result := make(chan error, 1)

	if !s.post(func() { result <- fn(s.machine) }) {
		return ErrSessionClosed
	}

	select {
	case err := <-result:
		return err
	case <-s.done:
		return ErrSessionClosed
	}
}

func (s *Session) post(fn func()) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.inbox <- fn:
		return true
	case <-s.done:
		return false
	}
}

// sessionRuntime schedules machine work through the session inbox.
type sessionRuntime struct {
	s *Session
}

func (r sessionRuntime) Go(work func(ctx context.Context) func()) {
	ctx := r.s.ctx

	go func() {
		if apply := work(ctx); apply != nil {
			r.s.post(apply)
		}
	}()
}

func (r sessionRuntime) After(d time.Duration, fn func()) func() {
	timer := time.AfterFunc(d, func() {
		r.s.post(fn)
	})

	return func() {
		timer.Stop()
	}
}

func (sessionRuntime) Now() time.Time {
	return time.Now()
}
