package settings

import (
	"sync"
	"time"

	"github.com/zantaku/Zantaku-sub000/log"
)

// DefaultDebounce is the minimum time between two backend writes.
const DefaultDebounce = 400 * time.Millisecond

type scheduler func(d time.Duration, fn func()) (stop func() bool)

func afterFunc(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

// Store caches the settings in memory and coalesces writes. The latest value always wins;
// a write happens at most once per debounce window, on its trailing edge.
type Store struct {
	backend  Backend
	debounce time.Duration
	schedule scheduler

	mu      sync.Mutex
	current Settings
	dirty   bool
	stop    func() bool
	gen     int
	closed  bool
}

func NewStore(backend Backend, debounce time.Duration) *Store {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Store{
		backend:  backend,
		debounce: debounce,
		schedule: afterFunc,
		current:  Default(),
	}
}

// Load reads the backend. On failure the defaults stay in place and the error is returned.
func (s *Store) Load() (Settings, error) {
	loaded, err := s.backend.Load()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		log.Warnf("settings: %v", err)
		return s.current, err
	}
	s.current = loaded
	return loaded, nil
}

// Get returns the in-memory settings.
func (s *Store) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Save replaces the settings and schedules a write.
func (s *Store) Save(settings Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(settings.Normalize())
}

// Update applies fn to the current settings and schedules a write.
func (s *Store) Update(fn func(*Settings)) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	fn(&next)
	s.set(next.Normalize())
	return s.current
}

func (s *Store) set(settings Settings) {
	if s.closed || (settings == s.current && !s.dirty) {
		s.current = settings
		return
	}

	s.current = settings
	s.dirty = true
	if s.stop == nil {
		s.gen++
		gen := s.gen
		s.stop = s.schedule(s.debounce, func() { s.fire(gen) })
	}
}

// fire runs on the timer goroutine. A timer that was cancelled or replaced while it
// waited for the lock is ignored.
func (s *Store) fire(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.stop == nil {
		return
	}
	s.stop = nil

	if err := s.flush(); err != nil {
		log.Errorf("settings: %v", err)
	}
}

// Flush writes pending changes now.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
	return s.flush()
}

func (s *Store) flush() error {
	if !s.dirty {
		return nil
	}

	if err := s.backend.Save(s.current); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// Close flushes pending changes and ignores later saves.
func (s *Store) Close() error {
	err := s.Flush()

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return err
}
