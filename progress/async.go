package progress

import (
	"context"
	"sync"

	"github.com/zantaku/Zantaku-sub000/log"
)

// Async delivers reports to a slow sink from its own goroutine. When the buffer is full the
// oldest pending report is dropped; a newer position supersedes it anyway.
type Async struct {
	sink   Sink
	queue  chan Report
	done   chan struct{}
	once   sync.Once
	mu     sync.Mutex
	closed bool
}

func NewAsync(sink Sink, buffer int) *Async {
	if buffer < 1 {
		buffer = 1
	}
	a := &Async{
		sink:  sink,
		queue: make(chan Report, buffer),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

// Report enqueues without blocking. It never fails; delivery errors are logged.
func (a *Async) Report(_ context.Context, report Report) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}

	for {
		select {
		case a.queue <- report:
			return nil
		default:
		}

		select {
		case dropped := <-a.queue:
			log.Debugf("progress queue full, dropping report at %.1fs", dropped.CurrentTime)
		default:
		}
	}
}

func (a *Async) run() {
	defer close(a.done)
	for report := range a.queue {
		if err := a.sink.Report(context.Background(), report); err != nil {
			log.WithFields(map[string]any{
				"media_id": report.MediaID,
				"episode":  report.Episode,
			}).Warnf("progress sink: %v", err)
		}
	}
}

// Close stops accepting reports and waits until the queued ones are delivered or ctx ends.
func (a *Async) Close(ctx context.Context) error {
	a.once.Do(func() {
		a.mu.Lock()
		a.closed = true
		close(a.queue)
		a.mu.Unlock()
	})

	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
