package cmd

import (
	"context"
	"sync"

	"github.com/zantaku/Zantaku-sub000/playback"
)

// relay hands session messages to the front-end without ever blocking the session.
// Messages queue without bound, except that a position update replaces a position update
// still waiting at the tail.
type relay struct {
	mu    sync.Mutex
	queue []playback.Message
	wake  chan struct{}
	out   chan playback.Message
}

func newRelay() *relay {
	return &relay{
		wake: make(chan struct{}, 1),
		out:  make(chan playback.Message),
	}
}

// Notify implements playback.Host.
func (r *relay) Notify(msg playback.Message) {
	r.mu.Lock()
	if _, ok := msg.(playback.PositionChanged); ok && len(r.queue) > 0 {
		if _, last := r.queue[len(r.queue)-1].(playback.PositionChanged); last {
			r.queue[len(r.queue)-1] = msg
			r.mu.Unlock()
			return
		}
	}
	r.queue = append(r.queue, msg)
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Messages is closed once run returns.
func (r *relay) Messages() <-chan playback.Message {
	return r.out
}

// run delivers queued messages in order until ctx is done.
func (r *relay) run(ctx context.Context) {
	defer close(r.out)

	for {
		r.mu.Lock()
		if len(r.queue) == 0 {
			r.mu.Unlock()
			select {
			case <-ctx.Done():
				return
			case <-r.wake:
			}
			continue
		}
		msg := r.queue[0]
		r.queue[0] = nil
		r.queue = r.queue[1:]
		r.mu.Unlock()

		select {
		case r.out <- msg:
		case <-ctx.Done():
			return
		}
	}
}
