package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/zantaku/Zantaku-sub000/log"
)

// observed lists the properties mpv reports on the event connection, keyed by observer id.
var observed = []string{
	"time-pos",
	"duration",
	"pause",
	"seeking",
	"eof-reached",
}

// eventListener owns the persistent connection mpv pushes notifications to.
// Observers are registered on that same connection since mpv scopes them per client.
type eventListener struct {
	conn   net.Conn
	out    chan<- Event
	stopCh chan struct{}
	done   chan struct{}
	once   sync.Once
}

func startEventListener(socketPath string, out chan<- Event) (*eventListener, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observed {
		if err := writeCommand(conn, 0, []any{"observe_property", i + 1, name}); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el := &eventListener{
		conn:   conn,
		out:    out,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}

	go el.readLoop()

	log.Infof("mpv event listener started on %s", socketPath)
	return el, nil
}

func (el *eventListener) stop() {
	el.once.Do(func() {
		close(el.stopCh)
		_ = el.conn.Close()
	})
	<-el.done
}

// readLoop forwards events until the connection closes. A connection lost without stop
// means mpv went away, which is reported as EventExit.
func (el *eventListener) readLoop() {
	defer close(el.done)

	scanner := bufio.NewScanner(el.conn)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	for scanner.Scan() {
		event, ok := translateEvent(scanner.Bytes())
		if !ok {
			continue
		}

		if !el.emit(event) {
			return
		}
	}

	select {
	case <-el.stopCh:
	default:
		if err := scanner.Err(); err != nil {
			log.Warnf("event listener read error: %v", err)
		}
		el.emit(Event{Kind: EventExit})
	}
}

func (el *eventListener) emit(event Event) bool {
	select {
	case el.out <- event:
		return true
	case <-el.stopCh:
		return false
	}
}

type rawEvent struct {
	Event     string          `json:"event"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	Reason    string          `json:"reason"`
	FileError string          `json:"file_error"`
}

// translateEvent maps one line of mpv output to an Event.
// Command replies, unobserved properties and unavailable values are dropped.
func translateEvent(line []byte) (Event, bool) {
	var raw rawEvent
	if err := json.Unmarshal(line, &raw); err != nil || raw.Event == "" {
		return Event{}, false
	}

	switch raw.Event {
	case "property-change":
		return translateProperty(raw.Name, raw.Data)
	case "playback-restart":
		return Event{Kind: EventPlaybackRestart}, true
	case "end-file":
		switch raw.Reason {
		case "eof":
			return Event{Kind: EventEOF}, true
		case "error":
			msg := raw.FileError
			if msg == "" {
				msg = "playback failed"
			}
			return Event{Kind: EventError, Message: msg}, true
		case "quit":
			return Event{Kind: EventExit}, true
		}
	case "shutdown":
		return Event{Kind: EventExit}, true
	}

	return Event{}, false
}

func translateProperty(name string, data json.RawMessage) (Event, bool) {
	switch name {
	case "time-pos", "duration":
		var value *float64
		if err := json.Unmarshal(data, &value); err != nil || value == nil {
			return Event{}, false
		}

		kind := EventTimePos
		if name == "duration" {
			kind = EventDuration
		}
		return Event{Kind: kind, Value: *value}, true
	case "pause", "seeking", "eof-reached":
		var flag *bool
		if err := json.Unmarshal(data, &flag); err != nil || flag == nil {
			return Event{}, false
		}

		switch name {
		case "pause":
			return Event{Kind: EventPause, Flag: *flag}, true
		case "seeking":
			return Event{Kind: EventSeeking, Flag: *flag}, true
		default:
			if *flag {
				return Event{Kind: EventEOF}, true
			}
		}
	}

	return Event{}, false
}
