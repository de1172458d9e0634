package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/zantaku/Zantaku-sub000/log"
)

const streamName = "PROGRESS"

// Event is the payload published for every report.
type Event struct {
	EventID    string  `json:"event_id"`
	MediaID    string  `json:"media_id"`
	Episode    int     `json:"episode"`
	Position   float64 `json:"position"`
	Duration   float64 `json:"duration"`
	ClientTsMs int64   `json:"client_ts_ms"`
	CreatedAt  string  `json:"created_at"`
}

func newEvent(report Report) Event {
	at := report.At
	if at.IsZero() {
		at = time.Now()
	}
	return Event{
		EventID:    uuid.NewString(),
		MediaID:    report.MediaID,
		Episode:    report.Episode,
		Position:   report.CurrentTime,
		Duration:   report.Duration,
		ClientTsMs: at.UnixMilli(),
		CreatedAt:  at.UTC().Format(time.RFC3339),
	}
}

type publisher interface {
	Publish(subject string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// NATSSink publishes reports to a JetStream subject. Without a server URL it is a stub
// that only logs.
type NATSSink struct {
	nc      *nats.Conn
	js      publisher
	subject string
}

// NewNATSSink connects to url and makes sure a stream captures subject.
func NewNATSSink(url, subject string) (*NATSSink, error) {
	if url == "" {
		log.Warn("nats url not set, progress events will not be published")
		return &NATSSink{subject: subject}, nil
	}

	nc, err := nats.Connect(url,
		nats.Name("zantaku"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, err
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:     streamName,
		Subjects: []string{subject},
		Storage:  nats.FileStorage,
		MaxAge:   7 * 24 * time.Hour,
	})
	if err != nil {
		log.Warnf("failed to create nats stream %s (may already exist): %v", streamName, err)
	}

	log.WithFields(map[string]any{"stream": streamName, "subject": subject}).Infof("nats progress publisher initialised")
	return &NATSSink{nc: nc, js: js, subject: subject}, nil
}

func (s *NATSSink) Report(_ context.Context, report Report) error {
	evt := newEvent(report)
	if s.js == nil {
		log.WithFields(map[string]any{"subject": s.subject, "event_id": evt.EventID}).Debugf("nats stub: skipping publish")
		return nil
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	ack, err := s.js.Publish(s.subject, data)
	if err != nil {
		return fmt.Errorf("publish %s: %w", s.subject, err)
	}

	log.WithFields(map[string]any{
		"subject":  s.subject,
		"event_id": evt.EventID,
		"seq":      ack.Sequence,
	}).Debugf("progress event published")
	return nil
}

// Close drains the connection, if any.
func (s *NATSSink) Close() error {
	if s.nc == nil {
		return nil
	}
	return s.nc.Drain()
}
