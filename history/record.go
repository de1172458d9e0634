package history

import (
	"fmt"
	"time"
)

// Record is the persisted watch state of one episode.
type Record struct {
	MediaID           string    `json:"media_id"`
	Episode           int       `json:"episode"`
	Title             string    `json:"title"`
	Position          float64   `json:"position"`
	Duration          float64   `json:"duration"`
	WatchedPercentage float64   `json:"watched_percentage"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func encode(mediaID string, episode int) string {
	return fmt.Sprintf("%s#%d", mediaID, episode)
}

func (r *Record) encode() string {
	return encode(r.MediaID, r.Episode)
}

func (r *Record) String() string {
	title := r.Title
	if title == "" {
		title = r.MediaID
	}
	return fmt.Sprintf("%s : episode %d (%.0f%%)", title, r.Episode, r.WatchedPercentage)
}

// Resumable reports whether the record holds a position worth seeking back to.
func (r *Record) Resumable() bool {
	return r.Position > 0 && (r.Duration <= 0 || r.Position < r.Duration)
}
