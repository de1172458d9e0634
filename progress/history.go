package progress

import (
	"context"

	"github.com/zantaku/Zantaku-sub000/history"
)

// HistorySink stores reports in the local watch history.
type HistorySink struct{}

func (HistorySink) Report(_ context.Context, report Report) error {
	return history.Save(history.Record{
		MediaID:   report.MediaID,
		Episode:   report.Episode,
		Title:     report.Title,
		Position:  report.CurrentTime,
		Duration:  report.Duration,
		UpdatedAt: report.At,
	})
}
