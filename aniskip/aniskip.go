// Package aniskip provides a client for the AniSkip API, turning opening and ending skip
// times into chapters.
package aniskip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/zantaku/Zantaku-sub000/chapter"
	"github.com/zantaku/Zantaku-sub000/log"
	"github.com/zantaku/Zantaku-sub000/network"
)

var baseURL = "https://api.aniskip.com/v1/skip-times"

// SkipTimes holds the opening and ending intervals of an episode.
type SkipTimes struct {
	Opening  Interval `json:"opening"`
	Ending   Interval `json:"ending"`
	HasIntro bool     `json:"has_intro"`
	HasOutro bool     `json:"has_outro"`
}

// Interval is a range in seconds.
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type apiResponse struct {
	Found   bool `json:"found"`
	Results []struct {
		Interval struct {
			StartTime float64 `json:"start_time"`
			EndTime   float64 `json:"end_time"`
		} `json:"interval"`
		SkipType string `json:"skip_type"`
	} `json:"results"`
}

// GetSkipTimes retrieves the skip intervals of an episode.
// Returns nil (not an error) if no skip times are available or the service is unreachable.
func GetSkipTimes(ctx context.Context, malID, episode int) (*SkipTimes, error) {
	url := fmt.Sprintf("%s/%d/%d?types=op&types=ed", baseURL, malID, episode)

	resp, err := network.Get(ctx, nil, url, nil)
	if err != nil {
		log.Warnf("aniskip request failed: %v", err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warnf("aniskip returned status %d", resp.StatusCode)
		return nil, nil
	}

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("parse aniskip response: %w", err)
	}

	if !data.Found || len(data.Results) == 0 {
		return nil, nil
	}

	times := &SkipTimes{}

	for _, result := range data.Results {
		interval := Interval{
			Start: result.Interval.StartTime,
			End:   result.Interval.EndTime,
		}

		switch result.SkipType {
		case "op":
			times.Opening = interval
			times.HasIntro = true
		case "ed":
			times.Ending = interval
			times.HasOutro = true
		}
	}

	return times, nil
}

// Chapters lays the skip intervals out as Part A, Opening, Part B, Ending and Preview.
// Openings and endings carry the matching chapter.Kind so playback can skip them.
func (s *SkipTimes) Chapters(duration float64) []chapter.Chapter {
	if s == nil || (!s.HasIntro && !s.HasOutro) {
		return nil
	}

	var chapters []chapter.Chapter

	if !s.HasIntro || s.Opening.Start > 0 {
		chapters = append(chapters, chapter.Chapter{ID: "part-a", Title: "Part A"})
	}

	if s.HasIntro {
		chapters = append(chapters,
			chapter.Chapter{
				ID:    "opening",
				Title: "Opening",
				Start: s.Opening.Start,
				End:   s.Opening.End,
				Kind:  chapter.KindOpening,
			},
			chapter.Chapter{ID: "part-b", Title: "Part B", Start: s.Opening.End},
		)
	}

	if s.HasOutro {
		chapters = append(chapters, chapter.Chapter{
			ID:    "ending",
			Title: "Ending",
			Start: s.Ending.Start,
			End:   s.Ending.End,
			Kind:  chapter.KindEnding,
		})

		if duration <= 0 || s.Ending.End < duration {
			chapters = append(chapters, chapter.Chapter{ID: "preview", Title: "Preview", Start: s.Ending.End})
		}
	}

	return chapter.FillEnds(chapters, duration)
}
