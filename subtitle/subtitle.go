// Package subtitle normalizes ASS/SSA, WebVTT and SubRip subtitle text into one canonical,
// time-sorted cue list and indexes it for active-cue lookups during playback.
//
// All three grammars are treated as untrusted input: a malformed record is skipped and
// reported, never fatal for the rest of the blob.
package subtitle

import (
	"fmt"
	"strings"
)

// Cue is a single subtitle entry. Start and End are seconds from the beginning of the media.
type Cue struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Contains reports whether t falls inside the closed interval [Start, End].
func (c Cue) Contains(t float64) bool {
	return t >= c.Start && t <= c.End
}

// Format identifies one of the supported subtitle grammars.
type Format string

const (
	FormatUnknown Format = ""
	FormatASS     Format = "ass"
	FormatVTT     Format = "vtt"
	FormatSRT     Format = "srt"
)

// ParseFormat maps a format name or file extension to a Format.
// An empty string yields FormatUnknown, which lets Parse sniff the content.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "":
		return FormatUnknown, nil
	case "ass", "ssa":
		return FormatASS, nil
	case "vtt", "webvtt":
		return FormatVTT, nil
	case "srt", "subrip":
		return FormatSRT, nil
	default:
		return FormatUnknown, fmt.Errorf("unknown subtitle format: %s", s)
	}
}

func (f Format) String() string {
	if f == FormatUnknown {
		return "unknown"
	}
	return string(f)
}

// Track describes one selectable subtitle track as supplied by the media resolver.
type Track struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Label    string `json:"label"`
	Format   Format `json:"format"`
	URL      string `json:"url"`
}

// Name returns the label, falling back to the language tag.
func (t Track) Name() string {
	if t.Label != "" {
		return t.Label
	}
	if t.Language != "" {
		return t.Language
	}
	return t.ID
}
