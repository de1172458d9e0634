package subtitle

import (
	"regexp"
	"strings"
)

// assDialogue matches the head of an ASS/SSA event record: layer (or Marked=) and start time.
var assDialogue = regexp.MustCompile(`^Dialogue:\s*(?:Marked=)?\d+\s*,\s*\d+:\d{1,2}:\d{1,2}[.:]\d+\s*,`)

// Detect sniffs the grammar of a subtitle blob.
//
// A blob carrying an ASS section header ([Script Info], [V4+ Styles], [V4 Styles]) or any
// Dialogue record is ASS. A blob whose first non-blank content is WEBVTT is WebVTT.
// Everything else is treated as SubRip.
func Detect(text string) Format {
	text = normalize(text)

	for _, marker := range []string{"[Script Info]", "[V4+ Styles]", "[V4 Styles]"} {
		if strings.Contains(text, marker) {
			return FormatASS
		}
	}

	if strings.HasPrefix(strings.TrimLeft(text, " \t\n"), "WEBVTT") {
		return FormatVTT
	}

	for _, line := range strings.Split(text, "\n") {
		if assDialogue.MatchString(strings.TrimSpace(line)) {
			return FormatASS
		}
	}

	return FormatSRT
}
