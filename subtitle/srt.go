package subtitle

import (
	"regexp"
	"strings"
)

// srtMarkup matches HTML-like tags and {\an8}-style positioning overrides.
var srtMarkup = regexp.MustCompile(`</?[a-zA-Z][^>]*>|\{\\[^}]*\}`)

// ParseSRT parses SubRip. The leading sequence number of each block is discarded and may
// be missing altogether.
func ParseSRT(text string) ([]Cue, []*ParseError) {
	c := collector{format: FormatSRT}

	for _, blk := range splitBlocks(normalize(text)) {
		timing := 1
		if strings.Contains(blk.lines[0], "-->") {
			timing = 0
		}

		if timing >= len(blk.lines) {
			c.skip(blk.line, "missing timing line", nil)
			continue
		}

		start, end, err := parseTiming(blk.lines[timing])
		if err != nil {
			c.skip(blk.line+timing, "invalid timing line", err)
			continue
		}

		c.add(blk.line+timing, Cue{
			Start: start,
			End:   end,
			Text:  joinLines(blk.lines[timing+1:], cleanSRTLine),
		})
	}

	return c.result()
}

func cleanSRTLine(line string) string {
	return srtMarkup.ReplaceAllString(line, "")
}
