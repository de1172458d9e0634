package subtitle

import (
	"regexp"
	"strings"
)

var (
	vttTag      = regexp.MustCompile(`<[^>]*>`)
	vttEntities = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&nbsp;", " ",
		"&lrm;", "",
		"&rlm;", "",
	)
)

// ParseVTT parses WebVTT. NOTE, STYLE and REGION blocks are ignored, cue identifiers are
// optional and cue settings after the end timestamp are discarded.
func ParseVTT(text string) ([]Cue, []*ParseError) {
	c := collector{format: FormatVTT}

	for i, blk := range splitBlocks(normalize(text)) {
		first := strings.TrimSpace(blk.lines[0])

		if i == 0 && strings.HasPrefix(first, "WEBVTT") {
			continue
		}

		if isVTTMetaBlock(first) {
			continue
		}

		timing := 0
		if !strings.Contains(blk.lines[0], "-->") {
			if len(blk.lines) < 2 || !strings.Contains(blk.lines[1], "-->") {
				c.skip(blk.line, "missing timing line", nil)
				continue
			}
			timing = 1
		}

		start, end, err := parseTiming(blk.lines[timing])
		if err != nil {
			c.skip(blk.line+timing, "invalid timing line", err)
			continue
		}

		c.add(blk.line+timing, Cue{
			Start: start,
			End:   end,
			Text:  joinLines(blk.lines[timing+1:], cleanVTTLine),
		})
	}

	return c.result()
}

func isVTTMetaBlock(first string) bool {
	for _, kind := range []string{"NOTE", "STYLE", "REGION"} {
		if first == kind || strings.HasPrefix(first, kind+" ") || strings.HasPrefix(first, kind+"\t") {
			return true
		}
	}
	return false
}

func cleanVTTLine(line string) string {
	return vttEntities.Replace(vttTag.ReplaceAllString(line, ""))
}
