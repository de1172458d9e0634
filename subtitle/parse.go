package subtitle

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoCues is returned when a non-empty blob yields no usable cue.
// Callers treat the track as unavailable.
var ErrNoCues = errors.New("no cues")

// ParseError describes a single record that was skipped during parsing.
type ParseError struct {
	Format Format
	Line   int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: line %d: %s: %s", e.Format, e.Line, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: line %d: %s", e.Format, e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Result is the outcome of ParseDetailed.
type Result struct {
	Format  Format
	Cues    []Cue
	Skipped []*ParseError
}

// Parse converts raw subtitle text into a cue list sorted by start time.
// When hint is FormatUnknown the format is sniffed with Detect.
//
// Empty or whitespace-only input yields an empty list. Malformed records are skipped;
// if nothing survives, ErrNoCues is returned.
func Parse(text string, hint Format) ([]Cue, error) {
	res := ParseDetailed(text, hint)
	if len(res.Cues) == 0 {
		if isBlank(text) {
			return []Cue{}, nil
		}
		return nil, fmt.Errorf("%w: %s, %d records skipped", ErrNoCues, res.Format, len(res.Skipped))
	}
	return res.Cues, nil
}

// ParseDetailed is Parse without the ErrNoCues policy, also reporting skipped records.
func ParseDetailed(text string, hint Format) Result {
	text = normalize(text)

	format := hint
	if format == FormatUnknown {
		format = Detect(text)
	}

	var res = Result{Format: format}
	switch format {
	case FormatASS:
		res.Cues, res.Skipped = ParseASS(text)
	case FormatVTT:
		res.Cues, res.Skipped = ParseVTT(text)
	default:
		res.Format = FormatSRT
		res.Cues, res.Skipped = ParseSRT(text)
	}

	return res
}

// normalize strips a byte order mark and converts line endings to '\n'.
func normalize(text string) string {
	text = strings.TrimPrefix(text, "\ufeff")
	if strings.ContainsRune(text, '\r') {
		text = strings.ReplaceAll(text, "\r\n", "\n")
		text = strings.ReplaceAll(text, "\r", "\n")
	}
	return text
}

func isBlank(text string) bool {
	return strings.TrimSpace(normalize(text)) == ""
}

// collector accumulates accepted cues and skipped records for one parser run.
type collector struct {
	format  Format
	cues    []Cue
	skipped []*ParseError
}

func (c *collector) skip(line int, reason string, err error) {
	c.skipped = append(c.skipped, &ParseError{
		Format: c.format,
		Line:   line,
		Reason: reason,
		Err:    err,
	})
}

func (c *collector) add(line int, cue Cue) {
	switch {
	case cue.Text == "":
		c.skip(line, "empty text", nil)
	case cue.End <= cue.Start:
		c.skip(line, "end is not after start", nil)
	default:
		c.cues = append(c.cues, cue)
	}
}

func (c *collector) result() ([]Cue, []*ParseError) {
	sortCues(c.cues)
	return c.cues, c.skipped
}

// sortCues orders cues by start time, keeping source order for equal starts.
func sortCues(cues []Cue) {
	less := func(i, j int) bool {
		return cues[i].Start < cues[j].Start
	}

	if !sort.SliceIsSorted(cues, less) {
		sort.SliceStable(cues, less)
	}
}

// block is a run of non-blank lines. line is the 1-based line number of its first line.
type block struct {
	line  int
	lines []string
}

func splitBlocks(text string) []block {
	var (
		blocks  []block
		current *block
	)

	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if current != nil {
				blocks = append(blocks, *current)
				current = nil
			}
			continue
		}

		if current == nil {
			current = &block{line: i + 1}
		}
		current.lines = append(current.lines, line)
	}

	if current != nil {
		blocks = append(blocks, *current)
	}

	return blocks
}

// joinLines trims every line, drops empty ones and joins the rest with '\n'.
func joinLines(lines []string, clean func(string) string) string {
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if clean != nil {
			line = clean(line)
		}
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
