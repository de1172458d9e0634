package subtitle

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// defaultASSFields is the [Events] layout used when no Format line precedes the dialogue.
var defaultASSFields = []string{
	"layer", "start", "end", "style", "name",
	"marginl", "marginr", "marginv", "effect", "text",
}

var assEscapes = strings.NewReplacer(`\N`, "\n", `\n`, "\n", `\h`, " ")

// ParseASS parses Advanced SubStation Alpha (and SSA) scripts.
// Only Dialogue lines produce cues; the layout is taken from the [Events] Format line.
func ParseASS(text string) ([]Cue, []*ParseError) {
	var (
		c       = collector{format: FormatASS}
		fields  = defaultASSFields
		section string
	)

	for i, raw := range strings.Split(normalize(text), "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)

		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(line)
			continue
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		switch strings.TrimSpace(name) {
		case "Format":
			if section != "[events]" {
				continue
			}
			if layout, err := parseASSLayout(value); err != nil {
				c.skip(lineNo, "invalid format line", err)
			} else {
				fields = layout
			}
		case "Dialogue":
			cue, err := parseDialogue(value, fields)
			if err != nil {
				c.skip(lineNo, "invalid dialogue", err)
				continue
			}
			c.add(lineNo, cue)
		}
	}

	return c.result()
}

func parseASSLayout(value string) ([]string, error) {
	fields := lo.Map(strings.Split(value, ","), func(f string, _ int) string {
		return strings.ToLower(strings.TrimSpace(f))
	})

	for _, required := range []string{"start", "end"} {
		if !lo.Contains(fields, required) {
			return nil, fmt.Errorf("missing %s field", required)
		}
	}

	if fields[len(fields)-1] != "text" {
		return nil, fmt.Errorf("text must be the last field")
	}

	return fields, nil
}

func parseDialogue(value string, fields []string) (Cue, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ",", len(fields))
	if len(parts) < len(fields) {
		return Cue{}, fmt.Errorf("expected %d fields, got %d", len(fields), len(parts))
	}

	start, err := parseTimestamp(parts[lo.IndexOf(fields, "start")])
	if err != nil {
		return Cue{}, fmt.Errorf("start: %w", err)
	}

	end, err := parseTimestamp(parts[lo.IndexOf(fields, "end")])
	if err != nil {
		return Cue{}, fmt.Errorf("end: %w", err)
	}

	return Cue{
		Start: start,
		End:   end,
		Text:  cleanASSText(parts[len(parts)-1]),
	}, nil
}

// cleanASSText drops {...} override blocks and expands the \N, \n and \h escapes.
// An unclosed '{' hides the remainder of the line.
func cleanASSText(s string) string {
	var (
		b     strings.Builder
		depth int
	)

	for _, r := range s {
		switch {
		case r == '{':
			depth++
		case r == '}':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}

	return joinLines(strings.Split(assEscapes.Replace(b.String()), "\n"), nil)
}
