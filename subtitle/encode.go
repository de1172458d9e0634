package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteSRT renders cues as SubRip, numbered from 1.
func WriteSRT(w io.Writer, cues []Cue) error {
	bw := bufio.NewWriter(w)
	for i, cue := range cues {
		if i > 0 {
			bw.WriteString("\n")
		}
		fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n", i+1,
			FormatTimestamp(cue.Start, ','), FormatTimestamp(cue.End, ','), cue.Text)
	}
	return bw.Flush()
}

// WriteVTT renders cues as WebVTT. Blank lines inside a cue would end it, so they are dropped.
func WriteVTT(w io.Writer, cues []Cue) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("WEBVTT\n")
	for _, cue := range cues {
		text := strings.ReplaceAll(cue.Text, "\n\n", "\n")
		fmt.Fprintf(bw, "\n%s --> %s\n%s\n",
			FormatTimestamp(cue.Start, '.'), FormatTimestamp(cue.End, '.'), text)
	}
	return bw.Flush()
}
