package subtitle

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseSRT(t *testing.T) {
	Convey("Given blocks with markup, a missing sequence number and a dot separator", t, func() {
		blob := "1\n00:00:01,000 --> 00:00:02,000\n<i>italic</i> {\\an8}top\n\n" +
			"00:00:03.250 --> 00:00:04.000\nno number\nsecond line\n"

		cues, skipped := ParseSRT(blob)

		Convey("Then all blocks are accepted", func() {
			So(skipped, ShouldBeEmpty)
			So(cues, ShouldResemble, []Cue{
				{Start: 1, End: 2, Text: "italic top"},
				{Start: 3.25, End: 4, Text: "no number\nsecond line"},
			})
		})
	})

	Convey("Given a block consisting of a lone sequence number", t, func() {
		_, skipped := ParseSRT("7\n")

		Convey("Then it is reported as missing its timing line", func() {
			So(skipped, ShouldHaveLength, 1)
			So(skipped[0].Reason, ShouldEqual, "missing timing line")
		})
	})
}
