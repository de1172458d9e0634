package subtitle

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseVTT(t *testing.T) {
	Convey("Given a block without a timing line", t, func() {
		blob := "WEBVTT\n\nidentifier only\ntext\n\n00:00:01.000 --> 00:00:02.000\nok\n"

		cues, skipped := ParseVTT(blob)

		Convey("Then it is skipped and the rest survives", func() {
			So(cues, ShouldResemble, []Cue{{Start: 1, End: 2, Text: "ok"}})
			So(skipped, ShouldHaveLength, 1)
			So(skipped[0].Line, ShouldEqual, 3)
		})
	})

	Convey("Given a REGION block and multi-line cue text", t, func() {
		blob := "WEBVTT\n\nREGION\nid:fred\n\n00:00:01.000 --> 00:00:02.000\n<b>line</b> one\n&lt;two&gt;\n"

		cues, skipped := ParseVTT(blob)

		Convey("Then lines are joined after cleaning", func() {
			So(skipped, ShouldBeEmpty)
			So(cues, ShouldResemble, []Cue{{Start: 1, End: 2, Text: "line one\n<two>"}})
		})
	})

	Convey("Given a timing line with a malformed timestamp", t, func() {
		_, skipped := ParseVTT("WEBVTT\n\n00:00:aa.000 --> 00:00:02.000\nx\n")

		Convey("Then the error wraps the timestamp failure", func() {
			So(skipped, ShouldHaveLength, 1)
			So(skipped[0].Err, ShouldNotBeNil)
			So(skipped[0].Reason, ShouldEqual, "invalid timing line")
		})
	})
}
