package subtitle

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseASS(t *testing.T) {
	Convey("Given a Format line with a custom field order", t, func() {
		blob := "[Events]\n" +
			"Format: Start, End, Style, Text\n" +
			"Dialogue: 0:00:03.00,0:00:04.00,Default,reordered, with comma\n"

		cues, skipped := ParseASS(blob)

		Convey("Then the layout is honoured and commas stay in the text", func() {
			So(skipped, ShouldBeEmpty)
			So(cues, ShouldResemble, []Cue{{Start: 3, End: 4, Text: "reordered, with comma"}})
		})
	})

	Convey("Given a Format line outside [Events]", t, func() {
		blob := "[V4+ Styles]\nFormat: Name, Fontname\n" +
			"[Events]\nDialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,kept\n"

		cues, _ := ParseASS(blob)

		Convey("Then it does not affect dialogue parsing", func() {
			So(cues, ShouldResemble, []Cue{{Start: 1, End: 2, Text: "kept"}})
		})
	})

	Convey("Given a dialogue line with too few fields", t, func() {
		cues, skipped := ParseASS("Dialogue: 0,0:00:01.00,0:00:02.00\n")

		Convey("Then it is skipped with its line number", func() {
			So(cues, ShouldBeEmpty)
			So(skipped, ShouldHaveLength, 1)
			So(skipped[0].Line, ShouldEqual, 1)
			So(skipped[0].Format, ShouldEqual, FormatASS)
		})
	})

	Convey("Given a drawing-only dialogue line", t, func() {
		cues, skipped := ParseASS("Dialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,{\\p1}{\\p0}\n")

		Convey("Then the empty text is skipped", func() {
			So(cues, ShouldBeEmpty)
			So(skipped[0].Reason, ShouldEqual, "empty text")
		})
	})
}

func TestCleanASSText(t *testing.T) {
	Convey("cleanASSText", t, func() {
		So(cleanASSText(`{\an8}Top`), ShouldEqual, "Top")
		So(cleanASSText(`a{\b1}b{\b0}c`), ShouldEqual, "abc")
		So(cleanASSText(`one\Ntwo\nthree`), ShouldEqual, "one\ntwo\nthree")
		So(cleanASSText(`hard\hspace`), ShouldEqual, "hard space")
		So(cleanASSText(`kept{unclosed`), ShouldEqual, "kept")
		So(cleanASSText(`stray}brace`), ShouldEqual, "straybrace")
		So(cleanASSText(`  padded \N  `), ShouldEqual, "padded")
	})
}
