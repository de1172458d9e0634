package style

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestChapter(t *testing.T) {
	Convey("Chapter renders both current and other rows", t, func() {
		So(Chapter(true)("Opening"), ShouldContainSubstring, "Opening")
		So(Chapter(false)("Part A"), ShouldContainSubstring, "Part A")
	})

	Convey("Subtitle keeps the text", t, func() {
		So(Subtitle(40)("hello"), ShouldContainSubstring, "hello")
	})
}
