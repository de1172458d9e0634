package subtitle

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPickTrack(t *testing.T) {
	Convey("Given tracks in several languages", t, func() {
		tracks := []Track{
			{Language: "ja"},
			{Language: "en-US"},
			{Language: "es"},
		}

		Convey("Then the preferred language is matched by base", func() {
			So(PickTrack(tracks, "en"), ShouldEqual, 1)
			So(PickTrack(tracks, "es-419"), ShouldEqual, 2)
		})

		Convey("Then an unmatched preference falls back to the first track", func() {
			So(PickTrack(tracks, "de"), ShouldEqual, 0)
			So(PickTrack(tracks, "not a tag!"), ShouldEqual, 0)
		})
	})

	Convey("Given no tracks", t, func() {
		So(PickTrack(nil, "en"), ShouldEqual, -1)
	})
}
