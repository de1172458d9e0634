package subtitle

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestIndex(t *testing.T) {
	Convey("Given an index over three cues", t, func() {
		cues := []Cue{
			{Start: 10, End: 12, Text: "B"},
			{Start: 1, End: 3, Text: "A"},
			{Start: 12, End: 14, Text: "C"},
		}
		index := NewIndex(cues)

		Convey("Then the input slice is not reordered", func() {
			So(cues[0].Text, ShouldEqual, "B")
			So(index.Len(), ShouldEqual, 3)
		})

		Convey("When querying inside a cue", func() {
			So(index.Query(2).MustGet().Text, ShouldEqual, "A")
			So(index.Text(11), ShouldEqual, "B")
		})

		Convey("When querying the closed bounds", func() {
			So(index.Text(1), ShouldEqual, "A")
			So(index.Text(3), ShouldEqual, "A")
		})

		Convey("When two cues touch", func() {
			Convey("Then the later start wins", func() {
				So(index.Text(12), ShouldEqual, "C")
			})
		})

		Convey("When querying a gap or the outside", func() {
			So(index.Query(5).IsAbsent(), ShouldBeTrue)
			So(index.Query(0.5).IsAbsent(), ShouldBeTrue)
			So(index.Query(100).IsAbsent(), ShouldBeTrue)
			So(index.Text(5), ShouldBeEmpty)
		})

		Convey("When mutating the returned cues", func() {
			out := index.Cues()
			out[0].Text = "changed"

			Convey("Then the index is unaffected", func() {
				So(index.Text(2), ShouldEqual, "A")
			})
		})
	})

	Convey("Given an overlapping longer cue", t, func() {
		index := NewIndex([]Cue{
			{Start: 0, End: 10, Text: "long"},
			{Start: 2, End: 3, Text: "short"},
		})

		Convey("Then only the greatest start at or before t is considered", func() {
			So(index.Text(2.5), ShouldEqual, "short")
			So(index.Query(5).IsAbsent(), ShouldBeTrue)
		})
	})

	Convey("Given a nil or empty index", t, func() {
		var nilIndex *Index

		So(nilIndex.Query(1).IsAbsent(), ShouldBeTrue)
		So(nilIndex.Len(), ShouldEqual, 0)
		So(nilIndex.Cues(), ShouldBeNil)
		So(NewIndex(nil).Query(0).IsAbsent(), ShouldBeTrue)
	})
}
