package playback

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zantaku/Zantaku-sub000/chapter"
)

func TestState(t *testing.T) {
	Convey("State", t, func() {
		So(Playing.String(), ShouldEqual, "playing")
		So(State(42).String(), ShouldEqual, "state(42)")

		So(Ended.seekable(), ShouldBeTrue)
		So(Loading.seekable(), ShouldBeFalse)
		So(Error.seekable(), ShouldBeFalse)
	})

	Convey("Position.Fraction", t, func() {
		So(Position{CurrentTime: 25, Duration: 100}.Fraction(), ShouldEqual, 0.25)
		So(Position{CurrentTime: 25}.Fraction(), ShouldEqual, 0)
	})

	Convey("Snapshot.CurrentChapter", t, func() {
		snap := &Snapshot{Chapters: []chapter.Chapter{{ID: "a"}}, Chapter: 0}
		c, ok := snap.CurrentChapter()
		So(ok, ShouldBeTrue)
		So(c.ID, ShouldEqual, "a")

		snap.Chapter = -1
		_, ok = snap.CurrentChapter()
		So(ok, ShouldBeFalse)
	})

	Convey("Errors", t, func() {
		So((&EngineError{Message: "boom"}).Error(), ShouldEqual, "engine: boom")
		So((&SourceResolutionError{Err: ErrLoadTimeout}).Error(), ShouldEqual, "source resolution: timed out waiting for media")
	})
}
