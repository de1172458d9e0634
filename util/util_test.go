package util

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestClamp(t *testing.T) {
	Convey("Clamp", t, func() {
		So(Clamp(-0.5, 0.0, 1.0), ShouldEqual, 0.0)
		So(Clamp(1.5, 0.0, 1.0), ShouldEqual, 1.0)
		So(Clamp(0.25, 0.0, 1.0), ShouldEqual, 0.25)
		So(Clamp(7, 1, 5), ShouldEqual, 5)
	})
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "cue", "cues"), ShouldEqual, "1 cue")
		So(Quantify(2, "cue", "cues"), ShouldEqual, "2 cues")
	})
}

func TestMax(t *testing.T) {
	Convey("Max", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Max[int](), ShouldEqual, 0)
	})
}

func TestClock(t *testing.T) {
	Convey("Clock", t, func() {
		So(Clock(0), ShouldEqual, "0:00")
		So(Clock(65.9), ShouldEqual, "1:05")
		So(Clock(3661), ShouldEqual, "1:01:01")
		So(Clock(-3), ShouldEqual, "0:00")
	})
}
