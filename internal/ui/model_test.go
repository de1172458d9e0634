package ui

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given a notifier", t, func() {
		var m Model

		Convey("Without a notification the view is unchanged", func() {
			So(m.View("a\nb"), ShouldEqual, "a\nb")
		})

		Convey("Notify shows the text on the last line", func() {
			msg := Notify("Skipped Opening")()
			So(m.Update(msg), ShouldNotBeNil)
			So(m.Current(), ShouldEqual, "Skipped Opening")
			So(m.View("a\nb"), ShouldEqual, "a\nb  \033[90mSkipped Opening\033[0m")

			Convey("A stale clear keeps a newer notification", func() {
				m.Update(ClearNotificationMsg{At: m.notifiedAt.Add(-time.Second)})
				So(m.Current(), ShouldEqual, "Skipped Opening")

				m.Update(ClearNotificationMsg{At: m.notifiedAt})
				So(m.Current(), ShouldBeEmpty)
			})
		})

		Convey("Other messages are ignored", func() {
			So(m.Update("text"), ShouldBeNil)
			So(m.Current(), ShouldBeEmpty)
		})
	})
}
