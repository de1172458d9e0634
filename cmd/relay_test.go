package cmd

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zantaku/Zantaku-sub000/playback"
)

type idleController struct{}

func (idleController) Snapshot() *playback.Snapshot { return nil }
func (idleController) Post(func(m *playback.Machine)) bool { return false }

func TestRelay(t *testing.T) {
	Convey("Given a relay nobody reads yet", t, func() {
		r := newRelay()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		Convey("Notify never blocks on a burst", func() {
			returned := make(chan struct{})
			go func() {
				for i := 0; i < 1000; i++ {
					r.Notify(playback.SubtitleChanged{Text: "line"})
					r.Notify(playback.PositionChanged{Position: playback.Position{CurrentTime: float64(i)}})
				}
				r.Notify(playback.StateChanged{From: playback.Playing, To: playback.Ended})
				close(returned)
			}()

			finished := false
			select {
			case <-returned:
				finished = true
			case <-time.After(2 * time.Second):
			}
			So(finished, ShouldBeTrue)

			Convey("and the terminal message is delivered last", func() {
				go r.run(ctx)

				var last playback.Message
				count := 0
				for count < 2001 {
					last = <-r.Messages()
					count++
				}
				So(last, ShouldResemble, playback.StateChanged{From: playback.Playing, To: playback.Ended})
			})
		})

		Convey("Consecutive position updates collapse into the latest", func() {
			r.Notify(playback.PositionChanged{Position: playback.Position{CurrentTime: 1}})
			r.Notify(playback.PositionChanged{Position: playback.Position{CurrentTime: 2}})
			r.Notify(playback.ExitRequested{Reason: "done"})
			go r.run(ctx)

			So(<-r.Messages(), ShouldResemble, playback.PositionChanged{Position: playback.Position{CurrentTime: 2}})
			So(<-r.Messages(), ShouldResemble, playback.ExitRequested{Reason: "done"})
		})

		Convey("The headless loop returns once the media ends behind a flood of updates", func() {
			for i := 0; i < 500; i++ {
				r.Notify(playback.PositionChanged{Position: playback.Position{CurrentTime: float64(i)}})
				r.Notify(playback.ChapterChanged{Index: -1})
			}
			r.Notify(playback.StateChanged{From: playback.Playing, To: playback.Ended})
			go r.run(ctx)

			result := make(chan error, 1)
			go func() { result <- runHeadless(ctx, r.Messages(), idleController{}) }()

			var err error
			select {
			case err = <-result:
			case <-time.After(2 * time.Second):
				err = context.DeadlineExceeded
			}
			So(err, ShouldBeNil)
		})

		Convey("Messages closes when the context ends", func() {
			go r.run(ctx)
			cancel()
			_, ok := <-r.Messages()
			So(ok, ShouldBeFalse)
		})
	})
}
