package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type collect struct {
	reports []Report
	err     error
}

func (c *collect) Report(_ context.Context, report Report) error {
	c.reports = append(c.reports, report)
	return c.err
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func (c *clock) advance(d time.Duration) { c.now = c.now.Add(d) }

func TestReporter(t *testing.T) {
	Convey("Given a reporter with default band and interval", t, func() {
		sink := &collect{}
		clk := &clock{now: time.Unix(1_700_000_000, 0)}
		r := NewReporter("frieren", 3, sink, WithClock(clk.Now), WithTitle("Frieren"))

		Convey("Positions outside the band are not reported", func() {
			So(r.Observe(2, 100), ShouldBeFalse)
			So(r.Observe(5, 100), ShouldBeFalse)
			So(r.Observe(95, 100), ShouldBeFalse)
			So(r.Observe(99, 100), ShouldBeFalse)
			So(sink.reports, ShouldBeEmpty)
		})

		Convey("Unknown durations are not reported", func() {
			So(r.Observe(50, 0), ShouldBeFalse)
			So(r.Flush(50, 0), ShouldBeFalse)
		})

		Convey("The first position inside the band is reported immediately", func() {
			So(r.Observe(10, 100), ShouldBeTrue)
			So(sink.reports, ShouldHaveLength, 1)

			got := sink.reports[0]
			So(got.MediaID, ShouldEqual, "frieren")
			So(got.Episode, ShouldEqual, 3)
			So(got.Title, ShouldEqual, "Frieren")
			So(got.CurrentTime, ShouldEqual, 10)
			So(got.Duration, ShouldEqual, 100)
			So(got.At, ShouldEqual, clk.now)
			So(got.Fraction(), ShouldAlmostEqual, 0.1, 1e-9)

			Convey("Further positions wait for the interval", func() {
				clk.advance(9 * time.Second)
				So(r.Observe(19, 100), ShouldBeFalse)

				clk.advance(time.Second)
				So(r.Observe(20, 100), ShouldBeTrue)
				So(sink.reports, ShouldHaveLength, 2)
			})

			Convey("Flush ignores the interval", func() {
				clk.advance(time.Second)
				So(r.Flush(99, 100), ShouldBeTrue)
				So(sink.reports, ShouldHaveLength, 2)
				So(sink.reports[1].CurrentTime, ShouldEqual, 99)
			})
		})

		Convey("Flush below the lower bound is dropped", func() {
			So(r.Flush(3, 100), ShouldBeFalse)
			So(sink.reports, ShouldBeEmpty)
		})

		Convey("Sink failures do not stop the reporter", func() {
			sink.err = errors.New("offline")
			So(r.Observe(10, 100), ShouldBeTrue)
			clk.advance(10 * time.Second)
			So(r.Observe(30, 100), ShouldBeTrue)
			So(sink.reports, ShouldHaveLength, 2)
		})
	})

	Convey("Given a reporter with custom options", t, func() {
		sink := &collect{}
		clk := &clock{now: time.Unix(0, 0)}
		r := NewReporter("m", 1, sink, WithClock(clk.Now), WithBand(0.2, 0.8), WithInterval(time.Second))

		So(r.Observe(10, 100), ShouldBeFalse)
		So(r.Observe(30, 100), ShouldBeTrue)
		clk.advance(time.Second)
		So(r.Observe(40, 100), ShouldBeTrue)
		So(r.Observe(85, 100), ShouldBeFalse)
	})
}

func TestMulti(t *testing.T) {
	Convey("Multi reports to every sink and joins errors", t, func() {
		a, b := &collect{err: errors.New("a down")}, &collect{}
		err := Multi{a, b}.Report(context.Background(), Report{MediaID: "x"})

		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "a down")
		So(a.reports, ShouldHaveLength, 1)
		So(b.reports, ShouldHaveLength, 1)

		So(Multi{b}.Report(context.Background(), Report{}), ShouldBeNil)
	})

	Convey("SinkFunc adapts a function", t, func() {
		var got Report
		sink := SinkFunc(func(_ context.Context, r Report) error {
			got = r
			return nil
		})
		So(sink.Report(context.Background(), Report{Episode: 7}), ShouldBeNil)
		So(got.Episode, ShouldEqual, 7)
	})
}
