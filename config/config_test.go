package config

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/zantaku/Zantaku-sub000/filesystem"
	"github.com/zantaku/Zantaku-sub000/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			So(Setup(), ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
			So(viper.GetDuration(key.SettingsDebounce), ShouldEqual, 400*time.Millisecond)
			So(viper.GetFloat64(key.ProgressUpperBound), ShouldEqual, 0.95)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("player.scrub_throttle"), ShouldEqual, "player_scrub_throttle")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given the registered scrub throttle field", t, func() {
		field := Default[key.PlayerScrubThrottle]

		Convey("Env is prefixed with the application name", func() {
			So(field.Env(), ShouldEqual, "ZANTAKU_PLAYER_SCRUB_THROTTLE")
		})

		Convey("TypeName reports a duration", func() {
			So(field.TypeName(), ShouldEqual, "duration")
		})

		Convey("ParseValue parses durations", func() {
			v, err := field.ParseValue([]string{"100ms"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 100*time.Millisecond)

			_, err = field.ParseValue([]string{"soon"})
			So(err, ShouldNotBeNil)
		})
	})

	Convey("ParseValue follows the default value type", t, func() {
		speed := Default[key.PlayerSpeed]
		v, err := speed.ParseValue([]string{"1.5"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 1.5)

		retries := Default[key.PlayerMaxRetries]
		_, err = retries.ParseValue([]string{"many"})
		So(err, ShouldNotBeNil)

		repeat := Default[key.PlayerRepeat]
		v, err = repeat.ParseValue([]string{"true"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, true)
	})
}
