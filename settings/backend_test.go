package settings

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zantaku/Zantaku-sub000/filesystem"
)

func TestViperBackend(t *testing.T) {
	Convey("Given a viper backend on an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		backend := NewViperBackend("/config/zantaku/settings.toml")

		Convey("Load without a file returns defaults", func() {
			s, err := backend.Load()
			So(err, ShouldBeNil)
			So(s, ShouldResemble, Default())
		})

		Convey("Saved settings load back", func() {
			want := Settings{
				SelectedSubtitleIndex:   2,
				SelectedAudioTrackIndex: 1,
				PlaybackSpeed:           1.5,
				SubtitleSize:            60,
				SubtitleOpacity:         0.8,
				SubtitlePosition:        95,
				SubtitlesEnabled:        false,
			}
			So(backend.Save(want), ShouldBeNil)

			data, err := filesystem.API().ReadFile("/config/zantaku/settings.toml")
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, "playback_speed = 1.5")

			got, err := backend.Load()
			So(err, ShouldBeNil)
			So(got, ShouldResemble, want)
		})

		Convey("A corrupt file is reported", func() {
			So(filesystem.API().MkdirAll("/config/zantaku", 0o755), ShouldBeNil)
			So(filesystem.API().WriteFile("/config/zantaku/settings.toml", []byte("playback_speed = ="), 0o644), ShouldBeNil)

			s, err := backend.Load()
			So(err, ShouldNotBeNil)
			So(s, ShouldResemble, Default())
		})
	})
}
