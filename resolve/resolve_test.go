package resolve

import (
	"errors"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zantaku/Zantaku-sub000/chapter"
	"github.com/zantaku/Zantaku-sub000/filesystem"
	"github.com/zantaku/Zantaku-sub000/subtitle"
)

const descriptor = `
media_id: frieren
episode: 3
title: Frieren - Killing Magic
mal_id: 52991
source:
  uri: https://cdn.example.org/frieren/03/master.m3u8
  headers:
    Referer: https://example.org/
subtitles:
  - url: https://cdn.example.org/frieren/03/en.vtt?token=abc
    language: en
    label: English
  - id: jp
    url: subs/ja.ass
    language: ja
  - url: subs/de.txt
    language: de
    format: srt
chapters:
  - title: Opening
    start: 0
    end: 90
    kind: opening
  - id: main
    title: Part A
    start: 90
`

func TestParse(t *testing.T) {
	Convey("Given a descriptor document", t, func() {
		d, err := Parse([]byte(descriptor))
		So(err, ShouldBeNil)

		Convey("Top-level fields are decoded", func() {
			So(d.MediaID, ShouldEqual, "frieren")
			So(d.Episode, ShouldEqual, 3)
			So(d.MalID, ShouldEqual, 52991)
			So(d.DisplayTitle(), ShouldEqual, "Frieren - Killing Magic")
		})

		Convey("The media source keeps its headers", func() {
			src := d.MediaSource()
			So(src.URI, ShouldEqual, "https://cdn.example.org/frieren/03/master.m3u8")
			So(src.Headers, ShouldResemble, map[string]string{"Referer": "https://example.org/"})
		})

		Convey("Tracks get ids and inferred formats", func() {
			tracks := d.Tracks()
			So(tracks, ShouldHaveLength, 3)

			So(tracks[0].ID, ShouldEqual, "0")
			So(tracks[0].Format, ShouldEqual, subtitle.FormatVTT)
			So(tracks[0].Name(), ShouldEqual, "English")

			So(tracks[1].ID, ShouldEqual, "jp")
			So(tracks[1].Format, ShouldEqual, subtitle.FormatASS)
			So(tracks[1].URL, ShouldEqual, "subs/ja.ass")

			So(tracks[2].Format, ShouldEqual, subtitle.FormatSRT)
		})

		Convey("Chapters keep their kind and get ids", func() {
			chapters := d.ChapterList()
			So(chapters, ShouldHaveLength, 2)
			So(chapters[0].ID, ShouldEqual, "0")
			So(chapters[0].Kind, ShouldEqual, chapter.KindOpening)
			So(chapters[1].ID, ShouldEqual, "main")
			So(chapters[1].End, ShouldEqual, 0)
		})
	})

	Convey("A descriptor without a source is rejected", t, func() {
		_, err := Parse([]byte("media_id: x\nepisode: 1\n"))
		So(errors.Is(err, ErrMissingSource), ShouldBeTrue)
	})

	Convey("Invalid yaml is rejected", t, func() {
		_, err := Parse([]byte("source: [unterminated"))
		So(err, ShouldNotBeNil)
	})

	Convey("The display title falls back to media id and episode", t, func() {
		d := &Descriptor{MediaID: "frieren", Episode: 4}
		So(d.DisplayTitle(), ShouldEqual, "frieren - 4")
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a descriptor file", t, func() {
		filesystem.SetMemMapFs()
		dir := filepath.Join("/", "media", "frieren")
		So(filesystem.API().MkdirAll(dir, 0o755), ShouldBeNil)

		doc := descriptor + "\n"
		So(filesystem.API().WriteFile(filepath.Join(dir, "03.yaml"), []byte(doc), 0o644), ShouldBeNil)

		d, err := Load(filepath.Join(dir, "03.yaml"))
		So(err, ShouldBeNil)

		Convey("Relative subtitle paths resolve against the file", func() {
			tracks := d.Tracks()
			So(tracks[0].URL, ShouldEqual, "https://cdn.example.org/frieren/03/en.vtt?token=abc")
			So(tracks[1].URL, ShouldEqual, filepath.Join(dir, "subs", "ja.ass"))
		})

		Convey("Missing files are reported", func() {
			_, err := Load("/nope.yaml")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestFormatFromURL(t *testing.T) {
	Convey("formatFromURL ignores query strings", t, func() {
		So(formatFromURL("https://x/y/en.srt?sig=1"), ShouldEqual, subtitle.FormatSRT)
		So(formatFromURL("subs/a.ssa"), ShouldEqual, subtitle.FormatASS)
		So(formatFromURL("https://x/y/en"), ShouldEqual, subtitle.FormatUnknown)
		So(formatFromURL("https://x/y/en.sub"), ShouldEqual, subtitle.FormatUnknown)
	})
}
