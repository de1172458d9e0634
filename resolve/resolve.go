// Package resolve reads media descriptors: yaml files naming an already-resolved stream,
// its subtitle tracks and its chapters.
package resolve

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/zantaku/Zantaku-sub000/chapter"
	"github.com/zantaku/Zantaku-sub000/filesystem"
	"github.com/zantaku/Zantaku-sub000/player"
	"github.com/zantaku/Zantaku-sub000/subtitle"
	"gopkg.in/yaml.v3"
)

var ErrMissingSource = errors.New("descriptor has no source uri")

// Subtitle describes one subtitle track of a descriptor.
type Subtitle struct {
	ID       string `yaml:"id,omitempty" json:"id,omitempty"`
	URL      string `yaml:"url" json:"url" jsonschema:"required"`
	Language string `yaml:"language,omitempty" json:"language,omitempty"`
	Label    string `yaml:"label,omitempty" json:"label,omitempty"`
	Format   string `yaml:"format,omitempty" json:"format,omitempty" jsonschema:"enum=ass,enum=ssa,enum=vtt,enum=webvtt,enum=srt"`
}

// Descriptor is everything needed to start playback of one episode.
type Descriptor struct {
	MediaID   string             `yaml:"media_id" json:"media_id" jsonschema:"required"`
	Episode   int                `yaml:"episode" json:"episode"`
	Title     string             `yaml:"title,omitempty" json:"title,omitempty"`
	MalID     int                `yaml:"mal_id,omitempty" json:"mal_id,omitempty" jsonschema:"description=MyAnimeList id used to fetch opening and ending times"`
	Source    player.MediaSource `yaml:"source" json:"source" jsonschema:"required"`
	Subtitles []Subtitle         `yaml:"subtitles,omitempty" json:"subtitles,omitempty"`
	Chapters  []chapter.Chapter  `yaml:"chapters,omitempty" json:"chapters,omitempty"`

	dir string
}

// Parse decodes a descriptor. Relative local paths are kept as written.
func Parse(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor: %w", err)
	}
	if strings.TrimSpace(d.Source.URI) == "" {
		return nil, ErrMissingSource
	}
	return &d, nil
}

// Load reads a descriptor file. Relative local paths resolve against the file's directory.
func Load(file string) (*Descriptor, error) {
	data, err := filesystem.API().ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor: %w", err)
	}

	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	d.dir = filepath.Dir(file)
	return d, nil
}

// DisplayTitle returns the title, falling back to media id and episode.
func (d *Descriptor) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.MediaID + " - " + strconv.Itoa(d.Episode)
}

// MediaSource returns the stream to hand to the engine.
func (d *Descriptor) MediaSource() player.MediaSource {
	return player.MediaSource{
		URI:     d.local(d.Source.URI),
		Headers: d.Source.Headers,
	}
}

// Tracks converts the subtitle descriptors. A missing format is inferred from the
// url extension, and parsing falls back to content detection when that fails too.
func (d *Descriptor) Tracks() []subtitle.Track {
	return lo.Map(d.Subtitles, func(s Subtitle, i int) subtitle.Track {
		id := s.ID
		if id == "" {
			id = strconv.Itoa(i)
		}

		format, err := subtitle.ParseFormat(s.Format)
		if err != nil || format == subtitle.FormatUnknown {
			format = formatFromURL(s.URL)
		}

		return subtitle.Track{
			ID:       id,
			Language: s.Language,
			Label:    s.Label,
			Format:   format,
			URL:      d.local(s.URL),
		}
	})
}

// ChapterList returns the declared chapters.
func (d *Descriptor) ChapterList() []chapter.Chapter {
	return lo.Map(d.Chapters, func(c chapter.Chapter, i int) chapter.Chapter {
		if c.ID == "" {
			c.ID = strconv.Itoa(i)
		}
		return c
	})
}

func (d *Descriptor) local(target string) string {
	if d.dir == "" || target == "" || strings.Contains(target, "://") || filepath.IsAbs(target) {
		return target
	}
	return filepath.Join(d.dir, target)
}

func formatFromURL(raw string) subtitle.Format {
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		p = u.Path
	}

	format, err := subtitle.ParseFormat(path.Ext(p))
	if err != nil {
		return subtitle.FormatUnknown
	}
	return format
}
