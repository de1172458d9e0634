// Package settings persists per-user playback preferences with debounced writes.
package settings

import (
	"github.com/zantaku/Zantaku-sub000/subtitle"
	"github.com/zantaku/Zantaku-sub000/util"
)

// Settings are the preferences that survive between sessions.
// A SelectedSubtitleIndex of -1 leaves the choice to the language preference.
type Settings struct {
	SelectedSubtitleIndex   int     `mapstructure:"selected_subtitle_index" json:"selected_subtitle_index"`
	SelectedAudioTrackIndex int     `mapstructure:"selected_audio_track_index" json:"selected_audio_track_index"`
	PlaybackSpeed           float64 `mapstructure:"playback_speed" json:"playback_speed"`
	SubtitleSize            int     `mapstructure:"subtitle_size" json:"subtitle_size"`
	SubtitleOpacity         float64 `mapstructure:"subtitle_opacity" json:"subtitle_opacity"`
	SubtitlePosition        int     `mapstructure:"subtitle_position" json:"subtitle_position"`
	SubtitlesEnabled        bool    `mapstructure:"subtitles_enabled" json:"subtitles_enabled"`
}

// Default returns the settings used before anything was saved.
func Default() Settings {
	return Settings{
		SelectedSubtitleIndex:   -1,
		SelectedAudioTrackIndex: 0,
		PlaybackSpeed:           1,
		SubtitleSize:            55,
		SubtitleOpacity:         1,
		SubtitlePosition:        100,
		SubtitlesEnabled:        true,
	}
}

// Normalize clamps every field into the range the player accepts.
func (s Settings) Normalize() Settings {
	s.SelectedSubtitleIndex = util.Max(s.SelectedSubtitleIndex, -1)
	s.SelectedAudioTrackIndex = util.Max(s.SelectedAudioTrackIndex, 0)
	if s.PlaybackSpeed == 0 {
		s.PlaybackSpeed = 1
	}
	s.PlaybackSpeed = util.Clamp(s.PlaybackSpeed, 0.25, 4)
	s.SubtitleSize = util.Clamp(s.SubtitleSize, 10, 150)
	s.SubtitleOpacity = util.Clamp(s.SubtitleOpacity, 0, 1)
	s.SubtitlePosition = util.Clamp(s.SubtitlePosition, 0, 150)
	return s
}

// SubtitleTrack picks the initial track among tracks: none when subtitles are off, the
// saved index when it is in range, otherwise the best match for preferred.
func (s Settings) SubtitleTrack(tracks []subtitle.Track, preferred string) int {
	if !s.SubtitlesEnabled || len(tracks) == 0 {
		return -1
	}
	if s.SelectedSubtitleIndex >= 0 && s.SelectedSubtitleIndex < len(tracks) {
		return s.SelectedSubtitleIndex
	}
	return subtitle.PickTrack(tracks, preferred)
}
