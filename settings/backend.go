package settings

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/zantaku/Zantaku-sub000/filesystem"
)

// Backend reads and writes the whole settings record.
type Backend interface {
	Load() (Settings, error)
	Save(Settings) error
}

// ViperBackend keeps settings in a TOML file through its own viper instance, separate from
// the application configuration.
type ViperBackend struct {
	path string
}

func NewViperBackend(path string) *ViperBackend {
	return &ViperBackend{path: path}
}

func (b *ViperBackend) instance() *viper.Viper {
	v := viper.New()
	v.SetFs(filesystem.Fs())
	v.SetConfigFile(b.path)
	v.SetConfigType("toml")

	def := Default()
	v.SetDefault("selected_subtitle_index", def.SelectedSubtitleIndex)
	v.SetDefault("selected_audio_track_index", def.SelectedAudioTrackIndex)
	v.SetDefault("playback_speed", def.PlaybackSpeed)
	v.SetDefault("subtitle_size", def.SubtitleSize)
	v.SetDefault("subtitle_opacity", def.SubtitleOpacity)
	v.SetDefault("subtitle_position", def.SubtitlePosition)
	v.SetDefault("subtitles_enabled", def.SubtitlesEnabled)
	return v
}

func (b *ViperBackend) Load() (Settings, error) {
	v := b.instance()

	exists, err := filesystem.API().Exists(b.path)
	if err != nil {
		return Default(), err
	}
	if exists {
		if err := v.ReadInConfig(); err != nil {
			return Default(), fmt.Errorf("read settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Default(), fmt.Errorf("decode settings: %w", err)
	}
	return s.Normalize(), nil
}

func (b *ViperBackend) Save(s Settings) error {
	if err := filesystem.API().MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return err
	}

	v := b.instance()
	v.Set("selected_subtitle_index", s.SelectedSubtitleIndex)
	v.Set("selected_audio_track_index", s.SelectedAudioTrackIndex)
	v.Set("playback_speed", s.PlaybackSpeed)
	v.Set("subtitle_size", s.SubtitleSize)
	v.Set("subtitle_opacity", s.SubtitleOpacity)
	v.Set("subtitle_position", s.SubtitlePosition)
	v.Set("subtitles_enabled", s.SubtitlesEnabled)

	if err := v.WriteConfigAs(b.path); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
