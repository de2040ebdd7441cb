package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// settingsFile is the on-disk YAML layout of a Settings value.
type settingsFile struct {
	Image struct {
		Sizes      string   `yaml:"sizes"`
		Formats    []string `yaml:"formats"`
		Background string   `yaml:"background"`
	} `yaml:"image"`
	Video struct {
		Resolution string `yaml:"resolution"`
		Quality    string `yaml:"quality"`
		Format     string `yaml:"format"`
	} `yaml:"video"`
	Audio struct {
		Formats     []string `yaml:"formats"`
		BitrateKbps int      `yaml:"bitrate_kbps"`
	} `yaml:"audio"`
	Naming struct {
		Smart         bool   `yaml:"smart"`
		OriginalNames bool   `yaml:"original_names"`
		BaseName      string `yaml:"base_name"`
	} `yaml:"naming"`
}

// LoadSettingsFile reads settings from a YAML file. Fields left out keep
// their DefaultSettings values.
func LoadSettingsFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}
	s, err := ParseSettings(data)
	if err != nil {
		return Settings{}, fmt.Errorf("settings file %s: %w", path, err)
	}
	return s, nil
}

// ParseSettings decodes YAML settings on top of DefaultSettings.
func ParseSettings(data []byte) (Settings, error) {
	var f settingsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}

	s := DefaultSettings()
	if f.Image.Sizes != "" {
		s.ImageSizes = ParseSizes(f.Image.Sizes)
	}
	if len(f.Image.Formats) > 0 {
		formats, err := ParseImageFormats(strings.Join(f.Image.Formats, ","))
		if err != nil {
			return Settings{}, err
		}
		s.ImageFormats = formats
	}
	if f.Image.Background != "" {
		bg, err := ParseBackground(f.Image.Background)
		if err != nil {
			return Settings{}, err
		}
		s.Background = bg
	}
	if f.Video.Resolution != "" {
		res, err := ParseSize(f.Video.Resolution)
		if err != nil {
			return Settings{}, fmt.Errorf("video resolution: %w", err)
		}
		s.VideoResolution = res
	}
	if f.Video.Quality != "" {
		q, err := ParseQuality(f.Video.Quality)
		if err != nil {
			return Settings{}, err
		}
		s.VideoQuality = q
	}
	if f.Video.Format != "" {
		s.VideoFormat = strings.ToLower(f.Video.Format)
	}
	if len(f.Audio.Formats) > 0 {
		formats, err := ParseAudioFormats(strings.Join(f.Audio.Formats, ","))
		if err != nil {
			return Settings{}, err
		}
		s.AudioFormats = formats
	}
	if f.Audio.BitrateKbps != 0 {
		s.AudioBitrateKbps = f.Audio.BitrateKbps
	}
	s.Naming = NamingOptions{
		Smart:       f.Naming.Smart,
		UseOriginal: f.Naming.OriginalNames,
		BaseName:    strings.TrimSpace(f.Naming.BaseName),
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
