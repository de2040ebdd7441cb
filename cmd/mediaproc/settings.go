package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aagalakova/Media-processor/internal/config"
)

// settingsFlags holds the per-run settings flags shared by process and plan.
type settingsFlags struct {
	settingsFile    string
	sizes           string
	imageFormats    string
	background      string
	videoResolution string
	videoQuality    string
	videoFormat     string
	audioFormats    string
	audioBitrate    int
	smart           bool
	baseName        string
	originalNames   bool
	includeOther    bool
}

func (f *settingsFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.settingsFile, "settings", "", "YAML settings file; flags override its values")
	fs.StringVar(&f.sizes, "sizes", "", `Image sizes, e.g. "800x800, 400x400" (default: source size)`)
	fs.StringVar(&f.imageFormats, "formats", "", "Image formats: png, jpg, webp (default: source format)")
	fs.StringVar(&f.background, "background", "white", "Image background: white, lightgray, black, transparent or #rrggbb")
	fs.StringVar(&f.videoResolution, "video-resolution", config.DefaultVideoResolution.String(), "Video frame size WxH")
	fs.StringVar(&f.videoQuality, "video-quality", string(config.QualityMedium), "Video quality: low, medium, high")
	fs.StringVar(&f.videoFormat, "video-format", config.DefaultVideoFormat, "Video container: mp4, webm, mov, mkv")
	fs.StringVar(&f.audioFormats, "audio-formats", "", "Audio formats: mp3, ogg (default: keep source)")
	fs.IntVar(&f.audioBitrate, "audio-bitrate", config.DefaultAudioBitrateKbps, fmt.Sprintf("Audio bitrate in kbps (%d-%d)", config.MinAudioBitrateKbps, config.MaxAudioBitrateKbps))
	fs.BoolVar(&f.smart, "smart", false, "Smart naming: shared base name with automatic numbering")
	fs.StringVar(&f.baseName, "base", "", "Base name for outputs (smart naming) ")
	fs.BoolVar(&f.originalNames, "original-names", false, "Keep original file names")
	fs.BoolVar(&f.includeOther, "include-other", false, "Also pick up non-media files from input directories")
}

// build returns the run settings: defaults, then the settings file, then
// every flag the user set explicitly.
func (f *settingsFlags) build(cmd *cobra.Command) (config.Settings, error) {
	s := config.DefaultSettings()
	if f.settingsFile != "" {
		loaded, err := config.LoadSettingsFile(f.settingsFile)
		if err != nil {
			return s, err
		}
		s = loaded
	}

	changed := cmd.Flags().Changed

	if changed("sizes") {
		s.ImageSizes = config.ParseSizes(f.sizes)
	}
	if changed("formats") {
		formats, err := config.ParseImageFormats(f.imageFormats)
		if err != nil {
			return s, err
		}
		s.ImageFormats = formats
	}
	if changed("background") {
		bg, err := config.ParseBackground(f.background)
		if err != nil {
			return s, err
		}
		s.Background = bg
	}
	if changed("video-resolution") {
		size, err := config.ParseSize(f.videoResolution)
		if err != nil {
			return s, err
		}
		s.VideoResolution = size
	}
	if changed("video-quality") {
		q, err := config.ParseQuality(f.videoQuality)
		if err != nil {
			return s, err
		}
		s.VideoQuality = q
	}
	if changed("video-format") {
		s.VideoFormat = f.videoFormat
	}
	if changed("audio-formats") {
		formats, err := config.ParseAudioFormats(f.audioFormats)
		if err != nil {
			return s, err
		}
		s.AudioFormats = formats
	}
	if changed("audio-bitrate") {
		s.AudioBitrateKbps = f.audioBitrate
	}
	if changed("smart") {
		s.Naming.Smart = f.smart
	}
	if changed("base") {
		s.Naming.BaseName = f.baseName
	}
	if changed("original-names") {
		s.Naming.UseOriginal = f.originalNames
	}

	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}
