package config

import (
	"fmt"
	"image/color"
	"slices"
	"strings"

	"github.com/aagalakova/Media-processor/internal/media"
)

const (
	// DefaultAudioBitrateKbps is the bitrate offered when none is chosen.
	DefaultAudioBitrateKbps = 128

	// MinAudioBitrateKbps and MaxAudioBitrateKbps bound the audio bitrate.
	MinAudioBitrateKbps = 32
	MaxAudioBitrateKbps = 320

	// DefaultVideoFormat is the container used when none is chosen.
	DefaultVideoFormat = "mp4"
)

// DefaultVideoResolution is the target frame for transcoded video.
var DefaultVideoResolution = Size{Width: 640, Height: 360}

// Supported output formats.
var (
	ImageFormats = []string{"png", "jpg", "webp"}
	AudioFormats = []string{"mp3", "ogg"}
	VideoFormats = []string{"mp4", "webm", "mov", "mkv"}
)

// Quality is the video quality level.
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

// String returns the string representation of the quality.
func (q Quality) String() string {
	return string(q)
}

// NamingOptions controls how output names are derived.
type NamingOptions struct {
	// Smart names outputs by media type or BaseName with per-group counters.
	Smart bool
	// UseOriginal keeps the original file stem. It takes precedence over Smart.
	UseOriginal bool
	// BaseName replaces the type prefix in smart mode.
	BaseName string
}

// Settings is the user-chosen parameter set for one run. A run works on its
// own copy, so later edits never affect a batch in flight.
type Settings struct {
	ImageSizes   []Size
	ImageFormats []string // empty means keep the source format
	Background   Background

	VideoResolution Size
	VideoQuality    Quality
	VideoFormat     string

	AudioFormats     []string // empty means audio passes through
	AudioBitrateKbps int

	Naming NamingOptions
}

// DefaultSettings returns the settings a fresh session starts with.
func DefaultSettings() Settings {
	return Settings{
		Background:       Background{Kind: BackgroundWhite},
		VideoResolution:  DefaultVideoResolution,
		VideoQuality:     QualityMedium,
		VideoFormat:      DefaultVideoFormat,
		AudioBitrateKbps: DefaultAudioBitrateKbps,
	}
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	c := s
	c.ImageSizes = slices.Clone(s.ImageSizes)
	c.ImageFormats = slices.Clone(s.ImageFormats)
	c.AudioFormats = slices.Clone(s.AudioFormats)
	return c
}

// Validate checks the settings for errors.
func (s Settings) Validate() error {
	for _, size := range s.ImageSizes {
		if err := size.validate(); err != nil {
			return err
		}
	}
	for _, f := range s.ImageFormats {
		if !slices.Contains(ImageFormats, f) {
			return fmt.Errorf("%w: image format '%s', valid options: %s", ErrInvalidFormat, f, strings.Join(ImageFormats, ", "))
		}
	}
	for _, f := range s.AudioFormats {
		if !slices.Contains(AudioFormats, f) {
			return fmt.Errorf("%w: audio format '%s', valid options: %s", ErrInvalidFormat, f, strings.Join(AudioFormats, ", "))
		}
	}
	if s.VideoFormat != "" && !slices.Contains(VideoFormats, strings.ToLower(s.VideoFormat)) {
		return fmt.Errorf("%w: video format '%s', valid options: %s", ErrInvalidFormat, s.VideoFormat, strings.Join(VideoFormats, ", "))
	}
	if err := s.VideoResolution.validate(); err != nil {
		return fmt.Errorf("video resolution: %w", err)
	}
	if s.VideoQuality != "" {
		if _, err := ParseQuality(string(s.VideoQuality)); err != nil {
			return err
		}
	}
	if s.AudioBitrateKbps != 0 && (s.AudioBitrateKbps < MinAudioBitrateKbps || s.AudioBitrateKbps > MaxAudioBitrateKbps) {
		return fmt.Errorf("%w: must be %d-%d kbps, got %d", ErrInvalidBitrate, MinAudioBitrateKbps, MaxAudioBitrateKbps, s.AudioBitrateKbps)
	}
	return nil
}

// ImageFormatsFor returns the output formats for an image input: the
// selected list, or the format inferred from the source.
func (s Settings) ImageFormatsFor(f media.InputFile) []string {
	if len(s.ImageFormats) > 0 {
		return s.ImageFormats
	}
	return []string{media.InferImageFormat(f)}
}

// ImageSizesFor returns the target sizes for a source of the given native
// size. With no sizes selected the native size is the only target.
func (s Settings) ImageSizesFor(native Size) []Size {
	if len(s.ImageSizes) > 0 {
		return s.ImageSizes
	}
	return []Size{native}
}

// ImageSizeCount is the number of sizes rendered per format. It never
// depends on the source pixels, so it can be computed before decoding.
func (s Settings) ImageSizeCount() int {
	return max(len(s.ImageSizes), 1)
}

// VideoOutputFormat returns the lowercased video container.
func (s Settings) VideoOutputFormat() string {
	if s.VideoFormat == "" {
		return DefaultVideoFormat
	}
	return strings.ToLower(s.VideoFormat)
}

// AudioBitrate returns the bitrate in kbps, clamped to the accepted range.
func (s Settings) AudioBitrate() int {
	return ClampAudioBitrate(s.AudioBitrateKbps)
}

// ClampAudioBitrate clamps kbps to the accepted range. Zero means the default.
func ClampAudioBitrate(kbps int) int {
	if kbps == 0 {
		return DefaultAudioBitrateKbps
	}
	return min(max(kbps, MinAudioBitrateKbps), MaxAudioBitrateKbps)
}

// BackgroundKind names a canvas fill.
type BackgroundKind int

const (
	BackgroundWhite BackgroundKind = iota
	BackgroundLightGray
	BackgroundTransparent
	BackgroundBlack
	BackgroundCustom
)

// Background is the fill used around scaled images.
type Background struct {
	Kind BackgroundKind
	// Hex is the validated #rgb or #rrggbb value for BackgroundCustom.
	Hex string
}

// String returns the background name, or the hex value for custom colours.
func (b Background) String() string {
	switch b.Kind {
	case BackgroundLightGray:
		return "lightgray"
	case BackgroundTransparent:
		return "transparent"
	case BackgroundBlack:
		return "black"
	case BackgroundCustom:
		return b.Hex
	default:
		return "white"
	}
}

// Transparent reports whether the background asks for an empty canvas.
func (b Background) Transparent() bool {
	return b.Kind == BackgroundTransparent
}

// Color returns the opaque fill colour. Transparent yields white, which is
// what formats without alpha receive.
func (b Background) Color() color.NRGBA {
	switch b.Kind {
	case BackgroundLightGray:
		return color.NRGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	case BackgroundBlack:
		return color.NRGBA{A: 0xff}
	case BackgroundCustom:
		if c, ok := parseHexColor(b.Hex); ok {
			return c
		}
	}
	return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
}
