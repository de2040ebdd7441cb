package config

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aagalakova/Media-processor/internal/media"
)

func TestParseSizes(t *testing.T) {
	tests := []struct {
		raw  string
		want []Size
	}{
		{"100x100, 50x50", []Size{{100, 100}, {50, 50}}},
		{"800X600", []Size{{800, 600}}},
		{"10 x 20,bogus, 30x", []Size{{10, 20}}},
		{"0x5", []Size{{1, 5}}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSizes(tt.raw))
		})
	}
}

func TestParseSize(t *testing.T) {
	s, err := ParseSize("1280x720")
	require.NoError(t, err)
	assert.Equal(t, Size{1280, 720}, s)
	assert.Equal(t, "1280x720", s.String())

	_, err = ParseSize("0x720")
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = ParseSize("wide")
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestParseQuality(t *testing.T) {
	q, err := ParseQuality("HIGH")
	require.NoError(t, err)
	assert.Equal(t, QualityHigh, q)

	_, err = ParseQuality("ultra")
	assert.ErrorIs(t, err, ErrInvalidQuality)
}

func TestParseBackground(t *testing.T) {
	tests := []struct {
		raw   string
		want  string
		color color.NRGBA
	}{
		{"white", "white", color.NRGBA{0xff, 0xff, 0xff, 0xff}},
		{"lightgray", "lightgray", color.NRGBA{0xf0, 0xf0, 0xf0, 0xff}},
		{"black", "black", color.NRGBA{0, 0, 0, 0xff}},
		{"#FF8800", "#ff8800", color.NRGBA{0xff, 0x88, 0x00, 0xff}},
		{"custom:#0a0", "#0a0", color.NRGBA{0x00, 0xaa, 0x00, 0xff}},
		{"#12345", "white", color.NRGBA{0xff, 0xff, 0xff, 0xff}},
		{"transparent", "transparent", color.NRGBA{0xff, 0xff, 0xff, 0xff}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			bg, err := ParseBackground(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, bg.String())
			assert.Equal(t, tt.color, bg.Color())
		})
	}

	_, err := ParseBackground("plaid")
	assert.ErrorIs(t, err, ErrInvalidBackground)
}

func TestParseFormats(t *testing.T) {
	formats, err := ParseImageFormats("PNG, jpeg, jpg,webp")
	require.NoError(t, err)
	assert.Equal(t, []string{"png", "jpg", "webp"}, formats)

	_, err = ParseImageFormats("png,tiff")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	audio, err := ParseAudioFormats("mp3,vorbis")
	require.NoError(t, err)
	assert.Equal(t, []string{"mp3", "ogg"}, audio)
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*Settings)
		sentinel error
	}{
		{"defaults", func(s *Settings) {}, nil},
		{"bad image format", func(s *Settings) { s.ImageFormats = []string{"gif"} }, ErrInvalidFormat},
		{"bad audio format", func(s *Settings) { s.AudioFormats = []string{"wav"} }, ErrInvalidFormat},
		{"bad video format", func(s *Settings) { s.VideoFormat = "avi" }, ErrInvalidFormat},
		{"zero size", func(s *Settings) { s.ImageSizes = []Size{{0, 10}} }, ErrInvalidSize},
		{"zero resolution", func(s *Settings) { s.VideoResolution = Size{} }, ErrInvalidSize},
		{"unknown quality", func(s *Settings) { s.VideoQuality = "best" }, ErrInvalidQuality},
		{"bitrate too low", func(s *Settings) { s.AudioBitrateKbps = 16 }, ErrInvalidBitrate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)
			err := s.Validate()
			if tt.sentinel == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestClampAudioBitrate(t *testing.T) {
	assert.Equal(t, DefaultAudioBitrateKbps, ClampAudioBitrate(0))
	assert.Equal(t, 32, ClampAudioBitrate(8))
	assert.Equal(t, 320, ClampAudioBitrate(999))
	assert.Equal(t, 192, ClampAudioBitrate(192))
}

func TestSettingsClone(t *testing.T) {
	s := DefaultSettings()
	s.ImageSizes = []Size{{10, 10}}
	s.AudioFormats = []string{"mp3"}

	c := s.Clone()
	s.ImageSizes[0] = Size{99, 99}
	s.AudioFormats[0] = "ogg"

	assert.Equal(t, Size{10, 10}, c.ImageSizes[0])
	assert.Equal(t, "mp3", c.AudioFormats[0])
}

func TestImageTargets(t *testing.T) {
	s := DefaultSettings()
	png := media.InputFile{OriginalName: "a.png"}

	assert.Equal(t, []string{"png"}, s.ImageFormatsFor(png))
	assert.Equal(t, 1, s.ImageSizeCount())
	assert.Equal(t, []Size{{300, 200}}, s.ImageSizesFor(Size{300, 200}))

	s.ImageFormats = []string{"jpg", "webp"}
	s.ImageSizes = []Size{{100, 100}, {50, 50}}
	assert.Equal(t, []string{"jpg", "webp"}, s.ImageFormatsFor(png))
	assert.Equal(t, 2, s.ImageSizeCount())
	assert.Equal(t, s.ImageSizes, s.ImageSizesFor(Size{300, 200}))
}

func TestVideoOutputFormat(t *testing.T) {
	s := DefaultSettings()
	s.VideoFormat = ""
	assert.Equal(t, "mp4", s.VideoOutputFormat())
	s.VideoFormat = "WEBM"
	assert.Equal(t, "webm", s.VideoOutputFormat())
}
