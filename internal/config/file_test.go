package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSettings = `
image:
  sizes: "800x800, 400x400"
  formats: [png, jpeg]
  background: "#336699"
video:
  resolution: 1280x720
  quality: high
  format: webm
audio:
  formats: [mp3, ogg]
  bitrate_kbps: 192
naming:
  smart: true
  base_name: logo
`

func TestLoadSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleSettings), 0644))

	s, err := LoadSettingsFile(path)
	require.NoError(t, err)

	assert.Equal(t, []Size{{800, 800}, {400, 400}}, s.ImageSizes)
	assert.Equal(t, []string{"png", "jpg"}, s.ImageFormats)
	assert.Equal(t, "#336699", s.Background.String())
	assert.Equal(t, Size{1280, 720}, s.VideoResolution)
	assert.Equal(t, QualityHigh, s.VideoQuality)
	assert.Equal(t, "webm", s.VideoFormat)
	assert.Equal(t, []string{"mp3", "ogg"}, s.AudioFormats)
	assert.Equal(t, 192, s.AudioBitrateKbps)
	assert.True(t, s.Naming.Smart)
	assert.Equal(t, "logo", s.Naming.BaseName)
}

func TestParseSettingsKeepsDefaults(t *testing.T) {
	s, err := ParseSettings([]byte("naming:\n  original_names: true\n"))
	require.NoError(t, err)

	def := DefaultSettings()
	assert.Equal(t, def.VideoResolution, s.VideoResolution)
	assert.Equal(t, def.VideoQuality, s.VideoQuality)
	assert.Equal(t, def.AudioBitrateKbps, s.AudioBitrateKbps)
	assert.True(t, s.Naming.UseOriginal)
}

func TestParseSettingsErrors(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		sentinel error
	}{
		{"bad quality", "video:\n  quality: extreme\n", ErrInvalidQuality},
		{"bad audio", "audio:\n  formats: [flac]\n", ErrInvalidFormat},
		{"bad bitrate", "audio:\n  bitrate_kbps: 1000\n", ErrInvalidBitrate},
		{"bad resolution", "video:\n  resolution: big\n", ErrInvalidSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSettings([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}

	_, err := ParseSettings([]byte("image: [unclosed"))
	assert.Error(t, err)
}

func TestLoadSettingsFileMissing(t *testing.T) {
	_, err := LoadSettingsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
