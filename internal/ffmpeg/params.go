// Package ffmpeg provides the codec engine boundary: FFmpeg command building
// and execution inside a scratch working directory.
package ffmpeg

import "github.com/aagalakova/Media-processor/internal/config"

// Fixed output parameters.
const (
	AudioSampleRate   = 44100
	AudioChannels     = 2
	VideoAudioBitrate = "128k"
	VideoPreset       = "fast"
)

// CRFForQuality returns the x264 CRF for a quality level.
func CRFForQuality(q config.Quality) int {
	switch q {
	case config.QualityHigh:
		return 18
	case config.QualityLow:
		return 28
	default:
		return 23
	}
}

// VP9CRFForQuality returns the libvpx-vp9 CRF for a quality level.
func VP9CRFForQuality(q config.Quality) int {
	switch q {
	case config.QualityHigh:
		return 31
	case config.QualityLow:
		return 41
	default:
		return 36
	}
}

// MaxBitrateKbps returns the video bitrate cap for a quality level.
func MaxBitrateKbps(q config.Quality) int {
	switch q {
	case config.QualityHigh:
		return 1500
	case config.QualityLow:
		return 500
	default:
		return 1000
	}
}

// AudioCodec is one encoder choice for an audio format.
type AudioCodec struct {
	Name  string
	Extra []string
}

// AudioCodecs returns the encoders for an audio format, preferred first.
// Ogg falls back to the native (experimental) vorbis encoder.
func AudioCodecs(format string) []AudioCodec {
	switch format {
	case "ogg":
		return []AudioCodec{
			{Name: "libvorbis"},
			{Name: "vorbis", Extra: []string{"-strict", "experimental"}},
		}
	default:
		return []AudioCodec{{Name: "libmp3lame"}}
	}
}
