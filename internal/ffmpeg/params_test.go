package ffmpeg

import (
	"slices"
	"strings"
	"testing"

	"github.com/aagalakova/Media-processor/internal/config"
)

func TestQualityTables(t *testing.T) {
	tests := []struct {
		quality config.Quality
		crf     int
		maxRate int
	}{
		{config.QualityHigh, 18, 1500},
		{config.QualityMedium, 23, 1000},
		{config.QualityLow, 28, 500},
		{config.Quality(""), 23, 1000},
	}

	for _, tt := range tests {
		t.Run(string(tt.quality), func(t *testing.T) {
			if got := CRFForQuality(tt.quality); got != tt.crf {
				t.Errorf("CRFForQuality(%q) = %d, want %d", tt.quality, got, tt.crf)
			}
			if got := MaxBitrateKbps(tt.quality); got != tt.maxRate {
				t.Errorf("MaxBitrateKbps(%q) = %d, want %d", tt.quality, got, tt.maxRate)
			}
		})
	}
}

func TestVideoFilterChain(t *testing.T) {
	tests := []struct {
		name  string
		build func() string
		want  string
	}{
		{
			name: "empty chain",
			build: func() string {
				return NewVideoFilterChain().Build()
			},
			want: "",
		},
		{
			name: "scale and pad",
			build: func() string {
				return NewVideoFilterChain().AddScaleToFit(640, 360).AddCenterPad(640, 360).Build()
			},
			want: "scale=640:360:force_original_aspect_ratio=decrease,pad=640:360:(ow-iw)/2:(oh-ih)/2",
		},
		{
			name: "scale only",
			build: func() string {
				return NewVideoFilterChain().AddScaleToFit(1280, 720).Build()
			},
			want: "scale=1280:720:force_original_aspect_ratio=decrease",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.build()
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildAudioArgs(t *testing.T) {
	args := BuildAudioArgs(AudioJob{
		Input:       "input.wav",
		Output:      "output.mp3",
		Codec:       AudioCodecs("mp3")[0],
		BitrateKbps: 999,
		Threads:     1,
	})
	got := strings.Join(args, " ")

	want := "-i input.wav -vn -c:a libmp3lame -b:a 320k -ar 44100 -ac 2 -threads 1 output.mp3"
	if got != want {
		t.Errorf("BuildAudioArgs() = %q, want %q", got, want)
	}
}

func TestBuildAudioArgsVorbisFallback(t *testing.T) {
	codecs := AudioCodecs("ogg")
	if len(codecs) != 2 || codecs[0].Name != "libvorbis" || codecs[1].Name != "vorbis" {
		t.Fatalf("unexpected ogg codecs: %+v", codecs)
	}

	args := BuildAudioArgs(AudioJob{Input: "in.flac", Output: "out.ogg", Codec: codecs[1], BitrateKbps: 16, Threads: -1})
	got := strings.Join(args, " ")
	for _, want := range []string{"-c:a vorbis -strict experimental", "-b:a 32k"} {
		if !strings.Contains(got, want) {
			t.Errorf("args %q missing %q", got, want)
		}
	}
	if slices.Contains(args, "-threads") {
		t.Errorf("negative threads should omit -threads: %q", got)
	}
}

func TestBuildVideoArgs(t *testing.T) {
	args := BuildVideoArgs(VideoJob{
		Input:   "input.mov",
		Output:  "output.mp4",
		Format:  "mp4",
		Width:   640,
		Height:  360,
		Quality: config.QualityHigh,
		Threads: 0,
	})
	got := strings.Join(args, " ")

	for _, want := range []string{
		"-vf scale=640:360:force_original_aspect_ratio=decrease,pad=640:360:(ow-iw)/2:(oh-ih)/2",
		"-c:v libx264",
		"-preset fast",
		"-crf 18",
		"-maxrate 1500k",
		"-c:a aac -b:a 128k",
		"-movflags +faststart",
		"-threads 0",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("args %q missing %q", got, want)
		}
	}
	if args[len(args)-1] != "output.mp4" {
		t.Errorf("output must be last, got %q", args[len(args)-1])
	}
}

func TestBuildVideoArgsWebM(t *testing.T) {
	got := strings.Join(BuildVideoArgs(VideoJob{
		Input: "in.mp4", Output: "out.webm", Format: "webm",
		Width: 320, Height: 240, Quality: config.QualityLow, Threads: 1,
	}), " ")

	for _, want := range []string{"-c:v libvpx-vp9", "-crf 41", "-b:v 500k", "-c:a libopus"} {
		if !strings.Contains(got, want) {
			t.Errorf("args %q missing %q", got, want)
		}
	}
	if strings.Contains(got, "faststart") {
		t.Errorf("webm should not request faststart: %q", got)
	}
}
