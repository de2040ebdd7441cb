package ffmpeg

import (
	"fmt"
	"strconv"

	"github.com/aagalakova/Media-processor/internal/config"
)

// AudioJob describes one audio transcode inside the engine working directory.
type AudioJob struct {
	Input       string
	Output      string
	Codec       AudioCodec
	BitrateKbps int
	Threads     int
}

// BuildAudioArgs builds the engine arguments for an audio transcode.
func BuildAudioArgs(job AudioJob) []string {
	args := []string{"-i", job.Input, "-vn", "-c:a", job.Codec.Name}
	args = append(args, job.Codec.Extra...)
	args = append(args,
		"-b:a", fmt.Sprintf("%dk", config.ClampAudioBitrate(job.BitrateKbps)),
		"-ar", strconv.Itoa(AudioSampleRate),
		"-ac", strconv.Itoa(AudioChannels),
	)
	args = appendThreads(args, job.Threads)
	return append(args, job.Output)
}

// VideoJob describes one video transcode inside the engine working directory.
type VideoJob struct {
	Input   string
	Output  string
	Format  string
	Width   int
	Height  int
	Quality config.Quality
	Threads int
}

// BuildVideoArgs builds the engine arguments for a video transcode: scale
// to fit the target frame, pad the rest, encode with the container's codecs.
func BuildVideoArgs(job VideoJob) []string {
	filter := NewVideoFilterChain().
		AddScaleToFit(job.Width, job.Height).
		AddCenterPad(job.Width, job.Height).
		Build()

	args := []string{"-i", job.Input, "-vf", filter}
	maxRate := MaxBitrateKbps(job.Quality)

	switch job.Format {
	case "webm":
		args = append(args,
			"-c:v", "libvpx-vp9",
			"-crf", strconv.Itoa(VP9CRFForQuality(job.Quality)),
			"-b:v", fmt.Sprintf("%dk", maxRate),
			"-row-mt", "1",
			"-c:a", "libopus",
			"-b:a", VideoAudioBitrate,
		)
	default:
		args = append(args,
			"-c:v", "libx264",
			"-preset", VideoPreset,
			"-crf", strconv.Itoa(CRFForQuality(job.Quality)),
			"-maxrate", fmt.Sprintf("%dk", maxRate),
			"-bufsize", fmt.Sprintf("%dk", maxRate*2),
			"-pix_fmt", "yuv420p",
			"-c:a", "aac",
			"-b:a", VideoAudioBitrate,
		)
		if job.Format == "mp4" || job.Format == "mov" {
			args = append(args, "-movflags", "+faststart")
		}
	}

	args = appendThreads(args, job.Threads)
	return append(args, job.Output)
}

func appendThreads(args []string, threads int) []string {
	if threads < 0 {
		return args
	}
	return append(args, "-threads", strconv.Itoa(threads))
}
