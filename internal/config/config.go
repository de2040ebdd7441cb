package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default constants
const (
	// DefaultEngineLoadTimeout bounds each engine source probe.
	DefaultEngineLoadTimeout = 30 * time.Second

	// DefaultAudioTimeout bounds one audio transcode.
	DefaultAudioTimeout = 2 * time.Minute

	// DefaultVideoTimeout bounds one video transcode.
	DefaultVideoTimeout = 10 * time.Minute

	// DefaultMaxImagePixels is the largest source image accepted for decoding
	// (100MP, ~400MB as NRGBA). Bigger sources fail as decode errors.
	DefaultMaxImagePixels = 100_000_000

	// EnvEngineSources names the environment variable holding extra engine
	// binaries, separated by the OS path list separator.
	EnvEngineSources = "MEDIAPROC_FFMPEG"
)

// DefaultEngineSources is the ordered list of engine binaries tried for both
// tiers when nothing else is configured.
var DefaultEngineSources = []string{
	"ffmpeg",
	"/usr/local/bin/ffmpeg",
	"/usr/bin/ffmpeg",
	"/opt/homebrew/bin/ffmpeg",
}

// Config holds process-level configuration shared by every run.
type Config struct {
	// Input/output paths
	OutputDir string
	LogDir    string
	WorkDir   string // Engine scratch space, defaults to the OS temp dir

	// Codec engine negotiation
	MultiThreadSources  []string
	SingleThreadSources []string
	ForceSingleThread   bool
	Responsive          bool // Run the engine at reduced priority and leave a core free

	// Deadlines
	EngineLoadTimeout time.Duration
	AudioTimeout      time.Duration
	VideoTimeout      time.Duration

	// Image decoding
	MaxImagePixels int
}

// NewConfig creates a new Config with default values.
func NewConfig(outputDir, logDir string) *Config {
	return &Config{
		OutputDir:           outputDir,
		LogDir:              logDir,
		MultiThreadSources:  append([]string(nil), DefaultEngineSources...),
		SingleThreadSources: append([]string(nil), DefaultEngineSources...),
		EngineLoadTimeout:   DefaultEngineLoadTimeout,
		AudioTimeout:        DefaultAudioTimeout,
		VideoTimeout:        DefaultVideoTimeout,
		MaxImagePixels:      DefaultMaxImagePixels,
	}
}

// ApplyEnv prepends engine binaries named in EnvEngineSources to both tiers.
func (c *Config) ApplyEnv() {
	raw := strings.TrimSpace(os.Getenv(EnvEngineSources))
	if raw == "" {
		return
	}
	var local []string
	for _, p := range filepath.SplitList(raw) {
		if p = strings.TrimSpace(p); p != "" {
			local = append(local, p)
		}
	}
	c.PrependEngineSources(local...)
}

// PrependEngineSources puts paths ahead of the configured sources of both
// tiers. Duplicates keep their first position.
func (c *Config) PrependEngineSources(paths ...string) {
	if len(paths) == 0 {
		return
	}
	c.MultiThreadSources = prependUnique(paths, c.MultiThreadSources)
	c.SingleThreadSources = prependUnique(paths, c.SingleThreadSources)
}

func prependUnique(front, rest []string) []string {
	seen := make(map[string]bool, len(front)+len(rest))
	out := make([]string, 0, len(front)+len(rest))
	for _, list := range [][]string{front, rest} {
		for _, s := range list {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if len(c.MultiThreadSources) == 0 && len(c.SingleThreadSources) == 0 {
		return ErrNoEngineSources
	}

	timeouts := []struct {
		name  string
		value time.Duration
	}{
		{"engine_load_timeout", c.EngineLoadTimeout},
		{"audio_timeout", c.AudioTimeout},
		{"video_timeout", c.VideoTimeout},
	}
	for _, t := range timeouts {
		if t.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidTimeout, t.name, t.value)
		}
	}

	if c.MaxImagePixels <= 0 {
		return fmt.Errorf("%w: max_image_pixels must be positive, got %d", ErrInvalidSize, c.MaxImagePixels)
	}

	return nil
}

// GetWorkDir returns the engine scratch directory, falling back to the OS temp dir.
func (c *Config) GetWorkDir() string {
	if c.WorkDir != "" {
		return c.WorkDir
	}
	return os.TempDir()
}
