// Package config provides configuration types and defaults for the media processor.
package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrInvalidSize indicates a malformed or non-positive WxH value.
	ErrInvalidSize = errors.New("invalid size")

	// ErrInvalidFormat indicates an unsupported output format.
	ErrInvalidFormat = errors.New("unsupported format")

	// ErrInvalidQuality indicates an unknown video quality level.
	ErrInvalidQuality = errors.New("invalid quality")

	// ErrInvalidBackground indicates an unknown background name.
	ErrInvalidBackground = errors.New("invalid background")

	// ErrInvalidBitrate indicates an audio bitrate outside the accepted range.
	ErrInvalidBitrate = errors.New("audio bitrate out of range")

	// ErrInvalidTimeout indicates a non-positive engine timeout.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrNoEngineSources indicates no codec engine locations were configured.
	ErrNoEngineSources = errors.New("no codec engine sources configured")
)
