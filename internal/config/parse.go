package config

import (
	"fmt"
	"image/color"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Size is a width and height in pixels.
type Size struct {
	Width  int
	Height int
}

// String formats the size as WxH.
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

func (s Size) validate() error {
	if s.Width < 1 || s.Height < 1 {
		return fmt.Errorf("%w: %s, both dimensions must be at least 1", ErrInvalidSize, s)
	}
	return nil
}

var sizePattern = regexp.MustCompile(`(?i)^(\d+)\s*x\s*(\d+)$`)

// ParseSize parses a single "WxH" value.
func ParseSize(raw string) (Size, error) {
	m := sizePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return Size{}, fmt.Errorf("%w: '%s', expected WxH", ErrInvalidSize, raw)
	}
	w, errW := strconv.Atoi(m[1])
	h, errH := strconv.Atoi(m[2])
	if errW != nil || errH != nil {
		return Size{}, fmt.Errorf("%w: '%s'", ErrInvalidSize, raw)
	}
	s := Size{Width: w, Height: h}
	if err := s.validate(); err != nil {
		return Size{}, err
	}
	return s, nil
}

// ParseSizes parses a comma-separated list such as "800x800, 400x300".
// Entries that do not parse are skipped and dimensions are raised to at
// least 1.
func ParseSizes(raw string) []Size {
	var sizes []Size
	for _, part := range strings.Split(raw, ",") {
		m := sizePattern.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			continue
		}
		w, errW := strconv.Atoi(m[1])
		h, errH := strconv.Atoi(m[2])
		if errW != nil || errH != nil {
			continue
		}
		sizes = append(sizes, Size{Width: max(w, 1), Height: max(h, 1)})
	}
	return sizes
}

// ParseQuality parses a video quality level.
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return QualityLow, nil
	case "medium":
		return QualityMedium, nil
	case "high":
		return QualityHigh, nil
	default:
		return "", fmt.Errorf("%w: '%s', valid options: low, medium, high", ErrInvalidQuality, s)
	}
}

var hexPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// ParseBackground parses a background name or a #rgb/#rrggbb colour.
// A malformed hex value degrades to white; an unknown name is an error.
func ParseBackground(s string) (Background, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "custom:")
	switch v {
	case "", "white":
		return Background{Kind: BackgroundWhite}, nil
	case "lightgray", "lightgrey", "light-gray":
		return Background{Kind: BackgroundLightGray}, nil
	case "transparent":
		return Background{Kind: BackgroundTransparent}, nil
	case "black":
		return Background{Kind: BackgroundBlack}, nil
	}
	if strings.HasPrefix(v, "#") {
		if hexPattern.MatchString(v) {
			return Background{Kind: BackgroundCustom, Hex: v}, nil
		}
		return Background{Kind: BackgroundWhite}, nil
	}
	return Background{}, fmt.Errorf("%w: '%s', valid options: white, lightgray, transparent, black, #rrggbb", ErrInvalidBackground, s)
}

func parseHexColor(hex string) (color.NRGBA, bool) {
	if !hexPattern.MatchString(hex) {
		return color.NRGBA{}, false
	}
	digits := hex[1:]
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}

// ParseImageFormats parses a comma-separated list of image formats,
// normalising "jpeg" to "jpg" and dropping duplicates.
func ParseImageFormats(raw string) ([]string, error) {
	return parseFormatList(raw, ImageFormats, map[string]string{"jpeg": "jpg"})
}

// ParseAudioFormats parses a comma-separated list of audio formats.
func ParseAudioFormats(raw string) ([]string, error) {
	return parseFormatList(raw, AudioFormats, map[string]string{"vorbis": "ogg"})
}

func parseFormatList(raw string, valid []string, aliases map[string]string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		f := strings.ToLower(strings.TrimSpace(part))
		if f == "" {
			continue
		}
		if alias, ok := aliases[f]; ok {
			f = alias
		}
		if !slices.Contains(valid, f) {
			return nil, fmt.Errorf("%w: '%s', valid options: %s", ErrInvalidFormat, part, strings.Join(valid, ", "))
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}
