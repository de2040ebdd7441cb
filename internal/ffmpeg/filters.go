package ffmpeg

import (
	"fmt"
	"strings"
)

// VideoFilterChain builds video filter chains.
type VideoFilterChain struct {
	filters []string
}

// NewVideoFilterChain creates a new empty filter chain.
func NewVideoFilterChain() *VideoFilterChain {
	return &VideoFilterChain{}
}

// AddScaleToFit scales the frame down or up until it fits inside w x h,
// keeping the aspect ratio.
func (c *VideoFilterChain) AddScaleToFit(w, h int) *VideoFilterChain {
	c.filters = append(c.filters, fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", w, h))
	return c
}

// AddCenterPad pads the frame to exactly w x h with the picture centred.
func (c *VideoFilterChain) AddCenterPad(w, h int) *VideoFilterChain {
	c.filters = append(c.filters, fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2", w, h))
	return c
}

// Build builds the filter chain into a single filter string.
// Returns empty string if no filters are present.
func (c *VideoFilterChain) Build() string {
	if len(c.filters) == 0 {
		return ""
	}
	return strings.Join(c.filters, ",")
}
