// Package util holds small helpers shared by the processing packages:
// size and time formatting, file names, scratch directories and CPU info.
package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var byteUnits = []string{"KiB", "MiB", "GiB", "TiB"}

// FormatBytes renders n with a binary unit, e.g. "47.08 KiB".
func FormatBytes(n uint64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	v := float64(n) / 1024
	unit := 0
	for v >= 1024 && unit < len(byteUnits)-1 {
		v /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", v, byteUnits[unit])
}

// FormatBitrate renders an audio bitrate label such as "192kbps".
func FormatBitrate(kbps int) string {
	return strconv.Itoa(kbps) + "kbps"
}

// FormatDuration renders seconds as HH:MM:SS. Negative or NaN input yields
// "??:??:??".
func FormatDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		return "??:??:??"
	}
	s := int64(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s/60%60, s%60)
}

// ParseFFmpegTime converts an engine "time=" value (HH:MM:SS.ms) to seconds.
func ParseFFmpegTime(value string) (float64, bool) {
	fields := strings.Split(value, ":")
	if len(fields) != 3 {
		return 0, false
	}
	var total float64
	for _, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return 0, false
		}
		total = total*60 + n
	}
	return total, true
}

// CalculateSizeReduction returns how much smaller output is than input, in
// percent. Growth gives a negative value; an empty input gives zero.
func CalculateSizeReduction(inputSize, outputSize uint64) float64 {
	if inputSize == 0 {
		return 0
	}
	return 100 * (1 - float64(outputSize)/float64(inputSize))
}
