package util

import (
	"os"
	"runtime"
)

// SystemInfo describes the host a run executes on.
type SystemInfo struct {
	Hostname string
	NumCPU   int
	OS       string
	Arch     string
}

// GetSystemInfo collects SystemInfo for the run log.
func GetSystemInfo() SystemInfo {
	hostname, _ := os.Hostname()
	return SystemInfo{
		Hostname: hostname,
		NumCPU:   runtime.NumCPU(),
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
	}
}

// LogicalCores returns the number of logical CPUs.
func LogicalCores() int {
	return runtime.NumCPU()
}

// MultiThreadCapable reports whether the host can usefully run a threaded
// codec engine.
func MultiThreadCapable() bool {
	return LogicalCores() > 1
}

// EncoderThreads returns the thread count to hand to a threaded engine.
// Zero lets the engine decide. Responsive mode leaves one core free.
func EncoderThreads(responsive bool) int {
	if !responsive {
		return 0
	}
	return max(LogicalCores()-1, 1)
}
