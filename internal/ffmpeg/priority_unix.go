//go:build unix

package ffmpeg

import "golang.org/x/sys/unix"

// enginePriority is the nice value given to engine processes in responsive mode.
const enginePriority = 10

func lowerPriority(pid int) error {
	return unix.Setpriority(unix.PRIO_PROCESS, pid, enginePriority)
}
