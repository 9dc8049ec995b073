//go:build !windows

package netprobe

import (
	"os"
	"syscall"
)

// Alive answers whether process pid is reachable for signaling. It signals
// pid with signal 0, which the kernel delivers no-op but which still reports
// ESRCH if the process does not exist. This is the same probe-signal
// technique used to detect a dead lock holder in
// altuslabsxyz-devnet-builder's Lock.IsStale: os.FindProcess always succeeds
// on Unix, so the liveness answer comes entirely from the Signal call.
func Alive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
