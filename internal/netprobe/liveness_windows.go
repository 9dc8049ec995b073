//go:build windows

package netprobe

import "os"

// Alive answers whether process pid is reachable for signaling. Unlike Unix,
// os.FindProcess on Windows actually opens a handle to the process and fails
// if it does not exist, so the liveness answer comes entirely from
// FindProcess instead of a subsequent Signal call.
func Alive(pid int) bool {
	_, err := os.FindProcess(pid)
	return err == nil
}
