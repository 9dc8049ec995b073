// Package netprobe answers the two questions the allocation engine needs
// about the outside world: whether a process is still alive (for stale-entry
// eviction) and whether a TCP port is free on loopback (for picking a port to
// allocate).
package netprobe
