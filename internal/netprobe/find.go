package netprobe

import (
	"math/rand/v2"

	"github.com/giantswarm/portres/internal/sentinel"
)

// ErrInvalidRange is returned when a search window is empty or malformed
// (lo > hi) after clamping.
const ErrInvalidRange = sentinel.Error("invalid port range")

// ErrNoAvailablePorts is returned when FindPort exhausts its window without
// finding a port that is neither excluded nor already bound.
const ErrNoAvailablePorts = sentinel.Error("no available ports in range")

// maxRandomAttempts bounds the randomized phase of FindPort so that a dense
// window (most ports excluded or bound) falls through to the deterministic
// sweep instead of spinning indefinitely on misses.
const maxRandomAttempts = 100

// FindPort searches [lo, hi] for a port that is not present in excluded and
// that TryBind reports as free, per the random-then-sequential strategy:
// up to min(maxRandomAttempts, hi-lo+1) randomized probes first (fast in a
// sparse registry, and it de-correlates independent allocators that start
// their search at the same instant), then a full sequential sweep of the
// window as a completeness fallback.
//
// excluded may be nil, equivalent to an empty set.
func FindPort(lo, hi uint16, excluded map[uint16]struct{}) (uint16, error) {
	if lo > hi {
		return 0, ErrInvalidRange
	}

	windowSize := int(hi-lo) + 1
	attempts := min(maxRandomAttempts, windowSize)

	for range attempts {
		port := lo + uint16(rand.IntN(windowSize))
		if _, skip := excluded[port]; skip {
			continue
		}
		if TryBind(port) {
			return port, nil
		}
	}

	for port := lo; ; port++ {
		if _, skip := excluded[port]; !skip && TryBind(port) {
			return port, nil
		}
		if port == hi {
			break
		}
	}

	return 0, ErrNoAvailablePorts
}
