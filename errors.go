package portres

import (
	"github.com/giantswarm/portres/internal/core"
	"github.com/giantswarm/portres/internal/tracker"
)

// Sentinel errors for error inspection with errors.Is, re-exported from
// internal/core so callers only ever import from the root package.
const (
	// ErrInvalidPath is returned when RegistryDir contains a traversal
	// sequence or a NUL byte.
	ErrInvalidPath = core.ErrInvalidPath

	// ErrInvalidPort is returned when a port argument lies outside 1..65535.
	ErrInvalidPort = core.ErrInvalidPort

	// ErrInvalidRange is returned when min > max or a range exceeds 65535.
	ErrInvalidRange = core.ErrInvalidRange

	// ErrInvalidCount is returned when count < 1 or > MaxPortsPerRequest.
	ErrInvalidCount = core.ErrInvalidCount

	// ErrPrivilegedNotAllowed is returned when an explicit port or range
	// argument below 1024 is given without AllowPrivileged set.
	ErrPrivilegedNotAllowed = core.ErrPrivilegedNotAllowed

	// ErrNoAvailablePorts is returned when the finder exhausts its window
	// without finding a free port.
	ErrNoAvailablePorts = core.ErrNoAvailablePorts

	// ErrRegistryFull is returned when adding the requested entries would
	// exceed MaxRegistrySize.
	ErrRegistryFull = core.ErrRegistryFull

	// ErrNotRegistered is returned by Release when no entry matches the
	// given port.
	ErrNotRegistered = core.ErrNotRegistered

	// ErrLockTimeout is returned when acquiring the registry lock exceeds
	// its deadline.
	ErrLockTimeout = core.ErrLockTimeout

	// ErrWriteFailed is returned when a durable registry write fails.
	ErrWriteFailed = core.ErrWriteFailed

	// ErrConfigInvalid is returned by NewEngine when Config fails
	// validation.
	ErrConfigInvalid = core.ErrConfigInvalid

	// ErrDuplicateTag is returned by Tracker.Allocate when tag is already
	// tracked locally.
	ErrDuplicateTag = tracker.ErrDuplicateTag
)

// RangeOccupiedError is returned by ReserveRange when a port in the requested range is already promised to a (still-active)
// registry entry. It is a struct rather than a sentinel.Error constant
// because it carries the offending port, and is inspected with errors.As.
type RangeOccupiedError = core.RangeOccupiedError

// RangeInUseError is returned by ReserveRange when a port in the
// requested range is not promised by any registry entry but is
// nonetheless bound by something the kernel can see.
type RangeInUseError = core.RangeInUseError

// NotOwnedByCallerError is returned by Release when the requested port is
// registered, but to a different pid than the caller's own.
type NotOwnedByCallerError = core.NotOwnedByCallerError
