package core

import (
	"fmt"

	"github.com/giantswarm/portres/internal/lockfile"
	"github.com/giantswarm/portres/internal/netprobe"
	"github.com/giantswarm/portres/internal/regfile"
	"github.com/giantswarm/portres/internal/sanitize"
	"github.com/giantswarm/portres/internal/sentinel"
)

// Sentinel errors for every anticipated failure mode the engine reports.
// Using sentinel.Error consts instead of errors.New vars prevents
// accidental reassignment and keeps errors.Is working through wrapped
// chains.
const (
	// ErrInvalidPort is returned when a port argument lies outside 1..65535.
	ErrInvalidPort = sentinel.Error("invalid port")

	// ErrInvalidCount is returned when count < 1 or > MaxPortsPerRequest.
	ErrInvalidCount = sentinel.Error("invalid count")

	// ErrPrivilegedNotAllowed is returned when an explicit port or range
	// argument below 1024 is given without AllowPrivileged set.
	ErrPrivilegedNotAllowed = sentinel.Error("privileged port not allowed")

	// ErrRegistryFull is returned when adding the requested entries would
	// exceed MaxRegistrySize.
	ErrRegistryFull = sentinel.Error("registry is full")

	// ErrNotRegistered is returned by Release when no entry matches the
	// given port.
	ErrNotRegistered = sentinel.Error("port not registered")

	// ErrConfigInvalid is returned when Config.Validate reports a problem
	// at a point where the caller expects an error return rather than a
	// panic (construction-time panics are for programmer error; this is
	// for defense in depth).
	ErrConfigInvalid = sentinel.Error("configuration invalid")

	// ErrInvalidPath is re-exported from sanitize so callers only import
	// from core.
	ErrInvalidPath = sanitize.ErrInvalidPath

	// ErrInvalidRange is re-exported from netprobe for the same reason.
	ErrInvalidRange = netprobe.ErrInvalidRange

	// ErrNoAvailablePorts is re-exported from netprobe for the same reason.
	ErrNoAvailablePorts = netprobe.ErrNoAvailablePorts

	// ErrLockTimeout is re-exported from lockfile for the same reason.
	ErrLockTimeout = lockfile.ErrTimeout

	// ErrWriteFailed is re-exported from regfile for the same reason.
	ErrWriteFailed = regfile.ErrWriteFailed
)

// RangeOccupiedError is returned by ReserveRange when a port in the
// requested range is already promised to a (still-active) registry entry.
// It is a struct rather than a sentinel.Error constant because it carries
// the offending port, and is inspected with errors.As.
type RangeOccupiedError struct {
	Port uint16
}

func (e RangeOccupiedError) Error() string {
	return fmt.Sprintf("port %d is already reserved", e.Port)
}

// RangeInUseError is returned by ReserveRange when a port in the requested
// range is not promised by any registry entry but is nonetheless bound by
// something the kernel can see (e.g. a process outside this registry).
type RangeInUseError struct {
	Port uint16
}

func (e RangeInUseError) Error() string {
	return fmt.Sprintf("port %d is in use", e.Port)
}

// NotOwnedByCallerError is returned by Release when the requested port is
// registered, but to a different pid than the caller's own.
type NotOwnedByCallerError struct {
	PID int
}

func (e NotOwnedByCallerError) Error() string {
	return fmt.Sprintf("port is owned by pid %d, not the caller", e.PID)
}
