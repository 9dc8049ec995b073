package portres

import "github.com/giantswarm/portres/internal/core"

// Allocation is a port handed out by the allocator, plus the (possibly
// empty, sanitized) tag it was allocated under.
type Allocation struct {
	Port uint16
	Tag  string
}

func fromCoreAllocation(a core.Allocation) Allocation {
	return Allocation{Port: a.Port, Tag: a.Tag}
}

func fromCoreAllocations(as []core.Allocation) []Allocation {
	out := make([]Allocation, len(as))
	for i, a := range as {
		out[i] = fromCoreAllocation(a)
	}
	return out
}

// Status summarizes the registry's current state, as returned by
// Engine.Status.
type Status struct {
	// Active is the number of non-stale entries currently registered.
	Active int
	// Stale is the number of entries evicted as part of producing this
	// status (liveness- or age-based).
	Stale int
	// OwnedByMe is the subset of Active entries owned by this process.
	OwnedByMe int
	// MinPort and MaxPort report the Engine's configured search window.
	MinPort uint16
	MaxPort uint16
}

func fromCoreStatus(s core.Status) Status {
	return Status{
		Active:    s.Active,
		Stale:     s.Stale,
		OwnedByMe: s.OwnedByMe,
		MinPort:   s.MinPort,
		MaxPort:   s.MaxPort,
	}
}

// GetPortsOptions selects one of GetPorts's two allocation modes.
//
// Exactly one of Tag or Tags should be set. If both are zero-valued,
// GetPorts behaves as shared-tag mode with an empty tag. If both are
// set, Tags takes precedence.
type GetPortsOptions struct {
	// Tag selects shared-tag mode: all requested ports are allocated in
	// a single critical section and carry this one tag.
	Tag string

	// Tags selects per-port-tag mode: len(Tags) must equal the requested
	// count, and each port is allocated in its own critical section,
	// carrying the corresponding tag. See GetPorts's doc comment for the
	// transactionality caveat this mode carries.
	Tags []string
}
