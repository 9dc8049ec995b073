package portres

import (
	"context"

	"github.com/giantswarm/portres/internal/core"
)

// Engine is a configured, ready-to-use allocator bound to one registry
// directory. Engine wraps *internal/core.Engine, keeping the internal
// representation out of the public signature while avoiding
// field-by-field duplication of its methods.
//
// Engine is safe for concurrent use: every method takes the cross-process
// registry lock for its own critical section.
type Engine struct {
	e *core.Engine
}

// NewEngine constructs an Engine from cfg.
//
// Returns ErrInvalidPath if cfg.RegistryDir fails sanitization, or
// ErrConfigInvalid if any other field is invalid after the privileged-port
// window is clamped (see Config's field docs).
func NewEngine(cfg Config) (*Engine, error) {
	ce, err := core.New(cfg.Config, nil)
	if err != nil {
		return nil, err
	}
	return &Engine{e: ce}, nil
}

// Config returns the Engine's effective (clamped, sanitized) configuration.
func (eng *Engine) Config() Config { return Config{Config: eng.e.Config()} }

// Get allocates one port tagged with tag (tag may be empty).
func (eng *Engine) Get(ctx context.Context, tag string) (Allocation, error) {
	a, err := eng.e.Get(ctx, tag)
	if err != nil {
		return Allocation{}, err
	}
	return fromCoreAllocation(a), nil
}

// GetMultiple allocates count ports, all tagged with tag, inside a single
// critical section. If any of the count probes fails, the whole call
// rolls back and no registry write occurs.
func (eng *Engine) GetMultiple(ctx context.Context, count int, tag string) ([]Allocation, error) {
	as, err := eng.e.GetMultiple(ctx, count, tag)
	if err != nil {
		return nil, err
	}
	return fromCoreAllocations(as), nil
}

// ReserveRange reserves exactly the contiguous ports
// [start, start+count-1]. Every port in the range is probed before any
// mutation occurs, so a failure never requires a rollback.
func (eng *Engine) ReserveRange(ctx context.Context, start uint16, count int, tag string) ([]Allocation, error) {
	as, err := eng.e.ReserveRange(ctx, start, count, tag)
	if err != nil {
		return nil, err
	}
	return fromCoreAllocations(as), nil
}

// GetInRange picks any one free port in [min, max], overriding the
// Engine's configured search window for this call only.
func (eng *Engine) GetInRange(ctx context.Context, minPort, maxPort uint16, tag string) (Allocation, error) {
	a, err := eng.e.GetInRange(ctx, minPort, maxPort, tag)
	if err != nil {
		return Allocation{}, err
	}
	return fromCoreAllocation(a), nil
}

// Release removes the registry entry for port if it is owned by this
// process.
func (eng *Engine) Release(ctx context.Context, port uint16) error {
	return eng.e.Release(ctx, port)
}

// ReleaseByTag removes the first active, self-owned entry whose tag
// matches tag. Used by ReleasePort's tag mode, which has no per-caller
// map to consult.
func (eng *Engine) ReleaseByTag(ctx context.Context, tag string) error {
	return eng.e.ReleaseByTag(ctx, tag)
}

// ReleaseAll drops every entry owned by this process and returns the
// count removed.
func (eng *Engine) ReleaseAll(ctx context.Context) (int, error) {
	return eng.e.ReleaseAll(ctx)
}

// List returns a snapshot of every entry currently in the registry,
// without evicting stale entries.
func (eng *Engine) List(ctx context.Context) ([]Allocation, error) {
	as, err := eng.e.List(ctx)
	if err != nil {
		return nil, err
	}
	return fromCoreAllocations(as), nil
}

// Status returns counts derived from a stale/active partition plus the
// count owned by this process and the configured search window.
func (eng *Engine) Status(ctx context.Context) (Status, error) {
	s, err := eng.e.Status(ctx)
	if err != nil {
		return Status{}, err
	}
	return fromCoreStatus(s), nil
}

// Clean writes back only active entries, discarding stale ones, and
// returns the number evicted.
func (eng *Engine) Clean(ctx context.Context) (int, error) {
	return eng.e.Clean(ctx)
}

// Clear replaces the registry with an empty document, administratively
// freeing every entry regardless of owner.
func (eng *Engine) Clear(ctx context.Context) error {
	return eng.e.Clear(ctx)
}
