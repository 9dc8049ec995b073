package portres

import (
	"context"

	"github.com/giantswarm/portres/internal/tracker"
)

// Tracker maintains a per-caller map from tag (or a synthetic "port-<N>"
// key) to an Allocation, so a caller can release its own allocations by
// tag rather than by numeric port. Tracker wraps internal/tracker.Tracker,
// converting to and from the public Allocation type at the boundary.
type Tracker struct {
	t *tracker.Tracker
}

// NewTracker creates a Tracker that delegates allocation and release
// calls to eng.
func NewTracker(eng *Engine) *Tracker {
	return &Tracker{t: tracker.New(eng.e)}
}

// Allocate allocates one port tagged with tag (tag may be empty) and
// tracks it. If tag is non-empty and already tracked, returns
// ErrDuplicateTag without calling the engine.
func (t *Tracker) Allocate(ctx context.Context, tag string) (Allocation, error) {
	a, err := t.t.Allocate(ctx, tag)
	if err != nil {
		return Allocation{}, err
	}
	return fromCoreAllocation(a), nil
}

// AllocateMultiple allocates count ports, all carrying tag in the
// registry, and tracks each under its own synthetic "port-<N>" key.
func (t *Tracker) AllocateMultiple(ctx context.Context, count int, tag string) ([]Allocation, error) {
	as, err := t.t.AllocateMultiple(ctx, count, tag)
	if err != nil {
		return nil, err
	}
	return fromCoreAllocations(as), nil
}

// Release releases the allocation tracked under key, which may be either
// a tag string or a raw port number. Lookups that miss are idempotent
// successes.
func (t *Tracker) Release(ctx context.Context, key any) error {
	return t.t.Release(ctx, key)
}

// ReleaseAll releases every tracked allocation and unconditionally clears
// the map, even if some releases fail. It returns the count of
// allocations successfully released and, if any release failed, an
// aggregated error naming each failing key.
func (t *Tracker) ReleaseAll(ctx context.Context) (int, error) {
	return t.t.ReleaseAll(ctx)
}

// Get returns the allocation tracked under key (a tag or synthetic
// "port-<N>" key) and whether it was found.
func (t *Tracker) Get(key string) (Allocation, bool) {
	a, ok := t.t.Get(key)
	if !ok {
		return Allocation{}, false
	}
	return fromCoreAllocation(a), true
}

// GetAllocations returns a snapshot of every allocation this Tracker
// currently tracks.
func (t *Tracker) GetAllocations() []Allocation {
	return fromCoreAllocations(t.t.GetAllocations())
}
