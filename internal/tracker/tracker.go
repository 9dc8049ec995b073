package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/giantswarm/portres/internal/core"
	"github.com/giantswarm/portres/internal/sentinel"
)

// ErrDuplicateTag is returned by Allocate when tag is already tracked by
// this Tracker instance. Tag uniqueness is enforced only locally — the
// same tag may exist in distinct Tracker instances without conflict,
// because only the registry (shared) enforces port uniqueness.
const ErrDuplicateTag = sentinel.Error("tag already tracked")

// Allocator is the subset of *core.Engine the tracker delegates to. It
// exists so tests can substitute a fake engine.
type Allocator interface {
	Get(ctx context.Context, tag string) (core.Allocation, error)
	GetMultiple(ctx context.Context, count int, tag string) ([]core.Allocation, error)
	Release(ctx context.Context, port uint16) error
}

// Tracker maintains a per-caller map from tag (or a synthetic "port-<N>"
// key) to an Allocation, so a caller can release its own allocations by
// tag rather than by numeric port. It does not take the registry lock
// itself: each delegated Allocator call takes its own.
type Tracker struct {
	mu      sync.Mutex
	engine  Allocator
	entries map[string]core.Allocation
}

// New creates a Tracker delegating to engine.
func New(engine Allocator) *Tracker {
	return &Tracker{
		engine:  engine,
		entries: make(map[string]core.Allocation),
	}
}

func portKey(port uint16) string {
	return fmt.Sprintf("port-%d", port)
}

// Allocate allocates one port tagged with tag (tag may be empty) and
// tracks it. If tag is non-empty and already tracked, returns
// ErrDuplicateTag without calling the engine. An empty tag is always
// tracked under a synthetic "port-<N>" key, so it never collides.
func (t *Tracker) Allocate(ctx context.Context, tag string) (core.Allocation, error) {
	t.mu.Lock()
	if tag != "" {
		if _, dup := t.entries[tag]; dup {
			t.mu.Unlock()
			return core.Allocation{}, ErrDuplicateTag
		}
	}
	t.mu.Unlock()

	alloc, err := t.engine.Get(ctx, tag)
	if err != nil {
		return core.Allocation{}, err
	}

	key := tag
	if key == "" {
		key = portKey(alloc.Port)
	}

	t.mu.Lock()
	t.entries[key] = alloc
	t.mu.Unlock()

	return alloc, nil
}

// AllocateMultiple allocates count ports, all carrying tag in the
// registry, and tracks each under its own synthetic "port-<N>" key. The
// synthetic keys guarantee local uniqueness even though every returned
// Allocation shares the same tag value.
func (t *Tracker) AllocateMultiple(ctx context.Context, count int, tag string) ([]core.Allocation, error) {
	allocs, err := t.engine.GetMultiple(ctx, count, tag)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	for _, alloc := range allocs {
		t.entries[portKey(alloc.Port)] = alloc
	}
	t.mu.Unlock()

	return allocs, nil
}

// Release releases the allocation tracked under key, which may be either
// a tag string or a raw port number. Lookups that miss are idempotent
// successes: releasing an untracked tag or port succeeds silently,
// mirroring the façade's ReleasePort contract.
func (t *Tracker) Release(ctx context.Context, key any) error {
	switch k := key.(type) {
	case uint16:
		return t.releaseByPort(ctx, k)
	case int:
		return t.releaseByPort(ctx, uint16(k))
	case string:
		return t.releaseByTag(ctx, k)
	default:
		return fmt.Errorf("tracker: release key must be a port number or a tag string, got %T", key)
	}
}

func (t *Tracker) releaseByPort(ctx context.Context, port uint16) error {
	t.mu.Lock()
	var matchKey string
	found := false
	for k, alloc := range t.entries {
		if alloc.Port == port {
			matchKey, found = k, true
			break
		}
	}
	if found {
		delete(t.entries, matchKey)
	}
	t.mu.Unlock()

	if !found {
		return nil
	}
	return t.engine.Release(ctx, port)
}

func (t *Tracker) releaseByTag(ctx context.Context, tag string) error {
	t.mu.Lock()
	alloc, found := t.entries[tag]
	if found {
		delete(t.entries, tag)
	}
	t.mu.Unlock()

	if !found {
		return nil
	}
	return t.engine.Release(ctx, alloc.Port)
}

// ReleaseAll releases every tracked allocation and unconditionally clears
// the map, even if some releases fail. It returns the count of
// allocations successfully released and, if any release failed, an
// aggregated error naming each failing key.
func (t *Tracker) ReleaseAll(ctx context.Context) (int, error) {
	t.mu.Lock()
	entries := t.entries
	t.entries = make(map[string]core.Allocation)
	t.mu.Unlock()

	var errs []error
	released := 0
	for key, alloc := range entries {
		if err := t.engine.Release(ctx, alloc.Port); err != nil {
			errs = append(errs, fmt.Errorf("release %s (port %d): %w", key, alloc.Port, err))
			continue
		}
		released++
	}

	return released, errors.Join(errs...)
}

// Get returns the allocation tracked under key (a tag or synthetic
// "port-<N>" key) and whether it was found.
func (t *Tracker) Get(key string) (core.Allocation, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	alloc, ok := t.entries[key]
	return alloc, ok
}

// GetAllocations returns a snapshot of every allocation this Tracker
// currently tracks.
func (t *Tracker) GetAllocations() []core.Allocation {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]core.Allocation, 0, len(t.entries))
	for _, alloc := range t.entries {
		out = append(out, alloc)
	}
	return out
}
