package portres

import (
	"context"
	"errors"
	"fmt"
)

// GetPort constructs an Engine from cfg and allocates one port tagged with
// tag, exactly the count=1 case of GetPorts.
func GetPort(ctx context.Context, cfg Config, tag string) (Allocation, error) {
	eng, err := NewEngine(cfg)
	if err != nil {
		return Allocation{}, err
	}
	return eng.Get(ctx, tag)
}

// GetPorts constructs an Engine from cfg and allocates count ports
// according to opts.
//
// Shared-tag mode (opts.Tags is empty) delegates to the engine's
// GetMultiple: all requested ports are allocated in one critical section
// and carry opts.Tag, fully transactional via the engine's built-in
// rollback.
//
// Per-port-tag mode (opts.Tags is non-empty) requires len(opts.Tags) ==
// count and count <= MaxPortsPerRequest, and calls Get once per tag, each in its own critical section. On
// any failure mid-sequence, every previously allocated port in this call
// is released (a manual, cross-call rollback) before the failure is
// returned. Unlike shared-tag mode, an external observer may briefly see
// partial state between the individual Get calls; only the caller's final
// view is all-or-nothing.
func GetPorts(ctx context.Context, cfg Config, count int, opts GetPortsOptions) ([]Allocation, error) {
	eng, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}

	if len(opts.Tags) == 0 {
		return eng.GetMultiple(ctx, count, opts.Tag)
	}

	if len(opts.Tags) != count || count > eng.Config().MaxPortsPerRequest {
		return nil, ErrInvalidCount
	}

	allocated := make([]Allocation, 0, count)
	for _, tag := range opts.Tags {
		alloc, err := eng.Get(ctx, tag)
		if err != nil {
			rollbackGetPorts(ctx, eng, allocated)
			return nil, err
		}
		allocated = append(allocated, alloc)
	}

	return allocated, nil
}

// rollbackGetPorts releases every port in allocated, best-effort, after a
// mid-sequence failure in GetPorts's per-port-tag mode. Release errors are
// not propagated: the original allocation failure is what the caller
// needs to see, and a release failure here would only mask it.
func rollbackGetPorts(ctx context.Context, eng *Engine, allocated []Allocation) {
	for _, a := range allocated {
		_ = eng.Release(ctx, a.Port)
	}
}

// ReleasePort constructs an Engine from cfg and releases the allocation
// identified by key, which may be either a uint16/int port number or a
// string tag.
//
// ReleasePort is idempotent: releasing a non-existent tag, a port not in
// the registry, or a syntactically invalid port number all succeed
// silently. Releasing a port owned by another pid still fails with
// NotOwnedByCallerError.
func ReleasePort(ctx context.Context, cfg Config, key any) error {
	eng, err := NewEngine(cfg)
	if err != nil {
		return err
	}

	switch k := key.(type) {
	case uint16:
		return releasePortByNumber(ctx, eng, k)
	case int:
		if k < 0 || k > 65535 {
			return nil
		}
		return releasePortByNumber(ctx, eng, uint16(k))
	case string:
		err := eng.ReleaseByTag(ctx, k)
		if errors.Is(err, ErrNotRegistered) {
			return nil
		}
		return err
	default:
		return fmt.Errorf("portres: release key must be a port number or a tag string, got %T", key)
	}
}

func releasePortByNumber(ctx context.Context, eng *Engine, port uint16) error {
	err := eng.Release(ctx, port)
	if errors.Is(err, ErrNotRegistered) || errors.Is(err, ErrInvalidPort) {
		return nil
	}
	return err
}
