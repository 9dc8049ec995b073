package portres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/giantswarm/portres"
)

func testConfig(t *testing.T, lo, hi uint16) portres.Config {
	t.Helper()
	return portres.NewConfig(
		portres.WithPortRange(lo, hi),
		portres.WithRegistryDir(t.TempDir()),
		portres.WithStaleTimeout(time.Hour),
	)
}

func TestGetPort_ReturnsPortInWindow(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, 42100, 42120)

	alloc, err := portres.GetPort(context.Background(), cfg, "svc")
	if err != nil {
		t.Fatalf("GetPort() error: %v", err)
	}
	if alloc.Port < 42100 || alloc.Port > 42120 {
		t.Errorf("GetPort() port = %d, want in range", alloc.Port)
	}
}

func TestGetPorts_SharedTagMode(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, 42200, 42220)

	allocs, err := portres.GetPorts(context.Background(), cfg, 3, portres.GetPortsOptions{Tag: "batch"})
	if err != nil {
		t.Fatalf("GetPorts() error: %v", err)
	}
	if len(allocs) != 3 {
		t.Fatalf("len(allocs) = %d, want 3", len(allocs))
	}
	for _, a := range allocs {
		if a.Tag != "batch" {
			t.Errorf("allocation tag = %q, want %q", a.Tag, "batch")
		}
	}
}

func TestGetPorts_PerPortTagMode(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, 42300, 42320)

	allocs, err := portres.GetPorts(context.Background(), cfg, 2, portres.GetPortsOptions{Tags: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("GetPorts() error: %v", err)
	}
	if len(allocs) != 2 || allocs[0].Tag != "a" || allocs[1].Tag != "b" {
		t.Errorf("GetPorts() = %+v, want tags [a b]", allocs)
	}
}

func TestGetPorts_PerPortTagMode_CountMismatch(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, 42400, 42420)

	_, err := portres.GetPorts(context.Background(), cfg, 3, portres.GetPortsOptions{Tags: []string{"a", "b"}})
	if !errors.Is(err, portres.ErrInvalidCount) {
		t.Errorf("error = %v, want %v", err, portres.ErrInvalidCount)
	}
}

func TestGetPorts_PerPortTagMode_RollsBackOnFailure(t *testing.T) {
	t.Parallel()
	// A 1-port window can satisfy the first tag but not the second,
	// forcing the manual rollback path.
	cfg := testConfig(t, 42500, 42500)

	_, err := portres.GetPorts(context.Background(), cfg, 2, portres.GetPortsOptions{Tags: []string{"a", "b"}})
	if err == nil {
		t.Fatal("GetPorts() error = nil, want a finder failure on the second tag")
	}

	eng, engErr := portres.NewEngine(cfg)
	if engErr != nil {
		t.Fatalf("NewEngine() error: %v", engErr)
	}
	list, listErr := eng.List(context.Background())
	if listErr != nil {
		t.Fatalf("List() error: %v", listErr)
	}
	if len(list) != 0 {
		t.Errorf("List() after rollback = %+v, want empty", list)
	}
}

func TestReleasePort_ByPort(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, 42600, 42620)

	alloc, err := portres.GetPort(context.Background(), cfg, "")
	if err != nil {
		t.Fatalf("GetPort() error: %v", err)
	}

	if err := portres.ReleasePort(context.Background(), cfg, alloc.Port); err != nil {
		t.Errorf("ReleasePort() error: %v", err)
	}
}

func TestReleasePort_ByTag(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, 42700, 42720)

	if _, err := portres.GetPort(context.Background(), cfg, "web"); err != nil {
		t.Fatalf("GetPort() error: %v", err)
	}

	if err := portres.ReleasePort(context.Background(), cfg, "web"); err != nil {
		t.Errorf("ReleasePort() error: %v", err)
	}
}

func TestReleasePort_IdempotentOnMiss(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, 42800, 42820)

	if err := portres.ReleasePort(context.Background(), cfg, uint16(42810)); err != nil {
		t.Errorf("ReleasePort() of unregistered port error = %v, want nil", err)
	}
	if err := portres.ReleasePort(context.Background(), cfg, "missing-tag"); err != nil {
		t.Errorf("ReleasePort() of unregistered tag error = %v, want nil", err)
	}
}

func TestReleasePort_IdempotentOnInvalidPortNumber(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, 42900, 42920)

	if err := portres.ReleasePort(context.Background(), cfg, -1); err != nil {
		t.Errorf("ReleasePort(-1) error = %v, want nil", err)
	}
	if err := portres.ReleasePort(context.Background(), cfg, 99999); err != nil {
		t.Errorf("ReleasePort(99999) error = %v, want nil", err)
	}
}

func TestReleasePort_SameOwnerViaSecondEngine(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, 43000, 43020)

	eng, err := portres.NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}
	alloc, err := eng.Get(context.Background(), "")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	// Releasing via a second engine bound to the same registry simulates a
	// foreign pid only if the pid actually differs; within a single test
	// binary the pid is identical, so this exercises the same-owner path
	// instead. The NotOwnedByCaller contract itself is covered at the
	// internal/core level, which can inject an arbitrary owning pid.
	if err := portres.ReleasePort(context.Background(), cfg, alloc.Port); err != nil {
		t.Errorf("ReleasePort() error: %v", err)
	}
}
