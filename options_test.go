package portres_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/giantswarm/portres"
)

// panicTestCase defines a test case for option validation panic tests.
type panicTestCase struct {
	name     string
	panics   bool
	panicMsg string
	fn       func()
}

func requirePanics(t *testing.T, shouldPanic bool, wantMsg string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		switch {
		case shouldPanic && r == nil:
			t.Fatal("expected panic but didn't get one")
		case !shouldPanic && r != nil:
			t.Fatalf("unexpected panic: %v", r)
		case shouldPanic:
			if msg := fmt.Sprint(r); msg != wantMsg {
				t.Fatalf("expected panic message %q, got %q", wantMsg, msg)
			}
		}
	}()
	fn()
}

func runPanicTests(t *testing.T, tests []panicTestCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			requirePanics(t, tt.panics, tt.panicMsg, tt.fn)
		})
	}
}

func TestWithPortRange_PanicsOnInvalid(t *testing.T) {
	t.Parallel()
	runPanicTests(t, []panicTestCase{
		{
			name:     "zero min",
			panics:   true,
			panicMsg: "portres: port range bounds must not be 0",
			fn:       func() { portres.WithPortRange(0, 100) },
		},
		{
			name:     "min exceeds max",
			panics:   true,
			panicMsg: "portres: min port 200 must not exceed max port 100",
			fn:       func() { portres.WithPortRange(200, 100) },
		},
		{name: "valid", fn: func() { portres.WithPortRange(1024, 65535) }},
	})
}

func TestWithRegistryDir_PanicsOnEmpty(t *testing.T) {
	t.Parallel()
	runPanicTests(t, []panicTestCase{
		{
			name:     "empty",
			panics:   true,
			panicMsg: "portres: registry directory must not be empty",
			fn:       func() { portres.WithRegistryDir("") },
		},
		{name: "valid", fn: func() { portres.WithRegistryDir("/tmp/portres") }},
	})
}

func TestWithMaxPortsPerRequest_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()
	runPanicTests(t, []panicTestCase{
		{
			name:     "zero",
			panics:   true,
			panicMsg: "portres: max ports per request must be greater than 0, got 0",
			fn:       func() { portres.WithMaxPortsPerRequest(0) },
		},
		{name: "valid", fn: func() { portres.WithMaxPortsPerRequest(10) }},
	})
}

func TestWithMaxRegistrySize_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()
	runPanicTests(t, []panicTestCase{
		{
			name:     "negative",
			panics:   true,
			panicMsg: "portres: max registry size must be greater than 0, got -5",
			fn:       func() { portres.WithMaxRegistrySize(-5) },
		},
		{name: "valid", fn: func() { portres.WithMaxRegistrySize(10) }},
	})
}

func TestWithStaleTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()
	runPanicTests(t, []panicTestCase{
		{
			name:     "zero",
			panics:   true,
			panicMsg: "portres: stale timeout must be greater than 0, got 0s",
			fn:       func() { portres.WithStaleTimeout(0) },
		},
		{name: "valid", fn: func() { portres.WithStaleTimeout(time.Minute) }},
	})
}

func TestNewConfig_Defaults(t *testing.T) {
	t.Parallel()
	cfg := portres.NewConfig()

	if cfg.MinPort != portres.DefaultMinPort {
		t.Errorf("MinPort = %d, want %d", cfg.MinPort, portres.DefaultMinPort)
	}
	if cfg.MaxPort != portres.DefaultMaxPort {
		t.Errorf("MaxPort = %d, want %d", cfg.MaxPort, portres.DefaultMaxPort)
	}
	if cfg.RegistryDir == "" {
		t.Error("RegistryDir = \"\", want a default path")
	}
	if cfg.MaxPortsPerRequest != portres.DefaultMaxPortsPerRequest {
		t.Errorf("MaxPortsPerRequest = %d, want %d", cfg.MaxPortsPerRequest, portres.DefaultMaxPortsPerRequest)
	}
	if cfg.MaxRegistrySize != portres.DefaultMaxRegistrySize {
		t.Errorf("MaxRegistrySize = %d, want %d", cfg.MaxRegistrySize, portres.DefaultMaxRegistrySize)
	}
	if cfg.StaleTimeout != portres.DefaultStaleTimeout {
		t.Errorf("StaleTimeout = %s, want %s", cfg.StaleTimeout, portres.DefaultStaleTimeout)
	}
}

func TestNewConfig_OptionsOverrideDefaults(t *testing.T) {
	t.Parallel()
	cfg := portres.NewConfig(
		portres.WithPortRange(2000, 3000),
		portres.WithAllowPrivileged(true),
		portres.WithMaxPortsPerRequest(5),
		portres.WithMaxRegistrySize(10),
		portres.WithStaleTimeout(time.Minute),
		portres.WithVerbose(true),
	)

	if cfg.MinPort != 2000 || cfg.MaxPort != 3000 {
		t.Errorf("port range = [%d,%d], want [2000,3000]", cfg.MinPort, cfg.MaxPort)
	}
	if !cfg.AllowPrivileged {
		t.Error("AllowPrivileged = false, want true")
	}
	if cfg.MaxPortsPerRequest != 5 {
		t.Errorf("MaxPortsPerRequest = %d, want 5", cfg.MaxPortsPerRequest)
	}
	if cfg.MaxRegistrySize != 10 {
		t.Errorf("MaxRegistrySize = %d, want 10", cfg.MaxRegistrySize)
	}
	if cfg.StaleTimeout != time.Minute {
		t.Errorf("StaleTimeout = %s, want 1m", cfg.StaleTimeout)
	}
	if !cfg.Verbose {
		t.Error("Verbose = false, want true")
	}
}
