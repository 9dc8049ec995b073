package core

import (
	"testing"
	"time"
)

func validConfig(dir string) Config {
	return Config{
		MinPort:            49152,
		MaxPort:            65535,
		RegistryDir:        dir,
		MaxPortsPerRequest: 100,
		MaxRegistrySize:    1000,
		StaleTimeout:       time.Hour,
	}
}

func TestConfig_Validate_Valid(t *testing.T) {
	t.Parallel()
	cfg := validConfig(t.TempDir())
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestConfig_Validate_CollectsAllViolations(t *testing.T) {
	t.Parallel()
	cfg := Config{
		MinPort:            0,
		MaxPort:             0,
		RegistryDir:        "",
		MaxPortsPerRequest: 0,
		MaxRegistrySize:    0,
		StaleTimeout:       0,
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() error = nil, want an aggregated error")
	}
	// Six checks fail: min port, max port, registry dir, max ports per
	// request, max registry size, stale timeout (min > max does not, 0 == 0).
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("Validate() error = %T, want an errors.Join aggregate", err)
	}
	if n := len(joined.Unwrap()); n != 6 {
		t.Errorf("Validate() reported %d violations, want 6", n)
	}
}

func TestConfig_Validate_MinExceedsMax(t *testing.T) {
	t.Parallel()
	cfg := validConfig(t.TempDir())
	cfg.MinPort, cfg.MaxPort = 60000, 50000

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() error = nil, want an error for min > max")
	}
}

func TestClampWindow_PromotesSubPrivilegedFloor(t *testing.T) {
	t.Parallel()
	lo, hi := ClampWindow(80, 9000, false)
	if lo != 1024 {
		t.Errorf("ClampWindow() lo = %d, want 1024", lo)
	}
	if hi != 9000 {
		t.Errorf("ClampWindow() hi = %d, want 9000", hi)
	}
}

func TestClampWindow_AllowsPrivilegedWhenFlagged(t *testing.T) {
	t.Parallel()
	lo, _ := ClampWindow(80, 9000, true)
	if lo != 80 {
		t.Errorf("ClampWindow() lo = %d, want 80", lo)
	}
}

func TestClampWindow_ZeroMaxDefaultsTo65535(t *testing.T) {
	t.Parallel()
	_, hi := ClampWindow(2000, 0, false)
	if hi != 65535 {
		t.Errorf("ClampWindow() hi = %d, want 65535", hi)
	}
}

func TestDefaultRegistryDir_NotEmpty(t *testing.T) {
	t.Parallel()
	if DefaultRegistryDir() == "" {
		t.Error("DefaultRegistryDir() = \"\", want a non-empty path")
	}
}
