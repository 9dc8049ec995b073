package portres

import (
	"fmt"
	"time"
)

// requirePositive panics if v <= 0 with a descriptive message.
func requirePositive[T int | time.Duration](name string, v T) {
	if v <= 0 {
		panic(fmt.Sprintf("portres: %s must be greater than 0, got %v", name, v))
	}
}

// requireNonEmpty panics if s is empty with a descriptive message.
func requireNonEmpty(name, s string) {
	if s == "" {
		panic(fmt.Sprintf("portres: %s must not be empty", name))
	}
}

// ConfigOption configures a Config during construction via NewConfig.
// Each With* function returns a ConfigOption that sets a specific field.
//
// Several With* functions panic on invalid input (zero-value ports, empty
// paths, non-positive durations). These panics are intentional: option
// values are typically compile-time constants, so an invalid value
// indicates a programmer error rather than a runtime condition.
type ConfigOption func(*Config)

// WithPortRange sets the window random/sequential search draws from.
// If AllowPrivileged is false (the default), min is silently promoted to
// 1024 at Engine-construction time rather than rejected here; see
// WithAllowPrivileged.
//
// Default: 49152..65535 (the IANA dynamic range).
//
// Panics if min > max or either bound is 0.
func WithPortRange(min, max uint16) ConfigOption {
	if min == 0 || max == 0 {
		panic("portres: port range bounds must not be 0")
	}
	if min > max {
		panic(fmt.Sprintf("portres: min port %d must not exceed max port %d", min, max))
	}
	return func(c *Config) {
		c.MinPort = min
		c.MaxPort = max
	}
}

// WithRegistryDir sets the directory holding registry.json and
// registry.lock.
//
// Default: $HOME/.portres.
//
// Panics if dir is empty.
func WithRegistryDir(dir string) ConfigOption {
	requireNonEmpty("registry directory", dir)
	return func(c *Config) {
		c.RegistryDir = dir
	}
}

// WithAllowPrivileged permits MinPort (at construction) or an explicit
// range/port argument (at call time) below 1024.
//
// Default: false.
func WithAllowPrivileged(allow bool) ConfigOption {
	return func(c *Config) {
		c.AllowPrivileged = allow
	}
}

// WithMaxPortsPerRequest caps count in GetPorts/ReserveRange.
//
// Default: 100.
//
// Panics if n <= 0.
func WithMaxPortsPerRequest(n int) ConfigOption {
	requirePositive("max ports per request", n)
	return func(c *Config) {
		c.MaxPortsPerRequest = n
	}
}

// WithMaxRegistrySize caps the number of active entries after any
// successful write.
//
// Default: 1000.
//
// Panics if n <= 0.
func WithMaxRegistrySize(n int) ConfigOption {
	requirePositive("max registry size", n)
	return func(c *Config) {
		c.MaxRegistrySize = n
	}
}

// WithStaleTimeout sets the age, since an entry's timestamp, past which an
// entry is considered stale regardless of liveness.
//
// Default: 1 hour.
//
// Panics if d <= 0.
func WithStaleTimeout(d time.Duration) ConfigOption {
	requirePositive("stale timeout", d)
	return func(c *Config) {
		c.StaleTimeout = d
	}
}

// WithVerbose toggles Debug-level diagnostic logging.
//
// Default: false.
func WithVerbose(v bool) ConfigOption {
	return func(c *Config) {
		c.Verbose = v
	}
}
