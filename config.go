package portres

import "github.com/giantswarm/portres/internal/core"

// Config holds configuration for an Engine or for one of the module-level
// façade functions (GetPort, GetPorts, ReleasePort). Construct one with
// NewConfig; Config is immutable after construction.
//
// Config wraps internal/core.Config via embedding, keeping the internal
// representation out of field-by-field duplication while still exposing
// every field directly (MinPort, MaxPort, RegistryDir, ...), since Config is
// itself part of the public API.
type Config struct {
	core.Config
}

// defaultConfig returns a Config populated with all default values.
// NewConfig uses this to avoid duplicating the default field assignments.
func defaultConfig() Config {
	return Config{Config: core.Config{
		MinPort:            DefaultMinPort,
		MaxPort:            DefaultMaxPort,
		RegistryDir:        core.DefaultRegistryDir(),
		AllowPrivileged:    false,
		MaxPortsPerRequest: DefaultMaxPortsPerRequest,
		MaxRegistrySize:    DefaultMaxRegistrySize,
		StaleTimeout:       DefaultStaleTimeout,
		Verbose:            false,
	}}
}

// NewConfig returns a Config populated with defaults and then overridden by
// opts, in order.
//
// Panics if any option receives an invalid value. See individual With*
// functions for constraints.
func NewConfig(opts ...ConfigOption) Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
