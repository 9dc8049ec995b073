package portres

import "time"

// Default values for Config fields. MinPort and MaxPort default to the
// IANA dynamic/private port range.
const (
	DefaultMinPort            uint16        = 49152
	DefaultMaxPort            uint16        = 65535
	DefaultMaxPortsPerRequest int           = 100
	DefaultMaxRegistrySize    int           = 1000
	DefaultStaleTimeout       time.Duration = time.Hour
)
