package core

import "time"

// WithLockTimeoutForTesting sets cfg's unexported lock-acquisition timeout.
// Exported only for use by internal/core's own test files, to exercise
// ErrLockTimeout without waiting out the real 5s default.
func WithLockTimeoutForTesting(cfg Config, d time.Duration) Config {
	cfg.lockTimeout = d
	return cfg
}
