// Package lockfile provides the cross-process mutex the allocation engine
// uses to serialize every read-evict-mutate-write critical section against
// both other processes and other goroutines in the same process.
//
// It wraps github.com/gofrs/flock: poll on a short interval until the lock
// is acquired or the deadline passes, guard against an unexpected
// (false, nil) TryLockContext result, and leave the lock file on disk
// across releases rather than removing it.
package lockfile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"

	"github.com/giantswarm/portres/internal/sentinel"
)

// ErrTimeout is returned by Acquire when the lock is not obtained before the
// deadline elapses.
const ErrTimeout = sentinel.Error("lock acquisition timed out")

// retryInterval is the interval between consecutive attempts to acquire the
// registry lock. 50ms balances responsiveness (low wait after the holder
// releases) against CPU overhead from busy-polling.
const retryInterval = 50 * time.Millisecond

// Guard represents a held exclusive lock. Release relinquishes it and is
// safe to call more than once.
type Guard struct {
	fl  *flock.Flock
	log *slog.Logger
}

// Acquire takes an exclusive lock on path, retrying every retryInterval
// until it succeeds, ctx is canceled, or timeout elapses — whichever comes
// first. Guards are exclusive: at most one active Guard per path across the
// entire host, enforced by flock at the OS level.
//
// If logger is nil, slog.Default() is used for Release's best-effort error
// logging.
func Acquire(ctx context.Context, path string, timeout time.Duration, logger *slog.Logger) (*Guard, error) {
	if logger == nil {
		logger = slog.Default()
	}

	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fl := flock.New(path)

	locked, err := fl.TryLockContext(lockCtx, retryInterval)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTimeout, path, err)
	}
	if !locked {
		// Defensive: TryLockContext should return an error when it fails,
		// but handle the case where it returns (false, nil) unexpectedly.
		return nil, fmt.Errorf("%w: %s", ErrTimeout, path)
	}

	return &Guard{fl: fl, log: logger}, nil
}

// Release releases the lock and closes the underlying file descriptor. The
// lock file is intentionally left on disk: removing it could invalidate a
// lock concurrently acquired by another process racing the unlink against a
// fresh flock.New on the same path. Close() calls Unlock() internally, so no
// explicit Unlock is needed. Release is idempotent; errors on a second call
// (or any call) are best-effort and only logged, never returned, since by
// the time a caller wants to release, the critical section's real work is
// already done or has already failed on its own terms.
func (g *Guard) Release() {
	if g == nil || g.fl == nil {
		return
	}
	if err := g.fl.Close(); err != nil {
		g.log.Debug("failed to release lock", "path", g.fl.Path(), "error", err)
	}
	g.fl = nil
}
