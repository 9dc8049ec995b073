package portres

import (
	"log/slog"

	"github.com/giantswarm/portres/internal/core"
)

// SetLogger replaces the package-level logger used by portres.
// This allows applications to integrate portres logging with their own
// logging infrastructure. The provided logger should already have any
// desired attributes; portres will not add additional attributes.
//
// If l is nil, the logger resets to the default: slog.Default() with the
// "component" attribute, re-derived on the next call and then cached.
// Call SetLogger(nil) after slog.SetDefault() to pick up changes.
//
// SetLogger is safe to call concurrently with other portres operations.
//
// Example:
//
//	portres.SetLogger(myLogger.With("component", "portres"))
func SetLogger(l *slog.Logger) {
	core.SetLogger(l)
}
