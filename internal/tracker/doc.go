// Package tracker implements the per-caller lifecycle tracker: an in-memory
// map from tag (or a synthetic key) to an allocation, letting a caller
// release its own allocations by tag rather than by numeric port.
//
// The tracker does not duplicate authoritative registry state — it only
// remembers the caller's own assertions — and does not take the registry
// lock itself; each delegated core.Engine call takes its own.
package tracker
