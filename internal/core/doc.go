// Package core implements the allocation engine: the critical section that
// reads the registry, evicts stale entries, picks and commits ports, and
// writes the registry back, all under the cross-process lock.
//
// The primary type is [Engine], which holds an immutable, validated
// [Config] plus the calling process's own pid (cached once at construction).
// Every exported method opens exactly one lockfile.Guard, giving each
// operation a single critical section in which to hand out or free port
// numbers against a shared on-disk document.
package core
