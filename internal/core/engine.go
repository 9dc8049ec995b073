package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/giantswarm/portres/internal/dirutil"
	"github.com/giantswarm/portres/internal/lockfile"
	"github.com/giantswarm/portres/internal/netprobe"
	"github.com/giantswarm/portres/internal/regfile"
	"github.com/giantswarm/portres/internal/sanitize"
)

// Allocation is the in-memory record returned to callers: a port plus its
// optional tag. Unlike regfile.Entry, it never exposes pid or timestamp.
type Allocation struct {
	Port uint16
	Tag  string
}

// Status summarizes the registry's current state, as returned by
// Engine.Status.
type Status struct {
	Active    int
	Stale     int
	OwnedByMe int
	MinPort   uint16
	MaxPort   uint16
}

// Engine is the allocation engine: the critical section that reads the
// registry, evicts stale entries, picks and commits ports, and writes the
// registry back, all under the lockfile guard. An Engine holds an
// immutable, validated Config plus the calling process's own pid, cached
// once at construction.
//
// Engine is safe for concurrent use: every method takes the cross-process
// lock for its own critical section, which also serializes concurrent
// in-process callers transparently.
type Engine struct {
	cfg         Config
	pid         int
	registryDir string // sanitized, absolute
	log         *slog.Logger
}

// New constructs an Engine from cfg. Config.MinPort/MaxPort are clamped
// per ClampWindow and RegistryDir is sanitized; both happen once, here,
// since Config is immutable afterward.
//
// Returns ErrInvalidPath if RegistryDir fails sanitization, or
// ErrConfigInvalid (wrapping the aggregated Validate errors) if any other
// field is invalid.
func New(cfg Config, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = Logger()
		if cfg.Verbose {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})).
				With("component", "portres")
		}
	}

	dir, err := sanitize.Path(cfg.RegistryDir)
	if err != nil {
		return nil, err
	}
	cfg.RegistryDir = dir

	lo, hi := ClampWindow(cfg.MinPort, cfg.MaxPort, cfg.AllowPrivileged)
	cfg.MinPort, cfg.MaxPort = lo, hi

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}

	if err := dirutil.EnsureDir(dir, 0o700); err != nil {
		return nil, err
	}

	return &Engine{
		cfg:         cfg,
		pid:         os.Getpid(),
		registryDir: dir,
		log:         logger,
	}, nil
}

// Config returns the Engine's effective (clamped, sanitized) configuration.
func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) registryPath() string { return regfile.Path(e.registryDir) }
func (e *Engine) lockPath() string     { return regfile.LockPath(e.registryDir) }

func (e *Engine) lock(ctx context.Context) (*lockfile.Guard, error) {
	timeout := lockAcquireTimeout
	if e.cfg.lockTimeout > 0 {
		timeout = e.cfg.lockTimeout
	}
	return lockfile.Acquire(ctx, e.lockPath(), timeout, e.log)
}

func nowMillis() int64 { return time.Now().UnixMilli() }

// isStale reports whether entry is stale: its owning pid is no longer
// live, or its age exceeds StaleTimeout. Stale entries are never written
// back; eviction is a side effect of any operation that reads the
// registry.
func (e *Engine) isStale(entry regfile.Entry, now int64) bool {
	if !netprobe.Alive(entry.PID) {
		return true
	}
	age := time.Duration(now-entry.TimestampMillis) * time.Millisecond
	return age > e.cfg.StaleTimeout
}

// partition splits doc's entries into active and stale sets using isStale.
func (e *Engine) partition(doc regfile.Document) (active, stale []regfile.Entry) {
	now := nowMillis()
	active = make([]regfile.Entry, 0, len(doc.Entries))
	for _, entry := range doc.Entries {
		if e.isStale(entry, now) {
			stale = append(stale, entry)
			e.log.Debug("evicting stale entry", "port", entry.Port, "pid", entry.PID)
			continue
		}
		active = append(active, entry)
	}
	return active, stale
}

func exclusionSet(entries []regfile.Entry) map[uint16]struct{} {
	set := make(map[uint16]struct{}, len(entries))
	for _, e := range entries {
		set[e.Port] = struct{}{}
	}
	return set
}

func (e *Engine) checkPrivileged(port uint16) error {
	if port < 1024 && !e.cfg.AllowPrivileged {
		return ErrPrivilegedNotAllowed
	}
	return nil
}

// validPort reports whether port is a legal 16-bit TCP port
// (1..65535; 0 is never a valid allocatable port).
func validPort(port int) bool {
	return port >= 1 && port <= 65535
}

// Get is the count=1 specialization of GetMultiple, returning the sole
// allocation directly.
func (e *Engine) Get(ctx context.Context, tag string) (Allocation, error) {
	allocs, err := e.GetMultiple(ctx, 1, tag)
	if err != nil {
		return Allocation{}, err
	}
	return allocs[0], nil
}

// GetMultiple allocates count ports, all tagged with the same (sanitized)
// tag, inside a single critical section. If any of the count probes fails,
// the whole call rolls back: every self-owned entry appended during this
// call is discarded, the registry is not written, and the finder's error
// is returned.
func (e *Engine) GetMultiple(ctx context.Context, count int, tag string) ([]Allocation, error) {
	if count < 1 || count > e.cfg.MaxPortsPerRequest {
		return nil, ErrInvalidCount
	}
	sanitizedTag := sanitize.Tag(tag)

	guard, err := e.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer guard.Release()

	doc := regfile.Read(e.registryPath(), e.log)
	active, _ := e.partition(doc)

	if len(active)+count > e.cfg.MaxRegistrySize {
		return nil, ErrRegistryFull
	}

	excluded := exclusionSet(active)
	baseLen := len(active)
	now := nowMillis()

	result := make([]Allocation, 0, count)
	for range count {
		port, findErr := netprobe.FindPort(e.cfg.MinPort, e.cfg.MaxPort, excluded)
		if findErr != nil {
			// Rollback: drop every entry appended during this call.
			active = active[:baseLen]
			return nil, findErr
		}
		active = append(active, regfile.Entry{
			Port: port, PID: e.pid, TimestampMillis: now, Tag: sanitizedTag,
		})
		excluded[port] = struct{}{}
		result = append(result, Allocation{Port: port, Tag: sanitizedTag})
	}

	if err := regfile.Write(e.registryPath(), regfile.Document{Version: regfile.SchemaVersion, Entries: active}); err != nil {
		return nil, err
	}

	return result, nil
}

// ReserveRange reserves exactly the contiguous ports [start, start+count-1].
// Every port in the range is probed before any mutation occurs, so a
// failure is detected before the registry is touched and no rollback is
// needed.
func (e *Engine) ReserveRange(ctx context.Context, start uint16, count int, tag string) ([]Allocation, error) {
	if count < 1 || count > e.cfg.MaxPortsPerRequest {
		return nil, ErrInvalidCount
	}
	if !validPort(int(start)) {
		return nil, ErrInvalidPort
	}
	end := int(start) + count - 1
	if end > 65535 {
		return nil, ErrInvalidRange
	}
	if err := e.checkPrivileged(start); err != nil {
		return nil, err
	}

	sanitizedTag := sanitize.Tag(tag)

	guard, err := e.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer guard.Release()

	doc := regfile.Read(e.registryPath(), e.log)
	active, _ := e.partition(doc)

	if len(active)+count > e.cfg.MaxRegistrySize {
		return nil, ErrRegistryFull
	}

	excluded := exclusionSet(active)

	for p := int(start); p <= end; p++ {
		port := uint16(p)
		if _, occupied := excluded[port]; occupied {
			return nil, RangeOccupiedError{Port: port}
		}
		if !netprobe.TryBind(port) {
			return nil, RangeInUseError{Port: port}
		}
	}

	now := nowMillis()
	result := make([]Allocation, 0, count)
	for p := int(start); p <= end; p++ {
		port := uint16(p)
		active = append(active, regfile.Entry{Port: port, PID: e.pid, TimestampMillis: now, Tag: sanitizedTag})
		result = append(result, Allocation{Port: port, Tag: sanitizedTag})
	}

	if err := regfile.Write(e.registryPath(), regfile.Document{Version: regfile.SchemaVersion, Entries: active}); err != nil {
		return nil, err
	}

	return result, nil
}

// GetInRange picks any one free port in [min, max], overriding the Engine's
// configured search window for this call only.
func (e *Engine) GetInRange(ctx context.Context, minPort, maxPort uint16, tag string) (Allocation, error) {
	if !validPort(int(minPort)) {
		return Allocation{}, ErrInvalidPort
	}
	if minPort > maxPort {
		return Allocation{}, ErrInvalidRange
	}
	if err := e.checkPrivileged(minPort); err != nil {
		return Allocation{}, err
	}

	sanitizedTag := sanitize.Tag(tag)

	guard, err := e.lock(ctx)
	if err != nil {
		return Allocation{}, err
	}
	defer guard.Release()

	doc := regfile.Read(e.registryPath(), e.log)
	active, _ := e.partition(doc)

	if len(active)+1 > e.cfg.MaxRegistrySize {
		return Allocation{}, ErrRegistryFull
	}

	excluded := exclusionSet(active)
	port, err := netprobe.FindPort(minPort, maxPort, excluded)
	if err != nil {
		return Allocation{}, err
	}

	active = append(active, regfile.Entry{Port: port, PID: e.pid, TimestampMillis: nowMillis(), Tag: sanitizedTag})
	if err := regfile.Write(e.registryPath(), regfile.Document{Version: regfile.SchemaVersion, Entries: active}); err != nil {
		return Allocation{}, err
	}

	return Allocation{Port: port, Tag: sanitizedTag}, nil
}

// Release removes the registry entry for port if it is owned by this
// process's pid.
func (e *Engine) Release(ctx context.Context, port uint16) error {
	if !validPort(int(port)) {
		return ErrInvalidPort
	}

	guard, err := e.lock(ctx)
	if err != nil {
		return err
	}
	defer guard.Release()

	doc := regfile.Read(e.registryPath(), e.log)
	active, _ := e.partition(doc)

	idx := -1
	for i, entry := range active {
		if entry.Port == port {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotRegistered
	}
	if active[idx].PID != e.pid {
		return NotOwnedByCallerError{PID: active[idx].PID}
	}

	active = append(active[:idx], active[idx+1:]...)
	return regfile.Write(e.registryPath(), regfile.Document{Version: regfile.SchemaVersion, Entries: active})
}

// ReleaseByTag removes the first active, self-owned entry whose tag
// matches the given (sanitized) tag. It exists for the module-level
// façade's release_port({tag}) mode, which has no per-caller map to
// consult and so looks the port up directly in the registry instead.
func (e *Engine) ReleaseByTag(ctx context.Context, tag string) error {
	sanitizedTag := sanitize.Tag(tag)

	guard, err := e.lock(ctx)
	if err != nil {
		return err
	}
	defer guard.Release()

	doc := regfile.Read(e.registryPath(), e.log)
	active, _ := e.partition(doc)

	idx := -1
	for i, entry := range active {
		if entry.PID == e.pid && entry.Tag == sanitizedTag {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotRegistered
	}

	active = append(active[:idx], active[idx+1:]...)
	return regfile.Write(e.registryPath(), regfile.Document{Version: regfile.SchemaVersion, Entries: active})
}

// ReleaseAll drops every entry owned by this process's pid and returns the
// count removed.
func (e *Engine) ReleaseAll(ctx context.Context) (int, error) {
	guard, err := e.lock(ctx)
	if err != nil {
		return 0, err
	}
	defer guard.Release()

	doc := regfile.Read(e.registryPath(), e.log)
	active, _ := e.partition(doc)

	kept := active[:0:0]
	removed := 0
	for _, entry := range active {
		if entry.PID == e.pid {
			removed++
			continue
		}
		kept = append(kept, entry)
	}

	if err := regfile.Write(e.registryPath(), regfile.Document{Version: regfile.SchemaVersion, Entries: kept}); err != nil {
		return 0, err
	}
	return removed, nil
}

// List returns a snapshot of every entry currently in the registry, under
// the lock, without evicting stale entries.
func (e *Engine) List(ctx context.Context) ([]Allocation, error) {
	guard, err := e.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer guard.Release()

	doc := regfile.Read(e.registryPath(), e.log)
	out := make([]Allocation, len(doc.Entries))
	for i, entry := range doc.Entries {
		out[i] = Allocation{Port: entry.Port, Tag: entry.Tag}
	}
	return out, nil
}

// Status returns counts derived from a stale/active partition plus the
// count owned by this process and the configured search window.
func (e *Engine) Status(ctx context.Context) (Status, error) {
	guard, err := e.lock(ctx)
	if err != nil {
		return Status{}, err
	}
	defer guard.Release()

	doc := regfile.Read(e.registryPath(), e.log)
	active, stale := e.partition(doc)

	owned := 0
	for _, entry := range active {
		if entry.PID == e.pid {
			owned++
		}
	}

	return Status{
		Active:    len(active),
		Stale:     len(stale),
		OwnedByMe: owned,
		MinPort:   e.cfg.MinPort,
		MaxPort:   e.cfg.MaxPort,
	}, nil
}

// Clean writes back only active entries, discarding stale ones, and
// returns the number evicted.
func (e *Engine) Clean(ctx context.Context) (int, error) {
	guard, err := e.lock(ctx)
	if err != nil {
		return 0, err
	}
	defer guard.Release()

	doc := regfile.Read(e.registryPath(), e.log)
	active, stale := e.partition(doc)

	if err := regfile.Write(e.registryPath(), regfile.Document{Version: regfile.SchemaVersion, Entries: active}); err != nil {
		return 0, err
	}
	return len(stale), nil
}

// Clear replaces the registry with an empty document of the current
// schema version, administratively freeing every entry regardless of
// owner.
func (e *Engine) Clear(ctx context.Context) error {
	guard, err := e.lock(ctx)
	if err != nil {
		return err
	}
	defer guard.Release()

	return regfile.Write(e.registryPath(), regfile.Empty())
}
