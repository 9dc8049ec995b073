// Package portres provides a cross-process TCP port allocator.
//
// portres hands out TCP ports that are neither bound on loopback nor
// already promised to another process sharing the host, and keeps that
// promise alive for as long as the requesting process runs. The registry
// backing the promise is a small JSON document guarded by a cross-process
// file lock, so independent processes (and independent test binaries) can
// safely race for ports without colliding.
//
// # Basic Usage
//
//	import "github.com/giantswarm/portres"
//
//	cfg := portres.NewConfig()
//	alloc, err := portres.GetPort(ctx, cfg, "my-service")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer portres.ReleasePort(ctx, cfg, alloc.Port)
//
// # Stateful Tracking
//
// Engine and Tracker pair a long-lived configuration with a per-caller map
// from tag to allocation, so a caller can release by tag instead of by
// port number:
//
//	engine, err := portres.NewEngine(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tracker := portres.NewTracker(engine)
//
//	alloc, err := tracker.Allocate(ctx, "http")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tracker.Release(ctx, "http")
//
// # Concurrent Callers
//
// Every operation serializes through the registry's file lock, so many
// goroutines or processes can call portres concurrently and each still
// receives a distinct port:
//
//	var g errgroup.Group
//	for i := 0; i < 50; i++ {
//	    g.Go(func() error {
//	        _, err := portres.GetPort(ctx, cfg, "")
//	        return err
//	    })
//	}
//	if err := g.Wait(); err != nil {
//	    log.Fatal(err)
//	}
package portres
