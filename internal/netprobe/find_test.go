package netprobe

import (
	"errors"
	"net"
	"testing"
)

func TestFindPort_InvalidRange(t *testing.T) {
	t.Parallel()

	_, err := FindPort(200, 100, nil)
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("FindPort() error = %v, want %v", err, ErrInvalidRange)
	}
}

func TestFindPort_SingleFreePort(t *testing.T) {
	t.Parallel()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("find a free port: %v", err)
	}
	port := uint16(l.Addr().(*net.TCPAddr).Port)
	l.Close()

	got, err := FindPort(port, port, nil)
	if err != nil {
		t.Fatalf("FindPort() error: %v", err)
	}
	if got != port {
		t.Errorf("FindPort() = %d, want %d", got, port)
	}
}

func TestFindPort_ExcludedNarrowsToAvailable(t *testing.T) {
	t.Parallel()

	l1, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port1 := uint16(l1.Addr().(*net.TCPAddr).Port)
	l1.Close()

	l2, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port2 := uint16(l2.Addr().(*net.TCPAddr).Port)
	l2.Close()

	lo, hi := port1, port1
	if port2 < lo {
		lo = port2
	}
	if port2 > hi {
		hi = port2
	}

	excluded := map[uint16]struct{}{port1: {}}
	got, err := FindPort(lo, hi, excluded)
	if err != nil {
		// Acceptable: the narrow window between the two ports may contain
		// only bound ports. Skip rather than fail on environment noise.
		t.Skipf("FindPort() error in narrow window: %v", err)
	}
	if got == port1 {
		t.Errorf("FindPort() returned excluded port %d", port1)
	}
}

func TestFindPort_NoAvailablePorts(t *testing.T) {
	t.Parallel()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	port := uint16(l.Addr().(*net.TCPAddr).Port)

	_, err = FindPort(port, port, nil)
	if !errors.Is(err, ErrNoAvailablePorts) {
		t.Errorf("FindPort() error = %v, want %v", err, ErrNoAvailablePorts)
	}
}

func TestFindPort_ExcludedCoversWholeRange(t *testing.T) {
	t.Parallel()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := uint16(l.Addr().(*net.TCPAddr).Port)
	l.Close()

	_, err = FindPort(port, port, map[uint16]struct{}{port: {}})
	if !errors.Is(err, ErrNoAvailablePorts) {
		t.Errorf("FindPort() error = %v, want %v", err, ErrNoAvailablePorts)
	}
}
