package netprobe

import (
	"fmt"
	"net"
)

// TryBind attempts to listen on 127.0.0.1:port. If the bind succeeds, the
// listener is closed immediately and TryBind reports true; any error
// (including the port already being bound) reports false.
//
// This is a best-effort guarantee, not a reservation: a bind race exists
// between this probe and whatever the caller eventually binds to the
// reported-free port. Grounded on the plain net.Listen("tcp", ...)
// bind/close technique used for port forwarding and listener setup in
// cmd/devnet-builder/commands/manage/port_forward.go's forwardPort and
// internal/daemon/server/server.go's createTLSListener, adapted from
// "listen on this address to serve it" to "listen on this address just
// to test it, then release it."
func TryBind(port uint16) bool {
	l, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return false
	}
	_ = l.Close()
	return true
}
