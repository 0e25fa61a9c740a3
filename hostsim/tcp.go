package hostsim

import (
	"context"
	"net"
	"sync/atomic"
	"time"
)

// TCPHandle is an opaque write-readiness handle for a TCP connection,
// grounded on original_source/src/io/net.rs's TcpStream/ConnectionFuture:
// the guest connects and is handed an opaque pollable it subscribes on,
// without the reactor knowing anything about sockets.
type TCPHandle struct {
	conn  net.Conn
	ready atomic.Bool
}

// Ready implements asyncrt.Handle. A handle from DialTCP is ready as soon as
// it is returned, since DialTCP blocks until the connection is established.
// A handle from DialTCPAsync becomes ready once its background dial and
// write-readiness check both succeed, and stays not ready if either fails.
func (h *TCPHandle) Ready() bool {
	return h.ready.Load()
}

// Conn returns the underlying connection once the handle is ready.
func (h *TCPHandle) Conn() net.Conn { return h.conn }

// DialTCP connects to addr over network (e.g. "tcp") and returns a handle
// the Reactor can subscribe on for write-readiness, mirroring
// TcpStream::connect's role in the original host bindings.
func DialTCP(ctx context.Context, network, addr string) (*TCPHandle, error) {
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	h := &TCPHandle{conn: conn}
	h.ready.Store(true)
	return h, nil
}

// SetReadDeadline is a thin convenience wrapper used by demo programs that
// want to bound how long a read against Conn() may block once the
// connection future has resolved.
func (h *TCPHandle) SetReadDeadline(d time.Duration) error {
	return h.conn.SetReadDeadline(time.Now().Add(d))
}

// DialTCPAsync connects in the background and returns a handle that only
// reports Ready once write-readiness has additionally been confirmed
// through the platform's native readiness watcher (epoll on Linux, see
// tcp_linux.go; a direct no-op elsewhere, see tcp_other.go). Unlike DialTCP,
// the call returns before the connection necessarily completes, letting the
// caller register the handle with a Reactor and suspend on it rather than
// blocking the calling goroutine.
func DialTCPAsync(network, addr string) *TCPHandle {
	h := &TCPHandle{}
	go func() {
		conn, err := net.Dial(network, addr)
		if err != nil {
			return
		}
		if err := confirmWriteReady(conn); err != nil {
			conn.Close()
			return
		}
		h.conn = conn
		h.ready.Store(true)
	}()
	return h
}
