//go:build linux

package hostsim

import (
	"fmt"
	"net"
)

// confirmWriteReady uses the epoll-backed watcher to observe EPOLLOUT on
// conn's underlying file descriptor before the handle is marked ready,
// exercising the teacher's per-OS poller split (eventloop/poller_linux.go)
// for the one hostsim handle kind that owns a real file descriptor.
func confirmWriteReady(conn net.Conn) error {
	tc, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}
	f, err := tc.File()
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := newEpollWatcher()
	if err != nil {
		return err
	}
	defer w.close()

	if err := w.registerWrite(int(f.Fd())); err != nil {
		return err
	}

	events, err := w.wait(1000)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return fmt.Errorf("hostsim: epoll wait timed out confirming write-readiness")
	}
	return nil
}
