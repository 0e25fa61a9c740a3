//go:build linux

package hostsim

import (
	"sync"

	"golang.org/x/sys/unix"
)

// epollWatcher demonstrates a platform-native readiness watcher for file
// descriptor based handles (here, TCP connections), grounded directly on
// the teacher's FastPoller (eventloop/poller_linux.go): an epoll instance
// with RegisterFD/Close, simplified to the single write-readiness use
// case this module's TCP demo needs and without the teacher's array-indexed
// fast path, since this module only ever watches a handful of descriptors
// at a time.
type epollWatcher struct {
	epfd   int
	mu     sync.Mutex
	closed bool
}

func newEpollWatcher() (*epollWatcher, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &epollWatcher{epfd: fd}, nil
}

func (w *epollWatcher) registerWrite(fd int) error {
	ev := &unix.EpollEvent{Events: unix.EPOLLOUT, Fd: int32(fd)}
	return unix.EpollCtl(w.epfd, unix.EPOLL_CTL_ADD, fd, ev)
}

func (w *epollWatcher) wait(timeoutMs int) ([]unix.EpollEvent, error) {
	buf := make([]unix.EpollEvent, 16)
	n, err := unix.EpollWait(w.epfd, buf, timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}
	return buf[:n], nil
}

func (w *epollWatcher) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return unix.Close(w.epfd)
}
