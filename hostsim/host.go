// Package hostsim provides an in-process stand-in for the component-model
// sandbox host that the asyncrt core consumes through the asyncrt.Host and
// asyncrt.Clock interfaces. It exists so the runtime is runnable and
// testable without an actual wasmtime-hosted guest.
//
// Grounded on original_source/src/poll_tasks.rs's wait_for_pollables (the
// batched-poll contract being simulated) and on the teacher's Loop run/select
// pattern (eventloop/loop.go) for the blocking implementation.
package hostsim

import (
	"context"
	"time"

	"github.com/wasmrt/asyncrt"
)

// durationHandle is a Handle that becomes ready after a fixed deadline.
type durationHandle struct {
	deadline time.Time
	clock    func() time.Time
}

func (h *durationHandle) Ready() bool {
	return !h.clock().Before(h.deadline)
}

// Host is a concrete asyncrt.Host/asyncrt.Clock pair backed by real
// wall-clock timers and a select-based batched poll.
type Host struct{}

// New constructs a ready-to-use Host.
func New() *Host {
	return &Host{}
}

// Now implements asyncrt.Clock.
func (h *Host) Now() time.Time { return time.Now() }

// SubscribeDuration implements asyncrt.Host.
func (h *Host) SubscribeDuration(d time.Duration) asyncrt.Handle {
	return &durationHandle{deadline: time.Now().Add(d), clock: time.Now}
}

// Poll implements asyncrt.Host. It blocks until at least one handle reports
// Ready or timeout elapses, using short-interval re-checks since Handle
// exposes only a non-blocking Ready() query and no underlying channel.
//
// This mirrors wasi:io/poll.poll's contract (block until progress, return
// ready indices) within the constraints of this simulation: real sandbox
// hosts would instead descend into an OS-level reactor, which the
// epoll-backed TCP watcher on Linux (see epoll_linux.go) demonstrates for
// the one handle kind (TCPHandle) that has an underlying file descriptor.
func (h *Host) Poll(ctx context.Context, handles []asyncrt.Handle, timeout time.Duration) ([]int, error) {
	if len(handles) == 0 {
		select {
		case <-time.After(timeout):
			return nil, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	deadline := time.Now().Add(timeout)
	const pollInterval = 250 * time.Microsecond
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		var ready []int
		for i, hd := range handles {
			if hd.Ready() {
				ready = append(ready, i)
			}
		}
		if len(ready) > 0 {
			return ready, nil
		}
		if !time.Now().Before(deadline) {
			return nil, nil
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
