package asyncrt

import (
	"context"
	"sync"
	"time"
)

// FakeHost is a deterministic, advance-on-demand Host/Clock pair for tests
// that exercise timer- and subscription-driven scenarios without sleeping
// real wall-clock time. Poll never blocks: if nothing is ready it advances
// its own virtual clock by exactly as much as is needed to make progress,
// then re-checks synchronously.
//
// Exported from this internal test file (the export_test.go idiom) so the
// black-box asyncrt_test package can construct one; it is compiled only
// into test binaries and never reaches production code.
//
// hostsim remains the Host used for genuine I/O integration tests (see
// hostsim/tcp_test.go), which need a real socket and therefore real time.
type FakeHost struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeHost constructs a FakeHost starting at start, or at the Unix epoch
// if start is the zero time.
func NewFakeHost(start time.Time) *FakeHost {
	if start.IsZero() {
		start = time.Unix(0, 0)
	}
	return &FakeHost{now: start}
}

// Now implements Clock.
func (h *FakeHost) Now() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.now
}

// Advance moves the fake clock forward by d.
func (h *FakeHost) Advance(d time.Duration) {
	h.mu.Lock()
	h.now = h.now.Add(d)
	h.mu.Unlock()
}

// fakeDurationHandle is produced by SubscribeDuration; it becomes ready
// once the FakeHost's virtual clock reaches its deadline.
type fakeDurationHandle struct {
	host     *FakeHost
	deadline time.Time
}

func (h *fakeDurationHandle) Ready() bool {
	return !h.host.Now().Before(h.deadline)
}

// SubscribeDuration implements Host.
func (h *FakeHost) SubscribeDuration(d time.Duration) Handle {
	return &fakeDurationHandle{host: h, deadline: h.Now().Add(d)}
}

// Poll implements Host. It never sleeps: if no handle is already ready, it
// advances the virtual clock by the smallest amount that can make
// progress (the nearest still-pending fakeDurationHandle's deadline,
// bounded by the caller-supplied timeout derived from the Reactor's own
// nearest timer deadline) and re-checks.
func (h *FakeHost) Poll(ctx context.Context, handles []Handle, timeout time.Duration) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ready := fakeReadyIndices(handles); len(ready) > 0 {
		return ready, nil
	}
	if len(handles) == 0 {
		if timeout <= 0 {
			timeout = time.Millisecond
		}
		h.Advance(timeout)
		return nil, nil
	}

	step := timeout
	now := h.Now()
	for _, hd := range handles {
		fd, ok := hd.(*fakeDurationHandle)
		if !ok {
			continue
		}
		until := fd.deadline.Sub(now)
		if until < 0 {
			until = 0
		}
		if until < step {
			step = until
		}
	}
	if step <= 0 {
		step = time.Millisecond
	}
	h.Advance(step)
	return fakeReadyIndices(handles), nil
}

func fakeReadyIndices(handles []Handle) []int {
	var ready []int
	for i, hd := range handles {
		if hd.Ready() {
			ready = append(ready, i)
		}
	}
	return ready
}
