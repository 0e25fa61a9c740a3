package asyncrt

import (
	"context"
	"time"
)

// Handle is an opaque readiness token produced by a Host. The core never
// inspects a Handle's contents; it only ever asks the Host to poll a batch
// of them and queries Ready for a quick local check.
type Handle interface {
	// Ready reports whether this handle is currently ready, without
	// blocking.
	Ready() bool
}

// Host is the sandbox primitive the Reactor blocks through. Guest programs
// running inside a component-model sandbox cannot create OS threads or
// install signal handlers; all external progress is observed through this
// single batched poll.
type Host interface {
	// Poll blocks until at least one of handles is ready or timeout
	// elapses, then returns the indices (into handles) that are ready.
	// An empty, error-free result means the timeout elapsed with nothing
	// ready; callers must retry. Indices are not required to be sorted.
	Poll(ctx context.Context, handles []Handle, timeout time.Duration) ([]int, error)

	// SubscribeDuration produces a Handle that becomes ready no earlier
	// than d from the moment of the call.
	SubscribeDuration(d time.Duration) Handle
}

// Clock is a monotonic time source. now_later >= now_earlier always holds
// across any two calls.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
