package asyncrt

import (
	"context"
	"time"
)

// timeoutFuture races an inner Future against a deadline. Each poll checks
// the inner future first (fast-path bias: an inner completion on the same
// tick as the deadline wins), matching original_source/src/io/timer.rs's
// TimeoutFuture::poll ordering and spec decision §9(a).
type timeoutFuture struct {
	inner   Future
	sleep   *sleepFuture
	reactor *Reactor
	d       time.Duration
}

// Timeout returns a Future resolving to a TimeoutResult: its Value holds
// inner's value if inner completes within d, and its Err holds a
// *TimeoutError (satisfying errors.Is(err, ErrTimedOut)) if d elapses first.
// On timeout, inner is dropped (never polled again).
func Timeout(reactor *Reactor, inner Future, d time.Duration) Future {
	return &timeoutFuture{inner: inner, reactor: reactor, d: d}
}

// TimeoutResult is the value produced by a Timeout Future's Poll; callers
// type-assert (v.(TimeoutResult)) to retrieve the inner value or the
// timeout error.
type TimeoutResult struct {
	Value any
	Err   error
}

func (t *timeoutFuture) Poll(ctx context.Context) (any, bool) {
	if t.inner != nil {
		if v, ready := t.inner.Poll(ctx); ready {
			t.inner = nil
			if t.sleep != nil {
				t.sleep.Drop()
				t.sleep = nil
			}
			return TimeoutResult{Value: v}, true
		}
	}

	if t.sleep == nil {
		t.sleep = &sleepFuture{reactor: t.reactor, duration: t.d}
	}
	if _, elapsed := t.sleep.Poll(ctx); elapsed {
		if t.inner != nil {
			dropFuture(t.inner) // drop the inner future
			t.inner = nil
		}
		t.sleep = nil
		return TimeoutResult{Err: &TimeoutError{Duration: t.d.String()}}, true
	}

	return nil, false
}

// Drop implements Dropper: an abandoned Timeout releases whichever of its
// inner future or its own deadline timer is still live.
func (t *timeoutFuture) Drop() {
	if t.inner != nil {
		dropFuture(t.inner)
	}
	if t.sleep != nil {
		t.sleep.Drop()
	}
}
