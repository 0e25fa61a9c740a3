package asyncrt

import (
	"context"
	"sync"
)

// Future is a single cooperative state machine. Poll performs one step,
// returning (value, true) if it has completed, or (nil, false) if it is
// still pending. A pending Poll must arrange for the supplied waker (via
// ctx, see WakerFromContext) to eventually be invoked when it becomes worth
// polling again.
type Future interface {
	Poll(ctx context.Context) (any, bool)
}

// FutureFunc adapts a plain function into a Future.
type FutureFunc func(ctx context.Context) (any, bool)

func (f FutureFunc) Poll(ctx context.Context) (any, bool) { return f(ctx) }

// Dropper is implemented by futures that hold a live Reactor registration
// (a timer or a subscription) which must be released if the future is
// abandoned before it completes. Composite futures such as Timeout call
// Drop on a losing branch instead of simply discarding it.
//
// This is the Go rendering of the original engine's reliance on Rust's Drop
// trait (original_source/src/io/timer.rs removes a Timer from its registry
// in its Drop impl); Go has no destructors, so the composing future must
// call Drop explicitly.
type Dropper interface {
	Drop()
}

// dropFuture releases f's reactor registration if it implements Dropper.
// Safe to call with a nil Future interface; callers holding a concrete
// future behind a possibly-nil pointer must still nil-check before handing
// it here, since a typed nil wrapped in the interface is not itself nil.
func dropFuture(f Future) {
	if d, ok := f.(Dropper); ok {
		d.Drop()
	}
}

type wakerCtxKey struct{}

// WakerFromContext retrieves the current poll's waker. Future
// implementations call this to register for later wake-up before returning
// pending.
func WakerFromContext(ctx context.Context) *waker {
	w, _ := ctx.Value(wakerCtxKey{}).(*waker)
	return w
}

func withWaker(ctx context.Context, w *waker) context.Context {
	return context.WithValue(ctx, wakerCtxKey{}, w)
}

// task is an entry in the task table: a suspended Future plus the waker
// issued for it and a single-write completion slot. JoinHandle wake-up is a
// synchronous fan-out from complete (waiters are collected under mu and woken
// after it is released), mirroring the teacher's Promise.fanOut
// (eventloop/promise.go) rather than a per-waiter goroutine: nothing here
// needs cross-thread blocking, since a waiter's Wake just re-enqueues onto
// the run loop's ready queue.
type task struct {
	mu      sync.Mutex
	waiters []*waker

	id     taskID
	future Future
	waker  *waker
	done   chan struct{}
	result any
	err    error
}

func newTask(id taskID, f Future, q *readyQueue) *task {
	return &task{
		id:     id,
		future: f,
		waker:  newWaker(id, q),
		done:   make(chan struct{}),
	}
}

// addWaiter registers w to be woken once the task completes. If it has
// already completed, w is woken immediately instead of being queued.
func (t *task) addWaiter(w *waker) {
	t.mu.Lock()
	select {
	case <-t.done:
		t.mu.Unlock()
		w.Wake()
		return
	default:
	}
	t.waiters = append(t.waiters, w)
	t.mu.Unlock()
}

func (t *task) complete(value any, err error) {
	t.mu.Lock()
	t.result, t.err = value, err
	waiters := t.waiters
	t.waiters = nil
	close(t.done)
	t.mu.Unlock()

	for _, w := range waiters {
		w.Wake()
	}
}
