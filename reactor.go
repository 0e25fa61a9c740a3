package asyncrt

import (
	"container/heap"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// subscription is a named pair of (host handle, waker) awaiting readiness.
type subscription struct {
	name   string
	handle Handle
	waker  *waker
}

// Reactor owns outstanding host subscriptions and timers for a single
// Executor's lifetime. It performs the single batched host poll and
// converts readiness into waker invocations.
//
// Grounded on original_source/src/poll_tasks.rs (PollTasks:
// pendings/finished maps, wait_for_pollables) for the subscription half, and
// on the teacher's timer heap usage (eventloop/loop.go) for the timer half.
type Reactor struct {
	host  Host
	clock Clock
	log   *Logger

	mu       sync.Mutex
	pending  map[string]*subscription
	finished map[string]bool

	timers    map[string]*timerEntry
	timerHeap timerHeap

	nameSeq atomic.Uint64

	stats *Stats
}

func newReactor(host Host, clock Clock, log *Logger, stats *Stats) *Reactor {
	return &Reactor{
		host:     host,
		clock:    clock,
		log:      log,
		pending:  make(map[string]*subscription),
		finished: make(map[string]bool),
		timers:   make(map[string]*timerEntry),
		stats:    stats,
	}
}

// NewSubscriptionName returns a process-unique token suitable as a
// subscription or timer name, for callers that don't need to correlate a
// registration across calls by a caller-chosen name.
func (r *Reactor) NewSubscriptionName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, r.nameSeq.Add(1))
}

// RegisterSubscription inserts a new pending subscription. Returns
// ErrDuplicateName if name is already pending.
func (r *Reactor) RegisterSubscription(name string, handle Handle, w *waker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.pending[name]; exists {
		return ErrDuplicateName
	}
	r.pending[name] = &subscription{name: name, handle: handle, waker: w}
	r.stats.subscriptionsRegistered.Add(1)
	r.log.Debug().Str("name", name).Log("reactor: subscription registered")
	return nil
}

// IsPending reports whether name is currently awaiting readiness.
func (r *Reactor) IsPending(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.pending[name]
	return ok
}

// CheckAndConsumeReady reports whether name's handle has gone ready, and if
// so removes it from the finished set (at most one successful consume per
// registration).
func (r *Reactor) CheckAndConsumeReady(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished[name] {
		delete(r.finished, name)
		return true
	}
	return false
}

// DeregisterSubscription removes a pending or finished subscription without
// consuming readiness, used when a HandleSubscribe future is abandoned
// before completion.
func (r *Reactor) DeregisterSubscription(name string) {
	r.mu.Lock()
	delete(r.pending, name)
	delete(r.finished, name)
	r.mu.Unlock()
}

// RegisterTimer inserts a new timer keyed by name, registered now.
func (r *Reactor) RegisterTimer(name string, d time.Duration, w *waker) {
	r.mu.Lock()
	e := &timerEntry{name: name, registered: r.clock.Now(), duration: d, waker: w}
	r.timers[name] = e
	heap.Push(&r.timerHeap, e)
	r.mu.Unlock()
	r.stats.timersRegistered.Add(1)
	r.log.Debug().Str("name", name).Log("reactor: timer registered")
}

// TimerHasElapsed reports whether the named timer has elapsed.
func (r *Reactor) TimerHasElapsed(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.timers[name]
	return ok && e.elapsed
}

// RemoveTimer deregisters a timer, whether elapsed or not.
func (r *Reactor) RemoveTimer(name string) {
	r.mu.Lock()
	if e, ok := r.timers[name]; ok {
		delete(r.timers, name)
		r.timerHeap.remove(e)
	}
	r.mu.Unlock()
}

// IsEmpty reports whether no subscriptions (pending or finished) and no
// timers remain. This is the termination gate for BlockOn.
func (r *Reactor) IsEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending) == 0 && len(r.finished) == 0 && len(r.timers) == 0
}

// advanceTimers recomputes elapsed for every registered timer against the
// clock, firing the waker of each timer whose flag transitions to true.
// Strict greater-than, matching the original timer's update_elapsed: an
// on-edge sample remains not-elapsed.
func (r *Reactor) advanceTimers() {
	now := r.clock.Now()
	var toWake []*waker
	r.mu.Lock()
	for _, e := range r.timers {
		if e.elapsed {
			continue
		}
		if now.Sub(e.registered) > e.duration {
			e.elapsed = true
			toWake = append(toWake, e.waker)
		}
	}
	r.mu.Unlock()
	for _, w := range toWake {
		r.stats.timersFired.Add(1)
		w.Wake()
	}
}

// nextDeadline returns the nearest unelapsed timer's deadline and whether
// one exists.
func (r *Reactor) nextDeadline() (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for r.timerHeap.Len() > 0 {
		e := r.timerHeap[0]
		if e.elapsed {
			heap.Pop(&r.timerHeap)
			continue
		}
		return e.deadline(), true
	}
	return time.Time{}, false
}

// WaitForIO blocks, via the host's batched poll, until at least one pending
// subscription is ready or the nearest timer deadline passes, whichever is
// sooner. If there are neither pending subscriptions nor pending timers it
// returns immediately without calling the host. A pending timer with no
// pending subscription still blocks the host poll for the remaining
// duration (with a zero-handle batch) rather than spinning the executor
// loop until the timer's own elapsed check fires.
//
// Grounded on original_source/src/poll_tasks.rs::wait_for_pollables:
// materialize pending handles, call the host, move ready entries from
// pending to finished, then invoke wakers outside the lock.
func (r *Reactor) WaitForIO(ctx context.Context) error {
	r.mu.Lock()
	if len(r.pending) == 0 {
		r.mu.Unlock()
		if _, ok := r.nextDeadline(); !ok {
			return nil
		}
		return r.waitForTimerOnly(ctx)
	}
	names := make([]string, 0, len(r.pending))
	handles := make([]Handle, 0, len(r.pending))
	for name, sub := range r.pending {
		names = append(names, name)
		handles = append(handles, sub.handle)
	}
	r.mu.Unlock()

	timeout := 24 * time.Hour
	if dl, ok := r.nextDeadline(); ok {
		if d := dl.Sub(r.clock.Now()); d < timeout {
			if d < 0 {
				d = 0
			}
			timeout = d
		}
	}

	waitStart := r.clock.Now()
	ready, err := r.host.Poll(ctx, handles, timeout)
	r.stats.recordPollWait(r.clock.Now().Sub(waitStart))
	if err != nil {
		return &HostPollFailureError{Cause: err}
	}

	var toWake []*waker
	r.mu.Lock()
	for _, idx := range ready {
		if idx < 0 || idx >= len(names) {
			continue
		}
		name := names[idx]
		sub, ok := r.pending[name]
		if !ok {
			continue
		}
		delete(r.pending, name)
		r.finished[name] = true
		toWake = append(toWake, sub.waker)
	}
	r.mu.Unlock()

	for _, w := range toWake {
		r.stats.subscriptionsConsumed.Add(1)
		w.Wake()
	}
	return nil
}

// waitForTimerOnly blocks on the host's batched poll with an empty handle
// set, purely to sleep out the nearest timer deadline, when there is
// nothing else for the executor to wait on. advanceTimers (called at the
// top of every run-loop iteration) is what actually fires the timer's
// waker once this returns.
func (r *Reactor) waitForTimerOnly(ctx context.Context) error {
	dl, ok := r.nextDeadline()
	if !ok {
		return nil
	}
	timeout := dl.Sub(r.clock.Now())
	if timeout < 0 {
		timeout = 0
	}
	waitStart := r.clock.Now()
	_, err := r.host.Poll(ctx, nil, timeout)
	r.stats.recordPollWait(r.clock.Now().Sub(waitStart))
	if err != nil {
		return &HostPollFailureError{Cause: err}
	}
	return nil
}
