package asyncrt

import (
	"context"
	"time"
)

// sleepFuture registers a timer on first poll and resolves once the Reactor
// reports it elapsed. Grounded on original_source/src/io/timer.rs's
// Timer/sleep: register-then-poll against a keyed timer table.
type sleepFuture struct {
	reactor  *Reactor
	duration time.Duration
	name     string
}

// Sleep returns a Future that completes (with a nil value) after d has
// elapsed, as observed by the Reactor's monotonic clock.
func Sleep(reactor *Reactor, d time.Duration) Future {
	return &sleepFuture{reactor: reactor, duration: d}
}

func (s *sleepFuture) Poll(ctx context.Context) (any, bool) {
	if s.name == "" {
		s.name = s.reactor.NewSubscriptionName("timer")
		s.reactor.RegisterTimer(s.name, s.duration, WakerFromContext(ctx))
		return nil, false
	}
	if s.reactor.TimerHasElapsed(s.name) {
		s.reactor.RemoveTimer(s.name)
		return nil, true
	}
	return nil, false
}

// Drop implements Dropper: an abandoned sleep must deregister its timer or
// the Reactor can never reach quiescence.
func (s *sleepFuture) Drop() {
	if s.name != "" {
		s.reactor.RemoveTimer(s.name)
	}
}
