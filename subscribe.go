package asyncrt

import "context"

// handleSubscribeFuture registers a host Handle with the Reactor on first
// poll and resolves once the Reactor reports it consumed-ready. Grounded on
// original_source/src/poll_tasks.rs's register/poll pattern and
// src/io/net.rs's ConnectionFuture (register pollable + waker, poll via
// check_ready).
type handleSubscribeFuture struct {
	reactor *Reactor
	handle  Handle
	name    string
}

// HandleSubscribe returns a Future that completes (with the Handle itself
// as its value) once the host reports handle ready.
func HandleSubscribe(reactor *Reactor, handle Handle) Future {
	return &handleSubscribeFuture{reactor: reactor, handle: handle}
}

func (s *handleSubscribeFuture) Poll(ctx context.Context) (any, bool) {
	if s.name == "" {
		s.name = s.reactor.NewSubscriptionName("sub")
		if err := s.reactor.RegisterSubscription(s.name, s.handle, WakerFromContext(ctx)); err != nil {
			// Name collision against this process-unique token should never
			// happen; surface as a completed error value rather than panic.
			return err, true
		}
		return nil, false
	}
	if s.reactor.CheckAndConsumeReady(s.name) {
		return s.handle, true
	}
	return nil, false
}

// Drop implements Dropper: an abandoned subscription must deregister from
// the Reactor or it can never reach quiescence.
func (s *handleSubscribeFuture) Drop() {
	if s.name != "" {
		s.reactor.DeregisterSubscription(s.name)
	}
}
