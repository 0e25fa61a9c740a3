package asyncrt

import "go.uber.org/atomic"

// execState is the lifecycle of an Executor.
type execState int32

const (
	stateIdle execState = iota
	stateRunning
	stateStopped
)

func (s execState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateRunning:
		return "running"
	case stateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// fastState is a CAS-based state machine guarding BlockOn reentrancy and
// post-termination Spawn calls.
type fastState struct {
	v atomic.Int32
}

func (s *fastState) load() execState {
	return execState(s.v.Load())
}

// tryTransition attempts from -> to, returning whether it succeeded.
func (s *fastState) tryTransition(from, to execState) bool {
	return s.v.CompareAndSwap(int32(from), int32(to))
}

// forceStop unconditionally marks the state stopped.
func (s *fastState) forceStop() {
	s.v.Store(int32(stateStopped))
}

func (s *fastState) isStopped() bool {
	return s.load() == stateStopped
}
