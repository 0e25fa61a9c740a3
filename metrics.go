package asyncrt

import (
	"time"

	"go.uber.org/atomic"
)

// Stats holds atomic runtime counters, snapshotted via Executor.Stats. The
// shape mirrors the teacher's own Metrics type (eventloop/metrics.go),
// trimmed to sums rather than full latency-percentile tracking: pollWaitNanos
// is the LatencyMetrics.Record idiom reduced to a running total, since this
// runtime only needs to answer "how much time did we spend blocked in the
// host poll", not percentile histograms.
type Stats struct {
	tasksSpawned   atomic.Uint64
	tasksCompleted atomic.Uint64
	tasksPanicked  atomic.Uint64

	timersRegistered atomic.Uint64
	timersFired      atomic.Uint64

	subscriptionsRegistered atomic.Uint64
	subscriptionsConsumed   atomic.Uint64

	pollWaitCount atomic.Uint64
	pollWaitNanos atomic.Uint64
}

// recordPollWait accumulates the elapsed duration of one host Poll call.
func (s *Stats) recordPollWait(d time.Duration) {
	s.pollWaitCount.Add(1)
	if d > 0 {
		s.pollWaitNanos.Add(uint64(d.Nanoseconds()))
	}
}

// StatsSnapshot is an immutable point-in-time copy of Stats.
type StatsSnapshot struct {
	TasksSpawned   uint64
	TasksCompleted uint64
	TasksPanicked  uint64

	TimersRegistered uint64
	TimersFired      uint64

	SubscriptionsRegistered uint64
	SubscriptionsConsumed   uint64

	PollWaitCount    uint64
	PollWaitDuration time.Duration
}

func (s *Stats) snapshot() StatsSnapshot {
	return StatsSnapshot{
		TasksSpawned:            s.tasksSpawned.Load(),
		TasksCompleted:          s.tasksCompleted.Load(),
		TasksPanicked:           s.tasksPanicked.Load(),
		TimersRegistered:        s.timersRegistered.Load(),
		TimersFired:             s.timersFired.Load(),
		SubscriptionsRegistered: s.subscriptionsRegistered.Load(),
		SubscriptionsConsumed:   s.subscriptionsConsumed.Load(),
		PollWaitCount:           s.pollWaitCount.Load(),
		PollWaitDuration:        time.Duration(s.pollWaitNanos.Load()),
	}
}
