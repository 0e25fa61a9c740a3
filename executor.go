package asyncrt

import (
	"context"
	"fmt"
	"runtime/debug"
)

// Executor drives a single-threaded cooperative run loop over a Task Table
// and a Reactor. It is not safe to call BlockOn concurrently on the same
// Executor, nor reentrantly from within a running BlockOn.
//
// Grounded on the teacher's Loop (eventloop/loop.go): Run/tick/runTimers
// structure, and safeExecute's per-task panic recovery, adapted from a
// callback-queue event loop into a Future-polling async task runtime as
// required by original_source/src/engine.rs's block_on contract.
type Executor struct {
	host  Host
	clock Clock
	log   *Logger

	queue   *readyQueue
	table   *taskTable
	reactor *Reactor
	stats   *Stats

	tickBudget  int
	panicPolicy PanicPolicy

	state fastState

	// fatalHostErr is set when the host's batched poll fails
	// irrecoverably. It is plain (not atomic) state: only ever written
	// and read from within the single-threaded BlockOn loop.
	fatalHostErr error
}

// NewExecutor constructs an Executor. Without a WithHost option it has no
// usable Host; without WithClock it uses the system clock. The hostsim
// package provides a concrete Host/Clock pair for standalone use.
func NewExecutor(opts ...Option) *Executor {
	o := resolveOptions(opts)
	if o.clock == nil {
		o.clock = systemClock{}
	}
	stats := &Stats{}
	e := &Executor{
		host:        o.host,
		clock:       o.clock,
		log:         o.logger,
		queue:       newReadyQueue(),
		table:       newTaskTable(),
		stats:       stats,
		tickBudget:  o.tickBudget,
		panicPolicy: o.panicPolicy,
	}
	e.reactor = newReactor(o.host, o.clock, o.logger, stats)
	return e
}

// Reactor exposes the Executor's Reactor, for future adapters that need to
// register timers or subscriptions.
func (e *Executor) Reactor() *Reactor { return e.reactor }

// Stats returns a point-in-time snapshot of runtime counters.
func (e *Executor) Stats() StatsSnapshot { return e.stats.snapshot() }

// Spawn creates a task from f, schedules it for its first poll, and returns
// a JoinHandle for retrieving its eventual result. Safe to call before
// BlockOn starts or from within any task's poll. Returns ErrExecutorClosed
// if e has already run BlockOn to completion.
func (e *Executor) Spawn(f Future) (*JoinHandle[any], error) {
	if e.state.isStopped() {
		return nil, ErrExecutorClosed
	}
	return newJoinHandle[any](e.spawnTask(f), e.table), nil
}

func (e *Executor) spawnTask(f Future) *task {
	id := newTaskID()
	t := newTask(id, f, e.queue)
	e.table.insert(t)
	e.stats.tasksSpawned.Add(1)
	e.queue.push(id)
	e.log.Debug().Str("task", string(id)).Log("executor: task spawned")
	return t
}

// BlockOn drives root to completion, running the loop until quiescence
// (spec §8 P3: empty task table, empty reactor), then returns root's value.
// BlockOn is not reentrant: calling it while one is already in progress on
// e returns ErrReentrantBlockOn, and calling it after a previous BlockOn has
// finished returns ErrExecutorClosed.
func (e *Executor) BlockOn(ctx context.Context, root Future) (any, error) {
	if !e.state.tryTransition(stateIdle, stateRunning) {
		if e.state.isStopped() {
			return nil, ErrExecutorClosed
		}
		return nil, ErrReentrantBlockOn
	}
	defer e.state.forceStop()

	rootTask := e.spawnTask(root)

	for {
		e.runLoopIteration(ctx)
		if err := e.takeFatal(); err != nil {
			return nil, err
		}

		if e.table.isEmpty() && e.reactor.IsEmpty() {
			break
		}
	}

	select {
	case <-rootTask.done:
		return rootTask.result, rootTask.err
	default:
		// Root task vanished from the table without completing (e.g. a
		// concurrent Cancel); this should not happen for the root, which
		// has no JoinHandle exposed to callers, but guard defensively.
		return nil, fmt.Errorf("asyncrt: root task ended without a result")
	}
}

func (e *Executor) takeFatal() error {
	err := e.fatalHostErr
	e.fatalHostErr = nil
	return err
}

func (e *Executor) runLoopIteration(ctx context.Context) {
	e.reactor.advanceTimers()

	if e.queue.len() == 0 {
		if err := e.reactor.WaitForIO(ctx); err != nil {
			e.fatalHostErr = err
			return
		}
	}

	ids := e.queue.drain()
	if e.tickBudget > 0 && len(ids) > e.tickBudget {
		overflow := ids[e.tickBudget:]
		ids = ids[:e.tickBudget]
		for _, id := range overflow {
			e.queue.push(id)
		}
	}

	for _, id := range ids {
		e.pollOne(ctx, id)
	}
}

func (e *Executor) pollOne(ctx context.Context, id taskID) {
	t, ok := e.table.get(id)
	if !ok {
		return
	}

	value, done, err := e.safePoll(ctx, t)
	if err != nil {
		e.table.remove(id)
		e.stats.tasksPanicked.Add(1)
		t.complete(nil, err)
		return
	}
	if done {
		e.table.remove(id)
		e.stats.tasksCompleted.Add(1)
		t.complete(value, nil)
	}
}

func (e *Executor) safePoll(ctx context.Context, t *task) (value any, done bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e.panicPolicy == PanicAbort {
				panic(r)
			}
			err = &PanicError{TaskID: string(t.id), Value: r, Stack: debug.Stack()}
			e.log.Err().Err(fmt.Errorf("%v", r)).Str("task", string(t.id)).Log("executor: task panicked")
		}
	}()
	pctx := withWaker(ctx, t.waker)
	v, ready := t.future.Poll(pctx)
	return v, ready, nil
}
