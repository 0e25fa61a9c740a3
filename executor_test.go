package asyncrt_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wasmrt/asyncrt"
)

// newTestExecutor and newTestExecutorWithHost back every timer/subscription
// -driven test with a deterministic asyncrt.FakeHost rather than hostsim's
// real-wall-clock Host: the suite advances a virtual clock on demand instead
// of sleeping real milliseconds. hostsim is reserved for genuine I/O
// integration tests (hostsim/tcp_test.go) that need a real socket.
func newTestExecutor() *asyncrt.Executor {
	exec, _ := newTestExecutorWithHost()
	return exec
}

func newTestExecutorWithHost() (*asyncrt.Executor, *asyncrt.FakeHost) {
	host := asyncrt.NewFakeHost(time.Time{})
	return asyncrt.NewExecutor(
		asyncrt.WithHost(host),
		asyncrt.WithClock(host),
		asyncrt.WithLogger(asyncrt.NoopLogger()),
	), host
}

// scenario 1: return value plumbing through BlockOn/Spawn/Await.
func TestBlockOn_ReturnValuePlumbing(t *testing.T) {
	exec := newTestExecutor()
	reactor := exec.Reactor()

	childDone := false

	const (
		sleeping = iota
		awaiting
	)
	state := sleeping
	var sleep asyncrt.Future
	var child *asyncrt.JoinHandle[any]

	root := asyncrt.FutureFunc(func(ctx context.Context) (any, bool) {
		for {
			switch state {
			case sleeping:
				if sleep == nil {
					sleep = asyncrt.Sleep(reactor, 20*time.Millisecond)
				}
				if _, ready := sleep.Poll(ctx); !ready {
					return nil, false
				}
				var cs asyncrt.Future
				h, err := exec.Spawn(asyncrt.FutureFunc(func(ctx context.Context) (any, bool) {
					if cs == nil {
						cs = asyncrt.Sleep(reactor, 10*time.Millisecond)
					}
					if _, ready := cs.Poll(ctx); !ready {
						return nil, false
					}
					childDone = true
					return 999, true
				}))
				require.NoError(t, err)
				child = h
				state = awaiting
			case awaiting:
				v, ready := child.Poll(ctx)
				if !ready {
					return nil, false
				}
				n, _ := v.(int)
				return n + 1, true
			}
		}
	})

	result, err := exec.BlockOn(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1000, result)
	assert.True(t, childDone)
}

// scenario 5: quiescence — BlockOn only returns once spawned background
// tasks have completed, even though the root itself returns immediately.
func TestBlockOn_QuiescenceWaitsForBackgroundTasks(t *testing.T) {
	exec := newTestExecutor()
	reactor := exec.Reactor()

	var aDone, bDone bool
	var sa, sb asyncrt.Future

	root := asyncrt.FutureFunc(func(ctx context.Context) (any, bool) {
		_, err := exec.Spawn(asyncrt.FutureFunc(func(ctx context.Context) (any, bool) {
			if sa == nil {
				sa = asyncrt.Sleep(reactor, 30*time.Millisecond)
			}
			if _, ready := sa.Poll(ctx); !ready {
				return nil, false
			}
			aDone = true
			return nil, true
		}))
		require.NoError(t, err)

		_, err = exec.Spawn(asyncrt.FutureFunc(func(ctx context.Context) (any, bool) {
			if sb == nil {
				sb = asyncrt.Sleep(reactor, 10*time.Millisecond)
			}
			if _, ready := sb.Poll(ctx); !ready {
				return nil, false
			}
			bDone = true
			return nil, true
		}))
		require.NoError(t, err)

		return "root-value", true
	})

	result, err := exec.BlockOn(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, "root-value", result)
	assert.True(t, aDone)
	assert.True(t, bDone)

	stats := exec.Stats()
	assert.EqualValues(t, 3, stats.TasksSpawned) // root + 2 children
	assert.EqualValues(t, 3, stats.TasksCompleted)
}

// scenario 7 (expansion): a panicking task is isolated and reported via its
// JoinHandle, without affecting a sibling task.
func TestBlockOn_PanicIsolation(t *testing.T) {
	exec := newTestExecutor()

	var siblingDone bool
	var panicker, sibling *asyncrt.JoinHandle[any]

	root := asyncrt.FutureFunc(func(ctx context.Context) (any, bool) {
		if panicker == nil {
			var err error
			panicker, err = exec.Spawn(asyncrt.FutureFunc(func(ctx context.Context) (any, bool) {
				panic("boom")
			}))
			require.NoError(t, err)

			sibling, err = exec.Spawn(asyncrt.FutureFunc(func(ctx context.Context) (any, bool) {
				siblingDone = true
				return nil, true
			}))
			require.NoError(t, err)
		}

		for {
			_, pReady := panicker.Poll(ctx)
			_, sReady := sibling.Poll(ctx)
			if pReady && sReady {
				break
			}
			return nil, false
		}
		_, perr := panicker.Await(ctx)
		var panicErr *asyncrt.PanicError
		assert.ErrorAs(t, perr, &panicErr)
		return nil, true
	})

	_, err := exec.BlockOn(context.Background(), root)
	require.NoError(t, err)
	assert.True(t, siblingDone)
	assert.EqualValues(t, 1, exec.Stats().TasksPanicked)
}

func TestExecutor_ReentrantBlockOnRejected(t *testing.T) {
	exec := newTestExecutor()
	inner := make(chan struct{})
	outerStarted := make(chan struct{})

	go func() {
		root := asyncrt.FutureFunc(func(ctx context.Context) (any, bool) {
			close(outerStarted)
			<-inner
			return nil, true
		})
		_, _ = exec.BlockOn(context.Background(), root)
	}()

	<-outerStarted
	_, err := exec.BlockOn(context.Background(), asyncrt.FutureFunc(func(ctx context.Context) (any, bool) {
		return nil, true
	}))
	assert.ErrorIs(t, err, asyncrt.ErrReentrantBlockOn)
	close(inner)
}
