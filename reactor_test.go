package asyncrt_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wasmrt/asyncrt"
)

// scenario 2: multiple timers fire in deadline order regardless of
// registration order. Driven entirely by the FakeHost's virtual clock, so
// this test advances at least 70ms of simulated time without sleeping real
// time.
func TestReactor_MultiTimerOrdering(t *testing.T) {
	exec, host := newTestExecutorWithHost()
	reactor := exec.Reactor()

	var order []string
	specs := []struct {
		name string
		d    time.Duration
	}{
		{"50ms", 50 * time.Millisecond},
		{"20ms", 20 * time.Millisecond},
		{"70ms", 70 * time.Millisecond},
	}

	futures := make([]asyncrt.Future, len(specs))
	for i, s := range specs {
		futures[i] = asyncrt.Sleep(reactor, s.d)
	}

	root := asyncrt.FutureFunc(func(ctx context.Context) (any, bool) {
		remaining := 0
		for i, f := range futures {
			if f == nil {
				continue
			}
			if _, ready := f.Poll(ctx); ready {
				order = append(order, specs[i].name)
				futures[i] = nil
				continue
			}
			remaining++
		}
		return nil, remaining == 0
	})

	start := host.Now()
	_, err := exec.BlockOn(context.Background(), root)
	require.NoError(t, err)

	require.Equal(t, []string{"20ms", "50ms", "70ms"}, order)
	assert.GreaterOrEqual(t, host.Now().Sub(start), 70*time.Millisecond)
	assert.True(t, reactor.IsEmpty())
}

// scenario 6: host-handle subscription ordering, also driven by the
// FakeHost's virtual clock rather than real sleeps.
func TestReactor_HostHandleSubscriptionOrdering(t *testing.T) {
	exec, host := newTestExecutorWithHost()
	reactor := exec.Reactor()

	var order []string
	specs := []struct {
		name string
		d    time.Duration
	}{
		{"first", 1 * time.Millisecond},
		{"third", 5 * time.Millisecond},
		{"second", 2 * time.Millisecond},
	}

	futures := make([]asyncrt.Future, len(specs))
	for i, s := range specs {
		h := host.SubscribeDuration(s.d)
		futures[i] = asyncrt.HandleSubscribe(reactor, h)
	}

	root := asyncrt.FutureFunc(func(ctx context.Context) (any, bool) {
		remaining := 0
		for i, f := range futures {
			if f == nil {
				continue
			}
			if _, ready := f.Poll(ctx); ready {
				order = append(order, specs[i].name)
				futures[i] = nil
				continue
			}
			remaining++
		}
		return nil, remaining == 0
	})

	_, err := exec.BlockOn(context.Background(), root)
	require.NoError(t, err)

	require.Equal(t, []string{"first", "second", "third"}, order)
	assert.True(t, reactor.IsEmpty())
}

func TestReactor_DuplicateSubscriptionName(t *testing.T) {
	exec, host := newTestExecutorWithHost()
	reactor := exec.Reactor()

	h := host.SubscribeDuration(time.Millisecond)
	err := reactor.RegisterSubscription("dup", h, nil)
	require.NoError(t, err)

	err = reactor.RegisterSubscription("dup", h, nil)
	assert.ErrorIs(t, err, asyncrt.ErrDuplicateName)
}
