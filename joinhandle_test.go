package asyncrt_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wasmrt/asyncrt"
)

// scenario 8 (expansion), exercised with a sleep timer: cancelling a join
// handle while its task is suspended on a Sleep releases that timer, and the
// awaited result is a *CancelledError.
func TestJoinHandle_CancelBeforeReady(t *testing.T) {
	exec := newTestExecutor()
	reactor := exec.Reactor()

	childStarted := make(chan struct{})
	child := &longSleepChild{reactor: reactor, started: childStarted}

	handle, err := exec.Spawn(child)
	require.NoError(t, err)

	root := asyncrt.FutureFunc(func(ctx context.Context) (any, bool) {
		<-childStarted
		handle.Cancel()
		_, cerr := handle.Await(ctx)
		var cancelled *asyncrt.CancelledError
		assert.ErrorAs(t, cerr, &cancelled)
		return nil, true
	})

	_, err = exec.BlockOn(context.Background(), root)
	require.NoError(t, err)
	assert.True(t, child.polledAtLeastOnce)
}

// longSleepChild sleeps far longer than the test should ever run,
// implementing Dropper so a Cancel mid-suspension releases its timer and
// lets the Reactor reach quiescence.
type longSleepChild struct {
	reactor           *asyncrt.Reactor
	started           chan struct{}
	sleep             asyncrt.Future
	polledAtLeastOnce bool
}

func (c *longSleepChild) Poll(ctx context.Context) (any, bool) {
	c.polledAtLeastOnce = true
	select {
	case <-c.started:
	default:
		close(c.started)
	}
	if c.sleep == nil {
		c.sleep = asyncrt.Sleep(c.reactor, time.Hour)
	}
	if _, ready := c.sleep.Poll(ctx); !ready {
		return nil, false
	}
	return "unreachable", true
}

func (c *longSleepChild) Drop() {
	if d, ok := c.sleep.(asyncrt.Dropper); ok {
		d.Drop()
	}
}
