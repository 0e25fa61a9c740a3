// Command demo-join runs the canonical return-value-plumbing scenario end
// to end: a root task sleeps, spawns a child that sleeps and returns a
// value, awaits the child, and returns child+1. Grounded on the teacher's
// examples/01_basic_usage convention of a minimal, fully-wired program and
// on spec scenario 1 (return value plumbing through BlockOn/Spawn/Await).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/wasmrt/asyncrt"
	"github.com/wasmrt/asyncrt/hostsim"
)

func main() {
	root := &cobra.Command{
		Use:   "demo-join",
		Short: "Spawn a child task, await it, and print the combined result",
		RunE: func(cmd *cobra.Command, args []string) error {
			host := hostsim.New()
			exec := asyncrt.NewExecutor(asyncrt.WithHost(host), asyncrt.WithClock(host))
			reactor := exec.Reactor()

			rootFuture := asyncrt.FutureFunc(rootTask(exec, reactor))

			start := time.Now()
			value, err := exec.BlockOn(cmd.Context(), rootFuture)
			if err != nil {
				return err
			}
			fmt.Printf("result=%v elapsed=%v\n", value, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootTask returns a poll function implementing the root of scenario 1: it
// sleeps 200ms, spawns a child that sleeps 100ms and returns 999, awaits
// the child, and returns child+1.
func rootTask(exec *asyncrt.Executor, reactor *asyncrt.Reactor) func(context.Context) (any, bool) {
	const (
		stepSleeping = iota
		stepAwaitingChild
	)
	step := stepSleeping
	var sleep asyncrt.Future
	var child *asyncrt.JoinHandle[any]

	return func(ctx context.Context) (any, bool) {
		switch step {
		case stepSleeping:
			if sleep == nil {
				sleep = asyncrt.Sleep(reactor, 200*time.Millisecond)
			}
			if _, ready := sleep.Poll(ctx); !ready {
				return nil, false
			}
			h, err := exec.Spawn(asyncrt.FutureFunc(childTask(reactor)))
			if err != nil {
				panic(err)
			}
			child = h
			step = stepAwaitingChild
			return nil, false

		case stepAwaitingChild:
			v, ready := child.Poll(ctx)
			if !ready {
				return nil, false
			}
			n, _ := v.(int)
			return n + 1, true
		}
		panic("unreachable")
	}
}

// childTask returns a poll function that sleeps 100ms then resolves to 999.
func childTask(reactor *asyncrt.Reactor) func(context.Context) (any, bool) {
	var sleep asyncrt.Future
	return func(ctx context.Context) (any, bool) {
		if sleep == nil {
			sleep = asyncrt.Sleep(reactor, 100*time.Millisecond)
		}
		if _, ready := sleep.Poll(ctx); !ready {
			return nil, false
		}
		return 999, true
	}
}
