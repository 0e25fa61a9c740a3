// Command demo-timers drives three named host-timer subscriptions directly
// against a Reactor and reports their readiness order, mirroring the
// original host/guest timer split demonstrated in
// original_source/examples/timers/{timer-host,timer-wasm} and the teacher's
// examples/03_timers convention of a small, printable concurrency demo.
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
	var configPath string

	root := &cobra.Command{
		Use:   "demo-timers",
		Short: "Subscribe to several host timer handles and report readiness order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := asyncrt.LoadDemoConfig(configPath)
			if err != nil && configPath != "" {
				return fmt.Errorf("loading config: %w", err)
			}

			specs := cfg.Timers
			if len(specs) == 0 {
				specs = []asyncrt.TimerDemoSpec{
					{Name: "first", MilliSecond: 1},
					{Name: "second", MilliSecond: 5},
					{Name: "third", MilliSecond: 2},
				}
			}

			host := hostsim.New()
			exec := asyncrt.NewExecutor(asyncrt.WithHost(host), asyncrt.WithClock(host))

			order := make(chan string, len(specs))
			rootFuture := newSubscribeAllFuture(exec.Reactor(), host, specs, order)

			start := time.Now()
			if _, err := exec.BlockOn(cmd.Context(), rootFuture); err != nil {
				return err
			}
			close(order)
			for name := range order {
				fmt.Printf("%s ready at %v\n", name, time.Since(start).Round(time.Millisecond))
			}
			return nil
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// subscribeAllFuture runs every named timer subscription concurrently
// (from the perspective of a single task's repeated polls), reporting
// readiness order on order as each resolves.
type subscribeAllFuture struct {
	names   []string
	futures []asyncrt.Future
	order   chan<- string
}

func newSubscribeAllFuture(reactor *asyncrt.Reactor, host *hostsim.Host, specs []asyncrt.TimerDemoSpec, order chan<- string) *subscribeAllFuture {
	f := &subscribeAllFuture{order: order}
	for _, s := range specs {
		handle := host.SubscribeDuration(time.Duration(s.MilliSecond) * time.Millisecond)
		f.names = append(f.names, s.Name)
		f.futures = append(f.futures, asyncrt.HandleSubscribe(reactor, handle))
	}
	return f
}

func (f *subscribeAllFuture) Poll(ctx context.Context) (any, bool) {
	remaining := 0
	for i, fut := range f.futures {
		if fut == nil {
			continue
		}
		if _, ready := fut.Poll(ctx); ready {
			f.order <- f.names[i]
			f.futures[i] = nil
			continue
		}
		remaining++
	}
	return nil, remaining == 0
}
