// Package asyncrt implements a minimal cooperative asynchronous task runtime
// for guest programs hosted inside a component-model sandbox. A single
// goroutine drives an Executor that multiplexes spawned tasks over a Reactor
// owning host subscriptions and timers, blocking only through a host-supplied
// batched poll primitive.
//
// The runtime never creates threads for task execution and never performs
// preemption: tasks cooperate by suspending at explicit await points exposed
// by the future adapters in this package (Sleep, Timeout, HandleSubscribe,
// JoinHandle).
package asyncrt
