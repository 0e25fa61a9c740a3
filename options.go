package asyncrt

// Option configures an Executor at construction time. The functional-options
// shape mirrors the rest of this module's configuration surface.
type Option interface {
	apply(*execOptions)
}

type execOptions struct {
	host        Host
	clock       Clock
	logger      *Logger
	tickBudget  int
	panicPolicy PanicPolicy
}

// PanicPolicy controls how a panicking task poll is handled.
type PanicPolicy int

const (
	// PanicIsolate recovers the panic at the task boundary, resolving
	// only that task's JoinHandle with a *PanicError. This is the
	// default.
	PanicIsolate PanicPolicy = iota
	// PanicAbort lets the panic propagate out of BlockOn, stopping the
	// entire runtime immediately.
	PanicAbort
)

type optionFunc func(*execOptions)

func (f optionFunc) apply(o *execOptions) { f(o) }

// WithHost overrides the Host implementation consumed by the Reactor.
func WithHost(h Host) Option {
	return optionFunc(func(o *execOptions) { o.host = h })
}

// WithClock overrides the monotonic clock source used for timers.
func WithClock(c Clock) Option {
	return optionFunc(func(o *execOptions) { o.clock = c })
}

// WithLogger installs a structured logger, replacing the package default.
func WithLogger(l *Logger) Option {
	return optionFunc(func(o *execOptions) { o.logger = l })
}

// WithTickBudget bounds how many ready-queue entries are drained per loop
// iteration before timers are re-advanced and WaitForIO is reconsidered. A
// value <= 0 means unbounded (drain until empty).
func WithTickBudget(n int) Option {
	return optionFunc(func(o *execOptions) { o.tickBudget = n })
}

// WithPanicPolicy selects how task panics are handled. Default is
// PanicIsolate.
func WithPanicPolicy(p PanicPolicy) Option {
	return optionFunc(func(o *execOptions) { o.panicPolicy = p })
}

func resolveOptions(opts []Option) execOptions {
	o := execOptions{
		tickBudget:  0,
		panicPolicy: PanicIsolate,
	}
	for _, opt := range opts {
		opt.apply(&o)
	}
	if o.logger == nil {
		o.logger = globalLogger()
	}
	return o
}
