package sandbox

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultAbandonGrace is how long Execute waits for an engine to honour a
// cancelled context before giving up on it.
const DefaultAbandonGrace = 250 * time.Millisecond

// ErrAbandoned marks an engine call that outlived its deadline plus grace
var ErrAbandoned = errors.New("engine did not stop after cancellation")

// Executor runs validated code on an Engine and collects telemetry
type Executor struct {
	engine Engine
	memory MemorySampler
	grace  time.Duration
}

// ExecutorOption configures an Executor
type ExecutorOption func(*Executor)

// WithMemorySampler overrides the process heap sampler
func WithMemorySampler(sampler MemorySampler) ExecutorOption {
	return func(e *Executor) {
		if sampler != nil {
			e.memory = sampler
		}
	}
}

// WithAbandonGrace overrides DefaultAbandonGrace
func WithAbandonGrace(grace time.Duration) ExecutorOption {
	return func(e *Executor) {
		if grace > 0 {
			e.grace = grace
		}
	}
}

// NewExecutor creates an executor backed by engine
func NewExecutor(engine Engine, opts ...ExecutorOption) *Executor {
	e := &Executor{
		engine: engine,
		memory: HeapSampler{},
		grace:  DefaultAbandonGrace,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type evalResult struct {
	value any
	err   error
}

// Execute runs code under cfg. The caller must have validated code. Execute
// never panics and never blocks past cfg.Timeout plus the abandon grace.
func (e *Executor) Execute(ctx context.Context, code string, cfg Config) Outcome {
	console := NewConsoleBuffer()

	runCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	done := make(chan evalResult, 1)
	watch := StartStopwatch()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- evalResult{err: NewFailure(FailureEngine, "engine panic: %v", r)}
			}
		}()
		value, err := e.engine.Evaluate(runCtx, code, cfg, console.Append)
		done <- evalResult{value: value, err: err}
	}()

	var res evalResult
	select {
	case res = <-done:
	case <-runCtx.Done():
		abandon := time.NewTimer(e.grace)
		select {
		case res = <-done:
		case <-abandon.C:
			res = evalResult{err: ErrAbandoned}
		}
		abandon.Stop()
	}

	elapsed := watch.Elapsed()
	lines := console.Seal()

	if res.err != nil {
		return Outcome{
			Elapsed: elapsed,
			Failure: e.classify(ctx, runCtx, cfg, res.err),
		}
	}

	return Outcome{
		Value:       res.value,
		Console:     lines,
		Elapsed:     elapsed,
		MemoryBytes: e.memory.SampleMemory(),
	}
}

// classify maps an engine error onto a Failure. Cancellation of the run
// context wins over whatever the engine reported, since an interrupted
// engine may surface the interrupt as an ordinary exception.
func (e *Executor) classify(parent, runCtx context.Context, cfg Config, err error) *Failure {
	var failure *Failure
	isFailure := errors.As(err, &failure)

	if isFailure && (failure.Kind == FailureMemory || failure.Kind == FailureCompile) {
		return failure
	}

	if runCtx.Err() != nil {
		if parent.Err() != nil {
			return NewFailure(FailureCanceled, "execution cancelled: %v", parent.Err())
		}
		return NewFailure(FailureTimeout, "execution exceeded %dms", cfg.Timeout.Milliseconds())
	}

	if isFailure {
		return failure
	}
	return &Failure{Kind: FailureEngine, Message: fmt.Sprintf("%v", err)}
}
