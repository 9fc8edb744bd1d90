package engine

import (
	"context"
	"time"

	"github.com/GriffinCanCode/jsexec/internal/sandbox"
	"github.com/dop251/goja"
)

// Options configures the goja engine
type Options struct {
	PoolSize         int                   // prewarmed runtimes
	MaxCallStackSize int                   // JS call stack depth limit
	MemoryPoll       time.Duration         // heap sampling interval
	Memory           sandbox.MemorySampler // heap source for the memory bound
}

// DefaultOptions returns the engine defaults
func DefaultOptions() Options {
	return Options{
		PoolSize:         2,
		MaxCallStackSize: 1024,
		MemoryPoll:       10 * time.Millisecond,
		Memory:           sandbox.HeapSampler{},
	}
}

func (o Options) normalize() Options {
	def := DefaultOptions()
	if o.PoolSize < 0 {
		o.PoolSize = 0
	}
	if o.MaxCallStackSize <= 0 {
		o.MaxCallStackSize = def.MaxCallStackSize
	}
	if o.MemoryPoll <= 0 {
		o.MemoryPoll = def.MemoryPoll
	}
	if o.Memory == nil {
		o.Memory = def.Memory
	}
	return o
}

// Engine evaluates code on single-use goja runtimes
type Engine struct {
	opts Options
	pool *Pool
}

var _ sandbox.Engine = (*Engine)(nil)

// New creates an engine and prewarms its pool
func New(opts Options) (*Engine, error) {
	opts = opts.normalize()

	pool, err := NewPool(opts)
	if err != nil {
		return nil, err
	}

	return &Engine{opts: opts, pool: pool}, nil
}

// Evaluate compiles code and runs it on a fresh runtime
func (e *Engine) Evaluate(ctx context.Context, code string, cfg sandbox.Config, hook sandbox.ConsoleHook) (any, error) {
	program, err := goja.Compile("execute_js", sandbox.WrapBody(code), true)
	if err != nil {
		return nil, classify(err)
	}

	rt, err := e.pool.Acquire(ctx)
	if err != nil {
		return nil, sandbox.NewFailure(sandbox.FailureEngine, "failed to acquire runtime: %v", err)
	}
	defer e.pool.Discard(rt)

	return rt.run(ctx, program, cfg, hook)
}

// Stats returns pool statistics
func (e *Engine) Stats() map[string]interface{} {
	return e.pool.Stats()
}

// Close releases prewarmed runtimes
func (e *Engine) Close() error {
	return e.pool.Close()
}
