package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var ErrPoolClosed = errors.New("runtime pool is closed")

// Pool keeps hardened runtimes ready. Runtimes are single use: Acquire
// hands one out and schedules a replacement, Discard throws it away.
type Pool struct {
	opts    Options
	ready   chan *Runtime
	size    int
	mu      sync.RWMutex
	closed  bool
	created atomic.Int64
}

// NewPool creates a pool and fills it
func NewPool(opts Options) (*Pool, error) {
	size := opts.PoolSize
	if size < 0 {
		size = 0
	}

	pool := &Pool{
		opts:  opts,
		ready: make(chan *Runtime, size),
		size:  size,
	}

	for i := 0; i < size; i++ {
		rt, err := pool.build()
		if err != nil {
			pool.Close()
			return nil, err
		}
		pool.ready <- rt
	}

	return pool, nil
}

func (p *Pool) build() (*Runtime, error) {
	rt, err := newRuntime(p.opts)
	if err != nil {
		return nil, err
	}
	p.created.Add(1)
	return rt, nil
}

// Acquire returns a fresh runtime, building one inline if none is ready
func (p *Pool) Acquire(ctx context.Context) (*Runtime, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return nil, ErrPoolClosed
	}

	select {
	case rt, ok := <-p.ready:
		if !ok {
			return nil, ErrPoolClosed
		}
		p.refill()
		return rt, nil
	default:
		return p.build()
	}
}

// refill builds a replacement runtime in the background
func (p *Pool) refill() {
	go func() {
		rt, err := p.build()
		if err != nil {
			return
		}

		p.mu.RLock()
		defer p.mu.RUnlock()

		if p.closed {
			rt.discard()
			return
		}
		select {
		case p.ready <- rt:
		default:
			rt.discard()
		}
	}()
}

// Discard retires a used runtime
func (p *Pool) Discard(rt *Runtime) {
	if rt != nil {
		rt.discard()
	}
}

// Close closes the pool and drops ready runtimes
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true
	close(p.ready)

	for rt := range p.ready {
		rt.discard()
	}

	return nil
}

// Stats returns pool statistics
func (p *Pool) Stats() map[string]interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return map[string]interface{}{
		"size":      p.size,
		"available": len(p.ready),
		"created":   p.created.Load(),
		"closed":    p.closed,
	}
}
