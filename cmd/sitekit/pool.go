package main

import (
	"runtime"
	"sync"
)

// maxPoolSize bounds the enhance worker pool.
const maxPoolSize = 64

// EnhancerPool hands PageEnhancer instances to batch workers. Instances are
// built lazily through the factory on first acquire, so a small batch never
// pays for the full pool.
type EnhancerPool struct {
	size    int
	factory func() (PageEnhancer, error)
	sem     chan PageEnhancer
	mu      sync.Mutex
	created int
	closed  bool
	err     error // first factory failure
}

// NewEnhancerPool creates a pool with capacity for n enhancers.
func NewEnhancerPool(n int, factory func() (PageEnhancer, error)) *EnhancerPool {
	if n < 1 {
		n = 1
	}

	return &EnhancerPool{
		size:    n,
		factory: factory,
		sem:     make(chan PageEnhancer, n),
	}
}

// Compile-time check that EnhancerPool implements Pool.
var _ Pool = (*EnhancerPool)(nil)

// Acquire gets an enhancer from the pool, creating one if needed.
// Blocks if all enhancers are in use. Returns nil if creation failed;
// Err reports why.
func (p *EnhancerPool) Acquire() PageEnhancer {
	select {
	case e := <-p.sem:
		return e
	default:
	}

	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		e, err := p.factory()
		if err != nil {
			p.mu.Lock()
			p.created--
			if p.err == nil {
				p.err = err
			}
			p.mu.Unlock()
			return nil
		}
		return e
	}
	p.mu.Unlock()

	return <-p.sem
}

// Release returns an enhancer to the pool.
func (p *EnhancerPool) Release(e PageEnhancer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed && e != nil {
		p.sem <- e
	}
}

// Close stops the pool from accepting releases.
func (p *EnhancerPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	close(p.sem)
}

// Err returns the first factory failure, if any.
func (p *EnhancerPool) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Size returns the pool capacity.
func (p *EnhancerPool) Size() int {
	return p.size
}

// resolvePoolSize determines the worker count.
// Priority: explicit value > GOMAXPROCS-based calculation.
func resolvePoolSize(workers int) int {
	if workers > 0 {
		return min(workers, maxPoolSize)
	}

	// Enhancement is CPU-bound parsing, so use every processor
	// automaxprocs grants, capped for memory.
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	if n > 16 {
		return 16
	}
	return n
}
