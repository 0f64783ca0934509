// SPDX-License-Identifier: MIT
// Package: lanepath/pathfind
//
// pool.go — several engines sharing one chunk pool.

package pathfind

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/lanepath/cost"
)

// Pool dispatches requests to the least loaded of several engines.
type Pool struct {
	engines []*Engine
	chunks  *ChunkPool
}

// NewPool creates workers engines on net sharing a pool of chunkCapacity
// chunks. Engine i is named "<name>-<i>" and seeded with seed+i.
func NewPool(workers int, net NetworkSource, chunkCapacity int, opts ...Option) (*Pool, error) {
	if workers < 1 {
		return nil, fmt.Errorf("pathfind: NewPool workers=%d: %w", workers, ErrBadWorkerCount)
	}
	base := DefaultOptions()
	for _, opt := range opts {
		opt(&base)
	}

	p := &Pool{chunks: NewChunkPool(chunkCapacity)}
	for i := 0; i < workers; i++ {
		eopts := append(opts[:len(opts):len(opts)],
			WithName(fmt.Sprintf("%s-%d", base.Name, i)),
			WithSeed(base.Seed+uint64(i)),
		)
		e, err := New(net, p.chunks, eopts...)
		if err != nil {
			return nil, err
		}
		p.engines = append(p.engines, e)
	}

	return p, nil
}

// Engines returns the pool's engines.
func (p *Pool) Engines() []*Engine { return p.engines }

// Chunks returns the shared chunk pool.
func (p *Pool) Chunks() *ChunkPool { return p.chunks }

// Enqueue hands req to the engine with the smallest load.
func (p *Pool) Enqueue(req *PathRequest, skipQueue bool) bool {
	best := p.engines[0]
	bestLoad := best.Load()
	for _, e := range p.engines[1:] {
		if l := e.Load(); l < bestLoad {
			best, bestLoad = e, l
		}
	}
	return best.Enqueue(req, skipQueue)
}

// Run runs every engine's worker until ctx is cancelled or the pool is
// closed. The first worker error cancels the others.
func (p *Pool) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, e := range p.engines {
		g.Go(func() error { return e.Run(gctx) })
	}
	return g.Wait()
}

// WaitForAll waits until every engine is idle.
func (p *Pool) WaitForAll(ctx context.Context) error {
	for _, e := range p.engines {
		if err := e.WaitForAll(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every engine.
func (p *Pool) Close() {
	for _, e := range p.engines {
		e.Close()
	}
}

// SetPolicy updates the policy of every engine.
func (p *Pool) SetPolicy(pol Policy) error {
	for _, e := range p.engines {
		if err := e.SetPolicy(pol); err != nil {
			return err
		}
	}
	return nil
}

// SetCostParams updates the cost tuning of every engine.
func (p *Pool) SetCostParams(c cost.Params) error {
	for _, e := range p.engines {
		if err := e.SetCostParams(c); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns the counters of every engine.
func (p *Pool) Stats() []Stats {
	out := make([]Stats, len(p.engines))
	for i, e := range p.engines {
		out[i] = e.Stats()
	}
	return out
}
