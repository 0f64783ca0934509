// SPDX-License-Identifier: MIT
// Package: lanepath/pathfind
//
// engine.go — a single-worker path engine with a FIFO request queue.
//
// Concurrency:
//   - Enqueue, WaitForAll, Close, SetPolicy and the accessors are safe from
//     any goroutine; Run is the only goroutine that searches.
//   - The queue, busy flag and shutdown flag are guarded by mu; waiters sleep
//     on cond and are woken on every state change and on context cancellation.
//   - Searches read an immutable network snapshot taken when they start.

package pathfind

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/katalvlaran/lanepath/cost"
	"github.com/katalvlaran/lanepath/network"
	"github.com/katalvlaran/lanepath/telemetry"
)

// NetworkSource publishes network snapshots; *network.Network implements it.
type NetworkSource interface {
	Snapshot() *network.Snapshot
}

// Engine computes path requests one at a time on its own worker goroutine.
type Engine struct {
	opts   Options
	net    NetworkSource
	chunks *ChunkPool
	log    *telemetry.Logger

	policy atomic.Pointer[Policy]
	costs  atomic.Pointer[cost.Params]

	mu       sync.Mutex
	cond     *sync.Cond
	queue    []*PathRequest
	busy     bool
	running  bool
	shutdown bool

	search *searcher

	processed atomic.Uint64
	ready     atomic.Uint64
	failed    atomic.Uint64
	expanded  atomic.Uint64
}

// Stats is a point-in-time view of an engine's counters.
type Stats struct {
	Name      string
	Queued    int
	Busy      bool
	Processed uint64
	Ready     uint64
	Failed    uint64
	Expanded  uint64
}

// New creates an engine reading from net. Successor chunks come from chunks;
// a nil pool gets a private one of DefaultChunkPoolCapacity chunks.
func New(net NetworkSource, chunks *ChunkPool, opts ...Option) (*Engine, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if chunks == nil {
		chunks = NewChunkPool(DefaultChunkPoolCapacity)
	}

	e := &Engine{
		opts:   o,
		net:    net,
		chunks: chunks,
		log:    o.Logger.WithEngine(o.Name),
		search: newSearcher(o.Layout),
	}
	e.cond = sync.NewCond(&e.mu)
	policy, params := o.Policy, o.Cost
	e.policy.Store(&policy)
	e.costs.Store(&params)

	return e, nil
}

// Name returns the engine name.
func (e *Engine) Name() string { return e.opts.Name }

// Chunks returns the chunk pool the engine allocates from.
func (e *Engine) Chunks() *ChunkPool { return e.chunks }

// Policy returns the current policy.
func (e *Engine) Policy() Policy { return *e.policy.Load() }

// SetPolicy replaces the policy for searches that start afterwards.
func (e *Engine) SetPolicy(p Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	e.policy.Store(&p)
	return nil
}

// CostParams returns the current cost tuning.
func (e *Engine) CostParams() cost.Params { return *e.costs.Load() }

// SetCostParams replaces the cost tuning for searches that start afterwards.
func (e *Engine) SetCostParams(p cost.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	e.costs.Store(&p)
	return nil
}

// Enqueue adds req to the queue, at its head when skipQueue is set. It fails
// when req is nil, retired, already submitted, or the engine is closed.
func (e *Engine) Enqueue(req *PathRequest, skipQueue bool) bool {
	if req == nil || !req.Retain() {
		return false
	}
	if !req.status.CompareAndSwap(0, uint32(StatusQueued)) {
		req.Release()
		return false
	}

	e.mu.Lock()
	if e.shutdown {
		e.mu.Unlock()
		req.status.Store(0)
		req.Release()
		return false
	}
	if skipQueue {
		e.queue = append(e.queue, nil)
		copy(e.queue[1:], e.queue)
		e.queue[0] = req
	} else {
		e.queue = append(e.queue, req)
	}
	depth := len(e.queue)
	e.cond.Broadcast()
	e.mu.Unlock()

	e.opts.Metrics.SetQueueDepth(e.opts.Name, depth)
	return true
}

// Load is the number of queued requests plus one while a search runs.
func (e *Engine) Load() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := len(e.queue)
	if e.busy {
		n++
	}
	return n
}

// Stats returns the engine counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	queued, busy := len(e.queue), e.busy
	e.mu.Unlock()

	return Stats{
		Name:      e.opts.Name,
		Queued:    queued,
		Busy:      busy,
		Processed: e.processed.Load(),
		Ready:     e.ready.Load(),
		Failed:    e.failed.Load(),
		Expanded:  e.expanded.Load(),
	}
}

// Run is the worker loop. It returns nil after Close, ctx.Err() when ctx is
// cancelled, and ErrAlreadyRunning if another Run is active.
func (e *Engine) Run(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return ErrAlreadyRunning
	}
	e.running = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.running = false
		e.cond.Broadcast()
		e.mu.Unlock()
	}()

	stop := context.AfterFunc(ctx, e.wake)
	defer stop()

	e.log.LogWorker(ctx, "started", e.Load(), nil)
	for {
		req, err := e.next(ctx)
		if err != nil {
			if errors.Is(err, ErrShutdown) {
				e.log.LogWorker(ctx, "stopped", 0, nil)
				return nil
			}
			e.log.LogWorker(ctx, "cancelled", e.Load(), err)
			return err
		}
		e.process(ctx, req)
	}
}

// next blocks until a request is available and marks the engine busy.
func (e *Engine) next(ctx context.Context) (*PathRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.queue) == 0 && !e.shutdown && ctx.Err() == nil {
		e.cond.Wait()
	}
	switch {
	case e.shutdown:
		return nil, ErrShutdown
	case ctx.Err() != nil:
		return nil, ctx.Err()
	}
	req := e.queue[0]
	e.queue[0] = nil
	e.queue = e.queue[1:]
	e.busy = true
	e.opts.Metrics.SetQueueDepth(e.opts.Name, len(e.queue))

	return req, nil
}

// process computes req, publishes its outcome and drops the worker's reference.
func (e *Engine) process(ctx context.Context, req *PathRequest) {
	req.status.Store(uint32(StatusCalculating))
	started := time.Now()

	gen := e.search.begin()
	ctx, span := e.opts.Tracer.StartSearch(ctx, e.opts.Name, gen, req.ID.String())
	res := e.search.search(searchParams{
		source: e.net,
		req:    req,
		chunks: e.chunks,
		policy: *e.policy.Load(),
		costs:  *e.costs.Load(),
		seed:   e.opts.Seed,
	})

	label := outcomeLabel(res.err)
	if res.err != nil {
		req.freeChunks()
		req.finish(StatusFailed, res.err)
		e.failed.Add(1)
	} else {
		req.finish(StatusReady, nil)
		e.ready.Add(1)
	}
	e.processed.Add(1)
	e.expanded.Add(uint64(res.expanded))

	log := e.log.WithGeneration(res.gen)
	if res.panicked {
		log.LogFailure(ctx, req.ID.String(), uint32(res.lane), uint32(res.segment), res.err)
	}
	log.LogSearch(ctx, req.ID.String(), label, res.positions, res.expanded, res.err)
	e.opts.Tracer.EndSearch(span, label, res.positions, res.expanded, res.err)
	e.opts.Metrics.ObserveSearch(label, time.Since(started), res.expanded, res.dropped)
	e.opts.Metrics.SetChunksInUse(e.chunks.InUse())

	req.Release()

	e.mu.Lock()
	e.busy = false
	e.cond.Broadcast()
	e.mu.Unlock()
}

// WaitForAll blocks until the queue is empty and no search is running. It
// returns ErrShutdown if the engine is closed first and ctx.Err() on
// cancellation.
func (e *Engine) WaitForAll(ctx context.Context) error {
	stop := context.AfterFunc(ctx, e.wake)
	defer stop()

	e.mu.Lock()
	defer e.mu.Unlock()
	for (len(e.queue) > 0 || e.busy) && !e.shutdown && ctx.Err() == nil {
		e.cond.Wait()
	}
	switch {
	case len(e.queue) == 0 && !e.busy:
		return nil
	case e.shutdown:
		return ErrShutdown
	}
	return ctx.Err()
}

// Close stops the worker after its current search. Requests still queued
// fail with ErrShutdown. Close is idempotent.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.shutdown {
		e.mu.Unlock()
		return
	}
	e.shutdown = true
	pending := e.queue
	e.queue = nil
	e.cond.Broadcast()
	e.mu.Unlock()

	for _, req := range pending {
		req.finish(StatusFailed, ErrShutdown)
		req.Release()
	}
	e.opts.Metrics.SetQueueDepth(e.opts.Name, 0)
}

func (e *Engine) wake() {
	e.mu.Lock()
	e.cond.Broadcast()
	e.mu.Unlock()
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return telemetry.OutcomeReady
	case errors.Is(err, ErrNoPathFound), errors.Is(err, ErrNoStart), errors.Is(err, ErrNoEnd):
		return telemetry.OutcomeNoPath
	case errors.Is(err, ErrChunkPoolExhausted):
		return telemetry.OutcomeAllocation
	}
	return telemetry.OutcomeInternal
}
