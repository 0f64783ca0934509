// SPDX-License-Identifier: MIT
// Package: lanepath/pathfind
//
// request.go — path requests, their lifecycle and a recycling pool.
//
// Lifecycle:
//   created (refs=1) → Enqueue (+1 ref, Queued) → Calculating → Ready|Failed
//   (worker drops its ref) → Release by the owner → retired when refs hit 0.
//
// A request is computed at most once; recycle it through RequestPool.

package pathfind

import (
	"iter"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/katalvlaran/lanepath/network"
)

// PathRequest is a shared path-request record. Exported fields are set by
// the caller before Enqueue and must not change afterwards.
type PathRequest struct {
	ID uuid.UUID

	// Start and End hold one or two alternative positions; zero entries are unused.
	Start [2]Position
	End   [2]Position

	LaneTypes    network.LaneType
	VehicleTypes network.VehicleType
	// MaxLength normalizes costs; 0 uses the engine policy default.
	MaxLength float32
	Flags     RequestFlags

	status atomic.Uint32
	refs   atomic.Int32
	done   chan struct{}
	err    error

	first       PathChunk
	chunks      *ChunkPool
	totalLength float32
	totalCost   float32

	owner *RequestPool
}

// NewPathRequest returns a request holding one reference for the caller.
func NewPathRequest() *PathRequest {
	r := &PathRequest{}
	r.init()
	return r
}

func (r *PathRequest) init() {
	r.ID = uuid.New()
	r.done = make(chan struct{})
	r.refs.Store(1)
}

// Status returns the current lifecycle bits.
func (r *PathRequest) Status() Status { return Status(r.status.Load()) }

// Ready reports a successfully computed path.
func (r *PathRequest) Ready() bool { return r.Status().Has(StatusReady) }

// Failed reports a failed computation.
func (r *PathRequest) Failed() bool { return r.Status().Has(StatusFailed) }

// Done is closed once the request is Ready or Failed.
func (r *PathRequest) Done() <-chan struct{} { return r.done }

// Err returns the failure cause, or nil before completion and on success.
func (r *PathRequest) Err() error {
	if !r.Failed() {
		return nil
	}
	return r.err
}

// TotalLength is the real length of the path.
func (r *PathRequest) TotalLength() float32 {
	if !r.Ready() {
		return 0
	}
	return r.totalLength
}

// TotalCost is the comparison value of the path.
func (r *PathRequest) TotalCost() float32 {
	if !r.Ready() {
		return 0
	}
	return r.totalCost
}

// First returns the head chunk of a ready path, or nil.
func (r *PathRequest) First() *PathChunk {
	if !r.Ready() {
		return nil
	}
	return &r.first
}

// ChunkCount is the number of chunks of a ready path.
func (r *PathRequest) ChunkCount() int {
	n := 0
	for c := r.First(); c != nil; c = c.next {
		n++
	}
	return n
}

// PositionCount is the number of positions of a ready path.
func (r *PathRequest) PositionCount() int {
	n := 0
	for c := r.First(); c != nil; c = c.next {
		n += c.Count
	}
	return n
}

// Positions iterates over a ready path's positions with their cumulative costs.
func (r *PathRequest) Positions() iter.Seq2[Position, float32] {
	return func(yield func(Position, float32) bool) {
		for c := r.First(); c != nil; c = c.next {
			for i := 0; i < c.Count; i++ {
				if !yield(c.Positions[i], c.Costs[i]) {
					return
				}
			}
		}
	}
}

// Retain adds a reference. It fails once the request has been retired.
func (r *PathRequest) Retain() bool {
	for {
		n := r.refs.Load()
		if n <= 0 {
			return false
		}
		if r.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// Release drops a reference. The last release frees the path's pooled
// chunks and hands the request back to its RequestPool, if any.
func (r *PathRequest) Release() {
	if r.refs.Add(-1) != 0 {
		return
	}
	r.freeChunks()
	if r.owner != nil {
		r.owner.put(r)
	}
}

// finish publishes the outcome; err must be nil exactly when status is Ready.
func (r *PathRequest) finish(status Status, err error) {
	r.err = err
	r.status.Store(uint32(status))
	close(r.done)
}

func (r *PathRequest) freeChunks() {
	if r.chunks != nil && r.first.next != nil {
		r.chunks.FreeChain(r.first.next)
	}
	r.first.reset()
	r.chunks = nil
}

// RequestPool recycles retired requests.
type RequestPool struct {
	pool sync.Pool
}

// NewRequestPool returns an empty pool.
func NewRequestPool() *RequestPool {
	return &RequestPool{}
}

// Get returns a fresh request holding one reference, with a new ID.
func (p *RequestPool) Get() *PathRequest {
	r, _ := p.pool.Get().(*PathRequest)
	if r == nil {
		r = &PathRequest{}
	}
	r.init()
	r.owner = p
	return r
}

func (p *RequestPool) put(r *PathRequest) {
	r.Start, r.End = [2]Position{}, [2]Position{}
	r.LaneTypes, r.VehicleTypes = 0, 0
	r.MaxLength, r.Flags = 0, 0
	r.status.Store(0)
	r.err = nil
	r.totalLength, r.totalCost = 0, 0
	r.owner = nil
	p.pool.Put(r)
}
