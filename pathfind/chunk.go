// SPDX-License-Identifier: MIT
// Package: lanepath/pathfind
//
// chunk.go — fixed-capacity path chunks and the shared chunk pool.
//
// A path is a singly linked list of chunks. The first chunk lives inside its
// PathRequest; successors come from a ChunkPool shared by all engines.

package pathfind

import "sync"

// PathChunk is a fixed-capacity run of consecutive path positions.
type PathChunk struct {
	// Positions[:Count] are the chunk's positions in travel order.
	Positions [ChunkCapacity]Position
	// Costs[i] is the cumulative cost from the start up to Positions[i].
	Costs [ChunkCapacity]float32
	// Count is the number of used entries.
	Count int
	// Length is this chunk's share of the total path length.
	Length float32

	next *PathChunk
	slot int32 // 1-based pool slot, 0 when not pooled
}

// Next returns the following chunk, or nil at the end of the path.
func (c *PathChunk) Next() *PathChunk { return c.next }

// RemainingLength sums Length over this chunk and its successors.
func (c *PathChunk) RemainingLength() float32 {
	var sum float32
	for ; c != nil; c = c.next {
		sum += c.Length
	}
	return sum
}

func (c *PathChunk) reset() {
	slot := c.slot
	*c = PathChunk{}
	c.slot = slot
}

// ChunkPool is a bounded, thread-safe allocator of PathChunks. All chunks
// live in one slab allocated up front.
type ChunkPool struct {
	mu   sync.Mutex
	slab []PathChunk
	free []int32
}

// NewChunkPool allocates a pool of capacity chunks. A capacity below 1 is raised to 1.
func NewChunkPool(capacity int) *ChunkPool {
	if capacity < 1 {
		capacity = 1
	}
	p := &ChunkPool{
		slab: make([]PathChunk, capacity),
		free: make([]int32, capacity),
	}
	for i := range p.slab {
		p.slab[i].slot = int32(i + 1)
		p.free[i] = int32(capacity - i) // pop order: slot 1 first
	}

	return p
}

// Capacity is the total number of chunks.
func (p *ChunkPool) Capacity() int { return len(p.slab) }

// InUse is the number of allocated chunks.
func (p *ChunkPool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.slab) - len(p.free)
}

// Alloc returns one cleared chunk, or false when the pool is exhausted.
func (p *ChunkPool) Alloc() (*PathChunk, bool) {
	out, ok := p.AllocN(1)
	if !ok {
		return nil, false
	}
	return out[0], true
}

// AllocN allocates n chunks at once, or none at all.
// Complexity: O(n).
func (p *ChunkPool) AllocN(n int) ([]*PathChunk, bool) {
	if n <= 0 {
		return nil, true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if n > len(p.free) {
		return nil, false
	}
	out := make([]*PathChunk, n)
	for i := range out {
		slot := p.free[len(p.free)-1]
		p.free = p.free[:len(p.free)-1]
		c := &p.slab[slot-1]
		c.reset()
		out[i] = c
	}

	return out, true
}

// FreeChain returns c and every chunk linked after it. Chunks that do not
// belong to the pool (such as a request's inline chunk) are skipped.
func (p *ChunkPool) FreeChain(c *PathChunk) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for c != nil {
		next := c.next
		if c.slot > 0 && int(c.slot) <= len(p.slab) && &p.slab[c.slot-1] == c {
			c.reset()
			p.free = append(p.free, c.slot)
		}
		c = next
	}
}
