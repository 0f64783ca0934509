// SPDX-License-Identifier: MIT
// Package: lanepath/pathfind
//
// result.go — turning the finished search into a chunked path.

package pathfind

import (
	"fmt"

	"github.com/katalvlaran/lanepath/bucketqueue"
	"github.com/katalvlaran/lanepath/network"
)

// build follows target links from the popped start lane e to an end lane,
// writes the positions into the request's chunks and commits the route to
// the traffic meter. Nothing is written when chunks cannot be allocated.
func (r *runner) build(e bucketqueue.Entry[item], s startPoint) error {
	total := e.Value
	length := e.Item.distance
	if e.Item.pos.Offset != s.pos.Offset {
		if l := r.snap.Lane(s.lane); l != nil {
			length += offsetDistance(l.Length, e.Item.pos.Offset, s.pos.Offset)
		}
	}

	chain := append(r.chain[:0], link{lane: s.lane, pos: s.pos, value: total})
	limit := r.q.Layout().MaxLanes
	for cur := e; cur.Item.target != 0; {
		if len(chain) > limit {
			return fmt.Errorf("%w: route exceeds %d lanes", ErrInternal, limit)
		}
		next, ok := r.q.Lookup(uint32(cur.Item.target))
		if !ok {
			return fmt.Errorf("%w: lane %d has no search entry", ErrInternal, cur.Item.target)
		}
		chain = append(chain, link{lane: cur.Item.target, pos: next.Item.pos, value: next.Value})
		cur = next
	}
	if len(chain) == 1 {
		// Start and end share one lane.
		chain = append(chain, link{lane: s.lane, pos: e.Item.pos, value: 0})
	}
	r.chain = chain

	n := len(chain)
	extra, ok := r.chunks.AllocN((n+ChunkCapacity-1)/ChunkCapacity - 1)
	if !ok {
		return ErrChunkPoolExhausted
	}

	req := r.req
	req.first.reset()
	c := &req.first
	for i, ln := range chain {
		if i > 0 && i%ChunkCapacity == 0 {
			c.next = extra[i/ChunkCapacity-1]
			c = c.next
		}
		c.Positions[c.Count] = ln.pos
		c.Costs[c.Count] = total - ln.value
		c.Count++
	}

	var assigned float32
	for c := &req.first; c != nil; c = c.next {
		if c.next == nil {
			c.Length = length - assigned
			break
		}
		c.Length = length * float32(c.Count) / float32(n)
		assigned += c.Length
	}

	req.chunks = r.chunks
	req.totalLength = length
	req.totalCost = total
	r.positions = n

	if t := r.snap.Traffic(); t != nil {
		var prev network.LaneID
		for _, ln := range chain {
			if ln.lane != prev {
				t.Add(ln.lane)
				prev = ln.lane
			}
		}
	}

	return nil
}
