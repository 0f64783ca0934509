// SPDX-License-Identifier: MIT
// Package: lanepath/network
//
// components.go — connected components over undirected segment adjacency.

package network

// ComponentSet labels every valid segment of a snapshot with its connected
// component. Two segments are adjacent when they share a node; lane
// directions and blocking flags are ignored.
type ComponentSet struct {
	of    []int32 // index = SegmentID; -1 for invalid segments
	sizes []int
}

// Components finds the connected components of s.
//
// Time:   O(S + V·d), d ≤ MaxNodeDegree.
// Memory: O(S) for labels and the BFS queue.
func Components(s *Snapshot) *ComponentSet {
	cs := &ComponentSet{of: make([]int32, len(s.segments))}
	for i := range cs.of {
		cs.of[i] = -1
	}

	queue := make([]SegmentID, 0, len(s.segments))
	for i := 1; i < len(s.segments); i++ {
		if !s.segments[i].Valid || cs.of[i] >= 0 {
			continue
		}
		label := int32(len(cs.sizes))
		queue = append(queue[:0], SegmentID(i))
		cs.of[i] = label

		for qi := 0; qi < len(queue); qi++ {
			seg := &s.segments[queue[qi]]
			for _, end := range [2]NodeID{seg.Start, seg.End} {
				for _, next := range s.nodes[end].Segments {
					if cs.of[next] >= 0 || !s.segments[next].Valid {
						continue
					}
					cs.of[next] = label
					queue = append(queue, next)
				}
			}
		}
		cs.sizes = append(cs.sizes, len(queue))
	}

	return cs
}

// Count is the number of components.
func (c *ComponentSet) Count() int { return len(c.sizes) }

// Of returns the component label of seg, or -1.
func (c *ComponentSet) Of(seg SegmentID) int {
	if int(seg) >= len(c.of) {
		return -1
	}
	return int(c.of[seg])
}

// Size returns the number of segments in component label.
func (c *ComponentSet) Size(label int) int {
	if label < 0 || label >= len(c.sizes) {
		return 0
	}
	return c.sizes[label]
}

// Connected reports whether a and b lie in the same component.
func (c *ComponentSet) Connected(a, b SegmentID) bool {
	la := c.Of(a)
	return la >= 0 && la == c.Of(b)
}

// Largest returns the label of the biggest component, or -1 when empty.
func (c *ComponentSet) Largest() int {
	best := -1
	for i, n := range c.sizes {
		if best < 0 || n > c.sizes[best] {
			best = i
		}
	}
	return best
}

// Segments lists the members of component label in ascending ID order.
func (c *ComponentSet) Segments(label int) []SegmentID {
	var out []SegmentID
	for i, l := range c.of {
		if int(l) == label && label >= 0 {
			out = append(out, SegmentID(i))
		}
	}
	return out
}
