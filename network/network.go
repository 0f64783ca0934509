// SPDX-License-Identifier: MIT
// Package: lanepath/network
//
// network.go — the mutable network and its thread-safe editing API.
//
// Concurrency:
//   • All mutations take mu for writing; Snapshot takes it for reading while
//     copying. Readers of a published Snapshot never lock.
//   • Slices shared with published snapshots (Node.Segments, Segment.Lanes)
//     are copy-on-write: mutations always build a fresh slice.
//   • version is bumped on every mutation; Snapshot republishes lazily.

package network

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"
)

// connKey identifies the manual connections of one lane at one of its nodes.
type connKey struct {
	lane LaneID
	node NodeID
}

// Network is the editable lane-level road network.
//
// Use the mutation methods to build or edit it from any goroutine, and hand
// Snapshot() results to consumers that need a consistent read-only view.
type Network struct {
	mu sync.RWMutex

	nodes    []Node    // index = NodeID; slot 0 unused
	segments []Segment // index = SegmentID; slot 0 unused
	lanes    []Lane    // index = LaneID; slot 0 unused

	// conns[(lane,node)] = set of target LaneIDs reachable from lane at node.
	conns map[connKey]*roaring.Bitmap

	leftHand bool
	traffic  *Traffic

	version   atomic.Uint64
	published atomic.Pointer[Snapshot]
}

// New creates an empty network.
// Complexity: O(1).
func New(opts ...Option) *Network {
	n := &Network{
		nodes:    make([]Node, 1),
		segments: make([]Segment, 1),
		lanes:    make([]Lane, 1),
		conns:    make(map[connKey]*roaring.Bitmap),
		traffic:  NewTraffic(DefaultTrafficSaturation),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.version.Store(1)

	return n
}

// Traffic returns the live traffic meter shared by all snapshots of n.
func (n *Network) Traffic() *Traffic { return n.traffic }

// Version returns the current mutation counter.
func (n *Network) Version() uint64 { return n.version.Load() }

// AddNode inserts a node at (x, y) and returns its ID.
// Complexity: O(1) amortized.
func (n *Network) AddNode(x, y float64, flags NodeFlags) NodeID {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := NodeID(len(n.nodes))
	n.nodes = append(n.nodes, Node{ID: id, X: x, Y: y, Flags: flags, Valid: true})
	n.version.Add(1)

	return id
}

// SetNodeFlags replaces the flags of node id.
func (n *Network) SetNodeFlags(id NodeID, flags NodeFlags) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.hasNode(id) {
		return fmt.Errorf("SetNodeFlags(%d): %w", id, ErrNodeNotFound)
	}
	n.nodes[id].Flags = flags
	n.version.Add(1)

	return nil
}

// AddSegment links start and end with a segment carrying spec.Lanes.
// Lanes are re-ordered by lateral position (stable) and indexed 0..k-1.
//
// Errors: ErrNodeNotFound, ErrSelfLoop, ErrNoLanes, ErrDegreeExceeded.
// Complexity: O(k log k) for k lanes.
func (n *Network) AddSegment(start, end NodeID, spec SegmentSpec) (SegmentID, error) {
	if start == end {
		return 0, fmt.Errorf("AddSegment(%d,%d): %w", start, end, ErrSelfLoop)
	}
	if len(spec.Lanes) == 0 || len(spec.Lanes) > MaxLanesPerSegment {
		return 0, fmt.Errorf("AddSegment(%d,%d): %d lanes: %w", start, end, len(spec.Lanes), ErrNoLanes)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.hasNode(start) || !n.hasNode(end) {
		return 0, fmt.Errorf("AddSegment(%d,%d): %w", start, end, ErrNodeNotFound)
	}
	if n.nodes[start].Degree() >= MaxNodeDegree || n.nodes[end].Degree() >= MaxNodeDegree {
		return 0, fmt.Errorf("AddSegment(%d,%d): %w", start, end, ErrDegreeExceeded)
	}

	length := spec.Length
	if length <= 0 {
		a, b := n.nodes[start], n.nodes[end]
		length = float32(math.Hypot(b.X-a.X, b.Y-a.Y))
	}

	specs := append([]LaneSpec(nil), spec.Lanes...)
	sort.SliceStable(specs, func(i, j int) bool { return specs[i].Position < specs[j].Position })

	id := SegmentID(len(n.segments))
	laneIDs := make([]LaneID, len(specs))
	for i, ls := range specs {
		lid := LaneID(len(n.lanes))
		n.lanes = append(n.lanes, Lane{
			ID:         lid,
			Segment:    id,
			Index:      uint8(i),
			Types:      ls.Types,
			Vehicles:   ls.Vehicles,
			Direction:  ls.Direction,
			SpeedLimit: ls.SpeedLimit,
			Position:   ls.Position,
			Length:     length,
		})
		laneIDs[i] = lid
	}

	n.segments = append(n.segments, Segment{
		ID:     id,
		Start:  start,
		End:    end,
		Lanes:  laneIDs,
		Length: length,
		Flags:  spec.Flags,
		Valid:  true,
	})
	n.nodes[start].Segments = appendSegment(n.nodes[start].Segments, id)
	n.nodes[end].Segments = appendSegment(n.nodes[end].Segments, id)
	n.version.Add(1)

	return id, nil
}

// RemoveSegment invalidates a segment. Its ID and lanes stay addressable in
// later snapshots (with Valid=false) so in-flight consumers can detect staleness.
func (n *Network) RemoveSegment(id SegmentID) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.hasSegment(id) {
		return fmt.Errorf("RemoveSegment(%d): %w", id, ErrSegmentNotFound)
	}
	seg := &n.segments[id]
	seg.Valid = false
	n.nodes[seg.Start].Segments = removeSegment(n.nodes[seg.Start].Segments, id)
	n.nodes[seg.End].Segments = removeSegment(n.nodes[seg.End].Segments, id)

	// Drop manual connections from or into the removed lanes.
	for key, set := range n.conns {
		if n.lanes[key.lane].Segment == id {
			delete(n.conns, key)
			continue
		}
		pruned := set.Clone()
		for _, lid := range seg.Lanes {
			pruned.Remove(uint32(lid))
		}
		if pruned.IsEmpty() {
			delete(n.conns, key)
		} else {
			n.conns[key] = pruned
		}
	}
	n.version.Add(1)

	return nil
}

// SetSegmentFlags sets flags on segment id (bitwise OR).
func (n *Network) SetSegmentFlags(id SegmentID, flags SegmentFlags) error {
	return n.updateSegment(id, func(s *Segment) { s.Flags |= flags })
}

// ClearSegmentFlags clears flags on segment id.
func (n *Network) ClearSegmentFlags(id SegmentID, flags SegmentFlags) error {
	return n.updateSegment(id, func(s *Segment) { s.Flags &^= flags })
}

// SetLaneArrows replaces the turn arrows of a lane. Zero removes the restriction.
func (n *Network) SetLaneArrows(id LaneID, arrows Arrows) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.hasLane(id) {
		return fmt.Errorf("SetLaneArrows(%d): %w", id, ErrLaneNotFound)
	}
	n.lanes[id].Arrows = arrows
	n.version.Add(1)

	return nil
}

// ConnectLanes adds a manual connection: traffic arriving at node on lane
// from may continue on lane to. Once a lane has any manual connection at a
// node, only its manual connections are honoured there.
//
// Errors: ErrLaneNotFound, ErrNodeNotFound (a lane's segment does not touch node).
func (n *Network) ConnectLanes(from, to LaneID, node NodeID) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.checkTouches(from, to, node); err != nil {
		return fmt.Errorf("ConnectLanes(%d→%d@%d): %w", from, to, node, err)
	}
	key := connKey{lane: from, node: node}
	// Published snapshots may share the previous bitmap.
	set := roaring.New()
	if prev, ok := n.conns[key]; ok {
		set = prev.Clone()
	}
	set.Add(uint32(to))
	n.conns[key] = set
	n.version.Add(1)

	return nil
}

// DisconnectLanes removes a manual connection added by ConnectLanes.
func (n *Network) DisconnectLanes(from, to LaneID, node NodeID) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	key := connKey{lane: from, node: node}
	set, ok := n.conns[key]
	if !ok {
		return nil
	}
	set = set.Clone()
	set.Remove(uint32(to))
	if set.IsEmpty() {
		delete(n.conns, key)
	} else {
		n.conns[key] = set
	}
	n.version.Add(1)

	return nil
}

// AttachLaneNode places node on lane at offset and prepends it to the lane's
// lane-node chain. The node keeps its own segments, which become reachable
// from the middle of the lane.
func (n *Network) AttachLaneNode(node NodeID, lane LaneID, offset uint8) error {
	if offset == 0 || offset == OffsetMax {
		return fmt.Errorf("AttachLaneNode(%d,%d,%d): %w", node, lane, offset, ErrInvalidOffset)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.hasNode(node) {
		return fmt.Errorf("AttachLaneNode(%d): %w", node, ErrNodeNotFound)
	}
	if !n.hasLane(lane) {
		return fmt.Errorf("AttachLaneNode(%d,%d): %w", node, lane, ErrLaneNotFound)
	}
	nd := &n.nodes[node]
	nd.Lane = lane
	nd.LaneOffset = offset
	nd.NextLaneNode = n.lanes[lane].FirstNode
	n.lanes[lane].FirstNode = node
	n.version.Add(1)

	return nil
}

// SetLeftHandTraffic switches the driving side.
func (n *Network) SetLeftHandTraffic(left bool) {
	n.mu.Lock()
	n.leftHand = left
	n.mu.Unlock()
	n.version.Add(1)
}

// Snapshot returns the published read-only view of the current version,
// republishing first when the network changed since the last call.
//
// Complexity: O(1) when unchanged; O(V + S + L) to republish.
func (n *Network) Snapshot() *Snapshot {
	if s := n.published.Load(); s != nil && s.version == n.version.Load() {
		return s
	}

	n.mu.RLock()
	s := n.buildSnapshot()
	n.mu.RUnlock()

	n.published.Store(s)

	return s
}

// updateSegment applies fn to a live segment under the write lock.
func (n *Network) updateSegment(id SegmentID, fn func(*Segment)) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.hasSegment(id) {
		return fmt.Errorf("segment %d: %w", id, ErrSegmentNotFound)
	}
	fn(&n.segments[id])
	n.version.Add(1)

	return nil
}

// checkTouches verifies that both lanes exist and their segments meet node.
// Caller holds mu.
func (n *Network) checkTouches(from, to LaneID, node NodeID) error {
	if !n.hasLane(from) || !n.hasLane(to) {
		return ErrLaneNotFound
	}
	for _, lid := range [2]LaneID{from, to} {
		seg := n.segments[n.lanes[lid].Segment]
		if seg.Start != node && seg.End != node {
			return ErrNodeNotFound
		}
	}

	return nil
}

func (n *Network) hasNode(id NodeID) bool {
	return id != 0 && int(id) < len(n.nodes) && n.nodes[id].Valid
}

func (n *Network) hasSegment(id SegmentID) bool {
	return id != 0 && int(id) < len(n.segments) && n.segments[id].Valid
}

func (n *Network) hasLane(id LaneID) bool {
	return id != 0 && int(id) < len(n.lanes)
}

// appendSegment returns a fresh slice; the old one may be shared with a snapshot.
func appendSegment(list []SegmentID, id SegmentID) []SegmentID {
	out := make([]SegmentID, len(list), len(list)+1)
	copy(out, list)

	return append(out, id)
}

func removeSegment(list []SegmentID, id SegmentID) []SegmentID {
	out := make([]SegmentID, 0, len(list))
	for _, s := range list {
		if s != id {
			out = append(out, s)
		}
	}

	return out
}
