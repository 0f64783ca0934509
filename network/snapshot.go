// SPDX-License-Identifier: MIT
// Package: lanepath/network
//
// snapshot.go — immutable, lock-free view of a Network version.
//
// A Snapshot never changes after publication, so any number of goroutines
// may query it without synchronization. Returned *Node/*Segment/*Lane values
// point into the snapshot and must be treated as read-only.

package network

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Snapshot is a published read-only version of a Network.
type Snapshot struct {
	version  uint64
	leftHand bool

	nodes    []Node
	segments []Segment
	lanes    []Lane

	conns map[connKey]*roaring.Bitmap

	closed  *roaring.Bitmap // SegClosed segments
	blocked *roaring.Bitmap // SegFlooded | SegPathFailed segments

	geo     geometry
	traffic *Traffic
}

// buildSnapshot copies the topology and precomputes caches. Caller holds mu (read).
func (n *Network) buildSnapshot() *Snapshot {
	s := &Snapshot{
		version:  n.version.Load(),
		leftHand: n.leftHand,
		nodes:    append([]Node(nil), n.nodes...),
		segments: append([]Segment(nil), n.segments...),
		lanes:    append([]Lane(nil), n.lanes...),
		conns:    make(map[connKey]*roaring.Bitmap, len(n.conns)),
		closed:   roaring.New(),
		blocked:  roaring.New(),
		traffic:  n.traffic,
	}
	// Bitmaps are replaced, never mutated in place, by the Network after
	// publication, so sharing them is safe.
	for k, v := range n.conns {
		s.conns[k] = v
	}
	for i := 1; i < len(s.segments); i++ {
		seg := &s.segments[i]
		if !seg.Valid {
			continue
		}
		if seg.Flags&SegClosed != 0 {
			s.closed.Add(uint32(i))
		}
		if seg.Flags&segBlocked != 0 {
			s.blocked.Add(uint32(i))
		}
	}
	s.closed.RunOptimize()
	s.blocked.RunOptimize()
	s.geo = buildGeometry(s)

	return s
}

// Version is the Network version this snapshot was taken at.
func (s *Snapshot) Version() uint64 { return s.version }

// LeftHandTraffic reports the driving side.
func (s *Snapshot) LeftHandTraffic() bool { return s.leftHand }

// Traffic returns the live traffic meter.
func (s *Snapshot) Traffic() *Traffic { return s.traffic }

// NodeCount, SegmentCount and LaneCount return the ID bound (max ID + 1).
func (s *Snapshot) NodeCount() int    { return len(s.nodes) }
func (s *Snapshot) SegmentCount() int { return len(s.segments) }
func (s *Snapshot) LaneCount() int    { return len(s.lanes) }

// Node returns the node with id, or nil when id is out of range.
// Removed or never-valid nodes are returned with Valid=false.
func (s *Snapshot) Node(id NodeID) *Node {
	if id == 0 || int(id) >= len(s.nodes) {
		return nil
	}
	return &s.nodes[id]
}

// Segment returns the segment with id, or nil when id is out of range.
func (s *Snapshot) Segment(id SegmentID) *Segment {
	if id == 0 || int(id) >= len(s.segments) {
		return nil
	}
	return &s.segments[id]
}

// Lane returns the lane with id, or nil when id is out of range.
func (s *Snapshot) Lane(id LaneID) *Lane {
	if id == 0 || int(id) >= len(s.lanes) {
		return nil
	}
	return &s.lanes[id]
}

// LaneAt resolves the index-th lane of seg; 0 when either is out of range.
func (s *Snapshot) LaneAt(seg SegmentID, index uint8) LaneID {
	sg := s.Segment(seg)
	if sg == nil || int(index) >= len(sg.Lanes) {
		return 0
	}
	return sg.Lanes[index]
}

// NodeSegments lists the segments meeting at node (nil for unknown nodes).
func (s *Snapshot) NodeSegments(node NodeID) []SegmentID {
	if nd := s.Node(node); nd != nil {
		return nd.Segments
	}
	return nil
}

// OtherNode returns the node of seg opposite to node, or 0 when node is not an end of seg.
func (s *Snapshot) OtherNode(seg SegmentID, node NodeID) NodeID {
	sg := s.Segment(seg)
	switch {
	case sg == nil:
		return 0
	case sg.Start == node:
		return sg.End
	case sg.End == node:
		return sg.Start
	}
	return 0
}

// EffectiveDirection is the lane direction with the segment's invert flag applied.
func (s *Snapshot) EffectiveDirection(id LaneID) Direction {
	l := s.Lane(id)
	if l == nil {
		return DirNone
	}
	if s.segments[l.Segment].Flags&SegInvert != 0 {
		return l.Direction.Reverse()
	}
	return l.Direction
}

// FarNode is the node a vehicle travelling on lane in direction d has
// entered from: the segment start for forward travel, the end for backward.
func (s *Snapshot) FarNode(lane LaneID, d Direction) NodeID {
	l := s.Lane(lane)
	if l == nil {
		return 0
	}
	sg := &s.segments[l.Segment]
	if d == DirBackward {
		return sg.End
	}
	return sg.Start
}

// ArrivalDirection is the direction of travel along seg that arrives at node.
func (s *Snapshot) ArrivalDirection(seg SegmentID, node NodeID) Direction {
	sg := s.Segment(seg)
	switch {
	case sg == nil:
		return DirNone
	case sg.End == node:
		return DirForward
	case sg.Start == node:
		return DirBackward
	}
	return DirNone
}

// ConnectOffset is the lane offset at which seg touches node (0 or OffsetMax).
func (s *Snapshot) ConnectOffset(seg SegmentID, node NodeID) uint8 {
	if sg := s.Segment(seg); sg != nil && sg.End == node {
		return OffsetMax
	}
	return 0
}

// IsJunction reports whether node is an intersection: flagged as one, or
// at least three segments meet there.
func (s *Snapshot) IsJunction(node NodeID) bool {
	nd := s.Node(node)
	return nd != nil && (nd.Flags&NodeJunction != 0 || nd.Degree() >= 3)
}

// IsHighway reports the SegHighway flag.
func (s *Snapshot) IsHighway(seg SegmentID) bool {
	sg := s.Segment(seg)
	return sg != nil && sg.Flags&SegHighway != 0
}

// oneWay returns the single direction all vehicle lanes of seg share, or DirNone.
func (s *Snapshot) oneWay(seg SegmentID) Direction {
	sg := s.Segment(seg)
	if sg == nil {
		return DirNone
	}
	var fwd, bwd bool
	for _, lid := range sg.Lanes {
		if s.lanes[lid].Types&LaneVehicle == 0 {
			continue
		}
		d := s.EffectiveDirection(lid)
		fwd = fwd || d.Allows(DirForward)
		bwd = bwd || d.Allows(DirBackward)
	}
	switch {
	case fwd && !bwd:
		return DirForward
	case bwd && !fwd:
		return DirBackward
	}
	return DirNone
}

// IsOneWay reports whether every vehicle lane of seg runs the same way.
func (s *Snapshot) IsOneWay(seg SegmentID) bool { return s.oneWay(seg) != DirNone }

// IsOutgoingOneWay reports whether seg is one-way and its traffic leaves node.
func (s *Snapshot) IsOutgoingOneWay(seg SegmentID, node NodeID) bool {
	sg := s.Segment(seg)
	if sg == nil {
		return false
	}
	switch s.oneWay(seg) {
	case DirForward:
		return sg.Start == node
	case DirBackward:
		return sg.End == node
	}
	return false
}

// IsIncomingOneWay reports whether seg is one-way and its traffic enters node.
func (s *Snapshot) IsIncomingOneWay(seg SegmentID, node NodeID) bool {
	sg := s.Segment(seg)
	if sg == nil {
		return false
	}
	switch s.oneWay(seg) {
	case DirForward:
		return sg.End == node
	case DirBackward:
		return sg.Start == node
	}
	return false
}

// Blocked reports whether seg must be skipped. Closed and invalid segments are
// always blocked; flooded or path-failed ones only unless ignoreBlocked is set.
func (s *Snapshot) Blocked(seg SegmentID, ignoreBlocked bool) bool {
	sg := s.Segment(seg)
	if sg == nil || !sg.Valid || s.closed.Contains(uint32(seg)) {
		return true
	}
	return !ignoreBlocked && s.blocked.Contains(uint32(seg))
}

// LaneArrows returns the turn arrows of lane.
func (s *Snapshot) LaneArrows(lane LaneID) Arrows {
	if l := s.Lane(lane); l != nil {
		return l.Arrows
	}
	return 0
}

// ArrowsPermit reports whether lane may take turn t, mirroring the U-turn
// arrow for left-hand traffic.
func (s *Snapshot) ArrowsPermit(lane LaneID, t Turn) bool {
	a := s.LaneArrows(lane)
	if a == 0 {
		return true
	}
	if t == TurnUTurn && s.leftHand {
		return a&ArrowRight != 0
	}
	return a.Permits(t)
}

// HasLaneConnections reports whether lane has manual connections at node.
func (s *Snapshot) HasLaneConnections(lane LaneID, node NodeID) bool {
	_, ok := s.conns[connKey{lane: lane, node: node}]
	return ok
}

// LaneConnections returns the manual connection targets of lane at node, or
// nil. The bitmap is shared and must not be modified.
func (s *Snapshot) LaneConnections(lane LaneID, node NodeID) *roaring.Bitmap {
	return s.conns[connKey{lane: lane, node: node}]
}

// Connected reports whether a manual connection from → to exists at node.
func (s *Snapshot) Connected(from, to LaneID, node NodeID) bool {
	set := s.conns[connKey{lane: from, node: node}]
	return set != nil && set.Contains(uint32(to))
}

// Compatible reports whether lane admits the given lane-type and vehicle masks.
// Vehicle masks only restrict vehicle lanes.
func (s *Snapshot) Compatible(lane LaneID, types LaneType, vehicles VehicleType) bool {
	l := s.Lane(lane)
	if l == nil || l.Types&types == 0 {
		return false
	}
	return l.Types&LaneVehicle == 0 || l.Vehicles&vehicles != 0
}

// RightSimilarIndex numbers the lanes of lane's segment that are compatible
// with the masks and admit travel in d, counting from the curb edge (the
// right in right-hand traffic, the left in left-hand traffic). It returns the
// lane's index among them and their count; (-1, count) when lane itself is
// not one of them.
//
// Complexity: O(k) for k lanes on the segment.
func (s *Snapshot) RightSimilarIndex(lane LaneID, d Direction, types LaneType, vehicles VehicleType) (int, int) {
	l := s.Lane(lane)
	if l == nil {
		return -1, 0
	}
	// Looking along forward travel the right edge is the highest Position.
	rightIsHigh := d != DirBackward
	if s.leftHand {
		rightIsHigh = !rightIsHigh
	}

	index, count := 0, 0
	self := false
	for _, lid := range s.segments[l.Segment].Lanes {
		if !s.Compatible(lid, types, vehicles) || !s.EffectiveDirection(lid).Allows(d) {
			continue
		}
		count++
		if lid == lane {
			self = true
			continue
		}
		other := s.lanes[lid].Position
		if (rightIsHigh && other > l.Position) || (!rightIsHigh && other < l.Position) {
			index++
		}
	}
	if !self {
		return -1, count
	}

	return index, count
}

// LeftSimilarIndex is RightSimilarIndex counted from the opposite edge.
func (s *Snapshot) LeftSimilarIndex(lane LaneID, d Direction, types LaneType, vehicles VehicleType) (int, int) {
	idx, count := s.RightSimilarIndex(lane, d, types, vehicles)
	if idx < 0 {
		return idx, count
	}
	return count - 1 - idx, count
}

// LaneNodes calls fn for each lane node attached to lane until fn returns
// false. The walk stops after MaxLaneNodeIterations steps so that a cyclic
// chain terminates. It returns the number of nodes visited.
func (s *Snapshot) LaneNodes(lane LaneID, fn func(*Node) bool) int {
	l := s.Lane(lane)
	if l == nil {
		return 0
	}
	visited := 0
	for id := l.FirstNode; id != 0 && visited < MaxLaneNodeIterations; visited++ {
		nd := s.Node(id)
		if nd == nil {
			break
		}
		if !fn(nd) {
			visited++
			break
		}
		id = nd.NextLaneNode
	}

	return visited
}
