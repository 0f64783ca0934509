// SPDX-License-Identifier: MIT
// Package: lanepath/network
//
// geometry.go — per-node heading cache and turn classification.
//
// Headings are measured in radians, counter-clockwise from +X with +Y up.
// For every node the cache stores, aligned with Node.Segments, the heading of
// the vector from the node towards the segment's other end.

package network

import "math"

// Turn classification thresholds (radians).
const (
	straightTolerance = 35 * math.Pi / 180
	uTurnTolerance    = 160 * math.Pi / 180
)

// geometry is the precomputed heading cache of a snapshot.
type geometry struct {
	headings [][]float64 // index = NodeID
}

func buildGeometry(s *Snapshot) geometry {
	g := geometry{headings: make([][]float64, len(s.nodes))}
	for i := 1; i < len(s.nodes); i++ {
		nd := &s.nodes[i]
		if !nd.Valid || len(nd.Segments) == 0 {
			continue
		}
		hs := make([]float64, len(nd.Segments))
		for j, sid := range nd.Segments {
			other := &s.nodes[s.OtherNode(sid, nd.ID)]
			hs[j] = math.Atan2(other.Y-nd.Y, other.X-nd.X)
		}
		g.headings[i] = hs
	}

	return g
}

// Heading returns the cached heading from node along seg, and false when seg
// does not meet node.
func (s *Snapshot) Heading(node NodeID, seg SegmentID) (float64, bool) {
	nd := s.Node(node)
	if nd == nil || int(node) >= len(s.geo.headings) {
		return 0, false
	}
	for j, sid := range nd.Segments {
		if sid == seg {
			return s.geo.headings[node][j], true
		}
	}
	return 0, false
}

// TurnAngle is the signed angle travelled when arriving at node on from and
// leaving on to, normalised to (-π, π]. Positive angles turn left.
func (s *Snapshot) TurnAngle(node NodeID, from, to SegmentID) (float64, bool) {
	in, ok1 := s.Heading(node, from)
	out, ok2 := s.Heading(node, to)
	if !ok1 || !ok2 {
		return 0, false
	}
	// Arrival travels against the stored heading.
	return normalizeAngle(out - (in + math.Pi)), true
}

// Turn classifies the movement from segment from onto segment to across node.
// Leaving on the arrival segment is always a U-turn; unknown geometry is
// treated as straight.
func (s *Snapshot) Turn(node NodeID, from, to SegmentID) Turn {
	if from == to {
		return TurnUTurn
	}
	a, ok := s.TurnAngle(node, from, to)
	switch {
	case !ok || math.Abs(a) <= straightTolerance:
		return TurnStraight
	case math.Abs(a) >= uTurnTolerance:
		return TurnUTurn
	case a > 0:
		return TurnLeft
	}
	return TurnRight
}

// ConnectionPoint is where lane meets node: the node position shifted
// sideways by the lane's lateral position.
func (s *Snapshot) ConnectionPoint(lane LaneID, node NodeID) (x, y float64) {
	l, nd := s.Lane(lane), s.Node(node)
	if l == nil || nd == nil {
		return 0, 0
	}
	h, ok := s.Heading(node, l.Segment)
	if !ok {
		return nd.X, nd.Y
	}
	// Right-hand normal of the start→end direction.
	side := float64(l.Position)
	if s.segments[l.Segment].End == node {
		side = -side
	}
	return nd.X + side*math.Sin(h), nd.Y - side*math.Cos(h)
}

// LateralDistance is the distance between the connection points of two lanes at node.
func (s *Snapshot) LateralDistance(a, b LaneID, node NodeID) float32 {
	ax, ay := s.ConnectionPoint(a, node)
	bx, by := s.ConnectionPoint(b, node)
	return float32(math.Hypot(bx-ax, by-ay))
}

func normalizeAngle(a float64) float64 {
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}
