// SPDX-License-Identifier: MIT
// Package: lanepath/pathfind
//
// explore.go — expansion of a popped lane into its predecessors.
//
// A lane travelled in direction d is entered at its far node (segment start
// for forward travel) or at any lane node it passes before its exit offset.
// Every other segment at such a node offers candidate predecessor lanes:
//
//	vehicles     one lane chosen by similarity, highway rules or lane mapping,
//	             plus manual connections and start lanes
//	pedestrians  the nearest sidewalk, plus crossings on the own segment
//	transitions  both kinds, at a multiplied cost

package pathfind

import (
	"math"
	"slices"

	"github.com/katalvlaran/lanepath/bucketqueue"
	"github.com/katalvlaran/lanepath/cost"
	"github.com/katalvlaran/lanepath/network"
)

// hop is an expansion of one popped lane at one node.
type hop struct {
	from       bucketqueue.Entry[item]
	lane       *network.Lane
	dir        network.Direction // travel direction on lane
	node       *network.Node
	dist       float32 // distance from entering lane at node to its exit offset
	laneNode   bool
	transition bool
}

func (r *runner) expand(e bucketqueue.Entry[item]) {
	l := r.snap.Lane(network.LaneID(e.Lane))
	if l == nil {
		return
	}
	r.lane, r.segment = l.ID, l.Segment
	it := e.Item

	for _, d := range [...]network.Direction{network.DirForward, network.DirBackward} {
		if it.dir&d == 0 {
			continue
		}
		var connect uint8
		if d == network.DirBackward {
			connect = network.OffsetMax
		}
		r.expandAt(e, l, d, r.snap.FarNode(l.ID, d), connect, false)

		r.snap.LaneNodes(l.ID, func(nd *network.Node) bool {
			if (d == network.DirForward && nd.LaneOffset < it.pos.Offset) ||
				(d == network.DirBackward && nd.LaneOffset > it.pos.Offset) {
				r.expandAt(e, l, d, nd.ID, nd.LaneOffset, true)
			}
			return true
		})
	}
}

func (r *runner) expandAt(e bucketqueue.Entry[item], l *network.Lane, d network.Direction, node network.NodeID, connect uint8, laneNode bool) {
	nd := r.snap.Node(node)
	if nd == nil || !nd.Valid {
		return
	}
	h := hop{
		from:       e,
		lane:       l,
		dir:        d,
		node:       nd,
		dist:       offsetDistance(l.Length, connect, e.Item.pos.Offset),
		laneNode:   laneNode,
		transition: nd.Flags&network.NodeTransition != 0,
	}
	pedestrian := l.Types&network.LanePedestrian != 0
	bike := r.bikeCoupling && l.Vehicles&network.VehicleBicycle != 0

	found := 0
	for _, seg := range nd.Segments {
		if seg == l.Segment || r.snap.Blocked(seg, r.ignore) {
			continue
		}
		if pedestrian {
			found += r.nearest(h, seg, true)
			if r.bikeCoupling {
				found += r.nearest(h, seg, false)
			}
			if h.transition {
				found += r.drive(h, seg, false)
			}
			continue
		}
		found += r.drive(h, seg, false)
		if bike || h.transition {
			found += r.nearest(h, seg, true)
		}
	}
	if laneNode {
		return
	}
	if pedestrian && (found == 0 || r.snap.IsJunction(nd.ID)) {
		r.cross(h)
	}
	if !pedestrian && found == 0 && r.policy.AllowUTurnFallback {
		r.drive(h, l.Segment, true)
	}
}

// drivable reports a non-pedestrian lane admitting the request.
func (r *runner) drivable(lid network.LaneID) bool {
	l := r.snap.Lane(lid)
	return l != nil && l.Types&network.LanePedestrian == 0 &&
		r.snap.Compatible(lid, r.driveTypes, r.req.VehicleTypes)
}

// drive pushes the vehicle predecessors of h.lane on seg. With uturn set,
// seg is the lane's own segment and arrows are ignored.
func (r *runner) drive(h hop, seg network.SegmentID, uturn bool) int {
	sg := r.snap.Segment(seg)
	if sg == nil || !sg.Valid {
		return 0
	}
	arr := r.snap.ArrivalDirection(seg, h.node.ID)
	if arr == network.DirNone {
		return 0
	}

	pushed := 0
	cands := r.cands[:0]
	for _, lid := range sg.Lanes {
		if lid == h.lane.ID || !r.drivable(lid) || !r.snap.EffectiveDirection(lid).Allows(arr) {
			continue
		}
		if r.snap.HasLaneConnections(lid, h.node.ID) {
			if r.snap.Connected(lid, h.lane.ID, h.node.ID) && r.push(h, lid, seg, arr, 0, 0, 1) {
				pushed++
			}
			continue
		}
		cands = append(cands, lid)
	}
	r.cands = cands
	if len(cands) == 0 {
		return pushed
	}

	if !uturn {
		turn := network.TurnStraight
		if !h.laneNode {
			turn = r.snap.Turn(h.node.ID, seg, h.lane.Segment)
		}
		kept := r.kept[:0]
		for _, lid := range cands {
			if r.snap.ArrowsPermit(lid, turn) {
				kept = append(kept, lid)
			}
		}
		r.kept = kept
		if r.policy.StrictLaneArrows || len(kept) > 0 {
			cands = append(cands[:0], kept...)
		}
		if len(cands) == 0 {
			return pushed
		}
	}

	// Order right (curb) to left.
	slices.SortStableFunc(cands, func(a, b network.LaneID) int {
		ia, _ := r.snap.RightSimilarIndex(a, arr, r.driveTypes, r.req.VehicleTypes)
		ib, _ := r.snap.RightSimilarIndex(b, arr, r.driveTypes, r.req.VehicleTypes)
		return ia - ib
	})

	src, srcCount := r.snap.RightSimilarIndex(h.lane.ID, h.dir, r.driveTypes, r.req.VehicleTypes)
	if src < 0 {
		src = 0
	}
	if srcCount < 1 {
		srcCount = 1
	}
	n := len(cands)

	var pick int
	switch {
	case uturn:
		pick = r.closest(h, cands)
	case n == 1:
		pick = 0
	default:
		if off, ok := r.highwayOffset(h, seg); ok {
			left, _ := r.snap.LeftSimilarIndex(h.lane.ID, h.dir, r.driveTypes, r.req.VehicleTypes)
			pick = n - 1 - HighwayLane(max(left, 0), off, n)
		} else if h.laneNode || r.snap.IsJunction(h.node.ID) {
			pick = clampIndex(src, n)
		} else {
			pick = MapLane(r.random, src, srcCount, n)
		}
	}

	count := max(srcCount, n)
	if r.push(h, cands[pick], seg, arr, 0, absInt(pick-src), count) {
		pushed++
	}
	for i, lid := range cands {
		if i != pick && r.isStartLane(lid) && r.push(h, lid, seg, arr, 0, absInt(i-src), count) {
			pushed++
		}
	}
	if pushed == 0 {
		// The selected lane already holds a cheaper entry; it still counts as
		// a way onto this lane.
		pushed = 1
	}

	return pushed
}

// highwayOffset returns the left-index shift forced at a highway split or
// merge, where seg feeds h.lane's segment across h.node.
func (r *runner) highwayOffset(h hop, seg network.SegmentID) (int, bool) {
	node, cur := h.node.ID, h.lane.Segment
	if !r.policy.HighwayRules || h.laneNode || !r.snap.IsJunction(node) ||
		!r.snap.IsHighway(seg) || !r.snap.IsHighway(cur) ||
		!r.snap.IsIncomingOneWay(seg, node) || !r.snap.IsOutgoingOneWay(cur, node) {
		return 0, false
	}

	var in, out []network.SegmentID
	for _, s := range h.node.Segments {
		if !r.snap.IsHighway(s) || r.snap.Blocked(s, r.ignore) {
			continue
		}
		switch {
		case r.snap.IsIncomingOneWay(s, node):
			in = append(in, s)
		case r.snap.IsOutgoingOneWay(s, node):
			out = append(out, s)
		}
	}

	switch {
	case len(in) == 1 && len(out) > 1:
		// Split: branches left of cur take seg's leftmost lanes.
		ref, ok := r.snap.TurnAngle(node, seg, cur)
		if !ok {
			return 0, false
		}
		off := 0
		for _, s := range out {
			if a, ok := r.snap.TurnAngle(node, seg, s); ok && s != cur && a > ref {
				off += r.laneCount(s, r.snap.ArrivalDirection(s, node).Reverse())
			}
		}
		return off, true
	case len(out) == 1 && len(in) > 1:
		// Merge: feeders left of seg occupy cur's leftmost lanes.
		ref, ok := r.snap.TurnAngle(node, seg, cur)
		if !ok {
			return 0, false
		}
		off := 0
		for _, s := range in {
			if a, ok := r.snap.TurnAngle(node, s, cur); ok && s != seg && a < ref {
				off -= r.laneCount(s, r.snap.ArrivalDirection(s, node))
			}
		}
		return off, true
	}

	return 0, false
}

// laneCount counts drivable lanes of seg admitting travel in d.
func (r *runner) laneCount(seg network.SegmentID, d network.Direction) int {
	sg := r.snap.Segment(seg)
	if sg == nil {
		return 0
	}
	n := 0
	for _, lid := range sg.Lanes {
		if r.drivable(lid) && r.snap.EffectiveDirection(lid).Allows(d) {
			n++
		}
	}
	return n
}

// closest returns the index of the candidate nearest to h.lane at h.node.
func (r *runner) closest(h hop, cands []network.LaneID) int {
	best, bestD := 0, float32(math.MaxFloat32)
	for i, lid := range cands {
		if d := r.snap.LateralDistance(h.lane.ID, lid, h.node.ID); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// nearest pushes the lane of one kind on seg nearest to h.lane: a sidewalk
// when pedestrian is set, otherwise a lane admitting bicycles. Start lanes of
// that kind are pushed as well. It returns 1 if the queue accepted any of them.
func (r *runner) nearest(h hop, seg network.SegmentID, pedestrian bool) int {
	sg := r.snap.Segment(seg)
	if sg == nil || !sg.Valid {
		return 0
	}
	arr := r.snap.ArrivalDirection(seg, h.node.ID)
	if arr == network.DirNone {
		return 0
	}

	var best network.LaneID
	bestD := float32(math.MaxFloat32)
	found := 0
	for _, lid := range sg.Lanes {
		if lid == h.lane.ID || !r.walkable(lid, pedestrian) || !r.snap.EffectiveDirection(lid).Allows(arr) {
			continue
		}
		d := r.snap.LateralDistance(h.lane.ID, lid, h.node.ID)
		if r.isStartLane(lid) && r.push(h, lid, seg, arr, d, 0, 1) {
			found = 1
		}
		if d < bestD {
			best, bestD = lid, d
		}
	}
	if best != 0 && r.push(h, best, seg, arr, bestD, 0, 1) {
		found = 1
	}

	return found
}

func (r *runner) walkable(lid network.LaneID, pedestrian bool) bool {
	l := r.snap.Lane(lid)
	if l == nil || !r.snap.Compatible(lid, r.req.LaneTypes, r.req.VehicleTypes) {
		return false
	}
	if pedestrian {
		return l.Types&network.LanePedestrian != 0
	}
	return l.Types&network.LaneVehicle != 0 && l.Vehicles&network.VehicleBicycle != 0
}

// cross pushes the other sidewalks of h.lane's own segment, reached by
// crossing the road at h.node.
func (r *runner) cross(h hop) {
	seg := h.lane.Segment
	sg := r.snap.Segment(seg)
	if sg == nil {
		return
	}
	arr := r.snap.ArrivalDirection(seg, h.node.ID)
	for _, lid := range sg.Lanes {
		if lid == h.lane.ID || !r.walkable(lid, true) || !r.snap.EffectiveDirection(lid).Allows(arr) {
			continue
		}
		r.push(h, lid, seg, arr, r.snap.LateralDistance(h.lane.ID, lid, h.node.ID), 0, 1)
	}
}

// push evaluates the edge from cand (on seg, arriving at h.node in arr) onto
// h.lane and offers it to the queue. extra is walked or crossed distance at
// the node. It reports whether the queue accepted the entry.
func (r *runner) push(h hop, cand network.LaneID, seg network.SegmentID, arr network.Direction, extra float32, laneDist, laneCount int) bool {
	c := r.snap.Lane(cand)
	if c == nil {
		return false
	}
	it := h.from.Item
	l := h.lane

	next := item{
		pos:        Position{Segment: seg, Lane: c.Index, Offset: r.snap.ConnectOffset(seg, h.node.ID)},
		dir:        arr,
		types:      c.Types,
		distance:   it.distance + h.dist + extra,
		toJunction: -1,
		target:     l.ID,
	}

	next.methodDist = h.dist + extra
	if c.Types == it.types {
		next.methodDist += it.methodDist
	}
	if c.Types&network.LanePedestrian != 0 && next.methodDist > r.costs.PedestrianMaxDistance {
		return false
	}

	switch {
	case r.snap.IsJunction(h.node.ID):
		next.toJunction = 0
	case it.toJunction >= 0 && it.toJunction < math.MaxInt16:
		next.toJunction = it.toJunction + 1
	}

	v := h.from.Value + r.edgeCost(h, c, seg, extra, laneDist, laneCount)

	if s, ok := r.startOn(cand, arr, next.pos.Offset); ok {
		part := offsetDistance(c.Length, next.pos.Offset, s.pos.Offset)
		v += cost.Compute(r.costs, cost.Edge{
			Distance:   part,
			SpeedFrom:  c.SpeedLimit,
			SpeedTo:    c.SpeedLimit,
			MaxLength:  r.maxLength,
			Multiplier: r.policy.CostMultiplier,
		})
		next.pos.Offset = s.pos.Offset
		next.distance += part
	}

	return r.q.DecreaseKeyOrInsert(uint32(cand), v, next)
}

// edgeCost charges the distance travelled on h.lane, entered from c.
func (r *runner) edgeCost(h hop, c *network.Lane, seg network.SegmentID, extra float32, laneDist, laneCount int) float32 {
	l := h.lane
	lseg := r.snap.Segment(l.Segment)
	heavy := r.req.Flags&FlagHeavy != 0
	vehicle := l.Types&network.LanePedestrian == 0 && c.Types&network.LanePedestrian == 0
	dir := r.snap.EffectiveDirection(l.ID)

	e := cost.Edge{
		Distance:           h.dist + extra,
		SpeedFrom:          c.SpeedLimit,
		SpeedTo:            l.SpeedLimit,
		MaxLength:          r.maxLength,
		Transition:         h.transition,
		RampBoundary:       r.policy.RampPenalty && vehicle && r.snap.IsHighway(seg) != r.snap.IsHighway(l.Segment),
		HeavyBan:           heavy && lseg.Flags&network.SegHeavyBan != 0,
		CarBan:             !heavy && r.req.VehicleTypes&network.VehicleCar != 0 && l.Types&network.LaneVehicle != 0 && lseg.Flags&network.SegCarBan != 0,
		Avoided:            dir.Avoided(h.dir),
		AvoidPreferred:     dir&network.DirBoth != 0,
		LaneDistance:       laneDist,
		LaneCount:          laneCount,
		SegmentsToJunction: -1,
		TransitLane:        l.Types&network.LaneTransport != 0 && r.req.Flags&FlagTransport == 0,
		Multiplier:         r.policy.CostMultiplier,
	}
	if r.jitter {
		e.Jitter = cost.Jitter(r.seed, r.gen, uint32(l.Segment), r.costs.JitterMax)
	}
	if r.snap.IsHighway(l.Segment) {
		e.SegmentsToJunction = int(h.from.Item.toJunction)
	}
	if t := r.snap.Traffic(); t != nil {
		e.DensityFrom, e.DensityTo = t.Density(c.ID), t.Density(l.ID)
	}

	return cost.Compute(r.costs, e)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
