// SPDX-License-Identifier: MIT
// Package: lanepath/pathfind
//
// search.go — one backward best-first search from the end positions to a start.
//
// The queue is keyed by lane. An entry's item describes how the lane is used
// by the best route found so far: where the route leaves it (pos.Offset), in
// which direction it is travelled, and which lane follows it (target).
// Popping a start lane whose offset is reachable from the start position
// finishes the search; the route is then read by following targets.

package pathfind

import (
	"fmt"
	"math/rand/v2"

	"github.com/katalvlaran/lanepath/bucketqueue"
	"github.com/katalvlaran/lanepath/cost"
	"github.com/katalvlaran/lanepath/network"
)

// item is the per-lane search state stored in the bucket queue.
type item struct {
	pos        Position
	dir        network.Direction // travel direction(s) on the lane
	types      network.LaneType  // lane types of the lane, for method distance
	methodDist float32           // distance travelled without changing lane type
	distance   float32           // real distance from pos to the end
	toJunction int16             // plain segments up to the next junction, -1 unknown
	target     network.LaneID    // next lane of the route, 0 at the end
}

type startPoint struct {
	lane network.LaneID
	pos  Position
}

type link struct {
	lane  network.LaneID
	pos   Position
	value float32
}

// searcher is the scratch memory of one engine, reused by every search.
type searcher struct {
	q     *bucketqueue.Queue[item]
	pcg   *rand.PCG
	rng   *rand.Rand
	cands []network.LaneID
	kept  []network.LaneID
	chain []link
}

func newSearcher(layout bucketqueue.Layout) *searcher {
	pcg := rand.NewPCG(0, 0)
	return &searcher{
		q:     bucketqueue.New[item](layout),
		pcg:   pcg,
		rng:   rand.New(pcg),
		cands: make([]network.LaneID, 0, 16),
		kept:  make([]network.LaneID, 0, 16),
		chain: make([]link, 0, 64),
	}
}

// outcome summarizes a finished search for logging and metrics.
type outcome struct {
	err       error
	gen       uint16
	positions int
	expanded  int
	dropped   int
	lane      network.LaneID
	segment   network.SegmentID
	panicked  bool
}

// searchParams is the configuration one search runs under.
type searchParams struct {
	source NetworkSource
	req    *PathRequest
	chunks *ChunkPool
	policy Policy
	costs  cost.Params
	seed   uint64
}

// runner is the state of one search.
type runner struct {
	*searcher
	searchParams

	snap         *network.Snapshot
	gen          uint16
	random       *rand.Rand // nil when choices are deterministic
	jitter       bool
	maxLength    float32
	ignore       bool
	driveTypes   network.LaneType
	bikeCoupling bool

	starts  [2]startPoint
	nStarts int

	expanded  int
	positions int
	lane      network.LaneID
	segment   network.SegmentID
}

// begin starts a new queue generation for the next search and returns it.
func (s *searcher) begin() uint16 { return s.q.Reset() }

// search runs one request to completion under the generation returned by
// the preceding begin. A panic inside the search is converted into
// ErrInternal carrying the lane and segment being expanded.
func (s *searcher) search(p searchParams) (res outcome) {
	r := &runner{searcher: s, searchParams: p, gen: s.q.Generation()}
	defer func() {
		if v := recover(); v != nil {
			res = r.outcome(fmt.Errorf("%w: %v", ErrInternal, v))
			res.panicked = true
		}
	}()

	return r.outcome(r.run())
}

func (r *runner) outcome(err error) outcome {
	return outcome{
		err:       err,
		gen:       r.gen,
		positions: r.positions,
		expanded:  r.expanded,
		dropped:   r.q.Dropped(),
		lane:      r.lane,
		segment:   r.segment,
	}
}

func (r *runner) run() error {
	if r.source != nil {
		r.snap = r.source.Snapshot()
	}
	if r.snap == nil {
		return ErrNilNetwork
	}
	if limit := r.q.Layout().MaxLanes; r.snap.LaneCount() > limit {
		return fmt.Errorf("%w: %d lanes exceed the search bound %d", ErrInternal, r.snap.LaneCount(), limit)
	}

	req := r.req
	r.maxLength = req.MaxLength
	if r.maxLength <= 0 {
		r.maxLength = r.policy.DefaultMaxLength
	}
	r.ignore = req.Flags&FlagIgnoreBlocked != 0
	r.driveTypes = req.LaneTypes &^ network.LanePedestrian
	r.bikeCoupling = req.VehicleTypes&network.VehicleBicycle != 0 &&
		req.LaneTypes&network.LanePedestrian != 0 &&
		req.LaneTypes&network.LaneVehicle != 0

	if err := r.resolveStarts(); err != nil {
		return err
	}

	if r.policy.Randomization && req.Flags&FlagStablePath == 0 {
		r.pcg.Seed(r.seed, uint64(r.gen))
		r.random = r.rng
		r.jitter = true
	}

	if err := r.seedEnds(); err != nil {
		return err
	}

	for {
		e, ok := r.q.PopMin()
		if !ok {
			return ErrNoPathFound
		}
		r.expanded++
		if s, ok := r.reachedStart(e); ok {
			return r.build(e, s)
		}
		r.expand(e)
	}
}

// resolve maps a position to its lane on a valid segment.
func (r *runner) resolve(p Position) (network.LaneID, bool) {
	if p.IsZero() {
		return 0, false
	}
	sg := r.snap.Segment(p.Segment)
	if sg == nil || !sg.Valid {
		return 0, false
	}
	lane := r.snap.LaneAt(p.Segment, p.Lane)

	return lane, lane != 0
}

func (r *runner) resolveStarts() error {
	r.nStarts = 0
	for _, p := range r.req.Start {
		lane, ok := r.resolve(p)
		if !ok {
			continue
		}
		r.starts[r.nStarts] = startPoint{lane: lane, pos: p}
		r.nStarts++
	}
	if r.nStarts == 0 {
		return ErrNoStart
	}
	return nil
}

func (r *runner) seedEnds() error {
	seeded := 0
	for _, p := range r.req.End {
		lane, ok := r.resolve(p)
		if !ok {
			continue
		}
		dir := travelDirections(r.snap.EffectiveDirection(lane))
		if dir == network.DirNone {
			continue
		}
		if _, dup := r.q.Lookup(uint32(lane)); dup {
			continue
		}
		it := item{
			pos:        p,
			dir:        dir,
			types:      r.snap.Lane(lane).Types,
			toJunction: -1,
		}
		if r.q.Insert(uint32(lane), 0, it) {
			seeded++
		}
	}
	if seeded == 0 {
		return ErrNoEnd
	}
	return nil
}

// reachedStart reports whether e sits on a start lane at an offset the start
// position can drive to.
func (r *runner) reachedStart(e bucketqueue.Entry[item]) (startPoint, bool) {
	for _, s := range r.starts[:r.nStarts] {
		if uint32(s.lane) != e.Lane {
			continue
		}
		it := e.Item
		if (it.dir&network.DirForward != 0 && it.pos.Offset >= s.pos.Offset) ||
			(it.dir&network.DirBackward != 0 && it.pos.Offset <= s.pos.Offset) {
			return s, true
		}
	}
	return startPoint{}, false
}

// startOn returns the start on lane that can reach offset when travelling d.
func (r *runner) startOn(lane network.LaneID, d network.Direction, offset uint8) (startPoint, bool) {
	for _, s := range r.starts[:r.nStarts] {
		if s.lane != lane {
			continue
		}
		if (d == network.DirForward && s.pos.Offset <= offset) ||
			(d == network.DirBackward && s.pos.Offset >= offset) {
			return s, true
		}
	}
	return startPoint{}, false
}

func (r *runner) isStartLane(lane network.LaneID) bool {
	for _, s := range r.starts[:r.nStarts] {
		if s.lane == lane {
			return true
		}
	}
	return false
}

func travelDirections(d network.Direction) network.Direction {
	out := network.DirNone
	if d.Allows(network.DirForward) {
		out |= network.DirForward
	}
	if d.Allows(network.DirBackward) {
		out |= network.DirBackward
	}
	return out
}

func offsetDistance(length float32, a, b uint8) float32 {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return length * float32(d) / network.OffsetMax
}
