package pathfind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lanepath/builder"
	"github.com/katalvlaran/lanepath/cost"
	"github.com/katalvlaran/lanepath/network"
	"github.com/katalvlaran/lanepath/pathfind"
)

// Corridor lanes with one lane per direction: 0 backward, 1 forward.
const (
	corridorBackward = 0
	corridorForward  = 1
)

func TestSearch_ParallelOneWays(t *testing.T) {
	n := build(t, nil, builder.ParallelOneWays())
	e := startEngine(t, n, nil)

	req := car(pos(1, 0, 0), pos(2, 0, 255))
	defer req.Release()
	solve(t, e, req)

	require.True(t, req.Ready(), "err: %v", req.Err())
	assert.Equal(t, 1, req.ChunkCount())
	ps, cs := positions(req)
	assert.Equal(t, []pathfind.Position{pos(1, 0, 0), pos(2, 0, 255)}, ps)
	require.Len(t, cs, 2)
	assert.Zero(t, cs[0])
	assert.Greater(t, cs[1], cs[0])
	assert.InDelta(t, 200, req.TotalLength(), 1e-3)
	assert.InDelta(t, req.TotalCost(), cs[1], 1e-6)
	assert.InDelta(t, req.TotalLength(), req.First().RemainingLength(), 1e-3)
}

func TestSearch_SameLane(t *testing.T) {
	n := build(t, nil, builder.Corridor(2, 1))
	e := startEngine(t, n, nil)

	req := car(pos(1, corridorForward, 10), pos(1, corridorForward, 200))
	defer req.Release()
	solve(t, e, req)

	require.True(t, req.Ready(), "err: %v", req.Err())
	ps, _ := positions(req)
	assert.Equal(t, []pathfind.Position{pos(1, corridorForward, 10), pos(1, corridorForward, 200)}, ps)
}

func TestSearch_Ring(t *testing.T) {
	n := build(t, nil, builder.Ring(5, 1))
	e := startEngine(t, n, nil)

	t.Run("forward", func(t *testing.T) {
		req := car(pos(1, 0, 0), pos(3, 0, 255))
		defer req.Release()
		solve(t, e, req)

		require.True(t, req.Ready(), "err: %v", req.Err())
		ps, cs := positions(req)
		assert.Equal(t, []network.SegmentID{1, 2, 3}, segments(ps))
		assert.IsNonDecreasing(t, cs)
	})

	t.Run("end lane is not revisited", func(t *testing.T) {
		// Reaching offset 0 from 255 on one lane needs a full lap back onto
		// the end lane, which the search never re-enters.
		req := car(pos(3, 0, 255), pos(3, 0, 0))
		defer req.Release()
		solve(t, e, req)

		require.True(t, req.Failed())
		assert.ErrorIs(t, req.Err(), pathfind.ErrNoPathFound)
	})
}

func TestSearch_DeadEndUTurn(t *testing.T) {
	n := build(t, nil, builder.Corridor(2, 1))

	t.Run("fallback enabled", func(t *testing.T) {
		e := startEngine(t, n, nil)
		req := car(pos(1, corridorForward, 0), pos(1, corridorBackward, 0))
		defer req.Release()
		solve(t, e, req)

		require.True(t, req.Ready(), "err: %v", req.Err())
		ps, _ := positions(req)
		assert.Equal(t, []pathfind.Position{pos(1, corridorForward, 0), pos(1, corridorBackward, 0)}, ps)
	})

	t.Run("fallback disabled", func(t *testing.T) {
		p := pathfind.DefaultPolicy()
		p.AllowUTurnFallback = false
		e := startEngine(t, n, nil, pathfind.WithPolicy(p))
		req := car(pos(1, corridorForward, 0), pos(1, corridorBackward, 0))
		defer req.Release()
		solve(t, e, req)

		require.True(t, req.Failed())
		assert.ErrorIs(t, req.Err(), pathfind.ErrNoPathFound)
	})
}

func TestSearch_CyclicLaneNodesTerminate(t *testing.T) {
	n := build(t, nil, builder.Corridor(2, 1))
	stop := n.AddNode(50, 0, 0)
	lane := n.Snapshot().LaneAt(1, corridorBackward)
	require.NoError(t, n.AttachLaneNode(stop, lane, 128))
	require.NoError(t, n.AttachLaneNode(stop, lane, 128)) // chain now points at itself

	e := startEngine(t, n, nil)
	req := car(pos(1, corridorForward, 0), pos(1, corridorBackward, 0))
	defer req.Release()
	solve(t, e, req)

	require.True(t, req.Ready(), "err: %v", req.Err())
}

func TestSearch_Disconnected(t *testing.T) {
	n := build(t, nil, builder.Corridor(2, 1))
	require.NoError(t, builder.Apply(n, []builder.BuilderOption{builder.WithOrigin(0, 10000)}, builder.Corridor(2, 1)))

	chunks := pathfind.NewChunkPool(8)
	e := startEngine(t, n, chunks)
	req := car(pos(1, corridorForward, 0), pos(2, corridorForward, 255))
	defer req.Release()
	solve(t, e, req)

	require.True(t, req.Failed())
	assert.ErrorIs(t, req.Err(), pathfind.ErrNoPathFound)
	assert.Zero(t, req.ChunkCount())
	assert.Nil(t, req.First())
	assert.Zero(t, chunks.InUse())
}

func TestSearch_InvalidEndpoints(t *testing.T) {
	n := build(t, nil, builder.Corridor(2, 1))
	e := startEngine(t, n, nil)

	tests := []struct {
		name       string
		start, end pathfind.Position
		want       error
	}{
		{"no start", pathfind.Position{}, pos(1, corridorForward, 255), pathfind.ErrNoStart},
		{"unknown start segment", pos(99, 0, 0), pos(1, corridorForward, 255), pathfind.ErrNoStart},
		{"bad end lane index", pos(1, corridorForward, 0), pos(1, 7, 255), pathfind.ErrNoEnd},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := car(tc.start, tc.end)
			defer req.Release()
			solve(t, e, req)
			require.True(t, req.Failed())
			assert.ErrorIs(t, req.Err(), tc.want)
		})
	}
}

func TestSearch_ChunkedPath(t *testing.T) {
	const nodes = 30 // 29 segments, one position each
	n := build(t, nil, builder.Corridor(nodes, 1))
	chunks := pathfind.NewChunkPool(16)
	e := startEngine(t, n, chunks)

	req := car(pos(1, corridorForward, 0), pos(nodes-1, corridorForward, 255))
	solve(t, e, req)
	require.True(t, req.Ready(), "err: %v", req.Err())

	ps, cs := positions(req)
	require.Len(t, ps, nodes-1)
	for i, p := range ps {
		assert.Equal(t, network.SegmentID(i+1), p.Segment)
	}
	assert.IsNonDecreasing(t, cs)

	want := (nodes - 1 + pathfind.ChunkCapacity - 1) / pathfind.ChunkCapacity
	assert.Equal(t, want, req.ChunkCount())
	assert.Equal(t, want-1, chunks.InUse(), "first chunk is inline")
	assert.InDelta(t, 2900, req.TotalLength(), 1e-2)
	assert.InDelta(t, req.TotalLength(), req.First().RemainingLength(), 1e-2)

	req.Release()
	assert.Zero(t, chunks.InUse())
}

func TestSearch_ChunkPoolExhausted(t *testing.T) {
	n := build(t, nil, builder.Corridor(30, 1))
	chunks := pathfind.NewChunkPool(1)
	e := startEngine(t, n, chunks)

	req := car(pos(1, corridorForward, 0), pos(29, corridorForward, 255))
	defer req.Release()
	solve(t, e, req)

	require.True(t, req.Failed())
	assert.ErrorIs(t, req.Err(), pathfind.ErrChunkPoolExhausted)
	assert.Zero(t, chunks.InUse())
}

func TestSearch_BlockedSegments(t *testing.T) {
	n := build(t, nil, builder.Corridor(4, 1))
	require.NoError(t, n.SetSegmentFlags(2, network.SegFlooded))
	e := startEngine(t, n, nil)

	req := car(pos(1, corridorForward, 0), pos(3, corridorForward, 255))
	defer req.Release()
	solve(t, e, req)
	assert.ErrorIs(t, req.Err(), pathfind.ErrNoPathFound)

	ignoring := car(pos(1, corridorForward, 0), pos(3, corridorForward, 255))
	ignoring.Flags |= pathfind.FlagIgnoreBlocked
	defer ignoring.Release()
	solve(t, e, ignoring)
	require.True(t, ignoring.Ready(), "err: %v", ignoring.Err())

	require.NoError(t, n.SetSegmentFlags(2, network.SegClosed))
	closed := car(pos(1, corridorForward, 0), pos(3, corridorForward, 255))
	closed.Flags |= pathfind.FlagIgnoreBlocked
	defer closed.Release()
	solve(t, e, closed)
	assert.ErrorIs(t, closed.Err(), pathfind.ErrNoPathFound, "closed segments are never ignored")
}

func TestSearch_LaneArrows(t *testing.T) {
	n := build(t, nil, builder.Ring(5, 1))
	// Every ring node turns left; a straight-only arrow forbids it.
	require.NoError(t, n.SetLaneArrows(n.Snapshot().LaneAt(2, 0), network.ArrowForward))

	tests := []struct {
		name   string
		strict bool
		ready  bool
	}{
		{"strict arrows block the turn", true, false},
		{"relaxed arrows fall back to any lane", false, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := pathfind.DefaultPolicy()
			p.StrictLaneArrows = tc.strict
			e := startEngine(t, n, nil, pathfind.WithPolicy(p))

			req := car(pos(1, 0, 0), pos(3, 0, 255))
			defer req.Release()
			solve(t, e, req)
			assert.Equal(t, tc.ready, req.Ready(), "err: %v", req.Err())
		})
	}
}

func TestSearch_ManualConnections(t *testing.T) {
	n := build(t, nil, builder.LaneDrop(2, 2))
	s := n.Snapshot()
	mid := s.Segment(1).End
	// Lane 0 of the first segment may only continue onto lane 0.
	require.NoError(t, n.ConnectLanes(s.LaneAt(1, 0), s.LaneAt(2, 0), mid))

	e := startEngine(t, n, nil)

	blocked := car(pos(1, 0, 0), pos(2, 1, 255))
	defer blocked.Release()
	solve(t, e, blocked)
	assert.ErrorIs(t, blocked.Err(), pathfind.ErrNoPathFound)

	allowed := car(pos(1, 0, 0), pos(2, 0, 255))
	defer allowed.Release()
	solve(t, e, allowed)
	require.True(t, allowed.Ready(), "err: %v", allowed.Err())
	ps, _ := positions(allowed)
	assert.Equal(t, []pathfind.Position{pos(1, 0, 0), pos(2, 0, 255)}, ps)
}

func TestSearch_HighwayRampUsesCurbLane(t *testing.T) {
	n := build(t, nil, builder.HighwayRamp())
	e := startEngine(t, n, nil)

	// Lanes of the 3-lane entry are ordered left to right: 2 is the curb lane.
	costFrom := func(lane uint8) float32 {
		req := car(pos(1, lane, 0), pos(4, 0, 255))
		defer req.Release()
		solve(t, e, req)
		require.True(t, req.Ready(), "lane %d: %v", lane, req.Err())
		ps, _ := positions(req)
		assert.Equal(t, []network.SegmentID{1, 3, 4}, segments(ps))
		return req.TotalCost()
	}

	curb := costFrom(2)
	middle := costFrom(1)
	inner := costFrom(0)
	assert.Less(t, curb, middle)
	assert.Less(t, middle, inner)
}

func TestSearch_HeavyBan(t *testing.T) {
	n := build(t, nil, builder.Corridor(3, 1))
	require.NoError(t, n.SetSegmentFlags(2, network.SegHeavyBan))
	e := startEngine(t, n, nil)

	plain := car(pos(1, corridorForward, 0), pos(2, corridorForward, 255))
	defer plain.Release()
	solve(t, e, plain)

	heavy := car(pos(1, corridorForward, 0), pos(2, corridorForward, 255))
	heavy.Flags |= pathfind.FlagHeavy
	defer heavy.Release()
	solve(t, e, heavy)

	require.True(t, plain.Ready())
	require.True(t, heavy.Ready())
	assert.Greater(t, heavy.TotalCost(), plain.TotalCost())
	assert.InDelta(t, plain.TotalLength(), heavy.TotalLength(), 1e-3)
}

func TestSearch_Pedestrians(t *testing.T) {
	n := build(t, nil, builder.Sidewalks(3))

	walk := func(e *pathfind.Engine) *pathfind.PathRequest {
		req := pathfind.NewPathRequest()
		req.Start[0] = pos(1, 0, 0)
		req.End[0] = pos(2, 0, 255)
		req.LaneTypes = network.LanePedestrian
		req.Flags = pathfind.FlagStablePath
		solve(t, e, req)
		return req
	}

	t.Run("walks along the sidewalk", func(t *testing.T) {
		req := walk(startEngine(t, n, nil))
		defer req.Release()
		require.True(t, req.Ready(), "err: %v", req.Err())
		ps, _ := positions(req)
		assert.Equal(t, []pathfind.Position{pos(1, 0, 0), pos(2, 0, 255)}, ps)
		assert.InDelta(t, 200, req.TotalLength(), 1e-3)
	})

	t.Run("walking distance is bounded", func(t *testing.T) {
		params := cost.DefaultParams()
		params.PedestrianMaxDistance = 50
		req := walk(startEngine(t, n, nil, pathfind.WithCostParams(params)))
		defer req.Release()
		assert.ErrorIs(t, req.Err(), pathfind.ErrNoPathFound)
	})
}

func TestSearch_TrafficIsCommitted(t *testing.T) {
	n := build(t, nil, builder.Corridor(3, 1))
	e := startEngine(t, n, nil)

	req := car(pos(1, corridorForward, 0), pos(2, corridorForward, 255))
	defer req.Release()
	solve(t, e, req)
	require.True(t, req.Ready())

	s := n.Snapshot()
	assert.Equal(t, uint32(1), n.Traffic().Count(s.LaneAt(1, corridorForward)))
	assert.Equal(t, uint32(1), n.Traffic().Count(s.LaneAt(2, corridorForward)))
	assert.Zero(t, n.Traffic().Count(s.LaneAt(1, corridorBackward)))
}

func TestSearch_RandomizedIsReproducible(t *testing.T) {
	run := func() float32 {
		// A fresh network per run keeps traffic density out of the comparison.
		n := build(t, nil, builder.LaneDrop(1, 3))
		e := startEngine(t, n, nil, pathfind.WithSeed(42))
		req := car(pos(1, 0, 0), pos(2, 2, 255))
		req.Flags = 0
		defer req.Release()
		solve(t, e, req)
		require.True(t, req.Ready(), "err: %v", req.Err())
		return req.TotalCost()
	}
	assert.Equal(t, run(), run())
}
