package network_test

import (
	"testing"

	"github.com/katalvlaran/lanepath/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// carLanes returns n car lanes in direction d at positions 0, 3, 6, ...
func carLanes(n int, d network.Direction) []network.LaneSpec {
	out := make([]network.LaneSpec, n)
	for i := range out {
		out[i] = network.LaneSpec{
			Types:      network.LaneVehicle,
			Vehicles:   network.VehicleCar,
			Direction:  d,
			SpeedLimit: 1,
			Position:   float32(3 * i),
		}
	}
	return out
}

// crossing builds a 4-way junction C with arms W, E, N, S (each 100 units).
func crossing(t *testing.T) (*network.Network, map[string]network.SegmentID, network.NodeID) {
	t.Helper()
	n := network.New()
	c := n.AddNode(0, 0, 0)
	arms := map[string][2]float64{"W": {-100, 0}, "E": {100, 0}, "N": {0, 100}, "S": {0, -100}}
	segs := make(map[string]network.SegmentID, len(arms))
	for name, p := range arms {
		id := n.AddNode(p[0], p[1], 0)
		seg, err := n.AddSegment(id, c, network.SegmentSpec{Lanes: carLanes(1, network.DirBoth)})
		require.NoError(t, err)
		segs[name] = seg
	}
	return n, segs, c
}

func TestAddSegment_Errors(t *testing.T) {
	n := network.New()
	a := n.AddNode(0, 0, 0)
	b := n.AddNode(10, 0, 0)

	_, err := n.AddSegment(a, a, network.SegmentSpec{Lanes: carLanes(1, network.DirForward)})
	require.ErrorIs(t, err, network.ErrSelfLoop)

	_, err = n.AddSegment(a, b, network.SegmentSpec{})
	require.ErrorIs(t, err, network.ErrNoLanes)

	_, err = n.AddSegment(a, 99, network.SegmentSpec{Lanes: carLanes(1, network.DirForward)})
	require.ErrorIs(t, err, network.ErrNodeNotFound)

	// Fill a's degree.
	for i := 0; i < network.MaxNodeDegree; i++ {
		o := n.AddNode(float64(i), 5, 0)
		_, err = n.AddSegment(a, o, network.SegmentSpec{Lanes: carLanes(1, network.DirForward)})
		require.NoError(t, err)
	}
	_, err = n.AddSegment(a, b, network.SegmentSpec{Lanes: carLanes(1, network.DirForward)})
	require.ErrorIs(t, err, network.ErrDegreeExceeded)
}

func TestAddSegment_LaneOrderAndLength(t *testing.T) {
	n := network.New()
	a := n.AddNode(0, 0, 0)
	b := n.AddNode(30, 40, 0)
	specs := []network.LaneSpec{
		{Types: network.LanePedestrian, Direction: network.DirBoth, Position: 8},
		{Types: network.LaneVehicle, Vehicles: network.VehicleCar, Direction: network.DirForward, Position: 2},
		{Types: network.LanePedestrian, Direction: network.DirBoth, Position: -8},
	}
	seg, err := n.AddSegment(a, b, network.SegmentSpec{Lanes: specs})
	require.NoError(t, err)

	s := n.Snapshot()
	sg := s.Segment(seg)
	require.NotNil(t, sg)
	assert.InDelta(t, 50, sg.Length, 1e-4)
	require.Len(t, sg.Lanes, 3)
	for i, lid := range sg.Lanes {
		l := s.Lane(lid)
		assert.Equal(t, uint8(i), l.Index)
		assert.Equal(t, seg, l.Segment)
	}
	assert.Equal(t, float32(-8), s.Lane(sg.Lanes[0]).Position)
	assert.Equal(t, float32(8), s.Lane(sg.Lanes[2]).Position)
	assert.Equal(t, sg.Lanes[1], s.LaneAt(seg, 1))
	assert.Equal(t, network.LaneID(0), s.LaneAt(seg, 3))
}

func TestSnapshot_Versioning(t *testing.T) {
	n, segs, _ := crossing(t)
	s1 := n.Snapshot()
	require.Same(t, s1, n.Snapshot(), "unchanged network must reuse the published snapshot")

	require.NoError(t, n.SetSegmentFlags(segs["E"], network.SegClosed))
	s2 := n.Snapshot()
	require.NotSame(t, s1, s2)
	assert.Greater(t, s2.Version(), s1.Version())

	// The old snapshot is untouched.
	assert.False(t, s1.Blocked(segs["E"], false))
	assert.True(t, s2.Blocked(segs["E"], true), "closed segments are never ignorable")

	require.NoError(t, n.RemoveSegment(segs["W"]))
	s3 := n.Snapshot()
	assert.False(t, s3.Segment(segs["W"]).Valid)
	assert.True(t, s2.Segment(segs["W"]).Valid)
	assert.Len(t, s2.NodeSegments(s2.Segment(segs["N"]).End), 4)
	assert.Len(t, s3.NodeSegments(s3.Segment(segs["N"]).End), 3)
}

func TestBlocked(t *testing.T) {
	n, segs, _ := crossing(t)
	require.NoError(t, n.SetSegmentFlags(segs["N"], network.SegFlooded))
	require.NoError(t, n.SetSegmentFlags(segs["S"], network.SegPathFailed|network.SegHeavyBan))

	s := n.Snapshot()
	assert.True(t, s.Blocked(segs["N"], false))
	assert.False(t, s.Blocked(segs["N"], true))
	assert.True(t, s.Blocked(segs["S"], false))
	assert.False(t, s.Blocked(segs["E"], false))
	assert.True(t, s.Blocked(999, true))

	require.NoError(t, n.ClearSegmentFlags(segs["N"], network.SegFlooded))
	assert.False(t, n.Snapshot().Blocked(segs["N"], false))
}

func TestTurn(t *testing.T) {
	n, segs, c := crossing(t)
	s := n.Snapshot()

	cases := []struct {
		name     string
		from, to string
		want     network.Turn
	}{
		{"west to east is straight", "W", "E", network.TurnStraight},
		{"west to north is left", "W", "N", network.TurnLeft},
		{"west to south is right", "W", "S", network.TurnRight},
		{"north to west is right", "N", "W", network.TurnRight},
		{"same segment is u-turn", "E", "E", network.TurnUTurn},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.Turn(c, segs[tc.from], segs[tc.to]))
		})
	}
	assert.True(t, s.IsJunction(c))
}

func TestOneWay(t *testing.T) {
	n := network.New()
	a := n.AddNode(0, 0, 0)
	b := n.AddNode(100, 0, 0)
	seg, err := n.AddSegment(a, b, network.SegmentSpec{Lanes: append(carLanes(2, network.DirForward),
		network.LaneSpec{Types: network.LanePedestrian, Direction: network.DirBoth, Position: 10})})
	require.NoError(t, err)

	s := n.Snapshot()
	assert.True(t, s.IsOneWay(seg))
	assert.True(t, s.IsOutgoingOneWay(seg, a))
	assert.False(t, s.IsOutgoingOneWay(seg, b))
	assert.True(t, s.IsIncomingOneWay(seg, b))

	require.NoError(t, n.SetSegmentFlags(seg, network.SegInvert))
	s = n.Snapshot()
	assert.True(t, s.IsOutgoingOneWay(seg, b), "inverted segments run end to start")
	assert.Equal(t, network.DirBackward, s.EffectiveDirection(s.Segment(seg).Lanes[0]))
}

func TestSimilarIndex(t *testing.T) {
	build := func(opts ...network.Option) (*network.Snapshot, []network.LaneID) {
		n := network.New(opts...)
		a := n.AddNode(0, 0, 0)
		b := n.AddNode(100, 0, 0)
		seg, err := n.AddSegment(a, b, network.SegmentSpec{Lanes: carLanes(3, network.DirBoth)})
		require.NoError(t, err)
		s := n.Snapshot()
		return s, s.Segment(seg).Lanes
	}

	s, lanes := build()
	for i, lid := range lanes {
		idx, count := s.RightSimilarIndex(lid, network.DirForward, network.LaneVehicle, network.VehicleCar)
		assert.Equal(t, 3, count)
		assert.Equal(t, 2-i, idx, "forward: highest position is rightmost")

		idx, _ = s.RightSimilarIndex(lid, network.DirBackward, network.LaneVehicle, network.VehicleCar)
		assert.Equal(t, i, idx, "backward: lowest position is rightmost")

		left, _ := s.LeftSimilarIndex(lid, network.DirForward, network.LaneVehicle, network.VehicleCar)
		assert.Equal(t, i, left)
	}

	s, lanes = build(network.WithLeftHandTraffic())
	idx, _ := s.RightSimilarIndex(lanes[0], network.DirForward, network.LaneVehicle, network.VehicleCar)
	assert.Equal(t, 0, idx, "left-hand traffic counts from the left curb")

	idx, count := s.RightSimilarIndex(lanes[0], network.DirForward, network.LanePedestrian, 0)
	assert.Equal(t, -1, idx)
	assert.Zero(t, count)
}

func TestLaneConnections(t *testing.T) {
	n, segs, c := crossing(t)
	s := n.Snapshot()
	from := s.Segment(segs["W"]).Lanes[0]
	to := s.Segment(segs["N"]).Lanes[0]
	far := s.Segment(segs["E"]).Lanes[0]

	require.NoError(t, n.ConnectLanes(from, to, c))
	require.ErrorIs(t, n.ConnectLanes(from, to, 12345), network.ErrNodeNotFound)

	s2 := n.Snapshot()
	assert.True(t, s2.HasLaneConnections(from, c))
	assert.True(t, s2.Connected(from, to, c))
	assert.False(t, s2.Connected(from, far, c))
	assert.False(t, s.HasLaneConnections(from, c), "older snapshot unaffected")

	require.NoError(t, n.DisconnectLanes(from, to, c))
	assert.False(t, n.Snapshot().HasLaneConnections(from, c))
	assert.True(t, s2.Connected(from, to, c), "published bitmap must not change")
}

func TestLaneNodes_CycleIsCapped(t *testing.T) {
	n := network.New()
	a := n.AddNode(0, 0, 0)
	b := n.AddNode(100, 0, 0)
	stop := n.AddNode(50, 0, network.NodeTransition)
	seg, err := n.AddSegment(a, b, network.SegmentSpec{Lanes: carLanes(1, network.DirForward)})
	require.NoError(t, err)
	lane := n.Snapshot().Segment(seg).Lanes[0]

	require.ErrorIs(t, n.AttachLaneNode(stop, lane, 0), network.ErrInvalidOffset)
	require.NoError(t, n.AttachLaneNode(stop, lane, 128))

	s := n.Snapshot()
	var seen []network.NodeID
	s.LaneNodes(lane, func(nd *network.Node) bool {
		seen = append(seen, nd.ID)
		return true
	})
	assert.Equal(t, []network.NodeID{stop}, seen)

	// Attaching the same node twice links it to itself.
	require.NoError(t, n.AttachLaneNode(stop, lane, 128))
	visited := n.Snapshot().LaneNodes(lane, func(*network.Node) bool { return true })
	assert.Equal(t, network.MaxLaneNodeIterations, visited)
}

func TestConnectionPoint(t *testing.T) {
	n := network.New()
	a := n.AddNode(0, 0, 0)
	b := n.AddNode(100, 0, 0)
	seg, err := n.AddSegment(a, b, network.SegmentSpec{Lanes: []network.LaneSpec{
		{Types: network.LanePedestrian, Direction: network.DirBoth, Position: -5},
		{Types: network.LanePedestrian, Direction: network.DirBoth, Position: 5},
	}})
	require.NoError(t, err)
	s := n.Snapshot()
	left, right := s.Segment(seg).Lanes[0], s.Segment(seg).Lanes[1]

	// Looking east from a, positive positions lie to the south (right).
	x, y := s.ConnectionPoint(right, a)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, -5, y, 1e-9)
	x, y = s.ConnectionPoint(right, b)
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, -5, y, 1e-9)

	assert.InDelta(t, 10, s.LateralDistance(left, right, b), 1e-4)
}

func TestTraffic(t *testing.T) {
	tr := network.NewTraffic(4)
	assert.Zero(t, tr.Density(7))
	tr.Add(7)
	tr.Add(7)
	assert.InDelta(t, 0.5, tr.Density(7), 1e-6)
	for i := 0; i < 10; i++ {
		tr.Add(7)
	}
	assert.Equal(t, float32(1), tr.Density(7), "density saturates")

	tr.Decay(0.5)
	assert.Equal(t, uint32(6), tr.Count(7))
	tr.Reset()
	assert.Zero(t, tr.Count(7))
}

func TestComponents(t *testing.T) {
	n := network.New()
	var islands [2][]network.SegmentID
	for k := range islands {
		prev := n.AddNode(float64(k*1000), 0, 0)
		for i := 1; i <= 3; i++ {
			next := n.AddNode(float64(k*1000+i*100), 0, 0)
			seg, err := n.AddSegment(prev, next, network.SegmentSpec{Lanes: carLanes(1, network.DirBoth)})
			require.NoError(t, err)
			islands[k] = append(islands[k], seg)
			prev = next
		}
	}
	require.NoError(t, n.RemoveSegment(islands[1][2]))

	cs := network.Components(n.Snapshot())
	require.Equal(t, 2, cs.Count())
	assert.True(t, cs.Connected(islands[0][0], islands[0][2]))
	assert.False(t, cs.Connected(islands[0][0], islands[1][0]))
	assert.Equal(t, -1, cs.Of(islands[1][2]))
	assert.Equal(t, islands[0], cs.Segments(cs.Largest()))
	assert.Equal(t, 2, cs.Size(cs.Of(islands[1][0])))
}
