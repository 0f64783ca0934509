package pathfind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lanepath/builder"
	"github.com/katalvlaran/lanepath/network"
	"github.com/katalvlaran/lanepath/pathfind"
)

// line builds collinear nodes 100 m apart, joined in order by one segment per
// lanes entry. flags, when given, holds one entry per node.
func line(t *testing.T, flags []network.NodeFlags, lanes ...[]network.LaneSpec) *network.Network {
	t.Helper()
	n := network.New()
	nodes := make([]network.NodeID, len(lanes)+1)
	for i := range nodes {
		var f network.NodeFlags
		if i < len(flags) {
			f = flags[i]
		}
		nodes[i] = n.AddNode(float64(i)*100, 0, f)
	}
	for i, ls := range lanes {
		_, err := n.AddSegment(nodes[i], nodes[i+1], network.SegmentSpec{Lanes: ls})
		require.NoError(t, err)
	}
	return n
}

func walkway(at float32) network.LaneSpec {
	return network.LaneSpec{Types: network.LanePedestrian, Direction: network.DirBoth, SpeedLimit: 1, Position: at}
}

func road(types network.LaneType, vehicles network.VehicleType, d network.Direction, at float32) network.LaneSpec {
	return network.LaneSpec{Types: types, Vehicles: vehicles, Direction: d, SpeedLimit: 1, Position: at}
}

// mixed returns a stable request admitting vehicle and pedestrian lanes.
func mixed(vehicles network.VehicleType, start, end pathfind.Position) *pathfind.PathRequest {
	r := car(start, end)
	r.LaneTypes = network.LaneVehicle | network.LanePedestrian
	r.VehicleTypes = vehicles
	return r
}

// segmentCost is the cost of one fresh 100 m lane at speed 1 under the
// default maximum length.
const segmentCost = float32(100.0 / 10000.0)

func TestExplore_BicycleCoupling(t *testing.T) {
	bike := road(network.LaneVehicle, network.VehicleCar|network.VehicleBicycle, network.DirForward, 1.5)

	cases := []struct {
		name  string
		lanes [][]network.LaneSpec
	}{
		{"sidewalk onto bike lane", [][]network.LaneSpec{{walkway(6)}, {bike}}},
		{"bike lane onto sidewalk", [][]network.LaneSpec{{bike}, {walkway(6)}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := startEngine(t, line(t, nil, tc.lanes...), nil)

			cyclist := mixed(network.VehicleBicycle, pos(1, 0, 0), pos(2, 0, 255))
			defer cyclist.Release()
			solve(t, e, cyclist)
			require.True(t, cyclist.Ready(), "err: %v", cyclist.Err())
			ps, _ := positions(cyclist)
			assert.Equal(t, []pathfind.Position{pos(1, 0, 0), pos(2, 0, 255)}, ps)

			driver := mixed(network.VehicleCar, pos(1, 0, 0), pos(2, 0, 255))
			defer driver.Release()
			solve(t, e, driver)
			assert.ErrorIs(t, driver.Err(), pathfind.ErrNoPathFound, "cars do not switch between sidewalk and road")
		})
	}
}

func TestExplore_TransitionNodes(t *testing.T) {
	carLane := road(network.LaneVehicle, network.VehicleCar, network.DirForward, 1.5)

	cases := []struct {
		name  string
		lanes [][]network.LaneSpec
	}{
		{"park and walk", [][]network.LaneSpec{{carLane}, {walkway(6)}}},
		{"walk and drive", [][]network.LaneSpec{{walkway(6)}, {carLane}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plain := startEngine(t, line(t, nil, tc.lanes...), nil)
			req := mixed(network.VehicleCar, pos(1, 0, 0), pos(2, 0, 255))
			defer req.Release()
			solve(t, plain, req)
			assert.ErrorIs(t, req.Err(), pathfind.ErrNoPathFound, "only transition nodes join the two kinds")

			flags := []network.NodeFlags{0, network.NodeTransition, 0}
			e := startEngine(t, line(t, flags, tc.lanes...), nil)
			req = mixed(network.VehicleCar, pos(1, 0, 0), pos(2, 0, 255))
			defer req.Release()
			solve(t, e, req)
			require.True(t, req.Ready(), "err: %v", req.Err())
			ps, _ := positions(req)
			assert.Equal(t, []pathfind.Position{pos(1, 0, 0), pos(2, 0, 255)}, ps)
			// The lane entered across the transition costs double.
			assert.InDelta(t, 3*segmentCost, req.TotalCost(), 1e-6)
		})
	}
}

func TestExplore_NearestSidewalkAcrossSegments(t *testing.T) {
	// The middle street carries sidewalks on both sides of a two-way road;
	// the outer streets only have the sidewalk at +6.
	middle := []network.LaneSpec{
		walkway(-6),
		road(network.LaneVehicle, network.VehicleCar, network.DirBackward, -1.5),
		road(network.LaneVehicle, network.VehicleCar, network.DirForward, 1.5),
		walkway(6),
	}
	n := line(t, nil, []network.LaneSpec{walkway(6)}, middle, []network.LaneSpec{walkway(6)})
	e := startEngine(t, n, nil)

	req := pathfind.NewPathRequest()
	req.Start[0] = pos(1, 0, 0)
	req.End[0] = pos(3, 0, 255)
	req.LaneTypes = network.LanePedestrian
	req.Flags = pathfind.FlagStablePath
	defer req.Release()
	solve(t, e, req)

	require.True(t, req.Ready(), "err: %v", req.Err())
	ps, _ := positions(req)
	assert.Equal(t, []pathfind.Position{pos(1, 0, 0), pos(2, 3, 255), pos(3, 0, 255)}, ps,
		"stays on the same side instead of taking the first sidewalk by index")
	assert.InDelta(t, 300, req.TotalLength(), 1e-3)
}

func TestExplore_EdgeCosts(t *testing.T) {
	corridor := func(t *testing.T, mutate func(*network.Network)) *network.Network {
		n := build(t, nil, builder.Corridor(3, 1))
		if mutate != nil {
			mutate(n)
		}
		return n
	}
	// cost routes the forward lane from segment 1 to the end of segment 2 on
	// a fresh network, so traffic from earlier routes does not interfere.
	cost := func(t *testing.T, n *network.Network, flags pathfind.RequestFlags, opts ...pathfind.Option) float32 {
		e := startEngine(t, n, nil, opts...)
		req := car(pos(1, corridorForward, 0), pos(2, corridorForward, 255))
		req.Flags |= flags
		defer req.Release()
		solve(t, e, req)
		require.True(t, req.Ready(), "err: %v", req.Err())
		assert.InDelta(t, 200, req.TotalLength(), 1e-3)
		return req.TotalCost()
	}

	plain := cost(t, corridor(t, nil), 0)
	require.InDelta(t, 2*segmentCost, plain, 1e-6)

	t.Run("car ban", func(t *testing.T) {
		n := corridor(t, func(n *network.Network) { require.NoError(t, n.SetSegmentFlags(2, network.SegCarBan)) })
		assert.InDelta(t, segmentCost+5*segmentCost, cost(t, n, 0), 1e-6)
	})

	avoided := func(t *testing.T, d network.Direction) *network.Network {
		return line(t, nil,
			[]network.LaneSpec{road(network.LaneVehicle, network.VehicleCar, network.DirForward, 1.5)},
			[]network.LaneSpec{road(network.LaneVehicle, network.VehicleCar, d, 1.5)},
		)
	}
	onLine := func(t *testing.T, n *network.Network, flags pathfind.RequestFlags) float32 {
		e := startEngine(t, n, nil)
		req := car(pos(1, 0, 0), pos(2, 0, 255))
		req.Flags |= flags
		defer req.Release()
		solve(t, e, req)
		require.True(t, req.Ready(), "err: %v", req.Err())
		return req.TotalCost()
	}

	t.Run("avoided direction", func(t *testing.T) {
		assert.InDelta(t, segmentCost+segmentCost/0.1, onLine(t, avoided(t, network.DirAvoidForward), 0), 1e-5)
	})

	t.Run("avoided but preferred direction", func(t *testing.T) {
		assert.InDelta(t, segmentCost+segmentCost/0.2, onLine(t, avoided(t, network.DirForward|network.DirAvoidForward), 0), 1e-5)
	})

	t.Run("transit lane", func(t *testing.T) {
		transit := func() *network.Network {
			return line(t, nil,
				[]network.LaneSpec{road(network.LaneVehicle, network.VehicleCar, network.DirForward, 1.5)},
				[]network.LaneSpec{road(network.LaneVehicle|network.LaneTransport, network.VehicleCar, network.DirForward, 1.5)},
			)
		}
		assert.InDelta(t, 2*segmentCost+0.001, onLine(t, transit(), 0), 1e-6)
		assert.InDelta(t, 2*segmentCost, onLine(t, transit(), pathfind.FlagTransport), 1e-6, "transit requests are not penalized")
	})

	t.Run("ramp boundary", func(t *testing.T) {
		ramp := func(t *testing.T, penalty bool) float32 {
			pol := pathfind.DefaultPolicy()
			pol.RampPenalty = penalty
			e := startEngine(t, build(t, nil, builder.HighwayRamp()), nil, pathfind.WithPolicy(pol))
			req := car(pos(1, 2, 0), pos(4, 0, 255))
			defer req.Release()
			solve(t, e, req)
			require.True(t, req.Ready(), "err: %v", req.Err())
			ps, _ := positions(req)
			require.Equal(t, []network.SegmentID{1, 3, 4}, segments(ps))
			return req.TotalCost()
		}
		// Leaving the highway makes the local road cost four times as much.
		assert.InDelta(t, 3*segmentCost, ramp(t, true)-ramp(t, false), 1e-5)
	})
}
