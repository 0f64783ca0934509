package pathfind_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lanepath/builder"
	"github.com/katalvlaran/lanepath/network"
	"github.com/katalvlaran/lanepath/pathfind"
)

const testTimeout = 10 * time.Second

// build creates a network from constructors or fails the test.
func build(t *testing.T, bopts []builder.BuilderOption, cons ...builder.Constructor) *network.Network {
	t.Helper()
	n, err := builder.BuildNetwork(nil, bopts, cons...)
	require.NoError(t, err)
	return n
}

// startEngine runs an engine on src until the test ends.
func startEngine(t *testing.T, src pathfind.NetworkSource, chunks *pathfind.ChunkPool, opts ...pathfind.Option) *pathfind.Engine {
	t.Helper()
	e, err := pathfind.New(src, chunks, opts...)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()
	t.Cleanup(func() {
		e.Close()
		cancel()
		<-done
	})

	return e
}

// car returns a stable car request from start to end.
func car(start, end pathfind.Position) *pathfind.PathRequest {
	r := pathfind.NewPathRequest()
	r.Start[0] = start
	r.End[0] = end
	r.LaneTypes = network.LaneVehicle
	r.VehicleTypes = network.VehicleCar
	r.Flags = pathfind.FlagStablePath
	return r
}

// solve enqueues req on e and waits for its outcome.
func solve(t *testing.T, e *pathfind.Engine, req *pathfind.PathRequest) {
	t.Helper()
	require.True(t, e.Enqueue(req, false))
	select {
	case <-req.Done():
	case <-time.After(testTimeout):
		t.Fatal("request did not complete")
	}
}

// positions collects a ready path.
func positions(req *pathfind.PathRequest) ([]pathfind.Position, []float32) {
	var ps []pathfind.Position
	var cs []float32
	for p, c := range req.Positions() {
		ps = append(ps, p)
		cs = append(cs, c)
	}
	return ps, cs
}

func segments(ps []pathfind.Position) []network.SegmentID {
	out := make([]network.SegmentID, len(ps))
	for i, p := range ps {
		out[i] = p.Segment
	}
	return out
}

func pos(seg network.SegmentID, lane, offset uint8) pathfind.Position {
	return pathfind.Position{Segment: seg, Lane: lane, Offset: offset}
}
