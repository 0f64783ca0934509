package network_test

import (
	"sync"
	"testing"

	"github.com/katalvlaran/lanepath/network"
	"github.com/stretchr/testify/require"
)

// TestConcurrentEditAndSnapshot mixes writers with snapshot readers; run with -race.
func TestConcurrentEditAndSnapshot(t *testing.T) {
	n := network.New()
	hub := n.AddNode(0, 0, 0)
	var spokes []network.SegmentID
	for i := 0; i < network.MaxNodeDegree; i++ {
		o := n.AddNode(float64(i*10), 100, 0)
		seg, err := n.AddSegment(hub, o, network.SegmentSpec{Lanes: carLanes(2, network.DirBoth)})
		require.NoError(t, err)
		spokes = append(spokes, seg)
	}

	const rounds = 200
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			seg := spokes[i%len(spokes)]
			_ = n.SetSegmentFlags(seg, network.SegFlooded)
			_ = n.ClearSegmentFlags(seg, network.SegFlooded)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			s := n.Snapshot()
			for _, seg := range s.NodeSegments(hub) {
				_ = s.Blocked(seg, false)
				_ = s.Turn(hub, seg, spokes[0])
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			n.Traffic().Add(network.LaneID(i % 64))
			_ = n.Snapshot().Traffic().Density(network.LaneID(i % 64))
		}
	}()
	wg.Wait()

	require.Len(t, n.Snapshot().NodeSegments(hub), network.MaxNodeDegree)
}
