package pathfind_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/lanepath/builder"
	"github.com/katalvlaran/lanepath/network"
	"github.com/katalvlaran/lanepath/pathfind"
)

// ExampleEngine routes a car along a three-segment two-way road.
func ExampleEngine() {
	net, err := builder.BuildNetwork(nil, nil, builder.Corridor(4, 1))
	if err != nil {
		fmt.Println(err)
		return
	}

	eng, err := pathfind.New(net, nil)
	if err != nil {
		fmt.Println(err)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go eng.Run(ctx) //nolint:errcheck
	defer eng.Close()

	req := pathfind.NewPathRequest()
	defer req.Release()
	req.Start[0] = pathfind.Position{Segment: 1, Lane: 1, Offset: 0}
	req.End[0] = pathfind.Position{Segment: 3, Lane: 1, Offset: 255}
	req.LaneTypes = network.LaneVehicle
	req.VehicleTypes = network.VehicleCar
	req.Flags = pathfind.FlagStablePath

	eng.Enqueue(req, false)
	<-req.Done()

	for p := range req.Positions() {
		fmt.Printf("segment %d lane %d offset %d\n", p.Segment, p.Lane, p.Offset)
	}
	fmt.Printf("length %.0f\n", req.TotalLength())
	// Output:
	// segment 1 lane 1 offset 0
	// segment 2 lane 1 offset 255
	// segment 3 lane 1 offset 255
	// length 300
}

// ExampleMapLane shows how a single lane spreads over a widening road.
func ExampleMapLane() {
	fmt.Println(pathfind.MapLane(nil, 0, 3, 1))
	fmt.Println(pathfind.MapLane(nil, 0, 1, 3))
	fmt.Println(pathfind.HighwayLane(0, 2, 3))
	// Output:
	// 0
	// 1
	// 2
}
