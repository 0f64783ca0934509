// Package pathfind computes lane-level routes over a network snapshot.
//
// An Engine owns one worker goroutine (Run) and a FIFO queue of
// PathRequests. Each request is searched backwards, from its end positions
// towards its start positions, with a bucket queue keyed by lane
// (package bucketqueue) and edge costs from package cost. The result is a
// linked list of fixed-capacity PathChunks: the first is stored inline in
// the request, successors come from a ChunkPool shared by every engine.
//
// Lane choice follows road rules rather than free lane hopping:
//
//   - at junctions the predecessor keeps its curb-relative lane index;
//   - where the lane count changes on a plain road, MapLane merges inward
//     and splits outward, randomized unless the request asks for a stable path;
//   - at highway splits and merges, HighwayLane pins lanes to their branch;
//   - lane arrows and manual lane connections restrict the candidates.
//
// Pedestrians pick the nearest sidewalk and may cross at junctions; requests
// that allow bicycles may switch between sidewalks and bicycle lanes.
//
// Lifecycle: a request is enqueued once. Its status moves from Queued to
// Calculating to Ready or Failed, and Done() is closed at the end. Release
// the caller's reference when the path is no longer needed; the last
// release frees the pooled chunks.
//
//	eng, _ := pathfind.New(net, nil)
//	go eng.Run(ctx)
//	req := pathfind.NewPathRequest()
//	req.Start[0], req.End[0] = from, to
//	req.LaneTypes, req.VehicleTypes = network.LaneVehicle, network.VehicleCar
//	eng.Enqueue(req, false)
//	<-req.Done()
//	defer req.Release()
package pathfind
