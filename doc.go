// SPDX-License-Identifier: MIT
// Package: lanepath

// Package lanepath is a lane-level route search engine for simulated road
// networks.
//
// The module is organized as:
//
//	network/     — nodes, segments and lanes behind immutable published snapshots
//	builder/     — deterministic road fixtures (corridors, rings, grids, ramps)
//	bucketqueue/ — monotonic bucket queue keyed by lane with generation stamps
//	cost/        — edge cost terms: speed, bans, lane changes, density, jitter
//	pathfind/    — request records, result chunks, search engines and pools
//	telemetry/   — slog logger, Prometheus metrics and OpenTelemetry spans
//	config/      — YAML/JSON/env configuration and live reload
//	cmd/lanepath — route and simulate commands
//
// A search runs backwards from the end positions to the start positions, so
// every position in a result carries the cost still to go:
//
//	net, _ := builder.BuildNetwork(nil, nil, builder.Grid(4, 4, 1))
//	e, _ := pathfind.New(net, nil)
//	go e.Run(ctx)
//
//	req := pathfind.NewPathRequest()
//	req.Start[0] = pathfind.Position{Segment: 1, Lane: 1}
//	req.End[0] = pathfind.Position{Segment: 20, Lane: 1, Offset: 255}
//	req.LaneTypes, req.VehicleTypes = network.LaneVehicle, network.VehicleCar
//	e.Enqueue(req, false)
//	<-req.Done()
//	for pos, remaining := range req.Positions() { ... }
//	req.Release()
package lanepath
