// Package builder assembles deterministic road-network fixtures for tests,
// examples and the command-line simulator.
//
// Usage:
//
//	ix := builder.NewIndex()
//	net, err := builder.BuildNetwork(nil,
//	    []builder.BuilderOption{builder.WithSeed(7), builder.WithSidewalks(), builder.WithIndex(ix)},
//	    builder.Grid(4, 4, 1),
//	    builder.RandomClosures(0.05),
//	)
//
// Constructors:
//
//	Corridor(n, lanes)   straight two-way road, n ≥ 2
//	Ring(n, lanes)       one-way loop, n ≥ 3
//	Grid(rows, cols, l)  two-way street grid
//	ParallelOneWays()    two opposite one-way segments between the same nodes
//	LaneDrop(from, to)   lane-count change at a plain continuation
//	HighwayRamp()        highway split with an off-ramp into a local road
//	Sidewalks(n)         pedestrian-only street
//	RandomClosures(p)    closes random segments (needs WithSeed/WithRand)
//
// Options (panic on meaningless values):
//
//	WithSeed, WithRand, WithSpacing, WithOrigin, WithSpeedLimit,
//	WithVehicleTypes, WithSidewalks, WithHighway, WithIndex
//
// Every constructor emits nodes and segments in a documented, stable order,
// so element IDs are reproducible; WithIndex exposes them per constructor.
// Lanes are laid out for right-hand traffic: forward lanes at positive
// lateral positions, backward lanes at negative ones, sidewalks outermost.
package builder
