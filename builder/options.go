// SPDX-License-Identifier: MIT
// Package: lanepath/builder
//
// options.go — functional options for the builder package.
//
// Contract:
//   • Options are functional (type BuilderOption func(*builderConfig)).
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//     Constructors themselves never panic.
//   • Seeding is explicit via WithSeed or WithRand.

package builder

import (
	"math/rand"

	"github.com/katalvlaran/lanepath/network"
)

// BuilderOption customizes a builderConfig before construction begins.
type BuilderOption func(*builderConfig)

// WithRand provides an explicit RNG for stochastic constructors. Panics on nil.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *builderConfig) { c.rng = r }
}

// WithSeed creates a seeded RNG so stochastic constructors are reproducible.
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) { c.rng = rand.New(rand.NewSource(seed)) }
}

// WithSpacing sets the distance between neighbouring nodes. Panics if d <= 0.
func WithSpacing(d float64) BuilderOption {
	if d <= 0 {
		panic("builder: WithSpacing(d<=0)")
	}
	return func(c *builderConfig) { c.spacing = d }
}

// WithOrigin offsets every emitted node, so several fixtures can share a network.
func WithOrigin(x, y float64) BuilderOption {
	return func(c *builderConfig) { c.originX, c.originY = x, y }
}

// WithSpeedLimit sets the speed limit of vehicle lanes. Panics if v <= 0.
func WithSpeedLimit(v float32) BuilderOption {
	if v <= 0 {
		panic("builder: WithSpeedLimit(v<=0)")
	}
	return func(c *builderConfig) { c.speed = v }
}

// WithVehicleTypes sets the vehicle mask of vehicle lanes. Panics on an empty mask.
func WithVehicleTypes(mask network.VehicleType) BuilderOption {
	if mask == 0 {
		panic("builder: WithVehicleTypes(0)")
	}
	return func(c *builderConfig) { c.vehicles = mask }
}

// WithSidewalks adds a two-way sidewalk on each side of every road.
func WithSidewalks() BuilderOption {
	return func(c *builderConfig) { c.sidewalks = true }
}

// WithHighway flags every emitted segment as a highway.
func WithHighway() BuilderOption {
	return func(c *builderConfig) { c.highway = true }
}

// WithIndex records created elements into ix. Panics on nil.
func WithIndex(ix *Index) BuilderOption {
	if ix == nil {
		panic("builder: WithIndex(nil)")
	}
	return func(c *builderConfig) { c.index = ix }
}
