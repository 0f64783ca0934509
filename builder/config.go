// SPDX-License-Identifier: MIT
// Package: lanepath/builder
//
// config.go — internal configuration and deterministic defaults.
//
// Deterministic defaults:
//   • rng        = nil   (no randomness unless seeded)
//   • spacing    = 100   (distance between neighbouring nodes)
//   • laneWidth  = 3
//   • speed      = 1     (speed-limit units; 1 ≈ 50 km/h)
//   • vehicles   = VehicleCar
//   • sidewalks  = off, highway = off

package builder

import (
	"math/rand"

	"github.com/katalvlaran/lanepath/network"
)

// builderConfig aggregates all knobs used by constructors.
// It is passed by VALUE to constructors.
type builderConfig struct {
	rng *rand.Rand

	spacing   float64
	originX   float64
	originY   float64
	laneWidth float32
	speed     float32
	vehicles  network.VehicleType

	sidewalks bool
	highway   bool

	index *Index
}

const (
	defaultSpacing   = 100.0
	defaultLaneWidth = float32(3)
	defaultSpeed     = float32(1)
	defaultVehicles  = network.VehicleCar
)

// newBuilderConfig applies all options in order over the defaults (last wins).
// Complexity: O(len(opts)).
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		spacing:   defaultSpacing,
		laneWidth: defaultLaneWidth,
		speed:     defaultSpeed,
		vehicles:  defaultVehicles,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// segmentFlags returns the base flags for segments emitted under cfg.
func (cfg builderConfig) segmentFlags() network.SegmentFlags {
	if cfg.highway {
		return network.SegHighway
	}
	return 0
}

// roadLanes lays out forward lanes right of the centre line and backward
// lanes left of it (right-hand traffic), with sidewalks on the outside when
// cfg.sidewalks is set.
func (cfg builderConfig) roadLanes(forward, backward int) []network.LaneSpec {
	out := make([]network.LaneSpec, 0, forward+backward+2)
	half := cfg.laneWidth / 2
	for i := 0; i < backward; i++ {
		out = append(out, cfg.vehicleLane(network.DirBackward, -(half+float32(i)*cfg.laneWidth)))
	}
	for i := 0; i < forward; i++ {
		out = append(out, cfg.vehicleLane(network.DirForward, half+float32(i)*cfg.laneWidth))
	}
	if cfg.sidewalks {
		edge := float32(max(forward, backward))*cfg.laneWidth + cfg.laneWidth
		out = append(out, sidewalk(-edge), sidewalk(edge))
	}

	return out
}

func (cfg builderConfig) vehicleLane(d network.Direction, pos float32) network.LaneSpec {
	return network.LaneSpec{
		Types:      network.LaneVehicle,
		Vehicles:   cfg.vehicles,
		Direction:  d,
		SpeedLimit: cfg.speed,
		Position:   pos,
	}
}

func sidewalk(pos float32) network.LaneSpec {
	return network.LaneSpec{
		Types:      network.LanePedestrian,
		Direction:  network.DirBoth,
		SpeedLimit: pedestrianSpeed,
		Position:   pos,
	}
}

// pedestrianSpeed is the speed limit assigned to sidewalks.
const pedestrianSpeed = float32(0.25)
