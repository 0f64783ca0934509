// SPDX-License-Identifier: MIT
// Package: lanepath/cost
//
// params.go — tuning parameters, edge input record and sentinel errors.

package cost

import (
	"errors"
	"fmt"
)

// Params holds every tuning constant of the cost model. The defaults are
// empirical; treat changes as tuning, not as corrections.
type Params struct {
	// JitterMax bounds the per-segment random multiplier: cost·(1+j), j∈[0,JitterMax).
	JitterMax float32 `yaml:"jitter_max" json:"jitter_max"`

	HeavyBanMultiplier   float32 `yaml:"heavy_ban_multiplier" json:"heavy_ban_multiplier"`
	CarBanMultiplier     float32 `yaml:"car_ban_multiplier" json:"car_ban_multiplier"`
	TransitionMultiplier float32 `yaml:"transition_multiplier" json:"transition_multiplier"`
	RampMultiplier       float32 `yaml:"ramp_multiplier" json:"ramp_multiplier"`

	// AvoidSpeed scales the speed on a lane whose travel direction is avoided;
	// AvoidPreferredSpeed applies instead when the lane also has a regular direction.
	AvoidSpeed          float32 `yaml:"avoid_speed" json:"avoid_speed"`
	AvoidPreferredSpeed float32 `yaml:"avoid_preferred_speed" json:"avoid_preferred_speed"`

	LaneChangeWeight float32 `yaml:"lane_change_weight" json:"lane_change_weight"`
	DensityWeight    float32 `yaml:"density_weight" json:"density_weight"`
	// DensityTargetMix is the share of the target lane in the density blend.
	DensityTargetMix float32 `yaml:"density_target_mix" json:"density_target_mix"`

	// TransitLanePenalty is added when a non-transit vehicle uses a transit lane.
	TransitLanePenalty float32 `yaml:"transit_lane_penalty" json:"transit_lane_penalty"`

	// PedestrianMaxDistance bounds the method distance walked on pedestrian lanes.
	PedestrianMaxDistance float32 `yaml:"pedestrian_max_distance" json:"pedestrian_max_distance"`

	// ExitLookAhead is the number of segments before a junction over which
	// lane changes are made more expensive.
	ExitLookAhead int `yaml:"exit_look_ahead" json:"exit_look_ahead"`
}

// Defaults.
const (
	DefaultJitterMax             = 0.1
	DefaultHeavyBanMultiplier    = 10
	DefaultCarBanMultiplier      = 5
	DefaultTransitionMultiplier  = 2
	DefaultRampMultiplier        = 4
	DefaultAvoidSpeed            = 0.1
	DefaultAvoidPreferredSpeed   = 0.2
	DefaultLaneChangeWeight      = 0.9
	DefaultDensityWeight         = 0.2
	DefaultDensityTargetMix      = 0.7
	DefaultTransitLanePenalty    = 0.001
	DefaultPedestrianMaxDistance = 1000
	DefaultExitLookAhead         = 3
)

// DefaultParams returns the reference tuning.
func DefaultParams() Params {
	return Params{
		JitterMax:             DefaultJitterMax,
		HeavyBanMultiplier:    DefaultHeavyBanMultiplier,
		CarBanMultiplier:      DefaultCarBanMultiplier,
		TransitionMultiplier:  DefaultTransitionMultiplier,
		RampMultiplier:        DefaultRampMultiplier,
		AvoidSpeed:            DefaultAvoidSpeed,
		AvoidPreferredSpeed:   DefaultAvoidPreferredSpeed,
		LaneChangeWeight:      DefaultLaneChangeWeight,
		DensityWeight:         DefaultDensityWeight,
		DensityTargetMix:      DefaultDensityTargetMix,
		TransitLanePenalty:    DefaultTransitLanePenalty,
		PedestrianMaxDistance: DefaultPedestrianMaxDistance,
		ExitLookAhead:         DefaultExitLookAhead,
	}
}

// Validate rejects parameters that could make an edge cost negative or
// shrink it below the plain distance term.
func (p Params) Validate() error {
	switch {
	case p.JitterMax < 0 || p.JitterMax > 1:
		return fmt.Errorf("cost: jitter_max=%g: %w", p.JitterMax, ErrBadParams)
	case p.HeavyBanMultiplier < 1 || p.CarBanMultiplier < 1:
		return fmt.Errorf("cost: ban multipliers must be ≥ 1: %w", ErrBadParams)
	case p.TransitionMultiplier < 1 || p.RampMultiplier < 1:
		return fmt.Errorf("cost: transition/ramp multipliers must be ≥ 1: %w", ErrBadParams)
	case p.AvoidSpeed <= 0 || p.AvoidSpeed > 1 || p.AvoidPreferredSpeed <= 0 || p.AvoidPreferredSpeed > 1:
		return fmt.Errorf("cost: avoid speeds must be in (0,1]: %w", ErrBadParams)
	case p.LaneChangeWeight < 0 || p.DensityWeight < 0 || p.TransitLanePenalty < 0:
		return fmt.Errorf("cost: weights must be ≥ 0: %w", ErrBadParams)
	case p.DensityTargetMix < 0 || p.DensityTargetMix > 1:
		return fmt.Errorf("cost: density_target_mix=%g: %w", p.DensityTargetMix, ErrBadParams)
	case p.PedestrianMaxDistance <= 0:
		return fmt.Errorf("cost: pedestrian_max_distance=%g: %w", p.PedestrianMaxDistance, ErrBadParams)
	case p.ExitLookAhead < 0:
		return fmt.Errorf("cost: exit_look_ahead=%d: %w", p.ExitLookAhead, ErrBadParams)
	}
	return nil
}

// ErrBadParams indicates an out-of-range tuning parameter.
var ErrBadParams = errors.New("cost: invalid parameters")

// Edge describes one proposed lane transition as seen by the cost model.
type Edge struct {
	// Distance is the real distance travelled along the lane being left.
	Distance float32
	// SpeedFrom and SpeedTo are the speed limits of the two lanes.
	SpeedFrom, SpeedTo float32
	// MaxLength normalizes costs into the queue's value range.
	MaxLength float32

	Transition   bool // node changes the travel mode
	RampBoundary bool // crossing between highway and non-highway, when enabled
	HeavyBan     bool // segment bans the heavy vehicle making the request
	CarBan       bool // segment bans the private car making the request

	Avoided        bool // travel direction is avoid-penalised on the lane
	AvoidPreferred bool // the avoided lane also has a regular direction

	Jitter float32 // per-segment random share in [0, JitterMax)

	LaneDistance int // similar-index distance between source and target lane
	LaneCount    int // larger lane count of the two segments
	// SegmentsToJunction counts plain segments up to the next junction; < 0 disables the exit bias.
	SegmentsToJunction int

	DensityFrom, DensityTo float32 // live traffic density of the two lanes, in [0,1]

	TransitLane bool // non-transit vehicle on a transit lane

	// Multiplier scales the whole edge; 0 means 1.
	Multiplier float32
}
