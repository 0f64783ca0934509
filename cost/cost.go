// SPDX-License-Identifier: MIT
// Package: lanepath/cost
//
// cost.go — per-edge cost evaluation.
//
// Formula (all terms ≥ 0):
//
//	speed = avg(SpeedFrom, SpeedTo) · avoid
//	c     = Distance / (speed · MaxLength)
//	c    *= transition · ramp · heavyBan · carBan · (1 + Jitter)
//	c    += c · (LaneChange·ExitBias + Density)
//	c    += TransitLanePenalty (if TransitLane)
//	c    *= Multiplier

package cost

import "math"

// minSpeed floors the speed term so unset limits cannot divide by zero.
const minSpeed = 0.01

// Compute returns the cost of e under p. The result is never negative and
// never NaN.
// Complexity: O(1).
func Compute(p Params, e Edge) float32 {
	speed := (e.SpeedFrom + e.SpeedTo) / 2
	if e.Avoided {
		if e.AvoidPreferred {
			speed *= p.AvoidPreferredSpeed
		} else {
			speed *= p.AvoidSpeed
		}
	}
	c := Base(e.Distance, speed, e.MaxLength)

	if e.Transition {
		c *= p.TransitionMultiplier
	}
	if e.RampBoundary {
		c *= p.RampMultiplier
	}
	if e.HeavyBan {
		c *= p.HeavyBanMultiplier
	}
	if e.CarBan {
		c *= p.CarBanMultiplier
	}
	c *= 1 + clamp01(e.Jitter)

	lane := LaneChange(p, e.LaneDistance, e.LaneCount)*ExitBias(p, e.SegmentsToJunction) +
		Density(p, e.DensityFrom, e.DensityTo)
	c += c * lane

	if e.TransitLane {
		c += p.TransitLanePenalty
	}
	if e.Multiplier > 0 {
		c *= e.Multiplier
	}

	return nonNegative(c)
}

// Base is the normalized travel time distance/(speed·maxLength).
func Base(distance, speed, maxLength float32) float32 {
	if distance <= 0 {
		return 0
	}
	if speed < minSpeed {
		speed = minSpeed
	}
	if maxLength < 1 {
		maxLength = 1
	}
	return distance / (speed * maxLength)
}

// LaneChange is weight·min(1, distance/lanes)².
func LaneChange(p Params, distance, lanes int) float32 {
	if distance <= 0 || lanes <= 0 {
		return 0
	}
	x := float32(distance) / float32(lanes)
	if x > 1 {
		x = 1
	}
	return p.LaneChangeWeight * x * x
}

// Density blends the live densities of the source and target lanes.
func Density(p Params, from, to float32) float32 {
	mix := p.DensityTargetMix
	return p.DensityWeight * (mix*clamp01(to) + (1-mix)*clamp01(from))
}

// ExitBias is the lane-change multiplier n segments ahead of a junction:
// 1 + (L-n)/L inside the look-ahead L, else 1. Negative n disables it.
func ExitBias(p Params, n int) float32 {
	L := p.ExitLookAhead
	if n < 0 || L <= 0 || n >= L {
		return 1
	}
	return 1 + float32(L-n)/float32(L)
}

// Jitter derives a reproducible value in [0, max) from a search seed,
// generation and segment, so one segment gets one jitter per search.
func Jitter(seed uint64, generation uint16, segment uint32, max float32) float32 {
	if max <= 0 {
		return 0
	}
	h := splitmix64(seed ^ uint64(generation)<<32 ^ uint64(segment))
	return float32(h>>40) / float32(1<<24) * max
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

func clamp01(v float32) float32 {
	switch {
	case v != v || v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func nonNegative(v float32) float32 {
	if v != v || v < 0 {
		return 0
	}
	if math.IsInf(float64(v), 1) {
		return math.MaxFloat32
	}
	return v
}
