// SPDX-License-Identifier: MIT
// Package: lanepath/builder
//
// impl_special.go — small hand-shaped fixtures.
//
//   ParallelOneWays()  two one-way segments A: N1→N2 and B: N2→N1 sharing both nodes.
//   LaneDrop(from,to)  one-way road whose lane count changes at a plain (degree-2) node.
//   HighwayRamp()      3-lane highway splitting into a 2-lane mainline and a
//                      1-lane off-ramp, the ramp continuing into a local road.

package builder

import "github.com/katalvlaran/lanepath/network"

const (
	methodParallel    = "ParallelOneWays"
	methodLaneDrop    = "LaneDrop"
	methodHighwayRamp = "HighwayRamp"
)

// ParallelOneWays emits nodes N1, N2 and segments A (N1→N2), B (N2→N1),
// each with one forward lane.
func ParallelOneWays() Constructor {
	return func(net *network.Network, cfg builderConfig) error {
		n1 := emitNode(net, cfg, methodParallel, 0, 0, 0)
		n2 := emitNode(net, cfg, methodParallel, cfg.spacing, 0, 0)
		if _, err := emitSegment(net, cfg, methodParallel, n1, n2, cfg.roadLanes(1, 0)); err != nil {
			return err
		}
		_, err := emitSegment(net, cfg, methodParallel, n2, n1, cfg.roadLanes(1, 0))

		return err
	}
}

// LaneDrop emits three collinear nodes and two one-way segments with from
// and to forward lanes respectively.
func LaneDrop(from, to int) Constructor {
	return func(net *network.Network, cfg builderConfig) error {
		if err := checkLanes(methodLaneDrop, from); err != nil {
			return err
		}
		if err := checkLanes(methodLaneDrop, to); err != nil {
			return err
		}
		a := emitNode(net, cfg, methodLaneDrop, 0, 0, 0)
		b := emitNode(net, cfg, methodLaneDrop, cfg.spacing, 0, 0)
		c := emitNode(net, cfg, methodLaneDrop, 2*cfg.spacing, 0, 0)
		if _, err := emitSegment(net, cfg, methodLaneDrop, a, b, cfg.roadLanes(from, 0)); err != nil {
			return err
		}
		_, err := emitSegment(net, cfg, methodLaneDrop, b, c, cfg.roadLanes(to, 0))

		return err
	}
}

// Highway ramp lane counts.
const (
	rampMainIn  = 3
	rampMainOut = 2
	rampExit    = 1
)

// HighwayRamp emits nodes A, B (split), C, D, E and segments
// A→B (3 lanes), B→C (2 lanes), B→D (1 lane ramp), all highway, and the local
// road D→E (1 lane, not highway). The ramp leaves to the right.
func HighwayRamp() Constructor {
	return func(net *network.Network, cfg builderConfig) error {
		hw := cfg
		hw.highway = true
		local := cfg
		local.highway = false

		sp := cfg.spacing
		a := emitNode(net, cfg, methodHighwayRamp, 0, 0, 0)
		b := emitNode(net, cfg, methodHighwayRamp, sp, 0, network.NodeJunction)
		c := emitNode(net, cfg, methodHighwayRamp, 2*sp, 0, 0)
		d := emitNode(net, cfg, methodHighwayRamp, 2*sp, -sp, 0)
		e := emitNode(net, cfg, methodHighwayRamp, 3*sp, -sp, 0)

		links := []struct {
			from, to network.NodeID
			lanes    int
			cfg      builderConfig
		}{
			{a, b, rampMainIn, hw},
			{b, c, rampMainOut, hw},
			{b, d, rampExit, hw},
			{d, e, 1, local},
		}
		for _, l := range links {
			if _, err := emitSegment(net, l.cfg, methodHighwayRamp, l.from, l.to, l.cfg.roadLanes(l.lanes, 0)); err != nil {
				return err
			}
		}

		return nil
	}
}
