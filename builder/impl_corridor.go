// SPDX-License-Identifier: MIT
// Package: lanepath/builder
//
// impl_corridor.go — Corridor(n, lanes) and Sidewalks(n).
//
// Contract:
//   • n ≥ 2 (else ErrTooFewNodes); 1 ≤ lanes (else ErrTooFewLanes).
//   • Nodes i = 0..n-1 at (i·spacing, 0), emitted in ascending order.
//   • Segments (i-1)→i for i = 1..n-1, emitted in ascending order.
//
// Complexity: O(n·lanes).

package builder

import (
	"fmt"

	"github.com/katalvlaran/lanepath/network"
)

const (
	methodCorridor  = "Corridor"
	methodSidewalks = "Sidewalks"
	minCorridorSize = 2
)

// Corridor returns a Constructor for a straight two-way road of n nodes with
// lanes lanes in each direction.
func Corridor(n, lanes int) Constructor {
	return func(net *network.Network, cfg builderConfig) error {
		if n < minCorridorSize {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodCorridor, n, minCorridorSize, ErrTooFewNodes)
		}
		if err := checkLanes(methodCorridor, lanes); err != nil {
			return err
		}

		return line(net, cfg, methodCorridor, n, func() []network.LaneSpec { return cfg.roadLanes(lanes, lanes) })
	}
}

// Sidewalks returns a Constructor for a pedestrian-only street of n nodes
// with a two-way sidewalk on each side.
func Sidewalks(n int) Constructor {
	return func(net *network.Network, cfg builderConfig) error {
		if n < minCorridorSize {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodSidewalks, n, minCorridorSize, ErrTooFewNodes)
		}
		edge := 2 * cfg.laneWidth

		return line(net, cfg, methodSidewalks, n, func() []network.LaneSpec {
			return []network.LaneSpec{sidewalk(-edge), sidewalk(edge)}
		})
	}
}

// line emits n collinear nodes joined by consecutive segments.
func line(net *network.Network, cfg builderConfig, method string, n int, lanes func() []network.LaneSpec) error {
	prev := emitNode(net, cfg, method, 0, 0, 0)
	for i := 1; i < n; i++ {
		next := emitNode(net, cfg, method, float64(i)*cfg.spacing, 0, 0)
		if _, err := emitSegment(net, cfg, method, prev, next, lanes()); err != nil {
			return err
		}
		prev = next
	}

	return nil
}
