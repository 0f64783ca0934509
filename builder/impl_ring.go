// SPDX-License-Identifier: MIT
// Package: lanepath/builder
//
// impl_ring.go — Ring(n, lanes): a one-way loop.
//
// Contract:
//   • n ≥ 3 (else ErrTooFewNodes); lanes ≥ 1 (else ErrTooFewLanes).
//   • Nodes i = 0..n-1 evenly spaced counter-clockwise on a circle whose
//     chord length is about cfg.spacing.
//   • Segments i→(i+1) mod n, each with lanes forward lanes only.
//
// Complexity: O(n·lanes).

package builder

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lanepath/network"
)

const (
	methodRing  = "Ring"
	minRingSize = 3
)

// Ring returns a Constructor for a one-way circular road.
func Ring(n, lanes int) Constructor {
	return func(net *network.Network, cfg builderConfig) error {
		if n < minRingSize {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodRing, n, minRingSize, ErrTooFewNodes)
		}
		if err := checkLanes(methodRing, lanes); err != nil {
			return err
		}

		radius := cfg.spacing / (2 * math.Sin(math.Pi/float64(n)))
		nodes := make([]network.NodeID, n)
		for i := range nodes {
			a := 2 * math.Pi * float64(i) / float64(n)
			nodes[i] = emitNode(net, cfg, methodRing, radius*math.Cos(a), radius*math.Sin(a), 0)
		}
		for i := range nodes {
			if _, err := emitSegment(net, cfg, methodRing, nodes[i], nodes[(i+1)%n], cfg.roadLanes(lanes, 0)); err != nil {
				return err
			}
		}

		return nil
	}
}
