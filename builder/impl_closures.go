// SPDX-License-Identifier: MIT
// Package: lanepath/builder
//
// impl_closures.go — RandomClosures(p): close a random subset of segments.
//
// Contract:
//   • 0 ≤ p ≤ 1 (else ErrInvalidProbability); requires cfg.rng (else ErrNeedRandSource).
//   • Visits valid segments in ascending ID order, drawing one number each;
//     closed segments are recorded in ascending order.
//
// Complexity: O(S).

package builder

import (
	"fmt"

	"github.com/katalvlaran/lanepath/network"
)

const methodRandomClosures = "RandomClosures"

// RandomClosures marks each existing segment SegClosed with probability p.
func RandomClosures(p float64) Constructor {
	return func(net *network.Network, cfg builderConfig) error {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s: p=%g: %w", methodRandomClosures, p, ErrInvalidProbability)
		}
		if cfg.rng == nil {
			return fmt.Errorf("%s: %w", methodRandomClosures, ErrNeedRandSource)
		}

		s := net.Snapshot()
		for i := 1; i < s.SegmentCount(); i++ {
			id := network.SegmentID(i)
			if !s.Segment(id).Valid {
				continue
			}
			if cfg.rng.Float64() >= p {
				continue
			}
			if err := net.SetSegmentFlags(id, network.SegClosed); err != nil {
				return fmt.Errorf("%s: %w: %w", methodRandomClosures, ErrConstructFailed, err)
			}
			cfg.index.addSegment(methodRandomClosures, id)
		}

		return nil
	}
}
