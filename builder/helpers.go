// SPDX-License-Identifier: MIT
// Package: lanepath/builder
//
// helpers.go — shared emission helpers for constructors.

package builder

import (
	"fmt"

	"github.com/katalvlaran/lanepath/network"
)

// emitNode adds a node at the cfg-relative point (x, y) and records it.
func emitNode(n *network.Network, cfg builderConfig, method string, x, y float64, flags network.NodeFlags) network.NodeID {
	id := n.AddNode(cfg.originX+x, cfg.originY+y, flags)
	cfg.index.addNode(method, id)

	return id
}

// emitSegment adds a segment and records it; network errors are wrapped
// under ErrConstructFailed with the method tag.
func emitSegment(n *network.Network, cfg builderConfig, method string, a, b network.NodeID, lanes []network.LaneSpec) (network.SegmentID, error) {
	id, err := n.AddSegment(a, b, network.SegmentSpec{Lanes: lanes, Flags: cfg.segmentFlags()})
	if err != nil {
		return 0, fmt.Errorf("%s: AddSegment(%d→%d): %w: %w", method, a, b, ErrConstructFailed, err)
	}
	cfg.index.addSegment(method, id)

	return id, nil
}

// checkLanes validates a per-direction lane count.
func checkLanes(method string, lanes int) error {
	if lanes < minLanes || 2*lanes+2 > network.MaxLanesPerSegment {
		return fmt.Errorf("%s: lanes=%d: %w", method, lanes, ErrTooFewLanes)
	}
	return nil
}

const minLanes = 1
