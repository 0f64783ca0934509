// SPDX-License-Identifier: MIT
// Package: lanepath/builder
//
// impl_grid.go — Grid(rows, cols, lanes): a Manhattan street grid.
//
// Contract:
//   • rows, cols ≥ 1 with rows·cols ≥ 2 (else ErrTooFewNodes); lanes ≥ 1.
//   • Nodes in row-major order at (c·spacing, -r·spacing).
//   • For each (r,c) emit the Right segment (r,c)→(r,c+1), then the Bottom
//     segment (r,c)→(r+1,c), where they exist. Streets are two-way.
//
// Complexity: O(rows·cols·lanes).

package builder

import (
	"fmt"

	"github.com/katalvlaran/lanepath/network"
)

const (
	methodGrid = "Grid"
	minGridDim = 1
)

// Grid returns a Constructor that builds a rows×cols street grid.
func Grid(rows, cols, lanes int) Constructor {
	return func(net *network.Network, cfg builderConfig) error {
		// 1) Validate parameters early.
		if rows < minGridDim || cols < minGridDim || rows*cols < 2 {
			return fmt.Errorf("%s: rows=%d, cols=%d: %w", methodGrid, rows, cols, ErrTooFewNodes)
		}
		if err := checkLanes(methodGrid, lanes); err != nil {
			return err
		}

		// 2) Nodes, row-major.
		ids := make([]network.NodeID, rows*cols)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				ids[r*cols+c] = emitNode(net, cfg, methodGrid, float64(c)*cfg.spacing, -float64(r)*cfg.spacing, 0)
			}
		}

		// 3) Right then Bottom per cell.
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				u := ids[r*cols+c]
				if c+1 < cols {
					if _, err := emitSegment(net, cfg, methodGrid, u, ids[r*cols+c+1], cfg.roadLanes(lanes, lanes)); err != nil {
						return err
					}
				}
				if r+1 < rows {
					if _, err := emitSegment(net, cfg, methodGrid, u, ids[(r+1)*cols+c], cfg.roadLanes(lanes, lanes)); err != nil {
						return err
					}
				}
			}
		}

		return nil
	}
}
