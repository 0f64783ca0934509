// SPDX-License-Identifier: MIT
// Package: lanepath/cmd/lanepath
//
// network.go — grid fixture shared by the commands.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lanepath/builder"
	"github.com/katalvlaran/lanepath/network"
)

// gridFlags describe the generated street grid.
type gridFlags struct {
	rows, cols, lanes int
	closures          float64
	seed              int64
	sidewalks         bool
}

func (g *gridFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&g.rows, "rows", 4, "grid rows")
	cmd.Flags().IntVar(&g.cols, "cols", 4, "grid columns")
	cmd.Flags().IntVar(&g.lanes, "lanes", 1, "lanes per direction")
	cmd.Flags().Float64Var(&g.closures, "closures", 0, "probability that a segment is closed")
	cmd.Flags().Int64Var(&g.seed, "grid-seed", 1, "seed for random closures")
	cmd.Flags().BoolVar(&g.sidewalks, "sidewalks", false, "add sidewalks to every street")
}

func (g *gridFlags) build() (*network.Network, error) {
	bopts := []builder.BuilderOption{builder.WithSeed(g.seed)}
	if g.sidewalks {
		bopts = append(bopts, builder.WithSidewalks())
	}
	cons := []builder.Constructor{builder.Grid(g.rows, g.cols, g.lanes)}
	if g.closures > 0 {
		cons = append(cons, builder.RandomClosures(g.closures))
	}

	net, err := builder.BuildNetwork(nil, bopts, cons...)
	if err != nil {
		return nil, fmt.Errorf("build %dx%d grid: %w", g.rows, g.cols, err)
	}
	return net, nil
}
