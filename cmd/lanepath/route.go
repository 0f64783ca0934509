// SPDX-License-Identifier: MIT
// Package: lanepath/cmd/lanepath
//
// route.go — single route search.

package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lanepath/network"
	"github.com/katalvlaran/lanepath/pathfind"
)

var (
	routeGrid    gridFlags
	routeFrom    uint32
	routeTo      uint32
	routeLane    uint8
	routeEndLane uint8
	routeWalk    bool
	routeStable  bool
	routeTimeout time.Duration
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Search one route on a generated grid",
	Long: `Build a street grid, search a route from the start of segment --from
to the end of segment --to, and print every position with its remaining cost.

Examples:
  lanepath route --rows 3 --cols 3 --from 1 --to 12
  lanepath route --sidewalks --walk --from 1 --to 7`,
	Args: cobra.NoArgs,
	RunE: runRoute,
}

func init() {
	routeGrid.register(routeCmd)
	routeCmd.Flags().Uint32Var(&routeFrom, "from", 1, "start segment")
	routeCmd.Flags().Uint32Var(&routeTo, "to", 2, "end segment")
	routeCmd.Flags().Uint8Var(&routeLane, "lane", 0, "start lane index")
	routeCmd.Flags().Uint8Var(&routeEndLane, "end-lane", 0, "end lane index")
	routeCmd.Flags().BoolVar(&routeWalk, "walk", false, "search a pedestrian route")
	routeCmd.Flags().BoolVar(&routeStable, "stable", true, "disable lane randomization and cost jitter")
	routeCmd.Flags().DurationVar(&routeTimeout, "timeout", 10*time.Second, "search deadline")
}

func runRoute(cmd *cobra.Command, args []string) error {
	net, err := routeGrid.build()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), routeTimeout)
	defer cancel()

	opts := append(cfg.EngineOptions(), pathfind.WithLogger(logger))
	e, err := pathfind.New(net, pathfind.NewChunkPool(cfg.Engine.ChunkPoolCapacity), opts...)
	if err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()
	defer func() {
		e.Close()
		<-done
	}()

	req := pathfind.NewPathRequest()
	defer req.Release()
	req.Start[0] = pathfind.Position{Segment: network.SegmentID(routeFrom), Lane: routeLane}
	req.End[0] = pathfind.Position{Segment: network.SegmentID(routeTo), Lane: routeEndLane, Offset: 255}
	req.LaneTypes, req.VehicleTypes = network.LaneVehicle, network.VehicleCar
	if routeWalk {
		req.LaneTypes, req.VehicleTypes = network.LanePedestrian, 0
	}
	if routeStable {
		req.Flags |= pathfind.FlagStablePath
	}

	if !e.Enqueue(req, false) {
		return fmt.Errorf("request %s rejected", req.ID)
	}
	select {
	case <-req.Done():
	case <-ctx.Done():
		return fmt.Errorf("route search: %w", ctx.Err())
	}
	if err := req.Err(); err != nil {
		return fmt.Errorf("route search: %w", err)
	}

	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSEGMENT\tLANE\tOFFSET\tCOST")
	i := 0
	for p, c := range req.Positions() {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%.4f\n", i, p.Segment, p.Lane, p.Offset, c)
		i++
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "length %.1f  cost %.4f  chunks %d\n", req.TotalLength(), req.TotalCost(), req.ChunkCount())

	return nil
}
