// SPDX-License-Identifier: MIT
// Package: lanepath/cmd/lanepath
//
// simulate.go — paced load over an engine pool.

package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/time/rate"

	"github.com/katalvlaran/lanepath/config"
	"github.com/katalvlaran/lanepath/network"
	"github.com/katalvlaran/lanepath/pathfind"
	"github.com/katalvlaran/lanepath/telemetry"
)

var (
	simGrid     gridFlags
	simRequests int
	simRate     float64
	simSeed     uint64
	simWatch    bool
	simMetrics  string
	simDecay    float32
	simTimeout  time.Duration
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Drive an engine pool with random requests",
	Long: `Build a street grid, start one engine per configured worker and submit
random requests between segments of the largest connected component,
paced by --rate. Prints per-engine counters and an outcome summary.

With --watch the policy and cost sections of --config are reloaded on
change and published to every engine.

Examples:
  lanepath simulate --requests 2000 --rate 500
  lanepath simulate --config lanepath.yaml --watch --metrics-addr :9090`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simGrid.register(simulateCmd)
	simulateCmd.Flags().IntVar(&simRequests, "requests", 1000, "number of requests")
	simulateCmd.Flags().Float64Var(&simRate, "rate", 0, "requests per second (0 = unlimited)")
	simulateCmd.Flags().Uint64Var(&simSeed, "seed", 1, "seed for request endpoints")
	simulateCmd.Flags().BoolVar(&simWatch, "watch", false, "reload policy and cost from --config on change")
	simulateCmd.Flags().StringVar(&simMetrics, "metrics-addr", "", "serve Prometheus metrics on this address")
	simulateCmd.Flags().Float32Var(&simDecay, "decay", 0.5, "traffic decay factor applied every 100 requests")
	simulateCmd.Flags().DurationVar(&simTimeout, "timeout", 5*time.Minute, "overall deadline")
}

// summary tallies request outcomes.
type summary struct {
	ready, noPath, exhausted, other int
	length                          float64
}

func (s *summary) add(req *pathfind.PathRequest) {
	err := req.Err()
	switch {
	case err == nil:
		s.ready++
		s.length += float64(req.TotalLength())
	case errors.Is(err, pathfind.ErrNoPathFound):
		s.noPath++
	case errors.Is(err, pathfind.ErrChunkPoolExhausted):
		s.exhausted++
	default:
		s.other++
	}
}

func runSimulate(cmd *cobra.Command, args []string) error {
	if simRequests < 1 {
		return fmt.Errorf("--requests must be >= 1")
	}
	if simWatch && configPath == "" {
		return fmt.Errorf("--watch needs --config")
	}
	net, err := simGrid.build()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, simTimeout)
	defer cancel()

	reg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(reg)

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	tracer := telemetry.NewTracer(tp, cfg.Observability.TracingEnabled)

	opts := append(cfg.EngineOptions(),
		pathfind.WithLogger(logger),
		pathfind.WithMetrics(metrics),
		pathfind.WithTracer(tracer),
	)
	pool, err := pathfind.NewPool(cfg.Engine.Workers, net, cfg.Engine.ChunkPoolCapacity, opts...)
	if err != nil {
		return err
	}

	addr := simMetrics
	if addr == "" {
		addr = cfg.Observability.MetricsAddr
	}
	if addr != "" {
		srv := serveMetrics(addr, reg)
		defer func() { _ = srv.Shutdown(context.Background()) }()
	}

	if simWatch {
		go func() {
			err := config.Watch(ctx, configPath, logger, func(c config.Config) {
				if err := config.Apply(c, pool); err != nil {
					logger.WarnContext(ctx, "config apply failed", "error", err)
				}
			})
			if err != nil {
				logger.ErrorContext(ctx, "config watch stopped", "error", err)
			}
		}()
	}

	runDone := make(chan error, 1)
	go func() { runDone <- pool.Run(ctx) }()
	defer func() {
		pool.Close()
		<-runDone
	}()

	reqs, err := submit(ctx, pool, net)
	if err != nil {
		release(reqs)
		return err
	}
	sum, err := collect(ctx, reqs)
	if err != nil {
		return err
	}
	return report(cmd, pool, sum)
}

// collect waits for every request and tallies the outcomes. All requests
// are released on return, cancelled or not.
func collect(ctx context.Context, reqs []*pathfind.PathRequest) (summary, error) {
	defer release(reqs)

	var sum summary
	for _, req := range reqs {
		select {
		case <-req.Done():
		case <-ctx.Done():
			return sum, fmt.Errorf("simulate: %w", ctx.Err())
		}
	}
	for _, req := range reqs {
		sum.add(req)
	}
	return sum, nil
}

func release(reqs []*pathfind.PathRequest) {
	for _, req := range reqs {
		req.Release()
	}
}

// submit enqueues simRequests requests between random segments of the
// largest connected component. On error the requests enqueued so far are
// returned and still owned by the caller.
func submit(ctx context.Context, pool *pathfind.Pool, net *network.Network) ([]*pathfind.PathRequest, error) {
	comps := network.Components(net.Snapshot())
	segs := comps.Segments(comps.Largest())
	if len(segs) == 0 {
		return nil, fmt.Errorf("simulate: network has no open segments")
	}

	limit := rate.Inf
	if simRate > 0 {
		limit = rate.Limit(simRate)
	}
	limiter := rate.NewLimiter(limit, 1)
	rng := rand.New(rand.NewPCG(simSeed, simSeed^0x9e3779b97f4a7c15))
	requests := pathfind.NewRequestPool()

	reqs := make([]*pathfind.PathRequest, 0, simRequests)
	for i := 0; i < simRequests; i++ {
		if err := limiter.Wait(ctx); err != nil {
			return reqs, fmt.Errorf("simulate: %w", err)
		}
		if i > 0 && i%100 == 0 {
			net.Traffic().Decay(simDecay)
		}

		req := requests.Get()
		req.Start[0] = pathfind.Position{
			Segment: segs[rng.IntN(len(segs))],
			Lane:    uint8(rng.IntN(2 * simGrid.lanes)),
			Offset:  uint8(rng.IntN(256)),
		}
		req.End[0] = pathfind.Position{
			Segment: segs[rng.IntN(len(segs))],
			Lane:    uint8(rng.IntN(2 * simGrid.lanes)),
			Offset:  uint8(rng.IntN(256)),
		}
		req.LaneTypes, req.VehicleTypes = network.LaneVehicle, network.VehicleCar
		if rng.IntN(10) == 0 {
			req.Flags |= pathfind.FlagHeavy
		}

		if !pool.Enqueue(req, false) {
			req.Release()
			return reqs, fmt.Errorf("simulate: pool rejected request %d", i)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func serveMetrics(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)
	return srv
}

func report(cmd *cobra.Command, pool *pathfind.Pool, sum summary) error {
	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENGINE\tPROCESSED\tREADY\tFAILED\tEXPANDED")
	for _, s := range pool.Stats() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", s.Name, s.Processed, s.Ready, s.Failed, s.Expanded)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	mean := 0.0
	if sum.ready > 0 {
		mean = sum.length / float64(sum.ready)
	}
	fmt.Fprintf(out, "ready %d  no-path %d  exhausted %d  other %d  mean length %.1f\n",
		sum.ready, sum.noPath, sum.exhausted, sum.other, mean)
	return nil
}
