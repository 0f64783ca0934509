// SPDX-License-Identifier: MIT
// Package: lanepath/pathfind
//
// types.go — positions, flags, policy, options and sentinel errors.

package pathfind

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lanepath/bucketqueue"
	"github.com/katalvlaran/lanepath/cost"
	"github.com/katalvlaran/lanepath/network"
	"github.com/katalvlaran/lanepath/telemetry"
)

// ChunkCapacity is the number of positions one PathChunk holds.
const ChunkCapacity = 12

// DefaultChunkPoolCapacity is the chunk count of a pool created by New
// when the caller passes none.
const DefaultChunkPoolCapacity = 4096

// Position addresses a point on a lane: segment, lane index within the
// segment, and offset (0 at the segment start, 255 at its end).
type Position struct {
	Segment network.SegmentID
	Lane    uint8
	Offset  uint8
}

// IsZero reports an absent position.
func (p Position) IsZero() bool { return p.Segment == 0 }

// RequestFlags modify how a request is routed.
type RequestFlags uint8

const (
	// FlagHeavy marks a heavy vehicle (heavy-ban penalties apply).
	FlagHeavy RequestFlags = 1 << iota
	// FlagIgnoreBlocked allows flooded and path-failed segments.
	FlagIgnoreBlocked
	// FlagStablePath disables every randomized choice.
	FlagStablePath
	// FlagTransport marks a public-transport vehicle (no transit-lane penalty).
	FlagTransport
)

// Status is the bit set describing a request's lifecycle.
type Status uint32

const (
	StatusQueued Status = 1 << iota
	StatusCalculating
	StatusReady
	StatusFailed
)

// Has reports whether all bits of f are set.
func (s Status) Has(f Status) bool { return s&f == f }

// Policy holds the live global toggles of an engine. Engines swap it
// atomically; a search uses the value current when it started.
type Policy struct {
	// StrictLaneArrows drops candidates whose arrows forbid the turn. When
	// false, arrows only narrow the choice if some candidate complies.
	StrictLaneArrows bool `yaml:"strict_lane_arrows" json:"strict_lane_arrows"`
	// HighwayRules enables forced lane mapping at highway splits and merges.
	HighwayRules bool `yaml:"highway_rules" json:"highway_rules"`
	// RampPenalty multiplies costs across highway/non-highway boundaries.
	RampPenalty bool `yaml:"ramp_penalty" json:"ramp_penalty"`
	// Randomization enables jitter and randomized merge/split mapping.
	Randomization bool `yaml:"randomization" json:"randomization"`
	// AllowUTurnFallback lets a vehicle expansion that found no compatible
	// lane turn back onto its own segment.
	AllowUTurnFallback bool `yaml:"allow_uturn_fallback" json:"allow_uturn_fallback"`
	// CostMultiplier scales every edge cost.
	CostMultiplier float32 `yaml:"cost_multiplier" json:"cost_multiplier"`
	// DefaultMaxLength normalizes costs of requests without a MaxLength.
	DefaultMaxLength float32 `yaml:"default_max_length" json:"default_max_length"`
}

// DefaultPolicy returns the reference toggles.
func DefaultPolicy() Policy {
	return Policy{
		StrictLaneArrows:   true,
		HighwayRules:       true,
		RampPenalty:        true,
		Randomization:      true,
		AllowUTurnFallback: true,
		CostMultiplier:     1,
		DefaultMaxLength:   10000,
	}
}

// Validate rejects non-positive scale factors.
func (p Policy) Validate() error {
	if p.CostMultiplier <= 0 {
		return fmt.Errorf("pathfind: cost_multiplier=%g: %w", p.CostMultiplier, ErrBadPolicy)
	}
	if p.DefaultMaxLength <= 0 {
		return fmt.Errorf("pathfind: default_max_length=%g: %w", p.DefaultMaxLength, ErrBadPolicy)
	}
	return nil
}

// Options configures an Engine.
type Options struct {
	Name    string
	Logger  *telemetry.Logger
	Metrics *telemetry.Metrics
	Tracer  *telemetry.Tracer
	Layout  bucketqueue.Layout
	Policy  Policy
	Cost    cost.Params
	Seed    uint64
}

// DefaultOptions returns silent defaults: no-op logger, no metrics, no tracing.
func DefaultOptions() Options {
	return Options{
		Name:   "engine",
		Logger: telemetry.NoopLogger(),
		Layout: bucketqueue.DefaultLayout,
		Policy: DefaultPolicy(),
		Cost:   cost.DefaultParams(),
		Seed:   1,
	}
}

// Option represents a functional option for configuring an Engine.
// Option constructors panic on meaningless values.
type Option func(*Options)

// WithName sets the engine name used in logs, metrics and spans.
func WithName(name string) Option {
	if name == "" {
		panic("pathfind: WithName(\"\")")
	}
	return func(o *Options) { o.Name = name }
}

// WithLogger sets the logger. Panics on nil; use telemetry.NoopLogger to silence.
func WithLogger(l *telemetry.Logger) Option {
	if l == nil {
		panic("pathfind: WithLogger(nil)")
	}
	return func(o *Options) { o.Logger = l }
}

// WithMetrics sets the Prometheus collectors; nil disables metrics.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(o *Options) { o.Metrics = m }
}

// WithTracer sets the span tracer; nil disables tracing.
func WithTracer(t *telemetry.Tracer) Option {
	return func(o *Options) { o.Tracer = t }
}

// WithLayout sizes the per-engine search arena. Panics on an invalid layout.
func WithLayout(l bucketqueue.Layout) Option {
	if err := l.Validate(); err != nil {
		panic(err)
	}
	return func(o *Options) { o.Layout = l }
}

// WithPolicy sets the initial policy. Panics on an invalid policy.
func WithPolicy(p Policy) Option {
	if err := p.Validate(); err != nil {
		panic(err)
	}
	return func(o *Options) { o.Policy = p }
}

// WithCostParams sets the initial cost tuning. Panics on invalid parameters.
func WithCostParams(p cost.Params) Option {
	if err := p.Validate(); err != nil {
		panic(err)
	}
	return func(o *Options) { o.Cost = p }
}

// WithSeed sets the seed of jitter and randomized lane mapping.
func WithSeed(seed uint64) Option {
	return func(o *Options) { o.Seed = seed }
}

// Sentinel errors. Search failures are reported through the request's
// failed status and Err(); they never escape the worker loop.
var (
	// ErrNoPathFound indicates the frontier was exhausted without reaching a start position.
	ErrNoPathFound = errors.New("pathfind: no path found")

	// ErrChunkPoolExhausted indicates the shared chunk pool could not hold the path.
	ErrChunkPoolExhausted = errors.New("pathfind: chunk pool exhausted")

	// ErrInternal indicates an unexpected fault during a search.
	ErrInternal = errors.New("pathfind: internal error")

	// ErrRetired indicates a request whose last reference was released.
	ErrRetired = errors.New("pathfind: request retired")

	// ErrNilNetwork indicates a missing network source or snapshot.
	ErrNilNetwork = errors.New("pathfind: network is nil")

	// ErrNoStart indicates a request without a resolvable start position.
	ErrNoStart = errors.New("pathfind: no valid start position")

	// ErrNoEnd indicates a request without a resolvable end position.
	ErrNoEnd = errors.New("pathfind: no valid end position")

	// ErrShutdown indicates the engine was closed.
	ErrShutdown = errors.New("pathfind: engine shut down")

	// ErrAlreadyRunning indicates a second concurrent Run on one engine.
	ErrAlreadyRunning = errors.New("pathfind: worker already running")

	// ErrBadWorkerCount indicates a pool without workers.
	ErrBadWorkerCount = errors.New("pathfind: worker count must be positive")

	// ErrBadPolicy indicates an invalid Policy.
	ErrBadPolicy = errors.New("pathfind: invalid policy")
)
