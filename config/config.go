// SPDX-License-Identifier: MIT
// Package: lanepath/config
//
// config.go — engine configuration: defaults, file, environment, validation.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lanepath/bucketqueue"
	"github.com/katalvlaran/lanepath/cost"
	"github.com/katalvlaran/lanepath/pathfind"
	"github.com/katalvlaran/lanepath/telemetry"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LANEPATH_"

// Log formats accepted by ObservabilityConfig.LogFormat.
const (
	LogFormatAuto = "auto"
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// ErrInvalid indicates a configuration that failed validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the full lanepath configuration.
//
// Thread Safety: safe to read concurrently; treat as immutable once loaded.
type Config struct {
	Engine        EngineConfig        `json:"engine" yaml:"engine"`
	Policy        pathfind.Policy     `json:"policy" yaml:"policy"`
	Cost          cost.Params         `json:"cost" yaml:"cost"`
	Observability ObservabilityConfig `json:"observability" yaml:"observability"`
}

// EngineConfig sizes the engine pool.
type EngineConfig struct {
	Name              string `json:"name" yaml:"name"`
	Workers           int    `json:"workers" yaml:"workers"`
	ChunkPoolCapacity int    `json:"chunk_pool_capacity" yaml:"chunk_pool_capacity"`
	Buckets           int    `json:"buckets" yaml:"buckets"`
	SlotsPerBucket    int    `json:"slots_per_bucket" yaml:"slots_per_bucket"`
	MaxLanes          int    `json:"max_lanes" yaml:"max_lanes"`
	Seed              uint64 `json:"seed" yaml:"seed"`
}

// ObservabilityConfig selects logging, tracing and metrics output.
type ObservabilityConfig struct {
	LogLevel       string `json:"log_level" yaml:"log_level"`
	LogFormat      string `json:"log_format" yaml:"log_format"`
	TracingEnabled bool   `json:"tracing_enabled" yaml:"tracing_enabled"`
	MetricsAddr    string `json:"metrics_addr" yaml:"metrics_addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			Name:              "lanepath",
			Workers:           2,
			ChunkPoolCapacity: pathfind.DefaultChunkPoolCapacity,
			Buckets:           bucketqueue.DefaultLayout.Buckets,
			SlotsPerBucket:    bucketqueue.DefaultLayout.SlotsPerBucket,
			MaxLanes:          bucketqueue.DefaultLayout.MaxLanes,
			Seed:              1,
		},
		Policy: pathfind.DefaultPolicy(),
		Cost:   cost.DefaultParams(),
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: LogFormatAuto,
		},
	}
}

// Load builds a configuration with priority env > file > defaults. A
// missing file is not an error; an unparsable one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}
	loadEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	// YAML first, then JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

func loadEnv(cfg *Config) {
	envInt("WORKERS", &cfg.Engine.Workers)
	envInt("CHUNK_POOL_CAPACITY", &cfg.Engine.ChunkPoolCapacity)
	envInt("MAX_LANES", &cfg.Engine.MaxLanes)
	if v := os.Getenv(EnvPrefix + "SEED"); v != "" {
		if u, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Engine.Seed = u
		}
	}

	envBool("STRICT_LANE_ARROWS", &cfg.Policy.StrictLaneArrows)
	envBool("HIGHWAY_RULES", &cfg.Policy.HighwayRules)
	envBool("RAMP_PENALTY", &cfg.Policy.RampPenalty)
	envBool("RANDOMIZATION", &cfg.Policy.Randomization)
	envBool("UTURN_FALLBACK", &cfg.Policy.AllowUTurnFallback)
	envFloat("COST_MULTIPLIER", &cfg.Policy.CostMultiplier)
	envFloat("DEFAULT_MAX_LENGTH", &cfg.Policy.DefaultMaxLength)

	envFloat("JITTER_MAX", &cfg.Cost.JitterMax)
	envFloat("PEDESTRIAN_MAX_DISTANCE", &cfg.Cost.PedestrianMaxDistance)

	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
	envBool("TRACING_ENABLED", &cfg.Observability.TracingEnabled)
	if v := os.Getenv(EnvPrefix + "METRICS_ADDR"); v != "" {
		cfg.Observability.MetricsAddr = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*dst = i
		}
	}
}

func envFloat(key string, dst *float32) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			*dst = float32(f)
		}
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		*dst = v == "true" || v == "1"
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if c.Engine.Name == "" {
		return fmt.Errorf("%w: engine.name is empty", ErrInvalid)
	}
	if c.Engine.Workers < 1 {
		return fmt.Errorf("%w: engine.workers must be >= 1", ErrInvalid)
	}
	if c.Engine.ChunkPoolCapacity < 1 {
		return fmt.Errorf("%w: engine.chunk_pool_capacity must be >= 1", ErrInvalid)
	}
	if err := c.Layout().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := c.Policy.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := c.Cost.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := telemetry.ParseLevel(c.Observability.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	switch c.Observability.LogFormat {
	case LogFormatAuto, LogFormatJSON, LogFormatText:
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalid, c.Observability.LogFormat)
	}
	return nil
}

// Layout returns the bucket-queue arena dimensions.
func (c Config) Layout() bucketqueue.Layout {
	return bucketqueue.Layout{
		Buckets:        c.Engine.Buckets,
		SlotsPerBucket: c.Engine.SlotsPerBucket,
		MaxLanes:       c.Engine.MaxLanes,
	}
}

// EngineOptions converts a validated configuration into engine options.
// The option constructors panic on values Validate rejects.
func (c Config) EngineOptions() []pathfind.Option {
	return []pathfind.Option{
		pathfind.WithName(c.Engine.Name),
		pathfind.WithLayout(c.Layout()),
		pathfind.WithPolicy(c.Policy),
		pathfind.WithCostParams(c.Cost),
		pathfind.WithSeed(c.Engine.Seed),
	}
}
