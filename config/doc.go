// SPDX-License-Identifier: MIT
// Package: lanepath/config

// Package config loads lanepath settings from a YAML (or JSON) file and
// LANEPATH_* environment variables, and reloads the live-tunable parts.
//
// Priority is env > file > defaults. Only the policy and cost sections can
// change at runtime:
//
//	cfg, err := config.Load("lanepath.yaml")
//	pool, err := pathfind.NewPool(cfg.Engine.Workers, net, cfg.Engine.ChunkPoolCapacity, cfg.EngineOptions()...)
//	go config.Watch(ctx, "lanepath.yaml", logger, func(c config.Config) { _ = config.Apply(c, pool) })
package config
