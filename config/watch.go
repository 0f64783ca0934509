// SPDX-License-Identifier: MIT
// Package: lanepath/config
//
// watch.go — live reload of policy and cost parameters.

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/katalvlaran/lanepath/cost"
	"github.com/katalvlaran/lanepath/pathfind"
	"github.com/katalvlaran/lanepath/telemetry"
)

// DebounceInterval coalesces bursts of writes from editors into one reload.
const DebounceInterval = 100 * time.Millisecond

// Tunable receives reloaded parameters. Both *pathfind.Engine and
// *pathfind.Pool satisfy it.
type Tunable interface {
	SetPolicy(pathfind.Policy) error
	SetCostParams(cost.Params) error
}

// Apply publishes the policy and cost sections of cfg to t. Engine sizing
// and observability settings only take effect on restart.
func Apply(cfg Config, t Tunable) error {
	if err := t.SetPolicy(cfg.Policy); err != nil {
		return fmt.Errorf("apply policy: %w", err)
	}
	if err := t.SetCostParams(cfg.Cost); err != nil {
		return fmt.Errorf("apply cost params: %w", err)
	}
	return nil
}

// Watch reloads path whenever it changes and passes every configuration
// that validates to onChange. Invalid files are logged and skipped. The
// parent directory is watched so that rename-on-save editors are followed.
//
// Watch blocks until ctx is cancelled and then returns nil.
func Watch(ctx context.Context, path string, logger *telemetry.Logger, onChange func(Config)) error {
	if logger == nil {
		logger = telemetry.NoopLogger()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(DebounceInterval)
			} else {
				timer.Reset(DebounceInterval)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			cfg, err := Load(abs)
			if err != nil {
				logger.WarnContext(ctx, "config reload rejected", "path", abs, "error", err)
				continue
			}
			logger.InfoContext(ctx, "config reloaded", "path", abs)
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WarnContext(ctx, "config watcher error", "error", err)
		}
	}
}
