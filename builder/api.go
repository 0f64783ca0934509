// SPDX-License-Identifier: MIT
// Package: lanepath/builder
//
// api.go - public entry-point of the builder package.
//
// Design contract:
//   - One orchestrator: BuildNetwork(nopts, bopts, cons...). Creates the
//     network, resolves cfg, runs cons in order.
//   - Functional options (BuilderOption) resolve into an immutable builderConfig.
//   - Determinism: same inputs/options/seed and constructor order ⇒ identical
//     networks, including element IDs.
//   - Constructors never panic; they return sentinel errors wrapped with their
//     method tag.

package builder

import (
	"fmt"

	"github.com/katalvlaran/lanepath/network"
)

// Constructor applies a deterministic network mutation using the resolved
// builderConfig. Constructors MUST validate parameters before touching the
// network and MUST record every node and segment they create in cfg.index
// (when set) in emission order.
type Constructor func(n *network.Network, cfg builderConfig) error

// BuildNetwork creates a network with nopts, resolves the builder
// configuration from bopts and applies all constructors in order. The first
// constructor error is wrapped as "BuildNetwork: %w" and returned; the
// partially built network is discarded.
//
// Complexity: O(len(bopts)) plus the sum of constructor costs.
func BuildNetwork(nopts []network.Option, bopts []BuilderOption, cons ...Constructor) (*network.Network, error) {
	n := network.New(nopts...)
	cfg := newBuilderConfig(bopts...)

	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("BuildNetwork: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(n, cfg); err != nil {
			return nil, fmt.Errorf("BuildNetwork: %w", err)
		}
	}

	return n, nil
}

// Apply runs constructors against an existing network.
func Apply(n *network.Network, bopts []BuilderOption, cons ...Constructor) error {
	if n == nil {
		return fmt.Errorf("Apply: nil network: %w", ErrConstructFailed)
	}
	cfg := newBuilderConfig(bopts...)
	for i, fn := range cons {
		if fn == nil {
			return fmt.Errorf("Apply: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(n, cfg); err != nil {
			return fmt.Errorf("Apply: %w", err)
		}
	}

	return nil
}

// Index records the elements each constructor created, keyed by method name
// ("Corridor", "Grid", ...). Repeated constructors append to the same key.
type Index struct {
	Nodes    map[string][]network.NodeID
	Segments map[string][]network.SegmentID
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{
		Nodes:    make(map[string][]network.NodeID),
		Segments: make(map[string][]network.SegmentID),
	}
}

func (ix *Index) addNode(method string, id network.NodeID) {
	if ix != nil {
		ix.Nodes[method] = append(ix.Nodes[method], id)
	}
}

func (ix *Index) addSegment(method string, id network.SegmentID) {
	if ix != nil {
		ix.Segments[method] = append(ix.Segments[method], id)
	}
}
