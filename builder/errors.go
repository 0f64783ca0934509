// SPDX-License-Identifier: MIT
// Package: lanepath/builder
//
// errors.go — sentinel errors for the builder package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Implementations attach context with %w and their method tag:
//       fmt.Errorf("%s: n=%d < min=%d: %w", methodCorridor, n, min, ErrTooFewNodes)
//   • Validation panics are confined to option constructors (WithX...).

package builder

import "errors"

// ErrTooFewNodes indicates a node-count or dimension parameter below its minimum.
var ErrTooFewNodes = errors.New("builder: too few nodes")

// ErrTooFewLanes indicates a lane-count parameter below 1 or above the per-segment cap.
var ErrTooFewLanes = errors.New("builder: lane count out of range")

// ErrInvalidProbability indicates a probability outside [0, 1].
var ErrInvalidProbability = errors.New("builder: probability out of range")

// ErrNeedRandSource indicates a stochastic constructor ran without WithSeed/WithRand.
var ErrNeedRandSource = errors.New("builder: rng is required")

// ErrConstructFailed indicates the network rejected an element or a nil
// constructor was supplied.
var ErrConstructFailed = errors.New("builder: construction failed")
