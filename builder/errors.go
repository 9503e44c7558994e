// SPDX-License-Identifier: MIT
// Package: stablematch/builder
//
// errors.go: sentinel errors for the builder package.
//
// Error policy:
//   • Only sentinel variables are exposed; branch with errors.Is.
//   • Constructors attach context with %w; sentinels carry no parameters.
//   • Constructors never panic; option constructors may (programmer error).

package builder

import "errors"

// ErrTooFewAgents indicates a negative population size.
var ErrTooFewAgents = errors.New("builder: population size too small")

// ErrNeedRandSource indicates a stochastic constructor was run without an RNG
// (WithSeed or WithRand must be supplied).
var ErrNeedRandSource = errors.New("builder: rng is required")

// ErrConstructFailed indicates an invalid constructor invocation, e.g. a nil
// Constructor passed to Build.
var ErrConstructFailed = errors.New("builder: construction failed")
