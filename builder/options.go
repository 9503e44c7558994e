// SPDX-License-Identifier: MIT
// Package: stablematch/builder
//
// options.go: functional options for the builder package.
//
// Contract:
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//     Constructors themselves MUST NOT panic.
//   • Determinism is explicit: seeding is done via WithSeed or WithRand.

package builder

import (
	"math/rand"

	"github.com/katalvlaran/stablematch/prefs"
)

// BuilderOption customizes a builderConfig before construction begins.
type BuilderOption func(*builderConfig)

// WithRand provides an explicit RNG for stochastic constructors.
// Panics on nil; prefer WithSeed for reproducible runs.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *builderConfig) {
		c.rng = r
	}
}

// WithSeed creates a new *rand.Rand with the given seed (deterministic).
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithIDOffset shifts proposer ids to start at p and responder ids at r.
// Use it to exercise sparse or non-zero-based id spaces.
func WithIDOffset(p, r prefs.AgentID) BuilderOption {
	return func(c *builderConfig) {
		c.proposerOffset = p
		c.responderOffset = r
	}
}

// WithTruncate keeps only the first k entries of every list, producing
// incomplete preferences. Panics on k < 1.
func WithTruncate(k int) BuilderOption {
	if k < 1 {
		panic("builder: WithTruncate(k<1)")
	}
	return func(c *builderConfig) {
		c.truncate = k
	}
}
