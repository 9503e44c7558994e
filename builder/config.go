// SPDX-License-Identifier: MIT
// Package: stablematch/builder
//
// config.go: internal configuration and deterministic defaults.
//
// Deterministic defaults:
//   • rng              = nil (pure/deterministic unless seeded)
//   • proposerOffset   = 0   (proposer ids 0..n-1)
//   • responderOffset  = 0   (responder ids 0..n-1)
//   • truncate         = 0   (complete lists)

package builder

import (
	"math/rand"

	"github.com/katalvlaran/stablematch/prefs"
)

// builderConfig aggregates all knobs used by constructors.
// It is passed by VALUE to constructors.
type builderConfig struct {
	// RNG for stochastic choices; nil means "no randomness".
	rng *rand.Rand

	// Id offsets; non-zero offsets produce sparse id spaces.
	proposerOffset  prefs.AgentID
	responderOffset prefs.AgentID

	// truncate > 0 keeps only the first truncate entries of every list.
	truncate int
}

// newBuilderConfig constructs a config with deterministic defaults and applies
// all options in order (last wins).
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// proposerID maps a dense proposer index to its id.
func (c builderConfig) proposerID(i int) prefs.AgentID {
	return c.proposerOffset + prefs.AgentID(i)
}

// responderID maps a dense responder index to its id.
func (c builderConfig) responderID(i int) prefs.AgentID {
	return c.responderOffset + prefs.AgentID(i)
}

// cut applies the truncation policy to a freshly built list.
func (c builderConfig) cut(l prefs.PreferenceList) prefs.PreferenceList {
	if c.truncate > 0 && len(l) > c.truncate {
		return l[:c.truncate]
	}

	return l
}
