// SPDX-License-Identifier: MIT
// Package: stablematch/builder
//
// api.go: public entry-point for the builder package.
//
// Design contract:
//   - One orchestrator: Build(cons, opts...). Resolves cfg, runs cons.
//   - Factories are declared in impl_*.go.
//   - Determinism: same inputs/options/seed ⇒ identical instances.

package builder

import (
	"fmt"

	"github.com/katalvlaran/stablematch/prefs"
)

// Constructor produces an instance from the resolved builderConfig.
// Constructors validate parameters early and return sentinel errors.
type Constructor func(cfg builderConfig) (prefs.Instance, error)

// Build resolves opts into a builderConfig and runs cons.
// Constructor errors are wrapped with "Build: %w".
func Build(cons Constructor, opts ...BuilderOption) (prefs.Instance, error) {
	if cons == nil {
		return prefs.Instance{}, fmt.Errorf("Build: nil constructor: %w", ErrConstructFailed)
	}
	cfg := newBuilderConfig(opts...)
	inst, err := cons(cfg)
	if err != nil {
		return prefs.Instance{}, fmt.Errorf("Build: %w", err)
	}

	return inst, nil
}

// MustBuild is Build for fixtures: it panics on error.
func MustBuild(cons Constructor, opts ...BuilderOption) prefs.Instance {
	inst, err := Build(cons, opts...)
	if err != nil {
		panic(err)
	}

	return inst
}
