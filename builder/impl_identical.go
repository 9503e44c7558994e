// SPDX-License-Identifier: MIT
// Package: stablematch/builder
//
// impl_identical.go: Identical(n): every agent shares one ascending list.
//
// Contract:
//   • n ≥ 0 (else ErrTooFewAgents).
//   • Every proposer ranks responders by ascending id; every responder ranks
//     proposers by ascending id. The unique stable matching is i → i, and
//     deferred acceptance needs n rounds to reach it.
//
// Complexity: O(n²) time and space.

package builder

import (
	"fmt"

	"github.com/katalvlaran/stablematch/prefs"
)

const methodIdentical = "Identical"

// Identical returns a Constructor for the all-agents-agree instance.
func Identical(n int) Constructor {
	return func(cfg builderConfig) (prefs.Instance, error) {
		if n < 0 {
			return prefs.Instance{}, fmt.Errorf("%s: n=%d: %w", methodIdentical, n, ErrTooFewAgents)
		}

		inst := prefs.Instance{
			Proposers:  make([]prefs.Agent, n),
			Responders: make([]prefs.Agent, n),
		}
		for i := 0; i < n; i++ {
			inst.Proposers[i] = prefs.Agent{ID: cfg.proposerID(i), Prefs: cfg.cut(rotatedIDs(n, 0, cfg.responderID))}
			inst.Responders[i] = prefs.Agent{ID: cfg.responderID(i), Prefs: cfg.cut(rotatedIDs(n, 0, cfg.proposerID))}
		}

		return inst, nil
	}
}

// rotatedIDs returns idFn(start), idFn(start+1), … cyclically over n indices.
func rotatedIDs(n, start int, idFn func(int) prefs.AgentID) prefs.PreferenceList {
	l := make(prefs.PreferenceList, n)
	for k := 0; k < n; k++ {
		l[k] = idFn((start + k) % n)
	}

	return l
}
