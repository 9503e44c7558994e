// SPDX-License-Identifier: MIT
// Package: stablematch/builder
//
// impl_latin.go: Latin(n): cyclic (Latin-square) preference lists.
//
// Contract:
//   • n ≥ 0 (else ErrTooFewAgents).
//   • Proposer i ranks responders i, i+1, …, i-1 (mod n).
//   • Responder j ranks proposers j+1, j+2, …, j (mod n).
//   • Every proposer gets its first choice in the proposer-optimal matching
//     (i → i) and every responder gets its first choice in the
//     responder-optimal one (j+1 → j); for n ≥ 2 the two differ.
//
// Complexity: O(n²) time and space.

package builder

import (
	"fmt"

	"github.com/katalvlaran/stablematch/prefs"
)

const methodLatin = "Latin"

// Latin returns a Constructor for the cyclic instance.
func Latin(n int) Constructor {
	return func(cfg builderConfig) (prefs.Instance, error) {
		if n < 0 {
			return prefs.Instance{}, fmt.Errorf("%s: n=%d: %w", methodLatin, n, ErrTooFewAgents)
		}

		inst := prefs.Instance{
			Proposers:  make([]prefs.Agent, n),
			Responders: make([]prefs.Agent, n),
		}
		for i := 0; i < n; i++ {
			inst.Proposers[i] = prefs.Agent{ID: cfg.proposerID(i), Prefs: cfg.cut(rotatedIDs(n, i, cfg.responderID))}
			inst.Responders[i] = prefs.Agent{ID: cfg.responderID(i), Prefs: cfg.cut(rotatedIDs(n, i+1, cfg.proposerID))}
		}

		return inst, nil
	}
}
