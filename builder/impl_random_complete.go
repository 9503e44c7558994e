// SPDX-License-Identifier: MIT
// Package: stablematch/builder
//
// impl_random_complete.go: RandomComplete(n): uniformly shuffled complete lists.
//
// Contract:
//   • n ≥ 0 (else ErrTooFewAgents); n == 0 yields an empty instance.
//   • cfg.rng must be non-nil (else ErrNeedRandSource).
//   • Proposer lists are drawn first (proposer 0..n-1), then responder lists,
//     each by one Fisher–Yates shuffle of the ascending opposite ids.
//
// Complexity: O(n²) time and space.

package builder

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/stablematch/prefs"
)

const methodRandomComplete = "RandomComplete"

// RandomComplete returns a Constructor for n×n random complete preferences.
func RandomComplete(n int) Constructor {
	return func(cfg builderConfig) (prefs.Instance, error) {
		if n < 0 {
			return prefs.Instance{}, fmt.Errorf("%s: n=%d: %w", methodRandomComplete, n, ErrTooFewAgents)
		}
		if cfg.rng == nil {
			return prefs.Instance{}, fmt.Errorf("%s: %w", methodRandomComplete, ErrNeedRandSource)
		}

		inst := prefs.Instance{
			Proposers:  make([]prefs.Agent, n),
			Responders: make([]prefs.Agent, n),
		}
		for i := 0; i < n; i++ {
			inst.Proposers[i] = prefs.Agent{
				ID:    cfg.proposerID(i),
				Prefs: cfg.cut(shuffledIDs(n, cfg.responderID, cfg.rng)),
			}
		}
		for j := 0; j < n; j++ {
			inst.Responders[j] = prefs.Agent{
				ID:    cfg.responderID(j),
				Prefs: cfg.cut(shuffledIDs(n, cfg.proposerID, cfg.rng)),
			}
		}

		return inst, nil
	}
}

// shuffledIDs returns idFn(0..n-1) in a Fisher–Yates shuffled order.
func shuffledIDs(n int, idFn func(int) prefs.AgentID, rng *rand.Rand) prefs.PreferenceList {
	l := make(prefs.PreferenceList, n)
	var i, j int
	for i = 0; i < n; i++ {
		l[i] = idFn(i)
	}
	for i = n - 1; i > 0; i-- {
		j = rng.Intn(i + 1)
		l[i], l[j] = l[j], l[i]
	}

	return l
}
