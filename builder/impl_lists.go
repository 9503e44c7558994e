// SPDX-License-Identifier: MIT
// Package: stablematch/builder
//
// impl_lists.go: FromLists(p, r): literal preference lists.
//
// Contract:
//   • Agent i of each side gets id offset+i and the i-th list.
//   • List entries are dense indices of the opposite side and are shifted by
//     that side's offset; no other validation happens here (prefs.Validate
//     owns it), so malformed fixtures can be built on purpose.
//   • Truncation applies as for the generated constructors.

package builder

import (
	"github.com/katalvlaran/stablematch/prefs"
)

// FromLists returns a Constructor for literal lists.
func FromLists(proposers, responders [][]int) Constructor {
	return func(cfg builderConfig) (prefs.Instance, error) {
		inst := prefs.Instance{
			Proposers:  make([]prefs.Agent, len(proposers)),
			Responders: make([]prefs.Agent, len(responders)),
		}
		for i, l := range proposers {
			inst.Proposers[i] = prefs.Agent{ID: cfg.proposerID(i), Prefs: cfg.cut(mapIDs(l, cfg.responderID))}
		}
		for j, l := range responders {
			inst.Responders[j] = prefs.Agent{ID: cfg.responderID(j), Prefs: cfg.cut(mapIDs(l, cfg.proposerID))}
		}

		return inst, nil
	}
}

func mapIDs(l []int, idFn func(int) prefs.AgentID) prefs.PreferenceList {
	out := make(prefs.PreferenceList, len(l))
	for k, v := range l {
		out[k] = idFn(v)
	}

	return out
}
