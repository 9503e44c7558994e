// SPDX-License-Identifier: MIT

package prefs

import (
	"fmt"
	"sort"
	"strings"
)

// Matching maps each proposer to the responder it is matched with. A complete
// matching over equal populations is a bijection.
type Matching map[AgentID]AgentID

// Clone returns an independent copy.
func (m Matching) Clone() Matching {
	out := make(Matching, len(m))
	for p, r := range m {
		out[p] = r
	}

	return out
}

// Equal reports whether both matchings contain exactly the same pairs.
func (m Matching) Equal(o Matching) bool {
	if len(m) != len(o) {
		return false
	}
	for p, r := range m {
		if or, ok := o[p]; !ok || or != r {
			return false
		}
	}

	return true
}

// Pairs returns the matching as pairs sorted by proposer id.
func (m Matching) Pairs() []Pair {
	out := make([]Pair, 0, len(m))
	for p, r := range m {
		out = append(out, Pair{Proposer: p, Responder: r})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Proposer < out[j].Proposer })

	return out
}

// Inverse returns the responder → proposer map. It fails with ErrNotInjective
// if two proposers share a responder.
func (m Matching) Inverse() (map[AgentID]AgentID, error) {
	inv := make(map[AgentID]AgentID, len(m))
	for _, pr := range m.Pairs() { // sorted, so the reported clash is deterministic
		if other, dup := inv[pr.Responder]; dup {
			return nil, fmt.Errorf("%w: responder %d held by proposers %d and %d",
				ErrNotInjective, pr.Responder, other, pr.Proposer)
		}
		inv[pr.Responder] = pr.Proposer
	}

	return inv, nil
}

// FromPairs builds a Matching from a pair list; later pairs overwrite earlier
// ones for the same proposer.
func FromPairs(pairs []Pair) Matching {
	m := make(Matching, len(pairs))
	for _, pr := range pairs {
		m[pr.Proposer] = pr.Responder
	}

	return m
}

// String renders the matching in proposer order, e.g. "{0→1, 1→0, 2→2}".
func (m Matching) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, pr := range m.Pairs() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(pr.String())
	}
	sb.WriteByte('}')

	return sb.String()
}
