// SPDX-License-Identifier: MIT

// Package stability verifies matchings: it finds blocking pairs, reports
// structural defects of a candidate matching, and enumerates every stable
// matching of small instances to check optimality claims.
//
// The verifier never fails. Whatever the instance and matching look like,
// it returns a (possibly empty) diagnostic. Lists are read leniently: a
// repeated entry keeps its first rank, and ids unknown to the other side are
// simply never matched against.
package stability

import (
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/stablematch/prefs"
)

// Report is the full diagnostic of a matching against an instance.
type Report struct {
	// BlockingPairs are unmatched pairs that prefer each other to their partners.
	BlockingPairs []prefs.Pair

	// UnmatchedProposers / UnmatchedResponders are agents with no partner.
	UnmatchedProposers  []prefs.AgentID
	UnmatchedResponders []prefs.AgentID

	// UnknownProposers / UnknownResponders are ids used by the matching that
	// the instance does not define.
	UnknownProposers  []prefs.AgentID
	UnknownResponders []prefs.AgentID

	// SharedResponders are responders assigned to more than one proposer.
	SharedResponders []prefs.AgentID

	// Unacceptable are matched pairs where at least one side does not list the other.
	Unacceptable []prefs.Pair
}

// Stable reports whether no blocking pair exists.
func (r *Report) Stable() bool { return len(r.BlockingPairs) == 0 }

// Perfect reports whether the matching is a stable bijection between the
// populations with only mutually acceptable pairs.
func (r *Report) Perfect() bool {
	return r.Stable() &&
		len(r.UnmatchedProposers) == 0 && len(r.UnmatchedResponders) == 0 &&
		len(r.UnknownProposers) == 0 && len(r.UnknownResponders) == 0 &&
		len(r.SharedResponders) == 0 && len(r.Unacceptable) == 0
}

// String renders a one-line-per-finding summary.
func (r *Report) String() string {
	var sb strings.Builder
	if r.Perfect() {
		return "stable: perfect matching, no blocking pairs"
	}
	fmt.Fprintf(&sb, "stable=%t", r.Stable())
	writePairs(&sb, "blocking", r.BlockingPairs)
	writeIDs(&sb, "unmatched proposers", r.UnmatchedProposers)
	writeIDs(&sb, "unmatched responders", r.UnmatchedResponders)
	writeIDs(&sb, "unknown proposers", r.UnknownProposers)
	writeIDs(&sb, "unknown responders", r.UnknownResponders)
	writeIDs(&sb, "shared responders", r.SharedResponders)
	writePairs(&sb, "unacceptable", r.Unacceptable)

	return sb.String()
}

func writePairs(sb *strings.Builder, label string, ps []prefs.Pair) {
	if len(ps) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%s: %v", label, ps)
}

func writeIDs(sb *strings.Builder, label string, ids []prefs.AgentID) {
	if len(ids) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%s: %v", label, ids)
}

// side is the lenient view of one population.
type side struct {
	ids    []prefs.AgentID
	tables map[prefs.AgentID]prefs.RankTable
}

func newSide(agents []prefs.Agent) side {
	s := side{tables: make(map[prefs.AgentID]prefs.RankTable, len(agents))}
	for _, a := range agents {
		if _, dup := s.tables[a.ID]; dup {
			continue // first definition wins
		}
		s.tables[a.ID] = prefs.NewLenientRankTable(a.Prefs)
		s.ids = append(s.ids, a.ID)
	}
	sortIDs(s.ids)

	return s
}

// Check diagnoses m against inst.
//
// A pair (p, r) not matched to each other is blocking iff
//   - p lists r and prefers r to its partner (or has no partner), and
//   - r lists p and prefers p to its partner (or has no partner).
//
// If several proposers claim the same responder, the responder's partner is
// taken to be the one it ranks best among them.
//
// Complexity: O(P·R) lookups of O(1) each.
func Check(inst prefs.Instance, m prefs.Matching) *Report {
	var (
		props = newSide(inst.Proposers)
		resps = newSide(inst.Responders)
		rep   = &Report{}
	)

	// 1) Resolve each responder's partner and collect structural defects.
	partnerOf := make(map[prefs.AgentID]prefs.AgentID, len(m))
	claims := make(map[prefs.AgentID]int, len(m))
	for _, pr := range m.Pairs() {
		pt, pok := props.tables[pr.Proposer]
		rt, rok := resps.tables[pr.Responder]
		if !pok {
			rep.UnknownProposers = append(rep.UnknownProposers, pr.Proposer)
		}
		if !rok {
			rep.UnknownResponders = append(rep.UnknownResponders, pr.Responder)
			continue
		}
		if pok && (!pt.Acceptable(pr.Responder) || !rt.Acceptable(pr.Proposer)) {
			rep.Unacceptable = append(rep.Unacceptable, pr)
		}
		claims[pr.Responder]++
		cur, held := partnerOf[pr.Responder]
		if !held || rt.Prefers(pr.Proposer, cur) {
			partnerOf[pr.Responder] = pr.Proposer
		}
	}
	for r, n := range claims {
		if n > 1 {
			rep.SharedResponders = append(rep.SharedResponders, r)
		}
	}
	sortIDs(rep.UnknownProposers)
	sortIDs(rep.UnknownResponders)
	sortIDs(rep.SharedResponders)

	for _, p := range props.ids {
		if _, ok := m[p]; !ok {
			rep.UnmatchedProposers = append(rep.UnmatchedProposers, p)
		}
	}
	for _, r := range resps.ids {
		if _, ok := partnerOf[r]; !ok {
			rep.UnmatchedResponders = append(rep.UnmatchedResponders, r)
		}
	}

	// 2) Exhaustive blocking-pair scan.
	rep.BlockingPairs = blockingPairs(props, resps, m, partnerOf)

	return rep
}

// FindBlockingPairs returns every blocking pair of m, sorted by proposer then
// responder. An empty result means m is stable.
func FindBlockingPairs(inst prefs.Instance, m prefs.Matching) []prefs.Pair {
	return Check(inst, m).BlockingPairs
}

// IsStable reports whether m has no blocking pair in inst.
func IsStable(inst prefs.Instance, m prefs.Matching) bool {
	return len(FindBlockingPairs(inst, m)) == 0
}

func blockingPairs(props, resps side, m prefs.Matching, partnerOf map[prefs.AgentID]prefs.AgentID) []prefs.Pair {
	var (
		out      []prefs.Pair
		p, r     prefs.AgentID
		pt, rt   prefs.RankTable
		mine     prefs.AgentID
		theirs   prefs.AgentID
		hasMine  bool
		hasTheir bool
	)
	for _, p = range props.ids {
		pt = props.tables[p]
		mine, hasMine = m[p]
		for _, r = range resps.ids {
			if hasMine && mine == r {
				continue
			}
			// proposer side
			if !pt.Acceptable(r) || (hasMine && !pt.Prefers(r, mine)) {
				continue
			}
			// responder side
			rt = resps.tables[r]
			theirs, hasTheir = partnerOf[r]
			if !rt.Acceptable(p) || (hasTheir && !rt.Prefers(p, theirs)) {
				continue
			}
			out = append(out, prefs.Pair{Proposer: p, Responder: r})
		}
	}

	return out
}

func sortIDs(ids []prefs.AgentID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
