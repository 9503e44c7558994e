// SPDX-License-Identifier: MIT

// Package relational computes the same stable matching as package gale, but
// expresses each round as relational operators over a shrinking collection of
// candidate edges instead of per-agent state.
//
// The collection starts as every edge a proposer lists, carrying both ranks;
// the responder rank is prefs.Unranked where the responder does not list the
// proposer. Each iteration:
//
//	proposals = reduce(active,    by proposer, keep min proposer rank)
//	accepted  = reduce(acceptable proposals, by responder, keep min responder rank)
//	active    = active − (proposals − accepted)
//
// until no proposal is rejected. At the fixpoint accepted is the
// proposer-optimal stable matching. Proposers that are already held simply
// re-propose to the same responder, so "held + new proposals" falls out of the
// reduce with no explicit held state. Iteration k performs exactly round k of
// package gale, and a proposer left without a proposal at the start of an
// iteration is reported the same way gale reports it.
//
// This is the shape a streaming/dataflow runtime would execute; here it is
// run to the fixpoint in memory.
package relational

import (
	"context"
	"sort"

	"github.com/katalvlaran/stablematch/gale"
	"github.com/katalvlaran/stablematch/prefs"
)

// Edge is one candidate pair with both sides' ranks (lower is better).
type Edge struct {
	Proposer  prefs.AgentID
	Responder prefs.AgentID
	PRank     int
	RRank     int
}

func (e Edge) pair() prefs.Pair { return prefs.Pair{Proposer: e.Proposer, Responder: e.Responder} }

// Result is the outcome of a relational run.
type Result struct {
	Matching   prefs.Matching
	Iterations int
}

// Active joins both preference relations of a validated market into the set
// of edges proposers list, sorted by (proposer, responder). RRank is
// prefs.Unranked where the responder does not list the proposer.
func Active(m *prefs.Market) []Edge {
	var (
		out    []Edge
		pi, ri int
		prank  int
	)
	props, resps := m.Proposers(), m.Responders()
	for pi = 0; pi < props.Len(); pi++ {
		for prank, ri = range m.Choices(pi) {
			out = append(out, Edge{
				Proposer:  props.ID(pi),
				Responder: resps.ID(ri),
				PRank:     prank,
				RRank:     m.ResponderRank(ri, pi),
			})
		}
	}
	sortEdges(out)

	return out
}

// Match validates inst and runs the relational fixpoint. Errors mirror
// gale.Match: invalid lists, *gale.NoStableMatchingError naming the same
// proposer gale would, or ctx.Err().
func Match(ctx context.Context, inst prefs.Instance) (*Result, error) {
	m, err := prefs.Validate(inst)
	if err != nil {
		return nil, err
	}
	if m.Proposers().Len() != m.Responders().Len() {
		return nil, &gale.NoStableMatchingError{Reason: gale.ErrPopulationMismatch}
	}

	var (
		ids       = m.Proposers().IDs()
		active    = Active(m)
		proposals []Edge
		accepted  []Edge
		rejected  []Edge
		iter      int
	)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		iter++

		proposals = ReduceMin(active, byProposer, func(e Edge) int { return e.PRank })
		if p, ok := firstMissing(ids, proposals); ok {
			return nil, &gale.NoStableMatchingError{Proposer: p, HasAgent: true, Reason: gale.ErrCandidatesExhausted}
		}
		accepted = ReduceMin(Acceptable(proposals), byResponder, func(e Edge) int { return e.RRank })
		rejected = Subtract(proposals, accepted)
		if len(rejected) == 0 {
			break
		}
		active = Subtract(active, rejected)
	}

	matched := make(prefs.Matching, len(accepted))
	for _, e := range accepted {
		matched[e.Proposer] = e.Responder
	}

	return &Result{Matching: matched, Iterations: iter}, nil
}

// firstMissing returns the lowest id with no edge in es. Both are sorted by
// proposer and es holds at most one edge per proposer.
func firstMissing(ids []prefs.AgentID, es []Edge) (prefs.AgentID, bool) {
	for i, id := range ids {
		if i >= len(es) || es[i].Proposer != id {
			return id, true
		}
	}

	return 0, false
}

func byProposer(e Edge) prefs.AgentID  { return e.Proposer }
func byResponder(e Edge) prefs.AgentID { return e.Responder }

// ReduceMin groups edges by key and keeps, per group, the edge with the
// smallest rank (ties: first in input order). Output is sorted by
// (proposer, responder).
func ReduceMin[K comparable](edges []Edge, key func(Edge) K, rank func(Edge) int) []Edge {
	best := make(map[K]Edge, len(edges))
	for _, e := range edges {
		k := key(e)
		if cur, ok := best[k]; !ok || rank(e) < rank(cur) {
			best[k] = e
		}
	}
	out := make([]Edge, 0, len(best))
	for _, e := range best {
		out = append(out, e)
	}
	sortEdges(out)

	return out
}

// Acceptable keeps the edges whose responder lists the proposer.
func Acceptable(edges []Edge) []Edge {
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if e.RRank != prefs.Unranked {
			out = append(out, e)
		}
	}

	return out
}

// Subtract is the antijoin a − b on (proposer, responder), preserving a's order.
func Subtract(a, b []Edge) []Edge {
	drop := make(map[prefs.Pair]struct{}, len(b))
	for _, e := range b {
		drop[e.pair()] = struct{}{}
	}
	out := make([]Edge, 0, len(a))
	for _, e := range a {
		if _, ok := drop[e.pair()]; !ok {
			out = append(out, e)
		}
	}

	return out
}

func sortEdges(es []Edge) {
	sort.Slice(es, func(i, j int) bool {
		if es[i].Proposer != es[j].Proposer {
			return es[i].Proposer < es[j].Proposer
		}
		return es[i].Responder < es[j].Responder
	})
}
