// SPDX-License-Identifier: MIT

package gale

import (
	"fmt"

	"github.com/katalvlaran/stablematch/prefs"
)

// none marks an empty slot in assigned/held.
const none = -1

// bitset is a fixed-size set of small non-negative ints.
type bitset []uint64

func newBitset(n int) bitset { return make(bitset, (n+63)>>6) }

func (b bitset) set(i int) { b[i>>6] |= 1 << (uint(i) & 63) }

func (b bitset) has(i int) bool { return b[i>>6]&(1<<(uint(i)&63)) != 0 }

func (b bitset) clone() bitset {
	out := make(bitset, len(b))
	copy(out, b)

	return out
}

// State is the per-run mutable state of every agent, as a value.
//
// Each proposer owns its rejection set and a cursor to the best responder not
// yet in that set; each responder owns the proposer it currently holds.
// No slot is shared between agents, so a phase can be sharded by agent.
type State struct {
	round    int
	next     []int    // proposer → position in its choice list of the best non-rejecting responder
	rejected []bitset // proposer → responder indices that turned it away
	assigned []int    // proposer → responder index holding it, or none
	held     []int    // responder → proposer index held, or none
}

// edge is a (proposer index, responder index) pair.
type edge struct{ p, r int }

// NewState returns the initial state for m: no rejections, nothing held.
func NewState(m *prefs.Market) State {
	np, nr := m.Proposers().Len(), m.Responders().Len()
	s := State{
		next:     make([]int, np),
		rejected: make([]bitset, np),
		assigned: make([]int, np),
		held:     make([]int, nr),
	}
	for pi := 0; pi < np; pi++ {
		s.rejected[pi] = newBitset(nr)
		s.assigned[pi] = none
	}
	for ri := 0; ri < nr; ri++ {
		s.held[ri] = none
	}

	return s
}

// Clone returns a deep copy; the copy and s share nothing.
func (s State) Clone() State {
	c := State{
		round:    s.round,
		next:     append([]int(nil), s.next...),
		rejected: make([]bitset, len(s.rejected)),
		assigned: append([]int(nil), s.assigned...),
		held:     append([]int(nil), s.held...),
	}
	for i := range s.rejected {
		c.rejected[i] = s.rejected[i].clone()
	}

	return c
}

// Round returns the number of completed propose/reject cycles.
func (s State) Round() int { return s.round }

// Done reports whether every proposer is assigned.
func (s State) Done() bool { return s.unassignedCount() == 0 }

// Unassigned returns the ids of proposers not currently held, ascending.
func (s State) Unassigned(m *prefs.Market) []prefs.AgentID {
	var out []prefs.AgentID
	for pi, ri := range s.assigned {
		if ri == none {
			out = append(out, m.Proposers().ID(pi))
		}
	}

	return out
}

// Rejected reports whether responder r has turned proposer p away.
func (s State) Rejected(m *prefs.Market, p, r prefs.AgentID) bool {
	pi, ok := m.Proposers().Index(p)
	if !ok {
		return false
	}
	ri, ok := m.Responders().Index(r)
	if !ok {
		return false
	}

	return s.rejected[pi].has(ri)
}

// Matching returns the tentative assignment held right now.
func (s State) Matching(m *prefs.Market) prefs.Matching {
	out := make(prefs.Matching, len(s.assigned))
	for pi, ri := range s.assigned {
		if ri != none {
			out[m.Proposers().ID(pi)] = m.Responders().ID(ri)
		}
	}

	return out
}

func (s State) unassignedCount() int {
	var n int
	for _, ri := range s.assigned {
		if ri == none {
			n++
		}
	}

	return n
}

// proposeRange appends the proposal of every unassigned proposer in [lo,hi).
// A proposer with no remaining candidate fails the run.
func proposeRange(m *prefs.Market, s *State, lo, hi int, out []edge) ([]edge, error) {
	var (
		pi      int
		choices []int
	)
	for pi = lo; pi < hi; pi++ {
		if s.assigned[pi] != none {
			continue
		}
		choices = m.Choices(pi)
		if s.next[pi] >= len(choices) {
			return out, &NoStableMatchingError{
				Proposer: m.Proposers().ID(pi),
				HasAgent: true,
				Reason:   ErrCandidatesExhausted,
			}
		}
		out = append(out, edge{p: pi, r: choices[s.next[pi]]})
	}

	return out, nil
}

// respondRange lets every responder in [lo,hi) keep the best of its held
// proposer and its inbox, rejecting everyone else. Unacceptable proposers are
// always rejected. Equal ranks cannot occur after validation; if they did,
// the lower proposer index would win.
//
// It writes held[ri] for its own responders and assigned[pi] only for the
// proposer each responder accepts; each proposer sits in at most one inbox,
// so concurrent ranges never touch the same slot.
func respondRange(m *prefs.Market, s *State, inbox [][]int, lo, hi int, out []edge) ([]edge, int) {
	var (
		ri, pi     int
		best, rank int
		bestRank   int
		accepted   int
	)
	for ri = lo; ri < hi; ri++ {
		if len(inbox[ri]) == 0 {
			continue
		}
		best = s.held[ri]
		bestRank = prefs.Unranked
		if best != none {
			bestRank = m.ResponderRank(ri, best)
		}
		for _, pi = range inbox[ri] {
			rank = m.ResponderRank(ri, pi)
			switch {
			case rank == prefs.Unranked:
				out = append(out, edge{p: pi, r: ri})
			case best == none || rank < bestRank || (rank == bestRank && pi < best):
				if best != none {
					out = append(out, edge{p: best, r: ri})
				}
				best, bestRank = pi, rank
			default:
				out = append(out, edge{p: pi, r: ri})
			}
		}
		if best != s.held[ri] {
			s.held[ri] = best
			s.assigned[best] = ri
			accepted++
		}
	}

	return out, accepted
}

// applyRejections records each rejection against its proposer, frees the
// proposer and moves its cursor past every responder that rejected it.
// Each proposer appears at most once per round.
func applyRejections(m *prefs.Market, s *State, rejs []edge) {
	var (
		e       edge
		choices []int
	)
	for _, e = range rejs {
		s.rejected[e.p].set(e.r)
		if s.assigned[e.p] == e.r {
			s.assigned[e.p] = none
		}
		choices = m.Choices(e.p)
		for s.next[e.p] < len(choices) && s.rejected[e.p].has(choices[s.next[e.p]]) {
			s.next[e.p]++
		}
	}
}

// Propose is the pure propose phase: it returns the proposal of every
// unassigned proposer in s, in proposer id order, without changing s.
// It fails with *NoStableMatchingError if some unassigned proposer has been
// rejected by every responder on its list.
func Propose(m *prefs.Market, s State) ([]Proposal, error) {
	edges, err := proposeRange(m, &s, 0, len(s.assigned), nil)
	if err != nil {
		return nil, err
	}
	out := make([]Proposal, len(edges))
	for i, e := range edges {
		out[i] = Proposal{Proposer: m.Proposers().ID(e.p), Responder: m.Responders().ID(e.r)}
	}

	return out, nil
}

// Respond is the pure reject phase: given the proposals of one round it
// returns the next state (rejections applied, round advanced) and the
// rejections issued. s itself is left untouched.
//
// Every proposal must come from an unassigned proposer and name its best
// responder not yet rejecting it, as Propose does. Proposers may be left out
// of a round; they keep their candidate for the next one.
func Respond(m *prefs.Market, s State, proposals []Proposal) (State, []Rejection, error) {
	next := s.Clone()
	inbox := make([][]int, len(next.held))
	seen := make(map[int]struct{}, len(proposals))
	for _, pr := range proposals {
		pi, ok := m.Proposers().Index(pr.Proposer)
		if !ok {
			return s, nil, fmt.Errorf("%w: unknown proposer %d", ErrInvalidProposal, pr.Proposer)
		}
		ri, ok := m.Responders().Index(pr.Responder)
		if !ok {
			return s, nil, fmt.Errorf("%w: unknown responder %d", ErrInvalidProposal, pr.Responder)
		}
		if next.assigned[pi] != none {
			return s, nil, fmt.Errorf("%w: proposer %d is already held", ErrInvalidProposal, pr.Proposer)
		}
		if _, dup := seen[pi]; dup {
			return s, nil, fmt.Errorf("%w: proposer %d proposed twice", ErrInvalidProposal, pr.Proposer)
		}
		if choices := m.Choices(pi); next.next[pi] >= len(choices) || choices[next.next[pi]] != ri {
			return s, nil, fmt.Errorf("%w: responder %d is not the current candidate of proposer %d",
				ErrInvalidProposal, pr.Responder, pr.Proposer)
		}
		seen[pi] = struct{}{}
		inbox[ri] = append(inbox[ri], pi)
	}

	edges, _ := respondRange(m, &next, inbox, 0, len(inbox), nil)
	applyRejections(m, &next, edges)
	next.round++

	out := make([]Rejection, len(edges))
	for i, e := range edges {
		out[i] = Rejection{Proposer: m.Proposers().ID(e.p), Responder: m.Responders().ID(e.r)}
	}

	return next, out, nil
}
