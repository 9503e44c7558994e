// SPDX-License-Identifier: MIT

// Package gale computes stable matchings with the Gale–Shapley
// deferred-acceptance procedure, run round by round.
//
// Overview:
//
//   - Proposers propose to their best responder that has not yet rejected them.
//   - Responders hold the single best proposal seen so far and reject the rest.
//   - Holding is tentative: a held proposer is rejected as soon as a better one
//     arrives. The run ends when no proposer is unassigned.
//
// The result is the proposer-optimal stable matching: every proposer gets the
// best partner it has in any stable matching. ResponderOptimal runs the same
// procedure with the roles swapped.
//
// Round structure:
//
//	propose ─▶ barrier ─▶ respond ─▶ barrier ─▶ apply rejections ─▶ next round
//
// Within a phase agents are independent: each proposer owns its rejection set
// and cursor, each responder owns its held proposer. WithWorkers shards every
// phase across goroutines (golang.org/x/sync/errgroup); the barrier is the
// group's Wait.
//
// Embedding:
//
// The phases are also exported as pure functions over a State value, so an
// external scheduler (a dataflow engine, a simulator, a debugger) can drive
// the rounds itself:
//
//	s := gale.NewState(m)
//	for !s.Done() {
//	    props, err := gale.Propose(m, s)
//	    if err != nil { ... }
//	    s, _, err = gale.Respond(m, s, props)
//	    if err != nil { ... }
//	}
//	matching := s.Matching(m)
//
// Error handling (sentinel errors):
//
//   - ErrNoStableMatching: input that cannot yield a complete matching. The
//     concrete *NoStableMatchingError carries the proposer id and one of
//     ErrPopulationMismatch or ErrCandidatesExhausted.
//   - ErrStalled: a round made no progress, or the round cap was reached.
//   - ErrInvalidProposal: Respond was fed proposals no propose phase produces.
//   - ErrOptionViolation: invalid option values.
//   - prefs.ErrInvalidPreferenceList: malformed lists (see prefs.Validate).
//
// Complexity:
//
//   - Time:  O(n²) total proposals; at most n² rounds for n agents per side.
//   - Space: O(n²).
//
// Thread safety:
//
//   - Match and MatchMarket keep all state local to the call; concurrent calls
//     are safe, including on the same *prefs.Market (which is read-only).
package gale
