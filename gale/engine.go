// SPDX-License-Identifier: MIT

package gale

import (
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/stablematch/prefs"
)

// minShard is the smallest number of agents worth handing to a worker.
const minShard = 64

// Match validates inst and computes its proposer-optimal stable matching.
//
// Returns:
//
//   - *prefs.InvalidPreferenceListError (matches prefs.ErrInvalidPreferenceList)
//     for duplicate agents, unknown ids or repeated entries;
//   - *NoStableMatchingError (matches ErrNoStableMatching) for unequal
//     populations or a proposer rejected by all acceptable responders;
//   - ErrOptionViolation for bad options, or the context error on cancellation.
func Match(inst prefs.Instance, opts ...Option) (prefs.Matching, error) {
	m, err := prefs.Validate(inst)
	if err != nil {
		return nil, err
	}
	res, err := MatchMarket(m, opts...)
	if err != nil {
		return nil, err
	}

	return res.Matching, nil
}

// ResponderOptimal computes the responder-optimal stable matching of inst by
// letting responders propose, then maps the result back to proposer → responder.
func ResponderOptimal(inst prefs.Instance, opts ...Option) (prefs.Matching, error) {
	m, err := Match(prefs.Swap(inst), opts...)
	if err != nil {
		return nil, err
	}

	return prefs.Transpose(m), nil
}

// MatchMarket runs deferred acceptance on an already validated market.
//
// Each round:
//  1. every unassigned proposer proposes to its best responder that has not
//     rejected it (propose phase, sharded by proposer);
//  2. every responder keeps the best of its held proposer and the new
//     proposals and rejects the rest (reject phase, sharded by responder);
//  3. rejections are recorded and the rejected proposers become unassigned.
//
// Phases are separated by barriers; no phase reads state another worker of
// the same phase writes.
//
// Complexity:
//
//   - Time:  O(n²) proposals in total, O(n) bookkeeping per round.
//   - Space: O(n²) for the market plus n²/64 words of rejection bitsets.
func MatchMarket(m *prefs.Market, opts ...Option) (*Result, error) {
	// 1) Build options and catch any invalid ones immediately.
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	// 2) Equal populations are required for a complete matching.
	np, nr := m.Proposers().Len(), m.Responders().Len()
	if np != nr {
		return nil, &NoStableMatchingError{Reason: ErrPopulationMismatch}
	}
	if o.MaxRounds == 0 {
		o.MaxRounds = np*np + 1
	}

	// 3) Fresh per-run state; nothing survives the call.
	r := &runner{
		m:     m,
		opts:  o,
		log:   o.Logger.With(zap.Int("proposers", np)),
		state: NewState(m),
		inbox: make([][]int, nr),
		res:   &Result{},
	}
	if err := r.loop(); err != nil {
		r.log.Debug("matching failed", zap.Int("round", r.state.round), zap.Error(err))
		return nil, err
	}
	r.res.Matching = r.state.Matching(m)
	r.res.Rounds = r.state.round
	r.log.Debug("matching complete",
		zap.Int("rounds", r.res.Rounds),
		zap.Int("proposals", r.res.Proposals),
		zap.Int("rejections", r.res.Rejections))

	return r.res, nil
}

// runner holds the mutable state of one engine run.
type runner struct {
	m     *prefs.Market
	opts  Options
	log   *zap.Logger
	state State
	inbox [][]int // responder → proposer indices proposing this round
	res   *Result
}

// loop runs rounds until every proposer is held or the run fails.
func (r *runner) loop() error {
	var (
		unassigned int
		props      []edge
		rejs       []edge
		accepted   int
		err        error
	)
	unassigned = r.state.unassignedCount()
	for unassigned > 0 {
		// cancellation check (once per round)
		select {
		case <-r.opts.Ctx.Done():
			return r.opts.Ctx.Err()
		default:
		}
		if r.state.round >= r.opts.MaxRounds {
			return ErrStalled
		}

		// propose → barrier → respond → barrier → apply
		if props, err = r.propose(); err != nil {
			return err
		}
		r.deliver(props)
		if rejs, accepted, err = r.respond(); err != nil {
			return err
		}
		r.apply(rejs)
		r.state.round++

		unassigned = r.state.unassignedCount()
		r.res.Proposals += len(props)
		r.res.Rejections += len(rejs)
		stats := RoundStats{
			Round:      r.state.round,
			Proposals:  len(props),
			Rejections: len(rejs),
			Accepted:   accepted,
			Unassigned: unassigned,
		}
		r.log.Debug("round complete",
			zap.Int("round", stats.Round),
			zap.Int("proposals", stats.Proposals),
			zap.Int("rejections", stats.Rejections),
			zap.Int("accepted", stats.Accepted),
			zap.Int("unassigned", stats.Unassigned))
		r.opts.OnRound(stats)

		if len(rejs) == 0 && accepted == 0 && unassigned > 0 {
			return ErrStalled
		}
	}

	return nil
}

// propose collects the proposals of all unassigned proposers. With several
// workers each one scans a contiguous proposer range; the lowest failing
// proposer is reported so that errors do not depend on scheduling.
func (r *runner) propose() ([]edge, error) {
	np := len(r.state.assigned)
	parts := make([][]edge, r.workersFor(np))
	errs := make([]error, len(parts))
	_ = r.shard(np, len(parts), func(w, lo, hi int) error {
		parts[w], errs[w] = proposeRange(r.m, &r.state, lo, hi, nil)
		return errs[w]
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	out := concat(parts)
	for _, e := range out {
		r.opts.OnProposal(r.m.Proposers().ID(e.p), r.m.Responders().ID(e.r))
	}

	return out, nil
}

// deliver resets every inbox and files this round's proposals.
func (r *runner) deliver(props []edge) {
	for ri := range r.inbox {
		r.inbox[ri] = r.inbox[ri][:0]
	}
	for _, e := range props {
		r.inbox[e.r] = append(r.inbox[e.r], e.p)
	}
}

// respond runs the reject phase sharded by responder.
func (r *runner) respond() ([]edge, int, error) {
	nr := len(r.state.held)
	parts := make([][]edge, r.workersFor(nr))
	counts := make([]int, len(parts))
	err := r.shard(nr, len(parts), func(w, lo, hi int) error {
		parts[w], counts[w] = respondRange(r.m, &r.state, r.inbox, lo, hi, nil)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	var accepted int
	for _, c := range counts {
		accepted += c
	}

	return concat(parts), accepted, nil
}

// apply records rejections; each proposer appears at most once, so the
// rejection list can be split across workers.
func (r *runner) apply(rejs []edge) {
	k := r.workersFor(len(rejs))
	_ = r.shard(len(rejs), k, func(_, lo, hi int) error {
		applyRejections(r.m, &r.state, rejs[lo:hi])
		return nil
	})
	for _, e := range rejs {
		r.opts.OnReject(r.m.Proposers().ID(e.p), r.m.Responders().ID(e.r))
	}
}

// workersFor returns how many shards n agents are split into.
func (r *runner) workersFor(n int) int {
	k := r.opts.Workers
	if k <= 1 || n < 2*minShard {
		return 1
	}
	if limit := n / minShard; k > limit {
		k = limit
	}

	return k
}

// shard runs fn over k contiguous ranges of [0,n) and waits for all of them.
// k == 1 runs inline without spawning goroutines.
func (r *runner) shard(n, k int, fn func(w, lo, hi int) error) error {
	if k <= 1 {
		return fn(0, 0, n)
	}
	var g errgroup.Group
	step := (n + k - 1) / k
	for w := 0; w < k; w++ {
		lo, hi := w*step, (w+1)*step
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		g.Go(func() error { return fn(w, lo, hi) })
	}

	return g.Wait()
}

func concat(parts [][]edge) []edge {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make([]edge, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}
