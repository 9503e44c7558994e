// SPDX-License-Identifier: MIT

package gale

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/katalvlaran/stablematch/prefs"
)

// Sentinel errors for the matching engine.
var (
	// ErrNoStableMatching indicates that the input cannot produce a complete
	// matching: unequal populations, or a proposer that ran out of acceptable
	// responders. It signals malformed input, never an unstable market.
	ErrNoStableMatching = errors.New("gale: no stable matching")

	// ErrPopulationMismatch is the reason attached when the two sides differ in size.
	ErrPopulationMismatch = errors.New("gale: population sizes differ")

	// ErrCandidatesExhausted is the reason attached when a proposer has been
	// rejected by every responder on its list.
	ErrCandidatesExhausted = errors.New("gale: proposer rejected by every acceptable responder")

	// ErrStalled indicates a round made no progress, or the round cap was hit,
	// while proposers were still unassigned. It wraps ErrNoStableMatching.
	ErrStalled = fmt.Errorf("%w: engine stalled", ErrNoStableMatching)

	// ErrInvalidProposal is returned by Respond for proposals that no propose
	// phase could have produced: unknown agents, a proposer already held, a
	// proposer proposing twice in one round, or a responder other than the
	// proposer's best one not yet rejecting it (unlisted responders included).
	ErrInvalidProposal = errors.New("gale: invalid proposal")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("gale: invalid option supplied")
)

// NoStableMatchingError reports the proposer that made the run fail.
// HasAgent is false when the failure is not attributable to one agent
// (population size mismatch).
type NoStableMatchingError struct {
	Proposer prefs.AgentID
	HasAgent bool
	Reason   error
}

// Error implements error.
func (e *NoStableMatchingError) Error() string {
	if !e.HasAgent {
		return fmt.Sprintf("%v: %v", ErrNoStableMatching, e.Reason)
	}

	return fmt.Sprintf("%v: proposer %d: %v", ErrNoStableMatching, e.Proposer, e.Reason)
}

// Unwrap exposes ErrNoStableMatching and the reason sentinel.
func (e *NoStableMatchingError) Unwrap() []error {
	return []error{ErrNoStableMatching, e.Reason}
}

// Proposal is one propose-phase edge, expressed in agent ids.
type Proposal struct {
	Proposer  prefs.AgentID
	Responder prefs.AgentID
}

// Rejection is one reject-phase edge: Responder turned Proposer away.
type Rejection struct {
	Proposer  prefs.AgentID
	Responder prefs.AgentID
}

// RoundStats summarizes one propose/reject cycle.
type RoundStats struct {
	Round      int // 1-based round number
	Proposals  int // proposals submitted this round
	Rejections int // proposers turned away this round (new or previously held)
	Accepted   int // proposers that became assigned this round
	Unassigned int // proposers left unassigned after the round
}

// Result is the outcome of a successful run.
type Result struct {
	Matching   prefs.Matching
	Rounds     int
	Proposals  int
	Rejections int
}

// Option configures the engine via functional arguments.
// Invalid values are recorded and surfaced as ErrOptionViolation by Match.
type Option func(*Options)

// Options holds the engine knobs and hooks.
type Options struct {
	// Ctx is checked once per round; cancellation aborts the run.
	Ctx context.Context

	// Workers is the number of goroutines each phase is sharded across.
	// 1 runs sequentially.
	Workers int

	// MaxRounds caps the number of rounds. 0 means n²+1 for n proposers,
	// which deferred acceptance never exceeds on valid input.
	MaxRounds int

	// Logger receives per-round debug entries.
	Logger *zap.Logger

	// OnRound is called after every completed round.
	OnRound func(RoundStats)

	// OnProposal is called for every proposal, after the propose barrier.
	OnProposal func(p, r prefs.AgentID)

	// OnReject is called for every rejection, after the reject barrier.
	OnReject func(p, r prefs.AgentID)

	err error
}

// DefaultOptions returns sequential, silent, uncapped-by-default settings.
func DefaultOptions() Options {
	return Options{
		Ctx:        context.Background(),
		Workers:    1,
		MaxRounds:  0,
		Logger:     zap.NewNop(),
		OnRound:    func(RoundStats) {},
		OnProposal: func(prefs.AgentID, prefs.AgentID) {},
		OnReject:   func(prefs.AgentID, prefs.AgentID) {},
	}
}

// WithContext sets a context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithWorkers shards every phase across k goroutines.
//
//	k > 0: use k workers
//	k == 0: use runtime.GOMAXPROCS(0)
//	k < 0: invalid option → ErrOptionViolation
func WithWorkers(k int) Option {
	return func(o *Options) {
		switch {
		case k < 0:
			o.err = fmt.Errorf("%w: Workers cannot be negative (%d)", ErrOptionViolation, k)
		case k == 0:
			o.Workers = runtime.GOMAXPROCS(0)
		default:
			o.Workers = k
		}
	}
}

// WithMaxRounds overrides the round cap. r must be positive.
func WithMaxRounds(r int) Option {
	return func(o *Options) {
		if r <= 0 {
			o.err = fmt.Errorf("%w: MaxRounds must be positive (%d)", ErrOptionViolation, r)
			return
		}
		o.MaxRounds = r
	}
}

// WithLogger attaches a zap logger for per-round debug output.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithOnRound registers a callback run after each round.
func WithOnRound(fn func(RoundStats)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnRound = fn
		}
	}
}

// WithOnProposal registers a callback run for every proposal.
func WithOnProposal(fn func(p, r prefs.AgentID)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnProposal = fn
		}
	}
}

// WithOnReject registers a callback run for every rejection.
func WithOnReject(fn func(p, r prefs.AgentID)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnReject = fn
		}
	}
}
