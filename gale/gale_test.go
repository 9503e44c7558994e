package gale_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/stablematch/builder"
	"github.com/katalvlaran/stablematch/gale"
	"github.com/katalvlaran/stablematch/prefs"
	"github.com/katalvlaran/stablematch/stability"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// scenario: proposer 1 and responder 0 both get their first choice only in
// the responder-optimal matching.
func scenario() prefs.Instance {
	return builder.MustBuild(builder.FromLists(
		[][]int{{0, 1, 2}, {1, 0, 2}, {0, 1, 2}},
		[][]int{{1, 0, 2}, {0, 1, 2}, {0, 1, 2}},
	))
}

// TestMatch_Scenario checks both optimal matchings of the 3×3 scenario.
func TestMatch_Scenario(t *testing.T) {
	inst := scenario()

	m, err := gale.Match(inst)
	require.NoError(t, err)
	require.Equal(t, prefs.Matching{0: 0, 1: 1, 2: 2}, m)
	require.True(t, stability.IsStable(inst, m))

	r, err := gale.ResponderOptimal(inst)
	require.NoError(t, err)
	require.Equal(t, prefs.Matching{0: 1, 1: 0, 2: 2}, r)
	require.True(t, stability.IsStable(inst, r))
}

// TestMatchMarket_Counters checks round and edge counters on the scenario:
// proposer 2 is turned away by responders 0 and 1 before settling on 2.
func TestMatchMarket_Counters(t *testing.T) {
	mk, err := prefs.Validate(scenario())
	require.NoError(t, err)

	res, err := gale.MatchMarket(mk)
	require.NoError(t, err)
	require.Equal(t, 3, res.Rounds)
	require.Equal(t, 5, res.Proposals)
	require.Equal(t, 2, res.Rejections)
}

// TestMatch_Empty: no agents, no rounds, empty matching.
func TestMatch_Empty(t *testing.T) {
	m, err := gale.Match(prefs.Instance{})
	require.NoError(t, err)
	require.Empty(t, m)
}

// TestMatch_Errors covers every failure class of Match.
func TestMatch_Errors(t *testing.T) {
	t.Run("invalid list", func(t *testing.T) {
		inst := scenario()
		inst.Proposers[0].Prefs = prefs.PreferenceList{0, 0, 1}
		_, err := gale.Match(inst)
		require.ErrorIs(t, err, prefs.ErrInvalidPreferenceList)
		require.ErrorIs(t, err, prefs.ErrDuplicateEntry)
	})

	t.Run("empty list", func(t *testing.T) {
		inst := builder.MustBuild(builder.FromLists(
			[][]int{{0, 1}, {}},
			[][]int{{0, 1}, {0, 1}},
		))
		_, err := gale.Match(inst)
		require.ErrorIs(t, err, gale.ErrNoStableMatching)
		require.ErrorIs(t, err, gale.ErrCandidatesExhausted)

		var nsm *gale.NoStableMatchingError
		require.True(t, errors.As(err, &nsm))
		require.True(t, nsm.HasAgent)
		require.Equal(t, prefs.AgentID(1), nsm.Proposer)
	})

	t.Run("exhausted after rejection", func(t *testing.T) {
		inst := builder.MustBuild(builder.FromLists(
			[][]int{{0}, {0}},
			[][]int{{0, 1}, {0, 1}},
		))
		_, err := gale.Match(inst)
		var nsm *gale.NoStableMatchingError
		require.True(t, errors.As(err, &nsm))
		require.Equal(t, prefs.AgentID(1), nsm.Proposer)
		require.ErrorIs(t, err, gale.ErrCandidatesExhausted)
	})

	t.Run("population mismatch", func(t *testing.T) {
		inst := builder.MustBuild(builder.FromLists(
			[][]int{{0}, {0}},
			[][]int{{0, 1}},
		))
		_, err := gale.Match(inst)
		require.ErrorIs(t, err, gale.ErrNoStableMatching)
		require.ErrorIs(t, err, gale.ErrPopulationMismatch)

		var nsm *gale.NoStableMatchingError
		require.True(t, errors.As(err, &nsm))
		require.False(t, nsm.HasAgent)
	})

	t.Run("round cap", func(t *testing.T) {
		inst := builder.MustBuild(builder.Identical(5))
		_, err := gale.Match(inst, gale.WithMaxRounds(2))
		require.ErrorIs(t, err, gale.ErrStalled)
		require.ErrorIs(t, err, gale.ErrNoStableMatching)
	})

	t.Run("options", func(t *testing.T) {
		_, err := gale.Match(scenario(), gale.WithWorkers(-1))
		require.ErrorIs(t, err, gale.ErrOptionViolation)
		_, err = gale.Match(scenario(), gale.WithMaxRounds(0))
		require.ErrorIs(t, err, gale.ErrOptionViolation)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := gale.Match(scenario(), gale.WithContext(ctx))
		require.ErrorIs(t, err, context.Canceled)
	})
}

// TestMatch_UnacceptableRejected: a responder never holds a proposer it does
// not list, even when that proposer is the only one asking.
func TestMatch_UnacceptableRejected(t *testing.T) {
	inst := builder.MustBuild(builder.FromLists(
		[][]int{{0, 1}, {0, 1}},
		[][]int{{0}, {0, 1}},
	))
	var rejected []prefs.Pair
	m, err := gale.Match(inst, gale.WithOnReject(func(p, r prefs.AgentID) {
		rejected = append(rejected, prefs.Pair{Proposer: p, Responder: r})
	}))
	require.NoError(t, err)
	require.Equal(t, prefs.Matching{0: 0, 1: 1}, m)
	require.Equal(t, []prefs.Pair{{Proposer: 1, Responder: 0}}, rejected)
}

// TestMatch_Hooks checks per-round stats on the identical-lists instance,
// where exactly one proposer settles per round.
func TestMatch_Hooks(t *testing.T) {
	const n = 4
	var (
		stats      []gale.RoundStats
		proposals  int
		rejections int
	)
	inst := builder.MustBuild(builder.Identical(n))
	m, err := gale.Match(inst,
		gale.WithOnRound(func(s gale.RoundStats) { stats = append(stats, s) }),
		gale.WithOnProposal(func(_, _ prefs.AgentID) { proposals++ }),
		gale.WithOnReject(func(_, _ prefs.AgentID) { rejections++ }),
	)
	require.NoError(t, err)
	require.Equal(t, prefs.Matching{0: 0, 1: 1, 2: 2, 3: 3}, m)

	require.Len(t, stats, n)
	for i, s := range stats {
		require.Equal(t, gale.RoundStats{
			Round:      i + 1,
			Proposals:  n - i,
			Rejections: n - i - 1,
			Accepted:   1,
			Unassigned: n - i - 1,
		}, s)
	}
	require.Equal(t, n*(n+1)/2, proposals)
	require.Equal(t, n*(n-1)/2, rejections)
}

// TestMatch_Logger checks that rounds are logged at debug level.
func TestMatch_Logger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	_, err := gale.Match(scenario(), gale.WithLogger(zap.New(core)))
	require.NoError(t, err)
	require.Equal(t, 3, logs.FilterMessage("round complete").Len())
	require.Equal(t, 1, logs.FilterMessage("matching complete").Len())
}

// TestMatch_ParallelEqualsSequential: sharding never changes the outcome.
func TestMatch_ParallelEqualsSequential(t *testing.T) {
	for _, seed := range []int64{1, 2, 3} {
		inst := builder.MustBuild(builder.RandomComplete(300), builder.WithSeed(seed))
		mk, err := prefs.Validate(inst)
		require.NoError(t, err)

		seq, err := gale.MatchMarket(mk)
		require.NoError(t, err)
		par, err := gale.MatchMarket(mk, gale.WithWorkers(4))
		require.NoError(t, err)
		all, err := gale.MatchMarket(mk, gale.WithWorkers(0))
		require.NoError(t, err)

		if diff := cmp.Diff(seq, par); diff != "" {
			t.Fatalf("seed %d: workers=4 differs (-seq +par):\n%s", seed, diff)
		}
		if diff := cmp.Diff(seq, all); diff != "" {
			t.Fatalf("seed %d: workers=GOMAXPROCS differs (-seq +par):\n%s", seed, diff)
		}
		require.True(t, stability.IsStable(inst, seq.Matching))
	}
}

// TestMatch_RandomStable: every result is a stable perfect matching.
func TestMatch_RandomStable(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		inst := builder.MustBuild(builder.RandomComplete(12), builder.WithSeed(seed))
		m, err := gale.Match(inst)
		require.NoError(t, err)
		rep := stability.Check(inst, m)
		require.True(t, rep.Perfect(), "seed %d: %s", seed, rep)

		r, err := gale.ResponderOptimal(inst)
		require.NoError(t, err)
		require.True(t, stability.Check(inst, r).Perfect(), "seed %d", seed)
	}
}

// TestMatch_SparseIDs: ids far from zero map to the same structure.
func TestMatch_SparseIDs(t *testing.T) {
	dense := builder.MustBuild(builder.RandomComplete(20), builder.WithSeed(7))
	sparse := builder.MustBuild(builder.RandomComplete(20), builder.WithSeed(7),
		builder.WithIDOffset(1_000, 5_000_000))

	dm, err := gale.Match(dense)
	require.NoError(t, err)
	sm, err := gale.Match(sparse)
	require.NoError(t, err)

	require.Len(t, sm, len(dm))
	for p, r := range dm {
		require.Equal(t, r+5_000_000, sm[p+1_000])
	}
}

// TestPureSteps drives Propose/Respond by hand and compares with Match.
func TestPureSteps(t *testing.T) {
	inst := builder.MustBuild(builder.RandomComplete(10), builder.WithSeed(11))
	mk, err := prefs.Validate(inst)
	require.NoError(t, err)

	s := gale.NewState(mk)
	require.False(t, s.Done())
	require.Len(t, s.Unassigned(mk), 10)
	for !s.Done() {
		props, err := gale.Propose(mk, s)
		require.NoError(t, err)
		require.NotEmpty(t, props)

		prev := s.Clone()
		var rejs []gale.Rejection
		s, rejs, err = gale.Respond(mk, s, props)
		require.NoError(t, err)
		require.Equal(t, prev.Round()+1, s.Round())
		for _, rj := range rejs {
			require.True(t, s.Rejected(mk, rj.Proposer, rj.Responder))
			require.False(t, prev.Rejected(mk, rj.Proposer, rj.Responder), "Respond must not mutate its input")
		}
	}

	res, err := gale.MatchMarket(mk)
	require.NoError(t, err)
	require.Equal(t, res.Matching, s.Matching(mk))
	require.Equal(t, res.Rounds, s.Round())
	require.Empty(t, s.Unassigned(mk))
}

// TestRespond_Invalid feeds proposals no propose phase would produce.
func TestRespond_Invalid(t *testing.T) {
	mk, err := prefs.Validate(scenario())
	require.NoError(t, err)
	s := gale.NewState(mk)

	_, _, err = gale.Respond(mk, s, []gale.Proposal{{Proposer: 9, Responder: 0}})
	require.ErrorIs(t, err, gale.ErrInvalidProposal)

	_, _, err = gale.Respond(mk, s, []gale.Proposal{{Proposer: 0, Responder: 9}})
	require.ErrorIs(t, err, gale.ErrInvalidProposal)

	_, _, err = gale.Respond(mk, s, []gale.Proposal{
		{Proposer: 0, Responder: 0},
		{Proposer: 0, Responder: 1},
	})
	require.ErrorIs(t, err, gale.ErrInvalidProposal)

	// proposer 0 lists 0 first, so 1 is not its candidate yet
	_, _, err = gale.Respond(mk, s, []gale.Proposal{{Proposer: 0, Responder: 1}})
	require.ErrorIs(t, err, gale.ErrInvalidProposal)

	// after round 1 proposer 0 is held by responder 0
	props, err := gale.Propose(mk, s)
	require.NoError(t, err)
	s, _, err = gale.Respond(mk, s, props)
	require.NoError(t, err)
	_, _, err = gale.Respond(mk, s, []gale.Proposal{{Proposer: 0, Responder: 1}})
	require.ErrorIs(t, err, gale.ErrInvalidProposal)
}

// TestRespond_OffListSwap: a swap to responders the proposers never listed
// is refused instead of producing a blocking, unacceptable matching.
func TestRespond_OffListSwap(t *testing.T) {
	inst := builder.MustBuild(builder.FromLists(
		[][]int{{0}, {1}},
		[][]int{{0, 1}, {0, 1}},
	))
	mk, err := prefs.Validate(inst)
	require.NoError(t, err)
	s := gale.NewState(mk)

	next, rejs, err := gale.Respond(mk, s, []gale.Proposal{
		{Proposer: 0, Responder: 1},
		{Proposer: 1, Responder: 0},
	})
	require.ErrorIs(t, err, gale.ErrInvalidProposal)
	require.Nil(t, rejs)
	require.Equal(t, s, next, "state unchanged on error")
	require.False(t, s.Done())

	props, err := gale.Propose(mk, s)
	require.NoError(t, err)
	s, _, err = gale.Respond(mk, s, props)
	require.NoError(t, err)
	require.True(t, s.Done())
	require.Equal(t, prefs.Matching{0: 0, 1: 1}, s.Matching(mk))
}

// TestRespond_HeldReconsidered: a held proposer loses its slot to a better one
// arriving later, and becomes unassigned again.
func TestRespond_HeldReconsidered(t *testing.T) {
	inst := builder.MustBuild(builder.FromLists(
		[][]int{{0, 1}, {0, 1}},
		[][]int{{1, 0}, {0, 1}},
	))
	mk, err := prefs.Validate(inst)
	require.NoError(t, err)

	// round 1: only proposer 0 proposes (to 0) and is held
	s := gale.NewState(mk)
	s, rejs, err := gale.Respond(mk, s, []gale.Proposal{{Proposer: 0, Responder: 0}})
	require.NoError(t, err)
	require.Empty(t, rejs)
	require.Equal(t, prefs.Matching{0: 0}, s.Matching(mk))

	// round 2: proposer 1 proposes to 0, which prefers it to the held 0
	s, rejs, err = gale.Respond(mk, s, []gale.Proposal{{Proposer: 1, Responder: 0}})
	require.NoError(t, err)
	require.Equal(t, []gale.Rejection{{Proposer: 0, Responder: 0}}, rejs)
	require.Equal(t, prefs.Matching{1: 0}, s.Matching(mk))
	require.Equal(t, []prefs.AgentID{0}, s.Unassigned(mk))

	props, err := gale.Propose(mk, s)
	require.NoError(t, err)
	require.Equal(t, []gale.Proposal{{Proposer: 0, Responder: 1}}, props)
}
