package stability_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/stablematch/builder"
	"github.com/katalvlaran/stablematch/gale"
	"github.com/katalvlaran/stablematch/prefs"
	"github.com/katalvlaran/stablematch/stability"
)

// CheckSuite exercises the blocking-pair verifier and its diagnostics.
type CheckSuite struct {
	suite.Suite
	inst prefs.Instance
}

func TestCheckSuite(t *testing.T) {
	suite.Run(t, new(CheckSuite))
}

// SetupTest builds the 3×3 scenario market.
func (s *CheckSuite) SetupTest() {
	s.inst = builder.MustBuild(builder.FromLists(
		[][]int{{0, 1, 2}, {1, 0, 2}, {0, 1, 2}},
		[][]int{{1, 0, 2}, {0, 1, 2}, {0, 1, 2}},
	))
}

// TestStableMatchings: both optimal matchings have no blocking pair.
func (s *CheckSuite) TestStableMatchings() {
	for _, m := range []prefs.Matching{
		{0: 1, 1: 0, 2: 2},
		{0: 0, 1: 1, 2: 2},
	} {
		rep := stability.Check(s.inst, m)
		require.True(s.T(), rep.Stable(), "%v: %s", m, rep)
		require.True(s.T(), rep.Perfect())
		require.Empty(s.T(), stability.FindBlockingPairs(s.inst, m))
		require.Equal(s.T(), "stable: perfect matching, no blocking pairs", rep.String())
	}
}

// TestBlockingPairs: 0→2, 1→1, 2→0 leaves proposer 0 and responder 0 wanting
// each other, and proposer 0 and responder 1 as well.
func (s *CheckSuite) TestBlockingPairs() {
	m := prefs.Matching{0: 2, 1: 1, 2: 0}
	got := stability.FindBlockingPairs(s.inst, m)
	require.Equal(s.T(), []prefs.Pair{
		{Proposer: 0, Responder: 0},
		{Proposer: 0, Responder: 1},
	}, got)
	require.False(s.T(), stability.IsStable(s.inst, m))

	rep := stability.Check(s.inst, m)
	require.False(s.T(), rep.Perfect())
	require.Contains(s.T(), rep.String(), "blocking: [0→0 0→1]")
}

// TestIdempotent: verification is a pure function of its inputs.
func (s *CheckSuite) TestIdempotent() {
	m := prefs.Matching{0: 2, 1: 1}
	first := stability.Check(s.inst, m)
	second := stability.Check(s.inst, m)
	require.Equal(s.T(), first, second)
	require.Equal(s.T(), prefs.Matching{0: 2, 1: 1}, m, "input untouched")
}

// TestPartialMatching: absent agents count as unmatched, never as errors.
func (s *CheckSuite) TestPartialMatching() {
	rep := stability.Check(s.inst, prefs.Matching{0: 1})
	require.Equal(s.T(), []prefs.AgentID{1, 2}, rep.UnmatchedProposers)
	require.Equal(s.T(), []prefs.AgentID{0, 2}, rep.UnmatchedResponders)
	// 1 and 0 are both free and list each other first
	require.Contains(s.T(), rep.BlockingPairs, prefs.Pair{Proposer: 1, Responder: 0})

	empty := stability.Check(s.inst, nil)
	require.Len(s.T(), empty.UnmatchedProposers, 3)
	require.Len(s.T(), empty.BlockingPairs, 9, "every pair blocks when nobody is matched")
}

// TestStructuralDefects: unknown ids, shared responders, unacceptable pairs.
func (s *CheckSuite) TestStructuralDefects() {
	rep := stability.Check(s.inst, prefs.Matching{0: 0, 1: 0, 2: 7, 9: 2})
	require.Equal(s.T(), []prefs.AgentID{9}, rep.UnknownProposers)
	require.Equal(s.T(), []prefs.AgentID{7}, rep.UnknownResponders)
	require.Equal(s.T(), []prefs.AgentID{0}, rep.SharedResponders)
	// responder 2 counts as matched, even to an unknown proposer
	require.Equal(s.T(), []prefs.AgentID{1}, rep.UnmatchedResponders)
	require.False(s.T(), rep.Perfect())

	out := rep.String()
	require.Contains(s.T(), out, "unknown proposers: [9]")
	require.Contains(s.T(), out, "shared responders: [0]")
}

// TestSharedResponderPartner: a shared responder keeps the proposer it ranks best.
func (s *CheckSuite) TestSharedResponderPartner() {
	// responder 0 is claimed by 1 (its first choice) and 2 (its last), so its
	// partner is 1 and proposer 0, ranked in between, does not block with it.
	rep := stability.Check(s.inst, prefs.Matching{0: 2, 1: 0, 2: 0})
	require.Equal(s.T(), []prefs.AgentID{0}, rep.SharedResponders)
	require.NotContains(s.T(), rep.BlockingPairs, prefs.Pair{Proposer: 0, Responder: 0})
	require.Contains(s.T(), rep.BlockingPairs, prefs.Pair{Proposer: 0, Responder: 1})
}

// TestLenientLists: malformed lists are read leniently.
func (s *CheckSuite) TestLenientLists() {
	inst := prefs.Instance{
		Proposers: []prefs.Agent{
			{ID: 0, Prefs: prefs.PreferenceList{1, 1, 0, 42}},
			{ID: 1, Prefs: prefs.PreferenceList{0, 1}},
			{ID: 1, Prefs: prefs.PreferenceList{1}}, // duplicate agent, ignored
		},
		Responders: []prefs.Agent{
			{ID: 0, Prefs: prefs.PreferenceList{0, 1}},
			{ID: 1, Prefs: prefs.PreferenceList{0, 1}},
		},
	}
	rep := stability.Check(inst, prefs.Matching{0: 1, 1: 0})
	require.True(s.T(), rep.Perfect(), "%s", rep)
}

// TestUnacceptablePair: a matched pair that one side does not list.
func (s *CheckSuite) TestUnacceptablePair() {
	inst := builder.MustBuild(builder.FromLists(
		[][]int{{0, 1}, {0, 1}},
		[][]int{{0}, {0, 1}},
	))
	rep := stability.Check(inst, prefs.Matching{0: 1, 1: 0})
	require.Equal(s.T(), []prefs.Pair{{Proposer: 1, Responder: 0}}, rep.Unacceptable)
	// proposer 0 and responder 0 list each other first; responder 0 holds
	// an unacceptable proposer, so any acceptable one is better
	require.Equal(s.T(), []prefs.Pair{{Proposer: 0, Responder: 0}}, rep.BlockingPairs)
}

// TestEngineAlwaysStable: random engine output is a stable perfect matching.
func TestEngineAlwaysStable(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		inst := builder.MustBuild(builder.RandomComplete(25), builder.WithSeed(seed))
		m, err := gale.Match(inst)
		require.NoError(t, err)
		require.Empty(t, stability.FindBlockingPairs(inst, m), "seed %d", seed)
	}
}
