// SPDX-License-Identifier: MIT

package prefs

import (
	"errors"
	"fmt"
)

// Sentinel errors for preference data.
var (
	// ErrInvalidPreferenceList is the class of every validation failure.
	// Every *InvalidPreferenceListError matches it via errors.Is.
	ErrInvalidPreferenceList = errors.New("prefs: invalid preference list")

	// ErrDuplicateAgent indicates two agents of the same side share an id.
	ErrDuplicateAgent = errors.New("prefs: duplicate agent id")

	// ErrUnknownAgent indicates a list names an id absent from the opposite side.
	ErrUnknownAgent = errors.New("prefs: unknown agent id")

	// ErrDuplicateEntry indicates an id occurs twice in a single list. This is
	// the only way two candidates could share a rank, so ties never survive
	// validation.
	ErrDuplicateEntry = errors.New("prefs: duplicate entry in preference list")

	// ErrNotInjective is returned by Matching.Inverse when a responder is
	// assigned to more than one proposer.
	ErrNotInjective = errors.New("prefs: responder assigned more than once")
)

// Unranked is the rank reported for ids that are not on a list.
const Unranked = -1

// AgentID identifies an agent within its own population. Proposer and
// responder ids live in separate id spaces.
type AgentID uint32

// PreferenceList orders opposite-side ids from most to least preferred.
type PreferenceList []AgentID

// Clone returns an independent copy of the list.
func (l PreferenceList) Clone() PreferenceList {
	if l == nil {
		return nil
	}
	out := make(PreferenceList, len(l))
	copy(out, l)

	return out
}

// Reversed returns a copy with the order inverted (least preferred first).
func (l PreferenceList) Reversed() PreferenceList {
	out := make(PreferenceList, len(l))
	var i int
	for i = range l {
		out[len(l)-1-i] = l[i]
	}

	return out
}

// Side names one of the two populations.
type Side uint8

const (
	// SideProposer is the actively proposing population.
	SideProposer Side = iota

	// SideResponder is the population that holds or rejects proposals.
	SideResponder
)

// String implements fmt.Stringer.
func (s Side) String() string {
	switch s {
	case SideProposer:
		return "proposer"
	case SideResponder:
		return "responder"
	default:
		return fmt.Sprintf("side(%d)", uint8(s))
	}
}

// Opposite returns the other side of the market.
func (s Side) Opposite() Side {
	if s == SideProposer {
		return SideResponder
	}

	return SideProposer
}

// Agent is one input record: an id and its preference list.
type Agent struct {
	ID    AgentID        `yaml:"id"`
	Prefs PreferenceList `yaml:"prefs"`
}

// Instance is the raw, unvalidated input of a matching run.
type Instance struct {
	Proposers  []Agent `yaml:"proposers"`
	Responders []Agent `yaml:"responders"`
}

// Pair is a (proposer, responder) edge, e.g. a blocking pair.
type Pair struct {
	Proposer  AgentID `yaml:"proposer"`
	Responder AgentID `yaml:"responder"`
}

// String renders the pair as "p→r".
func (p Pair) String() string {
	return fmt.Sprintf("%d→%d", p.Proposer, p.Responder)
}

// InvalidPreferenceListError describes which list failed validation and why.
//
// Agent is the owner of the list (or the duplicated agent for
// ErrDuplicateAgent); Entry is the offending list element when applicable.
type InvalidPreferenceListError struct {
	Side   Side
	Agent  AgentID
	Entry  AgentID
	Reason error
}

// Error implements error.
func (e *InvalidPreferenceListError) Error() string {
	if errors.Is(e.Reason, ErrDuplicateAgent) {
		return fmt.Sprintf("prefs: %s %d: %v", e.Side, e.Agent, e.Reason)
	}

	return fmt.Sprintf("prefs: %s %d: entry %d: %v", e.Side, e.Agent, e.Entry, e.Reason)
}

// Unwrap exposes both the class sentinel and the specific reason.
func (e *InvalidPreferenceListError) Unwrap() []error {
	return []error{ErrInvalidPreferenceList, e.Reason}
}
