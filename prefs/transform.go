// SPDX-License-Identifier: MIT

package prefs

// Reverse returns a copy of inst in which every preference list on both sides
// is reversed. Running deferred acceptance on the reversed market swaps which
// end of each list counts as "best".
func Reverse(inst Instance) Instance {
	return Instance{
		Proposers:  mapAgents(inst.Proposers, PreferenceList.Reversed),
		Responders: mapAgents(inst.Responders, PreferenceList.Reversed),
	}
}

// Swap returns a copy of inst with the two sides exchanged: responders become
// proposers and vice versa.
func Swap(inst Instance) Instance {
	return Instance{
		Proposers:  mapAgents(inst.Responders, PreferenceList.Clone),
		Responders: mapAgents(inst.Proposers, PreferenceList.Clone),
	}
}

// Transpose inverts a Matching obtained on Swap(inst) back into the
// proposer → responder orientation of inst.
func Transpose(m Matching) Matching {
	out := make(Matching, len(m))
	for a, b := range m {
		out[b] = a
	}

	return out
}

// Clone returns a deep copy of the instance.
func (inst Instance) Clone() Instance {
	return Instance{
		Proposers:  mapAgents(inst.Proposers, PreferenceList.Clone),
		Responders: mapAgents(inst.Responders, PreferenceList.Clone),
	}
}

// Size returns the population sizes (proposers, responders).
func (inst Instance) Size() (int, int) {
	return len(inst.Proposers), len(inst.Responders)
}

func mapAgents(in []Agent, fn func(PreferenceList) PreferenceList) []Agent {
	if in == nil {
		return nil
	}
	out := make([]Agent, len(in))
	for i := range in {
		out[i] = Agent{ID: in[i].ID, Prefs: fn(in[i].Prefs)}
	}

	return out
}
