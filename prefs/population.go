// SPDX-License-Identifier: MIT

package prefs

import "sort"

// Population is an arena of agents of one side, addressed by a dense index.
// Indices follow ascending id order, so index order is also id order.
type Population struct {
	side   Side
	ids    []AgentID
	index  map[AgentID]int
	tables []RankTable
}

// Side returns which side of the market the population is.
func (p *Population) Side() Side { return p.side }

// Len returns the number of agents.
func (p *Population) Len() int { return len(p.ids) }

// ID returns the id stored at index i.
func (p *Population) ID(i int) AgentID { return p.ids[i] }

// IDs returns a copy of all ids in ascending order.
func (p *Population) IDs() []AgentID {
	out := make([]AgentID, len(p.ids))
	copy(out, p.ids)

	return out
}

// Index returns the dense index of id.
func (p *Population) Index(id AgentID) (int, bool) {
	i, ok := p.index[id]

	return i, ok
}

// Has reports whether id belongs to the population.
func (p *Population) Has(id AgentID) bool {
	_, ok := p.index[id]

	return ok
}

// newPopulation sorts agents by id and rejects duplicate ids. Rank tables are
// filled in later by Validate, once the opposite side is known.
func newPopulation(agents []Agent, side Side) (*Population, []Agent, error) {
	sorted := make([]Agent, len(agents))
	copy(sorted, agents)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	p := &Population{
		side:   side,
		ids:    make([]AgentID, len(sorted)),
		index:  make(map[AgentID]int, len(sorted)),
		tables: make([]RankTable, len(sorted)),
	}
	var i int
	for i = range sorted {
		id := sorted[i].ID
		if _, dup := p.index[id]; dup {
			return nil, nil, &InvalidPreferenceListError{Side: side, Agent: id, Reason: ErrDuplicateAgent}
		}
		p.ids[i] = id
		p.index[id] = i
	}

	return p, sorted, nil
}

// Market is a validated instance: both populations plus the index-space form
// of every list, which is what the matching engine iterates over.
type Market struct {
	proposers  *Population
	responders *Population

	// choices[pi] lists responder indices in proposer pi's order of preference.
	choices [][]int
	// rrank[ri][pi] is the rank responder ri gives proposer pi, or Unranked.
	rrank [][]int32
}

// Validate checks an Instance and builds its Market.
//
// Checks, in order:
//  1. ids are unique within each side (ErrDuplicateAgent);
//  2. every list entry exists on the opposite side (ErrUnknownAgent);
//  3. no list repeats an entry (ErrDuplicateEntry).
//
// Every failure is an *InvalidPreferenceListError matching
// ErrInvalidPreferenceList. Population sizes are NOT compared here; unequal
// sides are a matching-time failure, not a malformed list.
//
// Complexity: O(P·R) time and space.
func Validate(inst Instance) (*Market, error) {
	// 1) Build both arenas.
	props, pAgents, err := newPopulation(inst.Proposers, SideProposer)
	if err != nil {
		return nil, err
	}
	resps, rAgents, err := newPopulation(inst.Responders, SideResponder)
	if err != nil {
		return nil, err
	}

	// 2) Attach strict rank tables, checking membership on the opposite side.
	if err = attachTables(props, pAgents, resps); err != nil {
		return nil, err
	}
	if err = attachTables(resps, rAgents, props); err != nil {
		return nil, err
	}

	// 3) Cache the index-space form.
	m := &Market{
		proposers:  props,
		responders: resps,
		choices:    make([][]int, props.Len()),
		rrank:      make([][]int32, resps.Len()),
	}
	var (
		pi, ri int
		id     AgentID
	)
	for pi = range pAgents {
		m.choices[pi] = make([]int, len(pAgents[pi].Prefs))
		for i, rid := range pAgents[pi].Prefs {
			m.choices[pi][i], _ = resps.Index(rid)
		}
	}
	for ri = range rAgents {
		row := make([]int32, props.Len())
		for pi = range row {
			row[pi] = Unranked
		}
		for i := range rAgents[ri].Prefs {
			id = rAgents[ri].Prefs[i]
			pi, _ = props.Index(id)
			row[pi] = int32(i)
		}
		m.rrank[ri] = row
	}

	return m, nil
}

func attachTables(own *Population, agents []Agent, opposite *Population) error {
	for i := range agents {
		a := agents[i]
		for _, e := range a.Prefs {
			if !opposite.Has(e) {
				return &InvalidPreferenceListError{Side: own.side, Agent: a.ID, Entry: e, Reason: ErrUnknownAgent}
			}
		}
		t, dup, err := NewRankTable(a.Prefs)
		if err != nil {
			return &InvalidPreferenceListError{Side: own.side, Agent: a.ID, Entry: dup, Reason: err}
		}
		own.tables[i] = t
	}

	return nil
}

// Proposers returns the proposer population.
func (m *Market) Proposers() *Population { return m.proposers }

// Responders returns the responder population.
func (m *Market) Responders() *Population { return m.responders }

// Choices returns the responder indices proposer pi ranks, best first.
// The returned slice must not be modified.
func (m *Market) Choices(pi int) []int { return m.choices[pi] }

// ResponderRank returns the rank responder ri gives proposer pi, or Unranked.
func (m *Market) ResponderRank(ri, pi int) int { return int(m.rrank[ri][pi]) }

// Instance reconstructs the raw input (agents sorted by id).
func (m *Market) Instance() Instance {
	return Instance{
		Proposers:  m.proposers.agents(),
		Responders: m.responders.agents(),
	}
}

func (p *Population) agents() []Agent {
	out := make([]Agent, len(p.ids))
	for i := range p.ids {
		out[i] = Agent{ID: p.ids[i], Prefs: p.tables[i].List()}
	}

	return out
}
