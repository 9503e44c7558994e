// SPDX-License-Identifier: MIT

package prefs

// denseSlack bounds how sparse an id space may be before RankTable falls back
// to a map: ids up to 2·len(list)+denseSlack are stored in a flat slice.
const denseSlack = 64

// RankTable is the rank-map form of a PreferenceList: id → rank, with rank 0
// the most preferred. It is immutable after construction.
//
// Dense id spaces are served from a slice (rank+1, 0 meaning unranked);
// sparse ones from a map. Either way lookups are O(1).
type RankTable struct {
	list   PreferenceList
	dense  []int32
	sparse map[AgentID]int
}

// NewRankTable builds a strict rank table. It fails with ErrDuplicateEntry
// (and the offending id) if the list repeats an entry.
//
// Complexity: O(k) for a list of length k.
func NewRankTable(list PreferenceList) (RankTable, AgentID, error) {
	t := newRankTable(list)
	var (
		i  int
		id AgentID
	)
	for i, id = range list {
		if t.Rank(id) != i {
			return RankTable{}, id, ErrDuplicateEntry
		}
	}

	return t, 0, nil
}

// NewLenientRankTable builds a rank table that never fails: when an id is
// repeated, its first occurrence defines the rank and later ones are ignored.
func NewLenientRankTable(list PreferenceList) RankTable {
	return newRankTable(list)
}

func newRankTable(list PreferenceList) RankTable {
	t := RankTable{list: list.Clone()}
	if len(list) == 0 {
		return t
	}

	var maxID AgentID
	for _, id := range list {
		if id > maxID {
			maxID = id
		}
	}

	// Choose storage by density of the id space.
	if uint64(maxID) <= uint64(2*len(list)+denseSlack) {
		t.dense = make([]int32, int(maxID)+1)
		for i := len(list) - 1; i >= 0; i-- { // reverse so the first occurrence wins
			t.dense[list[i]] = int32(i + 1)
		}

		return t
	}

	t.sparse = make(map[AgentID]int, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		t.sparse[list[i]] = i
	}

	return t
}

// Rank returns the rank of id, or Unranked if id is not acceptable.
func (t RankTable) Rank(id AgentID) int {
	if t.dense != nil {
		if uint64(id) >= uint64(len(t.dense)) {
			return Unranked
		}

		return int(t.dense[id]) - 1
	}
	if r, ok := t.sparse[id]; ok {
		return r
	}

	return Unranked
}

// Acceptable reports whether id appears on the list.
func (t RankTable) Acceptable(id AgentID) bool {
	return t.Rank(id) != Unranked
}

// Prefers reports whether a is strictly preferred to b. Any acceptable id is
// preferred to an unacceptable one; two unacceptable ids are incomparable.
func (t RankTable) Prefers(a, b AgentID) bool {
	ra, rb := t.Rank(a), t.Rank(b)
	switch {
	case ra == Unranked:
		return false
	case rb == Unranked:
		return true
	default:
		return ra < rb
	}
}

// Len returns the number of ranked entries as given (duplicates included).
func (t RankTable) Len() int { return len(t.list) }

// At returns the id at the given rank.
func (t RankTable) At(rank int) AgentID { return t.list[rank] }

// List returns a copy of the underlying preference list.
func (t RankTable) List() PreferenceList { return t.list.Clone() }
