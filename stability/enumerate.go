// SPDX-License-Identifier: MIT

package stability

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/stablematch/prefs"
)

// MaxEnumerate is the largest population size Enumerate accepts.
// The search visits at most n! complete assignments.
const MaxEnumerate = 8

// Sentinel errors for enumeration.
var (
	// ErrTooLarge is returned when a side has more than MaxEnumerate agents.
	ErrTooLarge = errors.New("stability: instance too large to enumerate")

	// ErrUnequalSides is returned when the populations differ in size, so no
	// perfect matching exists to enumerate.
	ErrUnequalSides = errors.New("stability: populations differ in size")
)

// Enumerate returns every stable perfect matching of inst that uses only
// mutually acceptable pairs, in lexicographic order of the proposers'
// responder ids. It is an oracle for tests and tooling, not a solver.
//
// The search assigns proposers in id order and prunes a branch as soon as two
// assigned pairs already block each other.
//
// Complexity: O(n!·n) worst case; n ≤ MaxEnumerate.
func Enumerate(inst prefs.Instance) ([]prefs.Matching, error) {
	props, resps := newSide(inst.Proposers), newSide(inst.Responders)
	n := len(props.ids)
	if n != len(resps.ids) {
		return nil, fmt.Errorf("%w: %d proposers, %d responders", ErrUnequalSides, n, len(resps.ids))
	}
	if n > MaxEnumerate {
		return nil, fmt.Errorf("%w: n=%d > %d", ErrTooLarge, n, MaxEnumerate)
	}

	e := &enumerator{
		props: props,
		resps: resps,
		pick:  make([]int, n),
		used:  make([]bool, n),
	}
	e.search(0)

	return e.out, nil
}

// enumerator holds the backtracking state.
type enumerator struct {
	props, resps side
	pick         []int  // proposer index → responder index
	used         []bool // responder index taken
	out          []prefs.Matching
}

func (e *enumerator) search(pi int) {
	n := len(e.pick)
	if pi == n {
		m := make(prefs.Matching, n)
		for i, ri := range e.pick {
			m[e.props.ids[i]] = e.resps.ids[ri]
		}
		e.out = append(e.out, m)

		return
	}

	p := e.props.ids[pi]
	for ri := 0; ri < n; ri++ {
		if e.used[ri] {
			continue
		}
		r := e.resps.ids[ri]
		if !e.props.tables[p].Acceptable(r) || !e.resps.tables[r].Acceptable(p) {
			continue
		}
		if e.conflicts(pi, ri) {
			continue
		}
		e.pick[pi], e.used[ri] = ri, true
		e.search(pi + 1)
		e.used[ri] = false
	}
}

// conflicts reports whether adding pi→ri creates a blocking pair with any
// already assigned pair pj→rj (j < pi).
func (e *enumerator) conflicts(pi, ri int) bool {
	p, r := e.props.ids[pi], e.resps.ids[ri]
	pt, rt := e.props.tables[p], e.resps.tables[r]
	for pj := 0; pj < pi; pj++ {
		q, s := e.props.ids[pj], e.resps.ids[e.pick[pj]]
		qt, st := e.props.tables[q], e.resps.tables[s]
		// (p, s): p prefers s to r and s prefers p to q.
		if pt.Prefers(s, r) && st.Prefers(p, q) {
			return true
		}
		// (q, r): q prefers r to s and r prefers q to p.
		if qt.Prefers(r, s) && rt.Prefers(q, p) {
			return true
		}
	}

	return false
}

// ProposerOptimal reports whether m is stable and gives every proposer its
// best partner over all stable matchings of inst.
func ProposerOptimal(inst prefs.Instance, m prefs.Matching) (bool, error) {
	all, err := Enumerate(inst)
	if err != nil {
		return false, err
	}

	return sideOptimal(newSide(inst.Proposers), all, m), nil
}

// ResponderOptimal reports whether m is stable and gives every responder its
// best partner over all stable matchings of inst.
func ResponderOptimal(inst prefs.Instance, m prefs.Matching) (bool, error) {
	all, err := Enumerate(inst)
	if err != nil {
		return false, err
	}
	flipped := make([]prefs.Matching, len(all))
	for i := range all {
		flipped[i] = prefs.Transpose(all[i])
	}

	return sideOptimal(newSide(inst.Responders), flipped, prefs.Transpose(m)), nil
}

// sideOptimal checks that m is one of all and that every agent of s is
// matched to the partner it ranks best across all.
func sideOptimal(s side, all []prefs.Matching, m prefs.Matching) bool {
	var member bool
	for _, sm := range all {
		if sm.Equal(m) {
			member = true
			break
		}
	}
	if !member {
		return false
	}
	for _, a := range s.ids {
		t := s.tables[a]
		for _, sm := range all {
			if t.Prefers(sm[a], m[a]) {
				return false
			}
		}
	}

	return true
}
