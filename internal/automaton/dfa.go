package automaton

import (
	"fmt"
	"sort"

	"github.com/mossforge/lrtab/internal/collections"
)

// DFAState is one state of a deterministic automaton: disjoint outgoing
// transitions by class id, plus the (possibly several — spec.md §3 keeps
// every accept action reaching a state) accept actions that land here.
type DFAState struct {
	Transitions map[int]int // class id -> target state, disjoint by construction
	Accepts     []AcceptAction
}

// DFA is a deterministic finite automaton satisfying spec.md §3's
// invariants: (a) disjoint outgoing classes per state, (b) no
// ε-transitions, (c) every reachable state is listed.
type DFA struct {
	States []DFAState
	Start  int
}

// Accepting reports whether the given state carries at least one accept
// action.
func (d *DFA) Accepting(state int) bool {
	return len(d.States[state].Accepts) > 0
}

// Next returns the target state for a transition from `state` on class
// `a`, or -1 if there is none.
func (d *DFA) Next(state, a int) int {
	if state < 0 || state >= len(d.States) {
		return -1
	}
	to, ok := d.States[state].Transitions[a]
	if !ok {
		return -1
	}
	return to
}

// Winner returns the accept action that wins at `state` under spec.md
// §3's (priority, definition-order) tiebreak, and the rest as "shadowed"
// losers, in no particular order. ok is false if the state has no accept
// actions.
func (d *DFA) Winner(state int) (winner AcceptAction, shadowed []AcceptAction, ok bool) {
	accepts := d.States[state].Accepts
	if len(accepts) == 0 {
		return AcceptAction{}, nil, false
	}
	winner = accepts[0]
	for _, a := range accepts[1:] {
		if a.Wins(winner) {
			shadowed = append(shadowed, winner)
			winner = a
		} else {
			shadowed = append(shadowed, a)
		}
	}
	return winner, shadowed, true
}

// ToDFA performs subset construction (spec.md §4.D step 2), an
// implementation of purple dragon book algorithm 3.20: each DFA state is
// the ε-closure of a set of NFA states, reached via Move+ε-closure on
// each input class.
func (n *NFA) ToDFA() *DFA {
	startSet := n.EpsilonClosure(n.Start)
	startKey := setKey(startSet)

	dfa := &DFA{}
	indexOf := map[string]int{}
	setOf := map[string]collections.IntSet{startKey: startSet}

	newState := func(set collections.IntSet) int {
		key := setKey(set)
		if id, ok := indexOf[key]; ok {
			return id
		}
		id := len(dfa.States)
		indexOf[key] = id
		setOf[key] = set
		dfa.States = append(dfa.States, DFAState{Transitions: map[int]int{}})
		return id
	}

	dfa.Start = newState(startSet)

	classes := n.InputClasses().Elements()

	worklist := []string{startKey}
	seen := stringSetLocal{startKey: true}
	for len(worklist) > 0 {
		key := worklist[0]
		worklist = worklist[1:]
		T := setOf[key]
		id := indexOf[key]

		dfa.States[id].Accepts = n.acceptsOf(T)

		for _, a := range classes {
			moved := n.EpsilonClosureOfSet(n.Move(T, a))
			if moved.Len() == 0 {
				continue
			}
			mkey := setKey(moved)
			if !seen.has(mkey) {
				newState(moved)
				worklist = append(worklist, mkey)
				seen.add(mkey)
			}
			dfa.States[id].Transitions[a] = indexOf[mkey]
		}
	}

	return dfa
}

func setKey(s collections.IntSet) string {
	elems := s.Elements()
	out := ""
	for _, e := range elems {
		out += fmt.Sprintf("%d,", e)
	}
	return out
}

// stringSetLocal is a tiny seen-set helper kept local to this file so
// internal/collections doesn't need to grow a generic string-set variant
// just for worklist dedup here.
type stringSetLocal map[string]bool

func (s stringSetLocal) add(k string)      { s[k] = true }
func (s stringSetLocal) has(k string) bool { return s[k] }

func (d *DFA) String() string {
	out := fmt.Sprintf("<DFA start=%d>", d.Start)
	ids := make([]int, len(d.States))
	for i := range d.States {
		ids[i] = i
	}
	sort.Ints(ids)
	for _, id := range ids {
		out += fmt.Sprintf("\n  %d: %+v", id, d.States[id])
	}
	return out
}
