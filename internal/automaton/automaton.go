// Package automaton implements the generic NFA/DFA engine (spec.md §3
// "NFA"/"DFA", §4.D) over an alphabet of integer symbol classes (the
// class ids internal/symbols hands out) instead of the teacher's bare
// strings, so it composes directly with internal/symbols and
// internal/regex.
//
// Grounded on ictiobus/automaton/automaton.go: the generic NFA[E]/DFA[E]
// shape, ε-closure, and Join are carried over near verbatim (renamed
// fields, symbol type changed from string to int class ids).
package automaton

import (
	"fmt"
	"sort"

	"github.com/mossforge/lrtab/internal/collections"
	"github.com/mossforge/lrtab/internal/symbols"
)

// AcceptAction is the triple spec.md §3 defines: a terminal id, whether
// matching should stop eagerly even if a longer match is possible, and a
// priority used to resolve ties between accept actions sharing a state.
type AcceptAction struct {
	Symbol   int
	Eager    bool
	Priority int
	// DefOrder is the terminal's definition order, the tiebreaker spec.md
	// §3 names after priority: "higher (priority, symbol_id definition
	// order) wins".
	DefOrder int
}

// Wins reports whether a beats b under spec.md §3's ordering.
func (a AcceptAction) Wins(b AcceptAction) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.DefOrder > b.DefOrder
}

type transition struct {
	class int
	to    int
}

type nfaState struct {
	transitions map[int][]int // class id -> target states (non-deterministic)
	accepts     []AcceptAction
}

// NFA is a non-deterministic finite automaton over integer symbol classes
// (spec.md §3 "NFA"); each state holds its outgoing transitions and its
// accept actions.
type NFA struct {
	states []nfaState
	Start  int
}

// New returns an NFA with a single non-accepting start state 0.
func New() *NFA {
	return &NFA{states: []nfaState{{transitions: map[int][]int{}}}, Start: 0}
}

// AddState appends a new state and returns its id.
func (n *NFA) AddState() int {
	id := len(n.states)
	n.states = append(n.states, nfaState{transitions: map[int][]int{}})
	return id
}

// AddTransition adds a transition from `from` to `to` on the given class
// id. symbols.Epsilon denotes an ε-transition. Multiple transitions on
// the same class from the same state are allowed (spec.md §3: NFAs may
// be non-deterministic).
func (n *NFA) AddTransition(from, class, to int) {
	n.states[from].transitions[class] = append(n.states[from].transitions[class], to)
}

// AddAccept records an accept action at the given state.
func (n *NFA) AddAccept(state int, a AcceptAction) {
	n.states[state].accepts = append(n.states[state].accepts, a)
}

// NumStates returns the number of states in the NFA.
func (n *NFA) NumStates() int { return len(n.states) }

// EpsilonClosure returns the set of states reachable from `from` using
// zero or more ε-moves.
func (n *NFA) EpsilonClosure(from int) collections.IntSet {
	closure := collections.NewIntSet()
	stack := collections.Stack[int]{}
	stack.Push(from)
	for stack.Len() > 0 {
		s := stack.Pop()
		if closure.Has(s) {
			continue
		}
		closure.Add(s)
		for _, to := range n.states[s].transitions[symbols.Epsilon] {
			stack.Push(to)
		}
	}
	return closure
}

// EpsilonClosureOfSet is the union of EpsilonClosure over every state in
// the set.
func (n *NFA) EpsilonClosureOfSet(states collections.IntSet) collections.IntSet {
	out := collections.NewIntSet()
	for _, s := range states.Elements() {
		out.AddAll(n.EpsilonClosure(s))
	}
	return out
}

// Move returns the set of states reachable from some state in `from` by a
// single transition on class `a` (purple dragon book's MOVE(T, a)).
func (n *NFA) Move(from collections.IntSet, a int) collections.IntSet {
	out := collections.NewIntSet()
	for _, s := range from.Elements() {
		out.AddAll(collections.NewIntSet(n.states[s].transitions[a]))
	}
	return out
}

// InputClasses returns every symbol class with at least one outgoing
// transition anywhere in the NFA, excluding ε.
func (n *NFA) InputClasses() collections.IntSet {
	classes := collections.NewIntSet()
	for _, st := range n.states {
		for c := range st.transitions {
			if c != symbols.Epsilon {
				classes.Add(c)
			}
		}
	}
	return classes
}

// acceptsOf returns the union of accept actions over every state in a set
// (used during subset construction to gather a DFA state's accepts).
func (n *NFA) acceptsOf(states collections.IntSet) []AcceptAction {
	var out []AcceptAction
	for _, s := range states.Elements() {
		out = append(out, n.states[s].accepts...)
	}
	return out
}

// AcceptsAt returns the accept actions recorded directly at the given
// state (not closed over ε-transitions).
func (n *NFA) AcceptsAt(state int) []AcceptAction {
	return append([]AcceptAction{}, n.states[state].accepts...)
}

// RawTransitions returns a copy of the given state's outgoing transitions,
// keyed by class id (symbols.Epsilon included), to target state lists.
// Used by internal/regex to rewrite an NFA's alphabet after a global
// symbols.Deduplicate pass without going through Move/EpsilonClosure.
func (n *NFA) RawTransitions(state int) map[int][]int {
	out := make(map[int][]int, len(n.states[state].transitions))
	for c, tos := range n.states[state].transitions {
		out[c] = append([]int{}, tos...)
	}
	return out
}

// AcceptingStates returns the set of NFA states carrying at least one
// accept action.
func (n *NFA) AcceptingStates() collections.IntSet {
	out := collections.NewIntSet()
	for i, st := range n.states {
		if len(st.accepts) > 0 {
			out.Add(i)
		}
	}
	return out
}

// Copy returns a deep copy of the NFA.
func (n *NFA) Copy() *NFA {
	cp := &NFA{Start: n.Start, states: make([]nfaState, len(n.states))}
	for i, st := range n.states {
		ns := nfaState{transitions: map[int][]int{}, accepts: append([]AcceptAction{}, st.accepts...)}
		for c, tos := range st.transitions {
			ns.transitions[c] = append([]int{}, tos...)
		}
		cp.states[i] = ns
	}
	return cp
}

// Join merges `other` into n, renumbering other's states to come after
// n's, then wires the given extra ε-transitions (each a (fromInN,
// fromInOther) pair meaning "add an ε edge from the n-side state to the
// renumbered other-side state"). Returns the new state id in n's
// numbering for every entry of `otherStatesOfInterest` (used by the
// fragment-composition helpers in internal/regex to recover accept
// states after a join), in the same order.
//
// Grounded on ictiobus/lex/regex.go's composition helpers
// (createJuxtapositionFA, createKleeneStarFA, createAlternationFA), which
// all reduce to "glue two single-accept NFA fragments together with a
// couple of ε edges" — Join is the completed, reusable version of the
// ad hoc joins those teacher helpers each open-coded.
func (n *NFA) Join(other *NFA, edges [][2]int, otherStatesOfInterest []int) []int {
	offset := len(n.states)
	for _, st := range other.states {
		ns := nfaState{transitions: map[int][]int{}, accepts: append([]AcceptAction{}, st.accepts...)}
		for c, tos := range st.transitions {
			shifted := make([]int, len(tos))
			for i, to := range tos {
				shifted[i] = to + offset
			}
			ns.transitions[c] = shifted
		}
		n.states = append(n.states, ns)
	}
	for _, e := range edges {
		n.AddTransition(e[0], symbols.Epsilon, e[1]+offset)
	}
	out := make([]int, len(otherStatesOfInterest))
	for i, s := range otherStatesOfInterest {
		out[i] = s + offset
	}
	return out
}

func (n *NFA) String() string {
	out := fmt.Sprintf("<NFA start=%d>", n.Start)
	ids := make([]int, len(n.states))
	for i := range n.states {
		ids[i] = i
	}
	sort.Ints(ids)
	for _, id := range ids {
		out += fmt.Sprintf("\n  %d: %+v", id, n.states[id])
	}
	return out
}
