package automaton

import (
	"fmt"
	"sort"

	"github.com/mossforge/lrtab/internal/symbols"
)

// MergeClasses implements spec.md §4.D step 4: "where two classes induce
// identical transitions from every state, coalesce them". Two input
// classes are interchangeable from the DFA's point of view when, for
// every state, they lead to the same target (or are both absent); once
// that holds there is no need to keep them as separate symbol-map cells,
// so the symbol map and the DFA's transition tables are both rewritten to
// the smaller alphabet.
//
// Grounded on spec.md §4.D's four-step pipeline description and
// TameParse/Dfa's split-then-coalesce shape (internal/symbols.Map already
// implements the splitting half via Deduplicate; this is the matching
// coalescing half, applied post-minimization instead of pre-construction
// since it needs the DFA's actual transition behavior to compare).
func MergeClasses(d *DFA, m *symbols.Map) (*DFA, *symbols.Map) {
	classes := allClasses(d)
	if len(classes) == 0 {
		return d, m
	}

	sig := make(map[int]string, len(classes))
	for _, c := range classes {
		sig[c] = classSignature(d, c)
	}

	// group classes by identical signature, each group becomes one merged
	// class; within a group, the lowest class id is the representative.
	groups := map[string][]int{}
	for _, c := range classes {
		groups[sig[c]] = append(groups[sig[c]], c)
	}

	sigKeys := make([]string, 0, len(groups))
	for k := range groups {
		sigKeys = append(sigKeys, k)
	}
	sort.Strings(sigKeys)

	oldToNew := map[int]int{}
	newMap := symbols.NewMap()
	for _, k := range sigKeys {
		group := groups[k]
		sort.Ints(group)
		merged := symbols.Set{}
		for _, c := range group {
			merged = merged.Union(m.Cell(c))
		}
		newID := newMap.IdentifierFor(merged)
		for _, c := range group {
			oldToNew[c] = newID
		}
	}

	out := &DFA{States: make([]DFAState, len(d.States)), Start: d.Start}
	for i, st := range d.States {
		ns := DFAState{Transitions: map[int]int{}, Accepts: st.Accepts}
		for c, to := range st.Transitions {
			ns.Transitions[oldToNew[c]] = to
		}
		out.States[i] = ns
	}

	return out, newMap
}

// classSignature captures, for one input class, the target state reached
// from every DFA state (or "-" if there is none), so two classes compare
// equal exactly when they're interchangeable everywhere.
func classSignature(d *DFA, class int) string {
	sig := ""
	for i := range d.States {
		to, ok := d.States[i].Transitions[class]
		if !ok {
			sig += "-,"
			continue
		}
		sig += fmt.Sprintf("%d,", to)
	}
	return sig
}
