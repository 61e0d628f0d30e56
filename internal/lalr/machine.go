package lalr

import (
	"sort"

	"github.com/mossforge/lrtab/internal/grammar"
)

// State is one node of the finished LALR(1) automaton: its full LR(1)
// item set (kernel closed over FIRST-derived lookaheads) plus outgoing
// transitions keyed by the transitioning symbol's canonical string.
type State struct {
	ID          int
	Items       *grammar.ItemSet
	Transitions map[string]int
}

// Machine is the canonical LALR(1) collection spec.md §4.G's builder
// produces: the augmented grammar it was built against, every state, and
// the id of the start state.
type Machine struct {
	Augmented  *grammar.Grammar
	AugStartID int
	States     []*State
	StartState int
}

// Build runs the full pipeline: LR(0) kernel construction, DeRemer/
// Pennello lookahead propagation, then per-state LR(1) closure — spec.md
// §4.G's "Kernel generation, closure, goto, lookahead propagation".
func Build(g *grammar.Grammar) *Machine {
	aug, augID := g.Augmented()
	lr0States, startID := BuildLR0Collection(aug, augID)
	lookaheads := PropagateLookaheads(aug, lr0States, startID)

	states := make([]*State, len(lr0States))
	for _, s := range lr0States {
		kernel := grammar.NewItemSet()
		for _, it := range s.Kernel {
			key := itemKey{state: s.ID, item: it.String()}
			las := lookaheads[key]
			if las == nil {
				continue // kernel item that never received a lookahead (unreachable via any derivation)
			}
			kernel.Add(grammar.LR1Item{Core: it, Lookaheads: las.Copy()})
		}
		states[s.ID] = &State{
			ID:          s.ID,
			Items:       Closure(aug, kernel),
			Transitions: copyTransitions(s.Transitions),
		}
	}

	return &Machine{
		Augmented:  aug,
		AugStartID: augID,
		States:     states,
		StartState: startID,
	}
}

func copyTransitions(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// GotoState returns the target state id for a transition on sym from
// state i, or (-1, false) if no such transition exists.
func (m *Machine) GotoState(i int, sym grammar.Item) (int, bool) {
	target, ok := m.States[i].Transitions[sym.String()]
	if !ok {
		return -1, false
	}
	return target, true
}

// TransitionSymbolStrings returns a state's outgoing transition symbol
// keys in sorted order, for deterministic iteration when building action
// tables (spec.md §5).
func (s *State) TransitionSymbolStrings() []string {
	keys := make([]string, 0, len(s.Transitions))
	for k := range s.Transitions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
