// Package lalr builds the canonical LALR(1) collection of states from a
// grammar.Grammar: LR(0) kernel construction, DeRemer/Pennello lookahead
// propagation to a fixpoint, and full LR(1) closure per state
// (spec.md §4.G "LALR builder").
//
// Grounded on ictiobus/parse/lalr.go's getLR0Kernels/determineLookaheads
// (Algorithm 4.62/4.63 from the purple dragon book) — that file computes
// calcSponts/calcProps correctly but never finishes the propagation loop
// (it's commented out) and computeLALR1Kernels returns an empty set
// unconditionally; constructLALR1ParseTable instead falls back to merging
// full LR(1) item sets from automaton.NewLALR1ViablePrefixDFA. This
// package completes the abandoned kernel-propagation approach for real,
// since spec.md §4.G names it directly ("Kernel generation, closure,
// goto, lookahead propagation").
package lalr

import (
	"sort"

	"github.com/mossforge/lrtab/internal/grammar"
)

// LR0Closure computes the closure of a set of dotless-lookahead LR(0)
// kernel items (spec.md §4.F's closure, without the lookahead machinery).
func LR0Closure(g *grammar.Grammar, kernel []grammar.LR0Item) []grammar.LR0Item {
	seen := map[string]grammar.LR0Item{}
	var order []string

	add := func(it grammar.LR0Item) bool {
		k := it.String()
		if _, ok := seen[k]; ok {
			return false
		}
		seen[k] = it
		order = append(order, k)
		return true
	}
	for _, it := range kernel {
		add(it)
	}
	for changed := true; changed; {
		changed = false
		for _, k := range append([]string{}, order...) {
			it := seen[k]
			sym, ok := it.DotSymbol()
			if !ok {
				continue
			}
			switch sym.Kind {
			case grammar.KindNonterminal:
				for _, r := range g.Rules(sym.ID) {
					if add(grammar.LR0Item{Rule: r, Dot: 0}) {
						changed = true
					}
				}
			case grammar.KindGuard:
				for _, r := range g.Rules(sym.Rule) {
					if add(grammar.LR0Item{Rule: r, Dot: 0}) {
						changed = true
					}
				}
			}
		}
	}
	out := make([]grammar.LR0Item, 0, len(order))
	for _, k := range order {
		out = append(out, seen[k])
	}
	sortLR0Items(out)
	return out
}

// LR0Goto advances every item in items whose dot symbol equals sym, then
// closes the result. Returns nil if no item in items transitions on sym.
func LR0Goto(g *grammar.Grammar, items []grammar.LR0Item, sym grammar.Item) []grammar.LR0Item {
	var kernel []grammar.LR0Item
	for _, it := range items {
		dotSym, ok := it.DotSymbol()
		if !ok || !dotSym.Equal(sym) {
			continue
		}
		kernel = append(kernel, it.Advance())
	}
	if len(kernel) == 0 {
		return nil
	}
	return LR0Closure(g, kernel)
}

// TransitionSymbols returns, in a deterministic order, every distinct
// symbol some item in items can transition on (spec.md §4.G: "items whose
// generate_transition() is true").
func TransitionSymbols(items []grammar.LR0Item) []grammar.Item {
	var out []grammar.Item
	for _, it := range items {
		sym, ok := it.DotSymbol()
		if !ok || !sym.GenerateTransition() {
			continue
		}
		dup := false
		for _, s := range out {
			if s.Equal(sym) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, sym)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func sortLR0Items(items []grammar.LR0Item) {
	sort.Slice(items, func(i, j int) bool { return items[i].Less(items[j]) })
}

func kernelSignature(items []grammar.LR0Item) string {
	sig := ""
	for _, it := range items {
		sig += it.String() + "|"
	}
	return sig
}

// lr0State is one node of the canonical LR(0) automaton, prior to any
// lookahead attachment.
type lr0State struct {
	ID          int
	Kernel      []grammar.LR0Item
	Closure     []grammar.LR0Item
	Transitions map[string]int // symbol.String() -> target state id
}

// BuildLR0Collection constructs the canonical collection of sets of LR(0)
// items for the augmented grammar (spec.md §4.G step 1), returning every
// state and the id of the start state.
func BuildLR0Collection(aug *grammar.Grammar, augStartID int) ([]*lr0State, int) {
	startRule := aug.Rules(augStartID)[0]
	startKernel := []grammar.LR0Item{{Rule: startRule, Dot: 0}}

	var states []*lr0State
	bySignature := map[string]int{}

	register := func(kernel []grammar.LR0Item) int {
		sig := kernelSignature(kernel)
		if id, ok := bySignature[sig]; ok {
			return id
		}
		id := len(states)
		bySignature[sig] = id
		states = append(states, &lr0State{
			ID:          id,
			Kernel:      kernel,
			Closure:     LR0Closure(aug, kernel),
			Transitions: map[string]int{},
		})
		return id
	}

	startID := register(startKernel)

	for i := 0; i < len(states); i++ {
		s := states[i]
		for _, sym := range TransitionSymbols(s.Closure) {
			var kernel []grammar.LR0Item
			for _, it := range s.Closure {
				dotSym, ok := it.DotSymbol()
				if !ok || !dotSym.Equal(sym) {
					continue
				}
				kernel = append(kernel, it.Advance())
			}
			sortLR0Items(kernel)
			target := register(kernel)
			s.Transitions[sym.String()] = target
		}
	}

	return states, startID
}
