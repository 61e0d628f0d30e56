package automaton

import "github.com/mossforge/lrtab/internal/grammar"

// SplitWeakAccepts implements spec.md §4.I's DFA split: for every
// accepting state whose accept actions include both a weak terminal w
// (a key of weakToStrong) and its strong counterpart s, a fresh terminal
// id `w_under_s` is minted and substituted for w's accept action at that
// state. The lexer then reports `w_under_s` rather than bare w wherever
// the two compete, and the returned extra weak->strong pairs let
// lrtable.RewriteWeakSymbols drive the shiftstrong promotion exactly as
// it already does for any other weak terminal.
//
// States where w appears without a competing s are left alone: w is
// unambiguous there and never needs a split id.
func SplitWeakAccepts(g *grammar.Grammar, d *DFA, weakToStrong map[int]int) (*DFA, map[int]int) {
	split := &DFA{Start: d.Start}
	extra := map[int]int{}

	for _, st := range d.States {
		ns := DFAState{Transitions: copyIntMap(st.Transitions)}

		present := map[int]bool{}
		for _, a := range st.Accepts {
			present[a.Symbol] = true
		}

		for _, a := range st.Accepts {
			if strong, isWeak := weakToStrong[a.Symbol]; isWeak && present[strong] {
				wName := g.TerminalName(a.Symbol)
				sName := g.TerminalName(strong)
				splitID := g.NewSyntheticTerminal(wName + "_under_" + sName)
				extra[splitID] = strong
				a.Symbol = splitID
			}
			ns.Accepts = append(ns.Accepts, a)
		}

		split.States = append(split.States, ns)
	}

	return split, extra
}

func copyIntMap(m map[int]int) map[int]int {
	cp := make(map[int]int, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
