package lalr

import "github.com/mossforge/lrtab/internal/grammar"

// itemForLookahead turns a lookahead id back into the grammar.Item FIRST
// computation expects (a terminal, or one of the two reserved
// end-of-input/end-of-guard sentinels).
func itemForLookahead(la int) grammar.Item {
	switch la {
	case grammar.EndOfInput:
		return grammar.EndOfInputItem()
	case grammar.EndOfGuard:
		return grammar.EndOfGuardItem()
	default:
		return grammar.Terminal(la)
	}
}

// Closure computes the LR(1) closure of a kernel item set (spec.md §4.F):
// for every item `A -> α·Bβ, a` with B a nonterminal, add `(B -> ·γ,
// FIRST(βa))` for every rule `B -> γ`; for B a guard g, add
// `(g.rule -> ·γ, FIRST(βa))` per spec.md §4.I.
func Closure(g *grammar.Grammar, kernel *grammar.ItemSet) *grammar.ItemSet {
	result := grammar.NewItemSet()
	for _, it := range kernel.Items() {
		result.Add(it)
	}
	for changed := true; changed; {
		changed = false
		for _, it := range result.Items() {
			sym, ok := it.Core.DotSymbol()
			if !ok {
				continue
			}
			var ruleOwner int
			switch sym.Kind {
			case grammar.KindNonterminal:
				ruleOwner = sym.ID
			case grammar.KindGuard:
				ruleOwner = sym.Rule
			default:
				continue
			}
			rest := it.Core.Rule.RHS[it.Core.Dot+1:]
			for _, la := range it.Lookaheads.Elements() {
				seq := make([]grammar.Item, 0, len(rest)+1)
				seq = append(seq, rest...)
				seq = append(seq, itemForLookahead(la))
				newLookaheads := g.FirstSeq(seq)
				for _, r := range g.Rules(ruleOwner) {
					newItem := grammar.NewLR1Item(r, 0, newLookaheads.Elements()...)
					if result.Add(newItem) {
						changed = true
					}
				}
			}
		}
	}
	return result
}

// Goto advances every item in items whose dot symbol equals sym and
// closes the result (spec.md §4.F/§4.G's GOTO).
func Goto(g *grammar.Grammar, items *grammar.ItemSet, sym grammar.Item) *grammar.ItemSet {
	kernel := grammar.NewItemSet()
	for _, it := range items.Items() {
		dotSym, ok := it.Core.DotSymbol()
		if !ok || !dotSym.Equal(sym) {
			continue
		}
		kernel.Add(grammar.NewLR1Item(it.Core.Rule, it.Core.Dot+1, it.Lookaheads.Elements()...))
	}
	if kernel.Len() == 0 {
		return kernel
	}
	return Closure(g, kernel)
}
