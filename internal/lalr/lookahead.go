package lalr

import (
	"sort"

	"github.com/mossforge/lrtab/internal/collections"
	"github.com/mossforge/lrtab/internal/grammar"
)

// nonGrammarSentinel stands in for the "#" placeholder purple-dragon
// Algorithm 4.62 uses to distinguish spontaneous generation from
// propagation; any id outside the grammar's terminal namespace works,
// since it is only ever compared for identity, never looked up.
const nonGrammarSentinel = -1 << 30

type itemKey struct {
	state int
	item  string // LR0Item.String()
}

// determineLookaheads runs Algorithm 4.62 for one LR(0) state and one
// transition symbol: it computes, for the kernel items of the target
// state reached by sym, which lookaheads are generated spontaneously and
// which propagate from the source state's kernel items.
//
// Grounded on ictiobus/parse/lalr.go's determineLookaheads, fixed to
// actually complete (the teacher's version is reachable only from the
// dead computeLALR1Kernels and its own "make debugger do thing" debug
// prints were never cleaned up).
func determineLookaheads(aug *grammar.Grammar, states []*lr0State, from int, sym grammar.Item) (
	spontaneous map[itemKey]collections.IntSet, propagated map[itemKey][]itemKey,
) {
	spontaneous = map[itemKey]collections.IntSet{}
	propagated = map[itemKey][]itemKey{}

	to, ok := states[from].Transitions[sym.String()]
	if !ok {
		return spontaneous, propagated
	}

	for _, aItem := range states[from].Kernel {
		// J := CLOSURE({[A -> α.β, #]})
		seed := grammar.NewLR1Item(aItem.Rule, aItem.Dot, nonGrammarSentinel)
		kernel := grammar.NewItemSet()
		kernel.Add(seed)
		j := Closure(aug, kernel)

		gotoJX := Goto(aug, j, sym)

		// For every item [B -> γ.Xδ, a] in J, advancing the dot past X
		// lands on [B -> γX.δ, a]; if that shifted core shows up in
		// GOTO(J, X), a tells us whether the lookahead was spontaneous
		// (a != #) or propagated from aItem (a == #).
		for _, bItem := range j.Items() {
			dotSym, ok := bItem.Core.DotSymbol()
			if !ok || !dotSym.Equal(sym) {
				continue
			}
			shifted := bItem.Core.Advance()
			if !gotoContainsCore(gotoJX, shifted) {
				continue
			}
			key := itemKey{state: to, item: shifted.String()}
			for _, la := range bItem.Lookaheads.Elements() {
				if la == nonGrammarSentinel {
					from_ := itemKey{state: from, item: aItem.String()}
					propagated[from_] = append(propagated[from_], key)
					continue
				}
				set, ok := spontaneous[key]
				if !ok {
					set = collections.NewIntSet()
					spontaneous[key] = set
				}
				set.Add(la)
			}
		}
	}
	return spontaneous, propagated
}

func gotoContainsCore(items *grammar.ItemSet, core grammar.LR0Item) bool {
	for _, it := range items.Items() {
		if it.Core.Equal(core) {
			return true
		}
	}
	return false
}

// PropagateLookaheads runs DeRemer/Pennello propagation to a fixpoint
// across the whole LR(0) collection, starting from the spontaneous
// end-of-input lookahead on the augmented start kernel item (spec.md
// §4.G: "lookahead $ is always generated spontaneously for S'→·S").
// Returns, for every (state, LR0Item) pair, its final lookahead set.
func PropagateLookaheads(aug *grammar.Grammar, states []*lr0State, startID int) map[itemKey]collections.IntSet {
	table := map[itemKey]collections.IntSet{}
	get := func(k itemKey) collections.IntSet {
		s, ok := table[k]
		if !ok {
			s = collections.NewIntSet()
			table[k] = s
		}
		return s
	}

	allProps := map[itemKey][]itemKey{}

	for _, s := range states {
		for symStr := range s.Transitions {
			sym := symbolOf(s.Closure, symStr)
			spont, props := determineLookaheads(aug, states, s.ID, sym)
			for k, set := range spont {
				get(k).AddAll(set)
			}
			for k, dests := range props {
				allProps[k] = append(allProps[k], dests...)
			}
		}
	}

	startKey := itemKey{state: startID, item: states[startID].Kernel[0].String()}
	get(startKey).Add(grammar.EndOfInput)

	fromKeys := make([]itemKey, 0, len(allProps))
	for k := range allProps {
		fromKeys = append(fromKeys, k)
	}
	sort.Slice(fromKeys, func(i, j int) bool {
		if fromKeys[i].state != fromKeys[j].state {
			return fromKeys[i].state < fromKeys[j].state
		}
		return fromKeys[i].item < fromKeys[j].item
	})

	for changed := true; changed; {
		changed = false
		for _, from := range fromKeys {
			dests := allProps[from]
			fromSet, ok := table[from]
			if !ok {
				continue
			}
			for _, to := range dests {
				toSet := get(to)
				before := toSet.Len()
				toSet.AddAll(fromSet)
				if toSet.Len() != before {
					changed = true
				}
			}
		}
	}

	return table
}

// symbolOf recovers the grammar.Item a transition key string denotes, by
// scanning closure items for one whose dot symbol stringifies to symStr.
// Transition maps are keyed by string since grammar.Item isn't itself a
// valid Go map key (it embeds slices/pointers).
func symbolOf(closure []grammar.LR0Item, symStr string) grammar.Item {
	for _, it := range closure {
		sym, ok := it.DotSymbol()
		if ok && sym.String() == symStr {
			return sym
		}
	}
	return grammar.Item{}
}
