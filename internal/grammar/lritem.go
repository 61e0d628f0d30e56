package grammar

import (
	"fmt"

	"github.com/mossforge/lrtab/internal/collections"
)

// LR0Item is a rule paired with a dot position (spec.md §3 "LR(0) item"),
// grounded on ictiobus/grammar/item.go's LR0Item{NonTerminal,Left,Right}
// shape, adapted to hold a Rule value plus an integer dot index instead of
// two split string slices.
type LR0Item struct {
	Rule Rule
	Dot  int
}

// AtEnd reports whether the dot has reached the end of the RHS.
func (it LR0Item) AtEnd() bool {
	return it.Dot >= len(it.Rule.RHS)
}

// DotSymbol returns the item immediately right of the dot and true, or the
// zero Item and false if the dot is at the end.
func (it LR0Item) DotSymbol() (Item, bool) {
	if it.AtEnd() {
		return Item{}, false
	}
	return it.Rule.RHS[it.Dot], true
}

// Advance returns the item with the dot moved one position to the right.
// Callers must check AtEnd first.
func (it LR0Item) Advance() LR0Item {
	return LR0Item{Rule: it.Rule, Dot: it.Dot + 1}
}

func (it LR0Item) Equal(o LR0Item) bool {
	return it.Dot == o.Dot && it.Rule.Equal(o.Rule)
}

func (it LR0Item) Less(o LR0Item) bool {
	if !it.Rule.Equal(o.Rule) {
		return it.Rule.Less(o.Rule)
	}
	return it.Dot < o.Dot
}

func (it LR0Item) String() string {
	parts := make([]string, 0, len(it.Rule.RHS)+1)
	for i, sym := range it.Rule.RHS {
		if i == it.Dot {
			parts = append(parts, "·")
		}
		parts = append(parts, sym.String())
	}
	if it.Dot == len(it.Rule.RHS) {
		parts = append(parts, "·")
	}
	out := fmt.Sprintf("N%d ->", it.Rule.LHS)
	for _, p := range parts {
		out += " " + p
	}
	return out
}

// LR1Item is an LR0Item carrying a lookahead set (spec.md §3 "LR(1) item"),
// grounded on ictiobus/grammar/item.go's LR1Item{LR0Item,Lookahead}, widened
// from a single lookahead string to a lookahead set since this repo merges
// same-core items by lookahead union rather than cloning one item per
// lookahead symbol.
type LR1Item struct {
	Core       LR0Item
	Lookaheads collections.IntSet
}

func NewLR1Item(rule Rule, dot int, lookaheads ...int) LR1Item {
	return LR1Item{Core: LR0Item{Rule: rule, Dot: dot}, Lookaheads: collections.NewIntSet(lookaheads)}
}

// SameCore reports whether two LR1Items share the same LR0 core
// (rule+dot), ignoring lookahead — the collision key item sets merge on
// (spec.md §4.F: "merge-on-collision... lookahead union").
func (it LR1Item) SameCore(o LR1Item) bool {
	return it.Core.Equal(o.Core)
}

func (it LR1Item) String() string {
	return fmt.Sprintf("[%s, %v]", it.Core.String(), it.Lookaheads.Elements())
}

// ItemSet is an LALR/LR(1) state: a set of LR1Items merged by core, with
// deterministic iteration. Corresponds to spec.md §3's "Item set (state)".
type ItemSet struct {
	byCore map[coreKey]*LR1Item
	order  []coreKey
}

type coreKey struct {
	lhs int
	dot int
	rhs string
}

func keyOf(core LR0Item) coreKey {
	return coreKey{lhs: core.Rule.LHS, dot: core.Dot, rhs: core.Rule.String()}
}

func NewItemSet() *ItemSet {
	return &ItemSet{byCore: map[coreKey]*LR1Item{}}
}

// Add merges it into the set, unioning lookaheads with any existing item
// sharing the same core. Returns whether the set grew (a new core, or an
// existing core's lookahead set gained members) — the "grew" boolean
// spec.md §4.F requires callers to test for closure/propagation fixpoints.
func (s *ItemSet) Add(it LR1Item) (grew bool) {
	k := keyOf(it.Core)
	existing, ok := s.byCore[k]
	if !ok {
		cp := it
		cp.Lookaheads = it.Lookaheads.Copy()
		s.byCore[k] = &cp
		s.order = append(s.order, k)
		return true
	}
	before := existing.Lookaheads.Len()
	existing.Lookaheads.AddAll(it.Lookaheads)
	return existing.Lookaheads.Len() != before
}

// Items returns the set's items in a stable, deterministic order (by core
// key, ascending).
func (s *ItemSet) Items() []LR1Item {
	keys := append([]coreKey{}, s.order...)
	sortCoreKeys(keys)
	out := make([]LR1Item, 0, len(keys))
	for _, k := range keys {
		out = append(out, *s.byCore[k])
	}
	return out
}

func sortCoreKeys(keys []coreKey) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && coreKeyLess(keys[j], keys[j-1]); j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
}

func coreKeyLess(a, b coreKey) bool {
	if a.lhs != b.lhs {
		return a.lhs < b.lhs
	}
	if a.dot != b.dot {
		return a.dot < b.dot
	}
	return a.rhs < b.rhs
}

// Len returns the number of distinct cores in the set.
func (s *ItemSet) Len() int {
	return len(s.order)
}

// CoreSignature returns a string uniquely identifying this set's LR(0)
// cores (ignoring lookahead): two item sets with the same cores yield the
// same signature whatever their lookaheads (spec.md §4.G).
func (s *ItemSet) CoreSignature() string {
	keys := append([]coreKey{}, s.order...)
	sortCoreKeys(keys)
	sig := ""
	for _, k := range keys {
		sig += k.rhs + "#" + fmt.Sprint(k.dot) + "|"
	}
	return sig
}
