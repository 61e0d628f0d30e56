package grammar

import "github.com/mossforge/lrtab/internal/collections"

// First returns FIRST(X) for an arbitrary item, per spec.md §4.E:
//
//   - terminal / end_of_input / end_of_guard / empty -> {X} (empty's FIRST
//     set is the singleton {EmptyID}, used as the epsilon marker)
//   - nonterminal -> union over its rules of FirstSeq(rule.RHS)
//   - alt(children) -> union of each child's FIRST
//   - opt(child), repeat(child, min=0) -> FIRST(child) ∪ {empty}
//   - repeat(child, min=1) -> FIRST(child)
//   - guard(rule, _) -> FIRST of the guard's rule (empty preserved, so a
//     guard whose body can match nothing still signals emptiness upward)
//
// Computed via a single global fixpoint over every nonterminal (not naive
// per-call recursion) so left-recursive grammars terminate: each
// nonterminal's running FIRST set only ever grows, and the set of subsets
// of a finite alphabet is a finite lattice, so repeating the pass until no
// nonterminal's set changes is guaranteed to halt (spec.md §4.E/§4.G).
func (g *Grammar) First(it Item) collections.IntSet {
	g.ensureFirstCache()
	return firstOfItemUsingCache(it, g.rules, g.firstCache)
}

// FirstSeq returns FIRST of an item sequence (spec.md §4.E: scan
// left-to-right, accumulating FIRST(item)\{empty} and stopping at the
// first item whose FIRST lacks empty; include empty if the walk runs off
// the end of the sequence).
func (g *Grammar) FirstSeq(seq []Item) collections.IntSet {
	g.ensureFirstCache()
	return firstSeqUsingCache(seq, g.rules, g.firstCache)
}

// ensureFirstCache (re)computes the memoized per-nonterminal FIRST sets if
// stale (cleared by AddRule).
func (g *Grammar) ensureFirstCache() {
	if g.firstCache != nil {
		return
	}
	cache := map[int]collections.IntSet{}
	for _, id := range g.NonTerminals() {
		cache[id] = collections.NewIntSet()
	}
	for changed := true; changed; {
		changed = false
		for _, id := range g.NonTerminals() {
			next := collections.NewIntSet()
			for _, r := range g.rules[id] {
				next.AddAll(firstSeqUsingCache(r.RHS, g.rules, cache))
			}
			if !next.Equal(cache[id]) {
				cache[id] = next
				changed = true
			}
		}
	}
	g.firstCache = cache
}

// firstOfItemUsingCache computes FIRST(it) reading nonterminal FIRST sets
// from cache rather than recursing into Grammar.First, so the fixpoint
// loop above never re-enters its own memoization.
func firstOfItemUsingCache(it Item, rules map[int][]Rule, cache map[int]collections.IntSet) collections.IntSet {
	switch it.Kind {
	case KindTerminal, KindEmpty, KindEndOfInput, KindEndOfGuard:
		return collections.NewIntSet([]int{it.ID})
	case KindNonterminal:
		if s, ok := cache[it.ID]; ok {
			return s
		}
		return collections.NewIntSet()
	case KindAlt:
		out := collections.NewIntSet()
		for _, c := range it.Children {
			out.AddAll(firstOfItemUsingCache(c, rules, cache))
		}
		return out
	case KindOpt:
		out := firstOfItemUsingCache(*it.Child, rules, cache)
		out = out.Copy()
		out.Add(EmptyID)
		return out
	case KindRepeat:
		out := firstOfItemUsingCache(*it.Child, rules, cache)
		if it.Min == 0 {
			out = out.Copy()
			out.Add(EmptyID)
		}
		return out
	case KindGuard:
		out := collections.NewIntSet()
		for _, r := range rules[it.Rule] {
			out.AddAll(firstSeqUsingCache(r.RHS, rules, cache))
		}
		return out
	}
	return collections.NewIntSet()
}

// firstSeqUsingCache implements spec.md §4.E's FirstSeq algorithm against
// the cache rather than the public memoized accessor.
func firstSeqUsingCache(seq []Item, rules map[int][]Rule, cache map[int]collections.IntSet) collections.IntSet {
	out := collections.NewIntSet()
	for _, it := range seq {
		f := firstOfItemUsingCache(it, rules, cache)
		for _, sym := range f.Elements() {
			if sym != EmptyID {
				out.Add(sym)
			}
		}
		if !f.Has(EmptyID) {
			return out
		}
	}
	out.Add(EmptyID)
	return out
}
