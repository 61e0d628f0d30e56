package grammar

import "github.com/mossforge/lrtab/internal/collections"

// Follow returns FOLLOW(nonterminal) per the standard dragon-book
// definition: every terminal (or end_of_input/end_of_guard) that can
// appear immediately after nonterminal in some derivation from the
// start symbol. Computed via the same whole-grammar fixpoint style as
// First (ensureFirstCache): each nonterminal's running FOLLOW set only
// ever grows, over a finite alphabet, so repeated passes are guaranteed
// to halt.
//
// end_of_input is seeded into FOLLOW(start) per the usual convention
// (the start symbol is always "followed" by end of input at the top
// level).
func (g *Grammar) Follow(nonterminal int) collections.IntSet {
	g.ensureFollowCache()
	if s, ok := g.followCache[nonterminal]; ok {
		return s
	}
	return collections.NewIntSet()
}

func (g *Grammar) ensureFollowCache() {
	if g.followCache != nil {
		return
	}
	g.ensureFirstCache()

	cache := map[int]collections.IntSet{}
	for _, id := range g.NonTerminals() {
		cache[id] = collections.NewIntSet()
	}
	if g.start != -1 {
		cache[g.start].Add(EndOfInput)
	}

	for changed := true; changed; {
		changed = false
		for _, lhs := range g.NonTerminals() {
			for _, r := range g.rules[lhs] {
				for i, it := range r.RHS {
					if it.Kind != KindNonterminal {
						continue
					}
					rest := r.RHS[i+1:]
					trailer := firstSeqUsingCache(rest, g.rules, g.firstCache)

					before := cache[it.ID].Len()
					for _, sym := range trailer.Elements() {
						if sym != EmptyID {
							cache[it.ID].Add(sym)
						}
					}
					if trailer.Has(EmptyID) {
						cache[it.ID].AddAll(cache[lhs])
					}
					if cache[it.ID].Len() != before {
						changed = true
					}
				}
			}
		}
	}
	g.followCache = cache
}

// RulesWithEmptyFirstAndFollow returns every rule whose body can never
// contribute a real terminal (FirstSeq(rule.RHS) is empty once empty is
// excluded) and whose LHS is never followed by anything either (spec.md
// §7's RuleHasEmptyFirstAndFollow warning: a rule that can neither
// start nor continue a derivation, so no driver input sequence will
// ever trigger its reduction).
func (g *Grammar) RulesWithEmptyFirstAndFollow() []Rule {
	g.ensureFirstCache()
	g.ensureFollowCache()

	var dead []Rule
	for _, id := range g.NonTerminals() {
		follow := g.followCache[id]
		if follow.Len() > 0 {
			continue
		}
		for _, r := range g.rules[id] {
			first := firstSeqUsingCache(r.RHS, g.rules, g.firstCache)
			hasReal := false
			for _, sym := range first.Elements() {
				if sym != EmptyID {
					hasReal = true
					break
				}
			}
			if !hasReal {
				dead = append(dead, r)
			}
		}
	}
	return dead
}
