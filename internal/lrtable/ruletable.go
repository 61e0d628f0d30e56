package lrtable

import "github.com/mossforge/lrtab/internal/grammar"

// RuleTable assigns stable, deterministic ids to every rule in a grammar
// (spec.md §3 "rule table (lhs_id, rhs_length)"), in nonterminal-id then
// per-nonterminal-rule-order, so ids never depend on map iteration order.
type RuleTable struct {
	ids   map[string]int
	rules []grammar.Rule
}

// BuildRuleTable walks every nonterminal in ascending id order and every
// rule in its definition order, assigning the next free id.
func BuildRuleTable(g *grammar.Grammar) *RuleTable {
	rt := &RuleTable{ids: map[string]int{}}
	for _, nt := range g.NonTerminals() {
		for _, r := range g.Rules(nt) {
			key := r.String()
			if _, ok := rt.ids[key]; ok {
				continue
			}
			rt.ids[key] = len(rt.rules)
			rt.rules = append(rt.rules, r)
		}
	}
	return rt
}

// IDOf returns the assigned id for r.
func (rt *RuleTable) IDOf(r grammar.Rule) int {
	return rt.ids[r.String()]
}

// Rules returns every rule in id order.
func (rt *RuleTable) Rules() []grammar.Rule {
	return rt.rules
}

// Len returns the number of distinct rules.
func (rt *RuleTable) Len() int {
	return len(rt.rules)
}
