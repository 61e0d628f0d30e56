package lrtable

import (
	"sort"

	"github.com/mossforge/lrtab/internal/diag"
	"github.com/mossforge/lrtab/internal/grammar"
	"github.com/mossforge/lrtab/internal/lalr"
)

// StateActions is one state's two disjoint sorted action runs (spec.md
// §3 "Parser tables"/§4.H): Terminals keyed by terminal/end-marker id
// (shift, reduce, accept, guard and divert actions), Nonterminals keyed by
// nonterminal id (goto actions only).
type StateActions struct {
	Terminals    []Action
	Nonterminals []Action
}

// Table is the raw, pre-rewrite action set for every state of an
// lalr.Machine, grounded on ictiobus/parse/lalr.go's per-state Action
// method generalized from "compute on demand" to "assemble once, sort,
// rewrite".
type Table struct {
	Machine *lalr.Machine
	Rules   *RuleTable
	States  []StateActions
}

// Assemble builds the raw action table from a finished LALR machine
// (spec.md §4.G "Action synthesis from each state S").
func Assemble(m *lalr.Machine, rules *RuleTable, diags *diag.Bag) *Table {
	t := &Table{Machine: m, Rules: rules, States: make([]StateActions, len(m.States))}
	for _, s := range m.States {
		t.States[s.ID] = assembleState(m, rules, s, diags)
	}
	return t
}

func assembleState(m *lalr.Machine, rules *RuleTable, s *lalr.State, diags *diag.Bag) StateActions {
	var terms, nonterms []Action
	var guardItems []grammar.Item

	for _, it := range s.Items.Items() {
		sym, hasDot := it.Core.DotSymbol()
		if !hasDot {
			// A -> alpha . : reduce for each lookahead, or accept if this
			// is the augmented start rule.
			ruleID := rules.IDOf(it.Core.Rule)
			isStart := it.Core.Rule.LHS == m.AugStartID
			for _, la := range it.Lookaheads.Elements() {
				if isStart {
					terms = append(terms, Action{Kind: Accept, Symbol: la, Rule: ruleID})
				} else {
					terms = append(terms, Action{Kind: Reduce, Symbol: la, Rule: ruleID})
				}
			}
			continue
		}

		switch sym.Kind {
		case grammar.KindTerminal, grammar.KindEndOfInput, grammar.KindEndOfGuard:
			if target, ok := m.GotoState(s.ID, sym); ok {
				terms = append(terms, Action{Kind: Shift, Symbol: sym.ID, Target: target})
			}
		case grammar.KindNonterminal:
			if target, ok := m.GotoState(s.ID, sym); ok {
				nonterms = append(nonterms, Action{Kind: Goto, Symbol: sym.ID, Target: target})
			}
		case grammar.KindGuard:
			// Deferred until every shift/reduce action in this state is
			// known, so the divert-collapse below can see the full
			// picture instead of only whichever items happened to be
			// visited first (spec.md §4.G, "no conflict exists").
			guardItems = append(guardItems, sym)
		}
	}

	for _, sym := range guardItems {
		terms = append(terms, guardActions(m, s, sym, terms, diags)...)
	}

	sort.SliceStable(terms, func(i, j int) bool { return terms[i].Less(terms[j]) })
	sort.SliceStable(nonterms, func(i, j int) bool { return nonterms[i].Less(nonterms[j]) })
	return StateActions{Terminals: terms, Nonterminals: nonterms}
}

// guardActions implements spec.md §4.G's guard bullet: emit guard(g) on
// each symbol in initial(g) (the guard's FIRST set, empty excluded);
// collapse to a single divert(state) only when that set is a singleton
// *and* no other action already claims that symbol in this state
// (spec.md:253-255, "if [FIRST] is a single symbol and no conflict
// exists, emit divert(state) instead"). A singleton FIRST that collides
// with an existing shift/reduce is a genuine guard/shift or
// guard/reduce conflict: fall back to emitting guard(g) so the driver
// evaluates the lookahead instead of always diverting blind, and record
// diag.GuardAmbiguity so the conflict is visible.
func guardActions(m *lalr.Machine, s *lalr.State, sym grammar.Item, existing []Action, diags *diag.Bag) []Action {
	target, ok := m.GotoState(s.ID, sym)
	if !ok {
		return nil
	}
	initial := m.Augmented.First(sym)
	var syms []int
	for _, x := range initial.Elements() {
		if x != grammar.EmptyID {
			syms = append(syms, x)
		}
	}
	if len(syms) == 1 && !hasActionOn(existing, syms[0]) {
		return []Action{{Kind: Divert, Symbol: syms[0], Target: target, GuardRule: sym.Rule}}
	}
	if len(syms) == 1 {
		diags.Addf(diag.Warning, diag.GuardAmbiguity, map[string]any{"state": s.ID, "symbol": syms[0], "rule": sym.Rule},
			"state %d: guard rule %d conflicts with an existing action on symbol %d, emitting guard instead of divert",
			s.ID, sym.Rule, syms[0])
	}
	out := make([]Action, 0, len(syms))
	for _, x := range syms {
		out = append(out, Action{Kind: Guard, Symbol: x, Target: target, GuardRule: sym.Rule})
	}
	return out
}

// hasActionOn reports whether acts already contains an action keyed on
// symbol — used to detect a guard/shift or guard/reduce conflict before
// collapsing a singleton-FIRST guard to divert.
func hasActionOn(acts []Action, symbol int) bool {
	for _, a := range acts {
		if a.Symbol == symbol {
			return true
		}
	}
	return false
}
