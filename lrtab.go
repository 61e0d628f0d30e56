// Package lrtab is the pipeline entrypoint tying together spec.md §2's
// data flow: regex -> automaton (NFA -> DFA, minimize) -> weak split ->
// grammar/lalr (LALR machine) -> lrtable (assemble + rewrite) ->
// wire.Table. It mirrors the shape of dekarrin-tunaq's top-level
// ictiobus.go façade (a single entry orchestrating sub-packages phase by
// phase) minus the surface-grammar-file front end spec.md places out of
// scope — Generate accepts an already-built grammar.Grammar and lexical
// spec rather than parsing them from a file.
package lrtab

import (
	"fmt"
	"sort"

	"github.com/mossforge/lrtab/internal/automaton"
	"github.com/mossforge/lrtab/internal/config"
	"github.com/mossforge/lrtab/internal/diag"
	"github.com/mossforge/lrtab/internal/grammar"
	"github.com/mossforge/lrtab/internal/lalr"
	"github.com/mossforge/lrtab/internal/lrtable"
	"github.com/mossforge/lrtab/internal/regex"
	"github.com/mossforge/lrtab/internal/symbols"
	"github.com/mossforge/lrtab/internal/wire"
)

// Generate builds a complete generated-table binary from a grammar and a
// lexical specification, applying opts' minimize/rewrite-order/weak-
// promotion knobs. Diagnostics always accumulate in the returned Bag;
// the returned *wire.Table is nil whenever the bag HasErrors (spec.md
// §7: "errors suppress emission of the table but not further
// diagnostics").
func Generate(g grammar.Grammar, lexSpec []regex.TerminalDef, opts config.BuildOptions) (*wire.Table, *diag.Bag, error) {
	diags := diag.New()

	if g.IsEmpty() {
		diags.Addf(diag.Error, diag.EmptyGrammar, nil, "grammar has no rules or no start symbol")
		return nil, diags, nil
	}
	if missing := g.UndefinedNonterminals(); len(missing) > 0 {
		diags.Addf(diag.Error, diag.UnknownNonterminal, map[string]any{"nonterminals": missing},
			"nonterminal(s) referenced but never defined: %v", missing)
		return nil, diags, nil
	}
	if missing := g.UndefinedTerminals(); len(missing) > 0 {
		diags.Addf(diag.Error, diag.UnknownTerminal, map[string]any{"terminals": missing},
			"terminal(s) referenced but never defined: %v", missing)
		return nil, diags, nil
	}

	for _, r := range g.RulesWithEmptyFirstAndFollow() {
		diags.Addf(diag.Warning, diag.RuleHasEmptyFirstAndFollow, map[string]any{"nonterminal": r.LHS},
			"rule for nonterminal %d (%s) has empty FIRST and FOLLOW; it can never be reduced",
			r.LHS, g.NonterminalName(r.LHS))
	}

	dfa, classes, weakToStrong, err := buildLexicalAutomaton(&g, lexSpec, opts, diags)
	if err != nil {
		return nil, diags, fmt.Errorf("lrtab: lexical automaton: %w", err)
	}

	machine := lalr.Build(&g)

	rules := lrtable.BuildRuleTable(machine.Augmented)
	table := lrtable.Assemble(machine, rules, diags)

	for _, kind := range opts.RewriteOrder {
		switch kind {
		case config.RewriteWeakSymbol:
			if opts.WeakPromotion {
				lrtable.RewriteWeakSymbols(table, weakToStrong, diags)
			}
		case config.RewriteLR1Conflict:
			lrtable.RewriteLR1Conflicts(table, diags)
		case config.RewriteConflictResolve:
			lrtable.RewriteConflictResolution(table, diags)
		}
	}

	if diags.HasErrors() {
		return nil, diags, nil
	}

	wt := wire.BuildTable(table, dfa, classes, weakToStrong,
		len(g.Terminals()), len(g.NonTerminals()), grammar.EndOfInput, grammar.EndOfGuard)

	return wt, diags, nil
}

// buildLexicalAutomaton runs spec.md §4.D's pipeline (subset
// construction, optional minimization, class dedup) over the supplied
// lexical spec, then spec.md §4.I's DFA split for any weak terminals
// lexSpec declares via TerminalDef.StrongEquivalent.
func buildLexicalAutomaton(g *grammar.Grammar, lexSpec []regex.TerminalDef, opts config.BuildOptions, diags *diag.Bag) (*automaton.DFA, *symbols.Map, map[int]int, error) {
	if len(lexSpec) == 0 {
		return nil, symbols.NewMap(), map[int]int{}, nil
	}

	m := symbols.NewMap()
	master := regex.CompileLexicalSpec(m, lexSpec)

	dedup, newSymbolsOf := symbols.Deduplicate(m)
	remapped := regex.RemapClasses(master, newSymbolsOf)

	dfa := remapped.ToDFA()
	if opts.Minimize {
		dfa = automaton.Minimize(dfa)
		dfa, dedup = automaton.MergeClasses(dfa, dedup)
	}

	weakToStrong := map[int]int{}
	for _, def := range lexSpec {
		if def.StrongEquivalent >= 0 {
			weakToStrong[def.Accept.Symbol] = def.StrongEquivalent
		}
	}

	if len(weakToStrong) > 0 {
		split, extra := automaton.SplitWeakAccepts(g, dfa, weakToStrong)
		dfa = split
		for w, s := range extra {
			weakToStrong[w] = s
		}
	}

	for _, sym := range unmatchedTerminals(g, lexSpec) {
		diags.Addf(diag.Warning, diag.TerminalNeverMatched, map[string]any{"terminal": sym},
			"terminal %d (%s) has no lexical rule", sym, g.TerminalName(sym))
	}

	for sym, beatenBy := range shadowedTerminals(dfa) {
		diags.Addf(diag.Warning, diag.TerminalNeverMatched, map[string]any{"terminal": sym, "shadowed_by": beatenBy},
			"terminal %d (%s) has a lexical rule but never wins an accept state; always shadowed by %v",
			sym, g.TerminalName(sym), beatenBy)
	}

	return dfa, dedup, weakToStrong, nil
}

// unmatchedTerminals reports every grammar terminal with no contributing
// TerminalDef, surfaced as spec.md §7's TerminalNeverMatched warning.
func unmatchedTerminals(g *grammar.Grammar, lexSpec []regex.TerminalDef) []int {
	defined := map[int]bool{}
	for _, def := range lexSpec {
		defined[def.Accept.Symbol] = true
	}
	var out []int
	for _, t := range g.Terminals() {
		if !defined[t] {
			out = append(out, t)
		}
	}
	return out
}

// shadowedTerminals implements spec.md §4.D's other TerminalNeverMatched
// trigger: "scanning final accept sets and marking any terminal never
// chosen as the winner" under DFA.Winner's (priority, definition-order)
// tiebreak. A terminal with a lexical rule can still never fire if every
// accept state it reaches is always won by some other terminal; this
// scans every state's kept accept set against its Winner() and reports
// exactly that case, distinct from unmatchedTerminals' "no rule at all".
func shadowedTerminals(dfa *automaton.DFA) map[int][]int {
	if dfa == nil {
		return nil
	}

	wins := map[int]bool{}
	beatenBy := map[int]map[int]bool{}
	for i := range dfa.States {
		winner, shadowed, ok := dfa.Winner(i)
		if !ok {
			continue
		}
		wins[winner.Symbol] = true
		for _, loser := range shadowed {
			if beatenBy[loser.Symbol] == nil {
				beatenBy[loser.Symbol] = map[int]bool{}
			}
			beatenBy[loser.Symbol][winner.Symbol] = true
		}
	}

	out := map[int][]int{}
	for sym, byWhom := range beatenBy {
		if wins[sym] {
			continue // wins at some other state, so it is matched eventually
		}
		list := make([]int, 0, len(byWhom))
		for b := range byWhom {
			list = append(list, b)
		}
		sort.Ints(list)
		out[sym] = list
	}
	return out
}
