package lrtable

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/mossforge/lrtab/internal/diag"
)

// RewriteWeakSymbols implements spec.md §4.H rewriter 1: for each weak
// terminal w with strong equivalent s, where a state has an action on s
// but none on w, duplicate that action as shiftstrong(w) so the driver
// promotes w to s. Where a state already has actions on both, w's action
// is kept as-is and a diagnostic records that s was shadowed.
func RewriteWeakSymbols(t *Table, weakToStrong map[int]int, diags *diag.Bag) {
	for si := range t.States {
		terms := t.States[si].Terminals
		hasAction := func(sym int) (Action, bool) {
			for _, a := range terms {
				if a.Symbol == sym {
					return a, true
				}
			}
			return Action{}, false
		}

		var added []Action
		for w, s := range weakToStrong {
			sAct, hasS := hasAction(s)
			_, hasW := hasAction(w)
			if hasS && !hasW {
				added = append(added, Action{Kind: ShiftStrong, Symbol: w, Target: sAct.Target, Rule: sAct.Rule})
			} else if hasS && hasW {
				diags.Addf(diag.Detail, diag.TerminalNeverMatched, map[string]any{"state": si, "weak": w, "strong": s},
					"state %d: weak terminal %d kept over strong equivalent %d", si, w, s)
			}
		}
		if len(added) > 0 {
			t.States[si].Terminals = append(t.States[si].Terminals, added...)
			sortActions(t.States[si].Terminals)
		}
	}
}

// RewriteLR1Conflicts implements spec.md §4.H rewriter 2: for each
// reduce/reduce or shift/reduce conflict, simulate the reduction(s) and
// check whether the conflicted lookahead would be shifted once the
// reduction's goto is reached. If exactly one candidate would shift,
// demote every other reduce candidate sharing the symbol to weakreduce.
//
// Simplification (recorded in DESIGN.md): "reaching the reduction's
// goto" is approximated by the reducing state's own goto column for the
// rule's LHS, rather than replaying the full parse-stack pop — correct
// whenever the reduction's production length keeps the dot inside the
// current state's kernel, which covers the common single-level
// conflicts this builder is expected to resolve.
func RewriteLR1Conflicts(t *Table, diags *diag.Bag) {
	for si := range t.States {
		groups := groupBySymbol(t.States[si].Terminals)
		for sym, acts := range groups {
			reduces := filterKind(acts, Reduce)
			shifts := filterKind(acts, Shift, ShiftStrong)

			switch {
			case len(reduces) >= 2:
				resolveReduceReduce(t, si, sym, reduces, diags)
			case len(reduces) == 1 && len(shifts) >= 1:
				resolveShiftReduce(t, si, sym, reduces[0], diags)
			}
		}
	}
}

func resolveReduceReduce(t *Table, state, sym int, reduces []Action, diags *diag.Bag) {
	shiftsAfter := make([]bool, len(reduces))
	count := 0
	for i, r := range reduces {
		shiftsAfter[i] = postReduceShifts(t, state, r, sym)
		if shiftsAfter[i] {
			count++
		}
	}
	if count == 1 {
		for i, r := range reduces {
			if !shiftsAfter[i] {
				demoteToWeak(t, state, sym, r)
			}
		}
		return
	}
	var rules []int
	for _, r := range reduces {
		rules = append(rules, r.Rule)
	}
	diags.Addf(diag.Error, diag.ReduceReduceConflict, map[string]any{"state": state, "symbol": sym, "rules": rules},
		"reduce/reduce conflict in state %d on symbol %d among rules %v", state, sym, rules)
}

func resolveShiftReduce(t *Table, state, sym int, reduce Action, diags *diag.Bag) {
	if postReduceShifts(t, state, reduce, sym) {
		demoteToWeak(t, state, sym, reduce)
		return
	}
	diags.Addf(diag.Warning, diag.ShiftReduceConflict, map[string]any{"state": state, "symbol": sym, "rule": reduce.Rule},
		"shift/reduce conflict in state %d on symbol %d resolved in favor of shift", state, sym)
}

// postReduceShifts reports whether, after reducing by r's rule from
// state, the resulting goto state has a shift/shiftstrong action on sym.
func postReduceShifts(t *Table, state int, r Action, sym int) bool {
	if r.Rule < 0 || r.Rule >= t.Rules.Len() {
		return false
	}
	lhs := t.Rules.Rules()[r.Rule].LHS
	for _, g := range t.States[state].Nonterminals {
		if g.Symbol == lhs {
			for _, a := range t.States[g.Target].Terminals {
				if a.Symbol == sym && (a.Kind == Shift || a.Kind == ShiftStrong) {
					return true
				}
			}
			return false
		}
	}
	return false
}

func demoteToWeak(t *Table, state, sym int, r Action) {
	terms := t.States[state].Terminals
	for i, a := range terms {
		if a.Symbol == sym && a.Kind == Reduce && a.Rule == r.Rule {
			terms[i].Kind = WeakReduce
		}
	}
	sortActions(terms)
}

// RewriteConflictResolution implements spec.md §4.H rewriter 3: report
// any conflicts surviving rewriter 2. This internal model has no surface
// for a user-supplied disambiguation priority (surface grammar syntax is
// out of scope per spec.md §1), so the "drop the losing action" half of
// the rule never fires here — only the reporting half applies.
func RewriteConflictResolution(t *Table, diags *diag.Bag) {
	for si := range t.States {
		groups := groupBySymbol(t.States[si].Terminals)
		for sym, acts := range groups {
			conflict := treeset.NewWith(func(a, b interface{}) int {
				x, y := a.(Action), b.(Action)
				switch {
				case x.Kind < y.Kind:
					return -1
				case x.Kind > y.Kind:
					return 1
				case x.Rule < y.Rule:
					return -1
				case x.Rule > y.Rule:
					return 1
				default:
					return 0
				}
			})
			for _, a := range acts {
				if a.Kind == Reduce || a.Kind == Shift {
					conflict.Add(a)
				}
			}
			if conflict.Size() >= 2 {
				code := diag.ShiftReduceConflict
				if len(filterKind(acts, Shift)) == 0 {
					code = diag.ReduceReduceConflict
				}
				diags.Addf(diag.Error, code, map[string]any{"state": si, "symbol": sym},
					"unresolved conflict in state %d on symbol %d after rewriters", si, sym)
			}
		}
	}
}

func groupBySymbol(acts []Action) map[int][]Action {
	out := map[int][]Action{}
	for _, a := range acts {
		out[a.Symbol] = append(out[a.Symbol], a)
	}
	return out
}

func filterKind(acts []Action, kinds ...Kind) []Action {
	var out []Action
	for _, a := range acts {
		for _, k := range kinds {
			if a.Kind == k {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

func sortActions(acts []Action) {
	for i := 1; i < len(acts); i++ {
		for j := i; j > 0 && acts[j].Less(acts[j-1]); j-- {
			acts[j], acts[j-1] = acts[j-1], acts[j]
		}
	}
}
