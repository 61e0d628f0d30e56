package regex

import (
	"github.com/mossforge/lrtab/internal/automaton"
	"github.com/mossforge/lrtab/internal/symbols"
)

// CompileTerminal builds a standalone NFA fragment for one terminal's
// regex, with `accept` recorded at the fragment's single end state —
// completing the teacher's never-finished RegexToNFA via the same
// fragment-composition shape ictiobus/lex/regex.go sketches
// (createSingleSymbolFA / createJuxtapositionFA / createKleeneStarFA /
// createAlternationFA), implemented here as one recursive walk instead of
// four separate ad hoc helpers.
//
// Literal sets are registered into m by raw codepoint Set, not yet
// deduplicated against other terminals' sets — callers are expected to
// run symbols.Deduplicate(m) once every terminal in a lexical
// specification has been compiled, then rewrite every produced NFA's
// classes via RemapClasses before joining them or running subset
// construction (spec.md §4.A: dedup happens once, globally, after every
// pattern contributes its ranges).
func CompileTerminal(m *symbols.Map, node Node, accept automaton.AcceptAction) *automaton.NFA {
	n := automaton.New()
	end := build(n, m, node, n.Start)
	n.AddAccept(end, accept)
	return n
}

// build recursively lays out node's Thompson fragment starting at state
// `at` (already present in n), returning the fragment's single end
// state. Every case only ever adds new states and ε/class transitions;
// it never removes or rewires the `at` state itself, so callers can
// freely reuse an existing state as a fragment's entry point (used to
// splice repetitions together without an extra ε hop per copy).
func build(n *automaton.NFA, m *symbols.Map, node Node, at int) int {
	switch t := node.(type) {
	case Literal:
		end := n.AddState()
		class := m.IdentifierFor(t.Set)
		n.AddTransition(at, class, end)
		return end

	case Concat:
		cur := at
		for _, child := range t.Of {
			cur = build(n, m, child, cur)
		}
		return cur

	case Alternate:
		end := n.AddState()
		for _, child := range t.Of {
			childEnd := build(n, m, child, at)
			n.AddTransition(childEnd, symbols.Epsilon, end)
		}
		return end

	case Repeat:
		return buildRepeat(n, m, t, at)

	default:
		panic("regex: unhandled node type in build")
	}
}

// buildRepeat unrolls {min,max} into min mandatory copies followed by
// either (max-min) optional copies (finite upper bound) or a Kleene-star
// tail (unbounded, Max == -1), the standard decomposition a{2,4} = aa a?a?
// and a{2,} = aa a*.
func buildRepeat(n *automaton.NFA, m *symbols.Map, r Repeat, at int) int {
	cur := at
	for i := 0; i < r.Min; i++ {
		cur = build(n, m, r.Of, cur)
	}

	if r.Max == -1 {
		loopStart := n.AddState()
		n.AddTransition(cur, symbols.Epsilon, loopStart)
		bodyEnd := build(n, m, r.Of, loopStart)
		n.AddTransition(bodyEnd, symbols.Epsilon, loopStart)
		end := n.AddState()
		n.AddTransition(loopStart, symbols.Epsilon, end)
		return end
	}

	end := n.AddState()
	n.AddTransition(cur, symbols.Epsilon, end)
	for i := r.Min; i < r.Max; i++ {
		cur = build(n, m, r.Of, cur)
		n.AddTransition(cur, symbols.Epsilon, end)
	}
	return end
}

// RemapClasses rewrites every class-labelled transition in n according to
// newSymbolsOf (as produced by symbols.Deduplicate): a transition
// originally on old class `c` becomes one parallel transition per entry
// of newSymbolsOf[c], since the dedup'd classes that union back to `c`
// are now the ones that actually appear in the shared alphabet. ε
// transitions (symbols.Epsilon) pass through unchanged, and every
// state's accept actions are preserved as-is since they key off terminal
// id, not symbol class.
//
// Grounded on TameParse/Dfa/remapped_symbol_map.h's deduplicate, whose
// whole purpose per spec.md §3 is letting every NFA built against the
// pre-dedup alphabet be corrected after the fact rather than rebuilt.
func RemapClasses(n *automaton.NFA, newSymbolsOf [][]int) *automaton.NFA {
	out := automaton.New()
	for out.NumStates() < n.NumStates() {
		out.AddState()
	}
	out.Start = n.Start

	for s := 0; s < n.NumStates(); s++ {
		for class, tos := range n.RawTransitions(s) {
			for _, to := range tos {
				if class == symbols.Epsilon {
					out.AddTransition(s, symbols.Epsilon, to)
					continue
				}
				for _, nc := range newSymbolsOf[class] {
					out.AddTransition(s, nc, to)
				}
			}
		}
		for _, a := range n.AcceptsAt(s) {
			out.AddAccept(s, a)
		}
	}
	return out
}
