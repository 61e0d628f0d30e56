package regex

import (
	"github.com/mossforge/lrtab/internal/automaton"
	"github.com/mossforge/lrtab/internal/symbols"
)

// TerminalDef is one lexical rule contributing to a combined NFA: a
// parsed pattern plus the accept action it should record on match,
// matching spec.md §3's AcceptAction triple (terminal id, eager flag,
// priority) with DefOrder set by the caller to the rule's position in
// the lexical specification, used as the final tiebreaker.
//
// StrongEquivalent carries the surface grammar's per-terminal "weak?"
// flag (spec.md §6's terminal declaration tuple) down into the builder:
// a negative value (conventionally -1) means this terminal is ordinary,
// a non-negative value names the terminal id this one is weak under (spec.md §4.I). The surface syntax that
// would produce this value is out of scope; callers set it directly.
type TerminalDef struct {
	Pattern          Node
	Accept           automaton.AcceptAction
	StrongEquivalent int
}

// CompileLexicalSpec builds one master NFA for an entire lexical
// specification: each TerminalDef's pattern is compiled against the
// shared symbol map m, then every resulting fragment is joined under a
// single fresh start state via ε edges (spec.md §4.D step 1, "build one
// NFA per terminal, then union them under a shared start state").
//
// The returned NFA still carries the pre-dedup alphabet from m; callers
// run symbols.Deduplicate(m) and RemapClasses on the result before
// feeding it to automaton.NFA.ToDFA, per spec.md §4.A.
func CompileLexicalSpec(m *symbols.Map, defs []TerminalDef) *automaton.NFA {
	master := automaton.New()
	for _, def := range defs {
		frag := CompileTerminal(m, def.Pattern, def.Accept)
		master.Join(frag, [][2]int{{master.Start, frag.Start}}, nil)
	}
	return master
}
