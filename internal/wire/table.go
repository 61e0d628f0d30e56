// Package wire implements the binary generated-table format spec.md §6
// defines: the on-disk shape a runtime driver loads to parse. This
// package owns only the format — the driver loop itself is explicitly
// out of scope (spec.md §1).
package wire

import (
	"sort"

	"github.com/mossforge/lrtab/internal/automaton"
	"github.com/mossforge/lrtab/internal/lrtable"
	"github.com/mossforge/lrtab/internal/symbols"
)

// Magic identifies a generated table file. Version allows the layout to
// change without silently misreading an old file.
const (
	Magic   uint32 = 0x4C525442 // "LRTB"
	Version uint32 = 1
)

// Header is spec.md §6's header block.
type Header struct {
	Magic             uint32
	Version           uint32
	StateCount        int
	TerminalCount     int
	NonterminalCount  int
	EndOfInput        int
	EndOfGuard        int
	InitialStateCount int
}

// ActionEntry is one (symbol_id, kind, target) triple. Target's meaning
// depends on Kind: a state id for shift/shiftstrong/goto/divert, a rule
// id for reduce/weakreduce/accept, and the embedded guard rule's id
// (lrtable.Action.GuardRule) for guard.
type ActionEntry struct {
	Symbol int
	Kind   uint8
	Target int
}

// StateActions is one state's terminal and nonterminal action runs, each
// already sorted per spec.md §4.H.
type StateActions struct {
	Terminals    []ActionEntry
	Nonterminals []ActionEntry
}

// RuleEntry is the rule table's (lhs_id, rhs_length) pair.
type RuleEntry struct {
	LHS       int
	RHSLength int
}

// WeakPair is one weak->strong terminal mapping, sorted by Weak in the
// final table.
type WeakPair struct {
	Weak   int
	Strong int
}

// DFATransition is one (class_id, target) pair out of a DFA state,
// sorted by ClassID.
type DFATransition struct {
	ClassID int
	Target  int
}

// DFAAccept is one accept action reaching a DFA state.
type DFAAccept struct {
	Terminal int
	Eager    bool
	Priority int
}

// DFAStateEntry is one DFA state's outgoing transitions and accepts.
type DFAStateEntry struct {
	Transitions []DFATransition
	Accepts     []DFAAccept
}

// ClassRange is one entry of the flat symbol-class table, sorted by Lo.
type ClassRange struct {
	Lo, Hi  int
	ClassID int
}

// Table is the full generated-table format of spec.md §6, ready to
// marshal/unmarshal as a single binary blob.
type Table struct {
	Header       Header
	StateOffsets []int // len == Header.StateCount+1, offsets into the action region
	States       []StateActions
	Rules        []RuleEntry
	WeakToStrong []WeakPair
	DFAStates    []DFAStateEntry
	Classes      []ClassRange
}

// BuildTable assembles a wire.Table from the built LALR action table, the
// lexical DFA, and the deduplicated symbol-class map — the last stage of
// the pipeline lrtab.go's Generate wires together (spec.md §2's "regex ->
// automaton -> ... -> lrtable -> wire").
func BuildTable(lt *lrtable.Table, dfa *automaton.DFA, classes *symbols.Map,
	weakToStrong map[int]int, terminalCount, nonterminalCount, endOfInput, endOfGuard int) *Table {

	t := &Table{
		Header: Header{
			Magic:             Magic,
			Version:           Version,
			StateCount:        len(lt.States),
			TerminalCount:     terminalCount,
			NonterminalCount:  nonterminalCount,
			EndOfInput:        endOfInput,
			EndOfGuard:        endOfGuard,
			InitialStateCount: 1,
		},
	}

	offset := 0
	t.StateOffsets = append(t.StateOffsets, offset)
	for _, st := range lt.States {
		wireState := StateActions{
			Terminals:    toActionEntries(st.Terminals),
			Nonterminals: toActionEntries(st.Nonterminals),
		}
		t.States = append(t.States, wireState)
		offset += len(wireState.Terminals) + len(wireState.Nonterminals)
		t.StateOffsets = append(t.StateOffsets, offset)
	}

	for _, r := range lt.Rules.Rules() {
		t.Rules = append(t.Rules, RuleEntry{LHS: r.LHS, RHSLength: len(r.RHS)})
	}

	var weaks []int
	for w := range weakToStrong {
		weaks = append(weaks, w)
	}
	sort.Ints(weaks)
	for _, w := range weaks {
		t.WeakToStrong = append(t.WeakToStrong, WeakPair{Weak: w, Strong: weakToStrong[w]})
	}

	if dfa != nil {
		for _, st := range dfa.States {
			entry := DFAStateEntry{}
			var classIDs []int
			for c := range st.Transitions {
				classIDs = append(classIDs, c)
			}
			sort.Ints(classIDs)
			for _, c := range classIDs {
				entry.Transitions = append(entry.Transitions, DFATransition{ClassID: c, Target: st.Transitions[c]})
			}
			for _, a := range st.Accepts {
				entry.Accepts = append(entry.Accepts, DFAAccept{Terminal: a.Symbol, Eager: a.Eager, Priority: a.Priority})
			}
			t.DFAStates = append(t.DFAStates, entry)
		}
	}

	if classes != nil {
		for id := 0; id < classes.NumClasses(); id++ {
			for _, rng := range classes.Cell(id).Ranges() {
				t.Classes = append(t.Classes, ClassRange{Lo: rng.Lo, Hi: rng.Hi, ClassID: id})
			}
		}
		sort.Slice(t.Classes, func(i, j int) bool { return t.Classes[i].Lo < t.Classes[j].Lo })
	}

	return t
}

func toActionEntries(acts []lrtable.Action) []ActionEntry {
	out := make([]ActionEntry, len(acts))
	for i, a := range acts {
		out[i] = ActionEntry{Symbol: a.Symbol, Kind: uint8(a.Kind), Target: wireTarget(a)}
	}
	return out
}

// wireTarget collapses Action's Target/Rule/GuardRule fields into the
// single i32 spec.md §6's action triple carries, per kind.
func wireTarget(a lrtable.Action) int {
	switch a.Kind {
	case lrtable.Reduce, lrtable.WeakReduce, lrtable.Accept:
		return a.Rule
	case lrtable.Guard:
		return a.GuardRule
	default:
		return a.Target
	}
}
