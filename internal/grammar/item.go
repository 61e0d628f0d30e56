// Package grammar implements the grammar/rule/item model and FIRST-set
// computation spec.md §3/§4.E describe, plus the LR(0)/LR(1) item and
// item-set machinery §4.F builds on top of it (spec.md modules E and F).
//
// Grounded on ictiobus/grammar/item.go for LR0Item/LR1Item's shape and
// tunascript/grammar.go for the Grammar API surface (AddRule, AddTerm,
// NonTerminals, FIRST), both generalized from bare string symbols to the
// tagged-variant Item spec.md §3 requires (terminal/nonterminal/empty/
// end_of_input/end_of_guard plus the EBNF alt/opt/repeat/guard shapes
// ictiobus's distillation dropped — restored here from
// TameParse/ContextFree/standard_items.cpp and guard.h, original_source).
package grammar

import "fmt"

// Reserved sentinel ids for the three non-terminal "terminal-like" items,
// mirroring the -1/-2/-3 lexical-id reservation spec.md §6 uses (a
// distinct namespace from internal/automaton's ε class id, which reserves
// -1 for a different alphabet entirely).
const (
	EndOfInput = -1
	EndOfGuard = -2
	EmptyID    = -3
)

// Kind tags an Item's variant. Items compare first by Kind, so this
// ordering IS the "variant tag" spec.md §3 requires items to sort by
// first.
type Kind int

const (
	KindTerminal Kind = iota
	KindNonterminal
	KindEmpty
	KindEndOfInput
	KindEndOfGuard
	KindAlt
	KindOpt
	KindRepeat
	KindGuard
)

// Item is the tagged-variant grammar symbol spec.md §3 defines. Only the
// fields relevant to Kind are meaningful; zero value of the rest is
// ignored. Items have structural equality and the total order Less
// implements (spec.md: "first by variant tag, then by payload... stable
// across runs").
type Item struct {
	Kind Kind

	// ID holds the terminal/nonterminal id for KindTerminal/
	// KindNonterminal, and the fixed sentinel for KindEmpty/
	// KindEndOfInput/KindEndOfGuard (EmptyID/EndOfInput/EndOfGuard
	// respectively), so FIRST computation can treat all four
	// "atomic" kinds uniformly by reading ID.
	ID int

	Children []Item // KindAlt
	Child    *Item  // KindOpt, KindRepeat
	Min      int    // KindRepeat: 0 or 1

	Rule     int // KindGuard: nonterminal id of the guard's rule
	Priority int // KindGuard
}

func Terminal(id int) Item      { return Item{Kind: KindTerminal, ID: id} }
func Nonterminal(id int) Item   { return Item{Kind: KindNonterminal, ID: id} }
func Empty() Item               { return Item{Kind: KindEmpty, ID: EmptyID} }
func EndOfInputItem() Item      { return Item{Kind: KindEndOfInput, ID: EndOfInput} }
func EndOfGuardItem() Item      { return Item{Kind: KindEndOfGuard, ID: EndOfGuard} }
func Alt(children ...Item) Item { return Item{Kind: KindAlt, Children: children} }
func Opt(child Item) Item       { return Item{Kind: KindOpt, Child: &child} }
func RepeatItem(child Item, min int) Item {
	return Item{Kind: KindRepeat, Child: &child, Min: min}
}
func Guard(rule, priority int) Item {
	return Item{Kind: KindGuard, Rule: rule, Priority: priority}
}

// GenerateTransition reports whether this item, as a dot-symbol, admits
// an LR transition (spec.md §4.G: "items whose generate_transition() is
// true; empty never does").
func (it Item) GenerateTransition() bool {
	return it.Kind != KindEmpty
}

// IsTerminalLike reports whether the item behaves as a leaf terminal
// symbol for FIRST-set purposes (spec.md §4.E's first four cases).
func (it Item) IsTerminalLike() bool {
	switch it.Kind {
	case KindTerminal, KindEmpty, KindEndOfInput, KindEndOfGuard:
		return true
	}
	return false
}

func (it Item) Equal(o Item) bool {
	return itemCmp(it, o) == 0
}

// Less implements the total order spec.md §3 requires: first by variant
// tag (Kind), then by payload.
func (it Item) Less(o Item) bool {
	return itemCmp(it, o) < 0
}

// itemCmp returns -1, 0, or 1 comparing it to o; used by both Less and
// Equal so the two never disagree.
func itemCmp(a, b Item) int {
	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1
		}
		return 1
	}
	switch a.Kind {
	case KindTerminal, KindNonterminal, KindEmpty, KindEndOfInput, KindEndOfGuard:
		return intCmp(a.ID, b.ID)
	case KindAlt:
		return itemSliceCmp(a.Children, b.Children)
	case KindOpt:
		return itemPtrCmp(a.Child, b.Child)
	case KindRepeat:
		if c := itemPtrCmp(a.Child, b.Child); c != 0 {
			return c
		}
		return intCmp(a.Min, b.Min)
	case KindGuard:
		if c := intCmp(a.Rule, b.Rule); c != 0 {
			return c
		}
		return intCmp(a.Priority, b.Priority)
	}
	return 0
}

func intCmp(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func itemPtrCmp(a, b *Item) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	return itemCmp(*a, *b)
}

func itemSliceCmp(a, b []Item) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := itemCmp(a[i], b[i]); c != 0 {
			return c
		}
	}
	return intCmp(len(a), len(b))
}

func (it Item) String() string {
	switch it.Kind {
	case KindTerminal:
		return fmt.Sprintf("t%d", it.ID)
	case KindNonterminal:
		return fmt.Sprintf("N%d", it.ID)
	case KindEmpty:
		return "ε"
	case KindEndOfInput:
		return "$"
	case KindEndOfGuard:
		return "$guard"
	case KindAlt:
		return fmt.Sprintf("alt%v", it.Children)
	case KindOpt:
		return fmt.Sprintf("opt(%s)", it.Child.String())
	case KindRepeat:
		return fmt.Sprintf("repeat(%s,min=%d)", it.Child.String(), it.Min)
	case KindGuard:
		return fmt.Sprintf("guard(rule=%d,pri=%d)", it.Rule, it.Priority)
	}
	return "?"
}
