// Package regex compiles the lexical rules of a grammar — literals and
// regular expressions over character classes, repetition, alternation,
// grouping and anchored literals (spec.md §4.C) — into an NFA ready for
// subset construction in internal/automaton.
package regex

import "github.com/mossforge/lrtab/internal/symbols"

// Node is a regex AST node. Grounded on spec.md §4.C's feature list:
// alternation, grouping, *//+/?, bounded {n,m}, character classes with
// negation, and literal runs.
type Node interface {
	isNode()
}

// Literal matches a single symbol class (already expanded for
// case-insensitivity if requested, so the AST never carries a case bit —
// spec.md §4.C: "the resulting NFA has no case bit, the alphabet alone
// carries it").
type Literal struct {
	Set symbols.Set
}

// Concat matches its children in sequence.
type Concat struct {
	Of []Node
}

// Alternate matches any one of its children.
type Alternate struct {
	Of []Node
}

// Repeat matches its child Min..Max times. Max == -1 means unbounded
// (covers *, +, and {n,}).
type Repeat struct {
	Of       Node
	Min, Max int
}

func (Literal) isNode()   {}
func (Concat) isNode()    {}
func (Alternate) isNode() {}
func (Repeat) isNode()    {}

// Star is shorthand for Repeat{Min: 0, Max: -1}.
func Star(n Node) Node { return Repeat{Of: n, Min: 0, Max: -1} }

// Plus is shorthand for Repeat{Min: 1, Max: -1}.
func Plus(n Node) Node { return Repeat{Of: n, Min: 1, Max: -1} }

// Opt is shorthand for Repeat{Min: 0, Max: 1}.
func Opt(n Node) Node { return Repeat{Of: n, Min: 0, Max: 1} }
