package grammar

import (
	"fmt"
	"strings"
)

// Rule is a nonterminal LHS plus an ordered RHS of items (spec.md §3
// "Rule"). Rules are totally ordered by (len(RHS), LHS, RHS
// lexicographic) — the Open Question spec.md §9 leaves ambiguous in the
// original C++ (`rule::operator<`'s partial order) is resolved here to
// the full lexicographic order spec.md §3 actually mandates.
type Rule struct {
	LHS int
	RHS []Item
}

// Less implements the total order described above.
func (r Rule) Less(o Rule) bool {
	if len(r.RHS) != len(o.RHS) {
		return len(r.RHS) < len(o.RHS)
	}
	if r.LHS != o.LHS {
		return r.LHS < o.LHS
	}
	return itemSliceCmp(r.RHS, o.RHS) < 0
}

func (r Rule) Equal(o Rule) bool {
	return r.LHS == o.LHS && itemSliceCmp(r.RHS, o.RHS) == 0
}

func (r Rule) String() string {
	parts := make([]string, len(r.RHS))
	for i, it := range r.RHS {
		parts[i] = it.String()
	}
	return fmt.Sprintf("N%d -> %s", r.LHS, strings.Join(parts, " "))
}
