package lrtable

import (
	"testing"

	"github.com/mossforge/lrtab/internal/diag"
	"github.com/mossforge/lrtab/internal/grammar"
	"github.com/mossforge/lrtab/internal/lalr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These construct a minimal single-state lalr.Machine by hand rather than
// routing a guard grammar through the full Closure/Goto pipeline: closure1.go
// expands a guard's body rule into the same item set as the guard item
// itself (spec.md §4.I), so a guard whose body starts with a literal
// terminal also produces an ordinary Shift on that terminal in the very
// state guardActions is deciding divert-vs-guard for. Constructing the
// machine directly isolates guardActions' own conflict-check logic from
// that structural interaction.

func Test_GuardActions_SingletonFirst_NoConflict_CollapsesToDivert(t *testing.T) {
	g := grammar.New()
	c := g.AddTerm("c")
	body := g.NonterminalID("Body")
	g.AddRule("Body", []grammar.Item{grammar.Terminal(c)})
	guardSym := grammar.Guard(body, 1)

	m := &lalr.Machine{
		Augmented: g,
		States: []*lalr.State{
			{ID: 0, Transitions: map[string]int{guardSym.String(): 1}},
		},
	}
	s := m.States[0]

	acts := guardActions(m, s, guardSym, nil, diag.New())
	require.Len(t, acts, 1)
	assert.Equal(t, Divert, acts[0].Kind)
	assert.Equal(t, c, acts[0].Symbol)
	assert.Equal(t, 1, acts[0].Target)
}

func Test_GuardActions_MultiSymbolFirst_EmitsGuardPerSymbol(t *testing.T) {
	g := grammar.New()
	c1 := g.AddTerm("c1")
	c2 := g.AddTerm("c2")
	body := g.NonterminalID("Body")
	g.AddRule("Body", []grammar.Item{grammar.Terminal(c1)})
	g.AddRule("Body", []grammar.Item{grammar.Terminal(c2)})
	guardSym := grammar.Guard(body, 1)

	m := &lalr.Machine{
		Augmented: g,
		States: []*lalr.State{
			{ID: 0, Transitions: map[string]int{guardSym.String(): 1}},
		},
	}
	s := m.States[0]

	acts := guardActions(m, s, guardSym, nil, diag.New())
	require.Len(t, acts, 2)
	for _, a := range acts {
		assert.Equal(t, Guard, a.Kind)
		assert.Equal(t, 1, a.Target)
	}
}

func Test_GuardActions_SingletonFirst_ConflictFallsBackToGuard(t *testing.T) {
	g := grammar.New()
	c := g.AddTerm("c")
	body := g.NonterminalID("Body")
	g.AddRule("Body", []grammar.Item{grammar.Terminal(c)})
	guardSym := grammar.Guard(body, 1)

	m := &lalr.Machine{
		Augmented: g,
		States: []*lalr.State{
			{ID: 0, Transitions: map[string]int{guardSym.String(): 1}},
		},
	}
	s := m.States[0]

	existing := []Action{{Kind: Shift, Symbol: c, Target: 2}}
	diags := diag.New()
	acts := guardActions(m, s, guardSym, existing, diags)

	require.Len(t, acts, 1)
	assert.Equal(t, Guard, acts[0].Kind)
	assert.Equal(t, c, acts[0].Symbol)

	found := false
	for _, d := range diags.All() {
		if d.Code == diag.GuardAmbiguity {
			found = true
		}
	}
	assert.True(t, found)
}
