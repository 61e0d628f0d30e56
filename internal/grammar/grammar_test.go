package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildAOrB builds the classic S -> a S | b grammar used across this
// package's tests.
func buildAOrB() (*Grammar, int, int, int) {
	g := New()
	a := g.AddTerm("a")
	b := g.AddTerm("b")
	s := g.NonterminalID("S")
	g.AddRule("S", []Item{Terminal(a), Nonterminal(s)})
	g.AddRule("S", []Item{Terminal(b)})
	return g, a, b, s
}

func Test_Grammar_AddTerm_IsIdempotent(t *testing.T) {
	g := New()
	a1 := g.AddTerm("a")
	a2 := g.AddTerm("a")
	assert.Equal(t, a1, a2)
}

func Test_Grammar_AddRule_FirstNonterminalBecomesStart(t *testing.T) {
	g, _, _, s := buildAOrB()
	assert.Equal(t, s, g.StartSymbol())
}

func Test_Grammar_Rules_ReturnsInAddedOrder(t *testing.T) {
	g, a, b, s := buildAOrB()
	rs := g.Rules(s)
	require.Len(t, rs, 2)
	assert.Equal(t, []Item{Terminal(a), Nonterminal(s)}, rs[0].RHS)
	assert.Equal(t, []Item{Terminal(b)}, rs[1].RHS)
}

func Test_Grammar_NonTerminals_SortedAscending(t *testing.T) {
	g := New()
	g.AddRule("C", nil)
	g.AddRule("A", nil)
	g.AddRule("B", nil)
	ids := g.NonTerminals()
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}
}

func Test_Grammar_Augmented_AddsFreshStartRule(t *testing.T) {
	g, _, _, s := buildAOrB()
	aug, augID := g.Augmented()
	assert.NotEqual(t, s, augID)
	assert.Equal(t, augID, aug.StartSymbol())
	rs := aug.Rules(augID)
	require.Len(t, rs, 1)
	assert.Equal(t, []Item{Nonterminal(s)}, rs[0].RHS)
	// original grammar is untouched.
	assert.Equal(t, s, g.StartSymbol())
}

func Test_Grammar_Validate_CatchesUndefinedNonterminal(t *testing.T) {
	g := New()
	g.AddTerm("a")
	ghost := g.NonterminalID("Ghost")
	g.AddRule("S", []Item{Nonterminal(ghost)})
	err := g.Validate()
	require.Error(t, err)
}

func Test_Grammar_Validate_PassesOnWellFormedGrammar(t *testing.T) {
	g, _, _, _ := buildAOrB()
	assert.NoError(t, g.Validate())
}

func Test_Grammar_NewSyntheticNonterminal_NeverCollides(t *testing.T) {
	g, _, _, _ := buildAOrB()
	id1 := g.NewSyntheticNonterminal("guard")
	id2 := g.NewSyntheticNonterminal("guard")
	assert.NotEqual(t, id1, id2)
}

func Test_Grammar_Copy_IsIndependent(t *testing.T) {
	g, a, b, s := buildAOrB()
	cp := g.Copy()
	cp.AddRule("S", []Item{Terminal(a), Terminal(b)})
	assert.Len(t, cp.Rules(s), 3)
	assert.Len(t, g.Rules(s), 2)
}
