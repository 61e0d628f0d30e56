package lalr

import (
	"testing"

	"github.com/mossforge/lrtab/internal/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildAOrB builds S -> a S | b, grounded on the purple-dragon textbook's
// standard small LALR(1) example.
func buildAOrB() (*grammar.Grammar, int, int, int) {
	g := grammar.New()
	a := g.AddTerm("a")
	b := g.AddTerm("b")
	s := g.NonterminalID("S")
	g.AddRule("S", []grammar.Item{grammar.Terminal(a), grammar.Nonterminal(s)})
	g.AddRule("S", []grammar.Item{grammar.Terminal(b)})
	return g, a, b, s
}

func Test_LR0Closure_AddsProductionsOfDotNonterminal(t *testing.T) {
	g, _, _, s := buildAOrB()
	rules := g.Rules(s)
	kernel := []grammar.LR0Item{{Rule: rules[0], Dot: 0}}
	closure := LR0Closure(g, kernel)
	// dot is before S in rule 0 (a . S), wait dot=0 is before 'a'; use a
	// kernel with dot before S to exercise closure expansion instead.
	kernel2 := []grammar.LR0Item{{Rule: rules[0], Dot: 1}}
	closure2 := LR0Closure(g, kernel2)
	assert.GreaterOrEqual(t, len(closure2), len(kernel2))
	assert.Len(t, closure, 1) // dot before terminal: closure adds nothing
}

func Test_BuildLR0Collection_ReachesAcceptingState(t *testing.T) {
	g, _, _, _ := buildAOrB()
	aug, augID := g.Augmented()
	states, start := BuildLR0Collection(aug, augID)
	require.NotEmpty(t, states)
	assert.Equal(t, 0, start)

	reached := false
	for _, st := range states {
		for _, it := range st.Kernel {
			if it.Rule.LHS == augID && it.AtEnd() {
				reached = true
			}
		}
	}
	assert.True(t, reached, "some state's kernel should hold the completed augmented rule S' -> S.")
}

func Test_Build_StartStateHasEndOfInputLookaheadOnAugmentedItem(t *testing.T) {
	g, _, _, _ := buildAOrB()
	m := Build(g)
	start := m.States[m.StartState]
	items := start.Items.Items()
	require.NotEmpty(t, items)
	found := false
	for _, it := range items {
		if it.Core.Rule.LHS == m.AugStartID && it.Core.Dot == 0 {
			assert.True(t, it.Lookaheads.Has(grammar.EndOfInput))
			found = true
		}
	}
	assert.True(t, found)
}

func Test_Build_ProducesDistinctStatesForAOrBGrammar(t *testing.T) {
	g, _, _, _ := buildAOrB()
	m := Build(g)
	// S' -> .S|.aS|.b / S -> a.S|.aS|.b / S' -> S. / S -> aS. / S -> b.
	assert.GreaterOrEqual(t, len(m.States), 4)
}

func Test_Build_GotoFollowsShiftOnTerminal(t *testing.T) {
	g, a, _, _ := buildAOrB()
	m := Build(g)
	target, ok := m.GotoState(m.StartState, grammar.Terminal(a))
	require.True(t, ok)
	assert.NotEqual(t, m.StartState, target)
}

func Test_Build_StateAfterAS_HasCompletedSRule(t *testing.T) {
	g, a, _, s := buildAOrB()
	m := Build(g)
	afterA, ok := m.GotoState(m.StartState, grammar.Terminal(a))
	require.True(t, ok)
	afterS, ok := m.GotoState(afterA, grammar.Nonterminal(s))
	require.True(t, ok)
	items := m.States[afterS].Items.Items()
	foundReduce := false
	for _, it := range items {
		if it.Core.AtEnd() && it.Core.Rule.LHS == s {
			foundReduce = true
		}
	}
	assert.True(t, foundReduce)
}

func Test_PropagateLookaheads_IsMonotone_RepeatApplicationStable(t *testing.T) {
	g, _, _, _ := buildAOrB()
	aug, augID := g.Augmented()
	states, start := BuildLR0Collection(aug, augID)
	first := PropagateLookaheads(aug, states, start)
	second := PropagateLookaheads(aug, states, start)
	for k, v := range first {
		assert.True(t, v.Equal(second[k]))
	}
}
