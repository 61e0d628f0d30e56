package automaton

import (
	"testing"

	"github.com/mossforge/lrtab/internal/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_AcceptAction_Wins_PriorityThenDefOrder(t *testing.T) {
	a := AcceptAction{Symbol: 1, Priority: 5, DefOrder: 0}
	b := AcceptAction{Symbol: 2, Priority: 3, DefOrder: 9}
	assert.True(t, a.Wins(b))
	assert.False(t, b.Wins(a))

	c := AcceptAction{Symbol: 3, Priority: 5, DefOrder: 1}
	assert.True(t, c.Wins(a), "equal priority, higher def order wins")
}

// buildAB builds the NFA for "ab" via two literal transitions.
func buildAB() *NFA {
	n := New()
	s1 := n.AddState()
	s2 := n.AddState()
	n.AddTransition(n.Start, int('a'), s1)
	n.AddTransition(s1, int('b'), s2)
	n.AddAccept(s2, AcceptAction{Symbol: 1})
	return n
}

func Test_NFA_EpsilonClosure_NoEpsilons_IsSingleton(t *testing.T) {
	n := buildAB()
	closure := n.EpsilonClosure(n.Start)
	assert.Equal(t, 1, closure.Len())
	assert.True(t, closure.Has(n.Start))
}

func Test_NFA_ToDFA_AcceptsExpectedString(t *testing.T) {
	n := buildAB()
	dfa := n.ToDFA()

	require.True(t, dfa.Accepting(walk(t, dfa, "ab")))
	assert.False(t, dfa.Accepting(walk(t, dfa, "a")))
}

func Test_NFA_Join_Juxtaposition(t *testing.T) {
	left := New()
	s1 := left.AddState()
	left.AddTransition(left.Start, int('a'), s1)

	right := New()
	s2 := right.AddState()
	right.AddTransition(right.Start, int('b'), s2)
	right.AddAccept(s2, AcceptAction{Symbol: 42})

	mapped := left.Join(right, [][2]int{{s1, right.Start}}, []int{s2})
	require.Len(t, mapped, 1)

	dfa := left.ToDFA()
	end := walk(t, dfa, "ab")
	require.True(t, dfa.Accepting(end))
	winner, _, ok := dfa.Winner(end)
	require.True(t, ok)
	assert.Equal(t, 42, winner.Symbol)
}

func Test_NFA_InputClasses_ExcludesEpsilon(t *testing.T) {
	n := New()
	s1 := n.AddState()
	n.AddTransition(n.Start, symbols.Epsilon, s1)
	n.AddTransition(n.Start, int('a'), s1)
	classes := n.InputClasses()
	assert.Equal(t, 1, classes.Len())
	assert.True(t, classes.Has(int('a')))
}

// walk drives the DFA across a string's runes from its start state,
// returning the reached state, or -1 if a dead transition is hit.
func walk(t *testing.T, d *DFA, s string) int {
	t.Helper()
	state := d.Start
	for _, r := range s {
		state = d.Next(state, int(r))
		require.NotEqual(t, -1, state, "unexpected dead transition on %q", s)
	}
	return state
}
