package automaton

import (
	"testing"

	"github.com/mossforge/lrtab/internal/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test_MergeClasses_CoalescesIndistinguishableClasses builds a two-state
// DFA where classes for 'a' and 'b' both go from state 0 to state 1 and
// nowhere else — they should merge into a single class.
func Test_MergeClasses_CoalescesIndistinguishableClasses(t *testing.T) {
	classA := int('a')
	classB := int('b')
	classC := int('c')

	m := symbols.NewMap()
	idA := m.IdentifierFor(symbols.Single(classA))
	idB := m.IdentifierFor(symbols.Single(classB))
	idC := m.IdentifierFor(symbols.Single(classC))
	require.Equal(t, 0, idA)

	d := &DFA{
		States: []DFAState{
			{Transitions: map[int]int{idA: 1, idB: 1, idC: 2}},
			{Accepts: []AcceptAction{{Symbol: 1}}, Transitions: map[int]int{}},
			{Accepts: []AcceptAction{{Symbol: 2}}, Transitions: map[int]int{}},
		},
		Start: 0,
	}

	merged, newMap := MergeClasses(d, m)
	assert.Equal(t, 2, newMap.NumClasses(), "a and b collapse into one class, c stays separate")

	// both a and b should now drive state 0 to state 1 under the same
	// merged class id.
	var mergedClassForA, mergedClassForB int
	for cid := 0; cid < newMap.NumClasses(); cid++ {
		cell := newMap.Cell(cid)
		if cell.Contains(classA) {
			mergedClassForA = cid
		}
		if cell.Contains(classB) {
			mergedClassForB = cid
		}
	}
	assert.Equal(t, mergedClassForA, mergedClassForB)
	assert.Equal(t, 1, merged.States[0].Transitions[mergedClassForA])
}

func Test_MergeClasses_NoOpWhenAllClassesDistinguishable(t *testing.T) {
	classA := int('a')
	classB := int('b')

	m := symbols.NewMap()
	idA := m.IdentifierFor(symbols.Single(classA))
	idB := m.IdentifierFor(symbols.Single(classB))

	d := &DFA{
		States: []DFAState{
			{Transitions: map[int]int{idA: 1, idB: 2}},
			{Accepts: []AcceptAction{{Symbol: 1}}, Transitions: map[int]int{}},
			{Accepts: []AcceptAction{{Symbol: 2}}, Transitions: map[int]int{}},
		},
		Start: 0,
	}

	_, newMap := MergeClasses(d, m)
	assert.Equal(t, 2, newMap.NumClasses())
}
