package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Map_IdentifierFor_StableAndDeduped(t *testing.T) {
	assert := assert.New(t)

	m := NewMap()
	digits := NewSet(Range{'0', '9' + 1})
	letters := NewSet(Range{'a', 'z' + 1})

	id1 := m.IdentifierFor(digits)
	id2 := m.IdentifierFor(letters)
	id1Again := m.IdentifierFor(digits)

	assert.Equal(id1, id1Again)
	assert.NotEqual(id1, id2)
	assert.Equal(2, m.NumClasses())
}

// Test_Deduplicate_Idempotence exercises spec.md §8's universal invariant:
// deduplicate applied to a single already-disjoint set is that set
// itself.
func Test_Deduplicate_Idempotence(t *testing.T) {
	assert := assert.New(t)

	source := NewMap()
	source.IdentifierFor(NewSet(Range{0, 10}))

	dedup, newSyms := Deduplicate(source)

	assert.Equal(1, dedup.NumClasses())
	assert.True(dedup.Cell(0).Equal(NewSet(Range{0, 10})))
	assert.Equal([]int{0}, newSyms[0])
}

func Test_Deduplicate_SplitsOverlappingCells(t *testing.T) {
	assert := assert.New(t)

	source := NewMap()
	idA := source.IdentifierFor(NewSet(Range{0, 10})) // e.g. FIRST(digit-like terminal A)
	idB := source.IdentifierFor(NewSet(Range{5, 15})) // overlapping terminal B

	dedup, newSyms := Deduplicate(source)

	// three disjoint output cells expected: [0,5) only-A, [5,10) A&B,
	// [10,15) only-B.
	assert.Equal(3, dedup.NumClasses())

	total := NewSet()
	for i := 0; i < dedup.NumClasses(); i++ {
		total = total.Union(dedup.Cell(i))
	}
	assert.True(total.Equal(NewSet(Range{0, 15})))

	// every new-class referenced by A's entry must be disjoint from any
	// referenced only by B once we remove the overlap cell, and the
	// union of A's new classes must equal A's original set when combined
	// across overlap.
	assert.NotEmpty(newSyms[idA])
	assert.NotEmpty(newSyms[idB])

	unionA := NewSet()
	for _, cid := range newSyms[idA] {
		unionA = unionA.Union(dedup.Cell(cid))
	}
	assert.True(unionA.Equal(NewSet(Range{0, 10})))

	unionB := NewSet()
	for _, cid := range newSyms[idB] {
		unionB = unionB.Union(dedup.Cell(cid))
	}
	assert.True(unionB.Equal(NewSet(Range{5, 15})))
}
