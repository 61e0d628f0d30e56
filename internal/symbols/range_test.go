package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Set_Add_CanonicalizesOverlaps(t *testing.T) {
	testCases := []struct {
		name   string
		ranges []Range
		expect []Range
	}{
		{
			name:   "disjoint stays disjoint",
			ranges: []Range{{0, 5}, {10, 15}},
			expect: []Range{{0, 5}, {10, 15}},
		},
		{
			name:   "overlapping merges",
			ranges: []Range{{0, 10}, {5, 15}},
			expect: []Range{{0, 15}},
		},
		{
			name:   "adjacent merges",
			ranges: []Range{{0, 5}, {5, 10}},
			expect: []Range{{0, 10}},
		},
		{
			name:   "out of order merges",
			ranges: []Range{{10, 20}, {0, 5}, {5, 10}},
			expect: []Range{{0, 20}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			s := NewSet(tc.ranges...)
			assert.Equal(tc.expect, s.Ranges())
		})
	}
}

func Test_Set_Contains(t *testing.T) {
	s := NewSet(Range{0, 5}, Range{10, 20})

	assert.True(t, s.Contains(0))
	assert.True(t, s.Contains(4))
	assert.False(t, s.Contains(5))
	assert.True(t, s.Contains(15))
	assert.False(t, s.Contains(20))
	assert.False(t, s.Contains(-1))
}

func Test_Set_Intersection(t *testing.T) {
	a := NewSet(Range{0, 10})
	b := NewSet(Range{5, 15})

	got := a.Intersection(b)
	assert.Equal(t, []Range{{5, 10}}, got.Ranges())
}

func Test_Set_Difference(t *testing.T) {
	a := NewSet(Range{0, 10})
	b := NewSet(Range{3, 6})

	got := a.Difference(b)
	assert.Equal(t, []Range{{0, 3}, {6, 10}}, got.Ranges())
}

func Test_Set_Union_Idempotent(t *testing.T) {
	a := NewSet(Range{0, 10}, Range{20, 30})
	union := a.Union(a)
	assert.True(t, a.Equal(union))
}
