package lrtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Kind_String_Names(t *testing.T) {
	assert.Equal(t, "shift", Shift.String())
	assert.Equal(t, "guard", Guard.String())
}

func Test_Action_Less_OrdersBySymbolFirst(t *testing.T) {
	a := Action{Kind: Shift, Symbol: 1}
	b := Action{Kind: Reduce, Symbol: 2}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}

func Test_Action_Less_SameSymbol_OrdersByKindPriority(t *testing.T) {
	guard := Action{Kind: Guard, Symbol: 5}
	weak := Action{Kind: WeakReduce, Symbol: 5}
	reduce := Action{Kind: Reduce, Symbol: 5}
	shift := Action{Kind: Shift, Symbol: 5}

	assert.True(t, guard.Less(weak))
	assert.True(t, weak.Less(reduce))
	assert.True(t, reduce.Less(shift))
}
