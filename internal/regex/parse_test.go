package regex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parse_Literal(t *testing.T) {
	n, err := Parse("abc", false)
	require.NoError(t, err)
	concat, ok := n.(Concat)
	require.True(t, ok)
	assert.Len(t, concat.Of, 3)
}

func Test_Parse_Alternate(t *testing.T) {
	n, err := Parse("a|b|c", false)
	require.NoError(t, err)
	alt, ok := n.(Alternate)
	require.True(t, ok)
	assert.Len(t, alt.Of, 3)
}

func Test_Parse_Repeats(t *testing.T) {
	cases := map[string]struct{ min, max int }{
		"a*": {0, -1},
		"a+": {1, -1},
		"a?": {0, 1},
	}
	for src, want := range cases {
		n, err := Parse(src, false)
		require.NoError(t, err, src)
		rep, ok := n.(Repeat)
		require.True(t, ok, src)
		assert.Equal(t, want.min, rep.Min, src)
		assert.Equal(t, want.max, rep.Max, src)
	}
}

func Test_Parse_BoundedRepeat(t *testing.T) {
	n, err := Parse("a{2,5}", false)
	require.NoError(t, err)
	rep, ok := n.(Repeat)
	require.True(t, ok)
	assert.Equal(t, 2, rep.Min)
	assert.Equal(t, 5, rep.Max)
}

func Test_Parse_BoundedRepeat_UnboundedUpper(t *testing.T) {
	n, err := Parse("a{2,}", false)
	require.NoError(t, err)
	rep, ok := n.(Repeat)
	require.True(t, ok)
	assert.Equal(t, 2, rep.Min)
	assert.Equal(t, -1, rep.Max)
}

func Test_Parse_InvertedBounds_Errors(t *testing.T) {
	_, err := Parse("a{5,2}", false)
	require.Error(t, err)
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

func Test_Parse_CharClass_Negation(t *testing.T) {
	n, err := Parse("[^a]", false)
	require.NoError(t, err)
	lit, ok := n.(Literal)
	require.True(t, ok)
	assert.False(t, lit.Set.Contains('a'))
	assert.True(t, lit.Set.Contains('b'))
}

func Test_Parse_CharClass_Range(t *testing.T) {
	n, err := Parse("[a-f]", false)
	require.NoError(t, err)
	lit, ok := n.(Literal)
	require.True(t, ok)
	assert.True(t, lit.Set.Contains('a'))
	assert.True(t, lit.Set.Contains('f'))
	assert.False(t, lit.Set.Contains('g'))
}

func Test_Parse_UnknownEscape_Errors(t *testing.T) {
	_, err := Parse(`\q`, false)
	require.Error(t, err)
	var ee *EscapeError
	assert.ErrorAs(t, err, &ee)
}

func Test_Parse_UnterminatedGroup_Errors(t *testing.T) {
	_, err := Parse("(abc", false)
	require.Error(t, err)
}

func Test_Parse_CaseInsensitive_Literal_MatchesBothCases(t *testing.T) {
	n, err := Parse("if", true)
	require.NoError(t, err)
	concat, ok := n.(Concat)
	require.True(t, ok)
	first := concat.Of[0].(Literal)
	assert.True(t, first.Set.Contains('i'))
	assert.True(t, first.Set.Contains('I'))
}

func Test_ParseLiteral_NoMetacharacterInterpretation(t *testing.T) {
	n := ParseLiteral("a.b*", false)
	concat, ok := n.(Concat)
	require.True(t, ok)
	require.Len(t, concat.Of, 4)
	lit := concat.Of[1].(Literal)
	assert.True(t, lit.Set.Contains('.'))
}
