package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DefaultOptions_MatchesSpecDefaultPipeline(t *testing.T) {
	opts := DefaultOptions()
	assert.True(t, opts.Minimize)
	assert.True(t, opts.WeakPromotion)
	assert.Equal(t, []RewriteKind{RewriteWeakSymbol, RewriteLR1Conflict, RewriteConflictResolve}, opts.RewriteOrder)
}

func Test_LoadString_OverridesOnlyGivenFields(t *testing.T) {
	opts, err := LoadString(`minimize = false`)
	require.NoError(t, err)
	assert.False(t, opts.Minimize)
	assert.True(t, opts.WeakPromotion) // left at default
}

func Test_LoadString_OverridesRewriteOrder(t *testing.T) {
	opts, err := LoadString(`rewrite_order = ["lr1_conflict", "weak_symbol"]`)
	require.NoError(t, err)
	assert.Equal(t, []RewriteKind{RewriteLR1Conflict, RewriteWeakSymbol}, opts.RewriteOrder)
}

func Test_LoadString_InvalidTOML_Errors(t *testing.T) {
	_, err := LoadString(`not = [valid`)
	assert.Error(t, err)
}
