package lrtab

import (
	"testing"

	"github.com/mossforge/lrtab/internal/automaton"
	"github.com/mossforge/lrtab/internal/config"
	"github.com/mossforge/lrtab/internal/diag"
	"github.com/mossforge/lrtab/internal/grammar"
	"github.com/mossforge/lrtab/internal/regex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildAOrBGrammar builds S -> a S | b, the textbook grammar every
// package in this module tests against.
func buildAOrBGrammar() (g grammar.Grammar, a, b int) {
	built := grammar.New()
	a = built.AddTerm("a")
	b = built.AddTerm("b")
	s := built.NonterminalID("S")
	built.AddRule("S", []grammar.Item{grammar.Terminal(a), grammar.Nonterminal(s)})
	built.AddRule("S", []grammar.Item{grammar.Terminal(b)})
	built.SetStart("S")
	return *built, a, b
}

func lexSpecFor(t *testing.T, a, b int) []regex.TerminalDef {
	t.Helper()
	aNode, err := regex.Parse("a", false)
	require.NoError(t, err)
	bNode, err := regex.Parse("b", false)
	require.NoError(t, err)
	return []regex.TerminalDef{
		{Pattern: aNode, Accept: automaton.AcceptAction{Symbol: a, Priority: 0, DefOrder: 0}, StrongEquivalent: -1},
		{Pattern: bNode, Accept: automaton.AcceptAction{Symbol: b, Priority: 0, DefOrder: 1}, StrongEquivalent: -1},
	}
}

func Test_Generate_ProducesTableWithNoErrors(t *testing.T) {
	g, a, b := buildAOrBGrammar()
	lexSpec := lexSpecFor(t, a, b)

	table, diags, err := Generate(g, lexSpec, config.DefaultOptions())
	require.NoError(t, err)
	require.False(t, diags.HasErrors())
	require.NotNil(t, table)

	assert.Equal(t, 2, table.Header.TerminalCount)
	assert.Equal(t, 1, table.Header.NonterminalCount)
	assert.NotEmpty(t, table.States)
	assert.NotEmpty(t, table.DFAStates)
}

func Test_Generate_EmptyGrammarProducesNoTable(t *testing.T) {
	empty := grammar.New()
	table, diags, err := Generate(*empty, nil, config.DefaultOptions())
	require.NoError(t, err)
	assert.Nil(t, table)
	assert.True(t, diags.HasErrors())
	require.NotEmpty(t, diags.All())
	assert.Equal(t, diag.EmptyGrammar, diags.All()[0].Code)
}

func Test_Generate_UndefinedNonterminalReportsDistinctCode(t *testing.T) {
	g := grammar.New()
	a := g.AddTerm("a")
	ghost := g.NonterminalID("Ghost")
	g.AddRule("S", []grammar.Item{grammar.Terminal(a), grammar.Nonterminal(ghost)})
	g.SetStart("S")

	table, diags, err := Generate(*g, nil, config.DefaultOptions())
	require.NoError(t, err)
	assert.Nil(t, table)
	require.True(t, diags.HasErrors())

	found := false
	for _, d := range diags.All() {
		if d.Code == diag.UnknownNonterminal {
			found = true
		}
		assert.NotEqual(t, diag.EmptyGrammar, d.Code)
	}
	assert.True(t, found)
}

func Test_Generate_UndefinedTerminalReportsDistinctCode(t *testing.T) {
	g := grammar.New()
	a := g.AddTerm("a")
	g.AddRule("S", []grammar.Item{grammar.Terminal(a), grammar.Terminal(999)})
	g.SetStart("S")

	table, diags, err := Generate(*g, nil, config.DefaultOptions())
	require.NoError(t, err)
	assert.Nil(t, table)
	require.True(t, diags.HasErrors())

	found := false
	for _, d := range diags.All() {
		if d.Code == diag.UnknownTerminal {
			found = true
		}
		assert.NotEqual(t, diag.EmptyGrammar, d.Code)
		assert.NotEqual(t, diag.UnknownNonterminal, d.Code)
	}
	assert.True(t, found)
}

func Test_Generate_WarnsOnDeadRule(t *testing.T) {
	g := grammar.New()
	g.NonterminalID("Dead")
	g.AddRule("Dead", []grammar.Item{grammar.Empty()})
	a := g.AddTerm("a")
	g.AddRule("S", []grammar.Item{grammar.Terminal(a)})
	g.SetStart("S")

	_, diags, err := Generate(*g, nil, config.DefaultOptions())
	require.NoError(t, err)

	found := false
	for _, d := range diags.All() {
		if d.Code == diag.RuleHasEmptyFirstAndFollow {
			found = true
		}
	}
	assert.True(t, found)
}

func Test_Generate_WarnsOnShadowedTerminal(t *testing.T) {
	g, a, b := buildAOrBGrammar()
	// Both "a" and "id" patterns match the same input with "id" always
	// winning (higher priority), so "a"'s terminal is registered and has a
	// lexical rule but can never win an accept state.
	aNode, err := regex.Parse("a", false)
	require.NoError(t, err)
	bNode, err := regex.Parse("b", false)
	require.NoError(t, err)
	idNode, err := regex.Parse("a", false)
	require.NoError(t, err)
	id := g.AddTerm("id")
	lexSpec := []regex.TerminalDef{
		{Pattern: aNode, Accept: automaton.AcceptAction{Symbol: a, Priority: 0, DefOrder: 0}, StrongEquivalent: -1},
		{Pattern: bNode, Accept: automaton.AcceptAction{Symbol: b, Priority: 0, DefOrder: 1}, StrongEquivalent: -1},
		{Pattern: idNode, Accept: automaton.AcceptAction{Symbol: id, Priority: 1, DefOrder: 2}, StrongEquivalent: -1},
	}

	_, diags, err := Generate(g, lexSpec, config.DefaultOptions())
	require.NoError(t, err)

	found := false
	for _, d := range diags.All() {
		if d.Code == diag.TerminalNeverMatched {
			if sym, ok := d.Data["terminal"]; ok && sym == a {
				if _, hasShadow := d.Data["shadowed_by"]; hasShadow {
					found = true
				}
			}
		}
	}
	assert.True(t, found)
}

func Test_Generate_WarnsOnUnmatchedTerminal(t *testing.T) {
	g, a, _ := buildAOrBGrammar()
	aNode, err := regex.Parse("a", false)
	require.NoError(t, err)
	lexSpec := []regex.TerminalDef{
		{Pattern: aNode, Accept: automaton.AcceptAction{Symbol: a}, StrongEquivalent: -1},
	}

	_, diags, err := Generate(g, lexSpec, config.DefaultOptions())
	require.NoError(t, err)

	found := false
	for _, d := range diags.All() {
		if d.Code.String() == "TerminalNeverMatched" {
			found = true
		}
	}
	assert.True(t, found)
}
