package grammar

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/mossforge/lrtab/internal/collections"
)

// Grammar is the nonterminal->rules / terminal-id->name mapping spec.md
// §3 describes, grounded on tunascript/grammar.go's AddRule/AddTerm/
// NonTerminals/StartSymbol API (renamed to operate on int ids and the
// tagged Item type instead of bare uppercase/lowercase strings).
type Grammar struct {
	terminalNames  map[int]string
	terminalByName map[string]int
	nextTerminalID int

	nonterminalNames  map[int]string
	nonterminalByName map[string]int
	nextNonterminalID int

	rules     map[int][]Rule
	ruleOrder []int // nonterminal ids in first-AddRule order

	start int

	firstCache  map[int]collections.IntSet
	followCache map[int]collections.IntSet
}

// New returns an empty Grammar.
func New() *Grammar {
	return &Grammar{
		terminalNames:     map[int]string{},
		terminalByName:    map[string]int{},
		nonterminalNames:  map[int]string{},
		nonterminalByName: map[string]int{},
		rules:             map[int][]Rule{},
		start:             -1,
	}
}

// AddTerm registers a terminal name (idempotent) and returns its id. Ids
// are assigned in first-seen order, which doubles as the "symbol_id
// definition order" spec.md §3's AcceptAction tiebreak and §4.H's
// action-run ordering both key off.
func (g *Grammar) AddTerm(name string) int {
	if id, ok := g.terminalByName[name]; ok {
		return id
	}
	id := g.nextTerminalID
	g.nextTerminalID++
	g.terminalByName[name] = id
	g.terminalNames[id] = name
	return id
}

// TerminalName returns the registered name for a terminal id, or "" if
// unknown.
func (g *Grammar) TerminalName(id int) string {
	return g.terminalNames[id]
}

// nonterminalID assigns (or returns the existing) id for a nonterminal
// name.
func (g *Grammar) nonterminalID(name string) int {
	if id, ok := g.nonterminalByName[name]; ok {
		return id
	}
	id := g.nextNonterminalID
	g.nextNonterminalID++
	g.nonterminalByName[name] = id
	g.nonterminalNames[id] = name
	return id
}

// NonterminalName returns the registered name for a nonterminal id.
func (g *Grammar) NonterminalName(id int) string {
	return g.nonterminalNames[id]
}

// NonterminalID registers (if needed) and returns the id for a
// nonterminal name, without adding any rule — lets callers build
// self-referential RHS items (e.g. `S -> a S`) before AddRule runs.
func (g *Grammar) NonterminalID(name string) int {
	return g.nonterminalID(name)
}

// AddRule adds a production rhs for the named nonterminal, registering
// the nonterminal on first use. The first nonterminal ever added becomes
// the default start symbol unless SetStart overrides it.
func (g *Grammar) AddRule(nonterminal string, rhs []Item) {
	id := g.nonterminalID(nonterminal)
	if _, seen := g.rules[id]; !seen {
		g.ruleOrder = append(g.ruleOrder, id)
	}
	if g.start == -1 {
		g.start = id
	}
	g.rules[id] = append(g.rules[id], Rule{LHS: id, RHS: rhs})
	g.firstCache = nil
	g.followCache = nil
}

// SetStart overrides the start symbol.
func (g *Grammar) SetStart(nonterminal string) {
	g.start = g.nonterminalID(nonterminal)
}

// StartSymbol returns the start nonterminal's id.
func (g *Grammar) StartSymbol() int {
	return g.start
}

// Rules returns the ordered rules for a nonterminal id.
func (g *Grammar) Rules(nonterminal int) []Rule {
	return g.rules[nonterminal]
}

// NonTerminals returns every registered nonterminal id in ascending
// order, for deterministic iteration (spec.md §5).
func (g *Grammar) NonTerminals() []int {
	ids := make([]int, 0, len(g.rules))
	for id := range g.rules {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Terminals returns every registered terminal id in definition order.
func (g *Grammar) Terminals() []int {
	ids := make([]int, 0, len(g.terminalNames))
	for id := range g.terminalNames {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Augmented returns a copy of the grammar with a fresh start rule
// S' -> S appended (spec.md §4.G: "start from the kernel of the
// augmented rule S'→·S with lookahead {end_of_input}"), and the id of
// the new S' nonterminal.
func (g *Grammar) Augmented() (*Grammar, int) {
	cp := g.Copy()
	augName := g.freshNonterminalName("start")
	augID := cp.nonterminalID(augName)
	cp.ruleOrder = append(cp.ruleOrder, augID)
	cp.rules[augID] = []Rule{{LHS: augID, RHS: []Item{Nonterminal(cp.start)}}}
	cp.start = augID
	cp.firstCache = nil
	return cp, augID
}

// freshNonterminalName mints a name guaranteed not to collide with any
// name already registered, using a uuid suffix rather than the teacher's
// repeated-"-P" suffixing (tunascript/grammar.go's GenerateUniqueName)
// since this grammar's nonterminal names are internal-only and never
// need to stay human-typeable.
func (g *Grammar) freshNonterminalName(base string) string {
	candidate := base
	for {
		if _, exists := g.nonterminalByName[candidate]; !exists {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%s", base, uuid.NewString())
	}
}

// NewSyntheticNonterminal registers and returns the id of a fresh
// nonterminal guaranteed not to collide with any existing name, used by
// guard-rule embedding (spec.md §4.I) to mint internal symbols.
func (g *Grammar) NewSyntheticNonterminal(base string) int {
	name := g.freshNonterminalName(base)
	return g.nonterminalID(name)
}

// freshTerminalName is freshNonterminalName's terminal-side counterpart.
func (g *Grammar) freshTerminalName(base string) string {
	candidate := base
	for {
		if _, exists := g.terminalByName[candidate]; !exists {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%s", base, uuid.NewString())
	}
}

// NewSyntheticTerminal registers and returns the id of a fresh terminal
// guaranteed not to collide with any existing name, used by weak-lexical-
// symbol DFA splitting (spec.md §4.I) to mint each accepting state's
// `w_under_s` id.
func (g *Grammar) NewSyntheticTerminal(base string) int {
	name := g.freshTerminalName(base)
	return g.AddTerm(name)
}

// Copy returns a deep copy of the grammar (minus the FIRST cache, which
// is lazily recomputed).
func (g *Grammar) Copy() *Grammar {
	cp := New()
	for id, name := range g.terminalNames {
		cp.terminalNames[id] = name
		cp.terminalByName[name] = id
	}
	cp.nextTerminalID = g.nextTerminalID
	for id, name := range g.nonterminalNames {
		cp.nonterminalNames[id] = name
		cp.nonterminalByName[name] = id
	}
	cp.nextNonterminalID = g.nextNonterminalID
	cp.ruleOrder = append([]int{}, g.ruleOrder...)
	for id, rs := range g.rules {
		cp.rules[id] = append([]Rule{}, rs...)
	}
	cp.start = g.start
	return cp
}

// IsEmpty reports spec.md §7's EmptyGrammar condition: no rules at all,
// or no start symbol set.
func (g *Grammar) IsEmpty() bool {
	return len(g.rules) == 0 || g.start == -1
}

// UndefinedNonterminals returns the name of every nonterminal referenced
// by some rule's RHS that has no rule of its own, in rule-scan order
// (duplicates possible, one per referencing occurrence). Empty if the
// grammar is well-formed.
func (g *Grammar) UndefinedNonterminals() []string {
	var missing []string
	for _, id := range g.NonTerminals() {
		for _, r := range g.rules[id] {
			for _, it := range r.RHS {
				if it.Kind == KindNonterminal {
					if _, ok := g.rules[it.ID]; !ok {
						missing = append(missing, g.nonterminalNames[it.ID])
					}
				}
			}
		}
	}
	return missing
}

// UndefinedTerminals returns the id of every terminal referenced by some
// rule's RHS that was never registered via AddTerm, in rule-scan order
// (duplicates possible, one per referencing occurrence). Empty if every
// referenced terminal id is defined.
func (g *Grammar) UndefinedTerminals() []int {
	var missing []int
	for _, id := range g.NonTerminals() {
		for _, r := range g.rules[id] {
			for _, it := range r.RHS {
				if it.Kind == KindTerminal {
					if _, ok := g.terminalNames[it.ID]; !ok {
						missing = append(missing, it.ID)
					}
				}
			}
		}
	}
	return missing
}

// Validate checks the invariants spec.md §3 names: the grammar is
// non-empty, every nonterminal id referenced by some rule's RHS has at
// least one rule in the mapping, and every terminal id referenced by
// some rule's RHS was registered via AddTerm. Callers needing to
// distinguish the three failure classes (spec.md §7's EmptyGrammar vs.
// UnknownNonterminal vs. UnknownTerminal builder-error codes) should use
// IsEmpty/UndefinedNonterminals/UndefinedTerminals directly instead of
// inspecting this error's text.
func (g *Grammar) Validate() error {
	if g.IsEmpty() {
		return fmt.Errorf("grammar has no rules or no start symbol")
	}
	if missing := g.UndefinedNonterminals(); len(missing) > 0 {
		return fmt.Errorf("nonterminal(s) referenced but never defined: %v", missing)
	}
	if missing := g.UndefinedTerminals(); len(missing) > 0 {
		return fmt.Errorf("terminal(s) referenced but never defined: %v", missing)
	}
	return nil
}
