package lrtable

import (
	"fmt"

	"github.com/dekarrin/rosed"
)

// Render produces a human-readable grid of the table's action/goto
// columns, one row per state — grounded on ictiobus/parse/lalr.go's
// lalr1Table.String(), which builds the same shape of state-by-symbol
// grid via rosed.Edit(...).InsertTableOpts(...).
func (t *Table) Render() string {
	headers := []string{"state", "actions", "goto"}
	data := [][]string{headers}

	for i, st := range t.States {
		data = append(data, []string{
			fmt.Sprintf("%d", i),
			formatActions(st.Terminals),
			formatActions(st.Nonterminals),
		})
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 40, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func formatActions(acts []Action) string {
	s := ""
	for i, a := range acts {
		if i > 0 {
			s += "; "
		}
		switch a.Kind {
		case Reduce, WeakReduce, Accept:
			s += fmt.Sprintf("%s(%d)->r%d", a.Kind, a.Symbol, a.Rule)
		case Guard:
			s += fmt.Sprintf("%s(%d)->g%d", a.Kind, a.Symbol, a.GuardRule)
		default:
			s += fmt.Sprintf("%s(%d)->s%d", a.Kind, a.Symbol, a.Target)
		}
	}
	return s
}
