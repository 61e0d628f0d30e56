// Package diag holds the builder's diagnostic taxonomy (spec.md §7):
// severities, codes, and an accumulate-don't-throw bag of findings.
//
// Grounded on the accumulate-across-a-build pattern dekarrin-tunaq's
// fishi.go front end uses for collecting warnings/errors while compiling
// a multi-file spec, generalized here to the builder's own error codes
// since no teacher-Go file owns this exact taxonomy.
package diag

import "fmt"

// Severity ranks a Diagnostic's impact on table generation (spec.md §7).
type Severity int

const (
	// Bug indicates a failed internal invariant; the current phase's
	// partial output is discarded.
	Bug Severity = iota
	// Error means generation cannot produce a table; later diagnostics
	// still accumulate, but the table is suppressed.
	Error
	// Warning means a table is produced but is suspect.
	Warning
	// Detail is attached to a preceding diagnostic for extra context; it
	// carries no severity of its own.
	Detail
)

func (s Severity) String() string {
	switch s {
	case Bug:
		return "bug"
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Detail:
		return "detail"
	default:
		return "unknown"
	}
}

// Code names a specific kind of diagnostic (spec.md §7's builder-error and
// warning lists).
type Code int

const (
	RegexParse Code = iota
	RegexEscape
	UnknownTerminal
	UnknownNonterminal
	DuplicateRule
	EmptyGrammar
	ShiftReduceConflict
	ReduceReduceConflict
	GuardAmbiguity

	TerminalNeverMatched
	NonterminalNeverReduced
	RuleHasEmptyFirstAndFollow
)

func (c Code) String() string {
	switch c {
	case RegexParse:
		return "RegexParse"
	case RegexEscape:
		return "RegexEscape"
	case UnknownTerminal:
		return "UnknownTerminal"
	case UnknownNonterminal:
		return "UnknownNonterminal"
	case DuplicateRule:
		return "DuplicateRule"
	case EmptyGrammar:
		return "EmptyGrammar"
	case ShiftReduceConflict:
		return "ShiftReduceConflict"
	case ReduceReduceConflict:
		return "ReduceReduceConflict"
	case GuardAmbiguity:
		return "GuardAmbiguity"
	case TerminalNeverMatched:
		return "TerminalNeverMatched"
	case NonterminalNeverReduced:
		return "NonterminalNeverReduced"
	case RuleHasEmptyFirstAndFollow:
		return "RuleHasEmptyFirstAndFollow"
	default:
		return "Unknown"
	}
}

// Diagnostic is a single finding: a severity, a code, a human-readable
// message, and optional structured data (state id, symbol id, candidate
// rule ids — whatever the code's payload names).
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Data     map[string]any
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Code, d.Message)
}

// Bag accumulates diagnostics across a build without ever halting it
// (spec.md §7: "diagnostics accumulate; the builder does not throw on
// the first problem").
type Bag struct {
	entries []Diagnostic
}

// New returns an empty Bag.
func New() *Bag {
	return &Bag{}
}

// Add appends a diagnostic.
func (b *Bag) Add(d Diagnostic) {
	b.entries = append(b.entries, d)
}

// Addf is a convenience wrapper building a Diagnostic from a severity,
// code, and formatted message.
func (b *Bag) Addf(sev Severity, code Code, data map[string]any, format string, args ...any) {
	b.Add(Diagnostic{Severity: sev, Code: code, Message: fmt.Sprintf(format, args...), Data: data})
}

// All returns every accumulated diagnostic, in the order added.
func (b *Bag) All() []Diagnostic {
	return append([]Diagnostic{}, b.entries...)
}

// HasErrors reports whether any accumulated diagnostic is Bug or Error
// severity — table emission is suppressed whenever this is true (spec.md
// §7: "Errors suppress emission of the table... bug severity... aborts
// the current phase").
func (b *Bag) HasErrors() bool {
	for _, d := range b.entries {
		if d.Severity == Bug || d.Severity == Error {
			return true
		}
	}
	return false
}

// HasBug reports whether any accumulated diagnostic is Bug severity.
func (b *Bag) HasBug() bool {
	for _, d := range b.entries {
		if d.Severity == Bug {
			return true
		}
	}
	return false
}

// Filter returns only the diagnostics matching sev.
func (b *Bag) Filter(sev Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range b.entries {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}
