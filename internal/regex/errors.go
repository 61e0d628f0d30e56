package regex

import "fmt"

// ParseError reports a malformed regular expression (spec.md §4.D:
// "ill-formed regex fails with RegexParse(pos, message); ... neither is
// recoverable").
type ParseError struct {
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("regex parse error at position %d: %s", e.Pos, e.Message)
}

// EscapeError reports an escape sequence the compiler doesn't recognize.
type EscapeError struct {
	Char rune
}

func (e *EscapeError) Error() string {
	return fmt.Sprintf("unsupported escape sequence: \\%c", e.Char)
}
