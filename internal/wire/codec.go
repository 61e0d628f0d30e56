package wire

import (
	"fmt"

	"github.com/dekarrin/rezi"
)

// Encode serializes a Table to its binary form, grounded on
// server/dao/sqlite/sqlite.go's rezi.EncBinary(g) call on a
// *game.State that itself implements encoding.BinaryMarshaler — Table
// plays the same role here, with MarshalBinary in binary.go providing
// the field-by-field layout spec.md §6 specifies.
func Encode(t *Table) []byte {
	return rezi.EncBinary(t)
}

// Decode is Encode's inverse, grounded on the same file's
// rezi.DecBinary(stateData, g) call.
func Decode(data []byte) (*Table, error) {
	t := &Table{}
	n, err := rezi.DecBinary(data, t)
	if err != nil {
		return nil, fmt.Errorf("wire: decode table: %w", err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("wire: decode table: %d trailing bytes", len(data)-n)
	}
	if t.Header.Magic != Magic {
		return nil, fmt.Errorf("wire: bad magic %#x, want %#x", t.Header.Magic, Magic)
	}
	return t, nil
}
