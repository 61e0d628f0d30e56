package wire

import (
	"encoding/binary"
	"fmt"
)

// Hand-rolled varint framing for this package's own fields, grounded on
// tunascript/binary.go's encBinaryInt/decBinaryInt pair — every int field
// in the generated table is small, and the signed (zigzag) varint keeps
// the negative reserved ids (end-of-input, end-of-guard) compact too; it
// is also a direct match for the teacher's own encoding style.

func encBinaryInt(i int) []byte {
	enc := make([]byte, 0, 10)
	enc = binary.AppendVarint(enc, int64(i))
	return enc
}

func decBinaryInt(data []byte) (int, int, error) {
	val, read := binary.Varint(data)
	if read == 0 {
		return 0, 0, fmt.Errorf("wire: unexpected end of data reading int")
	} else if read < 0 {
		return 0, 0, fmt.Errorf("wire: int value too large")
	}
	return int(val), read, nil
}

func encBinaryBool(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}

func decBinaryBool(data []byte) (bool, int, error) {
	if len(data) < 1 {
		return false, 0, fmt.Errorf("wire: unexpected end of data reading bool")
	}
	return data[0] != 0, 1, nil
}

func encBinaryUint8(b uint8) []byte {
	return []byte{b}
}

func decBinaryUint8(data []byte) (uint8, int, error) {
	if len(data) < 1 {
		return 0, 0, fmt.Errorf("wire: unexpected end of data reading byte")
	}
	return data[0], 1, nil
}

// MarshalBinary implements encoding.BinaryMarshaler so Encode can hand the
// whole table to rezi.EncBinary, mirroring sqlite.go's
// rezi.EncBinary(g) call on *game.State.
func (t *Table) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, encBinaryInt(int(t.Header.Magic))...)
	data = append(data, encBinaryInt(int(t.Header.Version))...)
	data = append(data, encBinaryInt(t.Header.StateCount)...)
	data = append(data, encBinaryInt(t.Header.TerminalCount)...)
	data = append(data, encBinaryInt(t.Header.NonterminalCount)...)
	data = append(data, encBinaryInt(t.Header.EndOfInput)...)
	data = append(data, encBinaryInt(t.Header.EndOfGuard)...)
	data = append(data, encBinaryInt(t.Header.InitialStateCount)...)

	data = append(data, encBinaryInt(len(t.StateOffsets))...)
	for _, off := range t.StateOffsets {
		data = append(data, encBinaryInt(off)...)
	}

	data = append(data, encBinaryInt(len(t.States))...)
	for _, st := range t.States {
		data = append(data, encActionEntries(st.Terminals)...)
		data = append(data, encActionEntries(st.Nonterminals)...)
	}

	data = append(data, encBinaryInt(len(t.Rules))...)
	for _, r := range t.Rules {
		data = append(data, encBinaryInt(r.LHS)...)
		data = append(data, encBinaryInt(r.RHSLength)...)
	}

	data = append(data, encBinaryInt(len(t.WeakToStrong))...)
	for _, w := range t.WeakToStrong {
		data = append(data, encBinaryInt(w.Weak)...)
		data = append(data, encBinaryInt(w.Strong)...)
	}

	data = append(data, encBinaryInt(len(t.DFAStates))...)
	for _, d := range t.DFAStates {
		data = append(data, encBinaryInt(len(d.Transitions))...)
		for _, tr := range d.Transitions {
			data = append(data, encBinaryInt(tr.ClassID)...)
			data = append(data, encBinaryInt(tr.Target)...)
		}
		data = append(data, encBinaryInt(len(d.Accepts))...)
		for _, a := range d.Accepts {
			data = append(data, encBinaryInt(a.Terminal)...)
			data = append(data, encBinaryBool(a.Eager)...)
			data = append(data, encBinaryInt(a.Priority)...)
		}
	}

	data = append(data, encBinaryInt(len(t.Classes))...)
	for _, c := range t.Classes {
		data = append(data, encBinaryInt(c.Lo)...)
		data = append(data, encBinaryInt(c.Hi)...)
		data = append(data, encBinaryInt(c.ClassID)...)
	}

	return data, nil
}

func encActionEntries(acts []ActionEntry) []byte {
	var data []byte
	data = append(data, encBinaryInt(len(acts))...)
	for _, a := range acts {
		data = append(data, encBinaryInt(a.Symbol)...)
		data = append(data, encBinaryUint8(a.Kind)...)
		data = append(data, encBinaryInt(a.Target)...)
	}
	return data
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, the reverse of
// MarshalBinary field for field.
func (t *Table) UnmarshalBinary(data []byte) error {
	read := func(n int) { data = data[n:] }

	var err error
	var n int
	next := func() (int, error) {
		v, nn, e := decBinaryInt(data)
		if e != nil {
			return 0, e
		}
		read(nn)
		return v, nil
	}

	magic, err := next()
	if err != nil {
		return err
	}
	t.Header.Magic = uint32(magic)

	version, err := next()
	if err != nil {
		return err
	}
	t.Header.Version = uint32(version)

	if t.Header.StateCount, err = next(); err != nil {
		return err
	}
	if t.Header.TerminalCount, err = next(); err != nil {
		return err
	}
	if t.Header.NonterminalCount, err = next(); err != nil {
		return err
	}
	if t.Header.EndOfInput, err = next(); err != nil {
		return err
	}
	if t.Header.EndOfGuard, err = next(); err != nil {
		return err
	}
	if t.Header.InitialStateCount, err = next(); err != nil {
		return err
	}

	offsetCount, err := next()
	if err != nil {
		return err
	}
	t.StateOffsets = make([]int, offsetCount)
	for i := range t.StateOffsets {
		if t.StateOffsets[i], err = next(); err != nil {
			return err
		}
	}

	stateCount, err := next()
	if err != nil {
		return err
	}
	t.States = make([]StateActions, stateCount)
	for i := range t.States {
		if t.States[i].Terminals, n, err = decActionEntries(data); err != nil {
			return err
		}
		read(n)
		if t.States[i].Nonterminals, n, err = decActionEntries(data); err != nil {
			return err
		}
		read(n)
	}

	ruleCount, err := next()
	if err != nil {
		return err
	}
	t.Rules = make([]RuleEntry, ruleCount)
	for i := range t.Rules {
		if t.Rules[i].LHS, err = next(); err != nil {
			return err
		}
		if t.Rules[i].RHSLength, err = next(); err != nil {
			return err
		}
	}

	weakCount, err := next()
	if err != nil {
		return err
	}
	t.WeakToStrong = make([]WeakPair, weakCount)
	for i := range t.WeakToStrong {
		if t.WeakToStrong[i].Weak, err = next(); err != nil {
			return err
		}
		if t.WeakToStrong[i].Strong, err = next(); err != nil {
			return err
		}
	}

	dfaCount, err := next()
	if err != nil {
		return err
	}
	t.DFAStates = make([]DFAStateEntry, dfaCount)
	for i := range t.DFAStates {
		trCount, err := next()
		if err != nil {
			return err
		}
		t.DFAStates[i].Transitions = make([]DFATransition, trCount)
		for j := range t.DFAStates[i].Transitions {
			if t.DFAStates[i].Transitions[j].ClassID, err = next(); err != nil {
				return err
			}
			if t.DFAStates[i].Transitions[j].Target, err = next(); err != nil {
				return err
			}
		}
		acCount, err := next()
		if err != nil {
			return err
		}
		t.DFAStates[i].Accepts = make([]DFAAccept, acCount)
		for j := range t.DFAStates[i].Accepts {
			if t.DFAStates[i].Accepts[j].Terminal, err = next(); err != nil {
				return err
			}
			eager, nn, e := decBinaryBool(data)
			if e != nil {
				return e
			}
			read(nn)
			t.DFAStates[i].Accepts[j].Eager = eager
			if t.DFAStates[i].Accepts[j].Priority, err = next(); err != nil {
				return err
			}
		}
	}

	classCount, err := next()
	if err != nil {
		return err
	}
	t.Classes = make([]ClassRange, classCount)
	for i := range t.Classes {
		if t.Classes[i].Lo, err = next(); err != nil {
			return err
		}
		if t.Classes[i].Hi, err = next(); err != nil {
			return err
		}
		if t.Classes[i].ClassID, err = next(); err != nil {
			return err
		}
	}

	return nil
}

func decActionEntries(data []byte) ([]ActionEntry, int, error) {
	count, n, err := decBinaryInt(data)
	if err != nil {
		return nil, 0, err
	}
	total := n
	data = data[n:]

	out := make([]ActionEntry, count)
	for i := range out {
		sym, nn, err := decBinaryInt(data)
		if err != nil {
			return nil, 0, err
		}
		data = data[nn:]
		total += nn

		kind, nn, err := decBinaryUint8(data)
		if err != nil {
			return nil, 0, err
		}
		data = data[nn:]
		total += nn

		target, nn, err := decBinaryInt(data)
		if err != nil {
			return nil, 0, err
		}
		data = data[nn:]
		total += nn

		out[i] = ActionEntry{Symbol: sym, Kind: kind, Target: target}
	}
	return out, total, nil
}
