// Package loader holds the external "root sequence" shape the
// decompiler's Driver walks (§6.1). Turning an actual .scpt container
// into this shape is a separate, out-of-scope subsystem — the real
// container format is a typed-block resource file this project never
// parses. What's here is the consumed interface (RootSequence,
// FunctionRecord, and the documented field offsets) plus a minimal
// compatible stand-in codec, Load/Encode, so the Driver and CLI have
// something to run against end to end. It is explicitly NOT a .scpt
// parser.
package loader

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Entry is either a Sequence (nested fields) or an opaque scalar
// value (string, int64, or []byte), matching §6.1's "each entry is
// either a sequence of fields or an opaque scalar".
type Entry interface {
	entry()
}

// Sequence is an ordered list of Entry values.
type Sequence []Entry

func (Sequence) entry() {}

// StringScalar is a leaf string value.
type StringScalar string

func (StringScalar) entry() {}

// IntScalar is a leaf integer value.
type IntScalar int64

func (IntScalar) entry() {}

// BytesScalar is a leaf byte buffer, used for a function record's
// code field.
type BytesScalar []byte

func (BytesScalar) entry() {}

// Field offsets within a function entry's Sequence (§6.1, 0-based
// semantic offsets).
const (
	NameOffset     = 0
	ArgsOffset     = 2
	LiteralsOffset = 5
	CodeOffset     = 6
)

// MinFunctionFields is the minimum field count for an entry to be
// considered a function record rather than "maybe binding" (§4.6).
const MinFunctionFields = 7

// FunctionRecord is a typed view over a Sequence with at least
// MinFunctionFields fields, exposing the name/args/literals/code
// fields at their documented offsets.
type FunctionRecord struct {
	Fields Sequence
}

// AsFunctionRecord returns a FunctionRecord view of s, or ok=false if
// s has too few fields to be one (§4.6's "maybe binding" check).
func AsFunctionRecord(s Sequence) (FunctionRecord, bool) {
	if len(s) < MinFunctionFields {
		return FunctionRecord{}, false
	}
	return FunctionRecord{Fields: s}, true
}

// Name returns the function's name field.
func (r FunctionRecord) Name() (string, bool) {
	s, ok := r.Fields[NameOffset].(StringScalar)
	return string(s), ok
}

// Args returns the function's parameter-name sequence.
func (r FunctionRecord) Args() (Sequence, bool) {
	s, ok := r.Fields[ArgsOffset].(Sequence)
	return s, ok
}

// Literals returns the function's literal-pool sequence.
func (r FunctionRecord) Literals() (Sequence, bool) {
	s, ok := r.Fields[LiteralsOffset].(Sequence)
	return s, ok
}

// Code returns the function's raw code buffer.
func (r FunctionRecord) Code() ([]byte, bool) {
	b, ok := r.Fields[CodeOffset].(BytesScalar)
	return []byte(b), ok
}

// Entry-kind tags used by the stand-in binary codec below.
const (
	tagSequence = iota
	tagString
	tagInt
	tagBytes
)

// Encode serializes a RootSequence to the stand-in binary format:
// a tag byte per entry, then a length-prefixed payload for scalars or
// a count-prefixed run of nested entries for a Sequence.
func Encode(w io.Writer, root Sequence) error {
	return encodeSequence(w, root)
}

func encodeSequence(w io.Writer, s Sequence) error {
	if err := writeByte(w, tagSequence); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(s))); err != nil {
		return err
	}
	for _, e := range s {
		if err := encodeEntry(w, e); err != nil {
			return err
		}
	}
	return nil
}

func encodeEntry(w io.Writer, e Entry) error {
	switch v := e.(type) {
	case Sequence:
		return encodeSequence(w, v)
	case StringScalar:
		if err := writeByte(w, tagString); err != nil {
			return err
		}
		return writeBytes(w, []byte(v))
	case IntScalar:
		if err := writeByte(w, tagInt); err != nil {
			return err
		}
		return binary.Write(w, binary.BigEndian, int64(v))
	case BytesScalar:
		if err := writeByte(w, tagBytes); err != nil {
			return err
		}
		return writeBytes(w, []byte(v))
	default:
		return fmt.Errorf("loader: unknown entry type %T", e)
	}
}

// Load deserializes a RootSequence previously written by Encode.
func Load(r io.Reader) (Sequence, error) {
	e, err := decodeEntry(r)
	if err != nil {
		return nil, err
	}
	s, ok := e.(Sequence)
	if !ok {
		return nil, fmt.Errorf("loader: root entry is not a sequence")
	}
	return s, nil
}

func decodeEntry(r io.Reader) (Entry, error) {
	tag, err := readByte(r)
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagSequence:
		n, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		s := make(Sequence, n)
		for i := range s {
			e, err := decodeEntry(r)
			if err != nil {
				return nil, err
			}
			s[i] = e
		}
		return s, nil
	case tagString:
		b, err := readBytes(r)
		if err != nil {
			return nil, err
		}
		return StringScalar(b), nil
	case tagInt:
		var v int64
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return nil, err
		}
		return IntScalar(v), nil
	case tagBytes:
		b, err := readBytes(r)
		if err != nil {
			return nil, err
		}
		return BytesScalar(b), nil
	default:
		return nil, fmt.Errorf("loader: unknown entry tag %d", tag)
	}
}

func writeByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

func readByte(r io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func writeUint32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func writeBytes(w io.Writer, b []byte) error {
	if err := writeUint32(w, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readBytes(r io.Reader) ([]byte, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}
