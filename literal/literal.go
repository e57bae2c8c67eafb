// Package literal converts raw literal-pool entries into AST leaf
// expressions (§4.2). The literal pool itself is part of a function
// record handed in from outside this project's scope; this package
// only knows how to read the five entry shapes it can contain.
package literal

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf16"

	"asdecompile/ast"
)

// Kind tags which of the five raw pool-entry shapes an Entry carries.
type Kind int

const (
	// Constant is a four-byte AppleEvent code stored as its numeric
	// value.
	Constant Kind = iota
	// Fixnum is a signed integer literal.
	Fixnum
	// ByteString is a raw, non-UTF-16 encoded string.
	ByteString
	// UTF16String is a UTF-16BE encoded string.
	UTF16String
	// AliasDescriptor is a file-alias record; version-2 payloads are
	// decoded from a fixed offset and other versions except 3 by a
	// ".app/" path split (§9 Open Question, resolved: version 3 reports
	// NotImplementedError rather than guessing its layout).
	AliasDescriptor
)

// Entry is one raw literal-pool entry as delivered by the loader.
type Entry struct {
	Kind Kind

	// Numeric value of a Constant (its four packed ASCII bytes) or a
	// Fixnum.
	Number int64

	// Number2 is the second four-byte half of a Constant entry used as
	// a MessageSend event code, which packs two
	// separate identifiers (class then ID) into one pool entry. Zero
	// for every other use of Constant.
	Number2 int64

	// Raw bytes of a ByteString, UTF16String, or AliasDescriptor.
	Bytes []byte

	// AliasVersion is the alias format version, only meaningful when
	// Kind == AliasDescriptor.
	AliasVersion int
}

// NotImplementedError reports a literal-pool shape this converter
// deliberately does not decode.
type NotImplementedError struct {
	Reason string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("literal: not implemented: %s", e.Reason)
}

// aliasNameOffset is the byte offset of the embedded application name
// within a version-2 alias descriptor's payload.
const aliasNameOffset = 51

// Convert maps a raw pool entry to an AST leaf expression (§4.2). The
// rules mirror the teacher's constant-pool bookkeeping in
// addConstant generalized to a multi-shape pool, and the exact
// per-shape decoding follows convert_literal in the original
// implementation this project's specification was distilled from.
func Convert(e Entry) (ast.Expression, error) {
	switch e.Kind {
	case Constant:
		return &ast.Keyword{Value: constantCode(e.Number)}, nil
	case Fixnum:
		return &ast.NumberLiteral{Value: e.Number}, nil
	case ByteString:
		return &ast.StringLiteral{Value: string(e.Bytes)}, nil
	case UTF16String:
		s, err := decodeUTF16BE(e.Bytes)
		if err != nil {
			return nil, err
		}
		return &ast.StringLiteral{Value: s}, nil
	case AliasDescriptor:
		name, err := aliasAppName(e)
		if err != nil {
			return nil, err
		}
		return &ast.VarRef{Name: name}, nil
	default:
		return nil, &NotImplementedError{Reason: "unknown literal-pool entry kind"}
	}
}

// EventCode renders a Constant entry as an 8-character AppleEvent
// code (class + ID), for the MessageSend literal shape that packs two
// four-byte identifiers into one entry.
func EventCode(e Entry) string {
	return constantCode(e.Number) + constantCode(e.Number2)
}

// StringValue returns the string an entry carries when it is
// string-shaped (ByteString or UTF16String), for opcodes such as
// PushGlobal/PopGlobal whose behavior depends on the raw pool-entry
// kind rather than its converted AST leaf.
func StringValue(e Entry) (string, bool) {
	switch e.Kind {
	case ByteString:
		return string(e.Bytes), true
	case UTF16String:
		s, err := decodeUTF16BE(e.Bytes)
		if err != nil {
			return "", false
		}
		return s, true
	default:
		return "", false
	}
}

// constantCode renders a packed four-byte AppleEvent code as its
// big-endian ASCII text. Leading zero bytes of the big-endian value
// collapse away naturally, matching trailing-NUL truncation on a
// constant whose code is shorter than four bytes.
func constantCode(value int64) string {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(value))
	trimmed := strings.TrimLeft(string(buf[:]), "\x00")
	return trimmed
}

// decodeUTF16BE decodes a big-endian UTF-16 byte string.
func decodeUTF16BE(b []byte) (string, error) {
	if len(b)%2 != 0 {
		return "", &NotImplementedError{Reason: "odd-length UTF-16BE literal"}
	}
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = binary.BigEndian.Uint16(b[i*2:])
	}
	return string(utf16.Decode(units)), nil
}

// aliasAppName extracts the application name from an alias-descriptor
// payload. Version 2 aliases carry it as raw bytes from a fixed
// offset, terminated by the literal substring ".app" (no length
// prefix). Version 3 is a known open question (§9) and is
// deliberately left unimplemented rather than guessing its layout.
// Any other version falls back to splitting on ".app/" and then on
// ":" (the classic Mac HFS path separator) when the payload happens
// to carry a readable path. Both rules follow convert_literal in the
// original implementation this project's specification was distilled
// from.
func aliasAppName(e Entry) (string, error) {
	switch e.AliasVersion {
	case 2:
		if len(e.Bytes) <= aliasNameOffset {
			return "", &NotImplementedError{Reason: "version-2 alias payload too short for name offset"}
		}
		rest := string(e.Bytes[aliasNameOffset:])
		return strings.SplitN(rest, ".app", 2)[0], nil
	case 3:
		return "", &NotImplementedError{Reason: "alias version 3 decoding is unimplemented"}
	}

	if idx := strings.Index(string(e.Bytes), ".app/"); idx >= 0 {
		path := string(e.Bytes[:idx])
		parts := strings.Split(path, ":")
		return parts[len(parts)-1], nil
	}

	return "", &NotImplementedError{Reason: fmt.Sprintf("alias version %d is not decoded", e.AliasVersion)}
}
