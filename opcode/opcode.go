// Package opcode holds the opcode-number-to-mnemonic table the
// decompiler dispatches on (§6.2) and the object-specifier
// sub-operation table (§4.3.3's MakeObjectAlias/MakeComp family).
//
// Both tables are, per their external-interface boundary, produced
// elsewhere (disassembling a real .scpt's opcode stream requires the
// container format's own opcode numbering, which this project does not
// parse). What's here is a compatible stand-in: real mnemonic names,
// assigned to byte values in a stable, documented order, so the
// decompiler and its tests have something concrete to dispatch on end
// to end. A consumer wired to a real opcode table only needs to supply
// its own Table value.
package opcode

import "encoding/binary"

// Mnemonic names one decompiler-visible instruction. The decompiler
// package never looks at opcode byte values directly, only at these.
type Mnemonic string

const (
	Push0      Mnemonic = "Push0"
	Push1      Mnemonic = "Push1"
	Push2      Mnemonic = "Push2"
	Push3      Mnemonic = "Push3"
	PushMinus1 Mnemonic = "PushMinus1"
	PushTrue   Mnemonic = "PushTrue"
	PushFalse  Mnemonic = "PushFalse"
	PushIt     Mnemonic = "PushIt"
	PushMe     Mnemonic = "PushMe"

	PushLiteral          Mnemonic = "PushLiteral"
	PushLiteralExtended  Mnemonic = "PushLiteralExtended"
	PushVariable         Mnemonic = "PushVariable"
	PushVariableExtended Mnemonic = "PushVariableExtended"
	PushGlobal           Mnemonic = "PushGlobal"
	PushGlobalExtended  Mnemonic = "PushGlobalExtended"
	PushParentVariable  Mnemonic = "PushParentVariable"

	PopVariable         Mnemonic = "PopVariable"
	PopVariableExtended Mnemonic = "PopVariableExtended"
	PopGlobal           Mnemonic = "PopGlobal"
	PopGlobalExtended   Mnemonic = "PopGlobalExtended"
	PopParentVariable   Mnemonic = "PopParentVariable"
	SetData             Mnemonic = "SetData"
	GetData             Mnemonic = "GetData"

	// Binary operators (§3.1's BinaryOpKind, minus the object-specifier
	// and control-flow forms handled separately below).
	OpAdd      Mnemonic = "Add"
	OpSubtract Mnemonic = "Subtract"
	OpMultiply Mnemonic = "Multiply"
	OpDivide   Mnemonic = "Divide"
	OpMod      Mnemonic = "Mod"
	OpPow      Mnemonic = "Pow"
	OpConcat   Mnemonic = "Concatenate"
	OpEqual    Mnemonic = "Equal"
	OpNotEqual Mnemonic = "NotEqual"
	OpLess     Mnemonic = "Less"
	OpLessEq    Mnemonic = "LessOrEqual"
	OpGreater   Mnemonic = "Greater"
	OpGreaterEq Mnemonic = "GreaterOrEqual"
	OpCoerce    Mnemonic = "Coerce"
	OpContains  Mnemonic = "Contains"

	// Unary operators.
	OpNegate Mnemonic = "Negate"
	OpNot    Mnemonic = "Not"

	MakeObjectAlias Mnemonic = "MakeObjectAlias"
	MakeComp        Mnemonic = "MakeComp"

	TestIf             Mnemonic = "TestIf"
	Jump               Mnemonic = "Jump"
	LinkRepeat         Mnemonic = "LinkRepeat"
	RepeatNTimes       Mnemonic = "RepeatNTimes"
	RepeatWhile        Mnemonic = "RepeatWhile"
	RepeatUntil        Mnemonic = "RepeatUntil"
	RepeatInCollection Mnemonic = "RepeatInCollection"
	RepeatInRange      Mnemonic = "RepeatInRange"
	Exit               Mnemonic = "Exit"
	ErrorHandler       Mnemonic = "ErrorHandler"
	EndErrorHandler    Mnemonic = "EndErrorHandler"
	HandleError        Mnemonic = "HandleError"
	Tell               Mnemonic = "Tell"
	EndTell            Mnemonic = "EndTell"
	And                Mnemonic = "And"
	Or                 Mnemonic = "Or"

	MessageSend           Mnemonic = "MessageSend"
	PositionalMessageSend Mnemonic = "PositionalMessageSend"
	StoreResult           Mnemonic = "StoreResult"
	Error                 Mnemonic = "Error"

	MakeVector Mnemonic = "MakeVector"
	MakeRecord Mnemonic = "MakeRecord"
	Dup        Mnemonic = "Dup"
	Return     Mnemonic = "Return"
)

// BinaryMnemonics marks every binary-operator mnemonic. It does not
// name the ast.BinaryOpKind to push: that mapping, mirroring the
// teacher's BINARY_OP_MAPPING-shaped lookup, lives in package
// decompiler, keyed off these mnemonic constants, which keeps this
// package free of the ast import.
var BinaryMnemonics = map[Mnemonic]bool{
	OpAdd: true, OpSubtract: true, OpMultiply: true, OpDivide: true,
	OpMod: true, OpPow: true, OpConcat: true, OpEqual: true,
	OpNotEqual: true, OpLess: true, OpLessEq: true, OpGreater: true,
	OpGreaterEq: true, OpCoerce: true, OpContains: true,
}

// UnaryMnemonics maps every unary-operator mnemonic.
var UnaryMnemonics = map[Mnemonic]bool{
	OpNegate: true, OpNot: true,
}

// Table is a 256-entry opcode-byte-to-mnemonic mapping.
type Table [256]Mnemonic

// Lookup returns the mnemonic assigned to b, or "" if none.
func (t *Table) Lookup(b byte) Mnemonic {
	return t[b]
}

// Default is the stand-in table described in the package doc. Bytes
// objectSpecifierBase..objectSpecifierBase+7 decode as MakeObjectAlias,
// whose sub-operation SubOpFor then reads off the byte itself; every
// mnemonic the decompiler recognizes is also assigned a stable byte in
// declaration order starting just past that range, at byte 32. Byte 0
// and the other bytes outside those two ranges carry no mnemonic.
var Default = buildDefaultTable()

// objectSpecifierBase is the first byte of the reserved range that
// SubOpFor reads (bytes objectSpecifierBase..objectSpecifierBase+7);
// ordinary mnemonics start right after it so the two byte spaces never
// overlap.
const objectSpecifierBase = 23

func buildDefaultTable() *Table {
	order := []Mnemonic{
		Push0, Push1, Push2, Push3, PushMinus1, PushTrue, PushFalse,
		PushIt, PushMe, PushLiteral, PushLiteralExtended, PushVariable,
		PushVariableExtended, PushGlobal, PushGlobalExtended,
		PushParentVariable, PopVariable, PopVariableExtended, PopGlobal,
		PopGlobalExtended, PopParentVariable, SetData, GetData,
		OpAdd, OpSubtract, OpMultiply, OpDivide, OpMod, OpPow, OpConcat,
		OpEqual, OpNotEqual, OpLess, OpLessEq, OpGreater, OpGreaterEq,
		OpCoerce, OpContains, OpNegate, OpNot, MakeObjectAlias, MakeComp,
		TestIf, Jump, LinkRepeat, RepeatNTimes, RepeatWhile, RepeatUntil,
		RepeatInCollection, RepeatInRange, Exit, ErrorHandler,
		EndErrorHandler, HandleError, Tell, EndTell, And, Or,
		MessageSend, PositionalMessageSend, StoreResult, Error,
		MakeVector, MakeRecord, Dup, Return,
	}
	var t Table
	for idx := range SubOpTable {
		t[objectSpecifierBase+idx] = MakeObjectAlias
	}
	for i, m := range order {
		t[objectSpecifierBase+len(SubOpTable)+1+i] = m
	}
	return &t
}

// SubOp names one MakeObjectAlias/MakeComp sub-operation, selected by
// opcode_byte-23 (§4.3.3).
type SubOp string

const (
	GetPositionEnd SubOp = "GetPositionEnd"
	GetProperty    SubOp = "GetProperty"
	GetEvery       SubOp = "GetEvery"
	GetIndexedName SubOp = "GetIndexedName"
	GetIndexedID   SubOp = "GetIndexedID"
	GetKeyFromName SubOp = "GetKeyFromName"
	GetKeyFromID   SubOp = "GetKeyFromID"
	GetRange       SubOp = "GetRange"
)

// SubOpTable maps a sub-operation index (opcode_byte-23) to its name.
// Indices with no entry decode to "" and the decompiler reports them
// as not implemented, per §4.3.3's fallback rule.
var SubOpTable = map[int]SubOp{
	0: GetPositionEnd,
	1: GetProperty,
	2: GetEvery,
	3: GetIndexedName,
	4: GetIndexedID,
	5: GetKeyFromName,
	6: GetKeyFromID,
	7: GetRange,
}

// SubOpFor returns the sub-operation selected by opcode byte b,
// computed as b-23 (§4.3.3), and whether it is recognized.
func SubOpFor(b byte) (SubOp, bool) {
	idx := int(b) - objectSpecifierBase
	s, ok := SubOpTable[idx]
	return s, ok
}

// Assembler builds a raw instruction stream for tests, mirroring the
// teacher's MakeInstruction: an opcode byte followed by big-endian
// operand words.
type Assembler struct {
	table *Table
	buf   []byte
}

// NewAssembler returns an Assembler encoding against table (Default
// if nil).
func NewAssembler(table *Table) *Assembler {
	if table == nil {
		table = Default
	}
	return &Assembler{table: table}
}

// byteOf returns the opcode byte assigned to m in the assembler's
// table, or 0 if m is unassigned.
func (a *Assembler) byteOf(m Mnemonic) byte {
	for i, cur := range a.table {
		if cur == m {
			return byte(i)
		}
	}
	return 0
}

// Emit appends an instruction for m with no operand word.
func (a *Assembler) Emit(m Mnemonic) *Assembler {
	a.buf = append(a.buf, a.byteOf(m))
	return a
}

// EmitWord appends an instruction for m followed by a big-endian
// signed 16-bit operand.
func (a *Assembler) EmitWord(m Mnemonic, word int16) *Assembler {
	var w [2]byte
	binary.BigEndian.PutUint16(w[:], uint16(word))
	a.buf = append(a.buf, a.byteOf(m), w[0], w[1])
	return a
}

// EmitSub appends a MakeObjectAlias/MakeComp instruction selecting sub.
// Per §4.3.3 the sub-operation is read directly off the opcode byte as
// opcode_byte-23, so the emitted byte is 23+idx with no family prefix.
func (a *Assembler) EmitSub(sub SubOp) *Assembler {
	idx := -1
	for i, s := range SubOpTable {
		if s == sub {
			idx = i
			break
		}
	}
	if idx < 0 {
		panic("opcode: unknown sub-operation " + string(sub))
	}
	a.buf = append(a.buf, byte(objectSpecifierBase+idx))
	return a
}

// Bytes returns the assembled instruction stream.
func (a *Assembler) Bytes() []byte {
	return a.buf
}

// Word decodes the big-endian signed 16-bit word at b[pos:pos+2],
// matching the teacher's big-endian operand convention
// (compiler/code.go's MakeInstruction) and the original decompiler's
// word() helper.
func Word(b []byte, pos int) int16 {
	return int16(binary.BigEndian.Uint16(b[pos : pos+2]))
}
