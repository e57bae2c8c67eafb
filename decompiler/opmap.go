package decompiler

import (
	"asdecompile/ast"
	"asdecompile/opcode"
)

// binaryOpKind maps a binary-operator mnemonic to its AST kind,
// mirroring the teacher-adjacent reference's BINARY_OP_MAPPING.
var binaryOpKind = map[opcode.Mnemonic]ast.BinaryOpKind{
	opcode.OpAdd:       ast.Add,
	opcode.OpSubtract:  ast.Sub,
	opcode.OpMultiply:  ast.Mul,
	opcode.OpDivide:    ast.Div,
	opcode.OpMod:       ast.Mod,
	opcode.OpPow:       ast.Pow,
	opcode.OpConcat:    ast.Concat,
	opcode.OpEqual:     ast.Eq,
	opcode.OpNotEqual:  ast.Ne,
	opcode.OpLess:      ast.Lt,
	opcode.OpLessEq:    ast.Le,
	opcode.OpGreater:   ast.Gt,
	opcode.OpGreaterEq: ast.Ge,
	opcode.OpCoerce:    ast.Coerce,
	opcode.OpContains:  ast.Contains,
}

// unaryOpKind maps a unary-operator mnemonic to its AST kind.
var unaryOpKind = map[opcode.Mnemonic]ast.UnaryOpKind{
	opcode.OpNegate: ast.Neg,
	opcode.OpNot:    ast.Not,
}

// pushImmediate maps Push0..Push3/PushMinus1 to their constant value.
var pushImmediate = map[opcode.Mnemonic]int64{
	opcode.Push0:      0,
	opcode.Push1:      1,
	opcode.Push2:      2,
	opcode.Push3:      3,
	opcode.PushMinus1: -1,
}
