package printer

import "asdecompile/ast"

// Precedence levels for the binary operator families that need
// parenthesization decisions, lowest to highest, mirroring the
// teacher's PREC_NONE..PREC_UNARY const block (compiler/compiler.go)
// but keyed on ast.BinaryOpKind instead of token.TokenType since this
// package never lexes or parses source text.
const (
	precNone = iota
	precOr
	precAnd
	precCompare
	precConcat
	precTerm
	precFactor
	precCoerce
	precObjectOf
	precUnary
)

var binaryPrecedence = map[ast.BinaryOpKind]int{
	ast.Or:          precOr,
	ast.And:         precAnd,
	ast.Eq:          precCompare,
	ast.Ne:          precCompare,
	ast.Lt:          precCompare,
	ast.Le:          precCompare,
	ast.Gt:          precCompare,
	ast.Ge:          precCompare,
	ast.Contains:    precCompare,
	ast.Concat:      precConcat,
	ast.Add:         precTerm,
	ast.Sub:         precTerm,
	ast.Mul:         precFactor,
	ast.Div:         precFactor,
	ast.Mod:         precFactor,
	ast.Pow:         precFactor,
	ast.Coerce:      precCoerce,
	ast.GetProperty: precObjectOf,
	ast.Every:       precObjectOf,
	ast.GetIndexed:  precObjectOf,
	ast.Thru:        precObjectOf,
}

// precedenceOf returns the binary precedence of e, or precUnary (the
// tightest level) for anything that is not itself a BinaryOp — a bare
// literal or variable reference never needs parens around it.
func precedenceOf(e ast.Expression) int {
	if b, ok := e.(*ast.BinaryOp); ok {
		return binaryPrecedence[b.Op]
	}
	return precUnary
}
