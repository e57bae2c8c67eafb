package analyzer

import (
	"strconv"
	"strings"

	"asdecompile/ast"
)

// NaiveString recognizes four ASCII-character idioms the bytecode
// compiler emits for literal strings built character-by-character,
// collapsing each back into an ordinary string literal (§4.5).
type NaiveString struct{}

// RewriteNumberLiteral prints a printable-ASCII numeric value as the
// single-character string it most likely represents.
func (NaiveString) RewriteNumberLiteral(p Printer, target, command string, n *ast.NumberLiteral) (string, bool) {
	if n.Value < 32 || n.Value > 126 {
		return "", false
	}
	return strconv.Quote(string(rune(n.Value))), true
}

// RewriteListLiteral collapses a list whose every element is a
// one-character string into a single concatenated string literal.
func (NaiveString) RewriteListLiteral(p Printer, target, command string, n *ast.ListLiteral) (string, bool) {
	if len(n.Elements) == 0 {
		return "", false
	}
	var b strings.Builder
	for _, el := range n.Elements {
		s, ok := el.(*ast.StringLiteral)
		if !ok || len([]rune(s.Value)) != 1 {
			return "", false
		}
		b.WriteString(s.Value)
	}
	return strconv.Quote(b.String()), true
}

// RewriteCommandCall collapses "(ASCII character "X")" down to just
// "X" once the command name resolves to "ASCII character" and it
// takes a single character-shaped argument.
func (NaiveString) RewriteCommandCall(p Printer, target, command string, n *ast.CommandCall) (string, bool) {
	if p.ResolveCommandName(target, n.CommandName) != "ASCII character" {
		return "", false
	}
	if len(n.Arguments) != 1 {
		return "", false
	}
	switch arg := n.Arguments[0].(type) {
	case *ast.NumberLiteral:
		if arg.Value < 32 || arg.Value > 126 {
			return "", false
		}
		return strconv.Quote(string(rune(arg.Value))), true
	case *ast.StringLiteral:
		if len([]rune(arg.Value)) != 1 {
			return "", false
		}
		return strconv.Quote(arg.Value), true
	default:
		return "", false
	}
}

// RewriteBinaryOp collapses a Concat of two already string-shaped
// operands ("leading and trailing '\"' and no '&' inside", per §4.5)
// into one string literal.
func (NaiveString) RewriteBinaryOp(p Printer, target, command string, n *ast.BinaryOp) (string, bool) {
	if n.Op != ast.Concat {
		return "", false
	}
	left, ok := stringShaped(p, target, command, n.Left)
	if !ok {
		return "", false
	}
	right, ok := stringShaped(p, target, command, n.Right)
	if !ok {
		return "", false
	}
	return strconv.Quote(left + right), true
}

// stringShaped reports whether e prints as a bare quoted string
// literal with no operator content inside, and returns its decoded
// value.
func stringShaped(p Printer, target, command string, e ast.Expression) (string, bool) {
	printed := p.Print(target, command, e)
	if len(printed) < 2 || printed[0] != '"' || printed[len(printed)-1] != '"' {
		return "", false
	}
	if strings.Contains(printed[1:len(printed)-1], "&") {
		return "", false
	}
	unquoted, err := strconv.Unquote(printed)
	if err != nil {
		return "", false
	}
	return unquoted, true
}
