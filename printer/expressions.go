package printer

import (
	"fmt"
	"strconv"
	"strings"

	"asdecompile/ast"
)

var binaryOpText = map[ast.BinaryOpKind]string{
	ast.Add:      "+",
	ast.Sub:      "-",
	ast.Mul:      "*",
	ast.Div:      "/",
	ast.Mod:      "mod",
	ast.Pow:      "^",
	ast.Concat:   "&",
	ast.Eq:       "=",
	ast.Ne:       "≠",
	ast.Lt:       "<",
	ast.Le:       "≤",
	ast.Gt:       ">",
	ast.Ge:       "≥",
	ast.Contains: "contains",
	ast.Thru:     "thru",
	ast.And:      "and",
	ast.Or:       "or",
}

// printExpr dispatches on the expression's concrete type, consulting
// the analyzer's capability per node before falling back to the base
// rendering (§4.5).
func (p *Printer) printExpr(ctx Context, e ast.Expression) string {
	if p.Analyzer != nil {
		if s, ok := p.tryAnalyzer(ctx, e); ok {
			return s
		}
	}
	return p.printExprBase(ctx, e)
}

func (p *Printer) printExprBase(ctx Context, e ast.Expression) string {
	switch n := e.(type) {
	case *ast.StringLiteral:
		return strconv.Quote(n.Value)

	case *ast.NumberLiteral:
		return strconv.FormatInt(n.Value, 10)

	case *ast.BooleanLiteral:
		if n.Value {
			return "true"
		}
		return "false"

	case *ast.DateLiteral:
		return "date " + strconv.Quote(n.Text)

	case *ast.MissingValueLiteral:
		return "missing value"

	case *ast.Keyword:
		return p.resolveKeyword(ctx, n.Value)

	case *ast.VarRef:
		return n.Name

	case *ast.ListLiteral:
		parts := make([]string, 0, len(n.Elements))
		for _, el := range n.Elements {
			parts = append(parts, p.printExpr(ctx, el))
		}
		return "{" + strings.Join(parts, ", ") + "}"

	case *ast.RecordLiteral:
		parts := make([]string, 0, len(n.Fields))
		for _, f := range n.Fields {
			parts = append(parts, p.printExpr(ctx, f.Label)+":"+p.printExpr(ctx, f.Value))
		}
		return "{" + strings.Join(parts, ", ") + "}"

	case *ast.ElementSpecifier:
		return p.printElementSpecifier(ctx, n)

	case *ast.BinaryOp:
		return p.printBinaryOp(ctx, n)

	case *ast.UnaryOp:
		return p.printUnaryOp(ctx, n)

	case *ast.CommandCall:
		return p.printCommandCall(ctx, n)

	case *ast.HandlerCall:
		return p.printHandlerCall(ctx, n)

	default:
		return fmt.Sprintf("<unprintable expression %T>", n)
	}
}

func (p *Printer) printElementSpecifier(ctx Context, n *ast.ElementSpecifier) string {
	head := "every " + n.ElementClass
	if n.Key != nil {
		switch n.KeyKind {
		case "name":
			head += " named " + p.printExpr(ctx, n.Key)
		case "id":
			head += " id " + p.printExpr(ctx, n.Key)
		default:
			head += " " + p.printExpr(ctx, n.Key)
		}
	}
	return head + " of " + p.printExpr(ctx, n.Container)
}

// printBinaryOp parenthesizes an operand only when its own precedence
// is lower than the operator printing it, matching §4.4's "preserve
// operator precedence by parenthesising only the constructs that
// require it."
func (p *Printer) printBinaryOp(ctx Context, n *ast.BinaryOp) string {
	switch n.Op {
	case ast.GetProperty:
		return p.printExpr(ctx, n.Left) + " of " + p.printExpr(ctx, n.Right)
	case ast.Every:
		return "every " + p.printExpr(ctx, n.Left) + " of " + p.printExpr(ctx, n.Right)
	case ast.GetIndexed:
		return p.printExpr(ctx, n.Left) + " of " + p.printExpr(ctx, n.Right)
	case ast.Coerce:
		return p.parenIfLower(ctx, n.Left, precCoerce) + " as " + p.printExpr(ctx, n.Right)
	}
	text, ok := binaryOpText[n.Op]
	if !ok {
		text = string(rune(n.Op))
	}
	prec := binaryPrecedence[n.Op]
	return p.parenIfLower(ctx, n.Left, prec) + " " + text + " " + p.parenIfLower(ctx, n.Right, prec)
}

func (p *Printer) parenIfLower(ctx Context, e ast.Expression, prec int) string {
	s := p.printExpr(ctx, e)
	if precedenceOf(e) < prec {
		return "(" + s + ")"
	}
	return s
}

func (p *Printer) printUnaryOp(ctx Context, n *ast.UnaryOp) string {
	operand := p.parenIfLower(ctx, n.Operand, precUnary)
	switch n.Op {
	case ast.Neg:
		return "-(" + p.printExpr(ctx, n.Operand) + ")"
	case ast.Not:
		return "not " + operand
	case ast.EndOf:
		return "end of " + operand
	default:
		return operand
	}
}

func (p *Printer) printCommandCall(ctx Context, n *ast.CommandCall) string {
	name := p.resolveCommandName(ctx, n.CommandName)
	inner := ctx
	inner.Command = n.CommandName
	var b strings.Builder
	b.WriteString("(")
	if n.Target != nil {
		b.WriteString(p.printExpr(ctx, n.Target))
		b.WriteString("'s ")
	}
	b.WriteString(name)
	for _, arg := range n.Arguments {
		b.WriteString(" ")
		b.WriteString(p.printExpr(inner, arg))
	}
	b.WriteString(")")
	return b.String()
}

func (p *Printer) printHandlerCall(ctx Context, n *ast.HandlerCall) string {
	args := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		args = append(args, p.printExpr(ctx, a))
	}
	call := n.Name + "(" + strings.Join(args, ", ") + ")"
	if n.Target != nil {
		return p.printExpr(ctx, n.Target) + "'s " + call
	}
	return call
}
