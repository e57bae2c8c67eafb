package printer

import (
	"strings"
	"testing"

	"asdecompile/ast"
)

func TestPrintHandlerBareReturnTrue(t *testing.T) {
	h := &ast.Handler{
		Name: "run",
		Body: []ast.Statement{
			&ast.ReturnStatement{Value: &ast.BooleanLiteral{Value: true}},
		},
	}
	p := New(nil, nil)
	got := p.PrintHandler(h)
	want := "on run()\n    return true\nend run"
	if got != want {
		t.Errorf("PrintHandler() = %q, want %q", got, want)
	}
}

func TestPrintAdditionParenthesizesNothingAtTopLevel(t *testing.T) {
	h := &ast.Handler{
		Name: "run",
		Body: []ast.Statement{
			&ast.ReturnStatement{Value: &ast.BinaryOp{
				Op:    ast.Add,
				Left:  &ast.NumberLiteral{Value: 2},
				Right: &ast.NumberLiteral{Value: 3},
			}},
		},
	}
	p := New(nil, nil)
	got := p.PrintHandler(h)
	if !strings.Contains(got, "return 2 + 3") {
		t.Errorf("PrintHandler() = %q, want to contain %q", got, "return 2 + 3")
	}
}

func TestPrintMulOfAddParenthesizesLowerPrecedenceOperand(t *testing.T) {
	// (2 + 3) * 4 must keep its parens; 2 + 3 * 4 must not gain any.
	mulOfAdd := &ast.BinaryOp{
		Op:   ast.Mul,
		Left: &ast.BinaryOp{Op: ast.Add, Left: &ast.NumberLiteral{Value: 2}, Right: &ast.NumberLiteral{Value: 3}},
		Right: &ast.NumberLiteral{Value: 4},
	}
	addOfMul := &ast.BinaryOp{
		Op:   ast.Add,
		Left: &ast.NumberLiteral{Value: 2},
		Right: &ast.BinaryOp{Op: ast.Mul, Left: &ast.NumberLiteral{Value: 3}, Right: &ast.NumberLiteral{Value: 4}},
	}
	p := New(nil, nil)
	if got := p.printExpr(DefaultContext(), mulOfAdd); got != "(2 + 3) * 4" {
		t.Errorf("printExpr(mulOfAdd) = %q, want %q", got, "(2 + 3) * 4")
	}
	if got := p.printExpr(DefaultContext(), addOfMul); got != "2 + 3 * 4" {
		t.Errorf("printExpr(addOfMul) = %q, want %q", got, "2 + 3 * 4")
	}
}

func TestPrintTellWrapsStringTargetAsApplication(t *testing.T) {
	tell := &ast.TellBlock{
		Target: &ast.StringLiteral{Value: "Finder"},
		Body: []ast.Statement{
			&ast.ExprStatement{Expr: &ast.HandlerCall{Name: "activate"}},
		},
	}
	p := New(nil, nil)
	got := p.printStatement(DefaultContext(), 0, tell)
	want := "tell application \"Finder\"\n    activate()\nend tell"
	if got != want {
		t.Errorf("printStatement(tell) = %q, want %q", got, want)
	}
}

func TestPrintRepeatWithCounterByStep(t *testing.T) {
	rep := &ast.RepeatStatement{
		Kind:       ast.RepeatWithCounter,
		CounterVar: &ast.VarRef{Name: "i"},
		From:       &ast.NumberLiteral{Value: 1},
		To:         &ast.NumberLiteral{Value: 10},
		By:         &ast.NumberLiteral{Value: 2},
	}
	p := New(nil, nil)
	got := p.printStatement(DefaultContext(), 0, rep)
	want := "repeat with i from 1 to 10 by 2\n\nend repeat"
	if got != want {
		t.Errorf("printStatement(repeat) = %q, want %q", got, want)
	}
}

// TestPrintAndIsBinary prints a chain of three conjuncts built as nested
// two-operand BinaryOp(And) nodes, per the invariant that the final AST
// never carries an n-ary And/Or accumulator (§3.2).
func TestPrintAndIsBinary(t *testing.T) {
	and := &ast.BinaryOp{
		Op:   ast.And,
		Left: &ast.BooleanLiteral{Value: true},
		Right: &ast.BinaryOp{
			Op:    ast.And,
			Left:  &ast.BooleanLiteral{Value: false},
			Right: &ast.BooleanLiteral{Value: true},
		},
	}
	p := New(nil, nil)
	got := p.printExpr(DefaultContext(), and)
	want := "true and false and true"
	if got != want {
		t.Errorf("printExpr(and) = %q, want %q", got, want)
	}
}
