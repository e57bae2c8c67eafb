package analyzer

import (
	"testing"

	"asdecompile/ast"
)

// stubPrinter is a minimal Printer good enough for the rewriters under
// test: Print quotes strings and renders numbers the same way the real
// printer would for the shapes these tests exercise, and
// ResolveCommandName answers with a fixed table.
type stubPrinter struct {
	commandNames map[string]string
}

func (s stubPrinter) Print(target, command string, e ast.Expression) string {
	switch n := e.(type) {
	case *ast.StringLiteral:
		return "\"" + n.Value + "\""
	case *ast.NumberLiteral:
		if n.Value >= 32 && n.Value <= 126 {
			return "\"" + string(rune(n.Value)) + "\""
		}
	}
	return "<?>"
}

func (s stubPrinter) ResolveCommandName(target, code string) string {
	if s.commandNames == nil {
		return code
	}
	if name, ok := s.commandNames[code]; ok {
		return name
	}
	return code
}

func TestNaiveStringRewriteNumberLiteral(t *testing.T) {
	a := NaiveString{}
	got, ok := a.RewriteNumberLiteral(stubPrinter{}, "", "", &ast.NumberLiteral{Value: 65})
	if !ok || got != `"A"` {
		t.Errorf("RewriteNumberLiteral(65) = (%q, %v), want (\"A\", true)", got, ok)
	}
	if _, ok := a.RewriteNumberLiteral(stubPrinter{}, "", "", &ast.NumberLiteral{Value: 1000}); ok {
		t.Errorf("RewriteNumberLiteral(1000) should not collapse")
	}
}

func TestNaiveStringRewriteListLiteral(t *testing.T) {
	a := NaiveString{}
	list := &ast.ListLiteral{Elements: []ast.Expression{
		&ast.StringLiteral{Value: "H"},
		&ast.StringLiteral{Value: "i"},
	}}
	got, ok := a.RewriteListLiteral(stubPrinter{}, "", "", list)
	if !ok || got != `"Hi"` {
		t.Errorf("RewriteListLiteral(H,i) = (%q, %v), want (\"Hi\", true)", got, ok)
	}

	multiChar := &ast.ListLiteral{Elements: []ast.Expression{&ast.StringLiteral{Value: "Hi"}}}
	if _, ok := a.RewriteListLiteral(stubPrinter{}, "", "", multiChar); ok {
		t.Errorf("RewriteListLiteral should not collapse a multi-character element")
	}
}

func TestNaiveStringRewriteCommandCallASCIICharacter(t *testing.T) {
	a := NaiveString{}
	p := stubPrinter{commandNames: map[string]string{"ascrchr ": "ASCII character"}}
	call := &ast.CommandCall{
		CommandName: "ascrchr ",
		Arguments:   []ast.Expression{&ast.NumberLiteral{Value: 65}},
	}
	got, ok := a.RewriteCommandCall(p, "", "", call)
	if !ok || got != `"A"` {
		t.Errorf("RewriteCommandCall(ASCII character 65) = (%q, %v), want (\"A\", true)", got, ok)
	}

	other := &ast.CommandCall{CommandName: "coreactv", Arguments: []ast.Expression{&ast.NumberLiteral{Value: 65}}}
	if _, ok := a.RewriteCommandCall(p, "", "", other); ok {
		t.Errorf("RewriteCommandCall should not collapse a non-ASCII-character command")
	}
}

func TestNaiveStringRewriteBinaryOpConcat(t *testing.T) {
	a := NaiveString{}
	concat := &ast.BinaryOp{
		Op:    ast.Concat,
		Left:  &ast.StringLiteral{Value: "foo"},
		Right: &ast.StringLiteral{Value: "bar"},
	}
	got, ok := a.RewriteBinaryOp(stubPrinter{}, "", "", concat)
	if !ok || got != `"foobar"` {
		t.Errorf("RewriteBinaryOp(concat) = (%q, %v), want (\"foobar\", true)", got, ok)
	}

	add := &ast.BinaryOp{Op: ast.Add, Left: &ast.NumberLiteral{Value: 1}, Right: &ast.NumberLiteral{Value: 2}}
	if _, ok := a.RewriteBinaryOp(stubPrinter{}, "", "", add); ok {
		t.Errorf("RewriteBinaryOp should only collapse Concat")
	}
}
