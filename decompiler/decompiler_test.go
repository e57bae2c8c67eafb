package decompiler

import (
	"testing"

	"asdecompile/ast"
	"asdecompile/literal"
	"asdecompile/opcode"
)

func decompile(t *testing.T, asm *opcode.Assembler, lits []literal.Entry, params []string) *ast.Handler {
	t.Helper()
	d := New(opcode.Default)
	h, diags, err := d.DecompileHandler("run", params, lits, asm.Bytes(), Options{})
	if err != nil {
		t.Fatalf("DecompileHandler() error = %v, diagnostics = %v", err, diags)
	}
	return h
}

func TestDecompileBareReturnTrue(t *testing.T) {
	asm := opcode.NewAssembler(nil).
		Emit(opcode.PushTrue).
		Emit(opcode.Return)
	h := decompile(t, asm, nil, nil)

	if len(h.Body) != 1 {
		t.Fatalf("len(Body) = %d, want 1", len(h.Body))
	}
	ret, ok := h.Body[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("Body[0] = %T, want *ast.ReturnStatement", h.Body[0])
	}
	b, ok := ret.Value.(*ast.BooleanLiteral)
	if !ok || !b.Value {
		t.Errorf("ret.Value = %#v, want true", ret.Value)
	}
}

func TestDecompileAddition(t *testing.T) {
	asm := opcode.NewAssembler(nil).
		Emit(opcode.Push2).
		Emit(opcode.Push3).
		Emit(opcode.OpAdd).
		Emit(opcode.Return)
	h := decompile(t, asm, nil, nil)

	ret := h.Body[0].(*ast.ReturnStatement)
	add, ok := ret.Value.(*ast.BinaryOp)
	if !ok || add.Op != ast.Add {
		t.Fatalf("ret.Value = %#v, want Add BinaryOp", ret.Value)
	}
	l := add.Left.(*ast.NumberLiteral)
	r := add.Right.(*ast.NumberLiteral)
	if l.Value != 2 || r.Value != 3 {
		t.Errorf("operands = %d, %d, want 2, 3", l.Value, r.Value)
	}
}

func TestDecompileIfElse(t *testing.T) {
	// if true then push1 else push0
	asm := opcode.NewAssembler(nil)
	asm.Emit(opcode.PushTrue)
	testIfOperandPos := len(asm.Bytes()) + 1 // +1 for TestIf's own opcode byte
	asm.EmitWord(opcode.TestIf, 0)           // placeholder, patched below
	asm.Emit(opcode.Push1)
	jumpOperandPos := len(asm.Bytes()) + 1
	asm.EmitWord(opcode.Jump, 0) // placeholder
	elseStart := len(asm.Bytes())
	asm.Emit(opcode.Push0)
	end := len(asm.Bytes())

	raw := asm.Bytes()
	patchWord(raw, testIfOperandPos, elseStart)
	patchWord(raw, jumpOperandPos, end)

	d := New(opcode.Default)
	h, _, err := d.DecompileHandler("run", nil, nil, raw, Options{})
	if err != nil {
		t.Fatalf("DecompileHandler() error = %v", err)
	}
	if len(h.Body) != 1 {
		t.Fatalf("len(Body) = %d, want 1", len(h.Body))
	}
	ifStmt, ok := h.Body[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("Body[0] = %T, want *ast.IfStatement", h.Body[0])
	}
	if len(ifStmt.Then) != 1 || len(ifStmt.Else) != 1 {
		t.Fatalf("Then/Else lengths = %d/%d, want 1/1", len(ifStmt.Then), len(ifStmt.Else))
	}
}

// patchWord overwrites the big-endian signed 16-bit operand at byte
// offset operandPos so it evaluates to target per the branch rule
// effective_target = opcode position + 1 + offset, where the opcode
// byte sits at operandPos - 1 (so effective_target = operandPos + offset).
func patchWord(code []byte, operandPos, target int) {
	offset := target - operandPos
	code[operandPos] = byte(offset >> 8)
	code[operandPos+1] = byte(offset)
}

func TestDecompileTellActivate(t *testing.T) {
	lits := []literal.Entry{
		{Kind: literal.ByteString, Bytes: []byte("Finder")},
		{Kind: literal.Constant, Number: codeNumber("acorevact")}, // class+id junk, unused by MessageSend path here
	}
	asm := opcode.NewAssembler(nil)
	asm.EmitWord(opcode.PushLiteralExtended, 0) // pushes literal index 0 ("Finder")
	asm.EmitWord(opcode.Tell, 0)
	// Inside tell: PushIt, PositionalMessageSend naming literal index 1 with 0 args.
	asm.Emit(opcode.PushIt)
	asm.Emit(opcode.Push0)
	asm.EmitWord(opcode.PositionalMessageSend, 1)
	asm.Emit(opcode.EndTell)

	lits[1] = literal.Entry{Kind: literal.ByteString, Bytes: []byte("activate")}

	h := decompile(t, asm, lits, nil)
	if len(h.Body) != 1 {
		t.Fatalf("len(Body) = %d, want 1", len(h.Body))
	}
	tell, ok := h.Body[0].(*ast.TellBlock)
	if !ok {
		t.Fatalf("Body[0] = %T, want *ast.TellBlock", h.Body[0])
	}
	target, ok := tell.Target.(*ast.StringLiteral)
	if !ok || target.Value != "Finder" {
		t.Errorf("tell.Target = %#v, want StringLiteral(Finder)", tell.Target)
	}
	if len(tell.Body) != 1 {
		t.Fatalf("len(tell.Body) = %d, want 1", len(tell.Body))
	}
	expr, ok := tell.Body[0].(*ast.ExprStatement)
	if !ok {
		t.Fatalf("tell.Body[0] = %T, want *ast.ExprStatement", tell.Body[0])
	}
	call, ok := expr.Expr.(*ast.HandlerCall)
	if !ok || call.Name != "activate" {
		t.Errorf("expr.Expr = %#v, want HandlerCall(activate)", expr.Expr)
	}
	if call.Target != nil {
		t.Errorf("call.Target = %#v, want nil (stripped __it__)", call.Target)
	}
}

func codeNumber(s string) int64 {
	var v int64
	for i := 0; i < 4 && i < len(s); i++ {
		v = v<<8 | int64(s[i])
	}
	return v
}

func TestDecompileRepeatWithCounter(t *testing.T) {
	asm := opcode.NewAssembler(nil)
	asm.EmitWord(opcode.LinkRepeat, 0) // patched below
	bodyStart := len(asm.Bytes())
	asm.Emit(opcode.Push1) // from
	asm.Emit(opcode.Push3) // to -- wait RepeatInRange pops by,to,from in that order
	asm.Emit(opcode.Push2) // by
	asm.EmitWord(opcode.RepeatInRange, 0)
	end := len(asm.Bytes())

	raw := asm.Bytes()
	patchWord(raw, 1, end)

	h := decompileRaw(t, raw, nil, nil)
	if len(h.Body) != 1 {
		t.Fatalf("len(Body) = %d, want 1", len(h.Body))
	}
	rep, ok := h.Body[0].(*ast.RepeatStatement)
	if !ok {
		t.Fatalf("Body[0] = %T, want *ast.RepeatStatement", h.Body[0])
	}
	if rep.Kind != ast.RepeatWithCounter {
		t.Errorf("Kind = %v, want RepeatWithCounter", rep.Kind)
	}
	from := rep.From.(*ast.NumberLiteral)
	to := rep.To.(*ast.NumberLiteral)
	by := rep.By.(*ast.NumberLiteral)
	if from.Value != 1 || to.Value != 3 || by.Value != 2 {
		t.Errorf("from/to/by = %d/%d/%d, want 1/3/2", from.Value, to.Value, by.Value)
	}
	_ = bodyStart
}

func decompileRaw(t *testing.T, code []byte, lits []literal.Entry, params []string) *ast.Handler {
	t.Helper()
	d := New(opcode.Default)
	h, diags, err := d.DecompileHandler("run", params, lits, code, Options{})
	if err != nil {
		t.Fatalf("DecompileHandler() error = %v, diagnostics = %v", err, diags)
	}
	return h
}

// TestDecompileAndShortCircuit exercises dispatchAndOr/resolveShortCircuit
// directly (spec.md end-to-end scenario 6): real And+TestIf-free bytecode
// whose right branch pushes PushFalse must close into a single
// BinaryOp(And) with both operands populated, not a lingering andFrame.
func TestDecompileAndShortCircuit(t *testing.T) {
	asm := opcode.NewAssembler(nil)
	asm.Emit(opcode.PushTrue) // left operand
	andOperandPos := len(asm.Bytes()) + 1
	asm.EmitWord(opcode.And, 0) // placeholder, patched below
	asm.Emit(opcode.PushFalse)  // right operand
	rightEnd := len(asm.Bytes())
	asm.Emit(opcode.Return)

	raw := asm.Bytes()
	patchWord(raw, andOperandPos, rightEnd)

	h := decompileRaw(t, raw, nil, nil)
	if len(h.Body) != 1 {
		t.Fatalf("len(Body) = %d, want 1", len(h.Body))
	}
	ret, ok := h.Body[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("Body[0] = %T, want *ast.ReturnStatement", h.Body[0])
	}
	and, ok := ret.Value.(*ast.BinaryOp)
	if !ok || and.Op != ast.And {
		t.Fatalf("ret.Value = %#v, want And BinaryOp", ret.Value)
	}
	l, ok := and.Left.(*ast.BooleanLiteral)
	if !ok || !l.Value {
		t.Errorf("and.Left = %#v, want true", and.Left)
	}
	r, ok := and.Right.(*ast.BooleanLiteral)
	if !ok || r.Value {
		t.Errorf("and.Right = %#v, want false", and.Right)
	}
}

func TestDecompileUnterminatedBlockIsError(t *testing.T) {
	asm := opcode.NewAssembler(nil)
	asm.Emit(opcode.PushTrue)
	asm.EmitWord(opcode.TestIf, 100) // branch past end of code, never resolved
	asm.Emit(opcode.Push1)
	asm.Emit(opcode.Return)

	d := New(opcode.Default)
	_, _, err := d.DecompileHandler("run", nil, nil, asm.Bytes(), Options{})
	if err == nil {
		t.Fatal("DecompileHandler() error = nil, want unterminated-block error")
	}
}
