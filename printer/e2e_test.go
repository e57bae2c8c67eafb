package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asdecompile/analyzer"
	"asdecompile/ast"
	"asdecompile/decompiler"
	"asdecompile/literal"
	"asdecompile/opcode"
)

// These mirror the end-to-end decompile-then-print scenarios: each
// assembles a tiny instruction stream, runs it through the
// decompiler, and checks the printer's rendered source text, so a
// regression anywhere in the pipeline (not just this package) shows
// up here.

func decompileAndPrint(t *testing.T, asm *opcode.Assembler, lits []literal.Entry, an Analyzer) string {
	t.Helper()
	d := decompiler.New(opcode.Default)
	h, diags, err := d.DecompileHandler("run", nil, lits, asm.Bytes(), decompiler.Options{})
	require.NoError(t, err, "diagnostics: %v", diags)
	p := New(nil, an)
	return p.PrintHandler(h)
}

func TestEndToEndBareReturnTrue(t *testing.T) {
	asm := opcode.NewAssembler(nil).Emit(opcode.PushTrue).Emit(opcode.Return)
	got := decompileAndPrint(t, asm, nil, nil)
	assert.Equal(t, "on run()\n    return true\nend run", got)
}

func TestEndToEndAddition(t *testing.T) {
	asm := opcode.NewAssembler(nil).
		Emit(opcode.Push2).
		Emit(opcode.Push3).
		Emit(opcode.OpAdd).
		Emit(opcode.Return)
	got := decompileAndPrint(t, asm, nil, nil)
	assert.Equal(t, "on run()\n    return 2 + 3\nend run", got)
}

func TestEndToEndASCIICharacterListCollapsesUnderNaiveStringAnalyzer(t *testing.T) {
	// Build a list of two one-character strings from the literal pool
	// and return it; under the naive-string analyzer this should print
	// as a single string literal instead of a {"H", "i"} list.
	lits := []literal.Entry{
		{Kind: literal.ByteString, Bytes: []byte("H")},
		{Kind: literal.ByteString, Bytes: []byte("i")},
	}
	asm := opcode.NewAssembler(nil)
	asm.EmitWord(opcode.PushLiteralExtended, 0)
	asm.EmitWord(opcode.PushLiteralExtended, 1)
	asm.Emit(opcode.Push2)
	asm.Emit(opcode.MakeVector)
	asm.Emit(opcode.Return)

	withoutAnalyzer := decompileAndPrint(t, asm, lits, nil)
	assert.Equal(t, `on run()
    return {"H", "i"}
end run`, withoutAnalyzer)

	withAnalyzer := decompileAndPrint(t, asm, lits, analyzer.NaiveString{})
	assert.Equal(t, `on run()
    return "Hi"
end run`, withAnalyzer)
}

func TestEndToEndRepeatWithCounterByTwoEmptyBody(t *testing.T) {
	lits := []literal.Entry{{Kind: literal.Fixnum, Number: 10}}
	asm := opcode.NewAssembler(nil)
	asm.EmitWord(opcode.LinkRepeat, 0)          // patched below
	asm.Emit(opcode.Push1)                      // from
	asm.EmitWord(opcode.PushLiteralExtended, 0) // to = 10
	asm.Emit(opcode.Push2)                      // by
	asm.EmitWord(opcode.RepeatInRange, 0)
	end := len(asm.Bytes())

	raw := asm.Bytes()
	offset := end - (1 + 1)
	raw[1] = byte(offset >> 8)
	raw[2] = byte(offset)

	d := decompiler.New(opcode.Default)
	h, diags, err := d.DecompileHandler("run", nil, lits, raw, decompiler.Options{})
	require.NoError(t, err, "diagnostics: %v", diags)
	p := New(nil, nil)
	got := p.PrintHandler(h)
	assert.Equal(t, "on run()\n    repeat with [var_0] from 1 to 10 by 2\n\n    end repeat\nend run", got)
}

func TestBinaryOpAndIsAlwaysTwoOperandsDeep(t *testing.T) {
	// The final AST never keeps an n-ary and/or accumulator: a chain of
	// three conjuncts nests as BinaryOp(And, a, BinaryOp(And, b, c)).
	three := &ast.BinaryOp{
		Op:   ast.And,
		Left: &ast.BooleanLiteral{Value: true},
		Right: &ast.BinaryOp{
			Op:    ast.And,
			Left:  &ast.BooleanLiteral{Value: true},
			Right: &ast.BooleanLiteral{Value: false},
		},
	}
	_, ok := three.Right.(*ast.BinaryOp)
	assert.True(t, ok, "nested And operand should itself be a two-operand BinaryOp, not a flattened n-ary node")
}
