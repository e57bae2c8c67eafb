package decompiler

import "asdecompile/ast"

// A block frame is any element the block stack can hold while a
// handler is mid-decompilation. The final AST never sees these types
// directly (§9, "In-progress blocks vs final AST") except for
// *ast.Handler itself, which doubles as the bottom frame since its
// shape — a name plus an accumulating statement body — already is
// what an in-progress handler needs.

// ifFrame accumulates an if/then/else while its end-of-if branch
// target is still unknown.
type ifFrame struct {
	Condition ast.Expression
	ElsePos   int
	EndIfPos  int // -1 until a Jump sets it
	Then      []ast.Statement
	Else      []ast.Statement
}

func newIfFrame(cond ast.Expression, elsePos int) *ifFrame {
	return &ifFrame{Condition: cond, ElsePos: elsePos, EndIfPos: -1}
}

// repeatFrame accumulates any repeat-loop form. Kind starts as
// RepeatForever and is narrowed by whichever of
// RepeatNTimes/RepeatWhile/RepeatUntil/RepeatInCollection/
// RepeatInRange executes next, mirroring the bytecode's own order:
// LinkRepeat always opens the frame before its kind is known.
type repeatFrame struct {
	Kind         ast.RepeatKind
	EndRepeatPos int
	Condition    ast.Expression
	Times        ast.Expression
	CounterVar   ast.Expression
	From, To, By ast.Expression
	In           ast.Expression
	Body         []ast.Statement
}

// tryFrame accumulates a try/on-error block.
type tryFrame struct {
	Try         []ast.Statement
	OnError     []ast.Statement
	OnErrorVar  string
	OnErrorNum  string
	EndTryPos   int // -1 until EndErrorHandler sets it
	HasEndTry   bool
}

func newTryFrame() *tryFrame {
	return &tryFrame{EndTryPos: -1}
}

// tellFrame accumulates a tell block.
type tellFrame struct {
	Target ast.Expression
	Body   []ast.Statement
	Done   bool
}

// andFrame/orFrame bridge the interval between popping the left
// operand of a short-circuit expression and learning its right
// operand from the value stack at RightEndPos (§3.1).
type andFrame struct {
	Left        ast.Expression
	RightEndPos int
}

type orFrame struct {
	Left        ast.Expression
	RightEndPos int
}

// isMisccura reports whether e is the compiler-synthesized tell
// target that must never reach output (§4.3.4, §8).
func isMisccura(e ast.Expression) bool {
	kw, ok := e.(*ast.Keyword)
	return ok && kw.Value == "misccura"
}
