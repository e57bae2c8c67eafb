// Package analyzer holds the Printer's optional per-node rewrite hook
// (§4.5) and its two built-in implementations. The teacher has no
// equivalent plugin point; this package is modeled directly on
// original_source/applescript_decompiler/analyzer.py's
// visit_<ClassName> dynamic dispatch, translated into the capability-
// interface shape the design notes (§9) call for in a statically
// typed target: one small interface per node variant an analyzer
// might want to override, so a concrete analyzer only implements the
// handful it actually rewrites.
package analyzer

import "asdecompile/ast"

// Printer is the subset of printer.Printer an analyzer needs to
// recurse back into the base rendering for any sub-expression it
// doesn't itself rewrite — e.g. the naive-string analyzer's BinaryOp
// rewrite renders each Concat operand through the ordinary path to see
// whether it prints as a plain string. Declared as an interface here (rather
// than importing package printer directly) to avoid an import cycle:
// printer imports analyzer for the Analyzer type, so analyzer cannot
// import printer back.
type Printer interface {
	// Print renders e, re-entering the full analyzer-aware pipeline so
	// nested rewrites still apply (e.g. a Concat operand that is a
	// NumberLiteral still gets its own NumberLiteral treatment).
	Print(target, command string, e ast.Expression) string

	// ResolveCommandName resolves a CommandCall's raw AppleEvent code
	// to its human name under target, the same way the printer
	// resolves one for ordinary (non-rewritten) output.
	ResolveCommandName(target, code string) string
}

// StringLiteralRewriter overrides how a StringLiteral prints.
type StringLiteralRewriter interface {
	RewriteStringLiteral(p Printer, target, command string, n *ast.StringLiteral) (string, bool)
}

// NumberLiteralRewriter overrides how a NumberLiteral prints.
type NumberLiteralRewriter interface {
	RewriteNumberLiteral(p Printer, target, command string, n *ast.NumberLiteral) (string, bool)
}

// ListLiteralRewriter overrides how a ListLiteral prints.
type ListLiteralRewriter interface {
	RewriteListLiteral(p Printer, target, command string, n *ast.ListLiteral) (string, bool)
}

// BinaryOpRewriter overrides how a BinaryOp prints.
type BinaryOpRewriter interface {
	RewriteBinaryOp(p Printer, target, command string, n *ast.BinaryOp) (string, bool)
}

// CommandCallRewriter overrides how a CommandCall prints.
type CommandCallRewriter interface {
	RewriteCommandCall(p Printer, target, command string, n *ast.CommandCall) (string, bool)
}
