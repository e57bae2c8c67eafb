package printer

import (
	"asdecompile/analyzer"
	"asdecompile/ast"
)

// Analyzer is any value implementing one or more of the capability
// interfaces in package analyzer. A nil Analyzer disables the hook
// entirely; an Analyzer implementing none of them behaves as if nil
// for every node it doesn't cover.
type Analyzer = any

// adapter lets an analyzer recurse back into this Printer's base
// rendering without the analyzer package importing printer (which
// would cycle back here).
type adapter struct{ p *Printer }

func (a adapter) Print(target, command string, e ast.Expression) string {
	return a.p.printExpr(Context{Target: target, Command: command}, e)
}

func (a adapter) ResolveCommandName(target, code string) string {
	return a.p.resolveCommandName(Context{Target: target}, code)
}

// tryAnalyzer dispatches e to whichever capability interface the
// installed analyzer implements for e's concrete type, per §4.5: "for
// any node <Kind>, if the installed analyzer defines a handler named
// visit_<Kind>, the printer delegates the call to it."
func (p *Printer) tryAnalyzer(ctx Context, e ast.Expression) (string, bool) {
	a := adapter{p: p}
	switch n := e.(type) {
	case *ast.StringLiteral:
		if r, ok := p.Analyzer.(analyzer.StringLiteralRewriter); ok {
			return r.RewriteStringLiteral(a, ctx.Target, ctx.Command, n)
		}
	case *ast.NumberLiteral:
		if r, ok := p.Analyzer.(analyzer.NumberLiteralRewriter); ok {
			return r.RewriteNumberLiteral(a, ctx.Target, ctx.Command, n)
		}
	case *ast.ListLiteral:
		if r, ok := p.Analyzer.(analyzer.ListLiteralRewriter); ok {
			return r.RewriteListLiteral(a, ctx.Target, ctx.Command, n)
		}
	case *ast.BinaryOp:
		if r, ok := p.Analyzer.(analyzer.BinaryOpRewriter); ok {
			return r.RewriteBinaryOp(a, ctx.Target, ctx.Command, n)
		}
	case *ast.CommandCall:
		if r, ok := p.Analyzer.(analyzer.CommandCallRewriter); ok {
			return r.RewriteCommandCall(a, ctx.Target, ctx.Command, n)
		}
	}
	return "", false
}
