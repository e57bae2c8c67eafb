// Package printer walks an AST and emits AppleScript source text
// (§4.4). It is a stateless tree walk: target/command keyword-
// resolution context is threaded as an explicit Context value through
// every call rather than kept on the Printer itself, per the design
// note in §9 ("global printer state... thread as explicit parameters
// or as a small context value"). This generalizes the teacher's own
// save/restore-context pattern in interpreter.VisitBlockStmt
// (environment swapped in, deferred restore) to a value passed down
// by copy rather than mutated in place, since nothing here needs
// panic-safety: printing never fails.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"asdecompile/ast"
	"asdecompile/sdef"
)

const indentUnit = "    "

// Context carries the two pieces of printer-local state §4.4 names:
// the current tell-block recipient and the innermost command being
// printed, both consulted when resolving a Keyword's textual form.
type Context struct {
	Target  string
	Command string
}

// DefaultContext is the context in effect at the top of a script,
// before any tell or command has been entered.
func DefaultContext() Context {
	return Context{Target: sdef.DefaultTarget}
}

// Printer formats an AST as AppleScript source, optionally consulting
// an Analyzer for per-node rewrites (§4.5) and a Tables for Keyword
// resolution (§6.3, §4.4).
type Printer struct {
	Tables   *sdef.Tables
	Analyzer Analyzer
}

// New returns a Printer. tables may be nil, in which case Keyword
// nodes print their raw value unresolved; analyzer may be nil to
// disable the rewrite hook entirely.
func New(tables *sdef.Tables, analyzer Analyzer) *Printer {
	return &Printer{Tables: tables, Analyzer: analyzer}
}

// PrintScript renders a full script: property declarations, then
// handlers, then any top-level run body, each separated by a blank
// line.
func (p *Printer) PrintScript(s *ast.Script) string {
	var b strings.Builder
	first := true
	sep := func() {
		if !first {
			b.WriteString("\n\n")
		}
		first = false
	}
	for _, decl := range s.Properties {
		sep()
		b.WriteString(p.printStatement(DefaultContext(), 0, decl))
	}
	for _, h := range s.Handlers {
		sep()
		b.WriteString(p.PrintHandler(h))
	}
	if len(s.Body) > 0 {
		sep()
		b.WriteString(p.printBlock(DefaultContext(), 0, s.Body))
	}
	b.WriteString("\n")
	return b.String()
}

// PrintHandler renders one handler as "on NAME(params)\n ...\nend NAME".
func (p *Printer) PrintHandler(h *ast.Handler) string {
	var b strings.Builder
	b.WriteString("on ")
	b.WriteString(h.Name)
	b.WriteString("(")
	b.WriteString(strings.Join(h.Parameters, ", "))
	b.WriteString(")\n")
	b.WriteString(p.printBlock(DefaultContext(), 1, h.Body))
	b.WriteString("\nend ")
	b.WriteString(h.Name)
	return b.String()
}

func indent(level int) string { return strings.Repeat(indentUnit, level) }

func (p *Printer) printBlock(ctx Context, level int, stmts []ast.Statement) string {
	lines := make([]string, 0, len(stmts))
	for _, s := range stmts {
		lines = append(lines, p.printStatement(ctx, level, s))
	}
	return strings.Join(lines, "\n")
}

// printStatement dispatches on the statement's concrete type. This
// replaces the teacher's name-based visit_<ClassName> dispatch with a
// closed type switch, per §9's design note.
func (p *Printer) printStatement(ctx Context, level int, stmt ast.Statement) string {
	pad := indent(level)
	switch n := stmt.(type) {
	case *ast.Comment:
		return pad + "-- " + n.Text

	case *ast.PropertyDecl:
		return pad + "property " + n.Name + " : " + p.printExpr(ctx, n.InitialValue)

	case *ast.SetStatement:
		return fmt.Sprintf("%sset %s to %s", pad, p.printExpr(ctx, n.Target), p.printExpr(ctx, n.Value))

	case *ast.VarDecl:
		kw := "local"
		if n.Global {
			kw = "global"
		}
		return pad + kw + " " + strings.Join(n.Names, ", ")

	case *ast.IfStatement:
		return p.printIf(ctx, level, n)

	case *ast.RepeatStatement:
		return p.printRepeat(ctx, level, n)

	case *ast.TryStatement:
		return p.printTry(ctx, level, n)

	case *ast.TellBlock:
		return p.printTell(ctx, level, n)

	case *ast.ReturnStatement:
		if n.Value == nil {
			return pad + "return"
		}
		return pad + "return " + p.printExpr(ctx, n.Value)

	case *ast.ExitRepeat:
		return pad + "exit repeat"

	case *ast.ExprStatement:
		return pad + p.printExpr(ctx, n.Expr)

	default:
		return pad + fmt.Sprintf("-- <unprintable statement %T>", n)
	}
}

func (p *Printer) printIf(ctx Context, level int, n *ast.IfStatement) string {
	pad := indent(level)
	var b strings.Builder
	b.WriteString(pad)
	b.WriteString("if ")
	b.WriteString(p.printExpr(ctx, n.Condition))
	b.WriteString(" then\n")
	b.WriteString(p.printBlock(ctx, level+1, n.Then))
	if len(n.Else) > 0 {
		b.WriteString("\n")
		b.WriteString(pad)
		b.WriteString("else\n")
		b.WriteString(p.printBlock(ctx, level+1, n.Else))
	}
	b.WriteString("\n")
	b.WriteString(pad)
	b.WriteString("end if")
	return b.String()
}

func (p *Printer) printRepeat(ctx Context, level int, n *ast.RepeatStatement) string {
	pad := indent(level)
	var header string
	switch n.Kind {
	case ast.RepeatForever:
		header = "repeat"
	case ast.RepeatWhile:
		header = "repeat while " + p.printExpr(ctx, n.Condition)
	case ast.RepeatUntil:
		header = "repeat until " + p.printExpr(ctx, n.Condition)
	case ast.RepeatTimes:
		header = "repeat " + p.printExpr(ctx, n.Times) + " times"
	case ast.RepeatWithCounter:
		header = fmt.Sprintf("repeat with %s from %s to %s", p.printExpr(ctx, n.CounterVar), p.printExpr(ctx, n.From), p.printExpr(ctx, n.To))
		if n.By != nil {
			header += " by " + p.printExpr(ctx, n.By)
		}
	case ast.RepeatWithIn:
		header = fmt.Sprintf("repeat with %s in %s", p.printExpr(ctx, n.CounterVar), p.printExpr(ctx, n.In))
	}
	var b strings.Builder
	b.WriteString(pad)
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(p.printBlock(ctx, level+1, n.Body))
	b.WriteString("\n")
	b.WriteString(pad)
	b.WriteString("end repeat")
	return b.String()
}

func (p *Printer) printTry(ctx Context, level int, n *ast.TryStatement) string {
	pad := indent(level)
	var b strings.Builder
	b.WriteString(pad)
	b.WriteString("try\n")
	b.WriteString(p.printBlock(ctx, level+1, n.Try))
	if n.HasOnError {
		b.WriteString("\n")
		b.WriteString(pad)
		b.WriteString("on error")
		if n.OnErrorVar != "" {
			b.WriteString(" " + n.OnErrorVar)
			if n.OnErrorNumVar != "" {
				b.WriteString(" number " + n.OnErrorNumVar)
			}
		}
		b.WriteString("\n")
		b.WriteString(p.printBlock(ctx, level+1, n.OnError))
	}
	b.WriteString("\n")
	b.WriteString(pad)
	b.WriteString("end try")
	return b.String()
}

func (p *Printer) printTell(ctx Context, level int, n *ast.TellBlock) string {
	pad := indent(level)
	target := p.printExpr(ctx, n.Target)
	inner := ctx
	inner.Target = bareTarget(n.Target, target)
	var b strings.Builder
	b.WriteString(pad)
	b.WriteString("tell ")
	b.WriteString(tellHeaderText(n.Target, target))
	b.WriteString("\n")
	b.WriteString(p.printBlock(inner, level+1, n.Body))
	b.WriteString("\n")
	b.WriteString(pad)
	b.WriteString("end tell")
	return b.String()
}

// tellHeaderText wraps a string-literal target in "application ..."
// the way a real tell block addresses an app by name; any other
// target expression prints as-is.
func tellHeaderText(target ast.Expression, printed string) string {
	if s, ok := target.(*ast.StringLiteral); ok {
		return "application " + strconv.Quote(s.Value)
	}
	return printed
}

// bareTarget is the raw string used for Keyword-resolution lookups
// inside a tell block, independent of how the header text is
// decorated (e.g. stripped of the "application" wrapper and quotes).
func bareTarget(target ast.Expression, printed string) string {
	if s, ok := target.(*ast.StringLiteral); ok {
		return s.Value
	}
	return printed
}
