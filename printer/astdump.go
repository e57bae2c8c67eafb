package printer

import (
	"encoding/json"

	"asdecompile/ast"
)

// DumpJSON renders script's AST as indented JSON, adapted from the
// teacher's parser/printer.go (PrintASTJSON/WriteASTJSONToFile),
// retargeted at this project's ast package instead of nilan's. It
// backs the supplemented --ast-json CLI capability (SPEC_FULL.md §5)
// rather than nilan's REPL dump flags.
func DumpJSON(script *ast.Script) string {
	out := map[string]any{
		"properties": dumpStatements(asStatements(script.Properties)),
		"handlers":   dumpHandlers(script.Handlers),
		"body":       dumpStatements(script.Body),
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

func asStatements(decls []*ast.PropertyDecl) []ast.Statement {
	out := make([]ast.Statement, len(decls))
	for i, d := range decls {
		out[i] = d
	}
	return out
}

func dumpHandlers(handlers []*ast.Handler) []any {
	out := make([]any, 0, len(handlers))
	for _, h := range handlers {
		out = append(out, map[string]any{
			"name":       h.Name,
			"parameters": h.Parameters,
			"body":       dumpStatements(h.Body),
		})
	}
	return out
}

func dumpStatements(stmts []ast.Statement) []any {
	out := make([]any, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, dumpStatement(s))
	}
	return out
}

func dumpStatement(stmt ast.Statement) any {
	switch n := stmt.(type) {
	case *ast.Comment:
		return map[string]any{"type": "Comment", "text": n.Text}
	case *ast.PropertyDecl:
		return map[string]any{"type": "PropertyDecl", "name": n.Name, "initialValue": dumpExpr(n.InitialValue)}
	case *ast.SetStatement:
		return map[string]any{"type": "SetStatement", "target": dumpExpr(n.Target), "value": dumpExpr(n.Value)}
	case *ast.VarDecl:
		return map[string]any{"type": "VarDecl", "names": n.Names, "global": n.Global}
	case *ast.IfStatement:
		return map[string]any{"type": "IfStatement", "condition": dumpExpr(n.Condition), "then": dumpStatements(n.Then), "else": dumpStatements(n.Else)}
	case *ast.RepeatStatement:
		return map[string]any{
			"type": "RepeatStatement", "kind": int(n.Kind),
			"condition": dumpExpr(n.Condition), "times": dumpExpr(n.Times),
			"counterVar": dumpExpr(n.CounterVar), "from": dumpExpr(n.From),
			"to": dumpExpr(n.To), "by": dumpExpr(n.By), "in": dumpExpr(n.In),
			"body": dumpStatements(n.Body),
		}
	case *ast.TryStatement:
		return map[string]any{
			"type": "TryStatement", "try": dumpStatements(n.Try),
			"hasOnError": n.HasOnError, "onErrorVar": n.OnErrorVar,
			"onErrorNumVar": n.OnErrorNumVar, "onError": dumpStatements(n.OnError),
		}
	case *ast.TellBlock:
		return map[string]any{"type": "TellBlock", "target": dumpExpr(n.Target), "body": dumpStatements(n.Body)}
	case *ast.ReturnStatement:
		return map[string]any{"type": "ReturnStatement", "value": dumpExpr(n.Value)}
	case *ast.ExitRepeat:
		return map[string]any{"type": "ExitRepeat"}
	case *ast.ExprStatement:
		return map[string]any{"type": "ExprStatement", "expr": dumpExpr(n.Expr)}
	default:
		return map[string]any{"type": "Unknown"}
	}
}

func dumpExpr(e ast.Expression) any {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.StringLiteral:
		return map[string]any{"type": "StringLiteral", "value": n.Value}
	case *ast.NumberLiteral:
		return map[string]any{"type": "NumberLiteral", "value": n.Value}
	case *ast.BooleanLiteral:
		return map[string]any{"type": "BooleanLiteral", "value": n.Value}
	case *ast.DateLiteral:
		return map[string]any{"type": "DateLiteral", "text": n.Text}
	case *ast.MissingValueLiteral:
		return map[string]any{"type": "MissingValueLiteral"}
	case *ast.Keyword:
		return map[string]any{"type": "Keyword", "value": n.Value}
	case *ast.VarRef:
		return map[string]any{"type": "VarRef", "name": n.Name}
	case *ast.ListLiteral:
		elems := make([]any, 0, len(n.Elements))
		for _, el := range n.Elements {
			elems = append(elems, dumpExpr(el))
		}
		return map[string]any{"type": "ListLiteral", "elements": elems}
	case *ast.RecordLiteral:
		fields := make([]any, 0, len(n.Fields))
		for _, f := range n.Fields {
			fields = append(fields, map[string]any{"label": dumpExpr(f.Label), "value": dumpExpr(f.Value)})
		}
		return map[string]any{"type": "RecordLiteral", "fields": fields}
	case *ast.ElementSpecifier:
		return map[string]any{
			"type": "ElementSpecifier", "container": dumpExpr(n.Container),
			"elementClass": n.ElementClass, "key": dumpExpr(n.Key), "keyKind": n.KeyKind,
		}
	case *ast.BinaryOp:
		return map[string]any{"type": "BinaryOp", "op": int(n.Op), "left": dumpExpr(n.Left), "right": dumpExpr(n.Right)}
	case *ast.UnaryOp:
		return map[string]any{"type": "UnaryOp", "op": int(n.Op), "operand": dumpExpr(n.Operand)}
	case *ast.CommandCall:
		args := make([]any, 0, len(n.Arguments))
		for _, a := range n.Arguments {
			args = append(args, dumpExpr(a))
		}
		return map[string]any{"type": "CommandCall", "commandName": n.CommandName, "target": dumpExpr(n.Target), "arguments": args}
	case *ast.HandlerCall:
		args := make([]any, 0, len(n.Arguments))
		for _, a := range n.Arguments {
			args = append(args, dumpExpr(a))
		}
		return map[string]any{"type": "HandlerCall", "name": n.Name, "target": dumpExpr(n.Target), "arguments": args}
	default:
		return map[string]any{"type": "Unknown"}
	}
}
