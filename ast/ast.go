// Package ast defines the abstract syntax tree produced by the decompiler
// and consumed by the printer. The node set is closed: every variant a
// bytecode handler can decompile to is declared here, nowhere else.
//
// The tree is printing-oriented rather than execution-oriented: it keeps
// concrete syntactic distinctions (e.g. "of" vs juxtaposition, "every X of
// Y" vs "X's Y") that have no semantic difference but must be reproduced
// verbatim in the emitted source.
package ast

// Node is the root interface implemented by every AST type, including
// Expression and Statement.
type Node interface {
	node()
}

// Expression is any node that evaluates to a value.
type Expression interface {
	Node
	expression()
}

// Statement is any node that does not itself produce a value.
type Statement interface {
	Node
	statement()
}

// Script is the top-level container produced by the Driver: an ordered
// list of property declarations, an ordered list of handlers, and an
// optional top-level run body.
type Script struct {
	Properties []*PropertyDecl
	Handlers   []*Handler
	Body       []Statement
}

func (*Script) node() {}

// Handler is a named subroutine: a name, its parameter names in
// declaration order, and a body of statements.
//
// Handler.Name is always non-empty once decompilation succeeds (§3.2);
// handlers that can't establish a name are reported and skipped upstream.
type Handler struct {
	Name       string
	Parameters []string
	Body       []Statement
}

func (*Handler) node() {}
