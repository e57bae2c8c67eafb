// Package driver implements §4.6: it walks a loader.RootSequence,
// decides which entries are function records worth decompiling, hands
// each to the decompiler, and collects the results into an ast.Script.
// It is grounded directly on
// original_source/applescript_decompiler/decompiler.py's
// run_decompiler loop (the teacher has no equivalent — its own "run a
// program" entry points execute source, they don't walk a root object
// tree), with error propagation modeled after
// compiler.ASTCompiler.CompileAST's recover-and-report pattern.
package driver

import (
	"fmt"

	"asdecompile/ast"
	"asdecompile/decompiler"
	"asdecompile/literal"
	"asdecompile/loader"
)

// rootEntriesBeforeHandlers is the number of leading root entries
// that are metadata, not candidate handlers (§4.6: "starting at
// index 2").
const rootEntriesBeforeHandlers = 2

// nestedScriptTag is the sentinel value of a non-function entry's
// first field that marks it as a nested script block worth recursing
// into under force mode (§4.6).
const nestedScriptTag = 15

// Result is one root entry's outcome: either a decompiled Handler, or
// a diagnostic explaining why it was skipped.
type Result struct {
	Offset      int
	Handler     *ast.Handler
	Diagnostics []decompiler.Diagnostic
	Skipped     string // non-empty: "not a function" / "maybe binding" / a decode-failure message
}

// Driver runs the decompiler over a root sequence (§4.6).
type Driver struct {
	Decompiler *decompiler.Decompiler
	Options    decompiler.Options
	Force      bool
}

// New returns a Driver. dec defaults to decompiler.New(nil) when nil.
func New(dec *decompiler.Decompiler, opts decompiler.Options, force bool) *Driver {
	if dec == nil {
		dec = decompiler.New(nil)
	}
	return &Driver{Decompiler: dec, Options: opts, Force: force}
}

// Run walks root starting at rootEntriesBeforeHandlers, decompiling
// every function-shaped entry, and returns the assembled Script plus
// one Result per visited entry (including skipped ones, for
// diagnostic reporting).
func (d *Driver) Run(root loader.Sequence) (*ast.Script, []Result) {
	script := &ast.Script{}
	var results []Result
	if len(root) <= rootEntriesBeforeHandlers {
		return script, results
	}
	d.walk(root[rootEntriesBeforeHandlers:], rootEntriesBeforeHandlers, script, &results)
	return script, results
}

func (d *Driver) walk(entries []loader.Entry, baseOffset int, script *ast.Script, results *[]Result) {
	for i, entry := range entries {
		offset := baseOffset + i
		seq, ok := entry.(loader.Sequence)
		if !ok {
			*results = append(*results, Result{Offset: offset, Skipped: "not a function"})
			continue
		}

		fr, ok := loader.AsFunctionRecord(seq)
		if !ok {
			if d.Force && isNestedScriptTag(seq) {
				d.walk(seq, offset, script, results)
				continue
			}
			*results = append(*results, Result{Offset: offset, Skipped: "maybe binding"})
			continue
		}

		h, diags, err := d.decompileRecord(fr)
		if err != nil {
			msg := fmt.Sprintf("Failed to decompile: %v", err)
			if !d.Force {
				*results = append(*results, Result{Offset: offset, Diagnostics: diags, Skipped: msg})
				continue
			}
			*results = append(*results, Result{Offset: offset, Skipped: msg})
			continue
		}

		script.Handlers = append(script.Handlers, h)
		*results = append(*results, Result{Offset: offset, Handler: h, Diagnostics: diags})
	}
}

// isNestedScriptTag reports whether seq's first field is the
// nested-script-block sentinel (§4.6).
func isNestedScriptTag(seq loader.Sequence) bool {
	if len(seq) == 0 {
		return false
	}
	tag, ok := seq[0].(loader.IntScalar)
	return ok && int64(tag) == nestedScriptTag
}

func (d *Driver) decompileRecord(fr loader.FunctionRecord) (*ast.Handler, []decompiler.Diagnostic, error) {
	name, ok := fr.Name()
	if !ok || name == "" {
		return nil, nil, &decompiler.MalformedHandlerError{Reason: "missing name field"}
	}
	argsSeq, ok := fr.Args()
	if !ok {
		return nil, nil, &decompiler.MalformedHandlerError{Reason: "missing args field"}
	}
	params, err := paramNames(argsSeq)
	if err != nil {
		return nil, nil, err
	}
	litsSeq, ok := fr.Literals()
	if !ok {
		return nil, nil, &decompiler.MalformedHandlerError{Reason: "missing literals field"}
	}
	lits, err := literalEntries(litsSeq)
	if err != nil {
		return nil, nil, err
	}
	code, ok := fr.Code()
	if !ok {
		return nil, nil, &decompiler.MalformedHandlerError{Reason: "missing code field"}
	}
	return d.Decompiler.DecompileHandler(name, params, lits, code, d.Options)
}

func paramNames(seq loader.Sequence) ([]string, error) {
	names := make([]string, 0, len(seq))
	for _, e := range seq {
		s, ok := e.(loader.StringScalar)
		if !ok {
			return nil, &decompiler.MalformedHandlerError{Reason: "args field entry is not a string"}
		}
		names = append(names, string(s))
	}
	return names, nil
}

// Literal-pool entry shapes, as written by this project's loader
// stand-in (§6.1's "literals is a sequence of typed pool entries",
// concretely realized as a tag-prefixed Sequence per entry so this
// package can reconstruct a literal.Entry without the loader package
// needing to know literal.Kind at all).
const (
	litTagConstant = iota
	litTagFixnum
	litTagByteString
	litTagUTF16String
	litTagAlias
)

func literalEntries(seq loader.Sequence) ([]literal.Entry, error) {
	out := make([]literal.Entry, 0, len(seq))
	for _, e := range seq {
		entry, err := literalEntryFromLoader(e)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

func literalEntryFromLoader(e loader.Entry) (literal.Entry, error) {
	seq, ok := e.(loader.Sequence)
	if !ok || len(seq) == 0 {
		return literal.Entry{}, &decompiler.MalformedHandlerError{Reason: "literal pool entry is not a tagged sequence"}
	}
	tag, ok := seq[0].(loader.IntScalar)
	if !ok {
		return literal.Entry{}, &decompiler.MalformedHandlerError{Reason: "literal pool entry tag is not an int"}
	}
	switch int64(tag) {
	case litTagConstant:
		num, ok1 := intField(seq, 1)
		num2, _ := intField(seq, 2)
		if !ok1 {
			return literal.Entry{}, &decompiler.MalformedHandlerError{Reason: "constant literal missing numeric value"}
		}
		return literal.Entry{Kind: literal.Constant, Number: num, Number2: num2}, nil
	case litTagFixnum:
		num, ok := intField(seq, 1)
		if !ok {
			return literal.Entry{}, &decompiler.MalformedHandlerError{Reason: "fixnum literal missing value"}
		}
		return literal.Entry{Kind: literal.Fixnum, Number: num}, nil
	case litTagByteString:
		b, ok := bytesField(seq, 1)
		if !ok {
			return literal.Entry{}, &decompiler.MalformedHandlerError{Reason: "byte string literal missing bytes"}
		}
		return literal.Entry{Kind: literal.ByteString, Bytes: b}, nil
	case litTagUTF16String:
		b, ok := bytesField(seq, 1)
		if !ok {
			return literal.Entry{}, &decompiler.MalformedHandlerError{Reason: "utf16 string literal missing bytes"}
		}
		return literal.Entry{Kind: literal.UTF16String, Bytes: b}, nil
	case litTagAlias:
		version, _ := intField(seq, 1)
		b, ok := bytesField(seq, 2)
		if !ok {
			return literal.Entry{}, &decompiler.MalformedHandlerError{Reason: "alias literal missing bytes"}
		}
		return literal.Entry{Kind: literal.AliasDescriptor, AliasVersion: int(version), Bytes: b}, nil
	default:
		return literal.Entry{}, &decompiler.MalformedHandlerError{Reason: "unknown literal pool entry tag"}
	}
}

func intField(seq loader.Sequence, i int) (int64, bool) {
	if i >= len(seq) {
		return 0, false
	}
	v, ok := seq[i].(loader.IntScalar)
	return int64(v), ok
}

func bytesField(seq loader.Sequence, i int) ([]byte, bool) {
	if i >= len(seq) {
		return nil, false
	}
	v, ok := seq[i].(loader.BytesScalar)
	return []byte(v), ok
}
