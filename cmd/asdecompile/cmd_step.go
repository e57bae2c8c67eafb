package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"asdecompile/ast"
	"asdecompile/decompiler"
	"asdecompile/loader"
	"asdecompile/opcode"
)

// stepCmd is an interactive, per-instruction stepper (§2's "Ambient
// Stack" step subcommand): each Enter advances one handler one opcode
// and prints the mnemonic and the resulting value stack, the bytecode
// analogue of the teacher's own line-at-a-time REPL loop in
// cmd_repl.go — but driven by readline rather than a bare
// bufio.Scanner, since here the "line" being read is just a keypress
// and readline's history/prompt handling is worth having for free.
type stepCmd struct {
	handlerIndex int
}

func (*stepCmd) Name() string     { return "step" }
func (*stepCmd) Synopsis() string { return "interactively step one handler's bytecode" }
func (*stepCmd) Usage() string {
	return `step [-handler N] <path>:
	Load a compiled script and single-step the Nth root handler's
	bytecode, printing the value stack after each instruction.
`
}

func (cmd *stepCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&cmd.handlerIndex, "handler", 0, "index of the root-sequence entry to step, among function-shaped entries")
}

func (cmd *stepCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	args := f.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "step: exactly one path argument is required")
		return subcommands.ExitUsageError
	}

	file, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "step: %v\n", err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	root, err := loader.Load(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "step: failed to load %s: %v\n", args[0], err)
		return subcommands.ExitFailure
	}

	fr, err := nthFunctionRecord(root, cmd.handlerIndex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "step: %v\n", err)
		return subcommands.ExitFailure
	}
	name, _ := fr.Name()
	code, _ := fr.Code()

	rl, err := readline.New(fmt.Sprintf("step %s> ", name))
	if err != nil {
		fmt.Fprintf(os.Stderr, "step: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	dec := decompiler.New(opcode.Default)
	opts := decompiler.Options{
		Debug: true,
		Trace: func(pos int, m opcode.Mnemonic, stack []ast.Expression, blockDepth int) {
			fmt.Fprintf(rl.Stdout(), "%#04x %-16s stack=%v blocks=%d\n", pos, m, renderStack(stack), blockDepth)
			if _, err := rl.Readline(); err != nil {
				os.Exit(0)
			}
		},
	}

	fmt.Fprintf(rl.Stdout(), "stepping %s (%d bytes); press Enter to advance, Ctrl-D to quit\n", name, len(code))
	h, diags, err := dec.DecompileHandler(name, nil, nil, code, opts)
	for _, d := range diags {
		fmt.Fprintf(rl.Stdout(), "-- %s\n", d.Text)
	}
	if err != nil {
		fmt.Fprintf(rl.Stdout(), "step: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(rl.Stdout(), "done: %d top-level statements\n", len(h.Body))
	return subcommands.ExitSuccess
}

func nthFunctionRecord(root loader.Sequence, n int) (loader.FunctionRecord, error) {
	count := 0
	for _, entry := range root {
		seq, ok := entry.(loader.Sequence)
		if !ok {
			continue
		}
		fr, ok := loader.AsFunctionRecord(seq)
		if !ok {
			continue
		}
		if count == n {
			return fr, nil
		}
		count++
	}
	return loader.FunctionRecord{}, fmt.Errorf("no function-shaped entry at index %d (found %d)", n, count)
}

func renderStack(stack []ast.Expression) []string {
	out := make([]string, len(stack))
	for i, e := range stack {
		out[i] = fmt.Sprintf("%T", e)
	}
	return out
}
