package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"asdecompile/ast"
	"asdecompile/decompiler"
	"asdecompile/driver"
	"asdecompile/loader"
	"asdecompile/opcode"
	"asdecompile/printer"
	"asdecompile/sdef"
)

// decompileCmd is the main entry point (§6.4): load a compiled
// script's root sequence, walk it with a Driver, and print the
// resulting AppleScript source, diagnostics interleaved as `--`
// comments so the output stays syntactically valid AppleScript.
type decompileCmd struct {
	comments bool
	force    bool
	debug    bool
	astJSON  bool
	analyzer string
}

func (*decompileCmd) Name() string     { return "decompile" }
func (*decompileCmd) Synopsis() string { return "decompile a compiled AppleScript to source text" }
func (*decompileCmd) Usage() string {
	return `decompile [-c] [-f] [-d] [-analyzer name] [-ast-json] <path>:
	Decompile a compiled AppleScript (read through this project's
	loader stand-in) and print its reconstructed source.
`
}

func (cmd *decompileCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.comments, "c", false, "emit a comment before every reconstructed instruction")
	f.BoolVar(&cmd.comments, "comments", false, "emit a comment before every reconstructed instruction")
	f.BoolVar(&cmd.force, "f", false, "suppress per-handler decode failures and recurse into nested script blocks")
	f.BoolVar(&cmd.force, "force", false, "suppress per-handler decode failures and recurse into nested script blocks")
	f.BoolVar(&cmd.debug, "d", false, "dump the mnemonic and value-stack trace to stderr")
	f.BoolVar(&cmd.debug, "debug", false, "dump the mnemonic and value-stack trace to stderr")
	f.StringVar(&cmd.analyzer, "analyzer", "", "literal-collapsing analyzer to install (naive_string, shift100)")
	f.BoolVar(&cmd.astJSON, "ast-json", false, "print the decompiled AST as JSON instead of source text")
}

func (cmd *decompileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	args := f.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "decompile: exactly one path argument is required")
		return subcommands.ExitUsageError
	}
	path := args[0]

	an, err := resolveAnalyzer(cmd.analyzer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decompile: %v\n", err)
		return subcommands.ExitUsageError
	}

	file, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decompile: %v\n", err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	root, err := loader.Load(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decompile: failed to load %s: %v\n", path, err)
		return subcommands.ExitFailure
	}

	opts := decompiler.Options{Comments: cmd.comments, Debug: cmd.debug}
	if cmd.debug {
		opts.Trace = func(pos int, m opcode.Mnemonic, stack []ast.Expression, blockDepth int) {
			fmt.Fprintf(os.Stderr, "%#x %s stack=%d blocks=%d\n", pos, m, len(stack), blockDepth)
		}
	}

	drv := driver.New(decompiler.New(opcode.Default), opts, cmd.force)
	script, results := drv.Run(root)

	exit := subcommands.ExitSuccess
	fmt.Printf("-- %s\n", path)

	if cmd.astJSON {
		fmt.Println(printer.DumpJSON(script))
		return exit
	}

	p := printer.New(sdef.Builtin(), an)
	for _, r := range results {
		fmt.Printf("-- === data offset %d ===\n", r.Offset)
		if r.Skipped != "" {
			fmt.Printf("-- %s\n", r.Skipped)
			if !cmd.force && strings.HasPrefix(r.Skipped, "Failed to decompile") {
				exit = subcommands.ExitFailure
			}
			continue
		}
		fmt.Printf("-- Function name: %s\n", r.Handler.Name)
		fmt.Printf("-- Function arguments: %s\n", strings.Join(r.Handler.Parameters, ", "))
		for _, d := range r.Diagnostics {
			fmt.Printf("-- %s\n", d.Text)
		}
		fmt.Println(p.PrintHandler(r.Handler))
		fmt.Println()
	}
	return exit
}
