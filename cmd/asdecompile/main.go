// Command asdecompile is the CLI front end for this project's
// decompiler (§6.4). It registers two subcommands: decompile (the
// main entry point) and step (an interactive, per-instruction
// stepper), following the teacher's own subcommands.Register/
// flag.Parse/subcommands.Execute wiring pattern.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&decompileCmd{}, "")
	subcommands.Register(&stepCmd{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
