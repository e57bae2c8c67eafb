package main

import (
	"fmt"

	"asdecompile/analyzer"
	"asdecompile/printer"
)

// analyzerRegistry maps the CLI's --analyzer names to the built-in
// Analyzer implementations (§4.5's "local.py" load-by-name is
// resolved here as a static lookup, since Go has no dynamic
// dotted-path class loading to mirror).
var analyzerRegistry = map[string]printer.Analyzer{
	"":             nil,
	"none":         nil,
	"naive_string": analyzer.NaiveString{},
	"shift100":     analyzer.Shift100{},
}

func resolveAnalyzer(name string) (printer.Analyzer, error) {
	a, ok := analyzerRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown analyzer %q (known: naive_string, shift100)", name)
	}
	return a, nil
}
