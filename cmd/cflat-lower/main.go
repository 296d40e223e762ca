// Command cflat-lower reads a type-checked Cflat program as JSON, lowers
// it to LIR, and prints the result's deterministic textual form.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"cflatlower/internal/ast"
	cflaterrors "cflatlower/internal/errors"
	"cflatlower/internal/lower"
	"cflatlower/internal/printer"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: cflat-lower <program.json>")
		os.Exit(1)
	}
	path := os.Args[1]

	if err := run(path); err != nil {
		report(path, err)
		os.Exit(1)
	}
}

func run(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return cflaterrors.New(cflaterrors.InvalidInput, "%s", err)
	}
	defer f.Close()

	prog, err := ast.Parse(f)
	if err != nil {
		return err
	}

	lowered, err := lower.Lower(prog)
	if err != nil {
		return err
	}

	fmt.Print(printer.Print(lowered))
	return nil
}

func report(path string, err error) {
	cerr, ok := err.(*cflaterrors.Error)
	if !ok {
		fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("error:"), err)
		return
	}
	reporter := cflaterrors.NewReporter(path)
	fmt.Fprint(os.Stderr, reporter.Format(cerr))
}
