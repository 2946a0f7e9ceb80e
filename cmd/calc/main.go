// Package main is the entry point for the calc command-line evaluator.
//
// calc reads one expression from standard input and prints its value.
// Integer arithmetic is the default; --float switches to floating point.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lemonberrylabs/calc/pkg/calc"
	"github.com/spf13/cobra"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// execute runs the command and returns the process exit code. Arguments are
// checked before cobra sees them; cobra always runs with an empty argument
// list so none of its built-in commands can be reached.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	cmd := newRootCmd(opts)
	cmd.SetArgs([]string{})
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(opts calc.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "calc [--float]",
		Short: "Evaluate an arithmetic expression read from stdin",
		Long: `calc reads a single arithmetic expression over + - * / and parentheses
from standard input and prints the result. Integer mode floors divisions;
--float prints the result with four decimal places.`,
		Args:               cobra.NoArgs,
		DisableFlagParsing: true,
		CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}
}

// parseArgs maps command-line arguments to evaluation options.
func parseArgs(args []string) (calc.Options, error) {
	var opts calc.Options
	for _, arg := range args {
		if arg != "--float" {
			return calc.Options{}, calc.NewUnknownArgumentError()
		}
		opts.Float = true
	}
	return opts, nil
}

func run(cmd *cobra.Command, opts calc.Options) error {
	input, err := calc.ReadInput(cmd.InOrStdin(), calc.MaxInputSize)
	if err != nil {
		return err
	}

	res, err := calc.Evaluate(string(input), opts)
	if err != nil {
		return err
	}
	out, err := res.Format()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
