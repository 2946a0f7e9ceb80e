package main

import (
	"bytes"
	"strings"
	"testing"
)

func runCalc(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = execute(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestCalcOutput(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		input string
		want  string
	}{
		{"integer", nil, "2+3*4\n", "14\n"},
		{"parens", nil, "(2+3)*4", "20\n"},
		{"floor division", nil, "-7/2", "-4\n"},
		{"float division", []string{"--float"}, "7/2\n", "3.5000\n"},
		{"float repeated flag", []string{"--float", "--float"}, "1/3", "0.3333\n"},
		{"sign folding", nil, "+-5", "-5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCalc(t, tt.input, tt.args...)
			if code != 0 {
				t.Fatalf("exit code %d, stderr %q", code, stderr)
			}
			if stdout != tt.want {
				t.Errorf("stdout %q, want %q", stdout, tt.want)
			}
			if stderr != "" {
				t.Errorf("unexpected stderr %q", stderr)
			}
		})
	}
}

func TestCalcErrors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		input string
		want  string
	}{
		{"unknown flag", []string{"--double"}, "1", "Error: Unknown argument\n"},
		{"help is not special", []string{"-h"}, "1", "Error: Unknown argument\n"},
		{"positional", []string{"1+1"}, "", "Error: Unknown argument\n"},
		{"completion command", []string{"completion"}, "1+2", "Error: Unknown argument\n"},
		{"completion request", []string{"__complete", "x"}, "1+2", "Error: Unknown argument\n"},
		{"bare completion request", []string{"__complete"}, "1+2", "Error: Unknown argument\n"},
		{"help command", []string{"help"}, "1+2", "Error: Unknown argument\n"},
		{"empty", nil, "  \n", "Error: Empty input\n"},
		{"invalid", nil, "1+x", "Error: Invalid character in input\n"},
		{"division by zero", []string{"--float"}, "1/0", "Error: Division by zero or near-zero\n"},
		{"trailing", nil, "3+4)", "Error: Unexpected characters after expression\n"},
		{"missing paren", nil, "(3+4", "Error: Missing closing parenthesis\n"},
		{"too large", nil, strings.Repeat(" ", 1024), "Error: Input exceeds allowed size\n"},
		{"range", nil, "2000000001", "Error: Number exceeds allowed range\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCalc(t, tt.input, tt.args...)
			if code != 1 {
				t.Errorf("exit code %d, want 1", code)
			}
			if stdout != "" {
				t.Errorf("partial output %q", stdout)
			}
			if stderr != tt.want {
				t.Errorf("stderr %q, want %q", stderr, tt.want)
			}
		})
	}
}

func TestParseArgs(t *testing.T) {
	opts, err := parseArgs(nil)
	if err != nil || opts.Float {
		t.Errorf("no args: %+v, %v", opts, err)
	}
	opts, err = parseArgs([]string{"--float"})
	if err != nil || !opts.Float {
		t.Errorf("--float: %+v, %v", opts, err)
	}
	if _, err := parseArgs([]string{"--float", "-x"}); err == nil {
		t.Error("expected error for trailing unknown argument")
	}
}

func TestExecuteIgnoresProcessArgs(t *testing.T) {
	// Under go test os.Args holds -test.* flags; a nil slice must not fall
	// back to them.
	var out, errOut bytes.Buffer
	code := execute(nil, strings.NewReader("6*7"), &out, &errOut)
	if code != 0 {
		t.Fatalf("exit code %d, stderr %q", code, errOut.String())
	}
	if out.String() != "42\n" {
		t.Errorf("stdout %q, want %q", out.String(), "42\n")
	}
}
