package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunMatch(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"minigrep", "-E", `\d apple`}, strings.NewReader("sally has 3 apples\n"), &stdout, &stderr)
	if err != nil {
		t.Fatalf("expected match (nil error), got: %v", err)
	}
}

func TestRunNoMatch(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"minigrep", "-E", `\d apple`}, strings.NewReader("sally has 1 orange\n"), &stdout, &stderr)
	if err == nil {
		t.Fatal("expected error (no match), got nil")
	}
}

func TestRunMissingEFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"minigrep", "cat"}, strings.NewReader("cat\n"), &stdout, &stderr)
	if err == nil {
		t.Fatal("expected usage error, got nil")
	}
	if !strings.Contains(stdout.String(), "Expected first argument to be '-E'") {
		t.Errorf("expected usage message on stdout, got: %q", stdout.String())
	}
}

func TestRunWrongArgCount(t *testing.T) {
	for _, args := range [][]string{
		{"minigrep"},
		{"minigrep", "-E"},
		{"minigrep", "-E", "a", "extra"},
	} {
		var stdout, stderr bytes.Buffer
		if err := run(args, strings.NewReader("x\n"), &stdout, &stderr); err == nil {
			t.Errorf("args %v: expected usage error, got nil", args)
		}
	}
}

func TestRunBadPatternIsNoMatchNotPanic(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"minigrep", "-E", "a++"}, strings.NewReader("aaa\n"), &stdout, &stderr)
	if err == nil {
		t.Fatal("expected error for an invalid pattern, got nil")
	}
}

func TestRunReadsSingleLine(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"minigrep", "-E", "^log"}, strings.NewReader("log\nslog\n"), &stdout, &stderr)
	if err != nil {
		t.Fatalf("expected match on first line, got: %v", err)
	}
}

func TestRunEOFWithoutTrailingNewline(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"minigrep", "-E", "cat$"}, strings.NewReader("cat"), &stdout, &stderr)
	if err != nil {
		t.Fatalf("expected match on EOF-terminated input, got: %v", err)
	}
}

func TestRunConcreteScenarios(t *testing.T) {
	cases := []struct {
		pattern, input string
		wantMatch      bool
	}{
		{`\d apple`, "sally has 3 apples\n", true},
		{`\d apple`, "sally has 1 orange\n", false},
		{`^log`, "log\n", true},
		{`^log`, "slog\n", false},
		{`cat$`, "cat\n", true},
		{`cat$`, "cats\n", false},
		{`ca+t`, "caaats\n", true},
		{`ca+t`, "ct\n", false},
		{`(cat) and \1`, "cat and cat\n", true},
		{`(cat) and \1`, "cat and dog\n", false},
	}

	for _, c := range cases {
		var stdout, stderr bytes.Buffer
		err := run([]string{"minigrep", "-E", c.pattern}, strings.NewReader(c.input), &stdout, &stderr)
		got := err == nil
		if got != c.wantMatch {
			t.Errorf("pattern %q, input %q: match=%v, want %v", c.pattern, c.input, got, c.wantMatch)
		}
	}
}
