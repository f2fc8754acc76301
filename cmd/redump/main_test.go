package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunPrintsTree(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"redump", "--no-color", `^ca+t$`}, nil, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "anchored start") {
		t.Errorf("expected tree to mention anchored start, got:\n%s", out)
	}
	if !strings.Contains(out, "one-or-more (+)") {
		t.Errorf("expected tree to describe the '+' quantifier, got:\n%s", out)
	}
}

func TestRunWithSubjectReportsMatch(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"redump", "--no-color", `ca+t`, "caaat"}, nil, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), "result: match") {
		t.Errorf("expected 'result: match', got:\n%s", stdout.String())
	}
}

func TestRunWithSubjectReportsNoMatch(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"redump", "--no-color", `ca+t`, "dog"}, nil, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), "result: no match") {
		t.Errorf("expected 'result: no match', got:\n%s", stdout.String())
	}
}

func TestRunVerifyAgreement(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"redump", "--no-color", "--verify", `(cat) and \1`, "cat and cat"}, nil, &stdout, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr.String())
	}
	if !strings.Contains(stdout.String(), "verify: oracle(regexp2) agrees") {
		t.Errorf("expected oracle agreement message, got:\nstdout: %s\nstderr: %s", stdout.String(), stderr.String())
	}
}

func TestRunUnescapeFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"redump", "--no-color", "--unescape", `\\d+`, "123"}, nil, &stdout, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr.String())
	}
	if !strings.Contains(stdout.String(), "result: match") {
		t.Errorf("expected unescaped pattern to match, got:\n%s", stdout.String())
	}
}

func TestRunBadPatternShowsCaret(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"redump", "--no-color", "abc[def"}, nil, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected error for unbalanced character class")
	}
	if !strings.Contains(stderr.String(), "^") {
		t.Errorf("expected a caret pointer in stderr, got: %s", stderr.String())
	}
}

func TestRunNoArgsIsUsageError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"redump"}, nil, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected error when no pattern is given")
	}
}

func TestRunCopyFlagDoesNotPanicWithoutTTY(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"redump", "--no-color", "--copy", "cat"}, nil, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
