// Command minigrep is a minimal grep -E: it accepts exactly one flag
// ("-E") and a pattern, reads a single line from standard input, and
// exits 0 if the pattern matches, 1 otherwise.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/0x4d5352/minigrep/internal/matcher"
	"github.com/0x4d5352/minigrep/internal/parser"
)

func main() {
	if err := run(os.Args, os.Stdin, os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) != 3 || args[1] != "-E" {
		fmt.Fprintln(stdout, "Expected first argument to be '-E'")
		return fmt.Errorf("usage: %s -E <pattern>", progName(args))
	}
	pattern := args[2]

	line, err := readLine(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "reading input: %v\n", err)
		return fmt.Errorf("reading input: %w", err)
	}

	prog, err := parser.Parse(pattern)
	if err != nil {
		// Pattern errors exit 1 like a non-match (spec §7); no
		// diagnostic is printed on this path, by design — cmd/redump
		// is where pattern errors get a verbose caret-pointed report.
		return err
	}

	if !matcher.Match(prog, line) {
		return fmt.Errorf("no match")
	}
	return nil
}

func readLine(r io.Reader) (string, error) {
	reader := bufio.NewReader(r)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return line, nil
}

func progName(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "minigrep"
}
