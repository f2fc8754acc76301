// Command redump is a diagnostic companion to minigrep: it parses a
// pattern, prints its tree, and — given a subject — echoes the whole
// subject in reverse video and reports whether it matches, optionally
// cross-checking the result against an independent oracle engine. The
// matched region itself is not located or highlighted.
//
// Unlike minigrep's strict two-argument surface, redump's flags are
// parsed with github.com/spf13/pflag in the GNU long-flag style, the
// way a diagnostic tool grows a richer CLI once the core engine is
// trustworthy.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"

	"github.com/0x4d5352/minigrep/internal/matcher"
	"github.com/0x4d5352/minigrep/internal/oracle" // importing it is enough to run its regexp2 init() registration
	"github.com/0x4d5352/minigrep/internal/parser"
	"github.com/0x4d5352/minigrep/internal/unescape"
	"github.com/0x4d5352/minigrep/internal/visualize"
)

func main() {
	if err := run(os.Args, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("redump", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	unescapeFlag := fs.Bool("unescape", false, "run the pattern through one layer of string-literal unescaping before parsing")
	noColor := fs.Bool("no-color", false, "disable styled output even on a TTY")
	copyFlag := fs.Bool("copy", false, "copy the rendered tree to the terminal clipboard via OSC 52")
	verify := fs.Bool("verify", false, "cross-check the match result against the regexp2 oracle")
	oracleName := fs.String("oracle", "regexp2", "oracle to use with --verify")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "redump - visualize a pattern's parse tree and check it against a subject\n\n")
		fmt.Fprintf(stderr, "Usage:\n  redump [flags] <pattern> [subject]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	rest := fs.Args()
	if len(rest) < 1 {
		fs.Usage()
		return fmt.Errorf("redump: a pattern is required")
	}
	pattern := rest[0]
	if *unescapeFlag {
		pattern = unescape.Unescape(pattern)
	}

	prog, err := parser.Parse(pattern)
	if err != nil {
		displayParseError(stderr, pattern, err)
		return fmt.Errorf("parse error: %w", err)
	}

	useColor := !*noColor && isTerminalWriter(stdout)
	var profile *termenv.Profile
	if !useColor {
		p := termenv.Ascii
		profile = &p
	}
	r := visualize.New(stdout, nil, profile)
	r.Tree(stdout, prog)

	if *copyFlag {
		var treeBuf bytes.Buffer
		plain := visualize.New(&treeBuf, nil, asciiProfile())
		plain.Tree(&treeBuf, prog)
		seq := osc52.New(treeBuf.String())
		if f, ok := stdout.(*os.File); ok {
			seq.WriteTo(f)
		} else {
			seq.WriteTo(stdout)
		}
	}

	if len(rest) < 2 {
		return nil
	}
	subject := rest[1]
	matched := matcher.Match(prog, subject)
	fmt.Fprintf(stdout, "\nsubject: %s\n", r.HighlightSpan(subject, 0, len([]rune(subject))))
	if matched {
		fmt.Fprintln(stdout, "result: match")
	} else {
		fmt.Fprintln(stdout, "result: no match")
	}

	if *verify {
		verifyAgainstOracle(stdout, stderr, *oracleName, pattern, subject, matched)
	}
	return nil
}

func verifyAgainstOracle(stdout, stderr io.Writer, name, pattern, subject string, matched bool) {
	o, ok := oracle.Get(name)
	if !ok {
		fmt.Fprintf(stderr, "verify: oracle %q not registered (available: %s)\n", name, strings.Join(oracle.List(), ", "))
		return
	}
	if !o.Supports(pattern) {
		fmt.Fprintf(stderr, "verify: oracle %q does not support this pattern\n", o.Name())
		return
	}
	oracleMatch, err := o.Match(pattern, subject)
	if err != nil {
		fmt.Fprintf(stderr, "verify: oracle error: %v\n", err)
		return
	}
	if oracleMatch != matched {
		fmt.Fprintf(stderr, "verify: disagreement — matcher=%v oracle(%s)=%v\n", matched, o.Name(), oracleMatch)
		return
	}
	fmt.Fprintf(stdout, "verify: oracle(%s) agrees\n", o.Name())
}

func asciiProfile() *termenv.Profile {
	p := termenv.Ascii
	return &p
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// displayParseError shows a parse error with a position-indicator
// caret, reading the column straight from internal/parser.SyntaxError's
// own Pos field instead of scanning a formatted error string for it.
func displayParseError(w io.Writer, pattern string, err error) {
	fmt.Fprintf(w, "Error parsing pattern:\n\n  %s\n", pattern)

	var se *parser.SyntaxError
	if errors.As(err, &se) {
		fmt.Fprintf(w, "  %s^\n\n%s\n", strings.Repeat(" ", se.Pos), se.Msg)
		return
	}
	fmt.Fprintf(w, "\n%s\n", err.Error())
}
