package oracle

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/0x4d5352/minigrep/internal/ast"
	"github.com/0x4d5352/minigrep/internal/parser"
)

// regexp2Oracle backs its Match with github.com/dlclark/regexp2, a
// backtracking engine with back-reference support — unlike
// regexp/syntax's RE2 engine, it is a realistic independent
// implementation of the same greedy-backtracking matching strategy
// used here, making it a credible referee for back-reference and
// greedy-backtracking disputes.
type regexp2Oracle struct{}

func init() {
	Register(regexp2Oracle{})
}

func (regexp2Oracle) Name() string { return "regexp2" }

// Supports re-parses pattern with internal/parser; any pattern this
// engine accepts translates losslessly to regexp2 syntax, so support is
// just "does it parse".
func (regexp2Oracle) Supports(pattern string) bool {
	_, err := parser.Parse(pattern)
	return err == nil
}

func (regexp2Oracle) Match(pattern, subject string) (bool, error) {
	prog, err := parser.Parse(pattern)
	if err != nil {
		return false, fmt.Errorf("oracle: parse %q: %w", pattern, err)
	}

	translated := translate(prog)
	re, err := regexp2.Compile(translated, regexp2.None)
	if err != nil {
		return false, fmt.Errorf("oracle: regexp2 rejected %q (from %q): %w", translated, pattern, err)
	}

	ok, err := re.MatchString(subject)
	if err != nil {
		return false, fmt.Errorf("oracle: regexp2 match: %w", err)
	}
	return ok, nil
}

// translate re-renders a Program from our own AST into .NET regex
// syntax, rather than re-escaping the original pattern string, so that
// an equivalence bug in the oracle's own syntax quoting can't silently
// mask a real disagreement.
func translate(prog *ast.Program) string {
	var b strings.Builder
	if prog.AnchoredStart {
		b.WriteByte('^')
	}
	writeSeq(&b, prog.Nodes)
	if prog.AnchoredEnd {
		b.WriteByte('$')
	}
	return b.String()
}

func writeSeq(b *strings.Builder, nodes []ast.Node) {
	for _, n := range nodes {
		writeNode(b, n)
	}
}

func writeNode(b *strings.Builder, n ast.Node) {
	switch v := n.(type) {
	case *ast.Literal:
		writeEscapedLiteral(b, v.Char)
	case *ast.Digit:
		b.WriteString(`[0-9]`)
	case *ast.WordLike:
		b.WriteString(`[0-9A-Za-z_]`)
	case *ast.Wildcard:
		b.WriteByte('.')
	case *ast.CharClass:
		b.WriteByte('[')
		if v.Negated {
			b.WriteByte('^')
		}
		for _, m := range v.Members {
			switch mm := m.(type) {
			case *ast.Literal:
				writeEscapedClassMember(b, mm.Char)
			case *ast.Digit:
				b.WriteString(`0-9`)
			case *ast.WordLike:
				b.WriteString(`0-9A-Za-z_`)
			}
		}
		b.WriteByte(']')
	case *ast.Repeat:
		writeNode(b, v.Elem)
		b.WriteByte('+')
	case *ast.Optional:
		writeNode(b, v.Elem)
		b.WriteByte('?')
	case *ast.Group:
		b.WriteByte('(')
		for i, alt := range v.Alternatives {
			if i > 0 {
				b.WriteByte('|')
			}
			writeSeq(b, alt)
		}
		b.WriteByte(')')
	case *ast.BackRef:
		b.WriteByte('\\')
		b.WriteString(strconv.Itoa(v.ID + 1))
		// An empty group keeps a following literal digit from being read
		// as part of the group number.
		b.WriteString(`(?:)`)
	}
}

const regexMetachars = `\.+*?()|[]{}^$`

func writeEscapedLiteral(b *strings.Builder, c rune) {
	if strings.ContainsRune(regexMetachars, c) {
		b.WriteByte('\\')
	}
	b.WriteRune(c)
}

const classMetachars = `\]^-`

func writeEscapedClassMember(b *strings.Builder, c rune) {
	if strings.ContainsRune(classMetachars, c) {
		b.WriteByte('\\')
	}
	b.WriteRune(c)
}
