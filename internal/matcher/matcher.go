// Package matcher evaluates an internal/ast.Program against a subject
// string using recursive backtracking.
//
// The subject is indexed by code point, not byte, throughout: Match
// converts it to []rune once up front so code-point indexing keeps
// Literal, Wildcard, CharClass and back-reference lengths consistent
// under multi-byte input.
//
// Matching is continuation-passing: every node's handler is given "k",
// a function representing everything that still has to match after it.
// A node tries a candidate consumption and calls k with the resulting
// position; if k reports failure, the node tries its next candidate
// (fewer repetitions, the next alternative, ...) before giving up. This
// is what makes backtracking correct across node boundaries — in
// particular it lets a quantifier nested inside a capturing group back
// off when something *outside* the group fails to match, e.g. "(a+)a"
// against "aaa" must let the group give back its last 'a'.
package matcher

import "github.com/0x4d5352/minigrep/internal/ast"

// cont is "the rest of the match": given the subject position reached so
// far, it reports whether a full match can be completed from there.
type cont func(pos int) bool

// Match reports whether program matches some contiguous region of
// subject, honoring AnchoredStart/AnchoredEnd. A trailing newline a CLI
// caller did not strip is ignored for anchor purposes.
func Match(program *ast.Program, subject string) bool {
	runes := []rune(trimTrailingNewline(subject))

	starts := []int{0}
	if !program.AnchoredStart {
		starts = make([]int, 0, len(runes)+1)
		for s := 0; s <= len(runes); s++ {
			starts = append(starts, s)
		}
	}

	for _, s := range starts {
		caps := make([]capture, program.GroupCount)
		final := func(pos int) bool {
			if program.AnchoredEnd {
				return pos == len(runes)
			}
			return true
		}
		if matchSeq(program.Nodes, runes, s, caps, final) {
			return true
		}
	}
	return false
}

func trimTrailingNewline(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\n' {
		return s[:len(s)-1]
	}
	return s
}

// capture holds one group's captured text. set distinguishes "captured
// the empty string" from "never captured", since an unset back-reference
// must fail to match rather than match the empty string.
type capture struct {
	text string
	set  bool
}

// matchSeq walks nodes left to right, dispatching the head to its
// node-specific handler with a continuation that matches the tail (and
// ultimately k) from wherever the head leaves off.
func matchSeq(nodes []ast.Node, subject []rune, pos int, caps []capture, k cont) bool {
	if len(nodes) == 0 {
		return k(pos)
	}

	head, tail := nodes[0], nodes[1:]
	rest := func(p int) bool { return matchSeq(tail, subject, p, caps, k) }

	switch n := head.(type) {
	case *ast.Literal:
		if pos < len(subject) && subject[pos] == n.Char {
			return rest(pos + 1)
		}
		return false

	case *ast.Digit:
		if pos < len(subject) && isDigit(subject[pos]) {
			return rest(pos + 1)
		}
		return false

	case *ast.WordLike:
		if pos < len(subject) && isWordChar(subject[pos]) {
			return rest(pos + 1)
		}
		return false

	case *ast.Wildcard:
		if pos < len(subject) && subject[pos] != '\n' {
			return rest(pos + 1)
		}
		return false

	case *ast.CharClass:
		if pos < len(subject) && charClassMatches(n, subject[pos]) {
			return rest(pos + 1)
		}
		return false

	case *ast.Optional:
		// Greedy: prefer taking the element, fall back to skipping it.
		if matchSeq([]ast.Node{n.Elem}, subject, pos, caps, rest) {
			return true
		}
		return rest(pos)

	case *ast.Repeat:
		return matchOneOrMore(n.Elem, subject, pos, caps, rest)

	case *ast.Group:
		return matchGroup(n, subject, pos, caps, rest)

	case *ast.BackRef:
		c := caps[n.ID]
		if !c.set {
			return false
		}
		want := []rune(c.text)
		if pos+len(want) > len(subject) {
			return false
		}
		for i, r := range want {
			if subject[pos+i] != r {
				return false
			}
		}
		return rest(pos + len(want))
	}

	return false
}

// matchOneOrMore matches elem at least once, then as many additional
// times as possible, preferring more repetitions (greedy) and backing
// off one at a time when the continuation fails to complete the match.
func matchOneOrMore(elem ast.Node, subject []rune, pos int, caps []capture, k cont) bool {
	return matchSeq([]ast.Node{elem}, subject, pos, caps, func(p1 int) bool {
		return matchZeroOrMore(elem, subject, p1, caps, k)
	})
}

func matchZeroOrMore(elem ast.Node, subject []rune, pos int, caps []capture, k cont) bool {
	matchedMore := matchSeq([]ast.Node{elem}, subject, pos, caps, func(p2 int) bool {
		if p2 == pos {
			// Zero-width element match: repeating it can't make progress.
			return false
		}
		return matchZeroOrMore(elem, subject, p2, caps, k)
	})
	if matchedMore {
		return true
	}
	return k(pos)
}

// matchGroup tries each alternative of n in order. Whenever an
// alternative reaches its own end, the capture is recorded and k (the
// rest of the pattern) is tried immediately — so if k fails, matchSeq's
// own internal backtracking over that alternative gets a chance to find
// a different end position before the group moves on to its next
// alternative.
func matchGroup(n *ast.Group, subject []rune, pos int, caps []capture, k cont) bool {
	prev := caps[n.ID]
	for _, alt := range n.Alternatives {
		ok := matchSeq(alt, subject, pos, caps, func(end int) bool {
			caps[n.ID] = capture{text: string(subject[pos:end]), set: true}
			if k(end) {
				return true
			}
			caps[n.ID] = prev
			return false
		})
		if ok {
			return true
		}
		caps[n.ID] = prev
	}
	return false
}

func charClassMatches(c *ast.CharClass, r rune) bool {
	in := false
	for _, m := range c.Members {
		switch mm := m.(type) {
		case *ast.Literal:
			in = r == mm.Char
		case *ast.Digit:
			in = isDigit(r)
		case *ast.WordLike:
			in = isWordChar(r)
		}
		if in {
			break
		}
	}
	return in != c.Negated
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isWordChar(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}
