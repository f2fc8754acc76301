// Package parser turns a pattern string into an internal/ast.Program.
//
// The scanner is a single left-to-right pass: it carries an output node
// list, an optional open character class, a stack of open group frames
// (one per nested '('), an escaping flag implicit in the switch below,
// and the running group counter from ast.ParserState.
package parser

import (
	"fmt"

	"github.com/0x4d5352/minigrep/internal/ast"
)

// SyntaxError reports a malformed pattern together with the code-point
// offset (into the original pattern string) where the problem was detected, so
// callers can print a position-indicator caret the way cmd/redump does.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("pattern error at %d: %s", e.Pos, e.Msg)
}

// groupFrame tracks an open '(' while its alternatives are being scanned.
type groupFrame struct {
	id       int
	current  []ast.Node   // nodes collected in the alternative in progress
	alts     [][]ast.Node // alternatives closed so far via '|'
	startPos int          // code-point offset of the opening '(', for error messages
}

// Parse parses pattern and returns the resulting Program, or a
// *SyntaxError describing the first malformed construct encountered.
func Parse(pattern string) (*ast.Program, error) {
	p := &parser{
		src:   []rune(pattern),
		state: ast.NewParserState(),
	}
	return p.run()
}

type parser struct {
	src   []rune
	pos   int
	out   []ast.Node
	stack []*groupFrame
	state *ast.ParserState

	anchoredStart bool
	anchoredEnd   bool
}

func (p *parser) run() (*ast.Program, error) {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case '\\':
			if err := p.scanEscape(); err != nil {
				return nil, err
			}
		case '[':
			if err := p.scanCharClass(); err != nil {
				return nil, err
			}
		case '.':
			p.emit(&ast.Wildcard{})
			p.pos++
		case '^':
			if p.pos == 0 && len(p.stack) == 0 {
				p.anchoredStart = true
			} else {
				p.emit(&ast.Literal{Char: c})
			}
			p.pos++
		case '$':
			if p.isFinalPosition() {
				p.anchoredEnd = true
			} else {
				p.emit(&ast.Literal{Char: c})
			}
			p.pos++
		case '+':
			if err := p.wrapLast(func(n ast.Node) ast.Node { return &ast.Repeat{Elem: n} }, "+"); err != nil {
				return nil, err
			}
			p.pos++
		case '?':
			if err := p.wrapLast(func(n ast.Node) ast.Node { return &ast.Optional{Elem: n} }, "?"); err != nil {
				return nil, err
			}
			p.pos++
		case '(':
			p.stack = append(p.stack, &groupFrame{
				id:       p.state.NextGroupID(),
				startPos: p.pos,
			})
			p.pos++
		case '|':
			if len(p.stack) == 0 {
				return nil, &SyntaxError{Pos: p.pos, Msg: "'|' outside of a group"}
			}
			top := p.stack[len(p.stack)-1]
			top.alts = append(top.alts, top.current)
			top.current = nil
			p.pos++
		case ')':
			if len(p.stack) == 0 {
				return nil, &SyntaxError{Pos: p.pos, Msg: "unbalanced ')'"}
			}
			top := p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			top.alts = append(top.alts, top.current)
			p.emit(&ast.Group{ID: top.id, Alternatives: top.alts})
			p.pos++
		default:
			p.emit(&ast.Literal{Char: c})
			p.pos++
		}
	}

	if len(p.stack) > 0 {
		return nil, &SyntaxError{Pos: p.stack[len(p.stack)-1].startPos, Msg: "unbalanced '('"}
	}

	return &ast.Program{
		Nodes:         p.out,
		AnchoredStart: p.anchoredStart,
		AnchoredEnd:   p.anchoredEnd,
		GroupCount:    p.state.GroupCounter,
	}, nil
}

// emit appends n to the node list currently in scope: the top-of-stack
// group's in-progress alternative, or the top-level output.
func (p *parser) emit(n ast.Node) {
	if len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		top.current = append(top.current, n)
		return
	}
	p.out = append(p.out, n)
}

// lastSlot returns a pointer to the slice holding the node currently in
// scope, so quantifiers can replace its final element in place.
func (p *parser) lastSlot() *[]ast.Node {
	if len(p.stack) > 0 {
		return &p.stack[len(p.stack)-1].current
	}
	return &p.out
}

func (p *parser) wrapLast(wrap func(ast.Node) ast.Node, op string) error {
	slot := p.lastSlot()
	if len(*slot) == 0 {
		return &SyntaxError{Pos: p.pos, Msg: fmt.Sprintf("nothing to quantify before '%s'", op)}
	}
	last := (*slot)[len(*slot)-1]
	switch last.(type) {
	case *ast.Repeat, *ast.Optional:
		return &SyntaxError{Pos: p.pos, Msg: fmt.Sprintf("'%s' cannot follow another quantifier", op)}
	}
	(*slot)[len(*slot)-1] = wrap(last)
	return nil
}

// isFinalPosition reports whether p.pos is the last character of the
// top-level pattern — the one place '$' is treated as an end anchor,
// mirroring '^''s "position 0 of the top-level pattern" restriction.
func (p *parser) isFinalPosition() bool {
	return len(p.stack) == 0 && p.pos == len(p.src)-1
}

func (p *parser) scanEscape() error {
	start := p.pos
	if p.pos+1 >= len(p.src) {
		return &SyntaxError{Pos: start, Msg: "dangling escape at end of pattern"}
	}
	next := p.src[p.pos+1]
	switch {
	case next == 'd':
		p.emit(&ast.Digit{})
		p.pos += 2
	case next == 'w':
		p.emit(&ast.WordLike{})
		p.pos += 2
	case next >= '1' && next <= '9':
		id := int(next-'0') - 1
		if id >= p.state.GroupCounter {
			return &SyntaxError{Pos: start, Msg: fmt.Sprintf("back-reference to non-existent group %d", id+1)}
		}
		p.emit(&ast.BackRef{ID: id})
		p.pos += 2
	default:
		p.emit(&ast.Literal{Char: next})
		p.pos += 2
	}
	return nil
}

// scanCharClass parses a full [...] class, applying the "inside an open
// character class" rules, and emits a single ast.CharClass.
func (p *parser) scanCharClass() error {
	start := p.pos
	p.pos++ // consume '['

	negated := false
	if p.pos < len(p.src) && p.src[p.pos] == '^' {
		negated = true
		p.pos++
	}

	var members []ast.Node
	for {
		if p.pos >= len(p.src) {
			return &SyntaxError{Pos: start, Msg: "unbalanced '['"}
		}
		c := p.src[p.pos]
		if c == ']' {
			p.pos++
			break
		}
		if c == '\\' && p.pos+1 < len(p.src) {
			switch p.src[p.pos+1] {
			case 'd':
				members = append(members, &ast.Digit{})
				p.pos += 2
				continue
			case 'w':
				members = append(members, &ast.WordLike{})
				p.pos += 2
				continue
			default:
				members = append(members, &ast.Literal{Char: p.src[p.pos+1]})
				p.pos += 2
				continue
			}
		}
		members = append(members, &ast.Literal{Char: c})
		p.pos++
	}

	if len(members) == 0 {
		return &SyntaxError{Pos: start, Msg: "empty character class"}
	}

	p.emit(&ast.CharClass{Members: members, Negated: negated})
	return nil
}
