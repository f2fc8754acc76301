// Package visualize renders a parsed internal/ast.Program as an
// indented tree and highlights a matched span within a subject string,
// for the diagnostic cmd/redump front end.
//
// Styling configuration is a single struct with one field per semantic
// role and one DefaultConfig constructor, rendered through
// github.com/muesli/termenv rather than built up as inline markup
// strings. Per-depth group colors are generated at runtime by rotating
// hue in HSV space with github.com/lucasb-eyer/go-colorful rather than
// read from a fixed palette slice, since a tree's nesting depth is
// unbounded and a fixed-length palette would run out.
package visualize

import (
	"fmt"
	"io"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
	"github.com/rivo/uniseg"

	"github.com/0x4d5352/minigrep/internal/ast"
)

// Config holds the styling used by Renderer. Colors are hex strings,
// resolved against the output's color profile at render time so a dumb
// terminal degrades gracefully instead of emitting raw escape codes.
type Config struct {
	TextColor      string
	LiteralColor   string
	EscapeColor    string // \d, \w
	AnchorColor    string // ^ $
	CharsetColor   string
	BackrefColor   string
	RepeatLabel    string // color of the "one-or-more (+)" label
	OptionalLabel  string
	GroupHueStart  float64 // degrees, first capturing group's hue
	GroupHueStep   float64 // degrees added per nesting depth
	GroupSaturation float64
	GroupValue      float64
}

// DefaultConfig assigns one color per element kind and computes group
// colors as a hue rotation instead of a fixed palette slice, so nesting
// depth beyond a handful of levels still gets a distinct color rather
// than reusing the last entry.
func DefaultConfig() *Config {
	return &Config{
		TextColor:       "#bcbcbc",
		LiteralColor:    "#ff6b6b",
		EscapeColor:     "#bada55",
		AnchorColor:     "#6b6659",
		CharsetColor:    "#cbcbba",
		BackrefColor:    "#c9b3ff",
		RepeatLabel:     "#666666",
		OptionalLabel:   "#666666",
		GroupHueStart:   205, // light blue
		GroupHueStep:    47,
		GroupSaturation: 0.55,
		GroupValue:      0.9,
	}
}

// Renderer writes a Program's tree to an underlying writer, styling
// each line through a termenv.Output bound to that writer's detected
// color profile.
type Renderer struct {
	out    *termenv.Output
	cfg    *Config
	groups int // total capturing groups of the last program passed to Tree
}

// New creates a Renderer. profile, when non-nil, overrides automatic
// color-profile detection (tests pass termenv.Ascii to get
// deterministic, unstyled output).
func New(w io.Writer, cfg *Config, profile *termenv.Profile) *Renderer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	var out *termenv.Output
	if profile != nil {
		out = termenv.NewOutput(w, termenv.WithProfile(*profile))
	} else {
		out = termenv.NewOutput(w)
	}
	return &Renderer{out: out, cfg: cfg}
}

// Tree writes prog as a box-drawing indented tree to w.
func (r *Renderer) Tree(w io.Writer, prog *ast.Program) {
	r.groups = prog.GroupCount
	header := "pattern"
	if prog.AnchoredStart {
		header += " (anchored start)"
	}
	if prog.AnchoredEnd {
		header += " (anchored end)"
	}
	fmt.Fprintln(w, r.style(header, r.cfg.TextColor, true))
	r.writeChildren(w, prog.Nodes, "", 0)
}

func (r *Renderer) writeChildren(w io.Writer, nodes []ast.Node, prefix string, depth int) {
	for i, n := range nodes {
		last := i == len(nodes)-1
		branch := "├── "
		nextPrefix := prefix + "│   "
		if last {
			branch = "└── "
			nextPrefix = prefix + "    "
		}
		fmt.Fprintln(w, prefix+branch+r.label(n, depth))
		if children, childDepth := r.children(n, depth); children != nil {
			r.writeChildren(w, children, nextPrefix, childDepth)
		}
	}
}

// children returns the sub-nodes to recurse into for n, flattening a
// Group's alternatives into a single list with alternation markers
// folded into label text, since the tree shows structure, not a
// second-level alternative index.
func (r *Renderer) children(n ast.Node, depth int) ([]ast.Node, int) {
	switch v := n.(type) {
	case *ast.Repeat:
		return []ast.Node{v.Elem}, depth
	case *ast.Optional:
		return []ast.Node{v.Elem}, depth
	case *ast.Group:
		var all []ast.Node
		for _, alt := range v.Alternatives {
			all = append(all, alt...)
		}
		return all, depth + 1
	}
	return nil, depth
}

func (r *Renderer) label(n ast.Node, depth int) string {
	switch v := n.(type) {
	case *ast.Literal:
		return r.style(fmt.Sprintf("literal %q", v.Char), r.cfg.LiteralColor, false)
	case *ast.Digit:
		return r.style(`\d digit`, r.cfg.EscapeColor, false)
	case *ast.WordLike:
		return r.style(`\w word-char`, r.cfg.EscapeColor, false)
	case *ast.Wildcard:
		return r.style(". any-char", r.cfg.TextColor, false)
	case *ast.CharClass:
		return r.style(classLabel(v), r.cfg.CharsetColor, false)
	case *ast.Repeat:
		return r.style("one-or-more (+)", r.cfg.RepeatLabel, false)
	case *ast.Optional:
		return r.style("optional (?)", r.cfg.OptionalLabel, false)
	case *ast.Group:
		label := fmt.Sprintf("group #%d", v.ID+1)
		if len(v.Alternatives) > 1 {
			label += fmt.Sprintf(" (%d alternatives)", len(v.Alternatives))
		}
		return r.style(label, r.groupColor(depth), true)
	case *ast.BackRef:
		return r.style(fmt.Sprintf(`\%d back-reference`, v.ID+1), r.cfg.BackrefColor, false)
	default:
		return fmt.Sprintf("%v", n)
	}
}

func classLabel(c *ast.CharClass) string {
	var b strings.Builder
	b.WriteByte('[')
	if c.Negated {
		b.WriteByte('^')
	}
	for _, m := range c.Members {
		switch mm := m.(type) {
		case *ast.Literal:
			b.WriteRune(mm.Char)
		case *ast.Digit:
			b.WriteString(`\d`)
		case *ast.WordLike:
			b.WriteString(`\w`)
		}
	}
	b.WriteByte(']')
	return b.String()
}

// groupColor rotates hue by depth so sibling nesting levels read as
// visually distinct without maintaining a fixed-length palette.
func (r *Renderer) groupColor(depth int) string {
	hue := r.cfg.GroupHueStart + float64(depth)*r.cfg.GroupHueStep
	hue = mod360(hue)
	c := colorful.Hsv(hue, r.cfg.GroupSaturation, r.cfg.GroupValue)
	return c.Hex()
}

func mod360(deg float64) float64 {
	for deg >= 360 {
		deg -= 360
	}
	return deg
}

func (r *Renderer) style(s, hexColor string, bold bool) string {
	styled := r.out.String(s).Foreground(r.out.Color(hexColor))
	if bold {
		styled = styled.Bold()
	}
	return styled.String()
}

// HighlightSpan returns subject with the grapheme clusters in
// [start,end) (code-point offsets, matching internal/matcher's
// indexing) rendered in reverse video. Grapheme clusters, not runes,
// are the unit of highlighting so a combining-mark sequence at the
// matched boundary is never split mid-cluster.
func (r *Renderer) HighlightSpan(subject string, start, end int) string {
	var b strings.Builder
	pos := 0
	gr := uniseg.NewGraphemes(subject)
	for gr.Next() {
		cluster := gr.Str()
		clusterLen := len([]rune(cluster))
		if pos >= start && pos < end {
			b.WriteString(r.out.String(cluster).Reverse().String())
		} else {
			b.WriteString(cluster)
		}
		pos += clusterLen
	}
	return b.String()
}
