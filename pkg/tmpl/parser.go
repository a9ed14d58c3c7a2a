package tmpl

import (
	"fmt"
	"strings"
	"unicode"
)

// NodeKind identifies a directive node in a parsed template.
type NodeKind uint8

const (
	NodeRoot NodeKind = iota
	NodeText
	NodeFor
	NodeIf
	NodeVar
)

// Node is one entry in the template's node arena. Parent and Children are
// indices into Tree.Nodes.
type Node struct {
	Kind     NodeKind
	Parent   int
	Children []int

	Text    string // NodeText
	Var     string // NodeFor loop variable
	Path    string // NodeFor source, NodeIf test, NodeVar path
	Negated bool   // NodeIf
	Pos     int
}

// Diagnostic describes a directive the parser had to drop.
type Diagnostic struct {
	Pos    int
	Tag    string
	Reason string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("offset %d: %s %q", d.Pos, d.Reason, d.Tag)
}

const (
	reasonUnclosed = "unclosed block"
	reasonStray    = "close tag without opener"
	reasonUnknown  = "unrecognized directive"
)

// Tree is a parsed template. Node 0 is the root.
type Tree struct {
	Nodes       []Node
	Diagnostics []Diagnostic
}

type parser struct {
	tree  *Tree
	stack []int // open blocks; stack[0] is the root
	raw   map[int]string
}

// ParseTree turns src into a directive tree in one forward pass. Parsing
// never fails: unbalanced or unknown block tags are dropped (their content
// is kept in place) and reported in Diagnostics.
func ParseTree(src string) *Tree {
	p := &parser{
		tree:  &Tree{Nodes: []Node{{Kind: NodeRoot, Parent: -1}}},
		stack: []int{0},
		raw:   map[int]string{},
	}
	for _, tok := range trimWhitespace(Scan(src)) {
		p.consume(tok)
	}
	for len(p.stack) > 1 {
		p.dissolve(p.stack[len(p.stack)-1])
		p.stack = p.stack[:len(p.stack)-1]
	}
	return p.tree
}

func (p *parser) top() int {
	return p.stack[len(p.stack)-1]
}

func (p *parser) add(n Node) int {
	n.Parent = p.top()
	idx := len(p.tree.Nodes)
	p.tree.Nodes = append(p.tree.Nodes, n)
	p.tree.Nodes[n.Parent].Children = append(p.tree.Nodes[n.Parent].Children, idx)
	return idx
}

func (p *parser) consume(tok Token) {
	switch tok.Kind {
	case KindText:
		if tok.Raw != "" {
			p.add(Node{Kind: NodeText, Text: tok.Raw, Pos: tok.Pos})
		}
	case KindVar:
		p.add(Node{Kind: NodeVar, Path: tok.Path, Pos: tok.Pos})
	case KindFor:
		idx := p.add(Node{Kind: NodeFor, Var: tok.Var, Path: tok.Path, Pos: tok.Pos})
		p.raw[idx] = tok.Raw
		p.stack = append(p.stack, idx)
	case KindIf:
		idx := p.add(Node{Kind: NodeIf, Path: tok.Path, Negated: tok.Negated, Pos: tok.Pos})
		p.raw[idx] = tok.Raw
		p.stack = append(p.stack, idx)
	case KindEndFor:
		p.close(NodeFor, tok)
	case KindEndIf:
		p.close(NodeIf, tok)
	default:
		p.drop(tok.Pos, tok.Raw, reasonUnknown)
	}
}

// close pops the innermost open block of the given kind. Blocks opened
// after it that were never closed are dissolved first.
func (p *parser) close(kind NodeKind, tok Token) {
	at := -1
	for i := len(p.stack) - 1; i > 0; i-- {
		if p.tree.Nodes[p.stack[i]].Kind == kind {
			at = i
			break
		}
	}
	if at < 0 {
		p.drop(tok.Pos, tok.Raw, reasonStray)
		return
	}
	for i := len(p.stack) - 1; i > at; i-- {
		p.dissolve(p.stack[i])
	}
	p.stack = p.stack[:at]
}

// dissolve replaces an unclosed block by its children in its parent.
func (p *parser) dissolve(idx int) {
	nodes := p.tree.Nodes
	n := nodes[idx]
	parent := &nodes[n.Parent]

	spliced := make([]int, 0, len(parent.Children)+len(n.Children))
	for _, c := range parent.Children {
		if c == idx {
			spliced = append(spliced, n.Children...)
			continue
		}
		spliced = append(spliced, c)
	}
	parent.Children = spliced
	for _, c := range n.Children {
		nodes[c].Parent = n.Parent
	}
	nodes[idx].Children = nil
	nodes[idx].Parent = -1
	p.drop(n.Pos, p.raw[idx], reasonUnclosed)
}

func (p *parser) drop(pos int, raw, reason string) {
	p.tree.Diagnostics = append(p.tree.Diagnostics, Diagnostic{Pos: pos, Tag: raw, Reason: reason})
}

// trimWhitespace applies the "-" markers: a leading dash strips trailing
// whitespace from the preceding text, a trailing dash strips leading
// whitespace from the following text.
func trimWhitespace(toks []Token) []Token {
	for i, tok := range toks {
		if tok.Kind == KindText {
			continue
		}
		if tok.TrimBefore && i > 0 && toks[i-1].Kind == KindText {
			toks[i-1].Raw = strings.TrimRightFunc(toks[i-1].Raw, unicode.IsSpace)
		}
		if tok.TrimAfter && i+1 < len(toks) && toks[i+1].Kind == KindText {
			toks[i+1].Raw = strings.TrimLeftFunc(toks[i+1].Raw, unicode.IsSpace)
		}
	}
	return toks
}
