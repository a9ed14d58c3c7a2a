package tmpl

import (
	"regexp"
	"strings"
)

// Kind identifies a scanned token.
type Kind uint8

const (
	KindText Kind = iota
	KindFor
	KindEndFor
	KindIf
	KindEndIf
	KindVar
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindFor:
		return "for"
	case KindEndFor:
		return "endfor"
	case KindIf:
		return "if"
	case KindEndIf:
		return "endif"
	case KindVar:
		return "var"
	default:
		return "unknown"
	}
}

var (
	// block tags may not contain '%'; substitutions only take dotted paths.
	tokenPattern = regexp.MustCompile(`\{%(-?)([^%]*?)(-?)%\}|\{\{(-?)\s*([\w.]+)\s*(-?)\}\}`)

	forPattern   = regexp.MustCompile(`^for\s+(\w+)\s+in\s+([\w.]+)$`)
	ifNotPattern = regexp.MustCompile(`^if\s+not\s+([\w.]+)$`)
	ifPattern    = regexp.MustCompile(`^if\s+([\w.]+)$`)
)

// Token is one lexical unit of a template: literal text or a directive tag.
type Token struct {
	Kind Kind
	Pos  int // byte offset of the token in the source
	End  int // byte offset just past the token
	Raw  string

	Var     string // loop variable
	Path    string // dotted path for for/if/var
	Negated bool

	TrimBefore bool
	TrimAfter  bool
}

// Scan splits src into text and directive tokens in a single forward pass.
// Unrecognized {% ... %} tags come back as KindUnknown so callers can drop them.
func Scan(src string) []Token {
	locs := tokenPattern.FindAllStringSubmatchIndex(src, -1)
	toks := make([]Token, 0, 2*len(locs)+1)
	last := 0
	for _, m := range locs {
		if m[0] > last {
			toks = append(toks, Token{Kind: KindText, Pos: last, End: m[0], Raw: src[last:m[0]]})
		}
		toks = append(toks, classify(src, m))
		last = m[1]
	}
	if last < len(src) {
		toks = append(toks, Token{Kind: KindText, Pos: last, End: len(src), Raw: src[last:]})
	}
	return toks
}

func classify(src string, m []int) Token {
	tok := Token{Pos: m[0], End: m[1], Raw: src[m[0]:m[1]]}
	group := func(i int) string {
		if m[2*i] < 0 {
			return ""
		}
		return src[m[2*i]:m[2*i+1]]
	}

	if m[2] >= 0 {
		tok.TrimBefore = group(1) == "-"
		tok.TrimAfter = group(3) == "-"
		body := strings.TrimSpace(group(2))
		switch {
		case body == "endfor":
			tok.Kind = KindEndFor
		case body == "endif":
			tok.Kind = KindEndIf
		default:
			if sm := forPattern.FindStringSubmatch(body); sm != nil {
				tok.Kind, tok.Var, tok.Path = KindFor, sm[1], sm[2]
			} else if sm := ifNotPattern.FindStringSubmatch(body); sm != nil {
				tok.Kind, tok.Path, tok.Negated = KindIf, sm[1], true
			} else if sm := ifPattern.FindStringSubmatch(body); sm != nil {
				tok.Kind, tok.Path = KindIf, sm[1]
			} else {
				tok.Kind = KindUnknown
			}
		}
		return tok
	}

	tok.Kind = KindVar
	tok.TrimBefore = group(4) == "-"
	tok.Path = group(5)
	tok.TrimAfter = group(6) == "-"
	return tok
}

// closerOf maps a block opener to its closing kind.
func closerOf(k Kind) (Kind, bool) {
	switch k {
	case KindFor:
		return KindEndFor, true
	case KindIf:
		return KindEndIf, true
	}
	return 0, false
}

// FindBalancedClose locates the first block tag of the given opening kind
// (KindFor or KindIf) in src and returns the byte offset just past its
// matching close tag. Same-family tags nested inside the block are counted,
// so an inner loop's endfor never closes the outer loop. It returns -1 when
// there is no such opener or the block is never closed.
//
// ParseTree does its own matching while building the tree; this is the
// standalone form for callers that only need block extents, such as
// cutting one section out of a template.
func FindBalancedClose(src string, open Kind) int {
	closer, ok := closerOf(open)
	if !ok {
		return -1
	}
	depth := 0
	for _, tok := range Scan(src) {
		switch tok.Kind {
		case open:
			depth++
		case closer:
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				return tok.End
			}
		}
	}
	return -1
}
