package tmpl

import (
	"os"
	"strings"
)

// Template is a parsed, immutable template. It is safe for concurrent use.
type Template struct {
	name string
	tree *Tree
}

// Parse parses src. It never fails; see Template.Diagnostics for anything
// that was dropped.
func Parse(name, src string) *Template {
	return &Template{name: name, tree: ParseTree(src)}
}

// ParseFile reads and parses a template file.
func ParseFile(path string) (*Template, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, string(b)), nil
}

// Name returns the name the template was parsed with.
func (t *Template) Name() string {
	return t.name
}

// Diagnostics lists directives dropped while parsing.
func (t *Template) Diagnostics() []Diagnostic {
	return t.tree.Diagnostics
}

// Render expands the template against record.
func (t *Template) Render(record map[string]interface{}) string {
	return t.Execute(NewScope(record))
}

// Execute expands the template against an existing scope.
func (t *Template) Execute(s *Scope) string {
	var b strings.Builder
	t.renderChildren(&b, 0, s)
	return b.String()
}

// Render parses src and renders it against record in one call.
func Render(src string, record map[string]interface{}) string {
	return Parse("", src).Render(record)
}

func (t *Template) renderChildren(b *strings.Builder, idx int, s *Scope) {
	for _, c := range t.tree.Nodes[idx].Children {
		t.renderNode(b, c, s)
	}
}

func (t *Template) renderNode(b *strings.Builder, idx int, s *Scope) {
	n := &t.tree.Nodes[idx]
	switch n.Kind {
	case NodeText:
		b.WriteString(n.Text)
	case NodeVar:
		v, _ := Resolve(s, n.Path)
		b.WriteString(Stringify(v))
	case NodeIf:
		if Truthy(Resolve(s, n.Path)) != n.Negated {
			t.renderChildren(b, idx, s)
		}
	case NodeFor:
		v, ok := Resolve(s, n.Path)
		if !ok {
			return
		}
		items, ok := asList(v)
		if !ok {
			return
		}
		for i, item := range items {
			t.renderChildren(b, idx, s.loopScope(n.Var, item, i, len(items)))
		}
	}
}
