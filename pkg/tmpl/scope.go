package tmpl

// Scope is one link in the chain of variable bindings visible while a
// template renders. The root scope wraps the base record; every loop
// iteration gets a child holding only the loop variable and loop metadata.
// Children never write into their parent.
type Scope struct {
	vars   map[string]interface{}
	parent *Scope
}

// NewScope creates a root scope over the given record. A nil record behaves
// like an empty one.
func NewScope(record map[string]interface{}) *Scope {
	if record == nil {
		record = map[string]interface{}{}
	}
	return &Scope{vars: record}
}

// Child returns a scope layered on top of s.
func (s *Scope) Child(vars map[string]interface{}) *Scope {
	if vars == nil {
		vars = map[string]interface{}{}
	}
	return &Scope{vars: vars, parent: s}
}

// Lookup finds name in the innermost scope that binds it.
func (s *Scope) Lookup(name string) (interface{}, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// loopScope binds one iteration of a for-loop.
func (s *Scope) loopScope(name string, item interface{}, index, length int) *Scope {
	return s.Child(map[string]interface{}{
		name: item,
		"loop": map[string]interface{}{
			"index":  index + 1,
			"index0": index,
			"first":  index == 0,
			"last":   index == length-1,
			"length": length,
		},
	})
}
