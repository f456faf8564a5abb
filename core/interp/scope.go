package interp

import (
	"sort"

	"github.com/pjsh-lang/pjsh/core/filters"
)

// Value is the data bound to a shell variable: a word or a list.
type Value = filters.Value

// Scope is one frame of the variable scope chain. The outermost frame is
// pre-populated from the process environment; functions and subshells push
// inner frames.
type Scope struct {
	parent   *Scope
	vars     map[string]Value
	exported map[string]bool
}

// NewScope returns a scope whose lookups fall through to parent.
func NewScope(parent *Scope) *Scope {
	return &Scope{
		parent:   parent,
		vars:     make(map[string]Value),
		exported: make(map[string]bool),
	}
}

// Get looks name up, walking from the innermost frame outward.
func (s *Scope) Get(name string) (Value, bool) {
	for frame := s; frame != nil; frame = frame.parent {
		if v, ok := frame.vars[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Set binds name in the nearest frame that already defines it, or in the
// innermost frame when no frame does.
func (s *Scope) Set(name string, v Value) {
	for frame := s; frame != nil; frame = frame.parent {
		if _, ok := frame.vars[name]; ok {
			frame.vars[name] = v
			return
		}
	}
	s.vars[name] = v
}

// Declare binds name in the innermost frame, shadowing any outer binding.
func (s *Scope) Declare(name string, v Value) {
	s.vars[name] = v
}

// Unset removes the nearest binding of name.
func (s *Scope) Unset(name string) {
	for frame := s; frame != nil; frame = frame.parent {
		if _, ok := frame.vars[name]; ok {
			delete(frame.vars, name)
			delete(frame.exported, name)
			return
		}
	}
}

// Export marks name as exported in the innermost frame.
func (s *Scope) Export(name string) {
	s.exported[name] = true
}

// Environ renders the spawn-time environment: the union of exported names
// along the chain, with inner frames taking precedence, sorted by name.
func (s *Scope) Environ() []string {
	resolved := make(map[string]string)
	var frames []*Scope
	for frame := s; frame != nil; frame = frame.parent {
		frames = append(frames, frame)
	}
	// Outermost first so inner frames overwrite.
	for i := len(frames) - 1; i >= 0; i-- {
		for name := range frames[i].exported {
			if v, ok := s.Get(name); ok {
				resolved[name] = v.String()
			}
		}
	}

	env := make([]string, 0, len(resolved))
	for name, value := range resolved {
		env = append(env, name+"="+value)
	}
	sort.Strings(env)
	return env
}

// Snapshot deep-copies the scope chain. Mutations on either side no longer
// propagate to the other.
func (s *Scope) Snapshot() *Scope {
	if s == nil {
		return nil
	}
	copied := &Scope{
		parent:   s.parent.Snapshot(),
		vars:     make(map[string]Value, len(s.vars)),
		exported: make(map[string]bool, len(s.exported)),
	}
	for name, v := range s.vars {
		if v.IsList {
			v.Items = append([]string(nil), v.Items...)
		}
		copied.vars[name] = v
	}
	for name := range s.exported {
		copied.exported[name] = true
	}
	return copied
}
