package runtime

import (
	"atlas-lang/internal/ast"
)

// ScopeTag marks the block nesting level a binding was declared at.
// Sibling blocks share a tag; this is safe because blocks run strictly
// depth-first and evict their tag before returning.
type ScopeTag uint32

// Binding is a variable's fixed declared type and current value.
type Binding struct {
	Type  ast.DataType
	Value Value
}

type entry struct {
	name    string
	binding Binding
	scope   ScopeTag
}

// BindingInfo is a read-only view of one live binding.
type BindingInfo struct {
	Name  string
	Type  ast.DataType
	Value Value
	Scope ScopeTag
}

// Environment is the append-ordered table of every live binding.
// Lookups resolve to the most recently appended entry with a matching name.
type Environment struct {
	entries []entry
}

// NewEnvironment returns an empty table.
func NewEnvironment() *Environment {
	return &Environment{}
}

// Declare appends a binding. It fails if the name is bound anywhere in the
// table, not only in scope: a name cannot be redeclared until the block that
// declared it has been evicted.
func (e *Environment) Declare(name string, t ast.DataType, v Value, scope ScopeTag) error {
	if e.index(name) >= 0 {
		return identErr(DuplicateIdentifier, name, noSpan)
	}
	e.entries = append(e.entries, entry{name: name, binding: Binding{Type: t, Value: v}, scope: scope})
	return nil
}

// Lookup returns the value of the most recent binding of name.
func (e *Environment) Lookup(name string) (Value, bool) {
	i := e.index(name)
	if i < 0 {
		return nil, false
	}
	return e.entries[i].binding.Value, true
}

// Assign overwrites the most recent binding of name in place. The value's
// kind must match the declared type; the scope tag is preserved.
func (e *Environment) Assign(name string, v Value) error {
	i := e.index(name)
	if i < 0 {
		return identErr(UnknownIdentifier, name, noSpan)
	}
	b := &e.entries[i].binding
	if !Accepts(b.Type, v.Kind()) {
		return &EvalError{
			Kind:   TypeMismatch,
			Name:   name,
			Detail: "cannot assign " + v.Kind().String() + " to '" + name + "' of type " + b.Type.String(),
		}
	}
	b.Value = v
	return nil
}

// Evict removes every binding tagged with scope and returns how many were removed.
// The relative order of the remaining bindings is kept.
func (e *Environment) Evict(scope ScopeTag) int {
	kept := e.entries[:0]
	for _, en := range e.entries {
		if en.scope != scope {
			kept = append(kept, en)
		}
	}
	removed := len(e.entries) - len(kept)
	for i := len(kept); i < len(e.entries); i++ {
		e.entries[i] = entry{}
	}
	e.entries = kept
	return removed
}

// Len returns the number of live bindings.
func (e *Environment) Len() int {
	return len(e.entries)
}

// Bindings returns a snapshot of the live bindings in declaration order.
func (e *Environment) Bindings() []BindingInfo {
	out := make([]BindingInfo, len(e.entries))
	for i, en := range e.entries {
		out[i] = BindingInfo{Name: en.name, Type: en.binding.Type, Value: en.binding.Value, Scope: en.scope}
	}
	return out
}

func (e *Environment) index(name string) int {
	for i := len(e.entries) - 1; i >= 0; i-- {
		if e.entries[i].name == name {
			return i
		}
	}
	return -1
}
