// Package checker implements the type environment and the type and
// ownership checking passes that run over a parsed ast.Module before
// lowering.
package checker

import (
	"github.com/zacostudio/zaco-compiler/internal/ast"
	"github.com/zacostudio/zaco-compiler/internal/typesys"
)

// BindingState tracks an owned binding's move status for the
// ownership analyzer; borrows are never moved and so stay Live.
type BindingState int

const (
	Live BindingState = iota
	Moved
)

// Binding is one resolved name in scope: its static type, ownership
// mode, and (for owned bindings) move state.
type Binding struct {
	Name  string
	Type  typesys.Type
	Mode  typesys.OwnershipMode
	State BindingState
	Const bool
	Used  bool
	Span  ast.Span
}

// Scope is one lexical block's symbol table, chained to its parent.
// Lookups walk outward; declarations only ever affect the innermost
// scope. let, const and var are all block-scoped this way: var is not
// hoisted to the enclosing function scope.
type Scope struct {
	parent   *Scope
	bindings map[string]*Binding
}

// NewScope creates a root scope with no parent.
func NewScope() *Scope {
	return &Scope{bindings: map[string]*Binding{}}
}

// Child creates a nested scope.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s, bindings: map[string]*Binding{}}
}

// Declare adds a new binding to this scope, reporting whether one
// already existed at this exact level (a duplicate declaration).
func (s *Scope) Declare(b *Binding) (existing *Binding, duplicate bool) {
	if prev, ok := s.bindings[b.Name]; ok {
		return prev, true
	}
	s.bindings[b.Name] = b
	return nil, false
}

// Own returns the bindings declared directly in this scope, not its
// ancestors, for the unused-local warning pass.
func (s *Scope) Own() map[string]*Binding { return s.bindings }

// Lookup finds a binding by name, searching outward through parents.
func (s *Scope) Lookup(name string) (*Binding, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.bindings[name]; ok {
			return b, true
		}
	}
	return nil, false
}
