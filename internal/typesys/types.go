// Package typesys models resolved types after checking, as distinct
// from the unresolved ast.TypeAnn forms the parser produces.
package typesys

import "strings"

// Type is any resolved type value the checker can produce.
type Type interface {
	String() string
	typeNode()
}

// Primitive is one of the built-in scalar/bottom/top kinds.
type Primitive int

const (
	Number Primitive = iota
	String
	Boolean
	Void
	Null
	Undefined
	Never
	Any
	Unknown
)

var primitiveNames = [...]string{
	"number", "string", "boolean", "void", "null", "undefined", "never", "any", "unknown",
}

func (p Primitive) String() string { return primitiveNames[p] }
func (Primitive) typeNode()        {}

// Ref is an unresolved or resolved symbolic reference to a named
// class, interface, or type alias, with optional instantiated
// type arguments.
type Ref struct {
	Name     string
	TypeArgs []Type
	Resolved Type // filled in once the environment resolves Name; nil until then
}

func (r *Ref) String() string {
	if len(r.TypeArgs) == 0 {
		return r.Name
	}
	parts := make([]string, len(r.TypeArgs))
	for i, a := range r.TypeArgs {
		parts[i] = a.String()
	}
	return r.Name + "<" + strings.Join(parts, ", ") + ">"
}
func (*Ref) typeNode() {}

// Param is one function parameter's ownership mode and type.
type Param struct {
	Mode OwnershipMode
	Type Type
}

// OwnershipMode mirrors ast.OwnershipMode but lives in typesys so the
// checker need not import ast for this one enum.
type OwnershipMode int

const (
	Owned OwnershipMode = iota
	RefMode
	MutRefMode
)

func (m OwnershipMode) String() string {
	switch m {
	case RefMode:
		return "ref"
	case MutRefMode:
		return "mut ref"
	default:
		return "owned"
	}
}

// Function is a function type. Parameters are contravariant and the
// return type is covariant under assignability.
type Function struct {
	Params []Param
	Return Type
}

func (f *Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.Type.String()
	}
	return "(" + strings.Join(parts, ", ") + ") => " + f.Return.String()
}
func (*Function) typeNode() {}

// Promise canonicalizes to a single wrapper: Promise<Promise<T>> never
// arises from checking, only Promise<T>.
type Promise struct{ Elem Type }

func (p *Promise) String() string { return "Promise<" + p.Elem.String() + ">" }
func (*Promise) typeNode()        {}

// Union is a set of alternative types; order is preserved for
// diagnostics but irrelevant to equivalence.
type Union struct{ Members []Type }

func (u *Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}
func (*Union) typeNode() {}

// Array is `T[]`.
type Array struct{ Elem Type }

func (a *Array) String() string { return a.Elem.String() + "[]" }
func (*Array) typeNode()        {}

// ObjectField is one field of an Object structural type.
type ObjectField struct {
	Name     string
	Type     Type
	Optional bool
}

// Object is a structural record type, as produced by an object
// literal's inferred type or an `{ ... }` annotation.
type Object struct{ Fields []ObjectField }

func (o *Object) String() string {
	parts := make([]string, len(o.Fields))
	for i, f := range o.Fields {
		opt := ""
		if f.Optional {
			opt = "?"
		}
		parts[i] = f.Name + opt + ": " + f.Type.String()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}
func (*Object) typeNode() {}

// Member is one field or method on a Class/Interface.
type Member struct {
	Name   string
	Type   Type // Function for methods, field type otherwise
	Mode   OwnershipMode
	Method bool
}

// Class is a nominal type with single inheritance and any number of
// implemented interfaces. Subtyping follows the inheritance chain,
// never structural field matching (that is reserved for Object).
type Class struct {
	Name       string
	TypeParams []string
	Extends    *Class
	Implements []*Interface
	Members    []Member
}

func (c *Class) String() string { return c.Name }
func (*Class) typeNode()        {}

// Interface is a structural contract a Class may implement; it may
// itself extend other interfaces.
type Interface struct {
	Name    string
	Extends []*Interface
	Members []Member
}

func (i *Interface) String() string { return i.Name }
func (*Interface) typeNode()        {}

// Lookup finds a member by name, searching the class's own members
// then its superclass chain.
func (c *Class) Lookup(name string) (Member, bool) {
	for _, m := range c.Members {
		if m.Name == name {
			return m, true
		}
	}
	if c.Extends != nil {
		return c.Extends.Lookup(name)
	}
	return Member{}, false
}

// Lookup finds a member signature on an interface, searching extended
// interfaces depth-first.
func (i *Interface) Lookup(name string) (Member, bool) {
	for _, m := range i.Members {
		if m.Name == name {
			return m, true
		}
	}
	for _, e := range i.Extends {
		if m, ok := e.Lookup(name); ok {
			return m, true
		}
	}
	return Member{}, false
}

// IsSubclassOf reports whether c is, or inherits from, an ancestor named name.
func (c *Class) IsSubclassOf(name string) bool {
	for cur := c; cur != nil; cur = cur.Extends {
		if cur.Name == name {
			return true
		}
	}
	return false
}

// ImplementsInterface reports whether c implements (directly or via a
// superclass) an interface named name.
func (c *Class) ImplementsInterface(name string) bool {
	for cur := c; cur != nil; cur = cur.Extends {
		for _, iface := range cur.Implements {
			if interfaceExtends(iface, name) {
				return true
			}
		}
	}
	return false
}

func interfaceExtends(i *Interface, name string) bool {
	if i.Name == name {
		return true
	}
	for _, e := range i.Extends {
		if interfaceExtends(e, name) {
			return true
		}
	}
	return false
}
