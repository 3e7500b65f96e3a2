package ast

// TypeAnn is a type annotation as written in source, before resolution.
// The checker turns these into typesys.Type values.
type TypeAnn interface {
	Node
	typeAnnNode()
}

// PrimitiveKind enumerates the built-in primitive spellings.
type PrimitiveKind int

const (
	KindNumber PrimitiveKind = iota
	KindString
	KindBoolean
	KindVoid
	KindNull
	KindUndefined
	KindNever
	KindAny
	KindUnknown
)

var primitiveNames = map[PrimitiveKind]string{
	KindNumber: "number", KindString: "string", KindBoolean: "boolean",
	KindVoid: "void", KindNull: "null", KindUndefined: "undefined",
	KindNever: "never", KindAny: "any", KindUnknown: "unknown",
}

func (k PrimitiveKind) String() string { return primitiveNames[k] }

// PrimitiveTypeAnn is one of the nine built-in primitive spellings.
type PrimitiveTypeAnn struct {
	Kind PrimitiveKind
	Sp   Span
}

func (t *PrimitiveTypeAnn) Span() Span      { return t.Sp }
func (t *PrimitiveTypeAnn) String() string  { return t.Kind.String() }
func (t *PrimitiveTypeAnn) typeAnnNode()    {}

// TypeRefTypeAnn is an unresolved symbolic reference, e.g. `Foo` or
// `Foo<Bar>`. Resolution happens in the checker's type environment.
type TypeRefTypeAnn struct {
	Name     string
	TypeArgs []TypeAnn
	Sp       Span
}

func (t *TypeRefTypeAnn) Span() Span     { return t.Sp }
func (t *TypeRefTypeAnn) String() string { return t.Name }
func (t *TypeRefTypeAnn) typeAnnNode()   {}

// FuncParamAnn is one parameter of a FunctionTypeAnn, carrying its
// ownership mode as part of the type.
type FuncParamAnn struct {
	Mode OwnershipMode
	Type TypeAnn
}

// FunctionTypeAnn is a function type `(a: T, ...) => R`.
type FunctionTypeAnn struct {
	Params []FuncParamAnn
	Return TypeAnn
	Sp     Span
}

func (t *FunctionTypeAnn) Span() Span     { return t.Sp }
func (t *FunctionTypeAnn) String() string { return "function" }
func (t *FunctionTypeAnn) typeAnnNode()   {}

// PromiseTypeAnn is `Promise<T>`, the canonical async wrapper.
type PromiseTypeAnn struct {
	Elem TypeAnn
	Sp   Span
}

func (t *PromiseTypeAnn) Span() Span     { return t.Sp }
func (t *PromiseTypeAnn) String() string { return "Promise<...>" }
func (t *PromiseTypeAnn) typeAnnNode()   {}

// UnionTypeAnn is `T1 | T2 | ...`.
type UnionTypeAnn struct {
	Members []TypeAnn
	Sp      Span
}

func (t *UnionTypeAnn) Span() Span     { return t.Sp }
func (t *UnionTypeAnn) String() string { return "union" }
func (t *UnionTypeAnn) typeAnnNode()   {}

// ArrayTypeAnn is `T[]`.
type ArrayTypeAnn struct {
	Elem TypeAnn
	Sp   Span
}

func (t *ArrayTypeAnn) Span() Span     { return t.Sp }
func (t *ArrayTypeAnn) String() string { return "array" }
func (t *ArrayTypeAnn) typeAnnNode()   {}

// ObjectFieldAnn is one field of an ObjectTypeAnn literal type.
type ObjectFieldAnn struct {
	Name     string
	Type     TypeAnn
	Optional bool
}

// ObjectTypeAnn is `{ a: T, b?: U }`.
type ObjectTypeAnn struct {
	Fields []ObjectFieldAnn
	Sp     Span
}

func (t *ObjectTypeAnn) Span() Span     { return t.Sp }
func (t *ObjectTypeAnn) String() string { return "object" }
func (t *ObjectTypeAnn) typeAnnNode()   {}
