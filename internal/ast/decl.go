package ast

// FuncDecl is a top-level or class-method function declaration.
type FuncDecl struct {
	BaseStmt
	Name       string
	TypeParams []string
	Params     []Param
	Return     TypeAnn
	Body       []Stmt
	IsAsync    bool
	Exported   bool // set when prefixed with `export`
}

func (d *FuncDecl) declNode()      {}
func (d *FuncDecl) String() string { return "<func-decl " + d.Name + ">" }

// Field is one class field declaration.
type Field struct {
	Name       string
	Mode       OwnershipMode
	Type       TypeAnn
	Init       Expr // nil if absent
}

// Method is one class method (constructors use the reserved name
// "constructor"; lowering renames each to `<ClassName>_<method>`).
type Method struct {
	Name       string
	Params     []Param
	Return     TypeAnn
	Body       []Stmt
	IsAsync    bool
	IsOverride bool
}

// ClassDecl is a class declaration with single inheritance
// (`extends`) and any number of interfaces (`implements`).
type ClassDecl struct {
	BaseStmt
	Name       string
	TypeParams []string // generic type parameter names
	Extends    string    // "" if none
	Implements []string
	Fields     []Field
	Methods    []Method
	Exported   bool
}

func (d *ClassDecl) declNode()      {}
func (d *ClassDecl) String() string { return "<class-decl " + d.Name + ">" }

// InterfaceMethod is one method signature in an InterfaceDecl.
type InterfaceMethod struct {
	Name   string
	Params []Param
	Return TypeAnn
}

// InterfaceDecl declares a structural contract a class may implement.
type InterfaceDecl struct {
	BaseStmt
	Name     string
	Extends  []string
	Methods  []InterfaceMethod
	Exported bool
}

func (d *InterfaceDecl) declNode()      {}
func (d *InterfaceDecl) String() string { return "<interface-decl " + d.Name + ">" }

// ImportSpecKind distinguishes the three import forms.
type ImportSpecKind int

const (
	ImportNamed ImportSpecKind = iota
	ImportDefault
	ImportNamespace
)

// ImportSpec is one imported binding.
type ImportSpec struct {
	Kind  ImportSpecKind
	Local string // the name bound locally
	Name  string // the exported name on the module (== Local for default/namespace)
}

// ImportDecl is `import { a, b } from "mod"` and its default/namespace
// variants.
type ImportDecl struct {
	BaseStmt
	Specs  []ImportSpec
	Module string
}

func (d *ImportDecl) declNode()      {}
func (d *ImportDecl) String() string { return "<import " + d.Module + ">" }

// DeclStmt lifts a Decl that also needs to appear in a statement
// position (used for local function/class declarations).
type DeclStmt struct {
	BaseStmt
	D Decl
}

func (s *DeclStmt) String() string { return s.D.String() }
