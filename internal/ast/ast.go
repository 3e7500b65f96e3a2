package ast

// Node is the base interface every AST node satisfies.
type Node interface {
	Span() Span
	String() string
}

// Expr is any node that produces a value.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any node that performs an action.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is a declaration: something that introduces a name into a scope.
// Every Decl is also a Stmt so it can appear in a statement list.
type Decl interface {
	Stmt
	declNode()
}

// Module is the root node of one parsed source file.
type Module struct {
	Source *Source
	Stmts  []Stmt
}

func (m *Module) Span() Span {
	if len(m.Stmts) == 0 {
		return Span{SourceID: m.Source.ID}
	}
	return MergeSpans(m.Stmts[0].Span(), m.Stmts[len(m.Stmts)-1].Span())
}
func (m *Module) String() string { return "<module " + m.Source.Path + ">" }

// Ident is a bare identifier used as an expression, pattern, or name.
type Ident struct {
	Name string
	Sp   Span
}

func (i *Ident) Span() Span    { return i.Sp }
func (i *Ident) String() string { return i.Name }
func (i *Ident) exprNode()      {}
