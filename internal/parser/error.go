// Package parser implements a recursive-descent, Pratt-expression parser
// that turns a token stream into the surface ast.Module. It exists to
// give the checker, lowerer, and linker real input to exercise; it is
// deliberately small next to those packages.
package parser

import "github.com/zacostudio/zaco-compiler/internal/ast"

// Error is a syntactic diagnostic (code E1000).
type Error struct {
	Span    ast.Span
	Message string
}
