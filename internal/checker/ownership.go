package checker

import (
	"github.com/zacostudio/zaco-compiler/internal/ast"
	"github.com/zacostudio/zaco-compiler/internal/typesys"
)

// consumeMove marks the binding referenced by a bare identifier
// expression as moved, once it has been passed or assigned by
// ownership transfer. Any other expression shape (a literal, a call
// result, a member access) produces a fresh value with no binding to
// mark, so it is left alone. A borrowed or const binding is reported
// rather than marked, since moving through a borrow is never valid and
// moving a const would make it unusable where source order still
// implies it is live.
func (c *Checker) consumeMove(x ast.Expr, scope *Scope) {
	id, ok := x.(*ast.IdentExpr)
	if !ok {
		return
	}
	b, found := scope.Lookup(id.Name)
	if !found {
		return
	}
	if b.Mode != typesys.Owned {
		c.ownershipErrorf(id.Sp, EMoveBorrowed, "cannot move out of borrowed binding %q", id.Name)
		return
	}
	if b.State == Moved {
		c.ownershipErrorf(id.Sp, EUseAfterMove, "%q was already moved", id.Name)
		return
	}
	b.State = Moved
}
