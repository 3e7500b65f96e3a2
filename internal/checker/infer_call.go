package checker

import (
	"github.com/zacostudio/zaco-compiler/internal/ast"
	"github.com/zacostudio/zaco-compiler/internal/typesys"
)

// checkCall type-checks a call expression: the callee must resolve to
// a Function type (or Any, which short-circuits further checking),
// argument count and ownership-mode-compatible assignability are
// checked per parameter, and owned-mode arguments are consumed by the
// ownership analyzer the same way a move assignment would be.
func (c *Checker) checkCall(e *ast.CallExpr, scope *Scope) typesys.Type {
	calleeType := c.checkCallee(e.Callee, scope)
	fn, ok := calleeType.(*typesys.Function)
	if !ok {
		if calleeType != typesys.Any {
			c.typeErrorf(e.Callee.Span(), ENotCallable, "%s is not callable", calleeType)
		}
		for _, a := range e.Args {
			c.checkExpr(a.Value, scope)
		}
		return typesys.Any
	}

	if len(e.Args) != len(fn.Params) {
		c.typeErrorf(e.Span(), EArgCount, "expected %d argument(s), got %d", len(fn.Params), len(e.Args))
	}
	for i, a := range e.Args {
		argType := c.checkExpr(a.Value, scope)
		if i < len(fn.Params) {
			want := fn.Params[i]
			if !typesys.AssignableTo(argType, want.Type) {
				c.typeErrorf(a.Value.Span(), ETypeMismatch, "argument %d: cannot pass %s where %s is expected", i+1, argType, want.Type)
			}
			c.checkArgMode(a, want.Mode, scope)
		}
		if a.Mode == ast.ArgMove {
			c.consumeMove(a.Value, scope)
		}
	}
	return fn.Return
}

// checkArgMode flags an argument whose call-site ownership prefix
// (bare move, `ref`, `mut ref`, `clone`) disagrees with the parameter's
// declared mode.
func (c *Checker) checkArgMode(a ast.Arg, want typesys.OwnershipMode, scope *Scope) {
	switch want {
	case typesys.RefMode:
		if a.Mode != ast.ArgBorrow && a.Mode != ast.ArgMutBorrow {
			c.ownershipErrorf(a.Value.Span(), EMoveBorrowed, "parameter expects `ref`, argument passed by %s", argModeName(a.Mode))
		}
	case typesys.MutRefMode:
		if a.Mode != ast.ArgMutBorrow {
			c.ownershipErrorf(a.Value.Span(), EMoveBorrowed, "parameter expects `mut ref`, argument passed by %s", argModeName(a.Mode))
		}
	default:
		if a.Mode == ast.ArgBorrow || a.Mode == ast.ArgMutBorrow {
			c.ownershipErrorf(a.Value.Span(), EMoveBorrowed, "parameter expects ownership, argument passed by ref")
		}
	}
}

func argModeName(m ast.ArgMode) string {
	switch m {
	case ast.ArgBorrow:
		return "ref"
	case ast.ArgMutBorrow:
		return "mut ref"
	case ast.ArgClone:
		return "clone"
	default:
		return "move"
	}
}

// checkCallee checks the callee expression. A bare identifier callee
// is looked up without triggering a move (calling a function value
// does not consume it).
func (c *Checker) checkCallee(x ast.Expr, scope *Scope) typesys.Type {
	return c.checkExpr(x, scope)
}

func (c *Checker) checkNew(e *ast.NewExpr, scope *Scope) typesys.Type {
	name, ok := calleeClassName(e.Callee)
	if !ok {
		c.checkExpr(e.Callee, scope)
		return typesys.Any
	}
	cls, found := c.classes[name]
	if !found {
		c.typeErrorf(e.Span(), EUnknownType, "unknown class %q", name)
		return typesys.Any
	}
	for _, a := range e.Args {
		c.checkExpr(a.Value, scope)
		if a.Mode == ast.ArgMove {
			c.consumeMove(a.Value, scope)
		}
	}
	return cls
}

func calleeClassName(x ast.Expr) (string, bool) {
	switch e := x.(type) {
	case *ast.IdentExpr:
		return e.Name, true
	case *ast.MemberExpr:
		return e.Name, true
	default:
		return "", false
	}
}
