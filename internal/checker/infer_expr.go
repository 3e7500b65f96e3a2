package checker

import (
	"github.com/zacostudio/zaco-compiler/internal/ast"
	"github.com/zacostudio/zaco-compiler/internal/typesys"
)

// checkExpr type-checks x and returns its inferred type. It also
// drives the ownership analyzer for any sub-expression that consumes a
// binding (a bare identifier passed by move, or a second use of an
// already-moved binding).
func (c *Checker) checkExpr(x ast.Expr, scope *Scope) typesys.Type {
	switch e := x.(type) {
	case *ast.LitExpr:
		return c.checkLit(e)
	case *ast.TemplateExpr:
		for _, sub := range e.Exprs {
			c.checkExpr(sub, scope)
		}
		return typesys.String
	case *ast.IdentExpr:
		return c.checkIdent(e, scope)
	case *ast.BinaryExpr:
		return c.checkBinary(e, scope)
	case *ast.UnaryExpr:
		return c.checkUnary(e, scope)
	case *ast.TernaryExpr:
		cond := c.checkExpr(e.Cond, scope)
		if !typesys.AssignableTo(cond, typesys.Boolean) && cond != typesys.Any {
			c.typeErrorf(e.Cond.Span(), EBadCondition, "ternary condition must be boolean, got %s", cond)
		}
		then := c.checkExpr(e.Then, scope)
		els := c.checkExpr(e.Else, scope)
		if typesys.AssignableTo(els, then) {
			return then
		}
		return &typesys.Union{Members: []typesys.Type{then, els}}
	case *ast.AssignExpr:
		return c.checkAssign(e, scope)
	case *ast.CallExpr:
		return c.checkCall(e, scope)
	case *ast.NewExpr:
		return c.checkNew(e, scope)
	case *ast.MemberExpr:
		t, _ := c.checkMember(e, scope)
		return t
	case *ast.IndexExpr:
		return c.checkIndex(e, scope)
	case *ast.AwaitExpr:
		inner := c.checkExpr(e.Operand, scope)
		if !c.curIsAsync {
			c.typeErrorf(e.Span(), ENotCallable, "await used outside an async function")
		}
		if p, ok := inner.(*typesys.Promise); ok {
			return p.Elem
		}
		return inner
	case *ast.CloneExpr:
		return c.checkExpr(e.Operand, scope)
	case *ast.BorrowExpr:
		return c.checkExpr(e.Operand, scope)
	case *ast.CastExpr:
		c.checkExpr(e.Operand, scope)
		return c.resolveTypeAnn(e.Type)
	case *ast.ArrayLitExpr:
		return c.checkArrayLit(e, scope)
	case *ast.ObjectLitExpr:
		return c.checkObjectLit(e, scope)
	case *ast.FuncExpr:
		return c.checkFuncExpr(e, scope)
	case *ast.Ident:
		b, ok := scope.Lookup(e.Name)
		if !ok {
			c.typeErrorf(e.Sp, EUnknownName, "undefined name %q", e.Name)
			return typesys.Any
		}
		return b.Type
	default:
		return typesys.Any
	}
}

func (c *Checker) checkLit(e *ast.LitExpr) typesys.Type {
	switch e.Kind {
	case ast.LitNumber:
		return typesys.Number
	case ast.LitString:
		return typesys.String
	case ast.LitBoolean:
		return typesys.Boolean
	case ast.LitNull:
		return typesys.Null
	default:
		return typesys.Undefined
	}
}

func (c *Checker) checkIdent(e *ast.IdentExpr, scope *Scope) typesys.Type {
	b, ok := scope.Lookup(e.Name)
	if !ok {
		c.typeErrorf(e.Sp, EUnknownName, "undefined name %q", e.Name)
		return typesys.Any
	}
	b.Used = true
	if b.Mode == typesys.Owned && b.State == Moved {
		c.ownershipErrorf(e.Sp, EUseAfterMove, "use of %q after it was moved", e.Name)
	}
	return b.Type
}

func (c *Checker) checkBinary(e *ast.BinaryExpr, scope *Scope) typesys.Type {
	lhs := c.checkExpr(e.Left, scope)
	rhs := c.checkExpr(e.Right, scope)
	switch e.Op {
	case ast.Eq, ast.NotEq, ast.Lt, ast.Gt, ast.LtEq, ast.GtEq:
		return typesys.Boolean
	case ast.LogAnd, ast.LogOr:
		return &typesys.Union{Members: []typesys.Type{lhs, rhs}}
	case ast.NullishCoalesce:
		return &typesys.Union{Members: []typesys.Type{lhs, rhs}}
	case ast.Add:
		if lhs == typesys.String || rhs == typesys.String {
			return typesys.String
		}
		return typesys.Number
	default:
		if lhs != typesys.Any && !typesys.AssignableTo(lhs, typesys.Number) {
			c.typeErrorf(e.Left.Span(), ETypeMismatch, "arithmetic operand must be a number, got %s", lhs)
		}
		if rhs != typesys.Any && !typesys.AssignableTo(rhs, typesys.Number) {
			c.typeErrorf(e.Right.Span(), ETypeMismatch, "arithmetic operand must be a number, got %s", rhs)
		}
		return typesys.Number
	}
}

func (c *Checker) checkUnary(e *ast.UnaryExpr, scope *Scope) typesys.Type {
	t := c.checkExpr(e.Operand, scope)
	switch e.Op {
	case ast.Not:
		return typesys.Boolean
	case ast.TypeOf:
		return typesys.String
	default:
		if t != typesys.Any && !typesys.AssignableTo(t, typesys.Number) {
			c.typeErrorf(e.Operand.Span(), ETypeMismatch, "unary minus operand must be a number, got %s", t)
		}
		return typesys.Number
	}
}

func (c *Checker) checkAssign(e *ast.AssignExpr, scope *Scope) typesys.Type {
	rhs := c.checkExpr(e.Value, scope)
	if id, ok := e.Target.(*ast.IdentExpr); ok {
		b, found := scope.Lookup(id.Name)
		if !found {
			c.typeErrorf(id.Sp, EUnknownName, "undefined name %q", id.Name)
			return rhs
		}
		if b.Const {
			c.ownershipErrorf(e.Span(), EAssignConst, "cannot assign to %q, it is declared const", id.Name)
		}
		if b.Mode != typesys.Owned {
			c.ownershipErrorf(e.Span(), EMutateImmutable, "cannot assign through a non-mutable borrow %q", id.Name)
		}
		if !typesys.AssignableTo(rhs, b.Type) {
			c.typeErrorf(e.Span(), ETypeMismatch, "cannot assign %s to %q of type %s", rhs, id.Name, b.Type)
		}
		b.State = Live
		return b.Type
	}
	c.checkExpr(e.Target, scope)
	return rhs
}

func (c *Checker) checkArrayLit(e *ast.ArrayLitExpr, scope *Scope) typesys.Type {
	if len(e.Elems) == 0 {
		return &typesys.Array{Elem: typesys.Any}
	}
	elem := c.checkExpr(e.Elems[0], scope)
	for _, sub := range e.Elems[1:] {
		t := c.checkExpr(sub, scope)
		if !typesys.AssignableTo(t, elem) {
			elem = &typesys.Union{Members: []typesys.Type{elem, t}}
		}
	}
	return &typesys.Array{Elem: elem}
}

func (c *Checker) checkObjectLit(e *ast.ObjectLitExpr, scope *Scope) typesys.Type {
	fields := make([]typesys.ObjectField, len(e.Fields))
	for i, f := range e.Fields {
		fields[i] = typesys.ObjectField{Name: f.Key, Type: c.checkExpr(f.Value, scope)}
	}
	return &typesys.Object{Fields: fields}
}

func (c *Checker) checkFuncExpr(e *ast.FuncExpr, scope *Scope) typesys.Type {
	params := make([]typesys.Param, len(e.Params))
	inner := scope.Child()
	for i, p := range e.Params {
		t := c.resolveTypeAnn(p.Type)
		params[i] = typesys.Param{Mode: resolveMode(p.Mode), Type: t}
		inner.Declare(&Binding{Name: p.Name, Type: t, Mode: resolveMode(p.Mode), State: Live})
	}
	ret := c.resolveTypeAnn(e.Return)

	savedReturn, savedAsync := c.curReturn, c.curIsAsync
	c.curReturn, c.curIsAsync = declaredReturn(ret, e.IsAsync), e.IsAsync
	for _, st := range e.Body {
		c.checkStmt(st, inner)
	}
	c.curReturn, c.curIsAsync = savedReturn, savedAsync

	fnType := &typesys.Function{Params: params, Return: ret}
	if e.IsAsync {
		return &typesys.Function{Params: params, Return: &typesys.Promise{Elem: ret}}
	}
	return fnType
}

// checkMember resolves `e.Obj.e.Name`'s static type and, for a class
// instance, reports whether the member exists at all (the bool return
// lets call-checking distinguish "no such method" from "not callable").
func (c *Checker) checkMember(e *ast.MemberExpr, scope *Scope) (typesys.Type, bool) {
	objType := c.checkExpr(e.Obj, scope)
	switch t := objType.(type) {
	case *typesys.Class:
		if m, ok := t.Lookup(e.Name); ok {
			return m.Type, true
		}
		c.typeErrorf(e.Span(), ENoMember, "%s has no member %q", t.Name, e.Name)
		return typesys.Any, false
	case *typesys.Interface:
		if m, ok := t.Lookup(e.Name); ok {
			return m.Type, true
		}
		c.typeErrorf(e.Span(), ENoMember, "%s has no member %q", t.Name, e.Name)
		return typesys.Any, false
	case *typesys.Object:
		for _, f := range t.Fields {
			if f.Name == e.Name {
				return f.Type, true
			}
		}
		if e.Optional {
			return typesys.Undefined, true
		}
		c.typeErrorf(e.Span(), ENoMember, "object type %s has no field %q", t, e.Name)
		return typesys.Any, false
	case *typesys.Array:
		if e.Name == "length" {
			return typesys.Number, true
		}
		return typesys.Any, true
	default:
		return typesys.Any, true
	}
}

func (c *Checker) checkIndex(e *ast.IndexExpr, scope *Scope) typesys.Type {
	objType := c.checkExpr(e.Obj, scope)
	idxType := c.checkExpr(e.Index, scope)
	if a, ok := objType.(*typesys.Array); ok {
		if !typesys.AssignableTo(idxType, typesys.Number) {
			c.typeErrorf(e.Index.Span(), ETypeMismatch, "array index must be a number, got %s", idxType)
		}
		return a.Elem
	}
	if objType != typesys.Any {
		c.typeErrorf(e.Obj.Span(), ENotIterable, "cannot index into %s", objType)
	}
	return typesys.Any
}
