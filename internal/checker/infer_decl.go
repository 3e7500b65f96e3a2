package checker

import (
	"github.com/zacostudio/zaco-compiler/internal/ast"
	"github.com/zacostudio/zaco-compiler/internal/typesys"
)

// checkFuncDecl checks a top-level or nested function declaration's
// body in a fresh child scope seeded with its parameters, tracking the
// declared return type so return statements can be validated.
func (c *Checker) checkFuncDecl(d *ast.FuncDecl, scope *Scope) {
	savedTypeParams := c.typeParams
	c.typeParams = typeParamSet(d.TypeParams)

	fnType := c.funcType(d.Params, d.Return)
	scope.Declare(&Binding{Name: d.Name, Type: fnType, State: Live})

	inner := scope.Child()
	for i, p := range d.Params {
		inner.Declare(&Binding{
			Name: p.Name, Type: fnType.Params[i].Type,
			Mode: resolveMode(p.Mode), State: Live,
		})
	}

	savedReturn, savedAsync := c.curReturn, c.curIsAsync
	c.curReturn, c.curIsAsync = declaredReturn(fnType.Return, d.IsAsync), d.IsAsync
	c.checkStmts(d.Body, inner.Child())
	c.curReturn, c.curIsAsync = savedReturn, savedAsync
	c.typeParams = savedTypeParams
}

// declaredReturn unwraps a Promise<T> return annotation to T for
// matching bare `return expr` statements in an async function body,
// mirroring how the source language lets async functions return their
// resolved value directly rather than a Promise literal.
func declaredReturn(ret typesys.Type, isAsync bool) typesys.Type {
	if !isAsync {
		return ret
	}
	if p, ok := ret.(*typesys.Promise); ok {
		return p.Elem
	}
	return ret
}

// checkClassMethods checks every method body of a class declaration,
// seeding `this` with the class's own resolved type.
func (c *Checker) checkClassMethods(d *ast.ClassDecl, scope *Scope) {
	cls, ok := c.classes[d.Name]
	if !ok {
		return
	}
	scope.Declare(&Binding{Name: d.Name, Type: cls, State: Live})

	savedTypeParams := c.typeParams
	c.typeParams = typeParamSet(cls.TypeParams)

	for _, f := range d.Fields {
		if f.Init != nil {
			c.checkExpr(f.Init, scope)
		}
	}
	for _, m := range d.Methods {
		c.checkMethod(m, cls, scope)
	}

	c.typeParams = savedTypeParams
}

func (c *Checker) checkMethod(m ast.Method, cls *typesys.Class, scope *Scope) {
	inner := scope.Child()
	inner.Declare(&Binding{Name: "this", Type: cls, State: Live})

	params := make([]typesys.Param, len(m.Params))
	for i, p := range m.Params {
		t := c.resolveTypeAnn(p.Type)
		params[i] = typesys.Param{Mode: resolveMode(p.Mode), Type: t}
		inner.Declare(&Binding{Name: p.Name, Type: t, Mode: resolveMode(p.Mode), State: Live})
	}

	savedReturn, savedAsync := c.curReturn, c.curIsAsync
	if m.Name == "constructor" {
		c.curReturn = typesys.Void
	} else {
		c.curReturn = declaredReturn(c.resolveTypeAnn(m.Return), m.IsAsync)
	}
	c.curIsAsync = m.IsAsync

	if m.IsOverride {
		c.checkOverride(m, cls)
	}

	c.checkStmts(m.Body, inner.Child())
	c.curReturn, c.curIsAsync = savedReturn, savedAsync
}

// checkOverride verifies a method marked `override` actually overrides
// a same-named member on a superclass, and that its signature is
// compatible (contravariant params, covariant return) per the
// assignability relation.
func (c *Checker) checkOverride(m ast.Method, cls *typesys.Class) {
	if cls.Extends == nil {
		c.typeErrorf(ast.Span{}, ETypeMismatch, "method %q is marked override but %q has no superclass", m.Name, cls.Name)
		return
	}
	super, ok := cls.Extends.Lookup(m.Name)
	if !ok {
		c.typeErrorf(ast.Span{}, ENoMember, "method %q is marked override but no superclass member matches", m.Name)
		return
	}
	mine := c.funcType(m.Params, m.Return)
	if !typesys.AssignableTo(mine, super.Type) {
		c.typeErrorf(ast.Span{}, ETypeMismatch, "method %q's signature %s is not compatible with overridden member's %s", m.Name, mine, super.Type)
	}
}
