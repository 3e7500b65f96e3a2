package checker

import (
	"github.com/zacostudio/zaco-compiler/internal/ast"
	"github.com/zacostudio/zaco-compiler/internal/typesys"
)

// checkStmt type- and ownership-checks one statement in scope,
// declaring any bindings it introduces into scope (not a child of it,
// since block scoping is the caller's job via BlockStmt).
func (c *Checker) checkStmt(st ast.Stmt, scope *Scope) {
	switch s := st.(type) {
	case *ast.VarDeclStmt:
		c.checkVarDecl(s, scope)
	case *ast.ExprStmt:
		c.checkExpr(s.X, scope)
	case *ast.BlockStmt:
		c.checkStmts(s.Stmts, scope.Child())
	case *ast.IfStmt:
		cond := c.checkExpr(s.Cond, scope)
		if !typesys.AssignableTo(cond, typesys.Boolean) && cond != typesys.Any {
			c.typeErrorf(s.Cond.Span(), EBadCondition, "if condition must be boolean, got %s", cond)
		}
		c.checkStmt(s.Then, scope)
		if s.Else != nil {
			c.checkStmt(s.Else, scope)
		}
	case *ast.WhileStmt:
		cond := c.checkExpr(s.Cond, scope)
		if !typesys.AssignableTo(cond, typesys.Boolean) && cond != typesys.Any {
			c.typeErrorf(s.Cond.Span(), EBadCondition, "while condition must be boolean, got %s", cond)
		}
		c.loopDepth++
		c.checkStmt(s.Body, scope)
		c.loopDepth--
	case *ast.ForStmt:
		inner := scope.Child()
		if s.Init != nil {
			c.checkStmt(s.Init, inner)
		}
		if s.Cond != nil {
			c.checkExpr(s.Cond, inner)
		}
		if s.Step != nil {
			c.checkExpr(s.Step, inner)
		}
		c.loopDepth++
		c.checkStmt(s.Body, inner)
		c.loopDepth--
	case *ast.ForOfStmt:
		arr := c.checkExpr(s.Obj, scope)
		elemType := typesys.Type(typesys.Any)
		if a, ok := arr.(*typesys.Array); ok {
			elemType = a.Elem
		} else if arr != typesys.Any {
			c.typeErrorf(s.Obj.Span(), ENotIterable, "for-of target must be an array, got %s", arr)
		}
		inner := scope.Child()
		inner.Declare(&Binding{Name: s.Name, Type: elemType, State: Live})
		c.loopDepth++
		c.checkStmt(s.Body, inner)
		c.loopDepth--
	case *ast.ForInStmt:
		c.checkExpr(s.Obj, scope)
		inner := scope.Child()
		inner.Declare(&Binding{Name: s.Name, Type: typesys.String, State: Live})
		c.loopDepth++
		c.checkStmt(s.Body, inner)
		c.loopDepth--
	case *ast.SwitchStmt:
		c.checkExpr(s.Tag, scope)
		for _, cs := range s.Cases {
			if cs.Test != nil {
				c.checkExpr(cs.Test, scope)
			}
			inner := scope.Child()
			for _, sub := range cs.Body {
				c.checkStmt(sub, inner)
			}
		}
	case *ast.TryStmt:
		c.checkStmt(s.Body, scope)
		if s.Catch != nil {
			inner := scope.Child()
			if s.Catch.Name != "" {
				inner.Declare(&Binding{Name: s.Catch.Name, Type: typesys.Any, State: Live})
			}
			c.checkStmt(s.Catch.Body, inner)
		}
		if s.Finally != nil {
			c.checkStmt(s.Finally, scope)
		}
	case *ast.ThrowStmt:
		c.checkExpr(s.X, scope)
	case *ast.ReturnStmt:
		var got typesys.Type = typesys.Void
		if s.X != nil {
			got = c.checkExpr(s.X, scope)
		}
		if c.curReturn != nil && !typesys.AssignableTo(got, c.curReturn) {
			c.typeErrorf(s.Span(), ETypeMismatch, "return type %s is not assignable to declared return type %s", got, c.curReturn)
		}
	case *ast.BreakStmt:
		if c.loopDepth == 0 {
			c.typeErrorf(s.Span(), EUnreachable, "break used outside a loop or switch")
		}
	case *ast.ContinueStmt:
		if c.loopDepth == 0 {
			c.typeErrorf(s.Span(), EUnreachable, "continue used outside a loop")
		}
	case *ast.FuncDecl:
		c.checkFuncDecl(s, scope)
	case *ast.ClassDecl:
		c.checkClassMethods(s, scope)
	case *ast.InterfaceDecl:
		// Interface bodies carry no executable code to check.
	case *ast.ImportDecl:
		c.checkImport(s, scope)
	case *ast.DeclStmt:
		c.checkStmt(s.D, scope)
	}
}

func (c *Checker) checkVarDecl(s *ast.VarDeclStmt, scope *Scope) {
	declared := typesys.Type(nil)
	if s.Annotation != nil {
		declared = c.resolveTypeAnn(s.Annotation)
	}
	var initType typesys.Type = typesys.Any
	if s.Init != nil {
		initType = c.checkExpr(s.Init, scope)
		if s.Mode == ast.Owned {
			c.consumeMove(s.Init, scope)
		}
	}
	t := declared
	if t == nil {
		t = initType
	} else if s.Init != nil && !typesys.AssignableTo(initType, declared) {
		c.typeErrorf(s.Span(), ETypeMismatch, "cannot assign %s to %s declared as %s", initType, s.Name, declared)
	}

	b := &Binding{Name: s.Name, Type: t, Mode: resolveMode(s.Mode), State: Live, Const: s.Kind == ast.KindConst, Span: s.Span()}
	if _, dup := scope.Declare(b); dup {
		c.moduleErrorf(s.Span(), EDuplicateDecl, "%q is already declared in this scope", s.Name)
	}
}

// checkStmts checks a statement sequence directly in scope (the
// caller decides whether that's a fresh child or a reused function
// scope), flagging unreachable code after the first terminating
// statement and, once the sequence is done, any binding declared
// directly in scope that went unused. Shared between block statements
// and function/method bodies so both get the same liveness-derived
// warnings.
func (c *Checker) checkStmts(stmts []ast.Stmt, scope *Scope) {
	terminated, warned := false, false
	for _, sub := range stmts {
		if terminated && !warned {
			c.warnf(sub.Span(), EUnreachable, "unreachable code after return/throw/break/continue")
			warned = true
		}
		c.checkStmt(sub, scope)
		terminated = terminated || isTerminating(sub)
	}
	c.warnUnused(scope)
}

// isTerminating reports whether s unconditionally ends control flow,
// making any statement after it in the same block unreachable.
func isTerminating(s ast.Stmt) bool {
	switch s.(type) {
	case *ast.ReturnStmt, *ast.ThrowStmt, *ast.BreakStmt, *ast.ContinueStmt:
		return true
	default:
		return false
	}
}

func (c *Checker) checkImport(d *ast.ImportDecl, scope *Scope) {
	for _, spec := range d.Specs {
		scope.Declare(&Binding{Name: spec.Local, Type: typesys.Any, State: Live})
	}
}
