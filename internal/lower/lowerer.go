// Package lower turns a checked ast.Module into an ir.Module: a
// single-function-at-a-time walk that threads a current basic block
// through statement lowering and leaves expression lowering to return
// the ir.Value holding its result.
package lower

import (
	"github.com/zacostudio/zaco-compiler/internal/ast"
	"github.com/zacostudio/zaco-compiler/internal/ir"
)

// Lowerer holds the per-module state threaded through one compilation
// unit's lowering pass.
type Lowerer struct {
	mod *ir.Module

	fn   *ir.Function
	cur  *ir.BasicBlock
	vars map[string]ir.Value

	// curIsAsync mirrors the checker's curIsAsync: when set, a
	// ReturnStmt in the function currently being lowered wraps its
	// value in a promise before returning it.
	curIsAsync bool

	// varKinds tracks each local's primitive IR kind from its
	// declaration site, letting exprKind resolve a bare identifier
	// without a checker-computed type attached to the AST.
	varKinds map[string]ir.TypeKind

	// importedBindings maps a local import alias to the qualified
	// extern symbol it resolved to, populated by lowerImport.
	importedBindings map[string]string

	// varClasses tracks each local's known static class name (from a
	// typed parameter, `this`, or a `new`-initialized let binding) so
	// field and vtable lookups resolve against the receiver's actual
	// class instead of guessing.
	varClasses map[string]string

	// breakTargets/continueTargets form the enclosing-loop stack so
	// break/continue know which block to jump to; switch pushes only
	// a break target.
	breakTargets    []int
	continueTargets []int

	classes map[string]*classInfo
}

type classInfo struct {
	structID   int
	fieldIndex map[string]int
	methodSlot map[string]int
	// fieldClass maps a field name to its declared class-typed
	// annotation's class name, when the field holds another class
	// instance, so member-chain resolution can follow it.
	fieldClass map[string]string
	extends    *classInfo
}

// classNameForTypeAnn reports the class name a type annotation refers
// to, if it's a bare type reference naming a declared class (as
// opposed to a primitive, array, or other structural type).
func classNameForTypeAnn(t ast.TypeAnn) (string, bool) {
	ref, ok := t.(*ast.TypeRefTypeAnn)
	if !ok {
		return "", false
	}
	return ref.Name, true
}

// New creates a Lowerer that will populate a fresh ir.Module named name.
func New(name string) *Lowerer {
	return &Lowerer{
		mod:              ir.NewModule(name),
		classes:          map[string]*classInfo{},
		varKinds:         map[string]ir.TypeKind{},
		varClasses:       map[string]string{},
		importedBindings: map[string]string{},
	}
}

// Module lowers every top-level statement of m and returns the
// resulting ir.Module. Lowering assumes m has already passed checking
// with no errors.
func (l *Lowerer) Module(m *ast.Module) *ir.Module {
	// Pass 1: register class struct layouts so forward references
	// between classes (and methods referencing later-declared types)
	// resolve.
	for _, stmt := range m.Stmts {
		if cd, ok := asClassDecl(stmt); ok {
			l.declareClass(cd)
		}
	}
	for _, stmt := range m.Stmts {
		if cd, ok := asClassDecl(stmt); ok {
			l.lowerClassBody(cd)
		}
	}

	for _, stmt := range m.Stmts {
		switch s := stmt.(type) {
		case *ast.FuncDecl:
			l.lowerFuncDecl(s)
		case *ast.ImportDecl:
			l.lowerImport(s)
		case *ast.ClassDecl, *ast.InterfaceDecl:
			// handled above / structurally only
		default:
			// Top-level executable statements belong to the module's
			// synthesized init function; entry-module wiring happens
			// in the linker.
			l.lowerTopLevelStmt(stmt)
		}
	}
	if l.fn != nil && l.fn.Name == initFuncName && !l.cur.Terminated() {
		l.emit(ir.Instr{Op: ir.OpReturn})
	}
	return l.mod
}

func asClassDecl(s ast.Stmt) (*ast.ClassDecl, bool) {
	cd, ok := s.(*ast.ClassDecl)
	return cd, ok
}

var initFuncName = "__module_init"

// lowerTopLevelStmt lowers a top-level statement into this module's
// init function, creating it lazily on first use.
func (l *Lowerer) lowerTopLevelStmt(s ast.Stmt) {
	if l.fn == nil || l.fn.Name != initFuncName {
		l.fn = l.mod.NewFunc(initFuncName)
		l.fn.Return = ir.Void()
		l.cur = l.fn.NewBlock()
		l.vars = map[string]ir.Value{}
		l.varKinds = map[string]ir.TypeKind{}
		l.varClasses = map[string]string{}
	}
	l.lowerStmt(s)
}

func (l *Lowerer) lowerFuncDecl(d *ast.FuncDecl) {
	fn := l.mod.NewFunc(d.Name)
	fn.IsPublic = d.Exported
	fn.Return = lowerAsyncReturnType(d.Return, d.IsAsync)
	for _, p := range d.Params {
		fn.Params = append(fn.Params, lowerTypeAnn(p.Type))
	}

	prevFn, prevCur, prevVars, prevAsync := l.fn, l.cur, l.vars, l.curIsAsync
	prevVarKinds, prevVarClasses := l.varKinds, l.varClasses
	l.fn = fn
	l.cur = fn.NewBlock()
	l.vars = map[string]ir.Value{}
	l.varKinds = map[string]ir.TypeKind{}
	l.varClasses = map[string]string{}
	l.curIsAsync = d.IsAsync

	for i, p := range d.Params {
		reg := fn.NewReg()
		l.vars[p.Name] = reg
		l.varKinds[p.Name] = lowerTypeAnn(p.Type).Kind
		if cn, ok := classNameForTypeAnn(p.Type); ok {
			l.varClasses[p.Name] = cn
		}
		_ = i
	}
	for _, s := range d.Body {
		l.lowerStmt(s)
	}
	if !l.cur.Terminated() {
		l.emit(ir.Instr{Op: ir.OpReturn})
	}

	l.fn, l.cur, l.vars, l.curIsAsync = prevFn, prevCur, prevVars, prevAsync
	l.varKinds, l.varClasses = prevVarKinds, prevVarClasses
}

func lowerReturnType(t ast.TypeAnn) ir.Type {
	if t == nil {
		return ir.Void()
	}
	return lowerTypeAnn(t)
}

// lowerAsyncReturnType lowers a function's declared return type,
// wrapping it in a promise if the function is async and its
// annotation isn't already a Promise<T>.
func lowerAsyncReturnType(t ast.TypeAnn, isAsync bool) ir.Type {
	if !isAsync {
		return lowerReturnType(t)
	}
	if _, ok := t.(*ast.PromiseTypeAnn); ok {
		return lowerReturnType(t)
	}
	return ir.PromiseOf(lowerReturnType(t))
}

// lowerTypeAnn maps a surface type annotation onto its IR
// representation; unions and structural object types erase to a
// pointer (their checked identity lives only in typesys, not in IR).
func lowerTypeAnn(t ast.TypeAnn) ir.Type {
	switch a := t.(type) {
	case *ast.PrimitiveTypeAnn:
		switch a.Kind {
		case ast.KindNumber:
			return ir.F64()
		case ast.KindString:
			return ir.Str()
		case ast.KindBoolean:
			return ir.Bool()
		case ast.KindVoid, ast.KindUndefined, ast.KindNull, ast.KindNever:
			return ir.Void()
		default:
			return ir.Ptr()
		}
	case *ast.PromiseTypeAnn:
		return ir.PromiseOf(lowerTypeAnn(a.Elem))
	case *ast.ArrayTypeAnn:
		return ir.Ptr()
	default:
		return ir.Ptr()
	}
}

func (l *Lowerer) emit(i ir.Instr) {
	l.cur.Instrs = append(l.cur.Instrs, i)
}

func (l *Lowerer) newBlockJumpingFrom(from *ir.BasicBlock) *ir.BasicBlock {
	b := l.fn.NewBlock()
	if !from.Terminated() {
		from.Instrs = append(from.Instrs, ir.Instr{Op: ir.OpBranch, ThenBlock: b.ID})
	}
	return b
}
