package lower

import (
	"github.com/zacostudio/zaco-compiler/internal/ast"
	"github.com/zacostudio/zaco-compiler/internal/ir"
)

func (l *Lowerer) lowerExpr(e ast.Expr) ir.Value {
	switch x := e.(type) {
	case *ast.LitExpr:
		return l.lowerLit(x)
	case *ast.IdentExpr:
		return l.lowerIdent(x)
	case *ast.TemplateExpr:
		return l.lowerTemplate(x)
	case *ast.BinaryExpr:
		return l.lowerBinary(x)
	case *ast.UnaryExpr:
		return l.lowerUnary(x)
	case *ast.TernaryExpr:
		return l.lowerTernary(x)
	case *ast.AssignExpr:
		return l.lowerAssign(x)
	case *ast.CallExpr:
		return l.lowerCall(x)
	case *ast.NewExpr:
		return l.lowerNew(x)
	case *ast.MemberExpr:
		return l.lowerMember(x)
	case *ast.IndexExpr:
		return l.lowerIndex(x)
	case *ast.AwaitExpr:
		return l.lowerAwait(x)
	case *ast.CloneExpr:
		return l.lowerClone(x)
	case *ast.BorrowExpr:
		return l.lowerExpr(x.Operand)
	case *ast.CastExpr:
		return l.lowerCast(x)
	case *ast.ArrayLitExpr:
		return l.lowerArrayLit(x)
	case *ast.ObjectLitExpr:
		return l.lowerObjectLit(x)
	case *ast.FuncExpr:
		return l.lowerFuncExpr(x)
	default:
		return l.fn.NewReg()
	}
}

// irTypeForKind maps an exprKind heuristic result to the IR type a
// join block param should carry.
func irTypeForKind(k ir.TypeKind) ir.Type {
	switch k {
	case ir.KStr:
		return ir.Str()
	case ir.KBool:
		return ir.Bool()
	default:
		return ir.F64()
	}
}

// exprKind best-effort infers an expression's primitive IR kind from
// its AST shape. The lowerer runs after checking has already resolved
// every expression's real type, but that result isn't threaded back
// onto the AST, so console-call monomorphization and template
// interpolation re-derive just enough of it here to pick the right
// runtime entry point.
func (l *Lowerer) exprKind(e ast.Expr) ir.TypeKind {
	switch x := e.(type) {
	case *ast.LitExpr:
		switch x.Kind {
		case ast.LitString:
			return ir.KStr
		case ast.LitBoolean:
			return ir.KBool
		default:
			return ir.KF64
		}
	case *ast.TemplateExpr:
		return ir.KStr
	case *ast.IdentExpr:
		if k, ok := l.varKinds[x.Name]; ok {
			return k
		}
		return ir.KF64
	case *ast.BinaryExpr:
		switch x.Op {
		case ast.Eq, ast.NotEq, ast.Lt, ast.Gt, ast.LtEq, ast.GtEq, ast.LogAnd, ast.LogOr:
			return ir.KBool
		case ast.Add:
			if l.exprKind(x.Left) == ir.KStr || l.exprKind(x.Right) == ir.KStr {
				return ir.KStr
			}
			return ir.KF64
		default:
			return ir.KF64
		}
	case *ast.UnaryExpr:
		switch x.Op {
		case ast.Not:
			return ir.KBool
		case ast.TypeOf:
			return ir.KStr
		default:
			return ir.KF64
		}
	case *ast.TernaryExpr:
		if k := l.exprKind(x.Then); k == l.exprKind(x.Else) {
			return k
		}
		return ir.KF64
	case *ast.CastExpr:
		return lowerTypeAnn(x.Type).Kind
	}
	return ir.KF64
}

func (l *Lowerer) lowerLit(x *ast.LitExpr) ir.Value {
	dest := l.fn.NewReg()
	switch x.Kind {
	case ast.LitNumber:
		l.emit(ir.Instr{Op: ir.OpConst, Dest: dest, ConstType: ir.F64(), ConstVal: ir.Value{IsConst: true, ConstF: x.Num}})
	case ast.LitString:
		l.emit(ir.Instr{Op: ir.OpConst, Dest: dest, ConstType: ir.Str(), ConstVal: ir.Value{IsConst: true, ConstS: x.Str}})
	case ast.LitBoolean:
		l.emit(ir.Instr{Op: ir.OpConst, Dest: dest, ConstType: ir.Bool(), ConstVal: ir.Value{IsConst: true, ConstB: x.Bool}})
	default:
		l.emit(ir.Instr{Op: ir.OpConst, Dest: dest, ConstType: ir.Ptr(), ConstVal: ir.Value{IsConst: true}})
	}
	return dest
}

func (l *Lowerer) lowerIdent(x *ast.IdentExpr) ir.Value {
	if v, ok := l.vars[x.Name]; ok {
		return v
	}
	if abiName, ok := l.importedBindings[x.Name]; ok {
		return ir.Value{IsConst: true, ConstS: abiName}
	}
	// Unresolved identifiers (builtins, forward function references)
	// lower to a symbolic placeholder; the linker resolves the name.
	return ir.Value{IsConst: true, ConstS: x.Name}
}

// lowerTemplate concatenates quasis and interpolated expressions left
// to right; a bare string is folded rather than emitting a trivial
// concat of one part.
func (l *Lowerer) lowerTemplate(x *ast.TemplateExpr) ir.Value {
	var parts []ir.Value
	for i, q := range x.Quasis {
		if q != "" {
			dest := l.fn.NewReg()
			l.emit(ir.Instr{Op: ir.OpConst, Dest: dest, ConstType: ir.Str(), ConstVal: ir.Value{IsConst: true, ConstS: q}})
			parts = append(parts, dest)
		}
		if i < len(x.Exprs) {
			v := l.lowerExpr(x.Exprs[i])
			if l.exprKind(x.Exprs[i]) == ir.KStr {
				parts = append(parts, v)
			} else {
				strVal := l.fn.NewReg()
				l.emit(ir.Instr{Op: ir.OpCall, Dest: strVal, Callee: "zaco_f64_to_str", Args: []ir.Value{v}})
				parts = append(parts, strVal)
			}
		}
	}
	if len(parts) == 1 {
		return parts[0]
	}
	dest := l.fn.NewReg()
	l.emit(ir.Instr{Op: ir.OpStrConcat, Dest: dest, Parts: parts})
	return dest
}

// lowerBinary gives && and || their two-branch, value-producing
// lowering rather than coercing both sides to bool: the unevaluated
// side is never touched, matching the surface language's
// short-circuit semantics for non-boolean operands.
func (l *Lowerer) lowerBinary(x *ast.BinaryExpr) ir.Value {
	switch x.Op {
	case ast.LogAnd:
		return l.lowerShortCircuit(x, true)
	case ast.LogOr:
		return l.lowerShortCircuit(x, false)
	case ast.NullishCoalesce:
		return l.lowerShortCircuit(x, false)
	}

	lhs := l.lowerExpr(x.Left)
	rhs := l.lowerExpr(x.Right)
	dest := l.fn.NewReg()
	op := binOpFor(x.Op)
	l.emit(ir.Instr{Op: ir.OpBinOp, Dest: dest, BinOp: op, LHS: lhs, RHS: rhs})
	return dest
}

func binOpFor(op ast.BinaryOp) ir.BinOp {
	switch op {
	case ast.Add:
		return ir.BAdd
	case ast.Sub:
		return ir.BSub
	case ast.Mul:
		return ir.BMul
	case ast.Div:
		return ir.BDiv
	case ast.Mod:
		return ir.BMod
	case ast.Eq:
		return ir.BEq
	case ast.NotEq:
		return ir.BNotEq
	case ast.Lt:
		return ir.BLt
	case ast.Gt:
		return ir.BGt
	case ast.LtEq:
		return ir.BLtEq
	case ast.GtEq:
		return ir.BGtEq
	default:
		return ir.BEq
	}
}

// lowerShortCircuit implements && (isAnd true) and || / ?? (isAnd
// false) as a branch that evaluates the right side only when needed,
// joining on a value-producing block rather than a boolean.
func (l *Lowerer) lowerShortCircuit(x *ast.BinaryExpr, isAnd bool) ir.Value {
	lhs := l.lowerExpr(x.Left)
	rhsBlock := l.fn.NewBlock()
	joinBlock := l.fn.NewBlockWithParams(ir.Bool())

	condBlock := l.cur
	if isAnd {
		condBlock.Instrs = append(condBlock.Instrs, ir.Instr{Op: ir.OpCBranch, Cond: lhs,
			ThenBlock: rhsBlock.ID, ElseBlock: joinBlock.ID, ElseArgs: []ir.Value{lhs}})
	} else {
		condBlock.Instrs = append(condBlock.Instrs, ir.Instr{Op: ir.OpCBranch, Cond: lhs,
			ThenBlock: joinBlock.ID, ElseBlock: rhsBlock.ID, ThenArgs: []ir.Value{lhs}})
	}

	l.cur = rhsBlock
	rhs := l.lowerExpr(x.Right)
	if !l.cur.Terminated() {
		l.emit(ir.Instr{Op: ir.OpBranch, ThenBlock: joinBlock.ID, ThenArgs: []ir.Value{rhs}})
	}

	l.cur = joinBlock
	return joinBlock.Params[0].Reg
}

func (l *Lowerer) lowerUnary(x *ast.UnaryExpr) ir.Value {
	v := l.lowerExpr(x.Operand)
	dest := l.fn.NewReg()
	var op ir.UnOp
	switch x.Op {
	case ast.Not:
		op = ir.UNot
	case ast.Neg:
		op = ir.UNeg
	case ast.TypeOf:
		l.emit(ir.Instr{Op: ir.OpCall, Dest: dest, Callee: "zaco_typeof", Args: []ir.Value{v}})
		return dest
	}
	l.emit(ir.Instr{Op: ir.OpUnOp, Dest: dest, UnOp: op, LHS: v})
	return dest
}

// lowerTernary joins on a block taking the selected side's value as a
// block parameter, the same join shape as an if/else producing a
// value.
func (l *Lowerer) lowerTernary(x *ast.TernaryExpr) ir.Value {
	cond := l.lowerExpr(x.Cond)
	thenBlock := l.fn.NewBlock()
	elseBlock := l.fn.NewBlock()
	condBlock := l.cur
	condBlock.Instrs = append(condBlock.Instrs, ir.Instr{Op: ir.OpCBranch, Cond: cond, ThenBlock: thenBlock.ID, ElseBlock: elseBlock.ID})

	l.cur = thenBlock
	thenVal := l.lowerExpr(x.Then)
	thenEnd := l.cur

	l.cur = elseBlock
	elseVal := l.lowerExpr(x.Else)
	elseEnd := l.cur

	joinBlock := l.fn.NewBlockWithParams(irTypeForKind(l.exprKind(x.Then)))
	if !thenEnd.Terminated() {
		thenEnd.Instrs = append(thenEnd.Instrs, ir.Instr{Op: ir.OpBranch, ThenBlock: joinBlock.ID, ThenArgs: []ir.Value{thenVal}})
	}
	if !elseEnd.Terminated() {
		elseEnd.Instrs = append(elseEnd.Instrs, ir.Instr{Op: ir.OpBranch, ThenBlock: joinBlock.ID, ThenArgs: []ir.Value{elseVal}})
	}
	l.cur = joinBlock
	return joinBlock.Params[0].Reg
}

func (l *Lowerer) lowerAssign(x *ast.AssignExpr) ir.Value {
	v := l.lowerExpr(x.Value)
	switch t := x.Target.(type) {
	case *ast.IdentExpr:
		if old, ok := l.vars[t.Name]; ok {
			l.emit(ir.Instr{Op: ir.OpRcDec, Target: old})
		}
		l.vars[t.Name] = v
	case *ast.MemberExpr:
		obj := l.lowerExpr(t.Obj)
		field := l.fieldIndexOf(t)
		l.emit(ir.Instr{Op: ir.OpFieldSet, Obj: obj, Field: field, RHS: v})
	case *ast.IndexExpr:
		obj := l.lowerExpr(t.Obj)
		idx := l.lowerExpr(t.Index)
		l.emit(ir.Instr{Op: ir.OpCall, Callee: "zaco_array_set", Args: []ir.Value{obj, idx, v}})
	}
	return v
}

func (l *Lowerer) lowerCast(x *ast.CastExpr) ir.Value {
	v := l.lowerExpr(x.Operand)
	dest := l.fn.NewReg()
	l.emit(ir.Instr{Op: ir.OpTypeNarrow, Dest: dest, LHS: v, NarrowType: lowerTypeAnn(x.Type)})
	return dest
}

func (l *Lowerer) lowerArrayLit(x *ast.ArrayLitExpr) ir.Value {
	dest := l.fn.NewReg()
	lenConst := ir.Value{IsConst: true, ConstI: int64(len(x.Elems))}
	l.emit(ir.Instr{Op: ir.OpCall, Dest: dest, Callee: "zaco_array_new", Args: []ir.Value{lenConst}})
	for _, el := range x.Elems {
		v := l.lowerExpr(el)
		l.emit(ir.Instr{Op: ir.OpCall, Callee: "zaco_array_push", Args: []ir.Value{dest, v}})
	}
	return dest
}

func (l *Lowerer) lowerObjectLit(x *ast.ObjectLitExpr) ir.Value {
	// Object literals lower to an anonymous struct whose field order
	// matches source order; the checker's structural Object type
	// already fixed that order during assignability checking.
	s := l.mod.NewStruct("<object-lit>")
	dest := l.fn.NewReg()
	l.emit(ir.Instr{Op: ir.OpStructNew, Dest: dest, StructID: s.ID})
	for i, f := range x.Fields {
		v := l.lowerExpr(f.Value)
		s.Fields = append(s.Fields, ir.Ptr())
		l.emit(ir.Instr{Op: ir.OpFieldSet, Obj: dest, Field: i, RHS: v})
	}
	return dest
}

func (l *Lowerer) lowerMember(x *ast.MemberExpr) ir.Value {
	if ident, ok := x.Obj.(*ast.IdentExpr); ok && ident.Name == "Math" {
		if v, ok := mathConstant(x.Name); ok {
			dest := l.fn.NewReg()
			l.emit(ir.Instr{Op: ir.OpConst, Dest: dest, ConstType: ir.F64(), ConstVal: ir.Value{IsConst: true, ConstF: v}})
			return dest
		}
	}
	obj := l.lowerExpr(x.Obj)
	dest := l.fn.NewReg()
	field := l.fieldIndexOf(x)
	l.emit(ir.Instr{Op: ir.OpFieldGet, Dest: dest, Obj: obj, Field: field})
	return dest
}

// mathConstant folds Math.PI/Math.E to literal constants, matching
// the runtime ABI's closed Math surface (neither is a runtime call).
func mathConstant(name string) (float64, bool) {
	switch name {
	case "PI":
		return 3.141592653589793, true
	case "E":
		return 2.718281828459045, true
	}
	return 0, false
}

func (l *Lowerer) fieldIndexOf(x *ast.MemberExpr) int {
	if ci, ok := l.resolveExprClass(x.Obj); ok {
		if idx, ok := ci.fieldIndex[x.Name]; ok {
			return idx
		}
	}
	return 0
}

// classForVar looks up a variable's statically known class by name,
// populated at declaration sites (typed parameters, `this`, and
// `new`/class-annotated `let` bindings).
func (l *Lowerer) classForVar(name string) (*classInfo, bool) {
	cn, ok := l.varClasses[name]
	if !ok {
		return nil, false
	}
	ci, ok := l.classes[cn]
	return ci, ok
}

// resolveExprClass resolves the static class of an expression used as
// a member-access or call receiver, following identifier bindings,
// `this`, chained field access, and cast expressions.
func (l *Lowerer) resolveExprClass(e ast.Expr) (*classInfo, bool) {
	switch x := e.(type) {
	case *ast.IdentExpr:
		return l.classForVar(x.Name)
	case *ast.MemberExpr:
		obj, ok := l.resolveExprClass(x.Obj)
		if !ok {
			return nil, false
		}
		cn, ok := obj.fieldClass[x.Name]
		if !ok {
			return nil, false
		}
		ci, ok := l.classes[cn]
		return ci, ok
	case *ast.CastExpr:
		return l.resolveExprClass(x.Operand)
	}
	return nil, false
}

func (l *Lowerer) lowerIndex(x *ast.IndexExpr) ir.Value {
	obj := l.lowerExpr(x.Obj)
	idx := l.lowerExpr(x.Index)
	dest := l.fn.NewReg()
	l.emit(ir.Instr{Op: ir.OpCall, Dest: dest, Callee: "zaco_array_get", Args: []ir.Value{obj, idx}})
	return dest
}

func (l *Lowerer) lowerClone(x *ast.CloneExpr) ir.Value {
	v := l.lowerExpr(x.Operand)
	dest := l.fn.NewReg()
	l.emit(ir.Instr{Op: ir.OpCall, Dest: dest, Callee: "zaco_clone", Args: []ir.Value{v}})
	return dest
}
