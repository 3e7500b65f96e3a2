package lower

import (
	"github.com/zacostudio/zaco-compiler/internal/ast"
	"github.com/zacostudio/zaco-compiler/internal/ir"
)

func (l *Lowerer) lowerStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.ExprStmt:
		l.lowerExpr(st.X)
	case *ast.BlockStmt:
		for _, inner := range st.Stmts {
			l.lowerStmt(inner)
		}
	case *ast.VarDeclStmt:
		l.lowerVarDecl(st)
	case *ast.IfStmt:
		l.lowerIf(st)
	case *ast.WhileStmt:
		l.lowerWhile(st)
	case *ast.ForStmt:
		l.lowerFor(st)
	case *ast.ForOfStmt:
		l.lowerForOf(st)
	case *ast.ForInStmt:
		l.lowerForIn(st)
	case *ast.SwitchStmt:
		l.lowerSwitch(st)
	case *ast.TryStmt:
		l.lowerTry(st)
	case *ast.ThrowStmt:
		v := l.lowerExpr(st.X)
		l.emit(ir.Instr{Op: ir.OpCall, Callee: "zaco_throw", Args: []ir.Value{v}})
	case *ast.ReturnStmt:
		if st.X == nil {
			l.emit(ir.Instr{Op: ir.OpReturn})
			return
		}
		v := l.lowerExpr(st.X)
		if l.curIsAsync {
			v = l.wrapInPromise(v)
		}
		l.emit(ir.Instr{Op: ir.OpReturn, RetVal: &v})
	case *ast.BreakStmt:
		if len(l.breakTargets) > 0 {
			target := l.breakTargets[len(l.breakTargets)-1]
			l.emit(ir.Instr{Op: ir.OpBranch, ThenBlock: target})
		}
	case *ast.ContinueStmt:
		if len(l.continueTargets) > 0 {
			target := l.continueTargets[len(l.continueTargets)-1]
			l.emit(ir.Instr{Op: ir.OpBranch, ThenBlock: target})
		}
	case *ast.FuncDecl:
		// local function declaration: lowered as a module-level
		// function under its declared name; closures get their own pass.
		l.lowerFuncDecl(st)
	case *ast.DeclStmt:
		l.lowerStmt(st.D)
	}
}

func (l *Lowerer) lowerVarDecl(st *ast.VarDeclStmt) {
	if cn, ok := l.classNameForVarDecl(st); ok {
		l.varClasses[st.Name] = cn
	}
	if st.Annotation != nil {
		l.varKinds[st.Name] = lowerTypeAnn(st.Annotation).Kind
	}
	if st.Init == nil {
		l.vars[st.Name] = l.fn.NewReg()
		return
	}
	if st.Annotation == nil {
		l.varKinds[st.Name] = l.exprKind(st.Init)
	}
	v := l.lowerExpr(st.Init)
	l.vars[st.Name] = v
	if st.Mode == ast.Owned {
		l.emit(ir.Instr{Op: ir.OpRcInc, Target: v})
	}
}

// classNameForVarDecl reports the declared class name for a `let`
// binding: an explicit class-typed annotation wins, otherwise a
// `new ClassName(...)` initializer names its own class.
func (l *Lowerer) classNameForVarDecl(st *ast.VarDeclStmt) (string, bool) {
	if st.Annotation != nil {
		if cn, ok := classNameForTypeAnn(st.Annotation); ok {
			return cn, true
		}
	}
	if n, ok := st.Init.(*ast.NewExpr); ok {
		if ident, ok := n.Callee.(*ast.IdentExpr); ok {
			return ident.Name, true
		}
	}
	return "", false
}

func (l *Lowerer) lowerIf(st *ast.IfStmt) {
	cond := l.lowerExpr(st.Cond)
	thenBlock := l.fn.NewBlock()
	var elseBlock *ir.BasicBlock
	joinBlock := -1

	condBlock := l.cur
	if st.Else != nil {
		elseBlock = l.fn.NewBlock()
		condBlock.Instrs = append(condBlock.Instrs, ir.Instr{
			Op: ir.OpCBranch, Cond: cond, ThenBlock: thenBlock.ID, ElseBlock: elseBlock.ID,
		})
	} else {
		join := l.fn.NewBlock()
		joinBlock = join.ID
		condBlock.Instrs = append(condBlock.Instrs, ir.Instr{
			Op: ir.OpCBranch, Cond: cond, ThenBlock: thenBlock.ID, ElseBlock: join.ID,
		})
	}

	l.cur = thenBlock
	l.lowerStmt(st.Then)
	thenEnd := l.cur

	if st.Else != nil {
		l.cur = elseBlock
		l.lowerStmt(st.Else)
		elseEnd := l.cur

		join := l.fn.NewBlock()
		if !thenEnd.Terminated() {
			thenEnd.Instrs = append(thenEnd.Instrs, ir.Instr{Op: ir.OpBranch, ThenBlock: join.ID})
		}
		if !elseEnd.Terminated() {
			elseEnd.Instrs = append(elseEnd.Instrs, ir.Instr{Op: ir.OpBranch, ThenBlock: join.ID})
		}
		l.cur = join
		return
	}

	if !thenEnd.Terminated() {
		thenEnd.Instrs = append(thenEnd.Instrs, ir.Instr{Op: ir.OpBranch, ThenBlock: joinBlock})
	}
	l.cur = l.fn.Block(joinBlock)
}

func (l *Lowerer) lowerWhile(st *ast.WhileStmt) {
	headBlock := l.newBlockJumpingFrom(l.cur)
	l.cur = headBlock
	cond := l.lowerExpr(st.Cond)

	bodyBlock := l.fn.NewBlock()
	exitBlock := l.fn.NewBlock()
	headBlock.Instrs = append(headBlock.Instrs, ir.Instr{
		Op: ir.OpCBranch, Cond: cond, ThenBlock: bodyBlock.ID, ElseBlock: exitBlock.ID,
	})

	l.breakTargets = append(l.breakTargets, exitBlock.ID)
	l.continueTargets = append(l.continueTargets, headBlock.ID)

	l.cur = bodyBlock
	l.lowerStmt(st.Body)
	if !l.cur.Terminated() {
		l.emit(ir.Instr{Op: ir.OpBranch, ThenBlock: headBlock.ID})
	}

	l.breakTargets = l.breakTargets[:len(l.breakTargets)-1]
	l.continueTargets = l.continueTargets[:len(l.continueTargets)-1]
	l.cur = exitBlock
}

func (l *Lowerer) lowerFor(st *ast.ForStmt) {
	if st.Init != nil {
		l.lowerStmt(st.Init)
	}
	headBlock := l.newBlockJumpingFrom(l.cur)
	l.cur = headBlock

	bodyBlock := l.fn.NewBlock()
	exitBlock := l.fn.NewBlock()
	stepBlock := l.fn.NewBlock()

	if st.Cond != nil {
		cond := l.lowerExpr(st.Cond)
		headBlock.Instrs = append(headBlock.Instrs, ir.Instr{
			Op: ir.OpCBranch, Cond: cond, ThenBlock: bodyBlock.ID, ElseBlock: exitBlock.ID,
		})
	} else {
		headBlock.Instrs = append(headBlock.Instrs, ir.Instr{Op: ir.OpBranch, ThenBlock: bodyBlock.ID})
	}

	l.breakTargets = append(l.breakTargets, exitBlock.ID)
	l.continueTargets = append(l.continueTargets, stepBlock.ID)

	l.cur = bodyBlock
	l.lowerStmt(st.Body)
	if !l.cur.Terminated() {
		l.emit(ir.Instr{Op: ir.OpBranch, ThenBlock: stepBlock.ID})
	}

	l.cur = stepBlock
	if st.Step != nil {
		l.lowerExpr(st.Step)
	}
	if !l.cur.Terminated() {
		l.emit(ir.Instr{Op: ir.OpBranch, ThenBlock: headBlock.ID})
	}

	l.breakTargets = l.breakTargets[:len(l.breakTargets)-1]
	l.continueTargets = l.continueTargets[:len(l.continueTargets)-1]
	l.cur = exitBlock
}

// lowerForOf iterates array elements via zaco_array_length/
// zaco_array_get, the array-counterpart of the classic for loop.
func (l *Lowerer) lowerForOf(st *ast.ForOfStmt) {
	obj := l.lowerExpr(st.Obj)
	lenReg := l.fn.NewReg()
	l.emit(ir.Instr{Op: ir.OpCall, Dest: lenReg, Callee: "zaco_array_length", Args: []ir.Value{obj}})

	zeroReg := l.fn.NewReg()
	zero := ir.Value{IsConst: true}
	l.emit(ir.Instr{Op: ir.OpConst, Dest: zeroReg, ConstType: ir.I64(), ConstVal: zero})

	// The index is the head block's param: the entry edge passes zero
	// and the step block passes the incremented index.
	headBlock := l.fn.NewBlockWithParams(ir.I64())
	l.emit(ir.Instr{Op: ir.OpBranch, ThenBlock: headBlock.ID, ThenArgs: []ir.Value{zeroReg}})
	idxReg := headBlock.Params[0].Reg
	l.cur = headBlock
	cmpReg := l.fn.NewReg()
	l.emit(ir.Instr{Op: ir.OpBinOp, Dest: cmpReg, BinOp: ir.BLt, LHS: idxReg, RHS: lenReg})

	bodyBlock := l.fn.NewBlock()
	exitBlock := l.fn.NewBlock()
	stepBlock := l.fn.NewBlock()
	headBlock.Instrs = append(headBlock.Instrs, ir.Instr{
		Op: ir.OpCBranch, Cond: cmpReg, ThenBlock: bodyBlock.ID, ElseBlock: exitBlock.ID,
	})

	l.breakTargets = append(l.breakTargets, exitBlock.ID)
	l.continueTargets = append(l.continueTargets, stepBlock.ID)

	l.cur = bodyBlock
	elemReg := l.fn.NewReg()
	l.emit(ir.Instr{Op: ir.OpCall, Dest: elemReg, Callee: "zaco_array_get", Args: []ir.Value{obj, idxReg}})
	l.vars[st.Name] = elemReg
	l.lowerStmt(st.Body)
	if !l.cur.Terminated() {
		l.emit(ir.Instr{Op: ir.OpBranch, ThenBlock: stepBlock.ID})
	}

	l.cur = stepBlock
	one := ir.Value{IsConst: true, ConstI: 1}
	oneReg := l.fn.NewReg()
	l.emit(ir.Instr{Op: ir.OpConst, Dest: oneReg, ConstType: ir.I64(), ConstVal: one})
	nextIdx := l.fn.NewReg()
	l.emit(ir.Instr{Op: ir.OpBinOp, Dest: nextIdx, BinOp: ir.BAdd, LHS: idxReg, RHS: oneReg})
	if !l.cur.Terminated() {
		l.emit(ir.Instr{Op: ir.OpBranch, ThenBlock: headBlock.ID, ThenArgs: []ir.Value{nextIdx}})
	}

	l.breakTargets = l.breakTargets[:len(l.breakTargets)-1]
	l.continueTargets = l.continueTargets[:len(l.continueTargets)-1]
	l.cur = exitBlock
}

// lowerForIn iterates object keys. Key enumeration is a runtime
// concern (object layout is erased to Ptr at this stage), so it is
// modeled as a single opaque call that backends must implement.
func (l *Lowerer) lowerForIn(st *ast.ForInStmt) {
	obj := l.lowerExpr(st.Obj)
	keysReg := l.fn.NewReg()
	l.emit(ir.Instr{Op: ir.OpCall, Dest: keysReg, Callee: "zaco_object_keys", Args: []ir.Value{obj}})
	l.vars[st.Name] = keysReg
	l.lowerStmt(st.Body)
}

// lowerSwitch lowers to a chain of string/value equality comparisons
// with a shared break target, matching C-family fallthrough when a
// case body omits `break`.
func (l *Lowerer) lowerSwitch(st *ast.SwitchStmt) {
	tag := l.lowerExpr(st.Tag)
	exitBlock := l.fn.NewBlock()
	l.breakTargets = append(l.breakTargets, exitBlock.ID)

	var defaultIdx = -1
	for i, c := range st.Cases {
		if c.Test == nil {
			defaultIdx = i
		}
	}

	// Pre-allocate every case's body block up front, in source order,
	// so an unterminated body can fall through into the next case's
	// block regardless of whether it has already been lowered.
	bodyBlocks := make([]*ir.BasicBlock, len(st.Cases))
	for i := range st.Cases {
		bodyBlocks[i] = l.fn.NewBlock()
	}

	next := l.cur
	for i, c := range st.Cases {
		if c.Test == nil {
			continue
		}
		l.cur = next
		testVal := l.lowerExpr(c.Test)
		cmp := l.fn.NewReg()
		l.emit(ir.Instr{Op: ir.OpBinOp, Dest: cmp, BinOp: ir.BEq, LHS: tag, RHS: testVal})

		afterTest := l.fn.NewBlock()
		l.cur.Instrs = append(l.cur.Instrs, ir.Instr{
			Op: ir.OpCBranch, Cond: cmp, ThenBlock: bodyBlocks[i].ID, ElseBlock: afterTest.ID,
		})
		next = afterTest
	}

	// The tail of the non-matching chain falls to the default case's
	// body (if any), else straight to exit.
	l.cur = next
	if defaultIdx >= 0 {
		l.emit(ir.Instr{Op: ir.OpBranch, ThenBlock: bodyBlocks[defaultIdx].ID})
	} else {
		l.emit(ir.Instr{Op: ir.OpBranch, ThenBlock: exitBlock.ID})
	}

	// Lower each case body in source order; an unterminated body
	// falls through into the syntactically next case's body block,
	// matching C-family switch fallthrough semantics.
	for i, c := range st.Cases {
		l.cur = bodyBlocks[i]
		for _, s := range c.Body {
			l.lowerStmt(s)
		}
		if !l.cur.Terminated() {
			if i+1 < len(st.Cases) {
				l.emit(ir.Instr{Op: ir.OpBranch, ThenBlock: bodyBlocks[i+1].ID})
			} else {
				l.emit(ir.Instr{Op: ir.OpBranch, ThenBlock: exitBlock.ID})
			}
		}
	}

	l.breakTargets = l.breakTargets[:len(l.breakTargets)-1]
	l.cur = exitBlock
}

// lowerTry lowers try/catch/finally onto the setjmp/longjmp-style
// exception runtime calls: push a handler frame, run the body, pop the
// frame, and run finally in the join block. The catch clause is lowered
// into its own block that starts by reading zaco_get_error and then
// branches to the join block; no IR instruction branches to the catch
// block.
func (l *Lowerer) lowerTry(st *ast.TryStmt) {
	l.emit(ir.Instr{Op: ir.OpCall, Callee: "zaco_try_push"})

	bodyBlock := l.newBlockJumpingFrom(l.cur)
	l.cur = bodyBlock
	l.lowerStmt(st.Body)
	l.emit(ir.Instr{Op: ir.OpCall, Callee: "zaco_try_pop"})
	bodyEnd := l.cur

	joinBlock := l.fn.NewBlock()
	if !bodyEnd.Terminated() {
		bodyEnd.Instrs = append(bodyEnd.Instrs, ir.Instr{Op: ir.OpBranch, ThenBlock: joinBlock.ID})
	}

	if st.Catch != nil {
		catchBlock := l.fn.NewBlock()
		l.cur = catchBlock
		errReg := l.fn.NewReg()
		l.emit(ir.Instr{Op: ir.OpCall, Dest: errReg, Callee: "zaco_get_error"})
		if st.Catch.Name != "" {
			l.vars[st.Catch.Name] = errReg
		}
		l.lowerStmt(st.Catch.Body)
		if !l.cur.Terminated() {
			l.emit(ir.Instr{Op: ir.OpBranch, ThenBlock: joinBlock.ID})
		}
	}

	l.cur = joinBlock
	if st.Finally != nil {
		l.lowerStmt(st.Finally)
	}
}
