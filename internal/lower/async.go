package lower

import (
	"github.com/zacostudio/zaco-compiler/internal/ast"
	"github.com/zacostudio/zaco-compiler/internal/ir"
)

// lowerAwait lowers to a blocking call: zaco_async_block_on drives
// the promise to completion synchronously. There is no real scheduler
// in this pipeline; an async function's body runs straight through at
// the await point rather than suspending.
func (l *Lowerer) lowerAwait(x *ast.AwaitExpr) ir.Value {
	promise := l.lowerExpr(x.Operand)
	dest := l.fn.NewReg()
	l.emit(ir.Instr{Op: ir.OpCall, Dest: dest, Callee: "zaco_async_block_on", Args: []ir.Value{promise}})
	return dest
}

// wrapInPromise lowers an async function's return value into a new,
// already-resolved promise: the promise pointer, not v, is what the
// caller of an async function actually receives.
func (l *Lowerer) wrapInPromise(v ir.Value) ir.Value {
	promise := l.fn.NewReg()
	l.emit(ir.Instr{Op: ir.OpCall, Dest: promise, Callee: "zaco_promise_new"})
	l.emit(ir.Instr{Op: ir.OpCall, Callee: "zaco_promise_resolve", Args: []ir.Value{promise, v}})
	return promise
}
