package lower

import (
	"github.com/zacostudio/zaco-compiler/internal/ast"
	"github.com/zacostudio/zaco-compiler/internal/ir"
)

var closureCounter int

// lowerFuncExpr lowers a function expression or arrow function to a
// struct holding the captured bindings plus a module-level function
// whose first parameter is that env. The value it returns is the env
// struct alone; it carries no reference to the function.
//
// Capture analysis here is conservative: every outer variable in
// scope at the closure's creation point is captured by value,
// regardless of whether the body actually reads it.
func (l *Lowerer) lowerFuncExpr(x *ast.FuncExpr) ir.Value {
	closureCounter++
	name := "__closure"
	if x.Name != "" {
		name = x.Name
	}

	envStruct := l.mod.NewStruct(name + "_env")
	capturedNames := make([]string, 0, len(l.vars))
	for varName := range l.vars {
		capturedNames = append(capturedNames, varName)
		envStruct.Fields = append(envStruct.Fields, ir.Ptr())
	}

	fn := l.mod.NewFunc(name)
	fn.Params = append(fn.Params, ir.Struct(envStruct.ID))
	for _, p := range x.Params {
		fn.Params = append(fn.Params, lowerTypeAnn(p.Type))
	}
	fn.Return = lowerReturnType(x.Return)

	prevFn, prevCur, prevVars := l.fn, l.cur, l.vars
	l.fn = fn
	l.cur = fn.NewBlock()
	envReg := fn.NewReg()
	newVars := map[string]ir.Value{}
	for i, captured := range capturedNames {
		fieldReg := fn.NewReg()
		l.emit(ir.Instr{Op: ir.OpFieldGet, Dest: fieldReg, Obj: envReg, Field: i})
		newVars[captured] = fieldReg
	}
	for _, p := range x.Params {
		newVars[p.Name] = fn.NewReg()
	}
	l.vars = newVars

	for _, stmt := range x.Body {
		l.lowerStmt(stmt)
	}
	if !l.cur.Terminated() {
		l.emit(ir.Instr{Op: ir.OpReturn})
	}
	l.fn, l.cur, l.vars = prevFn, prevCur, prevVars

	envVal := l.fn.NewReg()
	l.emit(ir.Instr{Op: ir.OpStructNew, Dest: envVal, StructID: envStruct.ID})
	for i, captured := range capturedNames {
		if v, ok := l.vars[captured]; ok {
			l.emit(ir.Instr{Op: ir.OpFieldSet, Obj: envVal, Field: i, RHS: v})
		}
	}
	return envVal
}
