package lower

import (
	"github.com/zacostudio/zaco-compiler/internal/ast"
	"github.com/zacostudio/zaco-compiler/internal/ir"
)

// lowerCall dispatches four call shapes: a console.* call (monomorphized
// per argument type), a Math.*/JSON.* builtin call, a virtual method
// call through a class instance, and a plain function call.
func (l *Lowerer) lowerCall(x *ast.CallExpr) ir.Value {
	if m, ok := x.Callee.(*ast.MemberExpr); ok {
		if family, ok := consoleFamily(m); ok {
			return l.lowerConsoleCall(family, x.Args)
		}
	}
	if name, ok := builtinCallName(x.Callee); ok {
		return l.lowerBuiltinCall(name, x.Args)
	}

	if m, ok := x.Callee.(*ast.MemberExpr); ok {
		obj := l.lowerExpr(m.Obj)
		if slot, ok := l.vtableSlotOf(m); ok {
			dest := l.fn.NewReg()
			args := l.lowerArgs(x.Args)
			l.emit(ir.Instr{Op: ir.OpVtableCall, Dest: dest, Obj: obj, VtableSlot: slot, Args: args})
			return dest
		}
	}

	callee := l.lowerExpr(x.Callee)
	dest := l.fn.NewReg()
	args := l.lowerArgs(x.Args)
	l.emit(ir.Instr{Op: ir.OpCall, Dest: dest, Callee: calleeSymbol(callee), Args: args})
	return dest
}

// consoleFamily recognizes a `console.log`/`warn`/`error`/`debug` call
// and returns the ABI name infix ("", "warn_", "error_", "debug_").
func consoleFamily(m *ast.MemberExpr) (string, bool) {
	obj, ok := m.Obj.(*ast.IdentExpr)
	if !ok || obj.Name != "console" {
		return "", false
	}
	switch m.Name {
	case "log":
		return "", true
	case "warn":
		return "warn_", true
	case "error":
		return "error_", true
	case "debug":
		return "debug_", true
	}
	return "", false
}

// lowerConsoleCall monomorphizes a console print over each argument's
// inferred kind and emits a trailing newline for console.log, mirroring
// how the runtime's print family has one entry point per value type.
func (l *Lowerer) lowerConsoleCall(family string, args []ast.Arg) ir.Value {
	for _, a := range args {
		v := l.lowerExpr(a.Value)
		kind := l.exprKind(a.Value)
		callee := consoleCallee(family, kind)
		l.emit(ir.Instr{Op: ir.OpCall, Callee: callee, Args: []ir.Value{v}})
	}
	if family == "" {
		empty := l.fn.NewReg()
		l.emit(ir.Instr{Op: ir.OpConst, Dest: empty, ConstType: ir.Str(), ConstVal: ir.Value{IsConst: true, ConstS: ""}})
		l.emit(ir.Instr{Op: ir.OpCall, Callee: "zaco_println_str", Args: []ir.Value{empty}})
	}
	return ir.Value{}
}

func consoleCallee(family string, kind ir.TypeKind) string {
	if family == "" {
		switch kind {
		case ir.KStr:
			return "zaco_print_str"
		case ir.KI64:
			return "zaco_print_i64"
		case ir.KBool:
			return "zaco_print_bool"
		default:
			return "zaco_print_f64"
		}
	}
	switch kind {
	case ir.KStr:
		return "zaco_console_" + family + "str"
	case ir.KI64:
		return "zaco_console_" + family + "i64"
	case ir.KBool:
		return "zaco_console_" + family + "bool"
	default:
		return "zaco_console_" + family + "f64"
	}
}

func calleeSymbol(v ir.Value) string {
	if v.IsConst {
		return v.ConstS
	}
	return v.String()
}

func (l *Lowerer) lowerArgs(args []ast.Arg) []ir.Value {
	out := make([]ir.Value, 0, len(args))
	for _, a := range args {
		v := l.lowerExpr(a.Value)
		if a.Mode == ast.ArgClone {
			cloned := l.fn.NewReg()
			l.emit(ir.Instr{Op: ir.OpCall, Dest: cloned, Callee: "zaco_clone", Args: []ir.Value{v}})
			v = cloned
		}
		out = append(out, v)
		if a.Mode == ast.ArgMove {
			l.emit(ir.Instr{Op: ir.OpRcInc, Target: v})
		}
	}
	return out
}

func (l *Lowerer) vtableSlotOf(m *ast.MemberExpr) (int, bool) {
	ci, ok := l.resolveExprClass(m.Obj)
	if !ok {
		return 0, false
	}
	slot, ok := ci.methodSlot[m.Name]
	return slot, ok
}

// builtinCallName recognizes the closed set of built-in namespaces
// (Math, JSON; console is handled separately by lowerConsoleCall) and
// maps a member call onto its runtime ABI name; every other call is a
// user function or an imported binding.
func builtinCallName(callee ast.Expr) (string, bool) {
	m, ok := callee.(*ast.MemberExpr)
	if !ok {
		return "", false
	}
	obj, ok := m.Obj.(*ast.IdentExpr)
	if !ok {
		return "", false
	}
	table := map[string]map[string]string{
		"Math": {
			"floor": "zaco_math_floor", "ceil": "zaco_math_ceil", "round": "zaco_math_round",
			"trunc": "zaco_math_trunc", "abs": "zaco_math_abs", "sqrt": "zaco_math_sqrt",
			"pow": "zaco_math_pow", "min": "zaco_math_min", "max": "zaco_math_max",
			"random": "zaco_math_random", "sin": "zaco_math_sin", "cos": "zaco_math_cos",
			"tan": "zaco_math_tan", "log": "zaco_math_log", "log2": "zaco_math_log2",
			"exp": "zaco_math_exp",
		},
		"JSON": {"stringify": "zaco_json_stringify", "parse": "zaco_json_parse"},
	}
	ns, ok := table[obj.Name]
	if !ok {
		return "", false
	}
	name, ok := ns[m.Name]
	return name, ok
}

func (l *Lowerer) lowerBuiltinCall(name string, args []ast.Arg) ir.Value {
	dest := l.fn.NewReg()
	vals := l.lowerArgs(args)
	l.emit(ir.Instr{Op: ir.OpCall, Dest: dest, Callee: name, Args: vals})
	return dest
}

func (l *Lowerer) lowerNew(x *ast.NewExpr) ir.Value {
	callee, ok := x.Callee.(*ast.IdentExpr)
	if !ok {
		return l.fn.NewReg()
	}
	ci, ok := l.classes[callee.Name]
	if !ok {
		return l.fn.NewReg()
	}
	dest := l.fn.NewReg()
	l.emit(ir.Instr{Op: ir.OpStructNew, Dest: dest, StructID: ci.structID})
	if slot, ok := ci.methodSlot["constructor"]; ok {
		args := append([]ir.Value{dest}, l.lowerArgs(x.Args)...)
		l.emit(ir.Instr{Op: ir.OpVtableCall, Obj: dest, VtableSlot: slot, Args: args})
	}
	return dest
}
