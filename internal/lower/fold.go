package lower

import "github.com/zacostudio/zaco-compiler/internal/ir"

// Pass is one named, independently toggleable post-lowering
// transformation over an ir.Module.
type Pass struct {
	Name string
	Run  func(*ir.Module)
}

// Passes is the fixed, ordered set of optimization passes a caller
// may select by name.
var Passes = []Pass{
	{Name: "fold-const-binops", Run: foldConstBinops},
}

// RunPasses applies the named passes, in Passes order, ignoring names
// that don't match any registered pass.
func RunPasses(mod *ir.Module, names []string) {
	wanted := map[string]bool{}
	for _, n := range names {
		wanted[n] = true
	}
	for _, p := range Passes {
		if wanted[p.Name] {
			p.Run(mod)
		}
	}
}

// foldConstBinops collapses a binop whose both operands are constants
// into a single f64 const instruction, for add, sub, mul and div (div
// only with a nonzero divisor). Operands are read as f64 constants;
// comparison and modulo binops are left unfolded.
func foldConstBinops(mod *ir.Module) {
	for _, fn := range mod.Funcs {
		for _, b := range fn.Blocks {
			for i, instr := range b.Instrs {
				if instr.Op != ir.OpBinOp || !instr.LHS.IsConst || !instr.RHS.IsConst {
					continue
				}
				folded, ok := foldBinop(instr.BinOp, instr.LHS, instr.RHS)
				if !ok {
					continue
				}
				b.Instrs[i] = ir.Instr{
					Op: ir.OpConst, Dest: instr.Dest,
					ConstType: ir.F64(), ConstVal: folded,
				}
			}
		}
	}
}

func foldBinop(op ir.BinOp, lhs, rhs ir.Value) (ir.Value, bool) {
	l, r := lhs.ConstF, rhs.ConstF
	switch op {
	case ir.BAdd:
		return ir.Value{IsConst: true, ConstF: l + r}, true
	case ir.BSub:
		return ir.Value{IsConst: true, ConstF: l - r}, true
	case ir.BMul:
		return ir.Value{IsConst: true, ConstF: l * r}, true
	case ir.BDiv:
		if r == 0 {
			return ir.Value{}, false
		}
		return ir.Value{IsConst: true, ConstF: l / r}, true
	default:
		return ir.Value{}, false
	}
}
