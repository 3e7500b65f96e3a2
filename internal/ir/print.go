package ir

import (
	"fmt"
	"strconv"
	"strings"
)

func (v Value) String() string {
	if v.IsConst {
		switch {
		case v.ConstS != "":
			return strconv.Quote(v.ConstS)
		default:
			if v.ConstF != 0 {
				return strconv.FormatFloat(v.ConstF, 'g', -1, 64)
			}
			if v.ConstB {
				return "true"
			}
			return strconv.FormatInt(v.ConstI, 10)
		}
	}
	return fmt.Sprintf("%%%d", v.Reg)
}

func joinValues(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

func (i Instr) String() string {
	switch i.Op {
	case OpConst:
		return fmt.Sprintf("%s = const %s %s", i.Dest, i.ConstType, i.ConstVal)
	case OpBinOp:
		return fmt.Sprintf("%s = binop %s %s, %s", i.Dest, binOpName(i.BinOp), i.LHS, i.RHS)
	case OpUnOp:
		return fmt.Sprintf("%s = unop %s %s", i.Dest, unOpName(i.UnOp), i.LHS)
	case OpCall:
		return fmt.Sprintf("%s = call %s(%s)", i.Dest, i.Callee, joinValues(i.Args))
	case OpVtableCall:
		return fmt.Sprintf("%s = vcall %s[%d](%s)", i.Dest, i.Obj, i.VtableSlot, joinValues(i.Args))
	case OpStrConcat:
		return fmt.Sprintf("%s = str_concat %s", i.Dest, joinValues(i.Parts))
	case OpLoad:
		return fmt.Sprintf("%s = load %s", i.Dest, i.Addr)
	case OpStore:
		return fmt.Sprintf("store %s, %s", i.Addr, i.RHS)
	case OpStructNew:
		return fmt.Sprintf("%s = struct_new %d", i.Dest, i.StructID)
	case OpFieldGet:
		return fmt.Sprintf("%s = field_get %s.%d", i.Dest, i.Obj, i.Field)
	case OpFieldSet:
		return fmt.Sprintf("field_set %s.%d, %s", i.Obj, i.Field, i.RHS)
	case OpRcInc:
		return fmt.Sprintf("rc_inc %s", i.Target)
	case OpRcDec:
		return fmt.Sprintf("rc_dec %s", i.Target)
	case OpArrayRcDec:
		return fmt.Sprintf("array_rc_dec %s", i.Target)
	case OpTypeNarrow:
		return fmt.Sprintf("%s = type_narrow %s as %s", i.Dest, i.LHS, i.NarrowType)
	case OpBranch:
		return fmt.Sprintf("jump %s", blockRef(i.ThenBlock, i.ThenArgs))
	case OpCBranch:
		return fmt.Sprintf("cbranch %s, %s, %s", i.Cond, blockRef(i.ThenBlock, i.ThenArgs), blockRef(i.ElseBlock, i.ElseArgs))
	case OpJumpTable:
		return fmt.Sprintf("jump_table %s, [%s]", i.Cond, joinInts(i.Targets))
	case OpReturn:
		if i.RetVal == nil {
			return "return"
		}
		return fmt.Sprintf("return %s", *i.RetVal)
	default:
		return "<unknown instr>"
	}
}

// blockRef renders a branch target, appending its argument list in
// parens only when there is one, so the no-params case round-trips
// byte-for-byte with the pre-block-param grammar.
func blockRef(id int, args []Value) string {
	if len(args) == 0 {
		return fmt.Sprintf("bb%d", id)
	}
	return fmt.Sprintf("bb%d(%s)", id, joinValues(args))
}

// joinBlockParams renders a block's parameter list for its header
// line, e.g. "%3: f64, %4: str".
func joinBlockParams(params []BlockParam) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s: %s", p.Reg, p.Type.String())
	}
	return strings.Join(parts, ", ")
}

func joinInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprintf("bb%d", v)
	}
	return strings.Join(parts, ", ")
}

func binOpName(op BinOp) string {
	names := [...]string{"add", "sub", "mul", "div", "mod", "eq", "neq", "lt", "gt", "lteq", "gteq", "streq"}
	return names[op]
}

func unOpName(op UnOp) string {
	names := [...]string{"neg", "not"}
	return names[op]
}
