package irtext

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/zacostudio/zaco-compiler/internal/ir"
)

// Parse reads the textual IR grammar Print produces back into an
// ir.Module. It is a line-oriented re-parser, not a general-purpose
// one: each construct occupies exactly the one line shape its String()
// method emits.
func Parse(text string) (*ir.Module, error) {
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var mod *ir.Module
	var curFunc *ir.Function
	var curBlock *ir.BasicBlock
	var curStruct *ir.StructDef

	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "}" {
			curStruct = nil
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "module "):
			mod = ir.NewModule(strings.TrimPrefix(trimmed, "module "))

		case strings.HasPrefix(trimmed, "struct "):
			fields := strings.Fields(trimmed)
			if len(fields) < 3 {
				return nil, fmt.Errorf("malformed struct header: %q", line)
			}
			s := mod.NewStruct(fields[2])
			curStruct = s

		case curStruct != nil && strings.Contains(trimmed, ":"):
			parts := strings.SplitN(trimmed, ":", 2)
			t, err := parseType(strings.TrimSpace(parts[1]))
			if err != nil {
				return nil, err
			}
			curStruct.Fields = append(curStruct.Fields, t)

		case strings.HasPrefix(trimmed, "extern "):
			mod.Externs = append(mod.Externs, &ir.Extern{Name: strings.TrimPrefix(trimmed, "extern ")})

		case strings.HasPrefix(trimmed, "func "):
			fields := strings.Fields(trimmed)
			if len(fields) < 6 {
				return nil, fmt.Errorf("malformed func header: %q", line)
			}
			f := mod.NewFunc(fields[2])
			f.IsPublic = fields[3] == "public"
			ret, err := parseType(fields[5])
			if err != nil {
				return nil, err
			}
			f.Return = ret
			curFunc = f
			curBlock = nil

		case strings.HasPrefix(trimmed, "bb") && strings.HasSuffix(trimmed, ":"):
			header := strings.TrimSuffix(trimmed, ":")
			id, params, err := parseBlockHeader(header)
			if err != nil {
				return nil, fmt.Errorf("malformed block label: %q", line)
			}
			curBlock = curFunc.Block(id)
			curBlock.Params = params

		default:
			if curBlock == nil {
				return nil, fmt.Errorf("instruction outside any block: %q", line)
			}
			instr, err := parseInstr(trimmed)
			if err != nil {
				return nil, err
			}
			curBlock.Instrs = append(curBlock.Instrs, instr)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if mod == nil {
		return nil, fmt.Errorf("missing module header")
	}
	return mod, nil
}

func parseType(s string) (ir.Type, error) {
	switch {
	case s == "i64":
		return ir.I64(), nil
	case s == "f64":
		return ir.F64(), nil
	case s == "bool":
		return ir.Bool(), nil
	case s == "str":
		return ir.Str(), nil
	case s == "ptr":
		return ir.Ptr(), nil
	case s == "void":
		return ir.Void(), nil
	case strings.HasPrefix(s, "struct#"):
		id, err := strconv.Atoi(strings.TrimPrefix(s, "struct#"))
		if err != nil {
			return ir.Type{}, fmt.Errorf("malformed struct type: %q", s)
		}
		return ir.Struct(id), nil
	case strings.HasPrefix(s, "promise<") && strings.HasSuffix(s, ">"):
		elem, err := parseType(strings.TrimSuffix(strings.TrimPrefix(s, "promise<"), ">"))
		if err != nil {
			return ir.Type{}, err
		}
		return ir.PromiseOf(elem), nil
	default:
		return ir.Type{}, fmt.Errorf("unknown type spelling: %q", s)
	}
}

func parseValue(s string) ir.Value {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "%") {
		n, _ := strconv.Atoi(strings.TrimPrefix(s, "%"))
		return ir.Reg(n)
	}
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			unquoted = strings.Trim(s, `"`)
		}
		return ir.Value{IsConst: true, ConstS: unquoted}
	}
	if s == "true" || s == "false" {
		return ir.Value{IsConst: true, ConstB: s == "true"}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return ir.Value{IsConst: true, ConstF: f}
	}
	n, _ := strconv.ParseInt(s, 10, 64)
	return ir.Value{IsConst: true, ConstI: n}
}

func parseValues(s string) []ir.Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := splitArgs(s)
	out := make([]ir.Value, len(parts))
	for i, p := range parts {
		out[i] = parseValue(p)
	}
	return out
}

// splitArgs splits a comma-separated argument list, respecting quoted
// strings so a comma inside a string constant is not mistaken for a
// separator.
func splitArgs(s string) []string {
	var out []string
	inQuote := false
	start := 0
	for i, r := range s {
		switch r {
		case '"':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, strings.TrimSpace(s[start:]))
	return out
}

func destAndRest(line string) (ir.Value, string, bool) {
	idx := strings.Index(line, " = ")
	if idx < 0 {
		return ir.Value{}, line, false
	}
	return parseValue(line[:idx]), line[idx+3:], true
}

func parseInstr(line string) (ir.Instr, error) {
	dest, rest, _ := destAndRest(line)
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ir.Instr{}, fmt.Errorf("empty instruction")
	}
	op := fields[0]
	tail := strings.TrimSpace(strings.TrimPrefix(rest, op))

	switch op {
	case "const":
		parts := strings.SplitN(tail, " ", 2)
		t, err := parseType(parts[0])
		if err != nil {
			return ir.Instr{}, err
		}
		return ir.Instr{Op: ir.OpConst, Dest: dest, ConstType: t, ConstVal: parseValue(parts[1])}, nil

	case "binop":
		parts := strings.SplitN(tail, " ", 2)
		binOp, err := parseBinOp(parts[0])
		if err != nil {
			return ir.Instr{}, err
		}
		operands := strings.SplitN(parts[1], ",", 2)
		return ir.Instr{Op: ir.OpBinOp, Dest: dest, BinOp: binOp,
			LHS: parseValue(operands[0]), RHS: parseValue(operands[1])}, nil

	case "unop":
		parts := strings.SplitN(tail, " ", 2)
		unOp, err := parseUnOp(parts[0])
		if err != nil {
			return ir.Instr{}, err
		}
		return ir.Instr{Op: ir.OpUnOp, Dest: dest, UnOp: unOp, LHS: parseValue(parts[1])}, nil

	case "call":
		name, argsStr := splitCall(tail)
		return ir.Instr{Op: ir.OpCall, Dest: dest, Callee: name, Args: parseValues(argsStr)}, nil

	case "vcall":
		return parseVcall(dest, tail)

	case "str_concat":
		return ir.Instr{Op: ir.OpStrConcat, Dest: dest, Parts: parseValues(tail)}, nil

	case "load":
		return ir.Instr{Op: ir.OpLoad, Dest: dest, Addr: parseValue(tail)}, nil

	case "store":
		parts := strings.SplitN(tail, ",", 2)
		return ir.Instr{Op: ir.OpStore, Addr: parseValue(parts[0]), RHS: parseValue(parts[1])}, nil

	case "struct_new":
		id, err := strconv.Atoi(strings.TrimSpace(tail))
		if err != nil {
			return ir.Instr{}, err
		}
		return ir.Instr{Op: ir.OpStructNew, Dest: dest, StructID: id}, nil

	case "field_get":
		obj, field, err := splitObjField(tail)
		if err != nil {
			return ir.Instr{}, err
		}
		return ir.Instr{Op: ir.OpFieldGet, Dest: dest, Obj: obj, Field: field}, nil

	case "field_set":
		parts := strings.SplitN(tail, ",", 2)
		obj, field, err := splitObjField(parts[0])
		if err != nil {
			return ir.Instr{}, err
		}
		return ir.Instr{Op: ir.OpFieldSet, Obj: obj, Field: field, RHS: parseValue(parts[1])}, nil

	case "rc_inc":
		return ir.Instr{Op: ir.OpRcInc, Target: parseValue(tail)}, nil

	case "rc_dec":
		return ir.Instr{Op: ir.OpRcDec, Target: parseValue(tail)}, nil

	case "array_rc_dec":
		return ir.Instr{Op: ir.OpArrayRcDec, Target: parseValue(tail)}, nil

	case "type_narrow":
		parts := strings.SplitN(tail, " as ", 2)
		t, err := parseType(strings.TrimSpace(parts[1]))
		if err != nil {
			return ir.Instr{}, err
		}
		return ir.Instr{Op: ir.OpTypeNarrow, Dest: dest, LHS: parseValue(parts[0]), NarrowType: t}, nil

	case "jump":
		id, args, err := parseBlockRef(tail)
		if err != nil {
			return ir.Instr{}, err
		}
		return ir.Instr{Op: ir.OpBranch, ThenBlock: id, ThenArgs: args}, nil

	case "cbranch":
		parts := splitTopLevel(tail)
		if len(parts) != 3 {
			return ir.Instr{}, fmt.Errorf("malformed cbranch: %q", tail)
		}
		then, thenArgs, err := parseBlockRef(parts[1])
		if err != nil {
			return ir.Instr{}, err
		}
		els, elseArgs, err := parseBlockRef(parts[2])
		if err != nil {
			return ir.Instr{}, err
		}
		return ir.Instr{Op: ir.OpCBranch, Cond: parseValue(parts[0]),
			ThenBlock: then, ThenArgs: thenArgs, ElseBlock: els, ElseArgs: elseArgs}, nil

	case "jump_table":
		parts := strings.SplitN(tail, ",", 2)
		list := strings.Trim(strings.TrimSpace(parts[1]), "[]")
		var targets []int
		for _, t := range splitArgs(list) {
			id, err := blockID(t)
			if err != nil {
				return ir.Instr{}, err
			}
			targets = append(targets, id)
		}
		return ir.Instr{Op: ir.OpJumpTable, Cond: parseValue(parts[0]), Targets: targets}, nil

	case "return":
		if tail == "" {
			return ir.Instr{Op: ir.OpReturn}, nil
		}
		v := parseValue(tail)
		return ir.Instr{Op: ir.OpReturn, RetVal: &v}, nil

	default:
		return ir.Instr{}, fmt.Errorf("unknown instruction: %q", line)
	}
}

func splitCall(tail string) (name, args string) {
	open := strings.Index(tail, "(")
	shut := strings.LastIndex(tail, ")")
	if open < 0 || shut < 0 {
		return tail, ""
	}
	return tail[:open], tail[open+1 : shut]
}

func parseVcall(dest ir.Value, tail string) (ir.Instr, error) {
	bracket := strings.Index(tail, "[")
	bracketEnd := strings.Index(tail, "]")
	if bracket < 0 || bracketEnd < 0 {
		return ir.Instr{}, fmt.Errorf("malformed vcall: %q", tail)
	}
	obj := parseValue(tail[:bracket])
	slot, err := strconv.Atoi(tail[bracket+1 : bracketEnd])
	if err != nil {
		return ir.Instr{}, err
	}
	_, argsStr := splitCall(tail[bracketEnd+1:])
	return ir.Instr{Op: ir.OpVtableCall, Dest: dest, Obj: obj, VtableSlot: slot, Args: parseValues(argsStr)}, nil
}

func splitObjField(s string) (ir.Value, int, error) {
	idx := strings.LastIndex(s, ".")
	if idx < 0 {
		return ir.Value{}, 0, fmt.Errorf("malformed obj.field: %q", s)
	}
	field, err := strconv.Atoi(strings.TrimSpace(s[idx+1:]))
	if err != nil {
		return ir.Value{}, 0, err
	}
	return parseValue(s[:idx]), field, nil
}

func blockID(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "bb")
	return strconv.Atoi(s)
}

// parseBlockRef parses a branch target as printed by blockRef: "bb%d"
// or "bb%d(%reg, ...)" when the target block expects arguments.
func parseBlockRef(s string) (int, []ir.Value, error) {
	s = strings.TrimSpace(s)
	open := strings.Index(s, "(")
	if open < 0 {
		id, err := blockID(s)
		return id, nil, err
	}
	if !strings.HasSuffix(s, ")") {
		return 0, nil, fmt.Errorf("malformed block ref: %q", s)
	}
	id, err := blockID(s[:open])
	if err != nil {
		return 0, nil, err
	}
	return id, parseValues(s[open+1 : len(s)-1]), nil
}

// parseBlockHeader parses a block label header as printed by
// writeFunc: "bb%d" or "bb%d(%reg: type, ...)" when the block has
// params.
func parseBlockHeader(s string) (int, []ir.BlockParam, error) {
	s = strings.TrimSpace(s)
	open := strings.Index(s, "(")
	if open < 0 {
		id, err := blockID(s)
		return id, nil, err
	}
	if !strings.HasSuffix(s, ")") {
		return 0, nil, fmt.Errorf("malformed block header: %q", s)
	}
	id, err := blockID(s[:open])
	if err != nil {
		return 0, nil, err
	}
	inner := s[open+1 : len(s)-1]
	if strings.TrimSpace(inner) == "" {
		return id, nil, nil
	}
	parts := splitTopLevel(inner)
	params := make([]ir.BlockParam, len(parts))
	for i, p := range parts {
		kv := strings.SplitN(p, ":", 2)
		if len(kv) != 2 {
			return 0, nil, fmt.Errorf("malformed block param: %q", p)
		}
		t, err := parseType(strings.TrimSpace(kv[1]))
		if err != nil {
			return 0, nil, err
		}
		params[i] = ir.BlockParam{Reg: parseValue(kv[0]), Type: t}
	}
	return id, params, nil
}

// splitTopLevel splits a comma-separated list, respecting quoted
// strings and parenthesized sub-lists (e.g. block-ref argument lists)
// so a comma nested inside either is not mistaken for a separator.
func splitTopLevel(s string) []string {
	var out []string
	inQuote := false
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '"':
			inQuote = !inQuote
		case '(':
			if !inQuote {
				depth++
			}
		case ')':
			if !inQuote {
				depth--
			}
		case ',':
			if !inQuote && depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, strings.TrimSpace(s[start:]))
	return out
}

func parseBinOp(s string) (ir.BinOp, error) {
	names := map[string]ir.BinOp{
		"add": ir.BAdd, "sub": ir.BSub, "mul": ir.BMul, "div": ir.BDiv, "mod": ir.BMod,
		"eq": ir.BEq, "neq": ir.BNotEq, "lt": ir.BLt, "gt": ir.BGt,
		"lteq": ir.BLtEq, "gteq": ir.BGtEq, "streq": ir.BStrEq,
	}
	op, ok := names[s]
	if !ok {
		return 0, fmt.Errorf("unknown binop: %q", s)
	}
	return op, nil
}

func parseUnOp(s string) (ir.UnOp, error) {
	switch s {
	case "neg":
		return ir.UNeg, nil
	case "not":
		return ir.UNot, nil
	default:
		return 0, fmt.Errorf("unknown unop: %q", s)
	}
}
