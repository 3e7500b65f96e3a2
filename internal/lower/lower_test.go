package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zacostudio/zaco-compiler/internal/ast"
	"github.com/zacostudio/zaco-compiler/internal/ir"
	"github.com/zacostudio/zaco-compiler/internal/lexer"
	"github.com/zacostudio/zaco-compiler/internal/parser"
)

func lowerSource(t *testing.T, name, src string) *ir.Module {
	t.Helper()
	source := &ast.Source{Path: name, Contents: src, ID: 0}
	l := lexer.New(src, 0)
	p := parser.New(l, source)
	mod := p.ParseModule()
	require.Empty(t, p.Errors(), "fixture must parse cleanly")
	return New(name).Module(mod)
}

func findFunc(m *ir.Module, name string) *ir.Function {
	for _, f := range m.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func TestLowerFunctionSignature(t *testing.T) {
	m := lowerSource(t, "m1", `export function add(a: number, b: number): number { return a + b }`)

	fn := findFunc(m, "add")
	require.NotNil(t, fn, "expected a lowered function named add")
	assert.True(t, fn.IsPublic, "exported function must lower with IsPublic")
	assert.Equal(t, ir.F64(), fn.Return)
	assert.Equal(t, []ir.Type{ir.F64(), ir.F64()}, fn.Params)
	require.NotEmpty(t, fn.Blocks)
	assert.True(t, fn.Blocks[len(fn.Blocks)-1].Terminated(), "every lowered function must end in a terminated block")
}

func TestLowerNonExportedFunctionIsNotPublic(t *testing.T) {
	m := lowerSource(t, "m1", `function helper(): void {}`)
	fn := findFunc(m, "helper")
	require.NotNil(t, fn)
	assert.False(t, fn.IsPublic)
}

func TestLowerTopLevelStatementsGoIntoModuleInit(t *testing.T) {
	m := lowerSource(t, "m1", `let x = 1
console.log(x)`)
	fn := findFunc(m, "__module_init")
	require.NotNil(t, fn, "top-level statements must be collected into __module_init")
	assert.NotEmpty(t, fn.Blocks[0].Instrs)
}

func TestLowerClassProducesStructWithDeclaredFields(t *testing.T) {
	m := lowerSource(t, "m1", `class Point { x: number; y: number; constructor(x: number, y: number) { this.x = x; this.y = y } }`)

	require.Len(t, m.Structs, 1)
	assert.Equal(t, "Point", m.Structs[0].Name)
	assert.Equal(t, []ir.Type{ir.F64(), ir.F64()}, m.Structs[0].Fields)

	ctor := findFunc(m, "Point_constructor")
	require.NotNil(t, ctor, "constructor must lower to a top-level Point_constructor function")
}

func TestLowerModuleProducesResultValidByIRInvariants(t *testing.T) {
	m := lowerSource(t, "m1", `function id(x: number): number { return x }
let y = id(1)`)
	assert.NoError(t, m.Validate())
}

func TestLowerImportedBindingCallResolvesToQualifiedExternName(t *testing.T) {
	m := lowerSource(t, "m1", `import {join} from "path"
let p = join("/a", "b")
console.log(p)`)

	fn := findFunc(m, initFuncName)
	require.NotNil(t, fn)

	var sawCall bool
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if instr.Op == ir.OpCall && instr.Callee == "zaco_path_join" {
				sawCall = true
			}
			assert.NotEqual(t, "join", instr.Callee, "imported binding must not lower to its bare local name")
		}
	}
	assert.True(t, sawCall, "expected a call to the qualified extern zaco_path_join")
}

func TestLowerSwitchCaseWithoutBreakFallsThroughToNextCase(t *testing.T) {
	m := lowerSource(t, "m1", `function classify(n: number): number {
  let result: number = 0
  switch (n) {
    case 1:
      result = 10
    case 2:
      result = 20
      break
    default:
      result = 90
  }
  return result
}`)

	fn := findFunc(m, "classify")
	require.NotNil(t, fn)

	blockWithConst := func(val float64) *ir.BasicBlock {
		for _, b := range fn.Blocks {
			for _, instr := range b.Instrs {
				if instr.Op == ir.OpConst && instr.ConstVal.ConstF == val {
					return b
				}
			}
		}
		return nil
	}

	// The assigned values differ from the case labels: the label
	// constants 1 and 2 are emitted into the comparison blocks.
	caseOne := blockWithConst(10)
	caseTwo := blockWithConst(20)
	require.NotNil(t, caseOne, "expected a block assigning result = 10")
	require.NotNil(t, caseTwo, "expected a block assigning result = 20")

	last := caseOne.Instrs[len(caseOne.Instrs)-1]
	assert.Equal(t, ir.OpBranch, last.Op, "case 1 has no break, so it must fall through")
	assert.Equal(t, caseTwo.ID, last.ThenBlock, "fallthrough must target case 2's body block, not exit")
}

func TestLowerFieldAndMethodAccessResolveToReceiverClassNotFirstDeclared(t *testing.T) {
	m := lowerSource(t, "m1", `class A {
  pad: number
  value: number
  constructor(pad: number, value: number) { this.pad = pad; this.value = value }
  extra(): number { return this.pad }
  value_method(): number { return this.value }
}
class B {
  value: number
  constructor(value: number) { this.value = value }
  value_method(): number { return this.value }
}
function readValue(x: B): number {
  let v = x.value_method()
  return x.value
}`)

	fn := findFunc(m, "readValue")
	require.NotNil(t, fn)

	var sawFieldGet, sawVtableCall bool
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if instr.Op == ir.OpFieldGet {
				sawFieldGet = true
				assert.Equal(t, 0, instr.Field, "B.value is at index 0 in B's own layout, not A's")
			}
			if instr.Op == ir.OpVtableCall {
				sawVtableCall = true
				assert.Equal(t, 1, instr.VtableSlot, "B.value_method is slot 1 in B's own vtable (after its constructor), not A's slot 2")
			}
		}
	}
	assert.True(t, sawFieldGet, "expected a field_get for x.value")
	assert.True(t, sawVtableCall, "expected a vcall for x.value_method()")
}

func TestLowerLogicalAndJoinsOnBlockParam(t *testing.T) {
	m := lowerSource(t, "m1", `function both(a: boolean, b: boolean): boolean { return a && b }`)

	fn := findFunc(m, "both")
	require.NotNil(t, fn)
	assert.NoError(t, m.Validate())

	var join *ir.BasicBlock
	for _, b := range fn.Blocks {
		if len(b.Params) > 0 {
			join = b
		}
	}
	require.NotNil(t, join, "expected a join block with a block param for the && result")
	require.Len(t, join.Params, 1)

	var sawMatchingArg bool
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if (instr.Op == ir.OpBranch || instr.Op == ir.OpCBranch) && instr.ThenBlock == join.ID {
				require.Len(t, instr.ThenArgs, 1)
				sawMatchingArg = true
			}
			if instr.Op == ir.OpCBranch && instr.ElseBlock == join.ID {
				require.Len(t, instr.ElseArgs, 1)
				sawMatchingArg = true
			}
		}
	}
	assert.True(t, sawMatchingArg, "expected every branch into the join block to carry its forwarded argument")

	last := join.Instrs[len(join.Instrs)-1]
	assert.Equal(t, ir.OpReturn, last.Op)
	require.NotNil(t, last.RetVal)
	assert.Equal(t, join.Params[0].Reg, *last.RetVal, "the join block must return its own param, not a fake binop")
}

func TestLowerAsyncFunctionWrapsReturnValueInPromise(t *testing.T) {
	m := lowerSource(t, "m1", `async function fetchOne(): number { return 1 }`)

	fn := findFunc(m, "fetchOne")
	require.NotNil(t, fn)
	assert.Equal(t, ir.PromiseOf(ir.F64()), fn.Return, "async function's IR return type must be a promise")

	var sawNew, sawResolve bool
	var block *ir.BasicBlock
	for i := range fn.Blocks {
		for _, instr := range fn.Blocks[i].Instrs {
			if instr.Op == ir.OpCall && instr.Callee == "zaco_promise_new" {
				sawNew = true
			}
			if instr.Op == ir.OpCall && instr.Callee == "zaco_promise_resolve" {
				sawResolve = true
			}
		}
		block = fn.Blocks[i]
	}
	assert.True(t, sawNew, "expected a zaco_promise_new call before returning")
	assert.True(t, sawResolve, "expected a zaco_promise_resolve call before returning")
	require.NotEmpty(t, block.Instrs)
	last := block.Instrs[len(block.Instrs)-1]
	assert.Equal(t, ir.OpReturn, last.Op)
	require.NotNil(t, last.RetVal, "return must carry the promise pointer as its value")
}
