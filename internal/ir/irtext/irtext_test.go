package irtext

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zacostudio/zaco-compiler/internal/ir"
)

func TestMain(m *testing.M) {
	snaps.Clean(m)
}

func sampleModule() *ir.Module {
	mod := ir.NewModule("sample")
	s := mod.NewStruct("Point")
	s.Fields = []ir.Type{ir.F64(), ir.F64()}

	mod.Externs = append(mod.Externs, &ir.Extern{Name: "zaco_console_log"})

	fn := mod.NewFunc("add")
	fn.IsPublic = true
	fn.Return = ir.F64()
	b0 := fn.NewBlock()
	sum := fn.NewReg()
	b0.Instrs = append(b0.Instrs,
		ir.Instr{Op: ir.OpBinOp, Dest: sum, BinOp: ir.BAdd, LHS: ir.Value{IsConst: true, ConstF: 1}, RHS: ir.Value{IsConst: true, ConstF: 2}},
		ir.Instr{Op: ir.OpReturn, RetVal: &sum},
	)
	return mod
}

func TestPrintSnapshot(t *testing.T) {
	snaps.MatchSnapshot(t, Print(sampleModule()))
}

func TestParseRoundTrip(t *testing.T) {
	mod := sampleModule()
	text := Print(mod)

	reparsed, err := Parse(text)
	require.NoError(t, err)

	assert.Equal(t, mod.Name, reparsed.Name)
	require.Len(t, reparsed.Structs, len(mod.Structs))
	assert.Equal(t, mod.Structs[0].Fields, reparsed.Structs[0].Fields)
	require.Len(t, reparsed.Funcs, len(mod.Funcs))
	assert.Equal(t, mod.Funcs[0].Return, reparsed.Funcs[0].Return)
	assert.Equal(t, mod.Funcs[0].Blocks[0].Instrs, reparsed.Funcs[0].Blocks[0].Instrs)

	assert.Equal(t, text, Print(reparsed), "re-printing a re-parsed module must reproduce the same text")
}

func TestParseRejectsUnknownInstruction(t *testing.T) {
	_, err := Parse("module m\nfunc 0 f private -> void {\nbb0:\n  frobnicate %0\n}\n")
	require.Error(t, err)
}

func sampleModuleWithBlockParams() *ir.Module {
	mod := ir.NewModule("joins")
	fn := mod.NewFunc("pick")
	fn.Return = ir.Bool()

	entry := fn.NewBlock()
	join := fn.NewBlockWithParams(ir.Bool())
	cond := fn.NewReg()
	entry.Instrs = append(entry.Instrs,
		ir.Instr{Op: ir.OpConst, Dest: cond, ConstType: ir.Bool(), ConstVal: ir.Value{IsConst: true, ConstB: true}},
		ir.Instr{Op: ir.OpCBranch, Cond: cond,
			ThenBlock: join.ID, ThenArgs: []ir.Value{cond},
			ElseBlock: join.ID, ElseArgs: []ir.Value{cond}},
	)
	joinVal := join.Params[0].Reg
	join.Instrs = append(join.Instrs, ir.Instr{Op: ir.OpReturn, RetVal: &joinVal})
	return mod
}

func TestParseRoundTripWithBlockParams(t *testing.T) {
	mod := sampleModuleWithBlockParams()
	text := Print(mod)

	reparsed, err := Parse(text)
	require.NoError(t, err)

	fn := reparsed.Funcs[0]
	require.Len(t, fn.Blocks, 2)
	join := fn.Blocks[1]
	require.Len(t, join.Params, 1)
	assert.Equal(t, ir.Bool(), join.Params[0].Type)
	assert.Equal(t, mod.Funcs[0].Blocks[0].Instrs, fn.Blocks[0].Instrs)
	assert.Equal(t, mod.Funcs[0].Blocks[1].Instrs, fn.Blocks[1].Instrs)

	assert.Equal(t, text, Print(reparsed), "re-printing a re-parsed module with block params must reproduce the same text")
}
