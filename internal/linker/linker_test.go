package linker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zacostudio/zaco-compiler/internal/ir"
)

func unitWithExportedFunc(path, fnName string) *Unit {
	m := ir.NewModule(path)
	fn := m.NewFunc(fnName)
	fn.IsPublic = true
	fn.Return = ir.Void()
	b := fn.NewBlock()
	b.Instrs = append(b.Instrs, ir.Instr{Op: ir.OpReturn})

	initFn := m.NewFunc("__module_init")
	initFn.Return = ir.Void()
	ib := initFn.NewBlock()
	ib.Instrs = append(ib.Instrs, ir.Instr{Op: ir.OpReturn})

	return &Unit{Path: path, Module: m}
}

func findFunc(m *ir.Module, name string) *ir.Function {
	for _, f := range m.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func TestLinkSingleUnitRenamesInitToUserMain(t *testing.T) {
	u := unitWithExportedFunc("main.zaco", "f")
	out, err := Link([]*Unit{u}, "main.zaco")
	require.NoError(t, err)

	assert.NotNil(t, findFunc(out, "_user_main"))
	assert.Nil(t, findFunc(out, "__module_init"), "entry unit's init must be renamed, not duplicated")
	assert.NotNil(t, findFunc(out, "main"), "linker must synthesize a main entry point")
}

func TestLinkMultiUnitQualifiesNonEntryInit(t *testing.T) {
	lib := unitWithExportedFunc("lib.zaco", "f")
	lib.Imports = nil
	entry := unitWithExportedFunc("main.zaco", "g")
	entry.Imports = []string{"lib.zaco"}

	out, err := Link([]*Unit{lib, entry}, "main.zaco")
	require.NoError(t, err)

	assert.NotNil(t, findFunc(out, "__module_init_lib_zaco"))
	assert.NotNil(t, findFunc(out, "_user_main"))
}

func TestLinkDetectsImportCycle(t *testing.T) {
	a := unitWithExportedFunc("a.zaco", "f")
	a.Imports = []string{"b.zaco"}
	b := unitWithExportedFunc("b.zaco", "g")
	b.Imports = []string{"a.zaco"}

	_, err := Link([]*Unit{a, b}, "a.zaco")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestLinkDedupesExternsByName(t *testing.T) {
	m1 := ir.NewModule("m1")
	m1.Externs = append(m1.Externs, &ir.Extern{Name: "zaco_console_log", Params: []ir.Type{ir.Str()}})
	m2 := ir.NewModule("m2")
	m2.Externs = append(m2.Externs, &ir.Extern{Name: "zaco_console_log", Params: []ir.Type{ir.Str()}})

	u1 := &Unit{Path: "m1.zaco", Module: m1}
	u2 := &Unit{Path: "m2.zaco", Module: m2, Imports: []string{"m1.zaco"}}

	out, err := Link([]*Unit{u1, u2}, "m2.zaco")
	require.NoError(t, err)

	count := 0
	for _, e := range out.Externs {
		if e.Name == "zaco_console_log" {
			count++
		}
	}
	assert.Equal(t, 1, count, "extern must be deduplicated by name across units")
}

func TestLinkOffsetsStructIDsAcrossUnits(t *testing.T) {
	m1 := ir.NewModule("m1")
	m1.NewStruct("A")
	m2 := ir.NewModule("m2")
	m2.NewStruct("B")

	u1 := &Unit{Path: "m1.zaco", Module: m1}
	u2 := &Unit{Path: "m2.zaco", Module: m2, Imports: []string{"m1.zaco"}}

	out, err := Link([]*Unit{u1, u2}, "m2.zaco")
	require.NoError(t, err)

	require.Len(t, out.Structs, 2)
	assert.Equal(t, "A", out.Structs[0].Name)
	assert.Equal(t, "B", out.Structs[1].Name)
	assert.Equal(t, 0, out.Structs[0].ID)
	assert.Equal(t, 1, out.Structs[1].ID)
}
