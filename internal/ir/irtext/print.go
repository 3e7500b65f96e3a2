// Package irtext provides the textual form of an ir.Module that
// `zacoc ir` prints, and uses it for golden-file snapshot testing:
// Print renders exactly what ir.Module.String() renders, and Parse
// reads that same grammar back into an ir.Module.
//
// The grammar does not carry a function's parameter types or a
// struct's vtable; Module.String() never prints them, so a module
// round-tripped through Print/Parse has structurally identical
// functions, blocks and instructions but loses Params and Vtable.
// Round-trip tests compare on the fields the grammar actually carries.
package irtext

import "github.com/zacostudio/zaco-compiler/internal/ir"

// Print renders mod in the textual IR grammar.
func Print(mod *ir.Module) string {
	return mod.String()
}
