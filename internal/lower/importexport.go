package lower

import (
	"github.com/zacostudio/zaco-compiler/internal/ast"
	"github.com/zacostudio/zaco-compiler/internal/ir"
	"github.com/zacostudio/zaco-compiler/internal/runtimeabi"
)

// lowerImport records an extern declaration for each binding imported
// from a host module (fs, path, os, ...) that resolves against the
// frozen runtime ABI table; a binding the module's sub-table lacks is
// skipped. A project-local import records nothing: calls to its
// bindings stay calls by name, and the linker merges modules without
// rewriting them.
func (l *Lowerer) lowerImport(d *ast.ImportDecl) {
	if !runtimeabi.IsImportable(d.Module) {
		return // project-local import: nothing to record
	}
	bindings := runtimeabi.ImportableModules[d.Module]
	for _, spec := range d.Specs {
		abiName, ok := bindings[spec.Name]
		if !ok {
			continue
		}
		l.importedBindings[spec.Local] = abiName
		if sig, ok := runtimeabi.Table[abiName]; ok {
			l.mod.Externs = append(l.mod.Externs, &ir.Extern{
				Name:   sig.Name,
				Params: make([]ir.Type, sig.Arity),
				Return: ir.Ptr(),
			})
		}
	}
}
