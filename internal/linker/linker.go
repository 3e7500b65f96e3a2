// Package linker combines the per-file ir.Modules produced by lower
// into a single linked program: function and struct IDs are made
// unique across modules, non-entry modules get a synthesized init
// function, externs are deduplicated by name, and the entry module's
// user main is renamed and wrapped with runtime lifecycle calls.
package linker

import (
	"fmt"
	"sort"

	"github.com/zacostudio/zaco-compiler/internal/ir"
)

// Unit is one module's lowered IR plus its declared dependency order
// (the modules it imports from, by path).
type Unit struct {
	Path    string
	Module  *ir.Module
	Imports []string
}

// Link merges units into one ir.Module. entryPath names the unit
// whose top-level statements become the program's user main; every
// other unit's init statements run, in dependency order, before it.
func Link(units []*Unit, entryPath string) (*ir.Module, error) {
	order, err := topoSort(units, entryPath)
	if err != nil {
		return nil, err
	}

	out := ir.NewModule("program")
	funcOffset := map[string]int{}
	structOffset := map[string]int{}
	initFuncIDs := map[string]int{}

	for _, u := range order {
		fo := out.NextFuncID
		so := out.NextStructID
		funcOffset[u.Path] = fo
		structOffset[u.Path] = so

		for _, s := range u.Module.Structs {
			ns := out.NewStruct(s.Name)
			ns.Fields = s.Fields
			ns.Vtable = make([]int, len(s.Vtable))
			for i, fid := range s.Vtable {
				ns.Vtable[i] = fid + fo
			}
		}
		for _, f := range u.Module.Funcs {
			nf := out.NewFunc(qualify(u.Path, f.Name))
			nf.Params = f.Params
			nf.Return = f.Return
			nf.IsPublic = f.IsPublic
			nf.NextReg = f.NextReg
			nf.Blocks = offsetBlocks(f.Blocks, so)
			if f.Name == "__module_init" {
				initFuncIDs[u.Path] = nf.ID
			}
			if u.Path == entryPath && f.Name == "__module_init" {
				nf.Name = "_user_main"
			}
		}
		mergeExterns(out, u.Module.Externs)
	}

	synthesizeEntry(out, order, initFuncIDs, entryPath)
	return out, nil
}

func qualify(modulePath, funcName string) string {
	if funcName == "__module_init" {
		return "__module_init_" + sanitize(modulePath)
	}
	return funcName
}

func sanitize(path string) string {
	out := make([]rune, 0, len(path))
	for _, r := range path {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			out = append(out, r)
		} else {
			out = append(out, '_')
		}
	}
	return string(out)
}

// offsetBlocks rewrites struct IDs embedded in instructions to the
// linked module's numbering. Calls reference functions by qualified
// name rather than numeric ID, so no function-ID rewrite is needed
// here.
func offsetBlocks(blocks []*ir.BasicBlock, structOffset int) []*ir.BasicBlock {
	out := make([]*ir.BasicBlock, len(blocks))
	for i, b := range blocks {
		nb := &ir.BasicBlock{ID: b.ID, Instrs: make([]ir.Instr, len(b.Instrs))}
		for j, instr := range b.Instrs {
			nb.Instrs[j] = offsetInstr(instr, structOffset)
		}
		out[i] = nb
	}
	return out
}

func offsetInstr(instr ir.Instr, structOffset int) ir.Instr {
	switch instr.Op {
	case ir.OpStructNew:
		instr.StructID += structOffset
	}
	return instr
}

func mergeExterns(out *ir.Module, externs []*ir.Extern) {
	seen := map[string]bool{}
	for _, e := range out.Externs {
		seen[e.Name] = true
	}
	for _, e := range externs {
		if !seen[e.Name] {
			out.Externs = append(out.Externs, e)
			seen[e.Name] = true
		}
	}
}

// synthesizeEntry appends a `main` function that calls the runtime
// init, every non-entry unit's module-init function in dependency
// order, the entry module's renamed `_user_main`, and finally the
// runtime shutdown.
func synthesizeEntry(out *ir.Module, order []*Unit, initFuncIDs map[string]int, entryPath string) {
	main := out.NewFunc("main")
	main.Return = ir.Void()
	b := main.NewBlock()
	b.Instrs = append(b.Instrs, ir.Instr{Op: ir.OpCall, Callee: "zaco_runtime_init"})

	for _, u := range order {
		if u.Path == entryPath {
			continue
		}
		if id, ok := initFuncIDs[u.Path]; ok {
			b.Instrs = append(b.Instrs, ir.Instr{Op: ir.OpCall, Callee: out.FuncByID(id).Name})
		}
	}

	if id, ok := initFuncIDs[entryPath]; ok {
		b.Instrs = append(b.Instrs, ir.Instr{Op: ir.OpCall, Callee: out.FuncByID(id).Name})
	}

	b.Instrs = append(b.Instrs, ir.Instr{Op: ir.OpCall, Callee: "zaco_runtime_shutdown"})
	b.Instrs = append(b.Instrs, ir.Instr{Op: ir.OpReturn})
}

// topoSort orders units so every unit appears after all units it
// imports from, erroring on an import cycle.
func topoSort(units []*Unit, entryPath string) ([]*Unit, error) {
	byPath := map[string]*Unit{}
	for _, u := range units {
		byPath[u.Path] = u
	}

	var order []*Unit
	state := map[string]int{} // 0 unvisited, 1 visiting, 2 done

	var visit func(path string) error
	visit = func(path string) error {
		switch state[path] {
		case 2:
			return nil
		case 1:
			return fmt.Errorf("import cycle detected at %s", path)
		}
		state[path] = 1
		u, ok := byPath[path]
		if !ok {
			return fmt.Errorf("unresolved module import: %s", path)
		}
		imports := append([]string(nil), u.Imports...)
		sort.Strings(imports)
		for _, dep := range imports {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[path] = 2
		order = append(order, u)
		return nil
	}

	paths := make([]string, 0, len(units))
	for _, u := range units {
		paths = append(paths, u.Path)
	}
	sort.Strings(paths)
	for _, p := range paths {
		if err := visit(p); err != nil {
			return nil, err
		}
	}

	// Move the entry unit to the end regardless of its position among
	// equally-ordered siblings, so user main always runs last.
	for i, u := range order {
		if u.Path == entryPath {
			order = append(order[:i], order[i+1:]...)
			order = append(order, u)
			break
		}
	}
	return order, nil
}
