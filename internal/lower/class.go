package lower

import (
	"github.com/zacostudio/zaco-compiler/internal/ast"
	"github.com/zacostudio/zaco-compiler/internal/ir"
)

// declareClass registers a class's struct layout (inherited fields,
// then its own) and the method slots it inherits, before any method
// body is lowered. Slots for the class's own new methods are assigned
// by lowerClassBody as each method is lowered, so a method body sees
// the slots of inherited methods and of the methods declared before
// it, not of the class's later methods.
func (l *Lowerer) declareClass(d *ast.ClassDecl) {
	s := l.mod.NewStruct(d.Name)
	ci := &classInfo{
		structID:   s.ID,
		fieldIndex: map[string]int{},
		methodSlot: map[string]int{},
		fieldClass: map[string]string{},
	}
	if d.Extends != "" {
		if parent, ok := l.classes[d.Extends]; ok {
			ci.extends = parent
			for name, idx := range parent.fieldIndex {
				ci.fieldIndex[name] = idx
			}
			for name, slot := range parent.methodSlot {
				ci.methodSlot[name] = slot
			}
			for name, cls := range parent.fieldClass {
				ci.fieldClass[name] = cls
			}
			s.Fields = append(s.Fields, l.mod.Structs[parent.structID].Fields...)
		}
	}
	for _, f := range d.Fields {
		ci.fieldIndex[f.Name] = len(s.Fields)
		s.Fields = append(s.Fields, lowerTypeAnn(f.Type))
		if cn, ok := classNameForTypeAnn(f.Type); ok {
			ci.fieldClass[f.Name] = cn
		}
	}
	l.classes[d.Name] = ci
}

// lowerClassBody lowers each method to a standalone IR function named
// `<ClassName>_<method>` and assigns it a vtable slot, allocating a
// fresh slot only for methods not already inherited.
func (l *Lowerer) lowerClassBody(d *ast.ClassDecl) {
	ci := l.classes[d.Name]
	s := l.mod.Structs[ci.structID]
	if ci.extends != nil && len(s.Vtable) == 0 {
		s.Vtable = append(s.Vtable, l.mod.Structs[ci.extends.structID].Vtable...)
	}

	for _, m := range d.Methods {
		fn := l.mod.NewFunc(d.Name + "_" + m.Name)
		fn.Params = append(fn.Params, ir.Struct(ci.structID))
		for _, p := range m.Params {
			fn.Params = append(fn.Params, lowerTypeAnn(p.Type))
		}
		fn.Return = lowerAsyncReturnType(m.Return, m.IsAsync)

		slot, existing := ci.methodSlot[m.Name]
		if !existing {
			slot = len(s.Vtable)
			ci.methodSlot[m.Name] = slot
			s.Vtable = append(s.Vtable, fn.ID)
		} else {
			s.Vtable[slot] = fn.ID
		}

		prevFn, prevCur, prevVars, prevAsync := l.fn, l.cur, l.vars, l.curIsAsync
		prevVarKinds, prevVarClasses := l.varKinds, l.varClasses
		l.fn = fn
		l.cur = fn.NewBlock()
		l.vars = map[string]ir.Value{"this": fn.NewReg()}
		l.varKinds = map[string]ir.TypeKind{}
		l.varClasses = map[string]string{"this": d.Name}
		l.curIsAsync = m.IsAsync
		for _, p := range m.Params {
			l.vars[p.Name] = fn.NewReg()
			l.varKinds[p.Name] = lowerTypeAnn(p.Type).Kind
			if cn, ok := classNameForTypeAnn(p.Type); ok {
				l.varClasses[p.Name] = cn
			}
		}
		for _, stmt := range m.Body {
			l.lowerStmt(stmt)
		}
		if !l.cur.Terminated() {
			l.emit(ir.Instr{Op: ir.OpReturn})
		}
		l.fn, l.cur, l.vars, l.curIsAsync = prevFn, prevCur, prevVars, prevAsync
		l.varKinds, l.varClasses = prevVarKinds, prevVarClasses
	}
}
