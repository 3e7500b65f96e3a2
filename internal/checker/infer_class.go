package checker

import (
	"github.com/zacostudio/zaco-compiler/internal/ast"
	"github.com/zacostudio/zaco-compiler/internal/typesys"
)

// declareClasses registers every class name with an empty shell
// first, so that mutually-referencing field/method annotations (and
// `extends`/`implements` cycles across declaration order) can resolve
// regardless of the order classes appear in the module.
func (c *Checker) declareClasses(mod *ast.Module) {
	for _, d := range classDecls(mod) {
		c.classes[d.Name] = &typesys.Class{Name: d.Name, TypeParams: d.TypeParams}
	}
}

func (c *Checker) declareInterfaces(mod *ast.Module) {
	for _, d := range interfaceDecls(mod) {
		c.interfaces[d.Name] = &typesys.Interface{Name: d.Name}
	}
}

// resolveClassBodies fills in each shell class/interface's Extends,
// Implements, and Members now that every name in the module is
// registered.
func (c *Checker) resolveClassBodies(mod *ast.Module) {
	for _, d := range interfaceDecls(mod) {
		iface := c.interfaces[d.Name]
		for _, name := range d.Extends {
			if e, ok := c.interfaces[name]; ok {
				iface.Extends = append(iface.Extends, e)
			} else {
				c.typeErrorf(d.Sp, EUnknownType, "interface %q extends unknown interface %q", d.Name, name)
			}
		}
		for _, m := range d.Methods {
			iface.Members = append(iface.Members, typesys.Member{
				Name: m.Name, Method: true, Type: c.funcType(m.Params, m.Return),
			})
		}
	}

	for _, d := range classDecls(mod) {
		cls := c.classes[d.Name]
		c.typeParams = typeParamSet(d.TypeParams)
		if d.Extends != "" {
			if sup, ok := c.classes[d.Extends]; ok {
				cls.Extends = sup
			} else {
				c.typeErrorf(d.Sp, EUnknownType, "class %q extends unknown class %q", d.Name, d.Extends)
			}
		}
		for _, name := range d.Implements {
			if iface, ok := c.interfaces[name]; ok {
				cls.Implements = append(cls.Implements, iface)
			} else {
				c.typeErrorf(d.Sp, EUnknownType, "class %q implements unknown interface %q", d.Name, name)
			}
		}
		for _, f := range d.Fields {
			cls.Members = append(cls.Members, typesys.Member{
				Name: f.Name, Type: c.resolveTypeAnn(f.Type), Mode: resolveMode(f.Mode),
			})
		}
		for _, m := range d.Methods {
			if m.Name == "constructor" {
				continue
			}
			cls.Members = append(cls.Members, typesys.Member{
				Name: m.Name, Method: true, Type: c.funcType(m.Params, m.Return),
			})
		}
		c.checkInterfaceSatisfaction(d, cls)
		c.typeParams = nil
	}
}

func (c *Checker) funcType(params []ast.Param, ret ast.TypeAnn) *typesys.Function {
	ps := make([]typesys.Param, len(params))
	for i, p := range params {
		ps[i] = typesys.Param{Mode: resolveMode(p.Mode), Type: c.resolveTypeAnn(p.Type)}
	}
	return &typesys.Function{Params: ps, Return: c.resolveTypeAnn(ret)}
}

// checkInterfaceSatisfaction reports a missing or incompatible method
// for each interface the class declares `implements` for.
func (c *Checker) checkInterfaceSatisfaction(d *ast.ClassDecl, cls *typesys.Class) {
	for _, iface := range cls.Implements {
		for _, want := range allInterfaceMembers(iface) {
			got, ok := cls.Lookup(want.Name)
			if !ok {
				c.typeErrorf(d.Sp, ENoMember, "class %q is missing member %q required by interface %q",
					d.Name, want.Name, iface.Name)
				continue
			}
			if !typesys.AssignableTo(got.Type, want.Type) {
				c.typeErrorf(d.Sp, ETypeMismatch, "class %q member %q has type %s, incompatible with interface %q's %s",
					d.Name, want.Name, got.Type, iface.Name, want.Type)
			}
		}
	}
}

func allInterfaceMembers(i *typesys.Interface) []typesys.Member {
	var out []typesys.Member
	out = append(out, i.Members...)
	for _, e := range i.Extends {
		out = append(out, allInterfaceMembers(e)...)
	}
	return out
}

func classDecls(mod *ast.Module) []*ast.ClassDecl {
	var out []*ast.ClassDecl
	for _, st := range mod.Stmts {
		switch d := st.(type) {
		case *ast.ClassDecl:
			out = append(out, d)
		case *ast.DeclStmt:
			if cd, ok := d.D.(*ast.ClassDecl); ok {
				out = append(out, cd)
			}
		}
	}
	return out
}

func interfaceDecls(mod *ast.Module) []*ast.InterfaceDecl {
	var out []*ast.InterfaceDecl
	for _, st := range mod.Stmts {
		if d, ok := st.(*ast.InterfaceDecl); ok {
			out = append(out, d)
		}
	}
	return out
}
