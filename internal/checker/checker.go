package checker

import (
	"github.com/zacostudio/zaco-compiler/internal/ast"
	"github.com/zacostudio/zaco-compiler/internal/diag"
	"github.com/zacostudio/zaco-compiler/internal/typesys"
)

// Checker holds the state threaded through one module's check: the
// accumulated diagnostics, the registry of classes/interfaces declared
// in the module, the prelude globals, and the function currently being
// checked (for return-type and await validation).
type Checker struct {
	bag     *diag.Bag
	prelude *Prelude

	classes    map[string]*typesys.Class
	interfaces map[string]*typesys.Interface

	// typeParams holds the generic type-parameter names in scope for
	// the class or function currently being resolved/checked, so a
	// bare reference to one resolves to an opaque typesys.Ref instead
	// of EUnknownType.
	typeParams map[string]bool

	curReturn  typesys.Type
	curIsAsync bool
	loopDepth  int
}

// typeParamSet builds a lookup set from a generic parameter name list,
// or nil if names is empty (a nil map's lookups safely report false,
// so callers never need to special-case "no generics active").
func typeParamSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// New creates a Checker that reports into bag.
func New(bag *diag.Bag) *Checker {
	return &Checker{
		bag:        bag,
		prelude:    NewPrelude(),
		classes:    map[string]*typesys.Class{},
		interfaces: map[string]*typesys.Interface{},
	}
}

// CheckModule runs the full declare-then-check pipeline over mod and
// returns the module's top-level scope, which the lowerer can use to
// resolve export bindings.
func (c *Checker) CheckModule(mod *ast.Module) *Scope {
	global := NewScope()
	for name, t := range c.prelude.Globals {
		global.Declare(&Binding{Name: name, Type: t, Mode: typesys.Owned, State: Live})
	}

	c.declareClasses(mod)
	c.declareInterfaces(mod)
	c.resolveClassBodies(mod)

	c.checkDuplicates(mod)
	for _, st := range mod.Stmts {
		c.checkStmt(st, global)
	}
	return global
}

// resolveTypeAnn turns a surface ast.TypeAnn into a resolved
// typesys.Type, reporting EUnknownType for a TypeRef this module never
// declared and is not one of the primitive spellings.
func (c *Checker) resolveTypeAnn(t ast.TypeAnn) typesys.Type {
	if t == nil {
		return typesys.Any
	}
	switch t := t.(type) {
	case *ast.PrimitiveTypeAnn:
		return resolvePrimitive(t.Kind)
	case *ast.TypeRefTypeAnn:
		if c.typeParams[t.Name] {
			return &typesys.Ref{Name: t.Name}
		}
		if cls, ok := c.classes[t.Name]; ok {
			return cls
		}
		if iface, ok := c.interfaces[t.Name]; ok {
			return iface
		}
		c.typeErrorf(t.Sp, EUnknownType, "unknown type %q", t.Name)
		return typesys.Any
	case *ast.FunctionTypeAnn:
		params := make([]typesys.Param, len(t.Params))
		for i, p := range t.Params {
			params[i] = typesys.Param{Mode: resolveMode(p.Mode), Type: c.resolveTypeAnn(p.Type)}
		}
		return &typesys.Function{Params: params, Return: c.resolveTypeAnn(t.Return)}
	case *ast.PromiseTypeAnn:
		return &typesys.Promise{Elem: c.resolveTypeAnn(t.Elem)}
	case *ast.UnionTypeAnn:
		members := make([]typesys.Type, len(t.Members))
		for i, m := range t.Members {
			members[i] = c.resolveTypeAnn(m)
		}
		return &typesys.Union{Members: members}
	case *ast.ArrayTypeAnn:
		return &typesys.Array{Elem: c.resolveTypeAnn(t.Elem)}
	case *ast.ObjectTypeAnn:
		fields := make([]typesys.ObjectField, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = typesys.ObjectField{Name: f.Name, Type: c.resolveTypeAnn(f.Type), Optional: f.Optional}
		}
		return &typesys.Object{Fields: fields}
	default:
		return typesys.Any
	}
}

func resolvePrimitive(k ast.PrimitiveKind) typesys.Type {
	switch k {
	case ast.KindNumber:
		return typesys.Number
	case ast.KindString:
		return typesys.String
	case ast.KindBoolean:
		return typesys.Boolean
	case ast.KindVoid:
		return typesys.Void
	case ast.KindNull:
		return typesys.Null
	case ast.KindUndefined:
		return typesys.Undefined
	case ast.KindNever:
		return typesys.Never
	case ast.KindUnknown:
		return typesys.Unknown
	default:
		return typesys.Any
	}
}

func resolveMode(m ast.OwnershipMode) typesys.OwnershipMode {
	switch m {
	case ast.Ref:
		return typesys.RefMode
	case ast.MutRef:
		return typesys.MutRefMode
	default:
		return typesys.Owned
	}
}

// checkDuplicates reports a module-family diagnostic for any
// top-level name declared more than once (var/func/class/interface
// all share one namespace at module scope).
func (c *Checker) checkDuplicates(mod *ast.Module) {
	seen := map[string]bool{}
	note := func(name string, sp ast.Span) {
		if seen[name] {
			c.moduleErrorf(sp, EDuplicateDecl, "%q is already declared at this scope", name)
			return
		}
		seen[name] = true
	}
	for _, st := range mod.Stmts {
		switch d := st.(type) {
		case *ast.VarDeclStmt:
			note(d.Name, d.Sp)
		case *ast.FuncDecl:
			note(d.Name, d.Sp)
		case *ast.ClassDecl:
			note(d.Name, d.Sp)
		case *ast.InterfaceDecl:
			note(d.Name, d.Sp)
		case *ast.DeclStmt:
			switch dd := d.D.(type) {
			case *ast.FuncDecl:
				note(dd.Name, dd.Sp)
			case *ast.ClassDecl:
				note(dd.Name, dd.Sp)
			}
		}
	}
}
