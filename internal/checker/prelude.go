package checker

import "github.com/zacostudio/zaco-compiler/internal/typesys"

// Prelude is the fixed set of global bindings every module sees
// without an import: the console/Math/JSON globals and the process
// global surfaced by the closed host-module set.
type Prelude struct {
	Globals map[string]typesys.Type
}

func numFn(params int) *typesys.Function {
	ps := make([]typesys.Param, params)
	for i := range ps {
		ps[i] = typesys.Param{Type: typesys.Number}
	}
	return &typesys.Function{Params: ps, Return: typesys.Number}
}

func voidFn(paramTypes ...typesys.Type) *typesys.Function {
	ps := make([]typesys.Param, len(paramTypes))
	for i, t := range paramTypes {
		ps[i] = typesys.Param{Type: t}
	}
	return &typesys.Function{Params: ps, Return: typesys.Void}
}

// NewPrelude builds the global scope available before any user
// declaration is checked.
func NewPrelude() *Prelude {
	console := &typesys.Object{Fields: []typesys.ObjectField{
		{Name: "log", Type: voidFn(typesys.Any)},
		{Name: "warn", Type: voidFn(typesys.Any)},
		{Name: "error", Type: voidFn(typesys.Any)},
		{Name: "debug", Type: voidFn(typesys.Any)},
	}}
	math := &typesys.Object{Fields: []typesys.ObjectField{
		{Name: "floor", Type: numFn(1)},
		{Name: "ceil", Type: numFn(1)},
		{Name: "round", Type: numFn(1)},
		{Name: "trunc", Type: numFn(1)},
		{Name: "abs", Type: numFn(1)},
		{Name: "sqrt", Type: numFn(1)},
		{Name: "pow", Type: numFn(2)},
		{Name: "min", Type: numFn(2)},
		{Name: "max", Type: numFn(2)},
		{Name: "random", Type: &typesys.Function{Return: typesys.Number}},
		{Name: "sin", Type: numFn(1)},
		{Name: "cos", Type: numFn(1)},
		{Name: "tan", Type: numFn(1)},
		{Name: "log", Type: numFn(1)},
		{Name: "log2", Type: numFn(1)},
		{Name: "exp", Type: numFn(1)},
		{Name: "PI", Type: typesys.Number},
		{Name: "E", Type: typesys.Number},
	}}
	jsonObj := &typesys.Object{Fields: []typesys.ObjectField{
		{Name: "stringify", Type: &typesys.Function{
			Params: []typesys.Param{{Type: typesys.Any}}, Return: typesys.String}},
		{Name: "parse", Type: &typesys.Function{
			Params: []typesys.Param{{Type: typesys.String}}, Return: typesys.Any}},
	}}
	process := &typesys.Object{Fields: []typesys.ObjectField{
		{Name: "argv", Type: &typesys.Array{Elem: typesys.String}},
		{Name: "env", Type: &typesys.Object{}},
		{Name: "exit", Type: voidFn(typesys.Number)},
	}}

	return &Prelude{Globals: map[string]typesys.Type{
		"console": console,
		"Math":    math,
		"JSON":    jsonObj,
		"process": process,
	}}
}
