package ir

import (
	"fmt"
	"strings"
)

// StructDef is one lowered class/closure-environment layout.
type StructDef struct {
	ID     int
	Name   string
	Fields []Type
	// Vtable holds function IDs for virtual dispatch, indexed by slot;
	// empty for non-class (closure environment) structs.
	Vtable []int
}

// Module is one compilation unit's worth of lowered IR: its
// functions, externs, and struct table, plus the monotonic ID
// counters the linker offsets across modules.
type Module struct {
	Name    string
	Funcs   []*Function
	Externs []*Extern
	Structs []*StructDef

	NextFuncID   int
	NextStructID int
}

// NewModule creates an empty Module ready for a lowerer to populate.
func NewModule(name string) *Module {
	return &Module{Name: name}
}

// NewFunc allocates the next function ID and appends a Function.
func (m *Module) NewFunc(name string) *Function {
	f := &Function{ID: m.NextFuncID, Name: name}
	m.NextFuncID++
	m.Funcs = append(m.Funcs, f)
	return f
}

// NewStruct allocates the next struct ID and appends a StructDef.
func (m *Module) NewStruct(name string) *StructDef {
	s := &StructDef{ID: m.NextStructID, Name: name}
	m.NextStructID++
	m.Structs = append(m.Structs, s)
	return s
}

// FuncByID returns the function with the given ID, or nil.
func (m *Module) FuncByID(id int) *Function {
	for _, f := range m.Funcs {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// Validate checks the structural invariants a backend relies on: IDs
// are dense from zero, and every block is terminated.
func (m *Module) Validate() error {
	for i, f := range m.Funcs {
		if f.ID != i {
			return fmt.Errorf("function ID gap: want %d, got %d (%s)", i, f.ID, f.Name)
		}
		for _, b := range f.Blocks {
			if !b.Terminated() {
				return fmt.Errorf("function %s: block %d is not terminated", f.Name, b.ID)
			}
		}
	}
	for i, s := range m.Structs {
		if s.ID != i {
			return fmt.Errorf("struct ID gap: want %d, got %d (%s)", i, s.ID, s.Name)
		}
	}
	return nil
}

// String renders the module in the textual IR form (see irtext for
// the round-trip parser of this same grammar).
func (m *Module) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "module %s\n", m.Name)
	for _, s := range m.Structs {
		fmt.Fprintf(&sb, "struct %d %s {\n", s.ID, s.Name)
		for i, f := range s.Fields {
			fmt.Fprintf(&sb, "  %d: %s\n", i, f.String())
		}
		sb.WriteString("}\n")
	}
	for _, e := range m.Externs {
		fmt.Fprintf(&sb, "extern %s\n", e.Name)
	}
	for _, f := range m.Funcs {
		writeFunc(&sb, f)
	}
	return sb.String()
}

func writeFunc(sb *strings.Builder, f *Function) {
	vis := "private"
	if f.IsPublic {
		vis = "public"
	}
	fmt.Fprintf(sb, "func %d %s %s -> %s {\n", f.ID, f.Name, vis, f.Return.String())
	for _, b := range f.Blocks {
		if len(b.Params) == 0 {
			fmt.Fprintf(sb, "bb%d:\n", b.ID)
		} else {
			fmt.Fprintf(sb, "bb%d(%s):\n", b.ID, joinBlockParams(b.Params))
		}
		for _, instr := range b.Instrs {
			fmt.Fprintf(sb, "  %s\n", instr.String())
		}
	}
	sb.WriteString("}\n")
}
