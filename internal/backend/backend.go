// Package backend defines the boundary between the linked IR module
// and a concrete code generator. The compiler core ships no real
// backend; Noop exists so the pipeline is exercisable end to end.
package backend

import "github.com/zacostudio/zaco-compiler/internal/ir"

// Backend consumes a fully linked ir.Module and produces output bytes
// (object code, a textual form, whatever the concrete implementation
// targets).
type Backend interface {
	Name() string
	Emit(mod *ir.Module) ([]byte, error)
}

// Noop is a Backend that validates the module's structural invariants
// (IDs dense, every block terminated) and emits its pretty-printed
// text form instead of real code.
type Noop struct{}

func (Noop) Name() string { return "noop" }

func (Noop) Emit(mod *ir.Module) ([]byte, error) {
	if err := mod.Validate(); err != nil {
		return nil, err
	}
	return []byte(mod.String()), nil
}
