// Package diag implements accumulated, phase-tagged diagnostics:
// lexical, syntax, type, ownership, and module errors, plus warnings.
package diag

import "github.com/zacostudio/zaco-compiler/internal/ast"

// Kind tags which phase produced a Diagnostic.
type Kind string

const (
	Lexical   Kind = "lexical"
	Syntax    Kind = "syntax"
	Type      Kind = "type"
	Ownership Kind = "ownership"
	Module    Kind = "module"
	Warning   Kind = "warning"
)

// Diagnostic is one compiler error or warning, code-tagged per the
// E0001/E1000/E2000/E3000/M0000/W0000 families.
type Diagnostic struct {
	Kind    Kind
	Code    string
	Message string
	Span    ast.Span
	Notes   []string
}

// Bag accumulates diagnostics across a compilation run. Errors are
// collected rather than fatal; lowering refuses to run while the bag
// holds any error-kind diagnostic.
type Bag struct {
	items     []Diagnostic
	maxItems  int // 0 means unbounded
	overflow  int
	noted     bool
}

// NewBag creates a Bag. maxErrors of 0 disables the cutoff.
func NewBag(maxErrors int) *Bag {
	return &Bag{maxItems: maxErrors}
}

func (b *Bag) Add(d Diagnostic) {
	if b.maxItems > 0 && b.ErrorCount() >= b.maxItems {
		b.overflow++
		if !b.noted {
			b.noted = true
			b.items = append(b.items, Diagnostic{
				Kind: Warning, Code: "W0000",
				Message: "error threshold reached; remaining checks were skipped",
			})
		}
		return
	}
	b.items = append(b.items, d)
}

// Overflowed reports how many diagnostics were dropped once the
// configured MaxErrors cutoff was reached.
func (b *Bag) Overflowed() int { return b.overflow }

func (b *Bag) Errorf(kind Kind, code string, span ast.Span, msg string) {
	b.Add(Diagnostic{Kind: kind, Code: code, Message: msg, Span: span})
}

// All returns every accumulated diagnostic, in the order added.
func (b *Bag) All() []Diagnostic { return b.items }

// HasErrors reports whether any non-warning diagnostic was recorded.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Kind != Warning {
			return true
		}
	}
	return false
}

func (b *Bag) ErrorCount() int {
	n := 0
	for _, d := range b.items {
		if d.Kind != Warning {
			n++
		}
	}
	return n
}

func (b *Bag) WarningCount() int {
	n := 0
	for _, d := range b.items {
		if d.Kind == Warning {
			n++
		}
	}
	return n
}
