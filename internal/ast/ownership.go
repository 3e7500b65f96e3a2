package ast

// OwnershipMode is attached to every parameter and every let/const
// binding. clone is an expression form, not a mode, so it has no
// entry here.
type OwnershipMode int

const (
	// Owned is the default: the binding owns its value and the value's
	// lifetime ends at scope exit or at the point it is moved.
	Owned OwnershipMode = iota
	// Ref is a borrow: the binding does not adjust refcount and must be
	// considered dropped before the owner can be moved again.
	Ref
	// MutRef is a borrow with permission to mutate.
	MutRef
)

func (m OwnershipMode) String() string {
	switch m {
	case Owned:
		return "owned"
	case Ref:
		return "ref"
	case MutRef:
		return "mut ref"
	default:
		return "owned"
	}
}
