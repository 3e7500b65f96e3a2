package checker

import (
	"fmt"

	"github.com/zacostudio/zaco-compiler/internal/ast"
	"github.com/zacostudio/zaco-compiler/internal/diag"
)

// typeErrorf records a type-family diagnostic (E2xxx).
func (c *Checker) typeErrorf(sp ast.Span, code, format string, args ...interface{}) {
	c.bag.Add(diag.Diagnostic{Kind: diag.Type, Code: code, Span: sp, Message: fmt.Sprintf(format, args...)})
}

// ownershipErrorf records an ownership-family diagnostic (E3xxx).
func (c *Checker) ownershipErrorf(sp ast.Span, code, format string, args ...interface{}) {
	c.bag.Add(diag.Diagnostic{Kind: diag.Ownership, Code: code, Span: sp, Message: fmt.Sprintf(format, args...)})
}

// moduleErrorf records a module-family diagnostic (Mxxxx).
func (c *Checker) moduleErrorf(sp ast.Span, code, format string, args ...interface{}) {
	c.bag.Add(diag.Diagnostic{Kind: diag.Module, Code: code, Span: sp, Message: fmt.Sprintf(format, args...)})
}

func (c *Checker) warnf(sp ast.Span, code, format string, args ...interface{}) {
	c.bag.Add(diag.Diagnostic{Kind: diag.Warning, Code: code, Span: sp, Message: fmt.Sprintf(format, args...)})
}

// Error codes used across the checker.
const (
	ETypeMismatch    = "E2001"
	EUnknownName     = "E2002"
	ENotCallable     = "E2003"
	EArgCount        = "E2004"
	ENoMember        = "E2005"
	EUnknownType     = "E2006"
	ENotIterable     = "E2007"
	EBadCondition    = "E2008"
	EUseAfterMove    = "E3001"
	EMoveBorrowed    = "E3002"
	EMutateImmutable = "E3003"
	EAssignConst     = "E3004"
	EDuplicateDecl   = "M0001"
	EUnreachable     = "W0001"
	EUnusedLocal     = "W0002"
)
