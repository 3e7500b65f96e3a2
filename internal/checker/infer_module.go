package checker

import "strings"

// warnUnused reports an unused-local warning for every binding
// declared directly in scope that was never read, skipping names
// prefixed with `_` (the source language's conventional
// intentionally-unused marker).
func (c *Checker) warnUnused(scope *Scope) {
	for name, b := range scope.Own() {
		if b.Used || strings.HasPrefix(name, "_") {
			continue
		}
		c.warnf(b.Span, EUnusedLocal, "%q is declared but never used", name)
	}
}
