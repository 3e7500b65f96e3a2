package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zacostudio/zaco-compiler/internal/ast"
	"github.com/zacostudio/zaco-compiler/internal/diag"
	"github.com/zacostudio/zaco-compiler/internal/lexer"
	"github.com/zacostudio/zaco-compiler/internal/parser"
)

// checkSource parses src and runs the checker over it, returning the
// accumulated diagnostics.
func checkSource(t *testing.T, src string) *diag.Bag {
	t.Helper()
	source := &ast.Source{Path: "t.zaco", Contents: src, ID: 0}
	l := lexer.New(src, 0)
	p := parser.New(l, source)
	mod := p.ParseModule()
	require.Empty(t, p.Errors(), "fixture must parse cleanly")

	bag := diag.NewBag(0)
	New(bag).CheckModule(mod)
	return bag
}

func codes(bag *diag.Bag) []string {
	var out []string
	for _, d := range bag.All() {
		out = append(out, d.Code)
	}
	return out
}

func TestCheckModuleAcceptsWellTypedProgram(t *testing.T) {
	bag := checkSource(t, `function add(a: number, b: number): number { return a + b }
console.log(add(1, 2))`)
	assert.False(t, bag.HasErrors(), "diagnostics: %v", codes(bag))
}

func TestUseAfterMoveIsReported(t *testing.T) {
	bag := checkSource(t, `class P { x: number; constructor(x: number) { this.x = x } }
let a = new P(1)
let b = a
console.log(a.x)`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, codes(bag), EUseAfterMove)
}

func TestCloneDoesNotMoveTheSource(t *testing.T) {
	bag := checkSource(t, `class P { x: number; constructor(x: number) { this.x = x } }
let a = new P(1)
let b = clone a
console.log(a.x)
console.log(b.x)`)
	assert.False(t, bag.HasErrors(), "diagnostics: %v", codes(bag))
}

func TestTypeMismatchOnAssignment(t *testing.T) {
	bag := checkSource(t, `let a: number = "oops"`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, codes(bag), ETypeMismatch)
}

func TestUnknownNameIsReported(t *testing.T) {
	bag := checkSource(t, `console.log(doesNotExist)`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, codes(bag), EUnknownName)
}

func TestDuplicateTopLevelDeclIsReported(t *testing.T) {
	bag := checkSource(t, `function f(): void {}
function f(): void {}`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, codes(bag), EDuplicateDecl)
}

func TestRefParamForbidsMoveInsideBody(t *testing.T) {
	bag := checkSource(t, `class P { x: number; constructor(x: number) { this.x = x } }
function consume(p: P): void {}
function borrow(ref p: P): void { consume(p) }`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, codes(bag), EMoveBorrowed)
}

func TestUnusedLocalWarns(t *testing.T) {
	bag := checkSource(t, `function f(): void { let unused = 1 }`)
	assert.False(t, bag.HasErrors())
	assert.Contains(t, codes(bag), EUnusedLocal)
}

func TestUnreachableCodeWarns(t *testing.T) {
	bag := checkSource(t, `function f(): number { return 1; let x = 2 }`)
	assert.Contains(t, codes(bag), EUnreachable)
}

func TestInterfaceSatisfactionAcceptsMatchingMethod(t *testing.T) {
	bag := checkSource(t, `interface Greeter { greet(): string }
class English implements Greeter { greet(): string { return "hi" } }`)
	assert.False(t, bag.HasErrors(), "diagnostics: %v", codes(bag))
}

func TestClassMustSatisfyDeclaredInterface(t *testing.T) {
	bag := checkSource(t, `interface Greeter { greet(): string }
class Mute implements Greeter { }`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, codes(bag), ENoMember)
}

func TestGenericClassTypeParamResolvesInsteadOfUnknownType(t *testing.T) {
	bag := checkSource(t, `class Box<T> {
  value: T
  constructor(value: T) { this.value = value }
  get(): T { return this.value }
}
let b = new Box(1)
console.log(b.get())`)
	assert.False(t, bag.HasErrors(), "diagnostics: %v", codes(bag))
	assert.NotContains(t, codes(bag), EUnknownType)
}

func TestGenericFunctionTypeParamResolvesInsteadOfUnknownType(t *testing.T) {
	bag := checkSource(t, `function identity<T>(x: T): T { return x }
let n = identity(5)
console.log(n)`)
	assert.False(t, bag.HasErrors(), "diagnostics: %v", codes(bag))
	assert.NotContains(t, codes(bag), EUnknownType)
}
