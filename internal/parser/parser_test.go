package parser

import (
	"testing"

	"github.com/zacostudio/zaco-compiler/internal/ast"
	"github.com/zacostudio/zaco-compiler/internal/lexer"
)

func parseModule(t *testing.T, input string) *ast.Module {
	t.Helper()
	src := &ast.Source{Path: "t.zaco", Contents: input, ID: 0}
	l := lexer.New(input, 0)
	p := New(l, src)
	mod := p.ParseModule()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	return mod
}

func TestFunctionDeclarations(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected func(*testing.T, ast.Stmt)
	}{
		{
			name:  "no parameters, void return",
			input: "function hello(): void {}",
			expected: func(t *testing.T, stmt ast.Stmt) {
				fn, ok := stmt.(*ast.FuncDecl)
				if !ok {
					t.Fatalf("stmt is not *ast.FuncDecl, got %T", stmt)
				}
				if fn.Name != "hello" {
					t.Errorf("name = %q, want %q", fn.Name, "hello")
				}
				if len(fn.Params) != 0 {
					t.Errorf("params count = %d, want 0", len(fn.Params))
				}
			},
		},
		{
			name:  "single typed parameter",
			input: "function double(x: number): number { return x * 2 }",
			expected: func(t *testing.T, stmt ast.Stmt) {
				fn, ok := stmt.(*ast.FuncDecl)
				if !ok {
					t.Fatalf("stmt is not *ast.FuncDecl, got %T", stmt)
				}
				if len(fn.Params) != 1 || fn.Params[0].Name != "x" {
					t.Errorf("params = %+v, want one param named x", fn.Params)
				}
			},
		},
		{
			name:  "ref parameter mode",
			input: "function mutate(ref p: number): void {}",
			expected: func(t *testing.T, stmt ast.Stmt) {
				fn, ok := stmt.(*ast.FuncDecl)
				if !ok {
					t.Fatalf("stmt is not *ast.FuncDecl, got %T", stmt)
				}
				if fn.Params[0].Mode != ast.Ref {
					t.Errorf("param mode = %v, want ast.Ref", fn.Params[0].Mode)
				}
			},
		},
		{
			name:  "async declaration",
			input: "async function fetchIt(): Promise<number> { return 1 }",
			expected: func(t *testing.T, stmt ast.Stmt) {
				fn, ok := stmt.(*ast.FuncDecl)
				if !ok {
					t.Fatalf("stmt is not *ast.FuncDecl, got %T", stmt)
				}
				if !fn.IsAsync {
					t.Errorf("IsAsync = false, want true")
				}
			},
		},
		{
			name:  "exported declaration",
			input: "export function f(): void {}",
			expected: func(t *testing.T, stmt ast.Stmt) {
				fn, ok := stmt.(*ast.FuncDecl)
				if !ok {
					t.Fatalf("stmt is not *ast.FuncDecl, got %T", stmt)
				}
				if !fn.Exported {
					t.Errorf("Exported = false, want true")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := parseModule(t, tt.input)
			if len(mod.Stmts) != 1 {
				t.Fatalf("stmt count = %d, want 1", len(mod.Stmts))
			}
			tt.expected(t, mod.Stmts[0])
		})
	}
}

func TestClassDeclaration(t *testing.T) {
	mod := parseModule(t, `class Animal { name: string; constructor(name: string) { this.name = name } speak(): string { return "..." } }
class Dog extends Animal implements Speaker { override speak(): string { return "Woof" } }`)

	if len(mod.Stmts) != 2 {
		t.Fatalf("stmt count = %d, want 2", len(mod.Stmts))
	}

	animal, ok := mod.Stmts[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("first stmt is not *ast.ClassDecl, got %T", mod.Stmts[0])
	}
	if len(animal.Fields) != 1 || animal.Fields[0].Name != "name" {
		t.Errorf("fields = %+v, want one field named name", animal.Fields)
	}
	if len(animal.Methods) != 2 {
		t.Errorf("methods count = %d, want 2 (constructor, speak)", len(animal.Methods))
	}

	dog, ok := mod.Stmts[1].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("second stmt is not *ast.ClassDecl, got %T", mod.Stmts[1])
	}
	if dog.Extends != "Animal" {
		t.Errorf("Extends = %q, want Animal", dog.Extends)
	}
	if len(dog.Implements) != 1 || dog.Implements[0] != "Speaker" {
		t.Errorf("Implements = %v, want [Speaker]", dog.Implements)
	}
	if !dog.Methods[0].IsOverride {
		t.Errorf("speak() IsOverride = false, want true")
	}
}

func TestInterfaceDeclaration(t *testing.T) {
	mod := parseModule(t, `interface Speaker { speak(): string }`)
	iface, ok := mod.Stmts[0].(*ast.InterfaceDecl)
	if !ok {
		t.Fatalf("stmt is not *ast.InterfaceDecl, got %T", mod.Stmts[0])
	}
	if iface.Name != "Speaker" {
		t.Errorf("name = %q, want Speaker", iface.Name)
	}
}

func TestVarDeclOwnershipModes(t *testing.T) {
	tests := []struct {
		input string
		want  ast.OwnershipMode
	}{
		{"let a = 1", ast.Owned},
		{"let a = clone b", ast.Owned},
		{"let owned a = 1", ast.Owned},
	}
	for _, tt := range tests {
		mod := parseModule(t, tt.input)
		decl, ok := mod.Stmts[0].(*ast.VarDeclStmt)
		if !ok {
			t.Fatalf("%q: stmt is not *ast.VarDeclStmt, got %T", tt.input, mod.Stmts[0])
		}
		if decl.Mode != tt.want {
			t.Errorf("%q: mode = %v, want %v", tt.input, decl.Mode, tt.want)
		}
	}
}

func TestParseErrorsAreAccumulatedNotFatal(t *testing.T) {
	src := &ast.Source{Path: "bad.zaco", Contents: "let = ; function f(: void {}", ID: 0}
	l := lexer.New(src.Contents, 0)
	p := New(l, src)
	p.ParseModule()
	if len(p.Errors()) == 0 {
		t.Fatalf("expected parse errors for malformed source, got none")
	}
}
