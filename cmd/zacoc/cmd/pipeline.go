package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zacostudio/zaco-compiler/internal/ast"
	"github.com/zacostudio/zaco-compiler/internal/checker"
	"github.com/zacostudio/zaco-compiler/internal/diag"
	"github.com/zacostudio/zaco-compiler/internal/lexer"
	"github.com/zacostudio/zaco-compiler/internal/linker"
	"github.com/zacostudio/zaco-compiler/internal/lower"
	"github.com/zacostudio/zaco-compiler/internal/parser"
	"github.com/zacostudio/zaco-compiler/internal/projectcfg"
	"github.com/zacostudio/zaco-compiler/internal/runtimeabi"
)

// unit is one discovered module carried through parsing, checking and
// lowering; relPath is its project-relative path and also its
// linker.Unit key.
type unit struct {
	relPath string
	mod     *ast.Module
}

// parseProject discovers every source module under dir per cfg and
// parses each into an ast.Module, reporting lexical and syntax errors
// into bag. It keeps going after a per-file error so unrelated modules
// still get checked in the same run.
func parseProject(dir string, cfg *projectcfg.Config, bag *diag.Bag) ([]unit, error) {
	paths, err := discoverSources(dir, cfg)
	if err != nil {
		return nil, err
	}
	units := make([]unit, 0, len(paths))
	for i, rel := range paths {
		data, err := os.ReadFile(filepath.Join(dir, rel))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", rel, err)
		}
		src := &ast.Source{Path: rel, Contents: string(data), ID: i}
		l := lexer.New(src.Contents, i)
		p := parser.New(l, src)
		mod := p.ParseModule()

		for _, e := range l.Errors() {
			bag.Add(diag.Diagnostic{Kind: diag.Lexical, Code: "E0001", Span: e.Span, Message: e.Message})
		}
		for _, e := range p.Errors() {
			bag.Add(diag.Diagnostic{Kind: diag.Syntax, Code: "E1000", Span: e.Span, Message: e.Message})
		}
		units = append(units, unit{relPath: rel, mod: mod})
	}
	return units, nil
}

// checkUnits type- and ownership-checks every parsed module
// independently; each module gets its own Checker since classes and
// bindings do not currently cross a module boundary except through
// the closed import-name mechanism lowering resolves later.
func checkUnits(units []unit, bag *diag.Bag) {
	for _, u := range units {
		c := checker.New(bag)
		c.CheckModule(u.mod)
	}
}

// lowerUnits lowers every checked module to IR and derives each
// module's project-local import list for the linker, skipping host
// module imports (fs, path, os, ...) which resolve against the frozen
// runtime ABI instead of another unit.
func lowerUnits(units []unit) []*linker.Unit {
	out := make([]*linker.Unit, 0, len(units))
	for _, u := range units {
		l := lower.New(u.relPath)
		irMod := l.Module(u.mod)

		var imports []string
		for _, st := range u.mod.Stmts {
			if imp, ok := st.(*ast.ImportDecl); ok && !runtimeabi.IsImportable(imp.Module) {
				imports = append(imports, resolveImportPath(u.relPath, imp.Module))
			}
		}
		out = append(out, &linker.Unit{Path: u.relPath, Module: irMod, Imports: imports})
	}
	return out
}

// resolveImportPath turns a relative import specifier written in
// fromPath into the discovered-module path it names, mirroring Node's
// extensionless relative-import convention.
func resolveImportPath(fromPath, spec string) string {
	if !strings.HasPrefix(spec, ".") {
		return spec
	}
	joined := filepath.Join(filepath.Dir(fromPath), spec)
	if !strings.HasSuffix(joined, ".zaco") {
		joined += ".zaco"
	}
	return joined
}

func entryRelPath(cfg *projectcfg.Config) string {
	return cfg.Entry
}

// resolveMaxErrors lets --max-errors override the project manifest's
// maxErrors; -1 (the flag default) means "use the manifest value".
func resolveMaxErrors(cmd *cobra.Command, cfg *projectcfg.Config) int {
	flagVal, _ := cmd.Flags().GetInt("max-errors")
	if flagVal < 0 {
		return cfg.MaxErrors
	}
	return flagVal
}
