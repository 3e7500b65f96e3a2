package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zacostudio/zaco-compiler/internal/diag"
	"github.com/zacostudio/zaco-compiler/internal/projectcfg"
)

// writeProject lays out files[relPath] = contents under a fresh temp
// directory and returns its path.
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, contents := range files {
		full := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(contents), 0o644))
	}
	return dir
}

func TestDiscoverSourcesNaturalOrder(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"file2.zaco":  "",
		"file10.zaco": "",
		"main.zaco":   "",
	})
	paths, err := discoverSources(dir, &projectcfg.Config{SourceDirs: []string{"."}})
	require.NoError(t, err)
	assert.Equal(t, []string{"file2.zaco", "file10.zaco", "main.zaco"}, paths)
}

func TestParseProjectReportsLexicalAndSyntaxErrors(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"main.zaco": "function f( : void {}",
	})
	bag := diag.NewBag(0)
	units, err := parseProject(dir, &projectcfg.Config{SourceDirs: []string{"."}}, bag)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.True(t, bag.HasErrors(), "malformed source must produce at least one diagnostic")
}

func TestParseCheckLowerPipelineOnValidProgram(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"main.zaco": `function add(a: number, b: number): number { return a + b }
console.log(add(1, 2))`,
	})
	bag := diag.NewBag(0)
	units, err := parseProject(dir, &projectcfg.Config{SourceDirs: []string{"."}}, bag)
	require.NoError(t, err)
	checkUnits(units, bag)
	require.False(t, bag.HasErrors(), "diagnostics: %v", bag.All())

	linked := lowerUnits(units)
	require.Len(t, linked, 1)
	assert.NoError(t, linked[0].Module.Validate())
}

func TestResolveImportPathRelativeGetsExtensionAndDir(t *testing.T) {
	got := resolveImportPath("pkg/main.zaco", "./helper")
	assert.Equal(t, "pkg/helper.zaco", got)
}

func TestResolveImportPathHostModuleIsUnchanged(t *testing.T) {
	got := resolveImportPath("pkg/main.zaco", "fs")
	assert.Equal(t, "fs", got)
}

func TestLowerUnitsSkipsHostModuleImports(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"main.zaco": `import { readFile } from "fs"
console.log(1)`,
	})
	bag := diag.NewBag(0)
	units, err := parseProject(dir, &projectcfg.Config{SourceDirs: []string{"."}}, bag)
	require.NoError(t, err)
	checkUnits(units, bag)

	linked := lowerUnits(units)
	require.Len(t, linked, 1)
	assert.Empty(t, linked[0].Imports, "host module imports must not appear in the linker's project-local import list")
}
