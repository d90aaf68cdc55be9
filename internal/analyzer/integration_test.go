package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deadmod/deadmod/internal/cache"
	"github.com/deadmod/deadmod/internal/extract"
	"github.com/deadmod/deadmod/internal/parser"
	"github.com/deadmod/deadmod/internal/scanner"
)

// End-to-end over a real crate layout: scan, parse, build, reach, report.
func TestEndToEndModuleChain(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "main.rs"), "mod a;")
	writeFile(t, filepath.Join(dir, "src", "a.rs"), "mod b;")
	writeFile(t, filepath.Join(dir, "src", "a", "b.rs"), "")
	writeFile(t, filepath.Join(dir, "src", "c.rs"), "")

	files, err := scanner.New().Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 4)

	modules, _ := cache.IncrementalParse(files, nil, nil)
	roots := FindRootModules(dir)
	require.True(t, roots["main"])

	result := AnalyzeModules(modules, roots, nil)

	assert.ElementsMatch(t, []string{"main", "a", "b"}, result.Reachable)
	assert.Equal(t, []string{"c"}, result.Dead)
}

// Call-graph end to end: a public helper imported by lib.rs stays alive, its
// unused sibling is reported dead.
func TestEndToEndDeadFunction(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "lib.rs"), "use crate::util::helper;\nmod util;\n")
	writeFile(t, filepath.Join(dir, "src", "util.rs"), "pub fn helper() {}\npub fn unused() {}\n")

	files, err := scanner.New().Scan(dir)
	require.NoError(t, err)

	extracted := extractFiles(t, files)
	roots := FindRootModules(dir)

	result := AnalyzeFunctions(extracted, roots, nil)

	require.Equal(t, 1, result.DeadFunctions)
	assert.Equal(t, "util::unused", result.Dead[0].FullPath)
	assert.Equal(t, "pub", result.Dead[0].Visibility)
}

// Empty crate root: no roots, no dead, no error.
func TestEndToEndEmptyCrate(t *testing.T) {
	dir := t.TempDir()

	files, err := scanner.New().Scan(dir)
	require.NoError(t, err)
	assert.Empty(t, files)

	modules, _ := cache.IncrementalParse(files, nil, nil)
	result := AnalyzeModules(modules, FindRootModules(dir), nil)

	assert.Empty(t, result.Dead)
	assert.Empty(t, result.Roots)
}

// Lone lib.rs with no declarations: nothing is dead.
func TestEndToEndLoneLib(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "lib.rs"), "")

	files, err := scanner.New().Scan(dir)
	require.NoError(t, err)

	modules, _ := cache.IncrementalParse(files, nil, nil)
	result := AnalyzeModules(modules, FindRootModules(dir), nil)

	assert.Empty(t, result.Dead)
	assert.Equal(t, []string{"lib"}, result.Reachable)
}

// Dead match arm scenario over real source.
func TestEndToEndMatchArms(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "lib.rs"), `
pub fn f(x: Foo) -> u8 {
    match x {
        Foo::A => 1,
        _ => 2,
        Foo::B => 3,
    }
}
`)

	files, err := scanner.New().Scan(dir)
	require.NoError(t, err)

	result := AnalyzeMatchArms(extractFiles(t, files), nil)

	require.Equal(t, 2, result.DeadCount)
	reasons := map[string]string{}
	for _, d := range result.Dead {
		reasons[d.Pattern] = d.Reason
	}
	assert.Equal(t, ReasonMaskedByWildcard, reasons["Foo::B"])
	assert.Equal(t, ReasonNonFinalWildcard, reasons["_"])
}

func extractFiles(t *testing.T, files []string) map[string]*extract.Extracted {
	t.Helper()
	p := parser.New()
	defer p.Close()

	out := make(map[string]*extract.Extracted, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		require.NoError(t, err)
		ex, err := extract.Source(p, data, f)
		require.NoError(t, err)
		out[ex.Path] = ex
	}
	return out
}
