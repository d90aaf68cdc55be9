package fixer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deadmod/deadmod/internal/extract"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func moduleMap(entries map[string]string) map[string]*extract.ModuleInfo {
	out := make(map[string]*extract.ModuleInfo, len(entries))
	for name, path := range entries {
		out[name] = extract.NewModuleInfo(path, name)
	}
	return out
}

func TestRemoveFileBasic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dead.rs")
	writeFile(t, path, "fn unused() {}")

	removed, err := RemoveFile(path, false)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.NoFileExists(t, path)
}

func TestRemoveFileDryRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dead.rs")
	writeFile(t, path, "fn unused() {}")

	removed, err := RemoveFile(path, true)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.FileExists(t, path)
}

func TestRemoveFileMissing(t *testing.T) {
	removed, err := RemoveFile(filepath.Join(t.TempDir(), "nope.rs"), false)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRemoveFileRefusesSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "important.txt")
	writeFile(t, target, "precious data")
	link := filepath.Join(dir, "link.rs")
	require.NoError(t, os.Symlink(target, link))

	removed, err := RemoveFile(link, false)

	assert.Error(t, err)
	assert.False(t, removed)
	// Neither the link nor its target may be touched.
	assert.FileExists(t, link)
	assert.Equal(t, "precious data", readFile(t, target))
}

func TestRemoveModDeclarationSimple(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib.rs")
	writeFile(t, lib, "mod utils;\nmod dead;\n\nfn main() {}\n")

	found, err := RemoveModDeclaration(lib, "dead", false)
	require.NoError(t, err)
	assert.True(t, found)

	content := readFile(t, lib)
	assert.Contains(t, content, "mod utils;")
	assert.NotContains(t, content, "mod dead;")
}

func TestRemoveModDeclarationVisibilityForms(t *testing.T) {
	cases := []string{
		"mod dead;",
		"pub mod dead;",
		"pub(crate) mod dead;",
		"pub(super) mod dead;",
		"pub(in crate::inner) mod dead;",
	}

	for _, decl := range cases {
		dir := t.TempDir()
		lib := filepath.Join(dir, "lib.rs")
		writeFile(t, lib, "mod keep;\n"+decl+"\n")

		found, err := RemoveModDeclaration(lib, "dead", false)
		require.NoError(t, err, decl)
		assert.True(t, found, decl)

		content := readFile(t, lib)
		assert.NotContains(t, content, decl, decl)
		assert.Contains(t, content, "mod keep;")
	}
}

func TestRemoveModDeclarationWithAttributes(t *testing.T) {
	dir := t.TempDir()
	parent := filepath.Join(dir, "parent.rs")
	writeFile(t, parent, "#[cfg(test)]\npub(crate) mod dead;\nmod keep;\n")

	found, err := RemoveModDeclaration(parent, "dead", false)
	require.NoError(t, err)
	assert.True(t, found)

	content := readFile(t, parent)
	assert.NotContains(t, content, "mod dead;")
	assert.NotContains(t, content, "#[cfg(test)]")
	assert.Contains(t, content, "mod keep;")
}

func TestRemoveModDeclarationNoPartialNameMatch(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib.rs")
	writeFile(t, lib, "mod deadline;\nmod dead;\n")

	found, err := RemoveModDeclaration(lib, "dead", false)
	require.NoError(t, err)
	assert.True(t, found)

	content := readFile(t, lib)
	assert.Contains(t, content, "mod deadline;")
	assert.NotContains(t, content, "mod dead;\n")
}

func TestRemoveModDeclarationInlineModuleUntouched(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib.rs")
	original := "mod dead {\n    fn x() {}\n}\n"
	writeFile(t, lib, original)

	found, err := RemoveModDeclaration(lib, "dead", false)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, original, readFile(t, lib))
}

func TestRemoveModDeclarationDryRunUnchanged(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib.rs")
	original := "mod dead;\nmod keep;\n"
	writeFile(t, lib, original)

	found, err := RemoveModDeclaration(lib, "dead", true)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, original, readFile(t, lib))
}

func TestRemoveModDeclarationCollapsesBlankLines(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib.rs")
	writeFile(t, lib, "mod keep;\n\n\nmod dead;\n\n\nfn main() {}\n")

	_, err := RemoveModDeclaration(lib, "dead", false)
	require.NoError(t, err)

	content := readFile(t, lib)
	assert.NotContains(t, content, "\n\n\n")
	assert.Contains(t, content, "fn main()")
}

func TestPruneEmptyDirsUpward(t *testing.T) {
	dir := t.TempDir()
	deep := filepath.Join(dir, "src", "a", "b", "c")
	require.NoError(t, os.MkdirAll(deep, 0o755))

	removed := PruneEmptyDirs(deep, dir, false)

	assert.Len(t, removed, 3)
	assert.NoDirExists(t, filepath.Join(dir, "src", "a"))
	// src itself is never removed.
	assert.DirExists(t, filepath.Join(dir, "src"))
}

func TestPruneEmptyDirsStopsAtNonEmpty(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "src", "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	writeFile(t, filepath.Join(dir, "src", "a", "keep.rs"), "")

	removed := PruneEmptyDirs(sub, dir, false)

	assert.Len(t, removed, 1)
	assert.DirExists(t, filepath.Join(dir, "src", "a"))
}

func TestPruneEmptyDirsDryRun(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "src", "empty")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	removed := PruneEmptyDirs(sub, dir, true)

	assert.Len(t, removed, 1)
	assert.DirExists(t, sub)
}

func TestFixIntegration(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeFile(t, filepath.Join(src, "main.rs"), "mod utils;\nmod dead;\n\nfn main() {}\n")
	writeFile(t, filepath.Join(src, "utils.rs"), "pub fn helper() {}\n")
	writeFile(t, filepath.Join(src, "dead.rs"), "pub fn unused() {}\n")

	modules := moduleMap(map[string]string{
		"main":  filepath.Join(src, "main.rs"),
		"utils": filepath.Join(src, "utils.rs"),
		"dead":  filepath.Join(src, "dead.rs"),
	})
	modules["main"].Refs["utils"] = true
	modules["main"].Refs["dead"] = true
	modules["main"].ModDecls["utils"] = extract.VisPrivate
	modules["main"].ModDecls["dead"] = extract.VisPrivate

	result := Fix(dir, []string{"dead"}, modules, false)

	assert.Empty(t, result.Errors)
	assert.Len(t, result.RemovedFiles, 1)
	assert.NoFileExists(t, filepath.Join(src, "dead.rs"))
	assert.FileExists(t, filepath.Join(src, "utils.rs"))

	content := readFile(t, filepath.Join(src, "main.rs"))
	assert.Contains(t, content, "mod utils;")
	assert.NotContains(t, content, "mod dead;")
}

func TestFixAttributedDeclaration(t *testing.T) {
	// src/parent.rs declares a cfg-gated dead module; both the declaration
	// and the preceding attribute must go.
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeFile(t, filepath.Join(src, "parent.rs"), "#[cfg(test)]\npub(crate) mod dead;\nmod keep;\n")
	writeFile(t, filepath.Join(src, "dead.rs"), "")
	writeFile(t, filepath.Join(src, "keep.rs"), "")

	modules := moduleMap(map[string]string{
		"parent": filepath.Join(src, "parent.rs"),
		"dead":   filepath.Join(src, "dead.rs"),
		"keep":   filepath.Join(src, "keep.rs"),
	})
	modules["parent"].Refs["dead"] = true
	modules["parent"].ModDecls["dead"] = extract.VisCrate

	result := Fix(dir, []string{"dead"}, modules, false)

	assert.Empty(t, result.Errors)
	assert.NoFileExists(t, filepath.Join(src, "dead.rs"))
	content := readFile(t, filepath.Join(src, "parent.rs"))
	assert.NotContains(t, content, "mod dead;")
	assert.NotContains(t, content, "#[cfg(test)]")
	assert.Contains(t, content, "mod keep;")
}

func TestFixSymlinkRecordedAsError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	target := filepath.Join(dir, "outside.txt")
	writeFile(t, target, "do not delete")
	link := filepath.Join(src, "link.rs")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.Symlink(target, link))

	modules := moduleMap(map[string]string{"link": link})

	result := Fix(dir, []string{"link"}, modules, false)

	assert.Len(t, result.Errors, 1)
	assert.Empty(t, result.RemovedFiles)
	assert.FileExists(t, link)
	assert.Equal(t, "do not delete", readFile(t, target))
}

func TestFixDryRunLeavesTreeByteIdentical(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeFile(t, filepath.Join(src, "main.rs"), "mod dead;\nfn main() {}\n")
	writeFile(t, filepath.Join(src, "dead.rs"), "pub fn unused() {}\n")

	before := snapshotTree(t, dir)

	modules := moduleMap(map[string]string{
		"main": filepath.Join(src, "main.rs"),
		"dead": filepath.Join(src, "dead.rs"),
	})
	modules["main"].Refs["dead"] = true

	result := Fix(dir, []string{"dead"}, modules, true)

	assert.True(t, result.HasFindings())
	assert.Equal(t, before, snapshotTree(t, dir))
}

// snapshotTree maps every file under root to its content.
func snapshotTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		require.NoError(t, err)
		if info.Mode().IsRegular() {
			out[path] = readFile(t, path)
		}
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestFixEmptyDeadList(t *testing.T) {
	result := Fix(t.TempDir(), nil, nil, false)
	assert.False(t, result.HasFindings())
	assert.Empty(t, result.Errors)
}
