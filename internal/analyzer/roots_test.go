package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFindRootModulesMainAndLib(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "main.rs"), "fn main() {}")
	writeFile(t, filepath.Join(dir, "src", "lib.rs"), "")

	roots := FindRootModules(dir)

	assert.Len(t, roots, 2)
	assert.True(t, roots["main"])
	assert.True(t, roots["lib"])
}

func TestFindRootModulesBinaries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "main.rs"), "fn main() {}")
	writeFile(t, filepath.Join(dir, "src", "bin", "cli.rs"), "fn main() {}")
	writeFile(t, filepath.Join(dir, "src", "bin", "server", "main.rs"), "fn main() {}")

	roots := FindRootModules(dir)

	assert.Len(t, roots, 3)
	assert.True(t, roots["cli"])
	assert.True(t, roots["server"])
}

func TestFindRootModulesNoSrc(t *testing.T) {
	roots := FindRootModules(t.TempDir())
	assert.Empty(t, roots)
}

func TestFindRootModulesMissingDir(t *testing.T) {
	roots := FindRootModules(filepath.Join(t.TempDir(), "nope"))
	assert.Empty(t, roots)
}

func TestIsWorkspaceRoot(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsWorkspaceRoot(dir))

	writeFile(t, filepath.Join(dir, "Cargo.toml"), "[workspace]\nmembers = [\"a\"]\n")
	assert.True(t, IsWorkspaceRoot(dir))
}

func TestWorkspaceMembers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Cargo.toml"), "[workspace]\n")
	writeFile(t, filepath.Join(dir, "crate_a", "Cargo.toml"), "[package]\n")
	writeFile(t, filepath.Join(dir, "crate_b", "Cargo.toml"), "[package]\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "not_a_crate"), 0o755))

	assert.Equal(t, []string{"crate_a", "crate_b"}, WorkspaceMembers(dir))
}
