package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleSource(t *testing.T) {
	p := New()
	defer p.Close()

	result, err := p.Parse([]byte("fn main() {}\n"), "src/main.rs")
	require.NoError(t, err)

	root := result.Tree.RootNode()
	assert.Equal(t, "source_file", root.Type())
	assert.False(t, HasErrors(result))
}

func TestParseBrokenSourceHasErrors(t *testing.T) {
	p := New()
	defer p.Close()

	result, err := p.Parse([]byte("fn broken( {{{"), "src/broken.rs")
	require.NoError(t, err)
	assert.True(t, HasErrors(result))
}

func TestParseFileMissing(t *testing.T) {
	p := New()
	defer p.Close()

	_, err := p.ParseFile(filepath.Join(t.TempDir(), "nope.rs"))
	assert.Error(t, err)
}

func TestParseFileTooLarge(t *testing.T) {
	p := New()
	defer p.Close()

	path := filepath.Join(t.TempDir(), "big.rs")
	require.NoError(t, os.WriteFile(path, make([]byte, MaxFileSize+1), 0o644))

	_, err := p.ParseFile(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestFindNodesByType(t *testing.T) {
	p := New()
	defer p.Close()

	source := []byte("mod a;\nmod b;\nfn f() {}\n")
	result, err := p.Parse(source, "src/lib.rs")
	require.NoError(t, err)

	mods := FindNodesByType(result.Tree.RootNode(), source, "mod_item")
	assert.Len(t, mods, 2)

	fns := FindNodesByType(result.Tree.RootNode(), source, "function_item")
	require.Len(t, fns, 1)
	assert.Equal(t, "f", FieldText(fns[0], "name", source))
}

func TestNodeTextBounds(t *testing.T) {
	assert.Equal(t, "", NodeText(nil, []byte("x")))
}
