package extract

import (
	"log/slog"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/deadmod/deadmod/internal/parser"
)

// File extracts every analysis mode from a parsed Rust file.
//
// A file that failed to parse cleanly still yields a record with the module
// entry present and empty reference sets, so analysis proceeds.
func File(result *parser.Result) *Extracted {
	path := NormalizePath(result.Path)
	ex := newExtracted(path)

	if result.Tree == nil {
		return ex
	}
	root := result.Tree.RootNode()
	if root == nil {
		return ex
	}
	if parser.HasErrors(result) {
		slog.Warn("syntax errors in file, using empty reference set", "file", path)
		return ex
	}

	src := result.Source
	ctx := ContextFromFilePath(path)

	collectModuleRefs(root, src, ex, ctx)
	collectFunctions(root, src, ex, ctx)
	collectCalls(root, src, ex, ctx)
	collectTraits(root, src, ex, ctx)
	collectGenerics(root, src, ex)
	collectMacros(root, src, ex)
	collectConstants(root, src, ex)
	collectVariants(root, src, ex)
	collectMatchArms(root, src, ex)

	return ex
}

// Source extracts from raw bytes, for callers that already hold content.
func Source(p *parser.Parser, source []byte, path string) (*Extracted, error) {
	result, err := p.Parse(source, path)
	if err != nil {
		return nil, err
	}
	return File(result), nil
}

// NormalizePath converts a path to forward-slash form regardless of the host
// separator, so records and cache keys are stable across platforms. The
// transformation is idempotent.
func NormalizePath(path string) string {
	return strings.ReplaceAll(filepath.ToSlash(path), `\`, "/")
}

func fileStem(path string) string {
	norm := NormalizePath(path)
	if i := strings.LastIndex(norm, "/"); i >= 0 {
		norm = norm[i+1:]
	}
	return strings.TrimSuffix(norm, filepath.Ext(norm))
}

func lineOf(n *sitter.Node) uint32 {
	return n.StartPoint().Row + 1
}

// visibilityOf reads the visibility_modifier child of an item, if any.
func visibilityOf(n *sitter.Node, source []byte) Visibility {
	for i := range int(n.ChildCount()) {
		c := n.Child(i)
		if c.Type() != "visibility_modifier" {
			continue
		}
		text := parser.NodeText(c, source)
		switch {
		case text == "pub":
			return VisPublic
		case strings.HasPrefix(text, "pub(crate"):
			return VisCrate
		case strings.HasPrefix(text, "pub(super"):
			return VisSuper
		case strings.HasPrefix(text, "pub("):
			return VisIn
		}
	}
	return VisPrivate
}

// precedingAttributes collects the attribute_item texts immediately before an
// item, e.g. ["#[cfg(test)]", "#[test]"].
func precedingAttributes(n *sitter.Node, source []byte) []string {
	var attrs []string
	for sib := n.PrevNamedSibling(); sib != nil; sib = sib.PrevNamedSibling() {
		if sib.Type() != "attribute_item" {
			break
		}
		attrs = append(attrs, parser.NodeText(sib, source))
	}
	return attrs
}

func hasAttribute(n *sitter.Node, source []byte, names ...string) bool {
	for _, attr := range precedingAttributes(n, source) {
		for _, want := range names {
			if strings.Contains(attr, want) {
				return true
			}
		}
	}
	return false
}

// moduleStackOf walks up from a node collecting enclosing inline module
// names, outermost first.
func moduleStackOf(n *sitter.Node, source []byte) []string {
	var rev []string
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Type() == "mod_item" {
			if name := parser.FieldText(p, "name", source); name != "" {
				rev = append(rev, name)
			}
		}
	}
	// Reverse to outermost-first order.
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

func joinPath(stack []string, name string) string {
	if len(stack) == 0 {
		return name
	}
	return strings.Join(stack, "::") + "::" + name
}
