// Package parser wraps tree-sitter for Rust source parsing.
package parser

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

// MaxFileSize is the largest source file the parser will accept (10 MB).
// Larger files are skipped to keep memory bounded.
const MaxFileSize = 10_000_000

// Parser wraps a tree-sitter parser configured for Rust.
type Parser struct {
	parser *sitter.Parser
}

// Result contains the parsed AST and the source it was parsed from.
type Result struct {
	Tree   *sitter.Tree
	Source []byte
	Path   string
}

// New creates a parser instance. Instances are not safe for concurrent use;
// create one per worker.
func New() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(rust.GetLanguage())
	return &Parser{parser: p}
}

// ParseFile reads and parses a Rust source file.
func (p *Parser) ParseFile(path string) (*Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(source) > MaxFileSize {
		return nil, fmt.Errorf("file too large (%d bytes, max %d)", len(source), MaxFileSize)
	}
	return p.Parse(source, path)
}

// Parse parses Rust source bytes.
func (p *Parser) Parse(source []byte, path string) (*Result, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	return &Result{Tree: tree, Source: source, Path: path}, nil
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}

// NodeVisitor is a function that visits AST nodes. Returning false stops
// descent into the node's children.
type NodeVisitor func(node *sitter.Node, source []byte) bool

// Walk traverses the AST calling visitor for each node.
func Walk(node *sitter.Node, source []byte, visitor NodeVisitor) {
	if node == nil {
		return
	}

	if !visitor(node, source) {
		return
	}

	for i := range int(node.ChildCount()) {
		Walk(node.Child(i), source, visitor)
	}
}

// FindNodesByType returns all nodes of a specific type.
func FindNodesByType(root *sitter.Node, source []byte, nodeType string) []*sitter.Node {
	var results []*sitter.Node
	Walk(root, source, func(n *sitter.Node, _ []byte) bool {
		if n.Type() == nodeType {
			results = append(results, n)
		}
		return true
	})
	return results
}

// NodeText extracts the source text for a node.
// Returns empty string if node is nil or byte offsets are out of bounds.
func NodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}

// HasErrors reports whether the parse tree contains ERROR nodes, meaning the
// file did not parse cleanly.
func HasErrors(result *Result) bool {
	return result.Tree.RootNode().HasError()
}

// FieldText returns the text of a named child field, or "".
func FieldText(node *sitter.Node, field string, source []byte) string {
	return NodeText(node.ChildByFieldName(field), source)
}
