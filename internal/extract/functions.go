package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/deadmod/deadmod/internal/parser"
)

// collectFunctions gathers every function definition: free functions, impl
// methods, trait methods with default bodies, and functions nested in inline
// modules. Full paths carry the enclosing module path derived from the file
// position, so `impl S { fn m }` in src/db.rs becomes "db::S::m".
func collectFunctions(root *sitter.Node, src []byte, ex *Extracted, ctx ModulePathContext) {
	parser.Walk(root, src, func(n *sitter.Node, _ []byte) bool {
		if n.Type() != "function_item" {
			return true
		}

		name := parser.FieldText(n, "name", src)
		if name == "" {
			return true
		}

		stack := append(append([]string(nil), ctx.Segments...), moduleStackOf(n, src)...)
		parentType := ""
		if owner := enclosingImplOrTrait(n, src); owner != "" {
			stack = append(stack, owner)
			if isInsideImpl(n) {
				parentType = owner
			}
		}

		ex.Functions = append(ex.Functions, FunctionDef{
			Name:       name,
			FullPath:   joinPath(stack, name),
			File:       ex.Path,
			Line:       lineOf(n),
			IsMethod:   hasSelfParameter(n),
			ParentType: parentType,
			Visibility: visibilityOf(n, src),
			IsTest:     hasAttribute(n, src, "test", "bench"),
		})
		return true
	})
}

// enclosingImplOrTrait returns the nearest impl type or trait name wrapping a
// node, or "".
func enclosingImplOrTrait(n *sitter.Node, src []byte) string {
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case "impl_item":
			// `impl Trait for Type` paths under the trait name; inherent
			// impls under the type name.
			if traitNode := p.ChildByFieldName("trait"); traitNode != nil {
				return lastPathSegment(parser.NodeText(traitNode, src))
			}
			return typeBaseName(parser.FieldText(p, "type", src))
		case "trait_item":
			return parser.FieldText(p, "name", src)
		case "function_item":
			// Nested function: the outer function is the namespace owner
			// only through the module stack, keep climbing.
			continue
		}
	}
	return ""
}

func isInsideImpl(n *sitter.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case "impl_item":
			return true
		case "trait_item":
			return false
		}
	}
	return false
}

func hasSelfParameter(fn *sitter.Node) bool {
	params := fn.ChildByFieldName("parameters")
	if params == nil {
		return false
	}
	for i := range int(params.NamedChildCount()) {
		if params.NamedChild(i).Type() == "self_parameter" {
			return true
		}
	}
	return false
}

// typeBaseName strips generic arguments and references from a type text:
// "&mut Foo<T>" -> "Foo".
func typeBaseName(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimLeft(text, "&")
	text = strings.TrimSpace(strings.TrimPrefix(text, "mut "))
	if i := strings.IndexByte(text, '<'); i >= 0 {
		text = text[:i]
	}
	return lastPathSegment(text)
}

func lastPathSegment(text string) string {
	if i := strings.LastIndex(text, "::"); i >= 0 {
		return text[i+2:]
	}
	return text
}
