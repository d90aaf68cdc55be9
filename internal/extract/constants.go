package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/deadmod/deadmod/internal/parser"
)

// collectConstants gathers const and static definitions, including those in
// impl blocks, plus the identifier usages that reference them.
func collectConstants(root *sitter.Node, src []byte, ex *Extracted) {
	parser.Walk(root, src, func(n *sitter.Node, _ []byte) bool {
		switch n.Type() {
		case "const_item", "static_item":
			name := parser.FieldText(n, "name", src)
			if name == "" {
				return true
			}

			implType := ""
			for p := n.Parent(); p != nil; p = p.Parent() {
				if p.Type() == "impl_item" {
					implType = typeBaseName(parser.FieldText(p, "type", src))
					break
				}
			}

			ex.Constants = append(ex.Constants, ConstDef{
				Name:       name,
				File:       ex.Path,
				Line:       lineOf(n),
				IsStatic:   n.Type() == "static_item",
				IsMutable:  hasChildOfType(n, "mutable_specifier"),
				Visibility: visibilityOf(n, src),
				ModulePath: strings.Join(moduleStackOf(n, src), "::"),
				ImplType:   implType,
			})

		case "identifier":
			// Usages only; skip the name position of a declaration so a
			// definition never counts as its own reference.
			if isDeclarationName(n) {
				return true
			}
			ex.IdentUsages[parser.NodeText(n, src)] = true

		case "use_declaration":
			return false
		}
		return true
	})
}

func hasChildOfType(n *sitter.Node, nodeType string) bool {
	for i := range int(n.ChildCount()) {
		if n.Child(i).Type() == nodeType {
			return true
		}
	}
	return false
}

// declaringTypes are item kinds whose name field introduces a definition.
var declaringTypes = map[string]bool{
	"const_item":       true,
	"static_item":      true,
	"function_item":    true,
	"macro_definition": true,
	"mod_item":         true,
	"enum_item":        true,
	"struct_item":      true,
	"trait_item":       true,
	"type_item":        true,
}

func isDeclarationName(n *sitter.Node) bool {
	p := n.Parent()
	if p == nil || !declaringTypes[p.Type()] {
		return false
	}
	name := p.ChildByFieldName("name")
	return name != nil && name.StartByte() == n.StartByte() && name.EndByte() == n.EndByte()
}
