package extract

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/deadmod/deadmod/internal/parser"
)

// collectVariants gathers enum variant definitions and every usage site:
// construction paths, struct expressions, and pattern matches.
func collectVariants(root *sitter.Node, src []byte, ex *Extracted) {
	parser.Walk(root, src, func(n *sitter.Node, _ []byte) bool {
		switch n.Type() {
		case "enum_item":
			enumName := parser.FieldText(n, "name", src)
			if enumName == "" {
				return true
			}
			vis := visibilityOf(n, src)
			modPath := strings.Join(moduleStackOf(n, src), "::")

			body := n.ChildByFieldName("body")
			if body == nil {
				return true
			}
			for i := range int(body.NamedChildCount()) {
				v := body.NamedChild(i)
				if v.Type() != "enum_variant" {
					continue
				}
				variant := parser.FieldText(v, "name", src)
				if variant == "" {
					continue
				}
				ex.Variants = append(ex.Variants, EnumVariantDef{
					EnumName:    enumName,
					VariantName: variant,
					FullName:    enumName + "::" + variant,
					File:        ex.Path,
					Line:        lineOf(v),
					ModulePath:  modPath,
					Visibility:  vis,
				})
			}
			return false

		case "scoped_identifier", "scoped_type_identifier":
			recordVariantPath(parser.NodeText(n, src), ex)

		case "struct_expression":
			// Enum::Variant { field: .. } construction.
			if name := n.ChildByFieldName("name"); name != nil {
				recordVariantPath(parser.NodeText(name, src), ex)
			}

		case "tuple_struct_pattern", "struct_pattern":
			if ty := n.ChildByFieldName("type"); ty != nil {
				recordVariantPath(parser.NodeText(ty, src), ex)
			}

		case "identifier", "type_identifier":
			// Bare variant occurrences in scopes where the enum is imported.
			text := parser.NodeText(n, src)
			if startsUpper(text) && !isDeclarationName(n) {
				ex.VariantUsages[text] = true
			}

		case "use_declaration":
			return false
		}
		return true
	})
}

// recordVariantPath records the terminal segment and the trailing
// "Enum::Variant" pair of a path whose terminal looks like a variant.
func recordVariantPath(text string, ex *Extracted) {
	segments := splitPathText(text)
	if len(segments) == 0 {
		return
	}
	last := segments[len(segments)-1]
	if !startsUpper(last) {
		return
	}
	ex.VariantUsages[last] = true
	if len(segments) >= 2 {
		ex.VariantPaths[segments[len(segments)-2]+"::"+last] = true
	}
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
