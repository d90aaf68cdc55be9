package extract

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/deadmod/deadmod/internal/parser"
)

// collectTraits gathers trait method declarations and inherent impl methods.
// Method usages come from the call collector; required methods (no default
// body) appear as function_signature_item nodes in the trait body.
func collectTraits(root *sitter.Node, src []byte, ex *Extracted, ctx ModulePathContext) {
	parser.Walk(root, src, func(n *sitter.Node, _ []byte) bool {
		switch n.Type() {
		case "trait_item":
			traitName := parser.FieldText(n, "name", src)
			if traitName == "" {
				return true
			}
			vis := visibilityOf(n, src)
			stack := append(append([]string(nil), ctx.Segments...), moduleStackOf(n, src)...)
			stack = append(stack, traitName)

			body := n.ChildByFieldName("body")
			if body == nil {
				return true
			}
			for i := range int(body.NamedChildCount()) {
				item := body.NamedChild(i)
				var required bool
				switch item.Type() {
				case "function_signature_item":
					required = true
				case "function_item":
					required = false
				default:
					continue
				}
				method := parser.FieldText(item, "name", src)
				if method == "" {
					continue
				}
				ex.TraitMethods = append(ex.TraitMethods, TraitMethodDef{
					TraitName:  traitName,
					MethodName: method,
					FullPath:   joinPath(stack, method),
					Visibility: vis,
					IsRequired: required,
					File:       ex.Path,
					Line:       lineOf(item),
				})
			}
			return false

		case "impl_item":
			// Inherent impls only; trait impls satisfy the trait's contract
			// and are not independent dead-code candidates.
			if n.ChildByFieldName("trait") != nil {
				return true
			}
			typeName := typeBaseName(parser.FieldText(n, "type", src))
			if typeName == "" {
				return true
			}
			body := n.ChildByFieldName("body")
			if body == nil {
				return true
			}
			for i := range int(body.NamedChildCount()) {
				item := body.NamedChild(i)
				if item.Type() != "function_item" {
					continue
				}
				method := parser.FieldText(item, "name", src)
				if method == "" {
					continue
				}
				ex.InherentMethods = append(ex.InherentMethods, InherentMethodDef{
					TypeName:   typeName,
					MethodName: method,
					FullID:     typeName + "::" + method,
					Visibility: visibilityOf(item, src),
					IsStatic:   !hasSelfParameter(item),
					File:       ex.Path,
					Line:       lineOf(item),
				})
			}
		}
		return true
	})
}
