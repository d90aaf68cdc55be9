package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/deadmod/deadmod/internal/parser"
)

// collectMacros gathers macro_rules! definitions and every macro invocation.
func collectMacros(root *sitter.Node, src []byte, ex *Extracted) {
	parser.Walk(root, src, func(n *sitter.Node, _ []byte) bool {
		switch n.Type() {
		case "macro_definition":
			name := parser.FieldText(n, "name", src)
			if name == "" {
				return true
			}
			ex.Macros = append(ex.Macros, MacroDef{
				Name:       name,
				Exported:   hasAttribute(n, src, "macro_export"),
				File:       ex.Path,
				ModulePath: strings.Join(moduleStackOf(n, src), "::"),
				Line:       lineOf(n),
			})
			return false

		case "macro_invocation":
			mac := n.ChildByFieldName("macro")
			if mac == nil {
				return true
			}
			text := parser.NodeText(mac, src)
			if last := lastPathSegment(text); last != "" {
				ex.MacroUsages[last] = true
			}
		}
		return true
	})
}
