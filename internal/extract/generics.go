package extract

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/deadmod/deadmod/internal/parser"
)

// genericParents maps item node types to the parent-kind label reported for
// their generic parameters.
var genericParents = map[string]string{
	"function_item": "function",
	"struct_item":   "struct",
	"enum_item":     "enum",
	"trait_item":    "trait",
	"impl_item":     "impl",
	"type_item":     "type",
}

// collectGenerics gathers declared generic type parameters, lifetimes, and
// const parameters, together with the set of names mentioned elsewhere in the
// declaring item. A parameter absent from that mention set is unused.
func collectGenerics(root *sitter.Node, src []byte, ex *Extracted) {
	parser.Walk(root, src, func(n *sitter.Node, _ []byte) bool {
		kind, ok := genericParents[n.Type()]
		if !ok {
			return true
		}

		params := n.ChildByFieldName("type_parameters")
		if params == nil {
			return true
		}

		parent := parser.FieldText(n, "name", src)
		if parent == "" && n.Type() == "impl_item" {
			parent = typeBaseName(parser.FieldText(n, "type", src))
		}
		if parent == "" {
			parent = "<unknown>"
		}

		// Names mentioned in the item outside the parameter list: the
		// signature, body, bounds, and where-clauses all live under n.
		mentions := make(map[string]bool, 16)
		parser.Walk(n, src, func(m *sitter.Node, _ []byte) bool {
			if m == params || (m.Type() == params.Type() && m.StartByte() == params.StartByte()) {
				return false
			}
			switch m.Type() {
			case "type_identifier", "identifier", "lifetime":
				mentions[parser.NodeText(m, src)] = true
			}
			return true
		})

		for i := range int(params.NamedChildCount()) {
			p := params.NamedChild(i)
			decl := declaredParam(p, src)
			if decl == nil {
				continue
			}
			decl.Parent = parent
			decl.ParentKind = kind
			decl.File = ex.Path
			decl.Line = lineOf(p)
			decl.mentions = mentions
			ex.Generics = append(ex.Generics, *decl)
		}
		return true
	})
}

// declaredParam interprets one entry of a type_parameters list.
func declaredParam(p *sitter.Node, src []byte) *DeclaredGeneric {
	switch p.Type() {
	case "type_identifier":
		return &DeclaredGeneric{Name: parser.NodeText(p, src), Kind: GenericType}

	case "lifetime":
		return &DeclaredGeneric{Name: parser.NodeText(p, src), Kind: GenericLifetime}

	case "constrained_type_parameter", "optional_type_parameter":
		// T: Bound, 'a: 'b, or T = Default — the declared name is the
		// left-hand child.
		if inner := p.NamedChild(0); inner != nil {
			kind := GenericType
			if inner.Type() == "lifetime" {
				kind = GenericLifetime
			}
			return &DeclaredGeneric{Name: parser.NodeText(inner, src), Kind: kind}
		}

	case "const_parameter":
		if name := parser.FieldText(p, "name", src); name != "" {
			return &DeclaredGeneric{Name: name, Kind: GenericConst}
		}
	}
	return nil
}
