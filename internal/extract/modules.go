package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/deadmod/deadmod/internal/parser"
)

// collectModuleRefs gathers `mod NAME;` declarations, `use` path roots, and
// re-export / doc(hidden) metadata for the module graph.
//
// Extraction is semantically aware: the root component and the terminal
// segment of each use path become dependencies, path keywords (self, super,
// crate) are skipped, and inline modules contribute no external reference.
func collectModuleRefs(root *sitter.Node, src []byte, ex *Extracted, ctx ModulePathContext) {
	info := ex.Module

	parser.Walk(root, src, func(n *sitter.Node, _ []byte) bool {
		switch n.Type() {
		case "mod_item":
			name := parser.FieldText(n, "name", src)
			if name == "" {
				return true
			}
			if n.ChildByFieldName("body") != nil {
				// Inline module: a namespace, not a file reference.
				return true
			}
			info.Refs[name] = true
			info.ModDecls[name] = visibilityOf(n, src)

		case "use_declaration":
			arg := n.ChildByFieldName("argument")
			if arg == nil {
				return true
			}
			public := visibilityOf(n, src) == VisPublic
			collectUseTree(arg, src, info, ex.Uses, ctx, nil, public)
			return false

		case "inner_attribute_item":
			if text := parser.NodeText(n, src); strings.Contains(text, "doc") && strings.Contains(text, "hidden") {
				info.DocHidden = true
			}
		}
		return true
	})
}

// collectUseTree walks one use clause, recording module references, the
// per-file UseMap, and re-exports for `pub use`.
func collectUseTree(n *sitter.Node, src []byte, info *ModuleInfo, uses *UseMap, ctx ModulePathContext, prefix []string, public bool) {
	switch n.Type() {
	case "identifier", "self", "super", "crate", "metavariable":
		name := parser.NodeText(n, src)
		full := append(append([]string(nil), prefix...), name)
		addUseRef(info, full)
		uses.Record(name, resolvePrefixPath(full, ctx))
		if public && !pathKeywords[name] {
			info.Reexports[name] = true
		}

	case "scoped_identifier":
		segments := splitPathText(parser.NodeText(n, src))
		full := append(append([]string(nil), prefix...), segments...)
		addUseRef(info, full)
		if last := full[len(full)-1]; !pathKeywords[last] {
			uses.Record(last, resolvePrefixPath(full, ctx))
			if public {
				info.Reexports[last] = true
			}
		}

	case "use_as_clause":
		pathNode := n.ChildByFieldName("path")
		aliasNode := n.ChildByFieldName("alias")
		segments := append(append([]string(nil), prefix...), splitPathText(parser.NodeText(pathNode, src))...)
		alias := parser.NodeText(aliasNode, src)

		// The real terminal name and the alias both count as references.
		addUseRef(info, segments)
		if alias != "" {
			info.Refs[alias] = true
			uses.Record(alias, resolvePrefixPath(segments, ctx))
			if public {
				info.Reexports[alias] = true
			}
		}

	case "scoped_use_list":
		pathNode := n.ChildByFieldName("path")
		segments := append(append([]string(nil), prefix...), splitPathText(parser.NodeText(pathNode, src))...)
		addUseRef(info, segments)
		if list := n.ChildByFieldName("list"); list != nil {
			collectUseTree(list, src, info, uses, ctx, segments, public)
		}

	case "use_list":
		for i := range int(n.NamedChildCount()) {
			collectUseTree(n.NamedChild(i), src, info, uses, ctx, prefix, public)
		}

	case "use_wildcard":
		// `use foo::*;` — the containing path is the reference.
		if inner := n.NamedChild(0); inner != nil {
			segments := append(append([]string(nil), prefix...), splitPathText(parser.NodeText(inner, src))...)
			addUseRef(info, segments)
			if len(segments) > 0 {
				last := segments[len(segments)-1]
				uses.Record(last+"::*", resolvePrefixPath(segments, ctx))
			}
		} else if len(prefix) > 0 {
			addUseRef(info, prefix)
		}
		if public {
			info.Reexports["*"] = true
		}
	}
}

// addUseRef records the root path component (first segment after any path
// keywords) and the terminal segment of a use path as module references.
// The graph builder only keeps edges to modules that exist, so terminal
// segments naming types or functions are harmless.
func addUseRef(info *ModuleInfo, segments []string) {
	i := 0
	for i < len(segments) && pathKeywords[segments[i]] {
		i++
	}
	if i >= len(segments) {
		return
	}
	info.Refs[segments[i]] = true
	if last := segments[len(segments)-1]; !pathKeywords[last] {
		info.Refs[last] = true
	}
}

func splitPathText(text string) []string {
	if text == "" {
		return nil
	}
	parts := strings.Split(text, "::")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
