package extract

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/deadmod/deadmod/internal/parser"
)

// collectCalls gathers every call site: direct calls, method calls, qualified
// calls, and path references to functions. Each surface expression is also
// resolved against the file's UseMap and module context so the call graph can
// match on full paths.
func collectCalls(root *sitter.Node, src []byte, ex *Extracted, ctx ModulePathContext) {
	parser.Walk(root, src, func(n *sitter.Node, _ []byte) bool {
		switch n.Type() {
		case "use_declaration":
			return false

		case "call_expression":
			recordCallee(n.ChildByFieldName("function"), src, ex)

		case "scoped_identifier":
			// Path reference without a call, e.g. passing a function value.
			// Only lowercase terminals look like function references.
			segments := splitPathText(parser.NodeText(n, src))
			if len(segments) == 0 {
				return true
			}
			last := segments[len(segments)-1]
			if startsLower(last) {
				ex.Calls.Calls[last] = true
				if len(segments) > 1 {
					ex.Calls.Qualified[strings.Join(segments, "::")] = true
				}
			}
		}
		return true
	})

	// Resolve everything once the raw sets are complete.
	for call := range ex.Calls.Calls {
		for _, p := range ResolveCallPath(call, ex.Uses, ctx) {
			ex.Calls.Resolved[p] = true
		}
	}
	for qualified := range ex.Calls.Qualified {
		for _, p := range ResolveCallPath(qualified, ex.Uses, ctx) {
			ex.Calls.Resolved[p] = true
		}
	}
}

// recordCallee classifies the function part of a call expression.
func recordCallee(fn *sitter.Node, src []byte, ex *Extracted) {
	if fn == nil {
		return
	}

	switch fn.Type() {
	case "identifier":
		ex.Calls.Calls[parser.NodeText(fn, src)] = true

	case "scoped_identifier":
		segments := splitPathText(parser.NodeText(fn, src))
		if len(segments) == 0 {
			return
		}
		last := segments[len(segments)-1]
		ex.Calls.Calls[last] = true
		ex.MethodUsages[last] = true
		if len(segments) > 1 {
			ex.Calls.Qualified[strings.Join(segments, "::")] = true
		}

	case "field_expression":
		// x.method() — the field is the method name.
		if name := parser.FieldText(fn, "field", src); name != "" {
			ex.Calls.Calls[name] = true
			ex.MethodUsages[name] = true
		}

	case "generic_function":
		// collect::<Vec<_>>() — unwrap to the underlying callee.
		recordCallee(fn.ChildByFieldName("function"), src, ex)
	}
}

func startsLower(s string) bool {
	for _, r := range s {
		return unicode.IsLower(r)
	}
	return false
}
