package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/deadmod/deadmod/internal/parser"
)

// collectMatchArms gathers every arm of every match expression with its
// position, pattern text, variant name, and wildcard flag.
func collectMatchArms(root *sitter.Node, src []byte, ex *Extracted) {
	parser.Walk(root, src, func(n *sitter.Node, _ []byte) bool {
		if n.Type() != "match_expression" {
			return true
		}

		body := n.ChildByFieldName("body")
		if body == nil {
			return true
		}

		matchIndex := ex.MatchCount
		ex.MatchCount++

		var arms []*sitter.Node
		for i := range int(body.NamedChildCount()) {
			if c := body.NamedChild(i); c.Type() == "match_arm" || c.Type() == "match_last_arm" {
				arms = append(arms, c)
			}
		}

		for pos, arm := range arms {
			patNode := arm.ChildByFieldName("pattern")
			pattern := strings.TrimSpace(parser.NodeText(patNode, src))
			variant, wildcard := patternInfo(patNode, src)

			ex.MatchArms = append(ex.MatchArms, MatchArm{
				Pattern:     pattern,
				VariantName: variant,
				IsWildcard:  wildcard,
				Position:    pos,
				TotalArms:   len(arms),
				File:        ex.Path,
				Line:        lineOf(arm),
				MatchIndex:  matchIndex,
			})
		}
		return true
	})
}

// patternInfo inspects a match pattern for its variant name and whether it is
// an unconditional wildcard. A bare lowercase identifier binds anything and
// counts as unconditional the same way `_` does only when it is exactly `_`;
// identifier binders keep their name as the variant slot.
func patternInfo(pat *sitter.Node, src []byte) (variant string, wildcard bool) {
	if pat == nil {
		return "", false
	}

	// The pattern field wraps the actual pattern in a match_pattern node.
	node := pat
	if node.Type() == "match_pattern" && node.NamedChildCount() > 0 {
		// Guard clauses (`x if cond`) keep the pattern as the first child.
		node = node.NamedChild(0)
	}

	switch node.Type() {
	case "_":
		return "", true

	case "identifier":
		return parser.NodeText(node, src), false

	case "scoped_identifier":
		return lastPathSegment(parser.NodeText(node, src)), false

	case "tuple_struct_pattern", "struct_pattern":
		if ty := node.ChildByFieldName("type"); ty != nil {
			return lastPathSegment(parser.NodeText(ty, src)), false
		}

	case "or_pattern":
		// A | B — report the first named alternative.
		if node.NamedChildCount() > 0 {
			return patternInfo(node.NamedChild(0), src)
		}
	}

	text := strings.TrimSpace(parser.NodeText(node, src))
	if text == "_" {
		return "", true
	}
	return "", false
}
