package analyzer

import "strings"

// IgnoreList suppresses findings whose name matches any pattern. A pattern
// matches by exact equality, suffix, or containment, evaluated in that order;
// `prefix*` and `*suffix` wildcard forms are also accepted.
type IgnoreList []string

// Match reports whether a name is suppressed.
func (l IgnoreList) Match(name string) bool {
	for _, p := range l {
		if p == "" {
			continue
		}
		if rest, ok := strings.CutSuffix(p, "*"); ok && !strings.HasPrefix(rest, "*") {
			if strings.HasPrefix(name, rest) {
				return true
			}
			continue
		}
		if rest, ok := strings.CutPrefix(p, "*"); ok {
			if strings.HasSuffix(name, rest) {
				return true
			}
			continue
		}
		if name == p || strings.HasSuffix(name, p) || strings.Contains(name, p) {
			return true
		}
	}
	return false
}

// Filter returns names not suppressed by the list, preserving order.
func (l IgnoreList) Filter(names []string) []string {
	if len(l) == 0 {
		return names
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !l.Match(n) {
			out = append(out, n)
		}
	}
	return out
}
