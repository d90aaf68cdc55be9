package extract

import (
	"sort"
	"strings"
)

// pathKeywords are Rust path segments that never name a module dependency.
var pathKeywords = map[string]bool{"self": true, "super": true, "crate": true}

// ModulePathContext is a module's position in the crate hierarchy.
//
// Example: src/api/v1/mod.rs -> ["api", "v1"].
type ModulePathContext struct {
	Segments []string
}

// ContextFromFilePath derives the module context from a file path relative to
// the crate root.
//
//	src/lib.rs            -> []
//	src/api/mod.rs        -> ["api"]
//	src/api/v1/handler.rs -> ["api", "v1", "handler"]
func ContextFromFilePath(path string) ModulePathContext {
	var segments []string
	insideSrc := false

	for _, part := range strings.Split(strings.ReplaceAll(path, "\\", "/"), "/") {
		if part == "src" {
			insideSrc = true
			continue
		}
		if !insideSrc {
			continue
		}
		if part == "mod.rs" || part == "lib.rs" || part == "main.rs" {
			continue
		}
		segments = append(segments, strings.TrimSuffix(part, ".rs"))
	}

	return ModulePathContext{Segments: segments}
}

// CratePath returns the fully qualified path with the crate prefix.
func (c ModulePathContext) CratePath() string {
	if len(c.Segments) == 0 {
		return "crate"
	}
	return "crate::" + strings.Join(c.Segments, "::")
}

// Parent returns the enclosing module's context, for super:: resolution.
func (c ModulePathContext) Parent() ModulePathContext {
	if len(c.Segments) == 0 {
		return ModulePathContext{}
	}
	return ModulePathContext{Segments: append([]string(nil), c.Segments[:len(c.Segments)-1]...)}
}

// UseMap maps imported local names and aliases to full path segments.
type UseMap struct {
	m map[string][]string
}

// NewUseMap creates an empty UseMap.
func NewUseMap() *UseMap {
	return &UseMap{m: make(map[string][]string)}
}

// Record stores an import mapping from a local name to its full path.
func (u *UseMap) Record(local string, full []string) {
	u.m[local] = full
}

// Resolve returns the full path for a local name, if imported.
func (u *UseMap) Resolve(name string) ([]string, bool) {
	p, ok := u.m[name]
	return p, ok
}

// Contains reports whether a name is imported.
func (u *UseMap) Contains(name string) bool {
	_, ok := u.m[name]
	return ok
}

// Names returns all imported local names, sorted.
func (u *UseMap) Names() []string {
	names := make([]string, 0, len(u.m))
	for n := range u.m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of recorded imports.
func (u *UseMap) Len() int {
	return len(u.m)
}

// resolvePrefixPath resolves a use path prefix against the module context,
// interpreting crate/self/super heads.
func resolvePrefixPath(path []string, ctx ModulePathContext) []string {
	if len(path) == 0 {
		return append([]string(nil), ctx.Segments...)
	}

	switch path[0] {
	case "crate":
		return append([]string(nil), path[1:]...)
	case "self":
		out := append([]string(nil), ctx.Segments...)
		return append(out, path[1:]...)
	case "super":
		out := append([]string(nil), ctx.Parent().Segments...)
		return append(out, path[1:]...)
	default:
		// External crate or crate-relative path; keep as written.
		return append([]string(nil), path...)
	}
}

// ResolveCallPath resolves a call-site surface expression to candidate full
// paths in decreasing priority:
//
//  1. alias expansion via the UseMap
//  2. crate/self/super qualified paths
//  3. same-module sibling
//  4. crate-root lookup
//
// All candidates are returned; ambiguity over-approximates reachability.
func ResolveCallPath(call string, uses *UseMap, ctx ModulePathContext) []string {
	var out []string
	add := func(segments []string) {
		if p := SegmentsToPath(segments); p != "" {
			out = append(out, p)
		}
	}

	if strings.Contains(call, "::") {
		parts := strings.Split(call, "::")

		if resolved, ok := uses.Resolve(parts[0]); ok {
			full := append(append([]string(nil), resolved...), parts[1:]...)
			add(full)
			return out
		}

		switch parts[0] {
		case "crate":
			add(parts[1:])
		case "self":
			add(append(append([]string(nil), ctx.Segments...), parts[1:]...))
		case "super":
			add(append(append([]string(nil), ctx.Parent().Segments...), parts[1:]...))
		default:
			// Could be a sibling module path or an external crate.
			add(parts)
			add(append(append([]string(nil), ctx.Segments...), parts...))
		}
		return out
	}

	if resolved, ok := uses.Resolve(call); ok {
		add(resolved)
		return out
	}

	// Same-module sibling, then crate root.
	add(append(append([]string(nil), ctx.Segments...), call))
	add([]string{call})
	return out
}

// SegmentsToPath joins resolved segments into a :: path.
func SegmentsToPath(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	return strings.Join(segments, "::")
}
