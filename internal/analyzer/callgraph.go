package analyzer

import (
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/deadmod/deadmod/internal/extract"
)

// CallGraph is a directed graph over function definitions. Node ids are
// interned to dense uint32 indices so reachability can run over a roaring
// bitmap instead of a string set.
type CallGraph struct {
	// Definitions keyed by full path.
	Nodes map[string]extract.FunctionDef

	paths []string
	ids   map[string]uint32

	adjacency map[uint32][]uint32

	// name -> full paths sharing that simple name.
	nameIndex map[string][]string
	// path suffix -> full paths ending with that suffix.
	suffixIndex map[string][]string

	// Entry point full paths, sorted.
	entries []string

	// Calls that resolved to no known function (retained for stats).
	DroppedCalls int
}

// BuildCallGraph assembles the function call graph from per-file extraction
// records. Call attribution is file-granular: every function defined in a
// file gets an edge to every callee resolved from that file. Resolution is
// conservative — all candidate targets receive edges, so a dead function is
// unreachable under every plausible resolution.
func BuildCallGraph(extracted map[string]*extract.Extracted, roots map[string]bool) *CallGraph {
	g := &CallGraph{
		Nodes:       make(map[string]extract.FunctionDef),
		ids:         make(map[string]uint32),
		adjacency:   make(map[uint32][]uint32),
		nameIndex:   make(map[string][]string),
		suffixIndex: make(map[string][]string),
	}

	// Deterministic file order so duplicate-path collisions resolve stably.
	files := make([]string, 0, len(extracted))
	for f := range extracted {
		files = append(files, f)
	}
	sort.Strings(files)

	for _, file := range files {
		for _, fn := range extracted[file].Functions {
			g.addNode(fn)
		}
	}

	for _, file := range files {
		ex := extracted[file]
		for _, fn := range ex.Functions {
			from := fn.FullPath
			for resolved := range ex.Calls.Resolved {
				g.addResolvedEdges(from, resolved)
			}
		}
	}

	g.entries = g.findEntryPoints(extracted, roots)
	return g
}

func (g *CallGraph) addNode(fn extract.FunctionDef) {
	if _, ok := g.Nodes[fn.FullPath]; ok {
		return
	}
	g.Nodes[fn.FullPath] = fn

	id := uint32(len(g.paths))
	g.ids[fn.FullPath] = id
	g.paths = append(g.paths, fn.FullPath)

	g.nameIndex[fn.Name] = append(g.nameIndex[fn.Name], fn.FullPath)
	parts := strings.Split(fn.FullPath, "::")
	for i := range parts {
		suffix := strings.Join(parts[i:], "::")
		g.suffixIndex[suffix] = append(g.suffixIndex[suffix], fn.FullPath)
	}
}

func (g *CallGraph) addEdge(from, to string) {
	if from == to {
		return
	}
	fromID, ok := g.ids[from]
	if !ok {
		return
	}
	toID, ok := g.ids[to]
	if !ok {
		return
	}
	for _, existing := range g.adjacency[fromID] {
		if existing == toID {
			return
		}
	}
	g.adjacency[fromID] = append(g.adjacency[fromID], toID)
}

// addResolvedEdges matches one resolved call path against the node indexes:
// exact suffix match first, then an ends-with scan as fallback.
func (g *CallGraph) addResolvedEdges(from, resolved string) {
	if targets, ok := g.suffixIndex[resolved]; ok {
		for _, t := range targets {
			g.addEdge(from, t)
		}
		return
	}

	matched := false
	for _, full := range g.paths {
		if strings.HasSuffix(full, "::"+resolved) {
			g.addEdge(from, full)
			matched = true
		}
	}
	if !matched {
		g.DroppedCalls++
	}
}

// findEntryPoints seeds reachability with:
//   - every `main` function
//   - every function carrying a test or bench attribute
//   - every public function whose enclosing module is a crate root (the
//     public API surface is reachable by policy)
//   - every function a crate-root file imports via `use` (re-export surface)
func (g *CallGraph) findEntryPoints(extracted map[string]*extract.Extracted, roots map[string]bool) []string {
	entries := make(map[string]bool)

	for path, fn := range g.Nodes {
		switch {
		case fn.Name == "main":
			entries[path] = true
		case fn.IsTest:
			entries[path] = true
		case fn.Visibility.External() && isRootFile(fn.File, roots):
			entries[path] = true
		}
	}

	for file, ex := range extracted {
		if !isRootFile(file, roots) {
			continue
		}
		for _, name := range ex.Uses.Names() {
			segments, _ := ex.Uses.Resolve(name)
			resolved := extract.SegmentsToPath(segments)
			if resolved == "" {
				continue
			}
			if targets, ok := g.suffixIndex[resolved]; ok {
				for _, t := range targets {
					entries[t] = true
				}
			}
		}
	}

	out := make([]string, 0, len(entries))
	for e := range entries {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// isRootFile reports whether a file is one of the crate's entry-point files.
func isRootFile(file string, roots map[string]bool) bool {
	ctx := extract.ContextFromFilePath(file)
	if len(ctx.Segments) == 0 {
		return true
	}
	if len(ctx.Segments) >= 1 && ctx.Segments[0] == "bin" {
		return true
	}
	stem := ctx.Segments[len(ctx.Segments)-1]
	return roots[stem]
}

// EntryPoints returns the seeded roots, sorted.
func (g *CallGraph) EntryPoints() []string {
	return g.entries
}

// NodePaths returns every function full path, sorted.
func (g *CallGraph) NodePaths() []string {
	out := make([]string, 0, len(g.Nodes))
	for p := range g.Nodes {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// SuccessorsOf returns the callee paths of one function, sorted.
func (g *CallGraph) SuccessorsOf(path string) []string {
	id, ok := g.ids[path]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(g.adjacency[id]))
	for _, to := range g.adjacency[id] {
		out = append(out, g.paths[to])
	}
	sort.Strings(out)
	return out
}

// Reachable computes the closure from the entry points over a roaring bitmap
// visited set.
func (g *CallGraph) Reachable() map[string]bool {
	visited := roaring.New()
	var queue []uint32

	for _, entry := range g.entries {
		if id, ok := g.ids[entry]; ok && visited.CheckedAdd(id) {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range g.adjacency[id] {
			if visited.CheckedAdd(next) {
				queue = append(queue, next)
			}
		}
	}

	out := make(map[string]bool, visited.GetCardinality())
	it := visited.Iterator()
	for it.HasNext() {
		out[g.paths[it.Next()]] = true
	}
	return out
}

// DeadFunction is one unreachable function in report shape.
type DeadFunction struct {
	Name       string `json:"name"`
	FullPath   string `json:"full_path"`
	Visibility string `json:"visibility"`
	File       string `json:"file"`
	Line       uint32 `json:"line"`
	IsMethod   bool   `json:"is_method"`
}

// FunctionResult is the outcome of call-graph dead function analysis.
type FunctionResult struct {
	TotalFunctions     int            `json:"total_functions"`
	ReachableFunctions int            `json:"reachable_functions"`
	DeadFunctions      int            `json:"dead_functions"`
	PublicDead         int            `json:"public_dead"`
	PrivateDead        int            `json:"private_dead"`
	// Calls that resolved to no known function.
	DroppedCalls int            `json:"dropped_calls"`
	Dead         []DeadFunction `json:"dead"`

	EntryPoints []string `json:"-"`
	Graph       *CallGraph `json:"-"`
}

// AnalyzeFunctions runs call-graph dead function detection.
func AnalyzeFunctions(extracted map[string]*extract.Extracted, roots map[string]bool, ignore IgnoreList) *FunctionResult {
	g := BuildCallGraph(extracted, roots)
	reachable := g.Reachable()

	result := &FunctionResult{
		TotalFunctions:     len(g.Nodes),
		ReachableFunctions: len(reachable),
		DroppedCalls:       g.DroppedCalls,
		EntryPoints:        g.EntryPoints(),
		Graph:              g,
	}

	for path, fn := range g.Nodes {
		if reachable[path] || ignore.Match(path) || ignore.Match(fn.Name) {
			continue
		}
		result.Dead = append(result.Dead, DeadFunction{
			Name:       fn.Name,
			FullPath:   fn.FullPath,
			Visibility: string(fn.Visibility),
			File:       fn.File,
			Line:       fn.Line,
			IsMethod:   fn.IsMethod,
		})
		if fn.Visibility.External() {
			result.PublicDead++
		} else {
			result.PrivateDead++
		}
	}

	sort.Slice(result.Dead, func(i, j int) bool {
		return result.Dead[i].FullPath < result.Dead[j].FullPath
	})
	result.DeadFunctions = len(result.Dead)

	return result
}
