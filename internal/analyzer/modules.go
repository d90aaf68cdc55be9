package analyzer

import (
	"sort"

	"github.com/deadmod/deadmod/internal/extract"
)

// ModuleResult is the outcome of module-level dead code analysis.
type ModuleResult struct {
	// Total number of modules found.
	TotalModules int `json:"total_modules"`
	// Module names reachable from the entry points, sorted.
	Reachable []string `json:"reachable_modules"`
	// Dead module names, sorted.
	Dead []string `json:"dead_modules"`
	// The entry points that seeded reachability, sorted.
	Roots []string `json:"roots"`

	// Parsed module records, for the fixer and graph export.
	Modules map[string]*extract.ModuleInfo `json:"-"`
	// The built module graph.
	Graph *Digraph `json:"-"`
}

// BuildModuleGraph assembles the module dependency graph. Every edge
// originates from a syntactically present `mod NAME;` or `use ...::NAME` in
// the source file owning the from-node; edges to unknown names are dropped,
// never synthesized.
func BuildModuleGraph(modules map[string]*extract.ModuleInfo) *Digraph {
	g := NewDigraph()

	for name := range modules {
		g.AddNode(name)
	}
	for name, info := range modules {
		for dep := range info.Refs {
			if _, ok := modules[dep]; ok && dep != name {
				g.AddEdge(name, dep)
			}
		}
	}

	return g
}

// AnalyzeModules runs the full module-mode pipeline: graph construction,
// multi-source reachability from the crate roots, and the set difference
// dead = defined \ reachable. Root modules are always reachable, even when
// their files are empty.
func AnalyzeModules(modules map[string]*extract.ModuleInfo, roots map[string]bool, ignore IgnoreList) *ModuleResult {
	g := BuildModuleGraph(modules)

	rootList := make([]string, 0, len(roots))
	for r := range roots {
		if g.HasNode(r) {
			rootList = append(rootList, r)
		}
	}
	sort.Strings(rootList)

	reachable := g.ReachableFrom(rootList)

	reach := make([]string, 0, len(reachable))
	for name := range reachable {
		reach = append(reach, name)
	}
	sort.Strings(reach)

	dead := ignore.Filter(g.Dead(reachable))

	return &ModuleResult{
		TotalModules: len(modules),
		Reachable:    reach,
		Dead:         dead,
		Roots:        SortedRoots(roots),
		Modules:      modules,
		Graph:        g,
	}
}

// VisualizerGraph is the numeric-id graph shape consumed by external
// visualizers.
type VisualizerGraph struct {
	Nodes []VisualizerNode `json:"nodes"`
	Edges []VisualizerEdge `json:"edges"`
	Stats VisualizerStats  `json:"stats"`
}

// VisualizerNode is one node with a dead flag.
type VisualizerNode struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	File string `json:"file,omitempty"`
	Dead bool   `json:"dead"`
}

// VisualizerEdge is one adjacency by numeric id.
type VisualizerEdge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// VisualizerStats summarizes the graph.
type VisualizerStats struct {
	TotalNodes int `json:"total_nodes"`
	TotalEdges int `json:"total_edges"`
	DeadNodes  int `json:"dead_nodes"`
}

// ToVisualizer converts the module result into visualizer JSON shape with
// stable numeric ids (sorted name order).
func (r *ModuleResult) ToVisualizer() *VisualizerGraph {
	names := r.Graph.Nodes()
	idOf := make(map[string]int, len(names))
	for i, n := range names {
		idOf[n] = i
	}

	reachable := make(map[string]bool, len(r.Reachable))
	for _, n := range r.Reachable {
		reachable[n] = true
	}

	out := &VisualizerGraph{}
	for i, name := range names {
		node := VisualizerNode{ID: i, Name: name, Dead: !reachable[name]}
		if info, ok := r.Modules[name]; ok {
			node.File = info.Path
		}
		if node.Dead {
			out.Stats.DeadNodes++
		}
		out.Nodes = append(out.Nodes, node)
	}
	for _, from := range names {
		for _, to := range r.Graph.Successors(from) {
			out.Edges = append(out.Edges, VisualizerEdge{From: idOf[from], To: idOf[to]})
		}
	}
	out.Stats.TotalNodes = len(out.Nodes)
	out.Stats.TotalEdges = len(out.Edges)
	return out
}
