package analyzer

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// dotNode carries the DOT attributes for one graph node.
type dotNode struct {
	id   int64
	name string
	dead bool
}

func (n dotNode) ID() int64 { return n.id }

func (n dotNode) DOTID() string { return n.name }

func (n dotNode) Attributes() []encoding.Attribute {
	color := "lightgreen"
	if n.dead {
		color = "lightcoral"
	}
	return []encoding.Attribute{{Key: "fillcolor", Value: color}}
}

// dotGraph wraps a directed graph with the global attributes used for all
// deadmod exports.
type dotGraph struct {
	*simple.DirectedGraph
}

func (g dotGraph) DOTAttributers() (graphAttrs, nodeAttrs, edgeAttrs encoding.Attributer) {
	ga := attrs{{Key: "rankdir", Value: "LR"}}
	na := attrs{
		{Key: "shape", Value: "box"},
		{Key: "style", Value: "filled"},
		{Key: "fontname", Value: "JetBrains Mono"},
	}
	return ga, na, attrs(nil)
}

type attrs []encoding.Attribute

func (a attrs) Attributes() []encoding.Attribute { return a }

// buildDOT mirrors a Digraph into a gonum directed graph with dead coloring
// and marshals it to DOT text.
func buildDOT(g *Digraph, reachable map[string]bool, name string) (string, error) {
	dg := dotGraph{DirectedGraph: simple.NewDirectedGraph()}

	nodes := g.Nodes()
	byName := make(map[string]dotNode, len(nodes))
	for i, n := range nodes {
		dn := dotNode{id: int64(i), name: n, dead: !reachable[n]}
		byName[n] = dn
		dg.AddNode(dn)
	}
	for _, from := range nodes {
		for _, to := range g.Successors(from) {
			if from == to {
				continue
			}
			dg.SetEdge(dg.NewEdge(byName[from], byName[to]))
		}
	}

	out, err := dot.Marshal(dg, name, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode DOT: %w", err)
	}
	return string(out), nil
}

// ModuleDOT renders the module dependency graph in Graphviz DOT format.
// Reachable modules are light green; dead modules light coral.
func ModuleDOT(r *ModuleResult) (string, error) {
	reachable := make(map[string]bool, len(r.Reachable))
	for _, n := range r.Reachable {
		reachable[n] = true
	}
	return buildDOT(r.Graph, reachable, "deadmod")
}

// CallGraphDOT renders the function call graph in DOT format.
func CallGraphDOT(r *FunctionResult) (string, error) {
	g := NewDigraph()
	for path := range r.Graph.Nodes {
		g.AddNode(path)
	}
	for fromID, succ := range r.Graph.adjacency {
		from := r.Graph.paths[fromID]
		for _, toID := range succ {
			g.AddEdge(from, r.Graph.paths[toID])
		}
	}
	return buildDOT(g, r.Graph.Reachable(), "callgraph")
}

// Cycles returns the strongly connected components with more than one
// member, each sorted, ordered by first member. Circular module imports are
// legal; the report is informational.
func Cycles(g *Digraph) [][]string {
	names := g.Nodes()
	idOf := make(map[string]int64, len(names))

	sg := simple.NewDirectedGraph()
	for i, n := range names {
		idOf[n] = int64(i)
		sg.AddNode(simple.Node(int64(i)))
	}
	for _, from := range names {
		for _, to := range g.Successors(from) {
			if from != to {
				sg.SetEdge(sg.NewEdge(simple.Node(idOf[from]), simple.Node(idOf[to])))
			}
		}
	}

	var cycles [][]string
	for _, scc := range topo.TarjanSCC(sg) {
		if len(scc) < 2 {
			continue
		}
		members := make([]string, 0, len(scc))
		for _, n := range scc {
			members = append(members, names[nodeIndex(n)])
		}
		sort.Strings(members)
		cycles = append(cycles, members)
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles
}

func nodeIndex(n graph.Node) int {
	return int(n.ID())
}
