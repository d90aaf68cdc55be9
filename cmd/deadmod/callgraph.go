package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/deadmod/deadmod/internal/analyzer"
)

func callgraphCommand() *cli.Command {
	return &cli.Command{
		Name:      "callgraph",
		Usage:     "Export the function call graph",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dot",
				Usage: "Emit Graphviz DOT instead of JSON",
			},
			&cli.BoolFlag{
				Name:  "viz",
				Usage: "Emit visualizer JSON (numeric ids, dead flags)",
			},
		},
		Action: runCallgraph,
	}
}

func runCallgraph(c *cli.Context) error {
	p, err := prepare(c)
	if err != nil {
		return err
	}

	extracted := p.extractAll(c)
	result := analyzer.AnalyzeFunctions(extracted, p.roots, p.ignore)

	formatter, err := newFormatter(c, p)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if c.Bool("dot") {
		dot, err := analyzer.CallGraphDOT(result)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(formatter.Writer(), dot)
		return err
	}

	if c.Bool("viz") {
		return formatter.Output(callGraphVisualizer(result))
	}

	return formatter.Output(result)
}

// callGraphVisualizer flattens the call graph into the numeric-id shape.
func callGraphVisualizer(r *analyzer.FunctionResult) *analyzer.VisualizerGraph {
	reachable := r.Graph.Reachable()

	out := &analyzer.VisualizerGraph{}
	idOf := make(map[string]int, len(r.Graph.Nodes))

	for i, path := range sortedNodePaths(r.Graph) {
		fn := r.Graph.Nodes[path]
		node := analyzer.VisualizerNode{ID: i, Name: path, File: fn.File, Dead: !reachable[path]}
		if node.Dead {
			out.Stats.DeadNodes++
		}
		idOf[path] = i
		out.Nodes = append(out.Nodes, node)
	}
	for _, from := range sortedNodePaths(r.Graph) {
		for _, to := range r.Graph.SuccessorsOf(from) {
			out.Edges = append(out.Edges, analyzer.VisualizerEdge{From: idOf[from], To: idOf[to]})
		}
	}
	out.Stats.TotalNodes = len(out.Nodes)
	out.Stats.TotalEdges = len(out.Edges)
	return out
}

func sortedNodePaths(g *analyzer.CallGraph) []string {
	return g.NodePaths()
}
