package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/deadmod/deadmod/internal/analyzer"
)

func graphCommand() *cli.Command {
	return &cli.Command{
		Name:      "graph",
		Usage:     "Export the module dependency graph",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "viz",
				Usage: "Emit visualizer JSON (numeric ids, dead flags) instead of DOT",
			},
			&cli.BoolFlag{
				Name:  "cycles",
				Usage: "Report circular module imports instead of the graph",
			},
		},
		Action: runGraph,
	}
}

func runGraph(c *cli.Context) error {
	p, err := prepare(c)
	if err != nil {
		return err
	}

	result := analyzer.AnalyzeModules(p.modules, p.roots, p.ignore)

	formatter, err := newFormatter(c, p)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if c.Bool("cycles") {
		cycles := analyzer.Cycles(result.Graph)
		return formatter.Output(map[string]any{
			"cycle_count": len(cycles),
			"cycles":      cycles,
		})
	}

	if c.Bool("viz") {
		return formatter.Output(result.ToVisualizer())
	}

	dot, err := analyzer.ModuleDOT(result)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(formatter.Writer(), dot)
	return err
}
