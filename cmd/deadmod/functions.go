package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/deadmod/deadmod/internal/analyzer"
	"github.com/deadmod/deadmod/internal/output"
)

func functionsCommand() *cli.Command {
	return &cli.Command{
		Name:      "functions",
		Aliases:   []string{"fn"},
		Usage:     "Detect dead functions via call-graph reachability",
		ArgsUsage: "[path]",
		Action:    runFunctions,
	}
}

func runFunctions(c *cli.Context) error {
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

	if err := formatter.Output(&functionReport{result}); err != nil {
		return err
	}
	return findings(result.DeadFunctions > 0)
}

type functionReport struct {
	*analyzer.FunctionResult
}

func (r *functionReport) RenderData() any {
	return r.FunctionResult
}

func (r *functionReport) RenderText(w io.Writer, colored bool) error {
	if r.DeadFunctions == 0 {
		fmt.Fprintf(w, "No dead functions found (%d functions, %d reachable).\n",
			r.TotalFunctions, r.ReachableFunctions)
		return nil
	}

	rows := make([][]string, 0, len(r.Dead))
	for _, fn := range r.Dead {
		vis := fn.Visibility
		if colored && vis == "pub" {
			vis = color.YellowString(vis)
		}
		kind := "fn"
		if fn.IsMethod {
			kind = "method"
		}
		rows = append(rows, []string{
			fn.FullPath,
			kind,
			vis,
			fmt.Sprintf("%s:%d", fn.File, fn.Line),
		})
	}

	title := fmt.Sprintf("DEAD FUNCTIONS (%d)", r.DeadFunctions)
	if colored {
		title = color.RedString(title)
	}
	footer := []string{fmt.Sprintf(
		"%d total, %d reachable, %d dead (%d public, %d private)",
		r.TotalFunctions, r.ReachableFunctions, r.DeadFunctions, r.PublicDead, r.PrivateDead,
	)}

	table := output.NewTable(title, []string{"Function", "Kind", "Visibility", "Location"}, rows, footer, r.FunctionResult)
	return table.RenderText(w, colored)
}
