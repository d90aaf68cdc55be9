package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/deadmod/deadmod/internal/analyzer"
	"github.com/deadmod/deadmod/internal/output"
)

func genericsCommand() *cli.Command {
	return &cli.Command{
		Name:      "generics",
		Usage:     "Detect unused generic parameters and lifetimes",
		ArgsUsage: "[path]",
		Action:    runGenerics,
	}
}

func runGenerics(c *cli.Context) error {
	p, err := prepare(c)
	if err != nil {
		return err
	}

	result := analyzer.AnalyzeGenerics(p.extractAll(c), p.ignore)

	formatter, err := newFormatter(c, p)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if err := formatter.Output(&genericReport{result}); err != nil {
		return err
	}
	return findings(result.DeadCount > 0)
}

type genericReport struct {
	*analyzer.GenericResult
}

func (r *genericReport) RenderData() any { return r.GenericResult }

func (r *genericReport) RenderText(w io.Writer, colored bool) error {
	if r.DeadCount == 0 {
		fmt.Fprintln(w, "No unused generic parameters found.")
		return nil
	}

	rows := make([][]string, 0, len(r.Dead))
	for _, g := range r.Dead {
		rows = append(rows, []string{
			g.Name, g.Kind, fmt.Sprintf("%s %s", g.ParentKind, g.Parent),
			fmt.Sprintf("%s:%d", g.File, g.Line),
		})
	}

	title := fmt.Sprintf("UNUSED GENERICS (%d)", r.DeadCount)
	if colored {
		title = color.RedString(title)
	}
	footer := []string{fmt.Sprintf("%d parameters declared", r.TotalDeclared)}
	return output.NewTable(title, []string{"Name", "Kind", "Declared On", "Location"}, rows, footer, r.GenericResult).RenderText(w, colored)
}
