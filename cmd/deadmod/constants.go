package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/deadmod/deadmod/internal/analyzer"
	"github.com/deadmod/deadmod/internal/output"
)

func constantsCommand() *cli.Command {
	return &cli.Command{
		Name:      "constants",
		Aliases:   []string{"const"},
		Usage:     "Detect unused const and static items",
		ArgsUsage: "[path]",
		Action:    runConstants,
	}
}

func runConstants(c *cli.Context) error {
	p, err := prepare(c)
	if err != nil {
		return err
	}

	result := analyzer.AnalyzeConstants(p.extractAll(c), p.ignore)

	formatter, err := newFormatter(c, p)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if err := formatter.Output(&constReport{result}); err != nil {
		return err
	}
	return findings(result.DeadCount > 0)
}

type constReport struct {
	*analyzer.ConstResult
}

func (r *constReport) RenderData() any { return r.ConstResult }

func (r *constReport) RenderText(w io.Writer, colored bool) error {
	if r.DeadCount == 0 {
		fmt.Fprintln(w, "No unused constants found.")
		return nil
	}

	rows := make([][]string, 0, len(r.Dead))
	for _, cst := range r.Dead {
		kind := "const"
		if cst.IsStatic {
			kind = "static"
		}
		name := cst.Name
		if cst.ImplType != "" {
			name = cst.ImplType + "::" + name
		}
		rows = append(rows, []string{
			name, kind, cst.Visibility, fmt.Sprintf("%s:%d", cst.File, cst.Line),
		})
	}

	title := fmt.Sprintf("UNUSED CONSTANTS (%d)", r.DeadCount)
	if colored {
		title = color.RedString(title)
	}
	footer := []string{fmt.Sprintf("%d constants scanned", r.TotalConstants)}
	return output.NewTable(title, []string{"Name", "Kind", "Visibility", "Location"}, rows, footer, r.ConstResult).RenderText(w, colored)
}
