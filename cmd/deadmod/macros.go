package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/deadmod/deadmod/internal/analyzer"
	"github.com/deadmod/deadmod/internal/output"
)

func macrosCommand() *cli.Command {
	return &cli.Command{
		Name:      "macros",
		Usage:     "Detect unused macro_rules! definitions",
		ArgsUsage: "[path]",
		Action:    runMacros,
	}
}

func runMacros(c *cli.Context) error {
	p, err := prepare(c)
	if err != nil {
		return err
	}

	result := analyzer.AnalyzeMacros(p.extractAll(c), p.ignore)

	formatter, err := newFormatter(c, p)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if err := formatter.Output(&macroReport{result}); err != nil {
		return err
	}
	return findings(result.DeadCount > 0)
}

type macroReport struct {
	*analyzer.MacroResult
}

func (r *macroReport) RenderData() any { return r.MacroResult }

func (r *macroReport) RenderText(w io.Writer, colored bool) error {
	if r.DeadCount == 0 {
		fmt.Fprintln(w, "No unused macros found.")
		return nil
	}

	rows := make([][]string, 0, len(r.Dead))
	for _, m := range r.Dead {
		exported := ""
		if m.Exported {
			exported = "#[macro_export]"
		}
		rows = append(rows, []string{
			m.Name + "!", exported, fmt.Sprintf("%s:%d", m.File, m.Line),
		})
	}

	title := fmt.Sprintf("UNUSED MACROS (%d)", r.DeadCount)
	if colored {
		title = color.RedString(title)
	}
	footer := []string{fmt.Sprintf("%d macros defined", r.TotalMacros)}
	return output.NewTable(title, []string{"Macro", "Exported", "Location"}, rows, footer, r.MacroResult).RenderText(w, colored)
}
