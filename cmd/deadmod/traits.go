package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/deadmod/deadmod/internal/analyzer"
	"github.com/deadmod/deadmod/internal/output"
)

func traitsCommand() *cli.Command {
	return &cli.Command{
		Name:      "traits",
		Usage:     "Detect unused trait methods and inherent impl methods",
		ArgsUsage: "[path]",
		Action:    runTraits,
	}
}

func runTraits(c *cli.Context) error {
	p, err := prepare(c)
	if err != nil {
		return err
	}

	result := analyzer.AnalyzeTraits(p.extractAll(c), p.ignore)

	formatter, err := newFormatter(c, p)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if err := formatter.Output(&traitReport{result}); err != nil {
		return err
	}
	return findings(result.DeadCount > 0)
}

type traitReport struct {
	*analyzer.TraitResult
}

func (r *traitReport) RenderData() any { return r.TraitResult }

func (r *traitReport) RenderText(w io.Writer, colored bool) error {
	if r.DeadCount == 0 {
		fmt.Fprintln(w, "No dead trait or impl methods found.")
		return nil
	}

	rows := make([][]string, 0, len(r.Dead))
	for _, m := range r.Dead {
		rows = append(rows, []string{
			m.FullPath, m.Kind, m.Visibility, fmt.Sprintf("%s:%d", m.File, m.Line),
		})
	}

	title := fmt.Sprintf("DEAD METHODS (%d)", r.DeadCount)
	if colored {
		title = color.RedString(title)
	}
	footer := []string{fmt.Sprintf("%d trait methods, %d inherent methods scanned",
		r.TotalTraitMethods, r.TotalInherentMethods)}
	return output.NewTable(title, []string{"Method", "Kind", "Visibility", "Location"}, rows, footer, r.TraitResult).RenderText(w, colored)
}
