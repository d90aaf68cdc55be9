package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/deadmod/deadmod/internal/analyzer"
	"github.com/deadmod/deadmod/internal/output"
)

func variantsCommand() *cli.Command {
	return &cli.Command{
		Name:      "variants",
		Usage:     "Detect unused enum variants",
		ArgsUsage: "[path]",
		Action:    runVariants,
	}
}

func runVariants(c *cli.Context) error {
	p, err := prepare(c)
	if err != nil {
		return err
	}

	result := analyzer.AnalyzeVariants(p.extractAll(c), p.ignore)

	formatter, err := newFormatter(c, p)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if err := formatter.Output(&variantReport{result}); err != nil {
		return err
	}
	return findings(result.DeadCount > 0)
}

type variantReport struct {
	*analyzer.VariantResult
}

func (r *variantReport) RenderData() any { return r.VariantResult }

func (r *variantReport) RenderText(w io.Writer, colored bool) error {
	if r.DeadCount == 0 {
		fmt.Fprintln(w, "No unused enum variants found.")
		return nil
	}

	rows := make([][]string, 0, len(r.Dead))
	for _, v := range r.Dead {
		rows = append(rows, []string{
			v.FullName, v.Visibility, fmt.Sprintf("%s:%d", v.File, v.Line),
		})
	}

	title := fmt.Sprintf("UNUSED VARIANTS (%d)", r.DeadCount)
	if colored {
		title = color.RedString(title)
	}
	footer := []string{fmt.Sprintf("%d variants scanned", r.TotalVariants)}
	return output.NewTable(title, []string{"Variant", "Visibility", "Location"}, rows, footer, r.VariantResult).RenderText(w, colored)
}
