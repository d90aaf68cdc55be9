package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/deadmod/deadmod/internal/analyzer"
)

func modulesCommand() *cli.Command {
	return &cli.Command{
		Name:      "modules",
		Aliases:   []string{"mod"},
		Usage:     "Detect unreachable modules",
		ArgsUsage: "[path]",
		Action:    runModules,
	}
}

func runModules(c *cli.Context) error {
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

	if err := formatter.Output(&moduleReport{result}); err != nil {
		return err
	}
	return findings(len(result.Dead) > 0)
}

// moduleReport adapts a ModuleResult for the formatter.
type moduleReport struct {
	*analyzer.ModuleResult
}

func (r *moduleReport) RenderData() any {
	return r.ModuleResult
}

func (r *moduleReport) RenderText(w io.Writer, colored bool) error {
	if len(r.Dead) == 0 {
		fmt.Fprintln(w, "No dead modules found.")
		return nil
	}

	header := fmt.Sprintf("DEAD MODULES (%d):", len(r.Dead))
	if colored {
		header = color.RedString(header)
	}
	fmt.Fprintln(w, header)
	for _, m := range r.Dead {
		fmt.Fprintf(w, "- %s\n", m)
	}
	fmt.Fprintf(w, "\n%d of %d modules unreachable from roots %v\n",
		len(r.Dead), r.TotalModules, r.Roots)
	return nil
}
