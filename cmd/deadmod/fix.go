package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/deadmod/deadmod/internal/analyzer"
	"github.com/deadmod/deadmod/internal/fixer"
)

func fixCommand() *cli.Command {
	return &cli.Command{
		Name:      "fix",
		Usage:     "Remove dead module files and their declarations",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Show what would be removed without touching the filesystem",
			},
		},
		Action: runFix,
	}
}

func runFix(c *cli.Context) error {
	p, err := prepare(c)
	if err != nil {
		return err
	}

	analysis := analyzer.AnalyzeModules(p.modules, p.roots, p.ignore)
	dryRun := c.Bool("dry-run")

	result := fixer.Fix(p.root, analysis.Dead, p.modules, dryRun)

	formatter, err := newFormatter(c, p)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if err := formatter.Output(&fixReport{result, dryRun}); err != nil {
		return err
	}
	return findings(result.HasFindings() || len(result.Errors) > 0)
}

type fixReport struct {
	*fixer.Result
	dryRun bool
}

func (r *fixReport) RenderData() any { return r.Result }

func (r *fixReport) RenderText(w io.Writer, colored bool) error {
	mode := "FIX"
	if r.dryRun {
		mode = "DRY-RUN"
	}

	if !r.HasFindings() && len(r.Errors) == 0 {
		fmt.Fprintln(w, "No dead modules to fix.")
		return nil
	}

	verb := "Removed"
	if r.dryRun {
		verb = "Would remove"
	}
	for _, f := range r.RemovedFiles {
		fmt.Fprintf(w, "[%s] %s file: %s\n", mode, verb, f)
	}
	for _, d := range r.RemovedDeclarations {
		fmt.Fprintf(w, "[%s] %s declaration: mod %s\n", mode, verb, d)
	}
	for _, d := range r.RemovedDirs {
		fmt.Fprintf(w, "[%s] %s empty dir: %s\n", mode, verb, d)
	}

	fmt.Fprintf(w, "\n%s summary: %d files, %d declarations, %d dirs\n",
		mode, len(r.RemovedFiles), len(r.RemovedDeclarations), len(r.RemovedDirs))

	if len(r.Errors) > 0 {
		header := fmt.Sprintf("Errors (%d):", len(r.Errors))
		if colored {
			header = color.RedString(header)
		}
		fmt.Fprintln(w, header)
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  - %s\n", e)
		}
	}
	return nil
}
