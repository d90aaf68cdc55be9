package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/deadmod/deadmod/internal/analyzer"
	"github.com/deadmod/deadmod/internal/output"
)

func matchArmsCommand() *cli.Command {
	return &cli.Command{
		Name:      "matcharms",
		Aliases:   []string{"arms"},
		Usage:     "Detect dead match arms (wildcard masking, shadowed patterns)",
		ArgsUsage: "[path]",
		Action:    runMatchArms,
	}
}

func runMatchArms(c *cli.Context) error {
	p, err := prepare(c)
	if err != nil {
		return err
	}

	result := analyzer.AnalyzeMatchArms(p.extractAll(c), p.ignore)

	formatter, err := newFormatter(c, p)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if err := formatter.Output(&matchArmReport{result}); err != nil {
		return err
	}
	return findings(result.DeadCount > 0)
}

type matchArmReport struct {
	*analyzer.MatchArmResult
}

func (r *matchArmReport) RenderData() any { return r.MatchArmResult }

func (r *matchArmReport) RenderText(w io.Writer, colored bool) error {
	if r.DeadCount == 0 {
		fmt.Fprintf(w, "No dead match arms found (%d arms in %d match expressions).\n",
			r.TotalArms, r.TotalMatches)
		return nil
	}

	rows := make([][]string, 0, len(r.Dead))
	for _, arm := range r.Dead {
		rows = append(rows, []string{
			arm.Pattern, arm.Reason, fmt.Sprintf("%s:%d", arm.File, arm.Line),
		})
	}

	title := fmt.Sprintf("DEAD MATCH ARMS (%d)", r.DeadCount)
	if colored {
		title = color.RedString(title)
	}
	footer := []string{fmt.Sprintf("%d arms in %d match expressions, %d wildcards",
		r.TotalArms, r.TotalMatches, r.WildcardCount)}
	return output.NewTable(title, []string{"Pattern", "Reason", "Location"}, rows, footer, r.MatchArmResult).RenderText(w, colored)
}
