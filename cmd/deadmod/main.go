// Command deadmod detects dead code in Rust source trees: unreachable
// modules, functions, trait methods, generics, macros, constants, enum
// variants, and match arms.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/deadmod/deadmod/internal/logging"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

// Exit codes: 0 no findings, 1 findings present, 2 fatal error or panic.
const (
	exitClean    = 0
	exitFindings = 1
	exitFatal    = 2
)

func main() {
	// Top-level fault guard: any uncaught panic maps to exit code 2.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "deadmod: internal fault: %v\n", r)
			os.Exit(exitFatal)
		}
	}()

	logging.Init()

	app := &cli.App{
		Name:    "deadmod",
		Usage:   "Dead code detector for Rust projects",
		Version: version,
		Description: `Deadmod analyzes a Rust crate for unreachable modules, functions,
trait methods, generic parameters, macros, constants, enum variants,
and dead match arms. It can also remove dead modules automatically.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: text, json, yaml, toon",
				EnvVars: []string{"DEADMOD_FORMAT"},
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to a file instead of stdout",
			},
			&cli.StringSliceFlag{
				Name:    "ignore",
				Aliases: []string{"i"},
				Usage:   "Module names or patterns to ignore (takes precedence over config)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Extra directory names to prune during scanning",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable the incremental parse cache",
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "Disable the progress bar",
			},
		},
		Commands: []*cli.Command{
			modulesCommand(),
			functionsCommand(),
			traitsCommand(),
			genericsCommand(),
			macrosCommand(),
			constantsCommand(),
			variantsCommand(),
			matchArmsCommand(),
			callgraphCommand(),
			graphCommand(),
			fixCommand(),
			initCommand(),
		},
		// Bare `deadmod <path>` runs module analysis.
		Action: runModules,
	}

	if err := app.Run(os.Args); err != nil {
		if coder, ok := err.(cli.ExitCoder); ok {
			if msg := err.Error(); msg != "" {
				fmt.Fprintln(os.Stderr, msg)
			}
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "deadmod: %v\n", err)
		os.Exit(exitFatal)
	}
}

// findings signals exit code 1 after output has been written.
func findings(has bool) error {
	if has {
		return cli.Exit("", exitFindings)
	}
	return nil
}
