package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/deadmod/deadmod/internal/analyzer"
	"github.com/deadmod/deadmod/internal/cache"
	"github.com/deadmod/deadmod/internal/config"
	"github.com/deadmod/deadmod/internal/extract"
	"github.com/deadmod/deadmod/internal/fileproc"
	"github.com/deadmod/deadmod/internal/output"
	"github.com/deadmod/deadmod/internal/parser"
	"github.com/deadmod/deadmod/internal/progress"
	"github.com/deadmod/deadmod/internal/scanner"
)

// pipeline carries everything the analysis commands share: the canonical
// crate root, merged config, the scanned file list, and the parsed modules.
type pipeline struct {
	root    string
	cfg     *config.Config
	ignore  analyzer.IgnoreList
	files   []string
	modules map[string]*extract.ModuleInfo
	roots   map[string]bool
}

// prepare resolves the crate root, loads config, scans for files, and runs
// the incremental parse. A missing root is the one fatal error.
func prepare(c *cli.Context) (*pipeline, error) {
	root := c.Args().First()
	if root == "" {
		root = "."
	}

	abs, err := filepath.Abs(root)
	if err == nil {
		root = abs
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("crate root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("crate root %s is not a directory", root)
	}

	cfg := config.LoadOrDefault(root)
	ignore := analyzer.IgnoreList(cfg.MergeIgnores(c.StringSlice("ignore")))

	printWorkspaceHint(root)

	opts := []scanner.Option{scanner.WithExcludes(append(cfg.Exclude, c.StringSlice("exclude")...))}
	if cfg.Gitignore {
		opts = append(opts, scanner.WithGitignore())
	}
	files, err := scanner.New(opts...).Scan(root)
	if err != nil {
		return nil, err
	}

	useCache := cfg.Cache.Enabled && !c.Bool("no-cache")
	var prior *cache.Cache
	if useCache {
		prior = cache.Load(root)
	}

	tracker := progress.New("Parsing files...", len(files), !c.Bool("no-progress"))
	modules, next := cache.IncrementalParse(files, prior, tracker.Tick)
	tracker.Finish()

	if useCache {
		if err := cache.Save(root, next); err != nil {
			slog.Warn("cache write failed, results unaffected", "error", err)
		}
	}

	return &pipeline{
		root:    root,
		cfg:     cfg,
		ignore:  ignore,
		files:   files,
		modules: modules,
		roots:   analyzer.FindRootModules(root),
	}, nil
}

// extractAll runs the full per-file extraction for the modes that need more
// than module references. Results are keyed by normalized path.
func (p *pipeline) extractAll(c *cli.Context) map[string]*extract.Extracted {
	tracker := progress.New("Extracting...", len(p.files), !c.Bool("no-progress"))
	results := fileproc.MapFilesWithProgress(p.files, func(psr *parser.Parser, path string) (*extract.Extracted, error) {
		result, err := psr.ParseFile(path)
		if err != nil {
			slog.Warn("parse failed, treating as empty", "file", path, "error", err)
			return extract.File(&parser.Result{Path: path}), nil
		}
		return extract.File(result), nil
	}, tracker.Tick)
	tracker.Finish()

	out := make(map[string]*extract.Extracted, len(results))
	for _, ex := range results {
		out[ex.Path] = ex
	}
	return out
}

// newFormatter builds the output formatter for a prepared pipeline, letting
// the --format flag override the config file's format.
func newFormatter(c *cli.Context, p *pipeline) (*output.Formatter, error) {
	format := p.cfg.Output.Format
	if c.IsSet("format") || format == "" {
		format = c.String("format")
	}
	return output.NewFormatter(output.ParseFormat(format), c.String("output"), p.cfg.Output.Color)
}

// printWorkspaceHint lists member crates when pointed at a workspace root.
func printWorkspaceHint(root string) {
	if !analyzer.IsWorkspaceRoot(root) {
		return
	}
	members := analyzer.WorkspaceMembers(root)
	if len(members) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "Detected Cargo workspace with %d member(s):\n", len(members))
	for _, m := range members {
		fmt.Fprintf(os.Stderr, "  - %s\n", m)
	}
	fmt.Fprintln(os.Stderr, "Run on each crate separately for accurate results.")
	fmt.Fprintln(os.Stderr, "Each crate is analyzed alone: a public function unused in its own crate is reported dead even if another member calls it.")
	fmt.Fprintln(os.Stderr)
}
