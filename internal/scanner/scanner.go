// Package scanner finds Rust source files under a crate root.
package scanner

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// excludedDirs are pruned by default (standard Rust project conventions).
var excludedDirs = []string{"target", ".git", "node_modules", ".cargo"}

// Scanner finds .rs files in a directory tree.
type Scanner struct {
	excludes     map[string]bool
	matcher      gitignore.Matcher
	useGitignore bool
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithExcludes adds directory names to prune in addition to the defaults.
func WithExcludes(names []string) Option {
	return func(s *Scanner) {
		for _, n := range names {
			if n != "" {
				s.excludes[n] = true
			}
		}
	}
}

// WithGitignore enables .gitignore pattern matching rooted at the scan root.
func WithGitignore() Option {
	return func(s *Scanner) {
		s.useGitignore = true
	}
}

// New creates a scanner with the default exclusion set.
func New(opts ...Option) *Scanner {
	s := &Scanner{excludes: make(map[string]bool, len(excludedDirs)+4)}
	for _, d := range excludedDirs {
		s.excludes[d] = true
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scanner) loadGitignore(root string) {
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return
	}
	var patterns []gitignore.Pattern
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	if len(patterns) > 0 {
		s.matcher = gitignore.NewMatcher(patterns)
	}
}

func (s *Scanner) ignored(rel string, isDir bool) bool {
	if s.matcher == nil {
		return false
	}
	return s.matcher.Match(strings.Split(filepath.ToSlash(rel), "/"), isDir)
}

// Scan walks the tree rooted at root and returns every regular .rs file,
// sorted lexicographically by normalized path so downstream work is
// deterministic. Excluded directories are pruned, not descended into.
// Unreadable entries are skipped with a warning; only a missing or unreadable
// root is an error.
func (s *Scanner) Scan(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", root)
	}

	if s.useGitignore {
		s.loadGitignore(root)
	}

	files := make([]string, 0, 256)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			slog.Warn("skipping unreadable entry", "path", path, "error", err)
			return nil
		}

		rel, _ := filepath.Rel(root, path)

		if d.IsDir() {
			if path != root && (s.excludes[d.Name()] || s.ignored(rel, true)) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			// Follow symlinks that point at regular files; the fixer has its
			// own refusal for them, but analysis still sees the module.
			if d.Type()&fs.ModeSymlink == 0 {
				return nil
			}
			if st, serr := os.Stat(path); serr != nil || !st.Mode().IsRegular() {
				return nil
			}
		}
		if filepath.Ext(path) != ".rs" {
			return nil
		}
		if s.ignored(rel, false) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to gather .rs files from %s: %w", root, walkErr)
	}

	sort.Slice(files, func(i, j int) bool {
		return filepath.ToSlash(files[i]) < filepath.ToSlash(files[j])
	})

	return files, nil
}
