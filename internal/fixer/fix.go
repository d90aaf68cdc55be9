// Package fixer removes dead module files, rewrites parent mod declarations,
// and prunes emptied directories under strict safety rules: symlinks are
// never deleted, parent files are rewritten atomically or not at all, and
// directory pruning is depth-bounded. Dry-run mode performs zero mutations.
package fixer

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/deadmod/deadmod/internal/extract"
)

// maxPruneDepth bounds upward directory pruning from a removal site.
const maxPruneDepth = 128

// Result reports everything the fixer did (or would do, in dry-run).
type Result struct {
	RemovedFiles        []string `json:"files_removed"`
	RemovedDeclarations []string `json:"declarations_removed"`
	RemovedDirs         []string `json:"dirs_removed"`
	Errors              []string `json:"errors"`
}

// modPatterns holds the precompiled declaration patterns for one module name.
// Inline modules never match: every pattern is anchored on the trailing
// semicolon of `mod NAME;`.
type modPatterns struct {
	patterns []*regexp.Regexp
}

func patternsFor(name string) *modPatterns {
	escaped := regexp.QuoteMeta(name)
	attr := `(?:[ \t]*#\[[^\]\n]*\][ \t]*\n)*`
	return &modPatterns{patterns: []*regexp.Regexp{
		// Attributes (if any) plus the declaration line, all visibility forms:
		// bare, pub, pub(crate), pub(super), pub(in path).
		regexp.MustCompile(`(?m)^` + attr + `[ \t]*mod[ \t]+` + escaped + `[ \t]*;[^\n]*\n?`),
		regexp.MustCompile(`(?m)^` + attr + `[ \t]*pub[ \t]+mod[ \t]+` + escaped + `[ \t]*;[^\n]*\n?`),
		regexp.MustCompile(`(?m)^` + attr + `[ \t]*pub[ \t]*\([^)]*?\)[ \t]*mod[ \t]+` + escaped + `[ \t]*;[^\n]*\n?`),
	}}
}

// apply removes matching declarations, returning the new content and whether
// anything matched.
func (m *modPatterns) apply(content string) (string, bool) {
	found := false
	for _, p := range m.patterns {
		if p.MatchString(content) {
			found = true
			content = p.ReplaceAllString(content, "")
		}
	}
	return content, found
}

var blankRuns = regexp.MustCompile(`\n[ \t]*\n([ \t]*\n)+`)

// RemoveFile deletes one module file. Symbolic links are refused so a dead
// `link.rs` can never take its target with it; the refusal is recorded and
// the fixer continues. Returns whether the file was (or would be) removed.
func RemoveFile(path string, dryRun bool) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		slog.Warn("refusing to delete symlink", "file", path)
		return false, fmt.Errorf("refusing to delete symlink: %s", path)
	}
	if !info.Mode().IsRegular() {
		slog.Warn("not a regular file", "file", path)
		return false, nil
	}

	if dryRun {
		return true, nil
	}

	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return true, nil
}

// RemoveModDeclaration rewrites a parent file without the `mod NAME;`
// declaration and any immediately preceding attribute lines. The rewrite is
// staged to a temp file and renamed, so a failure leaves the original
// untouched. Returns whether a declaration was found.
func RemoveModDeclaration(parentPath, childName string, dryRun bool) (bool, error) {
	raw, err := os.ReadFile(parentPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", parentPath, err)
	}
	content := string(raw)

	newContent, found := patternsFor(childName).apply(content)
	if !found {
		return false, nil
	}

	// Collapse runs of three or more blank lines left by the removal.
	for blankRuns.MatchString(newContent) {
		newContent = blankRuns.ReplaceAllString(newContent, "\n\n")
	}
	if strings.HasSuffix(content, "\n") && !strings.HasSuffix(newContent, "\n") {
		newContent += "\n"
	}

	if dryRun {
		return true, nil
	}

	tmp := fmt.Sprintf("%s.%d.%08x.tmp", parentPath, os.Getpid(), rand.Uint32())
	if err := os.WriteFile(tmp, []byte(newContent), fileModeOf(parentPath)); err != nil {
		return false, fmt.Errorf("failed to stage rewrite of %s: %w", parentPath, err)
	}
	if err := os.Rename(tmp, parentPath); err != nil {
		_ = os.Remove(tmp)
		return false, fmt.Errorf("failed to replace %s: %w", parentPath, err)
	}
	return true, nil
}

func fileModeOf(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return 0o644
}

// PruneEmptyDirs walks upward from a removed file's directory, deleting
// directories as they empty out. Recursion stops at the crate root, at any
// directory named src, or at the depth ceiling.
func PruneEmptyDirs(start, crateRoot string, dryRun bool) []string {
	var removed []string

	dir := start
	for depth := 0; depth < maxPruneDepth; depth++ {
		if dir == "" || sameDir(dir, crateRoot) || filepath.Base(dir) == "src" {
			return removed
		}

		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return removed
		}

		if dryRun {
			removed = append(removed, filepath.ToSlash(dir))
			return removed
		}
		if err := os.Remove(dir); err != nil {
			slog.Warn("failed to remove empty dir", "dir", dir, "error", err)
			return removed
		}
		removed = append(removed, filepath.ToSlash(dir))
		dir = filepath.Dir(dir)
	}

	slog.Warn("directory prune depth limit reached", "dir", dir, "limit", maxPruneDepth)
	return removed
}

func sameDir(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return a == b
	}
	return aa == bb
}

// findParentModule locates the file that declares a module, using the parsed
// reference sets — no extra I/O.
func findParentModule(name string, modules map[string]*extract.ModuleInfo) string {
	// Prefer files whose mod declarations name the module explicitly.
	for _, info := range modules {
		if _, ok := info.ModDecls[name]; ok {
			return info.Path
		}
	}
	for _, info := range modules {
		if info.Refs[name] && info.Name != name {
			return info.Path
		}
	}
	return ""
}

// Fix removes the given dead modules: delete each backing file and prune the
// directories it leaves empty, then rewrite the declaring parent. Individual
// failures are collected in the result and never stop remaining work.
func Fix(crateRoot string, dead []string, modules map[string]*extract.ModuleInfo, dryRun bool) *Result {
	result := &Result{
		RemovedFiles:        []string{},
		RemovedDeclarations: []string{},
		RemovedDirs:         []string{},
		Errors:              []string{},
	}

	for _, name := range dead {
		info, ok := modules[name]
		if !ok {
			continue
		}

		removed, err := RemoveFile(info.Path, dryRun)
		switch {
		case err != nil:
			result.Errors = append(result.Errors, fmt.Sprintf("remove %s: %v", info.Path, err))
		case removed:
			result.RemovedFiles = append(result.RemovedFiles, info.Path)
			if !dryRun {
				result.RemovedDirs = append(result.RemovedDirs,
					PruneEmptyDirs(filepath.Dir(info.Path), crateRoot, dryRun)...)
			}
		}

		parent := findParentModule(name, modules)
		if parent == "" {
			continue
		}
		rewritten, err := RemoveModDeclaration(parent, name, dryRun)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("remove decl %s from %s: %v", name, parent, err))
			continue
		}
		if rewritten {
			result.RemovedDeclarations = append(result.RemovedDeclarations,
				fmt.Sprintf("%s from %s", name, parent))
		}
	}

	return result
}

// HasFindings reports whether the fix touched (or would touch) anything.
func (r *Result) HasFindings() bool {
	return len(r.RemovedFiles) > 0 || len(r.RemovedDeclarations) > 0 || len(r.RemovedDirs) > 0
}
