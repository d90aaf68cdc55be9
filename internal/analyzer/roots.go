package analyzer

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindRootModules detects the entry-point module names for a crate using
// Cargo's layout conventions:
//
//	src/main.rs         -> "main"
//	src/lib.rs          -> "lib"
//	src/bin/x.rs        -> "x"
//	src/bin/x/main.rs   -> "x"
//
// Never fails: a missing src/ yields an empty set, which is legitimate for
// workspace container directories.
func FindRootModules(crateRoot string) map[string]bool {
	out := make(map[string]bool, 4)

	src := filepath.Join(crateRoot, "src")
	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		return out
	}

	if fileExists(filepath.Join(src, "main.rs")) {
		out["main"] = true
	}
	if fileExists(filepath.Join(src, "lib.rs")) {
		out["lib"] = true
	}

	binDir := filepath.Join(src, "bin")
	entries, err := os.ReadDir(binDir)
	if err != nil {
		return out
	}
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() {
			if strings.HasSuffix(name, ".rs") {
				out[strings.TrimSuffix(name, ".rs")] = true
			}
			continue
		}
		if fileExists(filepath.Join(binDir, name, "main.rs")) {
			out[name] = true
		}
	}

	return out
}

// SortedRoots returns the root set as a sorted slice.
func SortedRoots(roots map[string]bool) []string {
	out := make([]string, 0, len(roots))
	for r := range roots {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// IsWorkspaceRoot reports whether a directory's Cargo.toml declares a
// [workspace] section.
func IsWorkspaceRoot(root string) bool {
	data, err := os.ReadFile(filepath.Join(root, "Cargo.toml"))
	if err != nil {
		return false
	}
	return strings.Contains(string(data), "[workspace]")
}

// WorkspaceMembers lists immediate subdirectories that carry a Cargo.toml.
func WorkspaceMembers(root string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	var members []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if fileExists(filepath.Join(root, e.Name(), "Cargo.toml")) {
			members = append(members, e.Name())
		}
	}
	sort.Strings(members)
	return members
}
