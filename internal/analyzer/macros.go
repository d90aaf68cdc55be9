package analyzer

import (
	"sort"

	"github.com/deadmod/deadmod/internal/extract"
)

// DeadMacro is one macro_rules! definition with no invocation anywhere.
type DeadMacro struct {
	Name string `json:"name"`
	// Crate-public macros are reported but tagged.
	Exported bool   `json:"exported"`
	File     string `json:"file"`
	Line     uint32 `json:"line"`
}

// MacroResult is the outcome of macro analysis.
type MacroResult struct {
	TotalMacros int         `json:"total_macros"`
	DeadCount   int         `json:"dead_count"`
	Dead        []DeadMacro `json:"dead"`
}

// AnalyzeMacros finds macro_rules! definitions whose name is never invoked.
// Exported macros are still reported when unused, with the exported flag set.
func AnalyzeMacros(extracted map[string]*extract.Extracted, ignore IgnoreList) *MacroResult {
	used := make(map[string]bool)
	for _, ex := range extracted {
		for name := range ex.MacroUsages {
			used[name] = true
		}
	}

	result := &MacroResult{}
	for _, ex := range extracted {
		for _, m := range ex.Macros {
			result.TotalMacros++
			if used[m.Name] || ignore.Match(m.Name) {
				continue
			}
			result.Dead = append(result.Dead, DeadMacro{
				Name:     m.Name,
				Exported: m.Exported,
				File:     m.File,
				Line:     m.Line,
			})
		}
	}

	sort.Slice(result.Dead, func(i, j int) bool {
		if result.Dead[i].Name != result.Dead[j].Name {
			return result.Dead[i].Name < result.Dead[j].Name
		}
		return result.Dead[i].File < result.Dead[j].File
	})
	result.DeadCount = len(result.Dead)
	return result
}
