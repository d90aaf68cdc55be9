package analyzer

import (
	"sort"

	"github.com/deadmod/deadmod/internal/extract"
)

// DeadConst is one unused const or static item.
type DeadConst struct {
	Name       string `json:"name"`
	IsStatic   bool   `json:"is_static"`
	Visibility string `json:"visibility"`
	File       string `json:"file"`
	Line       uint32 `json:"line"`
	ImplType   string `json:"impl_type,omitempty"`
}

// ConstResult is the outcome of constant analysis.
type ConstResult struct {
	TotalConstants int         `json:"total_constants"`
	DeadCount      int         `json:"dead_count"`
	Dead           []DeadConst `json:"dead"`
}

// AnalyzeConstants finds const and static items whose name is never
// referenced outside its own declaration.
func AnalyzeConstants(extracted map[string]*extract.Extracted, ignore IgnoreList) *ConstResult {
	used := make(map[string]bool)
	for _, ex := range extracted {
		for name := range ex.IdentUsages {
			used[name] = true
		}
		// A constant re-exported by name stays alive.
		for name := range ex.Module.Reexports {
			used[name] = true
		}
	}

	result := &ConstResult{}
	for _, ex := range extracted {
		for _, c := range ex.Constants {
			result.TotalConstants++
			if used[c.Name] || ignore.Match(c.Name) {
				continue
			}
			result.Dead = append(result.Dead, DeadConst{
				Name:       c.Name,
				IsStatic:   c.IsStatic,
				Visibility: string(c.Visibility),
				File:       c.File,
				Line:       c.Line,
				ImplType:   c.ImplType,
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
