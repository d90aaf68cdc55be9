package analyzer

import (
	"sort"

	"github.com/deadmod/deadmod/internal/extract"
)

// DeadMethod is one unused trait or inherent method.
type DeadMethod struct {
	Name       string `json:"name"`
	FullPath   string `json:"full_path"`
	Kind       string `json:"kind"` // "trait" or "inherent"
	Visibility string `json:"visibility"`
	File       string `json:"file"`
	Line       uint32 `json:"line"`
	// For trait methods: whether the method has no default body.
	IsRequired bool `json:"is_required,omitempty"`
}

// TraitResult is the outcome of trait-method dead code analysis.
type TraitResult struct {
	TotalTraitMethods    int          `json:"total_trait_methods"`
	TotalInherentMethods int          `json:"total_inherent_methods"`
	DeadCount            int          `json:"dead_count"`
	Dead                 []DeadMethod `json:"dead"`
}

// AnalyzeTraits finds trait methods and inherent impl methods never invoked
// anywhere in the crate. Usage is name-based: a method call, associated call,
// or qualified call with a matching terminal name keeps the method alive
// (conservative over-approximation across types sharing a method name).
func AnalyzeTraits(extracted map[string]*extract.Extracted, ignore IgnoreList) *TraitResult {
	used := make(map[string]bool)
	for _, ex := range extracted {
		for name := range ex.MethodUsages {
			used[name] = true
		}
		for name := range ex.Calls.Calls {
			used[name] = true
		}
	}

	result := &TraitResult{}

	for _, ex := range extracted {
		for _, m := range ex.TraitMethods {
			result.TotalTraitMethods++
			if used[m.MethodName] || ignore.Match(m.MethodName) || ignore.Match(m.FullPath) {
				continue
			}
			result.Dead = append(result.Dead, DeadMethod{
				Name:       m.MethodName,
				FullPath:   m.FullPath,
				Kind:       "trait",
				Visibility: string(m.Visibility),
				File:       m.File,
				Line:       m.Line,
				IsRequired: m.IsRequired,
			})
		}
		for _, m := range ex.InherentMethods {
			result.TotalInherentMethods++
			if used[m.MethodName] || ignore.Match(m.MethodName) || ignore.Match(m.FullID) {
				continue
			}
			result.Dead = append(result.Dead, DeadMethod{
				Name:       m.MethodName,
				FullPath:   m.FullID,
				Kind:       "inherent",
				Visibility: string(m.Visibility),
				File:       m.File,
				Line:       m.Line,
			})
		}
	}

	sort.Slice(result.Dead, func(i, j int) bool {
		return result.Dead[i].FullPath < result.Dead[j].FullPath
	})
	result.DeadCount = len(result.Dead)
	return result
}
