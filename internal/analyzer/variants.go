package analyzer

import (
	"sort"

	"github.com/deadmod/deadmod/internal/extract"
)

// DeadVariant is one enum variant with no construction or pattern reference.
type DeadVariant struct {
	EnumName    string `json:"enum_name"`
	VariantName string `json:"variant_name"`
	FullName    string `json:"full_name"`
	Visibility  string `json:"visibility"`
	File        string `json:"file"`
	Line        uint32 `json:"line"`
}

// VariantResult is the outcome of enum variant analysis.
type VariantResult struct {
	TotalVariants int           `json:"total_variants"`
	DeadCount     int           `json:"dead_count"`
	Dead          []DeadVariant `json:"dead"`
}

// AnalyzeVariants finds enum variants with no reference anywhere, considering
// both `Enum::Variant` paths and bare variant occurrences in scopes where the
// enum is imported.
func AnalyzeVariants(extracted map[string]*extract.Extracted, ignore IgnoreList) *VariantResult {
	usedNames := make(map[string]bool)
	usedPaths := make(map[string]bool)
	for _, ex := range extracted {
		for name := range ex.VariantUsages {
			usedNames[name] = true
		}
		for p := range ex.VariantPaths {
			usedPaths[p] = true
		}
	}

	result := &VariantResult{}
	for _, ex := range extracted {
		for _, v := range ex.Variants {
			result.TotalVariants++
			if usedPaths[v.FullName] || usedNames[v.VariantName] {
				continue
			}
			if ignore.Match(v.VariantName) || ignore.Match(v.FullName) || ignore.Match(v.EnumName) {
				continue
			}
			result.Dead = append(result.Dead, DeadVariant{
				EnumName:    v.EnumName,
				VariantName: v.VariantName,
				FullName:    v.FullName,
				Visibility:  string(v.Visibility),
				File:        v.File,
				Line:        v.Line,
			})
		}
	}

	sort.Slice(result.Dead, func(i, j int) bool {
		if result.Dead[i].FullName != result.Dead[j].FullName {
			return result.Dead[i].FullName < result.Dead[j].FullName
		}
		return result.Dead[i].File < result.Dead[j].File
	})
	result.DeadCount = len(result.Dead)
	return result
}
