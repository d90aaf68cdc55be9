package analyzer

import (
	"sort"

	"github.com/deadmod/deadmod/internal/extract"
)

// DeadGeneric is one declared-but-unused generic parameter or lifetime.
type DeadGeneric struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Parent     string `json:"parent"`
	ParentKind string `json:"parent_kind"`
	File       string `json:"file"`
	Line       uint32 `json:"line"`
}

// GenericResult is the outcome of generic-parameter analysis.
type GenericResult struct {
	TotalDeclared int           `json:"total_declared"`
	DeadCount     int           `json:"dead_count"`
	Dead          []DeadGeneric `json:"dead"`
}

// AnalyzeGenerics reports type parameters and lifetimes that are declared on
// an item but never mentioned in that item's signature, body types, bounds,
// or where-clauses.
func AnalyzeGenerics(extracted map[string]*extract.Extracted, ignore IgnoreList) *GenericResult {
	result := &GenericResult{}

	for _, ex := range extracted {
		for i := range ex.Generics {
			g := &ex.Generics[i]
			result.TotalDeclared++
			if g.Mentioned() || ignore.Match(g.Name) || ignore.Match(g.Parent) {
				continue
			}
			result.Dead = append(result.Dead, DeadGeneric{
				Name:       g.Name,
				Kind:       string(g.Kind),
				Parent:     g.Parent,
				ParentKind: g.ParentKind,
				File:       g.File,
				Line:       g.Line,
			})
		}
	}

	sort.Slice(result.Dead, func(i, j int) bool {
		a, b := result.Dead[i], result.Dead[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Parent != b.Parent {
			return a.Parent < b.Parent
		}
		return a.Name < b.Name
	})
	result.DeadCount = len(result.Dead)
	return result
}
