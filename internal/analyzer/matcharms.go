package analyzer

import (
	"sort"

	"github.com/deadmod/deadmod/internal/extract"
)

// Reasons a match arm is reported.
const (
	ReasonMaskedByWildcard = "masked_by_wildcard"
	ReasonNonFinalWildcard = "non_final_wildcard"
)

// DeadArm is one unreachable or suspicious match arm.
type DeadArm struct {
	Pattern string `json:"pattern"`
	Reason  string `json:"reason"`
	File    string `json:"file"`
	Line    uint32 `json:"line"`
}

// MatchArmResult is the outcome of match arm analysis.
type MatchArmResult struct {
	TotalMatches  int       `json:"total_match_expressions"`
	TotalArms     int       `json:"total_arms"`
	WildcardCount int       `json:"wildcard_count"`
	DeadCount     int       `json:"dead_count"`
	MaskedCount   int       `json:"masked_count"`
	Dead          []DeadArm `json:"dead"`
}

// AnalyzeMatchArms reports arms masked by an earlier wildcard and wildcards
// in non-final position. Arms are grouped per match expression by file and
// match index before the position scan.
func AnalyzeMatchArms(extracted map[string]*extract.Extracted, ignore IgnoreList) *MatchArmResult {
	result := &MatchArmResult{}

	type matchKey struct {
		file  string
		index int
	}
	groups := make(map[matchKey][]extract.MatchArm)

	files := make([]string, 0, len(extracted))
	for f := range extracted {
		files = append(files, f)
	}
	sort.Strings(files)

	for _, f := range files {
		ex := extracted[f]
		result.TotalMatches += ex.MatchCount
		result.TotalArms += len(ex.MatchArms)
		for _, arm := range ex.MatchArms {
			if arm.IsWildcard {
				result.WildcardCount++
			}
			key := matchKey{file: ex.Path, index: arm.MatchIndex}
			groups[key] = append(groups[key], arm)
		}
	}

	for _, arms := range groups {
		sort.Slice(arms, func(i, j int) bool { return arms[i].Position < arms[j].Position })
		checkWildcardMasking(arms, ignore, result)
	}

	sort.Slice(result.Dead, func(i, j int) bool {
		a, b := result.Dead[i], result.Dead[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Pattern < b.Pattern
	})
	result.DeadCount = len(result.Dead)
	return result
}

func checkWildcardMasking(arms []extract.MatchArm, ignore IgnoreList, result *MatchArmResult) {
	masked := false
	seen := make(map[string]bool, len(arms))

	for i, arm := range arms {
		if arm.IsWildcard {
			if i < len(arms)-1 {
				result.Dead = append(result.Dead, DeadArm{
					Pattern: arm.Pattern,
					Reason:  ReasonNonFinalWildcard,
					File:    arm.File,
					Line:    arm.Line,
				})
			}
			masked = true
			continue
		}

		// An earlier unconditional pattern (a wildcard or a bare identifier
		// binder) shadows everything after it; an identical prior pattern
		// shadows its repeat.
		shadowed := masked || seen[arm.Pattern]
		seen[arm.Pattern] = true
		if isBinderPattern(arm) {
			masked = true
		}

		if !shadowed {
			continue
		}
		if ignore.Match(arm.Pattern) || ignore.Match(arm.VariantName) {
			continue
		}
		result.Dead = append(result.Dead, DeadArm{
			Pattern: arm.Pattern,
			Reason:  ReasonMaskedByWildcard,
			File:    arm.File,
			Line:    arm.Line,
		})
		result.MaskedCount++
	}
}

// isBinderPattern reports whether an arm is a bare lowercase identifier,
// which binds any value and is as unconditional as `_`.
func isBinderPattern(arm extract.MatchArm) bool {
	if arm.VariantName == "" || arm.VariantName != arm.Pattern {
		return false
	}
	c := arm.Pattern[0]
	return c >= 'a' && c <= 'z'
}
