package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deadmod/deadmod/internal/extract"
)

func fakeExtracted(path string, fns []extract.FunctionDef, resolved ...string) *extract.Extracted {
	ex := &extract.Extracted{
		Path:   path,
		Module: extract.NewModuleInfo(path, "x"),
		Calls: extract.CallUsage{
			Calls:     map[string]bool{},
			Qualified: map[string]bool{},
			Resolved:  map[string]bool{},
		},
		Uses: extract.NewUseMap(),
	}
	ex.Functions = fns
	for _, r := range resolved {
		ex.Calls.Resolved[r] = true
	}
	return ex
}

func TestCallGraphDeadFunction(t *testing.T) {
	extracted := map[string]*extract.Extracted{
		"src/main.rs": fakeExtracted("src/main.rs", []extract.FunctionDef{
			{Name: "main", FullPath: "main", File: "src/main.rs", Visibility: extract.VisPrivate},
		}, "util::helper"),
		"src/util.rs": fakeExtracted("src/util.rs", []extract.FunctionDef{
			{Name: "helper", FullPath: "util::helper", File: "src/util.rs", Visibility: extract.VisPublic},
			{Name: "unused", FullPath: "util::unused", File: "src/util.rs", Visibility: extract.VisPublic},
		}),
	}

	result := AnalyzeFunctions(extracted, map[string]bool{"main": true}, nil)

	require.Equal(t, 1, result.DeadFunctions)
	assert.Equal(t, "util::unused", result.Dead[0].FullPath)
	assert.Equal(t, "pub", result.Dead[0].Visibility)
	assert.Equal(t, 1, result.PublicDead)
	assert.Equal(t, 0, result.PrivateDead)
}

func TestCallGraphRootFileUseSeedsEntry(t *testing.T) {
	// lib.rs imports crate::util::helper; the imported function is public
	// API surface and must be reachable even with no call edge.
	lib := fakeExtracted("src/lib.rs", nil)
	lib.Uses.Record("helper", []string{"util", "helper"})

	extracted := map[string]*extract.Extracted{
		"src/lib.rs": lib,
		"src/util.rs": fakeExtracted("src/util.rs", []extract.FunctionDef{
			{Name: "helper", FullPath: "util::helper", File: "src/util.rs", Visibility: extract.VisPublic},
			{Name: "unused", FullPath: "util::unused", File: "src/util.rs", Visibility: extract.VisPublic},
		}),
	}

	result := AnalyzeFunctions(extracted, map[string]bool{"lib": true}, nil)

	require.Equal(t, 1, result.DeadFunctions)
	assert.Equal(t, "util::unused", result.Dead[0].FullPath)
}

func TestCallGraphTestFunctionsAreRoots(t *testing.T) {
	extracted := map[string]*extract.Extracted{
		"src/util.rs": fakeExtracted("src/util.rs", []extract.FunctionDef{
			{Name: "check", FullPath: "util::check", File: "src/util.rs", IsTest: true},
			{Name: "helper", FullPath: "util::helper", File: "src/util.rs"},
		}, "util::helper"),
	}

	result := AnalyzeFunctions(extracted, map[string]bool{}, nil)

	assert.Equal(t, 0, result.DeadFunctions)
}

func TestCallGraphPublicRootModuleFunctions(t *testing.T) {
	extracted := map[string]*extract.Extracted{
		"src/lib.rs": fakeExtracted("src/lib.rs", []extract.FunctionDef{
			{Name: "api", FullPath: "api", File: "src/lib.rs", Visibility: extract.VisPublic},
			{Name: "inner", FullPath: "inner", File: "src/lib.rs", Visibility: extract.VisPrivate},
		}),
	}

	result := AnalyzeFunctions(extracted, map[string]bool{"lib": true}, nil)

	require.Equal(t, 1, result.DeadFunctions)
	assert.Equal(t, "inner", result.Dead[0].FullPath)
}

func TestCallGraphConservativeAmbiguity(t *testing.T) {
	// Two functions share a resolved suffix: both must get edges, so neither
	// is reported dead (over-approximation, never under-approximation).
	extracted := map[string]*extract.Extracted{
		"src/main.rs": fakeExtracted("src/main.rs", []extract.FunctionDef{
			{Name: "main", FullPath: "main", File: "src/main.rs"},
		}, "process"),
		"src/a.rs": fakeExtracted("src/a.rs", []extract.FunctionDef{
			{Name: "process", FullPath: "a::process", File: "src/a.rs"},
		}),
		"src/b.rs": fakeExtracted("src/b.rs", []extract.FunctionDef{
			{Name: "process", FullPath: "b::process", File: "src/b.rs"},
		}),
	}

	result := AnalyzeFunctions(extracted, map[string]bool{"main": true}, nil)

	assert.Equal(t, 0, result.DeadFunctions)
	assert.Equal(t, 3, result.ReachableFunctions)
}

func TestCallGraphDeterministicOrder(t *testing.T) {
	extracted := map[string]*extract.Extracted{
		"src/m.rs": fakeExtracted("src/m.rs", []extract.FunctionDef{
			{Name: "zz", FullPath: "m::zz", File: "src/m.rs"},
			{Name: "aa", FullPath: "m::aa", File: "src/m.rs"},
			{Name: "mm", FullPath: "m::mm", File: "src/m.rs"},
		}),
	}

	result := AnalyzeFunctions(extracted, map[string]bool{}, nil)

	require.Equal(t, 3, result.DeadFunctions)
	assert.Equal(t, "m::aa", result.Dead[0].FullPath)
	assert.Equal(t, "m::mm", result.Dead[1].FullPath)
	assert.Equal(t, "m::zz", result.Dead[2].FullPath)
}
