package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deadmod/deadmod/internal/extract"
)

func emptyExtracted(path string) *extract.Extracted {
	return &extract.Extracted{
		Path:          path,
		Module:        extract.NewModuleInfo(path, "x"),
		MethodUsages:  map[string]bool{},
		MacroUsages:   map[string]bool{},
		IdentUsages:   map[string]bool{},
		VariantUsages: map[string]bool{},
		VariantPaths:  map[string]bool{},
		Calls: extract.CallUsage{
			Calls:     map[string]bool{},
			Qualified: map[string]bool{},
			Resolved:  map[string]bool{},
		},
		Uses: extract.NewUseMap(),
	}
}

func TestAnalyzeTraitsUnusedMethod(t *testing.T) {
	ex := emptyExtracted("src/store.rs")
	ex.TraitMethods = []extract.TraitMethodDef{
		{TraitName: "Store", MethodName: "get", FullPath: "store::Store::get", File: ex.Path},
		{TraitName: "Store", MethodName: "purge", FullPath: "store::Store::purge", File: ex.Path},
	}

	caller := emptyExtracted("src/main.rs")
	caller.MethodUsages["get"] = true
	caller.Calls.Calls["get"] = true

	result := AnalyzeTraits(map[string]*extract.Extracted{ex.Path: ex, caller.Path: caller}, nil)

	require.Equal(t, 1, result.DeadCount)
	assert.Equal(t, "store::Store::purge", result.Dead[0].FullPath)
	assert.Equal(t, "trait", result.Dead[0].Kind)
}

func TestAnalyzeTraitsInherentMethod(t *testing.T) {
	ex := emptyExtracted("src/conn.rs")
	ex.InherentMethods = []extract.InherentMethodDef{
		{TypeName: "Conn", MethodName: "open", FullID: "Conn::open", File: ex.Path},
		{TypeName: "Conn", MethodName: "close", FullID: "Conn::close", File: ex.Path},
	}
	ex.Calls.Calls["open"] = true
	ex.MethodUsages["open"] = true

	result := AnalyzeTraits(map[string]*extract.Extracted{ex.Path: ex}, nil)

	require.Equal(t, 1, result.DeadCount)
	assert.Equal(t, "Conn::close", result.Dead[0].FullPath)
	assert.Equal(t, "inherent", result.Dead[0].Kind)
}

func TestAnalyzeMacrosUnused(t *testing.T) {
	ex := emptyExtracted("src/macros.rs")
	ex.Macros = []extract.MacroDef{
		{Name: "used_macro", File: ex.Path},
		{Name: "dead_macro", File: ex.Path},
		{Name: "dead_exported", Exported: true, File: ex.Path},
	}
	ex.MacroUsages["used_macro"] = true

	result := AnalyzeMacros(map[string]*extract.Extracted{ex.Path: ex}, nil)

	require.Equal(t, 2, result.DeadCount)
	// Exported macros are reported but tagged.
	byName := map[string]DeadMacro{}
	for _, m := range result.Dead {
		byName[m.Name] = m
	}
	assert.True(t, byName["dead_exported"].Exported)
	assert.False(t, byName["dead_macro"].Exported)
}

func TestAnalyzeConstantsUnused(t *testing.T) {
	ex := emptyExtracted("src/consts.rs")
	ex.Constants = []extract.ConstDef{
		{Name: "USED", File: ex.Path},
		{Name: "UNUSED", File: ex.Path, IsStatic: true},
	}

	user := emptyExtracted("src/main.rs")
	user.IdentUsages["USED"] = true

	result := AnalyzeConstants(map[string]*extract.Extracted{ex.Path: ex, user.Path: user}, nil)

	require.Equal(t, 1, result.DeadCount)
	assert.Equal(t, "UNUSED", result.Dead[0].Name)
	assert.True(t, result.Dead[0].IsStatic)
}

func TestAnalyzeConstantsReexportKeepsAlive(t *testing.T) {
	ex := emptyExtracted("src/consts.rs")
	ex.Constants = []extract.ConstDef{{Name: "LIMIT", File: ex.Path}}

	lib := emptyExtracted("src/lib.rs")
	lib.Module.Reexports["LIMIT"] = true

	result := AnalyzeConstants(map[string]*extract.Extracted{ex.Path: ex, lib.Path: lib}, nil)
	assert.Equal(t, 0, result.DeadCount)
}

func TestAnalyzeVariantsUnused(t *testing.T) {
	ex := emptyExtracted("src/color.rs")
	ex.Variants = []extract.EnumVariantDef{
		{EnumName: "Color", VariantName: "Red", FullName: "Color::Red", File: ex.Path},
		{EnumName: "Color", VariantName: "Blue", FullName: "Color::Blue", File: ex.Path},
	}

	user := emptyExtracted("src/main.rs")
	user.VariantPaths["Color::Red"] = true
	user.VariantUsages["Red"] = true

	result := AnalyzeVariants(map[string]*extract.Extracted{ex.Path: ex, user.Path: user}, nil)

	require.Equal(t, 1, result.DeadCount)
	assert.Equal(t, "Color::Blue", result.Dead[0].FullName)
}

func TestAnalyzeVariantsBareNameKeepsAlive(t *testing.T) {
	// A bare `Variant` occurrence (enum imported into scope) counts.
	ex := emptyExtracted("src/color.rs")
	ex.Variants = []extract.EnumVariantDef{
		{EnumName: "Color", VariantName: "Green", FullName: "Color::Green", File: ex.Path},
	}

	user := emptyExtracted("src/main.rs")
	user.VariantUsages["Green"] = true

	result := AnalyzeVariants(map[string]*extract.Extracted{ex.Path: ex, user.Path: user}, nil)
	assert.Equal(t, 0, result.DeadCount)
}

func TestModeResultsRespectIgnoreList(t *testing.T) {
	ex := emptyExtracted("src/m.rs")
	ex.Macros = []extract.MacroDef{{Name: "generated_macro", File: ex.Path}}
	ex.Constants = []extract.ConstDef{{Name: "GENERATED_CONST", File: ex.Path}}

	ignore := IgnoreList{"generated", "GENERATED"}

	assert.Equal(t, 0, AnalyzeMacros(map[string]*extract.Extracted{ex.Path: ex}, ignore).DeadCount)
	assert.Equal(t, 0, AnalyzeConstants(map[string]*extract.Extracted{ex.Path: ex}, ignore).DeadCount)
}
