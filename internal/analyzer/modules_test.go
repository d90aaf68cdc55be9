package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deadmod/deadmod/internal/extract"
)

func makeModule(name string, refs ...string) *extract.ModuleInfo {
	info := extract.NewModuleInfo("src/"+name+".rs", name)
	for _, r := range refs {
		info.Refs[r] = true
	}
	return info
}

func TestAnalyzeModulesChain(t *testing.T) {
	modules := map[string]*extract.ModuleInfo{
		"main": makeModule("main", "a"),
		"a":    makeModule("a", "b"),
		"b":    makeModule("b"),
		"c":    makeModule("c"),
	}

	result := AnalyzeModules(modules, map[string]bool{"main": true}, nil)

	assert.Equal(t, []string{"a", "b", "main"}, result.Reachable)
	assert.Equal(t, []string{"c"}, result.Dead)
	assert.Equal(t, 4, result.TotalModules)
}

func TestAnalyzeModulesNoEdgesSynthesized(t *testing.T) {
	// Refs to unknown names must not create nodes or edges.
	modules := map[string]*extract.ModuleInfo{
		"main": makeModule("main", "std", "serde", "a"),
		"a":    makeModule("a"),
	}

	result := AnalyzeModules(modules, map[string]bool{"main": true}, nil)

	assert.Equal(t, 2, result.Graph.Len())
	assert.Empty(t, result.Dead)
}

func TestAnalyzeModulesEmptyCrate(t *testing.T) {
	result := AnalyzeModules(map[string]*extract.ModuleInfo{}, map[string]bool{}, nil)

	assert.Empty(t, result.Dead)
	assert.Empty(t, result.Reachable)
	assert.Empty(t, result.Roots)
}

func TestAnalyzeModulesRootAlwaysReachable(t *testing.T) {
	// A root with an empty file (no refs) is still in the reachable set.
	modules := map[string]*extract.ModuleInfo{
		"lib": makeModule("lib"),
	}

	result := AnalyzeModules(modules, map[string]bool{"lib": true}, nil)

	assert.Equal(t, []string{"lib"}, result.Reachable)
	assert.Empty(t, result.Dead)
}

func TestAnalyzeModulesIgnoreList(t *testing.T) {
	modules := map[string]*extract.ModuleInfo{
		"main":      makeModule("main"),
		"generated": makeModule("generated"),
		"old_junk":  makeModule("old_junk"),
	}

	result := AnalyzeModules(modules, map[string]bool{"main": true}, IgnoreList{"generated"})

	assert.Equal(t, []string{"old_junk"}, result.Dead)
}

func TestAnalyzeModulesAllNonRootsDead(t *testing.T) {
	modules := map[string]*extract.ModuleInfo{
		"main": makeModule("main"),
		"a":    makeModule("a"),
		"b":    makeModule("b"),
	}

	result := AnalyzeModules(modules, map[string]bool{"main": true}, nil)

	assert.Equal(t, []string{"a", "b"}, result.Dead)
}

func TestModuleVisualizerShape(t *testing.T) {
	modules := map[string]*extract.ModuleInfo{
		"main": makeModule("main", "a"),
		"a":    makeModule("a"),
		"dead": makeModule("dead"),
	}

	result := AnalyzeModules(modules, map[string]bool{"main": true}, nil)
	viz := result.ToVisualizer()

	assert.Equal(t, 3, viz.Stats.TotalNodes)
	assert.Equal(t, 1, viz.Stats.TotalEdges)
	assert.Equal(t, 1, viz.Stats.DeadNodes)
	for _, n := range viz.Nodes {
		if n.Name == "dead" {
			assert.True(t, n.Dead)
		} else {
			assert.False(t, n.Dead)
		}
	}
}

func TestModuleDOTMarksDeadNodes(t *testing.T) {
	modules := map[string]*extract.ModuleInfo{
		"main": makeModule("main", "a"),
		"a":    makeModule("a"),
		"dead": makeModule("dead"),
	}

	result := AnalyzeModules(modules, map[string]bool{"main": true}, nil)
	dot, err := ModuleDOT(result)

	assert.NoError(t, err)
	assert.Contains(t, dot, "lightcoral")
	assert.Contains(t, dot, "lightgreen")
	assert.Contains(t, dot, "main")
	assert.Contains(t, dot, "->")
}

func TestCyclesDetected(t *testing.T) {
	g := NewDigraph()
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")
	g.AddEdge("a", "c")

	cycles := Cycles(g)

	assert.Len(t, cycles, 1)
	assert.Equal(t, []string{"a", "b"}, cycles[0])
}
