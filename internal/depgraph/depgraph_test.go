package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopologicalSortOrdersDependenciesFirst(t *testing.T) {
	g := NewGraph()
	g.AddNode(&Node{ID: "alpha", Dependencies: []string{"beta", "charlie"}})
	g.AddNode(&Node{ID: "beta", Dependencies: []string{"charlie"}})
	g.AddNode(&Node{ID: "charlie"})

	sorted, err := g.TopologicalSort()
	require.NoError(t, err)
	require.Len(t, sorted, 3)

	pos := make(map[string]int, len(sorted))
	for i, id := range sorted {
		pos[id] = i
	}
	assert.Less(t, pos["charlie"], pos["beta"])
	assert.Less(t, pos["beta"], pos["alpha"])
}

func TestTopologicalSortDetectsCycle(t *testing.T) {
	g := NewGraph()
	g.AddNode(&Node{ID: "alpha", Dependencies: []string{"beta"}})
	g.AddNode(&Node{ID: "beta", Dependencies: []string{"alpha"}})

	_, err := g.TopologicalSort()
	require.Error(t, err)
}

func TestTopologicalSortIgnoresDanglingDependency(t *testing.T) {
	g := NewGraph()
	g.AddNode(&Node{ID: "alpha", Dependencies: []string{"not-in-graph"}})

	sorted, err := g.TopologicalSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, sorted)
}
