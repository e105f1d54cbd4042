package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// TestComputeClusters
// ---------------------------------------------------------------------------

func TestComputeClusters_GroupsRealizationComponents(t *testing.T) {
	s := NewMemStore()
	defer s.Close()
	ctx := context.Background()

	// Two hierarchies: {Token, StandardToken, IERC20} and {Vault, IVault}.
	addEdge(t, s, "Token", "StandardToken", true)
	addEdge(t, s, "StandardToken", "IERC20", true)
	addEdge(t, s, "Vault", "IVault", true)
	// Plain references never join hierarchies.
	addEdge(t, s, "Token", "SafeMath", false)

	clusters, err := ComputeClusters(ctx, s)
	require.NoError(t, err)
	require.Len(t, clusters, 2)

	byName := make(map[string]ClusterNode, len(clusters))
	for _, c := range clusters {
		byName[c.Name] = c
	}
	require.Contains(t, byName, "IERC20")
	assert.ElementsMatch(t, []string{"IERC20", "StandardToken", "Token"}, byName["IERC20"].Members)
	require.Contains(t, byName, "IVault")
	assert.ElementsMatch(t, []string{"IVault", "Vault"}, byName["IVault"].Members)

	// Clusters are persisted to the store as they are computed.
	stored, err := s.GetClusters(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestComputeClusters_NamesMostInheritedFrom(t *testing.T) {
	s := NewMemStore()
	defer s.Close()

	// Two contracts realize IERC20, one realizes Base: IERC20 wins.
	addEdge(t, s, "Token", "IERC20", true)
	addEdge(t, s, "Vault", "IERC20", true)
	addEdge(t, s, "Token", "Base", true)

	clusters, err := ComputeClusters(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, "IERC20", clusters[0].Name)
}

func TestComputeClusters_NameTieBreaksLexicographically(t *testing.T) {
	s := NewMemStore()
	defer s.Close()

	addEdge(t, s, "Zeta", "Alpha", true)

	clusters, err := ComputeClusters(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, "Alpha", clusters[0].Name)
}

func TestComputeClusters_SingletonsSkipped(t *testing.T) {
	s := NewMemStore()
	defer s.Close()

	// Only memory references, no realization edges at all.
	addEdge(t, s, "Token", "SafeMath", false)
	addEdge(t, s, "Token", "Registry", false)

	clusters, err := ComputeClusters(context.Background(), s)
	require.NoError(t, err)
	assert.Empty(t, clusters)
}

func TestComputeClusters_Cohesion(t *testing.T) {
	s := NewMemStore()
	defer s.Close()

	// Component {Token, IERC20}: one internal edge, one external (SafeMath).
	addEdge(t, s, "Token", "IERC20", true)
	addEdge(t, s, "Token", "SafeMath", false)

	clusters, err := ComputeClusters(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.InDelta(t, 0.5, clusters[0].CohesionScore, 1e-9)
}

func TestComputeClusters_Deterministic(t *testing.T) {
	build := func() []ClusterNode {
		s := NewMemStore()
		defer s.Close()
		addEdge(t, s, "D", "C", true)
		addEdge(t, s, "B", "A", true)
		addEdge(t, s, "F", "E", true)
		clusters, err := ComputeClusters(context.Background(), s)
		require.NoError(t, err)
		return clusters
	}

	first := build()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, build())
	}
}
