package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solscope/solscope/internal/extract"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func addEntities(t *testing.T, s Store, names ...string) {
	t.Helper()
	ctx := context.Background()
	for _, n := range names {
		require.NoError(t, s.AddEntity(ctx, EntityRecord{Name: n, Stereotype: extract.StereotypeNone}))
	}
}

func addEdge(t *testing.T, s Store, source, target string, realization bool) {
	t.Helper()
	require.NoError(t, s.AddAssociation(context.Background(), Edge{
		Source:        source,
		Target:        target,
		ReferenceType: extract.RefStorage,
		Realization:   realization,
	}))
}

// ---------------------------------------------------------------------------
// TestMemStore basics
// ---------------------------------------------------------------------------

func TestMemStore_AddAndGetEntity(t *testing.T) {
	s := NewMemStore()
	defer s.Close()
	ctx := context.Background()

	rec := EntityRecord{
		Name:           "Token",
		Stereotype:     extract.StereotypeNone,
		RelativePath:   "token.sol",
		AttributeCount: 2,
		OperatorCount:  3,
	}
	require.NoError(t, s.AddEntity(ctx, rec))

	got, err := s.GetEntity(ctx, "Token")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec, *got)

	missing, err := s.GetEntity(ctx, "Nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemStore_AssociationCreatesPlaceholders(t *testing.T) {
	s := NewMemStore()
	defer s.Close()
	ctx := context.Background()

	// The resolver over-approximates targets; unseen endpoints get placeholder
	// records so traversal never dangles.
	addEdge(t, s, "Token", "UnknownTarget", false)

	got, err := s.GetEntity(ctx, "UnknownTarget")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "UnknownTarget", got.Name)
	assert.Empty(t, got.Stereotype)
}

func TestMemStore_QueryEntities(t *testing.T) {
	s := NewMemStore()
	defer s.Close()
	ctx := context.Background()
	addEntities(t, s, "Token", "TokenVault", "Registry")

	results, err := s.QueryEntities(ctx, "token", 10)
	require.NoError(t, err)
	assert.Len(t, results, 2, "match is case-insensitive substring")

	limited, err := s.QueryEntities(ctx, "token", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

// ---------------------------------------------------------------------------
// TestMemStore traversal
// ---------------------------------------------------------------------------

func TestMemStore_GetAssociationsDownstream(t *testing.T) {
	s := NewMemStore()
	defer s.Close()
	ctx := context.Background()

	// Token -> IERC20 -> IERC165, Token -> SafeMath
	addEdge(t, s, "Token", "IERC20", true)
	addEdge(t, s, "IERC20", "IERC165", true)
	addEdge(t, s, "Token", "SafeMath", false)

	chains, err := s.GetAssociations(ctx, "Token", DirectionDownstream, 5)
	require.NoError(t, err)
	require.Len(t, chains, 3)

	byLast := make(map[string]AssociationChain, len(chains))
	for _, c := range chains {
		byLast[c.Nodes[len(c.Nodes)-1]] = c
	}
	assert.Equal(t, []string{"Token", "IERC20"}, byLast["IERC20"].Nodes)
	assert.Equal(t, 1, byLast["IERC20"].Depth)
	assert.Equal(t, []string{"Token", "IERC20", "IERC165"}, byLast["IERC165"].Nodes)
	assert.Equal(t, 2, byLast["IERC165"].Depth)
}

func TestMemStore_GetAssociationsUpstream(t *testing.T) {
	s := NewMemStore()
	defer s.Close()
	ctx := context.Background()

	addEdge(t, s, "Token", "IERC20", true)
	addEdge(t, s, "Vault", "IERC20", true)

	chains, err := s.GetAssociations(ctx, "IERC20", DirectionUpstream, 3)
	require.NoError(t, err)
	require.Len(t, chains, 2)

	reached := map[string]bool{}
	for _, c := range chains {
		reached[c.Nodes[len(c.Nodes)-1]] = true
	}
	assert.True(t, reached["Token"])
	assert.True(t, reached["Vault"])
}

func TestMemStore_GetAssociationsDepthLimit(t *testing.T) {
	s := NewMemStore()
	defer s.Close()
	ctx := context.Background()

	addEdge(t, s, "A", "B", false)
	addEdge(t, s, "B", "C", false)
	addEdge(t, s, "C", "D", false)

	chains, err := s.GetAssociations(ctx, "A", DirectionDownstream, 2)
	require.NoError(t, err)
	assert.Len(t, chains, 2, "depth 2 reaches B and C only")

	none, err := s.GetAssociations(ctx, "A", DirectionDownstream, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemStore_GetAssociationsCycle(t *testing.T) {
	s := NewMemStore()
	defer s.Close()
	ctx := context.Background()

	addEdge(t, s, "A", "B", false)
	addEdge(t, s, "B", "A", false)

	chains, err := s.GetAssociations(ctx, "A", DirectionDownstream, 10)
	require.NoError(t, err)
	assert.Len(t, chains, 1, "visited set breaks the cycle")
}

// ---------------------------------------------------------------------------
// TestMemStore_Stats
// ---------------------------------------------------------------------------

func TestMemStore_Stats(t *testing.T) {
	s := NewMemStore()
	defer s.Close()
	ctx := context.Background()

	addEntities(t, s, "Token", "IERC20")
	addEdge(t, s, "Token", "IERC20", true)
	addEdge(t, s, "Token", "SafeMath", false)
	require.NoError(t, s.AddCluster(ctx, ClusterNode{Name: "IERC20", Members: []string{"Token", "IERC20"}}))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.EntityCount, "SafeMath placeholder counts")
	assert.Equal(t, 2, stats.AssociationCount)
	assert.Equal(t, 1, stats.RealizationCount)
	assert.Equal(t, 1, stats.ClusterCount)
}
