package graph

import (
	"context"
	"io"
)

// Store is the interface for the entity graph backend.
// Implementations: KuzuStore (production), MemStore (tests, small runs).
// Entity names key the graph: association targets are bare names, so
// entities are deduplicated by name at this level even though extraction
// does not deduplicate across files.
type Store interface {
	io.Closer

	// Schema setup, called once before any data is inserted.
	InitSchema(ctx context.Context) error

	// Write operations.
	AddEntity(ctx context.Context, rec EntityRecord) error
	AddAssociation(ctx context.Context, edge Edge) error
	AddCluster(ctx context.Context, node ClusterNode) error

	// Read operations.
	GetEntity(ctx context.Context, name string) (*EntityRecord, error)
	QueryEntities(ctx context.Context, query string, limit int) ([]EntityRecord, error)
	GetAllAssociations(ctx context.Context) ([]Edge, error)

	// Graph traversal.
	GetAssociations(ctx context.Context, name string, direction Direction, maxDepth int) ([]AssociationChain, error)
	GetClusters(ctx context.Context) ([]ClusterNode, error)

	// Stats.
	Stats(ctx context.Context) (*GraphStats, error)
}
