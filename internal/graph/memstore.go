package graph

import (
	"context"
	"strings"
	"sync"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore implements Store using Go maps. Thread-safe via sync.RWMutex.
type MemStore struct {
	mu       sync.RWMutex
	entities map[string]EntityRecord
	edges    []Edge
	clusters []ClusterNode
}

// NewMemStore returns an initialized MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{
		entities: make(map[string]EntityRecord),
	}
}

// InitSchema is a no-op for the in-memory store.
func (m *MemStore) InitSchema(_ context.Context) error {
	return nil
}

// AddEntity stores an entity record keyed by name. A record with member
// counts wins over a bare placeholder written earlier by an association.
func (m *MemStore) AddEntity(_ context.Context, rec EntityRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entities[rec.Name] = rec
	return nil
}

// AddAssociation appends an edge, creating placeholder records for endpoints
// the store has not seen. The resolver over-approximates, so targets are not
// guaranteed to be extracted entities.
func (m *MemStore) AddAssociation(_ context.Context, edge Edge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entities[edge.Source]; !ok {
		m.entities[edge.Source] = EntityRecord{Name: edge.Source}
	}
	if _, ok := m.entities[edge.Target]; !ok {
		m.entities[edge.Target] = EntityRecord{Name: edge.Target}
	}
	m.edges = append(m.edges, edge)
	return nil
}

// AddCluster appends a cluster to the internal slice.
func (m *MemStore) AddCluster(_ context.Context, node ClusterNode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clusters = append(m.clusters, node)
	return nil
}

// GetEntity returns the record for the given name, or nil if not found.
func (m *MemStore) GetEntity(_ context.Context, name string) (*EntityRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.entities[name]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// QueryEntities returns entities whose name contains query
// (case-insensitive), up to limit results. A limit <= 0 returns all matches.
func (m *MemStore) QueryEntities(_ context.Context, query string, limit int) ([]EntityRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lowerQuery := strings.ToLower(query)
	var results []EntityRecord
	for _, rec := range m.entities {
		if strings.Contains(strings.ToLower(rec.Name), lowerQuery) {
			results = append(results, rec)
			if limit > 0 && len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

// GetAllAssociations returns a copy of all edges in the store.
func (m *MemStore) GetAllAssociations(_ context.Context) ([]Edge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Edge, len(m.edges))
	copy(out, m.edges)
	return out, nil
}

// GetAssociations performs a BFS over association edges from name in the
// given direction, up to maxDepth hops. One AssociationChain per reachable
// entity.
func (m *MemStore) GetAssociations(_ context.Context, name string, direction Direction, maxDepth int) ([]AssociationChain, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if maxDepth <= 0 {
		return nil, nil
	}

	type bfsEntry struct {
		name string
		path []string
	}

	visited := map[string]bool{name: true}
	queue := []bfsEntry{{name: name, path: []string{name}}}
	var chains []AssociationChain

	for depth := 0; depth < maxDepth && len(queue) > 0; depth++ {
		var nextQueue []bfsEntry
		for _, entry := range queue {
			for _, nb := range m.neighbors(entry.name, direction) {
				if visited[nb] {
					continue
				}
				visited[nb] = true
				newPath := make([]string, len(entry.path), len(entry.path)+1)
				copy(newPath, entry.path)
				newPath = append(newPath, nb)
				chains = append(chains, AssociationChain{
					Nodes: newPath,
					Depth: len(newPath) - 1,
				})
				nextQueue = append(nextQueue, bfsEntry{name: nb, path: newPath})
			}
		}
		queue = nextQueue
	}

	return chains, nil
}

// neighbors returns names reachable from name in one hop along the given
// direction.
func (m *MemStore) neighbors(name string, direction Direction) []string {
	var result []string
	for _, e := range m.edges {
		switch direction {
		case DirectionDownstream:
			if e.Source == name {
				result = append(result, e.Target)
			}
		case DirectionUpstream:
			if e.Target == name {
				result = append(result, e.Source)
			}
		}
	}
	return result
}

// GetClusters returns all stored clusters.
func (m *MemStore) GetClusters(_ context.Context) ([]ClusterNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ClusterNode, len(m.clusters))
	copy(out, m.clusters)
	return out, nil
}

// Stats returns counts of entities, edges, realizations, and clusters.
func (m *MemStore) Stats(_ context.Context) (*GraphStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	realizations := 0
	for _, e := range m.edges {
		if e.Realization {
			realizations++
		}
	}
	return &GraphStats{
		EntityCount:      len(m.entities),
		AssociationCount: len(m.edges),
		RealizationCount: realizations,
		ClusterCount:     len(m.clusters),
	}, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error {
	return nil
}
