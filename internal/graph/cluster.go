package graph

import (
	"context"
	"sort"
)

// ComputeClusters groups entities into inheritance hierarchies: connected
// components over realization edges. Diagram renderers use the clusters to
// draw one subgraph per hierarchy.
//
// Algorithm:
//  1. Build an undirected adjacency list from realization edges.
//  2. Find connected components via BFS.
//  3. For each component with >= 2 entities, name the cluster after its most
//     inherited-from member, compute a cohesion score, and store it.
//
// Cohesion is internal_associations / (internal + external associations)
// counted over all edges touching the component, so a hierarchy that mostly
// references itself scores near 1.
func ComputeClusters(ctx context.Context, store Store) ([]ClusterNode, error) {
	edges, err := store.GetAllAssociations(ctx)
	if err != nil {
		return nil, err
	}

	adj := make(map[string]map[string]bool)
	inDegree := make(map[string]int) // realization in-degree, for naming
	for _, e := range edges {
		if !e.Realization {
			continue
		}
		if adj[e.Source] == nil {
			adj[e.Source] = make(map[string]bool)
		}
		if adj[e.Target] == nil {
			adj[e.Target] = make(map[string]bool)
		}
		adj[e.Source][e.Target] = true
		adj[e.Target][e.Source] = true
		inDegree[e.Target]++
	}

	// Deterministic iteration order over component seeds.
	names := make([]string, 0, len(adj))
	for n := range adj {
		names = append(names, n)
	}
	sort.Strings(names)

	visited := make(map[string]bool, len(adj))
	var clusters []ClusterNode

	for _, name := range names {
		if visited[name] {
			continue
		}
		component := bfsComponent(name, adj, visited)
		if len(component) < 2 {
			continue
		}
		sort.Strings(component)
		cluster := ClusterNode{
			Name:          rootName(component, inDegree),
			CohesionScore: computeCohesion(component, edges),
			Members:       component,
		}
		if err := store.AddCluster(ctx, cluster); err != nil {
			return nil, err
		}
		clusters = append(clusters, cluster)
	}

	return clusters, nil
}

// bfsComponent performs BFS from start on the adjacency list and returns all
// reachable nodes. It marks visited nodes as it goes.
func bfsComponent(start string, adj map[string]map[string]bool, visited map[string]bool) []string {
	var component []string
	queue := []string{start}
	visited[start] = true

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		component = append(component, node)
		for neighbor := range adj[node] {
			if !visited[neighbor] {
				visited[neighbor] = true
				queue = append(queue, neighbor)
			}
		}
	}

	return component
}

// rootName picks the component member most inherited from; ties resolve
// lexicographically. Components is sorted on entry.
func rootName(component []string, inDegree map[string]int) string {
	best := component[0]
	for _, m := range component[1:] {
		if inDegree[m] > inDegree[best] {
			best = m
		}
	}
	return best
}

// computeCohesion calculates internal / (internal + external) association
// edges for a component, counting every edge kind, not just realizations.
func computeCohesion(component []string, edges []Edge) float64 {
	memberSet := make(map[string]bool, len(component))
	for _, m := range component {
		memberSet[m] = true
	}

	internal := 0
	external := 0
	for _, e := range edges {
		srcIn, dstIn := memberSet[e.Source], memberSet[e.Target]
		switch {
		case srcIn && dstIn:
			internal++
		case srcIn || dstIn:
			external++
		}
	}

	total := internal + external
	if total == 0 {
		return 0
	}
	return float64(internal) / float64(total)
}
