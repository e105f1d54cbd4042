// Package graph persists the extracted entity-and-association graph behind
// a Store interface, with a KuzuDB production backend and an in-memory
// backend for tests and small runs.
package graph

import "github.com/solscope/solscope/internal/extract"

// --- Models ---

// EntityRecord is the graph-node projection of an extracted entity. The full
// member lists stay on extract.Entity; the store keeps what traversal and
// diagram grouping need.
type EntityRecord struct {
	Name           string             `json:"name"`
	Stereotype     extract.Stereotype `json:"stereotype"`
	RelativePath   string             `json:"relativePath,omitempty"`
	AttributeCount int                `json:"attributeCount"`
	OperatorCount  int                `json:"operatorCount"`
}

// RecordOf projects an extracted entity onto its graph node.
func RecordOf(e *extract.Entity) EntityRecord {
	return EntityRecord{
		Name:           e.Name,
		Stereotype:     e.Stereotype,
		RelativePath:   e.RelativePath,
		AttributeCount: len(e.Attributes),
		OperatorCount:  len(e.Operators),
	}
}

// Edge is one directed association between two entity names.
type Edge struct {
	Source        string                `json:"source"`
	Target        string                `json:"target"`
	ReferenceType extract.ReferenceType `json:"referenceType"`
	Realization   bool                  `json:"realization"`
}

// ClusterNode groups entities connected by realization edges, one
// inheritance hierarchy per cluster.
type ClusterNode struct {
	Name          string   `json:"name"`
	CohesionScore float64  `json:"cohesionScore"`
	Members       []string `json:"members"` // entity names
}

// AssociationChain is an ordered path of entity names reached by traversal.
type AssociationChain struct {
	Nodes []string `json:"nodes"`
	Depth int      `json:"depth"`
}

// GraphStats summarizes a stored entity graph.
type GraphStats struct {
	EntityCount      int `json:"entityCount"`
	AssociationCount int `json:"associationCount"`
	RealizationCount int `json:"realizationCount"`
	ClusterCount     int `json:"clusterCount"`
}

// Direction controls association traversal direction.
type Direction string

const (
	DirectionUpstream   Direction = "upstream"   // who references this entity?
	DirectionDownstream Direction = "downstream" // what does this entity reference?
)
