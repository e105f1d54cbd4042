//go:build cgo

package graph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	kuzu "github.com/kuzudb/go-kuzu"

	"github.com/solscope/solscope/internal/extract"
)

// KuzuStore implements the Store interface using KuzuDB as the graph
// backend. It requires CGO because the go-kuzu driver wraps KuzuDB's C
// library.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(":memory:", cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at the
// given directory path, for entity graphs that survive across sessions.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	// Ensure parent directory exists (KuzuDB creates the leaf directory).
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(dbPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open file database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ---------- Schema setup ----------

// ddlStatements defines the Cypher DDL executed by InitSchema.
// Node tables must precede relationship tables.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS Entity(
		name STRING,
		stereotype STRING,
		relative_path STRING,
		attribute_count INT64,
		operator_count INT64,
		PRIMARY KEY(name)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Cluster(
		name STRING,
		cohesion_score DOUBLE,
		PRIMARY KEY(name)
	)`,
	`CREATE REL TABLE IF NOT EXISTS ASSOCIATES(
		FROM Entity TO Entity,
		reference_type STRING,
		realization BOOLEAN
	)`,
	`CREATE REL TABLE IF NOT EXISTS BELONGS_TO(FROM Entity TO Cluster)`,
}

// InitSchema creates all node and relationship tables if they do not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// ---------- Write operations ----------

// AddEntity upserts an Entity node. MERGE keeps the write idempotent when a
// placeholder for the name was created earlier by an association edge.
func (s *KuzuStore) AddEntity(_ context.Context, rec EntityRecord) error {
	return s.exec(
		`MERGE (e:Entity {name: $name})
		 ON MATCH SET e.stereotype = $st, e.relative_path = $rp,
			e.attribute_count = $ac, e.operator_count = $oc
		 ON CREATE SET e.stereotype = $st, e.relative_path = $rp,
			e.attribute_count = $ac, e.operator_count = $oc`,
		map[string]any{
			"name": rec.Name,
			"st":   string(rec.Stereotype),
			"rp":   rec.RelativePath,
			"ac":   int64(rec.AttributeCount),
			"oc":   int64(rec.OperatorCount),
		},
	)
}

// AddAssociation inserts an ASSOCIATES edge, creating placeholder Entity
// nodes for endpoints the graph has not seen. Association targets are
// over-approximated identifiers, not guaranteed to be extracted entities.
func (s *KuzuStore) AddAssociation(_ context.Context, edge Edge) error {
	for _, name := range []string{edge.Source, edge.Target} {
		if err := s.exec("MERGE (e:Entity {name: $name})", map[string]any{"name": name}); err != nil {
			return err
		}
	}
	return s.exec(
		`MATCH (a:Entity {name: $src}), (b:Entity {name: $dst})
		 CREATE (a)-[:ASSOCIATES {reference_type: $rt, realization: $real}]->(b)`,
		map[string]any{
			"src":  edge.Source,
			"dst":  edge.Target,
			"rt":   string(edge.ReferenceType),
			"real": edge.Realization,
		},
	)
}

// AddCluster inserts a Cluster node and its BELONGS_TO edges.
func (s *KuzuStore) AddCluster(_ context.Context, node ClusterNode) error {
	err := s.exec(
		"CREATE (c:Cluster {name: $name, cohesion_score: $score})",
		map[string]any{
			"name":  node.Name,
			"score": node.CohesionScore,
		},
	)
	if err != nil {
		return err
	}
	for _, member := range node.Members {
		err := s.exec(
			`MATCH (e:Entity {name: $src}), (c:Cluster {name: $dst})
			 CREATE (e)-[:BELONGS_TO]->(c)`,
			map[string]any{"src": member, "dst": node.Name},
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// ---------- Read operations ----------

// GetEntity retrieves a single Entity node by name, or nil if not found.
func (s *KuzuStore) GetEntity(_ context.Context, name string) (*EntityRecord, error) {
	rows, err := s.query(
		`MATCH (e:Entity {name: $name})
		 RETURN e.name, e.stereotype, e.relative_path, e.attribute_count, e.operator_count`,
		map[string]any{"name": name},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rowToEntity(rows[0]), nil
}

// QueryEntities returns entities whose name contains the query string.
func (s *KuzuStore) QueryEntities(_ context.Context, queryStr string, limit int) ([]EntityRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.query(
		`MATCH (e:Entity) WHERE e.name CONTAINS $q
		 RETURN e.name, e.stereotype, e.relative_path, e.attribute_count, e.operator_count
		 LIMIT $lim`,
		map[string]any{
			"q":   queryStr,
			"lim": int64(limit),
		},
	)
	if err != nil {
		return nil, err
	}
	out := make([]EntityRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, *rowToEntity(r))
	}
	return out, nil
}

// GetAllAssociations returns every ASSOCIATES edge with its properties.
func (s *KuzuStore) GetAllAssociations(_ context.Context) ([]Edge, error) {
	rows, err := s.query(
		`MATCH (a:Entity)-[r:ASSOCIATES]->(b:Entity)
		 RETURN a.name, b.name, r.reference_type, r.realization`,
		nil,
	)
	if err != nil {
		return nil, err
	}
	out := make([]Edge, 0, len(rows))
	for _, r := range rows {
		out = append(out, Edge{
			Source:        toString(r[0]),
			Target:        toString(r[1]),
			ReferenceType: extract.ReferenceType(toString(r[2])),
			Realization:   toBool(r[3]),
		})
	}
	return out, nil
}

// ---------- Graph traversal ----------

// GetAssociations performs a BFS over ASSOCIATES edges starting from the
// given entity name. One AssociationChain per reachable entity.
func (s *KuzuStore) GetAssociations(_ context.Context, name string, dir Direction, maxDepth int) ([]AssociationChain, error) {
	if maxDepth <= 0 {
		maxDepth = 10
	}

	type bfsEntry struct {
		path  []string
		depth int
	}
	visited := map[string]bool{name: true}
	queue := []bfsEntry{{path: []string{name}, depth: 0}}
	var chains []AssociationChain

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}
		tip := cur.path[len(cur.path)-1]
		neighbors, err := s.entityNeighbors(tip, dir)
		if err != nil {
			return nil, err
		}
		for _, nb := range neighbors {
			if visited[nb] {
				continue
			}
			visited[nb] = true
			newPath := make([]string, len(cur.path)+1)
			copy(newPath, cur.path)
			newPath[len(cur.path)] = nb
			chains = append(chains, AssociationChain{
				Nodes: newPath,
				Depth: cur.depth + 1,
			})
			queue = append(queue, bfsEntry{path: newPath, depth: cur.depth + 1})
		}
	}
	return chains, nil
}

// entityNeighbors returns immediate neighbors along ASSOCIATES edges.
func (s *KuzuStore) entityNeighbors(name string, dir Direction) ([]string, error) {
	var cypher string
	switch dir {
	case DirectionDownstream:
		cypher = "MATCH (a:Entity {name: $name})-[:ASSOCIATES]->(b:Entity) RETURN b.name"
	case DirectionUpstream:
		cypher = "MATCH (a:Entity)-[:ASSOCIATES]->(b:Entity {name: $name}) RETURN a.name"
	default:
		return nil, fmt.Errorf("kuzu: unknown direction: %s", dir)
	}
	rows, err := s.query(cypher, map[string]any{"name": name})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, toString(r[0]))
	}
	return out, nil
}

// GetClusters returns all Cluster nodes with their members.
func (s *KuzuStore) GetClusters(_ context.Context) ([]ClusterNode, error) {
	rows, err := s.query(
		"MATCH (c:Cluster) RETURN c.name, c.cohesion_score",
		nil,
	)
	if err != nil {
		return nil, err
	}
	out := make([]ClusterNode, 0, len(rows))
	for _, r := range rows {
		name := toString(r[0])
		score := toFloat64(r[1])

		memberRows, err := s.query(
			"MATCH (e:Entity)-[:BELONGS_TO]->(c:Cluster {name: $name}) RETURN e.name",
			map[string]any{"name": name},
		)
		if err != nil {
			return nil, err
		}
		members := make([]string, 0, len(memberRows))
		for _, mr := range memberRows {
			members = append(members, toString(mr[0]))
		}

		out = append(out, ClusterNode{
			Name:          name,
			CohesionScore: score,
			Members:       members,
		})
	}
	return out, nil
}

// ---------- Stats ----------

// Stats returns counts of all node and edge tables.
func (s *KuzuStore) Stats(_ context.Context) (*GraphStats, error) {
	entities, err := s.countRows("MATCH (e:Entity) RETURN count(e)")
	if err != nil {
		return nil, err
	}
	clusters, err := s.countRows("MATCH (c:Cluster) RETURN count(c)")
	if err != nil {
		return nil, err
	}
	edges, err := s.countRows("MATCH ()-[r:ASSOCIATES]->() RETURN count(r)")
	if err != nil {
		return nil, err
	}
	realizations, err := s.countRows("MATCH ()-[r:ASSOCIATES]->() WHERE r.realization RETURN count(r)")
	if err != nil {
		return nil, err
	}
	return &GraphStats{
		EntityCount:      entities,
		AssociationCount: edges,
		RealizationCount: realizations,
		ClusterCount:     clusters,
	}, nil
}

// ---------- Internal helpers ----------

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
// Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// countRows runs a single-value count query.
func (s *KuzuStore) countRows(cypher string) (int, error) {
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

// rowToEntity converts a 5-column result row into an EntityRecord.
// Column order: name, stereotype, relative_path, attribute_count,
// operator_count.
func rowToEntity(r []any) *EntityRecord {
	return &EntityRecord{
		Name:           toString(r[0]),
		Stereotype:     extract.Stereotype(toString(r[1])),
		RelativePath:   toString(r[2]),
		AttributeCount: toInt(r[3]),
		OperatorCount:  toInt(r[4]),
	}
}

// ---------- Type coercion helpers ----------
// KuzuDB returns typed Go values (int64, float64, bool, string).
// These helpers safely coerce any -> concrete type.

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func toBool(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}
