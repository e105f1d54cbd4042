package mcptools

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/solscope/solscope/internal/ast"
	"github.com/solscope/solscope/internal/export"
	"github.com/solscope/solscope/internal/extract"
	"github.com/solscope/solscope/internal/graph"
	"github.com/solscope/solscope/internal/pipeline"
)

// Service holds the graph store, parser, and logger used by MCP tool
// handlers, plus the entities of the most recent build for diagram
// generation (the store keeps only graph-node projections).
type Service struct {
	store  graph.Store
	parser ast.Parser
	logger *slog.Logger

	lastEntities []*extract.Entity
}

// NewService creates a Service with the given store and parser. logger may
// be nil.
func NewService(store graph.Store, parser ast.Parser, logger *slog.Logger) *Service {
	return &Service{store: store, parser: parser, logger: logger}
}

// BuildGraph reads the given syntax tree documents, runs the extraction
// pipeline, and populates the graph store. Returns run statistics.
func (s *Service) BuildGraph(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BuildGraphInput,
) (*mcp.CallToolResult, BuildGraphOutput, error) {
	if len(input.AstFiles) == 0 {
		return nil, BuildGraphOutput{}, fmt.Errorf("astFiles is required")
	}

	var sources []pipeline.Source
	for _, path := range input.AstFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, BuildGraphOutput{}, fmt.Errorf("read %s: %w", path, err)
		}
		tree, err := s.parser.Parse(ctx, path, data)
		if err != nil {
			return nil, BuildGraphOutput{}, err
		}
		sources = append(sources, pipeline.Source{Path: path, Tree: tree})
	}

	p, err := pipeline.New(pipeline.Options{
		ContinueOnError: input.ContinueOnError,
		ExcludePatterns: input.ExcludePatterns,
		Logger:          s.logger,
	})
	if err != nil {
		return nil, BuildGraphOutput{}, err
	}

	result, err := p.Run(ctx, sources)
	if err != nil {
		return nil, BuildGraphOutput{}, err
	}

	if err := pipeline.Load(ctx, s.store, result.Entities); err != nil {
		return nil, BuildGraphOutput{}, err
	}
	if _, err := graph.ComputeClusters(ctx, s.store); err != nil {
		return nil, BuildGraphOutput{}, fmt.Errorf("compute clusters: %w", err)
	}

	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, BuildGraphOutput{}, fmt.Errorf("stats: %w", err)
	}

	s.lastEntities = result.Entities

	out := BuildGraphOutput{RunID: result.RunID, Stats: *stats}
	for _, f := range result.Failures {
		out.FailedFiles = append(out.FailedFiles, f.Path)
	}
	return nil, out, nil
}

// QueryEntities searches for entities by name substring match.
func (s *Service) QueryEntities(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryEntitiesInput,
) (*mcp.CallToolResult, QueryEntitiesOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	entities, err := s.store.QueryEntities(ctx, input.Query, limit)
	if err != nil {
		return nil, QueryEntitiesOutput{}, fmt.Errorf("query entities: %w", err)
	}

	if input.Stereotype != "" {
		st := extract.Stereotype(strings.ToLower(input.Stereotype))
		filtered := entities[:0]
		for _, rec := range entities {
			if rec.Stereotype == st {
				filtered = append(filtered, rec)
			}
		}
		entities = filtered
	}

	return nil, QueryEntitiesOutput{
		Entities: entities,
		Total:    len(entities),
	}, nil
}

// GetAssociations traverses the association graph from a given entity.
func (s *Service) GetAssociations(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetAssociationsInput,
) (*mcp.CallToolResult, GetAssociationsOutput, error) {
	if input.Name == "" {
		return nil, GetAssociationsOutput{}, fmt.Errorf("name is required")
	}

	direction := graph.DirectionDownstream
	if strings.EqualFold(input.Direction, "upstream") {
		direction = graph.DirectionUpstream
	}

	maxDepth := input.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 5
	}

	chains, err := s.store.GetAssociations(ctx, input.Name, direction, maxDepth)
	if err != nil {
		return nil, GetAssociationsOutput{}, fmt.Errorf("get associations: %w", err)
	}

	return nil, GetAssociationsOutput{Chains: chains}, nil
}

// GenerateDiagram renders the most recent build as a Mermaid class diagram.
func (s *Service) GenerateDiagram(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ GenerateDiagramInput,
) (*mcp.CallToolResult, GenerateDiagramOutput, error) {
	if len(s.lastEntities) == 0 {
		return nil, GenerateDiagramOutput{}, fmt.Errorf("no graph built yet; call build_graph first")
	}

	clusters, err := s.store.GetClusters(ctx)
	if err != nil {
		return nil, GenerateDiagramOutput{}, fmt.Errorf("get clusters: %w", err)
	}

	diagram := export.GenerateClassDiagram(s.lastEntities, clusters)
	return nil, GenerateDiagramOutput{Mermaid: diagram}, nil
}

// GraphStats returns counts for the stored entity graph.
func (s *Service) GraphStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ GraphStatsInput,
) (*mcp.CallToolResult, GraphStatsOutput, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, GraphStatsOutput{}, fmt.Errorf("stats: %w", err)
	}
	return nil, GraphStatsOutput{Stats: *stats}, nil
}
