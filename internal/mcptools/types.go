package mcptools

import "github.com/solscope/solscope/internal/graph"

// --- MCP tool input/output types ---

// BuildGraphInput is the input for the build_graph tool.
type BuildGraphInput struct {
	AstFiles        []string `json:"astFiles" jsonschema:"paths to JSON syntax tree documents, one source unit each"`
	ExcludePatterns []string `json:"excludePatterns,omitempty" jsonschema:"glob patterns for source paths to skip"`
	ContinueOnError bool     `json:"continueOnError,omitempty" jsonschema:"skip files that fail instead of aborting"`
}

// BuildGraphOutput is the result of the build_graph tool.
type BuildGraphOutput struct {
	RunID       string           `json:"runId"`
	Stats       graph.GraphStats `json:"stats"`
	FailedFiles []string         `json:"failedFiles,omitempty"`
}

// QueryEntitiesInput is the input for the query_entities tool.
type QueryEntitiesInput struct {
	Query      string `json:"query" jsonschema:"entity name substring to search for"`
	Stereotype string `json:"stereotype,omitempty" jsonschema:"filter: none, interface, library, abstract, struct, or enum"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum results (default 20)"`
}

// QueryEntitiesOutput is the result of the query_entities tool.
type QueryEntitiesOutput struct {
	Entities []graph.EntityRecord `json:"entities"`
	Total    int                  `json:"total"`
}

// GetAssociationsInput is the input for the get_associations tool.
type GetAssociationsInput struct {
	Name      string `json:"name" jsonschema:"entity name to traverse from"`
	Direction string `json:"direction,omitempty" jsonschema:"downstream (what it references) or upstream (who references it)"`
	MaxDepth  int    `json:"maxDepth,omitempty" jsonschema:"maximum hops (default 5)"`
}

// GetAssociationsOutput is the result of the get_associations tool.
type GetAssociationsOutput struct {
	Chains []graph.AssociationChain `json:"chains"`
}

// GenerateDiagramInput is the input for the generate_diagram tool.
type GenerateDiagramInput struct{}

// GenerateDiagramOutput is the result of the generate_diagram tool.
type GenerateDiagramOutput struct {
	Mermaid string `json:"mermaid"`
}

// GraphStatsInput is the input for the graph_stats tool.
type GraphStatsInput struct{}

// GraphStatsOutput is the result of the graph_stats tool.
type GraphStatsOutput struct {
	Stats graph.GraphStats `json:"stats"`
}
