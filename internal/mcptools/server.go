package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewServer creates an MCP server with all 5 contract graph tools
// registered.
func NewServer(svc *Service) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "solscope",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "build_graph",
		Description: "Extract contract entities and associations from pre-parsed Solidity syntax tree documents and build the entity graph. Computes inheritance clusters.",
	}, svc.BuildGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_entities",
		Description: "Search for extracted entities (contracts, interfaces, libraries, structs, enums) by name substring match. Optionally filter by stereotype and limit results.",
	}, svc.QueryEntities)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_associations",
		Description: "Traverse the association graph upstream or downstream from an entity. Returns association chains up to the specified depth.",
	}, svc.GetAssociations)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_diagram",
		Description: "Render the most recently built entity graph as a Mermaid class diagram with realization, storage, and memory edge styles.",
	}, svc.GenerateDiagram)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "graph_stats",
		Description: "Return entity, association, realization, and cluster counts for the stored graph.",
	}, svc.GraphStats)

	return server
}

// RunServer starts an HTTP server exposing the contract graph MCP tools.
func RunServer(ctx context.Context, svc *Service, addr string) error {
	server := NewServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
