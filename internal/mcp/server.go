package mcp

import (
	"context"
	"fmt"
	"log/slog"

	gosdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rlmctx/rlmctx/internal/chunkstore"
	"github.com/rlmctx/rlmctx/internal/config"
	"github.com/rlmctx/rlmctx/internal/embedprovider"
	"github.com/rlmctx/rlmctx/internal/insight"
	"github.com/rlmctx/rlmctx/internal/nav"
	"github.com/rlmctx/rlmctx/internal/retention"
	"github.com/rlmctx/rlmctx/internal/search"
	"github.com/rlmctx/rlmctx/internal/session"
	"github.com/rlmctx/rlmctx/internal/vectorstore"
	"github.com/rlmctx/rlmctx/pkg/version"
)

// Server is the rlmctx MCP server: fourteen tools over stdio, bridging an
// AI coding agent with the chunk store, insight memory, search, navigation,
// and retention lifecycle.
type Server struct {
	mcp *gosdk.Server

	chunks    *chunkstore.Store
	sessions  *session.Store
	insights  *insight.Store
	engine    *search.Engine
	nav       *nav.Nav
	retention *retention.Store
	embedder  embedprovider.Provider
	vectors   *vectorstore.Store
	config    *config.Config
	logger    *slog.Logger

	defaultProject string
}

// Deps carries the constructed core stores a Server is built from.
type Deps struct {
	Chunks    *chunkstore.Store
	Sessions  *session.Store
	Insights  *insight.Store
	Engine    *search.Engine
	Nav       *nav.Nav
	Retention *retention.Store
	Embedder  embedprovider.Provider
	Vectors   *vectorstore.Store
	Config    *config.Config
	Logger    *slog.Logger

	// DefaultProject seeds the project field on chunk calls that omit one,
	// normally the auto-detected project at the storage root.
	DefaultProject string
}

// NewServer builds the MCP server and registers its fourteen tools.
func NewServer(deps Deps) (*Server, error) {
	if deps.Chunks == nil {
		return nil, fmt.Errorf("chunk store is required")
	}
	if deps.Sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if deps.Insights == nil {
		return nil, fmt.Errorf("insight store is required")
	}
	if deps.Engine == nil {
		return nil, fmt.Errorf("search engine is required")
	}
	if deps.Nav == nil {
		return nil, fmt.Errorf("nav is required")
	}
	if deps.Retention == nil {
		return nil, fmt.Errorf("retention store is required")
	}
	if deps.Config == nil {
		deps.Config = config.NewConfig()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	s := &Server{
		chunks:         deps.Chunks,
		sessions:       deps.Sessions,
		insights:       deps.Insights,
		engine:         deps.Engine,
		nav:            deps.Nav,
		retention:      deps.Retention,
		embedder:       deps.Embedder,
		vectors:        deps.Vectors,
		config:         deps.Config,
		logger:         deps.Logger,
		defaultProject: deps.DefaultProject,
	}

	s.mcp = gosdk.NewServer(
		&gosdk.Implementation{
			Name:    "rlmctx",
			Version: version.Version,
		},
		nil,
	)

	s.registerTools()

	return s, nil
}

// Serve runs the server over stdio until ctx is canceled. stdio is the
// only supported transport: the MCP protocol requires stdout to carry
// JSON-RPC exclusively, which logging.SetupStdioMode enforces by routing
// all logs to a file instead.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting MCP server", slog.String("transport", "stdio"))
	err := s.mcp.Run(ctx, &gosdk.StdioTransport{})
	if err != nil && err != context.Canceled {
		s.logger.Error("MCP server stopped with error", slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("MCP server stopped gracefully")
	return nil
}

// registerTools registers all fourteen tools with the MCP server.
func (s *Server) registerTools() {
	gosdk.AddTool(s.mcp, &gosdk.Tool{
		Name:        "remember",
		Description: "Store a fact, decision, or finding in session memory for later recall.",
	}, s.handleRemember)

	gosdk.AddTool(s.mcp, &gosdk.Tool{
		Name:        "recall",
		Description: "Retrieve remembered insights, optionally filtered by query, category, or importance.",
	}, s.handleRecall)

	gosdk.AddTool(s.mcp, &gosdk.Tool{
		Name:        "forget",
		Description: "Remove a previously remembered insight by ID.",
	}, s.handleForget)

	gosdk.AddTool(s.mcp, &gosdk.Tool{
		Name:        "status",
		Description: "Report storage root, chunk/insight counts by zone, and embedding provider health.",
	}, s.handleStatus)

	gosdk.AddTool(s.mcp, &gosdk.Tool{
		Name:        "chunk",
		Description: "Externalize content into a content-addressed chunk, deduplicating identical content.",
	}, s.handleChunk)

	gosdk.AddTool(s.mcp, &gosdk.Tool{
		Name:        "peek",
		Description: "Read a chunk's content, optionally sliced to a line range. Auto-restores from the archive zone if needed.",
	}, s.handlePeek)

	gosdk.AddTool(s.mcp, &gosdk.Tool{
		Name:        "grep",
		Description: "Search chunk content by regex pattern, or by fuzzy partial-ratio match when fuzzy is set.",
	}, s.handleGrep)

	gosdk.AddTool(s.mcp, &gosdk.Tool{
		Name:        "list_chunks",
		Description: "List active chunks, most recent first, filtered by project, domain, date range, or entity.",
	}, s.handleListChunks)

	gosdk.AddTool(s.mcp, &gosdk.Tool{
		Name:        "search",
		Description: "Hybrid BM25 and cosine-similarity search across chunks and, optionally, insights.",
	}, s.handleSearch)

	gosdk.AddTool(s.mcp, &gosdk.Tool{
		Name:        "sessions",
		Description: "List recorded sessions (one per project per day chunks were created).",
	}, s.handleSessions)

	gosdk.AddTool(s.mcp, &gosdk.Tool{
		Name:        "domains",
		Description: "List every known domain: the seeded suggestions plus any domain observed on a chunk.",
	}, s.handleDomains)

	gosdk.AddTool(s.mcp, &gosdk.Tool{
		Name:        "retention_preview",
		Description: "Preview which chunks would be archived or purged by a retention run, without changing anything.",
	}, s.handleRetentionPreview)

	gosdk.AddTool(s.mcp, &gosdk.Tool{
		Name:        "retention_run",
		Description: "Run the archive and/or purge phases of the retention lifecycle.",
	}, s.handleRetentionRun)

	gosdk.AddTool(s.mcp, &gosdk.Tool{
		Name:        "restore",
		Description: "Restore an archived chunk back to the active zone.",
	}, s.handleRestore)

	s.logger.Info("MCP tools registered", slog.Int("count", 14))
}
