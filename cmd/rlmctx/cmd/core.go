package cmd

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/rlmctx/rlmctx/internal/chunkstore"
	"github.com/rlmctx/rlmctx/internal/config"
	"github.com/rlmctx/rlmctx/internal/embedprovider"
	"github.com/rlmctx/rlmctx/internal/insight"
	"github.com/rlmctx/rlmctx/internal/mcp"
	"github.com/rlmctx/rlmctx/internal/nav"
	"github.com/rlmctx/rlmctx/internal/retention"
	"github.com/rlmctx/rlmctx/internal/rlmerrors"
	"github.com/rlmctx/rlmctx/internal/search"
	"github.com/rlmctx/rlmctx/internal/session"
	"github.com/rlmctx/rlmctx/internal/vectorstore"
)

// vectorFileName is the gob file vectorstore.Store persists to under the
// storage root. internal/watch watches this file for foreign writes.
const vectorFileName = "vectors.gob"

// core bundles the constructed stores and engines every subcommand needs.
// Each subcommand builds its own core from a loaded config rather than
// sharing a process-wide singleton, mirroring how the CLI treats each
// invocation as a fresh, short-lived process.
type core struct {
	cfg       *config.Config
	chunks    *chunkstore.Store
	sessions  *session.Store
	insights  *insight.Store
	vectors   *vectorstore.Store
	embedder  embedprovider.Provider
	engine    *search.Engine
	nav       *nav.Nav
	retention *retention.Store
	project   string
}

// buildCore loads config and wires every store and engine rlmctx needs,
// in dependency order. chunkstore.Store and retention.Store depend on
// each other (peek auto-restores via retention, retention archives via
// the chunk store), so chunkstore.Store is constructed without a
// restorer first and wired via SetRestorer once retention.Store exists.
func buildCore(ctx context.Context) (*core, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, rlmerrors.Wrap("load config", err)
	}
	return buildCoreFromConfig(ctx, cfg)
}

func buildCoreFromConfig(ctx context.Context, cfg *config.Config) (*core, error) {
	root := cfg.Storage.Root

	chunks, err := chunkstore.NewStore(root)
	if err != nil {
		return nil, rlmerrors.Wrap("open chunk store", err)
	}

	sessions, err := session.NewStore(root)
	if err != nil {
		return nil, rlmerrors.Wrap("open session store", err)
	}

	insights, err := insight.NewStore(root)
	if err != nil {
		return nil, rlmerrors.Wrap("open insight store", err)
	}

	embedder := embedprovider.New(ctx, embedprovider.Config{
		Kind:      cfg.Embeddings.Provider,
		Endpoint:  cfg.Embeddings.Endpoint,
		CacheSize: cfg.Embeddings.CacheSize,
	})

	vectors, err := vectorstore.Open(filepath.Join(root, vectorFileName), embedder.Name(), embedder.Dim())
	if err != nil {
		return nil, rlmerrors.Wrap("open vector store", err)
	}

	engine := search.NewEngine(chunks, insights, search.Config{
		K1:       cfg.Search.BM25K1,
		B:        cfg.Search.BM25B,
		Alpha:    cfg.Search.FusionAlpha,
		Vectors:  vectors,
		Embedder: embedder,
	})

	navigator := nav.New(chunks)
	retentionStore := retention.NewStore(root, chunks)
	chunks.SetRestorer(retentionStore)

	project, err := config.DetectProjectName(".")
	if err != nil {
		project = "default"
	}

	return &core{
		cfg:       cfg,
		chunks:    chunks,
		sessions:  sessions,
		insights:  insights,
		vectors:   vectors,
		embedder:  embedder,
		engine:    engine,
		nav:       navigator,
		retention: retentionStore,
		project:   project,
	}, nil
}

// mcpDeps adapts core into the dependency set mcp.NewServer expects.
func (c *core) mcpDeps(logger *slog.Logger) mcp.Deps {
	return mcp.Deps{
		Chunks:         c.chunks,
		Sessions:       c.sessions,
		Insights:       c.insights,
		Engine:         c.engine,
		Nav:            c.nav,
		Retention:      c.retention,
		Embedder:       c.embedder,
		Vectors:        c.vectors,
		Config:         c.cfg,
		Logger:         logger,
		DefaultProject: c.project,
	}
}
