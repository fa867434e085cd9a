package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rlmctx/rlmctx/internal/logging"
	"github.com/rlmctx/rlmctx/internal/mcp"
	"github.com/rlmctx/rlmctx/internal/watch"
)

// watchedFiles are the registry files a foreign rlmctx process (or a
// manual edit) can write to while this server holds them open. Of these,
// only vectorFileName needs an explicit cache-invalidation hook: the
// chunk, session, and insight stores read their JSON straight off disk
// on every call, and search.Engine rebuilds its corpus fresh per query.
var watchedFiles = []string{vectorFileName}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP stdio server",
		Long: `serve starts the MCP server over stdio, the transport AI coding
agents speak to rlmctx. stdout carries JSON-RPC exclusively: serve never
prints anything itself, logging only to a file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	return cmd
}

// runServe never writes to stdout or stderr. The MCP stdio transport
// requires stdout for JSON-RPC only; any stray write (a status line, a
// panic trace, a log line) corrupts the protocol stream from the
// agent's point of view.
func runServe(ctx context.Context) error {
	cleanup, err := logging.SetupStdioMode()
	if err != nil {
		return err
	}
	defer cleanup()

	logger := slog.Default()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := buildCore(ctx)
	if err != nil {
		logger.Error("failed to build core", slog.String("error", err.Error()))
		return err
	}

	watcher := watch.New(c.cfg.Storage.Root, watchedFiles, func(name string) {
		if name != vectorFileName {
			return
		}
		if err := c.vectors.Reload(); err != nil {
			logger.Warn("vector store reload failed", slog.String("error", err.Error()))
			return
		}
		logger.Info("vector store reloaded", slog.String("file", name))
	}, logger)

	go func() {
		if err := watcher.Run(ctx); err != nil {
			logger.Warn("watcher stopped with error", slog.String("error", err.Error()))
		}
	}()

	server, err := mcp.NewServer(c.mcpDeps(logger))
	if err != nil {
		logger.Error("failed to build MCP server", slog.String("error", err.Error()))
		return err
	}

	return server.Serve(ctx)
}
