// Package cmd provides the CLI commands for rlmctx.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rlmctx/rlmctx/pkg/version"
)

// debugMode is bound to the persistent --debug flag. No command reads it,
// so the flag does not change any logging level.
var debugMode bool

// NewRootCmd creates the root command for the rlmctx CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rlmctx",
		Short: "Local-first memory core for AI coding agents",
		Long: `rlmctx stores chunked context, session history, and durable
insights for AI coding agents, and exposes them over MCP (Model Context
Protocol) so an agent can remember, recall, and search its own past work.

Run 'rlmctx serve' to start the MCP stdio server, or use the other
subcommands to inspect and manage a storage root directly.`,
		Version:      version.Version,
		SilenceUsage: true,
	}

	cmd.SetVersionTemplate("rlmctx version {{.Version}}\n")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newRetentionCmd())
	cmd.AddCommand(newRestoreCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the rlmctx CLI, returning the first error encountered.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		return fmt.Errorf("rlmctx: %w", err)
	}
	return nil
}
