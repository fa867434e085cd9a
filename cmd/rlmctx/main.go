// Command rlmctx is a local-first memory core for AI coding agents: an
// MCP server plus CLI exposing chunk storage, hybrid search, and a
// three-zone retention lifecycle over a single storage root.
package main

import (
	"os"

	"github.com/rlmctx/rlmctx/cmd/rlmctx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
