// Package logging provides file-based logging with rotation for rlmctx.
// Setup writes logs to ~/.rlmctx/logs/server.log and, by default, also to
// stderr. SetupStdioMode, which the serve command uses, writes to the file
// only. No CLI flag changes where logs go.
package logging
