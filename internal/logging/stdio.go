package logging

import (
	"log/slog"
)

// SetupStdioMode initializes logging for the `rlmctx serve` stdio RPC server.
// The stdio MCP transport requires stdout to carry JSON-RPC exclusively; any
// stray write to stdout or stderr corrupts the protocol stream. This mode
// therefore logs only to the rotating file, never to stderr, and always at
// debug level so a post-mortem has everything it needs.
func SetupStdioMode() (func(), error) {
	cfg := Config{
		Level:         "debug",
		FilePath:      DefaultLogPath(),
		MaxSizeMB:     10,
		MaxFiles:      5,
		WriteToStderr: false,
	}

	logger, cleanup, err := Setup(cfg)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger)
	slog.Info("stdio logging initialized",
		slog.String("log_file", cfg.FilePath),
		slog.String("level", cfg.Level))

	return cleanup, nil
}

// SetupStdioModeWithLevel initializes stdio-safe logging with a specific level.
func SetupStdioModeWithLevel(level string) (func(), error) {
	cfg := Config{
		Level:         level,
		FilePath:      DefaultLogPath(),
		MaxSizeMB:     10,
		MaxFiles:      5,
		WriteToStderr: false,
	}

	logger, cleanup, err := Setup(cfg)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger)
	return cleanup, nil
}
