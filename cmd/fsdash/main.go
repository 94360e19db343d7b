package main

import (
	"os"

	"github.com/jontk/fsdash/internal/cli"
	"github.com/jontk/fsdash/internal/logging"
)

func main() {
	// Initialize structured logging early; commands reconfigure it once the
	// config is loaded
	logging.Init(logging.DefaultConfig())
	logger := logging.GetLogger()

	if err := cli.Execute(); err != nil {
		logger.Error().Err(err).Msg("Failed to execute command")
		os.Exit(1)
	}
}
