package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jontk/fsdash/internal/logging"
	"github.com/jontk/fsdash/internal/mockapi"
	"github.com/spf13/cobra"
)

var (
	mockAddr    string
	mockLatency string
)

// mockCmd represents the mock command group
var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Built-in mock backend",
	Long: `Utilities for the built-in mock backend.

The mock answers /health, /stats, /basic/{id} and /optimized/{id} with
synthetic data. Basic responses wait a fixed latency and never hit a cache;
optimized responses hit after the first request for a user. Users 0-999 exist.`,
}

// mockServeCmd runs the mock backend in the foreground
var mockServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the mock backend until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runMockServe,
}

func init() {
	mockServeCmd.Flags().StringVar(&mockAddr, "addr", "", "listen address (default from config, 127.0.0.1:8000)")
	mockServeCmd.Flags().StringVar(&mockLatency, "latency", "", "artificial latency of the basic endpoint, e.g. 100ms")

	mockCmd.AddCommand(mockServeCmd)
	rootCmd.AddCommand(mockCmd)
}

func runMockServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if mockAddr != "" {
		cfg.Mock.Addr = mockAddr
	}
	if mockLatency != "" {
		cfg.Mock.BasicLatency = mockLatency
	}
	initLogging(cfg, false)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := mockapi.NewServer(cfg.MockLatency(), logging.GetLogger())
	ready := make(chan string, 1)
	go func() {
		if addr, ok := <-ready; ok {
			cmd.Printf("Mock backend listening on http://%s (Ctrl-C to stop)\n", addr)
		}
	}()

	return srv.ListenAndServe(ctx, cfg.Mock.Addr, ready)
}
