package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jontk/fsdash/internal/app"
	"github.com/jontk/fsdash/internal/config"
	fsderrors "github.com/jontk/fsdash/internal/errors"
	"github.com/jontk/fsdash/internal/logging"
	"github.com/jontk/fsdash/internal/mockapi"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfgFile      string
	debugMode    bool
	baseURL      string
	pollInterval string
	userID       int
	useMock      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fsdash",
	Short: "Terminal dashboard comparing basic and optimized feature stores",
	Long: `fsdash compares a basic and an optimized feature store implementation.

It fetches the same user's features from both backends, charts the last ten
response times side by side and keeps an eye on aggregate statistics.

Features:
• On-demand side-by-side comparisons
• Periodic aggregate statistics
• History export (text, CSV, JSON, Markdown, YAML) and PNG charts
• Built-in mock backend for demos`,

	Example: `  fsdash                          # Launch the dashboard
  fsdash --mock                   # Dashboard against the built-in mock
  fsdash compare --user 42 --runs 5
  fsdash mock serve --addr :8000`,

	SilenceUsage: true,
	RunE:         runRoot,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or $HOME/.fsdash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&pollInterval, "poll-interval", "", "statistics refresh period, e.g. 5s")
	rootCmd.PersistentFlags().IntVar(&userID, "user", 0, "initial user id")
	rootCmd.PersistentFlags().BoolVar(&useMock, "mock", false, "start the built-in mock backend and use it")
}

// loadConfig reads the configuration and applies command line overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithPath(cfgFile)
	if err != nil {
		return nil, err
	}

	applyOverrides(cfg)

	if err := config.ValidateAndFix(cfg, true).Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyOverrides layers the command-line flags over cfg
func applyOverrides(cfg *config.Config) {
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if pollInterval != "" {
		cfg.PollInterval = pollInterval
	}
	if userID != 0 {
		cfg.DefaultUserID = userID
	}
	if debugMode {
		cfg.Log.Level = "debug"
	}
}

// initLogging sets up the global logger. The TUI logs to file only so the
// terminal stays clean; other commands log to stderr.
func initLogging(cfg *config.Config, tui bool) {
	level := logging.ParseLevel(cfg.Log.Level)
	if tui {
		logging.Init(logging.TUIConfig(level, cfg.Log.File))
		return
	}
	lc := logging.DefaultConfig()
	lc.Level = level
	logging.Init(lc)
}

// startMock runs the mock backend until ctx is done and points cfg at it
func startMock(ctx context.Context, cfg *config.Config) error {
	if !useMock {
		return nil
	}

	srv := mockapi.NewServer(cfg.MockLatency(), logging.GetLogger())
	ready := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(ctx, cfg.Mock.Addr, ready) }()

	select {
	case addr := <-ready:
		cfg.BaseURL = "http://" + addr
		logging.Infof("Using mock backend at %s", cfg.BaseURL)
		return nil
	case err := <-errCh:
		return fsderrors.Wrapf(err, fsderrors.ErrorTypeNetwork, "failed to start mock backend on %s", cfg.Mock.Addr)
	}
}

// runRoot executes the interactive dashboard
func runRoot(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("fsdash needs a terminal; use 'fsdash compare' or 'fsdash stats' for scripted runs")
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	initLogging(cfg, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sigChan)

	if err := startMock(ctx, cfg); err != nil {
		return err
	}

	// the mock listens on a port chosen at startup, so a reload must not
	// point the dashboard back at the file's baseURL
	backendURL := cfg.BaseURL
	dash, err := app.NewWithOptions(ctx, cfg, app.Options{
		Mock: useMock,
		Overrides: func(next *config.Config) {
			applyOverrides(next)
			if useMock {
				next.BaseURL = backendURL
			}
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- dash.Run()
	}()

	select {
	case sig := <-sigChan:
		logging.Infof("Received signal: %v. Starting graceful shutdown...", sig)
		if err := dash.Stop(); err != nil {
			logging.Errorf("Error during shutdown: %v", err)
		}

		select {
		case <-errChan:
		case <-time.After(5 * time.Second):
			logging.Warnf("Timed out waiting for the dashboard to stop")
		}

	case err := <-errChan:
		_ = dash.Stop()
		if err != nil {
			return fmt.Errorf("application error: %w", err)
		}
	}

	logging.Info("fsdash shutdown complete")
	return nil
}
