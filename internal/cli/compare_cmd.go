package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/jontk/fsdash/internal/api"
	"github.com/jontk/fsdash/internal/config"
	"github.com/jontk/fsdash/internal/dashboard"
	fsderrors "github.com/jontk/fsdash/internal/errors"
	"github.com/jontk/fsdash/internal/export"
	"github.com/jontk/fsdash/internal/logging"
	"github.com/jontk/fsdash/internal/ui/widgets"
	"github.com/jontk/fsdash/internal/version"
	"github.com/spf13/cobra"
)

var (
	compareRuns   int
	compareFormat string
)

// compareCmd runs comparisons without the TUI
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run comparisons and print the history",
	Long: `Run one or more side-by-side comparisons for a user and print the
resulting history. At most the last ten comparisons are kept, as in the
dashboard.`,
	Example: `  fsdash compare --user 42
  fsdash compare --user 7 --runs 5 --format csv`,
	Args: cobra.NoArgs,
	RunE: runCompare,
}

// statsCmd prints one statistics snapshot
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the aggregate backend statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

// checkCmd checks backend health
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the backend is reachable and healthy",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	compareCmd.Flags().IntVar(&compareRuns, "runs", 1, "number of comparisons to run")
	compareCmd.Flags().StringVarP(&compareFormat, "format", "f", "text", "output format: text, csv, json, markdown, yaml")

	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(checkCmd)
}

// headless loads configuration for a non-interactive command and returns a
// context canceled on interrupt
func headless() (context.Context, context.CancelFunc, *config.Config, *api.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	initLogging(cfg, false)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)

	if err := startMock(ctx, cfg); err != nil {
		cancel()
		return nil, nil, nil, nil, err
	}

	info := version.Get()
	client, err := api.NewClient(api.ClientConfig{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.RequestTimeoutDuration(),
		UserAgent: info.UserAgent(),
	})
	if err != nil {
		cancel()
		return nil, nil, nil, nil, err
	}

	return ctx, func() {
		client.Close()
		cancel()
	}, cfg, client, nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	if compareRuns < 1 {
		return fsderrors.Invalid("runs", "must be at least 1")
	}
	format, err := export.ParseFormat(compareFormat)
	if err != nil {
		return err
	}
	if format == export.FormatPNG {
		return fsderrors.Invalid("format", "png is only available from the dashboard")
	}

	ctx, done, cfg, client, err := headless()
	if err != nil {
		return err
	}
	defer done()

	model := dashboard.New(client, dashboard.Options{
		UserID: cfg.DefaultUserID,
		Logger: logging.GetLogger(),
	})

	for i := 0; i < compareRuns; i++ {
		if _, err := model.RunComparison(ctx); err != nil {
			logging.GetLogger().Error().Err(err).Int("run", i+1).Msg("Comparison failed")
			return fsderrors.Wrap(err, fsderrors.GetType(err), model.Snapshot().Error)
		}
	}

	return export.WriteHistory(cmd.OutOrStdout(), model.Snapshot().History, format, time.Now())
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx, done, cfg, client, err := headless()
	if err != nil {
		return err
	}
	defer done()

	model := dashboard.New(client, dashboard.Options{UserID: cfg.DefaultUserID, Logger: logging.GetLogger()})
	stats, err := model.RefreshStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch statistics: %w", err)
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), widgets.RenderStats(stats))
	return err
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, done, _, client, err := headless()
	if err != nil {
		return err
	}
	defer done()

	health, err := client.Health(ctx)
	if err != nil {
		return fmt.Errorf("backend %s is not healthy: %w", client.BaseURL(), err)
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "✅ %s is %s\n", client.BaseURL(), health.Status)
	return err
}
