package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"distlab/adapters/excel"
	"distlab/adapters/stats/families"
	"distlab/app"
	"distlab/internal"
	"distlab/internal/comparison"
	"distlab/internal/resolver"
	"distlab/internal/statistics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options are shared by every subcommand
type options struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "distlab",
		Short:         "Explore probability distributions from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load environment variables from .env file
			if err := godotenv.Load(); err != nil {
				opts.logger(cmd).Debug("No .env file found, using system environment variables")
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "WARN", "Log level (ERROR, WARN, INFO, DEBUG, TRACE)")

	rootCmd.AddCommand(
		newListCmd(opts),
		newExploreCmd(opts),
		newDescribeCmd(opts),
		newOverlayCmd(opts),
		newSensitivityCmd(opts),
		newServeCmd(),
	)
	return rootCmd
}

// logger writes to the command's stderr at the --log-level threshold
func (o *options) logger(cmd *cobra.Command) *internal.Logger {
	return internal.NewLoggerTo(cmd.ErrOrStderr(), internal.ParseLogLevel(o.logLevel))
}

// explorer builds the service stack
func (o *options) explorer(cmd *cobra.Command) *app.ExplorerService {
	registry := families.NewRegistry()
	return app.NewExplorerService(
		resolver.New(registry),
		statistics.NewCalculator(registry),
		comparison.NewEngine(registry),
		o.logger(cmd),
	)
}

func newExporter() *excel.Exporter {
	return excel.NewExporter(excel.DefaultExportConfig())
}
