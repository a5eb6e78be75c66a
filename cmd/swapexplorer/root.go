package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	explorerDI "github.com/fd1az/swap-explorer/business/explorer/di"
	tokensDI "github.com/fd1az/swap-explorer/business/tokens/di"
	"github.com/fd1az/swap-explorer/internal/health"
	"github.com/fd1az/swap-explorer/internal/metrics"
	"github.com/fd1az/swap-explorer/pkg/ui"
)

type rootFlags struct {
	configPath string
	logLevel   string
}

func (f *rootFlags) boot(quiet bool) bootOptions {
	return bootOptions{configPath: f.configPath, logLevel: f.logLevel, quiet: quiet}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "swapexplorer",
		Short: "Explore Jupiter swap routes between Solana tokens and SOL",
		Long: `swapexplorer asks the Jupiter aggregator for swap routes between a
token and SOL, lists every route with its DEX hops, output amount and
price impact, and raises an alarm when the best route beats the profit
threshold.

Without a subcommand the interactive terminal UI starts.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), flags)
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to configuration file (default ./config.yaml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override app.log_level (debug, info, warn, error)")

	root.AddCommand(
		newTUICmd(flags),
		newQuoteCmd(flags),
		newServeCmd(flags),
		newTokensCmd(flags),
	)
	return root
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive terminal UI (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), flags)
		},
	}
}

func runTUI(ctx context.Context, flags *rootFlags) error {
	return withApp(ctx, flags.boot(true), func(ctx context.Context, e *env) error {
		healthServer := health.NewServer(e.cfg.Server.HealthPort, newHealthChecker(e), e.log)
		healthServer.Start(ctx)
		defer stopServer(ctx, e, "health", healthServer.Stop)

		if e.cfg.Telemetry.Enabled {
			promServer := metrics.NewPrometheusServer(e.log,
				metrics.WithPort(strconv.Itoa(e.cfg.Telemetry.PrometheusPort)),
			)
			promServer.Start(ctx)
			defer stopServer(ctx, e, "metrics", promServer.Stop)
		}

		return ui.Run(ctx,
			explorerDI.GetExplorer(e.services),
			tokensDI.GetDirectory(e.services),
			ui.Options{
				ReferenceSymbol:  e.cfg.Explorer.ReferenceSymbol,
				DefaultThreshold: e.cfg.Explorer.DefaultThresholdDecimal().String(),
			},
		)
	})
}
