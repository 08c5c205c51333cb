package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/orb/internal/cli/backtest"
	"github.com/rustyeddy/orb/internal/cli/bars"
	"github.com/rustyeddy/orb/internal/cli/cfgcmd"
	"github.com/rustyeddy/orb/internal/cli/config"
	"github.com/rustyeddy/orb/internal/cli/results"
	"github.com/rustyeddy/orb/internal/logging"
)

const version = "0.1.0"

func NewRootCmd() *cobra.Command {
	rc := &config.RootConfig{}

	cmd := &cobra.Command{
		Use:           "orb",
		Short:         "orb: opening range breakout backtests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global / persistent flags
	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file")
	cmd.PersistentFlags().StringVar(&rc.DBPath, "db", "./orb.sqlite", "SQLite database for bars and results")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "info", "Log level: debug|info|warn|error")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logger, err := logging.New(rc.LogLevel)
		if err != nil {
			return err
		}
		rc.Logger = logger
		return nil
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if rc.Logger != nil {
			_ = rc.Logger.Sync()
		}
	}

	cmd.AddCommand(
		bars.New(rc),
		backtest.NewSimulate(rc),
		backtest.NewSweep(rc),
		results.New(rc),
		cfgcmd.New(),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "orb version %s\n", version)
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
