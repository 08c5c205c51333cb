// Package cfgcmd implements "orb config": generate and validate
// configuration files.
package cfgcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	cfgpkg "github.com/rustyeddy/orb/config"
	"github.com/rustyeddy/orb/risk"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Generate or validate configuration files",
		Long: `Manage backtest configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  orb config init -o es.yaml --risk-anchor entry
  orb config validate -f es.yaml`,
	}
	cmd.AddCommand(newInitCmd(), newValidateCmd())
	return cmd
}

func newInitCmd() *cobra.Command {
	var (
		output string
		anchor string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cfgpkg.Default()
			a, err := risk.ParseAnchor(anchor)
			if err != nil {
				return err
			}
			cfg.Risk.Anchor = a

			if err := cfg.SaveToFile(output); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Created default configuration: %s\n", output)
			if a == risk.AnchorUnset {
				fmt.Fprintln(w, "risk.risk_anchor is unset; choose range or entry before running.")
			}
			fmt.Fprintf(w, "Run with:\n  orb simulate --config %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "orb.yaml", "Output config file path (.yaml or .json)")
	cmd.Flags().StringVar(&anchor, "risk-anchor", "", "Risk anchor to write: range|entry")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cfgpkg.LoadFromFile(path)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Configuration valid: %s\n", path)
			fmt.Fprintf(w, "  Instrument: %s %s (tick %g)\n", cfg.Instrument, cfg.Timeframe, cfg.Risk.TickSize)
			fmt.Fprintf(w, "  Session:    %s %s +%dm, scan end %s\n",
				cfg.Session.Timezone, cfg.Session.Anchor, cfg.Session.DurationMinutes, cfg.Session.ScanEnd)
			fmt.Fprintf(w, "  Risk:       stop=%s anchor=%s rr=%g\n", cfg.Risk.StopMode, cfg.Risk.Anchor, cfg.Risk.RewardMultiple)
			fmt.Fprintf(w, "  Filters:    %d\n", len(cfg.Filters))
			if days, err := cfg.Sweep.Days(); err == nil {
				fmt.Fprintf(w, "  Days:       %d (%s..%s)\n", len(days), cfg.Sweep.From, cfg.Sweep.To)
			} else {
				fmt.Fprintln(w, "  Days:       none (set sweep.from and sweep.to)")
			}
			fmt.Fprintf(w, "  Journal:    %s\n", cfg.Journal.Type)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "Path to config file (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
