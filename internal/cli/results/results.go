package results

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/orb/internal/cli/config"
	"github.com/rustyeddy/orb/journal"
	"github.com/rustyeddy/orb/pkg/id"
	"github.com/rustyeddy/orb/sim"
)

func New(rc *config.RootConfig) *cobra.Command {
	var (
		limit   int
		orgPath string
		outcome string
	)

	cmd := &cobra.Command{
		Use:   "results [run-id]",
		Short: "List recorded runs, or show one run's trades",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := journal.NewSQLite(rc.DBPath)
			if err != nil {
				return err
			}
			defer j.Close()

			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			if len(args) == 0 {
				runs, err := j.ListRuns(ctx, limit)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%-26s %-20s %-8s %-4s %-23s %6s %8s %7s\n",
					"RUN_ID", "CREATED", "INSTR", "TF", "DAYS", "TRADES", "TOTAL_R", "WIN%")
				for _, r := range runs {
					fmt.Fprintf(w, "%-26s %-20s %-8s %-4s %-23s %6d %8.2f %6.1f%%\n",
						r.RunID, r.Created.Format(time.RFC3339), r.Instrument, r.Timeframe,
						r.From+".."+r.To, r.Trades, r.TotalR, r.WinRate*100)
				}
				return nil
			}

			if _, err := id.Time(args[0]); err != nil {
				return fmt.Errorf("bad run id: %w", err)
			}
			run, err := j.GetRun(ctx, args[0])
			if err != nil {
				return err
			}
			trades, err := j.ListResultsByRun(ctx, run.RunID)
			if err != nil {
				return err
			}
			if outcome != "" {
				want, err := sim.ParseOutcome(outcome)
				if err != nil {
					return fmt.Errorf("bad --outcome: %w", err)
				}
				kept := trades[:0]
				for _, r := range trades {
					if r.Outcome == want.String() {
						kept = append(kept, r)
					}
				}
				trades = kept
			}

			if orgPath == "" {
				return journal.WriteRunOrg(w, run, trades)
			}

			f, err := os.Create(orgPath)
			if err != nil {
				return err
			}
			if err := journal.WriteRunOrg(f, run, trades); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(w, "wrote %s\n", orgPath)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list (0 = all)")
	cmd.Flags().StringVar(&outcome, "outcome", "", "Only show trades with this outcome: WIN|LOSS|NO_DECISION")
	cmd.Flags().StringVar(&orgPath, "org", "", "Write the run report to this Org file instead of stdout")
	return cmd
}
