package backtest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/orb/backtest"
	cfgpkg "github.com/rustyeddy/orb/config"
	"github.com/rustyeddy/orb/internal/cli/config"
	"github.com/rustyeddy/orb/journal"
	"github.com/rustyeddy/orb/pkg/id"
	"github.com/rustyeddy/orb/session"
	"github.com/rustyeddy/orb/sim"
)

type runOptions struct {
	day       string
	from      string
	to        string
	noJournal bool
}

func (o *runOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.from, "from", "", "First trading day (YYYY-MM-DD), overrides sweep.from")
	cmd.Flags().StringVar(&o.to, "to", "", "Last trading day inclusive, overrides sweep.to")
	cmd.Flags().BoolVar(&o.noJournal, "no-journal", false, "Do not record the run")
}

func (o *runOptions) days(cfg *cfgpkg.Config) ([]session.Day, error) {
	if o.day != "" {
		d, err := session.ParseDay(o.day)
		if err != nil {
			return nil, fmt.Errorf("bad --day: %w", err)
		}
		return []session.Day{d}, nil
	}
	sw := cfg.Sweep
	if o.from != "" {
		sw.From = o.from
	}
	if o.to != "" {
		sw.To = o.to
	}
	return sw.Days()
}

// NewSimulate runs the configuration's single parameter set.
func NewSimulate(rc *config.RootConfig) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate the configured ORB setup day by day",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rc.Load()
			if err != nil {
				return err
			}
			p, err := config.BaseParams(cfg)
			if err != nil {
				return err
			}
			days, err := opts.days(cfg)
			if err != nil {
				return err
			}

			rep, results, err := run(cmd.Context(), rc, cfg, opts, days, []backtest.Params{p})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			PrintDays(w, results)
			fmt.Fprintln(w)
			backtest.PrintSummary(w, fmt.Sprintf("ORB %s %s  run %s", cfg.Instrument, p.Label(), rep.RunID), rep.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.day, "day", "", "Simulate a single trading day (YYYY-MM-DD)")
	opts.bind(cmd)
	return cmd
}

// NewSweep expands the parameter grid and runs it over the day range.
func NewSweep(rc *config.RootConfig) *cobra.Command {
	opts := &runOptions{}
	var workers int

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the parameter grid over a range of trading days",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rc.Load()
			if err != nil {
				return err
			}
			if workers > 0 {
				cfg.Sweep.Workers = workers
			}
			base, err := config.BaseParams(cfg)
			if err != nil {
				return err
			}
			days, err := opts.days(cfg)
			if err != nil {
				return err
			}

			params := config.Grid(cfg).Expand(base)
			rep, _, err := run(cmd.Context(), rc, cfg, opts, days, params)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			backtest.PrintParamTable(w, rep.ByParams)
			fmt.Fprintln(w)
			backtest.PrintSummary(w, fmt.Sprintf("ORB sweep %s  run %s", cfg.Instrument, rep.RunID), rep.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Worker count, overrides sweep.workers")
	opts.bind(cmd)
	return cmd
}

func run(ctx context.Context, rc *config.RootConfig, cfg *cfgpkg.Config, opts *runOptions, days []session.Day, params []backtest.Params) (backtest.Report, []backtest.DayResult, error) {
	if len(days) == 0 {
		return backtest.Report{}, nil, fmt.Errorf("no trading days in range")
	}

	src, err := config.OpenSource(ctx, cfg)
	if err != nil {
		return backtest.Report{}, nil, err
	}
	defer src.Close()

	var (
		mu      sync.Mutex
		results []backtest.DayResult
		j       journal.Journal
		record  backtest.Sink
	)
	runID := id.New()

	if !opts.noJournal {
		j, err = config.OpenJournal(cfg)
		if err != nil {
			return backtest.Report{}, nil, err
		}
		defer j.Close()
		record = backtest.JournalSink(j, runID)
	}

	sw := &backtest.Sweep{
		RunID:     runID,
		Store:     src.Store,
		Timeframe: cfg.Timeframe,
		Days:      days,
		Params:    params,
		Workers:   cfg.Sweep.Workers,
		Logger:    rc.Log(),
		Sink: func(ctx context.Context, dr backtest.DayResult) error {
			mu.Lock()
			results = append(results, dr)
			mu.Unlock()
			if record != nil {
				return record(ctx, dr)
			}
			return nil
		},
	}

	rep, err := sw.Run(ctx)
	if err != nil {
		return rep, nil, err
	}

	if j != nil {
		raw, err := json.Marshal(cfg)
		if err != nil {
			return rep, nil, fmt.Errorf("encode config: %w", err)
		}
		rr := backtest.RunRecord(rep, cfg.Instrument, cfg.Timeframe, src.Dataset,
			len(days), len(params), days[0].String(), days[len(days)-1].String(), raw)
		if err := j.RecordRun(ctx, rr); err != nil {
			return rep, nil, err
		}
		rc.Log().Info("run recorded", zap.String("run_id", rep.RunID), zap.String("journal", cfg.Journal.Type))
	}

	sort.Slice(results, func(a, b int) bool {
		if results[a].Day != results[b].Day {
			return results[a].Day.Before(results[b].Day)
		}
		return results[a].ParamIndex < results[b].ParamIndex
	})
	return rep, results, nil
}

// PrintDays prints one line per day result.
func PrintDays(w io.Writer, results []backtest.DayResult) {
	fmt.Fprintf(w, "%-10s %-11s %-4s %10s %10s %10s %-11s %6s %6s %6s\n",
		"DAY", "STAGE", "DIR", "ENTRY", "STOP", "TARGET", "OUTCOME", "R", "MAE", "MFE")
	for _, dr := range results {
		if dr.Stage != backtest.StageSimulated {
			note := ""
			if dr.Blocked != "" {
				note = " " + dr.Blocked
			}
			fmt.Fprintf(w, "%-10s %-11s%s\n", dr.Day, dr.Stage, note)
			continue
		}
		r := dr.Result
		outcome := r.Outcome.String()
		if r.Outcome != sim.NoDecision {
			outcome += "@" + r.ExitTime.Format("15:04")
		}
		fmt.Fprintf(w, "%-10s %-11s %-4s %10g %10g %10g %-11s %6.2f %6.2f %6.2f\n",
			dr.Day, dr.Stage, r.Setup.Direction, r.Setup.Entry, r.Setup.Stop, r.Setup.Target,
			outcome, r.RMultiple, r.MAE, r.MFE)
	}
}
