package bars

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/orb/internal/cli/config"
	"github.com/rustyeddy/orb/market"
	"github.com/rustyeddy/orb/session"
	"github.com/rustyeddy/orb/store"
	"github.com/rustyeddy/orb/store/clickhouse"
)

func New(rc *config.RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bars",
		Short: "Import and inspect bar data",
	}
	cmd.AddCommand(newImportCmd(rc), newGapsCmd(rc))
	return cmd
}

func newImportCmd(rc *config.RootConfig) *cobra.Command {
	var (
		file       string
		instrument string
		timeframe  string
		dsn        string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a CSV of bars (time,open,high,low,close[,volume]) into the bar store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			if instrument == "" {
				return fmt.Errorf("--instrument is required")
			}
			if _, err := market.ParseTimeframe(timeframe); err != nil {
				return err
			}

			bars, err := market.ReadCSVFile(file, time.Time{}, time.Time{})
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}

			ctx := cmd.Context()
			var added int
			if dsn != "" {
				conn, err := clickhouse.NewConn(ctx, dsn)
				if err != nil {
					return err
				}
				defer conn.Close()
				if err := clickhouse.Migrate(ctx, conn); err != nil {
					return err
				}
				if err := clickhouse.NewBarStore(conn).InsertBulk(ctx, instrument, timeframe, bars); err != nil {
					return err
				}
				added = len(bars)
			} else {
				s, err := store.NewSQLite(rc.DBPath)
				if err != nil {
					return err
				}
				defer s.Close()
				added, err = s.InsertBars(ctx, instrument, timeframe, bars)
				if err != nil {
					return err
				}
			}

			rc.Log().Info("bars imported",
				zap.String("file", file),
				zap.String("instrument", instrument),
				zap.String("timeframe", timeframe),
				zap.Int("read", len(bars)),
				zap.Int("added", added),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d bars for %s %s\n", added, len(bars), instrument, timeframe)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "CSV file to import")
	cmd.Flags().StringVar(&instrument, "instrument", "", "Instrument symbol, e.g. ES")
	cmd.Flags().StringVar(&timeframe, "timeframe", "M5", "Bar timeframe, e.g. M1, M5, H1")
	cmd.Flags().StringVar(&dsn, "dsn", "", "Import into ClickHouse at this DSN instead of the SQLite --db")
	return cmd
}

func newGapsCmd(rc *config.RootConfig) *cobra.Command {
	var (
		instrument string
		timeframe  string
		fromStr    string
		toStr      string
	)

	cmd := &cobra.Command{
		Use:   "gaps",
		Short: "Report missing bars in the SQLite bar store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if instrument == "" {
				return fmt.Errorf("--instrument is required")
			}
			tf, err := market.TimeframeDuration(timeframe)
			if err != nil {
				return err
			}

			s, err := store.NewSQLite(rc.DBPath)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			cov, err := s.Coverage(ctx, instrument, timeframe)
			if err != nil {
				return fmt.Errorf("%s %s: %w", instrument, timeframe, err)
			}

			from, to := cov.First, cov.Last.Add(tf)
			if fromStr != "" {
				d, err := session.ParseDay(fromStr)
				if err != nil {
					return fmt.Errorf("bad --from: %w", err)
				}
				from = d.In(time.UTC)
			}
			if toStr != "" {
				d, err := session.ParseDay(toStr)
				if err != nil {
					return fmt.Errorf("bad --to: %w", err)
				}
				to = d.AddDays(1).In(time.UTC)
			}

			bars, err := s.Bars(ctx, instrument, timeframe, from, to)
			if err != nil {
				return err
			}
			if len(bars) == 0 {
				return fmt.Errorf("no bars for %s %s in range", instrument, timeframe)
			}

			market.PrintGapStats(cmd.OutOrStdout(), market.GapReport(bars, tf), bars[0].Time, bars[len(bars)-1].Time)
			return nil
		},
	}

	cmd.Flags().StringVar(&instrument, "instrument", "", "Instrument symbol")
	cmd.Flags().StringVar(&timeframe, "timeframe", "M5", "Bar timeframe")
	cmd.Flags().StringVar(&fromStr, "from", "", "First day (YYYY-MM-DD), default: first stored bar")
	cmd.Flags().StringVar(&toStr, "to", "", "Last day inclusive (YYYY-MM-DD), default: last stored bar")
	return cmd
}
