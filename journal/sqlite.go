package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

var _ Journal = (*SQLite)(nil)

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// RecordRun inserts or replaces the run row. Sweeps record the run before
// simulating and again with final totals.
func (j *SQLite) RecordRun(ctx context.Context, r RunRecord) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs
		(run_id, created, instrument, timeframe, dataset, from_day, to_day, config,
		 param_sets, days, trades, wins, losses, no_decision, filtered, total_r, avg_r, win_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created.UTC(), r.Instrument, r.Timeframe, r.Dataset, r.From, r.To, r.Config,
		r.ParamSets, r.Days, r.Trades, r.Wins, r.Losses, r.NoDecision, r.Filtered,
		r.TotalR, r.AvgR, r.WinRate,
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", r.RunID, err)
	}
	return nil
}

func (j *SQLite) RecordResult(ctx context.Context, r ResultRecord) error {
	var exit any
	if !r.ExitTime.IsZero() {
		exit = r.ExitTime.UTC()
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO results
		(result_id, run_id, param_set, day, direction, anchor, entry_time, entry, stop, target,
		 outcome, exit_time, exit_price, r_multiple, mae, mfe, bars_held, entry_delay_bars)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ResultID, r.RunID, r.ParamSet, r.Day, r.Direction, r.Anchor, r.EntryTime.UTC(),
		r.Entry, r.Stop, r.Target, r.Outcome, exit, r.ExitPrice, r.RMultiple,
		r.MAE, r.MFE, r.BarsHeld, r.EntryDelayBars,
	)
	if err != nil {
		return fmt.Errorf("record result %s: %w", r.ResultID, err)
	}
	return nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func scanTime(nt sql.NullTime) time.Time {
	if !nt.Valid {
		return time.Time{}
	}
	return nt.Time.UTC()
}
