package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const runColumns = `run_id, created, instrument, timeframe, dataset, from_day, to_day, config,
	param_sets, days, trades, wins, losses, no_decision, filtered, total_r, avg_r, win_rate`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var r RunRecord
	err := row.Scan(
		&r.RunID, &r.Created, &r.Instrument, &r.Timeframe, &r.Dataset, &r.From, &r.To, &r.Config,
		&r.ParamSets, &r.Days, &r.Trades, &r.Wins, &r.Losses, &r.NoDecision, &r.Filtered,
		&r.TotalR, &r.AvgR, &r.WinRate,
	)
	r.Created = r.Created.UTC()
	return r, err
}

// GetRun returns ErrRunNotFound when no run has runID.
func (j *SQLite) GetRun(ctx context.Context, runID string) (RunRecord, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)

	r, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
		}
		return RunRecord{}, err
	}
	return r, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (j *SQLite) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	q := `SELECT ` + runColumns + ` FROM runs ORDER BY created DESC, run_id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListResultsByRun returns a run's results ordered by day, then parameter set.
func (j *SQLite) ListResultsByRun(ctx context.Context, runID string) ([]ResultRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT result_id, run_id, param_set, day, direction, anchor, entry_time, entry, stop, target,
		       outcome, exit_time, exit_price, r_multiple, mae, mfe, bars_held, entry_delay_bars
		FROM results
		WHERE run_id = ?
		ORDER BY day ASC, param_set ASC, result_id ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		var (
			rec  ResultRecord
			exit sql.NullTime
		)
		if err := rows.Scan(
			&rec.ResultID, &rec.RunID, &rec.ParamSet, &rec.Day, &rec.Direction, &rec.Anchor,
			&rec.EntryTime, &rec.Entry, &rec.Stop, &rec.Target,
			&rec.Outcome, &exit, &rec.ExitPrice, &rec.RMultiple,
			&rec.MAE, &rec.MFE, &rec.BarsHeld, &rec.EntryDelayBars,
		); err != nil {
			return nil, err
		}
		rec.EntryTime = rec.EntryTime.UTC()
		rec.ExitTime = scanTime(exit)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
