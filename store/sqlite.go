package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/orb/market"
)

// SQLite stores bars keyed by (instrument, timeframe, ts) where ts is unix
// seconds UTC.
type SQLite struct {
	db *sql.DB
}

var _ BarStore = (*SQLite)(nil)

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open bar store %s: %w", path, err)
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bar schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// InsertBars writes bars in one transaction. Rows whose key already exists
// are left untouched, so the first bar seen for a timestamp wins. It
// returns the number of rows added.
func (s *SQLite) InsertBars(ctx context.Context, instrument, timeframe string, bars market.Bars) (int, error) {
	if len(bars) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO bars
		(instrument, timeframe, ts, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	added := 0
	for _, b := range bars {
		res, err := stmt.ExecContext(ctx,
			instrument, timeframe, b.Time.Unix(),
			b.Open, b.High, b.Low, b.Close, b.Volume,
		)
		if err != nil {
			return 0, fmt.Errorf("insert bar %s: %w", b.Time.UTC().Format(time.RFC3339), err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit bars: %w", err)
	}
	return added, nil
}

func (s *SQLite) Bars(ctx context.Context, instrument, timeframe string, from, to time.Time) (market.Bars, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ts, open, high, low, close, volume
		FROM bars
		WHERE instrument = ? AND timeframe = ? AND ts >= ? AND ts < ?
		ORDER BY ts ASC`,
		instrument, timeframe, from.Unix(), to.Unix())
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var out market.Bars
	for rows.Next() {
		var (
			b  market.Bar
			ts int64
		)
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		b.Time = time.Unix(ts, 0).UTC()
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bars: %w", err)
	}
	return out, nil
}

// Coverage returns ErrNotFound when the series is empty.
func (s *SQLite) Coverage(ctx context.Context, instrument, timeframe string) (Coverage, error) {
	var (
		first, last sql.NullInt64
		count       int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT MIN(ts), MAX(ts), COUNT(*)
		FROM bars
		WHERE instrument = ? AND timeframe = ?`,
		instrument, timeframe).Scan(&first, &last, &count)
	if err != nil {
		return Coverage{}, fmt.Errorf("query coverage: %w", err)
	}
	if count == 0 {
		return Coverage{}, ErrNotFound
	}
	return Coverage{
		Instrument: instrument,
		Timeframe:  timeframe,
		First:      time.Unix(first.Int64, 0).UTC(),
		Last:       time.Unix(last.Int64, 0).UTC(),
		Count:      count,
	}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
