package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/orb/market"
	"github.com/rustyeddy/orb/store"
)

// BarStore implements store.BarStore using ClickHouse.
type BarStore struct {
	conn *Conn
}

func NewBarStore(conn *Conn) *BarStore {
	return &BarStore{conn: conn}
}

var _ store.BarStore = (*BarStore)(nil)

// InsertBulk appends bars in one batch. Duplicates inside bars are dropped
// (first row wins) before the batch is built, since rows of one batch share
// inserted_at. Across batches Bars returns the earliest-inserted row per ts.
func (s *BarStore) InsertBulk(ctx context.Context, instrument, timeframe string, bars market.Bars) error {
	if len(bars) == 0 {
		return nil
	}
	bars = bars.Normalize()

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO bars (instrument, timeframe, ts, open, high, low, close, volume)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, b := range bars {
		err = batch.Append(
			instrument, timeframe, b.Time.UTC(),
			b.Open, b.High, b.Low, b.Close, b.Volume,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// Bars returns bars within [from, to), ordered by ts.
func (s *BarStore) Bars(ctx context.Context, instrument, timeframe string, from, to time.Time) (market.Bars, error) {
	query := `
		SELECT ts, open, high, low, close, volume
		FROM bars
		WHERE instrument = ? AND timeframe = ? AND ts >= ? AND ts < ?
		ORDER BY ts ASC, inserted_at ASC
		LIMIT 1 BY ts
	`

	rows, err := s.conn.Query(ctx, query, instrument, timeframe, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var out market.Bars
	for rows.Next() {
		var b market.Bar
		if err := rows.Scan(&b.Time, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar row: %w", err)
		}
		b.Time = b.Time.UTC()
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bar rows: %w", err)
	}
	return out, nil
}

// Coverage returns store.ErrNotFound when the series is empty.
func (s *BarStore) Coverage(ctx context.Context, instrument, timeframe string) (store.Coverage, error) {
	var (
		first, last time.Time
		count       uint64
	)
	err := s.conn.QueryRow(ctx, `
		SELECT min(ts), max(ts), uniqExact(ts)
		FROM bars
		WHERE instrument = ? AND timeframe = ?
	`, instrument, timeframe).Scan(&first, &last, &count)
	if err != nil {
		return store.Coverage{}, fmt.Errorf("query coverage: %w", err)
	}
	if count == 0 {
		return store.Coverage{}, store.ErrNotFound
	}
	return store.Coverage{
		Instrument: instrument,
		Timeframe:  timeframe,
		First:      first.UTC(),
		Last:       last.UTC(),
		Count:      int(count),
	}, nil
}
