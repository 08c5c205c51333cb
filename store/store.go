// Package store provides bar sources for the backtester.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rustyeddy/orb/market"
)

// ErrNotFound is returned when a store holds no bars at all for an
// instrument and timeframe.
var ErrNotFound = errors.New("store: no bars for instrument/timeframe")

// BarStore returns bars with from <= Time < to, ascending by time, with at
// most one bar per timestamp. An empty range is not an error.
type BarStore interface {
	Bars(ctx context.Context, instrument, timeframe string, from, to time.Time) (market.Bars, error)
}

// Coverage describes what a store holds for one series.
type Coverage struct {
	Instrument string
	Timeframe  string
	First      time.Time
	Last       time.Time
	Count      int
}

type seriesKey struct {
	instrument string
	timeframe  string
}

// Memory is an in-process BarStore. It is safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	series map[seriesKey]market.Bars
}

var _ BarStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{series: make(map[seriesKey]market.Bars)}
}

// Insert merges bars into the series. A timestamp that already exists keeps
// its first bar. It returns the number of bars added.
func (m *Memory) Insert(instrument, timeframe string, bars market.Bars) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := seriesKey{instrument, timeframe}
	cur := m.series[k]

	seen := make(map[int64]struct{}, len(cur)+len(bars))
	for _, b := range cur {
		seen[b.Time.UnixNano()] = struct{}{}
	}

	added := 0
	for _, b := range bars {
		ts := b.Time.UnixNano()
		if _, ok := seen[ts]; ok {
			continue
		}
		seen[ts] = struct{}{}
		b.Time = b.Time.UTC()
		cur = append(cur, b)
		added++
	}

	sort.SliceStable(cur, func(i, j int) bool { return cur[i].Time.Before(cur[j].Time) })
	m.series[k] = cur
	return added
}

func (m *Memory) Bars(ctx context.Context, instrument, timeframe string, from, to time.Time) (market.Bars, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	sub := m.series[seriesKey{instrument, timeframe}].Between(from, to)
	out := make(market.Bars, len(sub))
	copy(out, sub)
	return out, nil
}

func (m *Memory) Coverage(_ context.Context, instrument, timeframe string) (Coverage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bs := m.series[seriesKey{instrument, timeframe}]
	if len(bs) == 0 {
		return Coverage{}, ErrNotFound
	}
	return Coverage{
		Instrument: instrument,
		Timeframe:  timeframe,
		First:      bs[0].Time,
		Last:       bs[len(bs)-1].Time,
		Count:      len(bs),
	}, nil
}
