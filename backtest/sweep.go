package backtest

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/orb/internal/logging"
	"github.com/rustyeddy/orb/market"
	"github.com/rustyeddy/orb/pkg/id"
	"github.com/rustyeddy/orb/session"
	"github.com/rustyeddy/orb/store"
)

// Sink receives every day result of a sweep. Calls are serialized.
type Sink func(ctx context.Context, dr DayResult) error

// Sweep runs every (day, parameter set) pair over a bounded worker pool.
type Sweep struct {
	RunID     string // generated when empty
	Store     store.BarStore
	Timeframe string
	Days      []session.Day
	Params    []Params
	Workers   int // <= 0 means GOMAXPROCS
	Logger    *zap.Logger
	Sink      Sink
}

// Report is the outcome of a sweep.
type Report struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Total    Summary
	ByParams map[string]Summary
}

// Validate checks the sweep and every parameter set before any work runs.
func (s *Sweep) Validate() error {
	if s.Store == nil {
		return fmt.Errorf("sweep: bar store is required")
	}
	if len(s.Days) == 0 {
		return fmt.Errorf("sweep: no trading days in range")
	}
	if len(s.Params) == 0 {
		return fmt.Errorf("sweep: parameter grid is empty")
	}
	instrument := s.Params[0].Instrument
	for i, p := range s.Params {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("sweep: parameter set %d (%s): %w", i, p.Label(), err)
		}
		if p.Instrument != instrument {
			return fmt.Errorf("sweep: parameter set %d instrument %q differs from %q", i, p.Instrument, instrument)
		}
	}
	return nil
}

// dayBars loads one day's bars once, however many parameter sets read them.
type dayBars struct {
	once sync.Once
	bars market.Bars
	err  error
}

// Run executes the sweep. The first hard error (store failure, temporal
// violation, sink error) cancels the remaining runs and is returned.
func (s *Sweep) Run(ctx context.Context) (Report, error) {
	if err := s.Validate(); err != nil {
		return Report{}, err
	}
	log := logging.OrNop(s.Logger)

	if s.RunID == "" {
		s.RunID = id.New()
	}
	rep := Report{
		RunID:    s.RunID,
		Started:  time.Now().UTC(),
		ByParams: make(map[string]Summary, len(s.Params)),
	}
	log = log.With(zap.String("run_id", rep.RunID))

	// One fetch window per day covering every parameter set.
	instrument := s.Params[0].Instrument
	windows := make([][2]time.Time, len(s.Days))
	cache := make([]*dayBars, len(s.Days))
	for i, d := range s.Days {
		for j, p := range s.Params {
			from, to := Span(d, p)
			if j == 0 || from.Before(windows[i][0]) {
				windows[i][0] = from
			}
			if j == 0 || to.After(windows[i][1]) {
				windows[i][1] = to
			}
		}
		cache[i] = &dayBars{}
	}

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	log.Info("sweep started",
		zap.String("instrument", instrument),
		zap.String("timeframe", s.Timeframe),
		zap.Int("days", len(s.Days)),
		zap.Int("param_sets", len(s.Params)),
		zap.Int("workers", workers),
	)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for di := range s.Days {
		for pi := range s.Params {
			di, pi := di, pi
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				day := s.Days[di]
				p := s.Params[pi]

				c := cache[di]
				c.once.Do(func() {
					c.bars, c.err = s.Store.Bars(gctx, instrument, s.Timeframe, windows[di][0], windows[di][1])
					if c.err == nil && !c.bars.Sorted() {
						c.err = fmt.Errorf("store returned bars out of order or duplicated")
					}
				})
				if c.err != nil {
					return fmt.Errorf("load bars for %s: %w", day, c.err)
				}

				dr, err := RunDay(c.bars, day, p)
				if err != nil {
					return err
				}
				dr.ParamIndex = pi

				log.Debug("day done",
					zap.Stringer("day", day),
					zap.String("params", dr.Params),
					zap.Stringer("stage", dr.Stage),
				)

				mu.Lock()
				defer mu.Unlock()

				ps := rep.ByParams[dr.Params]
				ps.Add(dr)
				rep.ByParams[dr.Params] = ps

				if s.Sink != nil {
					if err := s.Sink(gctx, dr); err != nil {
						return fmt.Errorf("sink %s: %w", day, err)
					}
				}
				return nil
			})
		}
	}

	err := g.Wait()
	rep.Finished = time.Now().UTC()

	labels := make([]string, 0, len(rep.ByParams))
	for l := range rep.ByParams {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	for _, l := range labels {
		rep.Total.Merge(rep.ByParams[l])
	}
	if err != nil {
		log.Error("sweep aborted", zap.Error(err))
		return rep, err
	}

	log.Info("sweep finished",
		zap.Int("trades", rep.Total.Trades),
		zap.Int("wins", rep.Total.Wins),
		zap.Int("losses", rep.Total.Losses),
		zap.Int("no_decision", rep.Total.NoDecision),
		zap.Float64("total_r", rep.Total.TotalR),
		zap.Duration("elapsed", rep.Finished.Sub(rep.Started)),
	)
	return rep, nil
}
