package backtest

import (
	"fmt"
	"time"

	"github.com/rustyeddy/orb/filter"
	"github.com/rustyeddy/orb/market"
	"github.com/rustyeddy/orb/orb"
	"github.com/rustyeddy/orb/risk"
	"github.com/rustyeddy/orb/session"
	"github.com/rustyeddy/orb/sim"
)

// Stage is where a day's pipeline stopped.
type Stage int

const (
	StageNoRange Stage = iota
	StageFiltered
	StageNoBreakout
	StageNoTrade
	StageSimulated
)

func (s Stage) String() string {
	switch s {
	case StageNoRange:
		return "no_range"
	case StageFiltered:
		return "filtered"
	case StageNoBreakout:
		return "no_breakout"
	case StageNoTrade:
		return "no_trade"
	case StageSimulated:
		return "simulated"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// DayResult is everything one (day, parameter set) run produced. Only
// StageSimulated carries a Result.
type DayResult struct {
	Day        session.Day
	ParamIndex int
	Params     string
	Stage      Stage

	Window   session.Window
	Range    orb.OpeningRange
	Breakout orb.BreakoutEvent
	Setup    risk.TradeSetup
	Result   sim.Result
	Features []filter.Feature
	Blocked  string
}

// RunDay runs range → filters → breakout → risk → simulation for one day.
// bars must be one instrument's bars, ascending, covering the filter windows
// through the exit bound. Missing data or setups stop at a Stage and are
// not errors. The errors are an invalid p (checked before any bar is read)
// and a *guard.TemporalViolation from a filter.
func RunDay(bars market.Bars, day session.Day, p Params) (DayResult, error) {
	if err := p.Validate(); err != nil {
		return DayResult{Day: day}, fmt.Errorf("invalid params: %w", err)
	}

	w := p.Session.Window(day)
	dr := DayResult{Day: day, Params: p.Label(), Window: w, Stage: StageNoRange}

	rng, ok := orb.BuildRangeForDay(bars, p.Instrument, day, p.Session.Anchor, p.Session.Duration, p.Session)
	if !ok {
		return dr, nil
	}
	dr.Range = rng

	if len(p.Filters) > 0 {
		d, err := filter.Gate(p.Filters, filter.Input{
			Bars:     bars,
			Session:  p.Session,
			Day:      day,
			TickSize: p.Risk.TickSize,
		})
		if err != nil {
			return dr, fmt.Errorf("%s %s: %w", day, dr.Params, err)
		}
		dr.Features = d.Features
		if !d.Pass {
			dr.Stage = StageFiltered
			dr.Blocked = d.Blocked
			return dr, nil
		}
	}

	bo, ok := orb.DetectBreakout(bars, rng, p.Risk.Rules(), w.ScanEnd)
	if !ok {
		dr.Stage = StageNoBreakout
		return dr, nil
	}
	dr.Breakout = bo

	setup, ok := risk.Resolve(bo, bars, p.Risk)
	if !ok || !setup.EntryTime.Before(w.ScanEnd) {
		dr.Stage = StageNoTrade
		return dr, nil
	}
	dr.Setup = setup

	dr.Result = sim.Simulate(setup, bars, sim.Bounds{End: w.ExitEnd, MaxBars: p.Risk.MaxHoldBars})
	dr.Stage = StageSimulated
	return dr, nil
}

// Span returns the [from, to) bar window RunDay reads for day under p.
func Span(day session.Day, p Params) (from, to time.Time) {
	w := p.Session.Window(day)
	from = filter.Earliest(p.Filters, p.Session, day)
	to = w.ExitEnd
	if w.ScanEnd.After(to) {
		to = w.ScanEnd
	}
	return from, to
}
