package risk

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/orb/market"
	"github.com/rustyeddy/orb/orb"
)

// TradeSetup is the entry/stop/target derived once from a breakout.
// Risk is always positive.
type TradeSetup struct {
	Breakout   orb.BreakoutEvent
	Direction  market.Direction
	Anchor     Anchor
	EntryIndex int // index of the entry bar in the slice passed to Resolve
	EntryTime  time.Time
	EntryDelay int // bars between trigger and entry

	Entry  float64
	Stop   float64
	Target float64
	Risk   float64 // one R in price units under the configured anchor

	RewardMultiple float64
}

// StopDistance is |entry - stop| in R units. It is 1 for entry-anchored
// setups and at least 1 for range-anchored ones.
func (s TradeSetup) StopDistance() float64 {
	if s.Risk <= 0 {
		return 0
	}
	return s.Direction.Sign() * (s.Entry - s.Stop) / s.Risk
}

// Resolve derives the setup for bo under cfg. bars is the slice bo was
// detected in; the entry bar is the trigger bar, or EntryDelayBars after it.
// ok is false when the delayed entry bar does not exist or risk <= 0
// (degenerate range, entry at or beyond the stop). Non-positive risk is
// never clamped.
func Resolve(bo orb.BreakoutEvent, bars market.Bars, cfg Config) (TradeSetup, bool) {
	rng := bo.Range
	dir := bo.Direction
	if dir != market.Up && dir != market.Down {
		return TradeSetup{}, false
	}

	idx := bo.TriggerIndex + cfg.EntryDelayBars
	if idx < 0 || idx >= len(bars) {
		return TradeSetup{}, false
	}
	entryBar := bars[idx]
	if cfg.EntryDelayBars == 0 {
		entryBar.Close = bo.TriggerClose
	}

	sign := decimal.NewFromInt(int64(dir))
	tick := decimal.NewFromFloat(cfg.TickSize)

	entry := decimal.NewFromFloat(entryBar.Close)
	if cfg.ShiftEntryByBuffer && cfg.BufferTicks > 0 {
		entry = entry.Add(sign.Mul(decimal.NewFromInt(int64(cfg.BufferTicks))).Mul(tick))
	}

	high := decimal.NewFromFloat(rng.High)
	low := decimal.NewFromFloat(rng.Low)

	var stop decimal.Decimal
	switch cfg.StopMode {
	case StopFull:
		if dir == market.Up {
			stop = low
		} else {
			stop = high
		}
	case StopHalf:
		stop = high.Add(low).Div(decimal.NewFromInt(2))
	default:
		return TradeSetup{}, false
	}

	var from decimal.Decimal
	switch cfg.Anchor {
	case RangeAnchored:
		from = decimal.NewFromFloat(rng.Edge(dir))
	case EntryAnchored:
		from = entry
	default:
		return TradeSetup{}, false
	}

	// Signed so an entry already past the stop is rejected rather than
	// turned positive by abs.
	r := sign.Mul(from.Sub(stop))
	if !r.IsPositive() {
		return TradeSetup{}, false
	}
	// The stop must also sit on the losing side of the actual entry.
	if !sign.Mul(entry.Sub(stop)).IsPositive() {
		return TradeSetup{}, false
	}

	target := entry.Add(sign.Mul(decimal.NewFromFloat(cfg.RewardMultiple)).Mul(r))

	return TradeSetup{
		Breakout:       bo,
		Direction:      dir,
		Anchor:         cfg.Anchor,
		EntryIndex:     idx,
		EntryTime:      entryBar.Time,
		EntryDelay:     cfg.EntryDelayBars,
		Entry:          entry.InexactFloat64(),
		Stop:           stop.InexactFloat64(),
		Target:         target.InexactFloat64(),
		Risk:           r.InexactFloat64(),
		RewardMultiple: cfg.RewardMultiple,
	}, true
}
