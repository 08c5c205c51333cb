package orb

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/orb/market"
)

// Rules control how a breakout is confirmed.
type Rules struct {
	ConfirmationBars int     // consecutive closes beyond the boundary, >= 1
	BufferTicks      int     // extra ticks beyond the boundary, >= 0
	TickSize         float64 // price units per tick, > 0
}

func (r Rules) Validate() error {
	if r.ConfirmationBars < 1 {
		return fmt.Errorf("risk.confirmation_bars must be at least 1 (got %d)", r.ConfirmationBars)
	}
	if r.BufferTicks < 0 {
		return fmt.Errorf("risk.buffer_ticks must not be negative (got %d)", r.BufferTicks)
	}
	if r.TickSize <= 0 {
		return fmt.Errorf("risk.tick_size must be positive")
	}
	return nil
}

// BreakoutEvent is the first confirmed close beyond a range boundary.
type BreakoutEvent struct {
	Range        OpeningRange
	Direction    market.Direction
	TriggerIndex int // index of the trigger bar in the slice passed to DetectBreakout
	TriggerTime  time.Time
	TriggerClose float64
}

// Thresholds returns the closes a bar must exceed (up) or undercut (down):
// range boundary plus/minus BufferTicks*TickSize, computed in decimal so
// tick multiples do not pick up binary rounding.
func (r Rules) Thresholds(rng OpeningRange) (up, down float64) {
	buf := decimal.NewFromInt(int64(r.BufferTicks)).Mul(decimal.NewFromFloat(r.TickSize))
	up = decimal.NewFromFloat(rng.High).Add(buf).InexactFloat64()
	down = decimal.NewFromFloat(rng.Low).Sub(buf).InexactFloat64()
	return up, down
}

// DetectBreakout scans bars with rng.Close <= Time < scanEnd in order and
// returns the bar at which ConfirmationBars consecutive closes beyond the
// same boundary are reached. A non-confirming bar resets the count; a bar
// confirming the other side restarts the count for that side. ok is false
// when nothing qualifies before scanEnd.
func DetectBreakout(bars market.Bars, rng OpeningRange, rules Rules, scanEnd time.Time) (BreakoutEvent, bool) {
	need := rules.ConfirmationBars
	if need < 1 {
		need = 1
	}
	upAt, downAt := rules.Thresholds(rng)

	start := bars.IndexFrom(rng.Close)
	var (
		run int
		dir market.Direction
	)
	for i := start; i < len(bars); i++ {
		b := bars[i]
		if !b.Time.Before(scanEnd) {
			break
		}
		if !b.Time.After(rng.LastBarTime) {
			continue
		}

		var d market.Direction
		switch {
		case b.Close > upAt:
			d = market.Up
		case b.Close < downAt:
			d = market.Down
		}

		switch {
		case d == 0:
			run = 0
		case d == dir:
			run++
		default:
			dir, run = d, 1
		}
		if run > 0 && run >= need {
			return BreakoutEvent{
				Range:        rng,
				Direction:    dir,
				TriggerIndex: i,
				TriggerTime:  b.Time,
				TriggerClose: b.Close,
			}, true
		}
	}
	return BreakoutEvent{}, false
}
