package sim

import (
	"github.com/rustyeddy/orb/market"
	"github.com/rustyeddy/orb/risk"
)

// Simulate walks bars strictly after the setup's entry bar until the stop or
// target is touched or the bounds are reached. bars is the ascending slice
// the setup was resolved from.
//
// A bar that touches both stop and target is a LOSS: fills inside a single
// bar are never assumed to be in our favour. WIN pays RewardMultiple R, LOSS
// costs 1R, NO_DECISION is 0R. Simulate is a pure function of its inputs.
func Simulate(setup risk.TradeSetup, bars market.Bars, b Bounds) Result {
	res := Result{
		Setup:          setup,
		Outcome:        Open,
		EntryDelayBars: setup.EntryDelay,
	}
	if setup.Risk <= 0 {
		res.Outcome = NoDecision
		return res
	}

	start := setup.EntryIndex + 1
	if start < 1 || setup.EntryIndex >= len(bars) || !bars[setup.EntryIndex].Time.Equal(setup.EntryTime) {
		// Entry bar is not where the setup says; locate it by time.
		start = bars.IndexFrom(setup.EntryTime)
		if start < len(bars) && bars[start].Time.Equal(setup.EntryTime) {
			start++
		}
	}

	for i := start; i < len(bars); i++ {
		bar := bars[i]
		if !b.End.IsZero() && !bar.Time.Before(b.End) {
			break
		}
		if b.MaxBars > 0 && res.BarsHeld >= b.MaxBars {
			break
		}
		res.BarsHeld++

		stopHit, targetHit := touches(setup, bar)
		fav, adv := excursions(setup, bar)

		switch {
		case stopHit:
			res.MAE = max(res.MAE, setup.StopDistance())
			return res.exit(Loss, -1.0, bar, setup.Stop)
		case targetHit:
			res.MFE = max(res.MFE, setup.RewardMultiple)
			res.MAE = max(res.MAE, adv)
			return res.exit(Win, setup.RewardMultiple, bar, setup.Target)
		}

		res.MFE = max(res.MFE, fav)
		res.MAE = max(res.MAE, adv)
		res.ExitTime = bar.Time
		res.ExitPrice = bar.Close
	}

	res.Outcome = NoDecision
	res.RMultiple = 0
	return res
}

func (r Result) exit(o Outcome, rm float64, bar market.Bar, px float64) Result {
	r.Outcome = o
	r.RMultiple = rm
	r.ExitTime = bar.Time
	r.ExitPrice = px
	return r
}

// touches checks stop and target against the bar's range. Stop and target
// are evaluated independently so the caller can apply the tie-break.
func touches(s risk.TradeSetup, bar market.Bar) (stop, target bool) {
	switch s.Direction {
	case market.Up:
		return bar.Low <= s.Stop, bar.High >= s.Target
	case market.Down:
		return bar.High >= s.Stop, bar.Low <= s.Target
	}
	return false, false
}

// excursions returns the favourable and adverse move of bar from the entry,
// in R units, floored at zero.
func excursions(s risk.TradeSetup, bar market.Bar) (fav, adv float64) {
	switch s.Direction {
	case market.Up:
		fav = (bar.High - s.Entry) / s.Risk
		adv = (s.Entry - bar.Low) / s.Risk
	case market.Down:
		fav = (s.Entry - bar.Low) / s.Risk
		adv = (bar.High - s.Entry) / s.Risk
	}
	return max(fav, 0), max(adv, 0)
}
