package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/orb/market"
	"github.com/rustyeddy/orb/orb"
	"github.com/rustyeddy/orb/risk"
)

var entryTime = time.Date(2024, 3, 5, 14, 45, 0, 0, time.UTC)

func at(i int) time.Time {
	return entryTime.Add(time.Duration(i) * 5 * time.Minute)
}

// upSetup is the range [100.0, 100.5], half stop, entry anchored, 2R case:
// entry 100.6, stop 100.25, risk 0.35, target 101.3.
func upSetup(t *testing.T) (risk.TradeSetup, market.Bars) {
	t.Helper()
	bars := market.Bars{{Time: at(0), Open: 100.55, High: 100.65, Low: 100.5, Close: 100.6}}
	bo := orb.BreakoutEvent{
		Range:        orb.OpeningRange{High: 100.5, Low: 100.0},
		Direction:    market.Up,
		TriggerIndex: 0,
		TriggerTime:  at(0),
		TriggerClose: 100.6,
	}
	s, ok := risk.Resolve(bo, bars, risk.Config{
		StopMode:         risk.StopHalf,
		Anchor:           risk.EntryAnchored,
		RewardMultiple:   2,
		ConfirmationBars: 1,
		TickSize:         0.05,
	})
	require.True(t, ok)
	return s, bars
}

func downSetup(t *testing.T) (risk.TradeSetup, market.Bars) {
	t.Helper()
	bars := market.Bars{{Time: at(0), Open: 99.95, High: 100.0, Low: 99.85, Close: 99.9}}
	bo := orb.BreakoutEvent{
		Range:        orb.OpeningRange{High: 100.5, Low: 100.0},
		Direction:    market.Down,
		TriggerIndex: 0,
		TriggerTime:  at(0),
		TriggerClose: 99.9,
	}
	s, ok := risk.Resolve(bo, bars, risk.Config{
		StopMode:         risk.StopHalf,
		Anchor:           risk.EntryAnchored,
		RewardMultiple:   2,
		ConfirmationBars: 1,
		TickSize:         0.05,
	})
	require.True(t, ok)
	return s, bars
}

func TestTieBreakIsLoss(t *testing.T) {
	t.Parallel()

	s, bars := upSetup(t)
	bars = append(bars, market.Bar{Time: at(1), Open: 100.6, High: 101.3, Low: 100.0, Close: 100.8})

	res := Simulate(s, bars, Bounds{})
	assert.Equal(t, Loss, res.Outcome)
	assert.Equal(t, -1.0, res.RMultiple)
	assert.Equal(t, at(1), res.ExitTime)
	assert.Equal(t, 100.25, res.ExitPrice)
	assert.Equal(t, 1, res.BarsHeld)

	d, dbars := downSetup(t)
	dbars = append(dbars, market.Bar{Time: at(1), Open: 99.9, High: 100.3, Low: 99.1, Close: 99.5})
	res = Simulate(d, dbars, Bounds{})
	assert.Equal(t, Loss, res.Outcome, "tie-break applies in both directions")
	assert.Equal(t, -1.0, res.RMultiple)
}

func TestWin(t *testing.T) {
	t.Parallel()

	s, bars := upSetup(t)
	bars = append(bars,
		market.Bar{Time: at(1), Open: 100.6, High: 100.9, Low: 100.4, Close: 100.8},
		market.Bar{Time: at(2), Open: 100.8, High: 101.4, Low: 100.7, Close: 101.2},
		market.Bar{Time: at(3), Open: 101.2, High: 101.2, Low: 99.0, Close: 99.5},
	)

	res := Simulate(s, bars, Bounds{})
	assert.Equal(t, Win, res.Outcome)
	assert.Equal(t, 2.0, res.RMultiple)
	assert.Equal(t, at(2), res.ExitTime)
	assert.Equal(t, 101.3, res.ExitPrice)
	assert.Equal(t, 2, res.BarsHeld)
	assert.Equal(t, 2.0, res.MFE)
	assert.InDelta(t, 0.2/0.35, res.MAE, 1e-9)
}

func TestLoss(t *testing.T) {
	t.Parallel()

	d, bars := downSetup(t)
	bars = append(bars,
		market.Bar{Time: at(1), Open: 99.9, High: 99.95, Low: 99.6, Close: 99.7},
		market.Bar{Time: at(2), Open: 99.7, High: 100.3, Low: 99.7, Close: 100.2},
	)

	res := Simulate(d, bars, Bounds{})
	assert.Equal(t, Loss, res.Outcome)
	assert.Equal(t, -1.0, res.RMultiple)
	assert.InDelta(t, 0.3/0.35, res.MFE, 1e-9)
	assert.InDelta(t, 1.0, res.MAE, 1e-9)
}

func TestNoDecisionAtBoundary(t *testing.T) {
	t.Parallel()

	s, bars := upSetup(t)
	bars = append(bars,
		market.Bar{Time: at(1), Open: 100.6, High: 100.9, Low: 100.4, Close: 100.8},
		market.Bar{Time: at(2), Open: 100.8, High: 101.0, Low: 100.5, Close: 100.9},
		market.Bar{Time: at(3), Open: 100.9, High: 102.0, Low: 100.8, Close: 101.9}, // after the bound
	)

	res := Simulate(s, bars, Bounds{End: at(3)})
	assert.Equal(t, NoDecision, res.Outcome)
	assert.Equal(t, 0.0, res.RMultiple)
	assert.Equal(t, 2, res.BarsHeld)
	assert.Equal(t, at(2), res.ExitTime)
	assert.InDelta(t, 0.4/0.35, res.MFE, 1e-9)

	res = Simulate(s, bars, Bounds{MaxBars: 1})
	assert.Equal(t, NoDecision, res.Outcome)
	assert.Equal(t, 1, res.BarsHeld)

	res = Simulate(s, bars[:1], Bounds{})
	assert.Equal(t, NoDecision, res.Outcome)
	assert.Equal(t, 0, res.BarsHeld)
	assert.True(t, res.ExitTime.IsZero())
}

func TestEntryBarIsNotWalked(t *testing.T) {
	t.Parallel()

	s, bars := upSetup(t)
	// The entry bar itself dips through the stop; only later bars count.
	bars[0].Low = 100.0
	bars = append(bars, market.Bar{Time: at(1), Open: 100.6, High: 101.5, Low: 100.5, Close: 101.4})

	res := Simulate(s, bars, Bounds{})
	assert.Equal(t, Win, res.Outcome)
}

func TestEntryLocatedByTime(t *testing.T) {
	t.Parallel()

	s, bars := upSetup(t)
	prefix := market.Bars{{Time: at(-2)}, {Time: at(-1)}}
	bars = append(prefix, append(bars, market.Bar{Time: at(1), Open: 100.6, High: 100.7, Low: 100.2, Close: 100.3})...)

	res := Simulate(s, bars, Bounds{})
	assert.Equal(t, Loss, res.Outcome)
	assert.Equal(t, at(1), res.ExitTime)
}

func TestEntryDelayThreaded(t *testing.T) {
	t.Parallel()

	s, bars := upSetup(t)
	s.EntryDelay = 3
	res := Simulate(s, bars, Bounds{})
	assert.Equal(t, 3, res.EntryDelayBars)
}

func TestSimulateIsIdempotent(t *testing.T) {
	t.Parallel()

	s, bars := upSetup(t)
	bars = append(bars,
		market.Bar{Time: at(1), Open: 100.6, High: 100.9, Low: 100.4, Close: 100.8},
		market.Bar{Time: at(2), Open: 100.8, High: 101.0, Low: 100.2, Close: 100.3},
	)

	first := Simulate(s, bars, Bounds{End: at(10)})
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Simulate(s, bars, Bounds{End: at(10)}))
	}
}

func TestOutcomeStrings(t *testing.T) {
	t.Parallel()

	for _, o := range []Outcome{Win, Loss, NoDecision} {
		got, err := ParseOutcome(o.String())
		require.NoError(t, err)
		assert.Equal(t, o, got)
	}
	_, err := ParseOutcome("maybe")
	assert.Error(t, err)
	assert.Equal(t, "OPEN", Open.String())
}
