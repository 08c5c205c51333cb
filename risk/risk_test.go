package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/orb/market"
	"github.com/rustyeddy/orb/orb"
)

var t0 = time.Date(2024, 3, 5, 14, 45, 0, 0, time.UTC)

func breakout(dir market.Direction, closes ...float64) (orb.BreakoutEvent, market.Bars) {
	bars := make(market.Bars, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{Time: t0.Add(time.Duration(i) * 5 * time.Minute), Open: c, High: c, Low: c, Close: c}
	}
	return orb.BreakoutEvent{
		Range:        orb.OpeningRange{High: 100.5, Low: 100.0},
		Direction:    dir,
		TriggerIndex: 0,
		TriggerTime:  bars[0].Time,
		TriggerClose: closes[0],
	}, bars
}

func baseConfig() Config {
	return Config{
		StopMode:         StopHalf,
		Anchor:           EntryAnchored,
		RewardMultiple:   2.0,
		ConfirmationBars: 1,
		TickSize:         0.05,
	}
}

func TestResolveHalfEntryAnchoredScenario(t *testing.T) {
	t.Parallel()

	bo, bars := breakout(market.Up, 100.6)
	s, ok := Resolve(bo, bars, baseConfig())
	require.True(t, ok)

	assert.Equal(t, 100.6, s.Entry)
	assert.Equal(t, 100.25, s.Stop)
	assert.Equal(t, 0.35, s.Risk)
	assert.Equal(t, 101.3, s.Target)
	assert.Equal(t, market.Up, s.Direction)
	assert.Equal(t, 0, s.EntryDelay)
	assert.InDelta(t, 1.0, s.StopDistance(), 1e-12)
	assert.InDelta(t, 2.0, (s.Target-s.Entry)/s.Risk, 1e-9)
}

func TestResolveDownSymmetric(t *testing.T) {
	t.Parallel()

	bo, bars := breakout(market.Down, 99.9)
	s, ok := Resolve(bo, bars, baseConfig())
	require.True(t, ok)

	assert.Equal(t, 99.9, s.Entry)
	assert.Equal(t, 100.25, s.Stop)
	assert.Equal(t, 0.35, s.Risk)
	assert.Equal(t, 99.2, s.Target)
}

func TestResolveStopModesAndAnchors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		dir        market.Direction
		close      float64
		mode       StopMode
		anchor     Anchor
		wantStop   float64
		wantRisk   float64
		wantTarget float64
	}{
		{"full entry up", market.Up, 100.6, StopFull, EntryAnchored, 100.0, 0.6, 101.8},
		{"full range up", market.Up, 100.6, StopFull, RangeAnchored, 100.0, 0.5, 101.6},
		{"half range up", market.Up, 100.6, StopHalf, RangeAnchored, 100.25, 0.25, 101.1},
		{"full entry down", market.Down, 99.9, StopFull, EntryAnchored, 100.5, 0.6, 98.7},
		{"full range down", market.Down, 99.9, StopFull, RangeAnchored, 100.5, 0.5, 98.9},
		{"half range down", market.Down, 99.9, StopHalf, RangeAnchored, 100.25, 0.25, 99.4},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := baseConfig()
			cfg.StopMode = tt.mode
			cfg.Anchor = tt.anchor

			bo, bars := breakout(tt.dir, tt.close)
			s, ok := Resolve(bo, bars, cfg)
			require.True(t, ok)
			assert.Equal(t, tt.wantStop, s.Stop)
			assert.Equal(t, tt.wantRisk, s.Risk)
			assert.Equal(t, tt.wantTarget, s.Target)
			assert.Equal(t, tt.anchor, s.Anchor)
		})
	}
}

// Entry-anchored risk never understates range-anchored risk when the entry
// lies beyond the range edge.
func TestEntryAnchoredRiskDominates(t *testing.T) {
	t.Parallel()

	for _, mode := range []StopMode{StopFull, StopHalf} {
		for _, c := range []float64{100.55, 100.6, 101, 103.25} {
			cfg := baseConfig()
			cfg.StopMode = mode

			bo, bars := breakout(market.Up, c)
			entry, ok := Resolve(bo, bars, cfg)
			require.True(t, ok)

			cfg.Anchor = RangeAnchored
			ranged, ok := Resolve(bo, bars, cfg)
			require.True(t, ok)

			assert.GreaterOrEqual(t, entry.Risk, ranged.Risk, "mode=%v close=%v", mode, c)
			assert.GreaterOrEqual(t, ranged.StopDistance(), 1.0)
		}
	}
}

func TestResolveNoTrade(t *testing.T) {
	t.Parallel()

	t.Run("degenerate range", func(t *testing.T) {
		t.Parallel()
		bo, bars := breakout(market.Up, 100.6)
		bo.Range = orb.OpeningRange{High: 100, Low: 100}
		cfg := baseConfig()
		cfg.Anchor = RangeAnchored
		_, ok := Resolve(bo, bars, cfg)
		assert.False(t, ok)
	})

	t.Run("delayed entry past stop", func(t *testing.T) {
		t.Parallel()
		bo, bars := breakout(market.Up, 100.6, 100.2)
		cfg := baseConfig()
		cfg.EntryDelayBars = 1
		_, ok := Resolve(bo, bars, cfg)
		assert.False(t, ok)

		cfg.Anchor = RangeAnchored
		_, ok = Resolve(bo, bars, cfg)
		assert.False(t, ok)
	})

	t.Run("delayed entry bar missing", func(t *testing.T) {
		t.Parallel()
		bo, bars := breakout(market.Up, 100.6)
		cfg := baseConfig()
		cfg.EntryDelayBars = 3
		_, ok := Resolve(bo, bars, cfg)
		assert.False(t, ok)
	})

	t.Run("unset anchor", func(t *testing.T) {
		t.Parallel()
		bo, bars := breakout(market.Up, 100.6)
		cfg := baseConfig()
		cfg.Anchor = AnchorUnset
		_, ok := Resolve(bo, bars, cfg)
		assert.False(t, ok)
	})
}

func TestResolveDelayedAndShiftedEntry(t *testing.T) {
	t.Parallel()

	bo, bars := breakout(market.Up, 100.6, 100.7, 100.8)
	cfg := baseConfig()
	cfg.EntryDelayBars = 2
	cfg.BufferTicks = 2
	cfg.ShiftEntryByBuffer = true

	s, ok := Resolve(bo, bars, cfg)
	require.True(t, ok)
	assert.Equal(t, 2, s.EntryIndex)
	assert.Equal(t, 2, s.EntryDelay)
	assert.Equal(t, bars[2].Time, s.EntryTime)
	assert.Equal(t, 100.9, s.Entry)
	assert.Equal(t, 0.65, s.Risk)
	assert.Equal(t, 102.2, s.Target)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, baseConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"missing anchor", func(c *Config) { c.Anchor = AnchorUnset }, "risk.risk_anchor is required"},
		{"missing stop mode", func(c *Config) { c.StopMode = StopUnset }, "risk.stop_mode is required"},
		{"zero reward", func(c *Config) { c.RewardMultiple = 0 }, "risk.reward_multiple"},
		{"zero confirmation", func(c *Config) { c.ConfirmationBars = 0 }, "risk.confirmation_bars"},
		{"negative buffer", func(c *Config) { c.BufferTicks = -2 }, "risk.buffer_ticks"},
		{"zero tick", func(c *Config) { c.TickSize = 0 }, "risk.tick_size"},
		{"negative delay", func(c *Config) { c.EntryDelayBars = -1 }, "risk.entry_delay_bars"},
		{"negative hold", func(c *Config) { c.MaxHoldBars = -1 }, "risk.max_hold_bars"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := baseConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestParseEnums(t *testing.T) {
	t.Parallel()

	var a Anchor
	require.NoError(t, a.UnmarshalText([]byte("ENTRY")))
	assert.Equal(t, EntryAnchored, a)
	require.NoError(t, a.UnmarshalText([]byte("range_anchored")))
	assert.Equal(t, RangeAnchored, a)
	assert.Error(t, a.UnmarshalText([]byte("both")))

	var m StopMode
	require.NoError(t, m.UnmarshalText([]byte("half")))
	assert.Equal(t, StopHalf, m)
	assert.Error(t, m.UnmarshalText([]byte("quarter")))

	b, err := StopFull.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "full", string(b))
	b, err = AnchorUnset.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "", string(b))
}
