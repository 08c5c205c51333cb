// Package risk turns a breakout into entry, stop and target prices.
package risk

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/orb/orb"
)

// StopMode selects where the protective stop sits.
type StopMode int

const (
	StopUnset StopMode = iota
	StopFull           // opposite range boundary
	StopHalf           // range midpoint
)

func (m StopMode) String() string {
	switch m {
	case StopFull:
		return "full"
	case StopHalf:
		return "half"
	default:
		return ""
	}
}

func ParseStopMode(s string) (StopMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return StopUnset, nil
	case "full":
		return StopFull, nil
	case "half":
		return StopHalf, nil
	default:
		return StopUnset, fmt.Errorf("unknown stop mode %q (supported: full, half)", s)
	}
}

func (m StopMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *StopMode) UnmarshalText(b []byte) error {
	v, err := ParseStopMode(string(b))
	if err != nil {
		return fmt.Errorf("stop_mode: %w", err)
	}
	*m = v
	return nil
}

// Anchor selects what one unit of risk (1R) is measured from. The two
// conventions give different R values for the same trade and must never be
// mixed within one run, so there is no default.
type Anchor int

const (
	AnchorUnset Anchor = iota
	RangeAnchored       // |range edge in breakout direction - stop|
	EntryAnchored       // |entry - stop|
)

func (a Anchor) String() string {
	switch a {
	case RangeAnchored:
		return "range"
	case EntryAnchored:
		return "entry"
	default:
		return ""
	}
}

func ParseAnchor(s string) (Anchor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return AnchorUnset, nil
	case "range", "range_anchored":
		return RangeAnchored, nil
	case "entry", "entry_anchored":
		return EntryAnchored, nil
	default:
		return AnchorUnset, fmt.Errorf("unknown risk anchor %q (supported: range, entry)", s)
	}
}

func (a Anchor) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Anchor) UnmarshalText(b []byte) error {
	v, err := ParseAnchor(string(b))
	if err != nil {
		return fmt.Errorf("risk_anchor: %w", err)
	}
	*a = v
	return nil
}

// Config is the risk model for one run. It is never mutated during a
// simulation.
type Config struct {
	StopMode         StopMode `json:"stop_mode" yaml:"stop_mode"`
	Anchor           Anchor   `json:"risk_anchor" yaml:"risk_anchor"`
	RewardMultiple   float64  `json:"reward_multiple" yaml:"reward_multiple"`
	ConfirmationBars int      `json:"confirmation_bars" yaml:"confirmation_bars"`
	BufferTicks      int      `json:"buffer_ticks" yaml:"buffer_ticks"`
	TickSize         float64  `json:"tick_size" yaml:"tick_size"`

	// ShiftEntryByBuffer moves the entry BufferTicks further in the
	// breakout direction from the observed close.
	ShiftEntryByBuffer bool `json:"shift_entry_by_buffer" yaml:"shift_entry_by_buffer"`

	// EntryDelayBars waits this many bars after the trigger and enters at
	// that bar's close.
	EntryDelayBars int `json:"entry_delay_bars" yaml:"entry_delay_bars"`

	// MaxHoldBars ends the simulation after this many bars past entry.
	// Zero means the session exit bound alone applies.
	MaxHoldBars int `json:"max_hold_bars" yaml:"max_hold_bars"`
}

// Rules returns the breakout confirmation rules embedded in c.
func (c Config) Rules() orb.Rules {
	return orb.Rules{
		ConfirmationBars: c.ConfirmationBars,
		BufferTicks:      c.BufferTicks,
		TickSize:         c.TickSize,
	}
}

// Validate fails on any ambiguous or out-of-range setting. It must pass
// before a single simulation runs.
func (c Config) Validate() error {
	switch c.StopMode {
	case StopFull, StopHalf:
	default:
		return fmt.Errorf("risk.stop_mode is required (full or half)")
	}
	switch c.Anchor {
	case RangeAnchored, EntryAnchored:
	default:
		return fmt.Errorf("risk.risk_anchor is required (range or entry)")
	}
	if c.RewardMultiple <= 0 {
		return fmt.Errorf("risk.reward_multiple must be positive")
	}
	if err := c.Rules().Validate(); err != nil {
		return err
	}
	if c.EntryDelayBars < 0 {
		return fmt.Errorf("risk.entry_delay_bars must not be negative")
	}
	if c.MaxHoldBars < 0 {
		return fmt.Errorf("risk.max_hold_bars must not be negative")
	}
	return nil
}
