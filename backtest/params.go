package backtest

import (
	"fmt"
	"time"

	"github.com/rustyeddy/orb/filter"
	"github.com/rustyeddy/orb/risk"
	"github.com/rustyeddy/orb/session"
)

// Params is one parameter set. It is read-only once a run starts.
type Params struct {
	Instrument string
	Session    session.Config
	Risk       risk.Config
	Filters    []filter.Filter
}

// Validate must pass before any simulation uses p.
func (p Params) Validate() error {
	if p.Instrument == "" {
		return fmt.Errorf("instrument is required")
	}
	if err := p.Session.Validate(); err != nil {
		return err
	}
	return p.Risk.Validate()
}

// Label names the parameter set in journals and reports.
func (p Params) Label() string {
	s := fmt.Sprintf("rr=%g conf=%d dur=%d stop=%s anchor=%s",
		p.Risk.RewardMultiple, p.Risk.ConfirmationBars, int(p.Session.Duration/time.Minute),
		p.Risk.StopMode, p.Risk.Anchor)
	if p.Risk.BufferTicks > 0 {
		s += fmt.Sprintf(" buf=%d", p.Risk.BufferTicks)
	}
	if p.Risk.EntryDelayBars > 0 {
		s += fmt.Sprintf(" delay=%d", p.Risk.EntryDelayBars)
	}
	if p.Risk.MaxHoldBars > 0 {
		s += fmt.Sprintf(" hold=%d", p.Risk.MaxHoldBars)
	}
	return s
}

// Grid lists the values to sweep. An empty axis keeps the base value.
type Grid struct {
	RewardMultiples  []float64
	ConfirmationBars []int
	Durations        []time.Duration
	StopModes        []risk.StopMode
}

// Expand returns the cartesian product of g applied to base, in a stable
// order: stop mode, duration, confirmation bars, reward multiple.
func (g Grid) Expand(base Params) []Params {
	rms := g.RewardMultiples
	if len(rms) == 0 {
		rms = []float64{base.Risk.RewardMultiple}
	}
	confs := g.ConfirmationBars
	if len(confs) == 0 {
		confs = []int{base.Risk.ConfirmationBars}
	}
	durs := g.Durations
	if len(durs) == 0 {
		durs = []time.Duration{base.Session.Duration}
	}
	stops := g.StopModes
	if len(stops) == 0 {
		stops = []risk.StopMode{base.Risk.StopMode}
	}

	out := make([]Params, 0, len(rms)*len(confs)*len(durs)*len(stops))
	for _, sm := range stops {
		for _, d := range durs {
			for _, c := range confs {
				for _, rm := range rms {
					p := base
					p.Session.Duration = d
					p.Risk.StopMode = sm
					p.Risk.ConfirmationBars = c
					p.Risk.RewardMultiple = rm
					out = append(out, p)
				}
			}
		}
	}
	return out
}
