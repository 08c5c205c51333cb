// Package sim replays bars after an entry and resolves the trade outcome.
package sim

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/orb/risk"
)

type Outcome int

const (
	Open Outcome = iota
	Win
	Loss
	NoDecision
)

func (o Outcome) String() string {
	switch o {
	case Open:
		return "OPEN"
	case Win:
		return "WIN"
	case Loss:
		return "LOSS"
	case NoDecision:
		return "NO_DECISION"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "WIN":
		return Win, nil
	case "LOSS":
		return Loss, nil
	case "NO_DECISION":
		return NoDecision, nil
	default:
		return Open, fmt.Errorf("unknown outcome %q", s)
	}
}

// Bounds limit how far the simulation walks.
type Bounds struct {
	End     time.Time // bars at or after End are not walked; zero means no bound
	MaxBars int       // bars walked after entry; zero means no bound
}

// Result is the terminal record of one simulated trade.
type Result struct {
	Setup   risk.TradeSetup
	Outcome Outcome

	RMultiple float64
	ExitTime  time.Time
	ExitPrice float64
	BarsHeld  int

	MAE float64 // worst unrealized excursion, R units, >= 0
	MFE float64 // best unrealized excursion, R units, >= 0

	EntryDelayBars int
}
