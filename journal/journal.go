package journal

import (
	"context"
	"errors"
	"time"
)

var ErrRunNotFound = errors.New("journal: run not found")

// RunRecord is one sweep or simulate invocation and its totals.
type RunRecord struct {
	RunID      string
	Created    time.Time
	Instrument string
	Timeframe  string
	Dataset    string
	From       string // first trading day, YYYY-MM-DD
	To         string // last trading day, inclusive
	Config     []byte // the resolved configuration, JSON

	ParamSets int
	Days      int

	Trades     int // simulated results, including no-decision
	Wins       int
	Losses     int
	NoDecision int
	Filtered   int
	TotalR     float64
	AvgR       float64
	WinRate    float64 // wins / (wins + losses)
}

// ResultRecord is one simulated trade.
type ResultRecord struct {
	ResultID  string
	RunID     string
	ParamSet  string
	Day       string
	Direction string
	Anchor    string

	EntryTime time.Time
	Entry     float64
	Stop      float64
	Target    float64

	Outcome        string
	ExitTime       time.Time // zero for NO_DECISION
	ExitPrice      float64
	RMultiple      float64
	MAE            float64
	MFE            float64
	BarsHeld       int
	EntryDelayBars int
}

type Journal interface {
	RecordRun(ctx context.Context, r RunRecord) error
	RecordResult(ctx context.Context, r ResultRecord) error
	Close() error
}
