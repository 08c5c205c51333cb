package backtest

import (
	"context"
	"time"

	"github.com/rustyeddy/orb/journal"
	"github.com/rustyeddy/orb/pkg/id"
	"github.com/rustyeddy/orb/sim"
)

// JournalSink records every simulated result of run runID in j. Days that
// stopped before simulation are not recorded.
func JournalSink(j journal.Journal, runID string) Sink {
	return func(ctx context.Context, dr DayResult) error {
		if dr.Stage != StageSimulated {
			return nil
		}
		return j.RecordResult(ctx, ResultRecord(runID, dr))
	}
}

// ResultRecord converts a simulated day result into its journal row.
func ResultRecord(runID string, dr DayResult) journal.ResultRecord {
	r := dr.Result
	rec := journal.ResultRecord{
		ResultID:       id.New(),
		RunID:          runID,
		ParamSet:       dr.Params,
		Day:            dr.Day.String(),
		Direction:      r.Setup.Direction.String(),
		Anchor:         r.Setup.Anchor.String(),
		EntryTime:      r.Setup.EntryTime,
		Entry:          r.Setup.Entry,
		Stop:           r.Setup.Stop,
		Target:         r.Setup.Target,
		Outcome:        r.Outcome.String(),
		ExitPrice:      r.ExitPrice,
		RMultiple:      r.RMultiple,
		MAE:            r.MAE,
		MFE:            r.MFE,
		BarsHeld:       r.BarsHeld,
		EntryDelayBars: r.EntryDelayBars,
	}
	if r.Outcome != sim.NoDecision {
		rec.ExitTime = r.ExitTime
	}
	return rec
}

// RunRecord builds the journal row for a finished sweep.
func RunRecord(rep Report, instrument, timeframe, dataset string, days, paramSets int, from, to string, cfg []byte) journal.RunRecord {
	created := rep.Started
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return journal.RunRecord{
		RunID:      rep.RunID,
		Created:    created,
		Instrument: instrument,
		Timeframe:  timeframe,
		Dataset:    dataset,
		From:       from,
		To:         to,
		Config:     cfg,
		ParamSets:  paramSets,
		Days:       days,
		Trades:     rep.Total.Trades,
		Wins:       rep.Total.Wins,
		Losses:     rep.Total.Losses,
		NoDecision: rep.Total.NoDecision,
		Filtered:   rep.Total.Filtered,
		TotalR:     rep.Total.TotalR,
		AvgR:       rep.Total.AvgR(),
		WinRate:    rep.Total.WinRate(),
	}
}
