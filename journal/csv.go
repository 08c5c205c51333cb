package journal

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

var resultsHeader = []string{
	"result_id", "run_id", "param_set", "day", "direction", "anchor",
	"entry_time", "entry", "stop", "target", "outcome", "exit_time", "exit_price",
	"r_multiple", "mae", "mfe", "bars_held", "entry_delay_bars",
}

var runsHeader = []string{
	"run_id", "created", "instrument", "timeframe", "dataset", "from", "to",
	"param_sets", "days", "trades", "wins", "losses", "no_decision", "filtered",
	"total_r", "avg_r", "win_rate",
}

// CSV writes results and runs to two files. Unlike SQLite, a run recorded
// twice appears twice; the last row carries the final totals.
type CSV struct {
	mu      sync.Mutex
	results *csv.Writer
	runs    *csv.Writer
	rf, uf  *os.File
}

var _ Journal = (*CSV)(nil)

func NewCSV(resultsPath, runsPath string) (*CSV, error) {
	rf, err := os.Create(resultsPath)
	if err != nil {
		return nil, err
	}
	uf, err := os.Create(runsPath)
	if err != nil {
		_ = rf.Close()
		return nil, err
	}

	j := &CSV{results: csv.NewWriter(rf), runs: csv.NewWriter(uf), rf: rf, uf: uf}
	if err := j.write(j.results, resultsHeader); err != nil {
		_ = j.Close()
		return nil, err
	}
	if err := j.write(j.runs, runsHeader); err != nil {
		_ = j.Close()
		return nil, err
	}
	return j, nil
}

func (j *CSV) RecordRun(_ context.Context, r RunRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.write(j.runs, []string{
		r.RunID,
		r.Created.UTC().Format(time.RFC3339),
		r.Instrument,
		r.Timeframe,
		r.Dataset,
		r.From,
		r.To,
		strconv.Itoa(r.ParamSets),
		strconv.Itoa(r.Days),
		strconv.Itoa(r.Trades),
		strconv.Itoa(r.Wins),
		strconv.Itoa(r.Losses),
		strconv.Itoa(r.NoDecision),
		strconv.Itoa(r.Filtered),
		f(r.TotalR),
		f(r.AvgR),
		f(r.WinRate),
	})
}

func (j *CSV) RecordResult(_ context.Context, r ResultRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	exit := ""
	if !r.ExitTime.IsZero() {
		exit = r.ExitTime.UTC().Format(time.RFC3339)
	}

	return j.write(j.results, []string{
		r.ResultID,
		r.RunID,
		r.ParamSet,
		r.Day,
		r.Direction,
		r.Anchor,
		r.EntryTime.UTC().Format(time.RFC3339),
		f(r.Entry),
		f(r.Stop),
		f(r.Target),
		r.Outcome,
		exit,
		f(r.ExitPrice),
		f(r.RMultiple),
		f(r.MAE),
		f(r.MFE),
		strconv.Itoa(r.BarsHeld),
		strconv.Itoa(r.EntryDelayBars),
	})
}

func (j *CSV) write(w *csv.Writer, row []string) error {
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	w.Flush()
	return w.Error()
}

func (j *CSV) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.results.Flush()
	j.runs.Flush()
	err1 := j.rf.Close()
	err2 := j.uf.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
