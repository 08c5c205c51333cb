package backtest

import (
	"fmt"
	"io"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/orb/sim"
)

// Summary aggregates day results. NO_DECISION trades count toward Trades and
// AvgR at 0R but not toward the win rate.
type Summary struct {
	Runs       int
	NoRange    int
	Filtered   int
	NoBreakout int
	NoTrade    int

	Trades     int
	Wins       int
	Losses     int
	NoDecision int

	TotalR float64
}

func (s *Summary) Add(dr DayResult) {
	s.Runs++
	switch dr.Stage {
	case StageNoRange:
		s.NoRange++
	case StageFiltered:
		s.Filtered++
	case StageNoBreakout:
		s.NoBreakout++
	case StageNoTrade:
		s.NoTrade++
	case StageSimulated:
		s.Trades++
		switch dr.Result.Outcome {
		case sim.Win:
			s.Wins++
		case sim.Loss:
			s.Losses++
		default:
			s.NoDecision++
		}
		s.TotalR = decimal.NewFromFloat(s.TotalR).
			Add(decimal.NewFromFloat(dr.Result.RMultiple)).
			InexactFloat64()
	}
}

func (s *Summary) Merge(o Summary) {
	s.Runs += o.Runs
	s.NoRange += o.NoRange
	s.Filtered += o.Filtered
	s.NoBreakout += o.NoBreakout
	s.NoTrade += o.NoTrade
	s.Trades += o.Trades
	s.Wins += o.Wins
	s.Losses += o.Losses
	s.NoDecision += o.NoDecision
	s.TotalR = decimal.NewFromFloat(s.TotalR).Add(decimal.NewFromFloat(o.TotalR)).InexactFloat64()
}

// WinRate is wins / (wins + losses), or 0 with no decided trades.
func (s Summary) WinRate() float64 {
	decided := s.Wins + s.Losses
	if decided == 0 {
		return 0
	}
	return float64(s.Wins) / float64(decided)
}

// AvgR is TotalR over all simulated trades, or 0 with none.
func (s Summary) AvgR() float64 {
	if s.Trades == 0 {
		return 0
	}
	return s.TotalR / float64(s.Trades)
}

func PrintSummary(w io.Writer, title string, s Summary) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, " %s\n", title)
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintln(w, "Pipeline")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Runs:          %d\n", s.Runs)
	fmt.Fprintf(w, "No Range:      %d\n", s.NoRange)
	fmt.Fprintf(w, "Filtered:      %d\n", s.Filtered)
	fmt.Fprintf(w, "No Breakout:   %d\n", s.NoBreakout)
	fmt.Fprintf(w, "No Trade:      %d\n", s.NoTrade)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", s.Trades)
	fmt.Fprintf(w, "Wins:          %d\n", s.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", s.Losses)
	fmt.Fprintf(w, "No Decision:   %d\n", s.NoDecision)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", s.WinRate()*100)
	fmt.Fprintf(w, "Total R:       %.2f\n", s.TotalR)
	fmt.Fprintf(w, "Average R:     %.3f\n", s.AvgR())
}

// PrintParamTable prints one row per parameter set, best total R first.
func PrintParamTable(w io.Writer, byParams map[string]Summary) {
	labels := make([]string, 0, len(byParams))
	for l := range byParams {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		a, b := byParams[labels[i]], byParams[labels[j]]
		if a.TotalR != b.TotalR {
			return a.TotalR > b.TotalR
		}
		return labels[i] < labels[j]
	})

	fmt.Fprintf(w, "%-52s %6s %5s %5s %5s %7s %8s %7s\n", "PARAMS", "TRADES", "WIN", "LOSS", "ND", "WIN%", "TOTAL_R", "AVG_R")
	for _, l := range labels {
		s := byParams[l]
		fmt.Fprintf(w, "%-52s %6d %5d %5d %5d %6.1f%% %8.2f %7.3f\n",
			l, s.Trades, s.Wins, s.Losses, s.NoDecision, s.WinRate()*100, s.TotalR, s.AvgR())
	}
}
