package journal

import (
	"fmt"
	"io"
	"text/template"
	"time"
)

var runOrgFuncs = template.FuncMap{
	"mul100": func(x float64) float64 { return x * 100.0 },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
	"clock": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.UTC().Format("15:04")
	},
}

var runOrgTmpl = template.Must(template.New("run").Funcs(runOrgFuncs).Parse(RunOrgTemplate))

type orgView struct {
	RunRecord
	Results []ResultRecord
}

// WriteRunOrg renders a run and its results as an Org-mode document.
func WriteRunOrg(w io.Writer, run RunRecord, results []ResultRecord) error {
	if err := runOrgTmpl.Execute(w, orgView{RunRecord: run, Results: results}); err != nil {
		return fmt.Errorf("render run %s: %w", run.RunID, err)
	}
	return nil
}

const RunOrgTemplate = `* ORB BACKTEST: {{.Instrument}} {{if .Timeframe}}{{.Timeframe}}{{else}}(timeframe?){{end}}
:PROPERTIES:
:RUN_ID:      {{.RunID}}
:INSTRUMENT:  {{.Instrument}}
:TIMEFRAME:   {{.Timeframe}}
:DATASET:     {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
:FROM:        {{.From}}
:TO:          {{.To}}
:PARAM_SETS:  {{.ParamSets}}
:DAYS:        {{.Days}}
:TRADES:      {{.Trades}}
:WINS:        {{.Wins}}
:LOSSES:      {{.Losses}}
:NO_DECISION: {{.NoDecision}}
:FILTERED:    {{.Filtered}}
:TOTAL_R:     {{printf "%.2f" .TotalR}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Win Rate:  *{{printf "%.2f" (mul100 .WinRate)}}%*
- Total R:   *{{printf "%.2f" .TotalR}}*
- Average R: *{{printf "%.3f" .AvgR}}*

** Outcome Distribution
| Outcome     | Count |
|-------------+-------|
| Wins        | {{.Wins}} |
| Losses      | {{.Losses}} |
| No decision | {{.NoDecision}} |
| Total       | {{.Trades}} |
{{- if .Results}}

** Trades
| Day | Params | Dir | Entry | Stop | Target | Outcome | Exit | R | MAE | MFE |
|-----+--------+-----+-------+------+--------+---------+------+---+-----+-----|
{{- range .Results}}
| {{.Day}} | {{.ParamSet}} | {{.Direction}} | {{printf "%g" .Entry}} | {{printf "%g" .Stop}} | {{printf "%g" .Target}} | {{.Outcome}} | {{clock .ExitTime}} | {{printf "%.2f" .RMultiple}} | {{printf "%.2f" .MAE}} | {{printf "%.2f" .MFE}} |
{{- end}}
{{- end}}
`
